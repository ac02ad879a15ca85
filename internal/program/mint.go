package program

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/goldmintlabs/nft-manager/internal/events"
)

// MintReceipt reports what a mint request staged and what it cost.
type MintReceipt struct {
	Mint         solana.PublicKey
	Discriminant uint64
	Price        uint64
}

// MintNFT stages a new token at the current counter value and charges the
// caller the oracle-quoted value of its weight. The token is not spendable
// until FinalizeMintNFT commits it; the counter does not advance until then
// either. A zero recipient mints to the caller.
func (e *Engine) MintNFT(ctx context.Context, caller, recipient solana.PublicKey, args MintArgs) (*MintReceipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, managerAcc, manager, err := e.manager()
	if err != nil {
		return nil, err
	}
	if args.Weight == 0 {
		return nil, ErrInvalidWeight
	}
	if recipient.IsZero() {
		recipient = caller
	}

	mintAddr, err := TokenAddress(manager.Discriminant)
	if err != nil {
		return nil, err
	}
	if _, ok := e.store.Get(mintAddr); ok {
		// A mint at this counter value is already staged and waiting for
		// finalize.
		return nil, ErrAlreadyExists
	}
	pendingAddr, err := PendingMintAddress(mintAddr)
	if err != nil {
		return nil, err
	}

	update, err := e.readPrices(ctx)
	if err != nil {
		return nil, err
	}
	price, err := GoldValueInLamports(update.Gold, update.Sol, args.Weight)
	if err != nil {
		return nil, err
	}

	mintFeesAcc, mintFees, err := e.mintFeesCollector()
	if err != nil {
		return nil, err
	}
	fee, err := FeeAmount(price, mintFees.MintFeeBps)
	if err != nil {
		return nil, err
	}
	// Both credits are checked before either applies.
	if !canAddLamports(mintFeesAcc, fee) || !canAddLamports(managerAcc, price-fee) {
		return nil, ErrOverflow
	}
	mintFeesAcc.Lamports += fee
	managerAcc.Lamports += price - fee

	discriminant := manager.Discriminant
	e.store.Set(mintAddr, newAccount(&Token{
		Discriminant: discriminant,
		Weight:       args.Weight,
		Name:         args.Name,
		Symbol:       args.Symbol,
		URI:          args.URI,
		Collection:   manager.Collection,
		Owner:        recipient,
		Supply:       SupplyStaged,
	}))
	e.store.Set(pendingAddr, newAccount(&PendingMint{
		Mint:         mintAddr,
		Discriminant: discriminant,
		Weight:       args.Weight,
		Price:        price,
	}))

	e.logger.Debug("Mint staged",
		zap.Uint64("discriminant", discriminant),
		zap.Uint64("price_lamports", price),
		zap.String("recipient", recipient.String()))

	e.emit(ctx, events.MintRequestedEvent{
		BaseEvent:    e.base(events.MintRequested),
		Mint:         mintAddr,
		Recipient:    recipient,
		Discriminant: discriminant,
		Price:        price,
	})

	return &MintReceipt{Mint: mintAddr, Discriminant: discriminant, Price: price}, nil
}

// FinalizeMintNFT commits a staged mint: the token becomes spendable and the
// counter advances. Retrying after success fails with ErrNoPendingMint,
// never double-applies.
func (e *Engine) FinalizeMintNFT(ctx context.Context, caller solana.PublicKey, discriminant uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, _, manager, err := e.manager()
	if err != nil {
		return err
	}

	mintAddr, err := TokenAddress(discriminant)
	if err != nil {
		return err
	}
	tokenAcc, ok := e.store.Get(mintAddr)
	if !ok {
		return ErrNoPendingMint
	}
	pendingAddr, err := PendingMintAddress(mintAddr)
	if err != nil {
		return err
	}
	pendingAcc, ok := e.store.Get(pendingAddr)
	if !ok {
		return ErrNoPendingMint
	}
	pending := pendingAcc.Data.(*PendingMint)
	if manager.Discriminant+1 < manager.Discriminant {
		return ErrOverflow
	}

	token := tokenAcc.Data.(*Token)
	token.Supply = SupplySettled
	manager.Discriminant++
	e.store.Delete(pendingAddr)

	e.emit(ctx, events.MintFinalizedEvent{
		BaseEvent:    e.base(events.MintFinalized),
		Mint:         mintAddr,
		Discriminant: discriminant,
		Weight:       pending.Weight,
	})

	return nil
}
