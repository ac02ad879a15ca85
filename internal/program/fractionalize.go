package program

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/goldmintlabs/nft-manager/internal/events"
)

// FractionalizeArgs names the source token and describes the two parts it
// splits into.
type FractionalizeArgs struct {
	Discriminant uint64
	PartA        MintArgs
	PartB        MintArgs
}

// FractionalizeReceipt reports the staged split and the fee charged.
type FractionalizeReceipt struct {
	Mint solana.PublicKey
	Fee  uint64
}

// FractionalizeNFT locks the caller's token and stages its two parts. The
// weight of the parts must sum exactly to the source weight; this is checked
// before anything is touched. The parts receive discriminants when
// FinalizeFractionalizeNFT commits them.
func (e *Engine) FractionalizeNFT(ctx context.Context, caller solana.PublicKey, args FractionalizeArgs) (*FractionalizeReceipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, _, _, err := e.manager(); err != nil {
		return nil, err
	}

	mintAddr, _, token, err := e.token(args.Discriminant)
	if err != nil {
		return nil, err
	}
	if token.Supply != SupplySettled {
		return nil, ErrTokenNotSettled
	}
	if !token.Owner.Equals(caller) {
		return nil, ErrNotOwner
	}

	listingAddr, err := ListingAddress(mintAddr)
	if err != nil {
		return nil, err
	}
	if _, ok := e.store.Get(listingAddr); ok {
		return nil, ErrTokenListed
	}

	if args.PartA.Weight == 0 || args.PartB.Weight == 0 {
		return nil, ErrInvalidWeight
	}
	if args.PartA.Weight > token.Weight || args.PartA.Weight+args.PartB.Weight != token.Weight {
		return nil, ErrWeightMismatch
	}

	pendingAddr, err := PendingFractionalizeAddress(mintAddr)
	if err != nil {
		return nil, err
	}
	if _, ok := e.store.Get(pendingAddr); ok {
		return nil, ErrAlreadyExists
	}

	update, err := e.readPrices(ctx)
	if err != nil {
		return nil, err
	}
	value, err := GoldValueInLamports(update.Gold, update.Sol, token.Weight)
	if err != nil {
		return nil, err
	}

	feesAcc, fees, err := e.feesCollector()
	if err != nil {
		return nil, err
	}
	fee, err := FeeAmount(value, fees.FractionalizeFeeBps)
	if err != nil {
		return nil, err
	}
	if err := addLamports(feesAcc, fee); err != nil {
		return nil, err
	}

	token.Supply = SupplyStaged
	e.store.Set(pendingAddr, newAccount(&PendingFractionalize{
		Mint:         mintAddr,
		Discriminant: args.Discriminant,
		PartA:        args.PartA,
		PartB:        args.PartB,
		Fee:          fee,
	}))

	e.logger.Debug("Fractionalize staged",
		zap.Uint64("discriminant", args.Discriminant),
		zap.Uint64("fee_lamports", fee))

	e.emit(ctx, events.FractionalizeRequestedEvent{
		BaseEvent:    e.base(events.FractionalizeRequested),
		Mint:         mintAddr,
		Discriminant: args.Discriminant,
		Fee:          fee,
	})

	return &FractionalizeReceipt{Mint: mintAddr, Fee: fee}, nil
}

// FinalizeFractionalizeNFT commits a staged split: the source token is
// burned, both parts materialize at the next two counter values, and the
// counter advances by two.
func (e *Engine) FinalizeFractionalizeNFT(ctx context.Context, caller solana.PublicKey, discriminant uint64) error {
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
	pendingAddr, err := PendingFractionalizeAddress(mintAddr)
	if err != nil {
		return err
	}
	pendingAcc, ok := e.store.Get(pendingAddr)
	if !ok {
		return ErrNoPendingFractional
	}
	pending := pendingAcc.Data.(*PendingFractionalize)

	sourceAcc, ok := e.store.Get(mintAddr)
	if !ok {
		return ErrTokenNotFound
	}
	source := sourceAcc.Data.(*Token)

	discA := manager.Discriminant
	discB := discA + 1
	if discB < discA || discB+1 < discB {
		return ErrOverflow
	}
	addrA, err := TokenAddress(discA)
	if err != nil {
		return err
	}
	addrB, err := TokenAddress(discB)
	if err != nil {
		return err
	}
	if _, ok := e.store.Get(addrA); ok {
		return ErrAlreadyExists
	}
	if _, ok := e.store.Get(addrB); ok {
		return ErrAlreadyExists
	}

	e.store.Set(addrA, newAccount(&Token{
		Discriminant: discA,
		Weight:       pending.PartA.Weight,
		Name:         pending.PartA.Name,
		Symbol:       pending.PartA.Symbol,
		URI:          pending.PartA.URI,
		Collection:   manager.Collection,
		Owner:        source.Owner,
		Supply:       SupplySettled,
	}))
	e.store.Set(addrB, newAccount(&Token{
		Discriminant: discB,
		Weight:       pending.PartB.Weight,
		Name:         pending.PartB.Name,
		Symbol:       pending.PartB.Symbol,
		URI:          pending.PartB.URI,
		Collection:   manager.Collection,
		Owner:        source.Owner,
		Supply:       SupplySettled,
	}))
	e.store.Delete(mintAddr)
	e.store.Delete(pendingAddr)
	manager.Discriminant += 2

	e.emit(ctx, events.FractionalizeFinalizedEvent{
		BaseEvent:     e.base(events.FractionalizeFinalized),
		Mint:          mintAddr,
		PartA:         addrA,
		PartB:         addrB,
		DiscriminantA: discA,
		DiscriminantB: discB,
	})

	return nil
}
