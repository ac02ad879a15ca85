package program

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/goldmintlabs/nft-manager/internal/events"
)

// CollectionMeta describes the collection created at initialization. It is
// immutable afterwards.
type CollectionMeta struct {
	Name   string
	Symbol string
	URI    string
}

// Initialize creates the registry, the collection and both fee ledgers. The
// caller becomes the authority. Runs once for the system's lifetime.
func (e *Engine) Initialize(ctx context.Context, caller solana.PublicKey, meta CollectionMeta, sellFeeBps, fractionalizeFeeBps uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	managerAddr, err := ManagerAddress()
	if err != nil {
		return err
	}
	if _, ok := e.store.Get(managerAddr); ok {
		return ErrAlreadyInitialized
	}
	if sellFeeBps > MaxFeeBps || fractionalizeFeeBps > MaxFeeBps {
		return ErrInvalidFee
	}

	collectionAddr, err := CollectionAddress()
	if err != nil {
		return err
	}
	feesAddr, err := FeesCollectorAddress()
	if err != nil {
		return err
	}
	mintFeesAddr, err := MintFeesCollectorAddress()
	if err != nil {
		return err
	}

	e.store.Set(collectionAddr, newAccount(&Collection{
		Name:   meta.Name,
		Symbol: meta.Symbol,
		URI:    meta.URI,
	}))
	e.store.Set(feesAddr, newAccount(&FeesCollector{
		FractionalizeFeeBps: fractionalizeFeeBps,
		SellFeeBps:          sellFeeBps,
		FeeDecimals:         FeeDecimals,
	}))
	e.store.Set(mintFeesAddr, newAccount(&MintFeesCollector{
		MintFeeBps: DefaultMintFeeBps,
	}))
	e.store.Set(managerAddr, newAccount(&Manager{
		Authority:    caller,
		Collection:   collectionAddr,
		Discriminant: 0,
	}))

	e.logger.Info("Manager initialized",
		zap.String("authority", caller.String()),
		zap.String("collection", collectionAddr.String()),
		zap.Uint32("sell_fee_bps", sellFeeBps),
		zap.Uint32("fractionalize_fee_bps", fractionalizeFeeBps))

	e.emit(ctx, events.InitializedEvent{
		BaseEvent:           e.base(events.Initialized),
		Authority:           caller,
		Collection:          collectionAddr,
		SellFeeBps:          sellFeeBps,
		FractionalizeFeeBps: fractionalizeFeeBps,
	})

	return nil
}
