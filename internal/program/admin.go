package program

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/goldmintlabs/nft-manager/internal/events"
	"github.com/goldmintlabs/nft-manager/internal/store"
)

// FeeKind selects which configurable fee UpdateFees touches.
type FeeKind int

const (
	SellFee FeeKind = iota
	FractionalizeFee
)

func (k FeeKind) String() string {
	switch k {
	case SellFee:
		return "sell_fee"
	case FractionalizeFee:
		return "fractionalize_fee"
	default:
		return "unknown"
	}
}

// UpdateFees sets one of the marketplace fees. Authority only; capped at
// 100%.
func (e *Engine) UpdateFees(ctx context.Context, caller solana.PublicKey, kind FeeKind, newBps uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, _, manager, err := e.manager()
	if err != nil {
		return err
	}
	if !manager.Authority.Equals(caller) {
		return ErrUnauthorized
	}
	if newBps > MaxFeeBps {
		return ErrInvalidFee
	}

	_, fees, err := e.feesCollector()
	if err != nil {
		return err
	}
	switch kind {
	case SellFee:
		fees.SellFeeBps = newBps
	case FractionalizeFee:
		fees.FractionalizeFeeBps = newBps
	default:
		return ErrInvalidFee
	}

	e.logger.Info("Fee updated",
		zap.String("fee", kind.String()),
		zap.Uint32("new_bps", newBps))

	e.emit(ctx, events.FeesUpdatedEvent{
		BaseEvent: e.base(events.FeesUpdated),
		Fee:       kind.String(),
		NewBps:    newBps,
	})

	return nil
}

// AdminWithdrawFees moves accrued sale fees to the recipient. Authority
// only; strictly more than the requested amount must be available above the
// reserve.
func (e *Engine) AdminWithdrawFees(ctx context.Context, caller, recipient solana.PublicKey, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, _, manager, err := e.manager()
	if err != nil {
		return err
	}
	if !manager.Authority.Equals(caller) {
		return ErrUnauthorized
	}

	feesAcc, fees, err := e.feesCollector()
	if err != nil {
		return err
	}
	if err := debitStrict(feesAcc, MinimumBalance(fees.Space()), amount); err != nil {
		return err
	}

	e.emit(ctx, events.FeesWithdrawnEvent{
		BaseEvent: e.base(events.FeesWithdrawn),
		Recipient: recipient,
		Amount:    amount,
	})

	return nil
}

// AdminWithdrawMintFees is AdminWithdrawFees against the mint fee ledger.
func (e *Engine) AdminWithdrawMintFees(ctx context.Context, caller, recipient solana.PublicKey, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, _, manager, err := e.manager()
	if err != nil {
		return err
	}
	if !manager.Authority.Equals(caller) {
		return ErrUnauthorized
	}

	mintFeesAcc, mintFees, err := e.mintFeesCollector()
	if err != nil {
		return err
	}
	if err := debitStrict(mintFeesAcc, MinimumBalance(mintFees.Space()), amount); err != nil {
		return err
	}

	e.emit(ctx, events.FeesWithdrawnEvent{
		BaseEvent: e.base(events.MintFeesWithdrawn),
		Recipient: recipient,
		Amount:    amount,
	})

	return nil
}

// debitStrict debits amount only when strictly more than amount sits above
// the reserve.
func debitStrict(acc *store.Account, reserve, amount uint64) error {
	if acc.Lamports < reserve {
		return ErrInsufficientBalance
	}
	withdrawable := acc.Lamports - reserve
	if withdrawable <= amount {
		return ErrInsufficientBalance
	}
	acc.Lamports -= amount
	return nil
}

// InitiateOwnershipTransfer begins the two-step authority handover. The
// named principal gains nothing until it claims control.
func (e *Engine) InitiateOwnershipTransfer(ctx context.Context, caller, newOwner solana.PublicKey) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, _, manager, err := e.manager()
	if err != nil {
		return err
	}
	if !manager.Authority.Equals(caller) {
		return ErrUnauthorized
	}
	if newOwner.Equals(manager.Authority) {
		return ErrSameAuthority
	}

	manager.FutureAuthority = &newOwner

	e.logger.Info("Ownership transfer initiated",
		zap.String("future_authority", newOwner.String()))

	e.emit(ctx, events.TransferInitiatedEvent{
		BaseEvent:       e.base(events.TransferInitiated),
		FutureAuthority: newOwner,
	})

	return nil
}

// FinalizeOwnershipTransfer completes the handover. Only the pending
// authority may claim; claiming clears the pending slot.
func (e *Engine) FinalizeOwnershipTransfer(ctx context.Context, caller solana.PublicKey) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, _, manager, err := e.manager()
	if err != nil {
		return err
	}
	if manager.FutureAuthority == nil {
		return ErrNoPendingTransfer
	}
	if !manager.FutureAuthority.Equals(caller) {
		return ErrUnauthorized
	}

	manager.Authority = caller
	manager.FutureAuthority = nil

	e.logger.Info("Ownership transferred",
		zap.String("new_authority", caller.String()))

	e.emit(ctx, events.TransferredEvent{
		BaseEvent:    e.base(events.Transferred),
		NewAuthority: caller,
	})

	return nil
}
