package program

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/goldmintlabs/nft-manager/internal/events"
)

// CreateUserAccount creates the caller's balance account if it does not
// exist yet. Safe to call repeatedly; the same address comes back either
// way.
func (e *Engine) CreateUserAccount(ctx context.Context, caller solana.PublicKey) (solana.PublicKey, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, _, _, err := e.manager(); err != nil {
		return solana.PublicKey{}, err
	}

	addr, err := UserAddress(caller)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if _, ok := e.store.Get(addr); ok {
		return addr, nil
	}

	e.store.Set(addr, newAccount(&User{Authority: caller}))

	e.emit(ctx, events.UserAccountCreatedEvent{
		BaseEvent: e.base(events.UserAccountCreated),
		Account:   addr,
		Owner:     caller,
	})

	return addr, nil
}

// UserWithdraw debits the caller's balance. The account's reserve must
// remain; an account that was never created holds nothing withdrawable.
func (e *Engine) UserWithdraw(ctx context.Context, caller solana.PublicKey, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	addr, err := UserAddress(caller)
	if err != nil {
		return err
	}
	acc, ok := e.store.Get(addr)
	if !ok {
		return ErrInsufficientBalance
	}

	reserve := MinimumBalance(acc.Data.(*User).Space())
	withdrawable := acc.Lamports - reserve
	if acc.Lamports < reserve || withdrawable < amount {
		return ErrInsufficientBalance
	}

	acc.Lamports -= amount

	e.emit(ctx, events.UserWithdrawnEvent{
		BaseEvent: e.base(events.UserWithdrawn),
		Owner:     caller,
		Amount:    amount,
	})

	return nil
}

// UserBalance reports a principal's withdrawable balance. Read-only; absent
// accounts read as zero.
func (e *Engine) UserBalance(owner solana.PublicKey) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	addr, err := UserAddress(owner)
	if err != nil {
		return 0, err
	}
	acc, ok := e.store.Get(addr)
	if !ok {
		return 0, nil
	}
	reserve := MinimumBalance(acc.Data.(*User).Space())
	if acc.Lamports < reserve {
		return 0, nil
	}
	return acc.Lamports - reserve, nil
}
