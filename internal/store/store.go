// Package store is the account store behind the marketplace program: a map
// from derived addresses to account records. The program owns every record;
// callers outside the engine get read access only.
package store

import (
	"github.com/gagliardetto/solana-go"
)

// Account is one stored record: its lamport balance plus the typed entity
// data the program put there.
type Account struct {
	Lamports uint64
	Data     any
}

// Store holds accounts keyed by derived address.
type Store interface {
	Get(addr solana.PublicKey) (*Account, bool)
	Set(addr solana.PublicKey, acc *Account)
	Delete(addr solana.PublicKey)
	// Range calls fn for every stored account until fn returns false.
	Range(fn func(addr solana.PublicKey, acc *Account) bool)
}
