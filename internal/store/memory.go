package store

import (
	"github.com/gagliardetto/solana-go"
	gocache "github.com/patrickmn/go-cache"
)

// Memory is the in-process Store. Entries never expire; the backing cache is
// only used as a concurrency-safe map. Tests create one per scenario to get
// isolated registry/ledger singletons.
type Memory struct {
	accounts *gocache.Cache
}

// NewMemory creates an empty account store.
func NewMemory() *Memory {
	return &Memory{
		accounts: gocache.New(gocache.NoExpiration, 0),
	}
}

func (m *Memory) Get(addr solana.PublicKey) (*Account, bool) {
	v, ok := m.accounts.Get(addr.String())
	if !ok {
		return nil, false
	}
	return v.(*Account), true
}

func (m *Memory) Set(addr solana.PublicKey, acc *Account) {
	m.accounts.Set(addr.String(), acc, gocache.NoExpiration)
}

func (m *Memory) Delete(addr solana.PublicKey) {
	m.accounts.Delete(addr.String())
}

func (m *Memory) Range(fn func(addr solana.PublicKey, acc *Account) bool) {
	for key, item := range m.accounts.Items() {
		addr, err := solana.PublicKeyFromBase58(key)
		if err != nil {
			continue
		}
		if !fn(addr, item.Object.(*Account)) {
			return
		}
	}
}
