package program

import (
	"github.com/gagliardetto/solana-go"
)

// MintArgs are the descriptive inputs for a new token.
type MintArgs struct {
	Name   string
	Symbol string
	URI    string
	Weight uint64
}

// Manager is the registry singleton: global authority, the collection
// reference and the monotonic token counter.
type Manager struct {
	Authority       solana.PublicKey
	FutureAuthority *solana.PublicKey
	Collection      solana.PublicKey
	Discriminant    uint64
}

func (m *Manager) Space() int { return 32 + 33 + 32 + 8 }

// FeesCollector is the sale-side fee ledger. Accrued lamports live on the
// account itself; the struct only carries the rates.
type FeesCollector struct {
	FractionalizeFeeBps uint32
	SellFeeBps          uint32
	FeeDecimals         uint8
}

func (f *FeesCollector) Space() int { return 4 + 4 + 1 }

// MintFeesCollector is the mint fee ledger.
type MintFeesCollector struct {
	MintFeeBps uint32
}

func (f *MintFeesCollector) Space() int { return 4 }

// Collection is immutable after initialization.
type Collection struct {
	Name   string
	Symbol string
	URI    string
}

func (c *Collection) Space() int {
	return 12 + len(c.Name) + len(c.Symbol) + len(c.URI)
}

// Token supply values.
const (
	// SupplyStaged marks a token created by a mint or fractionalize request
	// whose finalize has not run yet, or a source token locked by a pending
	// fractionalization.
	SupplyStaged uint8 = 0
	// SupplySettled marks a live, spendable token.
	SupplySettled uint8 = 1
)

// Token is one minted NFT: a weighted claim on the reference asset.
type Token struct {
	Discriminant uint64
	Weight       uint64
	Name         string
	Symbol       string
	URI          string
	Collection   solana.PublicKey
	Owner        solana.PublicKey
	Supply       uint8
}

func (t *Token) Space() int {
	return 8 + 8 + 12 + len(t.Name) + len(t.Symbol) + len(t.URI) + 32 + 32 + 1
}

// Listing is one open offer: the token, who listed it, and the asking price
// in quote-currency minor units (ListPriceDecimals).
type Listing struct {
	Mint  solana.PublicKey
	Owner solana.PublicKey
	Price uint64
}

func (l *Listing) Space() int { return 32 + 32 + 8 }

// User is a principal's withdrawable balance account. Created explicitly or
// lazily on the first sale credit.
type User struct {
	Authority solana.PublicKey
}

func (u *User) Space() int { return 32 }

// PendingMint is the durable record between MintNFT and FinalizeMintNFT.
type PendingMint struct {
	Mint         solana.PublicKey
	Discriminant uint64
	Weight       uint64
	Price        uint64
}

func (p *PendingMint) Space() int { return 32 + 8 + 8 + 8 }

// PendingFractionalize is the durable record between FractionalizeNFT and
// FinalizeFractionalizeNFT. It remembers the locked source and both staged
// parts.
type PendingFractionalize struct {
	Mint         solana.PublicKey
	Discriminant uint64
	PartA        MintArgs
	PartB        MintArgs
	Fee          uint64
}

func (p *PendingFractionalize) Space() int {
	return 32 + 8 + 8 +
		24 + len(p.PartA.Name) + len(p.PartA.Symbol) + len(p.PartA.URI) +
		len(p.PartB.Name) + len(p.PartB.Symbol) + len(p.PartB.URI) + 16
}
