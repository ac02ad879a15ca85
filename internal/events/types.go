package events

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// Type discriminates marketplace facts.
type Type string

const (
	Initialized            Type = "manager.initialized"
	MintRequested          Type = "mint.requested"
	MintFinalized          Type = "mint.finalized"
	FractionalizeRequested Type = "fractionalize.requested"
	FractionalizeFinalized Type = "fractionalize.finalized"
	Listed                 Type = "listing.created"
	ListingPriceUpdated    Type = "listing.price_updated"
	Delisted               Type = "listing.removed"
	Sale                   Type = "listing.sold"
	MetadataUpdated        Type = "token.metadata_updated"
	Burned                 Type = "token.burned"
	UserAccountCreated     Type = "user.created"
	UserWithdrawn          Type = "user.withdrawn"
	FeesWithdrawn          Type = "fees.withdrawn"
	MintFeesWithdrawn      Type = "fees.mint_withdrawn"
	FeesUpdated            Type = "fees.updated"
	TransferInitiated      Type = "authority.transfer_initiated"
	Transferred            Type = "authority.transferred"
)

// AllTypes lists every fact type, for observers that want the full stream.
func AllTypes() []Type {
	return []Type{
		Initialized,
		MintRequested, MintFinalized,
		FractionalizeRequested, FractionalizeFinalized,
		Listed, ListingPriceUpdated, Delisted, Sale,
		MetadataUpdated, Burned,
		UserAccountCreated, UserWithdrawn,
		FeesWithdrawn, MintFeesWithdrawn, FeesUpdated,
		TransferInitiated, Transferred,
	}
}

// Event is one structured fact, emitted exactly once per successfully
// applied operation, in commit order.
type Event interface {
	Type() Type
	Timestamp() time.Time
}

// BaseEvent carries the fields every fact shares.
type BaseEvent struct {
	EventType Type
	EventTime time.Time
}

func (e BaseEvent) Type() Type           { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.EventTime }

// InitializedEvent records the one-time system setup.
type InitializedEvent struct {
	BaseEvent
	Authority           solana.PublicKey
	Collection          solana.PublicKey
	SellFeeBps          uint32
	FractionalizeFeeBps uint32
}

// MintRequestedEvent carries everything a retrier needs to drive finalize.
type MintRequestedEvent struct {
	BaseEvent
	Mint         solana.PublicKey
	Recipient    solana.PublicKey
	Discriminant uint64
	Price        uint64
}

type MintFinalizedEvent struct {
	BaseEvent
	Mint         solana.PublicKey
	Discriminant uint64
	Weight       uint64
}

type FractionalizeRequestedEvent struct {
	BaseEvent
	Mint         solana.PublicKey
	Discriminant uint64
	Fee          uint64
}

type FractionalizeFinalizedEvent struct {
	BaseEvent
	Mint          solana.PublicKey
	PartA         solana.PublicKey
	PartB         solana.PublicKey
	DiscriminantA uint64
	DiscriminantB uint64
}

type ListedEvent struct {
	BaseEvent
	Mint  solana.PublicKey
	Owner solana.PublicKey
	Price uint64
}

type ListingPriceUpdatedEvent struct {
	BaseEvent
	Mint     solana.PublicKey
	Owner    solana.PublicKey
	NewPrice uint64
}

type DelistedEvent struct {
	BaseEvent
	Mint  solana.PublicKey
	Owner solana.PublicKey
}

// SaleEvent records a completed purchase: who sold, who paid, who received
// the token, and the final lamport price with the fee taken out of it.
type SaleEvent struct {
	BaseEvent
	Mint      solana.PublicKey
	Seller    solana.PublicKey
	Buyer     solana.PublicKey
	Recipient solana.PublicKey
	Price     uint64
	Fee       uint64
}

type MetadataUpdatedEvent struct {
	BaseEvent
	Mint  solana.PublicKey
	Field string
	Value string
}

type BurnedEvent struct {
	BaseEvent
	Mint         solana.PublicKey
	Discriminant uint64
}

type UserAccountCreatedEvent struct {
	BaseEvent
	Account solana.PublicKey
	Owner   solana.PublicKey
}

type UserWithdrawnEvent struct {
	BaseEvent
	Owner  solana.PublicKey
	Amount uint64
}

type FeesWithdrawnEvent struct {
	BaseEvent
	Recipient solana.PublicKey
	Amount    uint64
}

type FeesUpdatedEvent struct {
	BaseEvent
	Fee    string
	NewBps uint32
}

type TransferInitiatedEvent struct {
	BaseEvent
	FutureAuthority solana.PublicKey
}

type TransferredEvent struct {
	BaseEvent
	NewAuthority solana.PublicKey
}
