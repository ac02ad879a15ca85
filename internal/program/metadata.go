package program

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/goldmintlabs/nft-manager/internal/events"
)

// MetadataField selects which descriptive attribute UpdateMetadata touches.
type MetadataField int

const (
	FieldName MetadataField = iota
	FieldSymbol
	FieldURI
)

func (f MetadataField) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldSymbol:
		return "symbol"
	case FieldURI:
		return "uri"
	default:
		return "unknown"
	}
}

// UpdateMetadata overwrites a single descriptive attribute of the caller's
// token. Weight and collection membership are not reachable from here.
func (e *Engine) UpdateMetadata(ctx context.Context, caller solana.PublicKey, discriminant uint64, field MetadataField, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	mintAddr, _, token, err := e.token(discriminant)
	if err != nil {
		return err
	}
	if !token.Owner.Equals(caller) {
		return ErrNotOwner
	}

	switch field {
	case FieldName:
		token.Name = value
	case FieldSymbol:
		token.Symbol = value
	case FieldURI:
		token.URI = value
	default:
		return ErrInvalidMetadata
	}

	e.emit(ctx, events.MetadataUpdatedEvent{
		BaseEvent: e.base(events.MetadataUpdated),
		Mint:      mintAddr,
		Field:     field.String(),
		Value:     value,
	})

	return nil
}

// BurnNFT destroys the caller's token and reclaims its storage. An open
// listing must be closed first. The discriminant is never reissued; the
// counter only moves forward.
func (e *Engine) BurnNFT(ctx context.Context, caller solana.PublicKey, discriminant uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	mintAddr, _, token, err := e.token(discriminant)
	if err != nil {
		return err
	}
	if !token.Owner.Equals(caller) {
		return ErrNotOwner
	}
	if token.Supply != SupplySettled {
		return ErrTokenNotSettled
	}

	listingAddr, err := ListingAddress(mintAddr)
	if err != nil {
		return err
	}
	if _, ok := e.store.Get(listingAddr); ok {
		return ErrTokenListed
	}

	e.store.Delete(mintAddr)

	e.emit(ctx, events.BurnedEvent{
		BaseEvent:    e.base(events.Burned),
		Mint:         mintAddr,
		Discriminant: discriminant,
	})

	return nil
}
