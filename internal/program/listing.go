package program

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/goldmintlabs/nft-manager/internal/events"
)

// ListNFT opens an offer for the caller's token at the given price in
// quote-currency minor units. A zero price is a valid free listing.
func (e *Engine) ListNFT(ctx context.Context, caller solana.PublicKey, discriminant uint64, price uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, _, _, err := e.manager(); err != nil {
		return err
	}

	mintAddr, _, token, err := e.token(discriminant)
	if err != nil {
		return err
	}
	if token.Supply != SupplySettled {
		return ErrTokenNotSettled
	}
	if !token.Owner.Equals(caller) {
		return ErrNotOwner
	}

	listingAddr, err := ListingAddress(mintAddr)
	if err != nil {
		return err
	}
	if _, ok := e.store.Get(listingAddr); ok {
		return ErrAlreadyListed
	}

	e.store.Set(listingAddr, newAccount(&Listing{
		Mint:  mintAddr,
		Owner: caller,
		Price: price,
	}))

	e.logger.Debug("Token listed",
		zap.Uint64("discriminant", discriminant),
		zap.Uint64("price", price),
		zap.String("owner", caller.String()))

	e.emit(ctx, events.ListedEvent{
		BaseEvent: e.base(events.Listed),
		Mint:      mintAddr,
		Owner:     caller,
		Price:     price,
	})

	return nil
}

// callerListing resolves the open listing for a token, requiring it to
// belong to the caller. A listing held by someone else counts as not found
// for this caller.
func (e *Engine) callerListing(caller solana.PublicKey, discriminant uint64) (solana.PublicKey, *Listing, error) {
	mintAddr, err := TokenAddress(discriminant)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	listingAddr, err := ListingAddress(mintAddr)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	acc, ok := e.store.Get(listingAddr)
	if !ok {
		return solana.PublicKey{}, nil, ErrListingNotFound
	}
	listing := acc.Data.(*Listing)
	if !listing.Owner.Equals(caller) {
		return solana.PublicKey{}, nil, ErrListingNotFound
	}
	return listingAddr, listing, nil
}

// UpdateListingPrice overwrites the asking price of the caller's listing.
func (e *Engine) UpdateListingPrice(ctx context.Context, caller solana.PublicKey, discriminant uint64, newPrice uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, listing, err := e.callerListing(caller, discriminant)
	if err != nil {
		return err
	}
	listing.Price = newPrice

	e.emit(ctx, events.ListingPriceUpdatedEvent{
		BaseEvent: e.base(events.ListingPriceUpdated),
		Mint:      listing.Mint,
		Owner:     caller,
		NewPrice:  newPrice,
	})

	return nil
}

// DelistNFT closes the caller's listing and returns the escrowed token to
// the owner's control.
func (e *Engine) DelistNFT(ctx context.Context, caller solana.PublicKey, discriminant uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	listingAddr, listing, err := e.callerListing(caller, discriminant)
	if err != nil {
		return err
	}
	e.store.Delete(listingAddr)

	e.emit(ctx, events.DelistedEvent{
		BaseEvent: e.base(events.Delisted),
		Mint:      listing.Mint,
		Owner:     caller,
	})

	return nil
}
