package program

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListNFT(t *testing.T) {
	e, st, _ := newTestEngine(t)
	owner := solana.NewWallet().PublicKey()
	token := mintSettled(t, e, owner, 283)

	require.NoError(t, e.ListNFT(context.Background(), owner, token.Discriminant, 10000))

	listingAddr, err := ListingAddress(token.Mint)
	require.NoError(t, err)
	acc, ok := st.Get(listingAddr)
	require.True(t, ok)

	listing := acc.Data.(*Listing)
	assert.Equal(t, token.Mint, listing.Mint)
	assert.Equal(t, owner, listing.Owner)
	assert.Equal(t, uint64(10000), listing.Price)
}

func TestListNFTZeroPrice(t *testing.T) {
	e, _, _ := newTestEngine(t)
	owner := solana.NewWallet().PublicKey()
	token := mintSettled(t, e, owner, 283)

	// A free listing is a valid listing.
	require.NoError(t, e.ListNFT(context.Background(), owner, token.Discriminant, 0))
}

func TestListNFTRejections(t *testing.T) {
	e, _, _ := newTestEngine(t)
	owner := solana.NewWallet().PublicKey()
	token := mintSettled(t, e, owner, 283)

	t.Run("not owner", func(t *testing.T) {
		err := e.ListNFT(context.Background(), solana.NewWallet().PublicKey(), token.Discriminant, 100)
		require.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("unknown token", func(t *testing.T) {
		err := e.ListNFT(context.Background(), owner, 99, 100)
		require.ErrorIs(t, err, ErrTokenNotFound)
	})

	t.Run("already listed", func(t *testing.T) {
		require.NoError(t, e.ListNFT(context.Background(), owner, token.Discriminant, 100))
		err := e.ListNFT(context.Background(), owner, token.Discriminant, 200)
		require.ErrorIs(t, err, ErrAlreadyListed)
	})
}

func TestListNFTRejectsStagedToken(t *testing.T) {
	e, _, _ := newTestEngine(t)
	owner := solana.NewWallet().PublicKey()

	receipt, err := e.MintNFT(context.Background(), owner, solana.PublicKey{}, MintArgs{Weight: 283})
	require.NoError(t, err)

	err = e.ListNFT(context.Background(), owner, receipt.Discriminant, 100)
	require.ErrorIs(t, err, ErrTokenNotSettled)
}

func TestUpdateListingPrice(t *testing.T) {
	e, st, _ := newTestEngine(t)
	owner := solana.NewWallet().PublicKey()
	token := mintSettled(t, e, owner, 283)
	require.NoError(t, e.ListNFT(context.Background(), owner, token.Discriminant, 10000))

	require.NoError(t, e.UpdateListingPrice(context.Background(), owner, token.Discriminant, 20000))

	listingAddr, err := ListingAddress(token.Mint)
	require.NoError(t, err)
	acc, ok := st.Get(listingAddr)
	require.True(t, ok)
	assert.Equal(t, uint64(20000), acc.Data.(*Listing).Price)
}

func TestUpdateListingPriceRequiresOwnListing(t *testing.T) {
	e, _, _ := newTestEngine(t)
	owner := solana.NewWallet().PublicKey()
	token := mintSettled(t, e, owner, 283)
	require.NoError(t, e.ListNFT(context.Background(), owner, token.Discriminant, 10000))

	// Someone else's listing reads as absent for this caller.
	err := e.UpdateListingPrice(context.Background(), solana.NewWallet().PublicKey(), token.Discriminant, 20000)
	require.ErrorIs(t, err, ErrListingNotFound)
}

func TestDelistNFT(t *testing.T) {
	e, st, _ := newTestEngine(t)
	owner := solana.NewWallet().PublicKey()
	token := mintSettled(t, e, owner, 283)
	require.NoError(t, e.ListNFT(context.Background(), owner, token.Discriminant, 10000))

	require.NoError(t, e.DelistNFT(context.Background(), owner, token.Discriminant))

	listingAddr, err := ListingAddress(token.Mint)
	require.NoError(t, err)
	_, ok := st.Get(listingAddr)
	assert.False(t, ok)

	// The token can be listed again afterwards.
	require.NoError(t, e.ListNFT(context.Background(), owner, token.Discriminant, 5000))
}

func TestDelistNFTWithoutListing(t *testing.T) {
	e, _, _ := newTestEngine(t)
	owner := solana.NewWallet().PublicKey()
	token := mintSettled(t, e, owner, 283)

	err := e.DelistNFT(context.Background(), owner, token.Discriminant)
	require.ErrorIs(t, err, ErrListingNotFound)
}
