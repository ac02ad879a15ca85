package program

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivedAddressesAreDeterministic(t *testing.T) {
	a1, err := ManagerAddress()
	require.NoError(t, err)
	a2, err := ManagerAddress()
	require.NoError(t, err)
	assert.Equal(t, a1, a2)

	mint := solana.NewWallet().PublicKey()
	l1, err := ListingAddress(mint)
	require.NoError(t, err)
	l2, err := ListingAddress(mint)
	require.NoError(t, err)
	assert.Equal(t, l1, l2)
}

func TestSingletonAddressesAreDistinct(t *testing.T) {
	manager, err := ManagerAddress()
	require.NoError(t, err)
	collection, err := CollectionAddress()
	require.NoError(t, err)
	fees, err := FeesCollectorAddress()
	require.NoError(t, err)
	mintFees, err := MintFeesCollectorAddress()
	require.NoError(t, err)

	seen := map[solana.PublicKey]bool{}
	for _, addr := range []solana.PublicKey{manager, collection, fees, mintFees} {
		assert.False(t, seen[addr], "address collision: %s", addr)
		seen[addr] = true
	}
}

func TestTokenAddressPerDiscriminant(t *testing.T) {
	t0, err := TokenAddress(0)
	require.NoError(t, err)
	t1, err := TokenAddress(1)
	require.NoError(t, err)
	assert.NotEqual(t, t0, t1)

	again, err := TokenAddress(0)
	require.NoError(t, err)
	assert.Equal(t, t0, again)
}

func TestPerEntityAddressesDoNotCollide(t *testing.T) {
	// The same mint key seeds three different record kinds; the tag keeps
	// them apart.
	mint, err := TokenAddress(7)
	require.NoError(t, err)

	listing, err := ListingAddress(mint)
	require.NoError(t, err)
	pendingMint, err := PendingMintAddress(mint)
	require.NoError(t, err)
	pendingFrac, err := PendingFractionalizeAddress(mint)
	require.NoError(t, err)

	assert.NotEqual(t, listing, pendingMint)
	assert.NotEqual(t, listing, pendingFrac)
	assert.NotEqual(t, pendingMint, pendingFrac)
}

func TestUserAddressPerOwner(t *testing.T) {
	alice := solana.NewWallet().PublicKey()
	bob := solana.NewWallet().PublicKey()

	ua, err := UserAddress(alice)
	require.NoError(t, err)
	ub, err := UserAddress(bob)
	require.NoError(t, err)
	assert.NotEqual(t, ua, ub)
}
