package program

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ProgramID anchors every derived address. Client tooling that derives
// addresses on its side must use the same id and the same seed tags or it
// will read the wrong accounts.
var ProgramID = solana.MustPublicKeyFromBase58("78TGdayzTnEPi8UVMeRgJYSx6uawNB3CHTrcBBMM2gDK")

// Seed tags, one per entity kind. An address derived for one kind can never
// collide with another kind because the tags differ.
var (
	managerTag           = []byte("nftmg")
	feesCollectorTag     = []byte("fcolt")
	mintFeesCollectorTag = []byte("mfcolt")
	userTag              = []byte("usert")
	mintTag              = []byte("mintt")
	collectionTag        = []byte("collt")
	listingTag           = []byte("listt")
	pendingMintTag       = []byte("finmdt")
	pendingFracTag       = []byte("finfdt")
)

func derive(seeds ...[]byte) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(seeds, ProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive address: %w", err)
	}
	return addr, nil
}

// ManagerAddress locates the registry singleton.
func ManagerAddress() (solana.PublicKey, error) {
	return derive(managerTag)
}

// CollectionAddress locates the collection singleton.
func CollectionAddress() (solana.PublicKey, error) {
	return derive(collectionTag)
}

// FeesCollectorAddress locates the sale fees ledger.
func FeesCollectorAddress() (solana.PublicKey, error) {
	return derive(feesCollectorTag)
}

// MintFeesCollectorAddress locates the mint fees ledger.
func MintFeesCollectorAddress() (solana.PublicKey, error) {
	return derive(mintFeesCollectorTag)
}

// TokenAddress locates the token minted at the given discriminant.
func TokenAddress(discriminant uint64) (solana.PublicKey, error) {
	var d [8]byte
	binary.LittleEndian.PutUint64(d[:], discriminant)
	return derive(mintTag, d[:])
}

// ListingAddress locates the (single) listing for a token. Deriving from the
// mint alone is what enforces one active listing per token.
func ListingAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	return derive(listingTag, mint.Bytes())
}

// UserAddress locates a principal's balance account. The owner key is part
// of the seeds, so no caller can derive a location inside another
// principal's account.
func UserAddress(owner solana.PublicKey) (solana.PublicKey, error) {
	return derive(userTag, owner.Bytes())
}

// PendingMintAddress locates the durable finalize record staged by MintNFT.
func PendingMintAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	return derive(pendingMintTag, mint.Bytes())
}

// PendingFractionalizeAddress locates the finalize record staged by
// FractionalizeNFT.
func PendingFractionalizeAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	return derive(pendingFracTag, mint.Bytes())
}
