package program

import "errors"

// Operation rejection errors. Every operation validates all of its
// preconditions before touching state; when one of these is returned the
// store is exactly as it was before the call.
var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrNotOwner             = errors.New("not owner")
	ErrAlreadyInitialized   = errors.New("already initialized")
	ErrNotInitialized       = errors.New("not initialized")
	ErrAlreadyListed        = errors.New("already listed")
	ErrAlreadyExists        = errors.New("already exists")
	ErrListingNotFound      = errors.New("listing not found")
	ErrAmbiguousSeller      = errors.New("ambiguous seller")
	ErrNoPendingMint        = errors.New("no pending mint")
	ErrNoPendingFractional  = errors.New("no pending fractionalize")
	ErrNoPendingTransfer    = errors.New("no pending ownership transfer")
	ErrWeightMismatch       = errors.New("fraction weights do not sum to source weight")
	ErrInvalidWeight        = errors.New("invalid weight")
	ErrInvalidFee           = errors.New("invalid fee")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrPriceMismatch        = errors.New("price mismatch")
	ErrOracleStale          = errors.New("oracle price too old")
	ErrTokenListed          = errors.New("token is listed")
	ErrTokenNotFound        = errors.New("token not found")
	ErrTokenNotSettled      = errors.New("token mint not finalized")
	ErrNegativePrice        = errors.New("negative price")
	ErrOverflow             = errors.New("arithmetic overflow")
	ErrSameAuthority        = errors.New("same authority")
	ErrInvalidMetadata      = errors.New("invalid metadata")
	ErrPriceCalculationFail = errors.New("price calculation failed")
)
