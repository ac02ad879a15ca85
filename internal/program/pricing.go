package program

import (
	"math/big"

	"github.com/goldmintlabs/nft-manager/internal/oracle"
)

const (
	// LamportsPerSol is the native currency's minor-unit scale.
	LamportsPerSol = 1_000_000_000

	// ListPriceDecimals is the fixed-point scale of listing prices: prices
	// are quoted in USD with two decimals.
	ListPriceDecimals = 2

	// deciGramsPerOunce converts the per-ounce gold quote to the token's
	// gram-denominated weight (avoirdupois ounce, tenths of a gram).
	deciGramsPerOunce = 283

	// FeeDecimals fixes basis points as the fee unit: a fee F takes
	// F / 10^4 of the amount.
	FeeDecimals = 4

	// MaxFeeBps caps any configurable fee at 100%.
	MaxFeeBps = 10_000
)

var (
	bigTen     = big.NewInt(10)
	bigLamport = big.NewInt(LamportsPerSol)
)

// GoldValueInLamports prices a token of the given weight against the two
// feeds. The quote is conservative on both sides: the gold price is taken at
// the top of its confidence interval, the SOL price at the bottom, so the
// caller is never undercharged by feed noise. Rounds down.
func GoldValueInLamports(gold, sol oracle.Price, weight uint64) (uint64, error) {
	if weight == 0 {
		return 0, ErrInvalidWeight
	}
	if gold.Price <= 0 || sol.Price <= 0 {
		return 0, ErrNegativePrice
	}
	if uint64(sol.Price) <= sol.Conf {
		return 0, ErrOverflow
	}

	num := new(big.Int).SetInt64(gold.Price)
	num.Add(num, new(big.Int).SetUint64(gold.Conf))
	num.Mul(num, new(big.Int).SetUint64(weight))
	num.Mul(num, bigLamport)

	den := new(big.Int).SetInt64(sol.Price)
	den.Sub(den, new(big.Int).SetUint64(sol.Conf))
	den.Mul(den, big.NewInt(deciGramsPerOunce))

	// Both feeds are fixed-point; align them to a common exponent before
	// dividing.
	if gold.Exponent > sol.Exponent {
		num.Mul(num, pow10(gold.Exponent-sol.Exponent))
	} else {
		den.Mul(den, pow10(sol.Exponent-gold.Exponent))
	}

	lamports := num.Div(num, den)
	if lamports.Sign() == 0 {
		return 0, ErrPriceCalculationFail
	}
	if !lamports.IsUint64() {
		return 0, ErrOverflow
	}
	return lamports.Uint64(), nil
}

// ListPriceInLamports converts a quote-currency listing price to lamports at
// the bottom of the SOL feed's confidence interval. Rounds down.
func ListPriceInLamports(price uint64, sol oracle.Price) (uint64, error) {
	if sol.Price <= 0 {
		return 0, ErrNegativePrice
	}
	if uint64(sol.Price) <= sol.Conf {
		return 0, ErrOverflow
	}

	num := new(big.Int).SetUint64(price)
	num.Mul(num, bigLamport)

	den := new(big.Int).SetInt64(sol.Price)
	den.Sub(den, new(big.Int).SetUint64(sol.Conf))

	exponentDiff := -ListPriceDecimals - sol.Exponent
	if exponentDiff >= 0 {
		num.Mul(num, pow10(exponentDiff))
	} else {
		den.Mul(den, pow10(-exponentDiff))
	}

	lamports := num.Div(num, den)
	if !lamports.IsUint64() {
		return 0, ErrOverflow
	}
	return lamports.Uint64(), nil
}

// FeeAmount takes feeBps basis points of amount, rounding down.
func FeeAmount(amount uint64, feeBps uint32) (uint64, error) {
	fee := new(big.Int).SetUint64(amount)
	fee.Mul(fee, new(big.Int).SetUint64(uint64(feeBps)))
	fee.Div(fee, big.NewInt(MaxFeeBps))
	if !fee.IsUint64() {
		return 0, ErrOverflow
	}
	return fee.Uint64(), nil
}

func pow10(exp int32) *big.Int {
	return new(big.Int).Exp(bigTen, big.NewInt(int64(exp)), nil)
}
