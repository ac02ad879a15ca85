package program

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/goldmintlabs/nft-manager/internal/events"
)

// BuyOpts tune how a purchase resolves and prices the listing.
type BuyOpts struct {
	// Seller, when set, must match the open listing's owner.
	Seller *solana.PublicKey
	// Recipient receives the token; defaults to the buyer.
	Recipient *solana.PublicKey
	// ExpectedPrice, when set, bounds oracle movement between quote and
	// submission: the computed lamport price must be within
	// PriceToleranceBps of it.
	ExpectedPrice *uint64
	// QuoteWithOracle converts the listing's quote-currency price to
	// lamports at execution time; otherwise the stored price is taken as
	// lamports directly.
	QuoteWithOracle bool
}

// SaleReceipt reports a completed purchase.
type SaleReceipt struct {
	Mint      solana.PublicKey
	Seller    solana.PublicKey
	Buyer     solana.PublicKey
	Recipient solana.PublicKey
	Price     uint64
	Fee       uint64
}

// BuyNFT buys the listed token: the sale fee accrues to the fee ledger, the
// rest of the price to the seller's balance (created on first sale), the
// token moves to the recipient and the listing closes. The two credits sum
// exactly to the price.
func (e *Engine) BuyNFT(ctx context.Context, buyer solana.PublicKey, discriminant uint64, opts BuyOpts) (*SaleReceipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, _, _, err := e.manager(); err != nil {
		return nil, err
	}

	mintAddr, _, token, err := e.token(discriminant)
	if err != nil {
		return nil, err
	}
	listingAddr, err := ListingAddress(mintAddr)
	if err != nil {
		return nil, err
	}
	listingAcc, ok := e.store.Get(listingAddr)
	if !ok {
		return nil, ErrListingNotFound
	}
	listing := listingAcc.Data.(*Listing)
	if opts.Seller != nil && !opts.Seller.Equals(listing.Owner) {
		return nil, ErrAmbiguousSeller
	}
	seller := listing.Owner

	price := listing.Price
	if opts.QuoteWithOracle {
		update, err := e.prices.ReadPrices(ctx)
		if err != nil {
			return nil, err
		}
		// Only the SOL feed participates in the conversion; only its
		// freshness matters here.
		if err := e.checkFresh(update.Sol); err != nil {
			return nil, err
		}
		price, err = ListPriceInLamports(listing.Price, update.Sol)
		if err != nil {
			return nil, err
		}
	}

	if opts.ExpectedPrice != nil && !withinTolerance(price, *opts.ExpectedPrice) {
		return nil, ErrPriceMismatch
	}

	feesAcc, fees, err := e.feesCollector()
	if err != nil {
		return nil, err
	}
	fee, err := FeeAmount(price, fees.SellFeeBps)
	if err != nil {
		return nil, err
	}

	userAddr, err := UserAddress(seller)
	if err != nil {
		return nil, err
	}
	userAcc, ok := e.store.Get(userAddr)
	if !ok {
		// First sale for this principal; the balance account is staged
		// here but only stored once the purchase is sure to apply.
		userAcc = newAccount(&User{Authority: seller})
	}

	// Both credits are checked before either applies.
	if !canAddLamports(feesAcc, fee) || !canAddLamports(userAcc, price-fee) {
		return nil, ErrOverflow
	}
	if !ok {
		e.store.Set(userAddr, userAcc)
	}
	feesAcc.Lamports += fee
	userAcc.Lamports += price - fee

	recipient := buyer
	if opts.Recipient != nil {
		recipient = *opts.Recipient
	}
	token.Owner = recipient
	e.store.Delete(listingAddr)

	e.logger.Debug("Token sold",
		zap.Uint64("discriminant", discriminant),
		zap.Uint64("price_lamports", price),
		zap.Uint64("fee_lamports", fee),
		zap.String("seller", seller.String()),
		zap.String("buyer", buyer.String()))

	e.emit(ctx, events.SaleEvent{
		BaseEvent: e.base(events.Sale),
		Mint:      mintAddr,
		Seller:    seller,
		Buyer:     buyer,
		Recipient: recipient,
		Price:     price,
		Fee:       fee,
	})

	return &SaleReceipt{
		Mint:      mintAddr,
		Seller:    seller,
		Buyer:     buyer,
		Recipient: recipient,
		Price:     price,
		Fee:       fee,
	}, nil
}

// withinTolerance reports whether expected is within PriceToleranceBps of
// the computed price.
func withinTolerance(price, expected uint64) bool {
	var diff uint64
	if price > expected {
		diff = price - expected
	} else {
		diff = expected - price
	}
	tolerance, err := FeeAmount(price, PriceToleranceBps)
	if err != nil {
		return false
	}
	return diff <= tolerance
}
