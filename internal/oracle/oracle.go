// Package oracle supplies the price snapshots the marketplace core consumes.
// A snapshot is valid only for the single operation that reads it; nothing
// here caches across operations.
package oracle

import (
	"context"
	"time"
)

// Price is one feed reading in the Pyth shape: a fixed-point value with an
// exponent and a confidence interval.
type Price struct {
	Price       int64
	Conf        uint64
	Exponent    int32
	PublishTime time.Time
}

// Update is the pair of readings the core needs: the reference asset (gold,
// USD per ounce) and the native currency (SOL, USD).
type Update struct {
	Gold Price
	Sol  Price
	AsOf time.Time
}

// Source produces a fresh Update per call.
type Source interface {
	ReadPrices(ctx context.Context) (Update, error)
}

// Fixed is a Source returning a preset update, for tests and dry runs. When
// AsOf is zero the update is stamped with the current time so staleness
// checks pass.
type Fixed struct {
	Gold Price
	Sol  Price
	AsOf time.Time
}

func (f Fixed) ReadPrices(_ context.Context) (Update, error) {
	asOf := f.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	return Update{Gold: f.Gold, Sol: f.Sol, AsOf: asOf}, nil
}
