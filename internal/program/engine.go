// Package program is the marketplace state machine: the entities it owns,
// the operations that transform them, and the invariants that hold after
// every operation. Callers are externally-authenticated principals; the
// engine only compares their keys.
package program

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/goldmintlabs/nft-manager/internal/events"
	"github.com/goldmintlabs/nft-manager/internal/oracle"
	"github.com/goldmintlabs/nft-manager/internal/store"
)

const (
	// MaxPriceAge is the default staleness bound on oracle readings.
	MaxPriceAge = 259_200 * time.Second

	// PriceToleranceBps bounds how far a caller-supplied expected price may
	// drift from the computed one before Buy rejects.
	PriceToleranceBps = 50

	// DefaultMintFeeBps routes the whole mint quote to the mint fee ledger
	// unless the ledger is configured otherwise.
	DefaultMintFeeBps uint32 = 10_000
)

// Engine applies operations one at a time against the account store. Every
// operation either fully applies or leaves the store untouched: all
// preconditions are checked before the first write.
type Engine struct {
	mu          sync.Mutex
	store       store.Store
	prices      oracle.Source
	bus         *events.Bus
	logger      *zap.Logger
	now         func() time.Time
	maxPriceAge time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithMaxPriceAge overrides the oracle staleness bound.
func WithMaxPriceAge(age time.Duration) Option {
	return func(e *Engine) { e.maxPriceAge = age }
}

// NewEngine creates an engine over the given store and price source. The bus
// may be nil when no observer cares about facts.
func NewEngine(st store.Store, prices oracle.Source, bus *events.Bus, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:       st,
		prices:      prices,
		bus:         bus,
		logger:      logger.Named("program"),
		now:         time.Now,
		maxPriceAge: MaxPriceAge,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// emit publishes a fact for a successfully applied operation. Delivery
// failures are an observer problem, not the operation's; they are logged and
// swallowed.
func (e *Engine) emit(ctx context.Context, event events.Event) {
	if e.bus == nil {
		return
	}
	if err := e.bus.Publish(ctx, event); err != nil {
		e.logger.Warn("Event delivery failed",
			zap.String("event_type", string(event.Type())),
			zap.Error(err))
	}
}

func (e *Engine) base(typ events.Type) events.BaseEvent {
	return events.BaseEvent{EventType: typ, EventTime: e.now()}
}

// manager loads the registry singleton.
func (e *Engine) manager() (solana.PublicKey, *store.Account, *Manager, error) {
	addr, err := ManagerAddress()
	if err != nil {
		return solana.PublicKey{}, nil, nil, err
	}
	acc, ok := e.store.Get(addr)
	if !ok {
		return solana.PublicKey{}, nil, nil, ErrNotInitialized
	}
	return addr, acc, acc.Data.(*Manager), nil
}

func (e *Engine) feesCollector() (*store.Account, *FeesCollector, error) {
	addr, err := FeesCollectorAddress()
	if err != nil {
		return nil, nil, err
	}
	acc, ok := e.store.Get(addr)
	if !ok {
		return nil, nil, ErrNotInitialized
	}
	return acc, acc.Data.(*FeesCollector), nil
}

func (e *Engine) mintFeesCollector() (*store.Account, *MintFeesCollector, error) {
	addr, err := MintFeesCollectorAddress()
	if err != nil {
		return nil, nil, err
	}
	acc, ok := e.store.Get(addr)
	if !ok {
		return nil, nil, ErrNotInitialized
	}
	return acc, acc.Data.(*MintFeesCollector), nil
}

// token loads the token staged or settled at the given discriminant.
func (e *Engine) token(discriminant uint64) (solana.PublicKey, *store.Account, *Token, error) {
	addr, err := TokenAddress(discriminant)
	if err != nil {
		return solana.PublicKey{}, nil, nil, err
	}
	acc, ok := e.store.Get(addr)
	if !ok {
		return solana.PublicKey{}, nil, nil, ErrTokenNotFound
	}
	return addr, acc, acc.Data.(*Token), nil
}

// readPrices takes a fresh oracle snapshot, valid for this operation only.
func (e *Engine) readPrices(ctx context.Context) (oracle.Update, error) {
	update, err := e.prices.ReadPrices(ctx)
	if err != nil {
		return oracle.Update{}, err
	}
	if err := e.checkFresh(update.Gold); err != nil {
		return oracle.Update{}, err
	}
	if err := e.checkFresh(update.Sol); err != nil {
		return oracle.Update{}, err
	}
	return update, nil
}

func (e *Engine) checkFresh(p oracle.Price) error {
	if e.now().Sub(p.PublishTime) > e.maxPriceAge {
		return ErrOracleStale
	}
	return nil
}

// newAccount creates a record funded at exactly its reserve.
func newAccount(data interface{ Space() int }) *store.Account {
	return &store.Account{
		Lamports: MinimumBalance(data.Space()),
		Data:     data,
	}
}

// addLamports guards balance credits against wrap-around.
func addLamports(acc *store.Account, amount uint64) error {
	if !canAddLamports(acc, amount) {
		return ErrOverflow
	}
	acc.Lamports += amount
	return nil
}

// canAddLamports reports whether the credit fits without wrap-around.
// Operations that split one payment across two accounts check both halves
// with it before applying either.
func canAddLamports(acc *store.Account, amount uint64) bool {
	return acc.Lamports+amount >= acc.Lamports
}
