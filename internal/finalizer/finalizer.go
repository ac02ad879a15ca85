// Package finalizer drives staged mints and fractionalizations to their
// settled state in the background.
package finalizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/goldmintlabs/nft-manager/internal/events"
	"github.com/goldmintlabs/nft-manager/internal/program"
)

type jobKind int

const (
	finalizeMint jobKind = iota
	finalizeFractionalize
)

func (k jobKind) String() string {
	switch k {
	case finalizeMint:
		return "mint"
	case finalizeFractionalize:
		return "fractionalize"
	default:
		return "unknown"
	}
}

type job struct {
	kind         jobKind
	discriminant uint64
}

// Finalizer listens for staged operations on the event bus and settles
// them. Events are published while the engine holds its operation lock,
// so the handlers only enqueue; a worker goroutine performs the calls.
type Finalizer struct {
	engine     *program.Engine
	bus        *events.Bus
	authority  solana.PublicKey
	logger     *zap.Logger
	jobs       chan job
	subs       []events.Subscription
	cancel     context.CancelFunc
	done       chan struct{}
	maxTries   uint
	retryDelay time.Duration
}

// New creates a finalizer that settles operations as the given authority.
func New(engine *program.Engine, bus *events.Bus, authority solana.PublicKey, logger *zap.Logger) *Finalizer {
	return &Finalizer{
		engine:     engine,
		bus:        bus,
		authority:  authority,
		logger:     logger.Named("finalizer"),
		jobs:       make(chan job, 128),
		done:       make(chan struct{}),
		maxTries:   5,
		retryDelay: 100 * time.Millisecond,
	}
}

// Start subscribes to staged-operation events and launches the worker.
func (f *Finalizer) Start(ctx context.Context) error {
	workerCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel

	f.subs = append(f.subs,
		f.bus.SubscribeFunc(events.MintRequested, func(_ context.Context, event events.Event) error {
			e, ok := event.(events.MintRequestedEvent)
			if !ok {
				return fmt.Errorf("unexpected event payload for %s", event.Type())
			}
			return f.enqueue(job{kind: finalizeMint, discriminant: e.Discriminant})
		}),
		f.bus.SubscribeFunc(events.FractionalizeRequested, func(_ context.Context, event events.Event) error {
			e, ok := event.(events.FractionalizeRequestedEvent)
			if !ok {
				return fmt.Errorf("unexpected event payload for %s", event.Type())
			}
			return f.enqueue(job{kind: finalizeFractionalize, discriminant: e.Discriminant})
		}),
	)

	go f.run(workerCtx)

	f.logger.Info("Finalizer started")
	return nil
}

// Stop unsubscribes and waits for the worker to drain.
func (f *Finalizer) Stop() {
	for _, sub := range f.subs {
		sub.Unsubscribe()
	}
	if f.cancel != nil {
		f.cancel()
	}
	<-f.done
	f.logger.Info("Finalizer stopped")
}

func (f *Finalizer) enqueue(j job) error {
	select {
	case f.jobs <- j:
		return nil
	default:
		return fmt.Errorf("finalizer queue full, dropping %s job for discriminant %d", j.kind, j.discriminant)
	}
}

func (f *Finalizer) run(ctx context.Context) {
	defer close(f.done)

	for {
		select {
		case <-ctx.Done():
			return
		case j := <-f.jobs:
			if err := f.settle(ctx, j); err != nil {
				f.logger.Error("Failed to settle staged operation",
					zap.String("kind", j.kind.String()),
					zap.Uint64("discriminant", j.discriminant),
					zap.Error(err))
			}
		}
	}
}

// settle retries transient failures. A missing pending record means the
// operation was already settled, which counts as success.
func (f *Finalizer) settle(ctx context.Context, j job) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.retryDelay
	policy.MaxInterval = f.retryDelay * 10

	operation := func() (struct{}, error) {
		var err error
		switch j.kind {
		case finalizeMint:
			err = f.engine.FinalizeMintNFT(ctx, f.authority, j.discriminant)
		case finalizeFractionalize:
			err = f.engine.FinalizeFractionalizeNFT(ctx, f.authority, j.discriminant)
		}
		if errors.Is(err, program.ErrNoPendingMint) || errors.Is(err, program.ErrNoPendingFractional) {
			return struct{}{}, nil
		}
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(f.maxTries))
	if err != nil {
		return err
	}

	f.logger.Debug("Settled staged operation",
		zap.String("kind", j.kind.String()),
		zap.Uint64("discriminant", j.discriminant))
	return nil
}
