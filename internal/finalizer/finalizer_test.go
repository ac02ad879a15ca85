package finalizer

import (
	"context"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goldmintlabs/nft-manager/internal/events"
	"github.com/goldmintlabs/nft-manager/internal/oracle"
	"github.com/goldmintlabs/nft-manager/internal/program"
	"github.com/goldmintlabs/nft-manager/internal/store"
)

func testPrices() oracle.Fixed {
	now := time.Now()
	return oracle.Fixed{
		Gold: oracle.Price{Price: 100, Conf: 0, Exponent: 0, PublishTime: now},
		Sol:  oracle.Price{Price: 100, Conf: 0, Exponent: 0, PublishTime: now},
	}
}

func setup(t *testing.T) (*program.Engine, *store.Memory, *Finalizer, solana.PublicKey) {
	t.Helper()

	st := store.NewMemory()
	bus := events.NewBus(zap.NewNop())
	engine := program.NewEngine(st, testPrices(), bus, zap.NewNop())

	authority := solana.NewWallet().PublicKey()
	require.NoError(t, engine.Initialize(context.Background(), authority,
		program.CollectionMeta{Name: "Gold Reserve"}, 250, 100))

	fin := New(engine, bus, authority, zap.NewNop())
	require.NoError(t, fin.Start(context.Background()))
	t.Cleanup(fin.Stop)

	return engine, st, fin, authority
}

// waitForSettled polls until the token at the discriminant is settled.
func waitForSettled(t *testing.T, st *store.Memory, discriminant uint64) *program.Token {
	t.Helper()

	addr, err := program.TokenAddress(discriminant)
	require.NoError(t, err)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if acc, ok := st.Get(addr); ok {
			// The engine mutates settled tokens in place under its own
			// lock; a settled read here is final.
			if token, ok := acc.Data.(*program.Token); ok && token.Supply == program.SupplySettled {
				return token
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("token %d never settled", discriminant)
	return nil
}

func TestFinalizerSettlesMint(t *testing.T) {
	engine, st, _, _ := setup(t)
	owner := solana.NewWallet().PublicKey()

	receipt, err := engine.MintNFT(context.Background(), owner, solana.PublicKey{},
		program.MintArgs{Name: "Gold Bar", Symbol: "BAR", Weight: 283})
	require.NoError(t, err)

	token := waitForSettled(t, st, receipt.Discriminant)
	assert.Equal(t, owner, token.Owner)
}

func TestFinalizerSettlesFractionalize(t *testing.T) {
	engine, st, _, _ := setup(t)
	owner := solana.NewWallet().PublicKey()

	receipt, err := engine.MintNFT(context.Background(), owner, solana.PublicKey{},
		program.MintArgs{Weight: 283})
	require.NoError(t, err)
	waitForSettled(t, st, receipt.Discriminant)

	_, err = engine.FractionalizeNFT(context.Background(), owner, program.FractionalizeArgs{
		Discriminant: receipt.Discriminant,
		PartA:        program.MintArgs{Name: "Part A", Weight: 100},
		PartB:        program.MintArgs{Name: "Part B", Weight: 183},
	})
	require.NoError(t, err)

	partA := waitForSettled(t, st, 1)
	partB := waitForSettled(t, st, 2)
	assert.Equal(t, uint64(283), partA.Weight+partB.Weight)

	// The source is burned once both parts settle.
	sourceAddr, err := program.TokenAddress(receipt.Discriminant)
	require.NoError(t, err)
	_, ok := st.Get(sourceAddr)
	assert.False(t, ok)
}

func TestFinalizerToleratesManualSettlement(t *testing.T) {
	engine, st, _, authority := setup(t)
	owner := solana.NewWallet().PublicKey()

	receipt, err := engine.MintNFT(context.Background(), owner, solana.PublicKey{},
		program.MintArgs{Weight: 283})
	require.NoError(t, err)

	// Settle by hand before the worker gets there; the queued job must
	// treat the missing pending record as done, not as a failure.
	err = engine.FinalizeMintNFT(context.Background(), authority, receipt.Discriminant)
	if err != nil {
		require.ErrorIs(t, err, program.ErrNoPendingMint)
	}

	waitForSettled(t, st, receipt.Discriminant)
}

func TestFinalizerStopDrains(t *testing.T) {
	st := store.NewMemory()
	bus := events.NewBus(zap.NewNop())
	engine := program.NewEngine(st, testPrices(), bus, zap.NewNop())

	authority := solana.NewWallet().PublicKey()
	require.NoError(t, engine.Initialize(context.Background(), authority,
		program.CollectionMeta{Name: "Gold Reserve"}, 250, 100))

	fin := New(engine, bus, authority, zap.NewNop())
	require.NoError(t, fin.Start(context.Background()))

	// Stop returns only after the worker goroutine exits.
	done := make(chan struct{})
	go func() {
		fin.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
