package oracle

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	pythMagic   = 0xa1b2c3d4
	pythVersion = 2

	// Offsets into a Pyth price account, per the on-chain layout.
	offExponent  = 20
	offTimestamp = 96
	offAggPrice  = 208
	offAggConf   = 216
	offAggStatus = 224

	minPriceAccountLen = 240

	statusTrading = 1
)

// AccountFetcher is the subset of the Solana RPC client needed to read
// oracle accounts.
type AccountFetcher interface {
	GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error)
}

// PythSource reads the gold (XAU/USD) and SOL/USD aggregates from their
// Pyth price accounts.
type PythSource struct {
	client     AccountFetcher
	goldFeed   solana.PublicKey
	solFeed    solana.PublicKey
	maxRetries uint
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewPythSource creates a price source backed by the given RPC client and
// feed accounts.
func NewPythSource(client AccountFetcher, goldFeed, solFeed solana.PublicKey, logger *zap.Logger) *PythSource {
	return &PythSource{
		client:     client,
		goldFeed:   goldFeed,
		solFeed:    solFeed,
		maxRetries: 5,
		retryDelay: 200 * time.Millisecond,
		logger:     logger.Named("pyth"),
	}
}

// ReadPrices fetches both feeds concurrently and returns their latest
// aggregates.
func (s *PythSource) ReadPrices(ctx context.Context) (Update, error) {
	var gold, sol Price

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.fetchPrice(gCtx, s.goldFeed)
		if err != nil {
			return fmt.Errorf("gold feed %s: %w", s.goldFeed, err)
		}
		gold = p
		return nil
	})
	g.Go(func() error {
		p, err := s.fetchPrice(gCtx, s.solFeed)
		if err != nil {
			return fmt.Errorf("sol feed %s: %w", s.solFeed, err)
		}
		sol = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return Update{}, err
	}

	s.logger.Debug("Read oracle prices",
		zap.Int64("gold_price", gold.Price),
		zap.Int64("sol_price", sol.Price))

	return Update{Gold: gold, Sol: sol, AsOf: time.Now()}, nil
}

// fetchPrice retries transient RPC failures. Malformed account data is
// permanent and fails immediately.
func (s *PythSource) fetchPrice(ctx context.Context, feed solana.PublicKey) (Price, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.retryDelay
	policy.MaxInterval = s.retryDelay * 10

	notify := func(err error, duration time.Duration) {
		s.logger.Debug("Retrying price fetch",
			zap.String("feed", feed.String()),
			zap.Duration("backoff", duration),
			zap.Error(err))
	}

	operation := func() (Price, error) {
		accountInfo, err := s.client.GetAccountInfo(ctx, feed)
		if err != nil {
			return Price{}, fmt.Errorf("failed to get price account: %w", err)
		}
		if accountInfo == nil || accountInfo.Value == nil {
			return Price{}, backoff.Permanent(fmt.Errorf("price account not found"))
		}
		price, err := parsePriceAccount(accountInfo.Value.Data.GetBinary())
		if err != nil {
			return Price{}, backoff.Permanent(err)
		}
		return price, nil
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(s.maxRetries),
		backoff.WithNotify(notify))
}

// parsePriceAccount decodes the aggregate of a Pyth v2 price account.
func parsePriceAccount(data []byte) (Price, error) {
	if len(data) < minPriceAccountLen {
		return Price{}, fmt.Errorf("price account data too short: %d bytes", len(data))
	}
	if binary.LittleEndian.Uint32(data[0:4]) != pythMagic {
		return Price{}, fmt.Errorf("invalid price account magic")
	}
	if binary.LittleEndian.Uint32(data[4:8]) != pythVersion {
		return Price{}, fmt.Errorf("unsupported price account version: %d", binary.LittleEndian.Uint32(data[4:8]))
	}
	if status := binary.LittleEndian.Uint32(data[offAggStatus : offAggStatus+4]); status != statusTrading {
		return Price{}, fmt.Errorf("price feed not trading: status %d", status)
	}

	return Price{
		Price:       int64(binary.LittleEndian.Uint64(data[offAggPrice : offAggPrice+8])),
		Conf:        binary.LittleEndian.Uint64(data[offAggConf : offAggConf+8]),
		Exponent:    int32(binary.LittleEndian.Uint32(data[offExponent : offExponent+4])),
		PublishTime: time.Unix(int64(binary.LittleEndian.Uint64(data[offTimestamp:offTimestamp+8])), 0),
	}, nil
}
