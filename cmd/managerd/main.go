package main

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/goldmintlabs/nft-manager/internal/config"
	"github.com/goldmintlabs/nft-manager/internal/events"
	"github.com/goldmintlabs/nft-manager/internal/finalizer"
	"github.com/goldmintlabs/nft-manager/internal/logger"
	"github.com/goldmintlabs/nft-manager/internal/oracle"
	"github.com/goldmintlabs/nft-manager/internal/program"
	"github.com/goldmintlabs/nft-manager/internal/store"
)

func main() {
	configPath := flag.String("config", "configs/config.json", "path to configuration file")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load(".env")

	boot, _ := zap.NewDevelopment()
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		boot.Fatal("Failed to load configuration", zap.Error(err))
	}

	log, err := logger.Init(cfg.DebugLogging, cfg.LogFile)
	if err != nil {
		boot.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("Manager daemon failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	authority, err := solana.PublicKeyFromBase58(cfg.Authority)
	if err != nil {
		return err
	}
	goldFeed, err := solana.PublicKeyFromBase58(cfg.GoldFeed)
	if err != nil {
		return err
	}
	solFeed, err := solana.PublicKeyFromBase58(cfg.SolFeed)
	if err != nil {
		return err
	}

	client := rpc.New(cfg.RPCURL)
	prices := oracle.NewPythSource(client, goldFeed, solFeed, log)
	bus := events.NewBus(log)
	defer bus.Shutdown()
	logAllEvents(bus, log)

	engine := program.NewEngine(store.NewMemory(), prices, bus, log,
		program.WithMaxPriceAge(time.Duration(cfg.MaxPriceAge)*time.Second))

	meta := program.CollectionMeta{
		Name:   cfg.Collection.Name,
		Symbol: cfg.Collection.Symbol,
		URI:    cfg.Collection.URI,
	}
	err = engine.Initialize(ctx, authority, meta, cfg.SellFeeBps, cfg.FracFeeBps)
	if err != nil && !errors.Is(err, program.ErrAlreadyInitialized) {
		return err
	}

	fin := finalizer.New(engine, bus, authority, log)
	if err := fin.Start(ctx); err != nil {
		return err
	}
	defer fin.Stop()

	log.Info("Manager daemon started",
		zap.String("authority", authority.String()),
		zap.String("rpc_url", cfg.RPCURL))

	<-ctx.Done()
	log.Info("Shutting down")
	return nil
}

// logAllEvents mirrors every published fact into the log.
func logAllEvents(bus *events.Bus, log *zap.Logger) {
	factLog := log.Named("facts")
	for _, typ := range events.AllTypes() {
		bus.SubscribeFunc(typ, func(_ context.Context, event events.Event) error {
			factLog.Info("Fact",
				zap.String("type", string(event.Type())),
				zap.Time("at", event.Timestamp()),
				zap.Any("event", event))
			return nil
		})
	}
}
