package config

import (
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type Config struct {
	RPCURL       string `mapstructure:"rpc_url"`
	GoldFeed     string `mapstructure:"gold_feed"`
	SolFeed      string `mapstructure:"sol_feed"`
	Authority    string `mapstructure:"authority"`
	MaxPriceAge  int    `mapstructure:"max_price_age"`
	SellFeeBps   uint32 `mapstructure:"sell_fee_bps"`
	FracFeeBps   uint32 `mapstructure:"fractionalize_fee_bps"`
	DebugLogging bool   `mapstructure:"debug_logging"`
	LogFile      string `mapstructure:"log_file"`

	Collection CollectionConfig `mapstructure:"collection"`
}

type CollectionConfig struct {
	Name   string `mapstructure:"name"`
	Symbol string `mapstructure:"symbol"`
	URI    string `mapstructure:"uri"`
}

const (
	// Pyth mainnet price accounts for XAU/USD and SOL/USD.
	DefaultGoldFeed = "8y3WWjvmSmVGWVKH1rCA7VTRmuU7QbJ9axafSsBX5FcD"
	DefaultSolFeed  = "H6ARHf6YXhGYeQfUzQNGk6rDNnLBQKrenN712K4AQJEG"

	DefaultRPCURL      = "https://api.mainnet-beta.solana.com"
	DefaultMaxPriceAge = 259200
	DefaultSellFeeBps  = 250
	DefaultFracFeeBps  = 100

	maxFeeBps = 10000
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"rpc_url":               DefaultRPCURL,
		"gold_feed":             DefaultGoldFeed,
		"sol_feed":              DefaultSolFeed,
		"max_price_age":         DefaultMaxPriceAge,
		"sell_fee_bps":          DefaultSellFeeBps,
		"fractionalize_fee_bps": DefaultFracFeeBps,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if cfg.Authority == "" {
		return errors.New("missing authority in configuration")
	}
	if cfg.GoldFeed == "" || cfg.SolFeed == "" {
		return errors.New("both gold_feed and sol_feed must be set")
	}
	if err := validateURLWithCache(cfg.RPCURL, "http"); err != nil {
		return errors.New("invalid RPC URL protocol")
	}
	if err := validateNumericParams(cfg); err != nil {
		return err
	}
	if cfg.Collection.Name == "" {
		return errors.New("missing collection.name in configuration")
	}
	return nil
}

func validateNumericParams(cfg *Config) error {
	if cfg.MaxPriceAge <= 0 {
		return errors.New("invalid max_price_age")
	}
	if cfg.SellFeeBps > maxFeeBps {
		return errors.New("invalid sell_fee_bps")
	}
	if cfg.FracFeeBps > maxFeeBps {
		return errors.New("invalid fractionalize_fee_bps")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("NFT_MANAGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envAuthority := v.GetString("AUTHORITY")
	if envAuthority != "" {
		cfg.Authority = envAuthority
	}

	envRPC := v.GetString("RPC_URL")
	if envRPC != "" {
		cfg.RPCURL = strings.TrimSpace(envRPC)
	}

	return nil
}
