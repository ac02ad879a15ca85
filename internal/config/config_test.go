package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validConfigJSON = `{
    "rpc_url": "https://api.mainnet-beta.solana.com",
    "authority": "78TGdayzTnEPi8UVMeRgJYSx6uawNB3CHTrcBBMM2gDK",
    "sell_fee_bps": 250,
    "fractionalize_fee_bps": 100,
    "debug_logging": true,
    "collection": {
        "name": "Gold Reserve",
        "symbol": "GOLD",
        "uri": "https://example.com/collection.json"
    }
}`

func setupTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(*Config) bool
	}{
		{
			name:    "valid config",
			content: validConfigJSON,
			check: func(cfg *Config) bool {
				return cfg.Authority == "78TGdayzTnEPi8UVMeRgJYSx6uawNB3CHTrcBBMM2gDK" &&
					cfg.SellFeeBps == 250 &&
					cfg.Collection.Name == "Gold Reserve"
			},
		},
		{
			name:    "missing authority",
			content: `{"collection": {"name": "Gold Reserve"}}`,
			wantErr: true,
		},
		{
			name:    "missing collection name",
			content: `{"authority": "78TGdayzTnEPi8UVMeRgJYSx6uawNB3CHTrcBBMM2gDK"}`,
			wantErr: true,
		},
		{
			name:    "invalid JSON syntax",
			content: "{invalid json",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := setupTestConfig(t, tt.content)

			cfg, err := LoadConfig(path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				assert.True(t, tt.check(cfg), "loaded configuration has unexpected values")
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := setupTestConfig(t, `{
        "authority": "78TGdayzTnEPi8UVMeRgJYSx6uawNB3CHTrcBBMM2gDK",
        "collection": {"name": "Gold Reserve"}
    }`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultRPCURL, cfg.RPCURL)
	assert.Equal(t, DefaultGoldFeed, cfg.GoldFeed)
	assert.Equal(t, DefaultSolFeed, cfg.SolFeed)
	assert.Equal(t, DefaultMaxPriceAge, cfg.MaxPriceAge)
	assert.Equal(t, uint32(DefaultSellFeeBps), cfg.SellFeeBps)
	assert.Equal(t, uint32(DefaultFracFeeBps), cfg.FracFeeBps)
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		return &Config{
			RPCURL:      DefaultRPCURL,
			GoldFeed:    DefaultGoldFeed,
			SolFeed:     DefaultSolFeed,
			Authority:   "78TGdayzTnEPi8UVMeRgJYSx6uawNB3CHTrcBBMM2gDK",
			MaxPriceAge: DefaultMaxPriceAge,
			SellFeeBps:  250,
			FracFeeBps:  100,
			Collection:  CollectionConfig{Name: "Gold Reserve"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing authority", mutate: func(c *Config) { c.Authority = "" }, wantErr: true},
		{name: "missing feeds", mutate: func(c *Config) { c.GoldFeed = "" }, wantErr: true},
		{name: "bad rpc scheme", mutate: func(c *Config) { c.RPCURL = "ftp://rpc.example.com" }, wantErr: true},
		{name: "zero price age", mutate: func(c *Config) { c.MaxPriceAge = 0 }, wantErr: true},
		{name: "sell fee over cap", mutate: func(c *Config) { c.SellFeeBps = 10001 }, wantErr: true},
		{name: "frac fee over cap", mutate: func(c *Config) { c.FracFeeBps = 10001 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoadConfigEnvironmentOverride(t *testing.T) {
	t.Setenv("NFT_MANAGER_AUTHORITY", "BPFLoaderUpgradeab1e11111111111111111111111")
	t.Setenv("NFT_MANAGER_RPC_URL", "https://rpc.example.com")

	path := setupTestConfig(t, validConfigJSON)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "BPFLoaderUpgradeab1e11111111111111111111111", cfg.Authority)
	assert.Equal(t, "https://rpc.example.com", cfg.RPCURL)
}
