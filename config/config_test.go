package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/b-harvest/agentboard-backend/schema"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	require.NoError(t, DefaultConfig.Server.Validate())
	var primary int
	for _, tt := range DefaultConfig.Server.TrackedTokens {
		if tt.Tier == schema.TierPrimary {
			primary++
		}
	}
	require.Equal(t, 6, primary)
	require.Len(t, DefaultConfig.Server.TrackedTokens, 12)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  bind_addr: 127.0.0.1:9000
  tracked_tokens:
  - address: "0x0000000000000000000000000000000000000001"
    hint_category: defi
    tier: primary
  nadfun:
    timeout: 5s
    ttl:
      market: 30s
  store:
    cooldown: 90s
    stale_after: 10m
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Server.Validate())
	require.Equal(t, "127.0.0.1:9000", cfg.Server.BindAddr)
	require.Len(t, cfg.Server.TrackedTokens, 1)
	require.Equal(t, schema.CategoryDeFi, cfg.Server.TrackedTokens[0].HintCategory)
	require.Equal(t, 5*time.Second, cfg.Server.NadFun.Timeout)
	require.Equal(t, 30*time.Second, cfg.Server.NadFun.TTL.Market)
	// Fields missing from the file keep their defaults.
	require.Equal(t, 10*time.Minute, cfg.Server.NadFun.TTL.Token)
	require.Equal(t, 90*time.Second, cfg.Server.Store.Cooldown)
	require.Equal(t, 2, cfg.Server.Store.BatchSize)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	require.Equal(t, DefaultServerConfig.BindAddr, cfg.Server.BindAddr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AGENTBOARD_API_URL", "http://localhost:1234")
	t.Setenv("AGENTBOARD_API_KEY", "secret")
	t.Setenv("AGENTBOARD_BIND_ADDR", ":7000")
	cfg, err := Load(writeConfig(t, "server:\n  bind_addr: 127.0.0.1:9000\n"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:1234", cfg.Server.NadFun.BaseURL)
	require.Equal(t, "secret", cfg.Server.NadFun.APIKey)
	require.Equal(t, ":7000", cfg.Server.BindAddr)
}

func TestServerConfig_Validate(t *testing.T) {
	for i, mutate := range []func(cfg *ServerConfig){
		func(cfg *ServerConfig) { cfg.BindAddr = "" },
		func(cfg *ServerConfig) { cfg.TrackedTokens = nil },
		func(cfg *ServerConfig) {
			cfg.TrackedTokens = []schema.TrackedToken{{Address: "0x1234"}}
		},
		func(cfg *ServerConfig) {
			cfg.TrackedTokens = []schema.TrackedToken{{Address: "0x0000000000000000000000000000000000000001", HintCategory: "whale"}}
		},
		func(cfg *ServerConfig) {
			cfg.TrackedTokens = []schema.TrackedToken{{Address: "0x0000000000000000000000000000000000000001", Tier: "hot"}}
		},
		func(cfg *ServerConfig) {
			tt := schema.TrackedToken{Address: "0x0000000000000000000000000000000000000001"}
			cfg.TrackedTokens = []schema.TrackedToken{tt, tt}
		},
		func(cfg *ServerConfig) { cfg.NadFun.Burst = 0 },
		func(cfg *ServerConfig) { cfg.Store.StaleAfter = time.Second },
		func(cfg *ServerConfig) { cfg.Agent.MetricTimeframes = "" },
	} {
		cfg := DefaultServerConfig
		mutate(&cfg)
		require.Errorf(t, cfg.Validate(), "case #%d", i)
	}
}
