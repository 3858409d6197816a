package config

import (
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/b-harvest/agentboard-backend/schema"
	"github.com/b-harvest/agentboard-backend/service/agent"
	"github.com/b-harvest/agentboard-backend/service/nadfun"
	"github.com/b-harvest/agentboard-backend/service/store"
)

var DefaultServerConfig = ServerConfig{
	Debug:    false,
	BindAddr: "0.0.0.0:8080",
	TrackedTokens: []schema.TrackedToken{
		{Address: "0xB9ac937D8f915b0B73948551cAaE92232ED87777", HintCategory: schema.CategoryMemeTrader, Tier: schema.TierPrimary, Note: "BatmanTrumpShrek88Inu (MONAD)"},
		{Address: "0x350035555E10d9AfAF1566AaebfCeD5BA6C27777", HintCategory: schema.CategoryMemeTrader, Tier: schema.TierPrimary, Note: "Chog (CHOG)"},
		{Address: "0x91ce820dD39A2B5639251E8c7837998530Fe7777", HintCategory: schema.CategoryTrading, Tier: schema.TierPrimary, Note: "Motion"},
		{Address: "0x0acBf18A86F4293C0B6af7087F4952d440097777", HintCategory: schema.CategoryDeFi, Tier: schema.TierPrimary, Note: "Klaave Credit Line (KCL)"},
		{Address: "0x93A7006bD345a7dFfF35910Da2DB97bA4Cb67777", HintCategory: schema.CategoryTrading, Tier: schema.TierPrimary, Note: "TABBY"},
		{Address: "0x6FEF3433d07057aC63B0dB1bc3b37274aDA47777", HintCategory: schema.CategoryMemeTrader, Tier: schema.TierPrimary, Note: "BOCKY the Cat"},
		{Address: "0x4fD8520Fe93Db3efa4EDaa88bB5Ee662F6d17777", HintCategory: schema.CategoryTrading, Tier: schema.TierExtended, Note: "PACT by Moltiverse Agent"},
		{Address: "0xef4f3Dc164Bb83DC70b73BFE0A83d84238A97777", HintCategory: schema.CategoryAnalyst, Tier: schema.TierExtended, Note: "GermaniumX (GERX)"},
		{Address: "0xD049Ef2eeCBf7ef6501C9bA9B492b7d189a27777", Tier: schema.TierExtended, Note: "NADS ATTIRE (BEANIE)"},
		{Address: "0x405b6330e213DED490240CbcDD64790806827777", Tier: schema.TierExtended, Note: "moncock"},
		{Address: "0x81A224F8A62f52BdE942dBF23A56df77A10b7777", Tier: schema.TierExtended, Note: "emonad (emo)"},
		{Address: "0x9a17aD79aCc180F911Be1B89f6FD566597FD7777", Tier: schema.TierExtended, Note: "Lobster Butt Juice (LBJ)"},
	},
	BackgroundUpdateInterval: 5 * time.Minute,
	ShutdownTimeout:          10 * time.Second,
	MetricsNamespace:         "agentboard",
	NadFun:                   nadfun.DefaultConfig,
	Agent:                    agent.DefaultConfig,
	Store:                    store.DefaultConfig,
	Log:                      zap.NewProductionConfig(),
}

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

type ServerConfig struct {
	Debug         bool                  `yaml:"debug"`
	BindAddr      string                `yaml:"bind_addr"`
	TrackedTokens []schema.TrackedToken `yaml:"tracked_tokens"`
	// BackgroundUpdateInterval is the period of the background refresh.
	// Zero disables it; the store is then refreshed on read when stale.
	BackgroundUpdateInterval time.Duration `yaml:"background_update_interval"`
	ShutdownTimeout          time.Duration `yaml:"shutdown_timeout"`
	MetricsNamespace         string        `yaml:"metrics_namespace"`
	NadFun                   nadfun.Config `yaml:"nadfun"`
	Agent                    agent.Config  `yaml:"agent"`
	Store                    store.Config  `yaml:"store"`
	Log                      zap.Config    `yaml:"log"`
}

func (cfg ServerConfig) Validate() error {
	if cfg.BindAddr == "" {
		return fmt.Errorf("'bind_addr' is required")
	}
	if len(cfg.TrackedTokens) == 0 {
		return fmt.Errorf("'tracked_tokens' is empty")
	}
	seen := make(map[string]struct{})
	for i, t := range cfg.TrackedTokens {
		if err := validateTrackedToken(t); err != nil {
			return fmt.Errorf("validate 'tracked_tokens[%d]' field: %w", i, err)
		}
		if _, ok := seen[t.Address]; ok {
			return fmt.Errorf("duplicate tracked token %s", t.Address)
		}
		seen[t.Address] = struct{}{}
	}
	if cfg.BackgroundUpdateInterval < 0 {
		return fmt.Errorf("'background_update_interval' must not be negative")
	}
	if err := cfg.NadFun.Validate(); err != nil {
		return fmt.Errorf("validate 'nadfun' field: %w", err)
	}
	if err := cfg.Agent.Validate(); err != nil {
		return fmt.Errorf("validate 'agent' field: %w", err)
	}
	if err := cfg.Store.Validate(); err != nil {
		return fmt.Errorf("validate 'store' field: %w", err)
	}
	return nil
}

func validateTrackedToken(t schema.TrackedToken) error {
	if !addressPattern.MatchString(t.Address) {
		return fmt.Errorf("invalid address %q", t.Address)
	}
	if t.HintCategory != "" && !t.HintCategory.Valid() {
		return fmt.Errorf("invalid hint category %q", t.HintCategory)
	}
	switch t.Tier {
	case "", schema.TierPrimary, schema.TierExtended:
	default:
		return fmt.Errorf("invalid tier %q", t.Tier)
	}
	return nil
}
