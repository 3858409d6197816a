package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/b-harvest/agentboard-backend/config"
	"github.com/b-harvest/agentboard-backend/observability"
	"github.com/b-harvest/agentboard-backend/service/agent"
	"github.com/b-harvest/agentboard-backend/service/board"
	"github.com/b-harvest/agentboard-backend/service/nadfun"
	"github.com/b-harvest/agentboard-backend/service/store"
)

// app holds the services shared by the subcommands. The fetch client is built
// once so that its limiter and cache are shared by every caller.
type app struct {
	cfg      config.ServerConfig
	logger   *zap.Logger
	registry *prometheus.Registry
	client   *nadfun.Client
	store    *store.Service
	board    *board.Service
}

func loadConfig(path string) (config.ServerConfig, *zap.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.ServerConfig{}, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Server.Validate(); err != nil {
		return config.ServerConfig{}, nil, fmt.Errorf("validate server config: %w", err)
	}
	logger, err := cfg.Server.Log.Build()
	if err != nil {
		return config.ServerConfig{}, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg.Server, logger, nil
}

func newApp(cfg config.ServerConfig, logger *zap.Logger) *app {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(cfg.MetricsNamespace, reg)

	client := nadfun.NewClient(cfg.NadFun,
		nadfun.WithLogger(logger.Named("nadfun")),
		nadfun.WithMetrics(metrics))
	builder := agent.NewBuilder(cfg.Agent, client, cfg.TrackedTokens, logger.Named("agent"))
	ss := store.NewService(cfg.Store, cfg.TrackedTokens, builder,
		store.WithLogger(logger.Named("store")),
		store.WithMetrics(metrics),
		store.WithInvalidator(client))
	bs := board.NewService(ss, builder, client, logger.Named("board"))
	return &app{cfg, logger, reg, client, ss, bs}
}
