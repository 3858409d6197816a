// Package board answers the read and refresh requests of the HTTP API from
// the agent store.
package board

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/b-harvest/agentboard-backend/schema"
	"github.com/b-harvest/agentboard-backend/service/agent"
	"github.com/b-harvest/agentboard-backend/service/store"
	"github.com/b-harvest/agentboard-backend/util"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidAddress = errors.New("invalid address")
)

const DefaultChartResolution = "60"

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

type Store interface {
	Agents() []schema.Agent
	IsStale() bool
	Find(address string) (schema.Agent, bool)
	Refresh(ctx context.Context, force bool) (store.RefreshResult, error)
}

type DetailBuilder interface {
	Detail(ctx context.Context, address string, rank int) (*schema.AgentDetail, error)
}

type ChartSource interface {
	Chart(ctx context.Context, tokenID, resolution string) ([]byte, error)
}

type Service struct {
	store   Store
	details DetailBuilder
	charts  ChartSource
	logger  *zap.Logger
}

func NewService(st Store, details DetailBuilder, charts ChartSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{st, details, charts, logger}
}

// agents returns the stored agents, refreshing first when the store is stale.
// A failed refresh falls back to whatever the store holds.
func (s *Service) agents(ctx context.Context) ([]schema.Agent, error) {
	if s.store.IsStale() {
		res, err := s.store.Refresh(ctx, false)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			s.logger.Error("failed to refresh stale store", zap.Error(err))
		} else if res.Failed {
			s.logger.Warn("stale store could not be refreshed", zap.Strings("errors", res.Errors))
		}
	}
	return s.store.Agents(), nil
}

// AgentDetail fetches fresh data of a single agent. It returns nil when the
// token's identity is unavailable.
func (s *Service) AgentDetail(ctx context.Context, address string) (*schema.AgentDetail, error) {
	if !addressPattern.MatchString(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	rank := 0
	if a, ok := s.store.Find(address); ok {
		rank = a.Rank
	}
	d, err := s.details.Detail(ctx, address, rank)
	if err != nil {
		if errors.Is(err, agent.ErrNotFound) {
			s.logger.Debug("agent not found", zap.String("address", address), zap.Error(err))
			return nil, nil
		}
		return nil, fmt.Errorf("build detail: %w", err)
	}
	return d, nil
}

// Chart returns the raw price chart of the last seven days.
func (s *Service) Chart(ctx context.Context, address, resolution string) ([]byte, error) {
	if !addressPattern.MatchString(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	if resolution == "" {
		resolution = DefaultChartResolution
	}
	return s.charts.Chart(ctx, address, resolution)
}

func (s *Service) Refresh(ctx context.Context, force bool) (schema.RefreshResponse, error) {
	res, err := s.store.Refresh(ctx, force)
	if err != nil {
		return schema.RefreshResponse{}, err
	}
	errs := res.Errors
	if errs == nil {
		errs = []string{}
	}
	return schema.RefreshResponse{
		Success:    !res.Failed,
		AgentCount: len(res.Agents),
		Errors:     errs,
		DurationMs: res.Duration.Milliseconds(),
		Timestamp:  time.Now(),
	}, nil
}

func (s *Service) Stats(ctx context.Context) (schema.Stats, error) {
	agents, err := s.agents(ctx)
	if err != nil {
		return schema.Stats{}, err
	}
	var stats schema.Stats
	stats.TotalAgents = len(agents)
	totalScore := 0.0
	for _, a := range agents {
		stats.TotalVolume += a.Volume24h
		stats.TotalMarketCap += a.MarketCap
		stats.TotalHolders += a.HolderCount
		totalScore += a.Score
		if a.IsGraduated {
			stats.GraduatedCount++
		}
	}
	if len(agents) > 0 {
		stats.AvgScore = util.Round1(totalScore / float64(len(agents)))
	}
	return stats, nil
}
