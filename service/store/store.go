// Package store holds the ranked agent snapshot and the refresh cycle that
// rebuilds it. The refresh cycle is the only writer of the snapshot.
package store

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/b-harvest/agentboard-backend/observability"
	"github.com/b-harvest/agentboard-backend/schema"
)

// Snapshot is an immutable ranked set of agents. It must not be modified.
type Snapshot struct {
	Agents      []schema.Agent
	RefreshedAt time.Time
}

// Builder builds a single agent. The rank of the returned agent is ignored.
type Builder interface {
	Build(ctx context.Context, address string) (*schema.Agent, error)
}

// Invalidator drops cached source data before a forced refresh.
type Invalidator interface {
	Invalidate(prefix string) int
}

type Service struct {
	cfg         Config
	tokens      []schema.TrackedToken
	builder     Builder
	invalidator Invalidator
	logger      *zap.Logger
	metrics     *observability.Metrics
	now         func() time.Time

	snapshot atomic.Pointer[Snapshot]
	group    singleflight.Group
}

type Option func(s *Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithInvalidator(inv Invalidator) Option {
	return func(s *Service) {
		s.invalidator = inv
	}
}

func NewService(cfg Config, tokens []schema.TrackedToken, builder Builder, opts ...Option) *Service {
	s := &Service{
		cfg:     cfg,
		tokens:  tokens,
		builder: builder,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.metrics == nil {
		s.metrics = observability.Discard()
	}
	return s
}

// Snapshot returns the current snapshot, or nil before the first successful
// refresh.
func (s *Service) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Agents returns a copy of the current ranked agents. It never blocks on a
// running refresh.
func (s *Service) Agents() []schema.Agent {
	snap := s.snapshot.Load()
	if snap == nil {
		return []schema.Agent{}
	}
	agents := make([]schema.Agent, len(snap.Agents))
	copy(agents, snap.Agents)
	return agents
}

// IsStale reports whether the store is empty or older than the staleness
// threshold.
func (s *Service) IsStale() bool {
	snap := s.snapshot.Load()
	if snap == nil || len(snap.Agents) == 0 {
		return true
	}
	return s.now().Sub(snap.RefreshedAt) > s.cfg.StaleAfter
}

// Find looks an agent up by address, ignoring case.
func (s *Service) Find(address string) (schema.Agent, bool) {
	snap := s.snapshot.Load()
	if snap == nil {
		return schema.Agent{}, false
	}
	for _, a := range snap.Agents {
		if strings.EqualFold(a.Address, address) {
			return a, true
		}
	}
	return schema.Agent{}, false
}

func (s *Service) inCooldown() bool {
	snap := s.snapshot.Load()
	if snap == nil || len(snap.Agents) == 0 {
		return false
	}
	return s.now().Sub(snap.RefreshedAt) < s.cfg.Cooldown
}

func (s *Service) replace(agents []schema.Agent) {
	s.snapshot.Store(&Snapshot{Agents: agents, RefreshedAt: s.now()})
	s.metrics.StoreAgents.Set(float64(len(agents)))
	s.metrics.LastRefreshTime.SetToCurrentTime()
}
