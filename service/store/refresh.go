package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/b-harvest/agentboard-backend/observability"
	"github.com/b-harvest/agentboard-backend/schema"
)

const refreshKey = "refresh"

type RefreshResult struct {
	CycleID string
	// Agents is the ranked set in the store after the cycle.
	Agents []schema.Agent
	Errors []string
	// Partial is set when some, but not all, builds failed.
	Partial bool
	// Failed is set when no agent could be built. The previous snapshot is
	// kept in that case.
	Failed         bool
	Duration       time.Duration
	CooldownActive bool
	// Shared is set when the cycle served more than one caller.
	Shared bool
}

// Refresh rebuilds the store unless the cooldown is active. Concurrent calls
// share a single cycle. The cycle always runs to completion; ctx only bounds
// how long the caller waits for it. Fetch failures are reported in the
// result, never as an error.
func (s *Service) Refresh(ctx context.Context, force bool) (RefreshResult, error) {
	if !force && s.inCooldown() {
		return s.cooldownResult(), nil
	}
	ch := s.group.DoChan(refreshKey, func() (interface{}, error) {
		return s.refresh(context.WithoutCancel(ctx), force), nil
	})
	select {
	case <-ctx.Done():
		return RefreshResult{}, ctx.Err()
	case r := <-ch:
		res := r.Val.(RefreshResult)
		res.Shared = r.Shared
		return res, nil
	}
}

func (s *Service) cooldownResult() RefreshResult {
	s.metrics.RefreshCycles.WithLabelValues(observability.OutcomeCooldown).Inc()
	return RefreshResult{
		Agents:         s.Agents(),
		Errors:         []string{},
		CooldownActive: true,
	}
}

func (s *Service) refresh(ctx context.Context, force bool) RefreshResult {
	// A caller may pass the cooldown check just before another cycle ends.
	if !force && s.inCooldown() {
		return s.cooldownResult()
	}

	res := RefreshResult{CycleID: uuid.NewString()}
	logger := s.logger.With(zap.String("cycle", res.CycleID), zap.Bool("force", force))
	started := time.Now()

	if force && s.invalidator != nil {
		n := s.invalidator.Invalidate("")
		logger.Debug("cleared fetch cache", zap.Int("entries", n))
	}

	tokens := s.targets()
	logger.Info("refreshing agents", zap.Int("tokens", len(tokens)))
	agents, errs := s.buildAll(ctx, tokens)
	res.Errors = errs
	s.metrics.BuildFailures.Add(float64(len(errs)))

	outcome := observability.OutcomeSuccess
	if len(agents) > 0 {
		sort.SliceStable(agents, func(i, j int) bool {
			return agents[i].Score > agents[j].Score
		})
		for i := range agents {
			agents[i].Rank = i + 1
		}
		s.replace(agents)
		if len(errs) > 0 {
			res.Partial = true
			outcome = observability.OutcomePartialFailure
		}
	} else {
		res.Failed = true
		outcome = observability.OutcomeFailure
	}
	res.Agents = s.Agents()
	res.Duration = time.Since(started)

	s.metrics.RefreshCycles.WithLabelValues(outcome).Inc()
	s.metrics.RefreshDuration.Observe(res.Duration.Seconds())
	fields := []zap.Field{
		zap.String("outcome", outcome),
		zap.Int("built", len(agents)),
		zap.Int("failed", len(errs)),
		zap.Duration("duration", res.Duration),
	}
	if res.Failed {
		logger.Error("refresh built no agents, keeping previous snapshot", append(fields, zap.Strings("errors", errs))...)
	} else {
		logger.Info("refreshed agents", fields...)
	}
	return res
}

// targets returns the tokens of this cycle. An empty store may be limited to
// the primary tier.
func (s *Service) targets() []schema.TrackedToken {
	if !s.cfg.ColdStartPrimaryOnly || s.snapshot.Load() != nil {
		return s.tokens
	}
	var primary []schema.TrackedToken
	for _, t := range s.tokens {
		if t.Tier == "" || t.Tier == schema.TierPrimary {
			primary = append(primary, t)
		}
	}
	return primary
}

// buildAll builds agents in batches of cfg.BatchSize with cfg.BatchDelay
// between batches. Results keep the order of tokens.
func (s *Service) buildAll(ctx context.Context, tokens []schema.TrackedToken) ([]schema.Agent, []string) {
	built := make([]*schema.Agent, len(tokens))
	failures := make([]error, len(tokens))
	for start := 0; start < len(tokens); start += s.cfg.BatchSize {
		if start > 0 {
			if err := sleep(ctx, s.cfg.BatchDelay); err != nil {
				break
			}
		}
		end := start + s.cfg.BatchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		var eg errgroup.Group
		for i := start; i < end; i++ {
			eg.Go(func() error {
				built[i], failures[i] = s.builder.Build(ctx, tokens[i].Address)
				return nil
			})
		}
		_ = eg.Wait()
	}

	agents := make([]schema.Agent, 0, len(tokens))
	errs := []string{}
	for i, t := range tokens {
		switch {
		case failures[i] != nil:
			errs = append(errs, fmt.Sprintf("failed: %s...: %v", shortAddress(t.Address), failures[i]))
		case built[i] != nil:
			agents = append(agents, *built[i])
		default:
			errs = append(errs, fmt.Sprintf("failed: %s...: not built", shortAddress(t.Address)))
		}
	}
	return agents, errs
}

func shortAddress(addr string) string {
	if len(addr) > 10 {
		return addr[:10]
	}
	return addr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
