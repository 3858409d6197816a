package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/b-harvest/agentboard-backend/util"
)

// RunBackgroundUpdater refreshes the store periodically until ctx is done.
// It only waits for ctx when the update interval is zero.
func (s *Server) RunBackgroundUpdater(ctx context.Context) error {
	if s.cfg.BackgroundUpdateInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := util.NewImmediateTicker(s.cfg.BackgroundUpdateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.logger.Debug("updating agents")
			if err := s.UpdateAgents(ctx); err != nil {
				s.logger.Error("failed to update agents", zap.Error(err))
			}
		}
	}
}

func (s *Server) UpdateAgents(ctx context.Context) error {
	res, err := s.ss.Refresh(ctx, false)
	if err != nil {
		return fmt.Errorf("refresh store: %w", err)
	}
	if res.Failed {
		return fmt.Errorf("no agent could be built: %v", res.Errors)
	}
	if len(res.Errors) > 0 {
		s.logger.Warn("some agents could not be built", zap.Strings("errors", res.Errors))
	}
	return nil
}
