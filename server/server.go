package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/b-harvest/agentboard-backend/config"
	"github.com/b-harvest/agentboard-backend/service/board"
	"github.com/b-harvest/agentboard-backend/service/nadfun"
	"github.com/b-harvest/agentboard-backend/service/store"
)

type Server struct {
	*echo.Echo
	cfg      config.ServerConfig
	ss       *store.Service
	bs       *board.Service
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

func New(cfg config.ServerConfig, ss *store.Service, bs *board.Service, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Debug
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{e, cfg, ss, bs, gatherer, logger}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.GET("/status", s.GetStatus)
	s.GET("/agents", s.GetAgents)
	s.GET("/agents/:address", s.GetAgent)
	s.GET("/agents/:address/chart", s.GetAgentChart)
	s.POST("/refresh", s.Refresh)
	s.GET("/stats", s.GetStats)
	if s.gatherer != nil {
		s.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
}

func (s *Server) ShutdownWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// httpError maps service errors to HTTP errors. Other errors are returned
// as is and reported as internal errors by echo.
func httpError(err error) error {
	switch {
	case errors.Is(err, board.ErrInvalidRequest), errors.Is(err, board.ErrInvalidAddress):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, nadfun.ErrUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, "market data unavailable").SetInternal(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "request cancelled").SetInternal(err)
	}
	return err
}
