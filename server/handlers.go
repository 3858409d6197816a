package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/b-harvest/agentboard-backend/schema"
)

func (s *Server) GetStatus(c echo.Context) error {
	resp := schema.GetStatusResponse{
		IsStale: s.ss.IsStale(),
	}
	if snap := s.ss.Snapshot(); snap != nil {
		resp.NumAgents = len(snap.Agents)
		resp.RefreshedAt = snap.RefreshedAt
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) GetAgents(c echo.Context) error {
	var req schema.GetAgentsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	resp, err := s.bs.ListAgents(c.Request().Context(), req)
	if err != nil {
		return httpError(fmt.Errorf("list agents: %w", err))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) GetAgent(c echo.Context) error {
	address := c.Param("address")
	d, err := s.bs.AgentDetail(c.Request().Context(), address)
	if err != nil {
		return httpError(fmt.Errorf("get agent detail: %w", err))
	}
	if d == nil {
		return echo.NewHTTPError(http.StatusNotFound, "agent not found")
	}
	return c.JSON(http.StatusOK, schema.GetAgentResponse{Agent: d})
}

func (s *Server) GetAgentChart(c echo.Context) error {
	var req schema.GetChartRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	data, err := s.bs.Chart(c.Request().Context(), c.Param("address"), req.Resolution)
	if err != nil {
		return httpError(fmt.Errorf("get chart: %w", err))
	}
	return c.JSONBlob(http.StatusOK, data)
}

func (s *Server) Refresh(c echo.Context) error {
	var req schema.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	resp, err := s.bs.Refresh(c.Request().Context(), req.Force)
	if err != nil {
		return httpError(fmt.Errorf("refresh: %w", err))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) GetStats(c echo.Context) error {
	stats, err := s.bs.Stats(c.Request().Context())
	if err != nil {
		return httpError(fmt.Errorf("get stats: %w", err))
	}
	return c.JSON(http.StatusOK, schema.GetStatsResponse{Stats: stats})
}
