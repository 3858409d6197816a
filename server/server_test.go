package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/b-harvest/agentboard-backend/config"
	"github.com/b-harvest/agentboard-backend/observability"
	"github.com/b-harvest/agentboard-backend/schema"
	"github.com/b-harvest/agentboard-backend/service/agent"
	"github.com/b-harvest/agentboard-backend/service/board"
	"github.com/b-harvest/agentboard-backend/service/nadfun"
	"github.com/b-harvest/agentboard-backend/service/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type fakeBuilder struct{}

func (fakeBuilder) Build(ctx context.Context, address string) (*schema.Agent, error) {
	return &schema.Agent{
		Address:  address,
		Name:     "Agent " + address[len(address)-1:],
		Category: schema.CategoryTrading,
		Score:    float64(address[len(address)-1] - '0'),
	}, nil
}

func (fakeBuilder) Detail(ctx context.Context, address string, rank int) (*schema.AgentDetail, error) {
	if strings.HasSuffix(address, "f") {
		return nil, fmt.Errorf("%w: %s", agent.ErrNotFound, address)
	}
	return &schema.AgentDetail{Agent: schema.Agent{Address: address, Rank: rank}, RiskLevel: schema.RiskHigh}, nil
}

type fakeCharts struct{}

func (fakeCharts) Chart(ctx context.Context, tokenID, resolution string) ([]byte, error) {
	if resolution == "down" {
		return nil, &nadfun.UnavailableError{Path: "/agent/chart/" + tokenID}
	}
	return []byte(`{"resolution":"` + resolution + `"}`), nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultServerConfig
	cfg.TrackedTokens = []schema.TrackedToken{
		{Address: "0x0000000000000000000000000000000000000001"},
		{Address: "0x0000000000000000000000000000000000000002"},
		{Address: "0x0000000000000000000000000000000000000003"},
	}
	cfg.Store.BatchDelay = 0
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics("", reg)
	ss := store.NewService(cfg.Store, cfg.TrackedTokens, fakeBuilder{}, store.WithMetrics(metrics))
	bs := board.NewService(ss, fakeBuilder{}, fakeCharts{}, nil)
	return New(cfg, ss, bs, reg, nil)
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestServer_Agents(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status schema.GetStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.True(t, status.IsStale)
	require.Zero(t, status.NumAgents)

	// A stale store is refreshed on read.
	rec = doRequest(s, http.MethodGet, "/agents?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list schema.GetAgentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 3, list.Total)
	require.Len(t, list.Agents, 2)
	require.True(t, list.HasMore)
	require.Equal(t, "Agent 3", list.Agents[0].Name)
	require.Equal(t, 1, list.Agents[0].Rank)

	rec = doRequest(s, http.MethodGet, "/agents?q=agent%202", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)

	rec = doRequest(s, http.MethodGet, "/status", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.False(t, status.IsStale)
	require.Equal(t, 3, status.NumAgents)
}

func TestServer_Agents_BadRequest(t *testing.T) {
	s := newTestServer(t)
	for _, target := range []string{
		"/agents?limit=0",
		"/agents?limit=101",
		"/agents?offset=-1",
		"/agents?sort=creator",
		"/agents?category=" + strings.Repeat("c", 51),
		"/agents?limit=ten",
	} {
		rec := doRequest(s, http.MethodGet, target, "")
		require.Equalf(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
}

func TestServer_AgentDetail(t *testing.T) {
	s := newTestServer(t)
	_, err := s.ss.Refresh(context.Background(), false)
	require.NoError(t, err)

	rec := doRequest(s, http.MethodGet, "/agents/0x0000000000000000000000000000000000000003", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp schema.GetAgentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Agent.Rank)
	require.Equal(t, schema.RiskHigh, resp.Agent.RiskLevel)

	rec = doRequest(s, http.MethodGet, "/agents/0x000000000000000000000000000000000000000f", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(s, http.MethodGet, "/agents/0x1234", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Chart(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/agents/0x0000000000000000000000000000000000000001/chart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"resolution":"60"}`, rec.Body.String())

	rec = doRequest(s, http.MethodGet, "/agents/0x0000000000000000000000000000000000000001/chart?resolution=down", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestServer_RefreshAndStats(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var refresh schema.RefreshResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refresh))
	require.True(t, refresh.Success)
	require.Equal(t, 3, refresh.AgentCount)
	require.Empty(t, refresh.Errors)

	rec = doRequest(s, http.MethodPost, "/refresh", `{"force":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refresh))
	require.True(t, refresh.Success)

	rec = doRequest(s, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats schema.GetStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, 3, stats.Stats.TotalAgents)
	require.Equal(t, 2.0, stats.Stats.AvgScore)

	rec = doRequest(s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "agentboard_store_agents 3")
}

func TestServer_UpdateAgents(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.UpdateAgents(context.Background()))
	require.Len(t, s.ss.Agents(), 3)
}

func TestServer_RunBackgroundUpdater(t *testing.T) {
	s := newTestServer(t)
	s.cfg.BackgroundUpdateInterval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.RunBackgroundUpdater(ctx)
	}()
	require.Eventually(t, func() bool {
		return len(s.ss.Agents()) == 3
	}, time.Second, 5*time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
