package nadfun

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/b-harvest/agentboard-backend/schema"
)

const (
	tokenPath       = "/agent/token/"
	marketPath      = "/agent/market/"
	metricsPath     = "/agent/metrics/"
	swapHistoryPath = "/agent/swap-history/"
	chartPath       = "/agent/chart/"
)

const chartWindow = 7 * 24 * 60 * 60 // seconds

var errEmptyPayload = errors.New("empty payload")

func (c *Client) TokenInfo(ctx context.Context, tokenID string) (*schema.TokenInfo, error) {
	path := tokenPath + tokenID
	resp, err := fetch[schema.TokenInfoResponse](ctx, c, "token", path, path, c.cfg.TTL.Token)
	if err != nil {
		return nil, err
	}
	if resp.TokenInfo == nil {
		return nil, &UnavailableError{Path: path, Err: errEmptyPayload}
	}
	return resp.TokenInfo, nil
}

func (c *Client) Market(ctx context.Context, tokenID string) (*schema.MarketInfo, error) {
	path := marketPath + tokenID
	resp, err := fetch[schema.MarketInfoResponse](ctx, c, "market", path, path, c.cfg.TTL.Market)
	if err != nil {
		return nil, err
	}
	if resp.MarketInfo == nil {
		return nil, &UnavailableError{Path: path, Err: errEmptyPayload}
	}
	return resp.MarketInfo, nil
}

// Metrics returns per-timeframe statistics. timeframes is a comma separated
// list of window lengths in minutes.
func (c *Client) Metrics(ctx context.Context, tokenID, timeframes string) ([]schema.MetricTimeframe, error) {
	path := metricsPath + tokenID + "?" + url.Values{"timeframes": {timeframes}}.Encode()
	resp, err := fetch[schema.MetricsResponse](ctx, c, "metrics", path, path, c.cfg.TTL.Metrics)
	if err != nil {
		return nil, err
	}
	return resp.Metrics, nil
}

func (c *Client) SwapHistory(ctx context.Context, tokenID string, limit int) ([]schema.Swap, error) {
	path := swapHistoryPath + tokenID + "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	resp, err := fetch[schema.SwapHistoryResponse](ctx, c, "swaps", path, path, c.cfg.TTL.Swaps)
	if err != nil {
		return nil, err
	}
	return resp.Swaps, nil
}

// Chart returns the raw chart payload of the last seven days. The cache key
// leaves out the time range so that consecutive calls can hit.
func (c *Client) Chart(ctx context.Context, tokenID, resolution string) ([]byte, error) {
	to := c.now().Unix()
	key := chartPath + tokenID + "?" + url.Values{"resolution": {resolution}}.Encode()
	path := chartPath + tokenID + "?" + url.Values{
		"resolution": {resolution},
		"from":       {strconv.FormatInt(to-chartWindow, 10)},
		"to":         {strconv.FormatInt(to, 10)},
	}.Encode()
	resp, err := fetch[jsoniter.RawMessage](ctx, c, "chart", key, path, c.cfg.TTL.Chart)
	if err != nil {
		return nil, err
	}
	if len(*resp) == 0 {
		return nil, &UnavailableError{Path: path, Err: fmt.Errorf("chart: %w", errEmptyPayload)}
	}
	return *resp, nil
}
