package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/b-harvest/agentboard-backend/schema"
	"github.com/b-harvest/agentboard-backend/service/detector"
	"github.com/b-harvest/agentboard-backend/service/score"
)

// ErrNotFound is returned when the identity of a token cannot be fetched.
var ErrNotFound = errors.New("agent not found")

// weiDecimals is the number of decimals of token and native amounts.
const weiDecimals = 18

// defaultTotalSupply is assumed when the market data carries no supply.
var defaultTotalSupply = decimal.New(1, 9)

// 24h change is taken from the longest window available.
var changeTimeframes = []string{"1440", "360", "60"}

// Source is the market data the builder reads from.
type Source interface {
	TokenInfo(ctx context.Context, tokenID string) (*schema.TokenInfo, error)
	Market(ctx context.Context, tokenID string) (*schema.MarketInfo, error)
	Metrics(ctx context.Context, tokenID, timeframes string) ([]schema.MetricTimeframe, error)
	SwapHistory(ctx context.Context, tokenID string, limit int) ([]schema.Swap, error)
}

type Builder struct {
	cfg    Config
	src    Source
	hints  map[string]schema.Category
	logger *zap.Logger
	now    func() time.Time
}

func NewBuilder(cfg Config, src Source, tokens []schema.TrackedToken, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	hints := make(map[string]schema.Category)
	for _, t := range tokens {
		if t.HintCategory != "" {
			hints[strings.ToLower(t.Address)] = t.HintCategory
		}
	}
	return &Builder{cfg, src, hints, logger, time.Now}
}

type rawData struct {
	token      *schema.TokenInfo
	market     *schema.MarketInfo
	metrics    []schema.MetricTimeframe
	marketErr  error
	metricsErr error
}

// Build fetches identity, market and metrics of a token in parallel. Only a
// missing identity fails the build; the other sources fall back to defaults
// and are listed in the agent's MissingData. Rank is left at zero.
func (b *Builder) Build(ctx context.Context, address string) (*schema.Agent, error) {
	var raw rawData
	eg, ctx2 := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		if raw.token, err = b.src.TokenInfo(ctx2, address); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrNotFound, address, err)
		}
		return nil
	})
	b.fetchMarketData(ctx2, eg, address, &raw)
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	agent, _ := b.assemble(address, &raw)
	return agent, nil
}

func (b *Builder) fetchMarketData(ctx context.Context, eg *errgroup.Group, address string, raw *rawData) {
	eg.Go(func() error {
		raw.market, raw.marketErr = b.src.Market(ctx, address)
		return nil
	})
	eg.Go(func() error {
		raw.metrics, raw.metricsErr = b.src.Metrics(ctx, address, b.cfg.MetricTimeframes)
		return nil
	})
}

func (b *Builder) assemble(address string, raw *rawData) (*schema.Agent, score.Result) {
	token, market := raw.token, raw.market
	var missing []string
	if raw.marketErr != nil || market == nil {
		missing = append(missing, schema.SourceMarket)
		market = &schema.MarketInfo{}
	}
	if raw.metricsErr != nil {
		missing = append(missing, schema.SourceMetrics)
	}

	priceUSD := parseDecimal(market.PriceUSD)
	nativePrice := parseDecimal(market.NativePrice)
	usdPerNative := decimal.NewFromFloat(b.cfg.FallbackUSDPerNative)
	if priceUSD.IsPositive() && nativePrice.IsPositive() {
		usdPerNative = priceUSD.Div(nativePrice)
	}
	volumeUSD := weiToUnits(market.Volume).Mul(usdPerNative)

	supply := weiToUnits(market.TotalSupply)
	if !supply.IsPositive() {
		supply = defaultTotalSupply
	}
	marketCap := decimal.Zero
	if priceUSD.IsPositive() {
		marketCap = priceUSD.Mul(supply)
	}

	priceChange, txCount := summarizeMetrics(raw.metrics)

	createdAt := time.Unix(token.CreatedAt, 0)
	sr := score.Calculate(score.Metrics{
		Volume24h:      volumeUSD.InexactFloat64(),
		HolderCount:    market.HolderCount,
		PriceChange24h: priceChange,
		TxCount24h:     txCount,
		CreatedAt:      createdAt,
	}, b.now())

	if token.TokenID != "" {
		address = token.TokenID
	}
	det := detector.Detect(token.Name, token.Symbol, token.Description)
	return &schema.Agent{
		Address:        address,
		Name:           token.Name,
		Symbol:         token.Symbol,
		Description:    token.Description,
		ImageURI:       token.ImageURI,
		Category:       detector.ResolveCategory(det.Category, b.hints[strings.ToLower(address)]),
		Score:          sr.Overall,
		MarketCap:      marketCap.InexactFloat64(),
		Price:          priceUSD.InexactFloat64(),
		PriceChange24h: priceChange,
		Volume24h:      volumeUSD.InexactFloat64(),
		HolderCount:    market.HolderCount,
		TxCount24h:     txCount,
		CreatedAt:      createdAt.UnixMilli(),
		IsGraduated:    token.IsGraduated,
		MissingData:    missing,
	}, sr
}

// summarizeMetrics returns the price change of the longest window and the
// transaction count summed over all windows.
func summarizeMetrics(metrics []schema.MetricTimeframe) (change float64, txCount int64) {
	byTimeframe := make(map[string]schema.MetricTimeframe)
	for _, m := range metrics {
		byTimeframe[m.Timeframe] = m
		txCount += m.Transactions.Total
	}
	for _, tf := range changeTimeframes {
		if m, ok := byTimeframe[tf]; ok {
			return m.Percent, txCount
		}
	}
	return 0, txCount
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func weiToUnits(s string) decimal.Decimal {
	return parseDecimal(s).Shift(-weiDecimals)
}
