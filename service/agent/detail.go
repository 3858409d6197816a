package agent

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/b-harvest/agentboard-backend/schema"
	"github.com/b-harvest/agentboard-backend/service/score"
)

const summaryDescriptionLimit = 150

var printer = message.NewPrinter(language.English)

// Detail builds the full view of a single agent, always from the source.
// It returns an error wrapping ErrNotFound when the identity is unavailable.
func (b *Builder) Detail(ctx context.Context, address string, rank int) (*schema.AgentDetail, error) {
	var (
		raw     rawData
		swaps   []schema.Swap
		swapErr error
	)
	eg, ctx2 := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		if raw.token, err = b.src.TokenInfo(ctx2, address); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrNotFound, address, err)
		}
		return nil
	})
	b.fetchMarketData(ctx2, eg, address, &raw)
	eg.Go(func() error {
		swaps, swapErr = b.src.SwapHistory(ctx2, address, b.cfg.TradeLimit)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if swapErr != nil && !errors.Is(swapErr, context.Canceled) {
		b.logger.Warn("failed to fetch swap history", zap.String("address", address), zap.Error(swapErr))
	}

	agent, sr := b.assemble(address, &raw)
	agent.Rank = rank
	strengths, weaknesses := assess(agent)
	return &schema.AgentDetail{
		Agent:          *agent,
		Strengths:      strengths,
		Weaknesses:     weaknesses,
		RiskLevel:      riskLevel(agent),
		Summary:        summary(agent),
		Trades:         trades(swaps, b.cfg.TradeLimit),
		ScoreBreakdown: breakdown(sr),
	}, nil
}

func assess(a *schema.Agent) (strengths, weaknesses []string) {
	switch {
	case a.HolderCount >= 50:
		strengths = append(strengths, fmt.Sprintf("Strong holder base (%d holders)", a.HolderCount))
	case a.HolderCount >= 10:
		strengths = append(strengths, fmt.Sprintf("Growing holder base (%d holders)", a.HolderCount))
	default:
		weaknesses = append(weaknesses, fmt.Sprintf("Limited holders (%d)", a.HolderCount))
	}

	if a.IsGraduated {
		strengths = append(strengths, "Graduated to DEX, proven liquidity")
	} else {
		weaknesses = append(weaknesses, "Still on bonding curve, not yet graduated")
	}

	switch {
	case a.Volume24h > 10000:
		strengths = append(strengths, "High trading volume ($"+formatInt(a.Volume24h)+")")
	case a.Volume24h > 1000:
		strengths = append(strengths, "Active trading volume ($"+formatInt(a.Volume24h)+")")
	default:
		weaknesses = append(weaknesses, "Low trading volume")
	}

	switch {
	case a.PriceChange24h > 10:
		strengths = append(strengths, fmt.Sprintf("Strong positive momentum (+%.1f%%)", a.PriceChange24h))
	case a.PriceChange24h > 0:
		strengths = append(strengths, fmt.Sprintf("Positive price movement (+%.1f%%)", a.PriceChange24h))
	case a.PriceChange24h < -10:
		weaknesses = append(weaknesses, fmt.Sprintf("Price declining (%.1f%%)", a.PriceChange24h))
	}

	switch {
	case a.TxCount24h > 50:
		strengths = append(strengths, fmt.Sprintf("High activity (%d recent transactions)", a.TxCount24h))
	case a.TxCount24h > 10:
		strengths = append(strengths, fmt.Sprintf("Active trading (%d recent transactions)", a.TxCount24h))
	default:
		weaknesses = append(weaknesses, "Low recent transaction activity")
	}

	if len(strengths) == 0 {
		strengths = append(strengths, "Active on Nad.fun platform")
	}
	if len(weaknesses) == 0 {
		weaknesses = append(weaknesses, "Market conditions can change rapidly")
	}
	return strengths, weaknesses
}

func riskLevel(a *schema.Agent) schema.RiskLevel {
	switch {
	case a.Score >= 70 && a.HolderCount >= 50:
		return schema.RiskLow
	case a.Score < 40 || a.HolderCount < 10:
		return schema.RiskHigh
	default:
		return schema.RiskMedium
	}
}

func summary(a *schema.Agent) string {
	kind := "bonding curve"
	if a.IsGraduated {
		kind = "graduated"
	}
	mcap := fmt.Sprintf("$%.0f", a.MarketCap)
	if a.MarketCap > 1000 {
		mcap = fmt.Sprintf("$%.1fK", a.MarketCap/1000)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s ($%s) is a %s token on Nad.fun with %d holders and a market cap of %s",
		a.Name, a.Symbol, kind, a.HolderCount, mcap)
	if a.Description != "" {
		sb.WriteString(". ")
		sb.WriteString(truncate(a.Description, summaryDescriptionLimit))
	} else {
		sb.WriteString(".")
	}
	return sb.String()
}

func trades(swaps []schema.Swap, limit int) []schema.Trade {
	if limit >= 0 && len(swaps) > limit {
		swaps = swaps[:limit]
	}
	ts := make([]schema.Trade, 0, len(swaps))
	for i, s := range swaps {
		info := s.SwapInfo
		id := info.TransactionHash
		if id == "" {
			id = "trade-" + strconv.Itoa(i)
		}
		typ := schema.TradeSell
		if info.EventType == schema.SwapEventBuy {
			typ = schema.TradeBuy
		}
		ts = append(ts, schema.Trade{
			ID:        id,
			Type:      typ,
			Amount:    weiToUnits(info.TokenAmount).InexactFloat64(),
			Price:     parseDecimal(info.Value).InexactFloat64(),
			Timestamp: info.CreatedAt * 1000,
			Trader:    shortAddress(s.AccountInfo.AccountID),
		})
	}
	return ts
}

// shortAddress renders 0x1234...abcd.
func shortAddress(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func formatInt(v float64) string {
	return printer.Sprintf("%d", int64(v+0.5))
}

func breakdown(r score.Result) schema.ScoreBreakdown {
	return schema.ScoreBreakdown{
		Volume:      r.Volume,
		Holders:     r.Holders,
		Performance: r.Performance,
		Activity:    r.Activity,
		Age:         r.Age,
	}
}
