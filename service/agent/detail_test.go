package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/b-harvest/agentboard-backend/schema"
)

func TestBuilder_Detail(t *testing.T) {
	src := newFakeSource()
	src.token.Description = "An autonomous trading agent."
	src.swaps = []schema.Swap{
		{
			AccountInfo: schema.SwapAccountInfo{AccountID: "0x1234567890abcdef1234567890abcdef12345678"},
			SwapInfo: schema.SwapInfo{
				EventType:       schema.SwapEventBuy,
				TokenAmount:     "2500000000000000000",
				Value:           "3.75",
				TransactionHash: "0xfeed",
				CreatedAt:       1700000000,
			},
		},
		{
			AccountInfo: schema.SwapAccountInfo{AccountID: "0xshort"},
			SwapInfo:    schema.SwapInfo{EventType: schema.SwapEventSell, TokenAmount: "1", Value: "x"},
		},
	}
	b := newTestBuilder(src)

	d, err := b.Detail(context.Background(), testAddress, 3)
	require.NoError(t, err)
	require.Equal(t, 3, d.Rank)
	require.Equal(t, 71.0, d.Score)
	require.Equal(t, []string{
		"Strong holder base (120 holders)",
		"Graduated to DEX, proven liquidity",
		"High trading volume ($50,000)",
		"Strong positive momentum (+12.5%)",
		"Active trading (45 recent transactions)",
	}, d.Strengths)
	require.Equal(t, []string{"Market conditions can change rapidly"}, d.Weaknesses)
	require.Equal(t, schema.RiskLow, d.RiskLevel)
	require.Equal(t,
		"Claw ($CLAW) is a graduated token on Nad.fun with 120 holders and a market cap of $1000.0K. An autonomous trading agent.",
		d.Summary)

	require.Len(t, d.Trades, 2)
	require.Equal(t, schema.Trade{
		ID:        "0xfeed",
		Type:      schema.TradeBuy,
		Amount:    2.5,
		Price:     3.75,
		Timestamp: 1700000000000,
		Trader:    "0x1234...5678",
	}, d.Trades[0])
	require.Equal(t, "trade-1", d.Trades[1].ID)
	require.Equal(t, schema.TradeSell, d.Trades[1].Type)
	require.Equal(t, "0xshort", d.Trades[1].Trader)
	require.Zero(t, d.Trades[1].Price)

	require.Equal(t, 94.0, d.ScoreBreakdown.Volume)
	require.Equal(t, 50.0, d.ScoreBreakdown.Age)
	require.Equal(t, 1, src.calls["swaps"])
}

func TestBuilder_Detail_SwapsUnavailable(t *testing.T) {
	src := newFakeSource()
	src.errs["swaps"] = errDown
	b := newTestBuilder(src)

	d, err := b.Detail(context.Background(), testAddress, 0)
	require.NoError(t, err)
	require.NotNil(t, d.Trades)
	require.Empty(t, d.Trades)
}

func TestBuilder_Detail_IdentityUnavailable(t *testing.T) {
	src := newFakeSource()
	src.errs["token"] = errDown
	b := newTestBuilder(src)

	d, err := b.Detail(context.Background(), testAddress, 0)
	require.Nil(t, d)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAssess(t *testing.T) {
	strengths, weaknesses := assess(&schema.Agent{
		HolderCount:    3,
		Volume24h:      1500.4,
		PriceChange24h: -25,
		TxCount24h:     2,
	})
	require.Equal(t, []string{"Active trading volume ($1,500)"}, strengths)
	require.Equal(t, []string{
		"Limited holders (3)",
		"Still on bonding curve, not yet graduated",
		"Price declining (-25.0%)",
		"Low recent transaction activity",
	}, weaknesses)

	strengths, _ = assess(&schema.Agent{HolderCount: 1, TxCount24h: 0})
	require.Equal(t, []string{"Active on Nad.fun platform"}, strengths)
}

func TestRiskLevel(t *testing.T) {
	for i, tc := range []struct {
		score   float64
		holders int64
		risk    schema.RiskLevel
	}{
		{70, 50, schema.RiskLow},
		{69.9, 500, schema.RiskMedium},
		{90, 49, schema.RiskMedium},
		{39.9, 500, schema.RiskHigh},
		{80, 9, schema.RiskHigh},
		{50, 10, schema.RiskMedium},
	} {
		require.Equalf(t, tc.risk, riskLevel(&schema.Agent{Score: tc.score, HolderCount: tc.holders}), "case #%d", i)
	}
}

func TestSummary(t *testing.T) {
	require.Equal(t,
		"Gem ($GEM) is a bonding curve token on Nad.fun with 4 holders and a market cap of $950.",
		summary(&schema.Agent{Name: "Gem", Symbol: "GEM", HolderCount: 4, MarketCap: 950}))
}
