package detector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/b-harvest/agentboard-backend/schema"
)

func TestDetect(t *testing.T) {
	for i, tc := range []struct {
		name, symbol, desc string
		isAgent            bool
		category           schema.Category
	}{
		{"AlphaSniper", "ASNIP", "First-block sniper bot agent. Detects new token launches.", true, schema.CategorySniper},
		{"YieldMaxxor", "YMAX", "DeFi yield optimization agent. Farms the best vaults.", true, schema.CategoryDeFi},
		{"WhaleMirror", "WMRR", "Copy trading agent that mirrors whale wallets.", true, schema.CategoryCopyTrader},
		{"Helper", "HLP", "An autonomous agent with a neural core", true, schema.CategoryTrading},
		{"Chog", "CHOG", "just a cat", false, schema.CategoryOther},
	} {
		d := Detect(tc.name, tc.symbol, tc.desc)
		require.Equalf(t, tc.isAgent, d.IsAgent, "tc #%d", i)
		require.Equalf(t, tc.category, d.Category, "tc #%d", i)
	}
}

func TestDetect_Confidence(t *testing.T) {
	d := Detect("x", "y", "agent bot")
	require.Equal(t, []string{"agent", "bot"}, d.MatchedKeywords)
	require.InDelta(t, 0.4, d.Confidence, 1e-9)

	d = Detect("AI agent bot", "ALGO", "autonomous trading strategy scanner")
	require.Equal(t, 1.0, d.Confidence)
}

func TestDetect_TieGoesToFirstRule(t *testing.T) {
	// One meme keyword and one defi keyword: meme_trader is declared first.
	d := Detect("Gem", "VLT", "vault")
	require.Equal(t, schema.CategoryMemeTrader, d.Category)

	// Same text in the opposite order must not change the result.
	d = Detect("Vault", "GEM", "")
	require.Equal(t, schema.CategoryMemeTrader, d.Category)
}

func TestResolveCategory(t *testing.T) {
	require.Equal(t, schema.CategorySniper, ResolveCategory(schema.CategorySniper, schema.CategoryDeFi))
	require.Equal(t, schema.CategoryDeFi, ResolveCategory(schema.CategoryOther, schema.CategoryDeFi))
	require.Equal(t, schema.CategoryTrading, ResolveCategory(schema.CategoryOther, ""))
	require.Equal(t, schema.CategoryTrading, ResolveCategory(schema.CategoryOther, "bogus"))
}
