// Package detector infers whether a token is an agent and which category it
// belongs to from its name, symbol and description.
package detector

import (
	"strings"

	"github.com/b-harvest/agentboard-backend/schema"
)

// MinAgentMatches is the number of agent keywords a token needs to be
// considered an agent.
const MinAgentMatches = 2

var agentKeywords = []string{
	"agent", "ai", "bot", "autonomous", "trading", "autopilot", "copilot",
	"pilot", "sniper", "tracker", "defi", "yield", "arbitrage", "mev",
	"openclaw", "moltbot", "claude", "gpt", "automated", "algo", "strategy",
	"intelligence", "neural", "prediction", "analyzer", "scanner", "monitor",
}

type categoryRule struct {
	category schema.Category
	keywords []string
}

// Rules are evaluated in order; on equal match counts the earlier one wins.
var categoryRules = []categoryRule{
	{schema.CategoryMemeTrader, []string{"meme", "degen", "ape", "flip", "shitcoin", "pump", "moon", "gem"}},
	{schema.CategoryDeFi, []string{"defi", "yield", "farm", "liquidity", "pool", "stake", "vault", "lend"}},
	{schema.CategorySniper, []string{"sniper", "snipe", "launch", "new token", "early", "first", "fast"}},
	{schema.CategoryCopyTrader, []string{"copy", "mirror", "follow", "whale", "smart money", "track"}},
	{schema.CategoryArbitrage, []string{"arbitrage", "arb", "spread", "cross", "dex"}},
	{schema.CategorySocial, []string{"social", "twitter", "sentiment", "news", "signal", "alpha", "community"}},
	{schema.CategoryAnalyst, []string{"analysis", "analyze", "research", "score", "rate", "audit", "risk"}},
}

type Detection struct {
	IsAgent         bool
	Confidence      float64
	Category        schema.Category
	MatchedKeywords []string
}

// Detect matches keywords as plain substrings of the lower-cased text.
func Detect(name, symbol, description string) Detection {
	text := strings.ToLower(name + " " + symbol + " " + description)
	var matched []string
	for _, kw := range agentKeywords {
		if strings.Contains(text, kw) {
			matched = append(matched, kw)
		}
	}
	d := Detection{
		IsAgent:         len(matched) >= MinAgentMatches,
		Confidence:      float64(len(matched)) / 5,
		Category:        schema.CategoryOther,
		MatchedKeywords: matched,
	}
	if d.Confidence > 1 {
		d.Confidence = 1
	}
	best := 0
	for _, r := range categoryRules {
		n := 0
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				n++
			}
		}
		if n > best {
			best = n
			d.Category = r.category
		}
	}
	if best == 0 && d.IsAgent {
		d.Category = schema.CategoryTrading
	}
	return d
}

// ResolveCategory picks the category stored on an agent: the detected one if
// it is valid, then the seed hint, then trading.
func ResolveCategory(detected, hint schema.Category) schema.Category {
	if detected.Valid() {
		return detected
	}
	if hint.Valid() {
		return hint
	}
	return schema.CategoryTrading
}
