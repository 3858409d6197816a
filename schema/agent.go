package schema

type Category string

const (
	CategoryMemeTrader Category = "meme_trader"
	CategoryDeFi       Category = "defi"
	CategorySniper     Category = "sniper"
	CategoryCopyTrader Category = "copy_trader"
	CategoryArbitrage  Category = "arbitrage"
	CategorySocial     Category = "social"
	CategoryAnalyst    Category = "analyst"
	CategoryTrading    Category = "trading"

	// CategoryOther is a detection result only. Stored agents always carry
	// one of Categories.
	CategoryOther Category = "other"
)

var Categories = []Category{
	CategoryMemeTrader,
	CategoryDeFi,
	CategorySniper,
	CategoryCopyTrader,
	CategoryArbitrage,
	CategorySocial,
	CategoryAnalyst,
	CategoryTrading,
}

func (c Category) Valid() bool {
	for _, x := range Categories {
		if c == x {
			return true
		}
	}
	return false
}

// Sources named in Agent.MissingData.
const (
	SourceMarket  = "market"
	SourceMetrics = "metrics"
)

type Agent struct {
	Address        string   `json:"address"`
	Name           string   `json:"name"`
	Symbol         string   `json:"symbol"`
	Description    string   `json:"description"`
	ImageURI       string   `json:"imageUri"`
	Category       Category `json:"category"`
	Score          float64  `json:"score"`
	Rank           int      `json:"rank"`
	MarketCap      float64  `json:"marketCap"`
	Price          float64  `json:"price"`
	PriceChange24h float64  `json:"priceChange24h"`
	Volume24h      float64  `json:"volume24h"`
	HolderCount    int64    `json:"holderCount"`
	TxCount24h     int64    `json:"txCount24h"`
	CreatedAt      int64    `json:"createdAt"` // unix milliseconds
	IsGraduated    bool     `json:"isGraduated"`
	// MissingData lists the sources that could not be fetched when the agent
	// was built. Their fields hold defaults, not observed zeros.
	MissingData []string `json:"missingData,omitempty"`
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type TradeType string

const (
	TradeBuy  TradeType = "buy"
	TradeSell TradeType = "sell"
)

type Trade struct {
	ID        string    `json:"id"`
	Type      TradeType `json:"type"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
	Timestamp int64     `json:"timestamp"` // unix milliseconds
	Trader    string    `json:"trader"`
}

type ScoreBreakdown struct {
	Volume      float64 `json:"volume"`
	Holders     float64 `json:"holders"`
	Performance float64 `json:"performance"`
	Activity    float64 `json:"activity"`
	Age         float64 `json:"age"`
}

type AgentDetail struct {
	Agent
	Strengths      []string       `json:"strengths"`
	Weaknesses     []string       `json:"weaknesses"`
	RiskLevel      RiskLevel      `json:"riskLevel"`
	Summary        string         `json:"summary"`
	Trades         []Trade        `json:"trades"`
	ScoreBreakdown ScoreBreakdown `json:"scoreBreakdown"`
}

const (
	TierPrimary  = "primary"
	TierExtended = "extended"
)

// TrackedToken is an entry of the seed list of tokens to rank.
type TrackedToken struct {
	Address string `yaml:"address"`
	// HintCategory is used when the detector cannot tell the category from
	// the token's own text.
	HintCategory Category `yaml:"hint_category"`
	Tier         string   `yaml:"tier"`
	Note         string   `yaml:"note"`
}
