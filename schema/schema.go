package schema

// Wire types of the nad.fun agent API. Numeric amounts that may exceed float64
// precision (wei values, prices) arrive as strings.

type TokenInfoResponse struct {
	TokenInfo *TokenInfo `json:"token_info"`
}

type TokenInfo struct {
	TokenID     string       `json:"token_id"`
	Name        string       `json:"name"`
	Symbol      string       `json:"symbol"`
	Description string       `json:"description"`
	ImageURI    string       `json:"image_uri"`
	IsGraduated bool         `json:"is_graduated"`
	IsNSFW      bool         `json:"is_nsfw"`
	Twitter     *string      `json:"twitter"`
	Telegram    *string      `json:"telegram"`
	Website     *string      `json:"website"`
	CreatedAt   int64        `json:"created_at"` // unix seconds
	Creator     TokenCreator `json:"creator"`
	IsCTO       bool         `json:"is_cto"`
}

type TokenCreator struct {
	AccountID string `json:"account_id"`
	Nickname  string `json:"nickname"`
	Bio       string `json:"bio"`
	ImageURI  string `json:"image_uri"`
}

type MarketInfoResponse struct {
	MarketInfo *MarketInfo `json:"market_info"`
}

const (
	MarketTypeCurve = "CURVE"
	MarketTypeDEX   = "DEX"
)

type MarketInfo struct {
	MarketType     string `json:"market_type"`
	TokenID        string `json:"token_id"`
	MarketID       string `json:"market_id"`
	ReserveNative  string `json:"reserve_native"`
	ReserveToken   string `json:"reserve_token"`
	TokenPrice     string `json:"token_price"`
	NativePrice    string `json:"native_price"`
	Price          string `json:"price"`
	PriceUSD       string `json:"price_usd"`
	PriceNative    string `json:"price_native"`
	TotalSupply    string `json:"total_supply"` // wei
	Volume         string `json:"volume"`       // wei, native units
	ATHPrice       string `json:"ath_price"`
	ATHPriceUSD    string `json:"ath_price_usd"`
	ATHPriceNative string `json:"ath_price_native"`
	HolderCount    int64  `json:"holder_count"`
}

type MetricsResponse struct {
	Metrics []MetricTimeframe `json:"metrics"`
}

// MetricTimeframe holds the statistics of one lookback window. Timeframe is
// the window length in minutes, e.g. "60" or "1440".
type MetricTimeframe struct {
	Timeframe    string        `json:"timeframe"`
	Percent      float64       `json:"percent"`
	Transactions MetricCounts  `json:"transactions"`
	Volume       MetricVolumes `json:"volume"`
	Makers       MetricCounts  `json:"makers"`
}

type MetricCounts struct {
	Buy   int64 `json:"buy"`
	Sell  int64 `json:"sell"`
	Total int64 `json:"total"`
}

type MetricVolumes struct {
	Buy   string `json:"buy"`
	Sell  string `json:"sell"`
	Total string `json:"total"`
}

type SwapHistoryResponse struct {
	Swaps      []Swap `json:"swaps"`
	TotalCount int64  `json:"total_count"`
}

type Swap struct {
	AccountInfo SwapAccountInfo `json:"account_info"`
	SwapInfo    SwapInfo        `json:"swap_info"`
}

type SwapAccountInfo struct {
	AccountID string `json:"account_id"`
	Nickname  string `json:"nickname"`
	Bio       string `json:"bio"`
	ImageURI  string `json:"image_uri"`
}

const (
	SwapEventBuy  = "BUY"
	SwapEventSell = "SELL"
)

type SwapInfo struct {
	EventType       string `json:"event_type"`
	NativeAmount    string `json:"native_amount"`
	TokenAmount     string `json:"token_amount"`
	NativePrice     string `json:"native_price"`
	Value           string `json:"value"`
	TransactionHash string `json:"transaction_hash"`
	CreatedAt       int64  `json:"created_at"` // unix seconds
}
