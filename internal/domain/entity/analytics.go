package entity

// TotalHoldersUnavailable marks that the holder count cannot be derived from
// the available data sources. The largest-accounts RPC only returns the top
// handful of accounts, so any "total" computed from it would be fiction.
const TotalHoldersUnavailable = -1

// RiskLevel buckets the security risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low Risk"
	RiskMedium RiskLevel = "Medium Risk"
	RiskHigh   RiskLevel = "High Risk"
)

// TokenDetails is the identity and headline market data of a token.
type TokenDetails struct {
	Mint           string  `json:"mint"`
	Name           string  `json:"name"`
	Symbol         string  `json:"symbol"`
	LogoURI        string  `json:"logoUri,omitempty"`
	PriceUSD       float64 `json:"priceUsd"`
	PriceChange24h float64 `json:"priceChange24h"`
	MarketCap      float64 `json:"marketCap"`
	Status         string  `json:"status"`
}

// PricePoint is one point of a synthesized 24h price series.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"`
	PriceUSD  float64 `json:"priceUsd"`
}

// LargestAccount is one of a mint's largest token accounts as reported by the
// ledger, before supply percentages are computed.
type LargestAccount struct {
	Address  string
	UIAmount float64
}

// TopHolder is one of the largest token accounts, as a share of supply.
type TopHolder struct {
	Address    string  `json:"address"`
	Balance    float64 `json:"balance"`
	Percentage float64 `json:"percentage"`
}

// SecurityAnalysis is a heuristic risk summary derived from market data.
type SecurityAnalysis struct {
	RiskScore        int       `json:"riskScore"`
	RiskLevel        RiskLevel `json:"riskLevel"`
	Description      string    `json:"description"`
	HasLiquidity     bool      `json:"hasLiquidity"`
	HasValidMetadata bool      `json:"hasValidMetadata"`
	IsVerified       bool      `json:"isVerified"`
}

// TradeData is 24h trading activity for a token's most liquid pair.
type TradeData struct {
	Volume24h    float64 `json:"volume24h"`
	Buys24h      int     `json:"buys24h"`
	Sells24h     int     `json:"sells24h"`
	LiquidityUSD float64 `json:"liquidityUsd"`
}

// TokenAnalytics is the enriched risk/trade summary for a token.
type TokenAnalytics struct {
	Details         TokenDetails     `json:"details"`
	PriceHistory    []PricePoint     `json:"priceHistory"`
	TopHolders      []TopHolder      `json:"topHolders"`
	Security        SecurityAnalysis `json:"security"`
	TradeData       TradeData        `json:"tradeData"`
	TotalHolders    int              `json:"totalHolders"`
	IsDataAvailable bool             `json:"isDataAvailable"`
}
