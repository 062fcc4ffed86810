package entity

// CoinGeckoSimplePrice is one coin of the simple/price response with the
// optional market fields enabled.
type CoinGeckoSimplePrice struct {
	USD          float64 `json:"usd"`
	USDMarketCap float64 `json:"usd_market_cap"`
	USD24hVol    float64 `json:"usd_24h_vol"`
	USD24hChange float64 `json:"usd_24h_change"`
}
