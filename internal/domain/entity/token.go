package entity

import "math"

// NativeMint is the well-known identity of the chain's native asset.
const NativeMint = "So11111111111111111111111111111111111111112"

// LamportsPerNative converts the native asset's smallest unit to UI units.
const LamportsPerNative = 1_000_000_000

// TokenMetadata holds the display triple for a token identity.
type TokenMetadata struct {
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	LogoURI string `json:"logoUri,omitempty"`
}

// TokenHolding represents one token position of a wallet.
// UIAmount and ValueUSD are derived fields: UIAmount = RawBalance / 10^Decimals,
// ValueUSD = UIAmount * PriceUSD.
type TokenHolding struct {
	Mint       string  `json:"mint"`
	RawBalance uint64  `json:"rawBalance"`
	Decimals   uint8   `json:"decimals"`
	UIAmount   float64 `json:"uiAmount"`
	Name       string  `json:"name,omitempty"`
	Symbol     string  `json:"symbol,omitempty"`
	LogoURI    string  `json:"logoUri,omitempty"`
	PriceUSD   float64 `json:"priceUsd"`
	ValueUSD   float64 `json:"valueUsd"`
}

// UIAmountFromRaw scales a raw smallest-unit balance to UI units.
func UIAmountFromRaw(raw uint64, decimals uint8) float64 {
	return float64(raw) / math.Pow10(int(decimals))
}

// WalletBalance is the valued portfolio of a single wallet, rebuilt fresh on
// every aggregation call. Holdings are ordered descending by ValueUSD.
type WalletBalance struct {
	Address        string         `json:"address"`
	NativeAmount   float64        `json:"nativeAmount"`
	NativeValueUSD float64        `json:"nativeValueUsd"`
	Holdings       []TokenHolding `json:"holdings"`
	TotalValueUSD  float64        `json:"totalValueUsd"`
}
