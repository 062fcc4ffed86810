package port

import (
	"context"

	"wallet_dashboard/internal/domain/entity"
)

// MetadataResolver resolves token identities to display metadata. Resolution
// never fails; unknown identities get synthesized fallbacks.
type MetadataResolver interface {
	Resolve(ctx context.Context, mints []string) map[string]entity.TokenMetadata
	// DisplaySymbol answers from cache, the static table or the synthesized
	// fallback only — it never touches the network.
	DisplaySymbol(mint string) string
}

// PriceResolver resolves token identities to USD prices. It never fails:
// unresolvable tokens price at the last-known value or zero, and the native
// asset falls back to a configured non-zero default.
type PriceResolver interface {
	GetPrices(ctx context.Context, mints []string) map[string]float64
	GetNativePrice(ctx context.Context) float64
}

// BalanceService aggregates a wallet's native and token balances into a
// valued portfolio.
type BalanceService interface {
	GetWalletBalance(ctx context.Context, address string) (entity.WalletBalance, error)
}

// TransactionService returns classified transaction pages for a wallet.
type TransactionService interface {
	GetWalletTransactions(ctx context.Context, address string, limit int, beforeCursor string) (entity.TransactionPage, error)
}

// AnalyticsService returns the enriched risk/trade summary for a token.
type AnalyticsService interface {
	GetTokenAnalytics(ctx context.Context, mint string, existing *entity.TokenHolding) (entity.TokenAnalytics, error)
}
