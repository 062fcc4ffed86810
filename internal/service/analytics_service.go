package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"wallet_dashboard/internal/client"
	"wallet_dashboard/internal/config"
	"wallet_dashboard/internal/domain/entity"
	dexscreener_entity "wallet_dashboard/internal/entity"
	"wallet_dashboard/internal/pkg/metrics"
	"wallet_dashboard/internal/pkg/utils"
	"wallet_dashboard/internal/port"
)

const priceHistoryPoints = 24

// analyticsServiceImpl builds the enriched risk/trade summary for a token.
// The native asset goes to the market-data provider; every other token is
// assembled from its most liquid aggregator pair plus on-chain holder data.
type analyticsServiceImpl struct {
	ledger   client.LedgerClient
	dex      client.TradeDataClient
	market   client.NativeMarketClient
	metadata port.MetadataResolver
	cfg      config.AnalyticsConfig
	cache    *cache.Cache
	logger   *zap.Logger
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(
	ledger client.LedgerClient,
	dex client.TradeDataClient,
	market client.NativeMarketClient,
	metadata port.MetadataResolver,
	cfg config.AnalyticsConfig,
	logger *zap.Logger,
) port.AnalyticsService {
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	return &analyticsServiceImpl{
		ledger:   ledger,
		dex:      dex,
		market:   market,
		metadata: metadata,
		cfg:      cfg,
		cache:    cache.New(ttl, 10*time.Minute),
		logger:   logger.Named("AnalyticsService"),
	}
}

// GetTokenAnalytics returns the analytics summary for a mint. The existing
// holding, when present, supplies the preferred price and display identity so
// the analytics view agrees with the portfolio view.
func (s *analyticsServiceImpl) GetTokenAnalytics(ctx context.Context, mint string, existing *entity.TokenHolding) (entity.TokenAnalytics, error) {
	if err := utils.ValidateAddress(mint); err != nil {
		return entity.TokenAnalytics{}, err
	}

	if cached, found := s.cache.Get(mint); found {
		metrics.ObserveCacheLookup("analytics", true)
		return cached.(entity.TokenAnalytics), nil
	}
	metrics.ObserveCacheLookup("analytics", false)

	var analytics entity.TokenAnalytics
	if mint == entity.NativeMint {
		analytics = s.nativeAnalytics(ctx)
	} else {
		analytics = s.tokenAnalytics(ctx, mint, existing)
	}

	s.cache.Set(mint, analytics, cache.DefaultExpiration)
	return analytics, nil
}

// nativeAnalytics builds the summary for the native asset. Holder
// distribution is meaningless for it, so the holder fields stay empty.
func (s *analyticsServiceImpl) nativeAnalytics(ctx context.Context) entity.TokenAnalytics {
	analytics := entity.TokenAnalytics{
		Details: entity.TokenDetails{
			Mint:   entity.NativeMint,
			Name:   "Solana",
			Symbol: "SOL",
			Status: "native",
		},
		TotalHolders: entity.TotalHoldersUnavailable,
	}

	data, err := s.market.GetNativeMarketData(ctx)
	if err != nil {
		s.logger.Warn("Native market data unavailable", zap.Error(err))
		analytics.Security = s.scoreSecurity(0, true, false)
		return analytics
	}

	analytics.IsDataAvailable = true
	analytics.Details.PriceUSD = data.USD
	analytics.Details.PriceChange24h = data.USD24hChange
	analytics.Details.MarketCap = data.USDMarketCap
	// The native asset has no single pool; a tenth of market cap stands in
	// as an order-of-magnitude liquidity figure.
	analytics.TradeData = entity.TradeData{
		Volume24h:    data.USD24hVol,
		LiquidityUSD: data.USDMarketCap * 0.1,
	}
	analytics.Security = s.scoreSecurity(analytics.TradeData.LiquidityUSD, true, true)
	analytics.PriceHistory = synthesizeHistory(data.USD, data.USD24hChange)
	return analytics
}

// tokenAnalytics builds the summary for an SPL token from its best aggregator
// pair and the ledger's holder data. Each source degrades independently.
func (s *analyticsServiceImpl) tokenAnalytics(ctx context.Context, mint string, existing *entity.TokenHolding) entity.TokenAnalytics {
	md := s.metadata.Resolve(ctx, []string{mint})[mint]
	analytics := entity.TokenAnalytics{
		Details: entity.TokenDetails{
			Mint:    mint,
			Name:    md.Name,
			Symbol:  md.Symbol,
			LogoURI: md.LogoURI,
			Status:  "unverified",
		},
		TotalHolders: entity.TotalHoldersUnavailable,
	}

	pair := s.bestPair(ctx, mint)
	if pair != nil {
		analytics.IsDataAvailable = true
		if pair.BaseToken.Name != "" {
			analytics.Details.Name = pair.BaseToken.Name
		}
		if pair.BaseToken.Symbol != "" {
			analytics.Details.Symbol = pair.BaseToken.Symbol
		}
		analytics.Details.PriceChange24h = pair.PriceChange.H24
		analytics.Details.MarketCap = pair.MarketCap
		analytics.Details.Status = "listed"
		analytics.TradeData = entity.TradeData{
			Volume24h: pair.Volume.H24,
			Buys24h:   pair.Txns.H24.Buys,
			Sells24h:  pair.Txns.H24.Sells,
		}
		if pair.Liquidity != nil {
			analytics.TradeData.LiquidityUSD = pair.Liquidity.Usd
		}
	}

	analytics.Details.PriceUSD = s.pickPrice(existing, pair)
	analytics.TopHolders = s.topHolders(ctx, mint)
	hasMetadata := analytics.Details.Name != "" && !strings.HasPrefix(analytics.Details.Name, "Token ")
	analytics.Security = s.scoreSecurity(analytics.TradeData.LiquidityUSD, hasMetadata, existing != nil)
	if analytics.Details.PriceUSD > 0 {
		analytics.PriceHistory = synthesizeHistory(analytics.Details.PriceUSD, analytics.Details.PriceChange24h)
	}
	return analytics
}

// pickPrice prefers the portfolio's own valuation over the aggregator quote
// so the two surfaces never disagree about the same token.
func (s *analyticsServiceImpl) pickPrice(existing *entity.TokenHolding, pair *dexscreener_entity.PairData) float64 {
	if existing != nil && existing.PriceUSD > 0 {
		return existing.PriceUSD
	}
	if pair != nil && pair.PriceUsd != "" {
		if price, err := strconv.ParseFloat(pair.PriceUsd, 64); err == nil {
			return price
		}
	}
	return 0
}

// bestPair returns the mint's highest-liquidity pair, or nil when the
// aggregator knows nothing about it.
func (s *analyticsServiceImpl) bestPair(ctx context.Context, mint string) *dexscreener_entity.PairData {
	pairs, err := s.dex.GetTokenPairs(ctx, mint)
	if err != nil {
		s.logger.Warn("Pair lookup failed for analytics", zap.String("mint", mint), zap.Error(err))
		return nil
	}

	var best *dexscreener_entity.PairData
	for i := range pairs {
		pair := &pairs[i]
		if !strings.EqualFold(pair.BaseToken.Address, mint) {
			continue
		}
		if best == nil || liquidityUSD(pair) > liquidityUSD(best) {
			best = pair
		}
	}
	return best
}

func liquidityUSD(pair *dexscreener_entity.PairData) float64 {
	if pair.Liquidity == nil {
		return 0
	}
	return pair.Liquidity.Usd
}

// topHolders resolves the mint's largest accounts as shares of total supply.
// Either ledger read failing leaves the distribution empty rather than wrong.
func (s *analyticsServiceImpl) topHolders(ctx context.Context, mint string) []entity.TopHolder {
	accounts, err := s.ledger.GetTokenLargestAccounts(ctx, mint)
	if err != nil {
		s.logger.Warn("Largest accounts unavailable", zap.String("mint", mint), zap.Error(err))
		return nil
	}
	supply, err := s.ledger.GetTokenSupply(ctx, mint)
	if err != nil || supply <= 0 {
		s.logger.Warn("Token supply unavailable", zap.String("mint", mint), zap.Error(err))
		return nil
	}

	if len(accounts) > s.cfg.TopHolderCount {
		accounts = accounts[:s.cfg.TopHolderCount]
	}
	holders := make([]entity.TopHolder, 0, len(accounts))
	for _, acc := range accounts {
		holders = append(holders, entity.TopHolder{
			Address:    acc.Address,
			Balance:    acc.UIAmount,
			Percentage: acc.UIAmount / supply * 100,
		})
	}
	return holders
}

// scoreSecurity turns the available signals into a 1..10 risk score. Higher
// is riskier.
func (s *analyticsServiceImpl) scoreSecurity(liquidityUSD float64, hasMetadata, isHeld bool) entity.SecurityAnalysis {
	score := 5
	switch {
	case liquidityUSD >= 100_000:
		score -= 3
	case liquidityUSD >= 10_000:
		score -= 1
	case liquidityUSD <= 0:
		score += 3
	}
	if hasMetadata {
		score--
	} else {
		score += 2
	}
	if isHeld {
		score--
	}
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}

	level := entity.RiskHigh
	description := "Thin or missing liquidity; treat this token with caution."
	switch {
	case score <= 3:
		level = entity.RiskLow
		description = "Established liquidity and recognized metadata."
	case score <= 6:
		level = entity.RiskMedium
		description = "Some market presence but limited depth or identity data."
	}

	return entity.SecurityAnalysis{
		RiskScore:        score,
		RiskLevel:        level,
		Description:      description,
		HasLiquidity:     liquidityUSD > 0,
		HasValidMetadata: hasMetadata,
		IsVerified:       hasMetadata && liquidityUSD >= 10_000,
	}
}

// synthesizeHistory derives an hourly 24h price series by walking back from
// the current price along the reported 24h change. Good enough for a
// sparkline; not a real candle feed.
func synthesizeHistory(priceUSD, change24h float64) []entity.PricePoint {
	if priceUSD <= 0 {
		return nil
	}
	start := priceUSD
	if change24h > -100 {
		start = priceUSD / (1 + change24h/100)
	}

	now := time.Now()
	points := make([]entity.PricePoint, 0, priceHistoryPoints)
	for i := 0; i < priceHistoryPoints; i++ {
		fraction := float64(i) / float64(priceHistoryPoints-1)
		points = append(points, entity.PricePoint{
			Timestamp: now.Add(-time.Duration(priceHistoryPoints-1-i) * time.Hour).Unix(),
			PriceUSD:  start + (priceUSD-start)*fraction,
		})
	}
	return points
}
