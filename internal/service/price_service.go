package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"wallet_dashboard/internal/client"
	"wallet_dashboard/internal/config"
	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/cachestore"
	"wallet_dashboard/internal/pkg/metrics"
	"wallet_dashboard/internal/pkg/utils"
	"wallet_dashboard/internal/port"
)

// priceServiceImpl resolves USD prices with a freshness cache in front of the
// oracle and a last-known fallback behind it. Lookups never fail: a token the
// oracle cannot price right now gets its last-known price, or zero.
type priceServiceImpl struct {
	oracle client.PriceOracleClient
	cfg    config.PricesConfig
	fresh  *cachestore.Store[float64]
	logger *zap.Logger

	lastKnownMu sync.Mutex
	lastKnown   map[string]float64
}

// NewPriceService creates a new price resolver.
func NewPriceService(oracle client.PriceOracleClient, cfg config.PricesConfig, logger *zap.Logger) port.PriceResolver {
	return &priceServiceImpl{
		oracle:    oracle,
		cfg:       cfg,
		fresh:     cachestore.New[float64](cfg.CacheMaxEntries),
		logger:    logger.Named("PriceService"),
		lastKnown: make(map[string]float64),
	}
}

// GetPrices returns a USD price for every requested mint. The result map is
// total over the input; unpriceable tokens come back at their last-known
// value or zero.
func (s *priceServiceImpl) GetPrices(ctx context.Context, mints []string) map[string]float64 {
	result := make(map[string]float64, len(mints))
	var misses []string

	seen := make(map[string]struct{}, len(mints))
	for _, mint := range mints {
		if mint == "" {
			continue
		}
		if _, dup := seen[mint]; dup {
			continue
		}
		seen[mint] = struct{}{}

		if price, ok := s.fresh.Get(mint); ok {
			metrics.ObserveCacheLookup("prices", true)
			result[mint] = price
			continue
		}
		metrics.ObserveCacheLookup("prices", false)
		misses = append(misses, mint)
	}
	if len(misses) == 0 {
		return result
	}

	ttl := time.Duration(s.cfg.CacheTTLMinutes) * time.Minute
	pause := time.Duration(s.cfg.BatchPauseMillis) * time.Millisecond
	batches := utils.BatchStrings(misses, s.cfg.BatchSize)

	for i, batch := range batches {
		prices, err := s.oracle.GetPrices(ctx, batch)
		if err != nil {
			s.logger.Warn("Price batch failed, falling back to last-known values",
				zap.Int("batchSize", len(batch)),
				zap.Error(err))
			for _, mint := range batch {
				result[mint] = s.lastKnownPrice(mint)
			}
		} else {
			for _, mint := range batch {
				price, ok := prices[mint]
				if !ok || price <= 0 {
					result[mint] = s.lastKnownPrice(mint)
					continue
				}
				s.fresh.Set(mint, price, ttl)
				s.rememberPrice(mint, price)
				result[mint] = price
			}
		}

		if i < len(batches)-1 && pause > 0 {
			select {
			case <-ctx.Done():
				for _, later := range batches[i+1:] {
					for _, mint := range later {
						result[mint] = s.lastKnownPrice(mint)
					}
				}
				return result
			case <-time.After(pause):
			}
		}
	}
	return result
}

// GetNativePrice returns the native asset's USD price. When no source can
// price it, a configured non-zero estimate keeps the headline portfolio value
// meaningful.
func (s *priceServiceImpl) GetNativePrice(ctx context.Context) float64 {
	price := s.GetPrices(ctx, []string{entity.NativeMint})[entity.NativeMint]
	if price > 0 {
		return price
	}
	s.logger.Warn("Native price unavailable, using configured fallback",
		zap.Float64("fallbackPriceUsd", s.cfg.NativeFallbackPriceUSD))
	return s.cfg.NativeFallbackPriceUSD
}

func (s *priceServiceImpl) rememberPrice(mint string, price float64) {
	s.lastKnownMu.Lock()
	s.lastKnown[mint] = price
	s.lastKnownMu.Unlock()
}

func (s *priceServiceImpl) lastKnownPrice(mint string) float64 {
	s.lastKnownMu.Lock()
	defer s.lastKnownMu.Unlock()
	return s.lastKnown[mint]
}
