package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wallet_dashboard/internal/client"
	"wallet_dashboard/internal/config"
	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/cachestore"
	"wallet_dashboard/internal/pkg/metrics"
	"wallet_dashboard/internal/pkg/utils"
	"wallet_dashboard/internal/port"
)

// wellKnownTokens short-circuits directory lookups for the tokens that appear
// in nearly every wallet.
var wellKnownTokens = map[string]entity.TokenMetadata{
	entity.NativeMint: {Name: "Solana", Symbol: "SOL"},
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v": {Name: "USD Coin", Symbol: "USDC"},
	"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB": {Name: "Tether USD", Symbol: "USDT"},
	"mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So":  {Name: "Marinade Staked SOL", Symbol: "mSOL"},
	"SRMuApVNdxXokk5GT7XD5cUUgXMBCoAz2LHeuAoKWRt":  {Name: "Serum", Symbol: "SRM"},
	"4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R": {Name: "Raydium", Symbol: "RAY"},
	"9n4nbM75f5Ui33ZbPYXn59EwSgE8CGsHtAeTH5YFeJ9E": {Name: "Wrapped Bitcoin", Symbol: "BTC"},
}

// metadataServiceImpl resolves token display metadata through a tiered lookup:
// per-mint cache, the static well-known table, the oracle's bulk directory,
// per-mint aggregator lookups, and finally a synthesized placeholder. A mint
// always resolves to something.
type metadataServiceImpl struct {
	oracle client.PriceOracleClient
	dex    client.TradeDataClient
	cfg    config.MetadataConfig
	cache  *cachestore.Store[entity.TokenMetadata]
	logger *zap.Logger

	dirMu        sync.Mutex
	directory    map[string]entity.TokenMetadata
	dirFetchedAt time.Time
}

// NewMetadataService creates a new metadata resolver.
func NewMetadataService(
	oracle client.PriceOracleClient,
	dex client.TradeDataClient,
	cfg config.MetadataConfig,
	logger *zap.Logger,
) port.MetadataResolver {
	return &metadataServiceImpl{
		oracle: oracle,
		dex:    dex,
		cfg:    cfg,
		cache:  cachestore.New[entity.TokenMetadata](cfg.CacheMaxEntries),
		logger: logger.Named("MetadataService"),
	}
}

// Resolve returns display metadata for every requested mint. Provider
// failures degrade tier by tier; the synthesized placeholder guarantees the
// result map is total over the input.
func (s *metadataServiceImpl) Resolve(ctx context.Context, mints []string) map[string]entity.TokenMetadata {
	result := make(map[string]entity.TokenMetadata, len(mints))
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

		if md, ok := s.cache.Get(mint); ok {
			metrics.ObserveCacheLookup("metadata", true)
			result[mint] = md
			continue
		}
		metrics.ObserveCacheLookup("metadata", false)

		if md, ok := wellKnownTokens[mint]; ok {
			result[mint] = md
			continue
		}
		misses = append(misses, mint)
	}
	if len(misses) == 0 {
		return result
	}

	directory := s.ensureDirectory(ctx)
	remaining := misses[:0]
	ttl := time.Duration(s.cfg.CacheTTLMinutes) * time.Minute
	for _, mint := range misses {
		if md, ok := directory[mint]; ok {
			s.cache.Set(mint, md, ttl)
			result[mint] = md
			continue
		}
		remaining = append(remaining, mint)
	}

	for mint, md := range s.lookupFromAggregator(ctx, remaining) {
		s.cache.Set(mint, md, ttl)
		result[mint] = md
	}

	for _, mint := range remaining {
		if _, ok := result[mint]; ok {
			continue
		}
		md := synthesizeMetadata(mint)
		s.cache.Set(mint, md, ttl)
		result[mint] = md
	}
	return result
}

// DisplaySymbol answers from local state only. It is safe to call from hot
// paths like transaction classification.
func (s *metadataServiceImpl) DisplaySymbol(mint string) string {
	if md, ok := s.cache.Get(mint); ok {
		return md.Symbol
	}
	if md, ok := wellKnownTokens[mint]; ok {
		return md.Symbol
	}

	s.dirMu.Lock()
	md, ok := s.directory[mint]
	s.dirMu.Unlock()
	if ok {
		return md.Symbol
	}
	return synthesizeMetadata(mint).Symbol
}

// ensureDirectory returns the bulk directory, refreshing it when stale. A
// failed refresh keeps serving the previous snapshot.
func (s *metadataServiceImpl) ensureDirectory(ctx context.Context) map[string]entity.TokenMetadata {
	s.dirMu.Lock()
	defer s.dirMu.Unlock()

	ttl := time.Duration(s.cfg.DirectoryTTLMinutes) * time.Minute
	if s.directory != nil && time.Since(s.dirFetchedAt) < ttl {
		return s.directory
	}

	tokens, err := s.oracle.GetTokenDirectory(ctx)
	if err != nil {
		s.logger.Warn("Token directory refresh failed, keeping previous snapshot",
			zap.Int("previousSize", len(s.directory)),
			zap.Error(err))
		return s.directory
	}

	directory := make(map[string]entity.TokenMetadata, len(tokens))
	for _, t := range tokens {
		directory[t.Address] = entity.TokenMetadata{
			Name:    t.Name,
			Symbol:  t.Symbol,
			LogoURI: t.LogoURI,
		}
	}
	s.directory = directory
	s.dirFetchedAt = time.Now()
	return s.directory
}

// lookupFromAggregator resolves mints the directory does not know via per-mint
// aggregator lookups, batched and paced to stay inside the provider's quota.
// Failures are absorbed; the caller synthesizes whatever is still missing.
func (s *metadataServiceImpl) lookupFromAggregator(ctx context.Context, mints []string) map[string]entity.TokenMetadata {
	found := make(map[string]entity.TokenMetadata)
	if len(mints) == 0 {
		return found
	}

	var mu sync.Mutex
	batches := utils.BatchStrings(mints, s.cfg.LookupBatchSize)
	pause := time.Duration(s.cfg.BatchPauseMillis) * time.Millisecond

	for i, batch := range batches {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(len(batch))
		for _, mint := range batch {
			mint := mint
			g.Go(func() error {
				pairs, err := s.dex.GetTokenPairs(gctx, mint)
				if err != nil {
					s.logger.Debug("Aggregator metadata lookup failed", zap.String("mint", mint), zap.Error(err))
					return nil
				}
				for _, pair := range pairs {
					if !strings.EqualFold(pair.BaseToken.Address, mint) || pair.BaseToken.Symbol == "" {
						continue
					}
					mu.Lock()
					found[mint] = entity.TokenMetadata{
						Name:   pair.BaseToken.Name,
						Symbol: pair.BaseToken.Symbol,
					}
					mu.Unlock()
					break
				}
				return nil
			})
		}
		_ = g.Wait()

		if i < len(batches)-1 && pause > 0 {
			select {
			case <-ctx.Done():
				return found
			case <-time.After(pause):
			}
		}
	}
	return found
}

// synthesizeMetadata builds the placeholder identity for a mint no source
// knows: a short mint prefix stands in for the name and symbol.
func synthesizeMetadata(mint string) entity.TokenMetadata {
	return entity.TokenMetadata{
		Name:   "Token " + utils.Prefix(mint, 8),
		Symbol: strings.ToUpper(utils.Prefix(mint, 4)),
	}
}
