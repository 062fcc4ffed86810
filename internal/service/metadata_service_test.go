package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wallet_dashboard/internal/config"
	"wallet_dashboard/internal/domain/entity"
	provider_entity "wallet_dashboard/internal/entity"
)

func testMetadataConfig() config.MetadataConfig {
	return config.MetadataConfig{
		CacheTTLMinutes:     30,
		CacheMaxEntries:     64,
		DirectoryTTLMinutes: 60,
		LookupBatchSize:     5,
	}
}

func newMetadataService(oracle *fakeOracle, dex *fakeTradeData) *metadataServiceImpl {
	return NewMetadataService(oracle, dex, testMetadataConfig(), zap.NewNop()).(*metadataServiceImpl)
}

func TestResolveWellKnownToken(t *testing.T) {
	svc := newMetadataService(&fakeOracle{}, &fakeTradeData{})

	got := svc.Resolve(context.Background(), []string{entity.NativeMint, usdcMint})
	assert.Equal(t, "SOL", got[entity.NativeMint].Symbol)
	assert.Equal(t, "USDC", got[usdcMint].Symbol)
}

func TestResolveFromDirectory(t *testing.T) {
	directoryCalls := 0
	oracle := &fakeOracle{
		directoryFn: func(context.Context) ([]provider_entity.DirectoryToken, error) {
			directoryCalls++
			return []provider_entity.DirectoryToken{
				{Address: bonkMint, Name: "Bonk", Symbol: "BONK", LogoURI: "https://example.com/bonk.png"},
			}, nil
		},
	}
	svc := newMetadataService(oracle, &fakeTradeData{})

	got := svc.Resolve(context.Background(), []string{bonkMint})
	require.Contains(t, got, bonkMint)
	assert.Equal(t, "Bonk", got[bonkMint].Name)
	assert.Equal(t, "BONK", got[bonkMint].Symbol)

	// Second lookup hits the per-mint cache; the directory is not refetched.
	svc.Resolve(context.Background(), []string{bonkMint})
	assert.Equal(t, 1, directoryCalls)
}

func TestResolveFromAggregatorWhenDirectoryMisses(t *testing.T) {
	oracle := &fakeOracle{
		directoryFn: func(context.Context) ([]provider_entity.DirectoryToken, error) {
			return nil, nil
		},
	}
	dex := &fakeTradeData{
		pairsFn: func(_ context.Context, mint string) ([]provider_entity.PairData, error) {
			return []provider_entity.PairData{
				{BaseToken: provider_entity.DEXToken{Address: mint, Name: "Obscure Token", Symbol: "OBSC"}},
			}, nil
		},
	}
	svc := newMetadataService(oracle, dex)

	mint := "Obscure11111111111111111111111111111111111"
	got := svc.Resolve(context.Background(), []string{mint})
	require.Contains(t, got, mint)
	assert.Equal(t, "OBSC", got[mint].Symbol)
}

func TestResolveSynthesizesWhenAllTiersFail(t *testing.T) {
	oracle := &fakeOracle{
		directoryFn: func(context.Context) ([]provider_entity.DirectoryToken, error) {
			return nil, errors.New("directory down")
		},
	}
	dex := &fakeTradeData{
		pairsFn: func(context.Context, string) ([]provider_entity.PairData, error) {
			return nil, errors.New("aggregator down")
		},
	}
	svc := newMetadataService(oracle, dex)

	mint := "Abcdefgh1111111111111111111111111111111111"
	got := svc.Resolve(context.Background(), []string{mint})
	require.Contains(t, got, mint)
	assert.Equal(t, "Token Abcdefgh", got[mint].Name)
	assert.Equal(t, "ABCD", got[mint].Symbol)
}

func TestDirectoryFailureKeepsPreviousSnapshot(t *testing.T) {
	failing := false
	oracle := &fakeOracle{
		directoryFn: func(context.Context) ([]provider_entity.DirectoryToken, error) {
			if failing {
				return nil, errors.New("directory down")
			}
			return []provider_entity.DirectoryToken{
				{Address: bonkMint, Name: "Bonk", Symbol: "BONK"},
			}, nil
		},
	}
	svc := newMetadataService(oracle, &fakeTradeData{})

	svc.Resolve(context.Background(), []string{bonkMint})

	// Force a refresh attempt against a broken provider; the old snapshot
	// still answers.
	failing = true
	svc.dirFetchedAt = svc.dirFetchedAt.Add(-2 * time.Hour)
	directory := svc.ensureDirectory(context.Background())
	require.Contains(t, directory, bonkMint)
	assert.Equal(t, "BONK", directory[bonkMint].Symbol)
}

func TestDisplaySymbolNeverTouchesNetwork(t *testing.T) {
	oracle := &fakeOracle{
		directoryFn: func(context.Context) ([]provider_entity.DirectoryToken, error) {
			t.Fatal("DisplaySymbol must not fetch the directory")
			return nil, nil
		},
	}
	svc := newMetadataService(oracle, &fakeTradeData{})

	assert.Equal(t, "SOL", svc.DisplaySymbol(entity.NativeMint))
	assert.Equal(t, "UNKN", svc.DisplaySymbol("Unknown111111111111111111111111111111111111"))
}
