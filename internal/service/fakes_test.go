package service

import (
	"context"

	"wallet_dashboard/internal/domain/entity"
	provider_entity "wallet_dashboard/internal/entity"
)

// fakeLedger implements client.LedgerClient with pluggable behavior per call.
type fakeLedger struct {
	nativeBalanceFn   func(ctx context.Context, address string) (uint64, error)
	tokenAccountsFn   func(ctx context.Context, owner string) ([]entity.TokenAccount, error)
	listSignaturesFn  func(ctx context.Context, address string, limit int, before string) ([]entity.SignatureInfo, error)
	parsedTxFn        func(ctx context.Context, signature string) (*entity.ParsedTransaction, error)
	largestAccountsFn func(ctx context.Context, mint string) ([]entity.LargestAccount, error)
	tokenSupplyFn     func(ctx context.Context, mint string) (float64, error)
}

func (f *fakeLedger) GetNativeBalance(ctx context.Context, address string) (uint64, error) {
	if f.nativeBalanceFn == nil {
		return 0, nil
	}
	return f.nativeBalanceFn(ctx, address)
}

func (f *fakeLedger) GetParsedTokenAccounts(ctx context.Context, owner string) ([]entity.TokenAccount, error) {
	if f.tokenAccountsFn == nil {
		return nil, nil
	}
	return f.tokenAccountsFn(ctx, owner)
}

func (f *fakeLedger) ListSignatures(ctx context.Context, address string, limit int, before string) ([]entity.SignatureInfo, error) {
	if f.listSignaturesFn == nil {
		return nil, nil
	}
	return f.listSignaturesFn(ctx, address, limit, before)
}

func (f *fakeLedger) GetParsedTransaction(ctx context.Context, signature string) (*entity.ParsedTransaction, error) {
	if f.parsedTxFn == nil {
		return nil, entity.ErrNotAvailable
	}
	return f.parsedTxFn(ctx, signature)
}

func (f *fakeLedger) GetTokenLargestAccounts(ctx context.Context, mint string) ([]entity.LargestAccount, error) {
	if f.largestAccountsFn == nil {
		return nil, nil
	}
	return f.largestAccountsFn(ctx, mint)
}

func (f *fakeLedger) GetTokenSupply(ctx context.Context, mint string) (float64, error) {
	if f.tokenSupplyFn == nil {
		return 0, entity.ErrNotAvailable
	}
	return f.tokenSupplyFn(ctx, mint)
}

// fakeOracle implements client.PriceOracleClient.
type fakeOracle struct {
	pricesFn    func(ctx context.Context, mints []string) (map[string]float64, error)
	directoryFn func(ctx context.Context) ([]provider_entity.DirectoryToken, error)
	priceCalls  int
}

func (f *fakeOracle) GetPrices(ctx context.Context, mints []string) (map[string]float64, error) {
	f.priceCalls++
	if f.pricesFn == nil {
		return map[string]float64{}, nil
	}
	return f.pricesFn(ctx, mints)
}

func (f *fakeOracle) GetTokenDirectory(ctx context.Context) ([]provider_entity.DirectoryToken, error) {
	if f.directoryFn == nil {
		return nil, entity.ErrNotAvailable
	}
	return f.directoryFn(ctx)
}

// fakeTradeData implements client.TradeDataClient.
type fakeTradeData struct {
	pairsFn func(ctx context.Context, mint string) ([]provider_entity.PairData, error)
}

func (f *fakeTradeData) GetTokenPairs(ctx context.Context, mint string) ([]provider_entity.PairData, error) {
	if f.pairsFn == nil {
		return nil, nil
	}
	return f.pairsFn(ctx, mint)
}

// fakeNativeMarket implements client.NativeMarketClient.
type fakeNativeMarket struct {
	dataFn func(ctx context.Context) (provider_entity.CoinGeckoSimplePrice, error)
}

func (f *fakeNativeMarket) GetNativeMarketData(ctx context.Context) (provider_entity.CoinGeckoSimplePrice, error) {
	if f.dataFn == nil {
		return provider_entity.CoinGeckoSimplePrice{}, entity.ErrNotAvailable
	}
	return f.dataFn(ctx)
}

// fakeMetadataResolver implements port.MetadataResolver.
type fakeMetadataResolver struct {
	metadata map[string]entity.TokenMetadata
}

func (f *fakeMetadataResolver) Resolve(_ context.Context, mints []string) map[string]entity.TokenMetadata {
	out := make(map[string]entity.TokenMetadata, len(mints))
	for _, mint := range mints {
		if md, ok := f.metadata[mint]; ok {
			out[mint] = md
		} else {
			out[mint] = synthesizeMetadata(mint)
		}
	}
	return out
}

func (f *fakeMetadataResolver) DisplaySymbol(mint string) string {
	if md, ok := f.metadata[mint]; ok {
		return md.Symbol
	}
	return synthesizeMetadata(mint).Symbol
}

// fakePriceResolver implements port.PriceResolver.
type fakePriceResolver struct {
	prices      map[string]float64
	nativePrice float64
}

func (f *fakePriceResolver) GetPrices(_ context.Context, mints []string) map[string]float64 {
	out := make(map[string]float64, len(mints))
	for _, mint := range mints {
		out[mint] = f.prices[mint]
	}
	return out
}

func (f *fakePriceResolver) GetNativePrice(context.Context) float64 {
	return f.nativePrice
}
