package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wallet_dashboard/internal/domain/entity"
)

func TestGetWalletBalanceRejectsInvalidAddress(t *testing.T) {
	svc := NewBalanceService(&fakeLedger{}, &fakeMetadataResolver{}, &fakePriceResolver{}, zap.NewNop())

	_, err := svc.GetWalletBalance(context.Background(), "short")
	var invalidAddr *entity.InvalidAddressError
	require.ErrorAs(t, err, &invalidAddr)
}

func TestGetWalletBalanceAggregates(t *testing.T) {
	ledger := &fakeLedger{
		nativeBalanceFn: func(context.Context, string) (uint64, error) {
			return 2_500_000_000, nil
		},
		tokenAccountsFn: func(context.Context, string) ([]entity.TokenAccount, error) {
			return []entity.TokenAccount{
				{Mint: usdcMint, RawBalance: 50_000_000, Decimals: 6, UIAmount: 50},
				{Mint: bonkMint, RawBalance: 1_000_000_000, Decimals: 5, UIAmount: 10000},
				{Mint: "EmptyAccountMint11111111111111111111111111", RawBalance: 0, Decimals: 9, UIAmount: 0},
			}, nil
		},
	}
	metadata := &fakeMetadataResolver{metadata: map[string]entity.TokenMetadata{
		usdcMint: {Name: "USD Coin", Symbol: "USDC"},
		bonkMint: {Name: "Bonk", Symbol: "BONK"},
	}}
	prices := &fakePriceResolver{
		prices:      map[string]float64{usdcMint: 1.0, bonkMint: 0.00002},
		nativePrice: 100,
	}
	svc := NewBalanceService(ledger, metadata, prices, zap.NewNop())

	balance, err := svc.GetWalletBalance(context.Background(), testWallet)
	require.NoError(t, err)

	assert.Equal(t, testWallet, balance.Address)
	assert.InDelta(t, 2.5, balance.NativeAmount, 1e-9)
	assert.InDelta(t, 250, balance.NativeValueUSD, 1e-9)

	// The empty account is dropped; the rest sort by descending USD value.
	require.Len(t, balance.Holdings, 2)
	assert.Equal(t, usdcMint, balance.Holdings[0].Mint)
	assert.InDelta(t, 50, balance.Holdings[0].ValueUSD, 1e-9)
	assert.Equal(t, "USDC", balance.Holdings[0].Symbol)
	assert.Equal(t, bonkMint, balance.Holdings[1].Mint)
	assert.InDelta(t, 0.2, balance.Holdings[1].ValueUSD, 1e-9)

	assert.InDelta(t, 300.2, balance.TotalValueUSD, 1e-9)
}

func TestGetWalletBalanceUnpricedTokenValuedAtZero(t *testing.T) {
	ledger := &fakeLedger{
		tokenAccountsFn: func(context.Context, string) ([]entity.TokenAccount, error) {
			return []entity.TokenAccount{
				{Mint: bonkMint, RawBalance: 100_000, Decimals: 5, UIAmount: 1},
			}, nil
		},
	}
	svc := NewBalanceService(ledger, &fakeMetadataResolver{}, &fakePriceResolver{nativePrice: 100}, zap.NewNop())

	balance, err := svc.GetWalletBalance(context.Background(), testWallet)
	require.NoError(t, err)
	require.Len(t, balance.Holdings, 1)
	assert.Zero(t, balance.Holdings[0].PriceUSD)
	assert.Zero(t, balance.Holdings[0].ValueUSD)
	assert.Zero(t, balance.TotalValueUSD)

	// An unknown token still gets a synthesized identity.
	assert.NotEmpty(t, balance.Holdings[0].Symbol)
	assert.NotEmpty(t, balance.Holdings[0].Name)
}

func TestGetWalletBalanceDegradesOnLedgerFailure(t *testing.T) {
	ledger := &fakeLedger{
		nativeBalanceFn: func(context.Context, string) (uint64, error) {
			return 0, &entity.TransientError{Err: errors.New("rpc down")}
		},
		tokenAccountsFn: func(context.Context, string) ([]entity.TokenAccount, error) {
			return nil, &entity.TransientError{Err: errors.New("rpc down")}
		},
	}
	svc := NewBalanceService(ledger, &fakeMetadataResolver{}, &fakePriceResolver{nativePrice: 100}, zap.NewNop())

	balance, err := svc.GetWalletBalance(context.Background(), testWallet)
	require.NoError(t, err, "upstream failures degrade, they do not surface")
	assert.Zero(t, balance.NativeAmount)
	assert.Empty(t, balance.Holdings)
	assert.Zero(t, balance.TotalValueUSD)
	assert.Equal(t, testWallet, balance.Address)
}
