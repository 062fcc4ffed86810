package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wallet_dashboard/internal/domain/entity"
)

type stubBalances struct {
	balances map[string]entity.WalletBalance
	err      error
}

func (s *stubBalances) GetWalletBalance(_ context.Context, address string) (entity.WalletBalance, error) {
	if s.err != nil {
		return entity.WalletBalance{}, s.err
	}
	return s.balances[address], nil
}

func TestPollerKeepsLatestSnapshot(t *testing.T) {
	walletA := "WaLLetA111111111111111111111111111111111111"
	walletB := "WaLLetB111111111111111111111111111111111111"
	balances := &stubBalances{balances: map[string]entity.WalletBalance{
		walletA: {Address: walletA, TotalValueUSD: 10},
		walletB: {Address: walletB, TotalValueUSD: 20},
	}}
	poller := NewBalancePoller(balances, []string{walletA, walletB}, time.Minute, zap.NewNop())

	poller.pollOnce(context.Background())

	got, ok := poller.Snapshot(walletA)
	require.True(t, ok)
	assert.InDelta(t, 10, got.TotalValueUSD, 1e-9)

	all := poller.Snapshots()
	require.Len(t, all, 2)
	assert.Equal(t, walletA, all[0].Address)
	assert.Equal(t, walletB, all[1].Address)
}

func TestPollerFailureKeepsPreviousSnapshot(t *testing.T) {
	wallet := "WaLLetC111111111111111111111111111111111111"
	balances := &stubBalances{balances: map[string]entity.WalletBalance{
		wallet: {Address: wallet, TotalValueUSD: 42},
	}}
	poller := NewBalancePoller(balances, []string{wallet}, time.Minute, zap.NewNop())

	poller.pollOnce(context.Background())
	balances.err = errors.New("rpc down")
	poller.pollOnce(context.Background())

	got, ok := poller.Snapshot(wallet)
	require.True(t, ok)
	assert.InDelta(t, 42, got.TotalValueUSD, 1e-9)
}

func TestPollerSnapshotMissing(t *testing.T) {
	poller := NewBalancePoller(&stubBalances{}, nil, time.Minute, zap.NewNop())
	_, ok := poller.Snapshot("WaLLetD111111111111111111111111111111111111")
	assert.False(t, ok)
}
