package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/utils"
	"wallet_dashboard/internal/port"
)

// BalancePoller periodically refreshes the portfolios of a fixed watchlist
// and keeps the latest snapshot per wallet in memory. A poll round that
// outlives the interval is never overlapped by the next one.
type BalancePoller struct {
	balances port.BalanceService
	wallets  []string
	interval time.Duration
	logger   *zap.Logger

	inFlight atomic.Bool
	mu       sync.RWMutex
	latest   map[string]entity.WalletBalance
}

// NewBalancePoller creates a poller over the given watchlist.
func NewBalancePoller(balances port.BalanceService, wallets []string, interval time.Duration, logger *zap.Logger) *BalancePoller {
	return &BalancePoller{
		balances: balances,
		wallets:  wallets,
		interval: interval,
		logger:   logger.Named("BalancePoller"),
		latest:   make(map[string]entity.WalletBalance),
	}
}

// Run polls until ctx ends. The first round starts immediately.
func (p *BalancePoller) Run(ctx context.Context) {
	if len(p.wallets) == 0 {
		p.logger.Info("Watchlist is empty, poller idle")
		return
	}
	p.logger.Info("Balance poller started",
		zap.Int("wallets", len(p.wallets)),
		zap.Duration("interval", p.interval))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Balance poller stopped")
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

func (p *BalancePoller) pollOnce(ctx context.Context) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.logger.Warn("Previous poll round still running, skipping this tick")
		return
	}
	defer p.inFlight.Store(false)

	for _, wallet := range p.wallets {
		if ctx.Err() != nil {
			return
		}
		balance, err := p.balances.GetWalletBalance(ctx, wallet)
		if err != nil {
			p.logger.Warn("Poll failed for wallet, keeping previous snapshot",
				zap.String("address", utils.ShortenAddress(wallet)),
				zap.Error(err))
			continue
		}
		p.mu.Lock()
		p.latest[wallet] = balance
		p.mu.Unlock()
	}
}

// Snapshot returns the latest polled portfolio for one wallet.
func (p *BalancePoller) Snapshot(address string) (entity.WalletBalance, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	balance, ok := p.latest[address]
	return balance, ok
}

// Snapshots returns the latest polled portfolio of every watchlist wallet
// that has completed at least one round, in watchlist order.
func (p *BalancePoller) Snapshots() []entity.WalletBalance {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]entity.WalletBalance, 0, len(p.wallets))
	for _, wallet := range p.wallets {
		if balance, ok := p.latest[wallet]; ok {
			out = append(out, balance)
		}
	}
	return out
}
