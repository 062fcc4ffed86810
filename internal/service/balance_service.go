package service

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wallet_dashboard/internal/client"
	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/utils"
	"wallet_dashboard/internal/port"
)

// balanceServiceImpl aggregates a wallet's native and token balances into one
// valued portfolio. Metadata and price resolution never fail, so once the
// ledger reads succeed the aggregation always completes.
type balanceServiceImpl struct {
	ledger   client.LedgerClient
	metadata port.MetadataResolver
	prices   port.PriceResolver
	logger   *zap.Logger
}

// NewBalanceService creates a new balance aggregator.
func NewBalanceService(
	ledger client.LedgerClient,
	metadata port.MetadataResolver,
	prices port.PriceResolver,
	logger *zap.Logger,
) port.BalanceService {
	return &balanceServiceImpl{
		ledger:   ledger,
		metadata: metadata,
		prices:   prices,
		logger:   logger.Named("BalanceService"),
	}
}

// GetWalletBalance builds the wallet's portfolio from scratch: ledger reads
// run concurrently, then every held token is enriched with metadata and a USD
// price. Holdings come back ordered by descending USD value. Upstream
// failures zero the affected section; only a malformed address is an error.
func (s *balanceServiceImpl) GetWalletBalance(ctx context.Context, address string) (entity.WalletBalance, error) {
	if err := utils.ValidateAddress(address); err != nil {
		return entity.WalletBalance{}, err
	}

	var (
		lamports    uint64
		accounts    []entity.TokenAccount
		nativePrice float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		value, err := s.ledger.GetNativeBalance(gctx, address)
		if err != nil {
			s.logger.Warn("Native balance unavailable, reporting zero",
				zap.String("address", utils.ShortenAddress(address)),
				zap.Error(err))
			return nil
		}
		lamports = value
		return nil
	})
	g.Go(func() error {
		value, err := s.ledger.GetParsedTokenAccounts(gctx, address)
		if err != nil {
			s.logger.Warn("Token accounts unavailable, reporting none",
				zap.String("address", utils.ShortenAddress(address)),
				zap.Error(err))
			return nil
		}
		accounts = value
		return nil
	})
	g.Go(func() error {
		nativePrice = s.prices.GetNativePrice(gctx)
		return nil
	})
	_ = g.Wait()

	// Empty token accounts stay on chain after a position is closed; they
	// carry no value and only clutter the portfolio.
	held := accounts[:0]
	for _, acc := range accounts {
		if acc.RawBalance > 0 {
			held = append(held, acc)
		}
	}

	mints := make([]string, 0, len(held))
	for _, acc := range held {
		mints = append(mints, acc.Mint)
	}
	metadata := s.metadata.Resolve(ctx, mints)
	prices := s.prices.GetPrices(ctx, mints)

	holdings := make([]entity.TokenHolding, 0, len(held))
	for _, acc := range held {
		md := metadata[acc.Mint]
		price := prices[acc.Mint]
		holdings = append(holdings, entity.TokenHolding{
			Mint:       acc.Mint,
			RawBalance: acc.RawBalance,
			Decimals:   acc.Decimals,
			UIAmount:   acc.UIAmount,
			Name:       md.Name,
			Symbol:     md.Symbol,
			LogoURI:    md.LogoURI,
			PriceUSD:   price,
			ValueUSD:   acc.UIAmount * price,
		})
	}
	sort.SliceStable(holdings, func(i, j int) bool {
		if holdings[i].ValueUSD != holdings[j].ValueUSD {
			return holdings[i].ValueUSD > holdings[j].ValueUSD
		}
		return holdings[i].Mint < holdings[j].Mint
	})

	balance := entity.WalletBalance{
		Address:      address,
		NativeAmount: entity.UIAmountFromRaw(lamports, 9),
		Holdings:     holdings,
	}
	balance.NativeValueUSD = balance.NativeAmount * nativePrice
	balance.TotalValueUSD = balance.NativeValueUSD
	for _, h := range holdings {
		balance.TotalValueUSD += h.ValueUSD
	}

	s.logger.Debug("Aggregated wallet balance",
		zap.String("address", utils.ShortenAddress(address)),
		zap.Int("holdings", len(holdings)),
		zap.Float64("totalValueUsd", balance.TotalValueUSD))
	return balance, nil
}
