package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	dexscreener_entity "wallet_dashboard/internal/entity"
	"wallet_dashboard/internal/pkg/resilient"
)

// TradeDataClient defines the interface for the trading-data aggregator used
// as the metadata/price fallback and the analytics source.
type TradeDataClient interface {
	GetTokenPairs(ctx context.Context, mint string) ([]dexscreener_entity.PairData, error)
}

// tradeDataClientImpl is the DEX Screener implementation of TradeDataClient.
type tradeDataClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	caller  *resilient.Caller
	logger  *zap.Logger
}

// NewTradeDataClient creates a new DEX Screener client.
func NewTradeDataClient(baseURL string, timeout time.Duration, caller *resilient.Caller, logger *zap.Logger) TradeDataClient {
	return &tradeDataClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		caller:  caller,
		logger:  logger.Named("TradeDataClient"),
	}
}

// GetTokenPairs returns the known trading pairs for a mint. An empty slice
// means the aggregator has never seen the token.
func (c *tradeDataClientImpl) GetTokenPairs(ctx context.Context, mint string) ([]dexscreener_entity.PairData, error) {
	if mint == "" {
		return nil, fmt.Errorf("mint cannot be empty")
	}
	requestURL := fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, mint)

	resp, err := resilient.Call(ctx, c.caller, "getTokenPairs", func(ctx context.Context) (dexscreener_entity.DEXTokenPairsResponse, error) {
		var out dexscreener_entity.DEXTokenPairsResponse
		err := doJSON(ctx, c.client, fasthttp.MethodGet, requestURL, nil, c.timeout, &out)
		return out, err
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Pairs) == 0 {
		c.logger.Debug("Aggregator returned no pairs for token", zap.String("mint", mint))
	}
	return resp.Pairs, nil
}
