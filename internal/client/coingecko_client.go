package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"wallet_dashboard/internal/domain/entity"
	coingecko_entity "wallet_dashboard/internal/entity"
	"wallet_dashboard/internal/pkg/resilient"
)

const nativeCoinID = "solana"

// NativeMarketClient defines the interface for native-asset market data.
type NativeMarketClient interface {
	GetNativeMarketData(ctx context.Context) (coingecko_entity.CoinGeckoSimplePrice, error)
}

// nativeMarketClientImpl is the CoinGecko implementation of NativeMarketClient.
type nativeMarketClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	caller  *resilient.Caller
	logger  *zap.Logger
}

// NewNativeMarketClient creates a new CoinGecko client.
func NewNativeMarketClient(baseURL string, timeout time.Duration, caller *resilient.Caller, logger *zap.Logger) NativeMarketClient {
	return &nativeMarketClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		caller:  caller,
		logger:  logger.Named("NativeMarketClient"),
	}
}

// GetNativeMarketData returns price, market cap, volume and 24h change for
// the native asset.
func (c *nativeMarketClientImpl) GetNativeMarketData(ctx context.Context) (coingecko_entity.CoinGeckoSimplePrice, error) {
	requestURL := fmt.Sprintf(
		"%s/simple/price?ids=%s&vs_currencies=usd&include_24hr_change=true&include_market_cap=true&include_24hr_vol=true",
		c.baseURL, nativeCoinID)

	resp, err := resilient.Call(ctx, c.caller, "getNativeMarketData", func(ctx context.Context) (map[string]coingecko_entity.CoinGeckoSimplePrice, error) {
		var out map[string]coingecko_entity.CoinGeckoSimplePrice
		err := doJSON(ctx, c.client, fasthttp.MethodGet, requestURL, nil, c.timeout, &out)
		return out, err
	})
	if err != nil {
		return coingecko_entity.CoinGeckoSimplePrice{}, err
	}

	data, ok := resp[nativeCoinID]
	if !ok {
		return coingecko_entity.CoinGeckoSimplePrice{}, fmt.Errorf("native coin missing from response: %w", entity.ErrNotAvailable)
	}
	return data, nil
}
