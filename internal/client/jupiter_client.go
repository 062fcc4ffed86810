package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	oracle_entity "wallet_dashboard/internal/entity"
	"wallet_dashboard/internal/pkg/resilient"
)

// PriceOracleClient defines the interface for the price oracle and its bulk
// token directory.
type PriceOracleClient interface {
	GetPrices(ctx context.Context, mints []string) (map[string]float64, error)
	GetTokenDirectory(ctx context.Context) ([]oracle_entity.DirectoryToken, error)
}

// priceOracleClientImpl is the Jupiter implementation of PriceOracleClient.
type priceOracleClientImpl struct {
	client       *fasthttp.Client
	priceURL     string
	tokenListURL string
	timeout      time.Duration
	caller       *resilient.Caller
	logger       *zap.Logger
}

// NewPriceOracleClient creates a new price oracle client.
func NewPriceOracleClient(priceURL, tokenListURL string, timeout time.Duration, caller *resilient.Caller, logger *zap.Logger) PriceOracleClient {
	return &priceOracleClientImpl{
		client:       &fasthttp.Client{},
		priceURL:     strings.TrimRight(priceURL, "/"),
		tokenListURL: tokenListURL,
		timeout:      timeout,
		caller:       caller,
		logger:       logger.Named("PriceOracleClient"),
	}
}

// GetPrices fetches USD prices for the given mints in one oracle call.
// Mints absent from the response are simply missing from the result map.
func (c *priceOracleClientImpl) GetPrices(ctx context.Context, mints []string) (map[string]float64, error) {
	if len(mints) == 0 {
		return map[string]float64{}, nil
	}

	requestURL := fmt.Sprintf("%s?ids=%s", c.priceURL, strings.Join(mints, ","))
	resp, err := resilient.Call(ctx, c.caller, "getPrices", func(ctx context.Context) (oracle_entity.PriceResponse, error) {
		var out oracle_entity.PriceResponse
		err := doJSON(ctx, c.client, fasthttp.MethodGet, requestURL, nil, c.timeout, &out)
		return out, err
	})
	if err != nil {
		return nil, err
	}

	prices := make(map[string]float64, len(resp.Data))
	for mint, price := range resp.Data {
		if price == nil {
			continue
		}
		prices[mint] = float64(price.Price)
	}
	c.logger.Debug("Fetched prices from oracle",
		zap.Int("requested", len(mints)),
		zap.Int("resolved", len(prices)))
	return prices, nil
}

// GetTokenDirectory downloads the oracle's bulk token directory.
func (c *priceOracleClientImpl) GetTokenDirectory(ctx context.Context) ([]oracle_entity.DirectoryToken, error) {
	directory, err := resilient.Call(ctx, c.caller, "getTokenDirectory", func(ctx context.Context) ([]oracle_entity.DirectoryToken, error) {
		var out []oracle_entity.DirectoryToken
		err := doJSON(ctx, c.client, fasthttp.MethodGet, c.tokenListURL, nil, c.timeout, &out)
		return out, err
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("Fetched token directory", zap.Int("tokenCount", len(directory)))
	return directory, nil
}
