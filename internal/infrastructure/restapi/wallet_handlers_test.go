package restapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wallet_dashboard/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const testAddress = "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T"

type stubBalanceService struct {
	balance entity.WalletBalance
	err     error
}

func (s *stubBalanceService) GetWalletBalance(context.Context, string) (entity.WalletBalance, error) {
	return s.balance, s.err
}

type stubTransactionService struct {
	page entity.TransactionPage
	err  error
}

func (s *stubTransactionService) GetWalletTransactions(context.Context, string, int, string) (entity.TransactionPage, error) {
	return s.page, s.err
}

type stubAnalyticsService struct {
	analytics entity.TokenAnalytics
	err       error
}

func (s *stubAnalyticsService) GetTokenAnalytics(context.Context, string, *entity.TokenHolding) (entity.TokenAnalytics, error) {
	return s.analytics, s.err
}

func newTestRouter(balances *stubBalanceService, transactions *stubTransactionService, analytics *stubAnalyticsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewWalletHandler(balances, transactions, analytics, nil, zap.NewNop())
	return SetupRouter(handler, zap.NewNop())
}

func TestGetBalanceHandlerOK(t *testing.T) {
	balances := &stubBalanceService{balance: entity.WalletBalance{
		Address:       testAddress,
		NativeAmount:  2.5,
		TotalValueUSD: 300,
	}}
	router := newTestRouter(balances, &stubTransactionService{}, &stubAnalyticsService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets/"+testAddress+"/balance", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got entity.WalletBalance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, testAddress, got.Address)
	assert.InDelta(t, 300, got.TotalValueUSD, 1e-9)
}

func TestGetBalanceHandlerInvalidAddress(t *testing.T) {
	balances := &stubBalanceService{err: &entity.InvalidAddressError{Address: "junk"}}
	router := newTestRouter(balances, &stubTransactionService{}, &stubAnalyticsService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets/junk/balance", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTransactionsHandlerUpstreamFailure(t *testing.T) {
	transactions := &stubTransactionService{err: &entity.TransientError{Err: errors.New("rpc down")}}
	router := newTestRouter(&stubBalanceService{}, transactions, &stubAnalyticsService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets/"+testAddress+"/transactions", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetTransactionsHandlerBadLimit(t *testing.T) {
	router := newTestRouter(&stubBalanceService{}, &stubTransactionService{}, &stubAnalyticsService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets/"+testAddress+"/transactions?limit=abc", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTransactionsHandlerOK(t *testing.T) {
	transactions := &stubTransactionService{page: entity.TransactionPage{
		Transactions: []entity.Transaction{{Signature: "sig-1", Kind: entity.KindReceive, Amount: 1}},
		HasMore:      true,
		NextCursor:   "sig-1",
	}}
	router := newTestRouter(&stubBalanceService{}, transactions, &stubAnalyticsService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets/"+testAddress+"/transactions?limit=1", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got entity.TransactionPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.HasMore)
	assert.Equal(t, "sig-1", got.NextCursor)
	require.Len(t, got.Transactions, 1)
	assert.Equal(t, entity.KindReceive, got.Transactions[0].Kind)
}

func TestGetTokenAnalyticsHandlerOK(t *testing.T) {
	analytics := &stubAnalyticsService{analytics: entity.TokenAnalytics{
		Details:      entity.TokenDetails{Mint: entity.NativeMint, Symbol: "SOL"},
		TotalHolders: entity.TotalHoldersUnavailable,
	}}
	router := newTestRouter(&stubBalanceService{}, &stubTransactionService{}, analytics)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tokens/"+entity.NativeMint+"/analytics", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got entity.TokenAnalytics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "SOL", got.Details.Symbol)
	assert.Equal(t, entity.TotalHoldersUnavailable, got.TotalHolders)
}

func TestWatchlistDisabled(t *testing.T) {
	router := newTestRouter(&stubBalanceService{}, &stubTransactionService{}, &stubAnalyticsService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&stubBalanceService{}, &stubTransactionService{}, &stubAnalyticsService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
