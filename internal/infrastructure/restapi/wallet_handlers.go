package restapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/port"
	"wallet_dashboard/internal/service"
)

// APIErrorResponse is the error envelope for every failed request.
type APIErrorResponse struct {
	Error string `json:"error"`
}

// WalletHandler serves the wallet-facing endpoints.
type WalletHandler struct {
	balances     port.BalanceService
	transactions port.TransactionService
	analytics    port.AnalyticsService
	poller       *service.BalancePoller
	logger       *zap.Logger
}

// NewWalletHandler creates a new WalletHandler. poller may be nil when the
// watchlist is disabled.
func NewWalletHandler(
	balances port.BalanceService,
	transactions port.TransactionService,
	analytics port.AnalyticsService,
	poller *service.BalancePoller,
	logger *zap.Logger,
) *WalletHandler {
	return &WalletHandler{
		balances:     balances,
		transactions: transactions,
		analytics:    analytics,
		poller:       poller,
		logger:       logger.Named("WalletHandler"),
	}
}

// GetBalanceHandler returns the valued portfolio of one wallet.
func (h *WalletHandler) GetBalanceHandler(c *gin.Context) {
	balance, err := h.balances.GetWalletBalance(c.Request.Context(), c.Param("address"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// GetTransactionsHandler returns one classified transaction page. The limit
// and before query parameters control paging.
func (h *WalletHandler) GetTransactionsHandler(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	page, err := h.transactions.GetWalletTransactions(c.Request.Context(), c.Param("address"), limit, c.Query("before"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetTokenAnalyticsHandler returns the risk/trade summary for one token.
func (h *WalletHandler) GetTokenAnalyticsHandler(c *gin.Context) {
	analytics, err := h.analytics.GetTokenAnalytics(c.Request.Context(), c.Param("mint"), nil)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// GetWatchlistHandler returns the latest polled snapshot of every watchlist
// wallet.
func (h *WalletHandler) GetWatchlistHandler(c *gin.Context) {
	if h.poller == nil {
		c.JSON(http.StatusNotFound, APIErrorResponse{Error: "watchlist polling is disabled"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallets": h.poller.Snapshots()})
}

// HealthHandler reports liveness.
func (h *WalletHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeError maps service failures to HTTP statuses: a malformed address is
// the client's fault, anything else is an upstream failure.
func (h *WalletHandler) writeError(c *gin.Context, err error) {
	var invalidAddr *entity.InvalidAddressError
	if errors.As(err, &invalidAddr) {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: err.Error()})
		return
	}
	h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadGateway, APIErrorResponse{Error: "upstream provider failure"})
}
