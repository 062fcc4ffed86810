package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"

	"wallet_dashboard/internal/client"
	"wallet_dashboard/internal/config"
	"wallet_dashboard/internal/infrastructure/restapi"
	"wallet_dashboard/internal/infrastructure/walletloader"
	"wallet_dashboard/internal/pkg/logger"
	"wallet_dashboard/internal/pkg/metrics"
	"wallet_dashboard/internal/pkg/resilient"
	"wallet_dashboard/internal/pkg/utils"
	"wallet_dashboard/internal/service"
)

func main() {
	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	// Route slog-based libraries through the same zap core.
	slog.SetDefault(slog.New(zapslog.NewHandler(zapLogger.Core())))

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	// Each provider class gets its own caller so one provider's backoff
	// never stalls the others.
	ledgerCaller := resilient.NewCaller("ledger", resilient.Config{
		MinInterval: time.Duration(cfg.Rpc.MinIntervalMillis) * time.Millisecond,
		MaxRetries:  cfg.Rpc.MaxRetries,
		BaseDelay:   time.Duration(cfg.Rpc.RetryBaseDelayMillis) * time.Millisecond,
		MaxDelay:    time.Duration(cfg.Rpc.RetryMaxDelayMillis) * time.Millisecond,
		CallTimeout: time.Duration(cfg.Rpc.RequestTimeoutMillis) * time.Millisecond,
	}, zapLogger)
	oracleCaller := resilient.NewCaller("priceOracle", resilient.Config{
		MinInterval: time.Duration(cfg.PriceOracle.MinIntervalMillis) * time.Millisecond,
		MaxRetries:  cfg.PriceOracle.MaxRetries,
		BaseDelay:   time.Duration(cfg.PriceOracle.RetryBaseDelayMillis) * time.Millisecond,
		MaxDelay:    time.Duration(cfg.PriceOracle.RetryMaxDelayMillis) * time.Millisecond,
		CallTimeout: time.Duration(cfg.PriceOracle.RequestTimeoutMillis) * time.Millisecond,
	}, zapLogger)
	dexCfg := resilient.DefaultConfig()
	dexCfg.MinInterval = time.Duration(cfg.DEXScreener.MinIntervalMillis) * time.Millisecond
	dexCfg.CallTimeout = time.Duration(cfg.DEXScreener.RequestTimeoutMillis) * time.Millisecond
	dexCaller := resilient.NewCaller("dexScreener", dexCfg, zapLogger)
	geckoCfg := resilient.DefaultConfig()
	geckoCfg.MinInterval = time.Duration(cfg.CoinGecko.MinIntervalMillis) * time.Millisecond
	geckoCfg.CallTimeout = time.Duration(cfg.CoinGecko.RequestTimeoutMillis) * time.Millisecond
	geckoCaller := resilient.NewCaller("coinGecko", geckoCfg, zapLogger)

	ledgerClient := client.NewLedgerClient(
		cfg.Rpc.Endpoint,
		time.Duration(cfg.Rpc.RequestTimeoutMillis)*time.Millisecond,
		ledgerCaller,
		zapLogger,
	)
	oracleClient := client.NewPriceOracleClient(
		cfg.PriceOracle.PriceURL,
		cfg.PriceOracle.TokenListURL,
		time.Duration(cfg.PriceOracle.RequestTimeoutMillis)*time.Millisecond,
		oracleCaller,
		zapLogger,
	)
	dexClient := client.NewTradeDataClient(
		cfg.DEXScreener.BaseURL,
		time.Duration(cfg.DEXScreener.RequestTimeoutMillis)*time.Millisecond,
		dexCaller,
		zapLogger,
	)
	geckoClient := client.NewNativeMarketClient(
		cfg.CoinGecko.BaseURL,
		time.Duration(cfg.CoinGecko.RequestTimeoutMillis)*time.Millisecond,
		geckoCaller,
		zapLogger,
	)
	zapLogger.Info("Provider clients initialized")

	metadataService := service.NewMetadataService(oracleClient, dexClient, cfg.Metadata, zapLogger)
	priceService := service.NewPriceService(oracleClient, cfg.Prices, zapLogger)
	classifier := service.NewClassifier(metadataService.DisplaySymbol, zapLogger)
	transactionService := service.NewTransactionService(ledgerClient, classifier, cfg.Transactions, zapLogger)
	balanceService := service.NewBalanceService(ledgerClient, metadataService, priceService, zapLogger)
	analyticsService := service.NewAnalyticsService(ledgerClient, dexClient, geckoClient, metadataService, cfg.Analytics, zapLogger)
	zapLogger.Info("Services initialized")

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	var poller *service.BalancePoller
	if cfg.Poller.Enabled {
		wallets, err := walletloader.LoadWallets(cfg.Poller.WalletsFile, zapLogger)
		if err != nil {
			zapLogger.Warn("Failed to load watchlist, poller disabled", zap.Error(err))
		} else {
			poller = service.NewBalancePoller(
				balanceService,
				wallets,
				time.Duration(cfg.Poller.IntervalSeconds)*time.Second,
				zapLogger,
			)
			go poller.Run(rootCtx)
		}
	}

	handler := restapi.NewWalletHandler(balanceService, transactionService, analyticsService, poller, zapLogger)
	router := restapi.SetupRouter(handler, zapLogger)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")
	cancelRoot()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting")
}
