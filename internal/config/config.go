package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application. Every interval,
// TTL, batch size and retry bound lives here so call sites never re-derive
// their own values.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Logging      LoggingConfig      `yaml:"logging"`
	Rpc          RpcConfig          `yaml:"rpc"`
	PriceOracle  PriceOracleConfig  `yaml:"priceOracle"`
	DEXScreener  DEXScreenerConfig  `yaml:"dexScreener"`
	CoinGecko    CoinGeckoConfig    `yaml:"coinGecko"`
	Metadata     MetadataConfig     `yaml:"metadata"`
	Prices       PricesConfig       `yaml:"prices"`
	Transactions TransactionsConfig `yaml:"transactions"`
	Analytics    AnalyticsConfig    `yaml:"analytics"`
	Poller       PollerConfig       `yaml:"poller"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// RpcConfig holds the ledger RPC provider configuration.
type RpcConfig struct {
	Endpoint             string `yaml:"endpoint"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	MinIntervalMillis    int64  `yaml:"minIntervalMillis"`
	MaxRetries           int    `yaml:"maxRetries"`
	RetryBaseDelayMillis int64  `yaml:"retryBaseDelayMillis"`
	RetryMaxDelayMillis  int64  `yaml:"retryMaxDelayMillis"`
}

// PriceOracleConfig holds the price oracle (Jupiter) client configuration.
type PriceOracleConfig struct {
	PriceURL             string `yaml:"priceURL"`
	TokenListURL         string `yaml:"tokenListURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	MinIntervalMillis    int64  `yaml:"minIntervalMillis"`
	MaxRetries           int    `yaml:"maxRetries"`
	RetryBaseDelayMillis int64  `yaml:"retryBaseDelayMillis"`
	RetryMaxDelayMillis  int64  `yaml:"retryMaxDelayMillis"`
}

// DEXScreenerConfig holds the trading-data aggregator client configuration.
type DEXScreenerConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	MinIntervalMillis    int64  `yaml:"minIntervalMillis"`
}

// CoinGeckoConfig holds the CoinGecko client configuration, used for
// native-asset market data only.
type CoinGeckoConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	MinIntervalMillis    int64  `yaml:"minIntervalMillis"`
}

// MetadataConfig holds the token metadata resolver configuration.
type MetadataConfig struct {
	CacheTTLMinutes     int `yaml:"cacheTTLMinutes"`
	CacheMaxEntries     int `yaml:"cacheMaxEntries"`
	DirectoryTTLMinutes int `yaml:"directoryTTLMinutes"`
	LookupBatchSize     int `yaml:"lookupBatchSize"`
	BatchPauseMillis    int `yaml:"batchPauseMillis"`
}

// PricesConfig holds the price resolver configuration.
type PricesConfig struct {
	CacheTTLMinutes        int     `yaml:"cacheTTLMinutes"`
	CacheMaxEntries        int     `yaml:"cacheMaxEntries"`
	BatchSize              int     `yaml:"batchSize"`
	BatchPauseMillis       int     `yaml:"batchPauseMillis"`
	NativeFallbackPriceUSD float64 `yaml:"nativeFallbackPriceUSD"`
}

// TransactionsConfig holds the transaction fetcher configuration.
type TransactionsConfig struct {
	DefaultPageLimit int `yaml:"defaultPageLimit"`
	MaxPageLimit     int `yaml:"maxPageLimit"`
	CacheTTLSeconds  int `yaml:"cacheTTLSeconds"`
	CacheMaxEntries  int `yaml:"cacheMaxEntries"`
	FetchConcurrency int `yaml:"fetchConcurrency"`
	BatchPauseMillis int `yaml:"batchPauseMillis"`
}

// AnalyticsConfig holds the token analytics service configuration.
type AnalyticsConfig struct {
	CacheTTLMinutes int `yaml:"cacheTTLMinutes"`
	TopHolderCount  int `yaml:"topHolderCount"`
}

// PollerConfig holds the balance poll loop configuration.
type PollerConfig struct {
	Enabled         bool   `yaml:"enabled"`
	IntervalSeconds int    `yaml:"intervalSeconds"`
	WalletsFile     string `yaml:"walletsFile"`
}

// LoadConfig loads configuration from a YAML file and applies defaults for
// anything left unset.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

// ApplyDefaults fills every zero field with the value the dashboard was tuned
// against. Kept separate from LoadConfig so tests can build configs directly.
func (cfg *Config) ApplyDefaults() {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Rpc.Endpoint == "" {
		cfg.Rpc.Endpoint = "https://api.mainnet-beta.solana.com"
	}
	if cfg.Rpc.RequestTimeoutMillis == 0 {
		cfg.Rpc.RequestTimeoutMillis = 10000
	}
	if cfg.Rpc.MinIntervalMillis == 0 {
		cfg.Rpc.MinIntervalMillis = 100
	}
	if cfg.Rpc.MaxRetries == 0 {
		cfg.Rpc.MaxRetries = 3
	}
	if cfg.Rpc.RetryBaseDelayMillis == 0 {
		cfg.Rpc.RetryBaseDelayMillis = 2000
	}
	if cfg.Rpc.RetryMaxDelayMillis == 0 {
		cfg.Rpc.RetryMaxDelayMillis = 10000
	}

	if cfg.PriceOracle.PriceURL == "" {
		cfg.PriceOracle.PriceURL = "https://api.jup.ag/price/v2"
	}
	if cfg.PriceOracle.TokenListURL == "" {
		cfg.PriceOracle.TokenListURL = "https://token.jup.ag/strict"
	}
	if cfg.PriceOracle.RequestTimeoutMillis == 0 {
		cfg.PriceOracle.RequestTimeoutMillis = 10000
	}
	if cfg.PriceOracle.MinIntervalMillis == 0 {
		cfg.PriceOracle.MinIntervalMillis = 100
	}
	if cfg.PriceOracle.MaxRetries == 0 {
		cfg.PriceOracle.MaxRetries = 3
	}
	if cfg.PriceOracle.RetryBaseDelayMillis == 0 {
		cfg.PriceOracle.RetryBaseDelayMillis = 1000
	}
	if cfg.PriceOracle.RetryMaxDelayMillis == 0 {
		cfg.PriceOracle.RetryMaxDelayMillis = 10000
	}

	if cfg.DEXScreener.BaseURL == "" {
		cfg.DEXScreener.BaseURL = "https://api.dexscreener.com"
	}
	if cfg.DEXScreener.RequestTimeoutMillis == 0 {
		cfg.DEXScreener.RequestTimeoutMillis = 10000
	}
	if cfg.DEXScreener.MinIntervalMillis == 0 {
		cfg.DEXScreener.MinIntervalMillis = 2000
	}

	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.CoinGecko.RequestTimeoutMillis == 0 {
		cfg.CoinGecko.RequestTimeoutMillis = 10000
	}
	if cfg.CoinGecko.MinIntervalMillis == 0 {
		cfg.CoinGecko.MinIntervalMillis = 2000
	}

	if cfg.Metadata.CacheTTLMinutes == 0 {
		cfg.Metadata.CacheTTLMinutes = 30
	}
	if cfg.Metadata.CacheMaxEntries == 0 {
		cfg.Metadata.CacheMaxEntries = 4096
	}
	if cfg.Metadata.DirectoryTTLMinutes == 0 {
		cfg.Metadata.DirectoryTTLMinutes = 60
	}
	if cfg.Metadata.LookupBatchSize == 0 {
		cfg.Metadata.LookupBatchSize = 5
	}
	if cfg.Metadata.BatchPauseMillis == 0 {
		cfg.Metadata.BatchPauseMillis = 200
	}

	if cfg.Prices.CacheTTLMinutes == 0 {
		cfg.Prices.CacheTTLMinutes = 5
	}
	if cfg.Prices.CacheMaxEntries == 0 {
		cfg.Prices.CacheMaxEntries = 4096
	}
	if cfg.Prices.BatchSize == 0 {
		cfg.Prices.BatchSize = 5
	}
	if cfg.Prices.BatchPauseMillis == 0 {
		cfg.Prices.BatchPauseMillis = 200
	}
	if cfg.Prices.NativeFallbackPriceUSD == 0 {
		// A zero native price would zero the headline net worth, which is
		// worse than a slightly stale estimate.
		cfg.Prices.NativeFallbackPriceUSD = 150
	}

	if cfg.Transactions.DefaultPageLimit == 0 {
		cfg.Transactions.DefaultPageLimit = 50
	}
	if cfg.Transactions.MaxPageLimit == 0 {
		cfg.Transactions.MaxPageLimit = 100
	}
	if cfg.Transactions.CacheTTLSeconds == 0 {
		cfg.Transactions.CacheTTLSeconds = 30
	}
	if cfg.Transactions.CacheMaxEntries == 0 {
		cfg.Transactions.CacheMaxEntries = 256
	}
	if cfg.Transactions.FetchConcurrency == 0 {
		cfg.Transactions.FetchConcurrency = 3
	}
	if cfg.Transactions.BatchPauseMillis == 0 {
		cfg.Transactions.BatchPauseMillis = 200
	}

	if cfg.Analytics.CacheTTLMinutes == 0 {
		cfg.Analytics.CacheTTLMinutes = 5
	}
	if cfg.Analytics.TopHolderCount == 0 {
		cfg.Analytics.TopHolderCount = 10
	}

	if cfg.Poller.IntervalSeconds == 0 {
		cfg.Poller.IntervalSeconds = 60
	}
	if cfg.Poller.WalletsFile == "" {
		cfg.Poller.WalletsFile = "config/wallets.txt"
	}
}
