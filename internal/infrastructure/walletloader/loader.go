package walletloader

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"wallet_dashboard/internal/pkg/utils"
)

// LoadWallets reads the watchlist file: one address per line, blank lines and
// '#' comments skipped. Lines that do not look like a ledger address are
// logged and dropped so one typo never stops the poller.
func LoadWallets(path string, logger *zap.Logger) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet file %s: %w", path, err)
	}
	defer file.Close()

	log := logger.Named("WalletLoader")
	var wallets []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := utils.ValidateAddress(line); err != nil {
			log.Warn("Skipping invalid wallet address",
				zap.String("file", path),
				zap.Int("line", lineNum),
				zap.String("address", line))
			continue
		}
		wallets = append(wallets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning wallet file %s: %w", path, err)
	}

	log.Info("Wallets loaded from file", zap.Int("count", len(wallets)), zap.String("path", path))
	return wallets, nil
}
