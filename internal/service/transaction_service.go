package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wallet_dashboard/internal/client"
	"wallet_dashboard/internal/config"
	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/cachestore"
	"wallet_dashboard/internal/pkg/metrics"
	"wallet_dashboard/internal/pkg/utils"
	"wallet_dashboard/internal/port"
)

// transactionServiceImpl builds classified transaction pages. The first page
// of each wallet is cached briefly and kept as a stale copy, so a provider
// outage degrades the dashboard to slightly old history instead of an error.
type transactionServiceImpl struct {
	ledger     client.LedgerClient
	classifier *Classifier
	cfg        config.TransactionsConfig
	pageCache  *cachestore.Store[entity.TransactionPage]
	logger     *zap.Logger

	lastGoodMu sync.Mutex
	lastGood   map[string]entity.TransactionPage
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(
	ledger client.LedgerClient,
	classifier *Classifier,
	cfg config.TransactionsConfig,
	logger *zap.Logger,
) port.TransactionService {
	return &transactionServiceImpl{
		ledger:     ledger,
		classifier: classifier,
		cfg:        cfg,
		pageCache:  cachestore.New[entity.TransactionPage](cfg.CacheMaxEntries),
		logger:     logger.Named("TransactionService"),
		lastGood:   make(map[string]entity.TransactionPage),
	}
}

// GetWalletTransactions returns one classified page of the wallet's history,
// newest first. Only the cursorless first page is cached; deeper pages always
// hit the ledger.
func (s *transactionServiceImpl) GetWalletTransactions(ctx context.Context, address string, limit int, beforeCursor string) (entity.TransactionPage, error) {
	if err := utils.ValidateAddress(address); err != nil {
		return entity.TransactionPage{}, err
	}

	if limit <= 0 {
		limit = s.cfg.DefaultPageLimit
	}
	if limit > s.cfg.MaxPageLimit {
		limit = s.cfg.MaxPageLimit
	}

	firstPage := beforeCursor == ""
	if firstPage {
		if page, ok := s.pageCache.Get(address); ok {
			metrics.ObserveCacheLookup("transactions", true)
			return page, nil
		}
		metrics.ObserveCacheLookup("transactions", false)
	}

	// Over-fetch by one to learn whether another page exists without a
	// second listing call.
	sigs, err := s.ledger.ListSignatures(ctx, address, limit+1, beforeCursor)
	if err != nil {
		if firstPage {
			if stale, ok := s.stalePage(address); ok {
				s.logger.Warn("Signature listing failed, serving stale page",
					zap.String("address", utils.ShortenAddress(address)),
					zap.Error(err))
				return stale, nil
			}
		}
		return entity.TransactionPage{}, err
	}

	hasMore := len(sigs) > limit
	if hasMore {
		sigs = sigs[:limit]
	}

	page := entity.TransactionPage{
		Transactions: s.fetchAndClassify(ctx, address, sigs),
		HasMore:      hasMore,
	}
	if hasMore && len(sigs) > 0 {
		page.NextCursor = sigs[len(sigs)-1].Signature
	}

	if firstPage {
		s.pageCache.Set(address, page, time.Duration(s.cfg.CacheTTLSeconds)*time.Second)
		s.lastGoodMu.Lock()
		s.lastGood[address] = page
		s.lastGoodMu.Unlock()
	}
	return page, nil
}

// fetchAndClassify resolves each signature to a classified event. Records
// that fail individually are skipped; the page survives. Fetches run in
// bounded batches with a pause in between to stay inside the RPC quota.
func (s *transactionServiceImpl) fetchAndClassify(ctx context.Context, address string, sigs []entity.SignatureInfo) []entity.Transaction {
	classified := make([]*entity.Transaction, len(sigs))
	pause := time.Duration(s.cfg.BatchPauseMillis) * time.Millisecond

	for start := 0; start < len(sigs); start += s.cfg.FetchConcurrency {
		end := start + s.cfg.FetchConcurrency
		if end > len(sigs) {
			end = len(sigs)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			sig := sigs[i]
			if sig.Failed {
				continue
			}
			g.Go(func() error {
				parsed, err := s.ledger.GetParsedTransaction(gctx, sig.Signature)
				if err != nil {
					s.logSkippedRecord(sig.Signature, err)
					return nil
				}
				classified[i] = s.classifier.Classify(parsed, address)
				return nil
			})
		}
		_ = g.Wait()

		if end < len(sigs) && pause > 0 {
			select {
			case <-ctx.Done():
				return collectTransactions(classified)
			case <-time.After(pause):
			}
		}
	}
	return collectTransactions(classified)
}

func (s *transactionServiceImpl) logSkippedRecord(signature string, err error) {
	var parseErr *entity.ParseError
	switch {
	case errors.As(err, &parseErr):
		s.logger.Warn("Skipping malformed transaction record",
			zap.String("signature", signature),
			zap.Error(err))
	case errors.Is(err, entity.ErrNotAvailable):
		s.logger.Debug("Transaction no longer available", zap.String("signature", signature))
	default:
		s.logger.Warn("Skipping transaction after fetch failure",
			zap.String("signature", signature),
			zap.Error(err))
	}
}

func collectTransactions(classified []*entity.Transaction) []entity.Transaction {
	txs := make([]entity.Transaction, 0, len(classified))
	for _, tx := range classified {
		if tx != nil {
			txs = append(txs, *tx)
		}
	}
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].Timestamp != txs[j].Timestamp {
			return txs[i].Timestamp > txs[j].Timestamp
		}
		return txs[i].Slot > txs[j].Slot
	})
	return txs
}

func (s *transactionServiceImpl) stalePage(address string) (entity.TransactionPage, bool) {
	s.lastGoodMu.Lock()
	defer s.lastGoodMu.Unlock()
	page, ok := s.lastGood[address]
	return page, ok
}
