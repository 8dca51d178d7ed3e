package account

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/hoyorecord/internal/metrics"
	"github.com/mcoot/hoyorecord/internal/model"
	"github.com/mcoot/hoyorecord/internal/storage"
)

// Service loads account records, reusing a cached record when one exists
type Service struct {
	resolver *Resolver
	storage  storage.Storage
	metrics  *metrics.Upstream
	logger   *slog.Logger
}

// NewService creates a new account Service
func NewService(resolver *Resolver, store storage.Storage, m *metrics.Upstream, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Service{
		resolver: resolver,
		storage:  store,
		metrics:  m,
		logger:   logger,
	}
}

// Load returns the account's record. With refresh set, or on a cache miss,
// the record card is fetched again and the cache overwritten. Cache read
// and write failures are logged and otherwise ignored.
func (s *Service) Load(ctx context.Context, accountID int64, refresh bool) (*model.AccountRecord, error) {
	if !refresh {
		record, err := s.storage.GetAccountRecord(ctx, accountID)
		switch {
		case err == nil:
			s.metrics.ObserveAccountLookup("cache", true)
			return record, nil
		case errors.Is(err, model.ErrRecordNotFound):
			s.metrics.ObserveAccountLookup("cache", false)
		default:
			s.logger.Warn("account cache read failed", "account_id", accountID, "error", err)
		}
	}

	record, err := s.resolver.Resolve(ctx, accountID)
	s.metrics.ObserveAccountLookup("upstream", err == nil)
	if err != nil {
		return nil, err
	}

	if err := s.storage.SaveAccountRecord(ctx, record); err != nil {
		s.logger.Warn("account cache write failed", "account_id", accountID, "error", err)
	}
	return record, nil
}

// Forget drops any cached record for the account
func (s *Service) Forget(ctx context.Context, accountID int64) error {
	return s.storage.DeleteAccountRecord(ctx, accountID)
}
