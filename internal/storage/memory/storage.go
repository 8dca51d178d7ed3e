package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/hoyorecord/internal/dependencies/clock"
	"github.com/mcoot/hoyorecord/internal/model"
	"github.com/mcoot/hoyorecord/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	records map[int64]*model.AccountRecord
	saved   map[int64]time.Time

	clock clock.Clock
	ttl   time.Duration
}

// New creates a new in-memory storage instance whose records never expire
func New() *Storage {
	return NewWithTTL(clock.New(), 0)
}

// NewWithTTL creates an in-memory storage whose records expire ttl after
// they were saved. A zero ttl disables expiry.
func NewWithTTL(clk clock.Clock, ttl time.Duration) *Storage {
	return &Storage{
		records: make(map[int64]*model.AccountRecord),
		saved:   make(map[int64]time.Time),
		clock:   clk,
		ttl:     ttl,
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account record operations

func (s *Storage) SaveAccountRecord(ctx context.Context, record *model.AccountRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.AccountID] = record.Clone()
	s.saved[record.AccountID] = s.clock.Now()
	return nil
}

func (s *Storage) GetAccountRecord(ctx context.Context, accountID int64) (*model.AccountRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[accountID]
	if !ok || s.expired(accountID) {
		return nil, model.ErrRecordNotFound
	}
	return record.Clone(), nil
}

func (s *Storage) DeleteAccountRecord(ctx context.Context, accountID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, accountID)
	delete(s.saved, accountID)
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

func (s *Storage) expired(accountID int64) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.clock.Now().Sub(s.saved[accountID]) >= s.ttl
}
