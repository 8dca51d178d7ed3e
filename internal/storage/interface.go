package storage

import (
	"context"

	"github.com/mcoot/hoyorecord/internal/model"
)

// Storage caches resolved account records between sessions
type Storage interface {
	// Account record operations
	SaveAccountRecord(ctx context.Context, record *model.AccountRecord) error
	GetAccountRecord(ctx context.Context, accountID int64) (*model.AccountRecord, error)
	DeleteAccountRecord(ctx context.Context, accountID int64) error

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error
}
