package handler

import (
	"context"

	"github.com/mcoot/hoyorecord/internal/services/session"
)

// Sessions builds sessions for the configured account. *factory.App
// satisfies it.
type Sessions interface {
	Session(ctx context.Context, refresh bool) (*session.Session, error)
	ForgetAccount(ctx context.Context) error
}
