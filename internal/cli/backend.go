package cli

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/mcoot/hoyorecord/internal/api/response"
	"github.com/mcoot/hoyorecord/internal/factory"
	"github.com/mcoot/hoyorecord/internal/model"
	"github.com/mcoot/hoyorecord/internal/services/record"
)

// backend runs account and record operations either in-process or through
// a running API server
type backend interface {
	Account(ctx context.Context, refresh bool) (response.Account, error)
	Forget(ctx context.Context) error
	Run(ctx context.Context, game model.Game, operation string, opts record.Options, refresh bool) (json.RawMessage, error)
	Health(ctx context.Context) (response.Health, error)
	Close() error
}

// localBackend calls the platform directly with the configured cookies
type localBackend struct {
	app *factory.App
}

func (b *localBackend) Account(ctx context.Context, refresh bool) (response.Account, error) {
	sess, err := b.app.Session(ctx, refresh)
	if err != nil {
		return response.Account{}, err
	}
	return response.AccountFromModel(sess.Record()), nil
}

func (b *localBackend) Forget(ctx context.Context) error {
	return b.app.ForgetAccount(ctx)
}

// Run returns the envelope's data once the retcode has been checked
func (b *localBackend) Run(ctx context.Context, game model.Game, operation string, opts record.Options, refresh bool) (json.RawMessage, error) {
	sess, err := b.app.Session(ctx, refresh)
	if err != nil {
		return nil, err
	}
	op, err := sess.Operation(game, operation)
	if err != nil {
		return nil, err
	}
	raw, err := op(ctx, opts)
	if err != nil {
		return nil, err
	}
	env, err := record.ParseEnvelope(raw)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (b *localBackend) Health(ctx context.Context) (response.Health, error) {
	if err := b.app.Storage.Ping(ctx); err != nil {
		return response.Health{Status: "degraded", Storage: "unreachable"}, nil
	}
	return response.Health{Status: "ok", Storage: "ok"}, nil
}

func (b *localBackend) Close() error {
	return b.app.Close()
}

// remoteBackend goes through the hoyorecord API
type remoteBackend struct {
	client *Client
}

func (b *remoteBackend) Account(ctx context.Context, refresh bool) (response.Account, error) {
	var out response.Account
	err := b.client.Get(ctx, "/api/v1/account?refresh="+strconv.FormatBool(refresh), &out)
	return out, err
}

func (b *remoteBackend) Forget(ctx context.Context) error {
	return b.client.Delete(ctx, "/api/v1/account")
}

func (b *remoteBackend) Run(ctx context.Context, game model.Game, operation string, opts record.Options, refresh bool) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("schedule", strconv.Itoa(int(opts.Schedule)))
	q.Set("need_all", strconv.FormatBool(opts.NeedAll))
	q.Set("refresh", strconv.FormatBool(refresh))

	var out response.Operation
	path := fmt.Sprintf("/api/v1/games/%s/%s?%s", url.PathEscape(string(game)), url.PathEscape(operation), q.Encode())
	if err := b.client.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (b *remoteBackend) Health(ctx context.Context) (response.Health, error) {
	var out response.Health
	err := b.client.Get(ctx, "/api/v1/health", &out)
	return out, err
}

func (b *remoteBackend) Close() error {
	return nil
}
