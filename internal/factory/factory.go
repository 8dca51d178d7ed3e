package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mcoot/hoyorecord/internal/config"
	"github.com/mcoot/hoyorecord/internal/dependencies/clock"
	"github.com/mcoot/hoyorecord/internal/dependencies/random"
	"github.com/mcoot/hoyorecord/internal/metrics"
	"github.com/mcoot/hoyorecord/internal/model"
	"github.com/mcoot/hoyorecord/internal/services/account"
	"github.com/mcoot/hoyorecord/internal/services/credential"
	"github.com/mcoot/hoyorecord/internal/services/dispatch"
	"github.com/mcoot/hoyorecord/internal/services/salt"
	"github.com/mcoot/hoyorecord/internal/services/session"
	"github.com/mcoot/hoyorecord/internal/services/signer"
	"github.com/mcoot/hoyorecord/internal/storage"
	"github.com/mcoot/hoyorecord/internal/storage/memory"
	redisstorage "github.com/mcoot/hoyorecord/internal/storage/redis"
)

// App contains all wired application components
type App struct {
	Config *config.Config
	Logger *slog.Logger

	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Metrics
	Registry *prometheus.Registry
	Metrics  *metrics.Upstream

	// Services
	Salts       *salt.Table
	Signer      *signer.Signer
	Credentials *credential.Store
	Dispatcher  *dispatch.Dispatcher
	Resolver    *account.Resolver
	Accounts    *account.Service
}

// Config holds configuration for the application factory
type Config struct {
	// App is the loaded application configuration (required)
	App *config.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// HTTPClient overrides the upstream HTTP client (optional)
	HTTPClient *http.Client
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	if cfg.App == nil {
		return nil, errors.New("factory: application config required")
	}

	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()
	rnd := random.New()

	// Create storage based on type
	var store storage.Storage
	switch cfg.App.Storage.Type {
	case "", config.StorageTypeMemory:
		store = memory.NewWithTTL(clk, cfg.App.Storage.RecordTTL)
	case config.StorageTypeRedis:
		redisStore, err := redisstorage.New(cfg.App.RedisStorageConfig())
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, fmt.Errorf("invalid storage type %q: must be 'memory' or 'redis'", cfg.App.Storage.Type)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return newWithDependencies(cfg.App, store, clk, rnd, registry, cfg.HTTPClient, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	appCfg *config.Config,
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	registry *prometheus.Registry,
	httpClient *http.Client,
	logger *slog.Logger,
) *App {
	m := metrics.NewUpstream(registry)
	salts := salt.Default()
	sg := signer.New(salts, clk, rnd)
	creds := credential.NewFromCookies(appCfg.Cookie, logger)

	var dispatcher *dispatch.Dispatcher
	if httpClient != nil {
		dispatcher = dispatch.NewWithHTTPClient(sg, creds, appCfg.DispatchConfig(), m, logger, httpClient)
	} else {
		dispatcher = dispatch.New(sg, creds, appCfg.DispatchConfig(), m, logger)
	}

	resolver := account.NewResolver(dispatcher, clk, logger, appCfg.Upstream.CardURL)
	accounts := account.NewService(resolver, store, m, logger)

	return &App{
		Config:      appCfg,
		Logger:      logger,
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		Registry:    registry,
		Metrics:     m,
		Salts:       salts,
		Signer:      sg,
		Credentials: creds,
		Dispatcher:  dispatcher,
		Resolver:    resolver,
		Accounts:    accounts,
	}
}

// AccountID returns the configured account id, falling back to the one
// carried by the session cookies
func (a *App) AccountID() (int64, error) {
	if a.Config.AccountID > 0 {
		return a.Config.AccountID, nil
	}
	cred := a.Credentials.Essential()
	if cred.IsEmpty() {
		return 0, model.ErrNoCredentials
	}
	id, ok := cred.AccountID()
	if !ok {
		return 0, fmt.Errorf("%w: cookies carry no account id, set account_id", model.ErrNoCredentials)
	}
	return id, nil
}

// Session loads the configured account and binds a client per game to it
func (a *App) Session(ctx context.Context, refresh bool) (*session.Session, error) {
	id, err := a.AccountID()
	if err != nil {
		return nil, err
	}
	rec, err := a.Accounts.Load(ctx, id, refresh)
	if err != nil {
		return nil, err
	}
	return session.New(rec, a.Dispatcher, a.Config.Upstream.RecordBaseURL), nil
}

// ForgetAccount drops the cached record for the configured account
func (a *App) ForgetAccount(ctx context.Context) error {
	id, err := a.AccountID()
	if err != nil {
		return err
	}
	return a.Accounts.Forget(ctx, id)
}

// Close releases storage connections
func (a *App) Close() error {
	if c, ok := a.Storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
