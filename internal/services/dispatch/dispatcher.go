package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/mcoot/hoyorecord/internal/metrics"
	"github.com/mcoot/hoyorecord/internal/model"
	"github.com/mcoot/hoyorecord/internal/services/credential"
	"github.com/mcoot/hoyorecord/internal/services/salt"
	"github.com/mcoot/hoyorecord/internal/services/signer"
)

// Fixed client identity sent with every request
const (
	UserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:136.0) Gecko/20100101 Firefox/136.0"
	Referer        = "https://act.hoyolab.com"
	ClientType     = "5"
	AcceptLanguage = "en-US,en;q=0.5"
)

// maxBodyBytes caps how much of a response is read
const maxBodyBytes = 8 << 20

// BreakerConfig tunes the circuit breaker wrapped around the transport
type BreakerConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

// Config holds configuration for the dispatcher
type Config struct {
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	Language      string
	Breaker       BreakerConfig
}

// DefaultConfig returns default dispatcher configuration
func DefaultConfig() Config {
	return Config{
		Timeout:       10 * time.Second,
		RatePerSecond: 5,
		Burst:         5,
		Language:      "en-us",
		Breaker: BreakerConfig{
			MaxRequests:  3,
			Interval:     time.Minute,
			Timeout:      2 * time.Minute,
			MinRequests:  10,
			FailureRatio: 0.6,
		},
	}
}

// Dispatcher sends signed GET requests to the platform. It is safe for
// concurrent use; the only state it keeps between calls is the rate
// limiter and circuit breaker.
type Dispatcher struct {
	signer     *signer.Signer
	creds      *credential.Store
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
	metrics    *metrics.Upstream
	logger     *slog.Logger

	timeout  time.Duration
	language string
}

// New creates a Dispatcher with a pooled HTTP client
func New(sg *signer.Signer, creds *credential.Store, cfg Config, m *metrics.Upstream, logger *slog.Logger) *Dispatcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 16
	return NewWithHTTPClient(sg, creds, cfg, m, logger, &http.Client{Transport: transport})
}

// NewWithHTTPClient creates a Dispatcher using the given HTTP client
func NewWithHTTPClient(sg *signer.Signer, creds *credential.Store, cfg Config, m *metrics.Upstream, logger *slog.Logger, httpClient *http.Client) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	def := DefaultConfig()
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Language == "" {
		cfg.Language = def.Language
	}

	d := &Dispatcher{
		signer:     sg,
		creds:      creds,
		httpClient: httpClient,
		metrics:    m,
		logger:     logger,
		timeout:    cfg.Timeout,
		language:   cfg.Language,
	}
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		d.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	d.breaker = gobreaker.NewCircuitBreaker[[]byte](d.breakerSettings(cfg.Breaker))
	return d
}

func (d *Dispatcher) breakerSettings(cfg BreakerConfig) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        "upstream",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if cfg.MinRequests == 0 || cfg.FailureRatio <= 0 {
				return false
			}
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			d.logger.Warn("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
			d.metrics.SetBreakerState(name, int(to), from.String(), to.String())
		},
		IsSuccessful: countsAsHealthy,
	}
}

// countsAsHealthy keeps client-side problems out of the breaker's failure
// count: 4xx responses, bodies that fail to parse and caller cancellation.
func countsAsHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var reqErr *model.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.Kind {
		case model.KindDecode:
			return true
		case model.KindStatus:
			return reqErr.StatusCode < 500
		}
	}
	return false
}

// Get sends exactly one signed GET to endpoint with params as the query
// string and returns the response body. The body is checked to be JSON
// but not otherwise interpreted. Every failure after signing is a
// *model.RequestError; nothing is retried.
func (d *Dispatcher) Get(ctx context.Context, endpoint string, params map[string]string, realm model.Realm, purpose salt.Purpose) (json.RawMessage, error) {
	family, err := signer.FamilyForRealm(realm)
	if err != nil {
		return nil, err
	}

	target, err := buildURL(endpoint, params)
	if err != nil {
		return nil, &model.RequestError{Kind: model.KindTransport, Endpoint: endpoint, Err: err}
	}

	requestID := uuid.NewString()
	logger := d.logger.With("request_id", requestID, "endpoint", target.Path, "realm", string(realm))
	start := time.Now()

	if err := d.wait(ctx); err != nil {
		reqErr := &model.RequestError{Kind: model.KindRejected, Endpoint: endpoint, Err: err}
		d.finish(logger, target.Path, realm, start, reqErr)
		return nil, reqErr
	}

	sig, err := d.signer.Sign(family, purpose, nil, params)
	if err != nil {
		d.finish(logger, target.Path, realm, start, err)
		return nil, err
	}

	body, err := d.breaker.Execute(func() ([]byte, error) {
		return d.do(ctx, target, realm, sig)
	})
	if err != nil {
		err = classify(endpoint, err)
		d.finish(logger, target.Path, realm, start, err)
		return nil, err
	}

	d.finish(logger, target.Path, realm, start, nil)
	return json.RawMessage(body), nil
}

func (d *Dispatcher) wait(ctx context.Context) error {
	if d.limiter == nil {
		return nil
	}
	start := time.Now()
	err := d.limiter.Wait(ctx)
	d.metrics.ObserveLimiterWait(time.Since(start))
	return err
}

func (d *Dispatcher) do(ctx context.Context, target *url.URL, realm model.Realm, sig model.Signature) ([]byte, error) {
	endpoint := target.String()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &model.RequestError{Kind: model.KindTransport, Endpoint: endpoint, Err: err}
	}
	d.setHeaders(req.Header, realm, sig)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, &model.RequestError{Kind: transportKind(err), Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &model.RequestError{Kind: transportKind(err), Endpoint: endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.RequestError{
			Kind:       model.KindStatus,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if !json.Valid(body) {
		return nil, &model.RequestError{
			Kind:       model.KindDecode,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        errors.New("response body is not valid JSON"),
		}
	}
	return body, nil
}

func (d *Dispatcher) setHeaders(h http.Header, realm model.Realm, sig model.Signature) {
	h.Set("Cookie", d.creds.HeaderValue())
	h.Set("User-Agent", UserAgent)
	h.Set("Referer", Referer)
	h.Set("x-rpc-language", d.language)
	h.Set("x-rpc-lang", d.language)
	h.Set("x-rpc-app_version", realm.AppVersion())
	h.Set("x-rpc-client_type", ClientType)
	h.Set("Accept-language", AcceptLanguage)
	h.Set("DS", sig.String())
}

func (d *Dispatcher) finish(logger *slog.Logger, path string, realm model.Realm, start time.Time, err error) {
	elapsed := time.Since(start)
	result := "ok"

	var reqErr *model.RequestError
	if errors.As(err, &reqErr) {
		result = string(reqErr.Kind)
	} else if err != nil {
		result = "error"
	}
	d.metrics.ObserveRequest(path, string(realm), result, elapsed)

	if err != nil {
		logger.Warn("upstream request failed", "result", result, "duration", elapsed, "error", err)
		return
	}
	logger.Debug("upstream request", "duration", elapsed)
}

// classify turns breaker rejections into RequestErrors and passes every
// other error through.
func classify(endpoint string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &model.RequestError{Kind: model.KindRejected, Endpoint: endpoint, Err: err}
	}
	return err
}

func transportKind(err error) model.RequestErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return model.KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.KindTimeout
	}
	return model.KindTransport
}

// buildURL merges params into any query string endpoint already carries
func buildURL(endpoint string, params map[string]string) (*url.URL, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("endpoint %q is not an absolute URL", endpoint)
	}
	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u, nil
}
