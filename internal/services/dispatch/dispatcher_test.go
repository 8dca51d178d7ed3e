package dispatch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/hoyorecord/internal/dependencies/mocks"
	"github.com/mcoot/hoyorecord/internal/metrics"
	"github.com/mcoot/hoyorecord/internal/model"
	"github.com/mcoot/hoyorecord/internal/services/credential"
	"github.com/mcoot/hoyorecord/internal/services/salt"
	"github.com/mcoot/hoyorecord/internal/services/signer"
	"github.com/mcoot/hoyorecord/internal/testutil"
)

type DispatcherSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	signer  *signer.Signer
	creds   *credential.Store
	server  *httptest.Server
	handler http.HandlerFunc
	calls   atomic.Int32
	lastReq atomic.Pointer[http.Request]
	ctx     context.Context
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.signer = signer.New(salt.Default(), mocks.NewMockClockUnix(1700000000), s.random)
	s.creds = credential.NewFromCookies("ltuid_v2=42; account_id_v2=42; junk=ignored", nil)
	s.ctx = context.Background()
	s.calls.Store(0)
	s.lastReq.Store(nil)
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"retcode":0,"message":"OK","data":{"x":1}}`))
	}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		s.lastReq.Store(r.Clone(context.Background()))
		s.handler(w, r)
	}))
}

func (s *DispatcherSuite) TearDownTest() {
	s.server.Close()
}

func (s *DispatcherSuite) newDispatcher(cfg Config) *Dispatcher {
	return NewWithHTTPClient(s.signer, s.creds, cfg, metrics.NewUpstream(prometheus.NewRegistry()), nil, s.server.Client())
}

func unlimited() Config {
	cfg := DefaultConfig()
	cfg.RatePerSecond = 0
	return cfg
}

// Success

func (s *DispatcherSuite) TestReturnsBodyUnmodified() {
	d := s.newDispatcher(unlimited())

	body, err := d.Get(s.ctx, s.server.URL+"/index", map[string]string{"server": "prod_gf_us"}, model.RealmOverseas, salt.PurposeDefault)
	s.Require().NoError(err)

	s.JSONEq(`{"retcode":0,"message":"OK","data":{"x":1}}`, string(body))
	s.Equal(int32(1), s.calls.Load())
}

func (s *DispatcherSuite) TestOverseasHeaders() {
	s.random.QueueString("abcdef")
	d := s.newDispatcher(unlimited())

	_, err := d.Get(s.ctx, s.server.URL+"/index", map[string]string{"server": "prod_gf_us", "role_id": "1"}, model.RealmOverseas, salt.PurposeDefault)
	s.Require().NoError(err)

	h := s.lastReq.Load().Header
	s.Equal("account_id_v2=42; ltuid_v2=42", h.Get("Cookie"))
	s.Equal(UserAgent, h.Get("User-Agent"))
	s.Equal("https://act.hoyolab.com", h.Get("Referer"))
	s.Equal("en-us", h.Get("x-rpc-language"))
	s.Equal("en-us", h.Get("x-rpc-lang"))
	s.Equal("1.5.0", h.Get("x-rpc-app_version"))
	s.Equal("5", h.Get("x-rpc-client_type"))
	s.Equal("en-US,en;q=0.5", h.Get("Accept-language"))
	s.Equal("1700000000,abcdef,52ac4768378434146675f980be7d092a", h.Get("DS"))

	// Only the platform header set goes out; the transport adds Accept-Encoding
	allowed := map[string]bool{
		"Cookie": true, "User-Agent": true, "Referer": true, "X-Rpc-Language": true,
		"X-Rpc-Lang": true, "X-Rpc-App_version": true, "X-Rpc-Client_type": true,
		"Accept-Language": true, "Ds": true, "Accept-Encoding": true,
	}
	for name := range h {
		s.True(allowed[name], "unexpected header %s", name)
	}

	s.Equal("prod_gf_us", s.lastReq.Load().URL.Query().Get("server"))
	s.Equal("1", s.lastReq.Load().URL.Query().Get("role_id"))
}

func (s *DispatcherSuite) TestSignFailureIsLoggedAndCounted() {
	m := metrics.NewUpstream(prometheus.NewRegistry())
	logger, logs := testutil.CaptureLogger()
	d := NewWithHTTPClient(s.signer, s.creds, unlimited(), m, logger, s.server.Client())

	_, err := d.Get(s.ctx, s.server.URL+"/index", nil, model.RealmOverseas, salt.Purpose(99))
	s.ErrorIs(err, salt.ErrUnknownPurpose)

	s.Equal(int32(0), s.calls.Load())
	s.Equal(1.0, promtestutil.ToFloat64(m.Requests.WithLabelValues("/index", "os", "error")))
	s.Contains(logs.String(), "upstream request failed")
	s.Contains(logs.String(), `"request_id"`)
}

func (s *DispatcherSuite) TestDomesticSignsQuery() {
	s.random.QueueIntn(23455)
	d := s.newDispatcher(unlimited())

	_, err := d.Get(s.ctx, s.server.URL+"/index", map[string]string{"server": "prod_gf_sg", "role_id": "100"}, model.RealmDomestic, salt.PurposeDefault)
	s.Require().NoError(err)

	s.Equal("2.11.1", s.lastReq.Load().Header.Get("x-rpc-app_version"))
	s.Equal("1700000000,123456,825aaa3c013e12f145f6e61c560c4aab", s.lastReq.Load().Header.Get("DS"))
}

func (s *DispatcherSuite) TestMergesExistingQuery() {
	d := s.newDispatcher(unlimited())

	_, err := d.Get(s.ctx, s.server.URL+"/card?uid=5", map[string]string{"lang": "en-us"}, model.RealmOverseas, salt.PurposeDefault)
	s.Require().NoError(err)

	s.Equal("5", s.lastReq.Load().URL.Query().Get("uid"))
	s.Equal("en-us", s.lastReq.Load().URL.Query().Get("lang"))
}

func (s *DispatcherSuite) TestConfiguredLanguage() {
	cfg := unlimited()
	cfg.Language = "ja-jp"
	d := s.newDispatcher(cfg)

	_, err := d.Get(s.ctx, s.server.URL+"/index", nil, model.RealmOverseas, salt.PurposeDefault)
	s.Require().NoError(err)
	s.Equal("ja-jp", s.lastReq.Load().Header.Get("x-rpc-language"))
}

// Failures

func (s *DispatcherSuite) TestNon2xxIsStatusError() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"retcode":-1}`))
	}
	d := s.newDispatcher(unlimited())

	_, err := d.Get(s.ctx, s.server.URL+"/index", nil, model.RealmOverseas, salt.PurposeDefault)

	var reqErr *model.RequestError
	s.Require().True(errors.As(err, &reqErr))
	s.Equal(model.KindStatus, reqErr.Kind)
	s.Equal(http.StatusInternalServerError, reqErr.StatusCode)
	s.Equal(int32(1), s.calls.Load())
}

func (s *DispatcherSuite) TestInvalidJSONIsDecodeError() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}
	d := s.newDispatcher(unlimited())

	_, err := d.Get(s.ctx, s.server.URL+"/index", nil, model.RealmOverseas, salt.PurposeDefault)

	var reqErr *model.RequestError
	s.Require().True(errors.As(err, &reqErr))
	s.Equal(model.KindDecode, reqErr.Kind)
}

func (s *DispatcherSuite) TestTimeout() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}
	cfg := unlimited()
	cfg.Timeout = 20 * time.Millisecond
	d := s.newDispatcher(cfg)

	_, err := d.Get(s.ctx, s.server.URL+"/index", nil, model.RealmOverseas, salt.PurposeDefault)

	var reqErr *model.RequestError
	s.Require().True(errors.As(err, &reqErr))
	s.Equal(model.KindTimeout, reqErr.Kind)
	s.True(reqErr.IsTimeout())
	s.Equal(int32(1), s.calls.Load())
}

func (s *DispatcherSuite) TestTransportError() {
	d := s.newDispatcher(unlimited())
	url := s.server.URL
	s.server.Close()

	_, err := d.Get(s.ctx, url+"/index", nil, model.RealmOverseas, salt.PurposeDefault)

	var reqErr *model.RequestError
	s.Require().True(errors.As(err, &reqErr))
	s.Equal(model.KindTransport, reqErr.Kind)
}

func (s *DispatcherSuite) TestRelativeEndpointRejected() {
	d := s.newDispatcher(unlimited())

	_, err := d.Get(s.ctx, "/index", nil, model.RealmOverseas, salt.PurposeDefault)

	var reqErr *model.RequestError
	s.Require().True(errors.As(err, &reqErr))
	s.Zero(s.calls.Load())
}

func (s *DispatcherSuite) TestUnsupportedRealm() {
	d := s.newDispatcher(unlimited())

	_, err := d.Get(s.ctx, s.server.URL+"/index", nil, model.Realm("eu"), salt.PurposeDefault)

	s.ErrorIs(err, model.ErrUnsupportedRegion)
	s.Zero(s.calls.Load())
}

// Rate limiting and circuit breaking

func (s *DispatcherSuite) TestLimiterCancelIsRejected() {
	cfg := DefaultConfig()
	cfg.RatePerSecond = 0.001
	cfg.Burst = 1
	d := s.newDispatcher(cfg)

	_, err := d.Get(s.ctx, s.server.URL+"/index", nil, model.RealmOverseas, salt.PurposeDefault)
	s.Require().NoError(err)

	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Millisecond)
	defer cancel()
	_, err = d.Get(ctx, s.server.URL+"/index", nil, model.RealmOverseas, salt.PurposeDefault)

	var reqErr *model.RequestError
	s.Require().True(errors.As(err, &reqErr))
	s.Equal(model.KindRejected, reqErr.Kind)
	s.Equal(int32(1), s.calls.Load())
}

func (s *DispatcherSuite) TestServerErrorsTripBreaker() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}
	cfg := unlimited()
	cfg.Breaker = BreakerConfig{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, MinRequests: 3, FailureRatio: 0.5}
	d := s.newDispatcher(cfg)

	for i := 0; i < 3; i++ {
		_, err := d.Get(s.ctx, s.server.URL+"/index", nil, model.RealmOverseas, salt.PurposeDefault)
		s.Require().Error(err)
	}

	_, err := d.Get(s.ctx, s.server.URL+"/index", nil, model.RealmOverseas, salt.PurposeDefault)

	var reqErr *model.RequestError
	s.Require().True(errors.As(err, &reqErr))
	s.Equal(model.KindRejected, reqErr.Kind)
	s.Equal(int32(3), s.calls.Load())
}

func (s *DispatcherSuite) TestClientErrorsDoNotTripBreaker() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}
	cfg := unlimited()
	cfg.Breaker = BreakerConfig{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, MinRequests: 2, FailureRatio: 0.5}
	d := s.newDispatcher(cfg)

	for i := 0; i < 5; i++ {
		_, err := d.Get(s.ctx, s.server.URL+"/index", nil, model.RealmOverseas, salt.PurposeDefault)
		var reqErr *model.RequestError
		s.Require().True(errors.As(err, &reqErr))
		s.Equal(model.KindStatus, reqErr.Kind)
	}
	s.Equal(int32(5), s.calls.Load())
}

func (s *DispatcherSuite) TestFreshSignaturePerRequest() {
	s.random.QueueString("aaaaaa", "bbbbbb")
	d := s.newDispatcher(unlimited())

	_, err := d.Get(s.ctx, s.server.URL+"/index", nil, model.RealmOverseas, salt.PurposeDefault)
	s.Require().NoError(err)
	first := s.lastReq.Load().Header.Get("DS")

	_, err = d.Get(s.ctx, s.server.URL+"/index", nil, model.RealmOverseas, salt.PurposeDefault)
	s.Require().NoError(err)

	s.NotEqual(first, s.lastReq.Load().Header.Get("DS"))
}
