package factory

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcoot/hoyorecord/internal/config"
	"github.com/mcoot/hoyorecord/internal/dependencies/mocks"
	"github.com/mcoot/hoyorecord/internal/storage/memory"
	"github.com/mcoot/hoyorecord/internal/testutil"
)

// TestUnix is the mock clock's starting time
const TestUnix = 1700000000

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// TestConfig returns a valid configuration pointed at a fake upstream
func TestConfig(upstream *testutil.Upstream) *config.Config {
	cfg := config.Default()
	cfg.Cookie = testutil.DefaultCookie
	cfg.Upstream.CardURL = upstream.CardURL()
	cfg.Upstream.RecordBaseURL = upstream.RecordBaseURL()
	cfg.Upstream.RatePerSecond = 0
	return cfg
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp(cfg *config.Config) *TestApp {
	mockClock := mocks.NewMockClockUnix(TestUnix)
	mockRandom := mocks.NewMockRandom()
	store := memory.NewWithTTL(mockClock, cfg.Storage.RecordTTL)

	app := newWithDependencies(cfg, store, mockClock, mockRandom, prometheus.NewRegistry(), &http.Client{}, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
