package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.unsetenv(PathEnvVar)
	s.unsetenv(EnvPrefix + "COOKIE")
}

// unsetenv removes key for the duration of the test
func (s *ConfigSuite) unsetenv(key string) {
	s.T().Setenv(key, "")
	s.Require().NoError(os.Unsetenv(key))
}

func (s *ConfigSuite) writeFile(body string) string {
	path := filepath.Join(s.dir, "hoyorecord.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(body), 0o600))
	return path
}

func (s *ConfigSuite) TestDefaultsRequireCookie() {
	_, err := Load("")
	s.ErrorIs(err, ErrInvalid)
	s.Contains(err.Error(), "Cookie")
}

func (s *ConfigSuite) TestDefaultsWithCookie() {
	s.T().Setenv(EnvPrefix+"COOKIE", "ltuid_v2=42")

	cfg, err := Load("")
	s.Require().NoError(err)

	s.Equal("ltuid_v2=42", cfg.Cookie)
	s.Equal("en-us", cfg.Language)
	s.Equal(10*time.Second, cfg.Upstream.Timeout)
	s.Equal("https://bbs-api-os.hoyolab.com/game_record/card/wapi/getGameRecordCard", cfg.Upstream.CardURL)
	s.Equal("https://sg-public-api.hoyolab.com/event", cfg.Upstream.RecordBaseURL)
	s.Equal(StorageTypeMemory, cfg.Storage.Type)
	s.Equal("info", cfg.Log.Level)
}

func (s *ConfigSuite) TestFileOverridesDefaults() {
	path := s.writeFile(`
cookie: "ltuid_v2=7; ltoken_v2=abc"
account_id: 7
upstream:
  timeout: 3s
  rate_per_second: 1.5
  breaker:
    failure_ratio: 0.25
storage:
  type: redis
  record_ttl: 1h
  redis:
    url: redis://cache:6379/1
log:
  level: debug
  format: text
`)

	cfg, err := Load(path)
	s.Require().NoError(err)

	s.Equal(int64(7), cfg.AccountID)
	s.Equal(3*time.Second, cfg.Upstream.Timeout)
	s.Equal(1.5, cfg.Upstream.RatePerSecond)
	s.Equal(0.25, cfg.Upstream.Breaker.FailureRatio)
	s.Equal(uint32(10), cfg.Upstream.Breaker.MinRequests)
	s.Equal(StorageTypeRedis, cfg.Storage.Type)
	s.Equal("redis://cache:6379/1", cfg.Storage.Redis.URL)
	s.Equal(time.Hour, cfg.Storage.RecordTTL)
	s.Equal(time.Hour, cfg.RedisStorageConfig().RecordTTL)
	s.Equal(10, cfg.Storage.Redis.PoolSize)
	s.Equal("text", cfg.Log.Format)
}

func (s *ConfigSuite) TestEnvOverridesFile() {
	path := s.writeFile("cookie: from-file\nupstream:\n  timeout: 3s\n")
	s.T().Setenv(EnvPrefix+"COOKIE", "ltuid_v2=1")
	s.T().Setenv(EnvPrefix+"UPSTREAM__TIMEOUT", "250ms")
	s.T().Setenv(EnvPrefix+"SERVER__PORT", "9090")

	cfg, err := Load(path)
	s.Require().NoError(err)

	s.Equal("ltuid_v2=1", cfg.Cookie)
	s.Equal(250*time.Millisecond, cfg.Upstream.Timeout)
	s.Equal(9090, cfg.Server.Port)
}

func (s *ConfigSuite) TestCLIVariablesAreNotConfigKeys() {
	path := s.writeFile("cookie: from-file\n")
	s.T().Setenv(ServerURLEnvVar, "http://127.0.0.1:8080")
	s.T().Setenv(APITokenEnvVar, "tok")

	cfg, err := Load(path)
	s.Require().NoError(err)
	s.Equal("from-file", cfg.Cookie)
	s.Equal(Default().Server, cfg.Server)

	s.T().Setenv(ServerURLEnvVar, "")
	_, err = Load(path)
	s.Require().NoError(err)
}

func (s *ConfigSuite) TestMemoryTTLFromStorageSection() {
	path := s.writeFile("cookie: x\nstorage:\n  type: memory\n  record_ttl: 5m\n")

	cfg, err := Load(path)
	s.Require().NoError(err)
	s.Equal(StorageTypeMemory, cfg.Storage.Type)
	s.Equal(5*time.Minute, cfg.Storage.RecordTTL)
}

func (s *ConfigSuite) TestPathFromEnv() {
	path := s.writeFile("cookie: from-file\n")
	s.T().Setenv(PathEnvVar, path)

	cfg, err := Load("")
	s.Require().NoError(err)
	s.Equal("from-file", cfg.Cookie)
}

func (s *ConfigSuite) TestMissingExplicitFile() {
	_, err := Load(filepath.Join(s.dir, "nope.yaml"))
	s.Error(err)
}

func (s *ConfigSuite) TestInvalidValues() {
	cases := map[string]string{
		"log level":     "cookie: x\nlog:\n  level: loud\n",
		"storage type":  "cookie: x\nstorage:\n  type: sqlite\n",
		"failure ratio": "cookie: x\nupstream:\n  breaker:\n    failure_ratio: 2\n",
		"card url":      "cookie: x\nupstream:\n  card_url: not a url\n",
		"redis url":     "cookie: x\nstorage:\n  type: redis\n  redis:\n    url: \"\"\n",
	}
	for name, body := range cases {
		_, err := Load(s.writeFile(body))
		s.ErrorIs(err, ErrInvalid, name)
	}
}

func (s *ConfigSuite) TestDispatchConfig() {
	cfg := Default()
	cfg.Language = "ko-kr"

	d := cfg.DispatchConfig()
	s.Equal("ko-kr", d.Language)
	s.Equal(cfg.Upstream.Timeout, d.Timeout)
	s.Equal(cfg.Upstream.Breaker.MinRequests, d.Breaker.MinRequests)
}

func (s *ConfigSuite) TestRedisStorageConfig() {
	cfg := Default()
	cfg.Storage.RecordTTL = time.Minute

	r := cfg.RedisStorageConfig()
	s.Equal(time.Minute, r.RecordTTL)
	s.Equal(cfg.Storage.Redis.URL, r.URL)
}

func (s *ConfigSuite) TestLoggerFormatAndLevel() {
	var buf bytes.Buffer

	LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf).Info("hidden")
	s.Empty(buf.String())

	LogConfig{Level: "debug", Format: "json"}.NewLogger(&buf).Debug("shown", "k", "v")
	s.Contains(buf.String(), `"msg":"shown"`)

	buf.Reset()
	LogConfig{Level: "info", Format: "text"}.NewLogger(&buf).Info("plain")
	s.Contains(buf.String(), "msg=plain")
}
