package cli

import (
	"os"

	"github.com/mcoot/hoyorecord/internal/config"
)

// Config holds CLI configuration
type Config struct {
	// ConfigPath is the hoyorecord config file for in-process mode
	ConfigPath string
	// ServerURL switches to remote mode against a running API
	ServerURL string
	Token     string
	Output    string
	Refresh   bool
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ConfigPath: os.Getenv(config.PathEnvVar),
		ServerURL:  os.Getenv(config.ServerURLEnvVar),
		Token:      os.Getenv(config.APITokenEnvVar),
		Output:     "text",
	}
}

// Remote returns true if commands go through a running API server
func (c *Config) Remote() bool {
	return c.ServerURL != ""
}
