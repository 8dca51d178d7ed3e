package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variables before they are mapped
// onto config keys. A double underscore separates nested keys, so
// HOYORECORD_UPSTREAM__TIMEOUT sets upstream.timeout.
const EnvPrefix = "HOYORECORD_"

// Variables sharing EnvPrefix that select how the CLI runs rather than
// setting config keys. Load skips them.
const (
	// PathEnvVar names a config file when no explicit path is given
	PathEnvVar = EnvPrefix + "CONFIG"
	// ServerURLEnvVar points the CLI at a running API server
	ServerURLEnvVar = EnvPrefix + "SERVER"
	// APITokenEnvVar is the bearer token the CLI sends in remote mode
	APITokenEnvVar = EnvPrefix + "API_TOKEN"
)

var reservedEnvVars = map[string]bool{
	PathEnvVar:      true,
	ServerURLEnvVar: true,
	APITokenEnvVar:  true,
}

// DefaultPaths are searched in order when neither a path nor PathEnvVar is set
var DefaultPaths = []string{
	"hoyorecord.yaml",
	"hoyorecord.yml",
}

// Load layers struct defaults, an optional YAML file, then environment
// variables, and validates the result. An explicit path must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path == "" {
		path = findFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps HOYORECORD_STORAGE__REDIS__URL to storage.redis.url. Reserved
// variables map to "", which the env provider ignores.
func envKey(s string) string {
	if reservedEnvVars[s] {
		return ""
	}
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

func findFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
