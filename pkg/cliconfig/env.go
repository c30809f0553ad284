package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variable names
const (
	EnvBaseURL     = "CRUDSYNC_BASE_URL"
	EnvToken       = "CRUDSYNC_TOKEN"
	EnvTimeout     = "CRUDSYNC_TIMEOUT"
	EnvDefinitions = "CRUDSYNC_DEFINITIONS"
	EnvLogLevel    = "CRUDSYNC_LOG_LEVEL"
	EnvLogFormat   = "CRUDSYNC_LOG_FORMAT"
	EnvVerbose     = "CRUDSYNC_VERBOSE"
)

// LoadEnvConfig loads configuration from environment variables.
// It only sets values that are present in the environment.
func LoadEnvConfig(cfg *CLIConfig) error {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
		cfg.Sources["baseUrl"] = SourceEnv
	}

	if v := os.Getenv(EnvToken); v != "" {
		cfg.Token = v
		cfg.Sources["token"] = SourceEnv
	}

	if v := os.Getenv(EnvTimeout); v != "" {
		timeout, err := ParseTimeout(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Timeout = timeout
		cfg.Sources["timeout"] = SourceEnv
	}

	if v := os.Getenv(EnvDefinitions); v != "" {
		cfg.Definitions = v
		cfg.Sources["definitions"] = SourceEnv
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
		cfg.Sources["logLevel"] = SourceEnv
	}

	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
		cfg.Sources["logFormat"] = SourceEnv
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Verbose = v == "true" || v == "1" || v == "yes"
		cfg.Sources["verbose"] = SourceEnv
	}

	return nil
}

// ParseTimeout parses a duration such as "10s". A bare integer is taken
// as seconds.
func ParseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", v)
	}
	return d, nil
}
