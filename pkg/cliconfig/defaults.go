package cliconfig

import "time"

// DefaultBaseURL is the default backend base URL.
const DefaultBaseURL = "http://localhost:4280"

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultDefinitions is the default definitions file.
const DefaultDefinitions = "crudsync.yaml"

// DefaultLogLevel is the default log level.
const DefaultLogLevel = "warn"

// DefaultLogFormat is the default log format.
const DefaultLogFormat = "text"

// NewDefault creates a new CLIConfig with default values.
func NewDefault() *CLIConfig {
	cfg := &CLIConfig{
		BaseURL:     DefaultBaseURL,
		Timeout:     DefaultTimeout,
		Definitions: DefaultDefinitions,
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		Sources:     make(map[string]string),
	}

	// Mark all as default source
	for _, key := range []string{"baseUrl", "timeout", "definitions", "logLevel", "logFormat"} {
		cfg.Sources[key] = SourceDefault
	}

	return cfg
}
