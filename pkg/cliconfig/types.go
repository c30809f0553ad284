// Package cliconfig provides configuration types and loading for the crudsync CLI.
package cliconfig

import "time"

// CLIConfig represents the complete configuration for the crudsync CLI.
// Configuration values can come from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Local config file (.crudsyncrc.yaml in current directory)
// 4. Global config file (~/.config/crudsync/config.yaml)
// 5. Default values (lowest priority)
type CLIConfig struct {
	// Backend settings
	BaseURL string        `yaml:"baseUrl,omitempty" json:"baseUrl,omitempty"`
	Token   string        `yaml:"token,omitempty" json:"-"`
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Definitions is a file path or glob of entity definition files.
	Definitions string `yaml:"definitions,omitempty" json:"definitions,omitempty"`

	// Logging settings
	LogLevel  string `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`
	LogFormat string `yaml:"logFormat,omitempty" json:"logFormat,omitempty"`
	Verbose   bool   `yaml:"verbose,omitempty" json:"verbose,omitempty"`

	// Sources tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields records the keys present in the source. Used to merge an
	// explicit false.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFlag    = "flag"
)
