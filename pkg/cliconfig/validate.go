package cliconfig

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// Validate checks the merged configuration.
func (c *CLIConfig) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout %s must not be negative", c.Timeout)
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("baseUrl %q must be an absolute http(s) URL", c.BaseURL)
		}
	}
	if c.LogLevel != "" && !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("logLevel %q must be one of %s", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if c.LogFormat != "" && !slices.Contains(validLogFormats, strings.ToLower(c.LogFormat)) {
		return fmt.Errorf("logFormat %q must be one of %s", c.LogFormat, strings.Join(validLogFormats, ", "))
	}
	return nil
}
