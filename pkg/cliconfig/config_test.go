package cliconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  CLIConfig
		wantErr string
	}{
		{
			name:   "valid defaults",
			config: *NewDefault(),
		},
		{
			name:   "empty config",
			config: CLIConfig{},
		},
		{
			name:    "negative timeout",
			config:  CLIConfig{Timeout: -time.Second},
			wantErr: "timeout -1s must not be negative",
		},
		{
			name:    "relative base url",
			config:  CLIConfig{BaseURL: "/api"},
			wantErr: "must be an absolute http(s) URL",
		},
		{
			name:    "unsupported scheme",
			config:  CLIConfig{BaseURL: "ftp://example.com"},
			wantErr: "must be an absolute http(s) URL",
		},
		{
			name:    "unknown log level",
			config:  CLIConfig{LogLevel: "loud"},
			wantErr: `logLevel "loud"`,
		},
		{
			name:   "log level is case insensitive",
			config: CLIConfig{LogLevel: "DEBUG", LogFormat: "JSON"},
		},
		{
			name:    "unknown log format",
			config:  CLIConfig{LogFormat: "xml"},
			wantErr: `logFormat "xml"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewDefault(t *testing.T) {
	t.Parallel()

	cfg := NewDefault()
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultDefinitions, cfg.Definitions)
	assert.Equal(t, SourceDefault, cfg.Sources["baseUrl"])
	assert.Equal(t, SourceDefault, cfg.Sources["logLevel"])
}

func TestMergeConfig(t *testing.T) {
	t.Parallel()

	t.Run("merges non-zero values", func(t *testing.T) {
		t.Parallel()
		target := NewDefault()
		MergeConfig(target, &CLIConfig{BaseURL: "http://api:8080", Timeout: 5 * time.Second}, SourceLocal)

		assert.Equal(t, "http://api:8080", target.BaseURL)
		assert.Equal(t, 5*time.Second, target.Timeout)
		assert.Equal(t, DefaultDefinitions, target.Definitions)
		assert.Equal(t, SourceLocal, target.Sources["baseUrl"])
		assert.Equal(t, SourceDefault, target.Sources["definitions"])
	})

	t.Run("nil source is ignored", func(t *testing.T) {
		t.Parallel()
		target := NewDefault()
		MergeConfig(target, nil, SourceFlag)
		assert.Equal(t, DefaultBaseURL, target.BaseURL)
	})

	t.Run("handles boolean false with SetFields", func(t *testing.T) {
		t.Parallel()
		target := &CLIConfig{Verbose: true}
		MergeConfig(target, &CLIConfig{Verbose: false, SetFields: map[string]bool{"verbose": true}}, SourceLocal)
		assert.False(t, target.Verbose)
		assert.Equal(t, SourceLocal, target.Sources["verbose"])
	})

	t.Run("does not merge boolean false without SetFields", func(t *testing.T) {
		t.Parallel()
		target := &CLIConfig{Verbose: true}
		MergeConfig(target, &CLIConfig{Verbose: false}, SourceLocal)
		assert.True(t, target.Verbose)
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("baseUrl: http://files:1\ntimeout: 12s\nverbose: false\n"), 0o600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://files:1", cfg.BaseURL)
	assert.Equal(t, 12*time.Second, cfg.Timeout)
	assert.True(t, cfg.SetFields["verbose"])
	assert.False(t, cfg.SetFields["token"])

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("baseUrl: [oops"), 0o600))
	_, err = LoadConfigFile(bad)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, bad, cfgErr.Path)
	assert.Positive(t, cfgErr.Line)
	assert.NotContains(t, cfgErr.Message, "yaml: line")

	_, err = LoadConfigFile(filepath.Join(dir, "missing.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestConfigError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a.yaml: bad", (&ConfigError{Path: "a.yaml", Message: "bad"}).Error())
	assert.Equal(t, "a.yaml (line 3, column 7): bad", (&ConfigError{Path: "a.yaml", Line: 3, Column: 7, Message: "bad"}).Error())
	assert.Equal(t, "a.yaml (line 3): bad", (&ConfigError{Path: "a.yaml", Line: 3, Message: "bad"}).Error())

	got := newConfigError("b.yaml", errors.New("yaml: line 4: mapping values are not allowed in this context"))
	assert.Equal(t, 4, got.Line)
	assert.Equal(t, "mapping values are not allowed in this context", got.Message)

	got = newConfigError("b.yaml", errors.New("yaml: unmarshal errors"))
	assert.Zero(t, got.Line)
	assert.Equal(t, "yaml: unmarshal errors", got.Message)
}

func TestParseTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"10", 10 * time.Second, false},
		{"1500ms", 1500 * time.Millisecond, false},
		{"2m", 2 * time.Minute, false},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTimeout(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv(EnvBaseURL, "http://env:9000")
	t.Setenv(EnvToken, "secret")
	t.Setenv(EnvTimeout, "7")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvVerbose, "1")

	cfg := NewDefault()
	require.NoError(t, LoadEnvConfig(cfg))

	assert.Equal(t, "http://env:9000", cfg.BaseURL)
	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, 7*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, SourceEnv, cfg.Sources["timeout"])
	assert.Equal(t, SourceDefault, cfg.Sources["definitions"])
}

func TestLoadEnvConfig_InvalidTimeout(t *testing.T) {
	t.Setenv(EnvTimeout, "whenever")
	assert.Error(t, LoadEnvConfig(NewDefault()))
}

func TestLoadAll_Precedence(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvTimeout, "")
	t.Setenv(EnvDefinitions, "")
	t.Chdir(work)

	globalDir := filepath.Join(home, GlobalConfigDir)
	require.NoError(t, os.MkdirAll(globalDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(globalDir, "config.yaml"),
		[]byte("baseUrl: http://global:1\ntimeout: 3s\ndefinitions: global.yaml\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(work, ".crudsyncrc.yaml"),
		[]byte("baseUrl: http://local:2\n"), 0o600))
	t.Setenv(EnvDefinitions, "env.yaml")

	cfg, err := LoadAll()
	require.NoError(t, err)

	assert.Equal(t, "http://local:2", cfg.BaseURL)
	assert.Equal(t, SourceLocal, cfg.Sources["baseUrl"])
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, SourceGlobal, cfg.Sources["timeout"])
	assert.Equal(t, "env.yaml", cfg.Definitions)
	assert.Equal(t, SourceEnv, cfg.Sources["definitions"])
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)

	assert.Contains(t, SearchPaths(), filepath.Join(work, ".crudsyncrc.yaml"))
}

func TestLoadAll_MalformedLocalConfig(t *testing.T) {
	work := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(work)
	require.NoError(t, os.WriteFile(filepath.Join(work, ".crudsyncrc.yml"), []byte("timeout: [1"), 0o600))

	_, err := LoadAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "local config")
}
