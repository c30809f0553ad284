package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/getmockd/crudsync/pkg/cliconfig"
	"github.com/getmockd/crudsync/pkg/definition"
	"github.com/getmockd/crudsync/pkg/logging"
	"github.com/getmockd/crudsync/pkg/stateful"
	"github.com/getmockd/crudsync/pkg/transport"
)

// session is everything a command needs to talk to the backend: the
// effective settings, the loaded definitions and one store per entity.
type session struct {
	cfg      *cliconfig.CLIConfig
	log      *slog.Logger
	defs     *definition.File
	registry *stateful.Registry
	metrics  *stateful.MetricsObserver
}

// loadConfig resolves the CLI settings and applies flags the user changed.
func loadConfig(cmd *cobra.Command) (*cliconfig.CLIConfig, error) {
	cfg, err := cliconfig.LoadAll()
	if err != nil {
		return nil, err
	}

	flagCfg := &cliconfig.CLIConfig{SetFields: make(map[string]bool)}
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("base-url") {
		flagCfg.BaseURL = baseURL
	}
	if changed("token") {
		flagCfg.Token = token
	}
	if changed("timeout") {
		flagCfg.Timeout = timeout
	}
	if changed("definitions") {
		flagCfg.Definitions = definitions
	}
	if changed("log-level") {
		flagCfg.LogLevel = logLevel
	}
	if changed("log-format") {
		flagCfg.LogFormat = logFormat
	}
	if changed("verbose") {
		flagCfg.Verbose = verbose
		flagCfg.SetFields["verbose"] = true
	}
	cliconfig.MergeConfig(cfg, flagCfg, cliconfig.SourceFlag)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *cliconfig.CLIConfig) *slog.Logger {
	return logging.New(logging.FromSettings(cfg.LogLevel, cfg.LogFormat, cfg.Verbose, cmd.ErrOrStderr()))
}

// effectiveBaseURL picks the explicitly configured base URL, then the one in
// the definitions, then the default.
func effectiveBaseURL(cfg *cliconfig.CLIConfig, defs *definition.File) string {
	if cfg.Sources["baseUrl"] != cliconfig.SourceDefault && cfg.BaseURL != "" {
		return cfg.BaseURL
	}
	if defs.BaseURL != "" {
		return defs.BaseURL
	}
	return cfg.BaseURL
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log := newLogger(cmd, cfg)

	defs, err := definition.LoadGlob(cfg.Definitions)
	if err != nil {
		return nil, fmt.Errorf("loading definitions: %w", err)
	}

	base := effectiveBaseURL(cfg, defs)
	client := transport.New(base,
		transport.WithTimeout(cfg.Timeout),
		transport.WithToken(cfg.Token),
		transport.WithLogger(log),
	)

	metrics := stateful.NewMetricsObserver()
	registry := stateful.NewRegistry(
		stateful.WithLogger(log),
		stateful.WithObserver(metrics),
	)
	if err := defs.Register(registry, client, definition.WithLogger(log)); err != nil {
		return nil, err
	}

	log.Debug("session ready", "baseUrl", base, "definitions", cfg.Definitions, "entities", registry.Len())
	return &session{
		cfg:      cfg,
		log:      log,
		defs:     defs,
		registry: registry,
		metrics:  metrics,
	}, nil
}

// store returns the store for an entity name.
func (s *session) store(entity string) (*stateful.Store, error) {
	st, ok := s.registry.Lookup(entity)
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownEntity, entity, s.registry.Keys())
	}
	return st, nil
}
