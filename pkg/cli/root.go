package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	// Persistent flags available to all subcommands
	baseURL     string
	token       string
	timeout     time.Duration
	definitions string
	logLevel    string
	logFormat   string
	verbose     bool
	jsonOutput  bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "crudsync",
	Short: "crudsync keeps local entity stores in sync with a REST backend",
	Long: `crudsync drives declaratively defined entity stores against a live REST API.

Entities are described in a definitions file (YAML or JSON). Each entity gets
a store with list, get, create, update and delete actions plus any custom
actions it declares.

Settings come from flags, CRUDSYNC_* environment variables, a local
.crudsyncrc.yaml or the global config at $XDG_CONFIG_HOME/crudsync/config.yaml.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&baseURL, "base-url", "", "API base URL (default: http://localhost:4280)")
	pf.StringVar(&token, "token", "", "Bearer token sent with every request")
	pf.DurationVar(&timeout, "timeout", 0, "HTTP request timeout (default: 30s)")
	pf.StringVarP(&definitions, "definitions", "d", "", "Definitions file or glob pattern (default: crudsync.yaml)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "Log format: text, json")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}
