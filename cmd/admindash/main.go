package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running with no subcommand serves.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admindash",
		Short:         "Admin dashboard service",
		Long:          "admindash serves the Customers, Employees and Orders pages over HTTP and a local socket.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example:       rootExample,
	}
	root.PersistentFlags().String("config", "", "config file (default is $HOME/.config/admindash/config.yml)")
	root.PersistentFlags().String("log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	serve := newServeCmd()
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serveFlags())

	root.AddCommand(serve, newExportCmd(), newVersionCmd())
	return root
}

const rootExample = `  # Start the service (HTTP API on 127.0.0.1:3000 and the TUI socket)
  admindash serve

  # Export the pending orders to a spreadsheet
  admindash export --page orders --format xlsx --filter Status=pending

  # Customers with a budget between 10k and 60k, as CSV on stdout
  admindash export --page customers --format csv --out - --filter Budget.min=10 --filter Budget.max=60`

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and socket RPC service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
	cmd.Flags().AddFlagSet(serveFlags())
	return cmd
}

// serveFlags is shared by the root and serve commands.
func serveFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	fs.String("db-path", "", "DuckDB database file (empty uses the default location)")
	fs.Bool("api-enabled", true, "serve the HTTP API")
	fs.Int("api-port", defaultAPIPort, "HTTP API port")
	fs.String("api-addr", "", "HTTP API listen address (overrides --api-port)")
	fs.String("socket-path", "", "Unix socket for TUI clients")
	fs.Duration("query-timeout", defaultQueryTimeout, "per-query timeout")
	return fs
}

// configFrom loads configuration with the flags the user actually set.
func configFrom(cmd *cobra.Command) (appConfig, error) {
	configPath, _ := cmd.Flags().GetString("config")

	changed := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed && f.Name != "config" {
			changed.AddFlag(f)
		}
	})
	cfg, err := loadConfig(configPath, changed)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Admindash - Admin Dashboard Service\n")
			fmt.Fprintf(out, "  Version:    %s\n", version)
			fmt.Fprintf(out, "  Commit:     %s\n", commit)
			fmt.Fprintf(out, "  Built:      %s\n", buildTime)
			fmt.Fprintf(out, "  Go version: %s\n", goVersion)
		},
	}
}
