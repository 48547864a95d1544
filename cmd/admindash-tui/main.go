package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tinytelemetry/admindash/internal/dataset"
	"github.com/tinytelemetry/admindash/internal/duckdb"
	"github.com/tinytelemetry/admindash/internal/logging"
	"github.com/tinytelemetry/admindash/internal/model"
	"github.com/tinytelemetry/admindash/internal/pages"
	"github.com/tinytelemetry/admindash/internal/socketrpc"
	"github.com/tinytelemetry/admindash/internal/tui"
	"github.com/tinytelemetry/admindash/internal/uistate"
)

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

func newRootCmd() *cobra.Command {
	var showVersion bool
	cmd := &cobra.Command{
		Use:           "admindash-tui",
		Short:         "Terminal admin dashboard",
		Long:          "admindash-tui shows the Customers, Employees and Orders pages with filters, grids and charts.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				printVersion(cmd)
				return nil
			}
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := loadCLIConfig(configPath, changedFlags(cmd.Flags()))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return runTUI(cfg)
		},
	}
	cmd.Flags().BoolVar(&showVersion, "version", false, "print version information")
	cmd.Flags().String("config", "", "config file (default is $HOME/.config/admindash/config.yml)")
	cmd.Flags().String("socket-path", "", "override socket path to connect to the admindash service")
	cmd.Flags().Bool("local", false, "skip the service and open an in-memory store")
	cmd.Flags().Int("page-size", model.DefaultPageSize, "grid rows per page")
	cmd.Flags().String("export-dir", "", "directory for grid exports")
	cmd.Flags().String("log-level", model.DefaultLogLevel, "log level for the TUI log file")
	return cmd
}

// changedFlags keeps only the flags set on the command line so viper falls
// through to env, file and defaults for the rest.
func changedFlags(all *pflag.FlagSet) *pflag.FlagSet {
	fs := pflag.NewFlagSet("tui", pflag.ContinueOnError)
	all.Visit(func(f *pflag.Flag) {
		if f.Name != "config" && f.Name != "version" {
			fs.AddFlag(f)
		}
	})
	return fs
}

func printVersion(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Admindash TUI - Dashboard Client\n")
	fmt.Fprintf(out, "  Version:    %s\n", version)
	fmt.Fprintf(out, "  Commit:     %s\n", commit)
	fmt.Fprintf(out, "  Built:      %s\n", buildTime)
	fmt.Fprintf(out, "  Go version: %s\n", goVersion)
}

func runTUI(cfg cliConfig) error {
	log, closeLog := fileLogger(cfg.LogLevel)
	defer closeLog()

	src, dataSource, closeSrc, err := openSource(cfg, log)
	if err != nil {
		return err
	}
	defer closeSrc()
	log.Info().Str("source", dataSource).Msg("dashboard starting")

	catalog := pages.Default()
	catalog.SetPageSize(cfg.PageSize)

	dashboard := tui.NewDashboardModel(tui.Config{
		Source:             src,
		DataSource:         dataSource,
		Catalog:            catalog,
		UI:                 uistate.New(),
		ExportDir:          cfg.ExportDir,
		ReverseScrollWheel: cfg.ReverseScrollWheel,
		Logger:             log,
	})

	p := tea.NewProgram(dashboard, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// fileLogger writes to the state directory; stderr would corrupt the alt
// screen, so failures fall back to a no-op logger.
func fileLogger(level string) (zerolog.Logger, func()) {
	path, err := logging.DefaultPath()
	if err != nil {
		return zerolog.Nop(), func() {}
	}
	log, closeFn, err := logging.ToFile(path, level)
	if err != nil {
		return zerolog.Nop(), func() {}
	}
	return log, closeFn
}

// openSource connects to the running service, else seeds an in-memory
// store from the bundled dataset.
func openSource(cfg cliConfig, log zerolog.Logger) (model.RecordSource, string, func(), error) {
	if !cfg.Local {
		client, err := socketrpc.Dial(cfg.SocketPath)
		if err == nil {
			return client, "Socket", func() { _ = client.Close() }, nil
		}
		log.Info().Err(err).Str("socket", cfg.SocketPath).Msg("service not reachable; using local store")
	}

	store, err := duckdb.NewStore("", duckdb.WithLogger(log.With().Str("component", "duckdb").Logger()))
	if err != nil {
		return nil, "", nil, fmt.Errorf("open local store: %w", err)
	}
	ds, err := dataset.Load()
	if err != nil {
		store.Close()
		return nil, "", nil, fmt.Errorf("load dataset: %w", err)
	}
	if _, err := store.Seed(ds); err != nil {
		store.Close()
		return nil, "", nil, err
	}
	return store, "DuckDB", func() { _ = store.Close() }, nil
}
