package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/admindash/internal/dataset"
	"github.com/tinytelemetry/admindash/internal/duckdb"
	"github.com/tinytelemetry/admindash/internal/httpserver"
	"github.com/tinytelemetry/admindash/internal/logging"
	"github.com/tinytelemetry/admindash/internal/pages"
	"github.com/tinytelemetry/admindash/internal/socketrpc"
)

const shutdownDeadline = 10 * time.Second

// runServer opens the store, seeds it and serves until interrupted.
func runServer(parent context.Context, cfg appConfig) error {
	log := logging.Console(cfg.LogLevel)

	store, err := openSeededStore(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.APIEnabled {
		catalog := pages.Default()
		catalog.SetPageSize(cfg.PageSize)
		api := httpserver.NewServer(cfg.APIAddr, store,
			httpserver.WithLogger(log.With().Str("component", "http").Logger()),
			httpserver.WithCatalog(catalog),
		)
		if err := api.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer func() {
			if err := api.Stop(); err != nil {
				log.Warn().Err(err).Msg("http api shutdown")
			}
		}()
	}

	sockServer := socketrpc.NewServer(cfg.SocketPath, store).
		WithLogger(log.With().Str("component", "socket").Logger())
	socketUp := true
	if err := sockServer.Start(); err != nil {
		log.Warn().Err(err).Msg("socket server unavailable; TUI clients will use their own store")
		socketUp = false
	} else {
		defer sockServer.Stop()
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	printStartupBanner(cfg, socketUp)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case <-sigCh:
			fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
			cancel()
		case <-gctx.Done():
			return nil
		}

		// The deadline starts at the first signal, not at boot.
		go func() {
			deadline := time.NewTimer(shutdownDeadline)
			defer deadline.Stop()
			select {
			case <-sigCh:
				fmt.Println("\nForce shutdown.")
			case <-deadline.C:
				fmt.Println("Shutdown timed out, forcing exit.")
			}
			if cfg.SocketPath != "" {
				_ = os.Remove(cfg.SocketPath)
			}
			os.Exit(1)
		}()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server exited with error")
	}
	log.Info().Msg("stopped")
	return nil
}

// openSeededStore opens the configured database and fills empty tables from
// the bundled dataset.
func openSeededStore(cfg appConfig, log zerolog.Logger) (*duckdb.Store, error) {
	store, err := duckdb.NewStore(cfg.DBPath,
		duckdb.WithQueryTimeout(cfg.QueryTimeout),
		duckdb.WithLogger(log.With().Str("component", "duckdb").Logger()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize DuckDB: %w", err)
	}

	ds, err := dataset.Load()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if _, err := store.Seed(ds); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func printStartupBanner(cfg appConfig, socketUp bool) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("#03C9D7"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")
	row := func(mark, label, value string) string {
		return fmt.Sprintf("    %s  %-14s %s", mark, label, value)
	}

	logo := cyan.Bold(true).Render(`
    ╔═╗╔╦╗╔╦╗╦╔╗╔╔╦╗╔═╗╔═╗╦ ╦
    ╠═╣ ║║║║║║║║║ ║║╠═╣╚═╗╠═╣
    ╩ ╩═╩╝╩ ╩╩╝╚╝═╩╝╩ ╩╚═╝╩ ╩`)
	separator := dim.Render("    ─────────────────────────────────")

	lines := []string{"", logo, "    " + dim.Render("v"+version), "", separator, ""}

	lines = append(lines, bold.Render("    Gateway"), "")
	if cfg.APIEnabled {
		lines = append(lines, row(check, "HTTP API", cyan.Render(cfg.APIAddr)))
	} else {
		lines = append(lines, row(dot, "HTTP API", dim.Render("disabled")))
	}
	if socketUp {
		lines = append(lines, row(check, "Unix Socket", cyan.Render(shortenPath(cfg.SocketPath))))
	} else {
		lines = append(lines, row(dot, "Unix Socket", dim.Render("unavailable")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Storage"), "")
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "in-memory"
	}
	lines = append(lines, row(check, "DuckDB", dim.Render(shortenPath(dbPath))))
	lines = append(lines, row(check, "Pages", dim.Render(strings.Join(pages.Default().IDs(), ", "))))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Config"), "")
	if cfg.ConfigPath != "" {
		lines = append(lines, row(check, "Config File", dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, row(dot, "Config File", dim.Render("default (no file)")))
	}

	lines = append(lines, "", separator, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"), "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
