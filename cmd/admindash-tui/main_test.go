package main

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/tinytelemetry/admindash/internal/model"
)

func TestOpenSourceFallsBackToLocalStore(t *testing.T) {
	cfg := cliConfig{SocketPath: filepath.Join(t.TempDir(), "absent.sock")}

	src, name, closeFn, err := openSource(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("openSource: %v", err)
	}
	defer closeFn()

	if name != "DuckDB" {
		t.Fatalf("source = %q, want DuckDB", name)
	}
	customers, err := src.Customers()
	if err != nil {
		t.Fatalf("Customers: %v", err)
	}
	if len(customers) == 0 {
		t.Fatal("local store was not seeded")
	}
}

func TestLoadCLIConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ADMINDASH_REVERSE_SCROLL_WHEEL", "true")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Bool("local", false, "")
	if err := fs.Parse([]string{"--local"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadCLIConfig("", fs)
	if err != nil {
		t.Fatalf("loadCLIConfig: %v", err)
	}
	if !cfg.Local {
		t.Fatal("--local not applied")
	}
	if !cfg.ReverseScrollWheel {
		t.Fatal("env override not applied")
	}
	if cfg.PageSize != model.DefaultPageSize {
		t.Fatalf("PageSize = %d", cfg.PageSize)
	}
}

func TestChangedFlagsSkipsUnsetAndConfig(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Parse([]string{"--config=x.yml", "--page-size=7"}); err != nil {
		t.Fatal(err)
	}
	fs := changedFlags(cmd.Flags())
	if fs.Lookup("page-size") == nil {
		t.Fatal("page-size should be kept")
	}
	if fs.Lookup("config") != nil || fs.Lookup("local") != nil {
		t.Fatal("config and unset flags must be dropped")
	}
}
