package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tinytelemetry/admindash/internal/pages"
)

func localConfig(t *testing.T) appConfig {
	t.Helper()
	dir := t.TempDir()
	return appConfig{
		SocketPath: filepath.Join(dir, "absent.sock"),
		ExportDir:  filepath.Join(dir, "exports"),
	}
}

func TestRunExportCSVToStdout(t *testing.T) {
	cfg := localConfig(t)

	var out bytes.Buffer
	path, err := runExport(cfg, exportOptions{
		Page:    "orders",
		Format:  "csv",
		Out:     "-",
		Filters: []string{"Status=pending"},
	}, &out, time.Now())
	if err != nil {
		t.Fatalf("runExport: %v", err)
	}
	if path != "" {
		t.Fatalf("path = %q, want empty for stdout", path)
	}

	records, err := csv.NewReader(&out).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d lines, want header + 3 pending orders", len(records))
	}
	cols := pages.NewOrders().Columns()
	if len(records[0]) != len(cols) || records[0][0] != cols[0].Header {
		t.Fatalf("header = %v", records[0])
	}
}

func TestRunExportXLSXDefaultName(t *testing.T) {
	cfg := localConfig(t)
	now := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)

	path, err := runExport(cfg, exportOptions{
		Page:    "Customers",
		Format:  "xlsx",
		Filters: []string{"Status=Active", "Budget.max=60"},
	}, nil, now)
	if err != nil {
		t.Fatalf("runExport: %v", err)
	}
	if want := filepath.Join(cfg.ExportDir, "customers-20250102-150405.xlsx"); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("export not written: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Customers")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) < 2 {
		t.Fatalf("got %d rows, want header and at least one active customer", len(rows))
	}
	for _, r := range rows[1:] {
		if r[3] != "Active" {
			t.Fatalf("row %v is not Active", r)
		}
	}
}

func TestRunExportPDF(t *testing.T) {
	cfg := localConfig(t)
	out := filepath.Join(t.TempDir(), "employees.pdf")

	path, err := runExport(cfg, exportOptions{Page: "employees", Format: "pdf", Out: out}, nil, time.Now())
	if err != nil {
		t.Fatalf("runExport: %v", err)
	}
	if path != out {
		t.Fatalf("path = %q, want %q", path, out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatal("export is not a PDF")
	}
}

func TestRunExportErrors(t *testing.T) {
	cfg := localConfig(t)

	tests := []struct {
		name string
		opts exportOptions
		is   error
	}{
		{"unknown page", exportOptions{Page: "invoices"}, pages.ErrUnknownPage},
		{"bad format", exportOptions{Page: "orders", Format: "docx"}, nil},
		{"unknown field", exportOptions{Page: "orders", Filters: []string{"Colour=red"}}, nil},
		{"missing equals", exportOptions{Page: "orders", Filters: []string{"Status"}}, nil},
		{"bad bound", exportOptions{Page: "orders", Out: "-", Filters: []string{"TotalAmount.min=lots"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runExport(cfg, tt.opts, &bytes.Buffer{}, time.Now())
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Fatalf("err = %v, want %v", err, tt.is)
			}
		})
	}
}
