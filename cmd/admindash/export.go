package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tinytelemetry/admindash/internal/dataset"
	"github.com/tinytelemetry/admindash/internal/export"
	"github.com/tinytelemetry/admindash/internal/filter"
	"github.com/tinytelemetry/admindash/internal/model"
	"github.com/tinytelemetry/admindash/internal/pages"
	"github.com/tinytelemetry/admindash/internal/socketrpc"
)

type exportOptions struct {
	Page    string
	Format  string
	Out     string
	Filters []string
}

func newExportCmd() *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a filtered page to an XLSX or CSV file",
		Long: "Export filters a page the same way the dashboard does and writes the grid columns.\n" +
			"Rows come from the running service when its socket answers, else from the bundled dataset.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			path, err := runExport(cfg, opts, cmd.OutOrStdout(), time.Now())
			if err != nil {
				return err
			}
			if path != "" {
				cmd.PrintErrf("wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Page, "page", "orders", "page to export (customers, employees, orders)")
	cmd.Flags().StringVar(&opts.Format, "format", string(export.XLSX), "file format (xlsx, csv, pdf)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "output file, - for stdout (default <page>-<time>.<format> in export-dir)")
	cmd.Flags().StringArrayVar(&opts.Filters, "filter", nil, "filter as Field=value, Field.min=n or Field.max=n (repeatable)")
	cmd.Flags().String("socket-path", "", "service socket to read rows from")
	return cmd
}

// runExport writes the filtered page and returns the file it wrote, or ""
// for stdout.
func runExport(cfg appConfig, opts exportOptions, stdout io.Writer, now time.Time) (string, error) {
	p, err := pages.Default().Lookup(opts.Page)
	if err != nil {
		return "", err
	}
	format, err := export.ParseFormat(opts.Format)
	if err != nil {
		return "", err
	}
	st, err := pages.ParseAssignments(p, opts.Filters)
	if err != nil {
		return "", err
	}

	table, err := exportRows(cfg, p, opts.Filters, st)
	if err != nil {
		return "", err
	}

	if opts.Out == "-" {
		return "", export.Write(stdout, format, table)
	}
	path := opts.Out
	if path == "" {
		path = filepath.Join(cfg.ExportDir, export.FileName(p.ID(), format, now))
	}
	if err := writeFile(path, format, table); err != nil {
		return "", err
	}
	return path, nil
}

// exportRows asks the running service first and falls back to filtering the
// bundled dataset locally.
func exportRows(cfg appConfig, p pages.Page, filters []string, st filter.State) (export.Table, error) {
	if cfg.SocketPath != "" {
		if client, err := socketrpc.Dial(cfg.SocketPath); err == nil {
			defer client.Close()
			res, err := client.Records(p.ID(), filters)
			if err != nil {
				return export.Table{}, fmt.Errorf("records from service: %w", err)
			}
			return remoteTable(p, res), nil
		}
	}

	ds, err := dataset.Load()
	if err != nil {
		return export.Table{}, fmt.Errorf("load dataset: %w", err)
	}
	if err := p.Load(model.Static{Data: ds}); err != nil {
		return export.Table{}, err
	}
	res, err := p.Filter(st)
	if err != nil {
		return export.Table{}, err
	}
	return pages.ExportTable(p, res), nil
}

func remoteTable(p pages.Page, res socketrpc.RecordsResult) export.Table {
	cols := p.Columns()
	numeric := make([]bool, len(cols))
	for i, c := range cols {
		numeric[i] = c.Numeric
	}
	return export.Table{Sheet: p.Title(), Headers: res.Headers, Numeric: numeric, Rows: res.Rows}
}

func writeFile(path string, format export.Format, table export.Table) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.Write(f, format, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
