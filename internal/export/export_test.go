package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() Table {
	return Table{
		Sheet:   "Orders",
		Headers: []string{"Order ID", "Customer", "Total Amount"},
		Numeric: []bool{true, false, true},
		Rows: [][]string{
			{"10248", "Vinet", "$32.38"},
			{"10249", "Toms, Spezialitäten", "$11.61"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": XLSX, "XLSX": XLSX, "excel": XLSX, " csv ": CSV, "PDF": PDF} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("docx")
	assert.Error(t, err)
	assert.Equal(t, "application/pdf", PDF.ContentType())
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, CSV, sampleTable()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Order ID", "Customer", "Total Amount"}, records[0])
	assert.Equal(t, "Toms, Spezialitäten", records[2][1])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, XLSX, sampleTable()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "Orders", f.GetSheetName(0))
	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Order ID", "Customer", "Total Amount"}, rows[0])
	assert.Equal(t, "Vinet", rows[1][1])

	v, err := f.GetCellValue("Orders", "C2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "32.38", v)
}

func TestWriteXLSXKeepsSuffixedAmountsAsText(t *testing.T) {
	tbl := Table{
		Sheet:   "Customers",
		Headers: []string{"Weeks", "Budget"},
		Numeric: []bool{true, true},
		Rows:    [][]string{{"40", "$2.4k"}, {"12", "$1,250.50"}},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, XLSX, tbl))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	raw := func(cell string) string {
		v, err := f.GetCellValue("Customers", cell, excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "$2.4k", raw("B2"))
	assert.Equal(t, "1250.5", raw("B3"))

	typ, err := f.GetCellType("Customers", "B2")
	require.NoError(t, err)
	assert.Contains(t, []excelize.CellType{excelize.CellTypeSharedString, excelize.CellTypeInlineString}, typ)
	assert.Equal(t, "40", raw("A2"))
}

func TestPlainNumber(t *testing.T) {
	for in, want := range map[string]float64{"40": 40, "$32.38": 32.38, "$1,250": 1250, "-3": -3} {
		n, ok := plainNumber(in)
		assert.True(t, ok, in)
		assert.InDelta(t, want, n, 1e-9, in)
	}
	for _, in := range []string{"", "$2.4k", "12 weeks", "n/a"} {
		_, ok := plainNumber(in)
		assert.False(t, ok, in)
	}
}

func TestWritePDF(t *testing.T) {
	tbl := sampleTable()
	for i := 0; i < 60; i++ {
		tbl.Rows = append(tbl.Rows, []string{"10300", "Ernst Händel", "$100.00"})
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, PDF, tbl))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "%PDF-"), "missing PDF header")
	assert.Contains(t, out, "Orders")
	assert.Greater(t, strings.Count(out, "/Type /Page"), 2, "expected the table to span pages")
}

func TestFileName(t *testing.T) {
	now := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "orders-20250102-150405.csv", FileName("Orders", CSV, now))
	assert.Equal(t, "orders-20250102-150405.pdf", FileName("Orders", PDF, now))
}
