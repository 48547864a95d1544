package pages

import (
	"bytes"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tinytelemetry/admindash/internal/dataset"
	"github.com/tinytelemetry/admindash/internal/export"
	"github.com/tinytelemetry/admindash/internal/filter"
	"github.com/tinytelemetry/admindash/internal/model"
)

func loadedCatalog(t *testing.T) *Catalog {
	t.Helper()
	ds, err := dataset.Load()
	require.NoError(t, err)
	c := Default()
	require.NoError(t, c.Load(model.Static{Data: ds}))
	return c
}

func customerNames(t *testing.T, r Result) []string {
	t.Helper()
	records, ok := r.Records.([]model.Customer)
	require.True(t, ok)
	out := make([]string, len(records))
	for i, c := range records {
		out[i] = c.CustomerName
	}
	return out
}

func TestDefaultStateShowsEverything(t *testing.T) {
	c := loadedCatalog(t)
	for _, p := range c.Pages() {
		res, err := p.Filter(p.Defaults())
		require.NoError(t, err, p.ID())
		assert.Equal(t, p.Total(), res.Count, p.ID())
		assert.Len(t, res.Rows, p.Total(), p.ID())
	}
}

func TestCustomersStatusAndBudget(t *testing.T) {
	c := NewCustomers()
	c.SetRecords([]model.Customer{
		{CustomerID: 1, CustomerName: "A", Status: "Active", Budget: "$50k"},
		{CustomerID: 2, CustomerName: "B", Status: "Pending", Budget: "$120k"},
	})

	st := c.Defaults().With("Status", filter.Value{Selection: "Active"})
	res, err := c.Filter(st)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, customerNames(t, res))

	res, err = c.Filter(st.With("Budget", filter.Value{Max: "60"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, customerNames(t, res))

	res, err = c.Filter(st.With("Budget", filter.Value{Min: "60"}))
	require.NoError(t, err)
	assert.Empty(t, customerNames(t, res))
	assert.Equal(t, "Showing 0 of 2 customers", res.Summary(c.Noun()))
}

func TestCustomerSearch(t *testing.T) {
	c := loadedCatalog(t)
	p, err := c.Lookup("customers")
	require.NoError(t, err)

	res, err := p.Filter(filter.State{"CustomerName": {Term: "alice"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice Smith"}, customerNames(t, res))
}

func TestOrdersAmountRange(t *testing.T) {
	o := NewOrders()
	o.SetRecords([]model.Order{
		{OrderID: 1, TotalAmount: 10, Status: "Pending"},
		{OrderID: 2, TotalAmount: 99.5, Status: "Complete"},
		{OrderID: 3, TotalAmount: 250, Status: "Pending"},
	})
	res, err := o.Filter(filter.State{"TotalAmount": {Min: "50", Max: "100"}})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "2", res.Rows[0].Key)
	assert.Contains(t, res.Rows[0].Cells, "$99.50")

	slices, err := o.Breakdown(o.Defaults())
	require.NoError(t, err)
	assert.Equal(t, []Slice{{Label: "Pending", Value: 260}, {Label: "Complete", Value: 99.5}}, slices)
}

func TestMalformedBoundIsRejected(t *testing.T) {
	c := loadedCatalog(t)
	p, err := c.Lookup("orders")
	require.NoError(t, err)
	_, err = p.Filter(filter.State{"TotalAmount": {Min: "ten"}})
	assert.True(t, errors.Is(err, filter.ErrInvalidBound))
}

func TestUpdateMemoAndReset(t *testing.T) {
	c := loadedCatalog(t)
	p, err := c.Lookup("Employees")
	require.NoError(t, err)

	res, err := p.Update(filter.State{"Country": {Selection: "USA"}})
	require.NoError(t, err)
	assert.Less(t, res.Count, p.Total())

	again, err := p.Update(filter.State{"Country": {Selection: "USA"}})
	require.NoError(t, err)
	assert.Equal(t, res.Rows, again.Rows)

	first := p.Reset()
	second := p.Reset()
	assert.Equal(t, p.Total(), first.Count)
	assert.Equal(t, first.Rows, second.Rows)
}

func TestDeleteKeepsFilters(t *testing.T) {
	c := NewCustomers()
	c.SetRecords([]model.Customer{
		{CustomerID: 1, CustomerName: "A", Status: "Active"},
		{CustomerID: 2, CustomerName: "B", Status: "Active"},
		{CustomerID: 3, CustomerName: "C", Status: "Pending"},
	})
	_, err := c.Update(filter.State{"Status": {Selection: "Active"}})
	require.NoError(t, err)

	assert.Equal(t, 1, c.Delete([]string{"1", "missing"}))
	assert.Equal(t, 2, c.Total())

	res, err := c.Update(filter.State{"Status": {Selection: "Active"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, customerNames(t, res))
	assert.Equal(t, 0, c.Delete(nil))
}

func TestEditUpdatesWorkingCopyAndView(t *testing.T) {
	c := NewCustomers()
	c.SetRecords([]model.Customer{
		{CustomerID: 1, CustomerName: "A", Status: "Active", Budget: "$2.4k"},
		{CustomerID: 2, CustomerName: "B", Status: "Active", Budget: "$3.9k"},
	})
	_, err := c.Update(filter.State{"Status": {Selection: "Active"}})
	require.NoError(t, err)

	require.NoError(t, c.Edit("1", "Status", " Pending "))
	res, err := c.Update(filter.State{"Status": {Selection: "Active"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, customerNames(t, res))
	assert.Equal(t, "Pending", c.Records()[0].Status)
	assert.Equal(t, 2, c.Total())

	require.NoError(t, c.Edit("2", "Budget", "$60k"))
	res, err = c.Filter(filter.State{"Budget": {Min: "50"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, customerNames(t, res))
}

func TestEditRejections(t *testing.T) {
	o := NewOrders()
	o.SetRecords([]model.Order{{OrderID: 7, CustomerName: "Vinet", TotalAmount: 10, Status: "pending"}})

	assert.ErrorIs(t, o.Edit("7", "OrderID", "8"), ErrReadOnlyColumn)
	assert.ErrorIs(t, o.Edit("7", "Nope", "x"), ErrReadOnlyColumn)
	assert.ErrorIs(t, o.Edit("99", "Status", "complete"), ErrNoRecord)
	assert.ErrorIs(t, o.Edit("7", "TotalAmount", "lots"), ErrInvalidValue)
	assert.ErrorIs(t, o.Edit("7", "TotalAmount", "-5"), ErrInvalidValue)
	assert.ErrorIs(t, o.Edit("7", "CustomerName", "   "), ErrInvalidValue)
	assert.Equal(t, model.Order{OrderID: 7, CustomerName: "Vinet", TotalAmount: 10, Status: "pending"}, o.Records()[0])

	require.NoError(t, o.Edit("7", "TotalAmount", "$1,250.50"))
	assert.InDelta(t, 1250.5, o.Records()[0].TotalAmount, 1e-9)
}

func TestEditableColumns(t *testing.T) {
	for _, p := range Default().Pages() {
		assert.True(t, p.GridOptions().Edit.AllowEditing, p.ID())
		assert.True(t, p.GridOptions().CanDelete(), p.ID())
		cols := p.Columns()
		for _, col := range cols {
			isKey := strings.HasSuffix(col.Field, "ID")
			assert.Equal(t, !isKey, col.Editable, "%s.%s", p.ID(), col.Field)
		}
	}
}

func TestOptions(t *testing.T) {
	c := NewOrders()
	c.SetRecords([]model.Order{
		{OrderID: 1, Status: "Pending", Location: "USA"},
		{OrderID: 2, Status: "Complete", Location: "USA"},
		{OrderID: 3, Status: "Pending", Location: "India"},
	})
	assert.Equal(t, []string{filter.All, "Pending", "Complete"}, c.Options("Status"))
	assert.Equal(t, []string{filter.All, "USA", "India"}, c.Options("Location"))
}

func TestLookupUnknown(t *testing.T) {
	_, err := Default().Lookup("invoices")
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestStateFromValues(t *testing.T) {
	p := NewCustomers()
	st := StateFromValues(p, url.Values{
		"Status":     {"Active"},
		"Budget.min": {"10"},
		"Unknown":    {"x"},
	})
	assert.Equal(t, "Active", st["Status"].Selection)
	assert.Equal(t, filter.All, st["Location"].Selection)
	assert.Equal(t, "10", st["Budget"].Min)
	assert.Equal(t, "", st["Budget"].Max)
	_, ok := st["Unknown"]
	assert.False(t, ok)
}

func TestParseAssignments(t *testing.T) {
	p := NewOrders()
	st, err := ParseAssignments(p, []string{"Status=Pending", "TotalAmount.max=100"})
	require.NoError(t, err)
	assert.Equal(t, "Pending", st["Status"].Selection)
	assert.Equal(t, "100", st["TotalAmount"].Max)

	_, err = ParseAssignments(p, []string{"Budget=1"})
	assert.Error(t, err)
	_, err = ParseAssignments(p, []string{"Status"})
	assert.Error(t, err)
}

func TestSetPageSize(t *testing.T) {
	c := Default()
	c.SetPageSize(20)
	for _, p := range c.Pages() {
		assert.Equal(t, 20, p.GridOptions().PageSize)
	}
}

func TestExportTable(t *testing.T) {
	o := NewOrders()
	o.SetRecords([]model.Order{{OrderID: 9, CustomerName: "Vinet", TotalAmount: 32.38, Status: "Pending"}})
	res, err := o.Filter(o.Defaults())
	require.NoError(t, err)

	tbl := ExportTable(o, res)
	assert.Equal(t, "Orders", tbl.Sheet)
	assert.Equal(t, []string{"Item", "Customer Name", "Total Amount", "Status", "Order ID", "Location"}, tbl.Headers)
	assert.Equal(t, []bool{false, false, true, false, true, false}, tbl.Numeric)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "$32.38", tbl.Rows[0][2])
}

func TestCustomersXLSXMatchesGrid(t *testing.T) {
	p, err := loadedCatalog(t).Lookup("customers")
	require.NoError(t, err)
	res, err := p.Filter(p.Defaults())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.XLSX, ExportTable(p, res)))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	raw := func(cell string) string {
		v, err := f.GetCellValue("Customers", cell, excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Nirav Joshi", raw("A2"))
	assert.Equal(t, "40", raw("E2"))
	assert.Equal(t, "$2.4k", raw("F2"), "suffixed budget must not be truncated")
	assert.Equal(t, "1001", raw("H2"))

	text := []excelize.CellType{excelize.CellTypeSharedString, excelize.CellTypeInlineString}
	weeks, err := f.GetCellType("Customers", "E2")
	require.NoError(t, err)
	assert.NotContains(t, text, weeks, "plain weeks should be numeric")
	budget, err := f.GetCellType("Customers", "F2")
	require.NoError(t, err)
	assert.Contains(t, text, budget)
}
