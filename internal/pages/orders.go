package pages

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/admindash/internal/filter"
	"github.com/tinytelemetry/admindash/internal/grid"
	"github.com/tinytelemetry/admindash/internal/model"
)

// FormatAmount renders an order total as currency.
func FormatAmount(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// NewOrders builds the Orders page. The amount range compares TotalAmount
// directly.
func NewOrders() *Board[model.Order] {
	return &Board[model.Order]{
		id:    "orders",
		title: "Orders",
		noun:  "orders",
		set: filter.NewSet(
			filter.Choice("Status", "Status", func(o model.Order) string { return o.Status }),
			filter.Choice("Location", "Location", func(o model.Order) string { return o.Location }),
			filter.Range("TotalAmount", "Amount Range", filter.Number(func(o model.Order) float64 { return o.TotalAmount })),
			filter.Search("CustomerName", "Customer Search", "Search customer...", func(o model.Order) string { return o.CustomerName }),
		),
		columns: []Column[model.Order]{
			{grid.Column{Field: "OrderItems", Header: "Item", Width: 18}, func(o model.Order) string { return o.OrderItems }, setText(func(o *model.Order) *string { return &o.OrderItems })},
			{grid.Column{Field: "CustomerName", Header: "Customer Name", Width: 18}, func(o model.Order) string { return o.CustomerName }, setText(func(o *model.Order) *string { return &o.CustomerName })},
			{grid.Column{Field: "TotalAmount", Header: "Total Amount", Width: 12, Align: lipgloss.Right, Numeric: true}, func(o model.Order) string { return FormatAmount(o.TotalAmount) }, setAmount(func(o *model.Order) *float64 { return &o.TotalAmount })},
			{grid.Column{Field: "Status", Header: "Status", Width: 10}, func(o model.Order) string { return o.Status }, setText(func(o *model.Order) *string { return &o.Status })},
			{grid.Column{Field: "OrderID", Header: "Order ID", Width: 8, Align: lipgloss.Right, Numeric: true}, func(o model.Order) string { return strconv.Itoa(o.OrderID) }, nil},
			{grid.Column{Field: "Location", Header: "Location", Width: 10}, func(o model.Order) string { return o.Location }, setText(func(o *model.Order) *string { return &o.Location })},
		},
		gridOpts: grid.Options{
			PageSize:     model.DefaultPageSize,
			PageCount:    model.DefaultPagerWindow,
			AllowPaging:  true,
			AllowSorting: true,
			Toolbar:      []grid.ToolbarAction{grid.ToolbarExcelExport, grid.ToolbarCsvExport, grid.ToolbarPdfExport},
			Edit:         grid.EditPolicy{AllowEditing: true, AllowDeleting: true},
			ContextMenu:  grid.DefaultContextMenu,
		},
		key:            func(o model.Order) string { return strconv.Itoa(o.OrderID) },
		load:           func(src model.RecordSource) ([]model.Order, error) { return src.Orders() },
		breakdownLabel: "Total Amount by Status",
		breakdown: func(rs []model.Order) []Slice {
			return sumBy(rs,
				func(o model.Order) string { return o.Status },
				func(o model.Order) float64 { return o.TotalAmount })
		},
	}
}
