package model

// RecordSource provides the static record sets behind each dashboard page.
type RecordSource interface {
	Customers() ([]Customer, error)
	Employees() ([]Employee, error)
	Orders() ([]Order, error)
}

// SchemaQuerier provides schema introspection and arbitrary read-only queries.
type SchemaQuerier interface {
	ExecuteQuery(query string) ([]map[string]interface{}, error)
	GetSchemaDescription() string
	TableRowCounts() (map[string]int64, error)
}

// ReadAPI is the unified read contract for read surfaces (HTTP and socket RPC).
type ReadAPI interface {
	RecordSource
	SchemaQuerier
}

// Static serves a Dataset held in memory.
type Static struct {
	Data Dataset
}

func (s Static) Customers() ([]Customer, error) { return s.Data.Customers, nil }
func (s Static) Employees() ([]Employee, error) { return s.Data.Employees, nil }
func (s Static) Orders() ([]Order, error)       { return s.Data.Orders, nil }
