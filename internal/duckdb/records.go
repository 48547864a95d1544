package duckdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tinytelemetry/admindash/internal/model"
)

// Customers returns every customer ordered by id.
func (s *Store) Customers() ([]model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT customer_id, customer_name, customer_email, project_name,
		status, weeks, budget, location FROM customers ORDER BY customer_id`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	out := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.CustomerID, &c.CustomerName, &c.CustomerEmail, &c.ProjectName,
			&c.Status, &c.Weeks, &c.Budget, &c.Location); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Employees returns every employee ordered by id.
func (s *Store) Employees() ([]model.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT employee_id, name, title, hire_date, country, reports_to
		FROM employees ORDER BY employee_id`)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	out := []model.Employee{}
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.EmployeeID, &e.Name, &e.Title, &e.HireDate, &e.Country, &e.ReportsTo); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Orders returns every order ordered by id.
func (s *Store) Orders() ([]model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT order_id, customer_name, total_amount, order_items, location, status
		FROM orders ORDER BY order_id`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	out := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.OrderID, &o.CustomerName, &o.TotalAmount, &o.OrderItems, &o.Location, &o.Status); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Seed loads ds into every table that is still empty. Tables that already
// hold rows are left untouched, so reopening a file database keeps its
// contents. It reports how many rows were inserted.
func (s *Store) Seed(ds model.Dataset) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	steps := []struct {
		table string
		fill  func(*sql.Tx) (int, error)
	}{
		{"customers", func(tx *sql.Tx) (int, error) { return seedCustomers(ctx, tx, ds.Customers) }},
		{"employees", func(tx *sql.Tx) (int, error) { return seedEmployees(ctx, tx, ds.Employees) }},
		{"orders", func(tx *sql.Tx) (int, error) { return seedOrders(ctx, tx, ds.Orders) }},
	}
	for _, step := range steps {
		var count int64
		// Table names are constants above, not user input.
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+step.table).Scan(&count); err != nil {
			return 0, fmt.Errorf("count %s: %w", step.table, err)
		}
		if count > 0 {
			continue
		}
		n, err := step.fill(tx)
		if err != nil {
			return 0, fmt.Errorf("seed %s: %w", step.table, err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	s.log.Info().Int("rows", inserted).Msg("seeded dataset")
	return inserted, nil
}

func seedCustomers(ctx context.Context, tx *sql.Tx, cs []model.Customer) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO customers (customer_id, customer_name, customer_email,
		project_name, status, weeks, budget, location) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for _, c := range cs {
		if _, err := stmt.ExecContext(ctx, c.CustomerID, c.CustomerName, c.CustomerEmail, c.ProjectName,
			c.Status, c.Weeks, c.Budget, c.Location); err != nil {
			return 0, fmt.Errorf("customer %d: %w", c.CustomerID, err)
		}
	}
	return len(cs), nil
}

func seedEmployees(ctx context.Context, tx *sql.Tx, es []model.Employee) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO employees (employee_id, name, title, hire_date,
		country, reports_to) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for _, e := range es {
		if _, err := stmt.ExecContext(ctx, e.EmployeeID, e.Name, e.Title, e.HireDate, e.Country, e.ReportsTo); err != nil {
			return 0, fmt.Errorf("employee %d: %w", e.EmployeeID, err)
		}
	}
	return len(es), nil
}

func seedOrders(ctx context.Context, tx *sql.Tx, orders []model.Order) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO orders (order_id, customer_name, total_amount,
		order_items, location, status) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for _, o := range orders {
		if _, err := stmt.ExecContext(ctx, o.OrderID, o.CustomerName, o.TotalAmount, o.OrderItems, o.Location, o.Status); err != nil {
			return 0, fmt.Errorf("order %d: %w", o.OrderID, err)
		}
	}
	return len(orders), nil
}

// TotalRecords sums the row counts of the page tables.
func (s *Store) TotalRecords() (int64, error) {
	counts, err := s.TableRowCounts()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	return total, nil
}
