package duckdb

import (
	"errors"
	"strings"
	"testing"
)

func TestExecuteQuery_SelectAllowed(t *testing.T) {
	store, ds := seededStore(t)

	results, err := store.ExecuteQuery("SELECT COUNT(*) AS cnt FROM orders")
	if err != nil {
		t.Fatalf("ExecuteQuery SELECT: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("ExecuteQuery returned %d rows, want 1", len(results))
	}
	if got, ok := results[0]["cnt"].(int64); !ok || got != int64(len(ds.Orders)) {
		t.Errorf("cnt = %v, want %d", results[0]["cnt"], len(ds.Orders))
	}
}

func TestExecuteQuery_WithAllowed(t *testing.T) {
	store, _ := seededStore(t)

	results, err := store.ExecuteQuery(`WITH s AS (SELECT status, SUM(total_amount) AS total FROM orders GROUP BY status)
		SELECT status, total FROM s ORDER BY status`)
	if err != nil {
		t.Fatalf("ExecuteQuery WITH: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("ExecuteQuery WITH returned no rows")
	}
}

func TestExecuteQuery_DMLRejected(t *testing.T) {
	store := newTestStore(t)

	rejected := []string{
		"INSERT INTO orders (order_id, customer_name) VALUES (1, 'x')",
		"UPDATE customers SET status = 'Active'",
		"DELETE FROM employees",
		"DROP TABLE orders",
		"CREATE TABLE evil (id int)",
		"ALTER TABLE orders ADD COLUMN evil varchar",
		"TRUNCATE customers",
		"",
	}

	for _, sql := range rejected {
		_, err := store.ExecuteQuery(sql)
		if !errors.Is(err, ErrReadOnlyQuery) {
			t.Errorf("ExecuteQuery(%q) error = %v, want ErrReadOnlyQuery", sql, err)
		}
	}
}

func TestExecuteQuery_KeywordsRejected(t *testing.T) {
	store := newTestStore(t)

	rejected := []struct {
		sql     string
		keyword string
	}{
		{"SELECT COPY(orders, '/tmp/dump.csv') FROM orders", "COPY"},
		{"SELECT ATTACH FROM orders", "ATTACH"},
		{"SELECT DETACH FROM orders", "DETACH"},
		{"SELECT LOAD FROM orders", "LOAD"},
		{"SELECT EXPORT FROM orders", "EXPORT"},
		{"SELECT INSTALL FROM orders", "INSTALL"},
		{"SELECT PRAGMA FROM orders", "PRAGMA"},
		{"SELECT SET FROM orders", "SET"},
		{"SELECT 1 /* hidden */ FROM orders WHERE 1=1 -- fine\n AND DROP", "DROP"},
	}
	for _, tt := range rejected {
		_, err := store.ExecuteQuery(tt.sql)
		if err == nil {
			t.Errorf("ExecuteQuery should reject %s keyword", tt.keyword)
			continue
		}
		if !strings.Contains(err.Error(), tt.keyword) {
			t.Errorf("ExecuteQuery error %q should mention keyword %s", err.Error(), tt.keyword)
		}
	}

	_, err := store.ExecuteQuery("SELECT * FROM orders; DROP TABLE orders")
	if err == nil || !strings.Contains(err.Error(), "semicolons") {
		t.Errorf("semicolon query error = %v, want semicolon rejection", err)
	}
}

func TestExecuteQuery_CommentedKeywordAllowed(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.ExecuteQuery("SELECT customer_id FROM customers -- DELETE later"); err != nil {
		t.Errorf("keyword inside a comment should not be rejected: %v", err)
	}
}

func TestTableRowCounts(t *testing.T) {
	store, ds := seededStore(t)

	counts, err := store.TableRowCounts()
	if err != nil {
		t.Fatalf("TableRowCounts: %v", err)
	}
	want := map[string]int64{
		"customers": int64(len(ds.Customers)),
		"employees": int64(len(ds.Employees)),
		"orders":    int64(len(ds.Orders)),
	}
	for table, n := range want {
		if counts[table] != n {
			t.Errorf("counts[%s] = %d, want %d", table, counts[table], n)
		}
	}
	if got := TableNames(); len(got) != 3 || got[0] != "customers" {
		t.Errorf("TableNames() = %v", got)
	}
}

func TestSchemaDescriptionNamesTables(t *testing.T) {
	desc := newTestStore(t).GetSchemaDescription()
	for _, table := range TableNames() {
		if !strings.Contains(desc, "'"+table+"'") {
			t.Errorf("schema description missing %s", table)
		}
	}
}
