package duckdb

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrReadOnlyQuery reports a query rejected by the read-only guard.
var ErrReadOnlyQuery = errors.New("query is not read-only")

// maxQueryRows caps ExecuteQuery results.
const maxQueryRows = 1000

// dangerousKeywordPattern matches write or side-effecting keywords at word
// boundaries, so "RESET" does not match "SET".
var dangerousKeywordPattern = regexp.MustCompile(
	`(?i)\b(INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|TRUNCATE|COPY|ATTACH|DETACH|LOAD|EXPORT|IMPORT|INSTALL|CALL|EXECUTE|PRAGMA|SET)\b`,
)

var blockCommentPattern = regexp.MustCompile(`/\*[\s\S]*?\*/`)

// pageTables lists the tables row counts are reported for.
var pageTables = []string{"customers", "employees", "orders"}

// stripSQLComments removes -- line comments and /* */ block comments.
func stripSQLComments(query string) string {
	cleaned := blockCommentPattern.ReplaceAllString(query, " ")
	var b strings.Builder
	for _, line := range strings.Split(cleaned, "\n") {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// checkReadOnly rejects anything but a single SELECT or WITH statement.
func checkReadOnly(query string) error {
	if strings.Contains(query, ";") {
		return fmt.Errorf("%w: semicolons are not allowed", ErrReadOnlyQuery)
	}
	stripped := strings.TrimSpace(stripSQLComments(query))
	upper := strings.ToUpper(stripped)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return fmt.Errorf("%w: only SELECT/WITH queries are allowed", ErrReadOnlyQuery)
	}
	if match := dangerousKeywordPattern.FindString(stripped); match != "" {
		return fmt.Errorf("%w: disallowed keyword %s", ErrReadOnlyQuery, strings.ToUpper(match))
	}
	return nil
}

// ExecuteQuery runs a read-only query and returns up to maxQueryRows rows
// as column maps.
func (s *Store) ExecuteQuery(query string) ([]map[string]interface{}, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty query", ErrReadOnlyQuery)
	}
	if err := checkReadOnly(trimmed); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()
	rows, err := s.db.QueryContext(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := []map[string]interface{}{}
	for rows.Next() && len(results) < maxQueryRows {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			s.log.Warn().Err(err).Msg("scan query row")
			continue
		}
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetSchemaDescription describes the queryable tables.
func (s *Store) GetSchemaDescription() string {
	return `Table 'customers': customer_id (INTEGER), customer_name (VARCHAR), customer_email (VARCHAR), ` +
		`project_name (VARCHAR), status (VARCHAR: Active/Pending/Completed/Cancel), weeks (VARCHAR), ` +
		`budget (VARCHAR, display form such as '$2.4k'), location (VARCHAR). ` +
		`Table 'employees': employee_id (INTEGER), name (VARCHAR), title (VARCHAR), hire_date (VARCHAR, MM/DD/YYYY), ` +
		`country (VARCHAR), reports_to (VARCHAR). ` +
		`Table 'orders': order_id (INTEGER), customer_name (VARCHAR), total_amount (DOUBLE), order_items (VARCHAR), ` +
		`location (VARCHAR), status (VARCHAR).`
}

// TableRowCounts returns the row count of each page table.
func (s *Store) TableRowCounts() (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	counts := make(map[string]int64, len(pageTables))
	for _, table := range pageTables {
		var count int64
		// Table names come from pageTables, not user input.
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = count
	}
	return counts, nil
}

// TableNames returns the page tables in sorted order.
func TableNames() []string {
	out := append([]string(nil), pageTables...)
	sort.Strings(out)
	return out
}
