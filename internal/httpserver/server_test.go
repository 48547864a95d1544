package httpserver

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/tinytelemetry/admindash/internal/dataset"
	"github.com/tinytelemetry/admindash/internal/duckdb"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	store, err := duckdb.NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ds, err := dataset.Load()
	if err != nil {
		t.Fatalf("dataset.Load: %v", err)
	}
	if _, err := store.Seed(ds); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	srv := NewServer("", store)
	srv.startTime = time.Now()
	h, err := srv.Handler()
	if err != nil {
		t.Fatalf("Handler: %v", err)
	}
	return srv, h
}

func do(t *testing.T, h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal %q: %v", w.Body.String(), err)
	}
	return body
}

func TestHealthEndpoint(t *testing.T) {
	_, h := newTestServer(t)

	w := do(t, h, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want %d", w.Code, http.StatusOK)
	}
	body := decode(t, w)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if n, _ := body["record_count"].(float64); n <= 0 {
		t.Errorf("record_count = %v, want > 0", body["record_count"])
	}
}

func TestHealthEndpoint_WrongMethod(t *testing.T) {
	_, h := newTestServer(t)
	w := do(t, h, http.MethodPost, "/api/health", nil)
	if w.Code != http.StatusMethodNotAllowed && w.Code != http.StatusNotFound {
		t.Errorf("health POST status = %d, want 405 or 404", w.Code)
	}
}

func TestSchemaEndpoint(t *testing.T) {
	_, h := newTestServer(t)
	w := do(t, h, http.MethodGet, "/api/schema", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("schema status = %d", w.Code)
	}
	tables, _ := decode(t, w)["tables"].(map[string]interface{})
	for _, name := range []string{"customers", "employees", "orders"} {
		if _, ok := tables[name]; !ok {
			t.Errorf("schema missing table %s", name)
		}
	}
}

func TestQueryEndpoint(t *testing.T) {
	_, h := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"select", `{"sql":"SELECT COUNT(*) AS n FROM customers"}`, http.StatusOK},
		{"with", `{"sql":"WITH a AS (SELECT status FROM orders) SELECT COUNT(*) FROM a"}`, http.StatusOK},
		{"insert", `{"sql":"INSERT INTO orders (order_id, customer_name) VALUES (1, 'x')"}`, http.StatusBadRequest},
		{"drop", `{"sql":"DROP TABLE customers"}`, http.StatusBadRequest},
		{"attach", `{"sql":"SELECT ATTACH FROM orders"}`, http.StatusBadRequest},
		{"empty", `{"sql":""}`, http.StatusBadRequest},
		{"not json", `sql=1`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/query", []byte(tt.body))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestPagesEndpoint(t *testing.T) {
	_, h := newTestServer(t)
	w := do(t, h, http.MethodGet, "/api/pages", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("pages status = %d", w.Code)
	}
	list, _ := decode(t, w)["pages"].([]interface{})
	if len(list) != 3 {
		t.Fatalf("got %d pages, want 3", len(list))
	}
}

func TestPageEndpointListsOptions(t *testing.T) {
	_, h := newTestServer(t)
	w := do(t, h, http.MethodGet, "/api/pages/customers", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("page status = %d", w.Code)
	}
	fields, _ := decode(t, w)["fields"].([]interface{})
	if len(fields) != 5 {
		t.Fatalf("customers has %d fields, want 5", len(fields))
	}
	status, _ := fields[0].(map[string]interface{})
	if status["name"] != "Status" || status["kind"] != "choice" {
		t.Errorf("first field = %v", status)
	}
	opts, _ := status["options"].([]interface{})
	if len(opts) < 2 || opts[0] != "All" {
		t.Errorf("status options = %v", opts)
	}
}

func TestRecordsEndpoint(t *testing.T) {
	_, h := newTestServer(t)

	w := do(t, h, http.MethodGet, "/api/pages/customers/records?Status=Active&Budget.max=60&CustomerName=alice", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("records status = %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["count"] != float64(1) {
		t.Fatalf("count = %v, want 1", body["count"])
	}
	records, _ := body["records"].([]interface{})
	first, _ := records[0].(map[string]interface{})
	if first["CustomerName"] != "Alice Smith" {
		t.Errorf("record = %v", first)
	}
	if !strings.HasPrefix(body["summary"].(string), "Showing 1 of ") {
		t.Errorf("summary = %v", body["summary"])
	}
}

func TestRecordsEndpoint_DefaultsReturnAll(t *testing.T) {
	_, h := newTestServer(t)
	body := decode(t, do(t, h, http.MethodGet, "/api/pages/orders/records", nil))
	if body["count"] != body["total"] {
		t.Errorf("count = %v, total = %v", body["count"], body["total"])
	}
}

func TestRecordsEndpoint_MalformedBound(t *testing.T) {
	_, h := newTestServer(t)
	w := do(t, h, http.MethodGet, "/api/pages/orders/records?TotalAmount.min=lots", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if msg, _ := decode(t, w)["error"].(string); !strings.Contains(msg, "TotalAmount min") {
		t.Errorf("error = %q", msg)
	}
}

func TestRecordsEndpoint_UnknownPage(t *testing.T) {
	_, h := newTestServer(t)
	w := do(t, h, http.MethodGet, "/api/pages/invoices/records", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestBreakdownEndpoint(t *testing.T) {
	_, h := newTestServer(t)
	w := do(t, h, http.MethodGet, "/api/pages/orders/breakdown?Status=pending", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	slices, _ := decode(t, w)["slices"].([]interface{})
	if len(slices) != 1 {
		t.Fatalf("slices = %v, want a single pending bar", slices)
	}
}

func TestExportEndpoint_CSV(t *testing.T) {
	_, h := newTestServer(t)
	w := do(t, h, http.MethodGet, "/api/pages/employees/export?format=csv&Country=USA", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "employees-") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	records, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if records[0][0] != "Employee" {
		t.Errorf("header = %v", records[0])
	}
	for _, r := range records[1:] {
		if r[2] != "USA" {
			t.Errorf("row outside filter: %v", r)
		}
	}
}

func TestExportEndpoint_XLSX(t *testing.T) {
	_, h := newTestServer(t)
	w := do(t, h, http.MethodGet, "/api/pages/orders/export?format=xlsx", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Orders")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) < 2 || rows[0][0] != "Item" {
		t.Errorf("rows = %v", rows)
	}
}

func TestExportEndpoint_PDF(t *testing.T) {
	_, h := newTestServer(t)
	w := do(t, h, http.MethodGet, "/api/pages/orders/export?format=pdf&Status=pending", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, ".pdf") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Errorf("body is not a PDF")
	}
}

func TestExportEndpoint_BadFormat(t *testing.T) {
	_, h := newTestServer(t)
	w := do(t, h, http.MethodGet, "/api/pages/orders/export?format=docx", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
