package socketrpc

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// JSON-RPC 2.0 Method Reference
//
// The socket RPC server exposes the page records over a Unix domain socket,
// one request or response per line.
//
//   Method           Params                                   Result
//   ──────────────   ──────────────────────────────────────   ─────────────────
//   Customers        (none)                                   []model.Customer
//   Employees        (none)                                   []model.Employee
//   Orders           (none)                                   []model.Order
//   TableRowCounts   (none)                                   map[string]int64
//   Records          {Page: string, Filters: []string}        RecordsResult
//
// Records filters use the command-line form "Field=value", with range
// bounds as "Field.min=..." and "Field.max=...".
//
// Error codes follow JSON-RPC 2.0:
//   -32700  Parse error (malformed JSON)
//   -32601  Method not found
//   -32602  Invalid params (including malformed filters and range bounds)
//   -32603  Internal error (marshal failure)
//   -32000  Application error (store failure, unknown page)

const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternal       = -32603
	codeApplication    = -32000
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string { return e.Message }

// RecordsParams selects a page and its filters.
type RecordsParams struct {
	Page    string
	Filters []string
}

// RecordsResult is a filtered page rendered as grid cells.
type RecordsResult struct {
	Page    string
	Total   int
	Count   int
	Summary string
	Headers []string
	Rows    [][]string
}

// DefaultSocketPath prefers $XDG_RUNTIME_DIR/admindash/admindash.sock and
// falls back to ~/.local/state/admindash/admindash.sock.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "admindash", "admindash.sock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "admindash.sock")
	}
	return filepath.Join(home, ".local", "state", "admindash", "admindash.sock")
}
