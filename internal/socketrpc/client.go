package socketrpc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/tinytelemetry/admindash/internal/model"
)

const dialTimeout = 5 * time.Second

// ErrClosed is returned when the server hangs up mid-call.
var ErrClosed = errors.New("socketrpc: connection closed")

// Client is a model.RecordSource backed by a running service. Calls are
// serialized over one connection.
type Client struct {
	mu      sync.Mutex
	conn    net.Conn
	reader  *bufio.Scanner
	writer  *json.Encoder
	lastID  int
	timeout time.Duration
}

// Dial connects to the service socket.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("socketrpc: dial %s: %w", socketPath, err)
	}
	reader := bufio.NewScanner(conn)
	reader.Buffer(make([]byte, 0, scannerInitBufSize), scannerMaxTokenSize)
	return &Client{
		conn:    conn,
		reader:  reader,
		writer:  json.NewEncoder(conn),
		timeout: model.DefaultQueryTimeout,
	}, nil
}

// SetTimeout bounds each call. Non-positive values are ignored.
func (c *Client) SetTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.timeout = d
	c.mu.Unlock()
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// roundTrip sends one request and returns the raw result.
func (c *Client) roundTrip(method string, params any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastID++
	req := Request{JSONRPC: "2.0", ID: c.lastID, Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("socketrpc: encode %s params: %w", method, err)
		}
		req.Params = raw
	}

	_ = c.conn.SetDeadline(time.Now().Add(c.timeout))
	defer c.conn.SetDeadline(time.Time{})

	if err := c.writer.Encode(req); err != nil {
		return nil, fmt.Errorf("socketrpc: send %s: %w", method, err)
	}
	if !c.reader.Scan() {
		if err := c.reader.Err(); err != nil {
			return nil, fmt.Errorf("socketrpc: read %s: %w", method, err)
		}
		return nil, ErrClosed
	}

	var resp Response
	if err := json.Unmarshal(c.reader.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("socketrpc: decode %s response: %w", method, err)
	}
	switch {
	case resp.Error != nil:
		return nil, resp.Error
	case resp.ID != req.ID:
		return nil, fmt.Errorf("socketrpc: response id %d for request %d", resp.ID, req.ID)
	}
	return resp.Result, nil
}

// invoke performs method and decodes its result as T.
func invoke[T any](c *Client, method string, params any) (T, error) {
	var out T
	raw, err := c.roundTrip(method, params)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("socketrpc: decode %s result: %w", method, err)
	}
	return out, nil
}

func (c *Client) Customers() ([]model.Customer, error) {
	return invoke[[]model.Customer](c, "Customers", nil)
}

func (c *Client) Employees() ([]model.Employee, error) {
	return invoke[[]model.Employee](c, "Employees", nil)
}

func (c *Client) Orders() ([]model.Order, error) {
	return invoke[[]model.Order](c, "Orders", nil)
}

// TableRowCounts reports the row count of each store table.
func (c *Client) TableRowCounts() (map[string]int64, error) {
	return invoke[map[string]int64](c, "TableRowCounts", nil)
}

// Records filters a page on the server. Filters use the "Field=value" form.
func (c *Client) Records(page string, filters []string) (RecordsResult, error) {
	return invoke[RecordsResult](c, "Records", RecordsParams{Page: page, Filters: filters})
}
