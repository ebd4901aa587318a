package clickhouse

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// fakeRows replays canned rows through the Rows interface.
type fakeRows struct {
	rows [][]any
	pos  int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: want %d targets, got %d", len(row), len(dest))
	}
	for i, v := range row {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

func (r *fakeRows) Close() error { return nil }
func (r *fakeRows) Err() error   { return r.err }

type execCall struct {
	query string
	args  []any
}

// fakeConn is a scriptable Conn. Queries are routed by substring through
// queryFn; Exec calls are recorded.
type fakeConn struct {
	id int

	mu      sync.Mutex
	closed  bool
	pingErr error
	execErr func(query string) error
	queryFn func(query string, args []any) (Rows, error)
	execs   []execCall
}

func (c *fakeConn) Ping(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pingErr
}

func (c *fakeConn) Exec(ctx context.Context, query string, args ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.execs = append(c.execs, execCall{query: query, args: args})
	if c.execErr != nil {
		return c.execErr(query)
	}
	return nil
}

func (c *fakeConn) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	c.mu.Lock()
	fn := c.queryFn
	c.mu.Unlock()
	if fn == nil {
		return &fakeRows{}, nil
	}
	return fn(query, args)
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) setPingErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pingErr = err
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) execCalls(substr string) []execCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []execCall
	for _, e := range c.execs {
		if strings.Contains(e.query, substr) {
			out = append(out, e)
		}
	}
	return out
}

// fakeDialer hands out fakeConns and counts dials.
type fakeDialer struct {
	mu    sync.Mutex
	dials int
	conns []*fakeConn

	// failUntil makes the first n dials fail.
	failUntil int

	// failAfter makes every dial past n fail.
	failAfter int

	// configure is applied to each new connection.
	configure func(*fakeConn)
}

func (d *fakeDialer) dial(ctx context.Context) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	if d.dials <= d.failUntil {
		return nil, fmt.Errorf("dial %d refused", d.dials)
	}
	if d.failAfter > 0 && d.dials > d.failAfter {
		return nil, fmt.Errorf("dial %d refused", d.dials)
	}
	conn := &fakeConn{id: d.dials}
	if d.configure != nil {
		d.configure(conn)
	}
	d.conns = append(d.conns, conn)
	return conn, nil
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}
