package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var (
	// ErrPoolExhausted is returned when no connection frees up within the
	// acquire timeout. Callers should treat it as retryable, not fatal.
	ErrPoolExhausted = errors.New("connection pool exhausted")

	// ErrPoolClosed is returned after Close.
	ErrPoolClosed = errors.New("connection pool closed")
)

const (
	releasePingTimeout = 2 * time.Second
	replaceDialTimeout = 10 * time.Second
)

// Pool owns a fixed set of live connections, lends them out one per caller
// under a bounded wait, and replaces any connection found broken on return
// so the pool never shrinks. A failed replacement is tolerated: the pool
// degrades instead of crashing the process.
type Pool struct {
	dial           DialFunc
	conns          chan Conn
	size           int
	acquireTimeout time.Duration
	logger         *slog.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

// NewPool dials size connections up front. Each initial dial is retried
// with exponential backoff; this is the only retry loop around the store.
func NewPool(ctx context.Context, size int, acquireTimeout time.Duration, dial DialFunc, logger *slog.Logger) (*Pool, error) {
	if size <= 0 {
		size = 5
	}
	if acquireTimeout <= 0 {
		acquireTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Pool{
		dial:           dial,
		conns:          make(chan Conn, size),
		size:           size,
		acquireTimeout: acquireTimeout,
		logger:         logger,
		closed:         make(chan struct{}),
	}

	for i := 0; i < size; i++ {
		conn, err := p.dialWithRetry(ctx)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to build connection pool: %w", err)
		}
		p.conns <- conn
	}

	p.logger.Info("connection pool ready", "size", size)
	return p, nil
}

func (p *Pool) dialWithRetry(ctx context.Context) (Conn, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	var conn Conn
	operation := func() error {
		var err error
		conn, err = p.dial(ctx)
		if err != nil {
			p.logger.Warn("connection dial failed, retrying", "error", err)
		}
		return err
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	return conn, nil
}

// Size returns the fixed pool size.
func (p *Pool) Size() int {
	return p.size
}

// Acquire lends a connection, blocking until one frees up, the context is
// cancelled, or the acquire timeout elapses. The caller must hand the
// connection back via Release and must not share it.
func (p *Pool) Acquire(ctx context.Context) (Conn, error) {
	timer := time.NewTimer(p.acquireTimeout)
	defer timer.Stop()

	select {
	case conn := <-p.conns:
		return conn, nil
	case <-p.closed:
		return nil, ErrPoolClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrPoolExhausted
	}
}

// Release returns a connection to the pool after a cheap liveness probe.
// A broken connection is discarded and a freshly dialed replacement is
// enqueued in its place; a failed replacement dial is logged and the pool
// runs degraded.
func (p *Pool) Release(conn Conn) {
	if conn == nil {
		return
	}

	select {
	case <-p.closed:
		_ = conn.Close()
		return
	default:
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), releasePingTimeout)
	err := conn.Ping(pingCtx)
	cancel()

	if err == nil {
		p.enqueue(conn)
		return
	}

	p.logger.Warn("discarding broken connection", "error", err)
	_ = conn.Close()

	dialCtx, cancel := context.WithTimeout(context.Background(), replaceDialTimeout)
	defer cancel()
	replacement, dialErr := p.dial(dialCtx)
	if dialErr != nil {
		p.logger.Error("failed to replace broken connection, pool degraded", "error", dialErr)
		return
	}
	p.enqueue(replacement)
}

func (p *Pool) enqueue(conn Conn) {
	select {
	case p.conns <- conn:
	default:
		// Should not happen: the lending discipline keeps the total at size.
		_ = conn.Close()
		return
	}

	// Close can land between Release's closed check and the send above,
	// draining the channel before the connection arrives. Sweep the idle
	// set again whenever the pool turns out to be closed so nothing is
	// left stranded open.
	select {
	case <-p.closed:
		p.drainIdle()
	default:
	}
}

func (p *Pool) drainIdle() {
	for {
		select {
		case conn := <-p.conns:
			_ = conn.Close()
		default:
			return
		}
	}
}

// WithConn runs fn with a pooled connection. The connection is released on
// every exit path, including panics, before control returns to the caller.
func (p *Pool) WithConn(ctx context.Context, fn func(Conn) error) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(conn)
	return fn(conn)
}

// Close drains and closes all idle connections. Connections lent out at
// close time are closed on release.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.closed)
		p.drainIdle()
	})
}
