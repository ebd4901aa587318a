package clickhouse

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	ch "github.com/ClickHouse/clickhouse-go/v2"
	chdriver "github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Rows is the subset of a driver result set the store consumes.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Conn is a single connection to the analytical store. Connections are
// owned by the Pool and never shared between concurrent callers; tests
// substitute fakes.
type Conn interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, query string, args ...any) error
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	Close() error
}

// DialFunc produces a fresh connection.
type DialFunc func(ctx context.Context) (Conn, error)

// Config holds ClickHouse connection settings.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string

	// Secure enables TLS on the native protocol.
	Secure bool

	// PoolSize is the fixed number of pooled connections.
	PoolSize int

	// AcquireTimeout bounds the wait for a free connection.
	AcquireTimeout time.Duration

	// MaxExecutionTime caps remote query time in seconds, enforced
	// server-side. There is no cancellation of an in-flight query beyond
	// this ceiling: once issued, a query runs to completion or timeout.
	MaxExecutionTime int
}

// DefaultConfig returns sensible defaults
func DefaultConfig(host string) Config {
	return Config{
		Host:             host,
		Port:             9440,
		Database:         "default",
		Username:         "default",
		Secure:           true,
		PoolSize:         5,
		AcquireTimeout:   5 * time.Second,
		MaxExecutionTime: 60,
	}
}

// Dialer returns a DialFunc opening native-protocol connections. Each
// pooled handle is pinned to a single underlying connection so the Pool
// alone decides who holds it.
func Dialer(cfg Config) DialFunc {
	return func(ctx context.Context) (Conn, error) {
		opts := &ch.Options{
			Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
			Auth: ch.Auth{
				Database: cfg.Database,
				Username: cfg.Username,
				Password: cfg.Password,
			},
			Settings: ch.Settings{
				"max_execution_time": cfg.MaxExecutionTime,
			},
			DialTimeout:  10 * time.Second,
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		}
		if cfg.Secure {
			opts.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
		}

		conn, err := ch.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to open clickhouse connection: %w", err)
		}
		if err := conn.Ping(ctx); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
		}
		return &nativeConn{conn: conn}, nil
	}
}

// nativeConn adapts the clickhouse-go driver connection to Conn.
type nativeConn struct {
	conn chdriver.Conn
}

func (c *nativeConn) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *nativeConn) Exec(ctx context.Context, query string, args ...any) error {
	return c.conn.Exec(ctx, query, args...)
}

func (c *nativeConn) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	return c.conn.Query(ctx, query, args...)
}

func (c *nativeConn) Close() error {
	return c.conn.Close()
}
