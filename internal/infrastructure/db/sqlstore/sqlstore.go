// Package sqlstore implements the account and report repositories on top of
// database/sql. PostgreSQL is reached through the pgx stdlib driver; SQLite
// (modernc, pure Go) is used for local runs and tests.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/dynamicreport/report-api/internal/core/reportquery"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultTimeout      = 5 * time.Second
	defaultQueryTimeout = 10 * time.Second
)

// Config captures the settings for opening the SQL database.
type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Timeout         time.Duration
}

// Connect opens the database, applies pool limits and validates connectivity
// with a ping. A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	driverName, err := sqlDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// A single writer; also keeps one shared ":memory:" database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sql ping: %w", err)
	}
	return db, nil
}

// PlaceholderFor returns the bind-parameter syntax understood by driver.
func PlaceholderFor(driver string) reportquery.Placeholder {
	if driver == DriverSQLite {
		return reportquery.Question
	}
	return reportquery.Dollar
}

func sqlDriverName(driver string) (string, error) {
	switch driver {
	case DriverPostgres:
		return "pgx", nil
	case DriverSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Option configures a repository.
type Option func(*options)

type options struct {
	placeholder  reportquery.Placeholder
	queryTimeout time.Duration
}

// WithPlaceholder sets the bind-parameter syntax. Defaults to Dollar.
func WithPlaceholder(p reportquery.Placeholder) Option {
	return func(o *options) { o.placeholder = p }
}

// WithQueryTimeout bounds every statement issued by the repository.
func WithQueryTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.queryTimeout = d
		}
	}
}

func newOptions(opts []Option) options {
	o := options{placeholder: reportquery.Dollar, queryTimeout: defaultQueryTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// rebind rewrites the ? markers of query into the configured syntax.
func (o options) rebind(query string) string {
	if o.placeholder != reportquery.Dollar {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
