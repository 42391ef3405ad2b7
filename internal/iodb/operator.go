// Package iodb implements database operations for PostgreSQL (pgxpool)
// and SQLite (modernc.org/sqlite). This is an impure I/O package that
// implements contracts defined in pkg/.
package iodb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/gnames/gnvariants/pkg/config"
	"github.com/gnames/gnvariants/pkg/db"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// ConnectTimeout limits the time spent retrying an unreachable database.
var ConnectTimeout = 30 * time.Second

// NewOperator creates a database operator for a driver
// (without connecting).
func NewOperator(driver string) (db.Operator, error) {
	switch driver {
	case "postgres":
		return &pgxOperator{}, nil
	case "sqlite":
		return &sqliteOperator{}, nil
	}
	return nil, UnsupportedDriverError(driver)
}

// retry runs op with exponential backoff until it succeeds, the context
// is done or ConnectTimeout passes. Zero timeout disables retries.
func retry(ctx context.Context, what string, op func() error) error {
	var b backoff.BackOff = &backoff.StopBackOff{}
	if ConnectTimeout > 0 {
		bo := backoff.NewExponentialBackOff()
		bo.MaxElapsedTime = ConnectTimeout
		b = bo
	}
	notify := func(err error, d time.Duration) {
		slog.Warn("Retrying", "operation", what, "in", d, "error", err)
	}
	return backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify)
}

// pgxOperator implements db.Operator interface using
// pgxpool for connection pooling.
type pgxOperator struct {
	pool *pgxpool.Pool
	db   *sql.DB
}

// Connect establishes a connection pool to PostgreSQL.
// Uses sensible hardcoded pool settings that work well for
// most use cases.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 0
	poolConfig.MaxConnIdleTime = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	err = retry(ctx, "postgres ping", func() error {
		return pool.Ping(ctx)
	})
	if err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	p.pool = pool
	p.db = stdlib.OpenDBFromPool(pool)
	return nil
}

// Close releases all database connections.
func (p *pgxOperator) Close() error {
	if p.db != nil {
		_ = p.db.Close()
	}
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *pgxOperator) DB() *sql.DB {
	return p.db
}

func (p *pgxOperator) Driver() string {
	return "postgres"
}

// TableExists checks if a table exists in the current
// database.
func (p *pgxOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`
	return exists(ctx, p.db, query, tableName)
}

// HasTables checks if the database has any tables in the
// public schema.
func (p *pgxOperator) HasTables(ctx context.Context) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
		)
	`
	return exists(ctx, p.db, query)
}

// DropAllTables drops all tables in the public schema.
func (p *pgxOperator) DropAllTables(ctx context.Context) error {
	query := `
		SELECT tablename
		FROM pg_tables
		WHERE schemaname = 'public'
	`
	return dropAll(ctx, p.db, query, "DROP TABLE IF EXISTS %s CASCADE")
}

// sqliteOperator implements db.Operator for a SQLite file.
type sqliteOperator struct {
	db *sql.DB
}

// Connect opens the SQLite file, creating its directory when needed.
// Foreign keys are not used, WAL mode allows reads during imports.
func (s *sqliteOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return ConnectionError(path, 0, cfg.Database, "", err)
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	d, err := sql.Open("sqlite", dsn)
	if err != nil {
		return ConnectionError(path, 0, cfg.Database, "", err)
	}
	// single writer
	d.SetMaxOpenConns(1)

	err = retry(ctx, "sqlite ping", func() error {
		return d.PingContext(ctx)
	})
	if err != nil {
		_ = d.Close()
		return ConnectionError(path, 0, cfg.Database, "", err)
	}
	s.db = d
	return nil
}

func (s *sqliteOperator) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *sqliteOperator) DB() *sql.DB {
	return s.db
}

func (s *sqliteOperator) Driver() string {
	return "sqlite"
}

func (s *sqliteOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?
	)`
	return exists(ctx, s.db, query, tableName)
}

func (s *sqliteOperator) HasTables(ctx context.Context) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
	)`
	return exists(ctx, s.db, query)
}

func (s *sqliteOperator) DropAllTables(ctx context.Context) error {
	query := `SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`
	return dropAll(ctx, s.db, query, "DROP TABLE IF EXISTS %s")
}

func exists(ctx context.Context, d *sql.DB, query string, args ...any) (bool, error) {
	if d == nil {
		return false, NotConnectedError()
	}
	var res bool
	if err := d.QueryRowContext(ctx, query, args...).Scan(&res); err != nil {
		return false, TableCheckError(err)
	}
	return res, nil
}

func dropAll(ctx context.Context, d *sql.DB, query, dropFmt string) error {
	if d == nil {
		return NotConnectedError()
	}

	rows, err := d.QueryContext(ctx, query)
	if err != nil {
		return QueryTablesError(err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return ScanTableError(err)
		}
		tables = append(tables, tableName)
	}
	if err := rows.Err(); err != nil {
		return ScanTableError(err)
	}

	for _, table := range tables {
		if _, err := d.ExecContext(ctx, fmt.Sprintf(dropFmt, table)); err != nil {
			return DropTableError(table, err)
		}
	}
	return nil
}
