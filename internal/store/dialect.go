package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Dialect holds every piece of SQL that differs between backends. Placeholder
// syntax is not part of it: queries are written with ? and rebound by sqlx.
type Dialect interface {
	// Schema returns the DDL statements, executed in order.
	Schema() []string
	// SeedMerchant inserts the fixed merchant row unless it already exists.
	SeedMerchant() string
	// DateOf truncates a timestamp column to its calendar day.
	DateOf(col string) string
	// Today is the current calendar day on the server.
	Today() string
	// DaysAgo is the calendar day n days before today.
	DaysAgo(n int) string
	// DayParam is a placeholder bound to a YYYY-MM-DD string, typed as a day.
	DayParam() string
	// InsertID runs an INSERT written without a RETURNING clause and yields the new id.
	InsertID(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (int64, error)
}

func dialectFor(k Kind) Dialect {
	if k == KindPostgres {
		return postgresDialect{}
	}
	return sqliteDialect{}
}

type sqliteDialect struct{}

func (sqliteDialect) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS merchants(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  external_id INTEGER UNIQUE,
  username TEXT,
  business_name TEXT,
  plan TEXT NOT NULL DEFAULT 'trial',
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`,
		`CREATE TABLE IF NOT EXISTS orders(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  category TEXT NOT NULL CHECK (category IN ('food','clothing')),
  product TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  phone TEXT NOT NULL,
  address TEXT NOT NULL,
  quantity TEXT NOT NULL,
  size TEXT,
  language TEXT NOT NULL DEFAULT 'ar',
  status TEXT NOT NULL DEFAULT 'new' CHECK (status IN ('new','processing','completed','cancelled')),
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  merchant_id INTEGER NOT NULL DEFAULT 1 REFERENCES merchants(id)
)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_merchant_created ON orders(merchant_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE TABLE IF NOT EXISTS daily_stats(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  merchant_id INTEGER NOT NULL,
  date TEXT NOT NULL,
  total_orders INTEGER NOT NULL DEFAULT 0,
  completed_orders INTEGER NOT NULL DEFAULT 0,
  revenue NUMERIC NOT NULL DEFAULT 0,
  UNIQUE(merchant_id, date)
)`,
		`CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  last_seen TIMESTAMP
)`,
	}
}

func (sqliteDialect) SeedMerchant() string {
	return `INSERT OR IGNORE INTO merchants(id, external_id, username, business_name, plan) VALUES(?, ?, ?, ?, ?)`
}

func (sqliteDialect) DateOf(col string) string { return "DATE(" + col + ")" }
func (sqliteDialect) Today() string { return "DATE('now')" }
func (sqliteDialect) DaysAgo(n int) string { return fmt.Sprintf("DATE('now', '-%d days')", n) }

func (sqliteDialect) DayParam() string { return "?" }

func (sqliteDialect) InsertID(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (int64, error) {
	res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type postgresDialect struct{}

func (postgresDialect) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS merchants(
  id BIGSERIAL PRIMARY KEY,
  external_id BIGINT UNIQUE,
  username VARCHAR(100),
  business_name TEXT,
  plan VARCHAR(20) NOT NULL DEFAULT 'trial',
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`,
		`CREATE TABLE IF NOT EXISTS orders(
  id BIGSERIAL PRIMARY KEY,
  category VARCHAR(20) NOT NULL CHECK (category IN ('food','clothing')),
  product TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  phone TEXT NOT NULL,
  address TEXT NOT NULL,
  quantity TEXT NOT NULL,
  size TEXT,
  language VARCHAR(5) NOT NULL DEFAULT 'ar',
  status VARCHAR(20) NOT NULL DEFAULT 'new' CHECK (status IN ('new','processing','completed','cancelled')),
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  merchant_id BIGINT NOT NULL DEFAULT 1 REFERENCES merchants(id)
)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_merchant_created ON orders(merchant_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE TABLE IF NOT EXISTS daily_stats(
  id BIGSERIAL PRIMARY KEY,
  merchant_id BIGINT NOT NULL,
  date DATE NOT NULL,
  total_orders INTEGER NOT NULL DEFAULT 0,
  completed_orders INTEGER NOT NULL DEFAULT 0,
  revenue NUMERIC(10, 2) NOT NULL DEFAULT 0,
  UNIQUE(merchant_id, date)
)`,
		`CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  last_seen TIMESTAMP
)`,
	}
}

func (postgresDialect) SeedMerchant() string {
	return `INSERT INTO merchants(id, external_id, username, business_name, plan) VALUES(?, ?, ?, ?, ?)
ON CONFLICT (id) DO NOTHING`
}

func (postgresDialect) DateOf(col string) string { return "CAST(" + col + " AS DATE)" }
func (postgresDialect) Today() string { return "CURRENT_DATE" }
func (postgresDialect) DaysAgo(n int) string {
	return fmt.Sprintf("(CURRENT_DATE - INTERVAL '%d days')", n)
}

func (postgresDialect) DayParam() string { return "CAST(? AS DATE)" }

func (postgresDialect) InsertID(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (int64, error) {
	var id int64
	err := tx.QueryRowxContext(ctx, tx.Rebind(returningID(query)), args...).Scan(&id)
	return id, err
}

func returningID(query string) string { return query + " RETURNING id" }
