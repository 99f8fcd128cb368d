package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"orderly/internal/domain"
	applog "orderly/internal/log"
)

// Kind names the backend a Store ended up on.
type Kind string

const (
	KindPostgres Kind = "postgres"
	KindSQLite   Kind = "sqlite"
	KindMemory   Kind = "memory"
)

var (
	ErrNoDSN             = errors.New("no connection string configured")
	ErrBackupUnsupported = errors.New("backup not supported for this backend")
)

const pingTimeout = 5 * time.Second

// Options configures the backend tiers. Empty fields skip their tier;
// the in-memory tier is always attempted last.
type Options struct {
	PostgresDSN string
	SQLitePath  string
}

// Store is the process-wide storage context: one pool, one backend kind.
type Store struct {
	DB      *sqlx.DB
	kind    Kind
	dialect Dialect
}

type tier struct {
	kind   Kind
	driver string
	dsn    string
}

// Connect walks postgres, sqlite file and in-memory sqlite in that order and
// returns the first one that opens, answers a ping and accepts the schema.
func Connect(ctx context.Context, opts Options) (*Store, error) {
	tiers := []tier{
		{kind: KindPostgres, driver: "pgx", dsn: opts.PostgresDSN},
		{kind: KindSQLite, driver: "sqlite", dsn: opts.SQLitePath},
		{kind: KindMemory, driver: "sqlite", dsn: ":memory:"},
	}
	var lastErr error
	for _, t := range tiers {
		if t.dsn == "" {
			applog.Warn(nil, "store.fallback", ErrNoDSN, map[string]any{"backend": string(t.kind)})
			continue
		}
		st, err := open(ctx, t)
		if err != nil {
			lastErr = err
			applog.Warn(nil, "store.fallback", err, map[string]any{"backend": string(t.kind)})
			continue
		}
		applog.Info(nil, "store.connected", map[string]any{"backend": string(t.kind)})
		return st, nil
	}
	return nil, fmt.Errorf("store: all backends failed: %w", lastErr)
}

// Open connects to exactly one backend kind. Tests use it to pin a tier.
func Open(ctx context.Context, kind Kind, dsn string) (*Store, error) {
	switch kind {
	case KindPostgres:
		return open(ctx, tier{kind: kind, driver: "pgx", dsn: dsn})
	case KindSQLite:
		return open(ctx, tier{kind: kind, driver: "sqlite", dsn: dsn})
	case KindMemory:
		return open(ctx, tier{kind: kind, driver: "sqlite", dsn: ":memory:"})
	}
	return nil, fmt.Errorf("store: unknown backend %q", kind)
}

func open(ctx context.Context, t tier) (*Store, error) {
	db, err := sqlx.Open(t.driver, t.dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", t.kind, err)
	}
	if t.kind != KindPostgres {
		// one sqlite connection: a second one would see a different :memory: database
		db.SetMaxOpenConns(1)
	}
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", t.kind, err)
	}
	st := &Store{DB: db, kind: t.kind, dialect: dialectFor(t.kind)}
	if err := st.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables on %s: %w", t.kind, err)
	}
	return st, nil
}

func (s *Store) createTables(ctx context.Context) error {
	return s.InTx(ctx, func(tx *sqlx.Tx) error {
		for _, stmt := range s.dialect.Schema() {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, tx.Rebind(s.dialect.SeedMerchant()),
			domain.MerchantID, int64(5812937391), "admin", "Orderly", "pro")
		return err
	})
}

func (s *Store) Kind() Kind { return s.kind }

func (s *Store) Dialect() Dialect { return s.dialect }

// Q rebinds a ?-placeholder query for the active driver.
func (s *Store) Q(query string) string { return s.DB.Rebind(query) }

func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *Store) Close() error { return s.DB.Close() }

// InTx runs fn inside a transaction. Any error from fn or from commit rolls
// the transaction back before returning, so nothing half-applied stays visible.
func (s *Store) InTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Backup writes a consistent copy of a sqlite-backed store to path.
func (s *Store) Backup(ctx context.Context, path string) error {
	if s.kind == KindPostgres {
		return ErrBackupUnsupported
	}
	_, err := s.DB.ExecContext(ctx, `VACUUM INTO ?`, path)
	return err
}
