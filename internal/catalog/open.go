package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
)

type migrator interface {
	Migrate(ctx context.Context) error
}

// OpenStore returns the Store for driver. The returned close func is never nil.
func OpenStore(ctx context.Context, driver, dsn string) (Store, func() error, error) {
	noop := func() error { return nil }

	var (
		db    *sql.DB
		store Store
		err   error
	)

	switch driver {
	case "", "memory":
		return NewMemStore(), noop, nil
	case "postgres":
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, noop, err
		}
		store = NewPostgresStore(db)
	case "sqlite":
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, noop, err
			}
		}
		db, err = sql.Open("sqlite", dsn+"?_pragma=busy_timeout=5000&_pragma=journal_mode=WAL")
		if err != nil {
			return nil, noop, err
		}
		store = NewSQLiteStore(db)
	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	if err := store.(migrator).Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, noop, fmt.Errorf("migrate %s store: %w", driver, err)
	}
	return store, db.Close, nil
}
