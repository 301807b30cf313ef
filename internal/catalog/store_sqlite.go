package catalog

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps prices as TEXT so decimals round-trip exactly.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS products (
				position INTEGER PRIMARY KEY AUTOINCREMENT,
				name     TEXT NOT NULL UNIQUE,
				price    TEXT NOT NULL
			)
		`)
		return err
	})
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *SQLiteStore) Load(ctx context.Context) ([]ProductInput, error) {
	var out []ProductInput

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `SELECT name, price FROM products ORDER BY position ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]ProductInput, 0, 16)
		for rows.Next() {
			var in ProductInput
			if err := rows.Scan(&in.Name, &in.Price); err != nil {
				return err
			}
			out = append(out, in)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) Replace(ctx context.Context, list []ProductInput) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO products (name, price) VALUES (?, ?)
			ON CONFLICT(name) DO UPDATE SET price = excluded.price
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, in := range list {
			if _, err := stmt.ExecContext(ctx, in.Name, in.Price.String()); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
}

func (s *SQLiteStore) Add(ctx context.Context, name string, price decimal.Decimal) (bool, error) {
	var added bool

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO products (name, price) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`,
			name, price.String())
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		added = n > 0
		return nil
	})

	return added, err
}
