package sequence

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a counter repository backed by the counters table.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// Next relies on the upsert being a single atomic statement: concurrent callers
// serialize on the row and each sees a distinct RETURNING value.
func (r *postgresRepo) Next(ctx context.Context, name string) (int64, error) {
	var seq int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO counters (name, seq) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET seq = counters.seq + 1
		RETURNING seq`, name).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("allocate %s: %w", name, err)
	}
	return seq, nil
}

func (r *postgresRepo) Reset(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO counters (name, seq) VALUES ($1, 0)
		ON CONFLICT (name) DO UPDATE SET seq = 0`, name)
	if err != nil {
		return fmt.Errorf("reset %s: %w", name, err)
	}
	return nil
}
