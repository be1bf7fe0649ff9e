package settings

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// DB is the subset of *pgxpool.Pool used by PostgresStore.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PostgresStore keeps options in the options table.
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a store on top of db.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.Query(ctx, `SELECT name, value FROM options`)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		values[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	return values, nil
}

func (s *PostgresStore) Save(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for name, value := range values {
		b.Queue(`INSERT INTO options (name, value) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`, name, value)
	}

	br := s.db.SendBatch(ctx, b)
	for range values {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("save option: %w", err)
		}
	}
	return br.Close()
}
