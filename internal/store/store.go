package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned on lookup misses. Callers treat it as "new
// customer", never as a failure.
var ErrNotFound = errors.New("customer not found")

// Store wraps the customers table plus the raw transcript sink. The checklist
// fields live as one nullable text column each on the customers row; the
// column list comes from the catalog at startup so the two never drift.
type Store struct {
	pool      *pgxpool.Pool
	fieldCols []string
	fieldSet  map[string]bool
}

func New(ctx context.Context, databaseURL string, fieldColumns []string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{pool: pool, fieldCols: fieldColumns, fieldSet: make(map[string]bool, len(fieldColumns))}
	for _, c := range fieldColumns {
		s.fieldSet[c] = true
	}
	return s, nil
}

func (s *Store) Close() {
	s.pool.Close()
}
