package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SequenceRepository allocates ticket sequence numbers from the database.
// It backs the Redis counter when Redis is unavailable.
type SequenceRepository interface {
	Next(ctx context.Context) (int64, error)
}

type sequenceRepository struct {
	pool *pgxpool.Pool
}

// NewSequenceRepository instantiates repository.
func NewSequenceRepository(pool *pgxpool.Pool) SequenceRepository {
	return &sequenceRepository{pool: pool}
}

func (r *sequenceRepository) Next(ctx context.Context) (int64, error) {
	var next int64
	if err := r.pool.QueryRow(ctx, `SELECT nextval('ticket_sequence')`).Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}
