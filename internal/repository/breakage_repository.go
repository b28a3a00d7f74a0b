package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facilityhub/helpdesk/internal/domain"
)

// BreakageRepository encapsulates breakage record persistence.
type BreakageRepository interface {
	Create(ctx context.Context, breakage *domain.Breakage) error
	Update(ctx context.Context, breakage *domain.Breakage) error
	GetByID(ctx context.Context, id string) (*domain.Breakage, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Breakage, error)
}

type breakageRepository struct {
	pool *pgxpool.Pool
}

// NewBreakageRepository instantiates repository.
func NewBreakageRepository(pool *pgxpool.Pool) BreakageRepository {
	return &breakageRepository{pool: pool}
}

func (r *breakageRepository) Create(ctx context.Context, breakage *domain.Breakage) error {
	const query = `
        INSERT INTO breakages (ticket_id, description, responsible_party, processed)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		breakage.TicketID,
		breakage.Description,
		breakage.ResponsibleParty,
		breakage.Processed,
	).Scan(&breakage.ID, &breakage.CreatedAt, &breakage.UpdatedAt)
}

func (r *breakageRepository) Update(ctx context.Context, breakage *domain.Breakage) error {
	const query = `
        UPDATE breakages SET description=$1, responsible_party=$2, processed=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		breakage.Description,
		breakage.ResponsibleParty,
		breakage.Processed,
		breakage.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *breakageRepository) GetByID(ctx context.Context, id string) (*domain.Breakage, error) {
	const query = `SELECT id, ticket_id, description, responsible_party, processed, created_at, updated_at
        FROM breakages WHERE id=$1`
	var b domain.Breakage
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.TicketID, &b.Description, &b.ResponsibleParty, &b.Processed, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *breakageRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Breakage, error) {
	const query = `SELECT id, ticket_id, description, responsible_party, processed, created_at, updated_at
        FROM breakages WHERE ticket_id=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Breakage
	for rows.Next() {
		var b domain.Breakage
		if err := rows.Scan(&b.ID, &b.TicketID, &b.Description, &b.ResponsibleParty, &b.Processed, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}
