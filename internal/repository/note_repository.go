package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facilityhub/helpdesk/internal/domain"
)

// NoteRepository stores audit notes attached to tickets.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.TicketNote) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketNote, error)
}

type noteRepository struct {
	pool *pgxpool.Pool
}

// NewNoteRepository instantiates repository.
func NewNoteRepository(pool *pgxpool.Pool) NoteRepository {
	return &noteRepository{pool: pool}
}

func (r *noteRepository) Create(ctx context.Context, note *domain.TicketNote) error {
	const query = `
        INSERT INTO ticket_notes (ticket_id, author_staff_id, kind, body)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		note.TicketID,
		note.AuthorID,
		note.Kind,
		note.Body,
	).Scan(&note.ID, &note.CreatedAt)
}

func (r *noteRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketNote, error) {
	const query = `SELECT id, ticket_id, author_staff_id, kind, body, created_at
        FROM ticket_notes WHERE ticket_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketNote
	for rows.Next() {
		var note domain.TicketNote
		if err := rows.Scan(&note.ID, &note.TicketID, &note.AuthorID, &note.Kind, &note.Body, &note.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, note)
	}
	return result, rows.Err()
}
