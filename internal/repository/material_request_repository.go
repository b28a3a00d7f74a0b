package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facilityhub/helpdesk/internal/domain"
	"github.com/facilityhub/helpdesk/internal/policy"
)

// MaterialRequestRepository encapsulates material request persistence.
// Listings are scoped through the owning ticket, so supervisors only see
// requests raised against tickets they could see themselves.
type MaterialRequestRepository interface {
	Create(ctx context.Context, request *domain.MaterialRequest) error
	Update(ctx context.Context, request *domain.MaterialRequest) error
	GetByID(ctx context.Context, id string) (*domain.MaterialRequest, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.MaterialRequest, error)
	ListScoped(ctx context.Context, scope policy.Scope, limit, offset int) ([]domain.MaterialRequest, error)
}

type materialRequestRepository struct {
	pool *pgxpool.Pool
}

// NewMaterialRequestRepository instantiates repository.
func NewMaterialRequestRepository(pool *pgxpool.Pool) MaterialRequestRepository {
	return &materialRequestRepository{pool: pool}
}

func (r *materialRequestRepository) Create(ctx context.Context, request *domain.MaterialRequest) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO material_requests (ticket_id, created_by_staff_id, status)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		request.TicketID,
		request.CreatedByID,
		request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt); err != nil {
		return err
	}

	for i := range request.Items {
		item := &request.Items[i]
		item.MaterialRequestID = request.ID
		if err := tx.QueryRow(ctx,
			`INSERT INTO material_request_items (material_request_id, name, quantity, unit)
             VALUES ($1,$2,$3,$4) RETURNING id`,
			item.MaterialRequestID, item.Name, item.Quantity, item.Unit,
		).Scan(&item.ID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *materialRequestRepository) Update(ctx context.Context, request *domain.MaterialRequest) error {
	const query = `
        UPDATE material_requests SET status=$1, processed_by_staff_id=$2, prf_number=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		request.Status,
		request.ProcessedByID,
		request.PrfNumber,
		request.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const materialRequestColumns = `mr.id, mr.ticket_id, mr.created_by_staff_id, mr.processed_by_staff_id,
        mr.status, mr.prf_number, mr.created_at, mr.updated_at`

func (r *materialRequestRepository) GetByID(ctx context.Context, id string) (*domain.MaterialRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM material_requests mr WHERE mr.id=$1`, materialRequestColumns)
	var m domain.MaterialRequest
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.TicketID, &m.CreatedByID, &m.ProcessedByID,
		&m.Status, &m.PrfNumber, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *materialRequestRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.MaterialRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM material_requests mr WHERE mr.ticket_id=$1 ORDER BY mr.created_at DESC`,
		materialRequestColumns)
	return r.list(ctx, query, ticketID)
}

func (r *materialRequestRepository) ListScoped(ctx context.Context, scope policy.Scope, limit, offset int) ([]domain.MaterialRequest, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if scope.IsEmpty() {
		clauses = append(clauses, "1=0")
	} else {
		if scope.RequesterID != nil {
			args = append(args, *scope.RequesterID)
			clauses = append(clauses, fmt.Sprintf("t.requester_client_id=$%d", len(args)))
		}
		if scope.BuildingIDs != nil {
			args = append(args, scope.BuildingIDs)
			clauses = append(clauses, fmt.Sprintf("t.building_id = ANY($%d)", len(args)))
		}
		if scope.CategoryIDs != nil {
			args = append(args, scope.CategoryIDs)
			clauses = append(clauses, fmt.Sprintf("t.category_id = ANY($%d)", len(args)))
		}
		if scope.AssigneeID != nil {
			args = append(args, *scope.AssigneeID)
			clauses = append(clauses, fmt.Sprintf("t.assignee_staff_id=$%d", len(args)))
		}
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM material_requests mr
        JOIN tickets t ON t.id = mr.ticket_id
        WHERE %s ORDER BY mr.created_at DESC LIMIT %d OFFSET %d`,
		materialRequestColumns, strings.Join(clauses, " AND "), limit, offset)

	return r.list(ctx, query, args...)
}

func (r *materialRequestRepository) list(ctx context.Context, query string, args ...any) ([]domain.MaterialRequest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MaterialRequest
	for rows.Next() {
		var m domain.MaterialRequest
		if err := rows.Scan(
			&m.ID, &m.TicketID, &m.CreatedByID, &m.ProcessedByID,
			&m.Status, &m.PrfNumber, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		if err := r.loadItems(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *materialRequestRepository) loadItems(ctx context.Context, request *domain.MaterialRequest) error {
	const query = `SELECT id, material_request_id, name, quantity, unit
        FROM material_request_items WHERE material_request_id=$1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, request.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.MaterialRequestItem
		if err := rows.Scan(&item.ID, &item.MaterialRequestID, &item.Name, &item.Quantity, &item.Unit); err != nil {
			return err
		}
		request.Items = append(request.Items, item)
	}
	return rows.Err()
}
