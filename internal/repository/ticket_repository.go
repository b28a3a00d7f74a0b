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

// TicketFilter captures listing parameters. Scope is mandatory and applied
// before every optional filter, so callers can only narrow the visible set.
type TicketFilter struct {
	Scope       policy.Scope
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	Types       []domain.TicketType
	BuildingIDs []string
	CategoryIDs []string
	Escalated   *bool
	SearchTerm  *string
	Limit       int
	Offset      int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetBySequence(ctx context.Context, sequence string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	CountByStatus(ctx context.Context, scope policy.Scope) (map[domain.TicketStatus]int, error)

	// MutateBySequence loads the ticket under a row lock, applies fn and
	// persists the result in the same transaction. Two concurrent callers
	// serialize on the row; the second observes the first's writes.
	MutateBySequence(ctx context.Context, sequence string, fn func(*domain.Ticket) error) (*domain.Ticket, error)

	// MutateByID is MutateBySequence keyed on the ticket id.
	MutateByID(ctx context.Context, id string, fn func(*domain.Ticket) error) (*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, sequence, subject, description, status, priority, type, is_escalated,
        building_id, category_id, sub_category_id, assignee_staff_id, group_id, requester_client_id,
        user_status, category_supervisor_status, building_supervisor_status, duplicate_of_ticket_id,
        verified_by_staff_id, verification_status, verified_at, closing_date, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (sequence, subject, description, status, priority, type, is_escalated,
            building_id, category_id, sub_category_id, assignee_staff_id, group_id, requester_client_id,
            user_status, category_supervisor_status, building_supervisor_status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Sequence,
		ticket.Subject,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.Type,
		ticket.IsEscalated,
		ticket.BuildingID,
		ticket.CategoryID,
		ticket.SubCategoryID,
		ticket.AssigneeID,
		ticket.GroupID,
		ticket.RequesterID,
		ticket.UserStatus,
		ticket.CategorySupervisorStatus,
		ticket.BuildingSupervisorStatus,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

const ticketUpdateQuery = `
        UPDATE tickets SET subject=$1, description=$2, status=$3, priority=$4, type=$5,
            is_escalated=$6, building_id=$7, category_id=$8, sub_category_id=$9,
            assignee_staff_id=$10, group_id=$11, user_status=$12, category_supervisor_status=$13,
            building_supervisor_status=$14, duplicate_of_ticket_id=$15, verified_by_staff_id=$16,
            verification_status=$17, verified_at=$18, closing_date=$19, updated_at=NOW()
        WHERE id=$20`

func ticketUpdateArgs(ticket *domain.Ticket) []any {
	return []any{
		ticket.Subject,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.Type,
		ticket.IsEscalated,
		ticket.BuildingID,
		ticket.CategoryID,
		ticket.SubCategoryID,
		ticket.AssigneeID,
		ticket.GroupID,
		ticket.UserStatus,
		ticket.CategorySupervisorStatus,
		ticket.BuildingSupervisorStatus,
		ticket.DuplicateOfTicketID,
		ticket.VerifiedByID,
		ticket.VerificationStatus,
		ticket.VerifiedAt,
		ticket.ClosingDate,
		ticket.ID,
	}
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	cmd, err := r.pool.Exec(ctx, ticketUpdateQuery, ticketUpdateArgs(ticket)...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	return scanTicketRow(r.pool.QueryRow(ctx, query, id))
}

func (r *ticketRepository) GetBySequence(ctx context.Context, sequence string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE sequence=$1`, ticketColumns)
	return scanTicketRow(r.pool.QueryRow(ctx, query, sequence))
}

// scopeClauses renders the visibility scope as SQL predicates. An empty
// scope becomes a contradiction rather than an unfiltered query.
func scopeClauses(scope policy.Scope, clauses []string, args []any) ([]string, []any) {
	if scope.IsEmpty() {
		return append(clauses, "1=0"), args
	}
	if scope.RequesterID != nil {
		args = append(args, *scope.RequesterID)
		clauses = append(clauses, fmt.Sprintf("requester_client_id=$%d", len(args)))
	}
	if scope.BuildingIDs != nil {
		args = append(args, scope.BuildingIDs)
		clauses = append(clauses, fmt.Sprintf("building_id = ANY($%d)", len(args)))
	}
	if scope.CategoryIDs != nil {
		args = append(args, scope.CategoryIDs)
		clauses = append(clauses, fmt.Sprintf("category_id = ANY($%d)", len(args)))
	}
	if scope.AssigneeID != nil {
		args = append(args, *scope.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assignee_staff_id=$%d", len(args)))
	}
	return clauses, args
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}
	clauses, args = scopeClauses(filter.Scope, clauses, args)

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Types) > 0 {
		placeholders := make([]string, len(filter.Types))
		for i, tt := range filter.Types {
			args = append(args, tt)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("type IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.BuildingIDs) > 0 {
		args = append(args, filter.BuildingIDs)
		clauses = append(clauses, fmt.Sprintf("building_id = ANY($%d)", len(args)))
	}
	if len(filter.CategoryIDs) > 0 {
		args = append(args, filter.CategoryIDs)
		clauses = append(clauses, fmt.Sprintf("category_id = ANY($%d)", len(args)))
	}
	if filter.Escalated != nil {
		args = append(args, *filter.Escalated)
		clauses = append(clauses, fmt.Sprintf("is_escalated=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(subject) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) CountByStatus(ctx context.Context, scope policy.Scope) (map[domain.TicketStatus]int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	clauses, args = scopeClauses(scope, clauses, args)

	query := fmt.Sprintf(`SELECT status, COUNT(*) FROM tickets WHERE %s GROUP BY status`,
		strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.TicketStatus]int)
	for rows.Next() {
		var status domain.TicketStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *ticketRepository) MutateBySequence(ctx context.Context, sequence string, fn func(*domain.Ticket) error) (*domain.Ticket, error) {
	return r.mutate(ctx, "sequence", sequence, fn)
}

func (r *ticketRepository) MutateByID(ctx context.Context, id string, fn func(*domain.Ticket) error) (*domain.Ticket, error) {
	return r.mutate(ctx, "id", id, fn)
}

func (r *ticketRepository) mutate(ctx context.Context, column, key string, fn func(*domain.Ticket) error) (*domain.Ticket, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s=$1 FOR UPDATE`, ticketColumns, column)
	ticket, err := scanTicketRow(tx.QueryRow(ctx, query, key))
	if err != nil {
		return nil, err
	}
	if err := fn(ticket); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, ticketUpdateQuery, ticketUpdateArgs(ticket)...); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ticket, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicketRow(row rowScanner) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Sequence,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Type,
		&ticket.IsEscalated,
		&ticket.BuildingID,
		&ticket.CategoryID,
		&ticket.SubCategoryID,
		&ticket.AssigneeID,
		&ticket.GroupID,
		&ticket.RequesterID,
		&ticket.UserStatus,
		&ticket.CategorySupervisorStatus,
		&ticket.BuildingSupervisorStatus,
		&ticket.DuplicateOfTicketID,
		&ticket.VerifiedByID,
		&ticket.VerificationStatus,
		&ticket.VerifiedAt,
		&ticket.ClosingDate,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicketRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
