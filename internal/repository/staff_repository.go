package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facilityhub/helpdesk/internal/domain"
)

// StaffRepository encapsulates staff account persistence.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffUser) error
	Update(ctx context.Context, staff *domain.StaffUser) error
	GetByID(ctx context.Context, id string) (*domain.StaffUser, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error)
	ListByRole(ctx context.Context, role domain.StaffRole) ([]domain.StaffUser, error)
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

func (r *staffRepository) Create(ctx context.Context, staff *domain.StaffUser) error {
	const query = `
        INSERT INTO staff_users (name, email, password_hash, role, active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		staff.Name,
		staff.Email,
		staff.PasswordHash,
		staff.Role,
		staff.Active,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.StaffUser) error {
	const query = `
        UPDATE staff_users SET name=$1, email=$2, password_hash=$3, role=$4, active=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		staff.Name,
		staff.Email,
		staff.PasswordHash,
		staff.Role,
		staff.Active,
		staff.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const staffColumns = `id, name, email, password_hash, role, active, created_at, updated_at`

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffUser, error) {
	return r.fetch(ctx, `SELECT `+staffColumns+` FROM staff_users WHERE id=$1`, id)
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error) {
	return r.fetch(ctx, `SELECT `+staffColumns+` FROM staff_users WHERE email=$1`, email)
}

func (r *staffRepository) fetch(ctx context.Context, query string, arg any) (*domain.StaffUser, error) {
	var s domain.StaffUser
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Role, &s.Active, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *staffRepository) ListByRole(ctx context.Context, role domain.StaffRole) ([]domain.StaffUser, error) {
	const query = `SELECT id, name, email, password_hash, role, active, created_at, updated_at
        FROM staff_users WHERE role=$1 AND active ORDER BY name`

	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffUser
	for rows.Next() {
		var s domain.StaffUser
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Role, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
