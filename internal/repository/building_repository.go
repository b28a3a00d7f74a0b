package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facilityhub/helpdesk/internal/domain"
)

// BuildingRepository encapsulates building persistence including the
// supervisor many-to-many link.
type BuildingRepository interface {
	Create(ctx context.Context, building *domain.Building) error
	Update(ctx context.Context, building *domain.Building) error
	GetByID(ctx context.Context, id string) (*domain.Building, error)
	GetByCode(ctx context.Context, code string) (*domain.Building, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Building, error)
	SetSupervisors(ctx context.Context, buildingID string, staffIDs []string) error
	SupervisorIDs(ctx context.Context, buildingID string) ([]string, error)
	SupervisedBuildingIDs(ctx context.Context, staffID string) ([]string, error)
}

type buildingRepository struct {
	pool *pgxpool.Pool
}

// NewBuildingRepository instantiates repository.
func NewBuildingRepository(pool *pgxpool.Pool) BuildingRepository {
	return &buildingRepository{pool: pool}
}

func (r *buildingRepository) Create(ctx context.Context, building *domain.Building) error {
	const query = `
        INSERT INTO buildings (code, name, type, active)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		building.Code,
		building.Name,
		building.Type,
		building.Active,
	).Scan(&building.ID, &building.CreatedAt, &building.UpdatedAt)
}

func (r *buildingRepository) Update(ctx context.Context, building *domain.Building) error {
	const query = `
        UPDATE buildings SET code=$1, name=$2, type=$3, active=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		building.Code,
		building.Name,
		building.Type,
		building.Active,
		building.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *buildingRepository) GetByID(ctx context.Context, id string) (*domain.Building, error) {
	const query = `SELECT id, code, name, type, active, created_at, updated_at FROM buildings WHERE id=$1`
	return r.fetch(ctx, query, id)
}

func (r *buildingRepository) GetByCode(ctx context.Context, code string) (*domain.Building, error) {
	const query = `SELECT id, code, name, type, active, created_at, updated_at FROM buildings WHERE code=$1`
	return r.fetch(ctx, query, code)
}

func (r *buildingRepository) fetch(ctx context.Context, query string, arg any) (*domain.Building, error) {
	var b domain.Building
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&b.ID, &b.Code, &b.Name, &b.Type, &b.Active, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *buildingRepository) List(ctx context.Context, activeOnly bool) ([]domain.Building, error) {
	query := `SELECT id, code, name, type, active, created_at, updated_at FROM buildings`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY code`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Building
	for rows.Next() {
		var b domain.Building
		if err := rows.Scan(&b.ID, &b.Code, &b.Name, &b.Type, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

func (r *buildingRepository) SetSupervisors(ctx context.Context, buildingID string, staffIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM building_supervisors WHERE building_id=$1`, buildingID); err != nil {
		return err
	}
	for _, staffID := range staffIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO building_supervisors (building_id, staff_id) VALUES ($1,$2)`,
			buildingID, staffID,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *buildingRepository) SupervisorIDs(ctx context.Context, buildingID string) ([]string, error) {
	const query = `SELECT staff_id FROM building_supervisors WHERE building_id=$1`
	return r.stringColumn(ctx, query, buildingID)
}

func (r *buildingRepository) SupervisedBuildingIDs(ctx context.Context, staffID string) ([]string, error) {
	const query = `SELECT building_id FROM building_supervisors WHERE staff_id=$1`
	return r.stringColumn(ctx, query, staffID)
}

func (r *buildingRepository) stringColumn(ctx context.Context, query string, arg any) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	return result, rows.Err()
}
