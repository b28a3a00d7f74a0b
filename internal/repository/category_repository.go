package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facilityhub/helpdesk/internal/domain"
)

// CategoryRepository encapsulates category and sub-category persistence.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Category, error)
	SupervisedCategoryIDs(ctx context.Context, staffID string) ([]string, error)

	CreateSubCategory(ctx context.Context, sub *domain.SubCategory) error
	UpdateSubCategory(ctx context.Context, sub *domain.SubCategory) error
	GetSubCategoryByID(ctx context.Context, id string) (*domain.SubCategory, error)
	ListSubCategories(ctx context.Context, categoryID string) ([]domain.SubCategory, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository instantiates repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO categories (name, active, supervisor_staff_id)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		category.Name,
		category.Active,
		category.SupervisorID,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	const query = `
        UPDATE categories SET name=$1, active=$2, supervisor_staff_id=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		category.Name,
		category.Active,
		category.SupervisorID,
		category.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	const query = `SELECT id, name, active, supervisor_staff_id, created_at, updated_at FROM categories WHERE id=$1`
	var c domain.Category
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Active, &c.SupervisorID, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) List(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	query := `SELECT id, name, active, supervisor_staff_id, created_at, updated_at FROM categories`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Active, &c.SupervisorID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *categoryRepository) SupervisedCategoryIDs(ctx context.Context, staffID string) ([]string, error) {
	const query = `SELECT id FROM categories WHERE supervisor_staff_id=$1`
	rows, err := r.pool.Query(ctx, query, staffID)
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

func (r *categoryRepository) CreateSubCategory(ctx context.Context, sub *domain.SubCategory) error {
	const query = `
        INSERT INTO sub_categories (category_id, name, active)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		sub.CategoryID,
		sub.Name,
		sub.Active,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
}

func (r *categoryRepository) UpdateSubCategory(ctx context.Context, sub *domain.SubCategory) error {
	const query = `
        UPDATE sub_categories SET name=$1, active=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, sub.Name, sub.Active, sub.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) GetSubCategoryByID(ctx context.Context, id string) (*domain.SubCategory, error) {
	const query = `SELECT id, category_id, name, active, created_at, updated_at FROM sub_categories WHERE id=$1`
	var s domain.SubCategory
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.CategoryID, &s.Name, &s.Active, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *categoryRepository) ListSubCategories(ctx context.Context, categoryID string) ([]domain.SubCategory, error) {
	const query = `SELECT id, category_id, name, active, created_at, updated_at
        FROM sub_categories WHERE category_id=$1 ORDER BY name`

	rows, err := r.pool.Query(ctx, query, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SubCategory
	for rows.Next() {
		var s domain.SubCategory
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
