package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facilityhub/helpdesk/internal/domain"
)

// ClientRepository encapsulates requester account persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Client, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository instantiates repository.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (name, email, password_hash, external_id, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		client.Name,
		client.Email,
		client.PasswordHash,
		client.ExternalID,
		client.Status,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	const query = `
        UPDATE clients SET name=$1, email=$2, password_hash=$3, external_id=$4, status=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		client.Name,
		client.Email,
		client.PasswordHash,
		client.ExternalID,
		client.Status,
		client.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const clientColumns = `id, name, email, password_hash, external_id, status, created_at, updated_at`

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	return r.fetch(ctx, `SELECT `+clientColumns+` FROM clients WHERE id=$1`, id)
}

func (r *clientRepository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	return r.fetch(ctx, `SELECT `+clientColumns+` FROM clients WHERE email=$1`, email)
}

func (r *clientRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Client, error) {
	return r.fetch(ctx, `SELECT `+clientColumns+` FROM clients WHERE external_id=$1`, externalID)
}

func (r *clientRepository) fetch(ctx context.Context, query string, arg any) (*domain.Client, error) {
	var c domain.Client
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.ExternalID, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
