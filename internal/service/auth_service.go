package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/facilityhub/helpdesk/internal/auth"
	"github.com/facilityhub/helpdesk/internal/config"
	"github.com/facilityhub/helpdesk/internal/domain"
	"github.com/facilityhub/helpdesk/internal/repository"
	apperrors "github.com/facilityhub/helpdesk/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	clients    repository.ClientRepository
	staff      repository.StaffRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	ClientRepo repository.ClientRepository
	StaffRepo  repository.StaffRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		clients:    deps.ClientRepo,
		staff:      deps.StaffRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RegisterClient creates a new requester account with local credentials.
func (s *AuthService) RegisterClient(ctx context.Context, name, email, password string) (*domain.Client, string, time.Time, error) {
	if _, err := s.clients.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	client := &domain.Client{
		Name:         name,
		Email:        email,
		PasswordHash: &hash,
		Status:       domain.ClientStatusActive,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(client.ID, domain.SubjectTypeClient, nil)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return client, token, exp, nil
}

// UpsertExternalClient links or creates a requester account from the
// external identity provider. The handshake itself happens upstream; this
// only persists the resulting identity.
func (s *AuthService) UpsertExternalClient(ctx context.Context, externalID, name, email string) (*domain.Client, string, time.Time, error) {
	client, err := s.clients.GetByExternalID(ctx, externalID)
	switch {
	case err == nil:
		client.Name = name
		client.Email = email
		if err := s.clients.Update(ctx, client); err != nil {
			return nil, "", time.Time{}, err
		}
	case err == pgx.ErrNoRows:
		client = &domain.Client{
			Name:       name,
			Email:      email,
			ExternalID: &externalID,
			Status:     domain.ClientStatusActive,
		}
		if err := s.clients.Create(ctx, client); err != nil {
			return nil, "", time.Time{}, err
		}
	default:
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(client.ID, domain.SubjectTypeClient, nil)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return client, token, exp, nil
}

// LoginClient authenticates a requester with local credentials.
func (s *AuthService) LoginClient(ctx context.Context, email, password string) (*domain.Client, string, time.Time, error) {
	client, err := s.clients.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if client.PasswordHash == nil {
		return nil, "", time.Time{}, apperrors.NewValidationError("account uses external sign-in", nil)
	}
	if err := auth.ComparePassword(*client.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(client.ID, domain.SubjectTypeClient, nil)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return client, token, exp, nil
}

// LoginStaff authenticates staff and returns a role-bearing token.
func (s *AuthService) LoginStaff(ctx context.Context, email, password string) (*domain.StaffUser, string, time.Time, error) {
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !staff.Active {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("staff inactive")
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(staff.ID, domain.SubjectTypeStaff, &staff.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return staff, token, exp, nil
}

// ChangePassword verifies the current password before updating to new hash.
func (s *AuthService) ChangePassword(ctx context.Context, subjectType domain.SubjectType, subjectID, currentPassword, newPassword string) error {
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	switch subjectType {
	case domain.SubjectTypeClient:
		client, err := s.clients.GetByID(ctx, subjectID)
		if err != nil {
			return err
		}
		if client.PasswordHash == nil {
			return apperrors.NewValidationError("account uses external sign-in", nil)
		}
		if err := auth.ComparePassword(*client.PasswordHash, currentPassword); err != nil {
			return apperrors.NewUnauthorized("invalid credentials")
		}
		client.PasswordHash = &hash
		return s.clients.Update(ctx, client)
	case domain.SubjectTypeStaff:
		staff, err := s.staff.GetByID(ctx, subjectID)
		if err != nil {
			return err
		}
		if err := auth.ComparePassword(staff.PasswordHash, currentPassword); err != nil {
			return apperrors.NewUnauthorized("invalid credentials")
		}
		staff.PasswordHash = hash
		return s.staff.Update(ctx, staff)
	default:
		return errors.New("unknown subject")
	}
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
