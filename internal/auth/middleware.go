package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/facilityhub/helpdesk/internal/domain"
	"github.com/facilityhub/helpdesk/internal/repository"
	apperrors "github.com/facilityhub/helpdesk/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. Actor carries the resolved
// supervision sets, so downstream policy checks never hit storage.
type Principal struct {
	SubjectType domain.SubjectType
	Client      *domain.Client
	Staff       *domain.StaffUser
	Actor       domain.Actor
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens     *TokenManager
	clients    repository.ClientRepository
	staff      repository.StaffRepository
	buildings  repository.BuildingRepository
	categories repository.CategoryRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(
	tokens *TokenManager,
	clients repository.ClientRepository,
	staff repository.StaffRepository,
	buildings repository.BuildingRepository,
	categories repository.CategoryRepository,
) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:     tokens,
		clients:    clients,
		staff:      staff,
		buildings:  buildings,
		categories: categories,
	}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	principal := &Principal{SubjectType: claims.Subject}

	switch claims.Subject {
	case domain.SubjectTypeClient:
		client, err := m.clients.GetByID(c.Context(), claims.SubjectID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewUnauthorized("client not found")
			}
			return apperrors.MapError(err)
		}
		principal.Client = client
		principal.Actor = domain.ClientActor(client.ID)
	case domain.SubjectTypeStaff:
		staff, err := m.staff.GetByID(c.Context(), claims.SubjectID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewUnauthorized("staff not found")
			}
			return apperrors.MapError(err)
		}
		if !staff.Active {
			return apperrors.NewUnauthorized("staff inactive")
		}
		actor, err := m.resolveStaffActor(c, staff)
		if err != nil {
			return apperrors.MapError(err)
		}
		principal.Staff = staff
		principal.Actor = actor
	default:
		return apperrors.NewUnauthorized("unknown subject")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// resolveStaffActor loads the supervision sets relevant to the staff role.
func (m *AuthMiddleware) resolveStaffActor(c *fiber.Ctx, staff *domain.StaffUser) (domain.Actor, error) {
	var buildingIDs, categoryIDs []string
	var err error

	switch staff.Role {
	case domain.StaffRoleBuildingSupervisor:
		buildingIDs, err = m.buildings.SupervisedBuildingIDs(c.Context(), staff.ID)
		if err != nil {
			return domain.Actor{}, err
		}
	case domain.StaffRoleCategorySupervisor:
		categoryIDs, err = m.categories.SupervisedCategoryIDs(c.Context(), staff.ID)
		if err != nil {
			return domain.Actor{}, err
		}
	}
	return domain.StaffActor(staff, buildingIDs, categoryIDs), nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
