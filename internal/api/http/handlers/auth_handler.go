package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/facilityhub/helpdesk/internal/api/dto"
	"github.com/facilityhub/helpdesk/internal/auth"
	"github.com/facilityhub/helpdesk/internal/service"
	apperrors "github.com/facilityhub/helpdesk/pkg/util"
)

// AuthHandler serves registration, login and account endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// RegisterClient POST /auth/clients/register.
func (h *AuthHandler) RegisterClient(c *fiber.Ctx) error {
	var req dto.RegisterClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}
	client, token, expiresAt, err := h.service.RegisterClient(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ClientAuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Client:    dto.NewClientResponse(client),
	}})
}

// UpsertExternalClient POST /auth/clients/external.
//
// Called by the external identity provider integration after it has
// authenticated the person. Creates the local account on first sight.
func (h *AuthHandler) UpsertExternalClient(c *fiber.Ctx) error {
	var req dto.ExternalClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.ExternalID) == "" || strings.TrimSpace(req.Email) == "" {
		return apperrors.NewValidationError("external_id and email required", nil)
	}
	client, token, expiresAt, err := h.service.UpsertExternalClient(c.Context(), req.ExternalID, req.Name, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ClientAuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Client:    dto.NewClientResponse(client),
	}})
}

// LoginClient POST /auth/clients/login.
func (h *AuthHandler) LoginClient(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	client, token, expiresAt, err := h.service.LoginClient(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ClientAuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Client:    dto.NewClientResponse(client),
	}})
}

// LoginStaff POST /auth/staff/login.
func (h *AuthHandler) LoginStaff(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	staff, token, expiresAt, err := h.service.LoginStaff(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StaffAuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Staff:     dto.NewStaffResponse(staff),
	}})
}

// ChangePassword POST /auth/password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	subjectID := ""
	if principal.Client != nil {
		subjectID = principal.Client.ID
	} else if principal.Staff != nil {
		subjectID = principal.Staff.ID
	}
	if err := h.service.ChangePassword(c.Context(), principal.SubjectType, subjectID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Me GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if principal.Client != nil {
		return c.JSON(fiber.Map{"data": dto.NewClientResponse(principal.Client)})
	}
	if principal.Staff != nil {
		return c.JSON(fiber.Map{"data": dto.NewStaffResponse(principal.Staff)})
	}
	return apperrors.NewUnauthorized("authentication required")
}
