package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/facilityhub/helpdesk/internal/api/dto"
	"github.com/facilityhub/helpdesk/internal/auth"
	"github.com/facilityhub/helpdesk/internal/service"
	apperrors "github.com/facilityhub/helpdesk/pkg/util"
)

// MaterialRequestsHandler manages procurement endpoints for staff.
type MaterialRequestsHandler struct {
	requests  *service.MaterialRequestService
	breakages *service.BreakageService
}

// NewMaterialRequestsHandler constructs handler.
func NewMaterialRequestsHandler(requests *service.MaterialRequestService, breakages *service.BreakageService) *MaterialRequestsHandler {
	return &MaterialRequestsHandler{requests: requests, breakages: breakages}
}

// CreateForTicket POST /staff/tickets/:id/material-requests.
func (h *MaterialRequestsHandler) CreateForTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.CreateMaterialRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	items := make([]service.MaterialItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.MaterialItemInput{
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     item.Unit,
		})
	}
	request, err := h.requests.Create(c.Context(), principal.Actor, c.Params("id"), items)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMaterialRequestResponse(request)})
}

// ListForTicket GET /staff/tickets/:id/material-requests.
func (h *MaterialRequestsHandler) ListForTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	requests, err := h.requests.ListForTicket(c.Context(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMaterialRequestResponses(requests)})
}

// List GET /staff/material-requests.
func (h *MaterialRequestsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	requests, err := h.requests.List(c.Context(), principal.Actor, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMaterialRequestResponses(requests)})
}

// Acknowledge POST /staff/material-requests/:id/acknowledge.
func (h *MaterialRequestsHandler) Acknowledge(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	request, err := h.requests.Acknowledge(c.Context(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMaterialRequestResponse(request)})
}

// CreatePRF POST /staff/material-requests/:id/prf.
func (h *MaterialRequestsHandler) CreatePRF(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	request, err := h.requests.CreatePRF(c.Context(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMaterialRequestResponse(request)})
}

// MarkProcessed POST /staff/material-requests/:id/processed.
func (h *MaterialRequestsHandler) MarkProcessed(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	request, err := h.requests.MarkProcessed(c.Context(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMaterialRequestResponse(request)})
}

// CreateBreakage POST /staff/tickets/:id/breakages.
func (h *MaterialRequestsHandler) CreateBreakage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.CreateBreakageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	breakage, err := h.breakages.Create(c.Context(), principal.Actor, c.Params("id"), service.BreakageInput{
		Description:      req.Description,
		ResponsibleParty: req.ResponsibleParty,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBreakageResponse(breakage)})
}

// ListBreakages GET /staff/tickets/:id/breakages.
func (h *MaterialRequestsHandler) ListBreakages(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	breakages, err := h.breakages.ListForTicket(c.Context(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBreakageResponses(breakages)})
}

// MarkBreakageProcessed POST /staff/breakages/:id/processed.
func (h *MaterialRequestsHandler) MarkBreakageProcessed(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	breakage, err := h.breakages.MarkProcessed(c.Context(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBreakageResponse(breakage)})
}
