package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/facilityhub/helpdesk/internal/api/dto"
	"github.com/facilityhub/helpdesk/internal/auth"
	"github.com/facilityhub/helpdesk/internal/domain"
	"github.com/facilityhub/helpdesk/internal/service"
	apperrors "github.com/facilityhub/helpdesk/pkg/util"
)

// StaffTicketsHandler manages staff-facing ticket endpoints.
type StaffTicketsHandler struct {
	service *service.TicketService
}

// NewStaffTicketsHandler constructs handler.
func NewStaffTicketsHandler(ticketService *service.TicketService) *StaffTicketsHandler {
	return &StaffTicketsHandler{service: ticketService}
}

// ListTickets GET /staff/tickets.
func (h *StaffTicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	filter := parseTicketQuery(c)
	tickets, err := h.service.ListTickets(c.Context(), principal.Actor, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummaries(tickets)})
}

// DashboardCounts GET /staff/tickets/counts.
func (h *StaffTicketsHandler) DashboardCounts(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	counts, err := h.service.DashboardCounts(c.Context(), principal.Actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": counts})
}

// GetTicket GET /staff/tickets/:id.
func (h *StaffTicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	ticket, err := h.service.GetTicket(c.Context(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}

// ListNotes GET /staff/tickets/:id/notes.
func (h *StaffTicketsHandler) ListNotes(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	notes, err := h.service.ListNotes(c.Context(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketNotes(notes)})
}

// UpdateTicket PATCH /staff/tickets/:id.
func (h *StaffTicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.TicketUpdateInput{
		Subject:       req.Subject,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		Type:          req.Type,
		BuildingID:    req.BuildingID,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		AssigneeID:    req.AssigneeID,
		Comment:       req.Comment,
	}
	ticket, err := h.service.UpdateTicket(c.Context(), principal.Actor, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}

// EscalateTicket POST /staff/tickets/:sequence/escalate.
//
// Escalation is keyed by the human-facing sequence because supervisors work
// from printed reports and dashboards that show sequences, not ids.
func (h *StaffTicketsHandler) EscalateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.EscalateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Escalate(c.Context(), principal.Actor, c.Params("sequence"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}

// MarkDuplicate POST /staff/tickets/:id/duplicate.
func (h *StaffTicketsHandler) MarkDuplicate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.MarkDuplicateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.DuplicateOfSequence) == "" {
		return apperrors.NewValidationError("duplicate_of_sequence required", nil)
	}
	ticket, err := h.service.MarkDuplicate(c.Context(), principal.Actor, c.Params("id"), req.DuplicateOfSequence)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}

// VerifyTicket POST /staff/tickets/:id/verify.
func (h *StaffTicketsHandler) VerifyTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.VerifyTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Verify(c.Context(), principal.Actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}

// AcknowledgeClosure POST /staff/tickets/:id/acknowledge.
func (h *StaffTicketsHandler) AcknowledgeClosure(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	ticket, err := h.service.AcknowledgeClosure(c.Context(), principal.Actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.ToUpper(strings.TrimSpace(part))))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.ToUpper(strings.TrimSpace(part))))
		}
	}
	if typeStr := c.Query("type"); typeStr != "" {
		for _, part := range strings.Split(typeStr, ",") {
			filter.Types = append(filter.Types, domain.TicketType(strings.ToUpper(strings.TrimSpace(part))))
		}
	}
	if buildingStr := c.Query("building_id"); buildingStr != "" {
		filter.BuildingIDs = strings.Split(buildingStr, ",")
	}
	if categoryStr := c.Query("category_id"); categoryStr != "" {
		filter.CategoryIDs = strings.Split(categoryStr, ",")
	}
	if escalatedStr := c.Query("escalated"); escalatedStr != "" {
		if escalated, err := strconv.ParseBool(escalatedStr); err == nil {
			filter.Escalated = &escalated
		}
	}
	if term := strings.TrimSpace(c.Query("q")); term != "" {
		filter.SearchTerm = &term
	}
	if assignedStr := c.Query("assigned"); assignedStr != "" {
		if assigned, err := strconv.ParseBool(assignedStr); err == nil {
			filter.AssignedOnly = assigned
		}
	}
	filter.Limit = c.QueryInt("limit", 50)
	filter.Offset = c.QueryInt("offset", 0)
	return filter
}
