package service

import (
	"context"
	"strings"

	"github.com/facilityhub/helpdesk/internal/domain"
	"github.com/facilityhub/helpdesk/internal/policy"
	"github.com/facilityhub/helpdesk/internal/repository"
	apperrors "github.com/facilityhub/helpdesk/pkg/util"
)

// BreakageService records damage attributed to responsible parties on
// tickets. Visibility follows the owning ticket's scope.
type BreakageService struct {
	breakages repository.BreakageRepository
	tickets   repository.TicketRepository
}

// NewBreakageService constructs the service.
func NewBreakageService(breakages repository.BreakageRepository, tickets repository.TicketRepository) *BreakageService {
	return &BreakageService{breakages: breakages, tickets: tickets}
}

// BreakageInput describes a breakage record.
type BreakageInput struct {
	Description      string
	ResponsibleParty string
}

// Create records a breakage against a ticket the actor can see.
func (s *BreakageService) Create(ctx context.Context, actor domain.Actor, ticketID string, input BreakageInput) (*domain.Breakage, error) {
	if !actor.IsStaff() {
		return nil, apperrors.NewForbidden("staff required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("description required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket")
	}
	if err := policy.Authorize(actor, ticket); err != nil {
		return nil, mapPolicyError(err)
	}

	breakage := &domain.Breakage{
		TicketID:         ticket.ID,
		Description:      strings.TrimSpace(input.Description),
		ResponsibleParty: strings.TrimSpace(input.ResponsibleParty),
	}
	if err := s.breakages.Create(ctx, breakage); err != nil {
		return nil, apperrors.MapError(err)
	}
	return breakage, nil
}

// ListForTicket returns a ticket's breakage records, visibility-checked.
func (s *BreakageService) ListForTicket(ctx context.Context, actor domain.Actor, ticketID string) ([]domain.Breakage, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket")
	}
	if err := policy.Authorize(actor, ticket); err != nil {
		return nil, mapPolicyError(err)
	}
	breakages, err := s.breakages.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return breakages, nil
}

// MarkProcessed flags a breakage record as handled.
func (s *BreakageService) MarkProcessed(ctx context.Context, actor domain.Actor, breakageID string) (*domain.Breakage, error) {
	if !actor.IsStaff() {
		return nil, apperrors.NewForbidden("staff required")
	}
	breakage, err := s.breakages.GetByID(ctx, breakageID)
	if err != nil {
		return nil, notFoundOr(err, "breakage")
	}
	ticket, err := s.tickets.GetByID(ctx, breakage.TicketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket")
	}
	if err := policy.Authorize(actor, ticket); err != nil {
		return nil, mapPolicyError(err)
	}
	breakage.Processed = true
	if err := s.breakages.Update(ctx, breakage); err != nil {
		return nil, apperrors.MapError(err)
	}
	return breakage, nil
}
