package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/facilityhub/helpdesk/internal/domain"
	"github.com/facilityhub/helpdesk/internal/events"
	"github.com/facilityhub/helpdesk/internal/policy"
	"github.com/facilityhub/helpdesk/internal/repository"
	apperrors "github.com/facilityhub/helpdesk/pkg/util"
)

// SequenceSource allocates human-facing ticket sequence numbers.
type SequenceSource interface {
	Next(ctx context.Context) (string, error)
}

// TicketService coordinates ticket workflows. Every operation takes the
// acting party explicitly; visibility is computed via policy.ScopeFor before
// any optional filter is applied.
type TicketService struct {
	tickets    repository.TicketRepository
	buildings  repository.BuildingRepository
	categories repository.CategoryRepository
	notes      repository.NoteRepository
	sequences  SequenceSource
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	BuildingRepo repository.BuildingRepository
	CategoryRepo repository.CategoryRepository
	NoteRepo     repository.NoteRepository
	Sequences    SequenceSource
	Dispatcher   events.Dispatcher
	Now          func() time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		buildings:  deps.BuildingRepo,
		categories: deps.CategoryRepo,
		notes:      deps.NoteRepo,
		sequences:  deps.Sequences,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject       string
	Description   string
	Priority      domain.TicketPriority
	Type          domain.TicketType
	BuildingID    *string
	CategoryID    *string
	SubCategoryID *string
	RequesterID   *string
}

// TicketListFilter describes caller-supplied listing filters; the mandatory
// visibility scope is computed from the actor, not taken from the caller.
type TicketListFilter struct {
	Statuses     []domain.TicketStatus
	Priorities   []domain.TicketPriority
	Types        []domain.TicketType
	BuildingIDs  []string
	CategoryIDs  []string
	Escalated    *bool
	SearchTerm   *string
	AssignedOnly bool
	Limit        int
	Offset       int
}

// TicketUpdateInput carries the staff edit form. Nil fields are unchanged.
type TicketUpdateInput struct {
	Subject       *string
	Description   *string
	Status        *domain.TicketStatus
	Priority      *domain.TicketPriority
	Type          *domain.TicketType
	BuildingID    *string
	CategoryID    *string
	SubCategoryID *string
	AssigneeID    *string
	Comment       string
}

// CreateTicket creates a ticket on behalf of the actor. Clients always
// become the requester; staff may create tickets for a named requester.
func (s *TicketService) CreateTicket(ctx context.Context, actor domain.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		Subject:                  strings.TrimSpace(input.Subject),
		Description:              strings.TrimSpace(input.Description),
		Status:                   domain.TicketStatusOpen,
		Priority:                 input.Priority,
		Type:                     input.Type,
		BuildingID:               input.BuildingID,
		CategoryID:               input.CategoryID,
		SubCategoryID:            input.SubCategoryID,
		UserStatus:               domain.PerspectiveOpen,
		CategorySupervisorStatus: domain.PerspectiveOpen,
		BuildingSupervisorStatus: domain.PerspectiveOpen,
	}
	if ticket.Subject == "" {
		return nil, apperrors.NewValidationError("subject required", nil)
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityNormal
	}
	if !ticket.Priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"field": "priority"})
	}
	if ticket.Type == "" {
		ticket.Type = domain.TicketTypeIncident
	}
	if !ticket.Type.Valid() {
		return nil, apperrors.NewValidationError("unknown type", map[string]any{"field": "type"})
	}

	switch actor.Type {
	case domain.SubjectTypeClient:
		requester := actor.ID
		ticket.RequesterID = &requester
	case domain.SubjectTypeStaff:
		ticket.RequesterID = input.RequesterID
	default:
		return nil, apperrors.NewUnauthorized("actor required")
	}

	if err := s.validateTaxonomy(ctx, ticket); err != nil {
		return nil, err
	}

	sequence, err := s.sequences.Next(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.Sequence = sequence

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload: events.TicketCreatedPayload{
			Sequence:   ticket.Sequence,
			BuildingID: ticket.BuildingID,
			CategoryID: ticket.CategoryID,
			Priority:   ticket.Priority,
			Subject:    ticket.Subject,
		},
	})
	return ticket, nil
}

// validateTaxonomy checks building/category references and the invariant
// that a sub-category belongs to the ticket's category.
func (s *TicketService) validateTaxonomy(ctx context.Context, ticket *domain.Ticket) error {
	if ticket.BuildingID != nil {
		building, err := s.buildings.GetByID(ctx, *ticket.BuildingID)
		if err != nil {
			return notFoundOr(err, "building")
		}
		if !building.Active {
			return apperrors.NewValidationError("building inactive", nil)
		}
	}
	if ticket.CategoryID != nil {
		category, err := s.categories.GetByID(ctx, *ticket.CategoryID)
		if err != nil {
			return notFoundOr(err, "category")
		}
		if !category.Active {
			return apperrors.NewValidationError("category inactive", nil)
		}
	}
	if ticket.SubCategoryID != nil {
		if ticket.CategoryID == nil {
			return apperrors.NewValidationError("sub-category requires a category", nil)
		}
		sub, err := s.categories.GetSubCategoryByID(ctx, *ticket.SubCategoryID)
		if err != nil {
			return notFoundOr(err, "sub-category")
		}
		if sub.CategoryID != *ticket.CategoryID {
			return apperrors.NewValidationError("sub-category does not belong to category", nil)
		}
	}
	return nil
}

// ListTickets returns tickets visible to the actor, narrowed by the
// caller's optional filters.
func (s *TicketService) ListTickets(ctx context.Context, actor domain.Actor, filter TicketListFilter) ([]domain.Ticket, error) {
	scope := policy.ScopeFor(actor, policy.EntityTicket)
	if filter.AssignedOnly && actor.IsStaff() {
		scope = scope.AssignedTo(actor.ID)
	}
	if scope.IsEmpty() {
		return []domain.Ticket{}, nil
	}
	repoFilter := repository.TicketFilter{
		Scope:       scope,
		Statuses:    filter.Statuses,
		Priorities:  filter.Priorities,
		Types:       filter.Types,
		BuildingIDs: filter.BuildingIDs,
		CategoryIDs: filter.CategoryIDs,
		Escalated:   filter.Escalated,
		SearchTerm:  filter.SearchTerm,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// DashboardCounts returns per-status ticket counts for the actor's personal
// dashboard. Agents count only their assigned tickets.
func (s *TicketService) DashboardCounts(ctx context.Context, actor domain.Actor) (map[domain.TicketStatus]int, error) {
	scope := policy.ScopeFor(actor, policy.EntityTicket)
	if actor.Role == domain.StaffRoleAgent {
		scope = scope.AssignedTo(actor.ID)
	}
	if scope.IsEmpty() {
		return map[domain.TicketStatus]int{}, nil
	}
	counts, err := s.tickets.CountByStatus(ctx, scope)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return counts, nil
}

// GetTicket fetches a single ticket, enforcing the actor's visibility.
func (s *TicketService) GetTicket(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket")
	}
	if err := policy.Authorize(actor, ticket); err != nil {
		return nil, mapPolicyError(err)
	}
	return ticket, nil
}

// ListNotes returns audit notes for a ticket visible to the actor.
func (s *TicketService) ListNotes(ctx context.Context, actor domain.Actor, ticketID string) ([]domain.TicketNote, error) {
	if _, err := s.GetTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	notes, err := s.notes.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return notes, nil
}

// UpdateTicket applies the staff edit form. A status change goes through the
// transition policy on the standard path: closed tickets reject it.
func (s *TicketService) UpdateTicket(ctx context.Context, actor domain.Actor, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	if !actor.IsStaff() {
		return nil, apperrors.NewForbidden("staff required")
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"field": "status"})
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"field": "priority"})
	}
	if input.Type != nil && !input.Type.Valid() {
		return nil, apperrors.NewValidationError("unknown type", map[string]any{"field": "type"})
	}

	var oldStatus domain.TicketStatus
	ticket, err := s.tickets.MutateByID(ctx, ticketID, func(t *domain.Ticket) error {
		if err := policy.Authorize(actor, t); err != nil {
			return err
		}
		oldStatus = t.Status

		if input.Subject != nil {
			t.Subject = strings.TrimSpace(*input.Subject)
		}
		if input.Description != nil {
			t.Description = strings.TrimSpace(*input.Description)
		}
		if input.Priority != nil {
			t.Priority = *input.Priority
		}
		if input.Type != nil {
			t.Type = *input.Type
		}
		if input.BuildingID != nil {
			t.BuildingID = input.BuildingID
		}
		if input.CategoryID != nil {
			t.CategoryID = input.CategoryID
		}
		if input.SubCategoryID != nil {
			t.SubCategoryID = input.SubCategoryID
		}
		if input.AssigneeID != nil {
			// Empty string clears the assignment.
			if *input.AssigneeID == "" {
				t.AssigneeID = nil
			} else {
				t.AssigneeID = input.AssigneeID
			}
		}
		if input.Status != nil && *input.Status != t.Status {
			if err := policy.Transition(t, *input.Status, policy.ModeStandard, s.now()); err != nil {
				return err
			}
		}
		return s.validateTaxonomy(ctx, t)
	})
	if err != nil {
		return nil, s.mapMutateError(err)
	}

	if input.Status != nil && *input.Status != oldStatus {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			Actor:    eventActor(actor),
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
				Comment:   input.Comment,
			},
		})
	}
	if input.AssigneeID != nil {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			Actor:    eventActor(actor),
			Payload:  events.TicketAssignedPayload{AssigneeStaffID: ticket.AssigneeID},
		})
	}
	return ticket, nil
}

// CloseByRequester closes a ticket on behalf of its requester and records
// the reason as a closure note.
func (s *TicketService) CloseByRequester(ctx context.Context, actor domain.Actor, ticketID, reason string) (*domain.Ticket, error) {
	var oldStatus domain.TicketStatus
	ticket, err := s.tickets.MutateByID(ctx, ticketID, func(t *domain.Ticket) error {
		oldStatus = t.Status
		return policy.CloseByRequester(t, actor, s.now())
	})
	if err != nil {
		return nil, s.mapMutateError(err)
	}

	if reason = strings.TrimSpace(reason); reason != "" {
		note := &domain.TicketNote{
			TicketID: ticket.ID,
			Kind:     domain.NoteKindClosure,
			Body:     reason,
		}
		if err := s.notes.Create(ctx, note); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
			Comment:   "closed by requester",
		},
	})
	return ticket, nil
}

// Escalate marks the ticket urgent and reopens it. The guard and mutation
// run under the ticket's row lock, so a concurrent second caller waits and
// then fails with the already-escalated error.
func (s *TicketService) Escalate(ctx context.Context, actor domain.Actor, sequence, reason string) (*domain.Ticket, error) {
	if !actor.IsStaff() {
		return nil, apperrors.NewForbidden("staff required")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("reason required", map[string]any{"field": "reason"})
	}

	var oldStatus domain.TicketStatus
	ticket, err := s.tickets.MutateBySequence(ctx, sequence, func(t *domain.Ticket) error {
		if err := policy.Authorize(actor, t); err != nil {
			return err
		}
		oldStatus = t.Status
		return policy.Escalate(t, s.now())
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"field": "ticket_sequence", "ticket_sequence": sequence})
		}
		return nil, s.mapMutateError(err)
	}

	staffID := actor.ID
	note := &domain.TicketNote{
		TicketID: ticket.ID,
		AuthorID: &staffID,
		Kind:     domain.NoteKindEscalation,
		Body:     reason,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketEscalated,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload: events.TicketEscalatedPayload{
			Sequence:  ticket.Sequence,
			OldStatus: oldStatus,
			Reason:    reason,
		},
	})
	return ticket, nil
}

// MarkDuplicate links a ticket to the ticket it duplicates. Chains stay one
// level deep: linking to a ticket that is itself a duplicate is rejected.
func (s *TicketService) MarkDuplicate(ctx context.Context, actor domain.Actor, ticketID, duplicateOfSequence string) (*domain.Ticket, error) {
	if !actor.IsStaff() {
		return nil, apperrors.NewForbidden("staff required")
	}
	original, err := s.tickets.GetBySequence(ctx, duplicateOfSequence)
	if err != nil {
		return nil, notFoundOr(err, "ticket")
	}
	if original.DuplicateOfTicketID != nil {
		return nil, apperrors.NewValidationError("target ticket is itself a duplicate", nil)
	}

	ticket, err := s.tickets.MutateByID(ctx, ticketID, func(t *domain.Ticket) error {
		if err := policy.Authorize(actor, t); err != nil {
			return err
		}
		if t.ID == original.ID {
			return apperrors.NewValidationError("ticket cannot duplicate itself", nil)
		}
		t.DuplicateOfTicketID = &original.ID
		return nil
	})
	if err != nil {
		return nil, s.mapMutateError(err)
	}
	return ticket, nil
}

// Verify records a supervisor's verification decision on a resolved ticket.
func (s *TicketService) Verify(ctx context.Context, actor domain.Actor, ticketID string, status domain.VerificationStatus) (*domain.Ticket, error) {
	if actor.Role != domain.StaffRoleBuildingSupervisor &&
		actor.Role != domain.StaffRoleCategorySupervisor &&
		actor.Role != domain.StaffRoleAdmin {
		return nil, apperrors.NewForbidden("supervisor required")
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown verification status", map[string]any{"field": "status"})
	}

	ticket, err := s.tickets.MutateByID(ctx, ticketID, func(t *domain.Ticket) error {
		if err := policy.Authorize(actor, t); err != nil {
			return err
		}
		staffID := actor.ID
		verifiedAt := s.now()
		t.VerifiedByID = &staffID
		t.VerificationStatus = &status
		t.VerifiedAt = &verifiedAt
		return nil
	})
	if err != nil {
		return nil, s.mapMutateError(err)
	}
	return ticket, nil
}

// AcknowledgeClosure records the actor's own perspective status as CLOSED,
// independent of the ticket's overall status.
func (s *TicketService) AcknowledgeClosure(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.MutateByID(ctx, ticketID, func(t *domain.Ticket) error {
		if err := policy.Authorize(actor, t); err != nil {
			return err
		}
		switch {
		case actor.Type == domain.SubjectTypeClient:
			t.UserStatus = domain.PerspectiveClosed
		case actor.Role == domain.StaffRoleCategorySupervisor:
			t.CategorySupervisorStatus = domain.PerspectiveClosed
		case actor.Role == domain.StaffRoleBuildingSupervisor:
			t.BuildingSupervisorStatus = domain.PerspectiveClosed
		default:
			return apperrors.NewForbidden("no closure perspective for this role")
		}
		return nil
	})
	if err != nil {
		return nil, s.mapMutateError(err)
	}
	return ticket, nil
}

func (s *TicketService) mapMutateError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		err = policy.ErrNotFound
	}
	return mapPolicyError(err)
}

// mapPolicyError converts typed policy outcomes into transport errors.
func mapPolicyError(err error) error {
	switch {
	case errors.Is(err, policy.ErrUnauthorized):
		return apperrors.NewForbidden("access denied")
	case errors.Is(err, policy.ErrInvalidTransition):
		return apperrors.NewConflict("closed tickets cannot be edited", map[string]any{"field": "status"})
	case errors.Is(err, policy.ErrAlreadyEscalated):
		return apperrors.NewConflict("ticket already escalated", map[string]any{"field": "ticket_sequence"})
	case errors.Is(err, policy.ErrAlreadyClosed):
		return apperrors.NewConflict("ticket already closed", nil)
	case errors.Is(err, policy.ErrNotFound):
		return apperrors.NewNotFound("ticket", nil)
	default:
		return apperrors.MapError(err)
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func eventActor(actor domain.Actor) events.Actor {
	id := actor.ID
	switch actor.Type {
	case domain.SubjectTypeStaff:
		return events.Actor{Type: actor.Type, StaffID: &id}
	default:
		return events.Actor{Type: actor.Type, ClientID: &id}
	}
}
