package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/facilityhub/helpdesk/internal/domain"
	"github.com/facilityhub/helpdesk/internal/events"
	"github.com/facilityhub/helpdesk/internal/policy"
	"github.com/facilityhub/helpdesk/internal/prf"
	"github.com/facilityhub/helpdesk/internal/repository"
	apperrors "github.com/facilityhub/helpdesk/pkg/util"
)

// PRFGateway raises purchase request forms with the procurement service.
type PRFGateway interface {
	Enabled() bool
	CreateRequest(ctx context.Context, input prf.CreateRequestInput) (*prf.CreateRequestResult, error)
}

// MaterialRequestService manages procurement requests raised against
// tickets. Visibility follows the owning ticket's scope.
type MaterialRequestService struct {
	requests   repository.MaterialRequestRepository
	tickets    repository.TicketRepository
	prf        PRFGateway
	dispatcher events.Dispatcher
	now        func() time.Time
}

// MaterialRequestDependencies bundles collaborators.
type MaterialRequestDependencies struct {
	RequestRepo repository.MaterialRequestRepository
	TicketRepo  repository.TicketRepository
	PRF         PRFGateway
	Dispatcher  events.Dispatcher
	Now         func() time.Time
}

// NewMaterialRequestService constructs the service.
func NewMaterialRequestService(deps MaterialRequestDependencies) *MaterialRequestService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &MaterialRequestService{
		requests:   deps.RequestRepo,
		tickets:    deps.TicketRepo,
		prf:        deps.PRF,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// MaterialItemInput is one requested line.
type MaterialItemInput struct {
	Name     string
	Quantity float64
	Unit     string
}

// Create raises a material request for a ticket the actor can see.
func (s *MaterialRequestService) Create(ctx context.Context, actor domain.Actor, ticketID string, items []MaterialItemInput) (*domain.MaterialRequest, error) {
	if !actor.IsStaff() {
		return nil, apperrors.NewForbidden("staff required")
	}
	if len(items) == 0 {
		return nil, apperrors.NewValidationError("at least one item required", nil)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket")
	}
	if err := policy.Authorize(actor, ticket); err != nil {
		return nil, mapPolicyError(err)
	}

	request := &domain.MaterialRequest{
		TicketID:    ticket.ID,
		CreatedByID: actor.ID,
		Status:      domain.MaterialRequestCreated,
	}
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" || item.Quantity <= 0 {
			return nil, apperrors.NewValidationError("item name and positive quantity required", nil)
		}
		request.Items = append(request.Items, domain.MaterialRequestItem{
			Name:     name,
			Quantity: item.Quantity,
			Unit:     strings.TrimSpace(item.Unit),
		})
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, actor, events.Event{
		Type:     events.EventMaterialRequestCreated,
		TicketID: ticket.ID,
		Payload: events.MaterialRequestCreatedPayload{
			MaterialRequestID: request.ID,
			ItemCount:         len(request.Items),
		},
	})
	return request, nil
}

// List returns material requests the actor may see, scoped through the
// owning tickets.
func (s *MaterialRequestService) List(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.MaterialRequest, error) {
	scope := policy.ScopeFor(actor, policy.EntityMaterialRequest)
	if scope.IsEmpty() {
		return []domain.MaterialRequest{}, nil
	}
	requests, err := s.requests.ListScoped(ctx, scope, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return requests, nil
}

// ListForTicket returns a ticket's material requests, visibility-checked.
func (s *MaterialRequestService) ListForTicket(ctx context.Context, actor domain.Actor, ticketID string) ([]domain.MaterialRequest, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket")
	}
	if err := policy.Authorize(actor, ticket); err != nil {
		return nil, mapPolicyError(err)
	}
	requests, err := s.requests.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return requests, nil
}

// Acknowledge moves a request from CREATED to ACKNOWLEDGED.
func (s *MaterialRequestService) Acknowledge(ctx context.Context, actor domain.Actor, requestID string) (*domain.MaterialRequest, error) {
	return s.advance(ctx, actor, requestID, domain.MaterialRequestAcknowledged, nil)
}

// CreatePRF raises a purchase request form with the procurement service and
// advances the request to PRF_CREATED.
func (s *MaterialRequestService) CreatePRF(ctx context.Context, actor domain.Actor, requestID string) (*domain.MaterialRequest, error) {
	if !actor.IsStaff() {
		return nil, apperrors.NewForbidden("staff required")
	}
	if s.prf == nil || !s.prf.Enabled() {
		return nil, apperrors.NewConflict("procurement integration not configured", nil)
	}

	request, ticket, err := s.loadAuthorized(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}
	if !request.Status.CanAdvanceTo(domain.MaterialRequestPrfCreated) {
		return nil, apperrors.NewConflict("material request cannot move to PRF_CREATED", map[string]any{"status": request.Status})
	}

	result, err := s.prf.CreateRequest(ctx, prf.CreateRequestInput{
		TicketSequence: ticket.Sequence,
		RequestedBy:    actor.ID,
		Items:          prf.ItemsFromRequest(request),
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.advance(ctx, actor, requestID, domain.MaterialRequestPrfCreated, &result.PrfNumber)
}

// MarkProcessed finishes the workflow once procurement has handled the PRF.
func (s *MaterialRequestService) MarkProcessed(ctx context.Context, actor domain.Actor, requestID string) (*domain.MaterialRequest, error) {
	return s.advance(ctx, actor, requestID, domain.MaterialRequestPrfProcessed, nil)
}

// advance moves the request forward, enforcing the forward-only workflow.
func (s *MaterialRequestService) advance(ctx context.Context, actor domain.Actor, requestID string, next domain.MaterialRequestStatus, prfNumber *string) (*domain.MaterialRequest, error) {
	if !actor.IsStaff() {
		return nil, apperrors.NewForbidden("staff required")
	}
	request, ticket, err := s.loadAuthorized(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}
	if !request.Status.CanAdvanceTo(next) {
		return nil, apperrors.NewConflict("material request status can only advance", map[string]any{
			"status": request.Status,
			"next":   next,
		})
	}

	oldStatus := request.Status
	request.Status = next
	if prfNumber != nil {
		request.PrfNumber = prfNumber
	}
	staffID := actor.ID
	request.ProcessedByID = &staffID
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, actor, events.Event{
		Type:     events.EventMaterialRequestProgress,
		TicketID: ticket.ID,
		Payload: events.MaterialRequestProgressPayload{
			MaterialRequestID: request.ID,
			OldStatus:         oldStatus,
			NewStatus:         next,
			PrfNumber:         request.PrfNumber,
		},
	})
	return request, nil
}

func (s *MaterialRequestService) loadAuthorized(ctx context.Context, actor domain.Actor, requestID string) (*domain.MaterialRequest, *domain.Ticket, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, notFoundOr(err, "material request")
	}
	ticket, err := s.tickets.GetByID(ctx, request.TicketID)
	if err != nil {
		return nil, nil, notFoundOr(err, "ticket")
	}
	if err := policy.Authorize(actor, ticket); err != nil {
		return nil, nil, mapPolicyError(err)
	}
	return request, ticket, nil
}

func (s *MaterialRequestService) publish(ctx context.Context, actor domain.Actor, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now()
	event.Actor = eventActor(actor)
	_ = s.dispatcher.Publish(ctx, event)
}
