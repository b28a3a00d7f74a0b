package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/facilityhub/helpdesk/internal/domain"
	"github.com/facilityhub/helpdesk/internal/policy"
	"github.com/facilityhub/helpdesk/internal/prf"
)

type fakeMaterialRequestRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.MaterialRequest
}

func newFakeMaterialRequestRepo() *fakeMaterialRequestRepo {
	return &fakeMaterialRequestRepo{byID: map[string]*domain.MaterialRequest{}}
}

func (r *fakeMaterialRequestRepo) Create(ctx context.Context, request *domain.MaterialRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	request.ID = fmt.Sprintf("mr-%d", len(r.byID)+1)
	stored := *request
	r.byID[request.ID] = &stored
	return nil
}

func (r *fakeMaterialRequestRepo) Update(ctx context.Context, request *domain.MaterialRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[request.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *request
	r.byID[request.ID] = &stored
	return nil
}

func (r *fakeMaterialRequestRepo) GetByID(ctx context.Context, id string) (*domain.MaterialRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeMaterialRequestRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.MaterialRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.MaterialRequest{}
	for _, stored := range r.byID {
		if stored.TicketID == ticketID {
			out = append(out, *stored)
		}
	}
	return out, nil
}

func (r *fakeMaterialRequestRepo) ListScoped(ctx context.Context, scope policy.Scope, limit, offset int) ([]domain.MaterialRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.MaterialRequest{}
	for _, stored := range r.byID {
		out = append(out, *stored)
	}
	return out, nil
}

type fakePRFGateway struct {
	enabled bool
	calls   int
	fail    error
}

func (g *fakePRFGateway) Enabled() bool { return g.enabled }

func (g *fakePRFGateway) CreateRequest(ctx context.Context, input prf.CreateRequestInput) (*prf.CreateRequestResult, error) {
	g.calls++
	if g.fail != nil {
		return nil, g.fail
	}
	return &prf.CreateRequestResult{PrfNumber: fmt.Sprintf("PRF-%04d", g.calls)}, nil
}

type materialFixture struct {
	svc      *MaterialRequestService
	tickets  *fakeTicketRepo
	requests *fakeMaterialRequestRepo
	gateway  *fakePRFGateway
	ticket   *domain.Ticket
}

func newMaterialFixture() *materialFixture {
	f := &materialFixture{
		tickets:  newFakeTicketRepo(),
		requests: newFakeMaterialRequestRepo(),
		gateway:  &fakePRFGateway{enabled: true},
	}
	f.ticket = f.tickets.add(&domain.Ticket{Sequence: "FMT-000001", Status: domain.TicketStatusOpen})
	f.svc = NewMaterialRequestService(MaterialRequestDependencies{
		RequestRepo: f.requests,
		TicketRepo:  f.tickets,
		PRF:         f.gateway,
		Dispatcher:  &capturingDispatcher{},
		Now:         func() time.Time { return testNow },
	})
	return f
}

func TestMaterialRequestCreateRequiresItems(t *testing.T) {
	f := newMaterialFixture()
	admin := staffActor("admin-1", domain.StaffRoleAdmin)

	_, err := f.svc.Create(context.Background(), admin, f.ticket.ID, nil)
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", code)
	}

	_, err = f.svc.Create(context.Background(), admin, f.ticket.ID, []MaterialItemInput{{Name: "pipe", Quantity: 0}})
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED for non-positive quantity", code)
	}

	request, err := f.svc.Create(context.Background(), admin, f.ticket.ID, []MaterialItemInput{
		{Name: "pipe", Quantity: 2, Unit: "m"},
		{Name: "sealant", Quantity: 1, Unit: "tube"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if request.Status != domain.MaterialRequestCreated || len(request.Items) != 2 {
		t.Fatalf("request = %+v", request)
	}
}

func TestMaterialRequestForwardOnlyWorkflow(t *testing.T) {
	f := newMaterialFixture()
	admin := staffActor("admin-1", domain.StaffRoleAdmin)

	request, err := f.svc.Create(context.Background(), admin, f.ticket.ID, []MaterialItemInput{{Name: "pipe", Quantity: 1, Unit: "m"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	acked, err := f.svc.Acknowledge(context.Background(), admin, request.ID)
	if err != nil {
		t.Fatalf("Acknowledge: %v", err)
	}
	if acked.Status != domain.MaterialRequestAcknowledged {
		t.Fatalf("status = %s", acked.Status)
	}

	// Acknowledging twice would move sideways, not forward.
	_, err = f.svc.Acknowledge(context.Background(), admin, request.ID)
	if code := domainErrCode(t, err); code != "CONFLICT" {
		t.Fatalf("code = %s, want CONFLICT", code)
	}

	withPRF, err := f.svc.CreatePRF(context.Background(), admin, request.ID)
	if err != nil {
		t.Fatalf("CreatePRF: %v", err)
	}
	if withPRF.Status != domain.MaterialRequestPrfCreated {
		t.Fatalf("status = %s", withPRF.Status)
	}
	if withPRF.PrfNumber == nil || *withPRF.PrfNumber != "PRF-0001" {
		t.Fatalf("prf number = %v", withPRF.PrfNumber)
	}
	if f.gateway.calls != 1 {
		t.Fatalf("gateway calls = %d, want 1", f.gateway.calls)
	}

	processed, err := f.svc.MarkProcessed(context.Background(), admin, request.ID)
	if err != nil {
		t.Fatalf("MarkProcessed: %v", err)
	}
	if processed.Status != domain.MaterialRequestPrfProcessed {
		t.Fatalf("status = %s", processed.Status)
	}
	if processed.ProcessedByID == nil || *processed.ProcessedByID != "admin-1" {
		t.Fatalf("processed by = %v", processed.ProcessedByID)
	}

	// Terminal state rejects any further advance.
	_, err = f.svc.Acknowledge(context.Background(), admin, request.ID)
	if code := domainErrCode(t, err); code != "CONFLICT" {
		t.Fatalf("code = %s, want CONFLICT after terminal state", code)
	}
}

func TestMaterialRequestCreatePRFDisabledGateway(t *testing.T) {
	f := newMaterialFixture()
	f.gateway.enabled = false
	admin := staffActor("admin-1", domain.StaffRoleAdmin)

	request, err := f.svc.Create(context.Background(), admin, f.ticket.ID, []MaterialItemInput{{Name: "pipe", Quantity: 1, Unit: "m"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err = f.svc.CreatePRF(context.Background(), admin, request.ID)
	if code := domainErrCode(t, err); code != "CONFLICT" {
		t.Fatalf("code = %s, want CONFLICT when procurement is not configured", code)
	}
	if f.gateway.calls != 0 {
		t.Fatalf("gateway calls = %d, want 0", f.gateway.calls)
	}
}

func TestMaterialRequestScopeThroughTicket(t *testing.T) {
	f := newMaterialFixture()
	foreign := f.tickets.add(&domain.Ticket{Sequence: "FMT-000002", BuildingID: strPtr("b2"), Status: domain.TicketStatusOpen})

	supervisor := domain.Actor{
		Type:                  domain.SubjectTypeStaff,
		ID:                    "staff-1",
		Role:                  domain.StaffRoleBuildingSupervisor,
		SupervisedBuildingIDs: []string{"b1"},
	}
	_, err := f.svc.Create(context.Background(), supervisor, foreign.ID, []MaterialItemInput{{Name: "pipe", Quantity: 1, Unit: "m"}})
	if code := domainErrCode(t, err); code != "FORBIDDEN" {
		t.Fatalf("code = %s, want FORBIDDEN", code)
	}

	_, err = f.svc.Create(context.Background(), domain.ClientActor("client-1"), f.ticket.ID, []MaterialItemInput{{Name: "pipe", Quantity: 1, Unit: "m"}})
	if code := domainErrCode(t, err); code != "FORBIDDEN" {
		t.Fatalf("code = %s, want FORBIDDEN for client", code)
	}
}
