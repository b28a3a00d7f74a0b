package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/facilityhub/helpdesk/internal/domain"
	"github.com/facilityhub/helpdesk/internal/events"
	"github.com/facilityhub/helpdesk/internal/policy"
	"github.com/facilityhub/helpdesk/internal/repository"
)

type fakeTicketRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Ticket
	nextID int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{byID: map[string]*domain.Ticket{}}
}

func (r *fakeTicketRepo) add(t *domain.Ticket) *domain.Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == "" {
		r.nextID++
		t.ID = fmt.Sprintf("ticket-%d", r.nextID)
	}
	stored := *t
	r.byID[stored.ID] = &stored
	return t
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.add(ticket)
	return nil
}

func (r *fakeTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *ticket
	r.byID[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeTicketRepo) GetBySequence(ctx context.Context, sequence string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.byID {
		if stored.Sequence == sequence {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Ticket{}
	for _, stored := range r.byID {
		if !filter.Scope.Matches(stored) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, stored.Status) {
			continue
		}
		if filter.Escalated != nil && stored.IsEscalated != *filter.Escalated {
			continue
		}
		out = append(out, *stored)
	}
	return out, nil
}

func (r *fakeTicketRepo) CountByStatus(ctx context.Context, scope policy.Scope) (map[domain.TicketStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[domain.TicketStatus]int{}
	for _, stored := range r.byID {
		if scope.Matches(stored) {
			counts[stored.Status]++
		}
	}
	return counts, nil
}

func (r *fakeTicketRepo) MutateBySequence(ctx context.Context, sequence string, fn func(*domain.Ticket) error) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, stored := range r.byID {
		if stored.Sequence == sequence {
			return r.mutateLocked(id, fn)
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) MutateByID(ctx context.Context, id string, fn func(*domain.Ticket) error) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return nil, pgx.ErrNoRows
	}
	return r.mutateLocked(id, fn)
}

func (r *fakeTicketRepo) mutateLocked(id string, fn func(*domain.Ticket) error) (*domain.Ticket, error) {
	working := *r.byID[id]
	if err := fn(&working); err != nil {
		return nil, err
	}
	stored := working
	r.byID[id] = &stored
	result := working
	return &result, nil
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeNoteRepo struct {
	mu    sync.Mutex
	notes []domain.TicketNote
}

func (r *fakeNoteRepo) Create(ctx context.Context, note *domain.TicketNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	note.ID = fmt.Sprintf("note-%d", len(r.notes)+1)
	r.notes = append(r.notes, *note)
	return nil
}

func (r *fakeNoteRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.TicketNote{}
	for _, n := range r.notes {
		if n.TicketID == ticketID {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeBuildingRepo struct {
	byID        map[string]*domain.Building
	supervisors map[string][]string
}

func newFakeBuildingRepo() *fakeBuildingRepo {
	return &fakeBuildingRepo{byID: map[string]*domain.Building{}, supervisors: map[string][]string{}}
}

func (r *fakeBuildingRepo) Create(ctx context.Context, b *domain.Building) error {
	if b.ID == "" {
		b.ID = fmt.Sprintf("building-%d", len(r.byID)+1)
	}
	stored := *b
	r.byID[b.ID] = &stored
	return nil
}

func (r *fakeBuildingRepo) Update(ctx context.Context, b *domain.Building) error {
	if _, ok := r.byID[b.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *b
	r.byID[b.ID] = &stored
	return nil
}

func (r *fakeBuildingRepo) GetByID(ctx context.Context, id string) (*domain.Building, error) {
	stored, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeBuildingRepo) GetByCode(ctx context.Context, code string) (*domain.Building, error) {
	for _, stored := range r.byID {
		if stored.Code == code {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeBuildingRepo) List(ctx context.Context, activeOnly bool) ([]domain.Building, error) {
	out := []domain.Building{}
	for _, stored := range r.byID {
		if activeOnly && !stored.Active {
			continue
		}
		out = append(out, *stored)
	}
	return out, nil
}

func (r *fakeBuildingRepo) SetSupervisors(ctx context.Context, buildingID string, staffIDs []string) error {
	r.supervisors[buildingID] = append([]string{}, staffIDs...)
	return nil
}

func (r *fakeBuildingRepo) SupervisorIDs(ctx context.Context, buildingID string) ([]string, error) {
	return r.supervisors[buildingID], nil
}

func (r *fakeBuildingRepo) SupervisedBuildingIDs(ctx context.Context, staffID string) ([]string, error) {
	out := []string{}
	for buildingID, staff := range r.supervisors {
		for _, id := range staff {
			if id == staffID {
				out = append(out, buildingID)
			}
		}
	}
	return out, nil
}

type fakeCategoryRepo struct {
	byID    map[string]*domain.Category
	subByID map[string]*domain.SubCategory
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{byID: map[string]*domain.Category{}, subByID: map[string]*domain.SubCategory{}}
}

func (r *fakeCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	if c.ID == "" {
		c.ID = fmt.Sprintf("category-%d", len(r.byID)+1)
	}
	stored := *c
	r.byID[c.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	if _, ok := r.byID[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *c
	r.byID[c.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	stored, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeCategoryRepo) List(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	out := []domain.Category{}
	for _, stored := range r.byID {
		if activeOnly && !stored.Active {
			continue
		}
		out = append(out, *stored)
	}
	return out, nil
}

func (r *fakeCategoryRepo) SupervisedCategoryIDs(ctx context.Context, staffID string) ([]string, error) {
	out := []string{}
	for _, stored := range r.byID {
		if stored.SupervisorID != nil && *stored.SupervisorID == staffID {
			out = append(out, stored.ID)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) CreateSubCategory(ctx context.Context, sub *domain.SubCategory) error {
	if sub.ID == "" {
		sub.ID = fmt.Sprintf("sub-category-%d", len(r.subByID)+1)
	}
	stored := *sub
	r.subByID[sub.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) UpdateSubCategory(ctx context.Context, sub *domain.SubCategory) error {
	if _, ok := r.subByID[sub.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *sub
	r.subByID[sub.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) GetSubCategoryByID(ctx context.Context, id string) (*domain.SubCategory, error) {
	stored, ok := r.subByID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeCategoryRepo) ListSubCategories(ctx context.Context, categoryID string) ([]domain.SubCategory, error) {
	out := []domain.SubCategory{}
	for _, stored := range r.subByID {
		if stored.CategoryID == categoryID {
			out = append(out, *stored)
		}
	}
	return out, nil
}

type fakeSequenceSource struct {
	mu   sync.Mutex
	next int
}

func (s *fakeSequenceSource) Next(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("FMT-%06d", s.next), nil
}

type capturingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *capturingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *capturingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := []events.Event{}
	for _, e := range d.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
