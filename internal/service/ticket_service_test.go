package service

import (
	"context"
	"testing"
	"time"

	"github.com/facilityhub/helpdesk/internal/domain"
	"github.com/facilityhub/helpdesk/internal/events"
	apperrors "github.com/facilityhub/helpdesk/pkg/util"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type ticketFixture struct {
	svc        *TicketService
	tickets    *fakeTicketRepo
	notes      *fakeNoteRepo
	buildings  *fakeBuildingRepo
	categories *fakeCategoryRepo
	dispatcher *capturingDispatcher
}

func newTicketFixture() *ticketFixture {
	f := &ticketFixture{
		tickets:    newFakeTicketRepo(),
		notes:      &fakeNoteRepo{},
		buildings:  newFakeBuildingRepo(),
		categories: newFakeCategoryRepo(),
		dispatcher: &capturingDispatcher{},
	}
	f.svc = NewTicketService(TicketDependencies{
		TicketRepo:   f.tickets,
		BuildingRepo: f.buildings,
		CategoryRepo: f.categories,
		NoteRepo:     f.notes,
		Sequences:    &fakeSequenceSource{},
		Dispatcher:   f.dispatcher,
		Now:          func() time.Time { return testNow },
	})
	return f
}

func strPtr(s string) *string { return &s }

func staffActor(id string, role domain.StaffRole) domain.Actor {
	return domain.Actor{Type: domain.SubjectTypeStaff, ID: id, Role: role}
}

func domainErrCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	return apperrors.ToDomainError(err).Code
}

func TestCreateTicketClientBecomesRequester(t *testing.T) {
	f := newTicketFixture()

	ticket, err := f.svc.CreateTicket(context.Background(), domain.ClientActor("client-1"), TicketCreateInput{
		Subject:     "Leaking pipe",
		Description: "Water under the sink in room 204",
		RequesterID: strPtr("someone-else"),
	})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if ticket.RequesterID == nil || *ticket.RequesterID != "client-1" {
		t.Fatalf("requester = %v, want client-1", ticket.RequesterID)
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Fatalf("status = %s, want OPEN", ticket.Status)
	}
	if ticket.Sequence != "FMT-000001" {
		t.Fatalf("sequence = %s, want FMT-000001", ticket.Sequence)
	}
	if created := f.dispatcher.byType(events.EventTicketCreated); len(created) != 1 {
		t.Fatalf("created events = %d, want 1", len(created))
	}
}

func TestCreateTicketRejectsForeignSubCategory(t *testing.T) {
	f := newTicketFixture()
	cat := &domain.Category{Name: "Electrical", Active: true}
	other := &domain.Category{Name: "Plumbing", Active: true}
	_ = f.categories.Create(context.Background(), cat)
	_ = f.categories.Create(context.Background(), other)
	sub := &domain.SubCategory{CategoryID: other.ID, Name: "Drains", Active: true}
	_ = f.categories.CreateSubCategory(context.Background(), sub)

	_, err := f.svc.CreateTicket(context.Background(), domain.ClientActor("client-1"), TicketCreateInput{
		Subject:       "Outlet sparks",
		Description:   "Socket in the kitchen",
		CategoryID:    &cat.ID,
		SubCategoryID: &sub.ID,
	})
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", code)
	}
}

func TestListTicketsClientSeesOnlyOwn(t *testing.T) {
	f := newTicketFixture()
	f.tickets.add(&domain.Ticket{Sequence: "FMT-000001", RequesterID: strPtr("client-1"), Status: domain.TicketStatusOpen})
	f.tickets.add(&domain.Ticket{Sequence: "FMT-000002", RequesterID: strPtr("client-2"), Status: domain.TicketStatusOpen})
	f.tickets.add(&domain.Ticket{Sequence: "FMT-000003", RequesterID: nil, Status: domain.TicketStatusOpen})

	tickets, err := f.svc.ListTickets(context.Background(), domain.ClientActor("client-1"), TicketListFilter{})
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(tickets) != 1 || *tickets[0].RequesterID != "client-1" {
		t.Fatalf("tickets = %+v, want exactly client-1's ticket", tickets)
	}
}

func TestListTicketsRolelessStaffSeesNothing(t *testing.T) {
	f := newTicketFixture()
	f.tickets.add(&domain.Ticket{Sequence: "FMT-000001", Status: domain.TicketStatusOpen})

	tickets, err := f.svc.ListTickets(context.Background(), domain.Actor{Type: domain.SubjectTypeStaff, ID: "staff-1"}, TicketListFilter{})
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(tickets) != 0 {
		t.Fatalf("tickets = %d, want 0 for roleless staff", len(tickets))
	}
}

func TestListTicketsBuildingSupervisorScope(t *testing.T) {
	f := newTicketFixture()
	f.tickets.add(&domain.Ticket{Sequence: "FMT-000001", BuildingID: strPtr("b1"), Status: domain.TicketStatusOpen})
	f.tickets.add(&domain.Ticket{Sequence: "FMT-000002", BuildingID: strPtr("b2"), Status: domain.TicketStatusOpen})
	f.tickets.add(&domain.Ticket{Sequence: "FMT-000003", Status: domain.TicketStatusOpen})

	supervisor := domain.Actor{
		Type:                  domain.SubjectTypeStaff,
		ID:                    "staff-1",
		Role:                  domain.StaffRoleBuildingSupervisor,
		SupervisedBuildingIDs: []string{"b1"},
	}
	tickets, err := f.svc.ListTickets(context.Background(), supervisor, TicketListFilter{})
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(tickets) != 1 || *tickets[0].BuildingID != "b1" {
		t.Fatalf("tickets = %+v, want only b1", tickets)
	}

	// A supervisor with no assigned buildings sees the empty set, not all rows.
	unassigned := domain.Actor{Type: domain.SubjectTypeStaff, ID: "staff-2", Role: domain.StaffRoleBuildingSupervisor}
	tickets, err = f.svc.ListTickets(context.Background(), unassigned, TicketListFilter{})
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(tickets) != 0 {
		t.Fatalf("tickets = %d, want 0 for unassigned supervisor", len(tickets))
	}
}

func TestDashboardCountsAgentOnlyAssigned(t *testing.T) {
	f := newTicketFixture()
	f.tickets.add(&domain.Ticket{Sequence: "FMT-000001", AssigneeID: strPtr("agent-1"), Status: domain.TicketStatusOpen})
	f.tickets.add(&domain.Ticket{Sequence: "FMT-000002", AssigneeID: strPtr("agent-2"), Status: domain.TicketStatusOpen})
	f.tickets.add(&domain.Ticket{Sequence: "FMT-000003", AssigneeID: strPtr("agent-1"), Status: domain.TicketStatusResolved})

	counts, err := f.svc.DashboardCounts(context.Background(), staffActor("agent-1", domain.StaffRoleAgent))
	if err != nil {
		t.Fatalf("DashboardCounts: %v", err)
	}
	if counts[domain.TicketStatusOpen] != 1 || counts[domain.TicketStatusResolved] != 1 {
		t.Fatalf("counts = %v, want one OPEN and one RESOLVED", counts)
	}
}

func TestUpdateTicketClosedRejectsStandardEdit(t *testing.T) {
	f := newTicketFixture()
	closing := testNow.Add(-24 * time.Hour)
	ticket := f.tickets.add(&domain.Ticket{
		Sequence:    "FMT-000001",
		Subject:     "Broken window",
		Status:      domain.TicketStatusClosed,
		ClosingDate: &closing,
	})

	open := domain.TicketStatusOpen
	_, err := f.svc.UpdateTicket(context.Background(), staffActor("admin-1", domain.StaffRoleAdmin), ticket.ID, TicketUpdateInput{
		Status: &open,
	})
	if code := domainErrCode(t, err); code != "CONFLICT" {
		t.Fatalf("code = %s, want CONFLICT", code)
	}

	stored, _ := f.tickets.GetByID(context.Background(), ticket.ID)
	if stored.Status != domain.TicketStatusClosed || stored.ClosingDate == nil {
		t.Fatalf("closed ticket mutated by rejected edit: %+v", stored)
	}
}

func TestUpdateTicketStampsClosingDate(t *testing.T) {
	f := newTicketFixture()
	ticket := f.tickets.add(&domain.Ticket{Sequence: "FMT-000001", Subject: "Dead light", Status: domain.TicketStatusResolved})

	closed := domain.TicketStatusClosed
	updated, err := f.svc.UpdateTicket(context.Background(), staffActor("admin-1", domain.StaffRoleAdmin), ticket.ID, TicketUpdateInput{
		Status: &closed,
	})
	if err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	if updated.ClosingDate == nil || !updated.ClosingDate.Equal(testNow) {
		t.Fatalf("closing date = %v, want %v", updated.ClosingDate, testNow)
	}
	if changed := f.dispatcher.byType(events.EventTicketStatusChanged); len(changed) != 1 {
		t.Fatalf("status change events = %d, want 1", len(changed))
	}
}

func TestUpdateTicketNonStatusEditKeepsClosingDate(t *testing.T) {
	f := newTicketFixture()
	ticket := f.tickets.add(&domain.Ticket{Sequence: "FMT-000001", Subject: "Old subject", Status: domain.TicketStatusOpen})

	updated, err := f.svc.UpdateTicket(context.Background(), staffActor("admin-1", domain.StaffRoleAdmin), ticket.ID, TicketUpdateInput{
		Subject: strPtr("New subject"),
	})
	if err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	if updated.ClosingDate != nil {
		t.Fatalf("closing date = %v, want nil on a non-status edit", updated.ClosingDate)
	}
	if updated.Subject != "New subject" {
		t.Fatalf("subject = %s", updated.Subject)
	}
}

func TestUpdateTicketScopeDenied(t *testing.T) {
	f := newTicketFixture()
	ticket := f.tickets.add(&domain.Ticket{Sequence: "FMT-000001", BuildingID: strPtr("b2"), Status: domain.TicketStatusOpen})

	supervisor := domain.Actor{
		Type:                  domain.SubjectTypeStaff,
		ID:                    "staff-1",
		Role:                  domain.StaffRoleBuildingSupervisor,
		SupervisedBuildingIDs: []string{"b1"},
	}
	_, err := f.svc.UpdateTicket(context.Background(), supervisor, ticket.ID, TicketUpdateInput{Subject: strPtr("x")})
	if code := domainErrCode(t, err); code != "FORBIDDEN" {
		t.Fatalf("code = %s, want FORBIDDEN", code)
	}
}

func TestCloseByRequester(t *testing.T) {
	f := newTicketFixture()
	ticket := f.tickets.add(&domain.Ticket{
		Sequence:    "FMT-000001",
		RequesterID: strPtr("client-1"),
		Status:      domain.TicketStatusResolved,
		UserStatus:  domain.PerspectiveOpen,
	})

	closed, err := f.svc.CloseByRequester(context.Background(), domain.ClientActor("client-1"), ticket.ID, "fixed, thanks")
	if err != nil {
		t.Fatalf("CloseByRequester: %v", err)
	}
	if closed.Status != domain.TicketStatusClosed {
		t.Fatalf("status = %s, want CLOSED", closed.Status)
	}
	if closed.ClosingDate == nil || !closed.ClosingDate.Equal(testNow) {
		t.Fatalf("closing date = %v, want %v", closed.ClosingDate, testNow)
	}
	if closed.UserStatus != domain.PerspectiveClosed {
		t.Fatalf("user status = %s, want CLOSED", closed.UserStatus)
	}
	notes, _ := f.notes.ListByTicket(context.Background(), ticket.ID)
	if len(notes) != 1 || notes[0].Kind != domain.NoteKindClosure {
		t.Fatalf("notes = %+v, want one closure note", notes)
	}

	// Closing again is rejected.
	_, err = f.svc.CloseByRequester(context.Background(), domain.ClientActor("client-1"), ticket.ID, "")
	if code := domainErrCode(t, err); code != "CONFLICT" {
		t.Fatalf("code = %s, want CONFLICT", code)
	}
}

func TestCloseByRequesterForeignClientDenied(t *testing.T) {
	f := newTicketFixture()
	ticket := f.tickets.add(&domain.Ticket{Sequence: "FMT-000001", RequesterID: strPtr("client-1"), Status: domain.TicketStatusOpen})

	_, err := f.svc.CloseByRequester(context.Background(), domain.ClientActor("client-2"), ticket.ID, "")
	if code := domainErrCode(t, err); code != "FORBIDDEN" {
		t.Fatalf("code = %s, want FORBIDDEN", code)
	}
}

func TestEscalateFromResolved(t *testing.T) {
	f := newTicketFixture()
	f.tickets.add(&domain.Ticket{
		Sequence: "FMT-000042",
		Status:   domain.TicketStatusResolved,
		Priority: domain.TicketPriorityLow,
	})

	ticket, err := f.svc.Escalate(context.Background(), staffActor("admin-1", domain.StaffRoleAdmin), "FMT-000042", "requester called twice")
	if err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Fatalf("status = %s, want OPEN", ticket.Status)
	}
	if ticket.Priority != domain.TicketPriorityUrgent {
		t.Fatalf("priority = %s, want URGENT", ticket.Priority)
	}
	if !ticket.IsEscalated {
		t.Fatal("is_escalated not set")
	}
	notes, _ := f.notes.ListByTicket(context.Background(), ticket.ID)
	if len(notes) != 1 || notes[0].Kind != domain.NoteKindEscalation || notes[0].Body != "requester called twice" {
		t.Fatalf("notes = %+v, want one escalation note", notes)
	}
	if escalated := f.dispatcher.byType(events.EventTicketEscalated); len(escalated) != 1 {
		t.Fatalf("escalated events = %d, want 1", len(escalated))
	}
}

func TestEscalateSecondCallRejectedWithoutMutation(t *testing.T) {
	f := newTicketFixture()
	f.tickets.add(&domain.Ticket{Sequence: "FMT-000042", Status: domain.TicketStatusPending})

	admin := staffActor("admin-1", domain.StaffRoleAdmin)
	first, err := f.svc.Escalate(context.Background(), admin, "FMT-000042", "no response")
	if err != nil {
		t.Fatalf("first Escalate: %v", err)
	}

	_, err = f.svc.Escalate(context.Background(), admin, "FMT-000042", "still nothing")
	if code := domainErrCode(t, err); code != "CONFLICT" {
		t.Fatalf("code = %s, want CONFLICT", code)
	}

	stored, _ := f.tickets.GetByID(context.Background(), first.ID)
	if *stored != *first {
		t.Fatalf("rejected escalation mutated the ticket:\n got %+v\nwant %+v", stored, first)
	}
	notes, _ := f.notes.ListByTicket(context.Background(), first.ID)
	if len(notes) != 1 {
		t.Fatalf("notes = %d, want 1; the rejected call must not add a note", len(notes))
	}
}

func TestEscalateValidation(t *testing.T) {
	f := newTicketFixture()
	f.tickets.add(&domain.Ticket{Sequence: "FMT-000042", Status: domain.TicketStatusOpen})

	if _, err := f.svc.Escalate(context.Background(), domain.ClientActor("client-1"), "FMT-000042", "please"); err == nil {
		t.Fatal("client escalation accepted")
	}

	_, err := f.svc.Escalate(context.Background(), staffActor("admin-1", domain.StaffRoleAdmin), "FMT-000042", "   ")
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", code)
	}

	_, err = f.svc.Escalate(context.Background(), staffActor("admin-1", domain.StaffRoleAdmin), "FMT-999999", "missing")
	domainErr := apperrors.ToDomainError(err)
	if domainErr.Code != "NOT_FOUND" {
		t.Fatalf("code = %s, want NOT_FOUND", domainErr.Code)
	}
	if domainErr.Details["field"] != "ticket_sequence" {
		t.Fatalf("details = %v, want ticket_sequence field", domainErr.Details)
	}
}

func TestEscalateFromClosedClearsClosingDate(t *testing.T) {
	f := newTicketFixture()
	closing := testNow.Add(-48 * time.Hour)
	f.tickets.add(&domain.Ticket{
		Sequence:    "FMT-000042",
		Status:      domain.TicketStatusClosed,
		ClosingDate: &closing,
	})

	ticket, err := f.svc.Escalate(context.Background(), staffActor("admin-1", domain.StaffRoleAdmin), "FMT-000042", "closed in error")
	if err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Fatalf("status = %s, want OPEN", ticket.Status)
	}
	if ticket.ClosingDate != nil {
		t.Fatalf("closing date = %v, want nil after reopen", ticket.ClosingDate)
	}
}

func TestMarkDuplicateRejectsChains(t *testing.T) {
	f := newTicketFixture()
	original := f.tickets.add(&domain.Ticket{Sequence: "FMT-000001", Status: domain.TicketStatusOpen})
	dup := f.tickets.add(&domain.Ticket{Sequence: "FMT-000002", Status: domain.TicketStatusOpen, DuplicateOfTicketID: &original.ID})
	third := f.tickets.add(&domain.Ticket{Sequence: "FMT-000003", Status: domain.TicketStatusOpen})

	admin := staffActor("admin-1", domain.StaffRoleAdmin)

	_, err := f.svc.MarkDuplicate(context.Background(), admin, third.ID, dup.Sequence)
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED for a duplicate chain", code)
	}

	_, err = f.svc.MarkDuplicate(context.Background(), admin, original.ID, original.Sequence)
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED for self-duplicate", code)
	}

	marked, err := f.svc.MarkDuplicate(context.Background(), admin, third.ID, original.Sequence)
	if err != nil {
		t.Fatalf("MarkDuplicate: %v", err)
	}
	if marked.DuplicateOfTicketID == nil || *marked.DuplicateOfTicketID != original.ID {
		t.Fatalf("duplicate link = %v, want %s", marked.DuplicateOfTicketID, original.ID)
	}
}

func TestVerifyRequiresSupervisor(t *testing.T) {
	f := newTicketFixture()
	ticket := f.tickets.add(&domain.Ticket{Sequence: "FMT-000001", Status: domain.TicketStatusResolved})

	_, err := f.svc.Verify(context.Background(), staffActor("agent-1", domain.StaffRoleAgent), ticket.ID, domain.VerificationVerified)
	if code := domainErrCode(t, err); code != "FORBIDDEN" {
		t.Fatalf("code = %s, want FORBIDDEN", code)
	}

	_, err = f.svc.Verify(context.Background(), staffActor("admin-1", domain.StaffRoleAdmin), ticket.ID, domain.VerificationStatus("MAYBE"))
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", code)
	}

	verified, err := f.svc.Verify(context.Background(), staffActor("admin-1", domain.StaffRoleAdmin), ticket.ID, domain.VerificationVerified)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if verified.VerificationStatus == nil || *verified.VerificationStatus != domain.VerificationVerified {
		t.Fatalf("verification status = %v", verified.VerificationStatus)
	}
	if verified.VerifiedByID == nil || *verified.VerifiedByID != "admin-1" {
		t.Fatalf("verified by = %v", verified.VerifiedByID)
	}
}

func TestAcknowledgeClosurePerRole(t *testing.T) {
	f := newTicketFixture()
	ticket := f.tickets.add(&domain.Ticket{
		Sequence:                 "FMT-000001",
		RequesterID:              strPtr("client-1"),
		CategoryID:               strPtr("c1"),
		Status:                   domain.TicketStatusClosed,
		UserStatus:               domain.PerspectiveOpen,
		CategorySupervisorStatus: domain.PerspectiveOpen,
	})

	acked, err := f.svc.AcknowledgeClosure(context.Background(), domain.ClientActor("client-1"), ticket.ID)
	if err != nil {
		t.Fatalf("AcknowledgeClosure client: %v", err)
	}
	if acked.UserStatus != domain.PerspectiveClosed {
		t.Fatalf("user status = %s", acked.UserStatus)
	}

	supervisor := domain.Actor{
		Type:                  domain.SubjectTypeStaff,
		ID:                    "staff-1",
		Role:                  domain.StaffRoleCategorySupervisor,
		SupervisedCategoryIDs: []string{"c1"},
	}
	acked, err = f.svc.AcknowledgeClosure(context.Background(), supervisor, ticket.ID)
	if err != nil {
		t.Fatalf("AcknowledgeClosure supervisor: %v", err)
	}
	if acked.CategorySupervisorStatus != domain.PerspectiveClosed {
		t.Fatalf("category supervisor status = %s", acked.CategorySupervisorStatus)
	}

	_, err = f.svc.AcknowledgeClosure(context.Background(), staffActor("agent-1", domain.StaffRoleAgent), ticket.ID)
	if code := domainErrCode(t, err); code != "FORBIDDEN" {
		t.Fatalf("code = %s, want FORBIDDEN for a role without a perspective", code)
	}
}

func TestGetTicketNotFound(t *testing.T) {
	f := newTicketFixture()
	_, err := f.svc.GetTicket(context.Background(), staffActor("admin-1", domain.StaffRoleAdmin), "missing")
	if code := domainErrCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("code = %s, want NOT_FOUND", code)
	}
}

func TestGetTicketClientDeniedOnForeign(t *testing.T) {
	f := newTicketFixture()
	ticket := f.tickets.add(&domain.Ticket{Sequence: "FMT-000001", RequesterID: strPtr("client-2"), Status: domain.TicketStatusOpen})

	_, err := f.svc.GetTicket(context.Background(), domain.ClientActor("client-1"), ticket.ID)
	if code := domainErrCode(t, err); code != "FORBIDDEN" {
		t.Fatalf("code = %s, want FORBIDDEN", code)
	}
}

func TestListTicketsFiltersNarrowScope(t *testing.T) {
	f := newTicketFixture()
	f.tickets.add(&domain.Ticket{Sequence: "FMT-000001", BuildingID: strPtr("b1"), Status: domain.TicketStatusOpen})
	f.tickets.add(&domain.Ticket{Sequence: "FMT-000002", BuildingID: strPtr("b1"), Status: domain.TicketStatusClosed})
	f.tickets.add(&domain.Ticket{Sequence: "FMT-000003", BuildingID: strPtr("b2"), Status: domain.TicketStatusOpen})

	supervisor := domain.Actor{
		Type:                  domain.SubjectTypeStaff,
		ID:                    "staff-1",
		Role:                  domain.StaffRoleBuildingSupervisor,
		SupervisedBuildingIDs: []string{"b1"},
	}

	scoped, err := f.svc.ListTickets(context.Background(), supervisor, TicketListFilter{})
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	filtered, err := f.svc.ListTickets(context.Background(), supervisor, TicketListFilter{
		Statuses: []domain.TicketStatus{domain.TicketStatusOpen},
	})
	if err != nil {
		t.Fatalf("ListTickets with filter: %v", err)
	}

	// A caller filter can only narrow the visible set, never widen it.
	if len(filtered) >= len(scoped)+1 {
		t.Fatalf("filtered list larger than scoped list: %d > %d", len(filtered), len(scoped))
	}
	visible := make(map[string]bool, len(scoped))
	for _, tk := range scoped {
		visible[tk.Sequence] = true
	}
	for _, tk := range filtered {
		if !visible[tk.Sequence] {
			t.Fatalf("filter surfaced ticket %s outside the caller's scope", tk.Sequence)
		}
	}
	if len(filtered) != 1 || filtered[0].Sequence != "FMT-000001" {
		t.Fatalf("filtered = %+v, want only FMT-000001", filtered)
	}
}

func TestUpdateTicketClearsAssignment(t *testing.T) {
	f := newTicketFixture()
	ticket := f.tickets.add(&domain.Ticket{
		Sequence:   "FMT-000001",
		Status:     domain.TicketStatusPending,
		AssigneeID: strPtr("staff-9"),
	})

	empty := ""
	updated, err := f.svc.UpdateTicket(context.Background(), staffActor("staff-1", domain.StaffRoleAdmin), ticket.ID, TicketUpdateInput{AssigneeID: &empty})
	if err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	if updated.AssigneeID != nil {
		t.Fatalf("AssigneeID = %v, want nil", *updated.AssigneeID)
	}
}

func TestUpdateTicketRejectsUnknownEnumValues(t *testing.T) {
	f := newTicketFixture()
	ticket := f.tickets.add(&domain.Ticket{
		Sequence: "FMT-000001",
		Status:   domain.TicketStatusOpen,
		Priority: domain.TicketPriorityNormal,
	})
	admin := staffActor("staff-1", domain.StaffRoleAdmin)

	bogusStatus := domain.TicketStatus("TOTALLY_BOGUS")
	_, err := f.svc.UpdateTicket(context.Background(), admin, ticket.ID, TicketUpdateInput{Status: &bogusStatus})
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("status code = %s, want VALIDATION_FAILED", code)
	}

	bogusPriority := domain.TicketPriority("EXTREME")
	_, err = f.svc.UpdateTicket(context.Background(), admin, ticket.ID, TicketUpdateInput{Priority: &bogusPriority})
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("priority code = %s, want VALIDATION_FAILED", code)
	}

	bogusType := domain.TicketType("MISADVENTURE")
	_, err = f.svc.UpdateTicket(context.Background(), admin, ticket.ID, TicketUpdateInput{Type: &bogusType})
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("type code = %s, want VALIDATION_FAILED", code)
	}

	stored, _ := f.tickets.GetByID(context.Background(), ticket.ID)
	if stored.Status != domain.TicketStatusOpen || stored.Priority != domain.TicketPriorityNormal {
		t.Fatalf("rejected update mutated stored ticket: %+v", stored)
	}
}

func TestCreateTicketRejectsUnknownPriority(t *testing.T) {
	f := newTicketFixture()
	_, err := f.svc.CreateTicket(context.Background(), domain.ClientActor("client-1"), TicketCreateInput{
		Subject:  "leaking pipe",
		Priority: domain.TicketPriority("EXTREME"),
	})
	if code := domainErrCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", code)
	}
}

func TestUpdateTicketNotFound(t *testing.T) {
	f := newTicketFixture()
	subject := "new subject"
	_, err := f.svc.UpdateTicket(context.Background(), staffActor("admin-1", domain.StaffRoleAdmin), "missing", TicketUpdateInput{Subject: &subject})
	if code := domainErrCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("code = %s, want NOT_FOUND", code)
	}
}
