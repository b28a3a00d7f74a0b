package policy

import (
	"testing"

	"github.com/facilityhub/helpdesk/internal/domain"
)

func strptr(s string) *string { return &s }

func ticketWith(requester, building, category, assignee string) *domain.Ticket {
	t := &domain.Ticket{Status: domain.TicketStatusOpen}
	if requester != "" {
		t.RequesterID = strptr(requester)
	}
	if building != "" {
		t.BuildingID = strptr(building)
	}
	if category != "" {
		t.CategoryID = strptr(category)
	}
	if assignee != "" {
		t.AssigneeID = strptr(assignee)
	}
	return t
}

func filterTickets(s Scope, tickets []*domain.Ticket) []*domain.Ticket {
	var out []*domain.Ticket
	for _, t := range tickets {
		if s.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

func TestClientScopeOnlyOwnTickets(t *testing.T) {
	mine := ticketWith("client-1", "b1", "c1", "")
	other := ticketWith("client-2", "b1", "c1", "")
	orphan := ticketWith("", "b1", "c1", "")

	scope := ScopeFor(domain.ClientActor("client-1"), EntityTicket)
	got := filterTickets(scope, []*domain.Ticket{mine, other, orphan})
	if len(got) != 1 || got[0] != mine {
		t.Fatalf("expected exactly the client's own ticket, got %d rows", len(got))
	}
}

func TestClientScopeOtherEntitiesMatchesNothing(t *testing.T) {
	scope := ScopeFor(domain.ClientActor("client-1"), EntityMaterialRequest)
	if !scope.IsEmpty() {
		t.Fatalf("client scope over material requests should be empty")
	}
}

func TestBuildingSupervisorScope(t *testing.T) {
	staff := &domain.StaffUser{ID: "sup-1", Role: domain.StaffRoleBuildingSupervisor}
	actor := domain.StaffActor(staff, []string{"b1", "b2"}, nil)

	inB1 := ticketWith("c", "b1", "cat", "")
	inB3 := ticketWith("c", "b3", "cat", "")
	noBuilding := ticketWith("c", "", "cat", "")

	scope := ScopeFor(actor, EntityTicket)
	got := filterTickets(scope, []*domain.Ticket{inB1, inB3, noBuilding})
	if len(got) != 1 || got[0] != inB1 {
		t.Fatalf("expected only the supervised building's ticket, got %d rows", len(got))
	}
}

func TestBuildingSupervisorWithNoBuildingsSeesNothing(t *testing.T) {
	staff := &domain.StaffUser{ID: "sup-1", Role: domain.StaffRoleBuildingSupervisor}
	actor := domain.StaffActor(staff, nil, nil)

	scope := ScopeFor(actor, EntityTicket)
	if !scope.IsEmpty() {
		t.Fatalf("unsupervised building supervisor must get an empty scope")
	}
	if scope.Matches(ticketWith("c", "b1", "cat", "")) {
		t.Fatalf("empty scope matched a row")
	}
}

func TestCategorySupervisorScope(t *testing.T) {
	u := &domain.StaffUser{ID: "u", Role: domain.StaffRoleCategorySupervisor}
	actorU := domain.StaffActor(u, nil, []string{"electrical"})

	t2 := ticketWith("c", "b1", "electrical", "")
	t3 := ticketWith("c", "b1", "plumbing", "")

	got := filterTickets(ScopeFor(actorU, EntityTicket), []*domain.Ticket{t2, t3})
	if len(got) != 1 || got[0] != t2 {
		t.Fatalf("expected only the electrical ticket, got %d rows", len(got))
	}
}

func TestCategorySupervisorWithNoCategoriesSeesNothing(t *testing.T) {
	u := &domain.StaffUser{ID: "u", Role: domain.StaffRoleCategorySupervisor}
	actor := domain.StaffActor(u, nil, []string{})
	if !ScopeFor(actor, EntityTicket).IsEmpty() {
		t.Fatalf("unsupervised category supervisor must get an empty scope")
	}
}

func TestAdminScopeMatchesAll(t *testing.T) {
	admin := &domain.StaffUser{ID: "a", Role: domain.StaffRoleAdmin}
	scope := ScopeFor(domain.StaffActor(admin, nil, nil), EntityTicket)
	if scope.IsEmpty() {
		t.Fatalf("admin scope must not be empty")
	}
	if !scope.Matches(ticketWith("c", "b1", "cat", "")) {
		t.Fatalf("admin scope should match any ticket")
	}
}

func TestAgentDashboardScopeRestrictsToAssignee(t *testing.T) {
	agent := &domain.StaffUser{ID: "agent-1", Role: domain.StaffRoleAgent}
	actor := domain.StaffActor(agent, nil, nil)

	assigned := ticketWith("c", "b1", "cat", "agent-1")
	unassigned := ticketWith("c", "b1", "cat", "agent-2")

	base := ScopeFor(actor, EntityTicket)
	if !base.Matches(unassigned) {
		t.Fatalf("base agent scope should not restrict by assignee")
	}

	dashboard := base.AssignedTo(actor.ID)
	got := filterTickets(dashboard, []*domain.Ticket{assigned, unassigned})
	if len(got) != 1 || got[0] != assigned {
		t.Fatalf("dashboard scope should only match assigned tickets")
	}
}

func TestRolelessStaffAndMissingActorFailClosed(t *testing.T) {
	roleless := domain.Actor{Type: domain.SubjectTypeStaff, ID: "s"}
	if !ScopeFor(roleless, EntityTicket).IsEmpty() {
		t.Fatalf("staff without a role must see nothing")
	}
	if !ScopeFor(domain.Actor{}, EntityTicket).IsEmpty() {
		t.Fatalf("missing actor must see nothing")
	}
}

func TestScopeIntersectionNeverWidens(t *testing.T) {
	staff := &domain.StaffUser{ID: "sup", Role: domain.StaffRoleBuildingSupervisor}
	actor := domain.StaffActor(staff, []string{"b1"}, nil)

	tickets := []*domain.Ticket{
		ticketWith("c", "b1", "cat", "a1"),
		ticketWith("c", "b2", "cat", "a1"),
	}

	scoped := filterTickets(ScopeFor(actor, EntityTicket), tickets)
	narrowed := filterTickets(ScopeFor(actor, EntityTicket).AssignedTo("a1"), tickets)
	if len(narrowed) > len(scoped) {
		t.Fatalf("adding a filter widened the result set: %d > %d", len(narrowed), len(scoped))
	}
	for _, n := range narrowed {
		found := false
		for _, s := range scoped {
			if s == n {
				found = true
			}
		}
		if !found {
			t.Fatalf("narrowed result contained a row outside the scoped set")
		}
	}
}

func TestAuthorize(t *testing.T) {
	owner := domain.ClientActor("client-1")
	ticket := ticketWith("client-1", "b1", "cat", "")

	if err := Authorize(owner, ticket); err != nil {
		t.Fatalf("owner should be authorized: %v", err)
	}
	if err := Authorize(domain.ClientActor("client-2"), ticket); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
