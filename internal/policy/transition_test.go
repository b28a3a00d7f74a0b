package policy

import (
	"testing"
	"time"

	"github.com/facilityhub/helpdesk/internal/domain"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func openTicket() *domain.Ticket {
	requester := "client-1"
	return &domain.Ticket{
		ID:          "t1",
		Sequence:    "FMT-000001",
		Status:      domain.TicketStatusOpen,
		Priority:    domain.TicketPriorityNormal,
		RequesterID: &requester,
		UserStatus:  domain.PerspectiveOpen,
	}
}

func TestTransitionStampsClosingDate(t *testing.T) {
	ticket := openTicket()
	if err := Transition(ticket, domain.TicketStatusClosed, ModeStandard, testNow); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if ticket.ClosingDate == nil || !ticket.ClosingDate.Equal(testNow) {
		t.Fatalf("expected closing date stamped at %v, got %v", testNow, ticket.ClosingDate)
	}
}

func TestTransitionBetweenNonClosedLeavesClosingDateAlone(t *testing.T) {
	ticket := openTicket()
	if err := Transition(ticket, domain.TicketStatusPending, ModeStandard, testNow); err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if ticket.ClosingDate != nil {
		t.Fatalf("closing date should stay nil across non-closed transitions")
	}
	if err := Transition(ticket, domain.TicketStatusResolved, ModeStandard, testNow); err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if ticket.Status != domain.TicketStatusResolved {
		t.Fatalf("status not applied")
	}
}

func TestReopenClearsClosingDate(t *testing.T) {
	ticket := openTicket()
	if err := Transition(ticket, domain.TicketStatusClosed, ModeStandard, testNow); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := Transition(ticket, domain.TicketStatusOpen, ModeWorkflow, testNow.Add(time.Hour)); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if ticket.ClosingDate != nil {
		t.Fatalf("reopening must clear the closing date, got %v", ticket.ClosingDate)
	}
}

func TestClosedTicketRejectsStandardEdit(t *testing.T) {
	ticket := openTicket()
	ticket.Status = domain.TicketStatusClosed
	closing := testNow
	ticket.ClosingDate = &closing

	err := Transition(ticket, domain.TicketStatusPending, ModeStandard, testNow)
	if err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if ticket.Status != domain.TicketStatusClosed || ticket.ClosingDate == nil {
		t.Fatalf("rejected transition must leave the ticket unchanged")
	}
}

func TestCloseByRequester(t *testing.T) {
	ticket := openTicket()
	if err := CloseByRequester(ticket, domain.ClientActor("client-1"), testNow); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if ticket.Status != domain.TicketStatusClosed {
		t.Fatalf("expected CLOSED, got %s", ticket.Status)
	}
	if ticket.UserStatus != domain.PerspectiveClosed {
		t.Fatalf("requester close must set the user perspective to CLOSED")
	}
	if ticket.ClosingDate == nil {
		t.Fatalf("closing date not stamped")
	}

	if err := CloseByRequester(ticket, domain.ClientActor("client-1"), testNow); err != ErrAlreadyClosed {
		t.Fatalf("expected ErrAlreadyClosed, got %v", err)
	}
}

func TestCloseByRequesterRejectsNonOwner(t *testing.T) {
	ticket := openTicket()
	if err := CloseByRequester(ticket, domain.ClientActor("intruder"), testNow); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	staff := &domain.StaffUser{ID: "s", Role: domain.StaffRoleAdmin}
	if err := CloseByRequester(ticket, domain.StaffActor(staff, nil, nil), testNow); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for staff caller, got %v", err)
	}
}

func TestEscalateFromResolved(t *testing.T) {
	ticket := openTicket()
	ticket.Status = domain.TicketStatusResolved

	if err := Escalate(ticket, testNow); err != nil {
		t.Fatalf("escalate failed: %v", err)
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Fatalf("escalation must force OPEN, got %s", ticket.Status)
	}
	if ticket.Priority != domain.TicketPriorityUrgent {
		t.Fatalf("escalation must force URGENT, got %s", ticket.Priority)
	}
	if !ticket.IsEscalated {
		t.Fatalf("escalation flag not set")
	}
}

func TestEscalateTwiceRejectsSecondCall(t *testing.T) {
	ticket := openTicket()
	ticket.Status = domain.TicketStatusResolved

	if err := Escalate(ticket, testNow); err != nil {
		t.Fatalf("first escalate failed: %v", err)
	}
	snapshot := *ticket

	if err := Escalate(ticket, testNow.Add(time.Minute)); err != ErrAlreadyEscalated {
		t.Fatalf("expected ErrAlreadyEscalated, got %v", err)
	}
	if *ticket != snapshot {
		t.Fatalf("second escalate mutated the ticket")
	}
}

func TestEscalateFromClosedReopensAndClearsClosingDate(t *testing.T) {
	ticket := openTicket()
	if err := Transition(ticket, domain.TicketStatusClosed, ModeStandard, testNow); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := Escalate(ticket, testNow.Add(time.Hour)); err != nil {
		t.Fatalf("escalate failed: %v", err)
	}
	if ticket.Status != domain.TicketStatusOpen || ticket.ClosingDate != nil {
		t.Fatalf("escalating a closed ticket must reopen it and clear the closing date")
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	ticket := openTicket()
	for _, mode := range []TransitionMode{ModeStandard, ModeWorkflow} {
		err := Transition(ticket, domain.TicketStatus("TOTALLY_BOGUS"), mode, testNow)
		if err != ErrInvalidTransition {
			t.Fatalf("mode %v: err = %v, want ErrInvalidTransition", mode, err)
		}
		if ticket.Status != domain.TicketStatusOpen {
			t.Fatalf("mode %v: status mutated to %q", mode, ticket.Status)
		}
	}
}
