package policy

import (
	"time"

	"github.com/facilityhub/helpdesk/internal/domain"
)

// TransitionMode distinguishes the standard edit path from designated
// workflows (escalation, requester close) that are allowed to leave the
// terminal CLOSED state.
type TransitionMode int

const (
	// ModeStandard is an ordinary field update; it may not leave CLOSED.
	ModeStandard TransitionMode = iota
	// ModeWorkflow is an explicit reopen/escalate/close operation.
	ModeWorkflow
)

// Transition validates and applies a status change plus its derived side
// effects. Only Status and ClosingDate are touched.
//
// ClosingDate is stamped on entering CLOSED and cleared on a logical reopen
// (CLOSED -> anything else). The clearing half is a deliberate clarification:
// the historical behavior left a stale closing date on reopened tickets,
// which broke the invariant that the date is set iff the ticket is closed.
func Transition(t *domain.Ticket, newStatus domain.TicketStatus, mode TransitionMode, now time.Time) error {
	if !newStatus.Valid() {
		return ErrInvalidTransition
	}
	oldStatus := t.Status
	if oldStatus == domain.TicketStatusClosed && mode == ModeStandard {
		return ErrInvalidTransition
	}

	t.Status = newStatus
	switch {
	case newStatus == domain.TicketStatusClosed && oldStatus != domain.TicketStatusClosed:
		closing := now
		t.ClosingDate = &closing
	case oldStatus == domain.TicketStatusClosed && newStatus != domain.TicketStatusClosed:
		t.ClosingDate = nil
	}
	return nil
}

// CloseByRequester closes a ticket on behalf of its requester and records
// the requester's own acknowledgement. Only the ticket's requester may call
// it; a ticket that is already closed yields ErrAlreadyClosed.
func CloseByRequester(t *domain.Ticket, actor domain.Actor, now time.Time) error {
	if actor.Type != domain.SubjectTypeClient || t.RequesterID == nil || *t.RequesterID != actor.ID {
		return ErrUnauthorized
	}
	if t.Status == domain.TicketStatusClosed {
		return ErrAlreadyClosed
	}
	if err := Transition(t, domain.TicketStatusClosed, ModeWorkflow, now); err != nil {
		return err
	}
	t.UserStatus = domain.PerspectiveClosed
	return nil
}

// Escalate applies the one-shot escalation state change: the guard runs
// before any mutation, then the ticket is forced back to OPEN (even from
// RESOLVED), raised to URGENT and flagged escalated. Callers are responsible
// for running this under a per-row lock so two concurrent escalations cannot
// both pass the guard.
func Escalate(t *domain.Ticket, now time.Time) error {
	if t.IsEscalated {
		return ErrAlreadyEscalated
	}
	if err := Transition(t, domain.TicketStatusOpen, ModeWorkflow, now); err != nil {
		return err
	}
	t.Priority = domain.TicketPriorityUrgent
	t.IsEscalated = true
	return nil
}
