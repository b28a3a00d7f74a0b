package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "OPEN"
	TicketStatusPending  TicketStatus = "PENDING"
	TicketStatusOnHold   TicketStatus = "ON_HOLD"
	TicketStatusResolved TicketStatus = "RESOLVED"
	TicketStatusClosed   TicketStatus = "CLOSED"
)

// Valid reports whether s is a known lifecycle state.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusPending, TicketStatusOnHold, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityNormal TicketPriority = "NORMAL"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityNormal, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// TicketType distinguishes incident reports from planned work.
type TicketType string

const (
	TicketTypeIncident TicketType = "INCIDENT"
	TicketTypeTask     TicketType = "TASK"
	TicketTypeRequest  TicketType = "REQUEST"
)

// Valid reports whether t is a known ticket type.
func (t TicketType) Valid() bool {
	switch t {
	case TicketTypeIncident, TicketTypeTask, TicketTypeRequest:
		return true
	}
	return false
}

// PerspectiveStatus is a per-stakeholder closure acknowledgement flag,
// tracked independently of the ticket's overall status.
type PerspectiveStatus string

const (
	PerspectiveOpen   PerspectiveStatus = "OPEN"
	PerspectiveClosed PerspectiveStatus = "CLOSED"
)

// VerificationStatus records the outcome of supervisor verification.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// Valid reports whether v is a known verification outcome.
func (v VerificationStatus) Valid() bool {
	switch v {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// Ticket is the aggregate for maintenance requests.
type Ticket struct {
	ID          string
	Sequence    string
	Subject     string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	Type        TicketType

	// IsEscalated only ever moves false -> true.
	IsEscalated bool

	BuildingID    *string
	CategoryID    *string
	SubCategoryID *string
	AssigneeID    *string
	GroupID       *string
	RequesterID   *string

	UserStatus               PerspectiveStatus
	CategorySupervisorStatus PerspectiveStatus
	BuildingSupervisorStatus PerspectiveStatus

	DuplicateOfTicketID *string

	VerifiedByID       *string
	VerificationStatus *VerificationStatus
	VerifiedAt         *time.Time

	// ClosingDate is non-nil exactly when the last transition entered CLOSED.
	ClosingDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
