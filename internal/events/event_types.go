package events

import (
	"time"

	"github.com/facilityhub/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated           EventType = "ticket_created"
	EventTicketStatusChanged     EventType = "ticket_status_changed"
	EventTicketEscalated         EventType = "ticket_escalated"
	EventTicketAssigned          EventType = "ticket_assigned"
	EventMaterialRequestCreated  EventType = "material_request_created"
	EventMaterialRequestProgress EventType = "material_request_progress"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type     domain.SubjectType `json:"type"`
	ClientID *string            `json:"client_id,omitempty"`
	StaffID  *string            `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Sequence   string                `json:"sequence"`
	BuildingID *string               `json:"building_id,omitempty"`
	CategoryID *string               `json:"category_id,omitempty"`
	Priority   domain.TicketPriority `json:"priority"`
	Subject    string                `json:"subject"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Comment   string              `json:"comment,omitempty"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	Sequence  string              `json:"sequence"`
	OldStatus domain.TicketStatus `json:"old_status"`
	Reason    string              `json:"reason"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeStaffID *string `json:"assignee_staff_id,omitempty"`
}

// MaterialRequestCreatedPayload payload.
type MaterialRequestCreatedPayload struct {
	MaterialRequestID string `json:"material_request_id"`
	ItemCount         int    `json:"item_count"`
}

// MaterialRequestProgressPayload payload.
type MaterialRequestProgressPayload struct {
	MaterialRequestID string                       `json:"material_request_id"`
	OldStatus         domain.MaterialRequestStatus `json:"old_status"`
	NewStatus         domain.MaterialRequestStatus `json:"new_status"`
	PrfNumber         *string                      `json:"prf_number,omitempty"`
}
