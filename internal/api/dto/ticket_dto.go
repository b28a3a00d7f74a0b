package dto

import (
	"time"

	"github.com/facilityhub/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject       string                `json:"subject"`
	Description   string                `json:"description"`
	Priority      domain.TicketPriority `json:"priority"`
	Type          domain.TicketType     `json:"type"`
	BuildingID    *string               `json:"building_id"`
	CategoryID    *string               `json:"category_id"`
	SubCategoryID *string               `json:"sub_category_id"`
	RequesterID   *string               `json:"requester_id,omitempty"`
}

// UpdateTicketRequest is the staff edit form. Absent fields stay unchanged.
type UpdateTicketRequest struct {
	Subject       *string                `json:"subject"`
	Description   *string                `json:"description"`
	Status        *domain.TicketStatus   `json:"status"`
	Priority      *domain.TicketPriority `json:"priority"`
	Type          *domain.TicketType     `json:"type"`
	BuildingID    *string                `json:"building_id"`
	CategoryID    *string                `json:"category_id"`
	SubCategoryID *string                `json:"sub_category_id"`
	AssigneeID    *string                `json:"assignee_id"`
	Comment       string                 `json:"comment"`
}

// EscalateTicketRequest payload.
type EscalateTicketRequest struct {
	Reason string `json:"reason"`
}

// CloseTicketRequest payload for requester closure.
type CloseTicketRequest struct {
	Reason string `json:"reason"`
}

// MarkDuplicateRequest payload.
type MarkDuplicateRequest struct {
	DuplicateOfSequence string `json:"duplicate_of_sequence"`
}

// VerifyTicketRequest payload.
type VerifyTicketRequest struct {
	Status domain.VerificationStatus `json:"status"`
}

// TicketSummary response.
type TicketSummary struct {
	ID          string                `json:"id"`
	Sequence    string                `json:"sequence"`
	Subject     string                `json:"subject"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	Type        domain.TicketType     `json:"type"`
	IsEscalated bool                  `json:"is_escalated"`
	BuildingID  *string               `json:"building_id"`
	CategoryID  *string               `json:"category_id"`
	AssigneeID  *string               `json:"assignee_id"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID                       string                     `json:"id"`
	Sequence                 string                     `json:"sequence"`
	Subject                  string                     `json:"subject"`
	Description              string                     `json:"description"`
	Status                   domain.TicketStatus        `json:"status"`
	Priority                 domain.TicketPriority      `json:"priority"`
	Type                     domain.TicketType          `json:"type"`
	IsEscalated              bool                       `json:"is_escalated"`
	BuildingID               *string                    `json:"building_id"`
	CategoryID               *string                    `json:"category_id"`
	SubCategoryID            *string                    `json:"sub_category_id"`
	AssigneeID               *string                    `json:"assignee_id"`
	RequesterID              *string                    `json:"requester_id"`
	UserStatus               domain.PerspectiveStatus   `json:"user_status"`
	CategorySupervisorStatus domain.PerspectiveStatus   `json:"category_supervisor_status"`
	BuildingSupervisorStatus domain.PerspectiveStatus   `json:"building_supervisor_status"`
	DuplicateOfTicketID      *string                    `json:"duplicate_of_ticket_id"`
	VerificationStatus       *domain.VerificationStatus `json:"verification_status"`
	VerifiedByID             *string                    `json:"verified_by_id"`
	VerifiedAt               *time.Time                 `json:"verified_at"`
	ClosingDate              *time.Time                 `json:"closing_date"`
	CreatedAt                time.Time                  `json:"created_at"`
	UpdatedAt                time.Time                  `json:"updated_at"`
}

// TicketNoteResponse is one audit note.
type TicketNoteResponse struct {
	ID        string          `json:"id"`
	AuthorID  *string         `json:"author_id"`
	Kind      domain.NoteKind `json:"kind"`
	Body      string          `json:"body"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewTicketSummary maps a domain ticket to its list representation.
func NewTicketSummary(t *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:          t.ID,
		Sequence:    t.Sequence,
		Subject:     t.Subject,
		Status:      t.Status,
		Priority:    t.Priority,
		Type:        t.Type,
		IsEscalated: t.IsEscalated,
		BuildingID:  t.BuildingID,
		CategoryID:  t.CategoryID,
		AssigneeID:  t.AssigneeID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// NewTicketSummaries maps a slice of tickets.
func NewTicketSummaries(tickets []domain.Ticket) []TicketSummary {
	out := make([]TicketSummary, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketSummary(&tickets[i]))
	}
	return out
}

// NewTicketDetail maps a domain ticket to its full representation.
func NewTicketDetail(t *domain.Ticket) TicketDetailResponse {
	return TicketDetailResponse{
		ID:                       t.ID,
		Sequence:                 t.Sequence,
		Subject:                  t.Subject,
		Description:              t.Description,
		Status:                   t.Status,
		Priority:                 t.Priority,
		Type:                     t.Type,
		IsEscalated:              t.IsEscalated,
		BuildingID:               t.BuildingID,
		CategoryID:               t.CategoryID,
		SubCategoryID:            t.SubCategoryID,
		AssigneeID:               t.AssigneeID,
		RequesterID:              t.RequesterID,
		UserStatus:               t.UserStatus,
		CategorySupervisorStatus: t.CategorySupervisorStatus,
		BuildingSupervisorStatus: t.BuildingSupervisorStatus,
		DuplicateOfTicketID:      t.DuplicateOfTicketID,
		VerificationStatus:       t.VerificationStatus,
		VerifiedByID:             t.VerifiedByID,
		VerifiedAt:               t.VerifiedAt,
		ClosingDate:              t.ClosingDate,
		CreatedAt:                t.CreatedAt,
		UpdatedAt:                t.UpdatedAt,
	}
}

// NewTicketNotes maps audit notes.
func NewTicketNotes(notes []domain.TicketNote) []TicketNoteResponse {
	out := make([]TicketNoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, TicketNoteResponse{
			ID:        n.ID,
			AuthorID:  n.AuthorID,
			Kind:      n.Kind,
			Body:      n.Body,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}
