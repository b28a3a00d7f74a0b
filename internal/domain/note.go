package domain

import "time"

// NoteKind classifies audit notes attached to a ticket.
type NoteKind string

const (
	NoteKindComment    NoteKind = "COMMENT"
	NoteKindEscalation NoteKind = "ESCALATION"
	NoteKindClosure    NoteKind = "CLOSURE"
)

// TicketNote is an audit note attached to a ticket, e.g. the reason given
// when escalating or closing.
type TicketNote struct {
	ID        string
	TicketID  string
	AuthorID  *string
	Kind      NoteKind
	Body      string
	CreatedAt time.Time
}
