package domain

import "time"

// Breakage records damage attributed to a responsible party on a ticket.
type Breakage struct {
	ID               string
	TicketID         string
	Description      string
	ResponsibleParty string
	Processed        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
