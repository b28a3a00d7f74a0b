package domain

import "time"

// MaterialRequestStatus tracks the procurement workflow. The intended
// progression is strictly forward: CREATED -> ACKNOWLEDGED -> PRF_CREATED
// -> PRF_PROCESSED.
type MaterialRequestStatus string

const (
	MaterialRequestCreated      MaterialRequestStatus = "CREATED"
	MaterialRequestAcknowledged MaterialRequestStatus = "ACKNOWLEDGED"
	MaterialRequestPrfCreated   MaterialRequestStatus = "PRF_CREATED"
	MaterialRequestPrfProcessed MaterialRequestStatus = "PRF_PROCESSED"
)

// MaterialRequest asks procurement for materials needed to resolve a ticket.
type MaterialRequest struct {
	ID            string
	TicketID      string
	CreatedByID   string
	ProcessedByID *string
	Status        MaterialRequestStatus
	PrfNumber     *string
	Items         []MaterialRequestItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MaterialRequestItem is a single line of a material request.
type MaterialRequestItem struct {
	ID                string
	MaterialRequestID string
	Name              string
	Quantity          float64
	Unit              string
}

// materialRequestRank orders the workflow for forward-only checks.
var materialRequestRank = map[MaterialRequestStatus]int{
	MaterialRequestCreated:      0,
	MaterialRequestAcknowledged: 1,
	MaterialRequestPrfCreated:   2,
	MaterialRequestPrfProcessed: 3,
}

// CanAdvanceTo reports whether moving to next is a forward step.
func (s MaterialRequestStatus) CanAdvanceTo(next MaterialRequestStatus) bool {
	cur, ok := materialRequestRank[s]
	if !ok {
		return false
	}
	nxt, ok := materialRequestRank[next]
	if !ok {
		return false
	}
	return nxt > cur
}
