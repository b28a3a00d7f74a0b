package dto

import (
	"time"

	"github.com/facilityhub/helpdesk/internal/domain"
)

// CreateMaterialRequestRequest payload.
type CreateMaterialRequestRequest struct {
	Items []MaterialItemRequest `json:"items"`
}

// MaterialItemRequest is one requested line.
type MaterialItemRequest struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// MaterialRequestResponse payload.
type MaterialRequestResponse struct {
	ID            string                       `json:"id"`
	TicketID      string                       `json:"ticket_id"`
	CreatedByID   string                       `json:"created_by_id"`
	ProcessedByID *string                      `json:"processed_by_id"`
	Status        domain.MaterialRequestStatus `json:"status"`
	PrfNumber     *string                      `json:"prf_number"`
	Items         []MaterialItemResponse       `json:"items"`
	CreatedAt     time.Time                    `json:"created_at"`
	UpdatedAt     time.Time                    `json:"updated_at"`
}

// MaterialItemResponse is one stored line.
type MaterialItemResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// CreateBreakageRequest payload.
type CreateBreakageRequest struct {
	Description      string `json:"description"`
	ResponsibleParty string `json:"responsible_party"`
}

// BreakageResponse payload.
type BreakageResponse struct {
	ID               string    `json:"id"`
	TicketID         string    `json:"ticket_id"`
	Description      string    `json:"description"`
	ResponsibleParty string    `json:"responsible_party"`
	Processed        bool      `json:"processed"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewMaterialRequestResponse maps a material request with its items.
func NewMaterialRequestResponse(mr *domain.MaterialRequest) MaterialRequestResponse {
	items := make([]MaterialItemResponse, 0, len(mr.Items))
	for _, item := range mr.Items {
		items = append(items, MaterialItemResponse{
			ID:       item.ID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     item.Unit,
		})
	}
	return MaterialRequestResponse{
		ID:            mr.ID,
		TicketID:      mr.TicketID,
		CreatedByID:   mr.CreatedByID,
		ProcessedByID: mr.ProcessedByID,
		Status:        mr.Status,
		PrfNumber:     mr.PrfNumber,
		Items:         items,
		CreatedAt:     mr.CreatedAt,
		UpdatedAt:     mr.UpdatedAt,
	}
}

// NewMaterialRequestResponses maps a slice of material requests.
func NewMaterialRequestResponses(requests []domain.MaterialRequest) []MaterialRequestResponse {
	out := make([]MaterialRequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, NewMaterialRequestResponse(&requests[i]))
	}
	return out
}

// NewBreakageResponse maps a breakage record.
func NewBreakageResponse(b *domain.Breakage) BreakageResponse {
	return BreakageResponse{
		ID:               b.ID,
		TicketID:         b.TicketID,
		Description:      b.Description,
		ResponsibleParty: b.ResponsibleParty,
		Processed:        b.Processed,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

// NewBreakageResponses maps a slice of breakages.
func NewBreakageResponses(breakages []domain.Breakage) []BreakageResponse {
	out := make([]BreakageResponse, 0, len(breakages))
	for i := range breakages {
		out = append(out, NewBreakageResponse(&breakages[i]))
	}
	return out
}
