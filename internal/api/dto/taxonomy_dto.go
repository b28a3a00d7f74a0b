package dto

import (
	"time"

	"github.com/facilityhub/helpdesk/internal/domain"
)

// BuildingRequest is the admin create/update form.
type BuildingRequest struct {
	Code   string              `json:"code"`
	Name   string              `json:"name"`
	Type   domain.BuildingType `json:"type"`
	Active bool                `json:"active"`
}

// BuildingResponse payload.
type BuildingResponse struct {
	ID        string              `json:"id"`
	Code      string              `json:"code"`
	Name      string              `json:"name"`
	Type      domain.BuildingType `json:"type"`
	Active    bool                `json:"active"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// SetSupervisorsRequest replaces a building's supervisor set.
type SetSupervisorsRequest struct {
	StaffIDs []string `json:"staff_ids"`
}

// CategoryRequest is the admin create/update form.
type CategoryRequest struct {
	Name         string  `json:"name"`
	Active       bool    `json:"active"`
	SupervisorID *string `json:"supervisor_id"`
}

// CategoryResponse payload.
type CategoryResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Active       bool      `json:"active"`
	SupervisorID *string   `json:"supervisor_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SubCategoryRequest is the admin create form.
type SubCategoryRequest struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Active     bool   `json:"active"`
}

// SubCategoryResponse payload.
type SubCategoryResponse struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"category_id"`
	Name       string    `json:"name"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewBuildingResponse maps a building.
func NewBuildingResponse(b *domain.Building) BuildingResponse {
	return BuildingResponse{
		ID:        b.ID,
		Code:      b.Code,
		Name:      b.Name,
		Type:      b.Type,
		Active:    b.Active,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// NewBuildingResponses maps a slice of buildings.
func NewBuildingResponses(buildings []domain.Building) []BuildingResponse {
	out := make([]BuildingResponse, 0, len(buildings))
	for i := range buildings {
		out = append(out, NewBuildingResponse(&buildings[i]))
	}
	return out
}

// NewCategoryResponse maps a category.
func NewCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Active:       c.Active,
		SupervisorID: c.SupervisorID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// NewCategoryResponses maps a slice of categories.
func NewCategoryResponses(categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, NewCategoryResponse(&categories[i]))
	}
	return out
}

// NewSubCategoryResponse maps a sub-category.
func NewSubCategoryResponse(sc *domain.SubCategory) SubCategoryResponse {
	return SubCategoryResponse{
		ID:         sc.ID,
		CategoryID: sc.CategoryID,
		Name:       sc.Name,
		Active:     sc.Active,
		CreatedAt:  sc.CreatedAt,
		UpdatedAt:  sc.UpdatedAt,
	}
}

// NewSubCategoryResponses maps a slice of sub-categories.
func NewSubCategoryResponses(subCategories []domain.SubCategory) []SubCategoryResponse {
	out := make([]SubCategoryResponse, 0, len(subCategories))
	for i := range subCategories {
		out = append(out, NewSubCategoryResponse(&subCategories[i]))
	}
	return out
}
