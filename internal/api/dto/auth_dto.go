package dto

import (
	"time"

	"github.com/facilityhub/helpdesk/internal/domain"
)

// RegisterClientRequest payload.
type RegisterClientRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ExternalClientRequest upserts a client account from the external
// identity provider.
type ExternalClientRequest struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

// LoginRequest payload, shared by client and staff login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ClientResponse is the requester profile.
type ClientResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Status    domain.ClientStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

// StaffResponse is the staff profile.
type StaffResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      domain.StaffRole `json:"role"`
	Active    bool             `json:"active"`
	CreatedAt time.Time        `json:"created_at"`
}

// ClientAuthResponse carries a token together with the client profile.
type ClientAuthResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Client    ClientResponse `json:"client"`
}

// StaffAuthResponse carries a token together with the staff profile.
type StaffAuthResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Staff     StaffResponse `json:"staff"`
}

// NewClientResponse maps a client.
func NewClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
	}
}

// NewStaffResponse maps a staff user.
func NewStaffResponse(s *domain.StaffUser) StaffResponse {
	return StaffResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Role:      s.Role,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
}
