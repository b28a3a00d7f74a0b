package domain

import "time"

// ClientStatus represents lifecycle states for a requester account.
type ClientStatus string

const (
	ClientStatusActive    ClientStatus = "ACTIVE"
	ClientStatusSuspended ClientStatus = "SUSPENDED"
)

// Client is a requester who submits maintenance tickets. Accounts created
// through the external identity provider carry an ExternalID and no local
// password hash.
type Client struct {
	ID           string
	Name         string
	Email        string
	PasswordHash *string
	ExternalID   *string
	Status       ClientStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
