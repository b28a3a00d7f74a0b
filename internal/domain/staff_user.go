package domain

import "time"

// StaffUser models an internal employee (agent, supervisor or admin).
type StaffUser struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         StaffRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
