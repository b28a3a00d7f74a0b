package domain

import "time"

// Category is a maintenance discipline (electrical, plumbing, ...) with an
// optional supervising staff user.
type Category struct {
	ID           string
	Name         string
	Active       bool
	SupervisorID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SubCategory narrows a category. A ticket's sub-category, if set, must
// belong to the ticket's category.
type SubCategory struct {
	ID         string
	CategoryID string
	Name       string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
