package domain

import "time"

// Resource is a seat-able physical unit (a table) within a venue. Resources
// are soft-deactivated, never deleted, so session history stays referable.
type Resource struct {
	ID        int64
	VenueID   int64
	Label     string
	Capacity  int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
