package domain

import "time"

// Order is owned by the external order log; this service only reads it.
// Status is the external lifecycle value and is opaque here; bucket
// classification depends on CreatedAt alone.
type Order struct {
	ID         int64
	VenueID    int64
	ResourceID *int64
	SessionID  *int64
	CreatedAt  time.Time
	Status     string
	Settled    bool
}
