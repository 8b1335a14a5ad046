package domain

import "time"

type SessionStatus string

const (
	SessionStatusFree     SessionStatus = "FREE"
	SessionStatusOccupied SessionStatus = "OCCUPIED"
)

// Session is one occupancy interval of a resource. The row with a nil
// ClosedAt is the open session and is authoritative for current status;
// there is at most one open session per resource. Closed sessions are
// immutable.
type Session struct {
	ID         int64
	VenueID    int64
	ResourceID int64
	Status     SessionStatus
	OpenedAt   time.Time
	ClosedAt   *time.Time
	StaffID    *string
	OrderID    *int64
}
