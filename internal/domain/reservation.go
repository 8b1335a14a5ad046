package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusBooked    ReservationStatus = "BOOKED"
	ReservationStatusCheckedIn ReservationStatus = "CHECKED_IN"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusNoShow    ReservationStatus = "NO_SHOW"
)

// Reservation is a booked time window, optionally bound to a resource.
// BOOKED is the only non-terminal status.
type Reservation struct {
	ID           int64
	VenueID      int64
	ResourceID   *int64
	CustomerName string
	PartySize    int
	StartAt      time.Time
	EndAt        time.Time
	Status       ReservationStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
