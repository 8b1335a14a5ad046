package runtime

import (
	"time"

	"github.com/venuedesk/tableops/internal/domain"
)

// PrimaryStatus derives the occupancy status from the open session. A
// missing open session reads as FREE: a gap in the ledger must never
// surface to staff as an error.
func PrimaryStatus(open *domain.Session) domain.SessionStatus {
	if open == nil {
		return domain.SessionStatusFree
	}
	return open.Status
}

// ProjectOverlay classifies a table's reservation overlay for "now". A
// BOOKED reservation whose [start, end) window contains now wins; otherwise
// the soonest one starting within the lookahead horizon. Multiple
// reservations spanning now should not occur, but if they do the earliest
// start is picked rather than failing.
func ProjectOverlay(reservations []domain.Reservation, now time.Time, horizon time.Duration) (domain.Overlay, *domain.Reservation) {
	var current *domain.Reservation
	for i := range reservations {
		r := &reservations[i]
		if r.Status != domain.ReservationStatusBooked {
			continue
		}
		if !r.StartAt.After(now) && r.EndAt.After(now) {
			if current == nil || r.StartAt.Before(current.StartAt) {
				current = r
			}
		}
	}
	if current != nil {
		return domain.OverlayReservedNow, current
	}

	var next *domain.Reservation
	limit := now.Add(horizon)
	for i := range reservations {
		r := &reservations[i]
		if r.Status != domain.ReservationStatusBooked {
			continue
		}
		if r.StartAt.After(now) && !r.StartAt.After(limit) {
			if next == nil || r.StartAt.Before(next.StartAt) {
				next = r
			}
		}
	}
	if next != nil {
		return domain.OverlayReservedLater, next
	}
	return domain.OverlayNone, nil
}
