package notify

import (
	"context"
	"log"

	"github.com/venuedesk/tableops/internal/kafka"
)

// StaffNotifier is the delivery sink for table events consumed by the
// worker. Real push transport is external; this logs what would be sent.
type StaffNotifier struct{}

func NewStaffNotifier() *StaffNotifier {
	return &StaffNotifier{}
}

func (n *StaffNotifier) Notify(ctx context.Context, event kafka.TableEvent) error {
	log.Printf("staff notification: venue %d table %d %s (reservation %d)",
		event.VenueID, event.ResourceID, event.Type, event.ReservationID)
	return nil
}
