package dashboard

import (
	"context"
	"time"

	"github.com/venuedesk/tableops/internal/clock"
	"github.com/venuedesk/tableops/internal/domain"
	"github.com/venuedesk/tableops/internal/repository"
	"github.com/venuedesk/tableops/internal/service/runtime"
)

type DashboardUseCase interface {
	Counters(ctx context.Context, venueID int64, loc *time.Location, window time.Duration) (*Counters, error)
}

type Counters struct {
	LiveCount                  int64 `json:"live_count"`
	TodayCount                 int64 `json:"today_count"`
	HistoryCount               int64 `json:"history_count"`
	ActiveResourceCount        int   `json:"active_resource_count"`
	TotalResources             int   `json:"total_resources"`
	AvailableCount             int   `json:"available_count"`
	OccupiedCount              int   `json:"occupied_count"`
	ReservedNowCount           int   `json:"reserved_now_count"`
	ReservedLaterCount         int   `json:"reserved_later_count"`
	UnassignedReservationCount int   `json:"unassigned_reservation_count"`
}

// DashboardService aggregates the floor projection and the order log into
// display counters. It reuses the runtime projection and the one bucket
// classifier so the two views can never disagree about what is LIVE.
type DashboardService struct {
	floor  runtime.RuntimeUseCase
	orders repository.OrderRepository
	clock  clock.Clock
}

func NewDashboardService(floor runtime.RuntimeUseCase, orders repository.OrderRepository, clk clock.Clock) *DashboardService {
	return &DashboardService{floor: floor, orders: orders, clock: clk}
}

func (s *DashboardService) Counters(ctx context.Context, venueID int64, loc *time.Location, window time.Duration) (*Counters, error) {
	now := s.clock.Now()
	counters := &Counters{}

	// Fetch orders from the earlier of the window start and local midnight;
	// everything before that boundary is HISTORY by definition.
	windowStart := now.Add(-window)
	startOfDay := StartOfDay(now, loc)
	since := startOfDay
	if windowStart.Before(startOfDay) {
		since = windowStart
	}

	orders, err := s.orders.ListCreatedSince(ctx, venueID, since)
	if err != nil {
		return nil, err
	}
	earlier, err := s.orders.CountCreatedBefore(ctx, venueID, since)
	if err != nil {
		return nil, err
	}
	counters.HistoryCount = earlier

	activeResources := make(map[int64]struct{})
	for _, order := range orders {
		switch ClassifyBucket(order.CreatedAt, now, loc, window) {
		case domain.BucketLive:
			counters.LiveCount++
			if order.ResourceID != nil {
				activeResources[*order.ResourceID] = struct{}{}
			}
		case domain.BucketToday:
			counters.TodayCount++
		case domain.BucketHistory:
			counters.HistoryCount++
		}
	}
	counters.ActiveResourceCount = len(activeResources)

	view, err := s.floor.FloorState(ctx, venueID)
	if err != nil {
		return nil, err
	}
	counters.TotalResources = len(view.Tables)
	counters.UnassignedReservationCount = len(view.Unassigned)
	for _, table := range view.Tables {
		switch table.Status {
		case domain.SessionStatusFree:
			counters.AvailableCount++
		case domain.SessionStatusOccupied:
			counters.OccupiedCount++
		}
		switch table.Overlay {
		case domain.OverlayReservedNow:
			counters.ReservedNowCount++
		case domain.OverlayReservedLater:
			counters.ReservedLaterCount++
		}
	}

	return counters, nil
}

var _ DashboardUseCase = (*DashboardService)(nil)
