package runtime

import (
	"context"
	"time"

	"github.com/venuedesk/tableops/internal/clock"
	"github.com/venuedesk/tableops/internal/domain"
	"github.com/venuedesk/tableops/internal/repository"
	"github.com/venuedesk/tableops/internal/service/transition"
)

type RuntimeUseCase interface {
	FloorState(ctx context.Context, venueID int64) (*FloorView, error)
}

// TableState is the per-table projection: primary occupancy plus the
// independent reservation overlay.
type TableState struct {
	Resource    domain.Resource
	Status      domain.SessionStatus
	Overlay     domain.Overlay
	Reservation *domain.Reservation
	SeatedSince *time.Time
	StaffID     *string
}

type FloorView struct {
	Tables     []TableState
	Unassigned []domain.Reservation
}

type RuntimeService struct {
	tables       repository.TableRepository
	reservations repository.ReservationRepository
	cache        transition.Cache
	clock        clock.Clock
	horizon      time.Duration
}

func NewRuntimeService(tables repository.TableRepository, reservations repository.ReservationRepository, cache transition.Cache, clk clock.Clock, horizon time.Duration) *RuntimeService {
	return &RuntimeService{tables: tables, reservations: reservations, cache: cache, clock: clk, horizon: horizon}
}

// FloorState recomputes the venue view from the ledger and the book at the
// current instant. Nothing is stored; repeated calls with the same data and
// the same "now" yield the same view.
func (s *RuntimeService) FloorState(ctx context.Context, venueID int64) (*FloorView, error) {
	now := s.clock.Now()

	resources, err := s.venueResources(ctx, venueID)
	if err != nil {
		return nil, err
	}

	openSessions, err := s.tables.ListOpenSessions(ctx, venueID)
	if err != nil {
		return nil, err
	}
	openByResource := make(map[int64]*domain.Session, len(openSessions))
	for i := range openSessions {
		openByResource[openSessions[i].ResourceID] = &openSessions[i]
	}

	booked, err := s.reservations.ListBookedBetween(ctx, venueID, now, now.Add(s.horizon))
	if err != nil {
		return nil, err
	}
	reservationsByResource := make(map[int64][]domain.Reservation)
	for _, r := range booked {
		if r.ResourceID != nil {
			reservationsByResource[*r.ResourceID] = append(reservationsByResource[*r.ResourceID], r)
		}
	}

	tables := make([]TableState, 0, len(resources))
	for _, res := range resources {
		if !res.Active {
			continue
		}
		open := openByResource[res.ID]
		overlay, reservation := ProjectOverlay(reservationsByResource[res.ID], now, s.horizon)

		state := TableState{
			Resource:    res,
			Status:      PrimaryStatus(open),
			Overlay:     overlay,
			Reservation: reservation,
		}
		if open != nil && open.Status == domain.SessionStatusOccupied {
			openedAt := open.OpenedAt
			state.SeatedSince = &openedAt
			state.StaffID = open.StaffID
		}
		tables = append(tables, state)
	}

	unassigned, err := s.reservations.ListUnassigned(ctx, venueID, now)
	if err != nil {
		return nil, err
	}

	return &FloorView{Tables: tables, Unassigned: unassigned}, nil
}

func (s *RuntimeService) venueResources(ctx context.Context, venueID int64) ([]domain.Resource, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetResources(ctx, venueID); err == nil && cached != nil {
			return cached, nil
		}
	}

	resources, err := s.tables.ListResources(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetResources(ctx, venueID, resources)
	}
	return resources, nil
}

var _ RuntimeUseCase = (*RuntimeService)(nil)
