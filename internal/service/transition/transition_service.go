package transition

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/venuedesk/tableops/internal/clock"
	"github.com/venuedesk/tableops/internal/domain"
	"github.com/venuedesk/tableops/internal/kafka"
	"github.com/venuedesk/tableops/internal/repository"
)

// TransitionUseCase is the only write path into the session ledger and the
// reservation book. Every operation is venue-scoped and atomic.
type TransitionUseCase interface {
	SeatParty(ctx context.Context, venueID, resourceID int64, input SeatPartyInput) (*domain.Session, error)
	CloseTable(ctx context.Context, venueID, resourceID int64) (*domain.Session, error)
	CreateReservation(ctx context.Context, venueID int64, input CreateReservationInput) (*domain.Reservation, error)
	AssignReservation(ctx context.Context, venueID, reservationID, resourceID int64) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, venueID, reservationID int64) (*domain.Reservation, error)
	NoShowReservation(ctx context.Context, venueID, reservationID int64) (*domain.Reservation, error)
}

type Cache interface {
	AcquireTableLock(ctx context.Context, venueID, resourceID int64, ttl time.Duration) (bool, error)
	ReleaseTableLock(ctx context.Context, venueID, resourceID int64) error
	GetResources(ctx context.Context, venueID int64) ([]domain.Resource, error)
	SetResources(ctx context.Context, venueID int64, resources []domain.Resource) error
	InvalidateResources(ctx context.Context, venueID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type SeatPartyInput struct {
	ReservationID *int64  `json:"reservation_id"`
	StaffID       *string `json:"staff_id"`
}

type CreateReservationInput struct {
	ResourceID   *int64    `json:"table_id"`
	CustomerName string    `json:"customer_name"`
	PartySize    int       `json:"party_size"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
}

type TransitionService struct {
	tables       repository.TableRepository
	reservations repository.ReservationRepository
	cache        Cache
	producer     Producer
	eventsTopic  string
	lockTTL      time.Duration
	clock        clock.Clock
}

func NewTransitionService(
	tables repository.TableRepository,
	reservations repository.ReservationRepository,
	cache Cache,
	producer Producer,
	eventsTopic string,
	lockTTL time.Duration,
	clk clock.Clock,
) *TransitionService {
	return &TransitionService{
		tables:       tables,
		reservations: reservations,
		cache:        cache,
		producer:     producer,
		eventsTopic:  eventsTopic,
		lockTTL:      lockTTL,
		clock:        clk,
	}
}

func (s *TransitionService) SeatParty(ctx context.Context, venueID, resourceID int64, input SeatPartyInput) (*domain.Session, error) {
	if s.cache != nil {
		ok, err := s.cache.AcquireTableLock(ctx, venueID, resourceID, s.lockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Another staff client is mid-seat on the same table.
			return nil, domain.ErrAlreadyOccupied
		}
		defer func() {
			_ = s.cache.ReleaseTableLock(ctx, venueID, resourceID)
		}()
	}

	session, err := s.tables.SeatParty(ctx, venueID, resourceID, input.ReservationID, input.StaffID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	event := s.newEvent(kafka.EventTableSeated, venueID, resourceID)
	event.SessionID = session.ID
	event.Status = string(session.Status)
	if input.ReservationID != nil {
		event.ReservationID = *input.ReservationID
	}
	s.publish(ctx, event)
	return session, nil
}

func (s *TransitionService) CloseTable(ctx context.Context, venueID, resourceID int64) (*domain.Session, error) {
	session, err := s.tables.CloseTable(ctx, venueID, resourceID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	event := s.newEvent(kafka.EventTableClosed, venueID, resourceID)
	event.SessionID = session.ID
	event.Status = string(session.Status)
	s.publish(ctx, event)
	return session, nil
}

func (s *TransitionService) CreateReservation(ctx context.Context, venueID int64, input CreateReservationInput) (*domain.Reservation, error) {
	if input.CustomerName == "" {
		return nil, fmt.Errorf("%w: customer name is required", domain.ErrInvalidArgument)
	}
	if input.PartySize <= 0 {
		return nil, fmt.Errorf("%w: party size must be positive", domain.ErrInvalidArgument)
	}
	if !input.StartAt.Before(input.EndAt) {
		return nil, fmt.Errorf("%w: start must be before end", domain.ErrInvalidArgument)
	}

	reservation := &domain.Reservation{
		VenueID:      venueID,
		ResourceID:   input.ResourceID,
		CustomerName: input.CustomerName,
		PartySize:    input.PartySize,
		StartAt:      input.StartAt,
		EndAt:        input.EndAt,
	}
	if err := s.reservations.Create(ctx, reservation, s.clock.Now()); err != nil {
		return nil, err
	}

	event := s.newEvent(kafka.EventReservationBooked, venueID, 0)
	if reservation.ResourceID != nil {
		event.ResourceID = *reservation.ResourceID
	}
	event.ReservationID = reservation.ID
	event.Status = string(reservation.Status)
	s.publish(ctx, event)
	return reservation, nil
}

func (s *TransitionService) AssignReservation(ctx context.Context, venueID, reservationID, resourceID int64) (*domain.Reservation, error) {
	reservation, err := s.reservations.Assign(ctx, venueID, reservationID, resourceID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	event := s.newEvent(kafka.EventReservationAssign, venueID, resourceID)
	event.ReservationID = reservation.ID
	event.Status = string(reservation.Status)
	s.publish(ctx, event)
	return reservation, nil
}

func (s *TransitionService) CancelReservation(ctx context.Context, venueID, reservationID int64) (*domain.Reservation, error) {
	return s.finalize(ctx, venueID, reservationID, domain.ReservationStatusCancelled, kafka.EventReservationCancel)
}

func (s *TransitionService) NoShowReservation(ctx context.Context, venueID, reservationID int64) (*domain.Reservation, error) {
	return s.finalize(ctx, venueID, reservationID, domain.ReservationStatusNoShow, kafka.EventReservationNoShow)
}

func (s *TransitionService) finalize(ctx context.Context, venueID, reservationID int64, status domain.ReservationStatus, eventType string) (*domain.Reservation, error) {
	reservation, err := s.reservations.Finalize(ctx, venueID, reservationID, status, s.clock.Now())
	if err != nil {
		return nil, err
	}

	event := s.newEvent(eventType, venueID, 0)
	if reservation.ResourceID != nil {
		event.ResourceID = *reservation.ResourceID
	}
	event.ReservationID = reservation.ID
	event.Status = string(reservation.Status)
	s.publish(ctx, event)
	return reservation, nil
}

func (s *TransitionService) newEvent(eventType string, venueID, resourceID int64) kafka.TableEvent {
	return kafka.TableEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		VenueID:    venueID,
		ResourceID: resourceID,
		OccurredAt: s.clock.Now(),
	}
}

func (s *TransitionService) publish(ctx context.Context, event kafka.TableEvent) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	key := fmt.Sprintf("%d:%d", event.VenueID, event.ResourceID)
	if err := s.producer.Publish(ctx, s.eventsTopic, key, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for venue %d: %v", event.Type, event.VenueID, err)
	}
}

var _ TransitionUseCase = (*TransitionService)(nil)
