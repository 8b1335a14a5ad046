package registry

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/venuedesk/tableops/internal/clock"
	"github.com/venuedesk/tableops/internal/domain"
	"github.com/venuedesk/tableops/internal/kafka"
	"github.com/venuedesk/tableops/internal/repository"
	"github.com/venuedesk/tableops/internal/service/transition"
)

type RegistryUseCase interface {
	Register(ctx context.Context, venueID int64, input RegisterTableInput) (*domain.Resource, *domain.Session, error)
	Deactivate(ctx context.Context, venueID, resourceID int64) error
}

type RegisterTableInput struct {
	Label    string `json:"label"`
	Capacity int    `json:"capacity"`
}

type RegistryService struct {
	tables      repository.TableRepository
	cache       transition.Cache
	producer    transition.Producer
	eventsTopic string
	clock       clock.Clock
}

func NewRegistryService(tables repository.TableRepository, cache transition.Cache, producer transition.Producer, eventsTopic string, clk clock.Clock) *RegistryService {
	return &RegistryService{tables: tables, cache: cache, producer: producer, eventsTopic: eventsTopic, clock: clk}
}

// Register creates the table together with its initial FREE session.
func (s *RegistryService) Register(ctx context.Context, venueID int64, input RegisterTableInput) (*domain.Resource, *domain.Session, error) {
	if input.Label == "" {
		return nil, nil, fmt.Errorf("%w: label is required", domain.ErrInvalidArgument)
	}
	if input.Capacity <= 0 {
		return nil, nil, fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidArgument)
	}

	resource := &domain.Resource{VenueID: venueID, Label: input.Label, Capacity: input.Capacity}
	session, err := s.tables.CreateResource(ctx, resource, s.clock.Now())
	if err != nil {
		return nil, nil, err
	}

	s.invalidate(ctx, venueID)
	s.publish(ctx, kafka.EventTableRegistered, venueID, resource.ID, session.ID)
	return resource, session, nil
}

func (s *RegistryService) Deactivate(ctx context.Context, venueID, resourceID int64) error {
	if err := s.tables.DeactivateResource(ctx, venueID, resourceID, s.clock.Now()); err != nil {
		return err
	}
	s.invalidate(ctx, venueID)
	s.publish(ctx, kafka.EventTableDeactivated, venueID, resourceID, 0)
	return nil
}

func (s *RegistryService) invalidate(ctx context.Context, venueID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateResources(ctx, venueID); err != nil {
		log.Printf("WARNING: failed to invalidate table cache for venue %d: %v", venueID, err)
	}
}

func (s *RegistryService) publish(ctx context.Context, eventType string, venueID, resourceID, sessionID int64) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.TableEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		VenueID:    venueID,
		ResourceID: resourceID,
		SessionID:  sessionID,
		OccurredAt: s.clock.Now(),
	}
	key := fmt.Sprintf("%d:%d", venueID, resourceID)
	if err := s.producer.Publish(ctx, s.eventsTopic, key, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for venue %d: %v", eventType, venueID, err)
	}
}

var _ RegistryUseCase = (*RegistryService)(nil)
