package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// TableEvent is published on every committed transition so observers
// (notification workers, live dashboards) can react without polling.
type TableEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	VenueID       int64     `json:"venue_id"`
	ResourceID    int64     `json:"resource_id,omitempty"`
	SessionID     int64     `json:"session_id,omitempty"`
	ReservationID int64     `json:"reservation_id,omitempty"`
	Status        string    `json:"status,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

const (
	EventTableRegistered    = "table_registered"
	EventTableDeactivated   = "table_deactivated"
	EventTableSeated        = "table_seated"
	EventTableClosed        = "table_closed"
	EventReservationBooked  = "reservation_booked"
	EventReservationAssign  = "reservation_assigned"
	EventReservationCancel  = "reservation_cancelled"
	EventReservationNoShow  = "reservation_no_show"
	EventReservationCheckIn = "reservation_checked_in"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
