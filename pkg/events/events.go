// Package events publishes booking lifecycle events for downstream
// consumers (notifications, audit).
package events

import (
	"context"
	"time"

	"sharely/pkg/kafka"
	"sharely/pkg/model"
)

const (
	TypeBookingCreated  = "booking.created"
	TypeBookingApproved = "booking.approved"
	TypeBookingRejected = "booking.rejected"
)

// BookingEvent is the wire payload for every booking lifecycle event.
type BookingEvent struct {
	BookingID  string              `json:"booking_id"`
	ItemID     string              `json:"item_id"`
	BookerID   string              `json:"booker_id"`
	OwnerID    string              `json:"owner_id"`
	Status     model.BookingStatus `json:"status"`
	Start      time.Time           `json:"start"`
	End        time.Time           `json:"end"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// EventTypeForStatus maps a booking status to its lifecycle event type.
// The empty string means no event is emitted for that status.
func EventTypeForStatus(status model.BookingStatus) string {
	switch status {
	case model.StatusWaiting:
		return TypeBookingCreated
	case model.StatusApproved:
		return TypeBookingApproved
	case model.StatusRejected:
		return TypeBookingRejected
	default:
		return ""
	}
}

type Publisher interface {
	PublishBookingEvent(ctx context.Context, eventType string, event BookingEvent) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(producer *kafka.Producer, source string) Publisher {
	return &kafkaPublisher{
		producer: producer,
		source:   source,
	}
}

func (p *kafkaPublisher) PublishBookingEvent(ctx context.Context, eventType string, event BookingEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	// Keyed by booking id so all events of one booking land on the same
	// partition, in order.
	msg := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(eventType).
		WithSource(p.source).
		Build()

	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops all events. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishBookingEvent(ctx context.Context, eventType string, event BookingEvent) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
