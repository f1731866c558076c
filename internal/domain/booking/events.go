package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventKind identifies a booking lifecycle event
type EventKind string

const (
	EventBookingCreated       EventKind = "booking_created"
	EventBookingCancelled     EventKind = "booking_cancelled"
	EventBookingStatusChanged EventKind = "booking_status_changed"
)

// Event carries a booking state transition to interested subscribers. The
// booking manager emits one event per transition, best effort.
type Event struct {
	Kind       EventKind     `json:"kind"`
	BookingID  uuid.UUID     `json:"booking_id"`
	ClassID    uuid.UUID     `json:"class_id"`
	UserID     uuid.UUID     `json:"user_id"`
	Status     BookingStatus `json:"status"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// NewEvent builds an event for the booking's current state.
func NewEvent(kind EventKind, b *Booking) Event {
	return Event{
		Kind:       kind,
		BookingID:  b.BookingID,
		ClassID:    b.ClassID,
		UserID:     b.UserID,
		Status:     b.Status,
		OccurredAt: time.Now().UTC(),
	}
}

// EventSink receives booking events. Implementations must not block booking
// operations; delivery guarantees are the subscriber's concern.
type EventSink interface {
	Publish(ctx context.Context, evt Event) error
}
