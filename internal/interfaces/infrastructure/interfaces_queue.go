package interfaces

import (
	"context"
	"time"

	domain "fitbook/internal/domain/booking"

	"github.com/google/uuid"
)

// NotificationJob carries a booking event to the notification dispatcher
// workers. Delivery is best effort; a full queue never fails the booking
// operation that produced the event.
type NotificationJob struct {
	Kind       domain.EventKind     `json:"kind"`
	BookingID  uuid.UUID            `json:"booking_id"`
	ClassID    uuid.UUID            `json:"class_id"`
	UserID     uuid.UUID            `json:"user_id"`
	Status     domain.BookingStatus `json:"status"`
	OccurredAt time.Time            `json:"occurred_at"`
}

// CacheRefreshJob asks the workers to rebuild the read-model cache for a class
type CacheRefreshJob struct {
	ClassID   uuid.UUID `json:"class_id"`
	Timestamp time.Time `json:"timestamp"`
}

// QueueService ferries background jobs to worker goroutines
type QueueService interface {
	EnqueueNotification(ctx context.Context, job NotificationJob) error
	DequeueNotification(ctx context.Context) (*NotificationJob, error)
	EnqueueCacheRefresh(ctx context.Context, job CacheRefreshJob) error
	DequeueCacheRefresh(ctx context.Context) (*CacheRefreshJob, error)
	SetNotificationProcessor(processor interface{})
	SetCacheRefresher(refresher interface{})
	StartWorkers()
	StopWorkers()
}
