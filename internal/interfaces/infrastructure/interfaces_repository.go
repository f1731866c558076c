package interfaces

import (
	"context"
	"time"

	domain "fitbook/internal/domain/booking"

	"github.com/google/uuid"
)

// ClassRepository is the Class Catalog: it owns Class records. The
// current_participants counter is mutated only through BookingRepository
// writes, never here.
type ClassRepository interface {
	Create(ctx context.Context, class *domain.Class) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Class, error)
	UpdateWithOptimisticLock(ctx context.Context, class *domain.Class) error
	// Delete removes the class together with its bookings and reviews.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter domain.ClassFilter) ([]*domain.Class, error)
	GetUpcoming(ctx context.Context, from time.Time) ([]*domain.Class, error)
}

// BookingRepository is the Booking Store: the durable home for booking state
// transitions. Writes that change a booking's seat-holding state adjust the
// class's confirmed-seat counter in the same storage transaction.
type BookingRepository interface {
	// Create inserts the booking; a confirmed booking increments the class
	// counter atomically with the insert.
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	// GetActiveByClassAndUser returns the user's confirmed or waitlisted
	// booking for the class, or nil.
	GetActiveByClassAndUser(ctx context.Context, classID, userID uuid.UUID) (*domain.Booking, error)
	// Transition moves the booking from its current status to the given one
	// as a conditional write; the seat counter adjustment rides in the same
	// transaction. Returns domain.ErrConcurrencyConflict if the row's status
	// changed since it was read.
	Transition(ctx context.Context, b *domain.Booking, to domain.BookingStatus) error
	CountByClassAndStatus(ctx context.Context, classID uuid.UUID, status domain.BookingStatus) (int, error)
	// NextWaitlisted returns the oldest waitlisted booking for the class by
	// creation time, or nil when the waitlist is empty.
	NextWaitlisted(ctx context.Context, classID uuid.UUID) (*domain.Booking, error)
	// List returns bookings matching the filter, ordered by creation time
	// ascending.
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	// UpcomingForUser returns the user's active bookings for classes starting
	// after the given time, with class details loaded.
	UpcomingForUser(ctx context.Context, userID uuid.UUID, after time.Time) ([]*domain.Booking, error)
	// PastForUser returns the user's bookings for classes that started before
	// the given time, with class details loaded.
	PastForUser(ctx context.Context, userID uuid.UUID, before time.Time) ([]*domain.Booking, error)
	DeleteByClassID(ctx context.Context, classID uuid.UUID) error
}

// ReviewRepository persists class reviews
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByClassID(ctx context.Context, classID uuid.UUID) ([]*domain.Review, error)
	DeleteByClassID(ctx context.Context, classID uuid.UUID) error
}

// NotificationRepository persists dispatched notifications
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Notification, error)
}

// IdempotencyRepository stores processed booking-request outcomes
type IdempotencyRepository interface {
	Create(ctx context.Context, key *domain.IdempotencyKey) error
	GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error)
	Delete(ctx context.Context, key string) error
	DeleteExpired(ctx context.Context) error
}
