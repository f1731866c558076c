package service

import (
	"context"
	"time"

	domain "fitbook/internal/domain/booking"
	infrastructure "fitbook/internal/interfaces/infrastructure"

	"github.com/google/uuid"
)

// CreateBookingRequest is a request for a seat in a class. The idempotency
// key, when present, makes retries safe.
type CreateBookingRequest struct {
	ClassID        uuid.UUID `json:"class_id" validate:"required"`
	UserID         uuid.UUID `json:"user_id" validate:"required"`
	IdempotencyKey string    `json:"-"`
}

// CreateClassRequest describes a new class. Capacity is fixed at creation.
type CreateClassRequest struct {
	Name            string    `json:"name" validate:"required,min=1,max=100"`
	InstructorID    uuid.UUID `json:"instructor_id" validate:"required"`
	VenueID         uuid.UUID `json:"venue_id" validate:"required"`
	Category        string    `json:"category" validate:"required"`
	Level           string    `json:"level" validate:"omitempty,oneof=all beginner intermediate advanced"`
	StartsAt        time.Time `json:"starts_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,gt=0"`
	MaxParticipants int       `json:"max_participants" validate:"required,gt=0"`
}

// UpdateClassRequest carries instructor edits to a class. Capacity never
// changes after creation; a request that sets MaxParticipants is rejected.
type UpdateClassRequest struct {
	Name            *string    `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Category        *string    `json:"category,omitempty"`
	Level           *string    `json:"level,omitempty" validate:"omitempty,oneof=all beginner intermediate advanced"`
	StartsAt        *time.Time `json:"starts_at,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty" validate:"omitempty,gt=0"`
	MaxParticipants *int       `json:"max_participants,omitempty"`
}

// CreateReviewRequest carries a member's review of a class
type CreateReviewRequest struct {
	UserID  uuid.UUID `json:"user_id" validate:"required"`
	Rating  int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string    `json:"comment" validate:"max=2000"`
}

// BookingService is the Booking & Waitlist Manager
type BookingService interface {
	// CreateBooking claims a seat, or the next waitlist slot when the class
	// is full. Waitlisting is a success outcome, not an error.
	CreateBooking(ctx context.Context, req *CreateBookingRequest) (*domain.Booking, error)
	// CancelBooking cancels the booking; cancelling a confirmed seat promotes
	// the oldest waitlisted booking in the same unit of work. Cancelling an
	// already-cancelled booking is a no-op.
	CancelBooking(ctx context.Context, bookingID uuid.UUID) error
	// ListBookings returns bookings matching the composable filter, ordered
	// by creation time ascending.
	ListBookings(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)

	// Read helpers
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)
	UpcomingClassesForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Booking, error)
	PastClassesForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Booking, error)
	ClassParticipants(ctx context.Context, classID uuid.UUID) ([]*domain.Booking, error)
	ClassWaitlist(ctx context.Context, classID uuid.UUID) ([]*domain.Booking, error)

	// Internal processing (called by queue workers)
	RefreshClassCache(ctx context.Context, classID uuid.UUID) error
}

// ClassService is the Class Catalog service
type ClassService interface {
	CreateClass(ctx context.Context, req *CreateClassRequest) (*domain.Class, error)
	GetClass(ctx context.Context, classID uuid.UUID) (*domain.Class, error)
	UpdateClass(ctx context.Context, classID uuid.UUID, req *UpdateClassRequest) (*domain.Class, error)
	// DeleteClass removes the class and cascades to its bookings and reviews.
	DeleteClass(ctx context.Context, classID uuid.UUID) error
	ListClasses(ctx context.Context, filter domain.ClassFilter) ([]*domain.Class, error)
	UpcomingClasses(ctx context.Context) ([]*domain.Class, error)

	AddReview(ctx context.Context, classID uuid.UUID, req *CreateReviewRequest) (*domain.Review, error)
	ListReviews(ctx context.Context, classID uuid.UUID) ([]*domain.Review, error)
}

// NotificationProcessor handles notification jobs dequeued by the workers
type NotificationProcessor interface {
	ProcessNotificationJob(ctx context.Context, job infrastructure.NotificationJob) error
}

// CacheRefresher handles cache refresh jobs dequeued by the workers
type CacheRefresher interface {
	RefreshClassCache(ctx context.Context, classID uuid.UUID) error
}
