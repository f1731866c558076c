package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CacheService is a read-model accelerator. Cached seat counts are for
// display only; capacity decisions always go through the booking store.
type CacheService interface {
	// Seat availability (display)
	GetAvailableSeats(ctx context.Context, classID uuid.UUID) (int, error)
	SetAvailableSeats(ctx context.Context, classID uuid.UUID, seats int, ttl time.Duration) error

	// Class details
	GetClassDetails(ctx context.Context, classID uuid.UUID) (interface{}, error)
	SetClassDetails(ctx context.Context, classID uuid.UUID, data interface{}, ttl time.Duration) error

	// Member booking views
	GetUserBookings(ctx context.Context, userID uuid.UUID) (interface{}, error)
	SetUserBookings(ctx context.Context, userID uuid.UUID, data interface{}, ttl time.Duration) error
	InvalidateUserBookings(ctx context.Context, userID uuid.UUID) error

	// Generic operations
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context, pattern string) error

	// Health and connection management
	Health(ctx context.Context) error
	Close() error
}
