package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "fitbook/internal/domain/booking"
	interfaces "fitbook/internal/interfaces/infrastructure"

	"github.com/google/uuid"
)

var _ interfaces.BookingRepository = (*MemoryBookingRepository)(nil)

// MemoryBookingRepository is an in-memory implementation of BookingRepository
// for testing/demo purposes. It mirrors the database implementation's
// guarantees: status transitions are conditional writes, and seat counter
// adjustments happen atomically with the booking write.
type MemoryBookingRepository struct {
	bookings map[uuid.UUID]*domain.Booking
	classes  *MemoryClassRepository
	mutex    sync.RWMutex
}

// NewMemoryBookingRepository creates a new in-memory booking repository
// backed by the given class repository for seat counter updates
func NewMemoryBookingRepository(classes *MemoryClassRepository) *MemoryBookingRepository {
	return &MemoryBookingRepository{
		bookings: make(map[uuid.UUID]*domain.Booking),
		classes:  classes,
	}
}

// Create inserts the booking; a confirmed booking increments the class seat
// counter atomically with the insert
func (r *MemoryBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if b.BookingID == uuid.Nil {
		b.BookingID = uuid.New()
	}

	if b.Status == domain.StatusConfirmed {
		if err := r.classes.adjustSeats(b.ClassID, +1); err != nil {
			return err
		}
	}

	stored := *b
	r.bookings[b.BookingID] = &stored
	return nil
}

// GetByID retrieves a booking by ID
func (r *MemoryBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	booking, exists := r.bookings[id]
	if !exists {
		return nil, nil
	}

	copied := *booking
	return &copied, nil
}

// GetActiveByClassAndUser retrieves the user's confirmed or waitlisted
// booking for the class, if any
func (r *MemoryBookingRepository) GetActiveByClassAndUser(ctx context.Context, classID, userID uuid.UUID) (*domain.Booking, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, b := range r.bookings {
		if b.ClassID == classID && b.UserID == userID && b.Status.IsActive() {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

// Transition moves the booking to the given status as a conditional write
func (r *MemoryBookingRepository) Transition(ctx context.Context, b *domain.Booking, to domain.BookingStatus) error {
	from := b.Status
	if !from.CanTransitionTo(to) {
		return domain.ErrInvalidTransition
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, exists := r.bookings[b.BookingID]
	if !exists {
		return domain.ErrBookingNotFound
	}
	if stored.Status != from {
		return domain.ErrConcurrencyConflict
	}

	if delta := domain.SeatDelta(from, to); delta != 0 {
		if err := r.classes.adjustSeats(b.ClassID, delta); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	stored.Status = to
	stored.UpdatedAt = now
	b.Status = to
	b.UpdatedAt = now
	return nil
}

// CountByClassAndStatus counts the class's bookings in the given status
func (r *MemoryBookingRepository) CountByClassAndStatus(ctx context.Context, classID uuid.UUID, status domain.BookingStatus) (int, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	count := 0
	for _, b := range r.bookings {
		if b.ClassID == classID && b.Status == status {
			count++
		}
	}
	return count, nil
}

// NextWaitlisted retrieves the oldest waitlisted booking for the class
func (r *MemoryBookingRepository) NextWaitlisted(ctx context.Context, classID uuid.UUID) (*domain.Booking, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var next *domain.Booking
	for _, b := range r.bookings {
		if b.ClassID != classID || b.Status != domain.StatusWaitlisted {
			continue
		}
		if next == nil || earlier(b, next) {
			next = b
		}
	}
	if next == nil {
		return nil, nil
	}

	copied := *next
	return &copied, nil
}

// List retrieves bookings matching the filter, oldest first
func (r *MemoryBookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var bookings []*domain.Booking
	for _, b := range r.bookings {
		if filter.ClassID != nil && b.ClassID != *filter.ClassID {
			continue
		}
		if filter.UserID != nil && b.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		copied := *b
		bookings = append(bookings, &copied)
	}

	sort.Slice(bookings, func(i, j int) bool {
		return earlier(bookings[i], bookings[j])
	})
	return bookings, nil
}

// UpcomingForUser retrieves the user's active bookings for classes starting
// after the given time
func (r *MemoryBookingRepository) UpcomingForUser(ctx context.Context, userID uuid.UUID, after time.Time) ([]*domain.Booking, error) {
	return r.forUserByClassTime(ctx, userID, func(b *domain.Booking, class *domain.Class) bool {
		return b.Status.IsActive() && class.StartsAt.After(after)
	})
}

// PastForUser retrieves the user's bookings for classes that started before
// the given time
func (r *MemoryBookingRepository) PastForUser(ctx context.Context, userID uuid.UUID, before time.Time) ([]*domain.Booking, error) {
	return r.forUserByClassTime(ctx, userID, func(b *domain.Booking, class *domain.Class) bool {
		return class.StartsAt.Before(before)
	})
}

func (r *MemoryBookingRepository) forUserByClassTime(ctx context.Context, userID uuid.UUID, keep func(*domain.Booking, *domain.Class) bool) ([]*domain.Booking, error) {
	r.mutex.RLock()
	candidates := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.UserID == userID {
			copied := *b
			candidates = append(candidates, &copied)
		}
	}
	r.mutex.RUnlock()

	var bookings []*domain.Booking
	for _, b := range candidates {
		class, err := r.classes.GetByID(ctx, b.ClassID)
		if err != nil {
			return nil, err
		}
		if class == nil {
			continue
		}
		if keep(b, class) {
			b.Class = *class
			bookings = append(bookings, b)
		}
	}

	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].Class.StartsAt.Before(bookings[j].Class.StartsAt)
	})
	return bookings, nil
}

// DeleteByClassID removes all bookings for a class
func (r *MemoryBookingRepository) DeleteByClassID(ctx context.Context, classID uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for id, b := range r.bookings {
		if b.ClassID == classID {
			delete(r.bookings, id)
		}
	}
	return nil
}

// earlier orders bookings by creation time with booking ID as tiebreaker
func earlier(a, b *domain.Booking) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.BookingID.String() < b.BookingID.String()
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
