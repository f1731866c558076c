package repository

import (
	"context"
	"time"

	domain "fitbook/internal/domain/booking"
	interfaces "fitbook/internal/interfaces/infrastructure"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingRepository implements BookingRepository using GORM. Every write
// that changes a booking's seat-holding state adjusts the class's
// current_participants counter inside the same database transaction, so the
// counter can never drift from the bookings it summarizes.
type BookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new GORM booking repository
func NewBookingRepository(db *gorm.DB) interfaces.BookingRepository {
	return &BookingRepository{
		db: db,
	}
}

// Create inserts the booking. A confirmed booking increments the class seat
// counter in the same transaction.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return err
		}

		if b.Status == domain.StatusConfirmed {
			if err := adjustSeatCounter(tx, b.ClassID, +1); err != nil {
				return err
			}
		}

		return nil
	})
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var booking domain.Booking
	err := r.db.WithContext(ctx).Preload("Class").First(&booking, "booking_id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

// GetActiveByClassAndUser retrieves the user's confirmed or waitlisted
// booking for the class, if any
func (r *BookingRepository) GetActiveByClassAndUser(ctx context.Context, classID, userID uuid.UUID) (*domain.Booking, error) {
	var booking domain.Booking
	err := r.db.WithContext(ctx).
		Where("class_id = ? AND user_id = ? AND status IN ?", classID, userID,
			[]domain.BookingStatus{domain.StatusConfirmed, domain.StatusWaitlisted}).
		First(&booking).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

// Transition moves the booking to the given status as a conditional write.
// The WHERE clause pins the status the caller read; if another writer got
// there first the update matches zero rows and ErrConcurrencyConflict is
// returned without touching the seat counter.
func (r *BookingRepository) Transition(ctx context.Context, b *domain.Booking, to domain.BookingStatus) error {
	from := b.Status
	if !from.CanTransitionTo(to) {
		return domain.ErrInvalidTransition
	}

	now := time.Now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Booking{}).
			Where("booking_id = ? AND status = ?", b.BookingID, from).
			Updates(map[string]interface{}{
				"status":     to,
				"updated_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrConcurrencyConflict
		}

		if delta := domain.SeatDelta(from, to); delta != 0 {
			if err := adjustSeatCounter(tx, b.ClassID, delta); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	b.Status = to
	b.UpdatedAt = now
	return nil
}

// CountByClassAndStatus counts the class's bookings in the given status
func (r *BookingRepository) CountByClassAndStatus(ctx context.Context, classID uuid.UUID, status domain.BookingStatus) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("class_id = ? AND status = ?", classID, status).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// NextWaitlisted retrieves the oldest waitlisted booking for the class.
// booking_id breaks creation-time ties so the ordering is total.
func (r *BookingRepository) NextWaitlisted(ctx context.Context, classID uuid.UUID) (*domain.Booking, error) {
	var booking domain.Booking
	err := r.db.WithContext(ctx).
		Where("class_id = ? AND status = ?", classID, domain.StatusWaitlisted).
		Order("created_at ASC, booking_id ASC").
		First(&booking).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

// List retrieves bookings matching the filter, oldest first
func (r *BookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	query := r.db.WithContext(ctx).Preload("Class")

	if filter.ClassID != nil {
		query = query.Where("class_id = ?", *filter.ClassID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var bookings []*domain.Booking
	err := query.Order("created_at ASC, booking_id ASC").Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpcomingForUser retrieves the user's active bookings for classes starting
// after the given time
func (r *BookingRepository) UpcomingForUser(ctx context.Context, userID uuid.UUID, after time.Time) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Class.Instructor").
		Preload("Class.Venue").
		Joins("JOIN classes ON classes.class_id = bookings.class_id").
		Where("bookings.user_id = ? AND bookings.status IN ? AND classes.starts_at > ?",
			userID,
			[]domain.BookingStatus{domain.StatusConfirmed, domain.StatusWaitlisted},
			after).
		Order("classes.starts_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// PastForUser retrieves the user's bookings for classes that started before
// the given time
func (r *BookingRepository) PastForUser(ctx context.Context, userID uuid.UUID, before time.Time) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Class.Instructor").
		Preload("Class.Venue").
		Joins("JOIN classes ON classes.class_id = bookings.class_id").
		Where("bookings.user_id = ? AND classes.starts_at < ?", userID, before).
		Order("classes.starts_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// DeleteByClassID removes all bookings for a class
func (r *BookingRepository) DeleteByClassID(ctx context.Context, classID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Booking{}, "class_id = ?", classID).Error
}

// adjustSeatCounter moves the class's denormalized confirmed-seat counter by
// delta within the caller's transaction.
func adjustSeatCounter(tx *gorm.DB, classID uuid.UUID, delta int) error {
	result := tx.Model(&domain.Class{}).
		Where("class_id = ?", classID).
		UpdateColumn("current_participants", gorm.Expr("current_participants + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrClassNotFound
	}
	return nil
}
