package repository

import (
	"context"
	"time"

	domain "fitbook/internal/domain/booking"
	interfaces "fitbook/internal/interfaces/infrastructure"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassRepository implements ClassRepository using GORM
type ClassRepository struct {
	db *gorm.DB
}

// NewClassRepository creates a new GORM class repository
func NewClassRepository(db *gorm.DB) interfaces.ClassRepository {
	return &ClassRepository{
		db: db,
	}
}

// Create creates a new class
func (r *ClassRepository) Create(ctx context.Context, class *domain.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

// GetByID retrieves a class by ID
func (r *ClassRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Class, error) {
	var class domain.Class
	err := r.db.WithContext(ctx).Preload("Instructor").Preload("Venue").First(&class, "class_id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &class, nil
}

// UpdateWithOptimisticLock updates a class using optimistic locking.
// max_participants and current_participants are deliberately absent from the
// update set; capacity is fixed at creation and the seat counter belongs to
// the booking store.
func (r *ClassRepository) UpdateWithOptimisticLock(ctx context.Context, class *domain.Class) error {
	result := r.db.WithContext(ctx).Model(class).
		Where("class_id = ? AND version = ?", class.ClassID, class.Version-1).
		Updates(map[string]interface{}{
			"name":             class.Name,
			"instructor_id":    class.InstructorID,
			"venue_id":         class.VenueID,
			"category":         class.Category,
			"level":            class.Level,
			"starts_at":        class.StartsAt,
			"duration_minutes": class.DurationMinutes,
			"version":          class.Version,
			"updated_at":       class.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return domain.ErrConcurrencyConflict
	}

	return nil
}

// Delete removes a class
func (r *ClassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Class{}, "class_id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrClassNotFound
	}
	return nil
}

// List retrieves classes matching the filter, soonest first
func (r *ClassRepository) List(ctx context.Context, filter domain.ClassFilter) ([]*domain.Class, error) {
	query := r.db.WithContext(ctx).Preload("Instructor").Preload("Venue")

	if filter.InstructorID != nil {
		query = query.Where("instructor_id = ?", *filter.InstructorID)
	}
	if filter.VenueID != nil {
		query = query.Where("venue_id = ?", *filter.VenueID)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.StartsAfter != nil {
		query = query.Where("starts_at > ?", *filter.StartsAfter)
	}
	if filter.StartsBefore != nil {
		query = query.Where("starts_at < ?", *filter.StartsBefore)
	}

	var classes []*domain.Class
	err := query.Order("starts_at ASC").Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

// GetUpcoming retrieves classes starting after the given time
func (r *ClassRepository) GetUpcoming(ctx context.Context, from time.Time) ([]*domain.Class, error) {
	var classes []*domain.Class
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Preload("Venue").
		Where("starts_at > ?", from).
		Order("starts_at ASC").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}
