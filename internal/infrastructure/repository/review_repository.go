package repository

import (
	"context"

	domain "fitbook/internal/domain/booking"
	interfaces "fitbook/internal/interfaces/infrastructure"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewRepository implements ReviewRepository using GORM
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new GORM review repository
func NewReviewRepository(db *gorm.DB) interfaces.ReviewRepository {
	return &ReviewRepository{
		db: db,
	}
}

// Create creates a new review
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// GetByClassID retrieves all reviews for a class, newest first
func (r *ReviewRepository) GetByClassID(ctx context.Context, classID uuid.UUID) ([]*domain.Review, error) {
	var reviews []*domain.Review
	err := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// DeleteByClassID removes all reviews for a class
func (r *ReviewRepository) DeleteByClassID(ctx context.Context, classID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Review{}, "class_id = ?", classID).Error
}
