package repository

import (
	"context"

	domain "fitbook/internal/domain/booking"
	interfaces "fitbook/internal/interfaces/infrastructure"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRepository implements NotificationRepository using GORM
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new GORM notification repository
func NewNotificationRepository(db *gorm.DB) interfaces.NotificationRepository {
	return &NotificationRepository{
		db: db,
	}
}

// Create creates a new notification record
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// GetByUserID retrieves the user's most recent notifications
func (r *NotificationRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Notification, error) {
	var notifications []*domain.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}
