package repository

import (
	"context"
	"sort"
	"sync"

	domain "fitbook/internal/domain/booking"
	interfaces "fitbook/internal/interfaces/infrastructure"

	"github.com/google/uuid"
)

var _ interfaces.NotificationRepository = (*MemoryNotificationRepository)(nil)

// MemoryNotificationRepository is an in-memory implementation of
// NotificationRepository for testing/demo purposes
type MemoryNotificationRepository struct {
	notifications []*domain.Notification
	mutex         sync.RWMutex
}

// NewMemoryNotificationRepository creates a new in-memory notification repository
func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{}
}

func (r *MemoryNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if n.NotificationID == uuid.Nil {
		n.NotificationID = uuid.New()
	}

	stored := *n
	r.notifications = append(r.notifications, &stored)
	return nil
}

func (r *MemoryNotificationRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Notification, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var notifications []*domain.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			copied := *n
			notifications = append(notifications, &copied)
		}
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})

	if limit > 0 && len(notifications) > limit {
		notifications = notifications[:limit]
	}
	return notifications, nil
}
