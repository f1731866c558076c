package service

import (
	"context"
	"fmt"
	"time"

	domain "fitbook/internal/domain/booking"
	interfaces "fitbook/internal/interfaces/infrastructure"
	serviceInterfaces "fitbook/internal/interfaces/service"
	"fitbook/pkg/logger"

	"github.com/google/uuid"
)

var _ serviceInterfaces.NotificationProcessor = (*NotificationService)(nil)

// NotificationService turns booking events into persisted user notifications.
// Delivery is best effort; a failed notification never unwinds the booking
// operation that produced it.
type NotificationService struct {
	notificationRepo interfaces.NotificationRepository
}

func NewNotificationService(notificationRepo interfaces.NotificationRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
	}
}

// ProcessNotificationJob persists and dispatches a notification for the
// booking event. Called by the queue workers.
func (s *NotificationService) ProcessNotificationJob(ctx context.Context, job interfaces.NotificationJob) error {
	notification := &domain.Notification{
		NotificationID: uuid.New(),
		UserID:         job.UserID,
		ClassID:        job.ClassID,
		BookingID:      job.BookingID,
		Kind:           string(job.Kind),
		Status:         job.Status,
		Message:        notificationMessage(job),
		SentAt:         time.Now().UTC(),
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}

	// Delivery channel integrations (email, push) hang off this log line in
	// deployment; the record above is the source of truth either way.
	logger.Info("Notification %s delivered to user %s: %s",
		notification.NotificationID, job.UserID, notification.Message)

	return nil
}

// RecentForUser retrieves the user's most recent notifications.
func (s *NotificationService) RecentForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	notifications, err := s.notificationRepo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, persistence("list notifications", err)
	}
	return notifications, nil
}

func notificationMessage(job interfaces.NotificationJob) string {
	switch job.Kind {
	case domain.EventBookingCreated:
		if job.Status == domain.StatusWaitlisted {
			return "The class is full; you have been added to the waitlist."
		}
		return "Your booking is confirmed. See you in class!"
	case domain.EventBookingCancelled:
		return "Your booking has been cancelled."
	case domain.EventBookingStatusChanged:
		if job.Status == domain.StatusConfirmed {
			return "A spot opened up! Your waitlisted booking is now confirmed."
		}
		return fmt.Sprintf("Your booking status changed to %s.", job.Status)
	default:
		return fmt.Sprintf("Booking update: %s.", job.Kind)
	}
}
