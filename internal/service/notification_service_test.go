package service

import (
	"context"
	"strings"
	"testing"
	"time"

	domain "fitbook/internal/domain/booking"
	"fitbook/internal/infrastructure/repository"
	interfaces "fitbook/internal/interfaces/infrastructure"

	"github.com/google/uuid"
)

func TestNotificationService_ProcessNotificationJob(t *testing.T) {
	repo := repository.NewMemoryNotificationRepository()
	svc := NewNotificationService(repo)

	userID := uuid.New()
	job := interfaces.NotificationJob{
		Kind:       domain.EventBookingStatusChanged,
		BookingID:  uuid.New(),
		ClassID:    uuid.New(),
		UserID:     userID,
		Status:     domain.StatusConfirmed,
		OccurredAt: time.Now().UTC(),
	}

	if err := svc.ProcessNotificationJob(context.Background(), job); err != nil {
		t.Fatalf("Expected job processing to succeed, got %v", err)
	}

	notifications, err := svc.RecentForUser(context.Background(), userID, 10)
	if err != nil {
		t.Fatalf("Failed to list notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifications))
	}

	n := notifications[0]
	if n.BookingID != job.BookingID {
		t.Errorf("Expected notification for booking %s, got %s", job.BookingID, n.BookingID)
	}
	if !strings.Contains(n.Message, "confirmed") {
		t.Errorf("Expected promotion message to mention confirmation, got %q", n.Message)
	}
}

func TestNotificationMessage_PerKind(t *testing.T) {
	tests := []struct {
		name     string
		kind     domain.EventKind
		status   domain.BookingStatus
		contains string
	}{
		{"confirmed booking", domain.EventBookingCreated, domain.StatusConfirmed, "confirmed"},
		{"waitlisted booking", domain.EventBookingCreated, domain.StatusWaitlisted, "waitlist"},
		{"cancellation", domain.EventBookingCancelled, domain.StatusCancelled, "cancelled"},
		{"promotion", domain.EventBookingStatusChanged, domain.StatusConfirmed, "spot opened up"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := notificationMessage(interfaces.NotificationJob{Kind: tt.kind, Status: tt.status})
			if !strings.Contains(msg, tt.contains) {
				t.Errorf("Expected message to contain %q, got %q", tt.contains, msg)
			}
		})
	}
}
