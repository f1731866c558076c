package booking

import (
	"testing"

	"github.com/google/uuid"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{StatusConfirmed, StatusCancelled, true},
		{StatusWaitlisted, StatusConfirmed, true},
		{StatusWaitlisted, StatusCancelled, true},
		{StatusConfirmed, StatusWaitlisted, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusWaitlisted, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusConfirmed, StatusConfirmed, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestBookingStatus_IsActive(t *testing.T) {
	if !StatusConfirmed.IsActive() {
		t.Error("Expected confirmed to be active")
	}
	if !StatusWaitlisted.IsActive() {
		t.Error("Expected waitlisted to be active")
	}
	if StatusCancelled.IsActive() {
		t.Error("Expected cancelled to be inactive")
	}
}

func TestSeatDelta(t *testing.T) {
	if d := SeatDelta(StatusConfirmed, StatusCancelled); d != -1 {
		t.Errorf("Expected -1 for confirmed->cancelled, got %d", d)
	}
	if d := SeatDelta(StatusWaitlisted, StatusConfirmed); d != 1 {
		t.Errorf("Expected +1 for waitlisted->confirmed, got %d", d)
	}
	if d := SeatDelta(StatusWaitlisted, StatusCancelled); d != 0 {
		t.Errorf("Expected 0 for waitlisted->cancelled, got %d", d)
	}
}

func TestNewBooking(t *testing.T) {
	classID := uuid.New()
	userID := uuid.New()

	b := NewBooking(classID, userID, StatusConfirmed)

	if b.BookingID == uuid.Nil {
		t.Error("Expected booking ID to be assigned")
	}
	if b.ClassID != classID {
		t.Errorf("Expected class ID %s, got %s", classID, b.ClassID)
	}
	if b.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, b.UserID)
	}
	if b.Status != StatusConfirmed {
		t.Errorf("Expected status confirmed, got %s", b.Status)
	}
	if b.CreatedAt.IsZero() {
		t.Error("Expected creation timestamp to be set")
	}
}
