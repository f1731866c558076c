package service

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "fitbook/internal/domain/booking"
	"fitbook/internal/infrastructure/cache"
	"fitbook/internal/infrastructure/repository"
	serviceInterfaces "fitbook/internal/interfaces/service"

	"github.com/google/uuid"
)

func newClassServiceForTest() (*ClassService, *repository.MemoryClassRepository, *repository.MemoryBookingRepository) {
	classes := repository.NewMemoryClassRepository()
	bookings := repository.NewMemoryBookingRepository(classes)
	reviews := repository.NewMemoryReviewRepository()

	svc := NewClassService(classes, bookings, reviews, cache.NewMemoryCache())
	return svc, classes, bookings
}

func validCreateClassRequest() *serviceInterfaces.CreateClassRequest {
	return &serviceInterfaces.CreateClassRequest{
		Name:            "Evening Spin",
		InstructorID:    uuid.New(),
		VenueID:         uuid.New(),
		Category:        "cycling",
		Level:           "intermediate",
		StartsAt:        time.Now().Add(72 * time.Hour),
		DurationMinutes: 45,
		MaxParticipants: 12,
	}
}

func TestClassService_CreateClass(t *testing.T) {
	svc, _, _ := newClassServiceForTest()

	req := validCreateClassRequest()
	class, err := svc.CreateClass(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected class creation to succeed, got %v", err)
	}

	if class.Name != req.Name {
		t.Errorf("Expected name %s, got %s", req.Name, class.Name)
	}
	if class.MaxParticipants != 12 {
		t.Errorf("Expected capacity 12, got %d", class.MaxParticipants)
	}
	if class.CurrentParticipants != 0 {
		t.Errorf("Expected zero participants on creation, got %d", class.CurrentParticipants)
	}
	if class.Version != 1 {
		t.Errorf("Expected initial version 1, got %d", class.Version)
	}
}

func TestClassService_CreateClass_RejectsZeroCapacity(t *testing.T) {
	svc, _, _ := newClassServiceForTest()

	req := validCreateClassRequest()
	req.MaxParticipants = 0

	if _, err := svc.CreateClass(context.Background(), req); err == nil {
		t.Fatal("Expected validation error for zero capacity, got nil")
	}
}

func TestClassService_UpdateClass_LeavesCapacityAndSeatsAlone(t *testing.T) {
	svc, classes, bookings := newClassServiceForTest()
	ctx := context.Background()

	class, err := svc.CreateClass(ctx, validCreateClassRequest())
	if err != nil {
		t.Fatalf("Expected class creation to succeed, got %v", err)
	}

	booking := domain.NewBooking(class.ClassID, uuid.New(), domain.StatusConfirmed)
	if err := bookings.Create(ctx, booking); err != nil {
		t.Fatalf("Failed to create booking: %v", err)
	}

	newName := "Evening Spin Express"
	updated, err := svc.UpdateClass(ctx, class.ClassID, &serviceInterfaces.UpdateClassRequest{Name: &newName})
	if err != nil {
		t.Fatalf("Expected update to succeed, got %v", err)
	}

	if updated.Name != newName {
		t.Errorf("Expected updated name, got %s", updated.Name)
	}
	if updated.Version != 2 {
		t.Errorf("Expected version bump to 2, got %d", updated.Version)
	}

	stored, err := classes.GetByID(ctx, class.ClassID)
	if err != nil {
		t.Fatalf("Failed to load class: %v", err)
	}
	if stored.MaxParticipants != 12 {
		t.Errorf("Expected capacity untouched, got %d", stored.MaxParticipants)
	}
	if stored.CurrentParticipants != 1 {
		t.Errorf("Expected seat counter untouched by update, got %d", stored.CurrentParticipants)
	}
}

func TestClassService_UpdateClass_RejectsCapacityChange(t *testing.T) {
	svc, _, _ := newClassServiceForTest()
	ctx := context.Background()

	class, err := svc.CreateClass(ctx, validCreateClassRequest())
	if err != nil {
		t.Fatalf("Expected class creation to succeed, got %v", err)
	}

	bigger := 50
	_, err = svc.UpdateClass(ctx, class.ClassID, &serviceInterfaces.UpdateClassRequest{MaxParticipants: &bigger})
	if !errors.Is(err, domain.ErrCapacityImmutable) {
		t.Fatalf("Expected ErrCapacityImmutable, got %v", err)
	}
}

func TestClassService_UpdateClass_NotFound(t *testing.T) {
	svc, _, _ := newClassServiceForTest()

	name := "Anything"
	_, err := svc.UpdateClass(context.Background(), uuid.New(), &serviceInterfaces.UpdateClassRequest{Name: &name})
	if !errors.Is(err, domain.ErrClassNotFound) {
		t.Fatalf("Expected ErrClassNotFound, got %v", err)
	}
}

func TestClassService_DeleteClass_CascadesToBookingsAndReviews(t *testing.T) {
	svc, _, bookings := newClassServiceForTest()
	ctx := context.Background()

	class, err := svc.CreateClass(ctx, validCreateClassRequest())
	if err != nil {
		t.Fatalf("Expected class creation to succeed, got %v", err)
	}

	booking := domain.NewBooking(class.ClassID, uuid.New(), domain.StatusConfirmed)
	if err := bookings.Create(ctx, booking); err != nil {
		t.Fatalf("Failed to create booking: %v", err)
	}
	if _, err := svc.AddReview(ctx, class.ClassID, &serviceInterfaces.CreateReviewRequest{
		UserID: booking.UserID,
		Rating: 5,
	}); err != nil {
		t.Fatalf("Failed to add review: %v", err)
	}

	if err := svc.DeleteClass(ctx, class.ClassID); err != nil {
		t.Fatalf("Expected deletion to succeed, got %v", err)
	}

	if _, err := svc.GetClass(ctx, class.ClassID); !errors.Is(err, domain.ErrClassNotFound) {
		t.Errorf("Expected class to be gone, got %v", err)
	}

	remaining, err := bookings.List(ctx, domain.BookingFilter{ClassID: &class.ClassID})
	if err != nil {
		t.Fatalf("Failed to list bookings: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("Expected bookings removed with the class, found %d", len(remaining))
	}
}

func TestClassService_AddReview_Validates(t *testing.T) {
	svc, _, _ := newClassServiceForTest()
	ctx := context.Background()

	class, err := svc.CreateClass(ctx, validCreateClassRequest())
	if err != nil {
		t.Fatalf("Expected class creation to succeed, got %v", err)
	}

	if _, err := svc.AddReview(ctx, class.ClassID, &serviceInterfaces.CreateReviewRequest{
		UserID: uuid.New(),
		Rating: 6,
	}); err == nil {
		t.Error("Expected validation error for out-of-range rating, got nil")
	}

	review, err := svc.AddReview(ctx, class.ClassID, &serviceInterfaces.CreateReviewRequest{
		UserID:  uuid.New(),
		Rating:  4,
		Comment: "Great session",
	})
	if err != nil {
		t.Fatalf("Expected review to succeed, got %v", err)
	}

	reviews, err := svc.ListReviews(ctx, class.ClassID)
	if err != nil {
		t.Fatalf("Failed to list reviews: %v", err)
	}
	if len(reviews) != 1 || reviews[0].ReviewID != review.ReviewID {
		t.Error("Expected the stored review to be listed")
	}
}

func TestClassService_UpcomingClasses(t *testing.T) {
	svc, classes, _ := newClassServiceForTest()
	ctx := context.Background()

	past := &domain.Class{
		ClassID:         uuid.New(),
		Name:            "Last Week's Pilates",
		InstructorID:    uuid.New(),
		VenueID:         uuid.New(),
		Category:        "pilates",
		Level:           "all",
		StartsAt:        time.Now().Add(-168 * time.Hour),
		DurationMinutes: 60,
		MaxParticipants: 10,
		Version:         1,
	}
	if err := classes.Create(ctx, past); err != nil {
		t.Fatalf("Failed to create past class: %v", err)
	}
	if _, err := svc.CreateClass(ctx, validCreateClassRequest()); err != nil {
		t.Fatalf("Expected class creation to succeed, got %v", err)
	}

	upcoming, err := svc.UpcomingClasses(ctx)
	if err != nil {
		t.Fatalf("Expected upcoming listing to succeed, got %v", err)
	}
	if len(upcoming) != 1 {
		t.Fatalf("Expected 1 upcoming class, got %d", len(upcoming))
	}
	if upcoming[0].StartsAt.Before(time.Now()) {
		t.Error("Expected only future classes in the upcoming listing")
	}
}
