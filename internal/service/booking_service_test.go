package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domain "fitbook/internal/domain/booking"
	"fitbook/internal/infrastructure/cache"
	"fitbook/internal/infrastructure/repository"

	"github.com/google/uuid"
)

// captureSink records published events for assertions
type captureSink struct {
	mu     sync.Mutex
	events []domain.Event
}

func (s *captureSink) Publish(ctx context.Context, evt domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	return nil
}

func (s *captureSink) byKind(kind domain.EventKind) []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []domain.Event
	for _, evt := range s.events {
		if evt.Kind == kind {
			matched = append(matched, evt)
		}
	}
	return matched
}

type testEnv struct {
	service  *BookingService
	classes  *repository.MemoryClassRepository
	bookings *repository.MemoryBookingRepository
	sink     *captureSink
}

func newTestEnv() *testEnv {
	classes := repository.NewMemoryClassRepository()
	bookings := repository.NewMemoryBookingRepository(classes)
	sink := &captureSink{}

	svc := NewBookingService(
		classes,
		bookings,
		cache.NewMemoryCache(),
		nil,
		repository.NewMemoryIdempotencyRepository(),
		sink,
		5*time.Second,
	)

	return &testEnv{
		service:  svc,
		classes:  classes,
		bookings: bookings,
		sink:     sink,
	}
}

func (e *testEnv) createClass(t *testing.T, maxParticipants int) *domain.Class {
	t.Helper()

	class := &domain.Class{
		ClassID:         uuid.New(),
		Name:            "Morning Yoga",
		InstructorID:    uuid.New(),
		VenueID:         uuid.New(),
		Category:        "yoga",
		Level:           "all",
		StartsAt:        time.Now().Add(48 * time.Hour),
		DurationMinutes: 60,
		MaxParticipants: maxParticipants,
		Version:         1,
	}

	if err := e.classes.Create(context.Background(), class); err != nil {
		t.Fatalf("Failed to create class: %v", err)
	}
	return class
}

func (e *testEnv) book(t *testing.T, classID uuid.UUID) *domain.Booking {
	t.Helper()

	booking, err := e.service.CreateBooking(context.Background(), &CreateBookingRequest{
		ClassID: classID,
		UserID:  uuid.New(),
	})
	if err != nil {
		t.Fatalf("Expected booking to succeed, got %v", err)
	}
	return booking
}

func (e *testEnv) statusCounts(t *testing.T, classID uuid.UUID) (confirmed, waitlisted int) {
	t.Helper()

	ctx := context.Background()
	confirmed, err := e.bookings.CountByClassAndStatus(ctx, classID, domain.StatusConfirmed)
	if err != nil {
		t.Fatalf("Failed to count confirmed bookings: %v", err)
	}
	waitlisted, err = e.bookings.CountByClassAndStatus(ctx, classID, domain.StatusWaitlisted)
	if err != nil {
		t.Fatalf("Failed to count waitlisted bookings: %v", err)
	}
	return confirmed, waitlisted
}

func TestCreateBooking_ConfirmsUntilFull(t *testing.T) {
	env := newTestEnv()
	class := env.createClass(t, 2)

	first := env.book(t, class.ClassID)
	second := env.book(t, class.ClassID)
	third := env.book(t, class.ClassID)

	if first.Status != domain.StatusConfirmed {
		t.Errorf("Expected first booking confirmed, got %s", first.Status)
	}
	if second.Status != domain.StatusConfirmed {
		t.Errorf("Expected second booking confirmed, got %s", second.Status)
	}
	if third.Status != domain.StatusWaitlisted {
		t.Errorf("Expected third booking waitlisted, got %s", third.Status)
	}

	confirmed, waitlisted := env.statusCounts(t, class.ClassID)
	if confirmed != 2 || waitlisted != 1 {
		t.Errorf("Expected 2 confirmed and 1 waitlisted, got %d and %d", confirmed, waitlisted)
	}
}

func TestCreateBooking_ClassNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.service.CreateBooking(context.Background(), &CreateBookingRequest{
		ClassID: uuid.New(),
		UserID:  uuid.New(),
	})
	if !errors.Is(err, domain.ErrClassNotFound) {
		t.Fatalf("Expected ErrClassNotFound, got %v", err)
	}
}

func TestCreateBooking_DuplicateActiveBooking(t *testing.T) {
	env := newTestEnv()
	class := env.createClass(t, 5)
	userID := uuid.New()

	req := &CreateBookingRequest{ClassID: class.ClassID, UserID: userID}
	if _, err := env.service.CreateBooking(context.Background(), req); err != nil {
		t.Fatalf("Expected first booking to succeed, got %v", err)
	}

	_, err := env.service.CreateBooking(context.Background(), req)
	if !errors.Is(err, domain.ErrAlreadyBooked) {
		t.Fatalf("Expected ErrAlreadyBooked, got %v", err)
	}
}

func TestCreateBooking_AllowedAgainAfterCancellation(t *testing.T) {
	env := newTestEnv()
	class := env.createClass(t, 5)
	userID := uuid.New()

	req := &CreateBookingRequest{ClassID: class.ClassID, UserID: userID}
	first, err := env.service.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected booking to succeed, got %v", err)
	}

	if err := env.service.CancelBooking(context.Background(), first.BookingID); err != nil {
		t.Fatalf("Expected cancellation to succeed, got %v", err)
	}

	second, err := env.service.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected rebooking after cancellation to succeed, got %v", err)
	}
	if second.BookingID == first.BookingID {
		t.Error("Expected rebooking to create a fresh booking, got the cancelled one back")
	}
	if second.Status != domain.StatusConfirmed {
		t.Errorf("Expected rebooking confirmed, got %s", second.Status)
	}
}

func TestCreateBooking_ConcurrentRequestsRespectCapacity(t *testing.T) {
	env := newTestEnv()
	class := env.createClass(t, 2)

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan domain.BookingStatus, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			booking, err := env.service.CreateBooking(context.Background(), &CreateBookingRequest{
				ClassID: class.ClassID,
				UserID:  uuid.New(),
			})
			if err != nil {
				t.Errorf("Expected booking to succeed, got %v", err)
				return
			}
			results <- booking.Status
		}()
	}

	wg.Wait()
	close(results)

	confirmed, waitlisted := 0, 0
	for status := range results {
		switch status {
		case domain.StatusConfirmed:
			confirmed++
		case domain.StatusWaitlisted:
			waitlisted++
		}
	}

	if confirmed != 2 {
		t.Errorf("Expected exactly 2 confirmed bookings, got %d", confirmed)
	}
	if waitlisted != attempts-2 {
		t.Errorf("Expected %d waitlisted bookings, got %d", attempts-2, waitlisted)
	}

	storedConfirmed, _ := env.statusCounts(t, class.ClassID)
	if storedConfirmed != 2 {
		t.Errorf("Expected store to hold 2 confirmed bookings, got %d", storedConfirmed)
	}
}

func TestCreateBooking_SingleSeatClassUnderContention(t *testing.T) {
	env := newTestEnv()
	class := env.createClass(t, 1)

	const attempts = 10
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.service.CreateBooking(context.Background(), &CreateBookingRequest{
				ClassID: class.ClassID,
				UserID:  uuid.New(),
			}); err != nil {
				t.Errorf("Expected booking to succeed, got %v", err)
			}
		}()
	}
	wg.Wait()

	confirmed, waitlisted := env.statusCounts(t, class.ClassID)
	if confirmed != 1 {
		t.Errorf("Expected exactly 1 confirmed booking, got %d", confirmed)
	}
	if waitlisted != attempts-1 {
		t.Errorf("Expected %d waitlisted bookings, got %d", attempts-1, waitlisted)
	}
}

func TestCreateBooking_IdempotencyKeyReturnsSameBooking(t *testing.T) {
	env := newTestEnv()
	class := env.createClass(t, 1)
	userID := uuid.New()

	req := &CreateBookingRequest{
		ClassID:        class.ClassID,
		UserID:         userID,
		IdempotencyKey: "retry-abc123",
	}

	first, err := env.service.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected booking to succeed, got %v", err)
	}

	second, err := env.service.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected retried booking to succeed, got %v", err)
	}

	if second.BookingID != first.BookingID {
		t.Errorf("Expected retry to return booking %s, got %s", first.BookingID, second.BookingID)
	}

	confirmed, waitlisted := env.statusCounts(t, class.ClassID)
	if confirmed != 1 || waitlisted != 0 {
		t.Errorf("Expected a single stored booking, got %d confirmed and %d waitlisted", confirmed, waitlisted)
	}
}

func TestCancelBooking_PromotesOldestWaitlisted(t *testing.T) {
	env := newTestEnv()
	class := env.createClass(t, 1)

	confirmedBooking := env.book(t, class.ClassID)
	firstWaitlisted := env.book(t, class.ClassID)
	secondWaitlisted := env.book(t, class.ClassID)

	if err := env.service.CancelBooking(context.Background(), confirmedBooking.BookingID); err != nil {
		t.Fatalf("Expected cancellation to succeed, got %v", err)
	}

	promoted, err := env.service.GetBooking(context.Background(), firstWaitlisted.BookingID)
	if err != nil {
		t.Fatalf("Failed to load promoted booking: %v", err)
	}
	if promoted.Status != domain.StatusConfirmed {
		t.Errorf("Expected oldest waitlisted booking promoted, got status %s", promoted.Status)
	}

	stillWaiting, err := env.service.GetBooking(context.Background(), secondWaitlisted.BookingID)
	if err != nil {
		t.Fatalf("Failed to load second waitlisted booking: %v", err)
	}
	if stillWaiting.Status != domain.StatusWaitlisted {
		t.Errorf("Expected newer waitlisted booking untouched, got status %s", stillWaiting.Status)
	}

	confirmed, waitlisted := env.statusCounts(t, class.ClassID)
	if confirmed != 1 || waitlisted != 1 {
		t.Errorf("Expected 1 confirmed and 1 waitlisted after promotion, got %d and %d", confirmed, waitlisted)
	}
}

func TestCancelBooking_EmptyWaitlistFreesSeat(t *testing.T) {
	env := newTestEnv()
	class := env.createClass(t, 1)

	booking := env.book(t, class.ClassID)
	if err := env.service.CancelBooking(context.Background(), booking.BookingID); err != nil {
		t.Fatalf("Expected cancellation to succeed, got %v", err)
	}

	confirmed, waitlisted := env.statusCounts(t, class.ClassID)
	if confirmed != 0 || waitlisted != 0 {
		t.Errorf("Expected empty class after cancellation, got %d confirmed and %d waitlisted", confirmed, waitlisted)
	}

	next := env.book(t, class.ClassID)
	if next.Status != domain.StatusConfirmed {
		t.Errorf("Expected freed seat to be claimable, got status %s", next.Status)
	}
}

func TestCancelBooking_WaitlistedCancellationDoesNotPromote(t *testing.T) {
	env := newTestEnv()
	class := env.createClass(t, 1)

	env.book(t, class.ClassID)
	firstWaitlisted := env.book(t, class.ClassID)
	secondWaitlisted := env.book(t, class.ClassID)

	if err := env.service.CancelBooking(context.Background(), firstWaitlisted.BookingID); err != nil {
		t.Fatalf("Expected cancellation to succeed, got %v", err)
	}

	remaining, err := env.service.GetBooking(context.Background(), secondWaitlisted.BookingID)
	if err != nil {
		t.Fatalf("Failed to load remaining waitlisted booking: %v", err)
	}
	if remaining.Status != domain.StatusWaitlisted {
		t.Errorf("Expected remaining booking to stay waitlisted, got %s", remaining.Status)
	}

	confirmed, waitlisted := env.statusCounts(t, class.ClassID)
	if confirmed != 1 || waitlisted != 1 {
		t.Errorf("Expected 1 confirmed and 1 waitlisted, got %d and %d", confirmed, waitlisted)
	}
}

func TestCancelBooking_IsIdempotent(t *testing.T) {
	env := newTestEnv()
	class := env.createClass(t, 1)

	confirmedBooking := env.book(t, class.ClassID)
	env.book(t, class.ClassID)
	env.book(t, class.ClassID)

	if err := env.service.CancelBooking(context.Background(), confirmedBooking.BookingID); err != nil {
		t.Fatalf("Expected first cancellation to succeed, got %v", err)
	}
	if err := env.service.CancelBooking(context.Background(), confirmedBooking.BookingID); err != nil {
		t.Fatalf("Expected repeated cancellation to be a no-op, got %v", err)
	}

	// The second cancel must not trigger another promotion.
	confirmed, waitlisted := env.statusCounts(t, class.ClassID)
	if confirmed != 1 || waitlisted != 1 {
		t.Errorf("Expected 1 confirmed and 1 waitlisted after repeated cancel, got %d and %d", confirmed, waitlisted)
	}
}

func TestCancelBooking_NotFound(t *testing.T) {
	env := newTestEnv()

	err := env.service.CancelBooking(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("Expected ErrBookingNotFound, got %v", err)
	}
}

func TestCancelBooking_ConcurrentCancelsPromoteOncePerSeat(t *testing.T) {
	env := newTestEnv()
	class := env.createClass(t, 2)

	firstConfirmed := env.book(t, class.ClassID)
	secondConfirmed := env.book(t, class.ClassID)
	env.book(t, class.ClassID)
	env.book(t, class.ClassID)
	env.book(t, class.ClassID)

	var wg sync.WaitGroup
	for _, id := range []uuid.UUID{firstConfirmed.BookingID, secondConfirmed.BookingID} {
		// Cancel each confirmed booking from several goroutines at once.
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(bookingID uuid.UUID) {
				defer wg.Done()
				if err := env.service.CancelBooking(context.Background(), bookingID); err != nil &&
					!errors.Is(err, domain.ErrConcurrencyConflict) {
					t.Errorf("Unexpected cancellation error: %v", err)
				}
			}(id)
		}
	}
	wg.Wait()

	// Two seats were freed, so exactly two waitlisted bookings get promoted.
	confirmed, waitlisted := env.statusCounts(t, class.ClassID)
	if confirmed != 2 {
		t.Errorf("Expected exactly 2 confirmed bookings after promotions, got %d", confirmed)
	}
	if waitlisted != 1 {
		t.Errorf("Expected 1 booking left on the waitlist, got %d", waitlisted)
	}
}

func TestListBookings_FiltersCompose(t *testing.T) {
	env := newTestEnv()
	classA := env.createClass(t, 1)
	classB := env.createClass(t, 5)

	userID := uuid.New()
	ctx := context.Background()

	if _, err := env.service.CreateBooking(ctx, &CreateBookingRequest{ClassID: classA.ClassID, UserID: userID}); err != nil {
		t.Fatalf("Expected booking to succeed, got %v", err)
	}
	if _, err := env.service.CreateBooking(ctx, &CreateBookingRequest{ClassID: classB.ClassID, UserID: userID}); err != nil {
		t.Fatalf("Expected booking to succeed, got %v", err)
	}
	env.book(t, classA.ClassID)
	env.book(t, classB.ClassID)

	byUser, err := env.service.ListBookings(ctx, domain.BookingFilter{UserID: &userID})
	if err != nil {
		t.Fatalf("Failed to list bookings by user: %v", err)
	}
	if len(byUser) != 2 {
		t.Errorf("Expected 2 bookings for user, got %d", len(byUser))
	}

	status := domain.StatusWaitlisted
	byClassAndStatus, err := env.service.ListBookings(ctx, domain.BookingFilter{
		ClassID: &classA.ClassID,
		Status:  &status,
	})
	if err != nil {
		t.Fatalf("Failed to list bookings by class and status: %v", err)
	}
	if len(byClassAndStatus) != 1 {
		t.Errorf("Expected 1 waitlisted booking in class A, got %d", len(byClassAndStatus))
	}

	all, err := env.service.ListBookings(ctx, domain.BookingFilter{})
	if err != nil {
		t.Fatalf("Failed to list all bookings: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("Expected 4 bookings overall, got %d", len(all))
	}

	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.Before(all[i-1].CreatedAt) {
			t.Error("Expected bookings ordered by creation time ascending")
			break
		}
	}
}

func TestClassWaitlist_OrderedForPromotion(t *testing.T) {
	env := newTestEnv()
	class := env.createClass(t, 1)

	env.book(t, class.ClassID)
	first := env.book(t, class.ClassID)
	second := env.book(t, class.ClassID)

	waitlist, err := env.service.ClassWaitlist(context.Background(), class.ClassID)
	if err != nil {
		t.Fatalf("Failed to load waitlist: %v", err)
	}

	if len(waitlist) != 2 {
		t.Fatalf("Expected 2 waitlisted bookings, got %d", len(waitlist))
	}
	if waitlist[0].BookingID != first.BookingID || waitlist[1].BookingID != second.BookingID {
		t.Error("Expected waitlist in promotion order, oldest first")
	}
}

func TestBookingEvents_EmittedPerTransition(t *testing.T) {
	env := newTestEnv()
	class := env.createClass(t, 1)

	confirmedBooking := env.book(t, class.ClassID)
	waitlistedBooking := env.book(t, class.ClassID)

	if err := env.service.CancelBooking(context.Background(), confirmedBooking.BookingID); err != nil {
		t.Fatalf("Expected cancellation to succeed, got %v", err)
	}

	created := env.sink.byKind(domain.EventBookingCreated)
	if len(created) != 2 {
		t.Errorf("Expected 2 booking_created events, got %d", len(created))
	}

	cancelled := env.sink.byKind(domain.EventBookingCancelled)
	if len(cancelled) != 1 {
		t.Errorf("Expected 1 booking_cancelled event, got %d", len(cancelled))
	}

	promoted := env.sink.byKind(domain.EventBookingStatusChanged)
	if len(promoted) != 1 {
		t.Fatalf("Expected 1 booking_status_changed event, got %d", len(promoted))
	}
	if promoted[0].BookingID != waitlistedBooking.BookingID {
		t.Error("Expected promotion event for the waitlisted booking")
	}
	if promoted[0].Status != domain.StatusConfirmed {
		t.Errorf("Expected promotion event with confirmed status, got %s", promoted[0].Status)
	}
}

func TestRefreshClassCache_RebuildsFromStore(t *testing.T) {
	env := newTestEnv()
	class := env.createClass(t, 3)

	env.book(t, class.ClassID)
	env.book(t, class.ClassID)

	if err := env.service.RefreshClassCache(context.Background(), class.ClassID); err != nil {
		t.Fatalf("Expected cache refresh to succeed, got %v", err)
	}

	seats, err := env.service.cacheService.GetAvailableSeats(context.Background(), class.ClassID)
	if err != nil {
		t.Fatalf("Expected cached seat count, got %v", err)
	}
	if seats != 1 {
		t.Errorf("Expected 1 available seat cached, got %d", seats)
	}
}
