package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "fitbook/internal/domain/booking"
	interfaces "fitbook/internal/interfaces/infrastructure"
	serviceInterfaces "fitbook/internal/interfaces/service"
	"fitbook/pkg/logger"
	"fitbook/pkg/validator"

	"github.com/google/uuid"
)

const (
	AvailableSeatsTTL = 5 * time.Minute
	ClassDetailsTTL   = 45 * time.Minute
	UserBookingsTTL   = 20 * time.Minute

	DefaultStoreTimeout = 5 * time.Second
)

var _ serviceInterfaces.BookingService = (*BookingService)(nil)

// BookingService is the booking and waitlist manager. All writes for a class
// run under that class's lock, so the read-count-decide-write sequence in
// CreateBooking and the cancel-then-promote sequence in CancelBooking are
// never interleaved for the same class. Operations on different classes
// proceed independently.
//
// The confirmed-booking count in the booking store is the ground truth for
// capacity decisions; cached seat counts are display-only.
type BookingService struct {
	classRepo       interfaces.ClassRepository
	bookingRepo     interfaces.BookingRepository
	cacheService    interfaces.CacheService
	queueService    interfaces.QueueService
	idempotencyRepo interfaces.IdempotencyRepository
	eventSink       domain.EventSink
	locks           *classLocks
	storeTimeout    time.Duration
}

func NewBookingService(
	classRepo interfaces.ClassRepository,
	bookingRepo interfaces.BookingRepository,
	cacheService interfaces.CacheService,
	queueService interfaces.QueueService,
	idempotencyRepo interfaces.IdempotencyRepository,
	eventSink domain.EventSink,
	storeTimeout time.Duration,
) *BookingService {
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	return &BookingService{
		classRepo:       classRepo,
		bookingRepo:     bookingRepo,
		cacheService:    cacheService,
		queueService:    queueService,
		idempotencyRepo: idempotencyRepo,
		eventSink:       eventSink,
		locks:           newClassLocks(),
		storeTimeout:    storeTimeout,
	}
}

type CreateBookingRequest = serviceInterfaces.CreateBookingRequest

// CreateBooking claims a seat in the class, or the next waitlist slot when
// every seat is taken. Waitlisting is a success outcome.
func (s *BookingService) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*domain.Booking, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	if req.IdempotencyKey != "" && s.idempotencyRepo != nil {
		if cached, ok := s.checkIdempotency(ctx, req); ok {
			logger.Info("Returning cached booking for idempotency key: %s", req.IdempotencyKey)
			return cached, nil
		}
	}

	unlock := s.locks.Lock(req.ClassID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	class, err := s.classRepo.GetByID(ctx, req.ClassID)
	if err != nil {
		return nil, persistence("load class", err)
	}
	if class == nil {
		return nil, domain.ErrClassNotFound
	}

	existing, err := s.bookingRepo.GetActiveByClassAndUser(ctx, req.ClassID, req.UserID)
	if err != nil {
		return nil, persistence("check existing booking", err)
	}
	if existing != nil {
		return nil, domain.ErrAlreadyBooked
	}

	confirmed, err := s.bookingRepo.CountByClassAndStatus(ctx, req.ClassID, domain.StatusConfirmed)
	if err != nil {
		return nil, persistence("count confirmed bookings", err)
	}

	status := domain.StatusConfirmed
	if confirmed >= class.MaxParticipants {
		status = domain.StatusWaitlisted
	}

	booking := domain.NewBooking(req.ClassID, req.UserID, status)
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, persistence("create booking", err)
	}

	logger.Info("Booking %s created for user %s in class %s with status %s",
		booking.BookingID, req.UserID, req.ClassID, status)

	s.announce(ctx, domain.EventBookingCreated, booking)
	s.refreshSeatCache(ctx, class, confirmed+seatHeld(status))
	s.invalidateUserView(ctx, req.UserID)

	if req.IdempotencyKey != "" && s.idempotencyRepo != nil {
		s.storeIdempotencyResult(ctx, req, booking)
	}

	return booking, nil
}

// CancelBooking cancels the booking. Cancelling a confirmed seat frees it and
// promotes the oldest waitlisted booking inside the same class-locked unit of
// work, so an observer never sees a free seat alongside a waiting booking
// once the operation returns. Cancelling an already-cancelled booking is a
// no-op.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uuid.UUID) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return persistence("load booking", err)
	}
	if booking == nil {
		return domain.ErrBookingNotFound
	}
	if booking.Status == domain.StatusCancelled {
		return nil
	}

	unlock := s.locks.Lock(booking.ClassID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	// Re-read under the lock: the booking may have moved while we waited.
	booking, err = s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return persistence("load booking", err)
	}
	if booking == nil {
		return domain.ErrBookingNotFound
	}
	if booking.Status == domain.StatusCancelled {
		return nil
	}

	wasConfirmed := booking.Status == domain.StatusConfirmed

	if err := s.bookingRepo.Transition(ctx, booking, domain.StatusCancelled); err != nil {
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}
		return persistence("cancel booking", err)
	}

	logger.Info("Booking %s cancelled for user %s in class %s",
		booking.BookingID, booking.UserID, booking.ClassID)

	s.announce(ctx, domain.EventBookingCancelled, booking)
	s.invalidateUserView(ctx, booking.UserID)

	if wasConfirmed {
		s.promoteFromWaitlist(ctx, booking.ClassID)
	}

	s.scheduleCacheRefresh(ctx, booking.ClassID)
	return nil
}

// promoteFromWaitlist moves the oldest waitlisted booking for the class to
// confirmed. It is called with the class lock held, right after a confirmed
// seat was freed, so at most one booking is promoted per freed seat. A
// conflicting write from another instance just means that candidate no longer
// waits; the next one is tried.
func (s *BookingService) promoteFromWaitlist(ctx context.Context, classID uuid.UUID) {
	for {
		next, err := s.bookingRepo.NextWaitlisted(ctx, classID)
		if err != nil {
			logger.Error("Failed to read waitlist for class %s: %v", classID, err)
			return
		}
		if next == nil {
			return
		}

		err = s.bookingRepo.Transition(ctx, next, domain.StatusConfirmed)
		if err == nil {
			logger.Info("Booking %s promoted from waitlist for class %s", next.BookingID, classID)
			s.announce(ctx, domain.EventBookingStatusChanged, next)
			s.invalidateUserView(ctx, next.UserID)
			return
		}
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			continue
		}

		logger.Error("Failed to promote booking %s for class %s: %v", next.BookingID, classID, err)
		return
	}
}

// ListBookings returns bookings matching the filter, oldest first.
func (s *BookingService) ListBookings(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		return nil, persistence("list bookings", err)
	}
	return bookings, nil
}

// GetBooking retrieves a booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, persistence("load booking", err)
	}
	if booking == nil {
		return nil, domain.ErrBookingNotFound
	}
	return booking, nil
}

// UpcomingClassesForUser returns the user's active bookings for classes that
// have not started yet, soonest first. The view is served from cache when
// fresh.
func (s *BookingService) UpcomingClassesForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Booking, error) {
	if s.cacheService != nil {
		if cached, err := s.cacheService.GetUserBookings(ctx, userID); err == nil {
			if bookings, ok := decodeBookings(cached); ok {
				return bookings, nil
			}
		}
	}

	bookings, err := s.bookingRepo.UpcomingForUser(ctx, userID, time.Now().UTC())
	if err != nil {
		return nil, persistence("load upcoming bookings", err)
	}

	if s.cacheService != nil {
		if err := s.cacheService.SetUserBookings(ctx, userID, bookings, UserBookingsTTL); err != nil {
			logger.Warn("Failed to cache bookings for user %s: %v", userID, err)
		}
	}

	return bookings, nil
}

// PastClassesForUser returns the user's bookings for classes that already
// started, most recent first.
func (s *BookingService) PastClassesForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Booking, error) {
	bookings, err := s.bookingRepo.PastForUser(ctx, userID, time.Now().UTC())
	if err != nil {
		return nil, persistence("load past bookings", err)
	}
	return bookings, nil
}

// ClassParticipants returns the class's confirmed bookings.
func (s *BookingService) ClassParticipants(ctx context.Context, classID uuid.UUID) ([]*domain.Booking, error) {
	status := domain.StatusConfirmed
	return s.ListBookings(ctx, domain.BookingFilter{ClassID: &classID, Status: &status})
}

// ClassWaitlist returns the class's waitlisted bookings in promotion order.
func (s *BookingService) ClassWaitlist(ctx context.Context, classID uuid.UUID) ([]*domain.Booking, error) {
	status := domain.StatusWaitlisted
	return s.ListBookings(ctx, domain.BookingFilter{ClassID: &classID, Status: &status})
}

// RefreshClassCache rebuilds the class's cached seat count and details from
// the booking store. Called by the queue workers.
func (s *BookingService) RefreshClassCache(ctx context.Context, classID uuid.UUID) error {
	if s.cacheService == nil {
		return nil
	}

	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return persistence("load class", err)
	}
	if class == nil {
		return domain.ErrClassNotFound
	}

	confirmed, err := s.bookingRepo.CountByClassAndStatus(ctx, classID, domain.StatusConfirmed)
	if err != nil {
		return persistence("count confirmed bookings", err)
	}

	seats := class.MaxParticipants - confirmed
	if seats < 0 {
		seats = 0
	}

	if err := s.cacheService.SetAvailableSeats(ctx, classID, seats, AvailableSeatsTTL); err != nil {
		return fmt.Errorf("failed to cache seat count: %w", err)
	}
	if err := s.cacheService.SetClassDetails(ctx, classID, class, ClassDetailsTTL); err != nil {
		return fmt.Errorf("failed to cache class details: %w", err)
	}

	return nil
}

// announce publishes the booking event to the sink and hands a notification
// job to the queue. Both are best effort; failures are logged, never
// propagated.
func (s *BookingService) announce(ctx context.Context, kind domain.EventKind, b *domain.Booking) {
	if s.eventSink != nil {
		if err := s.eventSink.Publish(ctx, domain.NewEvent(kind, b)); err != nil {
			logger.Warn("Failed to publish %s event for booking %s: %v", kind, b.BookingID, err)
		}
	}

	if s.queueService != nil {
		job := interfaces.NotificationJob{
			Kind:       kind,
			BookingID:  b.BookingID,
			ClassID:    b.ClassID,
			UserID:     b.UserID,
			Status:     b.Status,
			OccurredAt: time.Now().UTC(),
		}
		if err := s.queueService.EnqueueNotification(ctx, job); err != nil {
			logger.Warn("Failed to enqueue notification for booking %s: %v", b.BookingID, err)
		}
	}
}

func (s *BookingService) refreshSeatCache(ctx context.Context, class *domain.Class, confirmed int) {
	if s.cacheService == nil {
		return
	}

	seats := class.MaxParticipants - confirmed
	if seats < 0 {
		seats = 0
	}

	if err := s.cacheService.SetAvailableSeats(ctx, class.ClassID, seats, AvailableSeatsTTL); err != nil {
		logger.Warn("Failed to cache seat count for class %s: %v", class.ClassID, err)
	}
}

func (s *BookingService) invalidateUserView(ctx context.Context, userID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.InvalidateUserBookings(ctx, userID); err != nil {
		logger.Warn("Failed to invalidate booking cache for user %s: %v", userID, err)
	}
}

func (s *BookingService) scheduleCacheRefresh(ctx context.Context, classID uuid.UUID) {
	if s.queueService == nil {
		return
	}
	job := interfaces.CacheRefreshJob{ClassID: classID, Timestamp: time.Now().UTC()}
	if err := s.queueService.EnqueueCacheRefresh(ctx, job); err != nil {
		logger.Warn("Failed to enqueue cache refresh for class %s: %v", classID, err)
	}
}

// checkIdempotency returns the previously stored booking for the key when
// the request matches the one that produced it.
func (s *BookingService) checkIdempotency(ctx context.Context, req *CreateBookingRequest) (*domain.Booking, bool) {
	existing, err := s.idempotencyRepo.GetByKey(ctx, req.IdempotencyKey)
	if err != nil || existing == nil || existing.IsExpired() {
		return nil, false
	}

	if existing.RequestHash != hashBookingRequest(req) {
		logger.Warn("Idempotency key %s reused with a different request", req.IdempotencyKey)
		return nil, false
	}

	var booking domain.Booking
	if err := json.Unmarshal([]byte(existing.ResponseData), &booking); err != nil {
		return nil, false
	}
	return &booking, true
}

func (s *BookingService) storeIdempotencyResult(ctx context.Context, req *CreateBookingRequest, booking *domain.Booking) {
	data, err := json.Marshal(booking)
	if err != nil {
		logger.Warn("Failed to marshal booking for idempotency key %s: %v", req.IdempotencyKey, err)
		return
	}

	now := time.Now().UTC()
	key := &domain.IdempotencyKey{
		Key:          req.IdempotencyKey,
		UserID:       req.UserID,
		RequestHash:  hashBookingRequest(req),
		ResponseData: string(data),
		StatusCode:   201,
		ProcessedAt:  now,
		ExpiresAt:    now.Add(24 * time.Hour),
		CreatedAt:    now,
	}

	if err := s.idempotencyRepo.Create(ctx, key); err != nil {
		logger.Warn("Failed to store idempotency result for key %s: %v", req.IdempotencyKey, err)
	}
}

func hashBookingRequest(req *CreateBookingRequest) string {
	payload := fmt.Sprintf("%s:%s", req.ClassID, req.UserID)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// seatHeld returns 1 when the status occupies a seat.
func seatHeld(status domain.BookingStatus) int {
	if status == domain.StatusConfirmed {
		return 1
	}
	return 0
}

// decodeBookings converts a cached value back into bookings via JSON.
func decodeBookings(cached interface{}) ([]*domain.Booking, bool) {
	raw, err := json.Marshal(cached)
	if err != nil {
		return nil, false
	}
	var bookings []*domain.Booking
	if err := json.Unmarshal(raw, &bookings); err != nil {
		return nil, false
	}
	return bookings, true
}

// persistence wraps a storage failure so callers can match it with errors.Is.
func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrPersistence, op, err)
}
