package service

import (
	"context"
	"fmt"
	"time"

	domain "fitbook/internal/domain/booking"
	interfaces "fitbook/internal/interfaces/infrastructure"
	serviceInterfaces "fitbook/internal/interfaces/service"
	"fitbook/pkg/logger"
	"fitbook/pkg/validator"

	"github.com/google/uuid"
)

var _ serviceInterfaces.ClassService = (*ClassService)(nil)

// ClassService is the class catalog. It owns class records and reviews;
// booking state belongs to the booking service.
type ClassService struct {
	classRepo    interfaces.ClassRepository
	bookingRepo  interfaces.BookingRepository
	reviewRepo   interfaces.ReviewRepository
	cacheService interfaces.CacheService
}

func NewClassService(
	classRepo interfaces.ClassRepository,
	bookingRepo interfaces.BookingRepository,
	reviewRepo interfaces.ReviewRepository,
	cacheService interfaces.CacheService,
) *ClassService {
	return &ClassService{
		classRepo:    classRepo,
		bookingRepo:  bookingRepo,
		reviewRepo:   reviewRepo,
		cacheService: cacheService,
	}
}

// CreateClass creates a class. MaxParticipants set here is final; no later
// operation changes it.
func (s *ClassService) CreateClass(ctx context.Context, req *serviceInterfaces.CreateClassRequest) (*domain.Class, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	level := req.Level
	if level == "" {
		level = "all"
	}

	class := &domain.Class{
		ClassID:             uuid.New(),
		Name:                req.Name,
		InstructorID:        req.InstructorID,
		VenueID:             req.VenueID,
		Category:            req.Category,
		Level:               level,
		StartsAt:            req.StartsAt,
		DurationMinutes:     req.DurationMinutes,
		MaxParticipants:     req.MaxParticipants,
		CurrentParticipants: 0,
		Version:             1,
	}

	if err := s.classRepo.Create(ctx, class); err != nil {
		return nil, persistence("create class", err)
	}

	logger.Info("Class %s created: %s (%d seats)", class.ClassID, class.Name, class.MaxParticipants)
	return class, nil
}

// GetClass retrieves a class by ID.
func (s *ClassService) GetClass(ctx context.Context, classID uuid.UUID) (*domain.Class, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, persistence("load class", err)
	}
	if class == nil {
		return nil, domain.ErrClassNotFound
	}
	return class, nil
}

// UpdateClass applies instructor edits under optimistic locking. Capacity
// cannot be changed; the request type has no field for it.
func (s *ClassService) UpdateClass(ctx context.Context, classID uuid.UUID, req *serviceInterfaces.UpdateClassRequest) (*domain.Class, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.MaxParticipants != nil {
		return nil, domain.ErrCapacityImmutable
	}

	class, err := s.GetClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		class.Name = *req.Name
	}
	if req.Category != nil {
		class.Category = *req.Category
	}
	if req.Level != nil {
		class.Level = *req.Level
	}
	if req.StartsAt != nil {
		class.StartsAt = *req.StartsAt
	}
	if req.DurationMinutes != nil {
		class.DurationMinutes = *req.DurationMinutes
	}

	class.Version++
	class.UpdatedAt = time.Now().UTC()

	if err := s.classRepo.UpdateWithOptimisticLock(ctx, class); err != nil {
		if err == domain.ErrConcurrencyConflict {
			return nil, err
		}
		return nil, persistence("update class", err)
	}

	s.invalidateClassCache(ctx, classID)
	return class, nil
}

// DeleteClass removes the class and cascades to its bookings and reviews.
func (s *ClassService) DeleteClass(ctx context.Context, classID uuid.UUID) error {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return persistence("load class", err)
	}
	if class == nil {
		return domain.ErrClassNotFound
	}

	if err := s.bookingRepo.DeleteByClassID(ctx, classID); err != nil {
		return persistence("delete class bookings", err)
	}
	if err := s.reviewRepo.DeleteByClassID(ctx, classID); err != nil {
		return persistence("delete class reviews", err)
	}
	if err := s.classRepo.Delete(ctx, classID); err != nil {
		return persistence("delete class", err)
	}

	s.invalidateClassCache(ctx, classID)
	logger.Info("Class %s deleted with its bookings and reviews", classID)
	return nil
}

// ListClasses retrieves classes matching the filter.
func (s *ClassService) ListClasses(ctx context.Context, filter domain.ClassFilter) ([]*domain.Class, error) {
	classes, err := s.classRepo.List(ctx, filter)
	if err != nil {
		return nil, persistence("list classes", err)
	}
	return classes, nil
}

// UpcomingClasses retrieves classes that have not started yet.
func (s *ClassService) UpcomingClasses(ctx context.Context) ([]*domain.Class, error) {
	classes, err := s.classRepo.GetUpcoming(ctx, time.Now().UTC())
	if err != nil {
		return nil, persistence("list upcoming classes", err)
	}
	return classes, nil
}

// AddReview records a member's review of a class.
func (s *ClassService) AddReview(ctx context.Context, classID uuid.UUID, req *serviceInterfaces.CreateReviewRequest) (*domain.Review, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.GetClass(ctx, classID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ReviewID: uuid.New(),
		ClassID:  classID,
		UserID:   req.UserID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, persistence("create review", err)
	}

	return review, nil
}

// ListReviews retrieves the class's reviews, newest first.
func (s *ClassService) ListReviews(ctx context.Context, classID uuid.UUID) ([]*domain.Review, error) {
	if _, err := s.GetClass(ctx, classID); err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.GetByClassID(ctx, classID)
	if err != nil {
		return nil, persistence("list reviews", err)
	}
	return reviews, nil
}

func (s *ClassService) invalidateClassCache(ctx context.Context, classID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	key := fmt.Sprintf("class:details:%s", classID)
	if err := s.cacheService.Delete(ctx, key); err != nil {
		logger.Warn("Failed to invalidate cached details for class %s: %v", classID, err)
	}
}
