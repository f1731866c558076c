package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "fitbook/internal/domain/booking"
	interfaces "fitbook/internal/interfaces/infrastructure"

	"github.com/google/uuid"
)

var _ interfaces.ClassRepository = (*MemoryClassRepository)(nil)

// MemoryClassRepository is an in-memory implementation of ClassRepository
// for testing/demo purposes
type MemoryClassRepository struct {
	classes map[uuid.UUID]*domain.Class
	mutex   sync.RWMutex
}

// NewMemoryClassRepository creates a new in-memory class repository
func NewMemoryClassRepository() *MemoryClassRepository {
	return &MemoryClassRepository{
		classes: make(map[uuid.UUID]*domain.Class),
	}
}

// Create creates a new class
func (r *MemoryClassRepository) Create(ctx context.Context, class *domain.Class) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if class.ClassID == uuid.Nil {
		class.ClassID = uuid.New()
	}
	if class.Version == 0 {
		class.Version = 1
	}

	stored := *class
	r.classes[class.ClassID] = &stored
	return nil
}

// GetByID retrieves a class by ID
func (r *MemoryClassRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Class, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	class, exists := r.classes[id]
	if !exists {
		return nil, nil
	}

	copied := *class
	return &copied, nil
}

// UpdateWithOptimisticLock updates a class if its version has not moved.
// The seat counter and capacity are left untouched.
func (r *MemoryClassRepository) UpdateWithOptimisticLock(ctx context.Context, class *domain.Class) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, exists := r.classes[class.ClassID]
	if !exists {
		return domain.ErrClassNotFound
	}
	if stored.Version != class.Version-1 {
		return domain.ErrConcurrencyConflict
	}

	stored.Name = class.Name
	stored.InstructorID = class.InstructorID
	stored.VenueID = class.VenueID
	stored.Category = class.Category
	stored.Level = class.Level
	stored.StartsAt = class.StartsAt
	stored.DurationMinutes = class.DurationMinutes
	stored.Version = class.Version
	stored.UpdatedAt = class.UpdatedAt
	return nil
}

// Delete removes a class
func (r *MemoryClassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.classes[id]; !exists {
		return domain.ErrClassNotFound
	}

	delete(r.classes, id)
	return nil
}

// List retrieves classes matching the filter, soonest first
func (r *MemoryClassRepository) List(ctx context.Context, filter domain.ClassFilter) ([]*domain.Class, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var classes []*domain.Class
	for _, class := range r.classes {
		if filter.InstructorID != nil && class.InstructorID != *filter.InstructorID {
			continue
		}
		if filter.VenueID != nil && class.VenueID != *filter.VenueID {
			continue
		}
		if filter.Category != nil && class.Category != *filter.Category {
			continue
		}
		if filter.StartsAfter != nil && !class.StartsAt.After(*filter.StartsAfter) {
			continue
		}
		if filter.StartsBefore != nil && !class.StartsAt.Before(*filter.StartsBefore) {
			continue
		}
		copied := *class
		classes = append(classes, &copied)
	}

	sort.Slice(classes, func(i, j int) bool {
		return classes[i].StartsAt.Before(classes[j].StartsAt)
	})
	return classes, nil
}

// GetUpcoming retrieves classes starting after the given time
func (r *MemoryClassRepository) GetUpcoming(ctx context.Context, from time.Time) ([]*domain.Class, error) {
	return r.List(ctx, domain.ClassFilter{StartsAfter: &from})
}

// adjustSeats moves the class's confirmed-seat counter by delta. It is called
// by the in-memory booking repository as part of its booking writes.
func (r *MemoryClassRepository) adjustSeats(classID uuid.UUID, delta int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	class, exists := r.classes[classID]
	if !exists {
		return domain.ErrClassNotFound
	}

	class.CurrentParticipants += delta
	class.UpdatedAt = time.Now().UTC()
	return nil
}
