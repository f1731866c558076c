package repository

import (
	"context"
	"sort"
	"sync"

	domain "fitbook/internal/domain/booking"
	interfaces "fitbook/internal/interfaces/infrastructure"

	"github.com/google/uuid"
)

var _ interfaces.ReviewRepository = (*MemoryReviewRepository)(nil)

// MemoryReviewRepository is an in-memory implementation of ReviewRepository
// for testing/demo purposes
type MemoryReviewRepository struct {
	reviews map[uuid.UUID]*domain.Review
	mutex   sync.RWMutex
}

// NewMemoryReviewRepository creates a new in-memory review repository
func NewMemoryReviewRepository() *MemoryReviewRepository {
	return &MemoryReviewRepository{
		reviews: make(map[uuid.UUID]*domain.Review),
	}
}

func (r *MemoryReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if review.ReviewID == uuid.Nil {
		review.ReviewID = uuid.New()
	}

	stored := *review
	r.reviews[review.ReviewID] = &stored
	return nil
}

func (r *MemoryReviewRepository) GetByClassID(ctx context.Context, classID uuid.UUID) ([]*domain.Review, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var reviews []*domain.Review
	for _, review := range r.reviews {
		if review.ClassID == classID {
			copied := *review
			reviews = append(reviews, &copied)
		}
	}

	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}

func (r *MemoryReviewRepository) DeleteByClassID(ctx context.Context, classID uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for id, review := range r.reviews {
		if review.ClassID == classID {
			delete(r.reviews, id)
		}
	}
	return nil
}
