package repository

import (
	"context"
	"sync"

	domain "fitbook/internal/domain/booking"
	interfaces "fitbook/internal/interfaces/infrastructure"
)

var _ interfaces.IdempotencyRepository = (*MemoryIdempotencyRepository)(nil)

// MemoryIdempotencyRepository is an in-memory implementation of
// IdempotencyRepository for testing/demo purposes
type MemoryIdempotencyRepository struct {
	keys  map[string]*domain.IdempotencyKey
	mutex sync.RWMutex
}

// NewMemoryIdempotencyRepository creates a new in-memory idempotency repository
func NewMemoryIdempotencyRepository() *MemoryIdempotencyRepository {
	return &MemoryIdempotencyRepository{
		keys: make(map[string]*domain.IdempotencyKey),
	}
}

func (r *MemoryIdempotencyRepository) Create(ctx context.Context, key *domain.IdempotencyKey) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored := *key
	r.keys[key.Key] = &stored
	return nil
}

func (r *MemoryIdempotencyRepository) GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	stored, exists := r.keys[key]
	if !exists {
		return nil, ErrIdempotencyKeyNotFound
	}

	copied := *stored
	return &copied, nil
}

func (r *MemoryIdempotencyRepository) Delete(ctx context.Context, key string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.keys, key)
	return nil
}

func (r *MemoryIdempotencyRepository) DeleteExpired(ctx context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for k, stored := range r.keys {
		if stored.IsExpired() {
			delete(r.keys, k)
		}
	}
	return nil
}
