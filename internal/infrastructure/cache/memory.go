package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	interfaces "fitbook/internal/interfaces/infrastructure"

	"github.com/google/uuid"
)

type memoryEntry struct {
	value     string
	object    interface{}
	expiresAt time.Time
}

func (e memoryEntry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// MemoryCache is an in-memory implementation of CacheService for
// testing/demo purposes
type MemoryCache struct {
	entries map[string]memoryEntry
	mutex   sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache service
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryCache) get(key string) (memoryEntry, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists || entry.expired() {
		return memoryEntry{}, false
	}
	return entry, true
}

func (c *MemoryCache) set(key string, entry memoryEntry, ttl time.Duration) {
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[key] = entry
}

func (c *MemoryCache) GetAvailableSeats(ctx context.Context, classID uuid.UUID) (int, error) {
	entry, ok := c.get(fmt.Sprintf("class:seats:%s", classID.String()))
	if !ok {
		return -1, fmt.Errorf("class seats not cached")
	}
	return strconv.Atoi(entry.value)
}

func (c *MemoryCache) SetAvailableSeats(ctx context.Context, classID uuid.UUID, seats int, ttl time.Duration) error {
	c.set(fmt.Sprintf("class:seats:%s", classID.String()), memoryEntry{value: strconv.Itoa(seats)}, ttl)
	return nil
}

func (c *MemoryCache) GetClassDetails(ctx context.Context, classID uuid.UUID) (interface{}, error) {
	entry, ok := c.get(fmt.Sprintf("class:details:%s", classID.String()))
	if !ok {
		return nil, fmt.Errorf("class details not cached")
	}
	return entry.object, nil
}

func (c *MemoryCache) SetClassDetails(ctx context.Context, classID uuid.UUID, data interface{}, ttl time.Duration) error {
	c.set(fmt.Sprintf("class:details:%s", classID.String()), memoryEntry{object: data}, ttl)
	return nil
}

func (c *MemoryCache) GetUserBookings(ctx context.Context, userID uuid.UUID) (interface{}, error) {
	entry, ok := c.get(fmt.Sprintf("member:bookings:%s", userID.String()))
	if !ok {
		return nil, fmt.Errorf("user bookings not cached")
	}
	return entry.object, nil
}

func (c *MemoryCache) SetUserBookings(ctx context.Context, userID uuid.UUID, data interface{}, ttl time.Duration) error {
	c.set(fmt.Sprintf("member:bookings:%s", userID.String()), memoryEntry{object: data}, ttl)
	return nil
}

func (c *MemoryCache) InvalidateUserBookings(ctx context.Context, userID uuid.UUID) error {
	return c.Delete(ctx, fmt.Sprintf("member:bookings:%s", userID.String()))
}

func (c *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	entry, ok := c.get(key)
	if !ok {
		return "", fmt.Errorf("key not found: %s", key)
	}
	return entry.value, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	c.set(key, memoryEntry{value: value}, ttl)
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.entries, key)
	return nil
}

// Clear removes keys matching the pattern. Only trailing-star patterns are
// supported, which covers the key families this cache uses.
func (c *MemoryCache) Clear(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")

	c.mutex.Lock()
	defer c.mutex.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *MemoryCache) Health(ctx context.Context) error {
	return nil
}

func (c *MemoryCache) Close() error {
	return nil
}

var _ interfaces.CacheService = (*MemoryCache)(nil)
