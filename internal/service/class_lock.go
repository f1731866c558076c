package service

import (
	"sync"

	"github.com/google/uuid"
)

// classLocks serializes read-modify-write booking sequences per class.
// Operations on different classes never contend with each other. Locks are
// never removed; one mutex per class seen by this process is cheap and keeps
// the map race-free.
type classLocks struct {
	locks sync.Map
}

func newClassLocks() *classLocks {
	return &classLocks{}
}

// Lock acquires the mutex for the class and returns its unlock function.
func (cl *classLocks) Lock(classID uuid.UUID) func() {
	value, _ := cl.locks.LoadOrStore(classID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
