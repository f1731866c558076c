package service

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestClassLocks_SerializesPerClass(t *testing.T) {
	locks := newClassLocks()
	classID := uuid.New()

	counter := 0
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(classID)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("Expected 100 serialized increments, got %d", counter)
	}
}

func TestClassLocks_IndependentClassesShareNothing(t *testing.T) {
	locks := newClassLocks()
	classA := uuid.New()
	classB := uuid.New()

	unlockA := locks.Lock(classA)
	defer unlockA()

	// Holding A's lock must not block B.
	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock(classB)
		unlockB()
		close(done)
	}()

	<-done
}
