package resilience

import (
	"sync"
	"testing"
	"time"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	m := NewKeyedMutex()

	const workers = 10
	var inside int
	var maxInside int
	var observe sync.Mutex

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			unlock := m.Lock("fixture-1")
			defer unlock()

			observe.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			observe.Unlock()

			time.Sleep(2 * time.Millisecond)

			observe.Lock()
			inside--
			observe.Unlock()
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Fatalf("expected at most one holder for the same key, saw %d", maxInside)
	}
}

func TestKeyedMutex_DistinctKeysDoNotBlock(t *testing.T) {
	var m KeyedMutex

	unlockA := m.Lock("fixture-a")
	defer unlockA()

	acquired := make(chan struct{})
	go func() {
		unlockB := m.Lock("fixture-b")
		close(acquired)
		unlockB()
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock on a distinct key should not block")
	}
}

func TestKeyedMutex_ReleasesEntryWhenUnused(t *testing.T) {
	var m KeyedMutex

	unlock := m.Lock("fixture-x")
	unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.locks) != 0 {
		t.Fatalf("expected lock table to be empty, got %d entries", len(m.locks))
	}
}
