package kmutex

import (
	"sync"
	"testing"
)

func TestLockSerializesPerKey(t *testing.T) {
	k := New()

	const goroutines = 64
	var counter int
	var wg sync.WaitGroup

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			k.Lock(7)
			counter++
			k.Unlock(7)
		}()
	}
	wg.Wait()

	if counter != goroutines {
		t.Fatalf("counter = %d, want %d; critical section not exclusive", counter, goroutines)
	}
}

func TestEntriesReleasedAfterLastHolder(t *testing.T) {
	k := New()

	var wg sync.WaitGroup
	for key := int64(0); key < 10; key++ {
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(key int64) {
				defer wg.Done()
				k.Lock(key)
				k.Unlock(key)
			}(key)
		}
	}
	wg.Wait()

	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.entries) != 0 {
		t.Fatalf("entries map holds %d keys after all holders released", len(k.entries))
	}
}

func TestDistinctKeysDoNotBlock(t *testing.T) {
	k := New()

	k.Lock(1)
	done := make(chan struct{})
	go func() {
		k.Lock(2)
		k.Unlock(2)
		close(done)
	}()
	<-done
	k.Unlock(1)
}

func TestUnlockWithoutLockPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New().Unlock(42)
}
