package dedup

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSet_AddThenDuplicate(t *testing.T) {
	s := NewSet()
	if !s.Add("a|b|c") {
		t.Fatal("first Add should return true")
	}
	if s.Add("a|b|c") {
		t.Error("second Add of the same key should return false")
	}
	if !s.Add("a|b|d") {
		t.Error("Add of a different key should return true")
	}
	if got := s.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestSet_ConcurrentAddAcceptsOnce(t *testing.T) {
	s := NewSet()
	const workers = 64
	var accepted atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if s.Add("https://x/1|foo|dev") {
				accepted.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := accepted.Load(); got != 1 {
		t.Errorf("accepted = %d, want exactly 1", got)
	}
	if got := s.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}
