package latch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLatchReleasesAfterAllNames(t *testing.T) {
	l := New("input", "output")

	if l.Done("input") {
		t.Error("Expected latch to stay closed after first load")
	}
	if l.Pending() != 1 {
		t.Errorf("Expected 1 pending, got %d", l.Pending())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected Wait to block until deadline, got %v", err)
	}

	if !l.Done("output") {
		t.Error("Expected second load to release the latch")
	}
	if err := l.Wait(context.Background()); err != nil {
		t.Errorf("Expected released latch, got %v", err)
	}
}

func TestLatchIgnoresRepeatsAndUnknown(t *testing.T) {
	l := New("a", "b")

	l.Done("a")
	l.Done("a")
	l.Done("zzz")

	if l.Pending() != 1 {
		t.Errorf("Expected 1 pending, got %d", l.Pending())
	}
}

func TestLatchEmpty(t *testing.T) {
	if err := New().Wait(context.Background()); err != nil {
		t.Errorf("Expected empty latch to be released, got %v", err)
	}
}

func TestLatchOrderIndependent(t *testing.T) {
	for _, order := range [][]string{{"input", "output"}, {"output", "input"}} {
		l := New("input", "output")
		released := 0
		for _, name := range order {
			if l.Done(name) {
				released++
			}
		}
		if released != 1 {
			t.Errorf("Order %v: expected exactly one releasing call, got %d", order, released)
		}
	}
}

func TestLatchConcurrentDone(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	l := New(names...)

	var wg sync.WaitGroup
	var mu sync.Mutex
	released := 0
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if l.Done(name) {
				mu.Lock()
				released++
				mu.Unlock()
			}
		}(name)
	}
	wg.Wait()

	if released != 1 {
		t.Errorf("Expected one releasing call, got %d", released)
	}
	if err := l.Wait(context.Background()); err != nil {
		t.Errorf("Expected released latch, got %v", err)
	}
}

func TestLatchCancel(t *testing.T) {
	l := New("input", "output")
	l.Done("input")
	l.Cancel()

	if l.Done("output") {
		t.Error("Expected Done after Cancel to be ignored")
	}
	select {
	case <-l.Cancelled():
	default:
		t.Error("Expected Cancelled channel to be closed")
	}
	if err := l.Wait(context.Background()); !errors.Is(err, ErrCancelled) {
		t.Errorf("Expected ErrCancelled, got %v", err)
	}
}

func TestCancelAfterRelease(t *testing.T) {
	l := New("a")
	l.Done("a")
	l.Cancel()

	select {
	case <-l.Cancelled():
		t.Error("Expected released latch to never report cancellation")
	default:
	}

	if err := l.Wait(context.Background()); err != nil {
		t.Errorf("Expected released latch to stay released, got %v", err)
	}
}

func TestGeneration(t *testing.T) {
	var g Generation

	first, seq1 := g.Next("input", "output")
	second, seq2 := g.Next("input", "output")

	if err := first.Wait(context.Background()); !errors.Is(err, ErrCancelled) {
		t.Errorf("Expected superseded latch to be cancelled, got %v", err)
	}
	if g.Current(seq1) {
		t.Error("Expected first generation to be stale")
	}
	if !g.Current(seq2) {
		t.Error("Expected second generation to be current")
	}

	second.Done("input")
	second.Done("output")
	if err := second.Wait(context.Background()); err != nil {
		t.Errorf("Expected current latch to release, got %v", err)
	}
}
