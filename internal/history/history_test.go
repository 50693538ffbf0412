package history

import (
	"fmt"
	"slices"
	"testing"
)

func TestPushOrderAndDedupe(t *testing.T) {
	h := New(0)
	for _, id := range []string{"a", "b", "c", "a", ""} {
		h.Push(id)
	}

	want := []string{"a", "c", "b"}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if latest, ok := h.Latest(); !ok || latest != "a" {
		t.Errorf("Expected latest a, got %q", latest)
	}
}

func TestPushCaps(t *testing.T) {
	h := New(DefaultLimit)
	for i := 0; i < 20; i++ {
		h.Push(fmt.Sprintf("p%d", i))
	}

	if h.Len() != DefaultLimit {
		t.Fatalf("Expected %d entries, got %d", DefaultLimit, h.Len())
	}
	entries := h.Entries()
	if entries[0] != "p19" || entries[DefaultLimit-1] != "p8" {
		t.Errorf("Expected p19..p8, got %v", entries)
	}
}

func TestEntriesIsCopy(t *testing.T) {
	h := New(3)
	h.Push("a")
	entries := h.Entries()
	entries[0] = "mutated"

	if latest, _ := h.Latest(); latest != "a" {
		t.Errorf("Expected history unchanged, got %q", latest)
	}
}

func TestEmpty(t *testing.T) {
	h := New(3)
	if _, ok := h.Latest(); ok {
		t.Error("Expected no latest entry")
	}
	if len(h.Entries()) != 0 {
		t.Error("Expected no entries")
	}
}
