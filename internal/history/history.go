// Package history keeps the most recently viewed paintings of a viewer.
package history

import "slices"

// DefaultLimit is the number of entries a viewer keeps
const DefaultLimit = 12

// History is a most-recent-first list of painting IDs without duplicates.
// It is not safe for concurrent use.
type History struct {
	limit   int
	entries []string
}

// New returns an empty history holding at most limit entries. A limit
// below one uses DefaultLimit.
func New(limit int) *History {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// Push moves id to the front, dropping the oldest entry when full.
// Empty IDs are ignored.
func (h *History) Push(id string) {
	if id == "" {
		return
	}
	if i := slices.Index(h.entries, id); i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}
	h.entries = slices.Insert(h.entries, 0, id)
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
}

// Entries returns a copy of the history, newest first
func (h *History) Entries() []string {
	return slices.Clone(h.entries)
}

func (h *History) Len() int {
	return len(h.entries)
}

// Latest returns the most recent entry
func (h *History) Latest() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	return h.entries[0], true
}
