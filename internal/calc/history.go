package calc

import "sync"

// History is a bounded, append-only log of calculator results. Once full,
// the oldest entry is dropped.
type History struct {
	mu      sync.Mutex
	limit   int
	entries []string
}

// NewHistory creates a history holding at most limit entries. A limit <= 0
// keeps everything.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

func (h *History) Add(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, line)
	if h.limit > 0 && len(h.entries) > h.limit {
		h.entries = append([]string(nil), h.entries[len(h.entries)-h.limit:]...)
	}
}

// Entries returns a copy, oldest first
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
