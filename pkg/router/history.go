package router

import "sync"

// historyRing is a fixed-capacity FIFO log of completed routing requests.
// The duplicate check is an exact string match over every retained entry:
// O(capacity) per lookup, acceptable at the bounded sizes this runs at.
type historyRing struct {
	mu       sync.Mutex
	capacity int
	entries  []HistoryEntry
}

func newHistoryRing(capacity int) *historyRing {
	return &historyRing{capacity: capacity}
}

// append records an entry, evicting the oldest when over capacity.
func (h *historyRing) append(entry HistoryEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, entry)
	if len(h.entries) > h.capacity {
		h.entries = append(h.entries[:0], h.entries[len(h.entries)-h.capacity:]...)
	}
}

// findExact returns the most recent entry whose cleaned text matches
// exactly, scanning newest first.
func (h *historyRing) findExact(cleanedText string) (HistoryEntry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := len(h.entries) - 1; i >= 0; i-- {
		if h.entries[i].CleanedText == cleanedText {
			return h.entries[i], true
		}
	}
	return HistoryEntry{}, false
}

func (h *historyRing) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
