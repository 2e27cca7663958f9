// Package detect runs the capture-detect-reconcile loop against the
// inference backend.
package detect

import "sync"

// HistoryCapacity bounds the rolling history of confirmed detections.
const HistoryCapacity = 10

// History is a bounded, append-only sequence of confirmed top-1 labels.
// At capacity the oldest entry is evicted. Consecutive duplicates are
// collapsed; a label may reappear later in the sequence.
type History struct {
	mu     sync.Mutex
	labels []string
}

// NewHistory creates an empty History.
func NewHistory() *History {
	return &History{}
}

// Append records a label unless it equals the immediately preceding entry.
// Returns whether the label was actually appended.
func (h *History) Append(label string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.labels); n > 0 && h.labels[n-1] == label {
		return false
	}

	h.labels = append(h.labels, label)
	if len(h.labels) > HistoryCapacity {
		h.labels = h.labels[len(h.labels)-HistoryCapacity:]
	}
	return true
}

// Last returns the most recent label, if any.
func (h *History) Last() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.labels) == 0 {
		return "", false
	}
	return h.labels[len(h.labels)-1], true
}

// Labels returns a copy of the history, oldest first.
func (h *History) Labels() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, len(h.labels))
	copy(out, h.labels)
	return out
}

// Len returns the number of recorded labels.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.labels)
}

// Clear empties the history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.labels = h.labels[:0]
}
