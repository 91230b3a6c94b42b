package agent

import (
	"sync"

	"travel-graph/backend/internal/adapter"
)

// defaultHistoryLimit caps a context's transcript when no limit is configured
const defaultHistoryLimit = 40

// History keeps bounded per-context chat transcripts in memory. Once a
// context hits the limit the oldest turns fall off; the graph keeps the
// full record.
type History struct {
	mu    sync.Mutex
	limit int
	turns map[string][]adapter.Message
}

// NewHistory creates a transcript store holding at most limit turns per
// context.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &History{
		limit: limit,
		turns: make(map[string][]adapter.Message),
	}
}

// Turns returns a copy of the stored transcript for a context, oldest first.
func (h *History) Turns(contextID string) []adapter.Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	stored := h.turns[contextID]
	out := make([]adapter.Message, len(stored))
	copy(out, stored)
	return out
}

// Append adds turns to a context, dropping the oldest past the limit.
func (h *History) Append(contextID string, turns ...adapter.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	stored := append(h.turns[contextID], turns...)
	if over := len(stored) - h.limit; over > 0 {
		trimmed := make([]adapter.Message, h.limit)
		copy(trimmed, stored[over:])
		stored = trimmed
	}
	h.turns[contextID] = stored
}
