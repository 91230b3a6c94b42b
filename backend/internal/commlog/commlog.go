package commlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"travel-graph/backend/pkg/logger"
)

// Entry types
const (
	TypeUserInteraction = "user_interaction"
	TypeAgentRequest    = "agent_to_agent_request"
)

// Entry statuses
const (
	StatusSuccess   = "success"
	StatusError     = "error"
	StatusException = "exception"
)

// Entry is one recorded exchange, either a user interaction or an
// inter-agent request with its response folded in
type Entry struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Type           string    `json:"type"`
	ContextID      string    `json:"context_id,omitempty"`
	FromAgent      string    `json:"from_agent,omitempty"`
	ToAgent        string    `json:"to_agent,omitempty"`
	Request        string    `json:"request,omitempty"`
	Response       string    `json:"response,omitempty"`
	Status         string    `json:"status,omitempty"`
	Error          string    `json:"error,omitempty"`
	ResponseTimeMs float64   `json:"response_time_ms,omitempty"`
}

// Recorder keeps an in-memory communication log, mirrored to a JSON file
// when a log directory is configured. The file is rewritten on every append
// so it always holds the complete log.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
	path    string
	logger  *zap.Logger
}

// NewRecorder creates a recorder. With an empty dir the log stays in
// memory only.
func NewRecorder(dir string) *Recorder {
	r := &Recorder{logger: logger.Get()}
	if dir == "" {
		return r
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		r.logger.Warn("Communication log directory unavailable, keeping log in memory",
			zap.String("dir", dir),
			zap.Error(err))
		return r
	}
	name := fmt.Sprintf("agent_communication_%s.json", time.Now().Format("20060102_150405"))
	r.path = filepath.Join(dir, name)
	return r
}

// Record appends an entry and rewrites the log file. Persistence failures
// are logged, never returned; recording must not block a chat turn.
func (r *Recorder) Record(entry Entry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	if r.path == "" {
		return
	}
	data, err := json.MarshalIndent(r.entries, "", "  ")
	if err != nil {
		r.logger.Warn("Failed to encode communication log", zap.Error(err))
		return
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		r.logger.Warn("Failed to write communication log",
			zap.String("path", r.path),
			zap.Error(err))
	}
}

// Entries returns a copy of the recorded log, oldest first
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of recorded entries
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Path returns the JSON log file path, empty when memory-only
func (r *Recorder) Path() string {
	return r.path
}
