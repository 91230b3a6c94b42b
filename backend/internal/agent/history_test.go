package agent

import (
	"testing"

	"travel-graph/backend/internal/adapter"
)

func TestHistory_AppendAndTurns(t *testing.T) {
	h := NewHistory(10)

	h.Append("ctx-1",
		adapter.Message{Role: adapter.RoleUser, Content: "hello"},
		adapter.Message{Role: adapter.RoleAssistant, Content: "hi there"},
	)

	turns := h.Turns("ctx-1")
	if len(turns) != 2 {
		t.Fatalf("Expected 2 turns, got %d", len(turns))
	}
	if turns[0].Content != "hello" || turns[1].Content != "hi there" {
		t.Errorf("Turns out of order: %+v", turns)
	}

	// The returned slice is a copy
	turns[0].Content = "mutated"
	if h.Turns("ctx-1")[0].Content != "hello" {
		t.Error("Mutating the returned slice changed the stored transcript")
	}
}

func TestHistory_DropsOldestPastLimit(t *testing.T) {
	h := NewHistory(4)

	for _, content := range []string{"a", "b", "c", "d", "e", "f"} {
		h.Append("ctx-1", adapter.Message{Role: adapter.RoleUser, Content: content})
	}

	turns := h.Turns("ctx-1")
	if len(turns) != 4 {
		t.Fatalf("Expected 4 turns, got %d", len(turns))
	}
	if turns[0].Content != "c" || turns[3].Content != "f" {
		t.Errorf("Expected oldest turns dropped, got %+v", turns)
	}
}

func TestHistory_ContextsAreIndependent(t *testing.T) {
	h := NewHistory(10)

	h.Append("ctx-1", adapter.Message{Role: adapter.RoleUser, Content: "one"})
	h.Append("ctx-2", adapter.Message{Role: adapter.RoleUser, Content: "two"})

	if got := h.Turns("ctx-1"); len(got) != 1 || got[0].Content != "one" {
		t.Errorf("ctx-1 transcript wrong: %+v", got)
	}
	if got := h.Turns("ctx-2"); len(got) != 1 || got[0].Content != "two" {
		t.Errorf("ctx-2 transcript wrong: %+v", got)
	}
	if got := h.Turns("ctx-3"); len(got) != 0 {
		t.Errorf("Expected empty transcript for unknown context, got %+v", got)
	}
}
