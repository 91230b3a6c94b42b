package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"travel-graph/backend/internal/adapter"
	"travel-graph/backend/internal/commlog"
	"travel-graph/backend/internal/graph"
)

// stubResponder returns a fixed reply and records what it was asked
type stubResponder struct {
	reply   string
	err     error
	context string
	input   string
	history []adapter.Message
}

func (s *stubResponder) Respond(ctx context.Context, contextID string, history []adapter.Message, userInput string) (string, error) {
	s.context = contextID
	s.input = userInput
	s.history = history
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

// newTestTravelAgent builds a facade over a disconnected store, so every
// tracking write fails and the degraded path is what gets exercised.
func newTestTravelAgent(responder Responder) *TravelAgent {
	store := graph.NewStore("bolt://localhost:7687", "neo4j", "password", "neo4j")
	tracker := graph.NewTracker(store)
	analytics := graph.NewAnalytics(store)
	return NewTravelAgent(tracker, analytics, responder, commlog.NewRecorder(""), 10)
}

func TestTravelAgent_ChatSurvivesDisconnectedStore(t *testing.T) {
	responder := &stubResponder{reply: "Sure, where would you like to go?"}
	agent := newTestTravelAgent(responder)

	got := agent.Chat(context.Background(), "plan a trip", "ctx-1", "session-1", "Alice")
	if got != "Sure, where would you like to go?" {
		t.Fatalf("Expected responder reply despite tracking failures, got %q", got)
	}
	if responder.context != "ctx-1" {
		t.Errorf("Expected context id ctx-1, got %q", responder.context)
	}
	if responder.input != "plan a trip" {
		t.Errorf("Expected user input passed through, got %q", responder.input)
	}
}

func TestTravelAgent_ChatThreadsHistory(t *testing.T) {
	responder := &stubResponder{reply: "Hi! Where to?"}
	agent := newTestTravelAgent(responder)
	ctx := context.Background()

	agent.Chat(ctx, "hello", "ctx-1", "session-1", "")
	if len(responder.history) != 0 {
		t.Fatalf("Expected empty history on first turn, got %d turns", len(responder.history))
	}

	agent.Chat(ctx, "book a flight", "ctx-1", "session-1", "")
	if len(responder.history) != 2 {
		t.Fatalf("Expected 2 history turns on second call, got %d", len(responder.history))
	}
	if responder.history[0].Role != adapter.RoleUser || responder.history[0].Content != "hello" {
		t.Errorf("First history turn wrong: %+v", responder.history[0])
	}
	if responder.history[1].Role != adapter.RoleAssistant || responder.history[1].Content != "Hi! Where to?" {
		t.Errorf("Second history turn wrong: %+v", responder.history[1])
	}
}

func TestTravelAgent_ChatApologizesOnResponderError(t *testing.T) {
	responder := &stubResponder{err: errors.New("model exploded")}
	agent := newTestTravelAgent(responder)

	got := agent.Chat(context.Background(), "hello", "ctx-1", "session-1", "")
	if !strings.HasPrefix(got, "I apologize, but I encountered an error while processing your request:") {
		t.Fatalf("Expected apology, got %q", got)
	}
	if !strings.Contains(got, "model exploded") {
		t.Errorf("Expected apology to carry the cause, got %q", got)
	}

	// A failed turn must not pollute the transcript
	agent.Chat(context.Background(), "again", "ctx-1", "session-1", "")
	if len(responder.history) != 0 {
		t.Errorf("Expected empty history after failed turn, got %+v", responder.history)
	}
}

func TestTravelAgent_ChatRecordsCommunicationLog(t *testing.T) {
	responder := &stubResponder{reply: "done"}
	recorder := commlog.NewRecorder("")
	store := graph.NewStore("bolt://localhost:7687", "neo4j", "password", "neo4j")
	agent := NewTravelAgent(graph.NewTracker(store), graph.NewAnalytics(store), responder, recorder, 10)

	agent.Chat(context.Background(), "hello there", "ctx-9", "session-9", "")

	entries := recorder.Entries()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 recorded exchange, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Type != commlog.TypeUserInteraction {
		t.Errorf("Expected user_interaction entry, got %q", entry.Type)
	}
	if entry.Status != commlog.StatusSuccess {
		t.Errorf("Expected success status, got %q", entry.Status)
	}
	if entry.Request != "hello there" || entry.Response != "done" {
		t.Errorf("Entry did not capture the exchange: %+v", entry)
	}
	if entry.ContextID != "ctx-9" {
		t.Errorf("Expected context id ctx-9, got %q", entry.ContextID)
	}
}

func TestTravelAgent_EndConversationWithoutActive(t *testing.T) {
	agent := newTestTravelAgent(&stubResponder{reply: "ok"})

	ended, err := agent.EndConversation(context.Background(), "never-seen", true, 5)
	if err != nil {
		t.Fatalf("EndConversation failed: %v", err)
	}
	if ended {
		t.Error("Expected false for a context with no active conversation")
	}
}
