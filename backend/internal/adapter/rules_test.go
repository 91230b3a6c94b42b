package adapter

import (
	"context"
	"strings"
	"testing"
)

// fakeFlightTool records the booking calls it receives
type fakeFlightTool struct {
	reply     string
	contextID string
	userInput string
	calls     int
}

func (f *fakeFlightTool) BookFlight(ctx context.Context, contextID, userInput string) string {
	f.calls++
	f.contextID = contextID
	f.userInput = userInput
	return f.reply
}

func TestRuleResponder_CannedReplies(t *testing.T) {
	responder := NewRuleResponder(nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"greeting", "Hello there", "Hello! I'm your travel planning assistant."},
		{"trip planning", "I want to plan a vacation", "I'd be happy to help you plan your trip!"},
		{"flight without city", "I need to book a flight", "I can help you book a flight!"},
		{"help", "what can you do for me", "I'm a travel planning assistant. I can help you with:"},
		{"thanks", "thank you so much", "You're welcome!"},
		{"default", "what is the weather like", "I understand you're interested in travel planning."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := responder.Respond(ctx, "ctx-1", nil, tt.input)
			if err != nil {
				t.Fatalf("Respond failed: %v", err)
			}
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("Expected reply starting with %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRuleResponder_GreetingWinsOverFlight(t *testing.T) {
	tool := &fakeFlightTool{reply: "should not be called"}
	responder := NewRuleResponder(tool)

	got, err := responder.Respond(context.Background(), "ctx-1", nil, "hi, book me a flight to tokyo")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if !strings.HasPrefix(got, "Hello!") {
		t.Errorf("Expected greeting to win, got %q", got)
	}
	if tool.calls != 0 {
		t.Errorf("Expected no booking call, got %d", tool.calls)
	}
}

func TestRuleResponder_FlightWithKnownCity(t *testing.T) {
	tool := &fakeFlightTool{reply: "Flight KE901 to Seoul departs at 10:00."}
	responder := NewRuleResponder(tool)

	got, err := responder.Respond(context.Background(), "ctx-42", nil, "Book a flight to Seoul please")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}

	want := "Let me help you with that flight booking.\n\nFlight KE901 to Seoul departs at 10:00."
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if tool.calls != 1 {
		t.Fatalf("Expected one booking call, got %d", tool.calls)
	}
	if tool.contextID != "ctx-42" {
		t.Errorf("Expected context id ctx-42, got %q", tool.contextID)
	}
	if tool.userInput != "Book a flight to Seoul please" {
		t.Errorf("Booking call got wrong input: %q", tool.userInput)
	}
}

func TestRuleResponder_FlightCityWithoutTool(t *testing.T) {
	responder := NewRuleResponder(nil)

	got, err := responder.Respond(context.Background(), "ctx-1", nil, "book a flight to paris")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if !strings.HasPrefix(got, "I can help you book a flight!") {
		t.Errorf("Expected details prompt without a flight tool, got %q", got)
	}
}
