package adapter

import (
	"context"
	"strings"
	"testing"
)

func TestFlightSimResponder_OffersOptionsForKnownCity(t *testing.T) {
	r := NewFlightSimResponder()

	reply, err := r.Respond(context.Background(), "ctx-1", nil, "I need a flight to Tokyo next week")
	if err != nil {
		t.Fatalf("Respond returned error: %v", err)
	}
	if !strings.Contains(reply, "your trip to Tokyo") {
		t.Errorf("reply does not name the destination: %q", reply)
	}
	if !strings.Contains(reply, "KE901") || !strings.Contains(reply, "AF267") {
		t.Errorf("reply is missing the simulated options: %q", reply)
	}
}

func TestFlightSimResponder_TitleCasesMultiWordCities(t *testing.T) {
	r := NewFlightSimResponder()

	reply, err := r.Respond(context.Background(), "ctx-1", nil, "book me something to new york")
	if err != nil {
		t.Fatalf("Respond returned error: %v", err)
	}
	if !strings.Contains(reply, "your trip to New York") {
		t.Errorf("destination not title-cased: %q", reply)
	}
}

func TestFlightSimResponder_ConfirmsAfterOptions(t *testing.T) {
	r := NewFlightSimResponder()
	history := []Message{
		{Role: RoleUser, Content: "flight to paris"},
		{Role: RoleAssistant, Content: "I found these options..."},
	}

	reply, err := r.Respond(context.Background(), "ctx-1", history, "yes, book it")
	if err != nil {
		t.Fatalf("Respond returned error: %v", err)
	}
	if !strings.Contains(reply, "confirmed") {
		t.Errorf("expected a confirmation, got %q", reply)
	}
}

func TestFlightSimResponder_IgnoresConfirmationWithoutHistory(t *testing.T) {
	r := NewFlightSimResponder()

	reply, err := r.Respond(context.Background(), "ctx-1", nil, "yes")
	if err != nil {
		t.Fatalf("Respond returned error: %v", err)
	}
	if strings.Contains(reply, "confirmed") {
		t.Errorf("confirmed a booking that was never offered: %q", reply)
	}
}

func TestFlightSimResponder_AsksForDetails(t *testing.T) {
	r := NewFlightSimResponder()

	reply, err := r.Respond(context.Background(), "ctx-1", nil, "I want to travel somewhere warm")
	if err != nil {
		t.Fatalf("Respond returned error: %v", err)
	}
	if !strings.Contains(reply, "departure city") {
		t.Errorf("expected a prompt for details, got %q", reply)
	}
}
