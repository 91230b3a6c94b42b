package adapter

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"travel-graph/backend/pkg/logger"
)

// Keyword groups for the rule engine, checked in order
var (
	greetingWords = []string{"hello", "hi", "hey", "greetings"}
	tripWords     = []string{"trip", "travel", "vacation", "holiday", "journey"}
	flightWords   = []string{"flight", "fly", "book", "ticket", "airline"}
	helpWords     = []string{"help", "assist", "support", "what can you"}
	thanksWords   = []string{"thank", "thanks", "appreciate"}

	// knownCities gates the handoff to the booking agent. A flight request
	// without one of these gets a prompt for details instead of an A2A call.
	knownCities = []string{"new york", "london", "paris", "tokyo", "seoul", "san francisco", "los angeles"}
)

// RuleResponder answers with a deterministic keyword engine. It stands in
// for the LLM when no API key is configured and keeps the booking handoff:
// flight requests naming a known city still reach the booking agent.
type RuleResponder struct {
	flight FlightTool
	logger *zap.Logger
}

// NewRuleResponder creates the keyword responder. A nil flight tool
// disables the booking handoff.
func NewRuleResponder(flight FlightTool) *RuleResponder {
	return &RuleResponder{
		flight: flight,
		logger: logger.Get(),
	}
}

// Respond picks a canned reply for the turn. History is ignored; the
// engine is stateless.
func (r *RuleResponder) Respond(ctx context.Context, contextID string, history []Message, userInput string) (string, error) {
	lower := strings.ToLower(userInput)

	switch {
	case containsAny(lower, greetingWords):
		return "Hello! I'm your travel planning assistant. I can help you book flights and plan your trips. What destination are you interested in?", nil

	case containsAny(lower, tripWords):
		return "I'd be happy to help you plan your trip! Could you tell me:\n1. Where would you like to go?\n2. When are you planning to travel?\n3. How many people will be traveling?", nil

	case containsAny(lower, flightWords):
		if r.flight != nil && containsAny(lower, knownCities) {
			r.logger.Info("Flight request names a known city, calling booking agent",
				zap.String("context_id", contextID))
			return "Let me help you with that flight booking.\n\n" + r.flight.BookFlight(ctx, contextID, userInput), nil
		}
		return "I can help you book a flight! Please provide:\n- Departure city\n- Destination city\n- Travel dates\n- Number of passengers", nil

	case containsAny(lower, helpWords):
		return "I'm a travel planning assistant. I can help you with:\n• Flight bookings\n• Trip planning advice\n• Travel recommendations\n\nJust tell me what you need!", nil

	case containsAny(lower, thanksWords):
		return "You're welcome! Is there anything else I can help you with for your travel plans?", nil

	default:
		return "I understand you're interested in travel planning. Could you be more specific about what you need? I can help with flight bookings, trip planning, and travel recommendations.", nil
	}
}

// containsAny reports whether s contains any of the words as a substring
func containsAny(s string, words []string) bool {
	for _, word := range words {
		if strings.Contains(s, word) {
			return true
		}
	}
	return false
}
