package adapter

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"travel-graph/backend/pkg/logger"
)

// confirmWords signal the customer accepting an offered option
var confirmWords = []string{"confirm", "yes", "book it", "go ahead", "sounds good"}

// FlightSimResponder fabricates consistent flight options without a model
// so the booking agent stays usable offline. Options are fixed; only the
// destination varies with the request.
type FlightSimResponder struct {
	logger *zap.Logger
}

// NewFlightSimResponder creates the offline booking responder.
func NewFlightSimResponder() *FlightSimResponder {
	return &FlightSimResponder{logger: logger.Get()}
}

// Respond simulates one turn of the booking specialist.
func (r *FlightSimResponder) Respond(ctx context.Context, contextID string, history []Message, userInput string) (string, error) {
	lower := strings.ToLower(userInput)

	// A confirmation only makes sense after options were offered
	if len(history) > 0 && containsAny(lower, confirmWords) {
		return "Your booking is confirmed! Flight KE901 (Korean Air). You'll receive your e-ticket shortly. Is there anything else I can help you with?", nil
	}

	for _, city := range knownCities {
		if strings.Contains(lower, city) {
			r.logger.Info("Simulating flight options",
				zap.String("context_id", contextID),
				zap.String("destination", city))
			return fmt.Sprintf("I found these options for your trip to %s:\n\n"+
				"1. Flight KE901 (Korean Air) - departs 09:15, arrives 14:40, 7h 25m, $840 USD\n"+
				"2. Flight AF267 (Air France) - departs 13:30, arrives 19:05, 7h 35m, $920 USD\n\n"+
				"Would you like me to confirm one of these bookings?", titleCase(city)), nil
		}
	}

	return "I can search flights for you. Could you tell me your departure city, destination, and travel dates?", nil
}

// titleCase capitalizes each word of a known city name for display
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
