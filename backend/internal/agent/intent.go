package agent

import "strings"

// Conversation intents stored on the graph
const (
	IntentFlightBooking  = "flight_booking"
	IntentHotelBooking   = "hotel_booking"
	IntentTripPlanning   = "trip_planning"
	IntentGeneralInquiry = "general_inquiry"
)

// intentKeywords maps keyword groups to intents, most specific first
var intentKeywords = []struct {
	intent string
	words  []string
}{
	{IntentFlightBooking, []string{"flight", "fly", "book", "ticket", "airline"}},
	{IntentHotelBooking, []string{"hotel", "accommodation", "stay", "room"}},
	{IntentTripPlanning, []string{"trip", "travel", "vacation", "plan"}},
}

// DetectIntent classifies a user utterance by keyword. The first matching
// group wins when words from several groups appear.
func DetectIntent(userInput string) string {
	lower := strings.ToLower(userInput)
	for _, group := range intentKeywords {
		for _, word := range group.words {
			if strings.Contains(lower, word) {
				return group.intent
			}
		}
	}
	return IntentGeneralInquiry
}
