package constants

// Agent constants
const (
	// TravelAgentName is the graph identity of the customer-facing planner
	TravelAgentName = "TravelPlanningAgent"

	// FlightAgentName is the graph identity of the booking specialist
	// reached over A2A
	FlightAgentName = "FlightBookingAgent"
)

// Chat defaults
const (
	// DefaultContextID groups messages when the caller supplies no context
	DefaultContextID = "default"

	// DefaultSessionID identifies anonymous users
	DefaultSessionID = "default_session"
)

// Agent execution constants
const (
	// MaxToolRounds is the maximum number of tool call rounds in one turn
	// This prevents infinite loops when the model keeps requesting tools
	MaxToolRounds = 5
)

// Language codes
const (
	LanguageCodeEnglish    = "en"
	LanguageCodeFrench     = "fr"
	LanguageCodeSpanish    = "es"
	LanguageCodeGerman     = "de"
	LanguageCodeItalian    = "it"
	LanguageCodePortuguese = "pt"
	LanguageCodeJapanese   = "ja"
	LanguageCodeChinese    = "zh"
	LanguageCodeKorean     = "ko"
	LanguageCodeRussian    = "ru"
)
