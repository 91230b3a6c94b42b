package a2a

import (
	"strings"

	sdka2a "github.com/a2aproject/a2a-go/a2a"

	"travel-graph/backend/internal/constants"
)

// Card describes the flight agent for discovery under the well-known path.
// The card URL points at the JSON-RPC endpoint.
func Card(baseURL string) *sdka2a.AgentCard {
	baseURL = strings.TrimRight(baseURL, "/")
	a2aURL := baseURL + "/a2a"

	return &sdka2a.AgentCard{
		Name:            constants.FlightAgentName,
		Description:     "Books flights and answers availability questions over the A2A protocol",
		URL:             a2aURL,
		Version:         "1.0.0",
		ProtocolVersion: "1.0",
		Provider: &sdka2a.AgentProvider{
			Org: "travel-graph",
			URL: baseURL,
		},
		PreferredTransport: sdka2a.TransportProtocolJSONRPC,
		AdditionalInterfaces: []sdka2a.AgentInterface{
			{URL: a2aURL, Transport: sdka2a.TransportProtocolJSONRPC},
		},
		Capabilities: sdka2a.AgentCapabilities{
			Streaming:              true,
			PushNotifications:      false,
			StateTransitionHistory: true,
		},
		Skills: []sdka2a.AgentSkill{
			{
				ID:          "flight_booking",
				Name:        "Flight Booking",
				Description: "Searches simulated flight inventory and confirms bookings",
				Tags:        []string{"travel", "booking"},
				InputModes:  []string{"text/plain"},
				OutputModes: []string{"text/plain"},
			},
		},
		DefaultInputModes:  []string{"text/plain"},
		DefaultOutputModes: []string{"text/plain"},
	}
}
