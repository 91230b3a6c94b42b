package a2a

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	sdka2a "github.com/a2aproject/a2a-go/a2a"
	"github.com/a2aproject/a2a-go/a2aclient"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"travel-graph/backend/internal/commlog"
	"travel-graph/backend/internal/constants"
	"travel-graph/backend/internal/graph"
	"travel-graph/backend/pkg/logger"
)

// cardTimeout bounds availability probes against the flight agent
const cardTimeout = 5 * time.Second

// FlightCaller sends booking requests to the flight agent over A2A and
// mirrors each request/response pair into the graph and the communication
// log. Mirroring is best-effort: a broken graph store never blocks a
// booking call.
type FlightCaller struct {
	baseURL  string
	tracker  *graph.Tracker
	recorder *commlog.Recorder
	logger   *zap.Logger

	mu     sync.Mutex
	client *a2aclient.Client
}

// NewFlightCaller creates a caller for the flight agent at baseURL. The
// agent card is resolved lazily so the travel server can start before the
// flight agent is up.
func NewFlightCaller(baseURL string, tracker *graph.Tracker, recorder *commlog.Recorder) *FlightCaller {
	return &FlightCaller{
		baseURL:  strings.TrimRight(baseURL, "/"),
		tracker:  tracker,
		recorder: recorder,
		logger:   logger.Get(),
	}
}

// BookFlight forwards a booking request to the flight agent and returns
// the text to relay to the customer. It never fails the turn: transport
// and agent errors come back as descriptive message text.
func (f *FlightCaller) BookFlight(ctx context.Context, contextID, userInput string) string {
	communicationID := uuid.New().String()
	start := time.Now()

	f.logger.Info("A2A request started",
		zap.String("communication_id", communicationID),
		zap.String("context_id", contextID))

	client, err := f.connect(ctx)
	if err != nil {
		elapsed := float64(time.Since(start).Milliseconds())
		errorMsg := fmt.Sprintf("Error communicating with Flight Booking Agent: %v", err)
		f.logger.Error("A2A connect failed",
			zap.String("communication_id", communicationID),
			zap.Error(err))
		f.logResponse(ctx, contextID, errorMsg, communicationID, "", elapsed, false)
		f.record(contextID, userInput, errorMsg, commlog.StatusException, err.Error(), elapsed)
		return errorMsg
	}

	requestMessageID := ""
	reqMsg, logErr := f.tracker.LogAgentRequest(ctx, contextID, constants.TravelAgentName, constants.FlightAgentName, userInput, communicationID)
	if logErr != nil {
		f.logger.Warn("Failed to log agent request",
			zap.String("context_id", contextID),
			zap.Error(logErr))
	} else {
		requestMessageID = reqMsg.ID
	}

	msg := sdka2a.NewMessage(sdka2a.MessageRoleUser, &sdka2a.TextPart{Text: userInput})
	msg.ContextID = contextID

	sendStart := time.Now()
	result, err := client.SendMessage(ctx, &sdka2a.MessageSendParams{Message: msg})
	elapsed := float64(time.Since(sendStart).Milliseconds())
	if err != nil {
		errorMsg := fmt.Sprintf("Error communicating with Flight Booking Agent: %v", err)
		f.logger.Error("A2A request failed",
			zap.String("communication_id", communicationID),
			zap.Error(err))
		f.logResponse(ctx, contextID, errorMsg, communicationID, requestMessageID, elapsed, false)
		f.record(contextID, userInput, errorMsg, commlog.StatusException, err.Error(), elapsed)
		return errorMsg
	}

	var responseText, responseID string
	var agentFailed bool
	switch resp := result.(type) {
	case *sdka2a.Message:
		responseText = textFromParts(resp.Parts)
		responseID = resp.ID
	case *sdka2a.Task:
		agentFailed = resp.Status.State == sdka2a.TaskStateFailed
		if resp.Status.Message != nil {
			responseText = textFromParts(resp.Status.Message.Parts)
			responseID = resp.Status.Message.ID
		}
		if agentFailed && responseText == "" {
			responseText = string(resp.Status.State)
		}
	}

	if responseID == "" {
		responseID = communicationID
	}

	if agentFailed {
		errorMsg := fmt.Sprintf("Error from Flight Booking Agent: %s", responseText)
		f.logger.Error("A2A request returned failure",
			zap.String("communication_id", communicationID),
			zap.String("response", responseText))
		f.logResponse(ctx, contextID, errorMsg, responseID, requestMessageID, elapsed, false)
		f.record(contextID, userInput, errorMsg, commlog.StatusError, responseText, elapsed)
		return errorMsg
	}

	if responseText == "" {
		errorMsg := "Unexpected response format from Flight Booking Agent"
		f.logger.Error("Unexpected A2A response",
			zap.String("communication_id", communicationID))
		f.record(contextID, userInput, errorMsg, commlog.StatusError, "", elapsed)
		return errorMsg
	}

	f.logResponse(ctx, contextID, responseText, responseID, requestMessageID, elapsed, true)
	f.record(contextID, userInput, responseText, commlog.StatusSuccess, "", elapsed)

	f.logger.Info("A2A request completed",
		zap.String("communication_id", communicationID),
		zap.Float64("response_time_ms", elapsed))
	return responseText
}

// Available reports whether the flight agent currently serves its card
func (f *FlightCaller) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, cardTimeout)
	defer cancel()
	_, err := FetchAgentCard(ctx, f.baseURL)
	return err == nil
}

// Close releases the underlying client. The next BookFlight reconnects.
func (f *FlightCaller) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client == nil {
		return nil
	}
	err := f.client.Destroy()
	f.client = nil
	return err
}

// connect resolves the agent card and builds the client once, reusing it
// for subsequent calls.
func (f *FlightCaller) connect(ctx context.Context) (*a2aclient.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client != nil {
		return f.client, nil
	}

	card, err := FetchAgentCard(ctx, f.baseURL)
	if err != nil {
		return nil, err
	}

	client, err := a2aclient.NewFromCard(ctx, card)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	f.client = client
	f.logger.Info("Connected to flight agent",
		zap.String("url", f.baseURL),
		zap.String("agent", card.Name))
	return client, nil
}

// logResponse mirrors the flight agent's reply into the graph, best-effort
func (f *FlightCaller) logResponse(ctx context.Context, contextID, content, responseID, requestMessageID string, responseTimeMs float64, success bool) {
	_, err := f.tracker.LogAgentResponse(ctx, contextID, constants.FlightAgentName, constants.TravelAgentName, content, responseID, requestMessageID, responseTimeMs, success)
	if err != nil {
		f.logger.Warn("Failed to log agent response",
			zap.String("context_id", contextID),
			zap.Error(err))
	}
}

// record appends the exchange to the communication log
func (f *FlightCaller) record(contextID, request, response, status, errText string, responseTimeMs float64) {
	f.recorder.Record(commlog.Entry{
		Type:           commlog.TypeAgentRequest,
		ContextID:      contextID,
		FromAgent:      constants.TravelAgentName,
		ToAgent:        constants.FlightAgentName,
		Request:        request,
		Response:       response,
		Status:         status,
		Error:          errText,
		ResponseTimeMs: responseTimeMs,
	})
}

// FetchAgentCard retrieves an agent card from the well-known path under
// baseURL.
func FetchAgentCard(ctx context.Context, baseURL string) (*sdka2a.AgentCard, error) {
	url := strings.TrimRight(baseURL, "/") + "/.well-known/agent.json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch agent card: status %d", resp.StatusCode)
	}

	var card sdka2a.AgentCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("failed to decode agent card: %w", err)
	}

	return &card, nil
}

// textFromParts concatenates the text parts of an A2A message
func textFromParts(parts sdka2a.ContentParts) string {
	var b strings.Builder
	for _, part := range parts {
		if tp, ok := part.(*sdka2a.TextPart); ok {
			b.WriteString(tp.Text)
		}
	}
	return b.String()
}
