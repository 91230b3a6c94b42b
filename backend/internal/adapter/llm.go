package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"travel-graph/backend/internal/constants"
	apperrors "travel-graph/backend/pkg/errors"
	"travel-graph/backend/pkg/logger"
)

// ErrMaxToolRounds means the model kept requesting tools without ever
// producing a final answer
var ErrMaxToolRounds = errors.New("maximum tool call rounds reached")

// Chat roles as the OpenAI API spells them
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// bookFlightToolName is the function the model calls to reach the
// flight booking agent
const bookFlightToolName = "book_flight"

// Message is one turn of conversation history
type Message struct {
	Role    string
	Content string
}

// FlightTool reaches the flight booking agent on behalf of a chat turn.
// Implementations never fail the turn; errors come back as message text.
type FlightTool interface {
	BookFlight(ctx context.Context, contextID, userInput string) string
}

// LLMResponder generates replies with a chat completion model. When a
// flight tool is attached the model can delegate booking requests to the
// flight agent through a function call.
type LLMResponder struct {
	client       *openai.Client
	model        string
	temperature  float32
	systemPrompt string
	flight       FlightTool
	mu           sync.RWMutex // Protects model field for concurrent access
	logger       *zap.Logger
}

// NewLLMResponder creates a responder backed by the OpenAI chat API. An
// empty baseURL targets the public API; setting one routes through a proxy
// such as LiteLLM, which also accepts a dummy key. A nil flight tool
// disables the booking function and yields plain completions.
func NewLLMResponder(baseURL, apiKey, modelID string, temperature float64, systemPrompt string, flight FlightTool) *LLMResponder {
	if apiKey == "" {
		apiKey = "dummy-key"
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL + "/v1"
	}

	return &LLMResponder{
		client:       openai.NewClientWithConfig(config),
		model:        modelID,
		temperature:  float32(temperature),
		systemPrompt: systemPrompt,
		flight:       flight,
		logger:       logger.Get(),
	}
}

// SetModel updates the model used by this responder
func (r *LLMResponder) SetModel(model string) {
	if model != "" {
		r.mu.Lock()
		r.model = model
		r.mu.Unlock()
		r.logger.Debug("LLM responder model updated", zap.String("model", model))
	}
}

// GetModel returns the current model
func (r *LLMResponder) GetModel() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.model
}

// Respond runs one chat turn, resolving any tool calls the model makes
// before returning its final text.
func (r *LLMResponder) Respond(ctx context.Context, contextID string, history []Message, userInput string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: r.systemPrompt,
	})
	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userInput,
	})

	var tools []openai.Tool
	if r.flight != nil {
		tools = append(tools, bookFlightTool())
	}

	for round := 0; round < constants.MaxToolRounds; round++ {
		choice, err := r.complete(ctx, messages, tools)
		if err != nil {
			return "", err
		}

		if len(choice.Message.ToolCalls) == 0 {
			return choice.Message.Content, nil
		}

		// The model wants tool results before it answers. Every call
		// gets a tool message back, even unknown ones, or the API
		// rejects the follow-up request.
		messages = append(messages, choice.Message)
		for _, tc := range choice.Message.ToolCalls {
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    r.callTool(ctx, contextID, tc),
				ToolCallID: tc.ID,
			})
		}
	}

	return "", ErrMaxToolRounds
}

// callTool executes a single tool call requested by the model
func (r *LLMResponder) callTool(ctx context.Context, contextID string, tc openai.ToolCall) string {
	if tc.Function.Name != bookFlightToolName || r.flight == nil {
		r.logger.Warn("Model requested unknown tool", zap.String("tool", tc.Function.Name))
		return fmt.Sprintf("unknown tool: %s", tc.Function.Name)
	}

	var args struct {
		UserInput string `json:"user_input"`
	}
	if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
		r.logger.Warn("Failed to parse tool call arguments",
			zap.String("tool_id", tc.ID),
			zap.Error(err),
		)
	}

	return r.flight.BookFlight(ctx, contextID, args.UserInput)
}

// complete sends one chat completion request with retries and returns the
// first choice.
func (r *LLMResponder) complete(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionChoice, error) {
	r.mu.RLock()
	currentModel := r.model
	r.mu.RUnlock()

	req := openai.ChatCompletionRequest{
		Model:    currentModel,
		Messages: messages,
		Tools:    tools,
		// ToolChoice defaults to "auto" when tools are provided
		Temperature: r.temperature,
	}

	// Retry logic with linear backoff
	var resp openai.ChatCompletionResponse
	var err error
	maxRetries := 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			r.logger.Warn("Retrying LLM request",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
			)
			time.Sleep(backoff)
		}

		resp, err = r.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}

		errMsg := err.Error()
		r.logger.Error("LLM request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.String("model", currentModel),
		)

		// Check if it's a JSON parsing error (likely server returned non-JSON error)
		if strings.Contains(errMsg, "invalid character") || strings.Contains(errMsg, "json") {
			r.logger.Warn("LLM service returned non-JSON error response - this may be a transient server issue",
				zap.String("error", errMsg),
			)
		}
	}

	if err != nil {
		return openai.ChatCompletionChoice{}, apperrors.NewAgentLLMFailed(currentModel, maxRetries, false, err)
	}

	if len(resp.Choices) == 0 {
		return openai.ChatCompletionChoice{}, apperrors.ErrAgentNoResponse
	}

	r.logger.Debug("LLM response generated",
		zap.String("model", currentModel),
		zap.Int("tool_calls", len(resp.Choices[0].Message.ToolCalls)),
		zap.Bool("has_content", resp.Choices[0].Message.Content != ""),
	)

	return resp.Choices[0], nil
}

// bookFlightTool describes the booking function offered to the model
func bookFlightTool() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        bookFlightToolName,
			Description: "Book a flight by sending the customer's request to the Flight Booking Agent",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"user_input": map[string]interface{}{
						"type":        "string",
						"description": "The customer's flight request in their own words",
					},
				},
				"required": []string{"user_input"},
			},
		},
	}
}
