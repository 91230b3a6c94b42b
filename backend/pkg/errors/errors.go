package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeAgent represents agent/LLM-related errors
	ErrorTypeAgent ErrorType = "agent"
	// ErrorTypeA2A represents inter-agent protocol errors
	ErrorTypeA2A ErrorType = "a2a"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// base exposes the category through typed wrappers that embed BaseError
func (e *BaseError) base() *BaseError {
	return e
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Graph Errors

// ErrGraphNotConnected is returned when a query runs before Connect succeeds
var ErrGraphNotConnected = NewBaseError(ErrorTypeGraph, "graph store not connected", nil)

// ErrGraphConnectionFailed is returned when the Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Query string
}

func NewGraphQueryFailed(query string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, "query failed", err),
		Query:     query,
	}
}

// ErrGraphConstraintViolated is returned when a write breaks a uniqueness
// constraint. It propagates to the caller, who decides whether "already
// exists" is acceptable.
type ErrGraphConstraintViolated struct {
	*BaseError
	Query string
}

func NewGraphConstraintViolated(query string, err error) *ErrGraphConstraintViolated {
	return &ErrGraphConstraintViolated{
		BaseError: NewBaseError(ErrorTypeGraph, "constraint violated", err),
		Query:     query,
	}
}

// ErrConversationNotFound is a soft condition: no active or stored
// conversation matches the context id
type ErrConversationNotFound struct {
	*BaseError
	ContextID string
}

func NewConversationNotFound(contextID string) *ErrConversationNotFound {
	return &ErrConversationNotFound{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("no conversation found for context: %s", contextID), nil),
		ContextID: contextID,
	}
}

// Agent Errors

// ErrAgentNoResponse is returned when the LLM returns no choices
var ErrAgentNoResponse = NewBaseError(ErrorTypeAgent, "no response from LLM", nil)

// ErrAgentLLMFailed is returned when an LLM request fails after retries
type ErrAgentLLMFailed struct {
	*BaseError
	Model     string
	Attempts  int
	Retryable bool
}

func NewAgentLLMFailed(model string, attempts int, retryable bool, err error) *ErrAgentLLMFailed {
	return &ErrAgentLLMFailed{
		BaseError: NewBaseError(ErrorTypeAgent, fmt.Sprintf("LLM request failed after %d attempts", attempts), err),
		Model:     model,
		Attempts:  attempts,
		Retryable: retryable,
	}
}

// A2A Errors

// ErrA2ACallFailed is returned when an inter-agent call cannot be completed
type ErrA2ACallFailed struct {
	*BaseError
	Endpoint string
}

func NewA2ACallFailed(endpoint string, err error) *ErrA2ACallFailed {
	return &ErrA2ACallFailed{
		BaseError: NewBaseError(ErrorTypeA2A, fmt.Sprintf("A2A call failed: %s", endpoint), err),
		Endpoint:  endpoint,
	}
}

// ErrA2AUnexpectedResponse is returned when the peer's reply carries no
// usable text
type ErrA2AUnexpectedResponse struct {
	*BaseError
	Endpoint string
}

func NewA2AUnexpectedResponse(endpoint string) *ErrA2AUnexpectedResponse {
	return &ErrA2AUnexpectedResponse{
		BaseError: NewBaseError(ErrorTypeA2A, "unexpected response format from agent", nil),
		Endpoint:  endpoint,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Context Errors

// ErrContextCancelled is returned when context is cancelled
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context cancelled: %s", operation), err),
		Operation: operation,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if baseErr, ok := err.(interface{ base() *BaseError }); ok {
		return baseErr.base().Type == errType
	}
	// Check wrapped errors
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		return IsErrorType(wrapped.Unwrap(), errType)
	}
	return false
}

// IsConversationNotFound reports whether err is the soft "no conversation"
// condition rather than a store failure
func IsConversationNotFound(err error) bool {
	_, ok := err.(*ErrConversationNotFound)
	return ok
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	// Context errors are not retryable
	if IsErrorType(err, ErrorTypeContext) {
		return false
	}
	if llmErr, ok := err.(*ErrAgentLLMFailed); ok {
		return llmErr.Retryable
	}
	// Constraint breaches will fail the same way again
	if _, ok := err.(*ErrGraphConstraintViolated); ok {
		return false
	}
	// A missing conversation stays missing on retry
	if IsConversationNotFound(err) {
		return false
	}
	// Connection-level graph and A2A errors are retryable
	if IsErrorType(err, ErrorTypeGraph) {
		return true
	}
	if IsErrorType(err, ErrorTypeA2A) {
		return true
	}
	return false
}
