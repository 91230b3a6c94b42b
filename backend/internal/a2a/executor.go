package a2a

import (
	"context"
	"fmt"
	"strings"

	sdka2a "github.com/a2aproject/a2a-go/a2a"
	"github.com/a2aproject/a2a-go/a2asrv"
	"github.com/a2aproject/a2a-go/a2asrv/eventqueue"
	"go.uber.org/zap"

	"travel-graph/backend/internal/adapter"
	"travel-graph/backend/internal/agent"
	"travel-graph/backend/pkg/logger"
)

// FlightExecutor serves booking requests behind the A2A JSON-RPC endpoint.
// It keeps a per-context transcript so follow-up questions in the same
// context see earlier turns.
type FlightExecutor struct {
	responder agent.Responder
	history   *agent.History
	logger    *zap.Logger
}

// NewFlightExecutor creates the executor with its reply backend injected.
func NewFlightExecutor(responder agent.Responder, historyLimit int) *FlightExecutor {
	return &FlightExecutor{
		responder: responder,
		history:   agent.NewHistory(historyLimit),
		logger:    logger.Get(),
	}
}

// Execute implements a2asrv.AgentExecutor
func (e *FlightExecutor) Execute(ctx context.Context, reqCtx *a2asrv.RequestContext, queue eventqueue.Queue) error {
	userInput := ""
	if reqCtx.Message != nil {
		userInput = textFromParts(reqCtx.Message.Parts)
	}
	if strings.TrimSpace(userInput) == "" {
		return e.writeFailure(ctx, reqCtx, queue, "User input cannot be empty.")
	}

	// Write "submitted" status if this is a new task
	if reqCtx.StoredTask == nil {
		event := sdka2a.NewStatusUpdateEvent(reqCtx, sdka2a.TaskStateSubmitted, nil)
		if err := queue.Write(ctx, event); err != nil {
			return fmt.Errorf("failed to write state submitted: %w", err)
		}
	}

	event := sdka2a.NewStatusUpdateEvent(reqCtx, sdka2a.TaskStateWorking, nil)
	if err := queue.Write(ctx, event); err != nil {
		return fmt.Errorf("failed to write state working: %w", err)
	}

	contextID := reqCtx.ContextID
	e.logger.Info("Flight booking request received",
		zap.String("context_id", contextID),
		zap.String("task_id", string(reqCtx.TaskID)))

	reply, err := e.responder.Respond(ctx, contextID, e.history.Turns(contextID), userInput)
	if err != nil {
		e.logger.Error("Flight responder failed",
			zap.String("context_id", contextID),
			zap.Error(err))
		return e.writeFailure(ctx, reqCtx, queue, err.Error())
	}

	e.history.Append(contextID,
		adapter.Message{Role: adapter.RoleUser, Content: userInput},
		adapter.Message{Role: adapter.RoleAssistant, Content: reply},
	)

	responseMsg := sdka2a.NewMessage(sdka2a.MessageRoleAgent, &sdka2a.TextPart{Text: reply})
	responseMsg.TaskID = reqCtx.TaskID
	responseMsg.ContextID = contextID

	finalEvent := sdka2a.NewStatusUpdateEvent(reqCtx, sdka2a.TaskStateCompleted, responseMsg)
	finalEvent.Final = true
	if err := queue.Write(ctx, finalEvent); err != nil {
		return fmt.Errorf("failed to write state completed: %w", err)
	}

	return nil
}

// Cancel implements a2asrv.AgentExecutor
func (e *FlightExecutor) Cancel(ctx context.Context, reqCtx *a2asrv.RequestContext, queue eventqueue.Queue) error {
	e.logger.Info("Flight booking task canceled",
		zap.String("task_id", string(reqCtx.TaskID)))

	event := sdka2a.NewStatusUpdateEvent(reqCtx, sdka2a.TaskStateCanceled, nil)
	event.Final = true
	if err := queue.Write(ctx, event); err != nil {
		return fmt.Errorf("failed to write state canceled: %w", err)
	}
	return nil
}

// writeFailure writes a terminal failure event carrying the error text
func (e *FlightExecutor) writeFailure(ctx context.Context, reqCtx *a2asrv.RequestContext, queue eventqueue.Queue, errMsg string) error {
	errorMessage := sdka2a.NewMessage(sdka2a.MessageRoleAgent, &sdka2a.TextPart{Text: errMsg})
	errorMessage.TaskID = reqCtx.TaskID
	errorMessage.ContextID = reqCtx.ContextID

	event := sdka2a.NewStatusUpdateEvent(reqCtx, sdka2a.TaskStateFailed, errorMessage)
	event.Final = true
	if err := queue.Write(ctx, event); err != nil {
		return fmt.Errorf("failed to write failure event: %w", err)
	}
	return nil
}
