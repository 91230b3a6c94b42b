package agent

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"travel-graph/backend/internal/adapter"
	"travel-graph/backend/internal/commlog"
	"travel-graph/backend/internal/constants"
	"travel-graph/backend/internal/graph"
	"travel-graph/backend/internal/utils"
	"travel-graph/backend/pkg/logger"
)

// popularIntentsLimit bounds the intent ranking in the analytics bundle
const popularIntentsLimit = 10

// Responder produces the travel agent's reply for one chat turn
type Responder interface {
	Respond(ctx context.Context, contextID string, history []adapter.Message, userInput string) (string, error)
}

// TravelAgent is the per-turn entry point behind the HTTP boundary. It
// tracks the conversation in the graph, keeps the in-memory transcript,
// and delegates reply generation to the configured responder.
type TravelAgent struct {
	tracker   *graph.Tracker
	analytics *graph.Analytics
	responder Responder
	history   *History
	recorder  *commlog.Recorder
	logger    *zap.Logger
}

// NewTravelAgent creates the facade with its collaborators injected.
func NewTravelAgent(tracker *graph.Tracker, analytics *graph.Analytics, responder Responder, recorder *commlog.Recorder, historyLimit int) *TravelAgent {
	return &TravelAgent{
		tracker:   tracker,
		analytics: analytics,
		responder: responder,
		history:   NewHistory(historyLimit),
		recorder:  recorder,
		logger:    logger.Get(),
	}
}

// Chat runs one tracked turn and always returns text to show the user.
// Tracking failures are downgraded to warnings so an unavailable graph
// store never blocks the reply; a responder failure becomes an apology.
func (a *TravelAgent) Chat(ctx context.Context, userInput, contextID, sessionID, userName string) string {
	start := time.Now()

	if _, err := a.tracker.EnsureConversation(ctx, sessionID, contextID, userName,
		DetectIntent(userInput), utils.DetectLanguage(userInput)); err != nil {
		a.logger.Warn("Failed to ensure conversation tracking",
			zap.String("context_id", contextID),
			zap.Error(err))
	}

	if _, err := a.tracker.LogUserMessage(ctx, contextID, userInput, sessionID); err != nil {
		a.logger.Warn("Failed to log user message",
			zap.String("context_id", contextID),
			zap.Error(err))
	}

	reply, err := a.responder.Respond(ctx, contextID, a.history.Turns(contextID), userInput)
	if err != nil {
		a.logger.Error("Chat turn failed",
			zap.String("context_id", contextID),
			zap.Error(err))
		reply = fmt.Sprintf("I apologize, but I encountered an error while processing your request: %v", err)

		if _, logErr := a.tracker.LogUserMessage(ctx, contextID, reply, "system"); logErr != nil {
			a.logger.Warn("Failed to log error response", zap.Error(logErr))
		}

		a.recorder.Record(commlog.Entry{
			Type:           commlog.TypeUserInteraction,
			ContextID:      contextID,
			FromAgent:      "user",
			ToAgent:        constants.TravelAgentName,
			Request:        userInput,
			Response:       reply,
			Status:         commlog.StatusException,
			Error:          err.Error(),
			ResponseTimeMs: float64(time.Since(start).Milliseconds()),
		})
		return reply
	}

	a.history.Append(contextID,
		adapter.Message{Role: adapter.RoleUser, Content: userInput},
		adapter.Message{Role: adapter.RoleAssistant, Content: reply},
	)

	a.recorder.Record(commlog.Entry{
		Type:           commlog.TypeUserInteraction,
		ContextID:      contextID,
		FromAgent:      "user",
		ToAgent:        constants.TravelAgentName,
		Request:        userInput,
		Response:       reply,
		Status:         commlog.StatusSuccess,
		ResponseTimeMs: float64(time.Since(start).Milliseconds()),
	})

	a.logger.Info("Chat turn completed",
		zap.String("context_id", contextID),
		zap.Duration("took", time.Since(start)))
	return reply
}

// EndConversation closes graph tracking for a context. It reports false
// when no conversation was active.
func (a *TravelAgent) EndConversation(ctx context.Context, contextID string, success bool, satisfaction int) (bool, error) {
	return a.tracker.EndConversation(ctx, contextID, success, satisfaction)
}

// GetConversationAnalytics returns the per-conversation view for a context.
func (a *TravelAgent) GetConversationAnalytics(ctx context.Context, contextID string) (*graph.ConversationAnalytics, error) {
	return a.analytics.ConversationAnalytics(ctx, contextID)
}

// GetAgentPerformance returns metrics for every known agent.
func (a *TravelAgent) GetAgentPerformance(ctx context.Context) ([]graph.AgentPerformance, error) {
	return a.analytics.AgentPerformance(ctx)
}

// GetPopularIntents ranks conversation intents by frequency.
func (a *TravelAgent) GetPopularIntents(ctx context.Context, limit int) ([]graph.IntentFrequency, error) {
	return a.analytics.PopularIntents(ctx, limit)
}

// AnalyticsSummary aggregates the graph views served by the analytics
// endpoint. Conversation is set when a context id was requested, Overall
// otherwise.
type AnalyticsSummary struct {
	Conversation *graph.ConversationAnalytics
	Overall      *graph.OverallAnalytics
	Agents       []graph.AgentPerformance
	Intents      []graph.IntentFrequency
}

// AnalyticsBundle gathers the analytics views concurrently. An empty
// contextID selects the overall view.
func (a *TravelAgent) AnalyticsBundle(ctx context.Context, contextID string) (*AnalyticsSummary, error) {
	summary := &AnalyticsSummary{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if contextID != "" {
			summary.Conversation, err = a.analytics.ConversationAnalytics(ctx, contextID)
		} else {
			summary.Overall, err = a.analytics.OverallAnalytics(ctx)
		}
		return err
	})

	g.Go(func() error {
		var err error
		summary.Agents, err = a.analytics.AgentPerformance(ctx)
		return err
	})

	g.Go(func() error {
		var err error
		summary.Intents, err = a.analytics.PopularIntents(ctx, popularIntentsLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}
