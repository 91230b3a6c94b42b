package graph

import (
	"context"
	"time"

	apperrors "travel-graph/backend/pkg/errors"
)

// ============================================================================
// Read-only Aggregations
// ============================================================================

// ConversationAnalytics summarizes a single conversation
type ConversationAnalytics struct {
	Conversation *Conversation `json:"conversation"`
	MessageCount int64         `json:"message_count"`
	Agents       []string      `json:"agents"`
}

// OverallAnalytics aggregates across every stored conversation
type OverallAnalytics struct {
	TotalConversations         int64   `json:"total_conversations"`
	TotalMessages              int64   `json:"total_messages"`
	AvgDuration                float64 `json:"avg_duration"`
	AvgMessagesPerConversation float64 `json:"avg_messages_per_conversation"`
}

// AgentPerformance reports one agent's service metrics
type AgentPerformance struct {
	AgentName         string    `json:"agent_name"`
	AgentType         string    `json:"agent_type"`
	TotalRequests     int64     `json:"total_requests"`
	TotalResponses    int64     `json:"total_responses"`
	SuccessRate       float64   `json:"success_rate"`
	AvgResponseTimeMs float64   `json:"avg_response_time_ms"`
	IsActive          bool      `json:"is_active"`
	LastCheck         time.Time `json:"last_check,omitempty"`
}

// IntentFrequency pairs an intent label with how often it was seen
type IntentFrequency struct {
	Intent    string `json:"intent"`
	Frequency int64  `json:"frequency"`
}

// Analytics answers aggregate questions about the conversation graph
type Analytics struct {
	store *Store
}

// NewAnalytics creates an analytics reader on the given store
func NewAnalytics(store *Store) *Analytics {
	return &Analytics{store: store}
}

// ConversationAnalytics returns the summary for one context id. A context
// with no stored conversation yields ErrConversationNotFound.
func (a *Analytics) ConversationAnalytics(ctx context.Context, contextID string) (*ConversationAnalytics, error) {
	query := `
		MATCH (c:Conversation {context_id: $context_id})
		OPTIONAL MATCH (c)-[:CONTAINS_MESSAGE]->(m:Message)
		OPTIONAL MATCH (c)-[:INVOLVES_AGENT]->(a:Agent)
		RETURN c, count(DISTINCT m) as message_count, collect(DISTINCT a.name) as agents`

	records, err := a.store.RunRead(ctx, query, map[string]interface{}{
		"context_id": contextID,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperrors.NewConversationNotFound(contextID)
	}

	record := records[0]
	result := &ConversationAnalytics{
		MessageCount: getInt64FromMap(record, "message_count", 0),
		Agents:       getStringSliceFromMap(record, "agents"),
	}
	if props, ok := nodeProps(record, "c"); ok {
		result.Conversation = conversationFromProps(props)
	}
	return result, nil
}

// OverallAnalytics returns totals and averages across all conversations
func (a *Analytics) OverallAnalytics(ctx context.Context) (*OverallAnalytics, error) {
	query := `
		MATCH (c:Conversation)
		OPTIONAL MATCH (c)-[:CONTAINS_MESSAGE]->(m:Message)
		RETURN count(DISTINCT c) as total_conversations,
		       count(m) as total_messages,
		       avg(c.duration_seconds) as avg_duration,
		       avg(c.message_count) as avg_messages_per_conversation`

	records, err := a.store.RunRead(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	result := &OverallAnalytics{}
	if len(records) > 0 {
		record := records[0]
		result.TotalConversations = getInt64FromMap(record, "total_conversations", 0)
		result.TotalMessages = getInt64FromMap(record, "total_messages", 0)
		result.AvgDuration = getFloat64FromMap(record, "avg_duration", 0)
		result.AvgMessagesPerConversation = getFloat64FromMap(record, "avg_messages_per_conversation", 0)
	}
	return result, nil
}

// AgentPerformance returns per-agent metrics, busiest agents first
func (a *Analytics) AgentPerformance(ctx context.Context) ([]AgentPerformance, error) {
	query := `
		MATCH (a:Agent)
		RETURN a.name as agent_name,
		       a.agent_type as agent_type,
		       a.total_requests as total_requests,
		       a.total_responses as total_responses,
		       a.success_rate as success_rate,
		       a.average_response_time as avg_response_time_ms,
		       a.is_active as is_active,
		       a.last_health_check as last_check
		ORDER BY a.total_requests DESC`

	records, err := a.store.RunRead(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	performance := make([]AgentPerformance, 0, len(records))
	for _, record := range records {
		performance = append(performance, AgentPerformance{
			AgentName:         getStringFromMap(record, "agent_name", ""),
			AgentType:         getStringFromMap(record, "agent_type", ""),
			TotalRequests:     getInt64FromMap(record, "total_requests", 0),
			TotalResponses:    getInt64FromMap(record, "total_responses", 0),
			SuccessRate:       getFloat64FromMap(record, "success_rate", 0),
			AvgResponseTimeMs: getFloat64FromMap(record, "avg_response_time_ms", 0),
			IsActive:          getBoolFromMap(record, "is_active", false),
			LastCheck:         getTimeFromMap(record, "last_check"),
		})
	}
	return performance, nil
}

// PopularIntents returns the most frequent conversation intents
func (a *Analytics) PopularIntents(ctx context.Context, limit int) ([]IntentFrequency, error) {
	query := `
		MATCH (c:Conversation)
		WHERE c.intent IS NOT NULL
		RETURN c.intent as intent, count(*) as frequency
		ORDER BY frequency DESC
		LIMIT $limit`

	records, err := a.store.RunRead(ctx, query, map[string]interface{}{
		"limit": limit,
	})
	if err != nil {
		return nil, err
	}

	intents := make([]IntentFrequency, 0, len(records))
	for _, record := range records {
		intents = append(intents, IntentFrequency{
			Intent:    getStringFromMap(record, "intent", ""),
			Frequency: getInt64FromMap(record, "frequency", 0),
		})
	}
	return intents, nil
}
