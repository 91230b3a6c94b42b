package graph

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ============================================================================
// Helper Functions
// ============================================================================

func getStringFromMap(m map[string]interface{}, key, defaultValue string) string {
	val, ok := m[key]
	if !ok || val == nil {
		return defaultValue
	}
	if str, ok := val.(string); ok {
		return str
	}
	return defaultValue
}

func getInt64FromMap(m map[string]interface{}, key string, defaultValue int64) int64 {
	val, ok := m[key]
	if !ok || val == nil {
		return defaultValue
	}
	if i, ok := val.(int64); ok {
		return i
	}
	if i, ok := val.(int); ok {
		return int64(i)
	}
	return defaultValue
}

func getFloat64FromMap(m map[string]interface{}, key string, defaultValue float64) float64 {
	val, ok := m[key]
	if !ok || val == nil {
		return defaultValue
	}
	if f, ok := val.(float64); ok {
		return f
	}
	if i, ok := val.(int64); ok {
		return float64(i)
	}
	return defaultValue
}

func getBoolFromMap(m map[string]interface{}, key string, defaultValue bool) bool {
	val, ok := m[key]
	if !ok || val == nil {
		return defaultValue
	}
	if b, ok := val.(bool); ok {
		return b
	}
	return defaultValue
}

func getTimeFromMap(m map[string]interface{}, key string) time.Time {
	val, ok := m[key]
	if !ok || val == nil {
		return time.Time{}
	}
	if t, ok := val.(time.Time); ok {
		return t
	}
	return time.Time{}
}

func getStringSliceFromMap(m map[string]interface{}, key string) []string {
	val, ok := m[key]
	if !ok || val == nil {
		return nil
	}
	if slice, ok := val.([]interface{}); ok {
		result := make([]string, 0, len(slice))
		for _, v := range slice {
			if str, ok := v.(string); ok {
				result = append(result, str)
			}
		}
		return result
	}
	return nil
}

// nullableString passes empty strings to Cypher as null
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// nullableInt passes zero to Cypher as null
func nullableInt(i int) interface{} {
	if i == 0 {
		return nil
	}
	return i
}

// nullableFloat passes zero to Cypher as null
func nullableFloat(f float64) interface{} {
	if f == 0 {
		return nil
	}
	return f
}

// nodeProps extracts the property map of a node returned under the given
// record key
func nodeProps(record map[string]interface{}, key string) (map[string]interface{}, bool) {
	val, ok := record[key]
	if !ok || val == nil {
		return nil, false
	}
	if node, ok := val.(neo4j.Node); ok {
		return node.Props, true
	}
	return nil, false
}

// ============================================================================
// Entity Hydration
// ============================================================================

func userFromProps(props map[string]interface{}) *User {
	return &User{
		ID:                 getStringFromMap(props, "id", ""),
		SessionID:          getStringFromMap(props, "session_id", ""),
		UserType:           getStringFromMap(props, "user_type", "human"),
		Name:               getStringFromMap(props, "name", ""),
		CreatedAt:          getTimeFromMap(props, "created_at"),
		UpdatedAt:          getTimeFromMap(props, "updated_at"),
		TotalConversations: getInt64FromMap(props, "total_conversations", 0),
		TotalMessages:      getInt64FromMap(props, "total_messages", 0),
		LastActive:         getTimeFromMap(props, "last_active"),
	}
}

func agentFromProps(props map[string]interface{}) *Agent {
	return &Agent{
		ID:                  getStringFromMap(props, "id", ""),
		Name:                getStringFromMap(props, "name", ""),
		AgentType:           getStringFromMap(props, "agent_type", ""),
		Endpoint:            getStringFromMap(props, "endpoint", ""),
		Description:         getStringFromMap(props, "description", ""),
		Version:             getStringFromMap(props, "version", ""),
		Skills:              getStringSliceFromMap(props, "skills"),
		CreatedAt:           getTimeFromMap(props, "created_at"),
		UpdatedAt:           getTimeFromMap(props, "updated_at"),
		TotalRequests:       getInt64FromMap(props, "total_requests", 0),
		TotalResponses:      getInt64FromMap(props, "total_responses", 0),
		SuccessRate:         getFloat64FromMap(props, "success_rate", 0),
		AverageResponseTime: getFloat64FromMap(props, "average_response_time", 0),
		IsActive:            getBoolFromMap(props, "is_active", false),
		LastHealthCheck:     getTimeFromMap(props, "last_health_check"),
	}
}

func conversationFromProps(props map[string]interface{}) *Conversation {
	conv := &Conversation{
		ID:              getStringFromMap(props, "id", ""),
		ContextID:       getStringFromMap(props, "context_id", ""),
		Status:          getStringFromMap(props, "status", ConversationStatusActive),
		Topic:           getStringFromMap(props, "topic", ""),
		Intent:          getStringFromMap(props, "intent", ""),
		Language:        getStringFromMap(props, "language", "en"),
		MessageCount:    getInt64FromMap(props, "message_count", 0),
		AgentCount:      getInt64FromMap(props, "agent_count", 0),
		DurationSeconds: getFloat64FromMap(props, "duration_seconds", 0),
		StartedAt:       getTimeFromMap(props, "started_at"),
	}
	if v, ok := props["ended_at"].(time.Time); ok {
		conv.EndedAt = &v
	}
	if v, ok := props["was_successful"].(bool); ok {
		conv.WasSuccessful = &v
	}
	if v, ok := props["user_satisfaction"].(int64); ok {
		score := int(v)
		conv.UserSatisfaction = &score
	}
	return conv
}

func messageFromProps(props map[string]interface{}) *Message {
	return &Message{
		ID:             getStringFromMap(props, "id", ""),
		ConversationID: getStringFromMap(props, "conversation_id", ""),
		Content:        getStringFromMap(props, "content", ""),
		Role:           getStringFromMap(props, "role", ""),
		MessageType:    getStringFromMap(props, "message_type", MessageTypeText),
		A2ARequestID:   getStringFromMap(props, "a2a_request_id", ""),
		A2AResponseID:  getStringFromMap(props, "a2a_response_id", ""),
		Timestamp:      getTimeFromMap(props, "timestamp"),
		ResponseTimeMs: getFloat64FromMap(props, "response_time_ms", 0),
		TokensUsed:     getInt64FromMap(props, "tokens_used", 0),
		ProcessingCost: getFloat64FromMap(props, "processing_cost", 0),
		Status:         getStringFromMap(props, "status", "sent"),
		ErrorMessage:   getStringFromMap(props, "error_message", ""),
	}
}
