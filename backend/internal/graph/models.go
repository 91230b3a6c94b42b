package graph

import "time"

// ============================================================================
// Conversation Graph Entities
// ============================================================================

// Conversation statuses
const (
	ConversationStatusActive    = "active"
	ConversationStatusCompleted = "completed"
	ConversationStatusFailed    = "failed"
	ConversationStatusAbandoned = "abandoned"
)

// Message roles
const (
	RoleUser   = "user"
	RoleAgent  = "agent"
	RoleSystem = "system"
)

// Message types
const (
	MessageTypeText        = "text"
	MessageTypeA2ARequest  = "a2a_request"
	MessageTypeA2AResponse = "a2a_response"
)

// Relationship types used across the conversation graph
const (
	RelStartsConversation  = "STARTS_CONVERSATION"
	RelSendsMessage        = "SENDS_MESSAGE"
	RelHasIntent           = "HAS_INTENT"
	RelRespondsTo          = "RESPONDS_TO"
	RelDelegatesTo         = "DELEGATES_TO"
	RelCollaboratesWith    = "COLLABORATES_WITH"
	RelHasSkill            = "HAS_SKILL"
	RelHandlesIntent       = "HANDLES_INTENT"
	RelContainsMessage     = "CONTAINS_MESSAGE"
	RelInvolvesAgent       = "INVOLVES_AGENT"
	RelFollowsConversation = "FOLLOWS_CONVERSATION"
	RelRepliesTo           = "REPLIES_TO"
	RelTriggersAction      = "TRIGGERS_ACTION"
	RelHappensBefore       = "HAPPENS_BEFORE"
	RelHappensAfter        = "HAPPENS_AFTER"
)

// User represents a human participant identified by a web session
type User struct {
	ID                 string    `json:"id"`
	SessionID          string    `json:"session_id"`
	UserType           string    `json:"user_type"` // human
	Name               string    `json:"name,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at,omitempty"`
	TotalConversations int64     `json:"total_conversations"`
	TotalMessages      int64     `json:"total_messages"`
	LastActive         time.Time `json:"last_active,omitempty"`
}

// Agent represents an autonomous agent participating in conversations
type Agent struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	AgentType           string    `json:"agent_type"` // travel_agent, flight_agent
	Endpoint            string    `json:"endpoint,omitempty"`
	Description         string    `json:"description,omitempty"`
	Version             string    `json:"version,omitempty"`
	Skills              []string  `json:"skills,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at,omitempty"`
	TotalRequests       int64     `json:"total_requests"`
	TotalResponses      int64     `json:"total_responses"`
	SuccessRate         float64   `json:"success_rate"`
	AverageResponseTime float64   `json:"average_response_time"` // milliseconds
	IsActive            bool      `json:"is_active"`
	LastHealthCheck     time.Time `json:"last_health_check,omitempty"`
}

// Conversation represents a dialogue thread keyed by its A2A context id
type Conversation struct {
	ID               string     `json:"id"`
	ContextID        string     `json:"context_id"`
	Status           string     `json:"status"` // active, completed, failed, abandoned
	Topic            string     `json:"topic,omitempty"`
	Intent           string     `json:"intent,omitempty"`
	Language         string     `json:"language"`
	MessageCount     int64      `json:"message_count"`
	AgentCount       int64      `json:"agent_count"`
	DurationSeconds  float64    `json:"duration_seconds,omitempty"`
	StartedAt        time.Time  `json:"started_at"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
	WasSuccessful    *bool      `json:"was_successful,omitempty"`
	UserSatisfaction *int       `json:"user_satisfaction,omitempty"` // 1-5
}

// Message represents a single utterance inside a conversation
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Content        string    `json:"content"`
	Role           string    `json:"role"`         // user, agent, system
	MessageType    string    `json:"message_type"` // text, a2a_request, a2a_response
	A2ARequestID   string    `json:"a2a_request_id,omitempty"`
	A2AResponseID  string    `json:"a2a_response_id,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	ResponseTimeMs float64   `json:"response_time_ms,omitempty"`
	TokensUsed     int64     `json:"tokens_used,omitempty"`
	ProcessingCost float64   `json:"processing_cost,omitempty"`
	Status         string    `json:"status"` // sent
	ErrorMessage   string    `json:"error_message,omitempty"`
}

// Skill represents a capability an agent advertises
type Skill struct {
	ID          string    `json:"id"`
	SkillID     string    `json:"skill_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	UsageCount  int64     `json:"usage_count"`
	SuccessRate float64   `json:"success_rate"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// Intent represents a recognized user goal in the catalog
type Intent struct {
	ID             string    `json:"id"`
	IntentID       string    `json:"intent_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Category       string    `json:"category,omitempty"`
	CommonPatterns []string  `json:"common_patterns,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// Stats summarizes what is currently stored in the graph
type Stats struct {
	TotalNodes         int64    `json:"total_nodes"`
	TotalRelationships int64    `json:"total_relationships"`
	Labels             []string `json:"labels"`
	RelationshipTypes  []string `json:"relationship_types"`
}
