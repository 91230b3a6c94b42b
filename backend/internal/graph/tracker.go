package graph

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"travel-graph/backend/internal/constants"
	apperrors "travel-graph/backend/pkg/errors"
	"travel-graph/backend/pkg/logger"
)

// Tracker records agent conversations in the graph as they happen. It keeps
// a rebuildable cache of active conversations keyed by context id; the graph
// remains the source of truth.
type Tracker struct {
	store  *Store
	logger *zap.Logger

	mu     sync.RWMutex
	active map[string]*Conversation
}

// NewTracker creates a conversation tracker backed by the given store
func NewTracker(store *Store) *Tracker {
	return &Tracker{
		store:  store,
		logger: logger.Get(),
		active: make(map[string]*Conversation),
	}
}

// StartConversation begins tracking a new conversation for the context id.
// Calling it twice for the same context creates two distinct conversation
// nodes; only the second owns the cache entry.
func (t *Tracker) StartConversation(ctx context.Context, sessionID, contextID, userName, intent, language string) (*Conversation, error) {
	user, err := t.GetOrCreateUser(ctx, sessionID, userName)
	if err != nil {
		return nil, err
	}

	if language == "" {
		language = constants.LanguageCodeEnglish
	}

	conv := &Conversation{
		ID:        uuid.New().String(),
		ContextID: contextID,
		Status:    ConversationStatusActive,
		Intent:    intent,
		Language:  language,
		StartedAt: time.Now().UTC(),
	}

	query := `
		CREATE (c:Conversation {
			id: $id,
			context_id: $context_id,
			status: $status,
			topic: $topic,
			intent: $intent,
			language: $language,
			message_count: 0,
			agent_count: 0,
			started_at: datetime(),
			was_successful: null
		})
		WITH c
		MATCH (u:User {id: $user_id})
		CREATE (u)-[:STARTS_CONVERSATION {timestamp: datetime()}]->(c)
		RETURN c`

	params := map[string]interface{}{
		"id":         conv.ID,
		"context_id": contextID,
		"status":     conv.Status,
		"topic":      nullableString(conv.Topic),
		"intent":     nullableString(intent),
		"language":   conv.Language,
		"user_id":    user.ID,
	}

	if _, err := t.store.RunWrite(ctx, query, params); err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.active[contextID] = conv
	t.mu.Unlock()

	t.logger.Info("Started conversation tracking",
		zap.String("conversation_id", conv.ID),
		zap.String("context_id", contextID),
		zap.String("intent", intent))
	return conv, nil
}

// LogUserMessage records a user utterance, linking it to its conversation
// and to the sending user, then recomputes the conversation counters.
func (t *Tracker) LogUserMessage(ctx context.Context, contextID, content, sessionID string) (*Message, error) {
	conv, err := t.EnsureConversation(ctx, sessionID, contextID, "", "", "")
	if err != nil {
		return nil, err
	}

	user, err := t.GetOrCreateUser(ctx, sessionID, "")
	if err != nil {
		return nil, err
	}

	msg := &Message{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		Content:        content,
		Role:           RoleUser,
		MessageType:    MessageTypeText,
		Timestamp:      time.Now().UTC(),
		Status:         "sent",
	}

	query := `
		CREATE (m:Message {
			id: $id,
			conversation_id: $conversation_id,
			content: $content,
			role: $role,
			message_type: $message_type,
			timestamp: datetime(),
			status: 'sent'
		})
		WITH m
		MATCH (c:Conversation {id: $conversation_id}), (sender {id: $sender_id})
		CREATE (c)-[:CONTAINS_MESSAGE]->(m),
		       (sender)-[:SENDS_MESSAGE]->(m)
		RETURN m`

	params := map[string]interface{}{
		"id":              msg.ID,
		"conversation_id": conv.ID,
		"content":         content,
		"role":            msg.Role,
		"message_type":    msg.MessageType,
		"sender_id":       user.ID,
	}

	if _, err := t.store.RunWrite(ctx, query, params); err != nil {
		return nil, err
	}
	if err := t.updateConversationStats(ctx, conv.ID); err != nil {
		return nil, err
	}

	t.logger.Debug("User message logged",
		zap.String("message_id", msg.ID),
		zap.String("conversation_id", conv.ID))
	return msg, nil
}

// LogAgentRequest records an inter-agent request within an existing
// conversation. When no active conversation matches the context id it
// returns ErrConversationNotFound; storage failures surface as graph errors.
func (t *Tracker) LogAgentRequest(ctx context.Context, contextID, fromAgent, toAgent, content, requestID string) (*Message, error) {
	conv, err := t.conversationForContext(ctx, contextID)
	if err != nil {
		return nil, err
	}

	// Agents may not have announced themselves yet
	if _, err := t.GetOrCreateAgent(ctx, fromAgent, "unknown", "http://unknown"); err != nil {
		return nil, err
	}
	if _, err := t.GetOrCreateAgent(ctx, toAgent, "unknown", "http://unknown"); err != nil {
		return nil, err
	}

	msg := &Message{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		Content:        content,
		Role:           RoleAgent,
		MessageType:    MessageTypeA2ARequest,
		A2ARequestID:   requestID,
		Timestamp:      time.Now().UTC(),
		Status:         "sent",
	}

	if err := t.createAgentMessage(ctx, msg, conv.ID, fromAgent, toAgent); err != nil {
		return nil, err
	}
	if err := t.updateConversationStats(ctx, conv.ID); err != nil {
		return nil, err
	}

	t.logger.Info("Agent request logged",
		zap.String("from", fromAgent),
		zap.String("to", toAgent),
		zap.String("request_id", requestID))
	return msg, nil
}

// LogAgentResponse records an inter-agent response, optionally linking it
// back to the request message, and folds the observed outcome into the
// responding agent's metrics.
func (t *Tracker) LogAgentResponse(ctx context.Context, contextID, fromAgent, toAgent, content, responseID, requestMessageID string, responseTimeMs float64, success bool) (*Message, error) {
	conv, err := t.conversationForContext(ctx, contextID)
	if err != nil {
		return nil, err
	}

	msg := &Message{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		Content:        content,
		Role:           RoleAgent,
		MessageType:    MessageTypeA2AResponse,
		A2AResponseID:  responseID,
		ResponseTimeMs: responseTimeMs,
		Timestamp:      time.Now().UTC(),
		Status:         "sent",
	}

	if err := t.createAgentMessage(ctx, msg, conv.ID, fromAgent, toAgent); err != nil {
		return nil, err
	}
	if requestMessageID != "" {
		if err := t.linkRequestResponse(ctx, requestMessageID, msg.ID); err != nil {
			return nil, err
		}
	}
	if err := t.updateAgentMetrics(ctx, fromAgent, responseTimeMs, success); err != nil {
		return nil, err
	}
	if err := t.updateConversationStats(ctx, conv.ID); err != nil {
		return nil, err
	}

	t.logger.Info("Agent response logged",
		zap.String("from", fromAgent),
		zap.String("to", toAgent),
		zap.Float64("response_time_ms", responseTimeMs),
		zap.Bool("success", success))
	return msg, nil
}

// EndConversation marks the active conversation for the context id as
// completed. It returns false with no error when no conversation is active;
// a storage-only conversation cannot be ended. Satisfaction 0 is stored as
// null.
func (t *Tracker) EndConversation(ctx context.Context, contextID string, success bool, satisfaction int) (bool, error) {
	t.mu.RLock()
	conv, ok := t.active[contextID]
	t.mu.RUnlock()
	if !ok {
		t.logger.Warn("No active conversation found for context",
			zap.String("context_id", contextID))
		return false, nil
	}

	duration := time.Since(conv.StartedAt).Seconds()

	query := `
		MATCH (c:Conversation {id: $conversation_id})
		SET c.ended_at = datetime(),
		    c.status = 'completed',
		    c.duration_seconds = $duration,
		    c.was_successful = $success,
		    c.user_satisfaction = $satisfaction
		RETURN c`

	params := map[string]interface{}{
		"conversation_id": conv.ID,
		"duration":        duration,
		"success":         success,
		"satisfaction":    nullableInt(satisfaction),
	}

	if _, err := t.store.RunWrite(ctx, query, params); err != nil {
		return false, err
	}

	t.mu.Lock()
	delete(t.active, contextID)
	t.mu.Unlock()

	t.logger.Info("Conversation ended",
		zap.String("conversation_id", conv.ID),
		zap.Bool("success", success))
	return true, nil
}

// ActiveConversation returns the cached active conversation for a context id
func (t *Tracker) ActiveConversation(contextID string) (*Conversation, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	conv, ok := t.active[contextID]
	return conv, ok
}

// ============================================================================
// Lookup and Creation Helpers
// ============================================================================

// GetOrCreateUser returns the user for the session id, creating the node on
// first sight. Session ids match case-sensitively.
func (t *Tracker) GetOrCreateUser(ctx context.Context, sessionID, name string) (*User, error) {
	records, err := t.store.RunRead(ctx,
		"MATCH (u:User {session_id: $session_id}) RETURN u",
		map[string]interface{}{"session_id": sessionID})
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		if props, ok := nodeProps(records[0], "u"); ok {
			return userFromProps(props), nil
		}
	}

	user := &User{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		UserType:  "human",
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	query := `
		CREATE (u:User {
			id: $id,
			session_id: $session_id,
			user_type: $user_type,
			name: $name,
			created_at: datetime(),
			total_conversations: 0,
			total_messages: 0
		})
		RETURN u`

	params := map[string]interface{}{
		"id":         user.ID,
		"session_id": sessionID,
		"user_type":  user.UserType,
		"name":       nullableString(name),
	}

	if _, err := t.store.RunWrite(ctx, query, params); err != nil {
		return nil, err
	}
	t.logger.Info("Created new user", zap.String("session_id", sessionID))
	return user, nil
}

// GetOrCreateAgent returns the agent with the given name, creating it with
// zeroed metrics on first sight
func (t *Tracker) GetOrCreateAgent(ctx context.Context, name, agentType, endpoint string) (*Agent, error) {
	records, err := t.store.RunRead(ctx,
		"MATCH (a:Agent {name: $agent_name}) RETURN a",
		map[string]interface{}{"agent_name": name})
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		if props, ok := nodeProps(records[0], "a"); ok {
			return agentFromProps(props), nil
		}
	}

	agent := &Agent{
		ID:        uuid.New().String(),
		Name:      name,
		AgentType: agentType,
		Endpoint:  endpoint,
		Version:   "1.0.0",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	query := `
		CREATE (a:Agent {
			id: $id,
			name: $name,
			agent_type: $agent_type,
			endpoint: $endpoint,
			description: $description,
			version: $version,
			created_at: datetime(),
			total_requests: 0,
			total_responses: 0,
			success_rate: 0.0,
			average_response_time: 0.0,
			is_active: true
		})
		RETURN a`

	params := map[string]interface{}{
		"id":          agent.ID,
		"name":        name,
		"agent_type":  agentType,
		"endpoint":    endpoint,
		"description": nullableString(agent.Description),
		"version":     agent.Version,
	}

	if _, err := t.store.RunWrite(ctx, query, params); err != nil {
		return nil, err
	}
	t.logger.Info("Created new agent", zap.String("name", name))
	return agent, nil
}

// EnsureConversation resolves the conversation for a context id: cache
// first, then an active conversation in the store, else a fresh start with
// the given user name, intent, and language. An already tracked conversation
// keeps its original intent and language.
func (t *Tracker) EnsureConversation(ctx context.Context, sessionID, contextID, userName, intent, language string) (*Conversation, error) {
	t.mu.RLock()
	conv, ok := t.active[contextID]
	t.mu.RUnlock()
	if ok {
		return conv, nil
	}

	existing, err := t.findActiveConversation(ctx, contextID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		t.mu.Lock()
		t.active[contextID] = existing
		t.mu.Unlock()
		return existing, nil
	}

	return t.StartConversation(ctx, sessionID, contextID, userName, intent, language)
}

// conversationForContext resolves an existing conversation for the agent
// log paths. Unlike EnsureConversation it never starts a new one.
func (t *Tracker) conversationForContext(ctx context.Context, contextID string) (*Conversation, error) {
	t.mu.RLock()
	conv, ok := t.active[contextID]
	t.mu.RUnlock()
	if ok {
		return conv, nil
	}

	existing, err := t.findActiveConversation(ctx, contextID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.NewConversationNotFound(contextID)
	}
	return existing, nil
}

func (t *Tracker) findActiveConversation(ctx context.Context, contextID string) (*Conversation, error) {
	records, err := t.store.RunRead(ctx,
		"MATCH (c:Conversation {context_id: $context_id, status: 'active'}) RETURN c",
		map[string]interface{}{"context_id": contextID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	props, ok := nodeProps(records[0], "c")
	if !ok {
		return nil, nil
	}
	return conversationFromProps(props), nil
}

// ============================================================================
// Write Helpers
// ============================================================================

func (t *Tracker) createAgentMessage(ctx context.Context, msg *Message, conversationID, fromAgent, toAgent string) error {
	query := `
		CREATE (m:Message {
			id: $id,
			conversation_id: $conversation_id,
			content: $content,
			role: $role,
			message_type: $message_type,
			a2a_request_id: $a2a_request_id,
			a2a_response_id: $a2a_response_id,
			response_time_ms: $response_time_ms,
			timestamp: datetime(),
			status: 'sent'
		})
		WITH m
		MATCH (c:Conversation {id: $conversation_id}),
		      (from_a:Agent {name: $from_agent}),
		      (to_a:Agent {name: $to_agent})
		CREATE (c)-[:CONTAINS_MESSAGE]->(m),
		       (from_a)-[:SENDS_MESSAGE]->(m),
		       (from_a)-[:DELEGATES_TO {timestamp: datetime(), message_id: $id}]->(to_a)
		MERGE (c)-[:INVOLVES_AGENT]->(from_a)
		MERGE (c)-[:INVOLVES_AGENT]->(to_a)
		RETURN m`

	params := map[string]interface{}{
		"id":               msg.ID,
		"conversation_id":  conversationID,
		"content":          msg.Content,
		"role":             msg.Role,
		"message_type":     msg.MessageType,
		"a2a_request_id":   nullableString(msg.A2ARequestID),
		"a2a_response_id":  nullableString(msg.A2AResponseID),
		"response_time_ms": nullableFloat(msg.ResponseTimeMs),
		"from_agent":       fromAgent,
		"to_agent":         toAgent,
	}

	_, err := t.store.RunWrite(ctx, query, params)
	return err
}

// updateConversationStats recomputes the message and distinct-agent counts
// from the relationships themselves, so a missed update heals on the next
// write
func (t *Tracker) updateConversationStats(ctx context.Context, conversationID string) error {
	query := `
		MATCH (c:Conversation {id: $conversation_id})
		OPTIONAL MATCH (c)-[:CONTAINS_MESSAGE]->(m:Message)
		WITH c, count(m) as msg_count
		OPTIONAL MATCH (c)-[:INVOLVES_AGENT]->(a:Agent)
		WITH c, msg_count, count(DISTINCT a) as agent_cnt
		SET c.message_count = msg_count,
		    c.agent_count = agent_cnt
		RETURN c`

	_, err := t.store.RunWrite(ctx, query, map[string]interface{}{
		"conversation_id": conversationID,
	})
	return err
}

// updateAgentMetrics folds one observed response into the agent's running
// averages. The query is assembled from fixed fragments; all values travel
// as parameters.
func (t *Tracker) updateAgentMetrics(ctx context.Context, agentName string, responseTimeMs float64, success bool) error {
	query := `
		MATCH (a:Agent {name: $agent_name})
		SET a.total_responses = a.total_responses + 1,
		    a.last_health_check = datetime()`
	params := map[string]interface{}{"agent_name": agentName}

	if responseTimeMs > 0 {
		query += `
		SET a.average_response_time =
		    (a.average_response_time * (a.total_responses - 1) + $response_time_ms) / a.total_responses`
		params["response_time_ms"] = responseTimeMs
	}
	if success {
		query += `
		SET a.success_rate =
		    (a.success_rate * (a.total_responses - 1) + 1.0) / a.total_responses`
	}
	query += " RETURN a"

	_, err := t.store.RunWrite(ctx, query, params)
	return err
}

func (t *Tracker) linkRequestResponse(ctx context.Context, requestMessageID, responseMessageID string) error {
	query := `
		MATCH (req:Message {id: $request_id}), (resp:Message {id: $response_id})
		CREATE (resp)-[:REPLIES_TO {timestamp: datetime()}]->(req)`

	_, err := t.store.RunWrite(ctx, query, map[string]interface{}{
		"request_id":  requestMessageID,
		"response_id": responseMessageID,
	})
	return err
}
