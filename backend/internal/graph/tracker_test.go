package graph

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "travel-graph/backend/pkg/errors"
)

func cleanupContext(ctx context.Context, store *Store, contextID, sessionID string) {
	_, _ = store.RunWrite(ctx, `
		MATCH (c:Conversation {context_id: $context_id})
		OPTIONAL MATCH (c)-[:CONTAINS_MESSAGE]->(m:Message)
		DETACH DELETE c, m`,
		map[string]interface{}{"context_id": contextID})
	_, _ = store.RunWrite(ctx,
		"MATCH (u:User {session_id: $session_id}) DETACH DELETE u",
		map[string]interface{}{"session_id": sessionID})
}

func cleanupAgent(ctx context.Context, store *Store, name string) {
	_, _ = store.RunWrite(ctx,
		"MATCH (a:Agent {name: $name}) DETACH DELETE a",
		map[string]interface{}{"name": name})
}

func TestTracker_GetOrCreateUser_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	store, err := createTestStore()
	if err != nil {
		t.Fatalf("Failed to connect to Neo4j: %v", err)
	}
	defer store.Close(ctx)

	tracker := NewTracker(store)
	sessionID := "user-test-" + time.Now().Format("20060102150405")

	defer func() {
		_, _ = store.RunWrite(ctx,
			"MATCH (u:User {session_id: $session_id}) DETACH DELETE u",
			map[string]interface{}{"session_id": sessionID})
	}()

	first, err := tracker.GetOrCreateUser(ctx, sessionID, "Alice")
	if err != nil {
		t.Fatalf("GetOrCreateUser failed: %v", err)
	}
	second, err := tracker.GetOrCreateUser(ctx, sessionID, "Bob")
	if err != nil {
		t.Fatalf("Second GetOrCreateUser failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("Expected same user for session, got %s and %s", first.ID, second.ID)
	}
	if second.Name != "Alice" {
		t.Errorf("Expected original name to stick, got '%s'", second.Name)
	}
}

func TestTracker_MessageCount(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	store, err := createTestStore()
	if err != nil {
		t.Fatalf("Failed to connect to Neo4j: %v", err)
	}
	defer store.Close(ctx)

	tracker := NewTracker(store)
	stamp := time.Now().Format("20060102150405")
	contextID := "count-ctx-" + stamp
	sessionID := "count-session-" + stamp
	travelAgent := "CountTravelAgent-" + stamp
	flightAgent := "CountFlightAgent-" + stamp

	defer func() {
		cleanupContext(ctx, store, contextID, sessionID)
		cleanupAgent(ctx, store, travelAgent)
		cleanupAgent(ctx, store, flightAgent)
	}()

	if _, err := tracker.StartConversation(ctx, sessionID, contextID, "Tester", "flight_booking", ""); err != nil {
		t.Fatalf("StartConversation failed: %v", err)
	}

	if _, err := tracker.LogUserMessage(ctx, contextID, "I want to fly to Tokyo", sessionID); err != nil {
		t.Fatalf("LogUserMessage failed: %v", err)
	}
	if _, err := tracker.LogUserMessage(ctx, contextID, "Next Friday, one way", sessionID); err != nil {
		t.Fatalf("Second LogUserMessage failed: %v", err)
	}

	req, err := tracker.LogAgentRequest(ctx, contextID, travelAgent, flightAgent, "find flights to Tokyo", "req-1")
	if err != nil {
		t.Fatalf("LogAgentRequest failed: %v", err)
	}
	if _, err := tracker.LogAgentResponse(ctx, contextID, flightAgent, travelAgent, "found 3 options", "resp-1", req.ID, 120, true); err != nil {
		t.Fatalf("LogAgentResponse failed: %v", err)
	}

	records, err := store.RunRead(ctx,
		"MATCH (c:Conversation {context_id: $context_id}) RETURN c.message_count as message_count",
		map[string]interface{}{"context_id": contextID})
	if err != nil {
		t.Fatalf("Failed to read conversation: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 conversation, got %d", len(records))
	}
	if got := getInt64FromMap(records[0], "message_count", 0); got != 4 {
		t.Errorf("Expected message_count 4 after 4 logged messages, got %d", got)
	}
}

func TestTracker_EndConversationLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	store, err := createTestStore()
	if err != nil {
		t.Fatalf("Failed to connect to Neo4j: %v", err)
	}
	defer store.Close(ctx)

	tracker := NewTracker(store)
	stamp := time.Now().Format("20060102150405")
	contextID := "end-ctx-" + stamp
	sessionID := "end-session-" + stamp

	defer cleanupContext(ctx, store, contextID, sessionID)

	first, err := tracker.StartConversation(ctx, sessionID, contextID, "Tester", "trip_planning", "")
	if err != nil {
		t.Fatalf("StartConversation failed: %v", err)
	}
	if _, err := tracker.LogUserMessage(ctx, contextID, "plan me a trip", sessionID); err != nil {
		t.Fatalf("LogUserMessage failed: %v", err)
	}

	ended, err := tracker.EndConversation(ctx, contextID, true, 5)
	if err != nil {
		t.Fatalf("EndConversation failed: %v", err)
	}
	if !ended {
		t.Fatal("Expected EndConversation to report true for an active conversation")
	}
	if _, active := tracker.ActiveConversation(contextID); active {
		t.Error("Expected conversation to leave the active cache after ending")
	}

	records, err := store.RunRead(ctx,
		"MATCH (c:Conversation {id: $id}) RETURN c.status as status, c.was_successful as was_successful, c.user_satisfaction as user_satisfaction",
		map[string]interface{}{"id": first.ID})
	if err != nil {
		t.Fatalf("Failed to read ended conversation: %v", err)
	}
	if got := getStringFromMap(records[0], "status", ""); got != ConversationStatusCompleted {
		t.Errorf("Expected status 'completed', got '%s'", got)
	}
	if !getBoolFromMap(records[0], "was_successful", false) {
		t.Error("Expected was_successful true")
	}
	if got := getInt64FromMap(records[0], "user_satisfaction", 0); got != 5 {
		t.Errorf("Expected user_satisfaction 5, got %d", got)
	}

	// Logging after the end starts a fresh conversation for the context
	if _, err := tracker.LogUserMessage(ctx, contextID, "one more thing", sessionID); err != nil {
		t.Fatalf("LogUserMessage after end failed: %v", err)
	}
	second, active := tracker.ActiveConversation(contextID)
	if !active {
		t.Fatal("Expected a new active conversation after logging past the end")
	}
	if second.ID == first.ID {
		t.Error("Expected a distinct conversation node after the previous one ended")
	}
}

func TestTracker_EndConversation_UnknownContext(t *testing.T) {
	ctx := context.Background()
	tracker := NewTracker(NewStore("bolt://localhost:7687", "neo4j", "password", "neo4j"))

	ended, err := tracker.EndConversation(ctx, "never-started", true, 0)
	if err != nil {
		t.Fatalf("EndConversation returned error for unknown context: %v", err)
	}
	if ended {
		t.Error("Expected false for a context that was never started")
	}
}

func TestTracker_AgentMetrics(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	store, err := createTestStore()
	if err != nil {
		t.Fatalf("Failed to connect to Neo4j: %v", err)
	}
	defer store.Close(ctx)

	tracker := NewTracker(store)
	stamp := time.Now().Format("20060102150405")
	contextID := "metrics-ctx-" + stamp
	sessionID := "metrics-session-" + stamp
	travelAgent := "MetricsTravelAgent-" + stamp
	flightAgent := "MetricsFlightAgent-" + stamp

	defer func() {
		cleanupContext(ctx, store, contextID, sessionID)
		cleanupAgent(ctx, store, travelAgent)
		cleanupAgent(ctx, store, flightAgent)
	}()

	if _, err := tracker.StartConversation(ctx, sessionID, contextID, "Tester", "flight_booking", ""); err != nil {
		t.Fatalf("StartConversation failed: %v", err)
	}

	for i, responseTime := range []float64{100, 200, 300} {
		req, err := tracker.LogAgentRequest(ctx, contextID, travelAgent, flightAgent,
			"find flights", fmt.Sprintf("req-%d", i))
		if err != nil {
			t.Fatalf("LogAgentRequest %d failed: %v", i, err)
		}
		if _, err := tracker.LogAgentResponse(ctx, contextID, flightAgent, travelAgent,
			"flight options", fmt.Sprintf("resp-%d", i), req.ID, responseTime, true); err != nil {
			t.Fatalf("LogAgentResponse %d failed: %v", i, err)
		}
	}

	records, err := store.RunRead(ctx, `
		MATCH (a:Agent {name: $name})
		RETURN a.total_responses as total_responses,
		       a.average_response_time as average_response_time,
		       a.success_rate as success_rate`,
		map[string]interface{}{"name": flightAgent})
	if err != nil {
		t.Fatalf("Failed to read agent metrics: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 agent record, got %d", len(records))
	}

	if got := getInt64FromMap(records[0], "total_responses", 0); got != 3 {
		t.Errorf("Expected total_responses 3, got %d", got)
	}
	avg := getFloat64FromMap(records[0], "average_response_time", 0)
	if avg < 199.9 || avg > 200.1 {
		t.Errorf("Expected average_response_time 200, got %f", avg)
	}
	rate := getFloat64FromMap(records[0], "success_rate", 0)
	if rate < 0.99 || rate > 1.01 {
		t.Errorf("Expected success_rate 1.0 after three successes, got %f", rate)
	}
}

func TestTracker_RepliesToLink(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	store, err := createTestStore()
	if err != nil {
		t.Fatalf("Failed to connect to Neo4j: %v", err)
	}
	defer store.Close(ctx)

	tracker := NewTracker(store)
	stamp := time.Now().Format("20060102150405")
	contextID := "replies-ctx-" + stamp
	sessionID := "replies-session-" + stamp
	travelAgent := "RepliesTravelAgent-" + stamp
	flightAgent := "RepliesFlightAgent-" + stamp

	defer func() {
		cleanupContext(ctx, store, contextID, sessionID)
		cleanupAgent(ctx, store, travelAgent)
		cleanupAgent(ctx, store, flightAgent)
	}()

	if _, err := tracker.StartConversation(ctx, sessionID, contextID, "Tester", "flight_booking", ""); err != nil {
		t.Fatalf("StartConversation failed: %v", err)
	}

	req, err := tracker.LogAgentRequest(ctx, contextID, travelAgent, flightAgent, "find flights", "req-link")
	if err != nil {
		t.Fatalf("LogAgentRequest failed: %v", err)
	}
	resp, err := tracker.LogAgentResponse(ctx, contextID, flightAgent, travelAgent, "options", "resp-link", req.ID, 80, true)
	if err != nil {
		t.Fatalf("LogAgentResponse failed: %v", err)
	}

	records, err := store.RunRead(ctx, `
		MATCH (resp:Message {id: $resp_id})-[r:REPLIES_TO]->(req:Message {id: $req_id})
		RETURN count(r) as links`,
		map[string]interface{}{"resp_id": resp.ID, "req_id": req.ID})
	if err != nil {
		t.Fatalf("Failed to read REPLIES_TO links: %v", err)
	}
	if got := getInt64FromMap(records[0], "links", 0); got != 1 {
		t.Errorf("Expected exactly one REPLIES_TO link, got %d", got)
	}
}

func TestTracker_LogAgentRequest_NoConversation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	store, err := createTestStore()
	if err != nil {
		t.Fatalf("Failed to connect to Neo4j: %v", err)
	}
	defer store.Close(ctx)

	tracker := NewTracker(store)
	contextID := "ghost-ctx-" + time.Now().Format("20060102150405")

	_, err = tracker.LogAgentRequest(ctx, contextID, "NobodyA", "NobodyB", "hello?", "req-ghost")
	if err == nil {
		t.Fatal("Expected an error for a context with no conversation")
	}
	if !apperrors.IsConversationNotFound(err) {
		t.Errorf("Expected ErrConversationNotFound, got %T: %v", err, err)
	}
}
