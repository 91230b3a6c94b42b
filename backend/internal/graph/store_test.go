package graph

import (
	"context"
	"testing"
	"time"

	apperrors "travel-graph/backend/pkg/errors"
)

// Integration tests require a running Neo4j instance at bolt://localhost:7687
// (user neo4j, password password). They are skipped with -short.

func createTestStore() (*Store, error) {
	store := NewStore("bolt://localhost:7687", "neo4j", "password", "neo4j")
	if err := store.Connect(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func TestStore_NotConnected(t *testing.T) {
	ctx := context.Background()
	store := NewStore("bolt://localhost:7687", "neo4j", "password", "neo4j")

	if store.Connected() {
		t.Error("Expected Connected to be false before Connect")
	}
	if _, err := store.RunRead(ctx, "RETURN 1", nil); err != apperrors.ErrGraphNotConnected {
		t.Errorf("Expected ErrGraphNotConnected from RunRead, got %v", err)
	}
	if _, err := store.RunWrite(ctx, "RETURN 1", nil); err != apperrors.ErrGraphNotConnected {
		t.Errorf("Expected ErrGraphNotConnected from RunWrite, got %v", err)
	}
	if err := store.EnsureSchema(ctx); err != apperrors.ErrGraphNotConnected {
		t.Errorf("Expected ErrGraphNotConnected from EnsureSchema, got %v", err)
	}
	if err := store.Close(ctx); err != nil {
		t.Errorf("Close on never-connected store failed: %v", err)
	}
}

func TestStore_RunWriteAndRead(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	store, err := createTestStore()
	if err != nil {
		t.Fatalf("Failed to connect to Neo4j: %v", err)
	}
	defer store.Close(ctx)

	nodeID := "store-test-" + time.Now().Format("20060102150405")

	// Clean up
	defer func() {
		_, _ = store.RunWrite(ctx, "MATCH (n:StoreTestNode {id: $id}) DETACH DELETE n",
			map[string]interface{}{"id": nodeID})
	}()

	records, err := store.RunWrite(ctx,
		"CREATE (n:StoreTestNode {id: $id, value: 42}) RETURN n.id as id, n.value as value",
		map[string]interface{}{"id": nodeID})
	if err != nil {
		t.Fatalf("RunWrite failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if got := getStringFromMap(records[0], "id", ""); got != nodeID {
		t.Errorf("Expected id '%s', got '%s'", nodeID, got)
	}
	if got := getInt64FromMap(records[0], "value", 0); got != 42 {
		t.Errorf("Expected value 42, got %d", got)
	}

	records, err = store.RunRead(ctx,
		"MATCH (n:StoreTestNode {id: $id}) RETURN count(n) as count",
		map[string]interface{}{"id": nodeID})
	if err != nil {
		t.Fatalf("RunRead failed: %v", err)
	}
	if got := getInt64FromMap(records[0], "count", 0); got != 1 {
		t.Errorf("Expected count 1, got %d", got)
	}
}

func TestStore_EnsureSchemaAndStats(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	store, err := createTestStore()
	if err != nil {
		t.Fatalf("Failed to connect to Neo4j: %v", err)
	}
	defer store.Close(ctx)

	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	// Re-running must be a no-op
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema re-run failed: %v", err)
	}

	nodeID := "stats-test-" + time.Now().Format("20060102150405")
	defer func() {
		_, _ = store.RunWrite(ctx, "MATCH (n:StoreTestNode {id: $id}) DETACH DELETE n",
			map[string]interface{}{"id": nodeID})
	}()
	if _, err := store.RunWrite(ctx, "CREATE (n:StoreTestNode {id: $id})",
		map[string]interface{}{"id": nodeID}); err != nil {
		t.Fatalf("Failed to create test node: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalNodes < 1 {
		t.Errorf("Expected at least 1 node, got %d", stats.TotalNodes)
	}
	found := false
	for _, label := range stats.Labels {
		if label == "StoreTestNode" {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected StoreTestNode label in stats")
	}
}

func TestStore_UniqueConstraintViolation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	store, err := createTestStore()
	if err != nil {
		t.Fatalf("Failed to connect to Neo4j: %v", err)
	}
	defer store.Close(ctx)

	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	userID := "constraint-test-" + time.Now().Format("20060102150405")
	defer func() {
		_, _ = store.RunWrite(ctx, "MATCH (u:User {id: $id}) DETACH DELETE u",
			map[string]interface{}{"id": userID})
	}()

	create := "CREATE (u:User {id: $id, session_id: $id})"
	if _, err := store.RunWrite(ctx, create, map[string]interface{}{"id": userID}); err != nil {
		t.Fatalf("First create failed: %v", err)
	}

	_, err = store.RunWrite(ctx, create, map[string]interface{}{"id": userID})
	if err == nil {
		t.Fatal("Expected constraint violation on duplicate id")
	}
	if _, ok := err.(*apperrors.ErrGraphConstraintViolated); !ok {
		t.Errorf("Expected ErrGraphConstraintViolated, got %T", err)
	}
}
