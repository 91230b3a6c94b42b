package graph

import (
	"context"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "travel-graph/backend/pkg/errors"
	"travel-graph/backend/pkg/logger"
)

// Store handles all Neo4j database operations for the conversation graph.
// Sessions are opened per call; nothing talks to the database until Connect
// succeeds.
type Store struct {
	uri      string
	username string
	password string
	database string

	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewStore creates a new graph store. It does not connect.
func NewStore(uri, username, password, database string) *Store {
	return &Store{
		uri:      uri,
		username: username,
		password: password,
		database: database,
		logger:   logger.Get(),
	}
}

// Connect creates the driver and verifies connectivity
func (s *Store) Connect(ctx context.Context) error {
	driver, err := neo4j.NewDriverWithContext(s.uri, neo4j.BasicAuth(s.username, s.password, ""))
	if err != nil {
		return apperrors.NewGraphConnectionFailed(s.uri, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return apperrors.NewGraphConnectionFailed(s.uri, err)
	}
	s.driver = driver
	s.logger.Info("Connected to Neo4j",
		zap.String("uri", s.uri),
		zap.String("database", s.database))
	return nil
}

// Close closes the Neo4j driver connection. Safe to call when never
// connected.
func (s *Store) Close(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	err := s.driver.Close(ctx)
	s.driver = nil
	return err
}

// Connected reports whether Connect has succeeded
func (s *Store) Connected() bool {
	return s.driver != nil
}

func (s *Store) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: s.database,
	})
}

// RunRead executes a read query in a managed transaction and returns the
// records as key/value maps.
func (s *Store) RunRead(ctx context.Context, query string, params map[string]interface{}) ([]map[string]interface{}, error) {
	if s.driver == nil {
		return nil, apperrors.ErrGraphNotConnected
	}
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, s.wrapQueryError(query, err)
	}
	return recordsToMaps(result.([]*neo4j.Record)), nil
}

// RunWrite executes a write query in a managed transaction and returns the
// records as key/value maps.
func (s *Store) RunWrite(ctx context.Context, query string, params map[string]interface{}) ([]map[string]interface{}, error) {
	if s.driver == nil {
		return nil, apperrors.ErrGraphNotConnected
	}
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, s.wrapQueryError(query, err)
	}
	return recordsToMaps(result.([]*neo4j.Record)), nil
}

func (s *Store) wrapQueryError(query string, err error) error {
	if strings.Contains(err.Error(), "Neo.ClientError.Schema.ConstraintValidationFailed") {
		return apperrors.NewGraphConstraintViolated(query, err)
	}
	return apperrors.NewGraphQueryFailed(query, err)
}

func recordsToMaps(records []*neo4j.Record) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		m := make(map[string]interface{}, len(record.Keys))
		for i, key := range record.Keys {
			m[key] = record.Values[i]
		}
		out = append(out, m)
	}
	return out
}

// ============================================================================
// Schema
// ============================================================================

var schemaConstraints = []string{
	"CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE",
	"CREATE CONSTRAINT agent_id_unique IF NOT EXISTS FOR (a:Agent) REQUIRE a.id IS UNIQUE",
	"CREATE CONSTRAINT conversation_id_unique IF NOT EXISTS FOR (c:Conversation) REQUIRE c.id IS UNIQUE",
	"CREATE CONSTRAINT message_id_unique IF NOT EXISTS FOR (m:Message) REQUIRE m.id IS UNIQUE",
	"CREATE CONSTRAINT skill_id_unique IF NOT EXISTS FOR (s:Skill) REQUIRE s.id IS UNIQUE",
	"CREATE CONSTRAINT intent_id_unique IF NOT EXISTS FOR (i:Intent) REQUIRE i.id IS UNIQUE",
}

var schemaIndexes = []string{
	"CREATE INDEX user_session_idx IF NOT EXISTS FOR (u:User) ON (u.session_id)",
	"CREATE INDEX agent_name_idx IF NOT EXISTS FOR (a:Agent) ON (a.name)",
	"CREATE INDEX agent_type_idx IF NOT EXISTS FOR (a:Agent) ON (a.agent_type)",
	"CREATE INDEX conversation_context_idx IF NOT EXISTS FOR (c:Conversation) ON (c.context_id)",
	"CREATE INDEX conversation_intent_idx IF NOT EXISTS FOR (c:Conversation) ON (c.intent)",
	"CREATE INDEX message_timestamp_idx IF NOT EXISTS FOR (m:Message) ON (m.timestamp)",
	"CREATE INDEX message_conversation_idx IF NOT EXISTS FOR (m:Message) ON (m.conversation_id)",
	"CREATE INDEX skill_category_idx IF NOT EXISTS FOR (s:Skill) ON (s.category)",
	"CREATE INDEX intent_category_idx IF NOT EXISTS FOR (i:Intent) ON (i.category)",
}

// EnsureSchema applies the uniqueness constraints and indexes. Every
// statement carries IF NOT EXISTS, so re-running is safe.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s.driver == nil {
		return apperrors.ErrGraphNotConnected
	}
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	statements := make([]string, 0, len(schemaConstraints)+len(schemaIndexes))
	statements = append(statements, schemaConstraints...)
	statements = append(statements, schemaIndexes...)

	for _, stmt := range statements {
		result, err := session.Run(ctx, stmt, nil)
		if err != nil {
			return apperrors.NewGraphQueryFailed(stmt, err)
		}
		if _, err := result.Consume(ctx); err != nil {
			return apperrors.NewGraphQueryFailed(stmt, err)
		}
	}

	s.logger.Info("Graph schema applied",
		zap.Int("constraints", len(schemaConstraints)),
		zap.Int("indexes", len(schemaIndexes)))
	return nil
}

// ============================================================================
// Maintenance
// ============================================================================

// Stats returns node and relationship totals plus the label and
// relationship type inventories.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	nodeRecords, err := s.RunRead(ctx, "MATCH (n) RETURN count(n) as count", nil)
	if err != nil {
		return nil, err
	}
	relRecords, err := s.RunRead(ctx, "MATCH ()-[r]->() RETURN count(r) as count", nil)
	if err != nil {
		return nil, err
	}
	labelRecords, err := s.RunRead(ctx, "CALL db.labels() YIELD label RETURN label", nil)
	if err != nil {
		return nil, err
	}
	typeRecords, err := s.RunRead(ctx, "CALL db.relationshipTypes() YIELD relationshipType RETURN relationshipType", nil)
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	if len(nodeRecords) > 0 {
		stats.TotalNodes = getInt64FromMap(nodeRecords[0], "count", 0)
	}
	if len(relRecords) > 0 {
		stats.TotalRelationships = getInt64FromMap(relRecords[0], "count", 0)
	}
	for _, record := range labelRecords {
		if label := getStringFromMap(record, "label", ""); label != "" {
			stats.Labels = append(stats.Labels, label)
		}
	}
	for _, record := range typeRecords {
		if relType := getStringFromMap(record, "relationshipType", ""); relType != "" {
			stats.RelationshipTypes = append(stats.RelationshipTypes, relType)
		}
	}
	return stats, nil
}

// ClearDatabase removes every node and relationship. Used by the seed
// script and integration tests.
func (s *Store) ClearDatabase(ctx context.Context) error {
	_, err := s.RunWrite(ctx, "MATCH (n) DETACH DELETE n", nil)
	return err
}
