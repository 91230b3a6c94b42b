package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"travel-graph/backend/internal/graph"
	"travel-graph/backend/pkg/config"
	"travel-graph/backend/pkg/logger"
)

// seedStatements load the sample catalog: a known user, the two agents,
// the flight booking skill, and the intent it serves.
var seedStatements = []string{
	`CREATE (u1:User {
		id: 'user_1',
		session_id: 'session_001',
		user_type: 'human',
		name: 'John Doe',
		created_at: datetime(),
		total_conversations: 5,
		total_messages: 25
	})`,

	`CREATE (a1:Agent {
		id: 'travel_agent_1',
		name: 'TravelPlanningAgent',
		agent_type: 'travel_agent',
		endpoint: 'http://localhost:8000',
		description: 'Main travel planning and coordination agent',
		version: '1.0.0',
		skills: ['trip_planning', 'coordination', 'customer_service'],
		is_active: true,
		created_at: datetime(),
		total_requests: 15,
		total_responses: 15,
		success_rate: 0.95,
		average_response_time: 1.5
	})`,

	`CREATE (a2:Agent {
		id: 'flight_agent_1',
		name: 'FlightBookingAgent',
		agent_type: 'flight_agent',
		endpoint: 'http://localhost:9999',
		description: 'Specialized flight search and booking agent',
		version: '1.0.0',
		skills: ['flight_search', 'booking', 'pricing'],
		is_active: true,
		created_at: datetime(),
		total_requests: 10,
		total_responses: 9,
		success_rate: 0.90,
		average_response_time: 2.3
	})`,

	`CREATE (s1:Skill {
		id: 'flight_booking_skill',
		skill_id: 'flight_booking',
		name: 'Flight Booking',
		description: 'Search and book flights',
		category: 'booking',
		usage_count: 50,
		success_rate: 0.92,
		created_at: datetime()
	})`,

	`CREATE (i1:Intent {
		id: 'book_flight_intent',
		intent_id: 'book_flight',
		name: 'Book Flight',
		description: 'User wants to book a flight',
		category: 'booking',
		common_patterns: ['book flight', 'need flight', 'fly to'],
		created_at: datetime()
	})`,

	`MATCH (a:Agent {id: 'travel_agent_1'}), (s:Skill {id: 'flight_booking_skill'}) CREATE (a)-[:HAS_SKILL]->(s)`,
	`MATCH (a:Agent {id: 'flight_agent_1'}), (s:Skill {id: 'flight_booking_skill'}) CREATE (a)-[:HAS_SKILL]->(s)`,
	`MATCH (a:Agent {id: 'flight_agent_1'}), (i:Intent {id: 'book_flight_intent'}) CREATE (a)-[:HANDLES_INTENT]->(i)`,
}

func main() {
	skipConfirm := flag.Bool("y", false, "Skip confirmation prompt")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting database reset and seed...")

	// Warning prompt
	if !*skipConfirm {
		log.Warn("⚠️  WARNING: This will DELETE ALL DATA from Neo4j!")
		log.Warn("This action cannot be undone.")
		fmt.Print("Are you sure you want to continue? (yes/no): ")
		var response string
		fmt.Scanln(&response)
		if response != "yes" && response != "y" {
			log.Info("Aborted.")
			os.Exit(0)
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Connect to Neo4j
	ctx := context.Background()
	store := graph.NewStore(cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, cfg.Neo4jDatabase)
	if err := store.Connect(ctx); err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer store.Close(context.Background())

	// Step 1: Delete all data
	log.Info("Step 1: Deleting all data from Neo4j...")
	if err := store.ClearDatabase(ctx); err != nil {
		log.Fatal("Failed to delete all data", zap.Error(err))
	}
	log.Info("All data deleted successfully")

	// Step 2: Apply schema
	log.Info("Step 2: Applying constraints and indexes...")
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to apply graph schema", zap.Error(err))
	}

	// Step 3: Seed sample data
	log.Info("Step 3: Seeding sample data...")
	for _, stmt := range seedStatements {
		if _, err := store.RunWrite(ctx, stmt, nil); err != nil {
			log.Fatal("Failed to run seed statement", zap.String("statement", stmt), zap.Error(err))
		}
	}
	log.Info("Sample data created", zap.Int("statements", len(seedStatements)))

	// Step 4: Report what is in the graph now
	stats, err := store.Stats(ctx)
	if err != nil {
		log.Fatal("Failed to read database stats", zap.Error(err))
	}
	log.Info("Database reset and seed complete",
		zap.Int64("nodes", stats.TotalNodes),
		zap.Int64("relationships", stats.TotalRelationships),
		zap.Strings("labels", stats.Labels),
	)
}
