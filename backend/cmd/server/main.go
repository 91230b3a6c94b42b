package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"travel-graph/backend/internal/a2a"
	"travel-graph/backend/internal/adapter"
	"travel-graph/backend/internal/agent"
	"travel-graph/backend/internal/commlog"
	"travel-graph/backend/internal/constants"
	"travel-graph/backend/internal/graph"
	"travel-graph/backend/pkg/config"
	apperrors "travel-graph/backend/pkg/errors"
	"travel-graph/backend/pkg/logger"
)

func main() {
	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting travel agent server...")

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

	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to apply graph schema", zap.Error(err))
	}

	// Initialize dependencies
	tracker := graph.NewTracker(store)
	analytics := graph.NewAnalytics(store)
	recorder := commlog.NewRecorder(cfg.LogDir)

	flightCaller := a2a.NewFlightCaller(cfg.FlightAgentURL, tracker, recorder)
	defer flightCaller.Close()

	var responder agent.Responder
	if cfg.OpenAIAPIKey != "" {
		responder = adapter.NewLLMResponder(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.ModelID,
			cfg.ModelTemperature, adapter.TravelPlannerInstructions, flightCaller)
		log.Info("Using LLM responder", zap.String("model", cfg.ModelID))
	} else {
		responder = adapter.NewRuleResponder(flightCaller)
		log.Warn("OPENAI_API_KEY not set, falling back to the rule-based responder")
	}

	travel := agent.NewTravelAgent(tracker, analytics, responder, recorder, cfg.HistoryLimit)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(log, store, travel, flightCaller, recorder)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("flight_agent_url", cfg.FlightAgentURL),
	)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// newRouter builds the HTTP surface: the chat UI, the conversation
// endpoints, and the operational views.
func newRouter(log *zap.Logger, store *graph.Store, travel *agent.TravelAgent, flight *a2a.FlightCaller, recorder *commlog.Recorder) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Chat interface
	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
	})

	// Chat with the travel agent
	router.POST("/chat", func(c *gin.Context) {
		var req struct {
			UserInput string `form:"user_input" binding:"required"`
			ContextID string `form:"context_id"`
			SessionID string `form:"session_id"`
			UserName  string `form:"user_name"`
		}

		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.ContextID == "" {
			req.ContextID = constants.DefaultContextID
		}
		if req.SessionID == "" {
			req.SessionID = constants.DefaultSessionID
		}

		response := travel.Chat(c.Request.Context(), req.UserInput, req.ContextID, req.SessionID, req.UserName)

		c.JSON(http.StatusOK, gin.H{
			"response":   response,
			"context_id": req.ContextID,
		})
	})

	// End conversation tracking
	router.POST("/end_conversation/:context_id", func(c *gin.Context) {
		contextID := c.Param("context_id")

		ended, err := travel.EndConversation(c.Request.Context(), contextID, true, 0)
		if err != nil {
			log.Error("Failed to end conversation", zap.String("context_id", contextID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end conversation"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    ended,
			"context_id": contextID,
		})
	})

	// Conversation analytics
	router.GET("/analytics", func(c *gin.Context) {
		contextID := c.Query("context_id")

		summary, err := travel.AnalyticsBundle(c.Request.Context(), contextID)
		if err != nil {
			if apperrors.IsConversationNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
				return
			}
			log.Error("Failed to gather analytics", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to gather analytics"})
			return
		}

		payload := gin.H{
			"agent_performance": summary.Agents,
			"popular_intents":   summary.Intents,
		}
		if summary.Conversation != nil {
			payload["conversation_analytics"] = summary.Conversation
		}
		if summary.Overall != nil {
			payload["overall_analytics"] = summary.Overall
		}

		c.JSON(http.StatusOK, payload)
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()

		payload := gin.H{
			"timestamp":       time.Now().UTC().Format(time.RFC3339),
			"neo4j_connected": store.Connected(),
			"agent_available": flight.Available(ctx),
			"status":          "healthy",
		}

		if stats, err := store.Stats(ctx); err != nil {
			payload["neo4j_connected"] = false
			payload["status"] = "degraded"
		} else {
			payload["neo4j_stats"] = stats
		}

		c.JSON(http.StatusOK, payload)
	})

	// Agent communication log
	router.GET("/logs", func(c *gin.Context) {
		entries := recorder.Entries()
		c.JSON(http.StatusOK, gin.H{
			"logs":                 entries,
			"log_file":             recorder.Path(),
			"total_communications": len(entries),
		})
	})

	return router
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
