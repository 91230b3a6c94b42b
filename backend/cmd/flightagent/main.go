package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/a2aproject/a2a-go/a2asrv"
	"go.uber.org/zap"

	"travel-graph/backend/internal/a2a"
	"travel-graph/backend/internal/adapter"
	"travel-graph/backend/internal/agent"
	"travel-graph/backend/pkg/config"
	"travel-graph/backend/pkg/logger"
)

func main() {
	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting flight booking agent...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize dependencies
	var responder agent.Responder
	if cfg.OpenAIAPIKey != "" {
		responder = adapter.NewLLMResponder(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.ModelID,
			cfg.ModelTemperature, adapter.FlightBookingInstructions, nil)
		log.Info("Using LLM responder", zap.String("model", cfg.ModelID))
	} else {
		responder = adapter.NewFlightSimResponder()
		log.Warn("OPENAI_API_KEY not set, falling back to the simulated flight responder")
	}

	handler := newAgentHandler(responder, cfg.FlightAgentURL, cfg.HistoryLimit)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.FlightAgentPort,
		Handler: handler,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Flight booking agent started",
		zap.String("port", cfg.FlightAgentPort),
		zap.String("card_url", cfg.FlightAgentURL+"/.well-known/agent.json"),
	)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down flight booking agent...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Flight booking agent exited")
}

// newAgentHandler mounts the agent card at the well-known path and the A2A
// JSON-RPC endpoint at /a2a.
func newAgentHandler(responder agent.Responder, baseURL string, historyLimit int) http.Handler {
	executor := a2a.NewFlightExecutor(responder, historyLimit)
	requestHandler := a2asrv.NewHandler(executor, a2asrv.WithTaskStore(a2a.NewMemoryTaskStore()))

	card := a2a.Card(baseURL)

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/agent.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(card)
	})
	mux.Handle("/a2a", a2asrv.NewJSONRPCHandler(requestHandler))

	return mux
}
