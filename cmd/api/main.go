package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1Leo18/npcbot/internal/config"
	"github.com/1Leo18/npcbot/internal/engine"
	"github.com/1Leo18/npcbot/internal/handlers"
	"github.com/1Leo18/npcbot/internal/logger"
	"github.com/1Leo18/npcbot/internal/middleware"
	"github.com/1Leo18/npcbot/internal/services"
	"github.com/1Leo18/npcbot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting NPC bot API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"model_name", cfg.GeminiModel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	llmService, err := services.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
	if err != nil {
		log.Error("Failed to initialize Gemini service", "error", err)
		os.Exit(1)
	}

	store := storage.NewRedisStore(cfg.RedisURL, log)
	if err := store.WaitForConnection(ctx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	eng := engine.New(store, llmService, log)

	mux := http.NewServeMux()
	mux.Handle("/health", handlers.NewHealthHandler(store, log))
	mux.Handle("/v1/chat", handlers.NewChatHandler(eng, log))
	mux.Handle("/v1/npcs", handlers.NewNPCHandler(eng, log))
	mux.Handle("/v1/wallet/", handlers.NewWalletHandler(store, log))
	mux.Handle("/analyze", handlers.NewAnalyzeHandler(eng, log))
	mux.Handle("/analyze_round", handlers.NewAnalyzeRoundHandler(eng, log))

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     middleware.Logger(log, mux),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err := llmService.Close(); err != nil {
		log.Error("Error closing Gemini service", "error", err)
	}
	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server stopped")
}
