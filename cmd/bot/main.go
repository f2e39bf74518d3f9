package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1Leo18/npcbot/internal/behavior"
	"github.com/1Leo18/npcbot/internal/config"
	"github.com/1Leo18/npcbot/internal/discord"
	"github.com/1Leo18/npcbot/internal/engine"
	"github.com/1Leo18/npcbot/internal/logger"
	"github.com/1Leo18/npcbot/internal/services"
	"github.com/1Leo18/npcbot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DiscordToken == "" {
		log.Fatal("DISCORD_TOKEN is required")
	}

	log := logger.Setup(cfg)

	log.Info("Starting NPC bot",
		"environment", cfg.Environment,
		"model_name", cfg.GeminiModel,
		"prefix", cfg.CommandPrefix)

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
	runner := behavior.New(store, llmService, nil, log, cfg.BehaviorTick, cfg.EnergyTick)

	bot, err := discord.New(cfg.DiscordToken, cfg.CommandPrefix, store, eng, runner, log)
	if err != nil {
		log.Error("Failed to create Discord bot", "error", err)
		os.Exit(1)
	}
	runner.SetPoster(bot)

	if err := bot.Open(); err != nil {
		log.Error("Failed to open Discord session", "error", err)
		os.Exit(1)
	}

	// Behavior loops that were active before the last shutdown come
	// back on their own.
	if err := runner.Resume(ctx); err != nil {
		log.Error("Failed to resume behavior loops", "error", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Bot is shutting down...")

	runner.Shutdown()
	if err := bot.Close(); err != nil {
		log.Error("Error closing Discord session", "error", err)
	}
	if err := llmService.Close(); err != nil {
		log.Error("Error closing Gemini service", "error", err)
	}
	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Bot stopped")
}
