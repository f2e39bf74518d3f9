package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/1Leo18/npcbot/internal/engine"
	"github.com/1Leo18/npcbot/pkg/chat"
)

// ChatHandler exposes the full conversation pipeline over HTTP. It is
// what the console client talks to.
type ChatHandler struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewChatHandler(eng *engine.Engine, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		engine: eng,
		logger: logger,
	}
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for chat endpoint",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var request chat.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body. Expected JSON with 'npc', 'user_id' and 'message' fields.")
		return
	}

	if err := request.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	response, err := h.engine.Exchange(ctx, request)
	if err != nil {
		if errors.Is(err, engine.ErrNPCNotFound) {
			h.writeError(w, http.StatusNotFound, "NPC not found: "+request.NPC)
			return
		}
		h.logger.Error("Error handling chat exchange", "error", err, "npc", request.NPC)
		h.writeError(w, http.StatusInternalServerError, "Failed to generate response. Please try again.")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding chat response", "error", err)
	}
}

func (h *ChatHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(chat.ChatResponse{Error: msg}); err != nil {
		h.logger.Error("Error encoding chat error response", "error", err)
	}
}
