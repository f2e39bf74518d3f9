package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/1Leo18/npcbot/internal/engine"
)

// NPCHandler lists registered NPCs.
type NPCHandler struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewNPCHandler(eng *engine.Engine, logger *slog.Logger) *NPCHandler {
	return &NPCHandler{
		engine: eng,
		logger: logger,
	}
}

func (h *NPCHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	defs, err := h.engine.NPCs(r.Context())
	if err != nil {
		h.logger.Error("Failed to list NPCs", "error", err)
		http.Error(w, "Failed to list NPCs", http.StatusInternalServerError)
		return
	}

	// Empty slice instead of nil so the response is [] rather than null.
	list := make([]map[string]interface{}, 0, len(defs))
	for _, def := range defs {
		list = append(list, map[string]interface{}{
			"id":   def.ID(),
			"name": def.Name,
			"role": def.Role,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(list); err != nil {
		h.logger.Error("Failed to write NPC list response", "error", err)
	}
}
