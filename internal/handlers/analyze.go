package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/1Leo18/npcbot/internal/engine"
	"github.com/1Leo18/npcbot/pkg/prompts"
)

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// AnalyzeHandler scores a single roleplay move. Generation failure
// still answers with the neutral default scores so battle tooling never
// stalls on an empty body.
type AnalyzeHandler struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewAnalyzeHandler(eng *engine.Engine, logger *slog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		engine: eng,
		logger: logger,
	}
}

func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Text == "" {
		h.logger.Warn("Invalid analyze request", "error", err)
		http.Error(w, "Expected JSON with a non-empty 'text' field", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	analysis, err := h.engine.AnalyzeMove(ctx, request.Text)
	status := http.StatusOK
	if err != nil {
		h.logger.Error("Move analysis failed", "error", err)
		analysis = engine.MoveAnalysis{Detay: 50, Mantik: 50, Yorum: "Yorum yok."}
		status = http.StatusInternalServerError
	}

	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(analysis); err != nil {
		h.logger.Error("Error encoding analysis response", "error", err)
	}
}

// AnalyzeRoundHandler narrates a full combat round. Like the move
// analyzer it degrades to a fixed verdict instead of erroring out.
type AnalyzeRoundHandler struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewAnalyzeRoundHandler(eng *engine.Engine, logger *slog.Logger) *AnalyzeRoundHandler {
	return &AnalyzeRoundHandler{
		engine: eng,
		logger: logger,
	}
}

func (h *AnalyzeRoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var round prompts.BattleRound
	if err := json.NewDecoder(r.Body).Decode(&round); err != nil {
		h.logger.Warn("Invalid analyze_round request", "error", err)
		http.Error(w, "Expected JSON with 'round_number', 'total_players' and 'moves'", http.StatusBadRequest)
		return
	}
	if len(round.Moves) == 0 {
		http.Error(w, "At least one move is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	analysis, err := h.engine.AnalyzeRound(ctx, round)
	status := http.StatusOK
	if err != nil {
		h.logger.Error("Round analysis failed", "error", err, "round", round.RoundNumber)
		analysis = engine.RoundAnalysis{Scenario: "Savaş devam ediyor...", NextRound: true}
		status = http.StatusInternalServerError
	}

	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(analysis); err != nil {
		h.logger.Error("Error encoding round analysis response", "error", err)
	}
}
