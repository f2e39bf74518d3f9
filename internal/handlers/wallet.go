package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/1Leo18/npcbot/internal/storage"
	"github.com/1Leo18/npcbot/pkg/economy"
)

// WalletResponse is the body of GET /v1/wallet/{id}.
type WalletResponse struct {
	UserID  string          `json:"user_id"`
	Balance economy.Balance `json:"balance"`
}

// WalletHandler reads a user's ledger balance. Unknown users read as a
// zero balance, not an error.
type WalletHandler struct {
	store  storage.Storage
	logger *slog.Logger
}

func NewWalletHandler(store storage.Storage, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{
		store:  store,
		logger: logger,
	}
}

func (h *WalletHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := strings.TrimPrefix(r.URL.Path, "/v1/wallet/")
	userID = strings.Trim(userID, "/")
	if userID == "" {
		http.Error(w, "User ID is required", http.StatusBadRequest)
		return
	}

	balance, err := h.store.GetBalance(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to read balance", "error", err, "user_id", userID)
		http.Error(w, "Failed to read balance", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(WalletResponse{UserID: userID, Balance: balance}); err != nil {
		h.logger.Error("Failed to write wallet response", "error", err)
	}
}
