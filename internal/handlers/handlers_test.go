package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1Leo18/npcbot/internal/engine"
	"github.com/1Leo18/npcbot/internal/services"
	"github.com/1Leo18/npcbot/internal/storage"
	"github.com/1Leo18/npcbot/pkg/chat"
	"github.com/1Leo18/npcbot/pkg/economy"
	"github.com/1Leo18/npcbot/pkg/npc"
	"github.com/1Leo18/npcbot/pkg/prompts"
)

func setupHandlers(t *testing.T) (*engine.Engine, *storage.RedisStore, *services.MockLLM) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store := storage.NewRedisStore(mr.Addr(), logger)
	llm := services.NewMockLLM()
	return engine.New(store, llm, logger), store, llm
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestHealthHandler(t *testing.T) {
	_, store, _ := setupHandlers(t)
	handler := NewHealthHandler(store, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "npcbot", resp.Service)
	assert.Equal(t, "healthy", resp.Components["storage"])
}

func TestChatHandler(t *testing.T) {
	eng, store, llm := setupHandlers(t)
	handler := NewChatHandler(eng, testLogger())

	def := &npc.Definition{Name: "Gorim", Role: "Demirci"}
	require.NoError(t, store.SaveNPC(context.Background(), def))

	llm.ChatFunc = func(ctx context.Context, system string, history []chat.Message) (string, error) {
		return "*Başını kaldırır.* ''Hoş geldin.''", nil
	}
	llm.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return `{"hatirlanmali": false, "ozet": ""}`, nil
	}

	tests := []struct {
		name           string
		method         string
		body           interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "successful exchange",
			method:         http.MethodPost,
			body:           chat.ChatRequest{NPC: "Gorim", UserID: "user-1", UserName: "Leo", Message: "Merhaba"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown npc",
			method:         http.MethodPost,
			body:           chat.ChatRequest{NPC: "Yok", UserID: "user-1", UserName: "Leo", Message: "Merhaba"},
			expectedStatus: http.StatusNotFound,
			expectedError:  "NPC not found: Yok",
		},
		{
			name:           "missing user_id",
			method:         http.MethodPost,
			body:           chat.ChatRequest{NPC: "Gorim", Message: "Merhaba"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "user_id cannot be empty",
		},
		{
			name:           "method not allowed",
			method:         http.MethodGet,
			body:           nil,
			expectedStatus: http.StatusMethodNotAllowed,
			expectedError:  "Method not allowed. Only POST is supported.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body bytes.Buffer
			if tt.body != nil {
				require.NoError(t, json.NewEncoder(&body).Encode(tt.body))
			}
			req := httptest.NewRequest(tt.method, "/v1/chat", &body)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var resp chat.ChatResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, resp.Error)
			} else {
				assert.Equal(t, "Gorim", resp.NPC)
				assert.Contains(t, resp.Message, "Hoş geldin")
			}
		})
	}
}

func TestChatHandlerInvalidBody(t *testing.T) {
	eng, _, _ := setupHandlers(t)
	handler := NewChatHandler(eng, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/chat", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNPCHandlerListsSorted(t *testing.T) {
	eng, store, _ := setupHandlers(t)
	handler := NewNPCHandler(eng, testLogger())
	ctx := context.Background()

	require.NoError(t, store.SaveNPC(ctx, &npc.Definition{Name: "Zeliha", Role: "Şifacı"}))
	require.NoError(t, store.SaveNPC(ctx, &npc.Definition{Name: "Gorim", Role: "Demirci"}))

	req := httptest.NewRequest(http.MethodGet, "/v1/npcs", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Gorim", list[0]["name"])
	assert.Equal(t, "Zeliha", list[1]["name"])
}

func TestNPCHandlerEmptyList(t *testing.T) {
	eng, _, _ := setupHandlers(t)
	handler := NewNPCHandler(eng, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/npcs", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestWalletHandler(t *testing.T) {
	_, store, _ := setupHandlers(t)
	handler := NewWalletHandler(store, testLogger())
	ctx := context.Background()

	_, err := store.AdjustBalance(ctx, "user-7", economy.Balance{Gold: 12, Copper: 3})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/wallet/user-7", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp WalletResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user-7", resp.UserID)
	assert.Equal(t, economy.Balance{Gold: 12, Copper: 3}, resp.Balance)
}

func TestWalletHandlerUnknownUserIsZero(t *testing.T) {
	_, store, _ := setupHandlers(t)
	handler := NewWalletHandler(store, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/wallet/nobody", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp WalletResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Balance.IsZero())
}

func TestWalletHandlerMissingID(t *testing.T) {
	_, store, _ := setupHandlers(t)
	handler := NewWalletHandler(store, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/wallet/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeHandler(t *testing.T) {
	eng, _, llm := setupHandlers(t)
	handler := NewAnalyzeHandler(eng, testLogger())

	llm.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "Detay: 80\nMantık: 65\nYorum: Etkileyici bir hamle.", nil
	}

	body := bytes.NewBufferString(`{"text":"Kılıcımı çekip ileri atılıyorum."}`)
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp engine.MoveAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 80, resp.Detay)
	assert.Equal(t, 65, resp.Mantik)
	assert.Equal(t, "Etkileyici bir hamle.", resp.Yorum)
}

func TestAnalyzeHandlerErrorCarriesDefaults(t *testing.T) {
	eng, _, llm := setupHandlers(t)
	handler := NewAnalyzeHandler(eng, testLogger())

	llm.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("model unavailable")
	}

	body := bytes.NewBufferString(`{"text":"Saldırıyorum."}`)
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp engine.MoveAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 50, resp.Detay)
	assert.Equal(t, 50, resp.Mantik)
	assert.Equal(t, "Yorum yok.", resp.Yorum)
}

func TestAnalyzeHandlerRejectsEmptyText(t *testing.T) {
	eng, _, _ := setupHandlers(t)
	handler := NewAnalyzeHandler(eng, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBufferString(`{"text":""}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeRoundHandler(t *testing.T) {
	eng, _, llm := setupHandlers(t)
	handler := NewAnalyzeRoundHandler(eng, testLogger())

	llm.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "Senaryo: Kılıçlar çarpıştı.\nAvantaj: Leo\nDevam: false", nil
	}

	round := prompts.BattleRound{
		RoundNumber:  2,
		TotalPlayers: 2,
		Moves: []prompts.BattleMove{
			{Player: "Leo", MoveText: "Saldırıyorum", Mantik: 70, Detay: 60},
			{Player: "Mira", MoveText: "Savunuyorum", Mantik: 55, Detay: 40},
		},
	}
	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(round))

	req := httptest.NewRequest(http.MethodPost, "/analyze_round", &body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp engine.RoundAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Kılıçlar çarpıştı.", resp.Scenario)
	assert.Equal(t, "Leo", resp.Avantaj)
	assert.False(t, resp.NextRound)
}

func TestAnalyzeRoundHandlerErrorCarriesVerdict(t *testing.T) {
	eng, _, llm := setupHandlers(t)
	handler := NewAnalyzeRoundHandler(eng, testLogger())

	llm.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("model unavailable")
	}

	round := prompts.BattleRound{
		RoundNumber:  1,
		TotalPlayers: 1,
		Moves:        []prompts.BattleMove{{Player: "Leo", MoveText: "Saldırıyorum"}},
	}
	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(round))

	req := httptest.NewRequest(http.MethodPost, "/analyze_round", &body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp engine.RoundAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Savaş devam ediyor...", resp.Scenario)
	assert.True(t, resp.NextRound)
}

func TestAnalyzeRoundHandlerRejectsEmptyMoves(t *testing.T) {
	eng, _, _ := setupHandlers(t)
	handler := NewAnalyzeRoundHandler(eng, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/analyze_round", bytes.NewBufferString(`{"round_number":1,"total_players":0,"moves":[]}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
