package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/1Leo18/npcbot/pkg/chat"
	"github.com/1Leo18/npcbot/pkg/economy"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// NPCInfo is one entry of the GET /v1/npcs listing.
type NPCInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func listNPCs(client *http.Client, baseURL string) ([]NPCInfo, error) {
	resp, err := client.Get(baseURL + "/v1/npcs")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to list NPCs: %s", errorResp.Error)
	}

	var npcs []NPCInfo
	if err := json.Unmarshal(body, &npcs); err != nil {
		return nil, fmt.Errorf("failed to parse NPC list: %w", err)
	}

	sort.Slice(npcs, func(i, j int) bool { return npcs[i].Name < npcs[j].Name })
	return npcs, nil
}

func sendChat(client *http.Client, baseURL string, req chat.ChatRequest) (*chat.ChatResponse, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/chat",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp chat.ChatResponse
		if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error == "" {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("chat request failed: %s", errorResp.Error)
	}

	var chatResp chat.ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &chatResp, nil
}

// WalletInfo mirrors the GET /v1/wallet/{id} response.
type WalletInfo struct {
	UserID  string          `json:"user_id"`
	Balance economy.Balance `json:"balance"`
}

func getWallet(client *http.Client, baseURL string, userID string) (*WalletInfo, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/wallet/%s", baseURL, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to get wallet: %s", errorResp.Error)
	}

	var wallet WalletInfo
	if err := json.Unmarshal(body, &wallet); err != nil {
		return nil, fmt.Errorf("failed to parse wallet response: %w", err)
	}
	return &wallet, nil
}
