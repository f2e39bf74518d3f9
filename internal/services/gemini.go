package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/1Leo18/npcbot/pkg/chat"
)

const (
	chatMaxTokens   = 500
	chatTemperature = 0.9

	promptMaxTokens   = 1500
	promptTemperature = 1.0
)

// GeminiService implements LLMService on the Google Gemini API.
type GeminiService struct {
	client    *genai.Client
	modelName string
	logger    *slog.Logger
}

var _ LLMService = (*GeminiService)(nil)

// NewGeminiService creates a Gemini-backed LLM service.
func NewGeminiService(ctx context.Context, apiKey, modelName string, logger *slog.Logger) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiService{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}, nil
}

func (s *GeminiService) Chat(ctx context.Context, systemInstruction string, history []chat.Message) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("history must contain at least the user message")
	}

	model := s.client.GenerativeModel(s.modelName)
	model.SetMaxOutputTokens(chatMaxTokens)
	model.SetTemperature(chatTemperature)
	model.SetTopP(1)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	session := model.StartChat()
	for _, turn := range history[:len(history)-1] {
		session.History = append(session.History, &genai.Content{
			Role:  turn.Role,
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}

	last := history[len(history)-1]
	resp, err := session.SendMessage(ctx, genai.Text(last.Text))
	if err != nil {
		return "", fmt.Errorf("gemini chat failed: %w", err)
	}
	return extractText(resp)
}

func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	model := s.client.GenerativeModel(s.modelName)
	model.SetMaxOutputTokens(promptMaxTokens)
	model.SetTemperature(promptTemperature)
	model.SetTopP(1)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	return extractText(resp)
}

func (s *GeminiService) Close() error {
	return s.client.Close()
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	return out, nil
}
