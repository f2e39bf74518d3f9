package services

import (
	"context"

	"github.com/1Leo18/npcbot/pkg/chat"
)

// LLMService defines the interface for interacting with the language
// model API.
type LLMService interface {
	// Chat generates an in-character reply from a system instruction
	// and an ordered turn history ending with the user's message.
	Chat(ctx context.Context, systemInstruction string, history []chat.Message) (string, error)

	// Generate runs a single free-form prompt without history, used
	// for memory judgment, analysis and autonomous messages.
	Generate(ctx context.Context, prompt string) (string, error)

	// Close releases the underlying client.
	Close() error
}
