package services

import (
	"context"
	"sync"

	"github.com/1Leo18/npcbot/pkg/chat"
)

// MockLLM is a scripted implementation of LLMService for testing.
type MockLLM struct {
	ChatFunc     func(ctx context.Context, systemInstruction string, history []chat.Message) (string, error)
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	// Track calls for testing
	ChatCalls     []ChatCall
	GenerateCalls []string

	mu sync.Mutex
}

// ChatCall records one Chat invocation.
type ChatCall struct {
	SystemInstruction string
	History           []chat.Message
}

var _ LLMService = (*MockLLM)(nil)

// NewMockLLM creates a mock that replies "..." to everything until
// scripted otherwise.
func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Chat(ctx context.Context, systemInstruction string, history []chat.Message) (string, error) {
	m.mu.Lock()
	m.ChatCalls = append(m.ChatCalls, ChatCall{SystemInstruction: systemInstruction, History: history})
	fn := m.ChatFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, systemInstruction, history)
	}
	return "...", nil
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.GenerateCalls = append(m.GenerateCalls, prompt)
	fn := m.GenerateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt)
	}
	return "...", nil
}

func (m *MockLLM) Close() error { return nil }
