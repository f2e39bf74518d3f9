package chat

import "fmt"

const (
	// RoleUser and RoleModel follow the Gemini API naming. There is no
	// system role; the system instruction travels out-of-band.
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is a single conversation turn, both on the wire to the
// generation API and at rest in conversation memory.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Valid reports whether the message can be included in a generation
// call's history. Malformed stored turns are dropped, not fatal.
func (m Message) Valid() bool {
	return (m.Role == RoleUser || m.Role == RoleModel) && m.Text != ""
}

// ChatRequest is the body of POST /v1/chat.
type ChatRequest struct {
	NPC      string `json:"npc"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Message  string `json:"message"`
}

// ChatResponse is the reply body of POST /v1/chat.
type ChatResponse struct {
	NPC     string `json:"npc,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (r *ChatRequest) Validate() error {
	if r.NPC == "" {
		return fmt.Errorf("npc cannot be empty")
	}
	if r.UserID == "" {
		return fmt.Errorf("user_id cannot be empty")
	}
	if r.Message == "" {
		return fmt.Errorf("message cannot be empty")
	}
	return nil
}
