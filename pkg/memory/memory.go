// Package memory defines the two memory layers an NPC carries: the
// per-user conversation history and the cross-user global memory.
package memory

import (
	"time"

	"github.com/1Leo18/npcbot/pkg/turkish"
)

const (
	// HistoryLimit bounds each (NPC, user) conversation; oldest turns
	// are dropped first.
	HistoryLimit = 5000

	// GlobalLimit bounds each NPC's global memory log.
	GlobalLimit = 10000

	// PromptGlobalWindow is how many global entries the prompt composer
	// includes, newest last.
	PromptGlobalWindow = 1000
)

// GlobalEntryTypeInstruction marks entries produced by the memory
// judgment call after a user exchange.
const GlobalEntryTypeInstruction = "user_instruction"

// GlobalEntry is one cross-user fact an NPC recalls regardless of who
// it is speaking with.
type GlobalEntry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// DedupKey identifies an entry for idempotent insertion: same type and
// case-insensitively equal content collapse to one stored entry.
func DedupKey(entryType, content string) string {
	return entryType + "|" + turkish.Lower(content)
}
