package behavior

import (
	"context"
	"strings"

	"github.com/1Leo18/npcbot/pkg/npc"
	"github.com/1Leo18/npcbot/pkg/prompts"
	"github.com/1Leo18/npcbot/pkg/roleplay"
)

const maxMessageLen = 500

// generateMessage produces the in-character text for an autonomous
// cycle. Target lengths are sampled so most messages stay short.
func (r *Runner) generateMessage(ctx context.Context, def *npc.Definition, activity string, needs npc.Needs, lastActivity string) (string, error) {
	targetLen := r.sampleTargetLen()
	prompt := prompts.Autonomous(def, activity, needs, lastActivity, targetLen, "")
	out, err := r.llm.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	out = truncateAtSentence(strings.TrimSpace(out), maxMessageLen)
	return roleplay.Format(out), nil
}

// sampleTargetLen picks a character budget: 70% short, 20% medium,
// 10% long.
func (r *Runner) sampleTargetLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	roll := r.rng.Float64()
	switch {
	case roll < 0.7:
		return 200 + r.rng.Intn(100)
	case roll < 0.9:
		return 300 + r.rng.Intn(100)
	default:
		return 400 + r.rng.Intn(50)
	}
}

// truncateAtSentence cuts text to at most limit runes, preferring the
// last sentence boundary past 70% of the limit.
func truncateAtSentence(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	window := string(runes[:limit])
	cut := strings.LastIndexAny(window, ".!?")
	if cut < limit*7/10 {
		cut = strings.LastIndex(window, "\n")
	}
	if cut > 0 {
		return window[:cut+1]
	}
	return window
}
