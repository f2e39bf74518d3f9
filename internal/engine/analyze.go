package engine

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/1Leo18/npcbot/pkg/prompts"
)

// MoveAnalysis scores a single roleplay move.
type MoveAnalysis struct {
	Detay  int    `json:"detay"`
	Mantik int    `json:"mantik"`
	Yorum  string `json:"yorum"`
}

// RoundAnalysis narrates one combat round.
type RoundAnalysis struct {
	Scenario  string `json:"scenario"`
	Avantaj   string `json:"avantaj"`
	NextRound bool   `json:"next_round"`
}

var (
	detayPattern   = regexp.MustCompile(`(?i)Detay: *(\d+)`)
	mantikPattern  = regexp.MustCompile(`(?i)Mantık: *(\d+)`)
	yorumPattern   = regexp.MustCompile(`(?i)Yorum: *(.*)`)
	senaryoPattern = regexp.MustCompile(`(?i)Senaryo: *(.*)`)
	avantajPattern = regexp.MustCompile(`(?i)Avantaj: *(.*)`)
	devamPattern   = regexp.MustCompile(`(?i)Devam: *(true|false)`)
)

// AnalyzeMove scores a move for detail and plausibility. Missing or
// unparseable labels fall back to neutral defaults.
func (e *Engine) AnalyzeMove(ctx context.Context, text string) (MoveAnalysis, error) {
	out, err := e.llm.Generate(ctx, prompts.AnalyzeMove(text))
	if err != nil {
		return MoveAnalysis{}, err
	}
	return MoveAnalysis{
		Detay:  labeledScore(detayPattern, out, 50),
		Mantik: labeledScore(mantikPattern, out, 50),
		Yorum:  labeledText(yorumPattern, out, "Yorum yok."),
	}, nil
}

// AnalyzeRound narrates a combat round from all players' moves.
func (e *Engine) AnalyzeRound(ctx context.Context, round prompts.BattleRound) (RoundAnalysis, error) {
	out, err := e.llm.Generate(ctx, prompts.AnalyzeRound(round))
	if err != nil {
		return RoundAnalysis{}, err
	}
	devam := "true"
	if m := devamPattern.FindStringSubmatch(out); m != nil {
		devam = strings.ToLower(m[1])
	}
	return RoundAnalysis{
		Scenario:  labeledText(senaryoPattern, out, "Savaş devam ediyor..."),
		Avantaj:   labeledText(avantajPattern, out, ""),
		NextRound: devam == "true",
	}, nil
}

func labeledScore(pattern *regexp.Regexp, text string, fallback int) int {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return fallback
	}
	score, err := strconv.Atoi(m[1])
	if err != nil {
		return fallback
	}
	return score
}

func labeledText(pattern *regexp.Regexp, text, fallback string) string {
	m := pattern.FindStringSubmatch(text)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return fallback
	}
	return strings.TrimSpace(m[1])
}
