package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseJudgment(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		ok       bool
		remember bool
		summary  string
	}{
		{
			name:     "bare object",
			text:     `{"hatirlanmali": true, "ozet": "Leo bir söylenti yaydı."}`,
			ok:       true,
			remember: true,
			summary:  "Leo bir söylenti yaydı.",
		},
		{
			name:     "wrapped in prose and fences",
			text:     "İşte analiz:\n```json\n{\"hatirlanmali\": false, \"ozet\": \"\"}\n```",
			ok:       true,
			remember: false,
		},
		{
			name: "braces inside strings",
			text: `{"hatirlanmali": true, "ozet": "küme {işareti} içeren özet"}`,
			ok:   true, remember: true,
			summary: "küme {işareti} içeren özet",
		},
		{name: "no json", text: "düz metin", ok: false},
		{name: "unbalanced", text: `{"hatirlanmali": true`, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, ok := parseJudgment(tt.text)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.remember, j.Remember)
				assert.Equal(t, tt.summary, j.Summary)
			}
		})
	}
}
