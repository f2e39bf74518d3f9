package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1Leo18/npcbot/pkg/chat"
	"github.com/1Leo18/npcbot/pkg/economy"
	"github.com/1Leo18/npcbot/pkg/memory"
	"github.com/1Leo18/npcbot/pkg/npc"
)

func testNPC() *npc.Definition {
	return &npc.Definition{
		Name:        "Gorim",
		Role:        "Demirci",
		Personality: "Sert ama adil",
		Knowledge:   "Köyün en eski demircisidir.",
	}
}

func TestBuildRequiresNPCAndMessage(t *testing.T) {
	_, _, err := New().WithUserMessage("merhaba").Build()
	assert.Error(t, err)

	_, _, err = New().WithNPC(testNPC()).Build()
	assert.Error(t, err)
}

func TestBuildSystemInstruction(t *testing.T) {
	system, history, err := New().
		WithNPC(testNPC()).
		WithUser("user-1", "Leo").
		WithUserMessage("Merhaba usta").
		WithBalance(economy.Balance{Gold: 150, Silver: 3, Copper: 7}).
		WithCatalog([]npc.Item{{Name: "Demir Kılıç", Price: 100, Currency: economy.Gold}}).
		WithIdentities(map[string]string{"ayse": "user-2"}).
		WithGlobalMemory([]memory.GlobalEntry{{Source: "Leo", Content: "Kasabada ejderha görüldü."}}).
		Build()
	require.NoError(t, err)

	assert.Contains(t, system, "İsmin: Gorim")
	assert.Contains(t, system, "Rolün: Demirci")
	assert.Contains(t, system, "• **Demir Kılıç** - 100 altın")
	assert.Contains(t, system, "Sadece yukarıdaki eşyaları satabilirsin")
	assert.Contains(t, system, "Sadece Discord ID'si user-2 olan kişi gerçekten 'ayse' olabilir")
	assert.Contains(t, system, "Kasabada ejderha görüldü.")
	assert.Contains(t, system, "bakiyesi: 150 altın, 3 gümüş, 7 bakır")
	assert.Contains(t, system, "[FIYAT:miktar:birim]")
	assert.Contains(t, system, "Şu anda konuştuğun kişi: **Leo** (Discord ID: user-1)")

	require.Len(t, history, 1)
	assert.Equal(t, chat.Message{Role: chat.RoleUser, Text: "Merhaba usta"}, history[0])
}

func TestBuildEmptyCatalogAllowsImprovisation(t *testing.T) {
	system, _, err := New().
		WithNPC(testNPC()).
		WithUser("user-1", "Leo").
		WithUserMessage("selam").
		Build()
	require.NoError(t, err)
	assert.Contains(t, system, "**SATIŞ LİSTEN:** Boş.")
	assert.NotContains(t, system, "SATIŞ LİSTENDEKİ EŞYALAR")
}

func TestBuildDropsMalformedHistory(t *testing.T) {
	_, history, err := New().
		WithNPC(testNPC()).
		WithUser("user-1", "Leo").
		WithUserMessage("devam").
		WithHistory([]chat.Message{
			{Role: chat.RoleUser, Text: "ilk mesaj"},
			{Role: "narrator", Text: "geçersiz rol"},
			{Role: chat.RoleModel, Text: ""},
			{Role: chat.RoleModel, Text: "ilk cevap"},
		}).
		Build()
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "ilk mesaj", history[0].Text)
	assert.Equal(t, "ilk cevap", history[1].Text)
	assert.Equal(t, "devam", history[2].Text)
}

func TestBuildWarningComesFirst(t *testing.T) {
	warning := ImpersonationWarning("Efe", "ayse", "Leo", "user-2")
	system, _, err := New().
		WithNPC(testNPC()).
		WithUser("user-9", "Efe").
		WithUserMessage("Ben Ayse").
		WithWarning(warning).
		Build()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(system, "!!ACİL DURUM - SAHTEKARLIK TESPİT EDİLDİ!!"))
	assert.Contains(t, system, "'ayse' ismini kullanan kişi Leo (ID: user-2)")
}

func TestGlobalMemoryWindow(t *testing.T) {
	entries := make([]memory.GlobalEntry, memory.PromptGlobalWindow+5)
	for i := range entries {
		entries[i] = memory.GlobalEntry{Source: "x", Content: "olay"}
	}
	entries[0].Content = "en eski olay"
	system, _, err := New().
		WithNPC(testNPC()).
		WithUser("user-1", "Leo").
		WithUserMessage("selam").
		WithGlobalMemory(entries).
		Build()
	require.NoError(t, err)
	assert.NotContains(t, system, "en eski olay")
}

func TestMemoryJudgmentPrompt(t *testing.T) {
	p := MemoryJudgment("Leo", "Maki seni aramaya gelecek", "Gorim", "Maki de kim?")
	assert.Contains(t, p, `"hatirlanmali"`)
	assert.Contains(t, p, "Maki seni aramaya gelecek")
}

func TestAnalyzeRoundPrompt(t *testing.T) {
	p := AnalyzeRound(BattleRound{
		RoundNumber: 2,
		Moves: []BattleMove{{
			Player:    "Jon",
			MoveText:  "Kılıcıyla saldırır",
			Mantik:    80,
			Detay:     70,
			QTEResult: "başarılı",
			Stats:     map[string]int{"güç": 5, "hız": 2},
		}},
	})
	assert.Contains(t, p, "TUR: 2")
	assert.Contains(t, p, "güç=5, hız=2")
	assert.Contains(t, p, "Senaryo:")
}
