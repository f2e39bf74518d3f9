package discord

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1Leo18/npcbot/internal/behavior"
	"github.com/1Leo18/npcbot/internal/engine"
	"github.com/1Leo18/npcbot/internal/services"
	"github.com/1Leo18/npcbot/internal/storage"
	"github.com/1Leo18/npcbot/pkg/economy"
	"github.com/1Leo18/npcbot/pkg/npc"
)

// setupBot wires the command surface against miniredis without a
// gateway session.
func setupBot(t *testing.T) (*Bot, *storage.RedisStore, *services.MockLLM) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store := storage.NewRedisStore(mr.Addr(), logger)
	llm := services.NewMockLLM()
	runner := behavior.New(store, llm, nil, logger, time.Hour, time.Hour)
	t.Cleanup(runner.Shutdown)

	b := &Bot{
		store:   store,
		engine:  engine.New(store, llm, logger),
		runner:  runner,
		logger:  logger,
		prefix:  ".",
		waiting: make(map[string]roleplayWait),
		replies: make(map[string]replyTarget),
	}
	return b, store, llm
}

func seedNPC(t *testing.T, store *storage.RedisStore) *npc.Definition {
	t.Helper()
	def := &npc.Definition{Name: "Gorim", Role: "Demirci", Personality: "Sert ama adil"}
	require.NoError(t, store.SaveNPC(context.Background(), def))
	return def
}

func adminInv(command string, args ...string) invocation {
	return invocation{
		command:     command,
		args:        args,
		authorID:    "admin-1",
		displayName: "Leo",
		channelID:   "77777777777777777777",
		isAdmin:     true,
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	b, _, _ := setupBot(t)
	r, handled := b.dispatch(context.Background(), invocation{command: "bilinmeyen"})
	assert.False(t, handled)
	assert.Nil(t, r)
}

func TestAdminGate(t *testing.T) {
	b, store, _ := setupBot(t)
	seedNPC(t, store)

	inv := adminInv("npc-sil", "Gorim")
	inv.isAdmin = false
	r, handled := b.dispatch(context.Background(), inv)
	require.True(t, handled)
	assert.Equal(t, adminOnlyMessage, r.content)

	// the NPC is untouched
	def, err := store.GetNPC(context.Background(), "Gorim")
	require.NoError(t, err)
	assert.NotNil(t, def)
}

func TestWalletCommand(t *testing.T) {
	b, store, _ := setupBot(t)
	ctx := context.Background()
	_, err := store.AdjustBalance(ctx, "user-1", economy.Balance{Gold: 40, Silver: 2})
	require.NoError(t, err)

	r, handled := b.dispatch(ctx, invocation{command: "cüzdan", authorID: "user-1", displayName: "Leo"})
	require.True(t, handled)
	require.NotNil(t, r.embed)
	assert.Equal(t, "💰 Cüzdan", r.embed.Title)
	assert.Equal(t, "40", r.embed.Fields[0].Value)
	assert.Equal(t, "2", r.embed.Fields[1].Value)
	assert.Equal(t, "0", r.embed.Fields[2].Value)
}

func TestWalletCommandMentionTarget(t *testing.T) {
	b, store, _ := setupBot(t)
	ctx := context.Background()
	_, err := store.AdjustBalance(ctx, "user-2", economy.Balance{Copper: 9})
	require.NoError(t, err)

	inv := invocation{command: "cüzdan", authorID: "user-1", displayName: "Leo", mentionID: "user-2", mentionName: "Mira"}
	r, _ := b.dispatch(ctx, inv)
	assert.Contains(t, r.embed.Description, "Mira")
	assert.Equal(t, "9", r.embed.Fields[2].Value)
}

func TestKnowledgeAddRegistersIdentityRelations(t *testing.T) {
	b, store, _ := setupBot(t)
	ctx := context.Background()
	seedNPC(t, store)

	inv := adminInv("bilgi-ekle", "Gorim", "<123456789012345678>", "adındaki", "kişinin", "ismi", "Ayşe.")
	r, handled := b.dispatch(ctx, inv)
	require.True(t, handled)
	require.NotNil(t, r.embed)
	assert.Contains(t, r.embed.Title, "Bilgi Eklendi")

	def, err := store.GetNPC(ctx, "Gorim")
	require.NoError(t, err)
	assert.Contains(t, def.Knowledge, "ismi Ayşe.")

	claims, err := store.GetIdentities(ctx, def.ID())
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678", claims["ayşe"])
}

func TestKnowledgeEditReplacesAndClearDeletes(t *testing.T) {
	b, store, _ := setupBot(t)
	ctx := context.Background()
	def := seedNPC(t, store)
	def.Knowledge = "eski bilgi"
	require.NoError(t, store.SaveNPC(ctx, def))

	r, _ := b.dispatch(ctx, adminInv("bilgi-duzenle", "Gorim", "yeni", "bilgi"))
	require.NotNil(t, r.embed)
	updated, err := store.GetNPC(ctx, "Gorim")
	require.NoError(t, err)
	assert.Equal(t, "yeni bilgi", updated.Knowledge)

	r, _ = b.dispatch(ctx, adminInv("bilgi-sil", "Gorim"))
	require.NotNil(t, r.embed)
	cleared, err := store.GetNPC(ctx, "Gorim")
	require.NoError(t, err)
	assert.Empty(t, cleared.Knowledge)
}

func TestNPCAddPipeSeparated(t *testing.T) {
	b, store, _ := setupBot(t)
	ctx := context.Background()

	inv := adminInv("npc-ekle", "Zeliha", "|", "Şifacı", "|", "Nazik", "ve", "meraklı", "|", "Ormanı", "iyi", "bilir", "|", "hayır", "|", "10")
	r, handled := b.dispatch(ctx, inv)
	require.True(t, handled)
	assert.Equal(t, "✅ NPC başarıyla eklendi: Zeliha", r.content)

	def, err := store.GetNPC(ctx, "Zeliha")
	require.NoError(t, err)
	assert.Equal(t, "Şifacı", def.Role)
	assert.Equal(t, "Nazik ve meraklı", def.Personality)
	assert.Equal(t, "Ormanı iyi bilir", def.Knowledge)
	assert.False(t, def.IsVillain)
	assert.Equal(t, 10, def.DarknessLevel)
	assert.Equal(t, "neutral", def.MoralAlignment)
}

func TestNPCAddUsage(t *testing.T) {
	b, _, _ := setupBot(t)
	r, _ := b.dispatch(context.Background(), adminInv("npc-ekle", "SadeceIsim"))
	assert.Contains(t, r.content, "Kullanım")
}

func TestNPCDeleteStopsLoopAndCascades(t *testing.T) {
	b, store, _ := setupBot(t)
	ctx := context.Background()
	def := seedNPC(t, store)
	require.NoError(t, b.runner.Start(ctx, def.ID()))

	r, _ := b.dispatch(ctx, adminInv("npc-sil", "Gorim"))
	require.NotNil(t, r.embed)
	assert.Contains(t, r.embed.Title, "NPC Silindi")
	assert.False(t, b.runner.Running(def.ID()))

	gone, err := store.GetNPC(ctx, "Gorim")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestItemAddListDelete(t *testing.T) {
	b, store, _ := setupBot(t)
	ctx := context.Background()
	def := seedNPC(t, store)
	require.NoError(t, store.AddServerRole(ctx, "Demir Kılıç", 0xC0C0C0))

	r, _ := b.dispatch(ctx, adminInv("npc-eşya-ekle", "Gorim", "Demir", "Kılıç", "100", "altın"))
	require.NotNil(t, r.embed)
	assert.Contains(t, r.embed.Title, "Eşya Eklendi")

	item, err := store.GetItem(ctx, def.ID(), "demir kılıç")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 100, item.Price)
	assert.Equal(t, economy.Gold, item.Currency)

	// duplicate refused
	r, _ = b.dispatch(ctx, adminInv("npc-eşya-ekle", "Gorim", "Demir", "Kılıç", "100", "altın"))
	assert.Contains(t, r.content, "zaten")

	r, _ = b.dispatch(ctx, adminInv("npc-eşyalar", "Gorim"))
	require.NotNil(t, r.embed)
	assert.Contains(t, r.embed.Fields[0].Value, "Demir Kılıç")
	assert.Equal(t, "Yok", r.embed.Fields[1].Value)

	r, _ = b.dispatch(ctx, adminInv("npc-eşya-sil", "Gorim", "Demir", "Kılıç"))
	require.NotNil(t, r.embed)
	gone, err := store.GetItem(ctx, def.ID(), "Demir Kılıç")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestItemAddValidation(t *testing.T) {
	b, store, _ := setupBot(t)
	seedNPC(t, store)

	r, _ := b.dispatch(context.Background(), adminInv("npc-eşya-ekle", "Gorim", "Kalkan", "-5", "altın"))
	assert.Contains(t, r.content, "Geçersiz fiyat")

	r, _ = b.dispatch(context.Background(), adminInv("npc-eşya-ekle", "Gorim", "Kalkan", "50", "elmas"))
	assert.Contains(t, r.content, "Geçersiz para birimi")
}

func TestMoneyGiveAndTake(t *testing.T) {
	b, store, _ := setupBot(t)
	ctx := context.Background()

	inv := adminInv("para-ver", "@Mira", "120")
	inv.mentionID, inv.mentionName = "user-2", "Mira"
	r, _ := b.dispatch(ctx, inv)
	assert.Equal(t, "Mira adlı kullanıcıya 120 altın verildi.", r.content)

	inv.command = "para-al"
	inv.args = []string{"@Mira", "20"}
	r, _ = b.dispatch(ctx, inv)
	assert.Equal(t, "Mira adlı kullanıcıdan 20 altın alındı.", r.content)

	balance, err := store.GetBalance(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, 100, balance.Gold)
}

func TestRoleCommands(t *testing.T) {
	b, store, _ := setupBot(t)
	ctx := context.Background()

	inv := adminInv("rol-ekle", "@Mira", "Şövalye")
	inv.mentionID, inv.mentionName = "user-2", "Mira"
	r, _ := b.dispatch(ctx, inv)
	assert.Contains(t, r.content, "rolü eklendi")

	has, err := store.HasUserRole(ctx, "user-2", "Şövalye")
	require.NoError(t, err)
	assert.True(t, has)

	// Granting a role also makes it purchasable.
	serverRoles, err := store.GetServerRoles(ctx)
	require.NoError(t, err)
	assert.Contains(t, serverRoles, "Şövalye")

	inv.command = "rol-sil"
	r, _ = b.dispatch(ctx, inv)
	assert.Contains(t, r.content, "rolü silindi")
	has, err = store.HasUserRole(ctx, "user-2", "Şövalye")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestChannelCommands(t *testing.T) {
	b, store, _ := setupBot(t)
	ctx := context.Background()
	def := seedNPC(t, store)

	r, _ := b.dispatch(ctx, adminInv("npc-kanal-ekle", "Gorim", "<#123456789012345678>"))
	assert.Contains(t, r.content, "kanal eklendi")

	channels, err := store.GetChannels(ctx, def.ID())
	require.NoError(t, err)
	assert.Equal(t, []string{"123456789012345678"}, channels)

	// duplicate
	r, _ = b.dispatch(ctx, adminInv("npc-kanal-ekle", "Gorim", "123456789012345678"))
	assert.Contains(t, r.content, "zaten")

	// malformed
	r, _ = b.dispatch(ctx, adminInv("npc-kanal-ekle", "Gorim", "kanal"))
	assert.Contains(t, r.content, "mention formatında")

	r, handled := b.dispatch(ctx, invocation{command: "npc-kanallar", args: []string{"Gorim"}})
	require.True(t, handled)
	require.NotNil(t, r.embed)
	assert.Contains(t, r.embed.Fields[0].Value, "123456789012345678")

	r, _ = b.dispatch(ctx, adminInv("npc-kanal-sil", "Gorim", "123456789012345678"))
	assert.Contains(t, r.content, "kanal silindi")
	channels, err = store.GetChannels(ctx, def.ID())
	require.NoError(t, err)
	assert.Empty(t, channels)
}

func TestBehaviorConfigCommand(t *testing.T) {
	b, store, _ := setupBot(t)
	ctx := context.Background()
	def := seedNPC(t, store)

	r, _ := b.dispatch(ctx, adminInv("npc-davranış-ayarla", "Gorim", "work", "Örs", "başındayım,", "rahatsız", "etme."))
	assert.Contains(t, r.content, "work davranışı ayarlandı")

	cfg, err := store.GetBehaviorConfig(ctx, def.ID())
	require.NoError(t, err)
	assert.Equal(t, "Örs başındayım, rahatsız etme.", cfg.WorkMessages)

	r, _ = b.dispatch(ctx, adminInv("npc-davranış-ayarla", "Gorim", "uçuş", "şablon"))
	assert.Contains(t, r.content, "Geçersiz davranış tipi")
}

func TestScheduleSetRestartsRunningLoop(t *testing.T) {
	b, store, _ := setupBot(t)
	ctx := context.Background()
	def := seedNPC(t, store)
	require.NoError(t, b.runner.Start(ctx, def.ID()))

	r, _ := b.dispatch(ctx, adminInv("npc-zaman-ayarla", "Gorim", "15"))
	assert.Contains(t, r.content, "15 dakika")

	sched, err := store.GetSchedule(ctx, def.ID())
	require.NoError(t, err)
	assert.Equal(t, 15, sched.IntervalMinutes)
	assert.True(t, b.runner.Running(def.ID()))
}

func TestGoalAndEmotionCommands(t *testing.T) {
	b, store, _ := setupBot(t)
	ctx := context.Background()
	def := seedNPC(t, store)

	r, _ := b.dispatch(ctx, adminInv("npc-hedef-ayarla", "Gorim", "longterm", "usta", "demirci", "olmak"))
	assert.Contains(t, r.content, "longterm hedefi ayarlandı")
	goals, err := store.GetGoals(ctx, def.ID())
	require.NoError(t, err)
	assert.Equal(t, []string{"usta demirci olmak"}, goals.LongTerm)

	r, _ = b.dispatch(ctx, adminInv("npc-duygu-ayarla", "Gorim", "anger", "90"))
	assert.Contains(t, r.content, "anger duygusu 90")
	emotions, err := store.GetEmotions(ctx, def.ID())
	require.NoError(t, err)
	assert.Equal(t, 90, emotions.Anger)
	assert.Equal(t, "anger", emotions.DominantEmotion)

	r, _ = b.dispatch(ctx, adminInv("npc-duygu-ayarla", "Gorim", "anger", "500"))
	assert.Contains(t, r.content, "Kullanım")
}

func TestBehaviorStartStopCommands(t *testing.T) {
	b, store, _ := setupBot(t)
	ctx := context.Background()
	def := seedNPC(t, store)

	r, _ := b.dispatch(ctx, invocation{command: "npc-zamanlayıcısı", args: []string{"Gorim"}})
	assert.Contains(t, r.content, "zamanlayıcısı başlatıldı")
	assert.True(t, b.runner.Running(def.ID()))

	r, _ = b.dispatch(ctx, adminInv("npc-bağımsız-durdur", "Gorim"))
	assert.Contains(t, r.content, "durduruldu")
	assert.False(t, b.runner.Running(def.ID()))
}

func TestNPCStatusCommand(t *testing.T) {
	b, store, _ := setupBot(t)
	ctx := context.Background()
	seedNPC(t, store)

	r, handled := b.dispatch(ctx, invocation{command: "npc-durum", args: []string{"Gorim"}})
	require.True(t, handled)
	require.NotNil(t, r.embed)
	assert.Contains(t, r.embed.Title, "Durum Raporu")
	// defaults for a never-simulated NPC
	assert.Contains(t, r.embed.Fields[0].Value, "idle")
	assert.Contains(t, r.embed.Fields[1].Value, "survive")
	assert.Contains(t, r.embed.Fields[2].Value, "neutral")
}

func TestPurchaseCommandDelegatesToEngine(t *testing.T) {
	b, store, _ := setupBot(t)
	ctx := context.Background()
	seedNPC(t, store)

	// no prior conversation, so the finalizer has no tagged offer
	r, _ := b.dispatch(ctx, invocation{command: "satın-al", args: []string{"Gorim"}, authorID: "user-1", displayName: "Leo"})
	assert.Contains(t, r.content, "Satın alınacak bir ürün bulunamadı")
}

func TestIsCommandName(t *testing.T) {
	assert.True(t, isCommandName("cüzdan"))
	assert.True(t, isCommandName("YARDIM"))
	assert.False(t, isCommandName("gorim"))
}

func TestSleepCommands(t *testing.T) {
	b, store, _ := setupBot(t)
	ctx := context.Background()
	seedNPC(t, store)

	r, handled := b.dispatch(ctx, adminInv("npc-sleep", "set", "Gorim", "22:30", "06:30"))
	require.True(t, handled)
	assert.Contains(t, r.content, "uyku programı ayarlandı: 22:30 - 06:30")

	sleep, err := store.GetSleep(ctx, "gorim")
	require.NoError(t, err)
	assert.Equal(t, "22:30", sleep.Schedule.BedTime)
	assert.Equal(t, "06:30", sleep.Schedule.WakeTime)

	r, _ = b.dispatch(ctx, adminInv("npc-sleep", "set", "Gorim", "25:00", "06:30"))
	assert.Contains(t, r.content, "Saat formatı HH:MM olmalıdır")

	r, _ = b.dispatch(ctx, adminInv("npc-sleep", "force", "Gorim", "sleep"))
	assert.Contains(t, r.content, "zorla uyutuldu")
	sleep, err = store.GetSleep(ctx, "gorim")
	require.NoError(t, err)
	assert.True(t, sleep.IsAsleep)

	r, _ = b.dispatch(ctx, invocation{command: "npc-sleep", args: []string{"status", "Gorim"}})
	require.NotNil(t, r.embed)
	assert.Contains(t, r.embed.Title, "Uyku Durumu")
	assert.Equal(t, "Uyuyor", r.embed.Fields[0].Value)

	r, _ = b.dispatch(ctx, adminInv("npc-sleep", "force", "Gorim", "wake"))
	assert.Contains(t, r.content, "zorla uyandırıldı")
	sleep, err = store.GetSleep(ctx, "gorim")
	require.NoError(t, err)
	assert.False(t, sleep.IsAsleep)

	// set and force are admin-gated, status is not
	r, _ = b.dispatch(ctx, invocation{command: "npc-sleep", args: []string{"force", "Gorim", "sleep"}})
	assert.Equal(t, adminOnlyMessage, r.content)
}

func TestRoutineCommands(t *testing.T) {
	b, store, _ := setupBot(t)
	ctx := context.Background()
	seedNPC(t, store)

	r, handled := b.dispatch(ctx, adminInv("npc-routine", "set", "Gorim", "morning", "work,breakfast"))
	require.True(t, handled)
	assert.Contains(t, r.content, "morning rutini ayarlandı: work, breakfast")

	routine, err := store.GetRoutine(ctx, "gorim")
	require.NoError(t, err)
	assert.Equal(t, []string{"work", "breakfast"}, routine.Morning)

	r, _ = b.dispatch(ctx, adminInv("npc-routine", "set", "Gorim", "morning", "uçmak"))
	assert.Contains(t, r.content, "Geçersiz aktivite: uçmak")

	r, _ = b.dispatch(ctx, adminInv("npc-routine", "set", "Gorim", "öğlen", "work"))
	assert.Contains(t, r.content, "Zaman dilimi")

	r, _ = b.dispatch(ctx, invocation{command: "npc-routine", args: []string{"view", "Gorim"}})
	require.NotNil(t, r.embed)
	assert.Contains(t, r.embed.Title, "Günlük Rutin")
	assert.Equal(t, "work, breakfast", r.embed.Fields[0].Value)

	r, _ = b.dispatch(ctx, adminInv("npc-routine", "reset", "Gorim"))
	assert.Contains(t, r.content, "varsayılan ayarlara sıfırlandı")
	routine, err = store.GetRoutine(ctx, "gorim")
	require.NoError(t, err)
	assert.Equal(t, npc.DefaultDailyRoutine().Morning, routine.Morning)
}
