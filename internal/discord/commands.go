package discord

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/1Leo18/npcbot/pkg/economy"
	"github.com/1Leo18/npcbot/pkg/npc"
	"github.com/1Leo18/npcbot/pkg/turkish"
)

const adminOnlyMessage = "Bu komutu sadece yöneticiler kullanabilir."

// invocation is a parsed command message, decoupled from the gateway
// types so command logic can be exercised directly in tests.
type invocation struct {
	command     string
	args        []string
	authorID    string
	displayName string
	channelID   string
	mentionID   string
	mentionName string
	isAdmin     bool
}

type reply struct {
	content string
	embed   *discordgo.MessageEmbed
}

func text(content string) *reply {
	return &reply{content: content}
}

func embedReply(embed *discordgo.MessageEmbed) *reply {
	return &reply{embed: embed}
}

var commandNames = map[string]bool{
	"yardım": true, "cüzdan": true, "satın-al": true,
	"bilgi-gör": true, "bilgi-ekle": true, "bilgi-duzenle": true, "bilgi-sil": true,
	"npc-ekle": true, "npc-liste": true, "npc-sil": true, "npc-mesaj": true,
	"npc-zamanlayıcısı": true, "npc-zamanlayıcıları": true, "npc-zamanlayıcıları-dur": true,
	"npc-kanal-ekle": true, "npc-kanal-sil": true, "npc-kanallar": true,
	"npc-davranış-ayarla": true, "npc-zaman-ayarla": true, "npc-hedef-ayarla": true,
	"npc-duygu-ayarla": true, "npc-durum": true,
	"npc-bağımsız-başlat": true, "npc-bağımsız-durdur": true,
	"npc-eşyalar": true, "npc-eşya-ekle": true, "npc-eşya-sil": true, "npc-eşya-liste": true,
	"rol-ekle": true, "rol-sil": true, "para-ver": true, "para-al": true,
	"npc-sleep": true, "npc-routine": true,
}

func isCommandName(word string) bool {
	return commandNames[turkish.Lower(word)]
}

// adminCommands require the Administrator permission.
var adminCommands = map[string]bool{
	"bilgi-ekle": true, "bilgi-duzenle": true, "bilgi-sil": true,
	"npc-ekle": true, "npc-sil": true,
	"npc-eşya-ekle": true, "npc-eşya-sil": true,
	"para-ver": true, "para-al": true, "rol-ekle": true, "rol-sil": true,
	"npc-kanal-ekle": true, "npc-kanal-sil": true,
	"npc-davranış-ayarla": true, "npc-zaman-ayarla": true,
	"npc-hedef-ayarla": true, "npc-duygu-ayarla": true,
	"npc-bağımsız-başlat": true, "npc-bağımsız-durdur": true,
}

func (b *Bot) dispatch(ctx context.Context, inv invocation) (*reply, bool) {
	if !commandNames[inv.command] {
		return nil, false
	}
	if adminCommands[inv.command] && !inv.isAdmin {
		return text(adminOnlyMessage), true
	}

	switch inv.command {
	case "cüzdan":
		return b.cmdWallet(ctx, inv), true
	case "satın-al":
		return b.cmdPurchase(ctx, inv), true
	case "bilgi-gör":
		return b.cmdKnowledgeShow(ctx, inv), true
	case "bilgi-ekle":
		return b.cmdKnowledgeAdd(ctx, inv), true
	case "bilgi-duzenle":
		return b.cmdKnowledgeEdit(ctx, inv), true
	case "bilgi-sil":
		return b.cmdKnowledgeClear(ctx, inv), true
	case "npc-ekle":
		return b.cmdNPCAdd(ctx, inv), true
	case "npc-liste":
		return b.cmdNPCList(ctx), true
	case "npc-sil":
		return b.cmdNPCDelete(ctx, inv), true
	case "npc-eşyalar", "npc-eşya-liste":
		return b.cmdItemList(ctx, inv), true
	case "npc-eşya-ekle":
		return b.cmdItemAdd(ctx, inv), true
	case "npc-eşya-sil":
		return b.cmdItemDelete(ctx, inv), true
	case "para-ver":
		return b.cmdMoneyGive(ctx, inv), true
	case "para-al":
		return b.cmdMoneyTake(ctx, inv), true
	case "rol-ekle":
		return b.cmdRoleAdd(ctx, inv), true
	case "rol-sil":
		return b.cmdRoleRemove(ctx, inv), true
	case "npc-mesaj":
		return b.cmdNPCMessage(ctx, inv), true
	case "npc-zamanlayıcısı", "npc-bağımsız-başlat":
		return b.cmdBehaviorStart(ctx, inv), true
	case "npc-bağımsız-durdur":
		return b.cmdBehaviorStop(ctx, inv), true
	case "npc-zamanlayıcıları":
		return b.cmdBehaviorStartAll(ctx), true
	case "npc-zamanlayıcıları-dur":
		return b.cmdBehaviorStopAll(ctx), true
	case "npc-kanal-ekle":
		return b.cmdChannelAdd(ctx, inv), true
	case "npc-kanal-sil":
		return b.cmdChannelRemove(ctx, inv), true
	case "npc-kanallar":
		return b.cmdChannelList(ctx, inv), true
	case "npc-davranış-ayarla":
		return b.cmdBehaviorConfig(ctx, inv), true
	case "npc-zaman-ayarla":
		return b.cmdScheduleSet(ctx, inv), true
	case "npc-hedef-ayarla":
		return b.cmdGoalSet(ctx, inv), true
	case "npc-duygu-ayarla":
		return b.cmdEmotionSet(ctx, inv), true
	case "npc-durum":
		return b.cmdNPCStatus(ctx, inv), true
	case "npc-sleep":
		return b.cmdSleep(ctx, inv), true
	case "npc-routine":
		return b.cmdRoutine(ctx, inv), true
	case "yardım":
		return b.cmdHelp(), true
	}
	return nil, false
}

func notFound(name string) *reply {
	return text("'" + name + "' isminde bir NPC bulunamadı.")
}

// lookupNPC loads the definition for asking-by-name commands.
func (b *Bot) lookupNPC(ctx context.Context, name string) (*npc.Definition, *reply) {
	def, err := b.store.GetNPC(ctx, name)
	if err != nil {
		b.logger.Error("Failed to load NPC", "npc", name, "error", err)
		return nil, text("Bir hata oluştu, lütfen tekrar deneyin.")
	}
	if def == nil {
		return nil, notFound(name)
	}
	return def, nil
}

func (b *Bot) cmdWallet(ctx context.Context, inv invocation) *reply {
	targetID, targetName := inv.authorID, inv.displayName
	if inv.mentionID != "" {
		targetID, targetName = inv.mentionID, inv.mentionName
	}

	balance, err := b.store.GetBalance(ctx, targetID)
	if err != nil {
		b.logger.Error("Failed to read balance", "user_id", targetID, "error", err)
		return text("Bakiye okunamadı, lütfen tekrar deneyin.")
	}

	return embedReply(&discordgo.MessageEmbed{
		Title:       "💰 Cüzdan",
		Description: targetName + " adlı kullanıcının bakiyesi:",
		Color:       0xFFD700,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🥇 Altın", Value: strconv.Itoa(balance.Gold), Inline: true},
			{Name: "🥈 Gümüş", Value: strconv.Itoa(balance.Silver), Inline: true},
			{Name: "🥉 Bakır", Value: strconv.Itoa(balance.Copper), Inline: true},
		},
	})
}

func (b *Bot) cmdPurchase(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 1 {
		return text("Kullanım: `" + b.prefix + "satın-al <npc_ismi>`")
	}
	result, err := b.engine.Purchase(ctx, inv.args[0], inv.authorID, inv.displayName)
	if err != nil {
		b.logger.Error("Purchase failed", "npc", inv.args[0], "error", err)
		return text("Bir hata oluştu, lütfen tekrar deneyin.")
	}
	return text(result)
}

func (b *Bot) cmdKnowledgeShow(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 1 {
		return text("Kullanım: `" + b.prefix + "bilgi-gör <npc_ismi>`")
	}
	def, errReply := b.lookupNPC(ctx, inv.args[0])
	if errReply != nil {
		return errReply
	}

	knowledge := def.Knowledge
	if knowledge == "" {
		knowledge = "Bu NPC için özel bir çekirdek bilgi girilmemiş."
	}
	return embedReply(&discordgo.MessageEmbed{
		Title:       "📜 " + def.Name + " - Çekirdek Bilgileri",
		Description: knowledge,
		Color:       0x3498DB,
	})
}

// identityRelation matches "<DiscordID> ... ismi <Name>." statements in
// knowledge text, so relations written as lore also register as
// identity claims.
var identityRelation = regexp.MustCompile(`<(\d{17,20})>[^\n]*ismi ([^.]+)\.`)

func (b *Bot) registerKnowledgeIdentities(ctx context.Context, npcID, knowledge string) {
	matches := identityRelation.FindAllStringSubmatch(knowledge, -1)
	if len(matches) == 0 {
		return
	}
	claims, err := b.store.GetIdentities(ctx, npcID)
	if err != nil {
		b.logger.Warn("Failed to load identities", "npc", npcID, "error", err)
		return
	}
	for _, m := range matches {
		claims[turkish.Lower(strings.TrimSpace(m[2]))] = m[1]
	}
	if err := b.store.SetIdentities(ctx, npcID, claims); err != nil {
		b.logger.Warn("Failed to save identities", "npc", npcID, "error", err)
	}
}

func (b *Bot) cmdKnowledgeAdd(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 2 {
		return text("Kullanım: `" + b.prefix + "bilgi-ekle <npc_ismi> <eklenecek_bilgi>`\nVar olan bilginin sonuna ekleme yapar.")
	}
	def, errReply := b.lookupNPC(ctx, inv.args[0])
	if errReply != nil {
		return errReply
	}

	addition := strings.Join(inv.args[1:], " ")
	b.registerKnowledgeIdentities(ctx, def.ID(), addition)

	if def.Knowledge != "" {
		def.Knowledge += "\n" + addition
	} else {
		def.Knowledge = addition
	}
	if err := b.store.SaveNPC(ctx, def); err != nil {
		b.logger.Error("Failed to save NPC knowledge", "npc", def.Name, "error", err)
		return text("Bilgi kaydedilemedi, lütfen tekrar deneyin.")
	}

	total := def.Knowledge
	if len(total) > 1020 {
		total = total[:1020] + "..."
	}
	return embedReply(&discordgo.MessageEmbed{
		Title:       "✅ Bilgi Eklendi: " + def.Name,
		Description: "**Eklenen Bilgi:**\n" + addition,
		Color:       0x2ECC71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Yeni Toplam Bilgi", Value: total},
		},
	})
}

func (b *Bot) cmdKnowledgeEdit(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 2 {
		return text("Kullanım: `" + b.prefix + "bilgi-duzenle <npc_ismi> <yeni_tüm_bilgi>`\nVar olan bilgiyi tamamen değiştirir.")
	}
	def, errReply := b.lookupNPC(ctx, inv.args[0])
	if errReply != nil {
		return errReply
	}

	def.Knowledge = strings.Join(inv.args[1:], " ")
	b.registerKnowledgeIdentities(ctx, def.ID(), def.Knowledge)
	if err := b.store.SaveNPC(ctx, def); err != nil {
		b.logger.Error("Failed to save NPC knowledge", "npc", def.Name, "error", err)
		return text("Bilgi kaydedilemedi, lütfen tekrar deneyin.")
	}

	return embedReply(&discordgo.MessageEmbed{
		Title:       "📝 Bilgi Düzenlendi: " + def.Name,
		Description: def.Knowledge,
		Color:       0xE67E22,
	})
}

func (b *Bot) cmdKnowledgeClear(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 1 {
		return text("Kullanım: `" + b.prefix + "bilgi-sil <npc_ismi>`")
	}
	def, errReply := b.lookupNPC(ctx, inv.args[0])
	if errReply != nil {
		return errReply
	}

	def.Knowledge = ""
	if err := b.store.SaveNPC(ctx, def); err != nil {
		b.logger.Error("Failed to clear NPC knowledge", "npc", def.Name, "error", err)
		return text("Bilgi silinemedi, lütfen tekrar deneyin.")
	}
	return embedReply(&discordgo.MessageEmbed{
		Title:       "🗑️ Bilgi Silindi: " + def.Name,
		Description: "Bu NPC'nin tüm çekirdek bilgileri silindi.",
		Color:       0xE74C3C,
	})
}

// cmdNPCAdd creates an NPC from pipe-separated fields:
// isim | görev | kişilik | bilgi | villain(evet/hayır) | karanlık(0-100) | eylemler | hizalama
// Only the first three are required.
func (b *Bot) cmdNPCAdd(ctx context.Context, inv invocation) *reply {
	fields := strings.Split(strings.Join(inv.args, " "), "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) < 3 || fields[0] == "" || fields[1] == "" || fields[2] == "" {
		return text("Kullanım: `" + b.prefix + "npc-ekle <isim> | <görev> | <kişilik> [| <bilgi> | <villain evet/hayır> | <karanlık 0-100> | <eylemler virgülle> | <hizalama>]`")
	}

	def := &npc.Definition{
		Name:           fields[0],
		Role:           fields[1],
		Personality:    fields[2],
		MoralAlignment: "neutral",
	}
	if len(fields) > 3 {
		def.Knowledge = fields[3]
	}
	if len(fields) > 4 {
		def.IsVillain = turkish.Lower(fields[4]) == "evet"
	}
	if len(fields) > 5 {
		if level, err := strconv.Atoi(fields[5]); err == nil {
			def.DarknessLevel = level
		}
	}
	if len(fields) > 6 && fields[6] != "" {
		for _, action := range strings.Split(fields[6], ",") {
			if a := strings.TrimSpace(action); a != "" {
				def.AllowedActions = append(def.AllowedActions, a)
			}
		}
	}
	if len(fields) > 7 && fields[7] != "" {
		def.MoralAlignment = turkish.Lower(fields[7])
	}

	if err := b.store.SaveNPC(ctx, def); err != nil {
		b.logger.Error("Failed to save NPC", "npc", def.Name, "error", err)
		return text("NPC kaydedilemedi, lütfen tekrar deneyin.")
	}
	return text("✅ NPC başarıyla eklendi: " + def.Name)
}

func (b *Bot) cmdNPCList(ctx context.Context) *reply {
	defs, err := b.store.ListNPCs(ctx)
	if err != nil {
		b.logger.Error("Failed to list NPCs", "error", err)
		return text("NPC listesi okunamadı, lütfen tekrar deneyin.")
	}
	if len(defs) == 0 {
		return text("Henüz hiç NPC oluşturulmamış.")
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🤖 NPC Listesi",
		Description: fmt.Sprintf("Toplam **%d** NPC bulundu:", len(defs)),
		Color:       0x3498DB,
	}
	for i, def := range defs {
		preview := def.Knowledge
		if preview == "" {
			preview = "Bilgi girilmemiş"
		} else if len(preview) > 100 {
			preview = preview[:100] + "..."
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%d. %s", i+1, def.Name),
			Value: "**Rol:** " + def.Role + "\n**Kişilik:** " + def.Personality + "\n**Bilgi:** " + preview,
		})
	}
	return embedReply(embed)
}

func (b *Bot) cmdNPCDelete(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 1 {
		return text("Kullanım: `" + b.prefix + "npc-sil <npc_ismi>`")
	}
	def, errReply := b.lookupNPC(ctx, inv.args[0])
	if errReply != nil {
		return errReply
	}

	b.runner.Stop(ctx, def.ID())
	if err := b.store.DeleteNPC(ctx, def.Name); err != nil {
		b.logger.Error("Failed to delete NPC", "npc", def.Name, "error", err)
		return text("NPC silinemedi, lütfen tekrar deneyin.")
	}

	return embedReply(&discordgo.MessageEmbed{
		Title:       "🗑️ NPC Silindi: " + def.Name,
		Description: "**Rol:** " + def.Role + "\n**Kişilik:** " + def.Personality + "\n\nBu NPC'nin tüm verileri (hafıza, kimlik bilgileri) da silindi.",
		Color:       0xE74C3C,
	})
}

func (b *Bot) cmdItemList(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 1 {
		return text("Kullanım: `" + b.prefix + "npc-eşya-liste <npc_ismi>`")
	}
	def, errReply := b.lookupNPC(ctx, inv.args[0])
	if errReply != nil {
		return errReply
	}

	items, err := b.store.GetItems(ctx, def.ID())
	if err != nil {
		b.logger.Error("Failed to list items", "npc", def.Name, "error", err)
		return text("Eşya listesi okunamadı, lütfen tekrar deneyin.")
	}
	if len(items) == 0 {
		return text("📦 " + def.Name + " için hiç eşya tanımlanmamış.")
	}

	serverRoles, err := b.store.GetServerRoles(ctx)
	if err != nil {
		b.logger.Warn("Failed to load server roles", "error", err)
	}

	var sellable, missing []string
	for _, item := range items {
		line := fmt.Sprintf("• **%s** - %d %s", item.Name, item.Price, item.Currency)
		if containsFold(serverRoles, item.Name) {
			sellable = append(sellable, line)
		} else {
			missing = append(missing, line)
		}
	}

	embed := &discordgo.MessageEmbed{
		Title: "🛒 " + def.Name + " - Satış Listesi",
		Color: 0x3498DB,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "✅ Satılabilir Eşyalar", Value: orDefault(strings.Join(sellable, "\n"), "Yok")},
			{Name: "❌ Sunucuda Bulunmayan Eşyalar", Value: orDefault(strings.Join(missing, "\n"), "Yok")},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Toplam %d eşya tanımlı, %d tanesi satılabilir", len(items), len(sellable)),
		},
	}
	return embedReply(embed)
}

func (b *Bot) cmdItemAdd(ctx context.Context, inv invocation) *reply {
	usage := text("Kullanım: `" + b.prefix + "npc-eşya-ekle <npc_ismi> <eşya_adı> <fiyat> <altın|gümüş|bakır>`")
	if len(inv.args) < 4 {
		return usage
	}
	def, errReply := b.lookupNPC(ctx, inv.args[0])
	if errReply != nil {
		return errReply
	}

	// Multi-word item names: everything between the NPC and the price.
	itemName := strings.Join(inv.args[1:len(inv.args)-2], " ")
	price, err := strconv.Atoi(inv.args[len(inv.args)-2])
	if err != nil || price <= 0 {
		return text("❌ Geçersiz fiyat! Lütfen pozitif bir sayı girin.")
	}
	currency, ok := economy.ParseCurrency(inv.args[len(inv.args)-1])
	if !ok {
		return text("❌ Geçersiz para birimi! Lütfen altın, gümüş veya bakır girin.")
	}

	if existing, err := b.store.GetItem(ctx, def.ID(), itemName); err == nil && existing != nil {
		return text("❌ Bu eşya zaten " + def.Name + " için eklenmiş!")
	}

	item := npc.Item{Name: itemName, Price: price, Currency: currency, AddedAt: time.Now()}
	if err := b.store.SetItem(ctx, def.ID(), item); err != nil {
		b.logger.Error("Failed to save item", "npc", def.Name, "item", itemName, "error", err)
		return text("Eşya kaydedilemedi, lütfen tekrar deneyin.")
	}

	return embedReply(&discordgo.MessageEmbed{
		Title: "✅ Eşya Eklendi: " + def.Name,
		Color: 0x2ECC71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📦 Eşya Adı", Value: itemName, Inline: true},
			{Name: "💰 Fiyat", Value: fmt.Sprintf("%d %s", price, currency), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Eşya NPC'nin satış listesine eklendi"},
	})
}

func (b *Bot) cmdItemDelete(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 2 {
		return text("Kullanım: `" + b.prefix + "npc-eşya-sil <npc_ismi> <eşya_adı>`")
	}
	def, errReply := b.lookupNPC(ctx, inv.args[0])
	if errReply != nil {
		return errReply
	}

	itemName := strings.Join(inv.args[1:], " ")
	existing, err := b.store.GetItem(ctx, def.ID(), itemName)
	if err != nil || existing == nil {
		return text("❌ '" + itemName + "' isimli eşya " + def.Name + " için bulunamadı!")
	}
	if err := b.store.DeleteItem(ctx, def.ID(), itemName); err != nil {
		b.logger.Error("Failed to delete item", "npc", def.Name, "item", itemName, "error", err)
		return text("Eşya silinemedi, lütfen tekrar deneyin.")
	}

	return embedReply(&discordgo.MessageEmbed{
		Title: "🗑️ Eşya Silindi: " + def.Name,
		Color: 0xE74C3C,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📦 Silinen Eşya", Value: existing.Name, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Eşya NPC'nin satış listesinden silindi"},
	})
}

func (b *Bot) cmdMoneyGive(ctx context.Context, inv invocation) *reply {
	amount, ok := mentionAmount(inv)
	if !ok {
		return text("Kullanım: `" + b.prefix + "para-ver @kullanıcı <miktar>`")
	}
	if _, err := b.store.AdjustBalance(ctx, inv.mentionID, economy.Balance{Gold: amount}); err != nil {
		b.logger.Error("Failed to credit user", "user_id", inv.mentionID, "error", err)
		return text("Para verme işlemi başarısız oldu.")
	}
	return text(fmt.Sprintf("%s adlı kullanıcıya %d altın verildi.", inv.mentionName, amount))
}

func (b *Bot) cmdMoneyTake(ctx context.Context, inv invocation) *reply {
	amount, ok := mentionAmount(inv)
	if !ok {
		return text("Kullanım: `" + b.prefix + "para-al @kullanıcı <miktar>`")
	}
	if _, err := b.store.AdjustBalance(ctx, inv.mentionID, economy.Balance{Gold: -amount}); err != nil {
		b.logger.Error("Failed to debit user", "user_id", inv.mentionID, "error", err)
		return text("Para alma işlemi başarısız oldu.")
	}
	return text(fmt.Sprintf("%s adlı kullanıcıdan %d altın alındı.", inv.mentionName, amount))
}

// mentionAmount extracts the mention target and the trailing positive
// amount shared by para-ver and para-al.
func mentionAmount(inv invocation) (int, bool) {
	if inv.mentionID == "" || len(inv.args) < 2 {
		return 0, false
	}
	amount, err := strconv.Atoi(inv.args[len(inv.args)-1])
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}

func (b *Bot) cmdRoleAdd(ctx context.Context, inv invocation) *reply {
	if inv.mentionID == "" || len(inv.args) < 2 {
		return text("Kullanım: `" + b.prefix + "rol-ekle @kullanıcı <rol_adı>`")
	}
	role := inv.args[len(inv.args)-1]
	if err := b.store.AddUserRole(ctx, inv.mentionID, role); err != nil {
		b.logger.Error("Failed to add role", "user_id", inv.mentionID, "role", role, "error", err)
		return text("❌ Rol ekleme işlemi başarısız oldu.")
	}
	// A manually granted role also becomes purchasable server-wide,
	// with the default green color.
	if err := b.store.AddServerRole(ctx, role, 0x00FF00); err != nil {
		b.logger.Error("Failed to register server role", "role", role, "error", err)
	}
	return text("✅ " + inv.mentionName + " adlı kullanıcıya **" + role + "** rolü eklendi!")
}

func (b *Bot) cmdRoleRemove(ctx context.Context, inv invocation) *reply {
	if inv.mentionID == "" || len(inv.args) < 2 {
		return text("Kullanım: `" + b.prefix + "rol-sil @kullanıcı <rol_adı>`")
	}
	role := inv.args[len(inv.args)-1]
	if err := b.store.RemoveUserRole(ctx, inv.mentionID, role); err != nil {
		b.logger.Error("Failed to remove role", "user_id", inv.mentionID, "role", role, "error", err)
		return text("❌ Rol silme işlemi başarısız oldu.")
	}
	return text("✅ " + inv.mentionName + " adlı kullanıcıdan **" + role + "** rolü silindi!")
}

func (b *Bot) cmdNPCMessage(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 1 {
		return text("Kullanım: `" + b.prefix + "npc-mesaj <npc_ismi> [mesaj_tipi]`")
	}
	def, errReply := b.lookupNPC(ctx, inv.args[0])
	if errReply != nil {
		return errReply
	}

	messageType := "random"
	if len(inv.args) > 1 {
		messageType = turkish.Lower(inv.args[1])
	}
	switch messageType {
	case "random", "arrival", "departure", "work":
	default:
		return text("Geçersiz mesaj tipi. Geçerli tipler: random, arrival, departure, work")
	}

	if err := b.runner.PostTemplate(ctx, def.ID(), inv.channelID, messageType); err != nil {
		b.logger.Error("Failed to send template message", "npc", def.Name, "error", err)
		return text("Mesaj gönderilemedi, lütfen tekrar deneyin.")
	}
	return text(fmt.Sprintf("✅ %s için %s türünde bir bağımsız mesaj gönderildi.", def.Name, messageType))
}

func (b *Bot) cmdBehaviorStart(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 1 {
		return text("Kullanım: `" + b.prefix + inv.command + " <npc_ismi>`")
	}
	def, errReply := b.lookupNPC(ctx, inv.args[0])
	if errReply != nil {
		return errReply
	}
	if err := b.runner.Start(ctx, def.ID()); err != nil {
		b.logger.Error("Failed to start behavior loop", "npc", def.Name, "error", err)
		return text("Zamanlayıcı başlatılamadı, lütfen tekrar deneyin.")
	}
	return text("✅ " + def.Name + " için bağımsız mesaj zamanlayıcısı başlatıldı.")
}

func (b *Bot) cmdBehaviorStop(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 1 {
		return text("Kullanım: `" + b.prefix + "npc-bağımsız-durdur <npc_ismi>`")
	}
	def, errReply := b.lookupNPC(ctx, inv.args[0])
	if errReply != nil {
		return errReply
	}
	b.runner.Stop(ctx, def.ID())
	return text("✅ " + def.Name + " için bağımsız mesaj zamanlayıcısı durduruldu.")
}

func (b *Bot) cmdBehaviorStartAll(ctx context.Context) *reply {
	defs, err := b.store.ListNPCs(ctx)
	if err != nil {
		b.logger.Error("Failed to list NPCs", "error", err)
		return text("NPC listesi okunamadı, lütfen tekrar deneyin.")
	}
	if len(defs) == 0 {
		return text("Henüz hiç NPC oluşturulmamış.")
	}
	for _, def := range defs {
		if err := b.runner.Start(ctx, def.ID()); err != nil {
			b.logger.Error("Failed to start behavior loop", "npc", def.Name, "error", err)
		}
	}
	return text("✅ Tüm NPC'ler için bağımsız mesaj zamanlayıcıları başlatıldı.")
}

func (b *Bot) cmdBehaviorStopAll(ctx context.Context) *reply {
	defs, err := b.store.ListNPCs(ctx)
	if err != nil {
		b.logger.Error("Failed to list NPCs", "error", err)
		return text("NPC listesi okunamadı, lütfen tekrar deneyin.")
	}
	if len(defs) == 0 {
		return text("Henüz hiç NPC oluşturulmamış.")
	}
	for _, def := range defs {
		b.runner.Stop(ctx, def.ID())
	}
	return text("✅ Tüm NPC'ler için bağımsız mesaj zamanlayıcıları durduruldu.")
}

var channelMentionPattern = regexp.MustCompile(`^<#(\d+)>$`)
var channelIDPattern = regexp.MustCompile(`^\d{17,20}$`)

func (b *Bot) cmdChannelAdd(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 2 {
		return text("Kullanım: `" + b.prefix + "npc-kanal-ekle <npc_ismi> <kanal_id veya #kanal>`")
	}
	def, errReply := b.lookupNPC(ctx, inv.args[0])
	if errReply != nil {
		return errReply
	}

	channel := inv.args[1]
	if m := channelMentionPattern.FindStringSubmatch(channel); m != nil {
		channel = m[1]
	} else if !channelIDPattern.MatchString(channel) {
		return text("Kanal ID veya #kanal mention formatında girilmelidir.")
	}

	existing, err := b.store.GetChannels(ctx, def.ID())
	if err == nil && contains(existing, channel) {
		return text("Bu kanal zaten " + def.Name + " için eklenmiş.")
	}
	if err := b.store.AddChannel(ctx, def.ID(), channel); err != nil {
		b.logger.Error("Failed to add channel", "npc", def.Name, "channel", channel, "error", err)
		return text("Kanal eklenemedi, lütfen tekrar deneyin.")
	}
	return text("✅ " + def.Name + " için kanal eklendi: <#" + channel + "> (ID: " + channel + ")")
}

func (b *Bot) cmdChannelRemove(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 2 {
		return text("Kullanım: `" + b.prefix + "npc-kanal-sil <npc_ismi> <kanal_id>`")
	}
	npcID := turkish.Lower(inv.args[0])
	channel := inv.args[1]

	existing, err := b.store.GetChannels(ctx, npcID)
	if err != nil || !contains(existing, channel) {
		return text("Bu kanal " + inv.args[0] + " için eklenmemiş.")
	}
	if err := b.store.RemoveChannel(ctx, npcID, channel); err != nil {
		b.logger.Error("Failed to remove channel", "npc", npcID, "channel", channel, "error", err)
		return text("Kanal silinemedi, lütfen tekrar deneyin.")
	}
	return text("✅ " + inv.args[0] + " için kanal silindi: " + channel)
}

func (b *Bot) cmdChannelList(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 1 {
		return text("Kullanım: `" + b.prefix + "npc-kanallar <npc_ismi>`")
	}
	channels, err := b.store.GetChannels(ctx, turkish.Lower(inv.args[0]))
	if err != nil {
		b.logger.Error("Failed to list channels", "npc", inv.args[0], "error", err)
		return text("Kanal listesi okunamadı, lütfen tekrar deneyin.")
	}
	if len(channels) == 0 {
		return text(inv.args[0] + " için hiç kanal eklenmemiş.")
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📺 " + inv.args[0] + " - Aktif Kanallar",
		Description: "Bu NPC'nin mesaj gönderebileceği kanallar:",
		Color:       0x3498DB,
	}
	for i, ch := range channels {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("Kanal %d", i+1),
			Value:  "<#" + ch + "> (ID: " + ch + ")",
			Inline: true,
		})
	}
	return embedReply(embed)
}

func (b *Bot) cmdBehaviorConfig(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 3 {
		return text("Kullanım: `" + b.prefix + "npc-davranış-ayarla <npc_ismi> <davranış_tipi> <mesaj_şablonu>`\nDavranış tipleri: arrival, departure, work, random")
	}
	def, errReply := b.lookupNPC(ctx, inv.args[0])
	if errReply != nil {
		return errReply
	}

	behaviorType := turkish.Lower(inv.args[1])
	template := strings.Join(inv.args[2:], " ")

	cfg, err := b.store.GetBehaviorConfig(ctx, def.ID())
	if err != nil {
		b.logger.Error("Failed to load behavior config", "npc", def.Name, "error", err)
		return text("Davranış ayarı okunamadı, lütfen tekrar deneyin.")
	}
	switch behaviorType {
	case "arrival":
		cfg.ArrivalMessages = template
	case "departure":
		cfg.DepartureMessages = template
	case "work":
		cfg.WorkMessages = template
	case "random":
		cfg.RandomMessages = template
	default:
		return text("Geçersiz davranış tipi. Geçerli tipler: arrival, departure, work, random")
	}
	if err := b.store.SetBehaviorConfig(ctx, def.ID(), cfg); err != nil {
		b.logger.Error("Failed to save behavior config", "npc", def.Name, "error", err)
		return text("Davranış ayarı kaydedilemedi, lütfen tekrar deneyin.")
	}
	return text(fmt.Sprintf("✅ %s için %s davranışı ayarlandı: \"%s\"", def.Name, behaviorType, template))
}

func (b *Bot) cmdScheduleSet(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 2 {
		return text("Kullanım: `" + b.prefix + "npc-zaman-ayarla <npc_ismi> <dakika>`")
	}
	minutes, err := strconv.Atoi(inv.args[1])
	if err != nil || minutes < 1 {
		return text("Kullanım: `" + b.prefix + "npc-zaman-ayarla <npc_ismi> <dakika>`")
	}
	def, errReply := b.lookupNPC(ctx, inv.args[0])
	if errReply != nil {
		return errReply
	}

	if err := b.store.SetSchedule(ctx, def.ID(), npc.Schedule{IntervalMinutes: minutes}); err != nil {
		b.logger.Error("Failed to save schedule", "npc", def.Name, "error", err)
		return text("Zaman ayarı kaydedilemedi, lütfen tekrar deneyin.")
	}

	// Restart a running loop so the new interval applies.
	if b.runner.Running(def.ID()) {
		b.runner.Stop(ctx, def.ID())
		if err := b.runner.Start(ctx, def.ID()); err != nil {
			b.logger.Error("Failed to restart behavior loop", "npc", def.Name, "error", err)
		}
	}
	return text(fmt.Sprintf("✅ %s için mesaj aralığı %d dakika olarak ayarlandı.", def.Name, minutes))
}

func (b *Bot) cmdGoalSet(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 3 {
		return text("Kullanım: `" + b.prefix + "npc-hedef-ayarla <npc_ismi> <hedef_tipi> <hedef_metni>`\nHedef tipleri: primary, immediate, longterm")
	}
	def, errReply := b.lookupNPC(ctx, inv.args[0])
	if errReply != nil {
		return errReply
	}

	goalType := turkish.Lower(inv.args[1])
	content := strings.Join(inv.args[2:], " ")

	goals, err := b.store.GetGoals(ctx, def.ID())
	if err != nil {
		b.logger.Error("Failed to load goals", "npc", def.Name, "error", err)
		return text("Hedefler okunamadı, lütfen tekrar deneyin.")
	}
	switch goalType {
	case "primary":
		goals.Primary = content
	case "immediate":
		goals.Immediate = content
	case "longterm":
		goals.LongTerm = append(goals.LongTerm, content)
	default:
		return text("Geçersiz hedef tipi. Geçerli tipler: primary, immediate, longterm")
	}
	if err := b.store.SetGoals(ctx, def.ID(), goals); err != nil {
		b.logger.Error("Failed to save goals", "npc", def.Name, "error", err)
		return text("Hedef kaydedilemedi, lütfen tekrar deneyin.")
	}
	return text(fmt.Sprintf("✅ %s için %s hedefi ayarlandı: \"%s\"", def.Name, goalType, content))
}

func (b *Bot) cmdEmotionSet(ctx context.Context, inv invocation) *reply {
	usage := text("Kullanım: `" + b.prefix + "npc-duygu-ayarla <npc_ismi> <duygu> <değer>`\nDuygular: happiness, anger, fear, trust, curiosity\nDeğer: 0-100 arası")
	if len(inv.args) < 3 {
		return usage
	}
	value, err := strconv.Atoi(inv.args[2])
	if err != nil || value < 0 || value > 100 {
		return usage
	}
	def, errReply := b.lookupNPC(ctx, inv.args[0])
	if errReply != nil {
		return errReply
	}

	emotions, err := b.store.GetEmotions(ctx, def.ID())
	if err != nil {
		b.logger.Error("Failed to load emotions", "npc", def.Name, "error", err)
		return text("Duygular okunamadı, lütfen tekrar deneyin.")
	}
	emotion := turkish.Lower(inv.args[1])
	switch emotion {
	case "happiness":
		emotions.Happiness = value
	case "anger":
		emotions.Anger = value
	case "fear":
		emotions.Fear = value
	case "trust":
		emotions.Trust = value
	case "curiosity":
		emotions.Curiosity = value
	default:
		return text("Geçersiz duygu. Geçerli duygular: happiness, anger, fear, trust, curiosity")
	}
	if err := b.store.SetEmotions(ctx, def.ID(), emotions.Derive()); err != nil {
		b.logger.Error("Failed to save emotions", "npc", def.Name, "error", err)
		return text("Duygu kaydedilemedi, lütfen tekrar deneyin.")
	}
	return text(fmt.Sprintf("✅ %s için %s duygusu %d olarak ayarlandı.", def.Name, emotion, value))
}

func (b *Bot) cmdNPCStatus(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 1 {
		return text("Kullanım: `" + b.prefix + "npc-durum <npc_ismi>`")
	}
	def, errReply := b.lookupNPC(ctx, inv.args[0])
	if errReply != nil {
		return errReply
	}

	state, err := b.store.GetState(ctx, def.ID())
	if err != nil {
		b.logger.Error("Failed to load state", "npc", def.Name, "error", err)
		return text("Durum okunamadı, lütfen tekrar deneyin.")
	}
	goals, _ := b.store.GetGoals(ctx, def.ID())
	emotions, _ := b.store.GetEmotions(ctx, def.ID())

	return embedReply(&discordgo.MessageEmbed{
		Title: "🤖 " + def.Name + " - Durum Raporu",
		Color: 0x3498DB,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "📊 Mevcut Durum",
				Value: fmt.Sprintf("**Aktivite:** %s\n**Konum:** %s\n**Ruh Hali:** %s\n**Enerji:** %d/100",
					state.Activity, state.Location, state.Mood, state.Energy),
				Inline: true,
			},
			{
				Name: "🎯 Hedefler",
				Value: fmt.Sprintf("**Ana Hedef:** %s\n**Acil Hedef:** %s\n**Uzun Vadeli:** %s",
					goals.Primary, orDefault(goals.Immediate, "Yok"), orDefault(strings.Join(goals.LongTerm, ", "), "Yok")),
				Inline: true,
			},
			{
				Name: "😊 Duygular",
				Value: fmt.Sprintf("**Mutluluk:** %d\n**Öfke:** %d\n**Korku:** %d\n**Güven:** %d\n**Merak:** %d\n**Baskın:** %s",
					emotions.Happiness, emotions.Anger, emotions.Fear, emotions.Trust, emotions.Curiosity, emotions.DominantEmotion),
				Inline: true,
			},
		},
	})
}

var sleepTimePattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

func (b *Bot) cmdSleep(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 2 {
		return text("Kullanım:\n`" + b.prefix + "npc-sleep set <npc_ismi> <yatma_saati> <uyanma_saati>`\n`" +
			b.prefix + "npc-sleep status <npc_ismi>`\n`" + b.prefix + "npc-sleep force <npc_ismi> <sleep|wake>`")
	}
	sub := turkish.Lower(inv.args[0])
	def, errReply := b.lookupNPC(ctx, inv.args[1])
	if errReply != nil {
		return errReply
	}
	npcID := def.ID()

	switch sub {
	case "set":
		if !inv.isAdmin {
			return text(adminOnlyMessage)
		}
		if len(inv.args) < 4 {
			return text("Kullanım: `" + b.prefix + "npc-sleep set <npc_ismi> <HH:MM> <HH:MM>`")
		}
		bedTime, wakeTime := inv.args[2], inv.args[3]
		if !sleepTimePattern.MatchString(bedTime) || !sleepTimePattern.MatchString(wakeTime) {
			return text("Saat formatı HH:MM olmalıdır (örn: 23:00, 07:00)")
		}
		sleep, err := b.store.GetSleep(ctx, npcID)
		if err != nil {
			b.logger.Error("Failed to load sleep state", "npc", def.Name, "error", err)
			return text("Uyku durumu okunamadı, lütfen tekrar deneyin.")
		}
		sleep.Schedule = npc.SleepSchedule{
			BedTime:          bedTime,
			WakeTime:         wakeTime,
			SleepDuration:    8,
			IsRegularSleeper: true,
		}
		if err := b.store.SetSleep(ctx, npcID, sleep); err != nil {
			b.logger.Error("Failed to save sleep schedule", "npc", def.Name, "error", err)
			return text("Uyku programı kaydedilemedi.")
		}
		return text(fmt.Sprintf("✅ %s için uyku programı ayarlandı: %s - %s", def.Name, bedTime, wakeTime))

	case "status":
		sleep, err := b.store.GetSleep(ctx, npcID)
		if err != nil {
			b.logger.Error("Failed to load sleep state", "npc", def.Name, "error", err)
			return text("Uyku durumu okunamadı, lütfen tekrar deneyin.")
		}
		state, _ := b.store.GetState(ctx, npcID)
		status, color := "Uyanık", 0x3498DB
		if sleep.IsAsleep {
			status, color = "Uyuyor", 0x2C3E50
		}
		lastSleep := "Hiç uyumamış"
		if sleep.LastSleepTime != nil {
			lastSleep = sleep.LastSleepTime.Format("02.01.2006 15:04")
		}
		return embedReply(&discordgo.MessageEmbed{
			Title: "😴 " + def.Name + " - Uyku Durumu",
			Color: color,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "💤 Uyku Durumu", Value: status, Inline: true},
				{Name: "⚡ Enerji", Value: fmt.Sprintf("%d/100", state.Energy), Inline: true},
				{Name: "🕐 Yatma Saati", Value: sleep.Schedule.BedTime, Inline: true},
				{Name: "🌅 Uyanma Saati", Value: sleep.Schedule.WakeTime, Inline: true},
				{Name: "📊 Uyku Kalitesi", Value: fmt.Sprintf("%.1f%%", sleep.SleepQuality), Inline: true},
				{Name: "⏰ Son Uyku", Value: lastSleep, Inline: true},
			},
		})

	case "force":
		if !inv.isAdmin {
			return text(adminOnlyMessage)
		}
		if len(inv.args) < 3 || (inv.args[2] != "sleep" && inv.args[2] != "wake") {
			return text("Kullanım: `" + b.prefix + "npc-sleep force <npc_ismi> <sleep|wake>`")
		}
		sleep, err := b.store.GetSleep(ctx, npcID)
		if err != nil {
			b.logger.Error("Failed to load sleep state", "npc", def.Name, "error", err)
			return text("Uyku durumu okunamadı, lütfen tekrar deneyin.")
		}
		state, err := b.store.GetState(ctx, npcID)
		if err != nil {
			b.logger.Error("Failed to load state", "npc", def.Name, "error", err)
			return text("Durum okunamadı, lütfen tekrar deneyin.")
		}
		now := time.Now()
		if inv.args[2] == "sleep" {
			sleep = sleep.FallAsleep(now)
			state.Activity = "sleeping"
		} else {
			var gain int
			sleep, gain = sleep.WakeUp(now)
			state.Energy = min(state.Energy+gain, 100)
			state.Activity = "idle"
		}
		state.LastAction = now
		if err := b.store.SetSleep(ctx, npcID, sleep); err != nil {
			b.logger.Error("Failed to save sleep state", "npc", def.Name, "error", err)
			return text("Uyku durumu kaydedilemedi.")
		}
		if err := b.store.SetState(ctx, npcID, state); err != nil {
			b.logger.Error("Failed to save state", "npc", def.Name, "error", err)
			return text("Durum kaydedilemedi.")
		}
		if inv.args[2] == "sleep" {
			return text("✅ " + def.Name + " zorla uyutuldu.")
		}
		return text("✅ " + def.Name + " zorla uyandırıldı.")
	}

	return text("Alt komut: set, status veya force olmalıdır.")
}

var validRoutineActivities = map[string]bool{
	"wake_up": true, "hygiene": true, "breakfast": true, "work_prep": true,
	"work": true, "lunch": true, "dinner": true, "relax": true,
	"socialize": true, "prepare_sleep": true, "sleep": true, "meeting": true,
	"planning": true, "weekend_prep": true, "hobby": true,
	"entertainment": true, "family_time": true, "prepare_week": true,
}

func (b *Bot) cmdRoutine(ctx context.Context, inv invocation) *reply {
	if len(inv.args) < 2 {
		return text("Kullanım:\n`" + b.prefix + "npc-routine set <npc_ismi> <zaman_dilimi> <aktivite1,aktivite2,...>`\n`" +
			b.prefix + "npc-routine view <npc_ismi>`\n`" + b.prefix + "npc-routine reset <npc_ismi>`")
	}
	sub := turkish.Lower(inv.args[0])
	def, errReply := b.lookupNPC(ctx, inv.args[1])
	if errReply != nil {
		return errReply
	}
	npcID := def.ID()

	switch sub {
	case "set":
		if !inv.isAdmin {
			return text(adminOnlyMessage)
		}
		if len(inv.args) < 4 {
			return text("Kullanım: `" + b.prefix + "npc-routine set <npc_ismi> <morning|afternoon|evening|night> <aktivite1,aktivite2,...>`")
		}
		timeOfDay := inv.args[2]
		if timeOfDay != "morning" && timeOfDay != "afternoon" && timeOfDay != "evening" && timeOfDay != "night" {
			return text("Zaman dilimi: morning, afternoon, evening, night olmalıdır.")
		}
		var activities []string
		for _, a := range strings.Split(inv.args[3], ",") {
			a = strings.TrimSpace(a)
			if !validRoutineActivities[a] {
				valid := make([]string, 0, len(validRoutineActivities))
				for name := range validRoutineActivities {
					valid = append(valid, name)
				}
				sort.Strings(valid)
				return text(fmt.Sprintf("Geçersiz aktivite: %s\nGeçerli aktiviteler: %s", a, strings.Join(valid, ", ")))
			}
			activities = append(activities, a)
		}
		routine, err := b.store.GetRoutine(ctx, npcID)
		if err != nil {
			b.logger.Error("Failed to load routine", "npc", def.Name, "error", err)
			return text("Rutin okunamadı, lütfen tekrar deneyin.")
		}
		switch timeOfDay {
		case "morning":
			routine.Morning = activities
		case "afternoon":
			routine.Afternoon = activities
		case "evening":
			routine.Evening = activities
		case "night":
			routine.Night = activities
		}
		if err := b.store.SetRoutine(ctx, npcID, routine); err != nil {
			b.logger.Error("Failed to save routine", "npc", def.Name, "error", err)
			return text("Rutin kaydedilemedi.")
		}
		return text(fmt.Sprintf("✅ %s için %s rutini ayarlandı: %s", def.Name, timeOfDay, strings.Join(activities, ", ")))

	case "view":
		routine, err := b.store.GetRoutine(ctx, npcID)
		if err != nil {
			b.logger.Error("Failed to load routine", "npc", def.Name, "error", err)
			return text("Rutin okunamadı, lütfen tekrar deneyin.")
		}
		fields := []*discordgo.MessageEmbedField{
			{Name: "🌅 Sabah", Value: orDefault(strings.Join(routine.Morning, ", "), "Yok")},
			{Name: "☀️ Öğlen", Value: orDefault(strings.Join(routine.Afternoon, ", "), "Yok")},
			{Name: "🌆 Akşam", Value: orDefault(strings.Join(routine.Evening, ", "), "Yok")},
			{Name: "🌙 Gece", Value: orDefault(strings.Join(routine.Night, ", "), "Yok")},
		}
		if len(routine.SpecialDays) > 0 {
			days := make([]string, 0, len(routine.SpecialDays))
			for day := range routine.SpecialDays {
				days = append(days, day)
			}
			sort.Strings(days)
			var lines []string
			for _, day := range days {
				lines = append(lines, "**"+day+":** "+strings.Join(routine.SpecialDays[day], ", "))
			}
			fields = append(fields, &discordgo.MessageEmbedField{Name: "📅 Özel Günler", Value: strings.Join(lines, "\n")})
		}
		return embedReply(&discordgo.MessageEmbed{
			Title:  "📅 " + def.Name + " - Günlük Rutin",
			Color:  0x2ECC71,
			Fields: fields,
		})

	case "reset":
		if !inv.isAdmin {
			return text(adminOnlyMessage)
		}
		if err := b.store.SetRoutine(ctx, npcID, npc.DefaultDailyRoutine()); err != nil {
			b.logger.Error("Failed to reset routine", "npc", def.Name, "error", err)
			return text("Rutin sıfırlanamadı.")
		}
		return text("✅ " + def.Name + " için rutin varsayılan ayarlara sıfırlandı.")
	}

	return text("Alt komut: set, view veya reset olmalıdır.")
}

func (b *Bot) cmdHelp() *reply {
	p := b.prefix
	return embedReply(&discordgo.MessageEmbed{
		Title: "📖 Komutlar",
		Color: 0x3498DB,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Roleplay", Value: "`" + p + "<npc_ismi>` ile sahne başlat, NPC cevabına reply atarak devam et."},
			{Name: "Ekonomi", Value: "`" + p + "cüzdan [@kullanıcı]`, `" + p + "satın-al <npc>`, `" + p + "para-ver @kullanıcı <miktar>`, `" + p + "para-al @kullanıcı <miktar>`"},
			{Name: "NPC Yönetimi", Value: "`" + p + "npc-ekle`, `" + p + "npc-liste`, `" + p + "npc-sil <npc>`, `" + p + "npc-durum <npc>`"},
			{Name: "Bilgi", Value: "`" + p + "bilgi-gör <npc>`, `" + p + "bilgi-ekle <npc> <bilgi>`, `" + p + "bilgi-duzenle <npc> <bilgi>`, `" + p + "bilgi-sil <npc>`"},
			{Name: "Eşyalar", Value: "`" + p + "npc-eşyalar <npc>`, `" + p + "npc-eşya-ekle <npc> <eşya> <fiyat> <birim>`, `" + p + "npc-eşya-sil <npc> <eşya>`"},
			{Name: "Davranış", Value: "`" + p + "npc-zamanlayıcısı <npc>`, `" + p + "npc-zamanlayıcıları`, `" + p + "npc-zamanlayıcıları-dur`, `" + p + "npc-mesaj <npc> [tip]`, `" + p + "npc-zaman-ayarla <npc> <dakika>`"},
			{Name: "Ayarlar", Value: "`" + p + "npc-davranış-ayarla`, `" + p + "npc-hedef-ayarla`, `" + p + "npc-duygu-ayarla`, `" + p + "npc-kanal-ekle`, `" + p + "npc-kanal-sil`, `" + p + "npc-kanallar`"},
			{Name: "Uyku ve Rutin", Value: "`" + p + "npc-sleep set|status|force`, `" + p + "npc-routine set|view|reset`"},
		},
	})
}

func containsFold(list []string, target string) bool {
	for _, v := range list {
		if turkish.Equal(v, target) {
			return true
		}
	}
	return false
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
