package discord

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/1Leo18/npcbot/internal/engine"
	"github.com/1Leo18/npcbot/pkg/chat"
	"github.com/1Leo18/npcbot/pkg/turkish"
)

// singleWordInvocation matches ".npcname" with Turkish letters allowed.
var singleWordInvocation = regexp.MustCompile(`^[a-zA-Z0-9_ğüşıöçĞÜŞİÖÇ]+$`)

const chatTimeout = 60 * time.Second

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
	defer cancel()

	// Replying to an NPC message continues that conversation.
	if m.MessageReference != nil && m.MessageReference.MessageID != "" {
		if b.handleReplyContinuation(ctx, m) {
			return
		}
	}

	// A user in wait mode owes the NPC a scene message.
	if b.handleAwaitedRoleplay(ctx, m) {
		return
	}

	if !strings.HasPrefix(m.Content, b.prefix) {
		return
	}
	trimmed := strings.TrimPrefix(strings.TrimSpace(m.Content), b.prefix)

	// ".npcname" alone starts a roleplay exchange instead of a command.
	if singleWordInvocation.MatchString(trimmed) && !isCommandName(trimmed) {
		b.startRoleplayWait(ctx, m, trimmed)
		return
	}

	args := strings.Fields(trimmed)
	if len(args) == 0 {
		return
	}
	command := turkish.Lower(args[0])

	inv := invocation{
		command:     command,
		args:        args[1:],
		authorID:    m.Author.ID,
		displayName: displayName(m),
		channelID:   m.ChannelID,
		isAdmin:     b.isAdmin(m),
	}
	if len(m.Mentions) > 0 {
		inv.mentionID = m.Mentions[0].ID
		inv.mentionName = m.Mentions[0].Username
	}

	reply, handled := b.dispatch(ctx, inv)
	if !handled {
		return
	}
	b.send(m, reply)
}

// startRoleplayWait puts the author in wait mode for the named NPC and
// removes the invocation message to keep the scene clean.
func (b *Bot) startRoleplayWait(ctx context.Context, m *discordgo.MessageCreate, npcName string) {
	def, err := b.store.GetNPC(ctx, npcName)
	if err != nil || def == nil {
		return
	}

	waitMsg, err := b.session.ChannelMessageSend(m.ChannelID,
		"<@"+m.Author.ID+"> Kurgu mesajını yaz, seni dinliyorum...")
	if err != nil {
		b.logger.Warn("Failed to send wait message", "error", err)
		return
	}

	b.mu.Lock()
	b.waiting[m.Author.ID] = roleplayWait{npcName: def.Name, waitMsgID: waitMsg.ID}
	b.mu.Unlock()

	// Best effort; the bot may lack the permission.
	_ = b.session.ChannelMessageDelete(m.ChannelID, m.ID)
}

func (b *Bot) handleAwaitedRoleplay(ctx context.Context, m *discordgo.MessageCreate) bool {
	b.mu.Lock()
	wait, ok := b.waiting[m.Author.ID]
	if ok {
		delete(b.waiting, m.Author.ID)
	}
	b.mu.Unlock()
	if !ok {
		return false
	}

	if wait.waitMsgID != "" {
		_ = b.session.ChannelMessageDelete(m.ChannelID, wait.waitMsgID)
	}
	b.runExchange(ctx, m, wait.npcName)
	return true
}

func (b *Bot) handleReplyContinuation(ctx context.Context, m *discordgo.MessageCreate) bool {
	b.mu.Lock()
	target, ok := b.replies[m.MessageReference.MessageID]
	b.mu.Unlock()
	if !ok {
		return false
	}
	// Only the user who opened the scene may continue it.
	if target.userID != "" && target.userID != m.Author.ID {
		return true
	}

	b.runExchange(ctx, m, target.npcName)

	b.mu.Lock()
	delete(b.replies, m.MessageReference.MessageID)
	b.mu.Unlock()
	return true
}

// runExchange feeds one user message through the engine and posts the
// NPC's answer as an embed reply.
func (b *Bot) runExchange(ctx context.Context, m *discordgo.MessageCreate, npcName string) {
	def, err := b.store.GetNPC(ctx, npcName)
	if err != nil || def == nil {
		b.reply(m, "'"+npcName+"' isminde bir NPC bulunamadı.")
		return
	}

	// Channel restriction: an empty list means unrestricted.
	channels, err := b.store.GetChannels(ctx, def.ID())
	if err == nil && len(channels) > 0 && !contains(channels, m.ChannelID) {
		return
	}

	_ = b.session.ChannelTyping(m.ChannelID)

	resp, err := b.engine.Exchange(ctx, chat.ChatRequest{
		NPC:      def.Name,
		UserID:   m.Author.ID,
		UserName: displayName(m),
		Message:  m.Content,
	})
	if err != nil {
		if errors.Is(err, engine.ErrNPCNotFound) {
			b.reply(m, "'"+npcName+"' isminde bir NPC bulunamadı.")
			return
		}
		b.logger.Error("Exchange failed", "npc", def.Name, "error", err)
		b.reply(m, "Bir hata oluştu, lütfen tekrar deneyin.")
		return
	}

	sent, err := b.session.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Embeds:    []*discordgo.MessageEmbed{b.npcEmbed(def, resp.Message)},
		Reference: m.Reference(),
	})
	if err != nil {
		b.logger.Error("Failed to send NPC reply", "npc", def.Name, "error", err)
		return
	}

	b.rememberReply(sent.ID, replyTarget{npcName: def.Name, userID: m.Author.ID})
}

func (b *Bot) send(m *discordgo.MessageCreate, r *reply) {
	if r == nil {
		return
	}
	msg := &discordgo.MessageSend{Reference: m.Reference()}
	if r.content != "" {
		msg.Content = r.content
	}
	if r.embed != nil {
		msg.Embeds = []*discordgo.MessageEmbed{r.embed}
	}
	if _, err := b.session.ChannelMessageSendComplex(m.ChannelID, msg); err != nil {
		b.logger.Error("Failed to send command reply", "command", m.Content, "error", err)
	}
}

func (b *Bot) reply(m *discordgo.MessageCreate, content string) {
	b.send(m, &reply{content: content})
}

func contains(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}
