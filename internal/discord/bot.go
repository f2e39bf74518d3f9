// Package discord binds the engine, storage and behavior scheduler to
// a Discord session: message routing, the text-prefix command surface
// and embed replies. All domain logic lives below this package; the
// glue here stays thin so it can be exercised without a live gateway.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/1Leo18/npcbot/internal/behavior"
	"github.com/1Leo18/npcbot/internal/engine"
	"github.com/1Leo18/npcbot/internal/storage"
	"github.com/1Leo18/npcbot/pkg/npc"
)

// DarkBlue matches the embed color the bot has always used.
const embedColorDarkBlue = 0x00008B

// roleplayWait marks a user who invoked an NPC and owes it a message.
type roleplayWait struct {
	npcName   string
	waitMsgID string
}

// replyTarget maps a posted NPC message back to its conversation so
// Discord replies continue the scene without re-invoking the NPC.
type replyTarget struct {
	npcName string
	userID  string
}

// maxReplyTargets caps the remembered scene openers. The oldest are
// evicted first; replying to an evicted message simply starts no
// continuation.
const maxReplyTargets = 512

type Bot struct {
	session *discordgo.Session
	store   storage.Storage
	engine  *engine.Engine
	runner  *behavior.Runner
	logger  *slog.Logger
	prefix  string

	mu         sync.Mutex
	waiting    map[string]roleplayWait
	replies    map[string]replyTarget
	replyOrder []string
}

// rememberReply records a posted NPC message as a continuation point,
// evicting the oldest entries past the cap.
func (b *Bot) rememberReply(messageID string, target replyTarget) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.replies[messageID]; !exists {
		b.replyOrder = append(b.replyOrder, messageID)
	}
	b.replies[messageID] = target
	for len(b.replyOrder) > maxReplyTargets {
		delete(b.replies, b.replyOrder[0])
		b.replyOrder = b.replyOrder[1:]
	}
}

func New(token, prefix string, store storage.Storage, eng *engine.Engine, runner *behavior.Runner, logger *slog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	b := &Bot{
		session: session,
		store:   store,
		engine:  eng,
		runner:  runner,
		logger:  logger,
		prefix:  prefix,
		waiting: make(map[string]roleplayWait),
		replies: make(map[string]replyTarget),
	}
	session.AddHandler(b.onMessageCreate)

	eng.WithOwnerNameResolver(b.resolveUserName)
	return b, nil
}

// Open connects to the gateway. The caller owns shutdown ordering.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	b.logger.Info("Discord session opened", "user", b.session.State.User.Username)
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// Post sends an autonomous NPC message to a channel. It satisfies
// behavior.Poster.
func (b *Bot) Post(ctx context.Context, channelID string, def *npc.Definition, message string) error {
	_, err := b.session.ChannelMessageSendEmbed(channelID, b.npcEmbed(def, message))
	if err != nil {
		return fmt.Errorf("failed to post npc message: %w", err)
	}
	return nil
}

func (b *Bot) npcEmbed(def *npc.Definition, message string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Description: message,
		Color:       embedColorDarkBlue,
		Footer:      &discordgo.MessageEmbedFooter{Text: def.Role},
	}
	author := &discordgo.MessageEmbedAuthor{Name: def.Role + " " + def.Name}
	if b.session.State != nil && b.session.State.User != nil {
		author.IconURL = b.session.State.User.AvatarURL("")
	}
	embed.Author = author
	return embed
}

// resolveUserName turns a Discord ID into a display name for the
// impersonation warning. Lookup failures fall back to the ID itself.
func (b *Bot) resolveUserName(ctx context.Context, userID string) string {
	user, err := b.session.User(userID)
	if err != nil {
		b.logger.Warn("Failed to resolve user name", "user_id", userID, "error", err)
		return userID
	}
	return user.Username
}

// isAdmin checks the Administrator permission on the message's channel.
func (b *Bot) isAdmin(m *discordgo.MessageCreate) bool {
	if m.Member == nil {
		return false
	}
	perms, err := b.session.State.MessagePermissions(m.Message)
	if err != nil {
		perms, err = b.session.UserChannelPermissions(m.Author.ID, m.ChannelID)
		if err != nil {
			b.logger.Warn("Failed to resolve permissions", "user_id", m.Author.ID, "error", err)
			return false
		}
	}
	return perms&discordgo.PermissionAdministrator != 0
}

func displayName(m *discordgo.MessageCreate) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	return m.Author.Username
}
