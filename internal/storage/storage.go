// Package storage persists all bot state in Redis: NPC definitions,
// identity claims, conversation and global memory, sale catalogs,
// wallets, roles and the per-NPC runtime documents used by the
// autonomous behavior loop.
package storage

import (
	"context"

	"github.com/1Leo18/npcbot/pkg/chat"
	"github.com/1Leo18/npcbot/pkg/economy"
	"github.com/1Leo18/npcbot/pkg/memory"
	"github.com/1Leo18/npcbot/pkg/npc"
)

// Storage defines the persistence operations. Lookups for missing
// documents return zero values (or defaults for runtime documents),
// not errors.
type Storage interface {
	Ping(ctx context.Context) error
	Close() error

	// NPC definitions
	SaveNPC(ctx context.Context, def *npc.Definition) error
	GetNPC(ctx context.Context, name string) (*npc.Definition, error)
	ListNPCs(ctx context.Context) ([]*npc.Definition, error)
	DeleteNPC(ctx context.Context, name string) error

	// Identity claims, keyed by claimed name, value is the owner's
	// Discord ID.
	GetIdentities(ctx context.Context, npcID string) (map[string]string, error)
	SetIdentities(ctx context.Context, npcID string, claims map[string]string) error

	// Per-user conversation history, oldest first, capped at
	// memory.HistoryLimit turns.
	AppendConversation(ctx context.Context, npcID, userID string, turns ...chat.Message) error
	GetConversation(ctx context.Context, npcID, userID string) ([]chat.Message, error)
	LastTurns(ctx context.Context, npcID, userID string, n int64) ([]chat.Message, error)

	// Shared cross-user memory. AppendGlobalMemory reports whether
	// the entry was new; duplicates by (type, folded content) are
	// dropped.
	AppendGlobalMemory(ctx context.Context, npcID string, entry memory.GlobalEntry) (bool, error)
	GetGlobalMemory(ctx context.Context, npcID string) ([]memory.GlobalEntry, error)

	// Sale catalog
	SetItem(ctx context.Context, npcID string, item npc.Item) error
	GetItem(ctx context.Context, npcID, name string) (*npc.Item, error)
	GetItems(ctx context.Context, npcID string) ([]npc.Item, error)
	DeleteItem(ctx context.Context, npcID, name string) error

	// Wallets. AdjustBalance applies an additive delta atomically and
	// returns the resulting balance.
	GetBalance(ctx context.Context, userID string) (economy.Balance, error)
	AdjustBalance(ctx context.Context, userID string, delta economy.Balance) (economy.Balance, error)

	// Purchased item roles per user, plus the server-wide registry of
	// grantable roles.
	GetUserRoles(ctx context.Context, userID string) ([]string, error)
	AddUserRole(ctx context.Context, userID, role string) error
	RemoveUserRole(ctx context.Context, userID, role string) error
	HasUserRole(ctx context.Context, userID, role string) (bool, error)
	GetServerRoles(ctx context.Context) ([]string, error)
	AddServerRole(ctx context.Context, role string, color int) error
	RemoveServerRole(ctx context.Context, role string) error

	// Per-NPC runtime documents
	GetState(ctx context.Context, npcID string) (npc.State, error)
	SetState(ctx context.Context, npcID string, s npc.State) error
	GetNeeds(ctx context.Context, npcID string) (npc.Needs, error)
	SetNeeds(ctx context.Context, npcID string, n npc.Needs) error
	GetEmotions(ctx context.Context, npcID string) (npc.Emotions, error)
	SetEmotions(ctx context.Context, npcID string, e npc.Emotions) error
	GetGoals(ctx context.Context, npcID string) (npc.Goals, error)
	SetGoals(ctx context.Context, npcID string, g npc.Goals) error
	GetSleep(ctx context.Context, npcID string) (npc.SleepState, error)
	SetSleep(ctx context.Context, npcID string, s npc.SleepState) error
	GetRoutine(ctx context.Context, npcID string) (npc.DailyRoutine, error)
	SetRoutine(ctx context.Context, npcID string, r npc.DailyRoutine) error
	GetBehaviorConfig(ctx context.Context, npcID string) (npc.BehaviorConfig, error)
	SetBehaviorConfig(ctx context.Context, npcID string, b npc.BehaviorConfig) error
	GetSchedule(ctx context.Context, npcID string) (npc.Schedule, error)
	SetSchedule(ctx context.Context, npcID string, s npc.Schedule) error

	// Channels the NPC may post in. Empty means unrestricted for
	// chat, but autonomous posting requires at least one.
	GetChannels(ctx context.Context, npcID string) ([]string, error)
	AddChannel(ctx context.Context, npcID, channelID string) error
	RemoveChannel(ctx context.Context, npcID, channelID string) error

	// Registry of NPCs whose behavior loop should be running. Used to
	// resume loops after a restart.
	SetBehaviorActive(ctx context.Context, npcID string, active bool) error
	ActiveBehaviors(ctx context.Context) ([]string, error)
}
