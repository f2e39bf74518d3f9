package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/1Leo18/npcbot/pkg/chat"
	"github.com/1Leo18/npcbot/pkg/economy"
	"github.com/1Leo18/npcbot/pkg/memory"
	"github.com/1Leo18/npcbot/pkg/npc"
	"github.com/1Leo18/npcbot/pkg/turkish"
)

// Key prefixes. Every mutable document gets its own key so concurrent
// writers never overwrite each other's documents.
const (
	keyNPCDef      = "npc:def:"    // JSON npc.Definition
	keyNPCNames    = "npc:names"   // set of npc IDs
	keyIdentity    = "identity:"   // hash claimed name -> owner ID
	keyConv        = "conv:"       // list of JSON chat.Message
	keyGlobalMem   = "gmem:"       // list of JSON memory.GlobalEntry
	keyGlobalDedup = "gmem:dedup:" // set of dedup keys
	keyItems       = "items:"      // hash folded name -> JSON npc.Item
	keyWallet      = "ledger:user:"
	keyUserRoles   = "ledger:roles:"
	keyServerRoles = "ledger:server_roles"
	keyRoleColors  = "ledger:role_colors"
	keyState       = "state:"
	keyNeeds       = "needs:"
	keyEmotions    = "emotions:"
	keyGoals       = "goals:"
	keySleep       = "sleep:"
	keyRoutine     = "routine:"
	keyBehaviorCfg = "behavior:cfg:"
	keySchedule    = "schedule:"
	keyChannels    = "channels:"
	keyActive      = "behavior:active"
)

// RedisStore implements Storage on a single Redis instance.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

var _ Storage = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(redisURL string, logger *slog.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})
	return &RedisStore{client: rdb, logger: logger}
}

// NewRedisStoreWithClient wraps an existing client. Used in tests.
func NewRedisStoreWithClient(client *redis.Client, logger *slog.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available during startup.
func (r *RedisStore) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}
		r.logger.Info("Redis connection established")
		return nil
	}
	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// NPC definitions

func (r *RedisStore) SaveNPC(ctx context.Context, def *npc.Definition) error {
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal npc: %w", err)
	}
	id := def.ID()
	if err := r.client.Set(ctx, keyNPCDef+id, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save npc: %w", err)
	}
	if err := r.client.SAdd(ctx, keyNPCNames, id).Err(); err != nil {
		return fmt.Errorf("failed to register npc name: %w", err)
	}
	return nil
}

func (r *RedisStore) GetNPC(ctx context.Context, name string) (*npc.Definition, error) {
	data, err := r.client.Get(ctx, keyNPCDef+turkish.Lower(name)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load npc: %w", err)
	}
	var def npc.Definition
	if err := json.Unmarshal([]byte(data), &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal npc: %w", err)
	}
	return &def, nil
}

func (r *RedisStore) ListNPCs(ctx context.Context) ([]*npc.Definition, error) {
	ids, err := r.client.SMembers(ctx, keyNPCNames).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list npcs: %w", err)
	}
	sort.Strings(ids)
	defs := make([]*npc.Definition, 0, len(ids))
	for _, id := range ids {
		def, err := r.GetNPC(ctx, id)
		if err != nil {
			return nil, err
		}
		if def != nil {
			defs = append(defs, def)
		}
	}
	return defs, nil
}

// DeleteNPC removes the definition and every document derived from it.
// User wallets and roles are server-wide and stay.
func (r *RedisStore) DeleteNPC(ctx context.Context, name string) error {
	id := turkish.Lower(name)
	keys := []string{
		keyNPCDef + id,
		keyIdentity + id,
		keyGlobalMem + id,
		keyGlobalDedup + id,
		keyItems + id,
		keyState + id,
		keyNeeds + id,
		keyEmotions + id,
		keyGoals + id,
		keySleep + id,
		keyRoutine + id,
		keyBehaviorCfg + id,
		keySchedule + id,
		keyChannels + id,
	}
	convKeys, err := r.client.Keys(ctx, keyConv+id+":*").Result()
	if err != nil {
		return fmt.Errorf("failed to find conversations: %w", err)
	}
	keys = append(keys, convKeys...)
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete npc documents: %w", err)
	}
	if err := r.client.SRem(ctx, keyNPCNames, id).Err(); err != nil {
		return fmt.Errorf("failed to unregister npc name: %w", err)
	}
	if err := r.client.SRem(ctx, keyActive, id).Err(); err != nil {
		return fmt.Errorf("failed to clear behavior flag: %w", err)
	}
	return nil
}

// Identity claims

func (r *RedisStore) GetIdentities(ctx context.Context, npcID string) (map[string]string, error) {
	claims, err := r.client.HGetAll(ctx, keyIdentity+npcID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load identities: %w", err)
	}
	return claims, nil
}

func (r *RedisStore) SetIdentities(ctx context.Context, npcID string, claims map[string]string) error {
	key := keyIdentity + npcID
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(claims) > 0 {
		flat := make([]interface{}, 0, len(claims)*2)
		for name, ownerID := range claims {
			flat = append(flat, name, ownerID)
		}
		pipe.HSet(ctx, key, flat...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save identities: %w", err)
	}
	return nil
}

// Conversation history

func convKey(npcID, userID string) string {
	return keyConv + npcID + ":" + userID
}

func (r *RedisStore) AppendConversation(ctx context.Context, npcID, userID string, turns ...chat.Message) error {
	if len(turns) == 0 {
		return nil
	}
	key := convKey(npcID, userID)
	values := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		data, err := json.Marshal(turn)
		if err != nil {
			return fmt.Errorf("failed to marshal turn: %w", err)
		}
		values = append(values, data)
	}
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, -int64(memory.HistoryLimit), -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append conversation: %w", err)
	}
	return nil
}

func (r *RedisStore) GetConversation(ctx context.Context, npcID, userID string) ([]chat.Message, error) {
	return r.turnRange(ctx, convKey(npcID, userID), 0, -1)
}

func (r *RedisStore) LastTurns(ctx context.Context, npcID, userID string, n int64) ([]chat.Message, error) {
	return r.turnRange(ctx, convKey(npcID, userID), -n, -1)
}

func (r *RedisStore) turnRange(ctx context.Context, key string, start, stop int64) ([]chat.Message, error) {
	raw, err := r.client.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	turns := make([]chat.Message, 0, len(raw))
	for _, item := range raw {
		var turn chat.Message
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			// a corrupt entry drops out of history, it should not
			// block the conversation
			r.logger.Warn("Dropping malformed conversation turn", "key", key, "error", err)
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Global memory

func (r *RedisStore) AppendGlobalMemory(ctx context.Context, npcID string, entry memory.GlobalEntry) (bool, error) {
	added, err := r.client.SAdd(ctx, keyGlobalDedup+npcID, memory.DedupKey(entry.Type, entry.Content)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check memory dedup: %w", err)
	}
	if added == 0 {
		return false, nil
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return false, fmt.Errorf("failed to marshal memory entry: %w", err)
	}
	key := keyGlobalMem + npcID
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -int64(memory.GlobalLimit), -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to append memory entry: %w", err)
	}
	return true, nil
}

func (r *RedisStore) GetGlobalMemory(ctx context.Context, npcID string) ([]memory.GlobalEntry, error) {
	raw, err := r.client.LRange(ctx, keyGlobalMem+npcID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load global memory: %w", err)
	}
	entries := make([]memory.GlobalEntry, 0, len(raw))
	for _, item := range raw {
		var entry memory.GlobalEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			r.logger.Warn("Dropping malformed memory entry", "npc", npcID, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Sale catalog

func (r *RedisStore) SetItem(ctx context.Context, npcID string, item npc.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	if err := r.client.HSet(ctx, keyItems+npcID, turkish.Lower(item.Name), data).Err(); err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}
	return nil
}

func (r *RedisStore) GetItem(ctx context.Context, npcID, name string) (*npc.Item, error) {
	data, err := r.client.HGet(ctx, keyItems+npcID, turkish.Lower(name)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	var item npc.Item
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return &item, nil
}

func (r *RedisStore) GetItems(ctx context.Context, npcID string) ([]npc.Item, error) {
	raw, err := r.client.HGetAll(ctx, keyItems+npcID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	items := make([]npc.Item, 0, len(raw))
	for _, data := range raw {
		var item npc.Item
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal item: %w", err)
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (r *RedisStore) DeleteItem(ctx context.Context, npcID, name string) error {
	if err := r.client.HDel(ctx, keyItems+npcID, turkish.Lower(name)).Err(); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// Wallets

func (r *RedisStore) GetBalance(ctx context.Context, userID string) (economy.Balance, error) {
	raw, err := r.client.HGetAll(ctx, keyWallet+userID).Result()
	if err != nil {
		return economy.Balance{}, fmt.Errorf("failed to load balance: %w", err)
	}
	return parseBalance(raw), nil
}

// AdjustBalance applies the delta field by field with HINCRBY, so
// concurrent adjustments never lose updates.
func (r *RedisStore) AdjustBalance(ctx context.Context, userID string, delta economy.Balance) (economy.Balance, error) {
	key := keyWallet + userID
	pipe := r.client.TxPipeline()
	gold := pipe.HIncrBy(ctx, key, "gold", int64(delta.Gold))
	silver := pipe.HIncrBy(ctx, key, "silver", int64(delta.Silver))
	copper := pipe.HIncrBy(ctx, key, "copper", int64(delta.Copper))
	if _, err := pipe.Exec(ctx); err != nil {
		return economy.Balance{}, fmt.Errorf("failed to adjust balance: %w", err)
	}
	return economy.Balance{
		Gold:   int(gold.Val()),
		Silver: int(silver.Val()),
		Copper: int(copper.Val()),
	}, nil
}

func parseBalance(raw map[string]string) economy.Balance {
	get := func(field string) int {
		v, err := strconv.Atoi(raw[field])
		if err != nil {
			return 0
		}
		return v
	}
	return economy.Balance{Gold: get("gold"), Silver: get("silver"), Copper: get("copper")}
}

// Roles

func (r *RedisStore) GetUserRoles(ctx context.Context, userID string) ([]string, error) {
	roles, err := r.client.SMembers(ctx, keyUserRoles+userID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load user roles: %w", err)
	}
	sort.Strings(roles)
	return roles, nil
}

func (r *RedisStore) AddUserRole(ctx context.Context, userID, role string) error {
	if err := r.client.SAdd(ctx, keyUserRoles+userID, role).Err(); err != nil {
		return fmt.Errorf("failed to add user role: %w", err)
	}
	return nil
}

func (r *RedisStore) RemoveUserRole(ctx context.Context, userID, role string) error {
	if err := r.client.SRem(ctx, keyUserRoles+userID, role).Err(); err != nil {
		return fmt.Errorf("failed to remove user role: %w", err)
	}
	return nil
}

func (r *RedisStore) HasUserRole(ctx context.Context, userID, role string) (bool, error) {
	ok, err := r.client.SIsMember(ctx, keyUserRoles+userID, role).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check user role: %w", err)
	}
	return ok, nil
}

func (r *RedisStore) GetServerRoles(ctx context.Context) ([]string, error) {
	roles, err := r.client.SMembers(ctx, keyServerRoles).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load server roles: %w", err)
	}
	sort.Strings(roles)
	return roles, nil
}

func (r *RedisStore) AddServerRole(ctx context.Context, role string, color int) error {
	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, keyServerRoles, role)
	pipe.HSetNX(ctx, keyRoleColors, role, color)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to add server role: %w", err)
	}
	return nil
}

func (r *RedisStore) RemoveServerRole(ctx context.Context, role string) error {
	pipe := r.client.TxPipeline()
	pipe.SRem(ctx, keyServerRoles, role)
	pipe.HDel(ctx, keyRoleColors, role)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove server role: %w", err)
	}
	return nil
}

// Runtime documents. Each getter falls back to the package default
// when no document exists yet.

func getDoc[T any](ctx context.Context, r *RedisStore, key string, fallback T) (T, error) {
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("failed to load %s: %w", key, err)
	}
	var doc T
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return fallback, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return doc, nil
}

func setDoc[T any](ctx context.Context, r *RedisStore, key string, doc T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) GetState(ctx context.Context, npcID string) (npc.State, error) {
	return getDoc(ctx, r, keyState+npcID, npc.DefaultState())
}

func (r *RedisStore) SetState(ctx context.Context, npcID string, s npc.State) error {
	return setDoc(ctx, r, keyState+npcID, s)
}

func (r *RedisStore) GetNeeds(ctx context.Context, npcID string) (npc.Needs, error) {
	return getDoc(ctx, r, keyNeeds+npcID, npc.DefaultNeeds())
}

func (r *RedisStore) SetNeeds(ctx context.Context, npcID string, n npc.Needs) error {
	return setDoc(ctx, r, keyNeeds+npcID, n)
}

func (r *RedisStore) GetEmotions(ctx context.Context, npcID string) (npc.Emotions, error) {
	return getDoc(ctx, r, keyEmotions+npcID, npc.DefaultEmotions())
}

func (r *RedisStore) SetEmotions(ctx context.Context, npcID string, e npc.Emotions) error {
	return setDoc(ctx, r, keyEmotions+npcID, e)
}

func (r *RedisStore) GetGoals(ctx context.Context, npcID string) (npc.Goals, error) {
	return getDoc(ctx, r, keyGoals+npcID, npc.DefaultGoals())
}

func (r *RedisStore) SetGoals(ctx context.Context, npcID string, g npc.Goals) error {
	return setDoc(ctx, r, keyGoals+npcID, g)
}

func (r *RedisStore) GetSleep(ctx context.Context, npcID string) (npc.SleepState, error) {
	return getDoc(ctx, r, keySleep+npcID, npc.DefaultSleepState())
}

func (r *RedisStore) SetSleep(ctx context.Context, npcID string, s npc.SleepState) error {
	return setDoc(ctx, r, keySleep+npcID, s)
}

func (r *RedisStore) GetRoutine(ctx context.Context, npcID string) (npc.DailyRoutine, error) {
	return getDoc(ctx, r, keyRoutine+npcID, npc.DefaultDailyRoutine())
}

func (r *RedisStore) SetRoutine(ctx context.Context, npcID string, routine npc.DailyRoutine) error {
	return setDoc(ctx, r, keyRoutine+npcID, routine)
}

func (r *RedisStore) GetBehaviorConfig(ctx context.Context, npcID string) (npc.BehaviorConfig, error) {
	return getDoc(ctx, r, keyBehaviorCfg+npcID, npc.BehaviorConfig{})
}

func (r *RedisStore) SetBehaviorConfig(ctx context.Context, npcID string, b npc.BehaviorConfig) error {
	return setDoc(ctx, r, keyBehaviorCfg+npcID, b)
}

func (r *RedisStore) GetSchedule(ctx context.Context, npcID string) (npc.Schedule, error) {
	return getDoc(ctx, r, keySchedule+npcID, npc.DefaultSchedule())
}

func (r *RedisStore) SetSchedule(ctx context.Context, npcID string, s npc.Schedule) error {
	return setDoc(ctx, r, keySchedule+npcID, s)
}

// Channels

func (r *RedisStore) GetChannels(ctx context.Context, npcID string) ([]string, error) {
	channels, err := r.client.SMembers(ctx, keyChannels+npcID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load channels: %w", err)
	}
	sort.Strings(channels)
	return channels, nil
}

func (r *RedisStore) AddChannel(ctx context.Context, npcID, channelID string) error {
	if err := r.client.SAdd(ctx, keyChannels+npcID, channelID).Err(); err != nil {
		return fmt.Errorf("failed to add channel: %w", err)
	}
	return nil
}

func (r *RedisStore) RemoveChannel(ctx context.Context, npcID, channelID string) error {
	if err := r.client.SRem(ctx, keyChannels+npcID, channelID).Err(); err != nil {
		return fmt.Errorf("failed to remove channel: %w", err)
	}
	return nil
}

// Behavior registry

func (r *RedisStore) SetBehaviorActive(ctx context.Context, npcID string, active bool) error {
	var err error
	if active {
		err = r.client.SAdd(ctx, keyActive, npcID).Err()
	} else {
		err = r.client.SRem(ctx, keyActive, npcID).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to update behavior flag: %w", err)
	}
	return nil
}

func (r *RedisStore) ActiveBehaviors(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, keyActive).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list active behaviors: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}
