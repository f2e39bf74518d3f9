// Package engine implements the chat pipeline: identity resolution,
// prompt composition, generation, tag side effects and memory
// persistence, plus the purchase finalizer and the combat analysis
// calls.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/1Leo18/npcbot/internal/services"
	"github.com/1Leo18/npcbot/internal/storage"
	"github.com/1Leo18/npcbot/pkg/chat"
	"github.com/1Leo18/npcbot/pkg/identity"
	"github.com/1Leo18/npcbot/pkg/memory"
	"github.com/1Leo18/npcbot/pkg/npc"
	"github.com/1Leo18/npcbot/pkg/prompts"
	"github.com/1Leo18/npcbot/pkg/roleplay"
	"github.com/1Leo18/npcbot/pkg/tags"
)

// Engine wires the storage and LLM layers into the chat operations.
type Engine struct {
	store      storage.Storage
	llm        services.LLMService
	classifier roleplay.Classifier
	logger     *slog.Logger

	// ownerName resolves a user ID to a display name for the
	// impersonation warning. Optional; the Discord layer provides it.
	ownerName func(ctx context.Context, userID string) string
}

// New creates an engine with the default keyword classifier.
func New(store storage.Storage, llm services.LLMService, logger *slog.Logger) *Engine {
	return &Engine{
		store:      store,
		llm:        llm,
		classifier: roleplay.KeywordClassifier{},
		logger:     logger,
	}
}

// WithClassifier swaps the intent classifier. Used in tests.
func (e *Engine) WithClassifier(c roleplay.Classifier) *Engine {
	e.classifier = c
	return e
}

// WithOwnerNameResolver sets the lookup used to name the legitimate
// holder of a claimed identity in impersonation warnings.
func (e *Engine) WithOwnerNameResolver(fn func(ctx context.Context, userID string) string) *Engine {
	e.ownerName = fn
	return e
}

// ErrNPCNotFound is reported when the named character does not exist.
var ErrNPCNotFound = fmt.Errorf("npc not found")

// Exchange runs one full conversation turn and returns the formatted
// in-character reply. Generation failures produce the fixed apology
// rather than an error; refusal substitutions and the apology are not
// persisted to history.
func (e *Engine) Exchange(ctx context.Context, req chat.ChatRequest) (*chat.ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	def, err := e.store.GetNPC(ctx, req.NPC)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, fmt.Errorf("%w: %s", ErrNPCNotFound, req.NPC)
	}
	npcID := def.ID()

	warning, err := e.resolveIdentity(ctx, npcID, req)
	if err != nil {
		return nil, err
	}

	history, err := e.store.GetConversation(ctx, npcID, req.UserID)
	if err != nil {
		return nil, err
	}
	global, err := e.store.GetGlobalMemory(ctx, npcID)
	if err != nil {
		return nil, err
	}
	balance, err := e.store.GetBalance(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	catalog, err := e.store.GetItems(ctx, npcID)
	if err != nil {
		return nil, err
	}
	identities, err := e.store.GetIdentities(ctx, npcID)
	if err != nil {
		return nil, err
	}

	system, payload, err := prompts.New().
		WithNPC(def).
		WithCatalog(catalog).
		WithIdentities(identities).
		WithGlobalMemory(global).
		WithHistory(history).
		WithBalance(balance).
		WithUser(req.UserID, req.UserName).
		WithUserMessage(req.Message).
		WithWarning(warning).
		Build()
	if err != nil {
		return nil, err
	}

	reply, err := e.llm.Chat(ctx, system, payload)
	if err != nil {
		e.logger.Error("Generation failed", "npc", npcID, "user", req.UserID, "error", err)
		return &chat.ChatResponse{NPC: def.Name, Message: roleplay.FallbackReply}, nil
	}

	if refusal := e.checkSaleTags(req.Message, reply); refusal != "" {
		return &chat.ChatResponse{NPC: def.Name, Message: refusal}, nil
	}

	reply, err = e.applyTransfer(ctx, npcID, req, reply)
	if err != nil {
		return nil, err
	}

	if err := e.store.AppendConversation(ctx, npcID, req.UserID,
		chat.Message{Role: chat.RoleUser, Text: req.Message},
		chat.Message{Role: chat.RoleModel, Text: reply},
	); err != nil {
		return nil, err
	}

	e.judgeMemory(ctx, npcID, def.Name, req, reply)

	return &chat.ChatResponse{NPC: def.Name, Message: roleplay.Format(reply)}, nil
}

// resolveIdentity records introductions and detects impersonation.
// It returns the warning block for the system instruction, or empty.
func (e *Engine) resolveIdentity(ctx context.Context, npcID string, req chat.ChatRequest) (string, error) {
	name, ok := identity.DetectIntroduction(req.Message)
	if !ok {
		return "", nil
	}
	claims, err := e.store.GetIdentities(ctx, npcID)
	if err != nil {
		return "", err
	}
	if claims == nil {
		claims = make(map[string]string)
	}
	res := identity.Resolve(claims, name, req.UserID)
	switch res.Outcome {
	case identity.OutcomeImpersonation:
		e.logger.Info("Impersonation attempt", "npc", npcID, "user", req.UserID, "claimed", name)
		ownerName := "başka biri"
		if e.ownerName != nil {
			if resolved := e.ownerName(ctx, res.OwnerID); resolved != "" {
				ownerName = resolved
			}
		}
		return prompts.ImpersonationWarning(req.UserName, name, ownerName, res.OwnerID), nil
	case identity.OutcomeRecorded:
		if err := e.store.SetIdentities(ctx, npcID, claims); err != nil {
			return "", err
		}
	}
	return "", nil
}

// checkSaleTags enforces the tag contract on sales replies. It returns
// a refusal to substitute for the reply, or empty when the reply may
// pass through.
func (e *Engine) checkSaleTags(userMessage, reply string) string {
	switch e.classifier.Classify(userMessage) {
	case roleplay.IntentCatalogQuery:
		return ""
	case roleplay.IntentPurchase:
		parsed := tags.Parse(reply)
		if parsed.HasSaleTags() {
			return ""
		}
		if roleplay.IsFreeRequest(userMessage) {
			return roleplay.RefuseFree
		}
		if roleplay.IsSalesUtterance(reply) {
			return roleplay.RefuseUntagged
		}
	}
	return ""
}

// applyTransfer applies the first economy tag to the user's wallet and
// strips it from the reply. Price and item tags stay in the stored
// text: the purchase finalizer re-parses them later.
func (e *Engine) applyTransfer(ctx context.Context, npcID string, req chat.ChatRequest, reply string) (string, error) {
	parsed := tags.Parse(reply)
	if parsed.Transfer == nil {
		return reply, nil
	}
	newBalance, err := e.store.AdjustBalance(ctx, req.UserID, parsed.Transfer.Delta())
	if err != nil {
		return "", err
	}
	e.logger.Info("Economy transfer applied",
		"npc", npcID,
		"user", req.UserID,
		"action", parsed.Transfer.Action,
		"description", parsed.Transfer.Description,
		"balance", newBalance,
	)
	return tags.StripTransfer(reply), nil
}

// judgeMemory asks the model whether the exchange is worth keeping in
// global memory. Failures are logged and dropped: memory is a best
// effort layer.
func (e *Engine) judgeMemory(ctx context.Context, npcID, npcName string, req chat.ChatRequest, reply string) {
	out, err := e.llm.Generate(ctx, prompts.MemoryJudgment(req.UserName, req.Message, npcName, reply))
	if err != nil {
		e.logger.Warn("Memory judgment failed", "npc", npcID, "error", err)
		return
	}
	judgment, ok := parseJudgment(out)
	if !ok || !judgment.Remember || judgment.Summary == "" {
		return
	}
	added, err := e.store.AppendGlobalMemory(ctx, npcID, memory.GlobalEntry{
		ID:        uuid.NewString(),
		Type:      memory.GlobalEntryTypeInstruction,
		Content:   judgment.Summary,
		Source:    req.UserName,
		Timestamp: time.Now(),
	})
	if err != nil {
		e.logger.Warn("Memory append failed", "npc", npcID, "error", err)
		return
	}
	if added {
		e.logger.Info("Global memory recorded", "npc", npcID, "summary", judgment.Summary)
	}
}

// NPCs returns all defined characters.
func (e *Engine) NPCs(ctx context.Context) ([]*npc.Definition, error) {
	return e.store.ListNPCs(ctx)
}
