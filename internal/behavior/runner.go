// Package behavior drives the autonomous NPC simulation: per-NPC
// loops that decay needs, pick activities, manage sleep and post
// unprompted in-character messages.
package behavior

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/1Leo18/npcbot/internal/services"
	"github.com/1Leo18/npcbot/internal/storage"
	"github.com/1Leo18/npcbot/pkg/npc"
)

// Poster delivers an autonomous message to a platform channel. The
// Discord layer implements it; a nil Poster simulates without posting.
type Poster interface {
	Post(ctx context.Context, channelID string, def *npc.Definition, message string) error
}

// Runner owns every NPC behavior loop. Loops are idempotently
// started and stopped by NPC ID and survive restarts through the
// persisted active set.
type Runner struct {
	store  storage.Storage
	llm    services.LLMService
	poster Poster
	logger *slog.Logger

	tick       time.Duration
	energyTick time.Duration

	mu    sync.Mutex
	loops map[string]context.CancelFunc
	wg    sync.WaitGroup
	rng   *rand.Rand
}

// New creates a runner. tick is the behavior interval used when an NPC
// has no schedule of its own, energyTick the per-activity energy drain
// interval.
func New(store storage.Storage, llm services.LLMService, poster Poster, logger *slog.Logger, tick, energyTick time.Duration) *Runner {
	return &Runner{
		store:      store,
		llm:        llm,
		poster:     poster,
		logger:     logger,
		tick:       tick,
		energyTick: energyTick,
		loops:      make(map[string]context.CancelFunc),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start launches the behavior loop for an NPC. Starting a running
// loop is a no-op.
func (r *Runner) Start(ctx context.Context, npcID string) error {
	r.mu.Lock()
	if _, running := r.loops[npcID]; running {
		r.mu.Unlock()
		return nil
	}
	loopCtx, cancel := context.WithCancel(context.Background())
	r.loops[npcID] = cancel
	r.wg.Add(1)
	r.mu.Unlock()

	if err := r.store.SetBehaviorActive(ctx, npcID, true); err != nil {
		r.logger.Warn("Failed to persist behavior flag", "npc", npcID, "error", err)
	}
	r.logger.Info("Behavior loop started", "npc", npcID)

	go r.run(loopCtx, npcID)
	return nil
}

// Stop halts the loop for an NPC. Stopping a stopped loop is a no-op.
func (r *Runner) Stop(ctx context.Context, npcID string) {
	r.mu.Lock()
	cancel, running := r.loops[npcID]
	if running {
		delete(r.loops, npcID)
	}
	r.mu.Unlock()
	if !running {
		return
	}
	cancel()
	if err := r.store.SetBehaviorActive(ctx, npcID, false); err != nil {
		r.logger.Warn("Failed to persist behavior flag", "npc", npcID, "error", err)
	}
	r.logger.Info("Behavior loop stopped", "npc", npcID)
}

// Running reports whether the NPC's loop is active.
func (r *Runner) Running(npcID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, running := r.loops[npcID]
	return running
}

// Resume restarts the loops that were active before the last
// shutdown.
func (r *Runner) Resume(ctx context.Context) error {
	ids, err := r.store.ActiveBehaviors(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := r.Start(ctx, id); err != nil {
			return err
		}
	}
	if len(ids) > 0 {
		r.logger.Info("Resumed behavior loops", "count", len(ids))
	}
	return nil
}

// Shutdown cancels every loop without clearing the persisted flags,
// so Resume picks them back up after a restart.
func (r *Runner) Shutdown() {
	r.mu.Lock()
	for id, cancel := range r.loops {
		cancel()
		delete(r.loops, id)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Runner) run(ctx context.Context, npcID string) {
	defer r.wg.Done()

	// The per-NPC schedule wins over the runner-wide default. Changing
	// the schedule takes effect when the loop restarts.
	interval := r.tick
	if sched, err := r.store.GetSchedule(ctx, npcID); err == nil && sched.IntervalMinutes > 0 {
		interval = time.Duration(sched.IntervalMinutes) * time.Minute
	}

	behaviorTicker := time.NewTicker(interval)
	defer behaviorTicker.Stop()
	energyTicker := time.NewTicker(r.energyTick)
	defer energyTicker.Stop()

	// fractional energy cost carried between ticks, owned by this loop
	var energyDebt float64

	for {
		select {
		case <-ctx.Done():
			return
		case <-behaviorTicker.C:
			if err := r.step(ctx, npcID, time.Now()); err != nil {
				r.logger.Error("Behavior step failed", "npc", npcID, "error", err)
			}
		case <-energyTicker.C:
			if err := r.drainEnergy(ctx, npcID, &energyDebt); err != nil {
				r.logger.Error("Energy drain failed", "npc", npcID, "error", err)
			}
		}
	}
}

// SetPoster wires the platform poster after construction. The Discord
// bot needs the runner to exist before it can register itself as the
// poster.
func (r *Runner) SetPoster(p Poster) {
	r.mu.Lock()
	r.poster = p
	r.mu.Unlock()
}

func (r *Runner) getPoster() Poster {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.poster
}

// PostTemplate sends one of the configured template messages to a
// channel immediately, outside the scheduler loop.
func (r *Runner) PostTemplate(ctx context.Context, npcID, channelID, messageType string) error {
	def, err := r.store.GetNPC(ctx, npcID)
	if err != nil {
		return err
	}
	if def == nil {
		return fmt.Errorf("npc %q not found", npcID)
	}
	cfg, err := r.store.GetBehaviorConfig(ctx, def.ID())
	if err != nil {
		return err
	}
	poster := r.getPoster()
	if poster == nil {
		return nil
	}
	return poster.Post(ctx, channelID, def, cfg.Template(messageType))
}

// step runs one behavior cycle: sleep transitions first, then needs
// decay and activity selection, then an in-character message.
func (r *Runner) step(ctx context.Context, npcID string, now time.Time) error {
	def, err := r.store.GetNPC(ctx, npcID)
	if err != nil {
		return err
	}
	if def == nil {
		// definition was deleted out from under the loop
		r.Stop(ctx, npcID)
		return nil
	}

	sleep, err := r.store.GetSleep(ctx, npcID)
	if err != nil {
		return err
	}
	needs, err := r.store.GetNeeds(ctx, npcID)
	if err != nil {
		return err
	}
	state, err := r.store.GetState(ctx, npcID)
	if err != nil {
		return err
	}

	if sleep.IsAsleep {
		if sleep.InSleepWindow(now) {
			return nil // still sleeping
		}
		woken, energyGain := sleep.WakeUp(now)
		needs.Energy = clampMeter(needs.Energy + energyGain)
		state.Activity = npc.ActivityIdle
		state.LastAction = now
		if err := r.saveCycle(ctx, npcID, woken, needs, state); err != nil {
			return err
		}
		r.post(ctx, npcID, def, "wake_up", needs, state.Activity)
		return nil
	}

	if sleep.ShouldSleep(now, needs.Energy) {
		asleep := sleep.FallAsleep(now)
		state.Activity = "sleeping"
		state.LastAction = now
		if err := r.saveCycle(ctx, npcID, asleep, needs, state); err != nil {
			return err
		}
		r.post(ctx, npcID, def, "sleeping", needs, state.Activity)
		return nil
	}

	routine, err := r.store.GetRoutine(ctx, npcID)
	if err != nil {
		return err
	}

	needs = needs.Decay()
	activity, urgent := npc.UrgentActivity(needs, state.Activity)
	if !urgent {
		rng := r.rand()
		// An unpressed NPC follows its day plan half the time and
		// improvises by role the rest.
		if rng.Intn(2) == 0 {
			activity = routine.Pick(now, rng)
		} else {
			activity = npc.ChooseActivity(needs, def.Role, state.Activity, rng)
		}
	}
	needs = needs.Satisfy(activity)
	state.Activity = activity
	state.LastAction = now

	if err := r.saveCycle(ctx, npcID, sleep, needs, state); err != nil {
		return err
	}
	r.post(ctx, npcID, def, activity, needs, state.Activity)
	return nil
}

func (r *Runner) saveCycle(ctx context.Context, npcID string, sleep npc.SleepState, needs npc.Needs, state npc.State) error {
	if err := r.store.SetSleep(ctx, npcID, sleep); err != nil {
		return err
	}
	if err := r.store.SetNeeds(ctx, npcID, needs); err != nil {
		return err
	}
	return r.store.SetState(ctx, npcID, state)
}

// drainEnergy applies the per-interval energy cost of the current
// activity. Sleeping has a negative cost and restores energy.
// Fractional costs accumulate in debt until a whole point is due.
func (r *Runner) drainEnergy(ctx context.Context, npcID string, debt *float64) error {
	state, err := r.store.GetState(ctx, npcID)
	if err != nil {
		return err
	}
	needs, err := r.store.GetNeeds(ctx, npcID)
	if err != nil {
		return err
	}
	*debt += npc.EnergyLoss(state.Activity)
	whole := int(*debt)
	if whole == 0 {
		return nil
	}
	*debt -= float64(whole)
	needs.Energy = clampMeter(needs.Energy - whole)
	return r.store.SetNeeds(ctx, npcID, needs)
}

// post generates and delivers the autonomous message for this cycle.
// Posting is best effort: failures are logged, the simulation ticks
// on.
func (r *Runner) post(ctx context.Context, npcID string, def *npc.Definition, activity string, needs npc.Needs, lastActivity string) {
	poster := r.getPoster()
	if poster == nil {
		return
	}
	channels, err := r.store.GetChannels(ctx, npcID)
	if err != nil {
		r.logger.Warn("Failed to load channels", "npc", npcID, "error", err)
		return
	}
	if len(channels) == 0 {
		return
	}
	channelID := channels[r.intn(len(channels))]

	message, err := r.generateMessage(ctx, def, activity, needs, lastActivity)
	if err != nil {
		r.logger.Warn("Autonomous generation failed", "npc", npcID, "activity", activity, "error", err)
		return
	}
	if err := poster.Post(ctx, channelID, def, message); err != nil {
		r.logger.Warn("Autonomous post failed", "npc", npcID, "channel", channelID, "error", err)
	}
}

func clampMeter(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func (r *Runner) rand() *rand.Rand {
	// rand.Rand is not goroutine safe; loops share one source under
	// the runner lock
	r.mu.Lock()
	defer r.mu.Unlock()
	return rand.New(rand.NewSource(r.rng.Int63()))
}

func (r *Runner) intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}
