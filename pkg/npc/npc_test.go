package npc

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/1Leo18/npcbot/pkg/economy"
)

func TestDefinitionID(t *testing.T) {
	d := &Definition{Name: "Ahmet"}
	assert.Equal(t, "ahmet", d.ID())

	d = &Definition{Name: "KILIÇ USTASI"}
	assert.Equal(t, "kılıç ustası", d.ID())
}

func TestItemCost(t *testing.T) {
	item := Item{Name: "Demir Kılıç", Price: 100, Currency: economy.Gold}
	assert.Equal(t, economy.Balance{Gold: 100}, item.Cost())
}

func TestNeedsDecay(t *testing.T) {
	n := DefaultNeeds().Decay()
	assert.Equal(t, Needs{Hunger: 95, Thirst: 95, Bladder: 5, Energy: 98}, n)

	// Values clamp at the meter bounds.
	n = Needs{Hunger: 2, Thirst: 0, Bladder: 98, Energy: 1}.Decay()
	assert.Equal(t, Needs{Hunger: 0, Thirst: 0, Bladder: 100, Energy: 0}, n)
}

func TestNeedsSatisfy(t *testing.T) {
	n := Needs{Hunger: 10, Thirst: 10, Bladder: 90, Energy: 10}
	assert.Equal(t, 100, n.Satisfy(ActivityEat).Hunger)
	assert.Equal(t, 100, n.Satisfy(ActivityDrink).Thirst)
	assert.Equal(t, 0, n.Satisfy(ActivityBathroom).Bladder)
	assert.Equal(t, 100, n.Satisfy(ActivityRest).Energy)
	assert.Equal(t, n, n.Satisfy(ActivityWork))
}

func TestChooseActivityUrgentNeedsWin(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	needs := DefaultNeeds()
	needs.Hunger = 10
	assert.Equal(t, ActivityEat, ChooseActivity(needs, "demirci", "", rng))

	// The same urgent need is not repeated back to back.
	got := ChooseActivity(needs, "demirci", ActivityEat, rng)
	assert.NotEqual(t, ActivityEat, got)

	needs = DefaultNeeds()
	needs.Bladder = 90
	assert.Equal(t, ActivityBathroom, ChooseActivity(needs, "tüccar", "", rng))
}

func TestChooseActivityNeverRepeatsLast(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		got := ChooseActivity(DefaultNeeds(), "demirci", ActivityWork, rng)
		assert.NotEqual(t, ActivityWork, got)
	}
}

func TestSummarizeNeeds(t *testing.T) {
	s := SummarizeNeeds(Needs{Hunger: 90, Thirst: 50, Bladder: 85, Energy: 15})
	assert.Equal(t, "Şu anki durumun: Açlık: çok yüksek, Susuzluk: orta, Tuvalet: acil, Enerji: çok düşük.", s)
}

func TestEmotionsDerive(t *testing.T) {
	e := Emotions{Happiness: 20, Anger: 80, Fear: 10, Trust: 30, Curiosity: 40}
	assert.Equal(t, "anger", e.Derive().DominantEmotion)

	// Ties resolve to the first meter in declaration order.
	e = Emotions{Happiness: 50, Trust: 50}
	assert.Equal(t, "happiness", e.Derive().DominantEmotion)
}

func TestSleepWindow(t *testing.T) {
	s := DefaultSleepState()

	at := func(hhmm string) time.Time {
		parsed, err := time.Parse("15:04", hhmm)
		if err != nil {
			t.Fatalf("bad time %q: %v", hhmm, err)
		}
		return parsed
	}

	assert.True(t, s.ShouldSleep(at("23:30"), 100), "inside window, after midnight wrap start")
	assert.True(t, s.ShouldSleep(at("03:00"), 100), "inside window, before wake")
	assert.False(t, s.ShouldSleep(at("12:00"), 100), "daytime")
	assert.True(t, s.ShouldSleep(at("12:00"), 15), "exhausted NPCs sleep regardless")
}

func TestSleepQuality(t *testing.T) {
	start := time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)
	s := DefaultSleepState().FallAsleep(start)
	assert.True(t, s.IsAsleep)

	// Full night: full quality, 80 energy back.
	woke, energy := s.WakeUp(start.Add(8 * time.Hour))
	assert.False(t, woke.IsAsleep)
	assert.InDelta(t, 100, woke.SleepQuality, 0.01)
	assert.Equal(t, 80, energy)

	// A nap under two hours halves the quality.
	woke, _ = s.WakeUp(start.Add(time.Hour))
	assert.InDelta(t, 6.25, woke.SleepQuality, 0.01)

	// Oversleeping costs a fifth.
	woke, _ = s.WakeUp(start.Add(14 * time.Hour))
	assert.InDelta(t, 80, woke.SleepQuality, 0.01)
}

func TestRoutinePick(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	r := DefaultDailyRoutine()

	morning := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) // a Wednesday
	for i := 0; i < 20; i++ {
		assert.Contains(t, r.Morning, r.Pick(morning, rng))
	}

	// Saturday evenings mix in the special-day pool.
	saturday := time.Date(2024, 5, 4, 18, 0, 0, 0, time.UTC)
	pool := append(append([]string{}, r.Evening...), r.SpecialDays["saturday"]...)
	for i := 0; i < 20; i++ {
		assert.Contains(t, pool, r.Pick(saturday, rng))
	}

	empty := DailyRoutine{}
	assert.Equal(t, ActivityIdle, empty.Pick(morning, rng))
}

func TestEnergyLoss(t *testing.T) {
	assert.Equal(t, 2.0, EnergyLoss("work"))
	assert.Equal(t, 0.5, EnergyLoss("explore"))
	assert.Equal(t, -1.0, EnergyLoss("sleeping"))
}
