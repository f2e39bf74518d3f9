package npc

import (
	"math/rand"
	"time"
)

// DailyRoutine is the activity table the scheduler samples when an NPC
// follows its day instead of its needs.
type DailyRoutine struct {
	Morning     []string            `json:"morning"`
	Afternoon   []string            `json:"afternoon"`
	Evening     []string            `json:"evening"`
	Night       []string            `json:"night"`
	SpecialDays map[string][]string `json:"specialDays,omitempty"`
}

// DefaultDailyRoutine mirrors an ordinary villager's day.
func DefaultDailyRoutine() DailyRoutine {
	return DailyRoutine{
		Morning:   []string{"wake_up", "hygiene", "breakfast", "work_prep"},
		Afternoon: []string{"work", "lunch", "work", "socialize"},
		Evening:   []string{"dinner", "relax", "socialize", "prepare_sleep"},
		Night:     []string{"sleep"},
		SpecialDays: map[string][]string{
			"monday":   {"work", "meeting", "planning"},
			"friday":   {"work", "socialize", "weekend_prep"},
			"saturday": {"relax", "socialize", "hobby", "entertainment"},
			"sunday":   {"rest", "family_time", "prepare_week"},
		},
	}
}

// TimeOfDay buckets the clock into the routine's four segments.
func TimeOfDay(now time.Time) string {
	switch h := now.Hour(); {
	case h >= 5 && h < 12:
		return "morning"
	case h >= 12 && h < 17:
		return "afternoon"
	case h >= 17 && h < 22:
		return "evening"
	default:
		return "night"
	}
}

// Weekday returns the lower-case English weekday used as SpecialDays key.
func Weekday(now time.Time) string {
	days := []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}
	return days[int(now.Weekday())]
}

// Pick samples one activity for the current segment, mixing in any
// special-day entries. Falls back to idle on an empty table.
func (r DailyRoutine) Pick(now time.Time, rng *rand.Rand) string {
	var pool []string
	switch TimeOfDay(now) {
	case "morning":
		pool = append(pool, r.Morning...)
	case "afternoon":
		pool = append(pool, r.Afternoon...)
	case "evening":
		pool = append(pool, r.Evening...)
	default:
		pool = append(pool, r.Night...)
	}
	if special, ok := r.SpecialDays[Weekday(now)]; ok {
		pool = append(pool, special...)
	}
	if len(pool) == 0 {
		return ActivityIdle
	}
	return pool[rng.Intn(len(pool))]
}

// EnergyLoss is the per-minute energy drain for an activity class.
// Sleeping recovers energy instead.
func EnergyLoss(activity string) float64 {
	switch activity {
	case "work", "meeting", "planning":
		return 2
	case "socialize", "entertainment":
		return 1.5
	case "rest", "relax":
		return 0.2
	case "sleeping":
		return -1
	default:
		return 0.5
	}
}
