package npc

import (
	"math/rand"

	"github.com/1Leo18/npcbot/pkg/turkish"
)

// Activities the autonomous scheduler can pick.
const (
	ActivityEat       = "eat"
	ActivityDrink     = "drink"
	ActivityBathroom  = "bathroom"
	ActivityRest      = "rest"
	ActivityWork      = "work"
	ActivityShop      = "shop"
	ActivityClean     = "clean"
	ActivitySocialize = "socialize"
	ActivityExplore   = "explore"
	ActivityIdle      = "idle"
)

// UrgentActivity returns the need-driven activity that preempts any
// plan, if one applies. The last activity is excluded so the NPC does
// not eat twice in a row while its hunger meter catches up.
func UrgentActivity(needs Needs, lastActivity string) (string, bool) {
	switch {
	case needs.Hunger < 30 && lastActivity != ActivityEat:
		return ActivityEat, true
	case needs.Thirst < 30 && lastActivity != ActivityDrink:
		return ActivityDrink, true
	case needs.Bladder > 80 && lastActivity != ActivityBathroom:
		return ActivityBathroom, true
	case needs.Energy < 30 && lastActivity != ActivityRest:
		return ActivityRest, true
	}
	return "", false
}

// ChooseActivity picks the next autonomous activity. Urgent needs win
// outright; otherwise a role-weighted list is sampled, excluding the
// previous activity so the NPC does not repeat itself.
func ChooseActivity(needs Needs, role string, lastActivity string, rng *rand.Rand) string {
	if activity, urgent := UrgentActivity(needs, lastActivity); urgent {
		return activity
	}

	var weighted []string
	job := turkish.Lower(role)
	switch {
	case turkish.Contains(job, "demirci"):
		weighted = []string{ActivityWork, ActivityWork, ActivityWork, ActivityShop, ActivityClean, ActivitySocialize, ActivityExplore, ActivityIdle}
	case turkish.Contains(job, "tüccar"):
		weighted = []string{ActivityShop, ActivityWork, ActivityWork, ActivitySocialize, ActivityExplore, ActivityIdle}
	case turkish.Contains(job, "kral"):
		weighted = []string{ActivityWork, ActivitySocialize, ActivityExplore, ActivityRest, ActivityIdle}
	default:
		weighted = []string{ActivityWork, ActivitySocialize, ActivityExplore, ActivityRest, ActivityIdle}
	}

	candidates := weighted[:0:0]
	for _, a := range weighted {
		if a != lastActivity {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		return ActivityIdle
	}
	return candidates[rng.Intn(len(candidates))]
}

// SummarizeNeeds renders the needs as the Turkish status line injected
// into behavior prompts.
func SummarizeNeeds(n Needs) string {
	meter := func(v int) string {
		switch {
		case v > 80:
			return "çok yüksek"
		case v > 60:
			return "yüksek"
		case v > 40:
			return "orta"
		case v > 20:
			return "düşük"
		default:
			return "çok düşük"
		}
	}
	bladder := func(v int) string {
		switch {
		case v < 20:
			return "rahat"
		case v < 40:
			return "biraz dolu"
		case v < 60:
			return "dolu"
		case v < 80:
			return "çok dolu"
		default:
			return "acil"
		}
	}
	return "Şu anki durumun: Açlık: " + meter(n.Hunger) +
		", Susuzluk: " + meter(n.Thirst) +
		", Tuvalet: " + bladder(n.Bladder) +
		", Enerji: " + meter(n.Energy) + "."
}
