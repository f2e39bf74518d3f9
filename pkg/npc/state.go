package npc

import "time"

// State is the coarse runtime snapshot of a simulated NPC.
type State struct {
	Activity   string    `json:"activity"`
	Location   string    `json:"location"`
	Mood       string    `json:"mood"`
	Energy     int       `json:"energy"`
	LastAction time.Time `json:"lastAction"`
}

// DefaultState is the snapshot a never-simulated NPC starts from.
func DefaultState() State {
	return State{
		Activity: "idle",
		Location: "unknown",
		Mood:     "neutral",
		Energy:   100,
	}
}

// Needs are the 0-100 survival meters the scheduler decays between
// autonomous actions. Hunger, thirst and energy drain toward 0; bladder
// fills toward 100.
type Needs struct {
	Hunger  int `json:"hunger"`
	Thirst  int `json:"thirst"`
	Bladder int `json:"bladder"`
	Energy  int `json:"energy"`
}

// DefaultNeeds returns a fully rested, fed NPC.
func DefaultNeeds() Needs {
	return Needs{Hunger: 100, Thirst: 100, Bladder: 0, Energy: 100}
}

// Decay applies one scheduler tick's worth of wear.
func (n Needs) Decay() Needs {
	return Needs{
		Hunger:  clamp(n.Hunger - 5),
		Thirst:  clamp(n.Thirst - 5),
		Bladder: clamp(n.Bladder + 5),
		Energy:  clamp(n.Energy - 2),
	}
}

// Satisfy restores the need the given activity addresses; other
// activities change nothing.
func (n Needs) Satisfy(activity string) Needs {
	switch activity {
	case ActivityEat:
		n.Hunger = 100
	case ActivityDrink:
		n.Thirst = 100
	case ActivityBathroom:
		n.Bladder = 0
	case ActivityRest:
		n.Energy = 100
	}
	return n
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Emotions are the 0-100 emotional meters plus the derived dominant
// emotion.
type Emotions struct {
	Happiness       int    `json:"happiness"`
	Anger           int    `json:"anger"`
	Fear            int    `json:"fear"`
	Trust           int    `json:"trust"`
	Curiosity       int    `json:"curiosity"`
	DominantEmotion string `json:"dominantEmotion"`
}

// DefaultEmotions returns the neutral baseline.
func DefaultEmotions() Emotions {
	return Emotions{Happiness: 50, Trust: 50, Curiosity: 50, DominantEmotion: "neutral"}
}

// Derive recomputes the dominant emotion from the meter values. Ties
// resolve in the fixed order below, matching meter declaration order.
func (e Emotions) Derive() Emotions {
	meters := []struct {
		name  string
		value int
	}{
		{"happiness", e.Happiness},
		{"anger", e.Anger},
		{"fear", e.Fear},
		{"trust", e.Trust},
		{"curiosity", e.Curiosity},
	}
	dominant := meters[0]
	for _, m := range meters[1:] {
		if m.value > dominant.value {
			dominant = m
		}
	}
	e.DominantEmotion = dominant.name
	return e
}

// Goals are an NPC's motivations, configurable by admins and surfaced
// to the behavior prompts.
type Goals struct {
	Primary   string   `json:"primary"`
	Secondary []string `json:"secondary,omitempty"`
	Immediate string   `json:"immediate,omitempty"`
	LongTerm  []string `json:"longTerm,omitempty"`
}

// DefaultGoals returns the survival baseline.
func DefaultGoals() Goals {
	return Goals{Primary: "survive"}
}
