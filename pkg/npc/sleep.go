package npc

import "time"

// SleepSchedule is an NPC's configured sleeping window.
type SleepSchedule struct {
	BedTime          string `json:"bedTime"`  // "HH:MM"
	WakeTime         string `json:"wakeTime"` // "HH:MM"
	SleepDuration    int    `json:"sleepDuration"`
	IsRegularSleeper bool   `json:"isRegularSleeper"`
}

// SleepState tracks whether an NPC is asleep and how well it slept.
type SleepState struct {
	IsAsleep       bool          `json:"isAsleep"`
	SleepStartTime *time.Time    `json:"sleepStartTime,omitempty"`
	WakeUpTime     *time.Time    `json:"wakeUpTime,omitempty"`
	SleepQuality   float64       `json:"sleepQuality"`
	LastSleepTime  *time.Time    `json:"lastSleepTime,omitempty"`
	Schedule       SleepSchedule `json:"sleepSchedule"`
}

// DefaultSleepState returns the regular 23:00-07:00 sleeper.
func DefaultSleepState() SleepState {
	return SleepState{
		SleepQuality: 100,
		Schedule: SleepSchedule{
			BedTime:          "23:00",
			WakeTime:         "07:00",
			SleepDuration:    8,
			IsRegularSleeper: true,
		},
	}
}

// InSleepWindow reports whether now falls inside the configured sleep
// window. The window wraps midnight when bedTime > wakeTime, which the
// lexicographic comparison handles for zero-padded HH:MM strings.
func (s SleepState) InSleepWindow(now time.Time) bool {
	current := now.Format("15:04")
	return current >= s.Schedule.BedTime || current < s.Schedule.WakeTime
}

// ShouldSleep reports whether now falls inside the sleep window, or the
// NPC's energy is critically low.
func (s SleepState) ShouldSleep(now time.Time, energy int) bool {
	return s.InSleepWindow(now) || energy < 20
}

// FallAsleep marks the NPC asleep as of now. No-op when already asleep.
func (s SleepState) FallAsleep(now time.Time) SleepState {
	if s.IsAsleep {
		return s
	}
	s.IsAsleep = true
	s.SleepStartTime = &now
	s.LastSleepTime = &now
	return s
}

// WakeUp marks the NPC awake, computes sleep quality from the slept
// duration (8h is full quality; under 2h halves it, over 12h takes 20%
// off) and returns the energy gained (80% of quality).
func (s SleepState) WakeUp(now time.Time) (SleepState, int) {
	if !s.IsAsleep || s.SleepStartTime == nil {
		return s, 0
	}
	hours := now.Sub(*s.SleepStartTime).Hours()
	quality := hours * 12.5
	if quality > 100 {
		quality = 100
	}
	if hours < 2 {
		quality *= 0.5
	} else if hours > 12 {
		quality *= 0.8
	}

	s.IsAsleep = false
	s.SleepStartTime = nil
	s.WakeUpTime = &now
	s.SleepQuality = quality
	return s, int(quality * 0.8)
}
