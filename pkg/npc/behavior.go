package npc

// BehaviorConfig holds the admin-set message templates used for
// unprompted channel messages.
type BehaviorConfig struct {
	ArrivalMessages   string `json:"arrival_messages,omitempty"`
	DepartureMessages string `json:"departure_messages,omitempty"`
	WorkMessages      string `json:"work_messages,omitempty"`
	RandomMessages    string `json:"random_messages,omitempty"`
}

// Template returns the configured template for a message type, falling
// back to a plain default.
func (b BehaviorConfig) Template(messageType string) string {
	switch messageType {
	case "arrival":
		if b.ArrivalMessages != "" {
			return b.ArrivalMessages
		}
		return "Tüccar geldi!"
	case "departure":
		if b.DepartureMessages != "" {
			return b.DepartureMessages
		}
		return "Tüccar ayrıldı."
	case "work":
		if b.WorkMessages != "" {
			return b.WorkMessages
		}
		return "Çalışıyorum..."
	default:
		if b.RandomMessages != "" {
			return b.RandomMessages
		}
		return "Merhaba!"
	}
}

// Schedule controls how often an autonomous NPC posts on its own.
type Schedule struct {
	IntervalMinutes int `json:"interval_minutes"`
}

// DefaultSchedule posts roughly every half hour.
func DefaultSchedule() Schedule {
	return Schedule{IntervalMinutes: 30}
}
