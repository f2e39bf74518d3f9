// Package npc holds the NPC domain model: the persistent character
// definition, the sale catalog, and the runtime simulation state the
// autonomous behavior scheduler drives.
package npc

import (
	"time"

	"github.com/1Leo18/npcbot/pkg/economy"
	"github.com/1Leo18/npcbot/pkg/turkish"
)

// Definition is the persistent character sheet. Definitions are keyed
// by ID (Turkish-lower-cased name) in storage.
type Definition struct {
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	Personality    string   `json:"personality"`
	Knowledge      string   `json:"knowledge"`
	IsVillain      bool     `json:"isVillain"`
	DarknessLevel  int      `json:"darknessLevel"`
	AllowedActions []string `json:"allowedActions,omitempty"`
	MoralAlignment string   `json:"moralAlignment,omitempty"`
}

// ID returns the storage key for the definition.
func (d *Definition) ID() string {
	return turkish.Lower(d.Name)
}

// Item is one entry of an NPC's sale catalog, unique by
// case-insensitive name.
type Item struct {
	Name     string           `json:"name"`
	Price    int              `json:"price"`
	Currency economy.Currency `json:"currency"`
	AddedAt  time.Time        `json:"addedAt"`
}

// Cost is the item's price expressed as a single-denomination balance.
func (i Item) Cost() economy.Balance {
	return economy.Cost(i.Price, i.Currency)
}
