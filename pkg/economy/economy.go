// Package economy holds the three-denomination currency model shared by
// the ledger, the tag parser and the purchase flow. There is no
// cross-denomination conversion anywhere; a price in gold is payable in
// gold only.
package economy

import "github.com/1Leo18/npcbot/pkg/turkish"

// Currency is a denomination name as it appears in prompts and tags.
type Currency string

const (
	Gold   Currency = "altın"
	Silver Currency = "gümüş"
	Copper Currency = "bakır"
)

// ParseCurrency normalizes a denomination string from a tag or command.
func ParseCurrency(s string) (Currency, bool) {
	switch Currency(turkish.Lower(s)) {
	case Gold:
		return Gold, true
	case Silver:
		return Silver, true
	case Copper:
		return Copper, true
	}
	return "", false
}

// Balance is a user's holdings, or a signed delta against them.
type Balance struct {
	Gold   int `json:"gold"`
	Silver int `json:"silver"`
	Copper int `json:"copper"`
}

// Add returns b with d applied component-wise.
func (b Balance) Add(d Balance) Balance {
	return Balance{
		Gold:   b.Gold + d.Gold,
		Silver: b.Silver + d.Silver,
		Copper: b.Copper + d.Copper,
	}
}

// Negate returns the component-wise negation, used to turn a price or a
// TAKE transfer into a debit delta.
func (b Balance) Negate() Balance {
	return Balance{Gold: -b.Gold, Silver: -b.Silver, Copper: -b.Copper}
}

// Covers reports whether b can pay cost in every denomination.
func (b Balance) Covers(cost Balance) bool {
	return b.Gold >= cost.Gold && b.Silver >= cost.Silver && b.Copper >= cost.Copper
}

// IsZero reports whether all denominations are zero.
func (b Balance) IsZero() bool {
	return b.Gold == 0 && b.Silver == 0 && b.Copper == 0
}

// Cost expresses an amount in a single denomination as a Balance.
func Cost(amount int, currency Currency) Balance {
	switch currency {
	case Gold:
		return Balance{Gold: amount}
	case Silver:
		return Balance{Silver: amount}
	case Copper:
		return Balance{Copper: amount}
	}
	return Balance{}
}
