// Package identity implements in-character name claims: the binding
// between a self-declared roleplay name and the platform user who first
// asserted it, per NPC.
package identity

import (
	"regexp"

	"github.com/1Leo18/npcbot/pkg/turkish"
)

// introPattern matches Turkish self-introductions ("Ben Ayşe", "benim
// adım Leo", "ismim Kara"). The captured word is the claimed name.
var introPattern = regexp.MustCompile(`(?i)(?:benim\s+adım|benim\s+ismim|ben|adım|ismim)\s+([a-zA-Z0-9_ğüşıöçĞÜŞİÖÇ]+)`)

// queryWords are interrogatives that follow the same surface shape as an
// introduction ("ben kimim?") but are identity queries, not claims. They
// never register; the prompt rules handle answering them.
var queryWords = map[string]bool{
	"kimim":  true,
	"kim":    true,
	"kimsin": true,
	"neyim":  true,
}

// DetectIntroduction extracts a claimed name from free text. The
// returned name is Turkish-lower-cased. ok is false when the text is not
// an introduction or the candidate is an identity query word.
func DetectIntroduction(text string) (name string, ok bool) {
	m := introPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	name = turkish.Lower(m[1])
	if queryWords[name] {
		return "", false
	}
	return name, true
}

// Outcome classifies what a detected introduction did to the claim table.
type Outcome int

const (
	// OutcomeNone: no change; either no introduction was present or the
	// speaker already owns the name (idempotent re-introduction).
	OutcomeNone Outcome = iota

	// OutcomeRecorded: the name was free and is now claimed by the
	// speaker. Any previous name held by the speaker was evicted.
	OutcomeRecorded

	// OutcomeImpersonation: the name belongs to someone else. The table
	// is unchanged and the prompt must carry an impersonation warning.
	OutcomeImpersonation
)

// Resolution is the result of resolving an introduction against the
// per-NPC claim table.
type Resolution struct {
	Outcome Outcome
	Name    string // claimed name, lower-cased
	OwnerID string // genuine owner, set on OutcomeImpersonation
	Evicted string // speaker's prior claim removed on OutcomeRecorded
}

// Resolve applies the claim rules to a table of claimedName → userID.
// The table is mutated in place on OutcomeRecorded; the caller persists
// it. Invariants: at most one owner per name, at most one name per user.
func Resolve(claims map[string]string, name, userID string) Resolution {
	owner, taken := claims[name]
	if taken {
		if owner == userID {
			return Resolution{Outcome: OutcomeNone, Name: name}
		}
		return Resolution{Outcome: OutcomeImpersonation, Name: name, OwnerID: owner}
	}

	res := Resolution{Outcome: OutcomeRecorded, Name: name}
	for prior, id := range claims {
		if id == userID {
			delete(claims, prior)
			res.Evicted = prior
			break
		}
	}
	claims[name] = userID
	return res
}
