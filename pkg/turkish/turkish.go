// Package turkish provides Turkish-aware case folding. Every
// case-insensitive comparison in the domain (NPC names, claimed names,
// catalog items, intent keywords) goes through here so that dotted and
// dotless i fold correctly (İ→i, I→ı).
package turkish

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lower returns s lower-cased under Turkish casing rules.
func Lower(s string) string {
	// cases.Caser is stateful and not safe for concurrent use.
	return cases.Lower(language.Turkish).String(s)
}

// Equal reports whether a and b are equal ignoring case.
func Equal(a, b string) bool {
	return Lower(a) == Lower(b)
}

// Contains reports whether substr occurs in s ignoring case.
func Contains(s, substr string) bool {
	return strings.Contains(Lower(s), Lower(substr))
}
