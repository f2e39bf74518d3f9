// Package tags parses the [TAG:...] mini-language that the generation
// model embeds in free text. A single scanner replaces the original
// sequence of independent regex probes: it walks the text once and
// produces typed results with defined precedence.
//
// Grammar, informally:
//
//	tag     := '[' head ':' fields ']'
//	head    := "FIYAT" | "EŞYA" | "EKONOMI"   (case-insensitive, Turkish folding)
//	fields  := head-specific, ':'-separated; the last field may contain ':'
//
// Escaping: a backslash before '[' yields a literal bracket; the scanner
// never treats an escaped bracket as a tag opener. That is the only
// escape; backslashes elsewhere pass through unchanged.
//
// Precedence: the first well-formed tag of each kind wins. Later
// duplicates are ignored but still recognized. Malformed bodies (bad
// head, wrong arity, non-numeric amounts, unknown currency) are plain
// text and are left in place.
package tags

import (
	"strconv"
	"strings"

	"github.com/1Leo18/npcbot/pkg/economy"
	"github.com/1Leo18/npcbot/pkg/turkish"
)

// Transfer actions as emitted by the model. AL takes from the user,
// VER gives to the user.
const (
	ActionTake = "AL"
	ActionGive = "VER"
)

// PriceTag is [FIYAT:amount:currency].
type PriceTag struct {
	Amount   int
	Currency economy.Currency
}

// ItemTag is [EŞYA:name].
type ItemTag struct {
	Name string
}

// Transfer is [EKONOMI:action:gold:silver:copper:description].
type Transfer struct {
	Action      string
	Gold        int
	Silver      int
	Copper      int
	Description string
}

// Delta returns the signed ledger delta the transfer applies.
func (t Transfer) Delta() economy.Balance {
	d := economy.Balance{Gold: t.Gold, Silver: t.Silver, Copper: t.Copper}
	if t.Action == ActionTake {
		return d.Negate()
	}
	return d
}

// Result is the parse of one reply.
type Result struct {
	Price    *PriceTag
	Item     *ItemTag
	Transfer *Transfer
}

// HasSaleTags reports whether both a price and an item tag were present,
// the condition for a well-formed sales utterance.
func (r Result) HasSaleTags() bool {
	return r.Price != nil && r.Item != nil
}

type span struct {
	start, end int // byte offsets of '[' .. ']' inclusive
	kind       int
}

const (
	kindPrice = iota
	kindItem
	kindTransfer
)

// Parse scans text and returns the first well-formed tag of each kind.
func Parse(text string) Result {
	res, _ := scan(text)
	return res
}

// StripTransfer returns text with the first well-formed economy tag
// removed and surrounding whitespace tightened. Price and item tags are
// left in place; the purchase finalizer re-reads them from the stored
// turn. At most one transfer is processed per reply, so only the first
// occurrence is removed.
func StripTransfer(text string) string {
	_, spans := scan(text)
	for _, sp := range spans {
		if sp.kind != kindTransfer {
			continue
		}
		out := text[:sp.start] + text[sp.end+1:]
		return strings.TrimSpace(out)
	}
	return text
}

func scan(text string) (Result, []span) {
	var res Result
	var spans []span

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\\':
			if i+1 < len(text) && text[i+1] == '[' {
				i++ // escaped bracket, never a tag opener
			}
		case '[':
			end := strings.IndexByte(text[i:], ']')
			if end < 0 {
				return res, spans
			}
			end += i
			body := text[i+1 : end]
			if kind, ok := parseBody(body, &res); ok {
				spans = append(spans, span{start: i, end: end, kind: kind})
			}
			i = end
		}
	}
	return res, spans
}

// parseBody dispatches on the tag head and fills the first slot of the
// matching kind in res. Returns the kind and whether the body was a
// well-formed tag at all (even if a tag of that kind was already seen).
func parseBody(body string, res *Result) (int, bool) {
	head, rest, ok := strings.Cut(body, ":")
	if !ok {
		return 0, false
	}

	switch turkish.Lower(head) {
	case "fiyat":
		tag, ok := parsePrice(rest)
		if !ok {
			return 0, false
		}
		if res.Price == nil {
			res.Price = tag
		}
		return kindPrice, true
	case "eşya":
		name := strings.TrimSpace(rest)
		if name == "" {
			return 0, false
		}
		if res.Item == nil {
			res.Item = &ItemTag{Name: name}
		}
		return kindItem, true
	case "ekonomi":
		tag, ok := parseTransfer(rest)
		if !ok {
			return 0, false
		}
		if res.Transfer == nil {
			res.Transfer = tag
		}
		return kindTransfer, true
	}
	return 0, false
}

func parsePrice(rest string) (*PriceTag, bool) {
	amountStr, currencyStr, ok := strings.Cut(rest, ":")
	if !ok {
		return nil, false
	}
	amount, err := strconv.Atoi(strings.TrimSpace(amountStr))
	if err != nil || amount < 0 {
		return nil, false
	}
	currency, ok := economy.ParseCurrency(strings.TrimSpace(currencyStr))
	if !ok {
		return nil, false
	}
	return &PriceTag{Amount: amount, Currency: currency}, true
}

func parseTransfer(rest string) (*Transfer, bool) {
	// action:gold:silver:copper:description, description may contain ':'
	parts := strings.SplitN(rest, ":", 5)
	if len(parts) != 5 {
		return nil, false
	}
	action := strings.ToUpper(strings.TrimSpace(parts[0]))
	if action != ActionTake && action != ActionGive {
		return nil, false
	}
	amounts := make([]int, 3)
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i+1]))
		if err != nil || n < 0 {
			return nil, false
		}
		amounts[i] = n
	}
	return &Transfer{
		Action:      action,
		Gold:        amounts[0],
		Silver:      amounts[1],
		Copper:      amounts[2],
		Description: strings.TrimSpace(parts[4]),
	}, true
}
