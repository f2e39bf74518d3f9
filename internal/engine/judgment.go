package engine

import "encoding/json"

// judgment is the structured verdict of the memory analysis call.
type judgment struct {
	Remember bool   `json:"hatirlanmali"`
	Summary  string `json:"ozet"`
}

// parseJudgment extracts the first well-formed JSON object from model
// output. Models often wrap the object in prose or markdown fences.
func parseJudgment(text string) (judgment, bool) {
	raw, ok := firstJSONObject(text)
	if !ok {
		return judgment{}, false
	}
	var j judgment
	if err := json.Unmarshal(raw, &j); err != nil {
		return judgment{}, false
	}
	return j, true
}

// firstJSONObject returns the first balanced {...} span in text.
// Braces inside JSON strings are skipped.
func firstJSONObject(text string) ([]byte, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return []byte(text[start : i+1]), true
			}
		}
	}
	return nil, false
}
