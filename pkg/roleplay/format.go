package roleplay

import (
	"regexp"
	"strings"
)

// Fixed utterances used when generation fails or may not proceed.
const (
	// FallbackReply is sent when the model call errors out.
	FallbackReply = "Üzgünüm, zihnim biraz karışık. Sonra tekrar dene."
	// RefuseFree is the in-character refusal for no-cost item requests.
	RefuseFree = "*Kaşlarını çatarak başını sallar.*\n\n***''Burada hiçbir şey bedava değil! Dükkanımda beleş eşya yok, hadi bakalım!''***"
	// RefuseUntagged is sent when a sales pitch came back without the
	// required price and item tags.
	RefuseUntagged = "*Kaşlarını çatarak sana bakıyor.*\n\n***''Ne satmak istediğimi ve ne kadar istediğimi söylemeden nasıl anlaşalım? Hangi eşyayı kaça satacağımı belirt!''***"
)

var (
	// *Action* ''speech'' or Action. "speech" on a single line.
	actionThenSpeech = regexp.MustCompile(`^\*?([^*"']+?)\*?[.?!]?\s*(?:''|"")(.+?)(?:''|"")$`)
	// Action text followed by **speech** or ***speech*** markers.
	actionStarSpeech = regexp.MustCompile(`^(.*?)\*\*\*?['"]?(.*?)['"]?\*\*\*?$`)
	// A line that is nothing but quoted speech.
	speechOnly = regexp.MustCompile(`^[*'"` + "`" + `]*(?:''|"")(.+?)(?:''|"")[*'"` + "`" + `]*$`)
)

func trimMarks(s string) string {
	return strings.TrimSpace(strings.Trim(s, `*'"`+"`"))
}

func actionLine(s string) string { return "*" + s + "*" }
func speechLine(s string) string { return "***''" + s + "''***" }
func isSpeechLine(s string) bool { return strings.HasPrefix(s, "***''") }

// Format rewrites a generated reply into the alternating markup the
// bot renders: actions as *action*, speech as ***''speech''***, with a
// blank line between an action and the speech that follows it.
// Malformed delimiters are normalized rather than rejected.
func Format(msg string) string {
	var out []string
	for _, raw := range strings.Split(msg, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m := actionThenSpeech.FindStringSubmatch(line); m != nil {
			if action := trimMarks(m[1]); action != "" {
				out = append(out, actionLine(action))
			}
			if speech := trimMarks(m[2]); speech != "" {
				out = append(out, speechLine(speech))
			}
			continue
		}
		if m := actionStarSpeech.FindStringSubmatch(line); m != nil && m[1] != "" && m[2] != "" {
			if action := trimMarks(m[1]); action != "" {
				out = append(out, actionLine(action))
			}
			if speech := trimMarks(m[2]); speech != "" {
				out = append(out, speechLine(speech))
			}
			continue
		}
		if m := speechOnly.FindStringSubmatch(line); m != nil {
			out = append(out, speechLine(strings.TrimSpace(m[1])))
			continue
		}
		if action := trimMarks(line); action != "" {
			out = append(out, actionLine(action))
		}
	}

	var b strings.Builder
	for i, line := range out {
		if i > 0 {
			if isSpeechLine(line) && !isSpeechLine(out[i-1]) {
				b.WriteString("\n\n")
			} else {
				b.WriteString("\n")
			}
		}
		b.WriteString(line)
	}
	return b.String()
}
