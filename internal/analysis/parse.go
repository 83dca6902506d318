package analysis

import "strings"

const defaultMood = "neutral"

// parseResponse extracts the MOOD: and ANALYSIS: lines from the
// generator's free text. A missing MOOD line defaults to "neutral"; a
// missing ANALYSIS line falls back to the entire response body. These
// fallbacks are the only defense against a malformed generator
// response, so a response is never rejected for shape alone.
func parseResponse(text string) (mood, body string) {
	mood = defaultMood
	body = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		upper := strings.ToUpper(trimmed)

		if mood == defaultMood && strings.HasPrefix(upper, "MOOD:") {
			if value := strings.TrimSpace(trimmed[len("MOOD:"):]); value != "" {
				mood = strings.ToLower(value)
			}
		}

		if strings.HasPrefix(upper, "ANALYSIS:") {
			// The analysis body may continue onto following lines.
			parts := []string{strings.TrimSpace(trimmed[len("ANALYSIS:"):])}
			for _, rest := range lines[i+1:] {
				parts = append(parts, strings.TrimSpace(rest))
			}
			if joined := strings.TrimSpace(strings.Join(parts, "\n")); joined != "" {
				body = joined
			}
			break
		}
	}

	return mood, body
}
