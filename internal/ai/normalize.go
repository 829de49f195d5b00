package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Greedy: first opening brace through the last closing brace, newlines included.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// Normalize turns raw model output into a key/value mapping. It tries, in
// order: a brace-delimited JSON block, the whole text as JSON, and a
// line-oriented "key: value" fallback. It always returns a mapping (possibly
// empty) and never fails, which keeps enrichment alive on malformed output.
func Normalize(raw string) map[string]any {
	if block := jsonBlockRe.FindString(raw); block != "" {
		var out map[string]any
		if err := json.Unmarshal([]byte(block), &out); err == nil && out != nil {
			return out
		}
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err == nil && out != nil {
		return out
	}

	return parseStructured(raw)
}

// parseStructured handles loosely formatted responses. A line containing a
// colon and not starting with a list marker opens a new key; following lines
// are appended to the current value until the next key line.
func parseStructured(raw string) map[string]any {
	result := make(map[string]any)

	var currentKey string
	var currentValue []string

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if strings.Contains(line, ":") && !strings.HasPrefix(line, "-") {
			if currentKey != "" {
				result[currentKey] = strings.TrimSpace(strings.Join(currentValue, "\n"))
			}
			parts := strings.SplitN(line, ":", 2)
			currentKey = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(parts[0])), " ", "_")
			currentValue = []string{strings.TrimSpace(parts[1])}
		} else if currentKey != "" {
			currentValue = append(currentValue, line)
		}
	}

	if currentKey != "" {
		result[currentKey] = strings.TrimSpace(strings.Join(currentValue, "\n"))
	}

	return result
}
