package extract

import (
	"encoding/json"
	"regexp"

	"github.com/google/uuid"
)

// bareSuggestionPattern matches an inline, unfenced suggestion object:
// {"field": "...", "content": "..."} with an optional rationale between.
// Some prompt versions intermittently emit suggestions without the fence.
// The string bodies use an escape-aware character class, so the pattern
// scans in linear time even on pathological input.
var bareSuggestionPattern = regexp.MustCompile(
	`\{\s*"field"\s*:\s*"(?:[^"\\]|\\.)*"\s*,` +
		`(?:\s*"rationale"\s*:\s*"(?:[^"\\]|\\.)*"\s*,)?` +
		`\s*"content"\s*:\s*"(?:[^"\\]|\\.)*"\s*\}`)

// scanBareSuggestions finds unfenced suggestion objects in text and returns
// the decoded suggestions alongside the spans they occupied. Matches that
// fail to decode are skipped and their spans left untouched.
func scanBareSuggestions(text string) ([]Suggestion, []span) {
	locs := bareSuggestionPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil, nil
	}

	var (
		suggestions []Suggestion
		spans       []span
	)
	for _, loc := range locs {
		var s Suggestion
		if err := json.Unmarshal([]byte(text[loc[0]:loc[1]]), &s); err != nil {
			continue
		}
		if !validField(s.Field) || s.Content == "" {
			continue
		}
		s.ID = uuid.New().String()
		suggestions = append(suggestions, s)
		spans = append(spans, span{loc[0], loc[1]})
	}
	return suggestions, spans
}
