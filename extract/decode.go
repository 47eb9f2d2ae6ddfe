package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// trailingCommaPattern matches trailing commas before ] or }.
var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

// decodeScores parses a score-set payload. All four ADLI dimensions must be
// present and within 0–100; anything else is a decode failure and returns
// nil.
func decodeScores(raw string) *ScoreSet {
	var aux struct {
		Approach    *int `json:"approach"`
		Deployment  *int `json:"deployment"`
		Learning    *int `json:"learning"`
		Integration *int `json:"integration"`
	}
	if err := json.Unmarshal([]byte(sanitizeJSON(raw)), &aux); err != nil {
		return nil
	}
	for _, dim := range []*int{aux.Approach, aux.Deployment, aux.Learning, aux.Integration} {
		if dim == nil || *dim < 0 || *dim > 100 {
			return nil
		}
	}
	return &ScoreSet{
		Approach:    *aux.Approach,
		Deployment:  *aux.Deployment,
		Learning:    *aux.Learning,
		Integration: *aux.Integration,
	}
}

// decodeSuggestions parses a suggestion-list payload. Items without a
// recognized field or without content are dropped; items missing an ID get a
// synthesized one.
func decodeSuggestions(raw string) []Suggestion {
	var items []Suggestion
	if err := json.Unmarshal([]byte(sanitizeJSON(raw)), &items); err != nil {
		return nil
	}
	out := make([]Suggestion, 0, len(items))
	for _, s := range items {
		if !validField(s.Field) || s.Content == "" {
			continue
		}
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// decodeLegacySuggestion parses the retired single-object suggestion payload
// into a one-element list with a synthesized ID.
func decodeLegacySuggestion(raw string) []Suggestion {
	var s Suggestion
	if err := json.Unmarshal([]byte(sanitizeJSON(raw)), &s); err != nil {
		return nil
	}
	if !validField(s.Field) || s.Content == "" {
		return nil
	}
	s.ID = uuid.New().String()
	return []Suggestion{s}
}

// decodeTasks parses a task-list payload. Items need a title and a
// recognized action.
func decodeTasks(raw string) []ProposedTask {
	var items []ProposedTask
	if err := json.Unmarshal([]byte(sanitizeJSON(raw)), &items); err != nil {
		return nil
	}
	out := make([]ProposedTask, 0, len(items))
	for _, t := range items {
		if t.Title == "" || !validAction(t.Action) {
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// decodeMetrics parses a metric-suggestion payload. Items need a name and a
// recognized category.
func decodeMetrics(raw string) []MetricSuggestion {
	var items []MetricSuggestion
	if err := json.Unmarshal([]byte(sanitizeJSON(raw)), &items); err != nil {
		return nil
	}
	out := make([]MetricSuggestion, 0, len(items))
	for _, m := range items {
		if m.Name == "" || !validMetricCategory(m.Category) {
			continue
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// sanitizeJSON removes JavaScript-style comments and trailing commas.
// Models commonly produce both of these invalid JSON artifacts.
func sanitizeJSON(raw string) string {
	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, stripLineComment(line))
	}
	result := strings.Join(cleaned, "\n")
	return trailingCommaPattern.ReplaceAllString(result, "$1")
}

// stripLineComment removes a // comment from a JSON line, respecting string
// values so URLs like "http://example.com" survive intact.
func stripLineComment(line string) string {
	if !strings.Contains(line, "//") {
		return line
	}

	inString := false
	escaped := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if !inString && ch == '/' && i+1 < len(line) && line[i+1] == '/' {
			return strings.TrimRight(line[:i], " \t")
		}
	}
	return line
}
