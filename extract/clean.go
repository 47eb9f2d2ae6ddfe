package extract

import (
	"regexp"
	"sort"
	"strings"
)

// blankRunPattern matches a run of two or more newlines together with any
// trailing spaces on the lines involved. Runs left behind by block removal
// collapse to a single paragraph break.
var blankRunPattern = regexp.MustCompile(`[ \t]*\n(?:[ \t]*\n)+`)

// span is a half-open byte range [start, end) slated for removal.
type span struct {
	start, end int
}

// Clean returns the prose with every recognized block removed: complete
// blocks lose their fences and payload, and a partial block loses everything
// from its opening fence to the end of the string so in-progress structured
// output is never shown to a viewer as raw JSON. Leftover blank lines are
// collapsed and the result is trimmed. The input is never modified.
func (e *Extractor) Clean(text string) string {
	return e.cleanWith(text, nil)
}

// cleanWith removes all scanned blocks plus any extra spans (bare fallback
// objects consumed by the suggestion pass). Text containing no recognized
// markup is returned unchanged.
func (e *Extractor) cleanWith(text string, extra []span) string {
	spans := make([]span, 0, 4+len(extra))
	for _, m := range e.scan(text) {
		spans = append(spans, span{m.block.Start, m.block.End})
	}
	spans = append(spans, extra...)
	if len(spans) == 0 {
		return text
	}
	return tidy(removeSpans(text, spans))
}

// removeSpans builds a new string skipping the given spans. Overlapping
// spans are merged.
func removeSpans(text string, spans []span) string {
	if len(spans) == 0 {
		return text
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, s := range spans {
		if s.start < pos {
			if s.end > pos {
				pos = s.end
			}
			continue
		}
		b.WriteString(text[pos:s.start])
		pos = s.end
	}
	if pos < len(text) {
		b.WriteString(text[pos:])
	}
	return b.String()
}

// tidy collapses blank-line runs and trims surrounding whitespace.
func tidy(text string) string {
	return strings.TrimSpace(blankRunPattern.ReplaceAllString(text, "\n\n"))
}
