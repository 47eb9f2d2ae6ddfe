package extract

import (
	"regexp"
	"strings"
)

// closerMarker terminates a fenced block. Blocks are matched greedily to the
// LAST marker in scope so nested fenced content inside a payload (a mermaid
// diagram embedded in a suggestion's replacement content) does not terminate
// the outer block early.
const closerMarker = "```"

// openerPatterns maps each fence tag to its opening-fence pattern:
// ```<tag> followed by a newline (or end of input while the stream is still
// arriving). Pre-compiled once; matching runs on every chunk of a live
// token stream.
var openerPatterns = map[string]*regexp.Regexp{}

func init() {
	tags := make([]string, 0, len(fenceTags)+1)
	for _, k := range Kinds {
		tags = append(tags, fenceTags[k])
	}
	tags = append(tags, legacySuggestionTag)
	for _, tag := range tags {
		openerPatterns[tag] = regexp.MustCompile("```" + regexp.QuoteMeta(tag) + "[ \t]*(?:\r?\n|$)")
	}
}

// blockMatch pairs a located block with whether it used the legacy tag.
type blockMatch struct {
	block  TextBlock
	legacy bool
}

// Match locates the first fenced block tagged for kind. The payload extends
// to the last closing fence before the next differently-tagged opening fence
// (or end of text if none follows). An opening fence with no closing fence
// yet is returned as a partial block: Complete false, End at len(text).
func (e *Extractor) Match(text string, kind BlockKind) (TextBlock, bool) {
	tag := kind.Tag()
	if tag == "" {
		return TextBlock{}, false
	}
	return matchTag(text, tag, kind)
}

// matchTag implements Match for a specific fence tag.
func matchTag(text, tag string, kind BlockKind) (TextBlock, bool) {
	re := openerPatterns[tag]
	if re == nil {
		return TextBlock{}, false
	}
	open := re.FindStringIndex(text)
	if open == nil {
		return TextBlock{}, false
	}

	payloadStart := open[1]
	scope := scopeEnd(text, payloadStart, tag)

	closer := strings.LastIndex(text[payloadStart:scope], closerMarker)
	if closer < 0 {
		// Opening fence seen, closing fence still arriving.
		return TextBlock{
			Kind:     kind,
			Start:    open[0],
			End:      len(text),
			Complete: false,
		}, true
	}

	payloadEnd := payloadStart + closer
	blockEnd := payloadEnd + len(closerMarker)
	if blockEnd < len(text) && text[blockEnd] == '\n' {
		blockEnd++
	}

	return TextBlock{
		Kind:       kind,
		RawPayload: strings.TrimSpace(text[payloadStart:payloadEnd]),
		Start:      open[0],
		End:        blockEnd,
		Complete:   true,
	}, true
}

// scopeEnd returns the index where matching for tag must stop: the start of
// the next opening fence carrying a different recognized tag, or len(text).
// Scoping per tag lets two blocks of different kinds coexist in one message
// instead of the first block greedily swallowing the second.
func scopeEnd(text string, from int, tag string) int {
	end := len(text)
	if from >= end {
		return end
	}
	rest := text[from:]
	for other, re := range openerPatterns {
		if other == tag {
			continue
		}
		if loc := re.FindStringIndex(rest); loc != nil && from+loc[0] < end {
			end = from + loc[0]
		}
	}
	return end
}

// scan locates at most one block per recognized tag, legacy included when
// enabled. Results are ordered by start offset.
func (e *Extractor) scan(text string) []blockMatch {
	var matches []blockMatch
	for _, kind := range Kinds {
		if b, ok := matchTag(text, fenceTags[kind], kind); ok {
			matches = append(matches, blockMatch{block: b})
		}
	}
	if e.opts.LegacySuggestionTag {
		if b, ok := matchTag(text, legacySuggestionTag, KindSuggestions); ok {
			matches = append(matches, blockMatch{block: b, legacy: true})
		}
	}
	sortMatches(matches)
	return matches
}

// sortMatches orders matches by start offset. Insertion sort; at most five
// entries.
func sortMatches(matches []blockMatch) {
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].block.Start < matches[j-1].block.Start; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}
}

// PartialKind reports which block kind, if any, has an opening fence with no
// closing fence yet. Classification depends only on the input string, so
// re-running it on the same text yields the same answer.
func (e *Extractor) PartialKind(text string) (BlockKind, bool) {
	for _, m := range e.scan(text) {
		if !m.block.Complete {
			return m.block.Kind, true
		}
	}
	return "", false
}
