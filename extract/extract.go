package extract

// Scores extracts the ADLI score set from text. The second return value is
// the cleaned prose; scores is nil when no score block is present or its
// payload failed to decode. The block markup is stripped either way.
func (e *Extractor) Scores(text string) (*ScoreSet, string) {
	r := e.Extract(text)
	return r.Scores, r.CleanedText
}

// Suggestions extracts field suggestions from text. When the fenced pass
// yields nothing and the bare-object fallback is enabled, inline unfenced
// suggestion objects are decoded instead and removed from the cleaned prose.
func (e *Extractor) Suggestions(text string) ([]Suggestion, string) {
	r := e.Extract(text)
	return r.Suggestions, r.CleanedText
}

// Tasks extracts proposed improvement tasks from text.
func (e *Extractor) Tasks(text string) ([]ProposedTask, string) {
	r := e.Extract(text)
	return r.Tasks, r.CleanedText
}

// Metrics extracts metric suggestions from text.
func (e *Extractor) Metrics(text string) ([]MetricSuggestion, string) {
	r := e.Extract(text)
	return r.Metrics, r.CleanedText
}

// Extract performs one full pass over text: locate every recognized block,
// decode complete payloads, and strip all block markup from the prose.
// Decode failures degrade to absent payloads; nothing is reported as an
// error and no partially-decoded structure is returned.
func (e *Extractor) Extract(text string) Result {
	r := Result{}

	matches := e.scan(text)
	for _, m := range matches {
		if !m.block.Complete {
			if r.Partial == "" {
				r.Partial = m.block.Kind
			}
			continue
		}
		switch {
		case m.legacy:
			// The current list form wins when both tags appear.
			if r.Suggestions == nil {
				r.Suggestions = decodeLegacySuggestion(m.block.RawPayload)
			}
		case m.block.Kind == KindScores:
			r.Scores = decodeScores(m.block.RawPayload)
		case m.block.Kind == KindSuggestions:
			if s := decodeSuggestions(m.block.RawPayload); s != nil {
				r.Suggestions = s
			}
		case m.block.Kind == KindTasks:
			r.Tasks = decodeTasks(m.block.RawPayload)
		case m.block.Kind == KindMetrics:
			r.Metrics = decodeMetrics(m.block.RawPayload)
		}
	}

	// Bare-object fallback: suggestions only, and only when the fenced pass
	// produced none. A block still streaming suppresses it, otherwise the
	// scan would pull premature structures out of the withheld payload.
	var bareSpans []span
	if len(r.Suggestions) == 0 && r.Partial == "" && e.opts.BareSuggestionFallback {
		r.Suggestions, bareSpans = scanBareSuggestions(text)
	}

	r.CleanedText = e.cleanWith(text, bareSpans)
	return r
}
