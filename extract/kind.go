package extract

// BlockKind identifies the category of structured payload carried by a
// fenced block, distinguished by the tag on its opening fence.
type BlockKind string

const (
	// KindScores is a single ADLI maturity score set.
	KindScores BlockKind = "scores"

	// KindSuggestions is a list of field edit suggestions.
	KindSuggestions BlockKind = "suggestions"

	// KindTasks is a list of proposed improvement tasks.
	KindTasks BlockKind = "tasks"

	// KindMetrics is a list of suggested metrics.
	KindMetrics BlockKind = "metrics"
)

// Kinds lists every block kind in scan order.
var Kinds = []BlockKind{KindScores, KindSuggestions, KindTasks, KindMetrics}

// fenceTags maps each kind to the tag the coach places on its opening fence.
// This vocabulary is a contract with the upstream prompt templates.
var fenceTags = map[BlockKind]string{
	KindScores:      "adli-scores",
	KindSuggestions: "coach-suggestions",
	KindTasks:       "coach-tasks",
	KindMetrics:     "metric-suggestions",
}

// legacySuggestionTag is the retired single-object suggestion fence tag.
// Older prompt versions emitted one bare suggestion object under this tag;
// it decodes to a one-element suggestion list with a synthesized ID.
const legacySuggestionTag = "suggestion"

// Tag returns the opening-fence tag for the kind, or "" for an unknown kind.
func (k BlockKind) Tag() string {
	return fenceTags[k]
}

// String implements fmt.Stringer.
func (k BlockKind) String() string {
	return string(k)
}
