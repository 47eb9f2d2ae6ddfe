package extract

// TextBlock is a tagged span located in the source text. Start and End are
// byte offsets covering the whole block including its fences; for a partial
// block End is len(text) and Complete is false.
type TextBlock struct {
	Kind       BlockKind
	RawPayload string
	Start      int
	End        int
	Complete   bool
}

// ScoreSet is an ADLI maturity assessment. Each dimension is 0–100.
type ScoreSet struct {
	Approach    int `json:"approach"`
	Deployment  int `json:"deployment"`
	Learning    int `json:"learning"`
	Integration int `json:"integration"`
}

// Suggestion proposes replacement content for one field of a process record.
// Content is often multi-line and may itself contain nested fenced code
// (e.g. a mermaid diagram), which the matcher must not mistake for the end
// of the enclosing block.
type Suggestion struct {
	ID        string `json:"id"`
	Field     string `json:"field"`
	Rationale string `json:"rationale"`
	Content   string `json:"content"`
}

// Task actions recognized in proposed tasks.
const (
	TaskActionCreate      = "create"
	TaskActionUpdate      = "update"
	TaskActionInvestigate = "investigate"
)

// ProposedTask is an improvement task the coach recommends creating.
type ProposedTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Action      string `json:"action"`
	Owner       string `json:"owner"`
	Effort      int    `json:"effort"`
}

// Metric categories recognized in metric suggestions.
const (
	MetricCategoryProcess    = "process"
	MetricCategoryOutcome    = "outcome"
	MetricCategoryPerception = "perception"
)

// MetricSuggestion is a measurement the coach recommends tracking.
type MetricSuggestion struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Target      string `json:"target"`
	Unit        string `json:"unit"`
}

// Result is the outcome of a full extraction pass over one message.
// A payload slot is nil/empty when its block is absent or failed to decode;
// no partially-decoded structure is ever surfaced.
type Result struct {
	// CleanedText is the prose with all recognized block markup removed.
	CleanedText string

	Scores      *ScoreSet
	Suggestions []Suggestion
	Tasks       []ProposedTask
	Metrics     []MetricSuggestion

	// Partial names the kind whose opening fence has arrived without a
	// closing fence yet. Empty when no block is mid-stream.
	Partial BlockKind
}

// validAction reports whether s is a recognized task action.
func validAction(s string) bool {
	switch s {
	case TaskActionCreate, TaskActionUpdate, TaskActionInvestigate:
		return true
	}
	return false
}

// validMetricCategory reports whether s is a recognized metric category.
func validMetricCategory(s string) bool {
	switch s {
	case MetricCategoryProcess, MetricCategoryOutcome, MetricCategoryPerception:
		return true
	}
	return false
}
