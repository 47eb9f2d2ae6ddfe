package relay

import "github.com/procwise/coachstream/extract"

// ChunkEvent is one token chunk of a streamed assistant message, as
// published by the chat backend on <prefix>.<message-id>.chunks.
type ChunkEvent struct {
	MessageID string `json:"message_id"`
	Seq       int    `json:"seq"`
	Delta     string `json:"delta"`
	// Done marks the terminal chunk; Delta may be empty on it.
	Done bool `json:"done"`
}

// DisplayEvent carries display-safe prose for UI consumers, published on
// <prefix>.<message-id>.display after every chunk. Text never contains block
// markup or in-progress structured output.
type DisplayEvent struct {
	MessageID string `json:"message_id"`
	Seq       int    `json:"seq"`
	Text      string `json:"text"`
	// Partial names the block kind currently streaming, so the UI can show
	// a kind-appropriate progress affordance ("computing scores…").
	Partial string `json:"partial,omitempty"`
	Done    bool   `json:"done,omitempty"`
}

// PayloadEvent carries the decoded payload of one completed block, published
// on <prefix>.<message-id>.payloads. Exactly one of the payload fields is
// set, matching Kind. Blocks whose payloads fail to decode publish nothing.
type PayloadEvent struct {
	MessageID string `json:"message_id"`
	Kind      string `json:"kind"`

	Scores      *extract.ScoreSet          `json:"scores,omitempty"`
	Suggestions []extract.Suggestion       `json:"suggestions,omitempty"`
	Tasks       []extract.ProposedTask     `json:"tasks,omitempty"`
	Metrics     []extract.MetricSuggestion `json:"metrics,omitempty"`
}
