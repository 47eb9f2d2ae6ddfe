// Package stream tracks the lifecycle of structured blocks inside one
// streamed assistant message. An Accumulator owns the accumulated text for a
// single message; each appended chunk triggers a full re-scan through the
// extractor (no incremental parsing), so classification depends only on the
// text seen so far.
package stream

import (
	"github.com/procwise/coachstream/extract"
)

// Snapshot describes the message after one chunk has been applied.
type Snapshot struct {
	// Text is the full accumulated raw text.
	Text string

	// CleanedText is the display-safe prose: complete blocks stripped, an
	// in-progress block withheld from its opening fence onward.
	CleanedText string

	// Partial names the kind currently mid-stream, or "" when none is.
	Partial extract.BlockKind

	// Completed lists kinds whose blocks finished on this chunk. Each kind
	// fires at most once per message.
	Completed []extract.BlockKind
}

// Accumulator collects token chunks for one message and reports block state
// transitions. Not safe for concurrent use; create one per message.
type Accumulator struct {
	extractor *extract.Extractor
	text      string
	completed map[extract.BlockKind]bool
}

// NewAccumulator creates an accumulator backed by the given extractor.
func NewAccumulator(e *extract.Extractor) *Accumulator {
	return &Accumulator{
		extractor: e,
		completed: make(map[extract.BlockKind]bool),
	}
}

// Append adds a chunk to the accumulated text and re-scans the whole message.
func (a *Accumulator) Append(chunk string) Snapshot {
	a.text += chunk

	snap := Snapshot{Text: a.text}

	for _, kind := range extract.Kinds {
		if a.completed[kind] {
			continue
		}
		if block, ok := a.extractor.Match(a.text, kind); ok && block.Complete {
			a.completed[kind] = true
			snap.Completed = append(snap.Completed, kind)
		}
	}

	if kind, ok := a.extractor.PartialKind(a.text); ok {
		snap.Partial = kind
	}
	snap.CleanedText = a.extractor.Clean(a.text)

	return snap
}

// Text returns the full accumulated raw text.
func (a *Accumulator) Text() string {
	return a.text
}

// Completed reports whether the kind's fenced block has already finished.
func (a *Accumulator) Completed(kind extract.BlockKind) bool {
	return a.completed[kind]
}

// Finalize runs the terminal extraction for the message, decoding every
// completed payload.
func (a *Accumulator) Finalize() extract.Result {
	return a.extractor.Extract(a.text)
}
