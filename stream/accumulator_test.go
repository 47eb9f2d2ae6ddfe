package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procwise/coachstream/extract"
)

func TestAccumulator_AbsentPartialComplete(t *testing.T) {
	a := NewAccumulator(extract.NewDefault())

	// Plain prose: nothing structured yet.
	snap := a.Append("Let me look at the intake process. ")
	assert.Empty(t, snap.Partial)
	assert.Empty(t, snap.Completed)
	assert.Equal(t, "Let me look at the intake process. ", snap.CleanedText)

	// Opening fence arrives: block is partial, tail withheld from display.
	snap = a.Append("\n\n```adli-scores\n{\"approach\": 70, \"deployment\": 5")
	assert.Equal(t, extract.KindScores, snap.Partial)
	assert.Empty(t, snap.Completed)
	assert.Equal(t, "Let me look at the intake process.", snap.CleanedText)

	// Closing fence arrives: the kind completes exactly once.
	snap = a.Append("5, \"learning\": 40, \"integration\": 35}\n```\n\nOverall, solid.")
	assert.Empty(t, snap.Partial)
	require.Equal(t, []extract.BlockKind{extract.KindScores}, snap.Completed)
	assert.Equal(t, "Let me look at the intake process.\n\nOverall, solid.", snap.CleanedText)

	// Later chunks do not re-fire the completed kind.
	snap = a.Append(" Let me know if you want detail.")
	assert.Empty(t, snap.Completed)
	assert.True(t, a.Completed(extract.KindScores))
	assert.False(t, a.Completed(extract.KindSuggestions))

	r := a.Finalize()
	require.NotNil(t, r.Scores)
	assert.Equal(t, 70, r.Scores.Approach)
	assert.Equal(t, 35, r.Scores.Integration)
}

func TestAccumulator_TwoKindsCompleteIndependently(t *testing.T) {
	a := NewAccumulator(extract.NewDefault())

	a.Append("Scores first.\n```adli-scores\n{\"approach\": 1, \"deployment\": 2, \"learning\": 3, \"integration\": 4}\n")
	snap := a.Append("```\nNow tasks.\n")
	assert.Equal(t, []extract.BlockKind{extract.KindScores}, snap.Completed)

	snap = a.Append("```coach-tasks\n[{\"title\":\"Document handoffs\",\"action\":\"create\"}]\n")
	assert.Equal(t, extract.KindTasks, snap.Partial)
	assert.Empty(t, snap.Completed)

	snap = a.Append("```\nDone.")
	assert.Equal(t, []extract.BlockKind{extract.KindTasks}, snap.Completed)
	assert.Empty(t, snap.Partial)

	r := a.Finalize()
	require.NotNil(t, r.Scores)
	require.Len(t, r.Tasks, 1)
	assert.Equal(t, "Document handoffs", r.Tasks[0].Title)
}

func TestAccumulator_MalformedBlockCompletesWithoutPayload(t *testing.T) {
	a := NewAccumulator(extract.NewDefault())

	snap := a.Append("```adli-scores\nnot json at all\n```\nSorry.")
	assert.Equal(t, []extract.BlockKind{extract.KindScores}, snap.Completed)

	r := a.Finalize()
	assert.Nil(t, r.Scores)
	assert.Equal(t, "Sorry.", r.CleanedText)
}

func TestAccumulator_TextAccumulates(t *testing.T) {
	a := NewAccumulator(extract.NewDefault())
	a.Append("one ")
	a.Append("two")
	assert.Equal(t, "one two", a.Text())
}
