package relay

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procwise/coachstream/extract"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	payloads [][]byte
}

func (p *recordingPublisher) Publish(subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, append([]byte(nil), data...))
	return nil
}

func (p *recordingPublisher) bySubject(subject string) [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out [][]byte
	for i, s := range p.subjects {
		if s == subject {
			out = append(out, p.payloads[i])
		}
	}
	return out
}

func newTestRelay(t *testing.T) (*Relay, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	metrics := NewMetrics(prometheus.NewRegistry())
	r := New(DefaultConfig(), extract.NewDefault(), pub, nil, metrics)
	return r, pub
}

func chunkJSON(t *testing.T, id string, seq int, delta string, done bool) []byte {
	t.Helper()
	data, err := json.Marshal(ChunkEvent{MessageID: id, Seq: seq, Delta: delta, Done: done})
	require.NoError(t, err)
	return data
}

func TestRelay_DisplayStream(t *testing.T) {
	r, pub := newTestRelay(t)

	r.HandleChunk(chunkJSON(t, "m1", 0, "Reviewing the process. ", false))
	r.HandleChunk(chunkJSON(t, "m1", 1, "\n\n```adli-scores\n{\"approach\": 1", false))

	displays := pub.bySubject("coach.chat.m1.display")
	require.Len(t, displays, 2)

	var first, second DisplayEvent
	require.NoError(t, json.Unmarshal(displays[0], &first))
	require.NoError(t, json.Unmarshal(displays[1], &second))

	assert.Equal(t, "Reviewing the process. ", first.Text)
	assert.Empty(t, first.Partial)

	// Once the opening fence arrives, the in-progress block is withheld.
	assert.Equal(t, "Reviewing the process.", second.Text)
	assert.Equal(t, string(extract.KindScores), second.Partial)
	assert.NotContains(t, second.Text, "```")
}

func TestRelay_PayloadPublishedOnCompletion(t *testing.T) {
	r, pub := newTestRelay(t)

	r.HandleChunk(chunkJSON(t, "m2", 0, "Scores:\n```adli-scores\n", false))
	r.HandleChunk(chunkJSON(t, "m2", 1, "{\"approach\": 70, \"deployment\": 55, \"learning\": 40, \"integration\": 35}\n", false))
	assert.Empty(t, pub.bySubject("coach.chat.m2.payloads"), "no payload before closing fence")

	r.HandleChunk(chunkJSON(t, "m2", 2, "```\nDone.", false))

	payloads := pub.bySubject("coach.chat.m2.payloads")
	require.Len(t, payloads, 1)

	var event PayloadEvent
	require.NoError(t, json.Unmarshal(payloads[0], &event))
	assert.Equal(t, "m2", event.MessageID)
	assert.Equal(t, string(extract.KindScores), event.Kind)
	require.NotNil(t, event.Scores)
	assert.Equal(t, 70, event.Scores.Approach)
	assert.Nil(t, event.Suggestions)
}

func TestRelay_PayloadPublishedOnce(t *testing.T) {
	r, pub := newTestRelay(t)

	r.HandleChunk(chunkJSON(t, "m3", 0, "```coach-tasks\n[{\"title\":\"T\",\"action\":\"create\"}]\n```\n", false))
	r.HandleChunk(chunkJSON(t, "m3", 1, "Trailing prose.", false))
	r.HandleChunk(chunkJSON(t, "m3", 2, "", true))

	assert.Len(t, pub.bySubject("coach.chat.m3.payloads"), 1)
}

func TestRelay_DecodeFailurePublishesNothing(t *testing.T) {
	r, pub := newTestRelay(t)

	r.HandleChunk(chunkJSON(t, "m4", 0, "```adli-scores\nnot json\n```\nSorry.", false))

	assert.Empty(t, pub.bySubject("coach.chat.m4.payloads"))

	// The display stream still carries the cleaned prose.
	displays := pub.bySubject("coach.chat.m4.display")
	require.Len(t, displays, 1)
	var event DisplayEvent
	require.NoError(t, json.Unmarshal(displays[0], &event))
	assert.Equal(t, "Sorry.", event.Text)
}

func TestRelay_SessionLifecycle(t *testing.T) {
	r, _ := newTestRelay(t)

	r.HandleChunk(chunkJSON(t, "a", 0, "hello", false))
	r.HandleChunk(chunkJSON(t, "b", 0, "world", false))
	assert.Equal(t, 2, r.ActiveSessions())

	r.HandleChunk(chunkJSON(t, "a", 1, "", true))
	assert.Equal(t, 1, r.ActiveSessions())
}

func TestRelay_MalformedChunkDropped(t *testing.T) {
	r, pub := newTestRelay(t)

	r.HandleChunk([]byte("{not json"))
	r.HandleChunk([]byte(`{"seq": 1, "delta": "no id"}`))

	assert.Empty(t, pub.subjects)
	assert.Equal(t, 0, r.ActiveSessions())
}

func TestRelay_BareSuggestionPublishedOnDone(t *testing.T) {
	r, pub := newTestRelay(t)

	r.HandleChunk(chunkJSON(t, "m5", 0, `The charter is thin. {"field": "charter", `, false))
	r.HandleChunk(chunkJSON(t, "m5", 1, `"content": "Expanded charter text."} Apply it.`, false))
	assert.Empty(t, pub.bySubject("coach.chat.m5.payloads"), "unfenced suggestions wait for the terminal chunk")

	r.HandleChunk(chunkJSON(t, "m5", 2, "", true))

	payloads := pub.bySubject("coach.chat.m5.payloads")
	require.Len(t, payloads, 1)
	var event PayloadEvent
	require.NoError(t, json.Unmarshal(payloads[0], &event))
	assert.Equal(t, string(extract.KindSuggestions), event.Kind)
	require.Len(t, event.Suggestions, 1)
	assert.Equal(t, "charter", event.Suggestions[0].Field)
	assert.Equal(t, "Expanded charter text.", event.Suggestions[0].Content)

	// The terminal display frame carries prose with the inline object removed.
	displays := pub.bySubject("coach.chat.m5.display")
	require.Len(t, displays, 3)
	var final DisplayEvent
	require.NoError(t, json.Unmarshal(displays[2], &final))
	assert.True(t, final.Done)
	assert.NotContains(t, final.Text, `"field"`)
	assert.Contains(t, final.Text, "The charter is thin.")
	assert.Contains(t, final.Text, "Apply it.")
}

func TestRelay_LegacySuggestionPublishedOnDone(t *testing.T) {
	r, pub := newTestRelay(t)

	r.HandleChunk(chunkJSON(t, "m6", 0, "One edit.\n```suggestion\n{\"field\":\"charter\",\"content\":\"Run intake weekly.\"}\n```", false))
	r.HandleChunk(chunkJSON(t, "m6", 1, "", true))

	payloads := pub.bySubject("coach.chat.m6.payloads")
	require.Len(t, payloads, 1)
	var event PayloadEvent
	require.NoError(t, json.Unmarshal(payloads[0], &event))
	assert.Equal(t, string(extract.KindSuggestions), event.Kind)
	require.Len(t, event.Suggestions, 1)
	assert.Equal(t, "Run intake weekly.", event.Suggestions[0].Content)
}

func TestRelay_FencedSuggestionsNotRepublishedOnDone(t *testing.T) {
	r, pub := newTestRelay(t)

	r.HandleChunk(chunkJSON(t, "m7", 0, "```coach-suggestions\n[{\"field\":\"risks\",\"content\":\"Add a review gate.\"}]\n```\n", false))
	r.HandleChunk(chunkJSON(t, "m7", 1, "", true))

	assert.Len(t, pub.bySubject("coach.chat.m7.payloads"), 1)
}

func TestRelay_EvictIdle(t *testing.T) {
	r, _ := newTestRelay(t)

	r.HandleChunk(chunkJSON(t, "stale", 0, "hi", false))
	r.HandleChunk(chunkJSON(t, "fresh", 0, "hi", false))
	require.Equal(t, 2, r.ActiveSessions())

	r.mu.Lock()
	r.sessions["stale"].lastSeen = time.Now().Add(-time.Hour)
	r.mu.Unlock()

	r.evictIdle()
	assert.Equal(t, 1, r.ActiveSessions())
}
