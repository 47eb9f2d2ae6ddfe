// Package relay consumes the coach's token chunk stream over NATS and
// republishes two derived streams per message: display-safe prose (all block
// markup stripped, in-progress blocks withheld) and decoded structured
// payloads as each block completes. Persistence of accepted payloads is the
// consumer's responsibility; the relay publishes and forgets.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/procwise/coachstream/extract"
	"github.com/procwise/coachstream/stream"
)

// Publisher is the outbound half of the NATS connection. *nats.Conn
// satisfies it; tests substitute a recorder.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// session tracks one in-flight message.
type session struct {
	acc      *stream.Accumulator
	lastSeen time.Time
}

// Relay accumulates chunk streams and publishes derived events.
type Relay struct {
	config    Config
	extractor *extract.Extractor
	pub       Publisher
	logger    *slog.Logger
	metrics   *Metrics

	mu       sync.Mutex
	sessions map[string]*session

	sub     *nats.Subscription
	cancel  context.CancelFunc
	running bool
}

// New creates a relay. Pass nil metrics to disable instrumentation.
func New(config Config, extractor *extract.Extractor, pub Publisher, logger *slog.Logger, metrics *Metrics) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		config:    config,
		extractor: extractor,
		pub:       pub,
		logger:    logger,
		metrics:   metrics,
		sessions:  make(map[string]*session),
	}
}

// Start subscribes to the chunk stream and begins evicting idle sessions.
func (r *Relay) Start(ctx context.Context, conn *nats.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return fmt.Errorf("relay already started")
	}

	subject := r.config.SubjectPrefix + ".*.chunks"
	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		r.HandleChunk(msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	r.sub = sub
	r.running = true

	janitorCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	go r.evictLoop(janitorCtx)

	r.logger.Info("relay started", "subject", subject)
	return nil
}

// Stop unsubscribes and drops all in-flight sessions.
func (r *Relay) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return nil
	}
	if r.cancel != nil {
		r.cancel()
	}
	var err error
	if r.sub != nil {
		err = r.sub.Unsubscribe()
		r.sub = nil
	}
	r.sessions = make(map[string]*session)
	r.setActiveGauge(0)
	r.running = false
	r.logger.Info("relay stopped")
	return err
}

// HandleChunk processes one raw chunk event. Malformed events are logged and
// dropped; they never stop the stream. The NATS subscription dispatches
// callbacks serially, so chunks of one message are never appended
// concurrently.
//
// The terminal chunk runs a full extraction: suggestions that only arrived
// unfenced (bare inline objects, legacy tag) are published there, and the
// final display frame uses the extraction's cleaned text so those objects
// never reach viewers.
func (r *Relay) HandleChunk(data []byte) {
	var chunk ChunkEvent
	if err := json.Unmarshal(data, &chunk); err != nil {
		r.logger.Warn("dropping malformed chunk event", "error", err)
		return
	}
	if chunk.MessageID == "" {
		r.logger.Warn("dropping chunk with empty message_id")
		return
	}

	if r.metrics != nil {
		r.metrics.ChunksProcessed.Inc()
	}

	sess := r.getSession(chunk.MessageID)

	start := time.Now()
	snap := sess.acc.Append(chunk.Delta)
	if r.metrics != nil {
		r.metrics.ExtractSeconds.Observe(time.Since(start).Seconds())
	}

	var result extract.Result
	finalized := len(snap.Completed) > 0 || chunk.Done
	if finalized {
		result = sess.acc.Finalize()
	}
	if chunk.Done {
		// The snapshot's text comes from Clean, which leaves unfenced
		// suggestion objects in place; the terminal frame carries the
		// extraction's cleaned text instead.
		snap.CleanedText = result.CleanedText
	}

	r.publishDisplay(chunk, snap)

	if finalized {
		for _, kind := range snap.Completed {
			r.publishPayload(chunk.MessageID, kind, result)
		}
		if chunk.Done && len(result.Suggestions) > 0 && !sess.acc.Completed(extract.KindSuggestions) {
			r.publishPayload(chunk.MessageID, extract.KindSuggestions, result)
		}
	}

	if chunk.Done {
		r.dropSession(chunk.MessageID)
	}
}

// publishDisplay sends the cleaned prose snapshot for UI rendering.
func (r *Relay) publishDisplay(chunk ChunkEvent, snap stream.Snapshot) {
	event := DisplayEvent{
		MessageID: chunk.MessageID,
		Seq:       chunk.Seq,
		Text:      snap.CleanedText,
		Partial:   string(snap.Partial),
		Done:      chunk.Done,
	}
	r.publish(fmt.Sprintf("%s.%s.display", r.config.SubjectPrefix, chunk.MessageID), event)
}

// publishPayload sends the decoded payload for one completed kind. A kind
// that completed with an undecodable payload publishes nothing.
func (r *Relay) publishPayload(messageID string, kind extract.BlockKind, result extract.Result) {
	event := PayloadEvent{MessageID: messageID, Kind: string(kind)}

	decoded := false
	switch kind {
	case extract.KindScores:
		if result.Scores != nil {
			event.Scores = result.Scores
			decoded = true
		}
	case extract.KindSuggestions:
		if len(result.Suggestions) > 0 {
			event.Suggestions = result.Suggestions
			decoded = true
		}
	case extract.KindTasks:
		if len(result.Tasks) > 0 {
			event.Tasks = result.Tasks
			decoded = true
		}
	case extract.KindMetrics:
		if len(result.Metrics) > 0 {
			event.Metrics = result.Metrics
			decoded = true
		}
	}

	if !decoded {
		if r.metrics != nil {
			r.metrics.DecodeFailures.WithLabelValues(string(kind)).Inc()
		}
		r.logger.Warn("completed block failed to decode",
			"message_id", messageID,
			"kind", kind)
		return
	}

	if r.metrics != nil {
		r.metrics.BlocksCompleted.WithLabelValues(string(kind)).Inc()
	}
	r.publish(fmt.Sprintf("%s.%s.payloads", r.config.SubjectPrefix, messageID), event)
}

// publish marshals and sends one event, logging failures.
func (r *Relay) publish(subject string, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		r.logger.Error("marshal event", "subject", subject, "error", err)
		return
	}
	if err := r.pub.Publish(subject, data); err != nil {
		r.logger.Warn("publish failed", "subject", subject, "error", err)
	}
}

// getSession returns the session for a message, creating it on first chunk.
func (r *Relay) getSession(messageID string) *session {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[messageID]
	if !ok {
		sess = &session{acc: stream.NewAccumulator(r.extractor)}
		r.sessions[messageID] = sess
		r.setActiveGauge(float64(len(r.sessions)))
		r.logger.Debug("message stream opened", "message_id", messageID)
	}
	sess.lastSeen = time.Now()
	return sess
}

// dropSession removes a finished message.
func (r *Relay) dropSession(messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[messageID]; !ok {
		return
	}
	delete(r.sessions, messageID)
	r.setActiveGauge(float64(len(r.sessions)))
	r.logger.Debug("message stream closed", "message_id", messageID)
}

// evictLoop removes sessions that stopped receiving chunks without a
// terminal chunk.
func (r *Relay) evictLoop(ctx context.Context) {
	interval := r.config.IdleTTL / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.evictIdle()
		}
	}
}

// evictIdle drops sessions idle longer than IdleTTL.
func (r *Relay) evictIdle() {
	cutoff := time.Now().Add(-r.config.IdleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, sess := range r.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			r.logger.Warn("evicted idle message stream", "message_id", id)
		}
	}
	r.setActiveGauge(float64(len(r.sessions)))
}

// ActiveSessions reports how many messages are currently accumulating.
func (r *Relay) ActiveSessions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Relay) setActiveGauge(n float64) {
	if r.metrics != nil {
		r.metrics.ActiveMessages.Set(n)
	}
}
