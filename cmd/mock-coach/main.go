// Package main implements a mock coach for exercising the relay without a
// real model. It reads a transcript fixture and publishes it to NATS as
// timed token chunks, the same wire format the chat backend produces. This
// makes relay wiring tests fast, deterministic, and offline-capable.
//
// Usage:
//
//	mock-coach -fixture response.md -nats nats://127.0.0.1:4222
//
// The fixture content is split into fixed-size chunks and published on
// <prefix>.<message-id>.chunks at the configured interval, followed by a
// terminal done chunk.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/procwise/coachstream/relay"
)

func main() {
	var (
		fixture   = flag.String("fixture", "", "Transcript file to stream (required)")
		natsURL   = flag.String("nats", nats.DefaultURL, "NATS server URL")
		prefix    = flag.String("prefix", "coach.chat", "Subject prefix")
		messageID = flag.String("message-id", "", "Message ID (default: random)")
		chunkSize = flag.Int("chunk-size", 24, "Bytes per chunk")
		interval  = flag.Duration("interval", 50*time.Millisecond, "Delay between chunks")
	)
	flag.Parse()

	if *fixture == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *chunkSize <= 0 {
		log.Fatalf("chunk-size must be positive, got %d", *chunkSize)
	}

	data, err := os.ReadFile(*fixture)
	if err != nil {
		log.Fatalf("read fixture: %v", err)
	}

	id := *messageID
	if id == "" {
		id = uuid.New().String()
	}

	conn, err := nats.Connect(*natsURL, nats.Name("mock-coach"))
	if err != nil {
		log.Fatalf("connect to NATS: %v", err)
	}
	defer conn.Drain() //nolint:errcheck

	subject := fmt.Sprintf("%s.%s.chunks", *prefix, id)
	log.Printf("streaming %s (%d bytes) to %s", *fixture, len(data), subject)

	text := string(data)
	seq := 0
	for start := 0; start < len(text); start += *chunkSize {
		end := start + *chunkSize
		if end > len(text) {
			end = len(text)
		}
		publish(conn, subject, relay.ChunkEvent{
			MessageID: id,
			Seq:       seq,
			Delta:     text[start:end],
		})
		seq++
		time.Sleep(*interval)
	}

	publish(conn, subject, relay.ChunkEvent{MessageID: id, Seq: seq, Done: true})
	if err := conn.Flush(); err != nil {
		log.Fatalf("flush: %v", err)
	}
	log.Printf("done: %d chunks", seq+1)
}

func publish(conn *nats.Conn, subject string, event relay.ChunkEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("marshal chunk: %v", err)
	}
	if err := conn.Publish(subject, data); err != nil {
		log.Fatalf("publish chunk %d: %v", event.Seq, err)
	}
}
