package relay

import "time"

// Config holds relay settings.
type Config struct {
	// SubjectPrefix is the root of the chat subject hierarchy. The relay
	// consumes <prefix>.<message-id>.chunks and publishes
	// <prefix>.<message-id>.display and <prefix>.<message-id>.payloads.
	SubjectPrefix string

	// IdleTTL evicts an in-flight message that stops receiving chunks
	// without a terminal chunk (producer crash, dropped connection).
	IdleTTL time.Duration
}

// DefaultConfig returns relay defaults.
func DefaultConfig() Config {
	return Config{
		SubjectPrefix: "coach.chat",
		IdleTTL:       5 * time.Minute,
	}
}
