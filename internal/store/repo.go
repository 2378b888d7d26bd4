package store

import (
	"context"
	"encoding/json"
	"time"
)

// Snapshot is a point-in-time capture of the full session state. The
// payload is opaque JSON owned by the session layer; the store only
// guarantees load-on-start and save-on-change semantics.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      json.RawMessage
}

// SnapshotRepo manages session state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error

	// DeleteAll removes every snapshot (profile reset).
	DeleteAll(ctx context.Context) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a persisted LLM request event.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // filter by purpose label ("" = all)
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns recent events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)
}

// ChatMessage is one persisted mentor chat turn.
type ChatMessage struct {
	ID        string
	Timestamp time.Time
	Role      string // "user" or "assistant"
	Content   string
}

// ChatRepo persists mentor chat history.
type ChatRepo interface {
	// Append stores a chat message.
	Append(ctx context.Context, msg ChatMessage) error

	// Recent returns the most recent messages in chronological order.
	Recent(ctx context.Context, limit int) ([]ChatMessage, error)

	// DeleteAll clears the chat history (profile reset).
	DeleteAll(ctx context.Context) error
}
