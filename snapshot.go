package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// SavedAtLayout is the ISO-8601 layout used for Snapshot.SavedAt.
const SavedAtLayout = "2006-01-02T15:04:05.000Z"

// Snapshot is the artifact written on a successful autosave.
// SavedAt is kept as the exact string that was persisted.
type Snapshot struct {
	Nodes   []Node `json:"nodes"`
	Edges   []Edge `json:"edges"`
	SavedAt string `json:"savedAt"`
}

// NewSnapshot builds a snapshot stamped with t.
func NewSnapshot(nodes []Node, edges []Edge, t time.Time) Snapshot {
	if nodes == nil {
		nodes = []Node{}
	}
	if edges == nil {
		edges = []Edge{}
	}
	return Snapshot{Nodes: nodes, Edges: edges, SavedAt: FormatSavedAt(t)}
}

// FormatSavedAt renders t in UTC with millisecond precision.
func FormatSavedAt(t time.Time) string {
	return t.UTC().Format(SavedAtLayout)
}

// SavedTime parses SavedAt.
func (s Snapshot) SavedTime() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s.SavedAt)
}

// EncodeSnapshot serializes s into the persisted payload format.
func EncodeSnapshot(s Snapshot) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("%w: encode snapshot: %v", ErrStorage, err)
	}
	return string(b), nil
}

// DecodeSnapshot parses a persisted payload.
func DecodeSnapshot(payload string) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if s.Nodes == nil {
		s.Nodes = []Node{}
	}
	if s.Edges == nil {
		s.Edges = []Edge{}
	}
	return &s, nil
}

// ── Restore ───────────────────────────────────────────────────────

// SaveSnapshot encodes s and writes it to key.
func SaveSnapshot(ctx context.Context, sink Sink, key string, s Snapshot) error {
	payload, err := EncodeSnapshot(s)
	if err != nil {
		return err
	}
	return sink.Set(ctx, key, payload)
}

// LoadSnapshot reads the snapshot stored under key.
// Returns ErrSnapshotNotFound if nothing was saved yet.
func LoadSnapshot(ctx context.Context, sink Sink, key string) (*Snapshot, error) {
	payload, ok, err := sink.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("workflow: load snapshot %q: %w", key, err)
	}
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return DecodeSnapshot(payload)
}

// DiscardSnapshot removes the snapshot stored under key.
func DiscardSnapshot(ctx context.Context, sink Sink, key string) error {
	if err := sink.Remove(ctx, key); err != nil {
		return fmt.Errorf("workflow: discard snapshot %q: %w", key, err)
	}
	return nil
}
