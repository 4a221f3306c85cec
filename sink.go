package workflow

import (
	"context"
	"errors"
)

var (
	ErrStorage          = errors.New("workflow: storage failure")
	ErrSnapshotNotFound = errors.New("workflow: snapshot not found")
	ErrInvalidSnapshot  = errors.New("workflow: invalid snapshot")
)

// Sink is the durable string key-value store snapshots are written to.
// Writes are last-write-wins.
type Sink interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key. Quota and serialization failures wrap ErrStorage.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. No error if the key doesn't exist.
	Remove(ctx context.Context, key string) error
}
