package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meikuraledutech/workflow"
)

var _ workflow.Sink = (*Sink)(nil)

// Get fetches the payload stored under key.
// Returns "", false, nil if the key was never written.
func (s *Sink) Get(ctx context.Context, key string) (string, bool, error) {
	var payload []byte
	err := s.db.QueryRow(ctx,
		`SELECT payload FROM workflow_snapshots WHERE key = $1`, key,
	).Scan(&payload)

	if err != nil {
		if isNoRows(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("workflow: get snapshot: %w", err)
	}

	return string(payload), true, nil
}

// Set upserts the payload for key. The last write wins.
// The payload must be JSON; savedAt is lifted into its own column when present.
func (s *Sink) Set(ctx context.Context, key, value string) error {
	var head struct {
		SavedAt string `json:"savedAt"`
	}
	if err := json.Unmarshal([]byte(value), &head); err != nil {
		return fmt.Errorf("%w: payload is not JSON: %v", workflow.ErrStorage, err)
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO workflow_snapshots (key, payload, saved_at, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (key) DO UPDATE
		 SET payload = EXCLUDED.payload, saved_at = EXCLUDED.saved_at, updated_at = NOW()`,
		key, []byte(value), head.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: upsert snapshot: %v", workflow.ErrStorage, err)
	}
	return nil
}

// Remove deletes the snapshot stored under key.
// No error if the key doesn't exist.
func (s *Sink) Remove(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM workflow_snapshots WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("workflow: delete snapshot: %w", err)
	}
	return nil
}

// ListKeys returns every stored key, most recently written first.
// Returns an empty slice (not nil) if none found.
func (s *Sink) ListKeys(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT key FROM workflow_snapshots ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("workflow: list snapshots: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("workflow: scan snapshot key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workflow: rows snapshot keys: %w", err)
	}

	return keys, nil
}
