package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS workflow_snapshots (
    key        TEXT PRIMARY KEY,
    payload    JSONB NOT NULL,
    saved_at   TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_workflow_snapshots_updated_at ON workflow_snapshots(updated_at);
`

// CreateSchema creates the workflow_snapshots table if it doesn't exist.
func (s *Sink) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the workflow_snapshots table.
func (s *Sink) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS workflow_snapshots CASCADE;`)
	return err
}
