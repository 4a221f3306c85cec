package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSink connects to DATABASE_URL and recreates the schema.
// Tests are skipped when no database is configured.
func newTestSink(t *testing.T) *Sink {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s := New(pool)
	require.NoError(t, s.DropSchema(ctx))
	require.NoError(t, s.CreateSchema(ctx))
	t.Cleanup(func() { _ = s.DropSchema(context.Background()) })
	return s
}

func TestSink_RoundTrip(t *testing.T) {
	s := newTestSink(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "wf")
	require.NoError(t, err)
	assert.False(t, ok)

	snap := workflow.NewSnapshot(
		[]workflow.Node{{ID: "s1", Type: workflow.NodeStart}, {ID: "e1", Type: workflow.NodeEnd}},
		[]workflow.Edge{{ID: "x", Source: "s1", Target: "e1"}},
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, workflow.SaveSnapshot(ctx, s, "wf", snap))

	got, err := workflow.LoadSnapshot(ctx, s, "wf")
	require.NoError(t, err)
	assert.Equal(t, snap, *got)

	keys, err := s.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"wf"}, keys)
}

func TestSink_LastWriteWins(t *testing.T) {
	s := newTestSink(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "wf", `{"nodes":[],"edges":[],"savedAt":"a"}`))
	require.NoError(t, s.Set(ctx, "wf", `{"nodes":[],"edges":[],"savedAt":"b"}`))

	got, err := workflow.LoadSnapshot(ctx, s, "wf")
	require.NoError(t, err)
	assert.Equal(t, "b", got.SavedAt)
}

func TestSink_RejectsNonJSON(t *testing.T) {
	s := newTestSink(t)
	err := s.Set(context.Background(), "wf", "not json")
	assert.ErrorIs(t, err, workflow.ErrStorage)
}

func TestSink_Remove(t *testing.T) {
	s := newTestSink(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "wf", `{}`))
	require.NoError(t, s.Remove(ctx, "wf"))
	require.NoError(t, s.Remove(ctx, "wf"))

	_, ok, err := s.Get(ctx, "wf")
	require.NoError(t, err)
	assert.False(t, ok)
}
