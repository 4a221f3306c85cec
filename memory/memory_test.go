package memory

import (
	"context"
	"testing"

	"github.com/meikuraledutech/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := New(0)

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", "v1"))
	require.NoError(t, s.Set(ctx, "k", "v2"))

	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)

	require.NoError(t, s.Remove(ctx, "k"))
	require.NoError(t, s.Remove(ctx, "k"))
	assert.Equal(t, 0, s.Len())
}

func TestSink_QuotaExceeded(t *testing.T) {
	ctx := context.Background()
	s := New(10)

	require.NoError(t, s.Set(ctx, "k", "12345"))
	// Replacing an existing key only counts the new value.
	require.NoError(t, s.Set(ctx, "k", "123456789"))

	err := s.Set(ctx, "other", "12345")
	require.Error(t, err)
	assert.ErrorIs(t, err, workflow.ErrStorage)

	v, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "123456789", v)
}

func TestSink_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(0).Set(ctx, "k", "v")
	assert.ErrorIs(t, err, workflow.ErrStorage)
}
