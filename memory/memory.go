// Package memory provides an in-process workflow.Sink, the analogue of
// browser local storage. An optional byte quota makes writes fail the way
// a full storage area does.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/meikuraledutech/workflow"
)

var _ workflow.Sink = (*Sink)(nil)

// Sink implements workflow.Sink with a mutex-guarded map.
type Sink struct {
	mu    sync.RWMutex
	data  map[string]string
	quota int
}

// New creates an empty Sink. quota limits the total stored bytes
// (keys plus values); zero disables the limit.
func New(quota int) *Sink {
	return &Sink{data: make(map[string]string), quota: quota}
}

// Get returns the value stored under key.
func (s *Sink) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Set stores value under key, replacing any previous value.
// Returns an error wrapping workflow.ErrStorage when the quota would be exceeded.
func (s *Sink) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", workflow.ErrStorage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quota > 0 {
		used := s.usedLocked()
		if old, ok := s.data[key]; ok {
			used -= len(key) + len(old)
		}
		if used+len(key)+len(value) > s.quota {
			return fmt.Errorf("%w: quota of %d bytes exceeded", workflow.ErrStorage, s.quota)
		}
	}
	s.data[key] = value
	return nil
}

// Remove deletes key. No error if the key doesn't exist.
func (s *Sink) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Len returns the number of stored keys.
func (s *Sink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *Sink) usedLocked() int {
	n := 0
	for k, v := range s.data {
		n += len(k) + len(v)
	}
	return n
}
