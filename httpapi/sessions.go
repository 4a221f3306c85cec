package httpapi

import (
	"sync"

	"github.com/meikuraledutech/workflow/autosave"
)

// sessions tracks one autosave.Saver per storage key.
type sessions struct {
	mu     sync.Mutex
	savers map[string]*autosave.Saver
}

func newSessions() *sessions {
	return &sessions{savers: make(map[string]*autosave.Saver)}
}

func (s *sessions) get(key string) (*autosave.Saver, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sv, ok := s.savers[key]
	return sv, ok
}

// put registers sv under key, closing any saver it replaces.
func (s *sessions) put(key string, sv *autosave.Saver) {
	s.mu.Lock()
	old := s.savers[key]
	s.savers[key] = sv
	s.mu.Unlock()
	if old != nil {
		old.Close()
	}
}

func (s *sessions) remove(key string) bool {
	s.mu.Lock()
	sv, ok := s.savers[key]
	delete(s.savers, key)
	s.mu.Unlock()
	if ok {
		sv.Close()
	}
	return ok
}

func (s *sessions) closeAll() {
	s.mu.Lock()
	all := s.savers
	s.savers = make(map[string]*autosave.Saver)
	s.mu.Unlock()
	for _, sv := range all {
		sv.Close()
	}
}
