package listing

import (
	"sync"

	"dealer-admin-console/internal/model"
)

// SelectionSet tracks the bulk multi-select state of a listing. Membership is
// by identity value; toggling is idempotent in both directions.
type SelectionSet struct {
	mu  sync.Mutex
	ids []any // insertion order
}

func NewSelectionSet() *SelectionSet {
	return &SelectionSet{}
}

func (s *SelectionSet) Toggle(id any, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !selected {
		kept := s.ids[:0]
		for _, member := range s.ids {
			if model.Key(member) != model.Key(id) {
				kept = append(kept, member)
			}
		}
		s.ids = kept
		return
	}

	for _, member := range s.ids {
		if model.Key(member) == model.Key(id) {
			return
		}
	}
	s.ids = append(s.ids, id)
}

func (s *SelectionSet) Contains(id any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, member := range s.ids {
		if model.Key(member) == model.Key(id) {
			return true
		}
	}
	return false
}

func (s *SelectionSet) Members() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]any(nil), s.ids...)
}

func (s *SelectionSet) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Clear empties the selection; called after every bulk attempt regardless of
// outcome.
func (s *SelectionSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = nil
}
