// Package form holds per-screen transient field state and the
// submission gate.
package form

import (
	"errors"
	"sync"
)

// ErrIncomplete is the blocking validation error reported when a required
// field is empty at submit. There is no field-level detail; the notice is
// a single generic message.
var ErrIncomplete = errors.New("please fill in all fields")

// ErrSubmitInFlight is reported when a submit lands while an earlier one
// is still running. The source UI allowed this race; the guard is a
// deliberate improvement.
var ErrSubmitInFlight = errors.New("submission already in progress")

// Session is one screen's form state: a field-to-value map and a single
// focus flag shared by every field on the screen. Focusing any input
// marks the whole session focused; that granularity is part of the
// contract being reproduced, not per-field.
type Session struct {
	mu       sync.Mutex
	required []string
	values   map[string]string
	focused  bool
	inFlight bool
}

func NewSession(required ...string) *Session {
	return &Session{
		required: required,
		values:   make(map[string]string),
	}
}

func (s *Session) Set(field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[field] = value
}

func (s *Session) Get(field string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[field]
}

func (s *Session) Focus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focused = true
}

func (s *Session) Blur() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focused = false
}

func (s *Session) Focused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused
}

// Valid reports whether every required field is non-empty.
func (s *Session) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid()
}

func (s *Session) valid() bool {
	for _, field := range s.required {
		if s.values[field] == "" {
			return false
		}
	}
	return true
}

// Submit gates on validity and hands the field values to fn. On success
// the session is cleared and retains nothing. On validation failure no
// side effect happens. Only one submission may run at a time.
func (s *Session) Submit(fn func(values map[string]string) error) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	if !s.valid() {
		s.mu.Unlock()
		return ErrIncomplete
	}
	s.inFlight = true
	handed := make(map[string]string, len(s.values))
	for k, v := range s.values {
		handed[k] = v
	}
	s.mu.Unlock()

	err := fn(handed)

	s.mu.Lock()
	s.inFlight = false
	if err == nil {
		s.values = make(map[string]string)
	}
	s.mu.Unlock()
	return err
}
