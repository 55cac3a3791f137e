package form

import (
	"sync"
	"time"
)

// Store guards the single form state shared by HTTP handlers. Blocking
// work runs between two Update calls, never inside one.
type Store struct {
	mu    sync.Mutex
	state State
	now   func() time.Time
}

// NewStore returns a store holding the initial state.
func NewStore() *Store {
	return &Store{state: New(), now: time.Now}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.CopyAcknowledged(s.now())
	return s.state
}

// Update applies fn atomically and stores the state it returns, including
// on error: transitions that refuse return their input unchanged, and a
// validation failure still records its message.
func (s *Store) Update(fn func(State) (State, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.state)
	s.state = next
	return s.state, err
}

// Apply is Update for transitions that cannot fail.
func (s *Store) Apply(fn func(State) State) State {
	st, _ := s.Update(func(st State) (State, error) { return fn(st), nil })
	return st
}

// View is the JSON shape of the state sent to the page.
type View struct {
	State
	CVText string `json:"cv_text"`
	Copied bool   `json:"copied"`
}

// View returns the current state with derived fields filled in.
func (s *Store) View() View {
	st := s.Snapshot()
	return st.View(s.now())
}

// View returns st with derived fields at now.
func (st State) View(now time.Time) View {
	return View{State: st, CVText: st.CVText(), Copied: st.Copied(now)}
}
