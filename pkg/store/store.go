package store

import (
	"sync"

	"github.com/menta2k/image-resizer/pkg/types"
)

// Sink receives every new resize state produced by a control
type Sink interface {
	Commit(state types.ResizeState)
}

// SinkFunc adapts a plain callback to the Sink interface
type SinkFunc func(state types.ResizeState)

// Commit calls f(state)
func (f SinkFunc) Commit(state types.ResizeState) {
	f(state)
}

// Patch is a partial update of a ResizeState. Nil fields are left as they are.
type Patch struct {
	Width         *int
	Height        *int
	RatioUnlocked *bool
}

// Apply merges the patch into state
func (p Patch) Apply(state types.ResizeState) types.ResizeState {
	if p.Width != nil {
		state.Width = *p.Width
	}
	if p.Height != nil {
		state.Height = *p.Height
	}
	if p.RatioUnlocked != nil {
		state.RatioUnlocked = *p.RatioUnlocked
	}
	return state
}

// Store is a single-writer container for the current resize state.
//
// Listeners run synchronously after each change, outside the state lock, in
// the order they subscribed. Changes are delivered one at a time in the
// order they were applied, so a listener never sees an older state after a
// newer one. A listener may read the store or subscribe, but must not call
// Commit or Patch.
type Store struct {
	// notify serializes apply-and-deliver so delivery follows commit order
	notify    sync.Mutex
	mu        sync.Mutex
	state     types.ResizeState
	listeners []listener
	nextID    int
}

type listener struct {
	id int
	fn func(types.ResizeState)
}

// New creates a store holding the initial state
func New(initial types.ResizeState) *Store {
	return &Store{state: initial}
}

// State returns the current state
func (s *Store) State() types.ResizeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Commit replaces the current state
func (s *Store) Commit(state types.ResizeState) {
	s.update(func(types.ResizeState) types.ResizeState { return state })
}

// Patch merges a partial update into the current state and returns the result
func (s *Store) Patch(p Patch) types.ResizeState {
	return s.update(p.Apply)
}

func (s *Store) update(fn func(types.ResizeState) types.ResizeState) types.ResizeState {
	s.notify.Lock()
	defer s.notify.Unlock()

	s.mu.Lock()
	s.state = fn(s.state)
	state := s.state
	listeners := append([]listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(state)
	}
	return state
}

// Subscribe registers fn to be called after every change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(types.ResizeState)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}
