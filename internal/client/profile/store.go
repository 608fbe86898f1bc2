package profile

import "sync"

// Store is the shared profile state container. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	state Profile
	subs  map[int]func(Profile)
	next  int
}

// NewStore returns a Store holding the empty guest profile.
func NewStore() *Store {
	return &Store{subs: make(map[int]func(Profile))}
}

// State returns a copy of the current profile.
func (s *Store) State() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Dispatch applies a and returns the resulting profile.
func (s *Store) Dispatch(a Action) Profile {
	return s.DispatchFunc(func(Profile) Action { return a })
}

// DispatchFunc derives an action from the current state and applies it
// atomically, so read-modify-write updates do not lose concurrent changes.
func (s *Store) DispatchFunc(fn func(current Profile) Action) Profile {
	s.mu.Lock()
	s.state = Reduce(s.state, fn(s.state.clone()))
	next := s.state.clone()
	subs := make([]func(Profile), 0, len(s.subs))
	for _, f := range s.subs {
		subs = append(subs, f)
	}
	s.mu.Unlock()

	for _, f := range subs {
		f(next.clone())
	}
	return next
}

// Subscribe registers fn to be called with the new profile after every
// dispatch. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Profile)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
