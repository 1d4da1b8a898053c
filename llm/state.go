package llm

import (
	"encoding/json"
	"sync"
)

// State is the externally visible projection of a stream session.
type State struct {
	Reasoning string `json:"reasoning"`
	// Delta is the raw generation text, fences included, append-only.
	Delta string `json:"delta"`
	// Text is the unfenced generation text, set once the session ends.
	Text       string          `json:"text,omitempty"`
	Result     any             `json:"result,omitempty"`
	ResultJSON json.RawMessage `json:"-"`
	Error      string          `json:"error,omitempty"`
	// Usage is set on completion when a TokenCounter is configured.
	Usage       *Usage `json:"usage,omitempty"`
	IsStreaming bool   `json:"is_streaming"`
	Phase       Phase  `json:"phase,omitempty"`
}

// HasResult reports whether the generation parsed into a structured value.
func (s State) HasResult() bool {
	return s.Result != nil
}

// Observer is called after every published change, in order, from the
// goroutine that made the change. It may read State but must not call Start,
// Cancel or Reset directly; hand those off to another goroutine.
type Observer func(State)

// store holds the observable state. Writers carry the generation number they
// were started with; once a session is cancelled, reset or replaced, its late
// writes are dropped.
type store struct {
	mu        sync.Mutex
	state     State
	gen       uint64
	observers []Observer
}

func (s *store) subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

func (s *store) snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// next invalidates the current generation and optionally rewrites the state.
func (s *store) next(fn func(*State)) uint64 {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	if fn != nil {
		fn(&s.state)
	}
	st, obs := s.state, s.observers
	s.mu.Unlock()

	if fn != nil {
		notify(obs, st)
	}
	return gen
}

// apply mutates the state on behalf of generation gen and reports whether the
// write was accepted.
func (s *store) apply(gen uint64, fn func(*State)) bool {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return false
	}
	fn(&s.state)
	st, obs := s.state, s.observers
	s.mu.Unlock()

	notify(obs, st)
	return true
}

func notify(observers []Observer, st State) {
	for _, o := range observers {
		o(st)
	}
}
