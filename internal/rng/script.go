package rng

import "sync"

// Script replays a fixed sequence of draws, wrapping around at the end.
// Values are reduced modulo n so any script is valid for any call.
type Script struct {
	mu     sync.Mutex
	values []int
	pos    int
}

// NewScript builds a Script. An empty script always draws 0.
func NewScript(values ...int) *Script {
	return &Script{values: values}
}

// Intn implements Source.
func (s *Script) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Draws reports how many values have been consumed.
func (s *Script) Draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// Func adapts a function to Source.
type Func func(n int) int

// Intn implements Source.
func (f Func) Intn(n int) int { return f(n) }
