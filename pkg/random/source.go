package random

import (
	"math/rand/v2"
	"sync"
)

// pcgSource is the shared PCG generator behind IntN, Float64 and friends.
type pcgSource struct {
	pcg *rand.PCG
	mu  sync.Mutex
}

var (
	shared     = &pcgSource{pcg: rand.NewPCG(rand.Uint64(), rand.Uint64())}
	sharedRand = rand.New(shared)
)

func (s *pcgSource) Name() string    { return "pcg" }
func (s *pcgSource) Available() bool { return true }

func (s *pcgSource) Seed(seed uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pcg.Seed(seed, seed^0x9e3779b97f4a7c15)
}

func (s *pcgSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pcg.Uint64()
}

func (s *pcgSource) snapshot() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	// PCG state marshalling cannot fail.
	state, _ := s.pcg.MarshalBinary()
	return state
}

func (s *pcgSource) restore(state []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.pcg.UnmarshalBinary(state)
}
