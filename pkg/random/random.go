// Package random seeds and draws from the process-wide random sources.
//
// Every source that should follow SetSeed registers itself as a Seedable
// backend. Backends are seeded in registration order; a backend reporting
// itself unavailable is skipped.
package random

import (
	"math/rand/v2"
	"slices"
	"sync"
)

// Seedable is a random source that can be reseeded.
type Seedable interface {
	Name() string
	Available() bool
	Seed(seed uint64)
}

var (
	backendsMu sync.Mutex
	backends   = []Seedable{shared}
)

// Register appends a backend to the list seeded by SetSeed.
func Register(b Seedable) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends = append(backends, b)
}

// Backends returns the registered backends in seeding order.
func Backends() []Seedable {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	return slices.Clone(backends)
}

// SetSeed seeds every available backend and returns the names seeded.
func SetSeed(seed uint64) []string {
	var seeded []string
	for _, b := range Backends() {
		if !b.Available() {
			continue
		}
		b.Seed(seed)
		seeded = append(seeded, b.Name())
	}
	return seeded
}

// State returns seed if it is non-nil, otherwise a fresh value in [0, 2^32).
func State(seed *uint64) uint64 {
	if seed != nil {
		return *seed
	}
	return uint64(rand.Uint32())
}

// New returns an independent generator seeded deterministically from seed.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// WithSeed runs fn with the shared source seeded to seed and restores the
// previous state afterwards.
func WithSeed(seed uint64, fn func()) {
	saved := shared.snapshot()
	shared.Seed(seed)
	defer shared.restore(saved)

	fn()
}

const alphanumeric = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// String returns n characters drawn from chars, or from [0-9a-zA-Z] when
// chars is empty.
func String(n int, chars string) string {
	if chars == "" {
		chars = alphanumeric
	}
	runes := []rune(chars)
	out := make([]rune, n)
	for i := range out {
		out[i] = runes[IntN(len(runes))]
	}
	return string(out)
}

// IntN returns a value in [0, n) from the shared source.
func IntN(n int) int {
	return sharedRand.IntN(n)
}

// Float64 returns a value in [0, 1) from the shared source.
func Float64() float64 {
	return sharedRand.Float64()
}

// Sample draws k items. Without replacement k is capped at len(items).
func Sample[T any](items []T, k int, replacement bool) []T {
	if len(items) == 0 || k <= 0 {
		return nil
	}

	if replacement {
		out := make([]T, k)
		for i := range out {
			out[i] = items[IntN(len(items))]
		}
		return out
	}

	k = min(k, len(items))
	perm := sharedRand.Perm(len(items))
	out := make([]T, k)
	for i := range out {
		out[i] = items[perm[i]]
	}
	return out
}
