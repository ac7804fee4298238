package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeBackend struct {
	name      string
	available bool
	seeded    []uint64
}

func (f *fakeBackend) Name() string     { return f.name }
func (f *fakeBackend) Available() bool  { return f.available }
func (f *fakeBackend) Seed(seed uint64) { f.seeded = append(f.seeded, seed) }

func TestSetSeed(t *testing.T) {
	on := &fakeBackend{name: "on", available: true}
	off := &fakeBackend{name: "off"}
	Register(on)
	Register(off)

	seeded := SetSeed(42)

	assert.Equal(t, "pcg", seeded[0])
	assert.Contains(t, seeded, "on")
	assert.NotContains(t, seeded, "off")
	assert.Equal(t, []uint64{42}, on.seeded)
	assert.Empty(t, off.seeded)
}

func TestWithSeed_Reproducible(t *testing.T) {
	var first, second string
	WithSeed(7, func() { first = String(16, "") })
	WithSeed(7, func() { second = String(16, "") })

	assert.Equal(t, first, second)
	assert.Len(t, first, 16)
}

func TestWithSeed_RestoresState(t *testing.T) {
	shared.Seed(1)
	expected := []int{IntN(1000), IntN(1000), IntN(1000)}

	shared.Seed(1)
	got := []int{IntN(1000)}
	WithSeed(99, func() { IntN(1000) })
	got = append(got, IntN(1000), IntN(1000))

	assert.Equal(t, expected, got)
}

func TestState(t *testing.T) {
	seed := uint64(5)
	assert.Equal(t, uint64(5), State(&seed))
	assert.Less(t, State(nil), uint64(1)<<32)
}

func TestNew_Deterministic(t *testing.T) {
	a, b := New(3), New(3)
	for range 10 {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestString_Charset(t *testing.T) {
	s := String(50, "ab")
	assert.Len(t, s, 50)
	for _, r := range s {
		assert.Contains(t, "ab", string(r))
	}
}

func TestSample(t *testing.T) {
	items := []string{"red", "green", "blue"}

	got := Sample(items, 5, false)
	assert.Len(t, got, 3)
	assert.ElementsMatch(t, items, got)

	got = Sample(items, 5, true)
	assert.Len(t, got, 5)
	for _, v := range got {
		assert.Contains(t, items, v)
	}

	assert.Nil(t, Sample[string](nil, 2, false))
}
