package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkg.jsn.cam/carton/pkg/params"
)

type greeter struct {
	greeting string
}

func newGreeter(opts params.Params) (*greeter, error) {
	g := &greeter{greeting: "hello"}
	if v, ok := opts["greeting"].(string); ok {
		g.greeting = v
	}
	opts["touched"] = true
	return g, nil
}

func TestRegistry_Build(t *testing.T) {
	r := New[*greeter]("greeter")
	require.NoError(t, r.Register("default", newGreeter))

	opts := params.Params{"greeting": "hi"}
	g, err := r.Build("default", opts)
	require.NoError(t, err)
	assert.Equal(t, "hi", g.greeting)
	assert.NotContains(t, opts, "touched", "factory must receive a copy of the options")

	g, err = r.Build("default", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", g.greeting)
}

func TestRegistry_Errors(t *testing.T) {
	r := New[*greeter]("greeter")
	r.MustRegister("default", newGreeter)

	_, err := r.Build("missing", nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "default")

	assert.ErrorIs(t, r.Register("default", newGreeter), ErrDuplicate)
	assert.Panics(t, func() { r.MustRegister("default", newGreeter) })
}

func TestRegistry_Names(t *testing.T) {
	r := New[int]("number")
	for _, name := range []string{"two", "one", "three"} {
		r.MustRegister(name, func(params.Params) (int, error) { return 0, nil })
	}

	assert.Equal(t, []string{"one", "three", "two"}, r.Names())
	assert.True(t, r.Has("one"))
	assert.False(t, r.Has("four"))
}
