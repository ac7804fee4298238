package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenDict(t *testing.T) {
	nested := map[string]any{
		"a": map[string]any{
			"b": 1,
			"c": map[string]any{"d": "x"},
		},
		"e": []int{1, 2},
	}

	flat, err := FlattenDict(nested, ".")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a.b": 1, "a.c.d": "x", "e": []int{1, 2}}, flat)

	back, err := UnflattenDict(flat, ".")
	require.NoError(t, err)
	assert.Equal(t, nested, back)
}

func TestFlattenDict_SeparatorInKey(t *testing.T) {
	_, err := FlattenDict(map[string]any{"a.b": 1}, ".")
	assert.ErrorIs(t, err, ErrSeparatorInKey)
}

func TestUnflattenDict_Conflict(t *testing.T) {
	_, err := UnflattenDict(map[string]any{"a": 1, "a.b": 2}, ".")
	assert.ErrorIs(t, err, ErrNotMap)
}

func TestChainGet(t *testing.T) {
	m := map[string]any{"a": map[string]any{"b": map[string]any{"c": 3}}, "top": "v"}

	v, err := ChainGet(m, "a.b.c", ".")
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = ChainGet(m, "top", ".")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	_, err = ChainGet(m, "a.x", ".")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	_, err = ChainGetKeys(m, "top", "deeper")
	assert.ErrorIs(t, err, ErrNotMap)
}

func TestCollate(t *testing.T) {
	records := []map[string]any{
		{"x": 1, "y": "a"},
		{"x": 2, "y": "b"},
	}

	cols, err := Collate(records)
	require.NoError(t, err)
	assert.Equal(t, map[string][]any{"x": {1, 2}, "y": {"a", "b"}}, cols)

	cols, err = Collate(records, "y")
	require.NoError(t, err)
	assert.Equal(t, map[string][]any{"y": {"a", "b"}}, cols)

	_, err = Collate(append(records, map[string]any{"x": 3}))
	assert.ErrorIs(t, err, ErrInconsistentKeys)

	cols, err = Collate(nil)
	require.NoError(t, err)
	assert.Empty(t, cols)
}

func TestBatch(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Batch([]int{1, 2, 3, 4, 5}, 2))
	assert.Nil(t, Batch([]int{1}, 0))
	assert.Empty(t, Batch([]int{}, 3))
}
