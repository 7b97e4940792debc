package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_KeepsInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("c", 3)
	m.Set("b", 4)

	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())
	v, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 4, v)

	m.Delete("a")
	assert.Equal(t, []string{"b", "c"}, m.Keys())
	assert.Equal(t, 2, m.Len())
}

func TestMap_NilReceiver(t *testing.T) {
	var m *Map
	_, ok := m.Get("x")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Keys())
}

func TestMap_MarshalJSON(t *testing.T) {
	inner := NewMap()
	inner.Set("z", "<tag>")
	inner.Set("a", []interface{}{1, "two"})

	m := NewMap()
	m.Set("second", inner)
	m.Set("first", nil)

	out, err := MarshalJSON(m)
	require.NoError(t, err)
	assert.Equal(t, `{"second":{"z":"<tag>","a":[1,"two"]},"first":null}`, string(out))
}
