package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAssignsDenseIncreasingIds(t *testing.T) {
	r := NewRegistry()
	id1 := r.Register(Template{Name: "a"})
	id2 := r.Register(Template{Name: "b"})
	assert.Equal(t, uint32(0), id1)
	assert.Equal(t, uint32(1), id2)
	assert.Equal(t, 2, r.Count())
}

func TestGetReturnsRegisteredTemplate(t *testing.T) {
	r := NewRegistry()
	id := r.Register(Template{Name: "counter", DynamicTextCount: 1})

	got, ok := r.Get(id)
	require.True(t, ok)
	assert.Equal(t, "counter", got.Name)
	assert.Equal(t, 1, got.DynamicTextCount)
}

func TestGetOutOfRangeReturnsFalse(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Get(5)
	assert.False(t, ok)
}

func TestFindByNameLinearScan(t *testing.T) {
	r := NewRegistry()
	r.Register(Template{Name: "a"})
	bID := r.Register(Template{Name: "b"})
	r.Register(Template{Name: "c"})

	id, ok := r.FindByName("b")
	require.True(t, ok)
	assert.Equal(t, bID, id)

	_, ok = r.FindByName("missing")
	assert.False(t, ok)
}

// Templates are append-only: registering never mutates or drops an
// existing entry.
func TestTemplatesAreNeverUnregistered(t *testing.T) {
	r := NewRegistry()
	id := r.Register(Template{Name: "first"})
	r.Register(Template{Name: "second"})

	got, ok := r.Get(id)
	require.True(t, ok)
	assert.Equal(t, "first", got.Name)
	assert.Equal(t, 2, r.Count())
}
