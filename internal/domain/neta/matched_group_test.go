package neta

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/disorderedmaterials/neta/internal/testutil"
)

func TestMatchedGroup_Basics(t *testing.T) {
	s := testutil.Methanol()
	c, o, h := s.Atoms()[0], s.Atoms()[1], s.Atoms()[5]

	g := NewMatchedGroup(o)
	assert.Same(t, o, g.Root())
	assert.True(t, g.Contains(o))
	assert.Equal(t, 1, g.Len())

	assert.True(t, g.Add(h))
	assert.False(t, g.Add(h))
	assert.True(t, g.Add(c))
	assert.Equal(t, []int{0, 1, 5}, g.Indices())
	assert.Equal(t, []int{0, 1, 5}, testutil.Indices(g.Atoms()))

	g.Remove(h)
	g.Remove(o)
	assert.Equal(t, []int{0, 1}, g.Indices(), "the root cannot be removed")
}

func TestMatchedGroup_Tags(t *testing.T) {
	s := testutil.Methanol()
	g := NewMatchedGroup(s.Atoms()[1])
	g.Tag("x", s.Atoms()[4])
	g.Tag("x", s.Atoms()[2])
	g.Tag("x", s.Atoms()[2])
	g.Tag("origin", s.Atoms()[1])

	assert.Equal(t, []string{"origin", "x"}, g.Identifiers())
	assert.Equal(t, []int{2, 4}, testutil.Indices(g.Identifier("x")))
	assert.Empty(t, g.Identifier("y"))
}

func TestMatchedGroup_CloneRestoreMerge(t *testing.T) {
	s := testutil.Methanol()
	g := NewMatchedGroup(s.Atoms()[0])
	g.Tag("a", s.Atoms()[0])

	snap := g.Clone()
	g.Add(s.Atoms()[1])
	g.Tag("b", s.Atoms()[1])
	assert.Equal(t, 1, snap.Len(), "clones are independent")

	g.Restore(snap)
	assert.Equal(t, []int{0}, g.Indices())
	assert.Equal(t, []string{"a"}, g.Identifiers())

	// Restoring must not alias the snapshot.
	g.Add(s.Atoms()[2])
	assert.Equal(t, 1, snap.Len())

	other := NewMatchedGroup(s.Atoms()[3])
	other.Tag("b", s.Atoms()[3])
	g.Merge(other)
	g.Merge(nil)
	assert.Equal(t, []int{0, 2, 3}, g.Indices())
	assert.Equal(t, []string{"a", "b"}, g.Identifiers())
}

func TestMatchedGroup_Empty(t *testing.T) {
	g := NewMatchedGroup(nil)
	assert.True(t, g.Empty())
	assert.Nil(t, g.Root())
	assert.Empty(t, g.Indices())
}
