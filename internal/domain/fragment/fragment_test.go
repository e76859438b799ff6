package fragment

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disorderedmaterials/neta/internal/domain/molecule"
	"github.com/disorderedmaterials/neta/internal/domain/neta"
	"github.com/disorderedmaterials/neta/internal/testutil"
	"github.com/disorderedmaterials/neta/pkg/errors"
)

func keys(instances []Instance) []string {
	out := make([]string, len(instances))
	for i, in := range instances {
		out[i] = in.Key()
	}
	return out
}

func newFinder(t *testing.T, text string, requireOrigin bool) *Finder {
	t.Helper()
	f, err := NewFinder(neta.MustCompile(text, nil), requireOrigin)
	require.NoError(t, err)
	return f
}

func TestNewFinder_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewFinder(nil, false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeFragmentNoDefinition))

	d := neta.NewDefinition()
	require.Error(t, d.Create("?C,-H(", nil))
	_, err = NewFinder(d, false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeFragmentInvalidNETA))
}

func TestFind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		species    func() *molecule.Species
		definition string
		want       []string
	}{
		{"single atoms", testutil.Methanol, "?C", []string{"0"}},
		{"carbon pairs in propane", testutil.Propane, "?C,-C", []string{"0,1", "1,2"}},
		{"duplicate pair rejected", testutil.Ethane, "?C,-C", []string{"0,1"}},
		{"hydroxyl", testutil.Methanol, "?O,-H", []string{"1,5"}},
		{"benzene ring", testutil.Benzene, "?C,ring(size=6)", []string{"0,1,2,3,4,5"}},
		{"no match", testutil.Water, "?C", nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := newFinder(t, tt.definition, false).Find(tt.species())
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, keys(got))
		})
	}
}

func TestFind_IndependentOfTraversalOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		species    func() *molecule.Species
		definition string
	}{
		{testutil.Propane, "?C,-C"},
		{testutil.FusedBicyclic, "?C,-C"},
		{testutil.FusedBicyclic, "?C,ring(size=4)"},
		{testutil.FusedBicyclic, "?H,-C(-C)"},
		{testutil.Benzene, "?C,-H,-C(-H)"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.definition, func(t *testing.T) {
			t.Parallel()
			s := tt.species()
			f := newFinder(t, tt.definition, false)
			want := keys(f.Find(s))
			require.NotEmpty(t, want)

			rng := rand.New(rand.NewSource(7))
			for trial := 0; trial < 10; trial++ {
				order := rng.Perm(s.NAtoms())
				got, err := f.FindInOrder(s, order)
				require.NoError(t, err)
				assert.Equal(t, want, keys(got), "order %v", order)
			}
		})
	}
}

func TestFindInOrder_BadIndex(t *testing.T) {
	t.Parallel()
	_, err := newFinder(t, "?C", false).FindInOrder(testutil.Methane(), []int{0, 9})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeAtomNotFound))
}

func TestFind_RequireOrigin(t *testing.T) {
	t.Parallel()
	s := testutil.Methanol()

	assert.Len(t, newFinder(t, "?O,-H", false).Find(s), 1)
	assert.Empty(t, newFinder(t, "?O,-H", true).Find(s))

	got := newFinder(t, "?O,#origin,-H", true).Find(s)
	require.Len(t, got, 1)
	assert.Equal(t, []int{1}, testutil.Indices(got[0].Origin))
}

func TestFind_DeterministicIDs(t *testing.T) {
	t.Parallel()
	f := newFinder(t, "?C,-C", false)

	first := f.Find(testutil.Propane())
	second := f.Find(testutil.Propane())
	require.Len(t, first, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[1].ID, second[1].ID)
	assert.NotEqual(t, first[0].ID, first[1].ID)
}

func TestInstance_Axes(t *testing.T) {
	t.Parallel()
	s := testutil.Methanol()
	got := newFinder(t, "?O,#origin,-C(#x),-H(#y)", true).Find(s)
	require.Len(t, got, 1)
	in := got[0]

	assert.Equal(t, []int{0, 1, 5}, in.Indices)
	assert.Equal(t, 1, in.Root.Index)
	assert.Equal(t, s.Atoms()[1].R, in.OriginPosition())

	x, y, z, ok := in.Axes()
	require.True(t, ok)
	assert.InDelta(t, 1, x.Norm(), 1e-9)
	assert.InDelta(t, 1, y.Norm(), 1e-9)
	assert.InDelta(t, 1, z.Norm(), 1e-9)
	assert.InDelta(t, 0, x.Dot(y), 1e-9)
	assert.InDelta(t, 0, x.Dot(z), 1e-9)

	// x points from the oxygen back towards the carbon.
	inv := -1 / math.Sqrt(3)
	assert.InDelta(t, inv, x.X, 1e-9)
	assert.InDelta(t, inv, x.Y, 1e-9)
	assert.InDelta(t, inv, x.Z, 1e-9)
}

func TestInstance_AxesUnavailable(t *testing.T) {
	t.Parallel()
	s := testutil.Methane()

	tests := []struct {
		name       string
		definition string
	}{
		{"no axis tags", "?C,-H"},
		{"no y axis", "?C,-H(#x)"},
		{"x coincides with origin", "?C,#x,-H(#y)"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := newFinder(t, tt.definition, false).Find(s)
			require.NotEmpty(t, got)
			_, _, _, ok := got[0].Axes()
			assert.False(t, ok)
			assert.Equal(t, s.Atoms()[0].R, got[0].OriginPosition())
		})
	}
}
