package molecule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/disorderedmaterials/neta/internal/domain/molecule"
)

func TestElementFromSymbol(t *testing.T) {
	t.Parallel()

	tests := []struct {
		symbol string
		want   molecule.Element
		ok     bool
	}{
		{"H", molecule.H, true},
		{"C", molecule.C, true},
		{"Cl", molecule.Cl, true},
		{"Fe", molecule.Fe, true},
		{"Og", molecule.Element(118), true},
		{"CL", molecule.Unknown, false},
		{"cl", molecule.Unknown, false},
		{"XX", molecule.Unknown, false},
		{"", molecule.Unknown, false},
		{"Zz", molecule.Unknown, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.symbol, func(t *testing.T) {
			t.Parallel()
			got, ok := molecule.ElementFromSymbol(tt.symbol)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
				assert.Equal(t, tt.symbol, got.Symbol())
			}
		})
	}
}

func TestElement_Symbol(t *testing.T) {
	assert.Equal(t, 118, molecule.NElements)
	assert.Equal(t, "XX", molecule.Unknown.Symbol())
	assert.Equal(t, "XX", molecule.Element(500).Symbol())
	assert.Equal(t, "N", molecule.N.String())
	assert.True(t, molecule.O.IsValid())
	assert.False(t, molecule.Unknown.IsValid())
}

func TestParseElement(t *testing.T) {
	e, ok := molecule.ParseElement(" cl ")
	assert.True(t, ok)
	assert.Equal(t, molecule.Cl, e)

	e, ok = molecule.ParseElement("BR")
	assert.True(t, ok)
	assert.Equal(t, molecule.Br, e)

	_, ok = molecule.ParseElement("")
	assert.False(t, ok)
}

func TestMustElement_Panics(t *testing.T) {
	assert.Equal(t, molecule.Si, molecule.MustElement("Si"))
	assert.Panics(t, func() { molecule.MustElement("Qq") })
}
