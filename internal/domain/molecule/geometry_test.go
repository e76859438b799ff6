package molecule_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/disorderedmaterials/neta/internal/domain/molecule"
	"github.com/disorderedmaterials/neta/internal/testutil"
)

func v(x, y, z float64) molecule.Vec3 { return molecule.Vec3{X: x, Y: y, Z: z} }

func TestClassifyGeometry(t *testing.T) {
	s3 := math.Sqrt(3) / 2

	tests := []struct {
		name    string
		species *molecule.Species
		want    molecule.Geometry
	}{
		{"unbound", testutil.Centred(molecule.Na, molecule.H), molecule.GeometryUnbound},
		{"terminal", testutil.Centred(molecule.O, molecule.H, v(1, 0, 0)), molecule.GeometryTerminal},
		{"linear", testutil.Centred(molecule.C, molecule.O, v(1, 0, 0), v(-1, 0, 0)), molecule.GeometryLinear},
		{"bent", testutil.Water(), molecule.GeometryUnknown},
		{"trigonal planar", testutil.Centred(molecule.B, molecule.F, v(1, 0, 0), v(-0.5, s3, 0), v(-0.5, -s3, 0)), molecule.GeometryTrigonalPlanar},
		{"pyramidal", testutil.Centred(molecule.N, molecule.H, v(1, 1, 1), v(1, -1, -1), v(-1, 1, -1)), molecule.GeometryTetrahedral},
		{"t-shape", testutil.Centred(molecule.Cl, molecule.F, v(1, 0, 0), v(-1, 0, 0), v(0, 1, 0)), molecule.GeometryTShape},
		{"tetrahedral", testutil.Methane(), molecule.GeometryTetrahedral},
		{"square planar", testutil.Centred(molecule.Fe, molecule.Cl, v(1, 0, 0), v(-1, 0, 0), v(0, 1, 0), v(0, -1, 0)), molecule.GeometrySquarePlanar},
		{"trigonal bipyramidal", testutil.Centred(molecule.P, molecule.F, v(0, 0, 1), v(0, 0, -1), v(1, 0, 0), v(-0.5, s3, 0), v(-0.5, -s3, 0)), molecule.GeometryTrigonalBipyramidal},
		{"octahedral", testutil.Centred(molecule.S, molecule.F, v(1, 0, 0), v(-1, 0, 0), v(0, 1, 0), v(0, -1, 0), v(0, 0, 1), v(0, 0, -1)), molecule.GeometryOctahedral},
		{"distorted square", testutil.Centred(molecule.Fe, molecule.Cl, v(1, 0, 0), v(-1, 0, 0), v(0, 1, 0), v(0.7, 0.7, 0)), molecule.GeometryUnknown},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, molecule.ClassifyGeometry(tt.species.Atoms()[0]))
		})
	}
}

func TestGeometryFromString(t *testing.T) {
	for _, name := range molecule.GeometryNames() {
		g, ok := molecule.GeometryFromString(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, g.String())
	}
	_, ok := molecule.GeometryFromString("bent")
	assert.False(t, ok)
	assert.Equal(t, "unknown", molecule.Geometry(99).String())
	assert.Len(t, molecule.GeometryNames(), 10)
}
