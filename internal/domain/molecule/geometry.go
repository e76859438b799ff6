package molecule

import "math"

// Geometry is a coarse classification of an atom's local bonding arrangement.
type Geometry int

const (
	GeometryUnknown Geometry = iota
	GeometryUnbound
	GeometryTerminal
	GeometryLinear
	GeometryTrigonalPlanar
	GeometryTetrahedral
	GeometrySquarePlanar
	GeometryTrigonalBipyramidal
	GeometryTShape
	GeometryOctahedral
)

// GeometryTolerance is the angular tolerance, in degrees, applied when
// comparing bond angles against ideal values.
const GeometryTolerance = 15.0

const tetrahedralAngle = 109.47

var geometryNames = map[Geometry]string{
	GeometryUnknown:             "unknown",
	GeometryUnbound:             "unbound",
	GeometryTerminal:            "terminal",
	GeometryLinear:              "linear",
	GeometryTrigonalPlanar:      "trigonalplanar",
	GeometryTetrahedral:         "tetrahedral",
	GeometrySquarePlanar:        "squareplanar",
	GeometryTrigonalBipyramidal: "trigonalbipyramidal",
	GeometryTShape:              "tshape",
	GeometryOctahedral:          "octahedral",
}

// String returns the keyword used for the geometry in NETA definitions.
func (g Geometry) String() string {
	if s, ok := geometryNames[g]; ok {
		return s
	}
	return "unknown"
}

// GeometryFromString parses a geometry keyword.
func GeometryFromString(s string) (Geometry, bool) {
	for g, name := range geometryNames {
		if name == s {
			return g, true
		}
	}
	return GeometryUnknown, false
}

// GeometryNames lists every geometry keyword in enumeration order.
func GeometryNames() []string {
	out := make([]string, 0, len(geometryNames))
	for g := GeometryUnknown; g <= GeometryOctahedral; g++ {
		out = append(out, geometryNames[g])
	}
	return out
}

// ClassifyGeometry classifies a from its neighbour count and the angles
// between its bond vectors.
func ClassifyGeometry(a *Atom) Geometry {
	n := a.NBonds()
	switch n {
	case 0:
		return GeometryUnbound
	case 1:
		return GeometryTerminal
	}

	angles := bondAngles(a)
	near := func(target float64) int {
		c := 0
		for _, theta := range angles {
			if math.Abs(theta-target) <= GeometryTolerance {
				c++
			}
		}
		return c
	}

	switch n {
	case 2:
		if near(180) == 1 {
			return GeometryLinear
		}
	case 3:
		// Angle sum of a planar arrangement is 360.
		sum := 0.0
		for _, theta := range angles {
			sum += theta
		}
		switch {
		case near(90) == 2 && near(180) == 1:
			return GeometryTShape
		case math.Abs(sum-360) <= GeometryTolerance:
			return GeometryTrigonalPlanar
		case near(tetrahedralAngle) == 3:
			return GeometryTetrahedral
		}
	case 4:
		switch {
		case near(tetrahedralAngle) == 6:
			return GeometryTetrahedral
		case near(90) == 4 && near(180) == 2:
			return GeometrySquarePlanar
		}
	case 5:
		if near(180) == 1 && near(90) == 6 && near(120) == 3 {
			return GeometryTrigonalBipyramidal
		}
	case 6:
		if near(180) == 3 && near(90) == 12 {
			return GeometryOctahedral
		}
	}
	return GeometryUnknown
}

// bondAngles returns the angle at a for every unordered pair of neighbours.
func bondAngles(a *Atom) []float64 {
	vecs := make([]Vec3, 0, a.NBonds())
	for _, b := range a.Bonds {
		vecs = append(vecs, b.Partner(a).R.Sub(a.R))
	}
	out := make([]float64, 0, len(vecs)*(len(vecs)-1)/2)
	for i := 0; i < len(vecs); i++ {
		for j := i + 1; j < len(vecs); j++ {
			out = append(out, vecs[i].AngleDegrees(vecs[j]))
		}
	}
	return out
}
