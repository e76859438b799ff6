// Package molecule provides the bonded-atom model the NETA engine evaluates
// against: elements, atoms with optional externally-assigned types and
// positions, bonds with partner access, and the species that owns them.  It
// also provides the pure graph and geometry queries (ring search, local
// geometry classification) that the engine consults.
package molecule

import (
	"fmt"
	"math"
	"sort"

	"github.com/disorderedmaterials/neta/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Vec3
// ─────────────────────────────────────────────────────────────────────────────

// Vec3 is a Cartesian position or displacement in Å.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v-o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v*f.
func (v Vec3) Scale(f float64) Vec3 { return Vec3{v.X * f, v.Y * f, v.Z * f} }

// Dot returns the scalar product.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the vector product.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Norm returns the Euclidean length.
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Normalized returns v scaled to unit length.  The zero vector is returned
// unchanged.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// AngleDegrees returns the angle between v and o in degrees, or 0 if either
// vector has zero length.
func (v Vec3) AngleDegrees(o Vec3) float64 {
	nv, no := v.Norm(), o.Norm()
	if nv == 0 || no == 0 {
		return 0
	}
	c := v.Dot(o) / (nv * no)
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * 180 / math.Pi
}

// ─────────────────────────────────────────────────────────────────────────────
// TypeHandle
// ─────────────────────────────────────────────────────────────────────────────

// TypeHandle is an externally-assigned atom type (typically a forcefield atom
// type).  The engine only compares handles with ==, so implementations must be
// comparable; pointer receivers are the usual choice.
type TypeHandle interface {
	TypeName() string
}

// ─────────────────────────────────────────────────────────────────────────────
// Atom and Bond
// ─────────────────────────────────────────────────────────────────────────────

// Atom is a vertex in the bonded-atom graph.
type Atom struct {
	// Index is the zero-based position of the atom in its species.
	Index int

	Element Element

	// Type is optional; nil means no type has been assigned.
	Type TypeHandle

	// R is only consulted for geometry classification.
	R Vec3

	Bonds []*Bond
}

// Bond joins two atoms.
type Bond struct {
	Index int
	I, J  *Atom
}

// Partner returns the atom bonded to a through b.  It panics if a is not one
// of the bond's atoms, which is a programming error.
func (b *Bond) Partner(a *Atom) *Atom {
	switch a {
	case b.I:
		return b.J
	case b.J:
		return b.I
	}
	panic(fmt.Sprintf("molecule: atom %d is not part of bond %d-%d", a.Index, b.I.Index, b.J.Index))
}

// NBonds returns the number of bonds the atom participates in.
func (a *Atom) NBonds() int { return len(a.Bonds) }

// Neighbours returns the bonded partners in bond order.
func (a *Atom) Neighbours() []*Atom {
	out := make([]*Atom, 0, len(a.Bonds))
	for _, b := range a.Bonds {
		out = append(out, b.Partner(a))
	}
	return out
}

// HydrogenNeighbours counts bonded hydrogens.
func (a *Atom) HydrogenNeighbours() int {
	n := 0
	for _, b := range a.Bonds {
		if b.Partner(a).Element == H {
			n++
		}
	}
	return n
}

// IsBondedTo reports whether a and o share a bond.
func (a *Atom) IsBondedTo(o *Atom) bool {
	for _, b := range a.Bonds {
		if b.Partner(a) == o {
			return true
		}
	}
	return false
}

// String renders the atom as "C(3)".
func (a *Atom) String() string {
	return fmt.Sprintf("%s(%d)", a.Element.Symbol(), a.Index)
}

// ─────────────────────────────────────────────────────────────────────────────
// Species
// ─────────────────────────────────────────────────────────────────────────────

// Species owns a set of atoms and the bonds between them.
type Species struct {
	Name  string
	atoms []*Atom
	bonds []*Bond
}

// NewSpecies returns an empty species.
func NewSpecies(name string) *Species {
	return &Species{Name: name}
}

// AddAtom appends an atom and returns it.
func (s *Species) AddAtom(el Element, r Vec3) *Atom {
	a := &Atom{Index: len(s.atoms), Element: el, R: r}
	s.atoms = append(s.atoms, a)
	return a
}

// AddBond bonds the atoms at indices i and j.
func (s *Species) AddBond(i, j int) (*Bond, error) {
	if i < 0 || i >= len(s.atoms) || j < 0 || j >= len(s.atoms) {
		return nil, errors.Newf(errors.CodeAtomNotFound, "bond %d-%d references a missing atom", i, j).
			WithDetail(fmt.Sprintf("species=%s natoms=%d", s.Name, len(s.atoms)))
	}
	if i == j {
		return nil, errors.Newf(errors.CodeBondInvalid, "atom %d cannot be bonded to itself", i)
	}
	ai, aj := s.atoms[i], s.atoms[j]
	if ai.IsBondedTo(aj) {
		return nil, errors.Newf(errors.CodeBondAlreadyExists, "atoms %d and %d are already bonded", i, j)
	}
	b := &Bond{Index: len(s.bonds), I: ai, J: aj}
	s.bonds = append(s.bonds, b)
	ai.Bonds = append(ai.Bonds, b)
	aj.Bonds = append(aj.Bonds, b)
	return b, nil
}

// MustAddBond is AddBond for hand-built species, panicking on error.
func (s *Species) MustAddBond(i, j int) *Bond {
	b, err := s.AddBond(i, j)
	if err != nil {
		panic(err)
	}
	return b
}

// Atoms returns the atoms in index order.  The slice must not be modified.
func (s *Species) Atoms() []*Atom { return s.atoms }

// Atom returns the atom at index i.
func (s *Species) Atom(i int) (*Atom, error) {
	if i < 0 || i >= len(s.atoms) {
		return nil, errors.Newf(errors.CodeAtomNotFound, "atom %d not found", i).
			WithDetail(fmt.Sprintf("species=%s natoms=%d", s.Name, len(s.atoms)))
	}
	return s.atoms[i], nil
}

// NAtoms returns the number of atoms.
func (s *Species) NAtoms() int { return len(s.atoms) }

// Bonds returns the bonds in creation order.
func (s *Species) Bonds() []*Bond { return s.bonds }

// NBonds returns the number of bonds.
func (s *Species) NBonds() int { return len(s.bonds) }

// ClearTypes removes every assigned atom type.
func (s *Species) ClearTypes() {
	for _, a := range s.atoms {
		a.Type = nil
	}
}

// Formula returns a Hill-ordered empirical formula, e.g. "CH4O".
func (s *Species) Formula() string {
	counts := make(map[Element]int)
	for _, a := range s.atoms {
		counts[a.Element]++
	}
	var els []Element
	for el := range counts {
		if el != C && el != H {
			els = append(els, el)
		}
	}
	sort.Slice(els, func(i, j int) bool { return els[i].Symbol() < els[j].Symbol() })
	if counts[C] > 0 {
		head := []Element{C}
		if counts[H] > 0 {
			head = append(head, H)
		}
		els = append(head, els...)
	} else if counts[H] > 0 {
		els = append(els, H)
		sort.Slice(els, func(i, j int) bool { return els[i].Symbol() < els[j].Symbol() })
	}
	out := ""
	for _, el := range els {
		out += el.Symbol()
		if counts[el] > 1 {
			out += fmt.Sprint(counts[el])
		}
	}
	return out
}
