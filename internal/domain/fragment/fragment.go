// Package fragment discovers site and bead instances in a species: connected
// groups of atoms selected by a NETA definition, with optional origin and
// axis atoms named by the "origin", "x" and "y" identifier tags.
package fragment

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/disorderedmaterials/neta/internal/domain/molecule"
	"github.com/disorderedmaterials/neta/internal/domain/neta"
	"github.com/disorderedmaterials/neta/pkg/errors"
)

// Identifier tags with geometric meaning.
const (
	TagOrigin = "origin"
	TagX      = "x"
	TagY      = "y"
)

// instanceNamespace seeds deterministic instance IDs.
var instanceNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("neta.fragment"))

// Instance is one occurrence of a fragment.
type Instance struct {
	ID      uuid.UUID
	Root    *molecule.Atom
	Atoms   []*molecule.Atom
	Indices []int
	Origin  []*molecule.Atom
	XAxis   []*molecule.Atom
	YAxis   []*molecule.Atom
}

// Key returns the canonical identity of the instance's atom set.
func (in Instance) Key() string { return indexKey(in.Indices) }

// OriginPosition returns the centre of the origin atoms, or the root's
// position when no origin was tagged.
func (in Instance) OriginPosition() molecule.Vec3 {
	if len(in.Origin) == 0 {
		return in.Root.R
	}
	return centre(in.Origin)
}

// Axes returns an orthonormal frame built from the x and y atoms relative to
// the origin.  ok is false when either group is empty or the vectors are
// degenerate.
func (in Instance) Axes() (x, y, z molecule.Vec3, ok bool) {
	if len(in.XAxis) == 0 || len(in.YAxis) == 0 {
		return x, y, z, false
	}
	o := in.OriginPosition()
	x = centre(in.XAxis).Sub(o)
	if x.Norm() == 0 {
		return x, y, z, false
	}
	x = x.Normalized()
	v := centre(in.YAxis).Sub(o)
	y = v.Sub(x.Scale(x.Dot(v)))
	if y.Norm() < 1e-8 {
		return x, y, z, false
	}
	y = y.Normalized()
	return x, y, x.Cross(y), true
}

// Finder enumerates fragment instances.
type Finder struct {
	Definition *neta.Definition

	// RequireOrigin discards matches that tag no origin atom.
	RequireOrigin bool
}

// NewFinder validates def and returns a finder for it.
func NewFinder(def *neta.Definition, requireOrigin bool) (*Finder, error) {
	if def == nil {
		return nil, errors.New(errors.CodeFragmentNoDefinition, "fragment has no definition")
	}
	if !def.IsValid() {
		return nil, errors.New(errors.CodeFragmentInvalidNETA, "fragment definition did not compile").
			WithDetail(fmt.Sprintf("definition=%q", def.DefinitionString()))
	}
	return &Finder{Definition: def, RequireOrigin: requireOrigin}, nil
}

// Find evaluates every atom of s as a root in index order.
func (f *Finder) Find(s *molecule.Species) []Instance {
	order := make([]int, s.NAtoms())
	for i := range order {
		order[i] = i
	}
	out, _ := f.FindInOrder(s, order)
	return out
}

// FindInOrder evaluates the atoms of s as roots in the given order.  Each
// match is canonicalised as its sorted index set; a set equal to one already
// accepted is rejected.  The result is sorted by index set and does not
// depend on order.
func (f *Finder) FindInOrder(s *molecule.Species, order []int) ([]Instance, error) {
	seen := make(map[string]bool)
	var out []Instance
	for _, i := range order {
		a, err := s.Atom(i)
		if err != nil {
			return nil, err
		}
		g := f.Definition.MatchedPath(a)
		if g.Empty() {
			continue
		}
		in := Instance{
			Root:    a,
			Atoms:   g.Atoms(),
			Indices: g.Indices(),
			Origin:  g.Identifier(TagOrigin),
			XAxis:   g.Identifier(TagX),
			YAxis:   g.Identifier(TagY),
		}
		if f.RequireOrigin && len(in.Origin) == 0 {
			continue
		}
		key := in.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		in.ID = uuid.NewSHA1(instanceNamespace, []byte(s.Name+"/"+key))
		out = append(out, in)
	}

	sort.Slice(out, func(i, j int) bool { return lessIndices(out[i].Indices, out[j].Indices) })
	return out, nil
}

func indexKey(idx []int) string {
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func lessIndices(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func centre(atoms []*molecule.Atom) molecule.Vec3 {
	var sum molecule.Vec3
	for _, a := range atoms {
		sum = sum.Add(a.R)
	}
	return sum.Scale(1 / float64(len(atoms)))
}
