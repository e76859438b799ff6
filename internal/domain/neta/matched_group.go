package neta

import (
	"sort"

	"github.com/disorderedmaterials/neta/internal/domain/molecule"
)

// MatchedGroup records the atoms that took part in a match, starting from a
// root probe atom, together with the atoms collected under each identifier
// tag.  A group is created fresh for every top-level query.
type MatchedGroup struct {
	root        *molecule.Atom
	atoms       map[*molecule.Atom]struct{}
	identifiers map[string]map[*molecule.Atom]struct{}
}

// NewMatchedGroup returns a group containing only root.  A nil root yields an
// empty group.
func NewMatchedGroup(root *molecule.Atom) *MatchedGroup {
	g := &MatchedGroup{
		root:        root,
		atoms:       make(map[*molecule.Atom]struct{}),
		identifiers: make(map[string]map[*molecule.Atom]struct{}),
	}
	if root != nil {
		g.atoms[root] = struct{}{}
	}
	return g
}

// Root returns the probe atom, or nil for an empty group.
func (g *MatchedGroup) Root() *molecule.Atom { return g.root }

// Add inserts a and reports whether it was not already present.
func (g *MatchedGroup) Add(a *molecule.Atom) bool {
	if _, ok := g.atoms[a]; ok {
		return false
	}
	g.atoms[a] = struct{}{}
	return true
}

// Remove deletes a.  The root is never removed.
func (g *MatchedGroup) Remove(a *molecule.Atom) {
	if a == g.root {
		return
	}
	delete(g.atoms, a)
}

// Contains reports whether a is in the group.
func (g *MatchedGroup) Contains(a *molecule.Atom) bool {
	_, ok := g.atoms[a]
	return ok
}

// Tag records a under the identifier name.
func (g *MatchedGroup) Tag(name string, a *molecule.Atom) {
	set, ok := g.identifiers[name]
	if !ok {
		set = make(map[*molecule.Atom]struct{})
		g.identifiers[name] = set
	}
	set[a] = struct{}{}
}

// Len returns the number of atoms in the group.
func (g *MatchedGroup) Len() int { return len(g.atoms) }

// Empty reports whether the group holds no atoms.
func (g *MatchedGroup) Empty() bool { return len(g.atoms) == 0 }

// Atoms returns the member atoms ordered by index.
func (g *MatchedGroup) Atoms() []*molecule.Atom {
	return sortedAtoms(g.atoms)
}

// Indices returns the sorted member indices.  Two groups covering the same
// atoms have equal Indices regardless of how they were accumulated.
func (g *MatchedGroup) Indices() []int {
	out := make([]int, 0, len(g.atoms))
	for a := range g.atoms {
		out = append(out, a.Index)
	}
	sort.Ints(out)
	return out
}

// Identifiers returns the sorted names of every tag holding at least one atom.
func (g *MatchedGroup) Identifiers() []string {
	out := make([]string, 0, len(g.identifiers))
	for name, set := range g.identifiers {
		if len(set) > 0 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Identifier returns the atoms tagged with name ordered by index.
func (g *MatchedGroup) Identifier(name string) []*molecule.Atom {
	return sortedAtoms(g.identifiers[name])
}

// Merge unions other's atoms and tags into g.
func (g *MatchedGroup) Merge(other *MatchedGroup) {
	if other == nil {
		return
	}
	for a := range other.atoms {
		g.atoms[a] = struct{}{}
	}
	for name, set := range other.identifiers {
		for a := range set {
			g.Tag(name, a)
		}
	}
}

// Clone returns an independent copy of g.
func (g *MatchedGroup) Clone() *MatchedGroup {
	c := &MatchedGroup{
		root:        g.root,
		atoms:       make(map[*molecule.Atom]struct{}, len(g.atoms)),
		identifiers: make(map[string]map[*molecule.Atom]struct{}, len(g.identifiers)),
	}
	for a := range g.atoms {
		c.atoms[a] = struct{}{}
	}
	for name, set := range g.identifiers {
		cs := make(map[*molecule.Atom]struct{}, len(set))
		for a := range set {
			cs[a] = struct{}{}
		}
		c.identifiers[name] = cs
	}
	return c
}

// Restore replaces g's contents with those of snapshot, which must be a
// Clone taken from g earlier.
func (g *MatchedGroup) Restore(snapshot *MatchedGroup) {
	s := snapshot.Clone()
	g.root = s.root
	g.atoms = s.atoms
	g.identifiers = s.identifiers
}

func sortedAtoms(set map[*molecule.Atom]struct{}) []*molecule.Atom {
	out := make([]*molecule.Atom, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
