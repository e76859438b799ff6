package neta

import (
	"github.com/disorderedmaterials/neta/internal/domain/molecule"
)

type fakeType struct {
	id   int
	name string
}

func (f *fakeType) TypeName() string { return f.name }

// fakeLookup resolves names and one-based ids against a fixed list.
type fakeLookup []*fakeType

func newFakeLookup(names ...string) fakeLookup {
	out := make(fakeLookup, len(names))
	for i, n := range names {
		out[i] = &fakeType{id: i + 1, name: n}
	}
	return out
}

func (l fakeLookup) ResolveName(name string) (molecule.TypeHandle, bool) {
	for _, t := range l {
		if t.name == name {
			return t, true
		}
	}
	return nil, false
}

func (l fakeLookup) ResolveID(id int) (molecule.TypeHandle, bool) {
	for _, t := range l {
		if t.id == id {
			return t, true
		}
	}
	return nil, false
}

// matching returns the indices of the atoms in s matched by d.
func matching(d *Definition, s *molecule.Species) []int {
	out := []int{}
	for _, a := range s.Atoms() {
		if d.Matches(a) {
			out = append(out, a.Index)
		}
	}
	return out
}

// matchingOfElement restricts matching to atoms of element el.
func matchingOfElement(d *Definition, s *molecule.Species, el molecule.Element) []int {
	out := []int{}
	for _, a := range s.Atoms() {
		if a.Element == el && d.Matches(a) {
			out = append(out, a.Index)
		}
	}
	return out
}
