// Package forcefield assigns forcefield atom types to atoms by scoring each
// type's NETA definition and keeping the most specific match.
package forcefield

import (
	"fmt"
	"sync"

	"github.com/disorderedmaterials/neta/internal/domain/molecule"
	"github.com/disorderedmaterials/neta/internal/domain/neta"
	"github.com/disorderedmaterials/neta/pkg/errors"
)

// AtomType is a named forcefield type with the definition that recognises it.
type AtomType struct {
	ID          int
	Name        string
	Element     molecule.Element
	Description string
	NETA        *neta.Definition
}

// TypeName implements molecule.TypeHandle.
func (t *AtomType) TypeName() string { return t.Name }

func (t *AtomType) String() string {
	return fmt.Sprintf("%s (%d, %s)", t.Name, t.ID, t.Element.Symbol())
}

// Forcefield is an ordered collection of atom types.  Declaration order breaks
// score ties.
type Forcefield struct {
	Name string

	mu    sync.RWMutex
	types []*AtomType
	opts  []neta.Option
}

// New returns an empty forcefield.  opts are applied to every compiled
// definition.
func New(name string, opts ...neta.Option) *Forcefield {
	return &Forcefield{Name: name, opts: opts}
}

// AddType declares a type.  The definition is compiled with the forcefield as
// its type lookup, so it may reference previously declared types by name
// ("&CT") or id ("&12").
func (f *Forcefield) AddType(id int, name string, el molecule.Element, definition, description string) (*AtomType, error) {
	if name == "" {
		return nil, errors.InvalidParam("atom type name must not be empty")
	}
	if !el.IsValid() {
		return nil, errors.Newf(errors.CodeElementUnknown, "atom type %s has no valid element", name)
	}
	// The definition resolves references through f, so it is compiled before
	// the write lock is taken.
	d := neta.NewDefinition(f.opts...)
	if err := d.Create(definition, f); err != nil {
		return nil, errors.Wrap(err, errors.CodeAtomTypeInvalidNETA, fmt.Sprintf("atom type %s has an invalid definition", name))
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.types {
		if existing.Name == name {
			return nil, errors.Newf(errors.CodeAtomTypeDuplicate, "atom type %s already exists", name).
				WithDetail(fmt.Sprintf("forcefield=%s", f.Name))
		}
		if existing.ID == id {
			return nil, errors.Newf(errors.CodeAtomTypeDuplicate, "atom type id %d already exists", id).
				WithDetail(fmt.Sprintf("forcefield=%s", f.Name))
		}
	}

	t := &AtomType{ID: id, Name: name, Element: el, Description: description, NETA: d}
	f.types = append(f.types, t)
	return t, nil
}

// Types returns the types in declaration order.
func (f *Forcefield) Types() []*AtomType {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]*AtomType, len(f.types))
	copy(out, f.types)
	return out
}

// NTypes returns the number of declared types.
func (f *Forcefield) NTypes() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.types)
}

// ResolveName implements neta.TypeLookup.
func (f *Forcefield) ResolveName(name string) (molecule.TypeHandle, bool) {
	t, ok := f.find(func(t *AtomType) bool { return t.Name == name })
	if !ok {
		return nil, false
	}
	return t, true
}

// ResolveID implements neta.TypeLookup.
func (f *Forcefield) ResolveID(id int) (molecule.TypeHandle, bool) {
	t, ok := f.find(func(t *AtomType) bool { return t.ID == id })
	if !ok {
		return nil, false
	}
	return t, true
}

// TypeByName returns the type called name.
func (f *Forcefield) TypeByName(name string) (*AtomType, error) {
	if t, ok := f.find(func(t *AtomType) bool { return t.Name == name }); ok {
		return t, nil
	}
	return nil, errors.Newf(errors.CodeAtomTypeNotFound, "atom type %s not found", name).
		WithDetail(fmt.Sprintf("forcefield=%s", f.Name))
}

// TypeByID returns the type with the given id.
func (f *Forcefield) TypeByID(id int) (*AtomType, error) {
	if t, ok := f.find(func(t *AtomType) bool { return t.ID == id }); ok {
		return t, nil
	}
	return nil, errors.Newf(errors.CodeAtomTypeNotFound, "atom type id %d not found", id).
		WithDetail(fmt.Sprintf("forcefield=%s", f.Name))
}

func (f *Forcefield) find(pred func(*AtomType) bool) (*AtomType, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.types {
		if pred(t) {
			return t, true
		}
	}
	return nil, false
}

// Recompile rebuilds every definition against the complete type list.  It is
// needed after the lookup context changes, for example when types were
// renamed.  The first failure is returned; later types are still recompiled.
func (f *Forcefield) Recompile() error {
	var first error
	for _, t := range f.Types() {
		if err := t.NETA.Create(t.NETA.DefinitionString(), f); err != nil && first == nil {
			first = errors.Wrap(err, errors.CodeAtomTypeInvalidNETA, fmt.Sprintf("atom type %s has an invalid definition", t.Name))
		}
	}
	return first
}

// DetermineType scores every type of a's element and returns the one with
// the strictly highest score.  Ties go to the type declared first.  It
// returns nil and neta.NoMatch when no type matches.
func (f *Forcefield) DetermineType(a *molecule.Atom) (*AtomType, int) {
	var best *AtomType
	bestScore := neta.NoMatch
	for _, t := range f.Types() {
		if t.Element != a.Element {
			continue
		}
		if s := t.NETA.Score(a); s > bestScore {
			best, bestScore = t, s
		}
	}
	return best, bestScore
}

// Assignment is the outcome of typing one atom.
type Assignment struct {
	Atom  *molecule.Atom
	Type  *AtomType
	Score int
}

// AssignTypes determines a type for every atom of s and then applies them
// all, so that the result does not depend on atom order.  Atoms for which no
// type matches are returned separately and have their type cleared.
func (f *Forcefield) AssignTypes(s *molecule.Species) (assigned []Assignment, unassigned []*molecule.Atom) {
	results := make([]Assignment, 0, s.NAtoms())
	for _, a := range s.Atoms() {
		t, score := f.DetermineType(a)
		results = append(results, Assignment{Atom: a, Type: t, Score: score})
	}
	for _, r := range results {
		if r.Type == nil {
			r.Atom.Type = nil
			unassigned = append(unassigned, r.Atom)
			continue
		}
		r.Atom.Type = r.Type
		assigned = append(assigned, r)
	}
	return assigned, unassigned
}
