// Package neta implements the NETA pattern language: a compact notation for
// describing the local bonding environment of an atom (element and type
// identity, connectivity, ring membership and coarse geometry).
//
// A Definition compiles definition text once and then answers match and score
// queries for any number of atoms.  Generate performs the inverse operation,
// producing definition text that matches a given atom.
package neta

import (
	"sort"
	"sync"

	"github.com/disorderedmaterials/neta/internal/domain/molecule"
)

// Option configures a Definition.
type Option func(*Definition)

// WithRollback selects the branch rollback strategy.
func WithRollback(r RollbackStrategy) Option {
	return func(d *Definition) { d.eval.rollback = r }
}

// WithMaxRingSize bounds the ring search.  Values above
// molecule.MaxRingSizeCap are clamped by the search itself.
func WithMaxRingSize(n int) Option {
	return func(d *Definition) {
		if n >= molecule.MinRingSize {
			d.eval.maxRingSize = n
		}
	}
}

// Definition is a compiled NETA definition.  Query methods are safe for
// concurrent use; Create takes an exclusive lock and must not be called while
// a caller relies on a previous compilation.
type Definition struct {
	mu          sync.RWMutex
	text        string
	root        *Node
	valid       bool
	identifiers []string
	eval        evaluator
}

// NewDefinition returns an empty, invalid definition.
func NewDefinition(opts ...Option) *Definition {
	d := &Definition{eval: evaluator{rollback: RollbackNone, maxRingSize: molecule.MaxRingSizeCap}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Compile is NewDefinition followed by Create.
func Compile(text string, lookup TypeLookup, opts ...Option) (*Definition, error) {
	d := NewDefinition(opts...)
	if err := d.Create(text, lookup); err != nil {
		return d, err
	}
	return d, nil
}

// MustCompile is Compile for definitions known to be valid.
func MustCompile(text string, lookup TypeLookup, opts ...Option) *Definition {
	d, err := Compile(text, lookup, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Create compiles text, replacing any previous tree.  On failure the
// definition becomes invalid and the returned *errors.AppError carries the
// *CompileError as its cause.  lookup may be nil when text holds no type
// references.
func (d *Definition) Create(text string, lookup TypeLookup) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.text = text
	d.root, d.valid, d.identifiers = nil, false, nil

	root, cerr := compile(text, lookup)
	if cerr != nil {
		return cerr.appError(text)
	}

	seen := make(map[string]bool)
	root.walk(func(n *Node) {
		for _, id := range n.Identifiers {
			if !seen[id] {
				seen[id] = true
				d.identifiers = append(d.identifiers, id)
			}
		}
	})
	sort.Strings(d.identifiers)
	d.root, d.valid = root, true
	return nil
}

// IsValid reports whether the last Create succeeded.
func (d *Definition) IsValid() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.valid
}

// DefinitionString returns the text most recently passed to Create.
func (d *Definition) DefinitionString() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}

// Rollback returns the configured rollback strategy.
func (d *Definition) Rollback() RollbackStrategy { return d.eval.rollback }

// Root returns the compiled tree, or nil when invalid.  The tree must not be
// modified.
func (d *Definition) Root() *Node {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.root
}

// String returns the canonical text of the compiled tree, or "" when invalid.
func (d *Definition) String() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.valid {
		return ""
	}
	return d.root.String()
}

// Identifiers returns the sorted tag names used anywhere in the tree.
func (d *Definition) Identifiers() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.identifiers) == 0 {
		return nil
	}
	out := make([]string, len(d.identifiers))
	copy(out, d.identifiers)
	return out
}

// HasIdentifier reports whether name is used anywhere in the tree.
func (d *Definition) HasIdentifier(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	i := sort.SearchStrings(d.identifiers, name)
	return i < len(d.identifiers) && d.identifiers[i] == name
}

// HasAxes reports whether both "x" and "y" tags are used.
func (d *Definition) HasAxes() bool {
	return d.HasIdentifier("x") && d.HasIdentifier("y")
}

// Score returns NoMatch or the non-negative specificity score of a.
func (d *Definition) Score(a *molecule.Atom) int {
	s, _ := d.evaluate(a)
	return s
}

// Matches reports whether a satisfies the definition.
func (d *Definition) Matches(a *molecule.Atom) bool {
	return d.Score(a) != NoMatch
}

// MatchedPath returns the atoms and tags collected while matching a, or an
// empty group when a does not match.
func (d *Definition) MatchedPath(a *molecule.Atom) *MatchedGroup {
	s, g := d.evaluate(a)
	if s == NoMatch {
		return NewMatchedGroup(nil)
	}
	return g
}

func (d *Definition) evaluate(a *molecule.Atom) (int, *MatchedGroup) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.valid || a == nil {
		return NoMatch, nil
	}
	path := NewMatchedGroup(a)
	return d.eval.score(d.root, a, path), path
}
