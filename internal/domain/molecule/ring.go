package molecule

import (
	"strconv"
	"strings"
)

const (
	// MinRingSize is the smallest cycle considered a ring.
	MinRingSize = 3

	// MaxRingSizeCap bounds every ring search.  Requests for larger rings are
	// clamped so that the search always terminates on densely bonded input.
	MaxRingSizeCap = 12

	// maxRingSearchSteps bounds the number of partial paths a single search
	// may extend.
	maxRingSearchSteps = 1 << 18
)

// Ring is a simple cycle in the bonded-atom graph.  Members are ordered
// around the ring starting from the atom the search was rooted at.
type Ring struct {
	Members []*Atom
}

// Size returns the number of atoms in the ring.
func (r Ring) Size() int { return len(r.Members) }

// Contains reports whether a is a ring member.
func (r Ring) Contains(a *Atom) bool {
	for _, m := range r.Members {
		if m == a {
			return true
		}
	}
	return false
}

// Key returns the canonical cyclic order of the ring: the lexicographically
// smallest index sequence over every rotation in both directions.  Distinct
// cycles through the same atoms have distinct keys.
func (r Ring) Key() string {
	var best []int
	for _, seq := range r.Rotations() {
		idx := make([]int, len(seq))
		for i, m := range seq {
			idx[i] = m.Index
		}
		if best == nil || lessInts(idx, best) {
			best = idx
		}
	}
	parts := make([]string, len(best))
	for i, v := range best {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "-")
}

func lessInts(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Rotations returns every cyclic rotation of the member list in both
// traversal directions (2·Size sequences).  Composition checks that must be
// rotation- and reflection-invariant iterate over these.
func (r Ring) Rotations() [][]*Atom {
	n := len(r.Members)
	out := make([][]*Atom, 0, 2*n)
	for start := 0; start < n; start++ {
		fwd := make([]*Atom, n)
		rev := make([]*Atom, n)
		for k := 0; k < n; k++ {
			fwd[k] = r.Members[(start+k)%n]
			rev[k] = r.Members[((start-k)%n+n)%n]
		}
		out = append(out, fwd, rev)
	}
	return out
}

// String renders the ring as "C(0)-C(1)-...".
func (r Ring) String() string {
	parts := make([]string, len(r.Members))
	for i, m := range r.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, "-")
}

// FindRings enumerates the distinct simple cycles of length minSize..maxSize
// that pass through a.  maxSize is clamped to MaxRingSizeCap and minSize to
// MinRingSize.  Each ring is reported once regardless of traversal direction.
func FindRings(a *Atom, minSize, maxSize int) []Ring {
	if minSize < MinRingSize {
		minSize = MinRingSize
	}
	if maxSize > MaxRingSizeCap {
		maxSize = MaxRingSizeCap
	}
	if a == nil || maxSize < minSize || a.NBonds() < 2 {
		return nil
	}

	s := &ringSearch{
		origin:  a,
		minSize: minSize,
		maxSize: maxSize,
		onPath:  map[*Atom]bool{a: true},
		path:    []*Atom{a},
		seen:    make(map[string]bool),
	}
	s.extend(a)
	return s.rings
}

// InRing reports whether a belongs to at least one ring no larger than
// maxSize.
func InRing(a *Atom, maxSize int) bool {
	return len(FindRings(a, MinRingSize, maxSize)) > 0
}

type ringSearch struct {
	origin           *Atom
	minSize, maxSize int
	onPath           map[*Atom]bool
	path             []*Atom
	seen             map[string]bool
	steps            int
	rings            []Ring
}

func (s *ringSearch) extend(current *Atom) {
	for _, b := range current.Bonds {
		if s.steps >= maxRingSearchSteps {
			return
		}
		s.steps++

		next := b.Partner(current)
		if next == s.origin {
			if len(s.path) >= s.minSize && len(s.path) >= MinRingSize {
				s.record()
			}
			continue
		}
		if s.onPath[next] || len(s.path) >= s.maxSize {
			continue
		}

		s.onPath[next] = true
		s.path = append(s.path, next)
		s.extend(next)
		s.path = s.path[:len(s.path)-1]
		delete(s.onPath, next)
	}
}

func (s *ringSearch) record() {
	// Both traversal directions reach the same cycle; keep the first seen.
	members := make([]*Atom, len(s.path))
	copy(members, s.path)
	r := Ring{Members: members}
	key := r.Key()
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.rings = append(s.rings, r)
}
