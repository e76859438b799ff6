package neta

import (
	"fmt"

	"github.com/disorderedmaterials/neta/internal/domain/molecule"
)

// RollbackStrategy controls what happens to atoms and tags added to the
// matched group by a branch that is later abandoned.
type RollbackStrategy int

const (
	// RollbackNone keeps speculative additions from failed Or primaries and
	// failed nodes.  Only the tentative neighbour of a failed connection
	// candidate is removed.
	RollbackNone RollbackStrategy = iota

	// RollbackSnapshot restores the matched group around every Or branch,
	// every connection candidate and every failed node.
	RollbackSnapshot
)

func (r RollbackStrategy) String() string {
	if r == RollbackSnapshot {
		return "snapshot"
	}
	return "none"
}

// ParseRollbackStrategy parses "none" or "snapshot".
func ParseRollbackStrategy(s string) (RollbackStrategy, bool) {
	switch s {
	case "", "none":
		return RollbackNone, true
	case "snapshot":
		return RollbackSnapshot, true
	}
	return RollbackNone, false
}

// evaluator scores node trees against atoms.  It holds no per-call state and
// is safe for concurrent use.
type evaluator struct {
	rollback    RollbackStrategy
	maxRingSize int
}

// score evaluates n against a, accumulating into path.  The result is NoMatch
// or a non-negative score.
func (e *evaluator) score(n *Node, a *molecule.Atom, path *MatchedGroup) int {
	if n.Reverse {
		if e.evaluate(n, a, path.Clone()) == NoMatch {
			return NegatedScore
		}
		return NoMatch
	}

	var snapshot *MatchedGroup
	if e.rollback == RollbackSnapshot {
		snapshot = path.Clone()
	}
	s := e.evaluate(n, a, path)
	if s == NoMatch && snapshot != nil {
		path.Restore(snapshot)
	}
	return s
}

func (e *evaluator) evaluate(n *Node, a *molecule.Atom, path *MatchedGroup) int {
	switch n.Kind {
	case KindRoot:
		s := e.sequence(n.Children, a, path)
		if s != NoMatch {
			tagAll(path, n.Identifiers, a)
		}
		return s
	case KindPresence:
		if !n.Targets.Matches(a) {
			return NoMatch
		}
		s := e.sequence(n.Children, a, path)
		if s == NoMatch {
			return NoMatch
		}
		if !n.Targets.Empty() {
			s++
		}
		tagAll(path, n.Identifiers, a)
		return s
	case KindConnection:
		return e.connection(n, a, path)
	case KindRing:
		return e.ring(n, a, path)
	case KindRingAtom:
		if !n.Targets.Matches(a) {
			return NoMatch
		}
		s := e.sequence(n.Children, a, path)
		if s != NoMatch {
			tagAll(path, n.Identifiers, a)
		}
		return s
	case KindBondCount:
		if !n.Modifiers["nbonds"].Satisfied(a.NBonds()) {
			return NoMatch
		}
		return 0
	case KindHydrogenCount:
		nh := 0
		for _, nb := range a.Neighbours() {
			if nb.Element == molecule.H && !path.Contains(nb) {
				nh++
			}
		}
		if !n.Modifiers["nh"].Satisfied(nh) {
			return NoMatch
		}
		return 0
	case KindCharacter:
		if !n.Options["geometry"].Satisfied(molecule.ClassifyGeometry(a).String()) {
			return NoMatch
		}
		return 0
	case KindOr:
		var snapshot *MatchedGroup
		if e.rollback == RollbackSnapshot {
			snapshot = path.Clone()
		}
		if s := e.sequence(n.Primary, a, path); s != NoMatch {
			return s
		}
		if snapshot != nil {
			path.Restore(snapshot)
		}
		return e.sequence(n.Alternative, a, path)
	default:
		panic(fmt.Sprintf("neta: unhandled node kind %s", n.Kind))
	}
}

// sequence evaluates nodes left to right against a, stopping at the first
// failure.
func (e *evaluator) sequence(nodes []*Node, a *molecule.Atom, path *MatchedGroup) int {
	total := 0
	for _, n := range nodes {
		s := e.score(n, a, path)
		if s == NoMatch {
			return NoMatch
		}
		total += s
	}
	return total
}

// connection consumes bonded neighbours of a that are not yet in path.
func (e *evaluator) connection(n *Node, a *molecule.Atom, path *MatchedGroup) int {
	repeat := n.modifier("n", defaultCount)
	allowRoot := n.Flags["root"]

	var matched []*molecule.Atom
	total := 0
	for _, nb := range a.Neighbours() {
		if path.Contains(nb) && !(allowRoot && nb == path.Root()) {
			continue
		}
		if !n.Targets.Matches(nb) {
			continue
		}

		// Once an exact count is reached, further candidates are scored on a
		// trial group so a surplus fails the node without consuming atoms.
		if repeat.Op == OpEqual && len(matched) == repeat.Value {
			trial := path.Clone()
			trial.Add(nb)
			if e.sequence(n.Children, nb, trial) != NoMatch {
				return NoMatch
			}
			continue
		}

		var snapshot *MatchedGroup
		if e.rollback == RollbackSnapshot {
			snapshot = path.Clone()
		}
		added := path.Add(nb)
		s := e.sequence(n.Children, nb, path)
		if s == NoMatch {
			switch {
			case snapshot != nil:
				path.Restore(snapshot)
			case added:
				path.Remove(nb)
			}
			continue
		}

		matched = append(matched, nb)
		total += 1 + s
		if repeat.Op.stopsEarly() && repeat.Satisfied(len(matched)) {
			break
		}
	}

	if !repeat.Satisfied(len(matched)) {
		return NoMatch
	}
	for _, nb := range matched {
		tagAll(path, n.Identifiers, nb)
	}
	return total
}

// ring matches the rings a belongs to against the node's size, count and
// composition terms.
func (e *evaluator) ring(n *Node, a *molecule.Atom, path *MatchedGroup) int {
	size, hasSize := n.Modifiers["size"]
	count := n.modifier("n", defaultCount)
	sequence := expandRingAtoms(n.Children)

	type ringMatch struct {
		ring  molecule.Ring
		group *MatchedGroup
	}
	var matched []ringMatch
	for _, r := range molecule.FindRings(a, molecule.MinRingSize, e.maxRingSize) {
		if hasSize && !size.Satisfied(r.Size()) {
			continue
		}
		if len(sequence) == 0 {
			matched = append(matched, ringMatch{ring: r})
			continue
		}
		if g := e.ringComposition(sequence, r, path); g != nil {
			matched = append(matched, ringMatch{ring: r, group: g})
		}
	}

	if !count.Satisfied(len(matched)) {
		return NoMatch
	}
	total := 0
	for _, m := range matched {
		path.Merge(m.group)
		for _, member := range m.ring.Members {
			path.Add(member)
			tagAll(path, n.Identifiers, member)
		}
		total += m.ring.Size()
	}
	return total
}

// ringComposition reports whether sequence matches a contiguous run of r's
// members in some rotation and direction.  On success it returns the group
// accumulated by the ring-atom terms.
func (e *evaluator) ringComposition(sequence []*Node, r molecule.Ring, path *MatchedGroup) *MatchedGroup {
	if len(sequence) > r.Size() {
		return nil
	}
	for _, members := range r.Rotations() {
		trial := path.Clone()
		ok := true
		for i, ra := range sequence {
			if e.score(ra, members[i], trial) == NoMatch {
				ok = false
				break
			}
		}
		if ok {
			return trial
		}
	}
	return nil
}

// expandRingAtoms repeats each ring-atom term by its "n" modifier.
func expandRingAtoms(nodes []*Node) []*Node {
	var out []*Node
	for _, ra := range nodes {
		times := 1
		if m, ok := ra.Modifiers["n"]; ok {
			times = m.Value
		}
		for i := 0; i < times; i++ {
			out = append(out, ra)
		}
	}
	return out
}

func tagAll(path *MatchedGroup, names []string, a *molecule.Atom) {
	for _, name := range names {
		path.Tag(name, a)
	}
}
