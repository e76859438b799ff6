package neta

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/disorderedmaterials/neta/internal/domain/molecule"
)

// NoMatch is the score of a failed evaluation.  Every other score is >= 0.
const NoMatch = -1

// NegatedScore is the score of a negated node whose positive form failed.
const NegatedScore = 1

// NodeKind identifies the closed set of node variants.
type NodeKind int

const (
	KindRoot NodeKind = iota
	KindPresence
	KindConnection
	KindRing
	KindRingAtom
	KindBondCount
	KindHydrogenCount
	KindCharacter
	KindOr
)

var nodeKindNames = [...]string{
	KindRoot:          "root",
	KindPresence:      "presence",
	KindConnection:    "connection",
	KindRing:          "ring",
	KindRingAtom:      "ring atom",
	KindBondCount:     "bond count",
	KindHydrogenCount: "hydrogen count",
	KindCharacter:     "character",
	KindOr:            "or",
}

func (k NodeKind) String() string {
	if k >= 0 && int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "NodeKind(" + strconv.Itoa(int(k)) + ")"
}

// ─────────────────────────────────────────────────────────────────────────────
// Comparison operators
// ─────────────────────────────────────────────────────────────────────────────

// Operator is a comparison operator used by modifiers and options.
type Operator int

const (
	OpEqual Operator = iota
	OpNotEqual
	OpGreater
	OpLess
	OpGreaterEqual
	OpLessEqual
)

var operatorSymbols = map[Operator]string{
	OpEqual:        "=",
	OpNotEqual:     "!=",
	OpGreater:      ">",
	OpLess:         "<",
	OpGreaterEqual: ">=",
	OpLessEqual:    "<=",
}

func (o Operator) String() string { return operatorSymbols[o] }

// ParseOperator returns the operator written as s.
func ParseOperator(s string) (Operator, bool) {
	for op, sym := range operatorSymbols {
		if sym == s {
			return op, true
		}
	}
	return OpEqual, false
}

// Compare reports whether "lhs op rhs" holds.
func (o Operator) Compare(lhs, rhs int) bool {
	switch o {
	case OpEqual:
		return lhs == rhs
	case OpNotEqual:
		return lhs != rhs
	case OpGreater:
		return lhs > rhs
	case OpLess:
		return lhs < rhs
	case OpGreaterEqual:
		return lhs >= rhs
	case OpLessEqual:
		return lhs <= rhs
	}
	return false
}

// stopsEarly reports whether neighbour enumeration ends as soon as the count
// satisfies o.  Only lower bounds qualify, since further successes cannot
// change their verdict.
func (o Operator) stopsEarly() bool {
	return o == OpGreater || o == OpGreaterEqual
}

// Modifier is a numeric comparison such as "n>=2".
type Modifier struct {
	Op    Operator
	Value int
}

// Satisfied reports whether v passes the comparison.
func (m Modifier) Satisfied(v int) bool { return m.Op.Compare(v, m.Value) }

// StringOption is a string comparison such as "geometry=tetrahedral".  Only
// = and != are permitted.
type StringOption struct {
	Op    Operator
	Value string
}

// Satisfied reports whether v passes the comparison.
func (o StringOption) Satisfied(v string) bool {
	if o.Op == OpNotEqual {
		return v != o.Value
	}
	return v == o.Value
}

// defaultCount is the repeat and ring-count modifier applied when none is given.
var defaultCount = Modifier{Op: OpGreaterEqual, Value: 1}

// ─────────────────────────────────────────────────────────────────────────────
// Target sets
// ─────────────────────────────────────────────────────────────────────────────

// TypeTarget is a resolved "&name" or "&id" reference.
type TypeTarget struct {
	Ref    string
	Handle molecule.TypeHandle
}

// TargetSet is the union of elements and type handles a node accepts.  An
// empty set accepts any atom.
type TargetSet struct {
	Elements []molecule.Element
	Types    []TypeTarget
}

// Empty reports whether the set places no restriction on atoms.
func (t TargetSet) Empty() bool { return len(t.Elements) == 0 && len(t.Types) == 0 }

// Matches reports whether a is accepted.
func (t TargetSet) Matches(a *molecule.Atom) bool {
	if t.Empty() {
		return true
	}
	for _, el := range t.Elements {
		if a.Element == el {
			return true
		}
	}
	if a.Type == nil {
		return false
	}
	for _, tt := range t.Types {
		if tt.Handle == a.Type {
			return true
		}
	}
	return false
}

func (t TargetSet) String() string {
	parts := make([]string, 0, len(t.Elements)+len(t.Types))
	for _, el := range t.Elements {
		parts = append(parts, el.Symbol())
	}
	for _, tt := range t.Types {
		parts = append(parts, "&"+tt.Ref)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// ─────────────────────────────────────────────────────────────────────────────
// Node
// ─────────────────────────────────────────────────────────────────────────────

// Node is one vertex of a compiled definition tree.  Fields that do not apply
// to a node's Kind are left empty.
type Node struct {
	Kind NodeKind

	// Children form an implicit AND sequence evaluated against the atom the
	// node applies to (the probe atom, a connected neighbour or a ring member).
	Children []*Node

	Targets TargetSet

	// Reverse negates the node's verdict.
	Reverse bool

	Identifiers []string
	Modifiers   map[string]Modifier
	Options     map[string]StringOption
	Flags       map[string]bool

	// Primary and Alternative are only used by KindOr.
	Primary     []*Node
	Alternative []*Node
}

func newNode(kind NodeKind) *Node {
	return &Node{
		Kind:      kind,
		Modifiers: make(map[string]Modifier),
		Options:   make(map[string]StringOption),
		Flags:     make(map[string]bool),
	}
}

// modifier returns the named modifier or def when it is not set.
func (n *Node) modifier(name string, def Modifier) Modifier {
	if m, ok := n.Modifiers[name]; ok {
		return m
	}
	return def
}

// nodeKeywords lists the context keywords each node kind accepts inside its
// body.  Kinds absent from the map accept none.
var nodeKeywords = map[NodeKind]struct {
	modifiers []string
	flags     []string
}{
	KindConnection: {modifiers: []string{"n"}, flags: []string{"root"}},
	KindRing:       {modifiers: []string{"size", "n"}},
	KindRingAtom:   {modifiers: []string{"n"}},
}

func (n *Node) acceptsModifier(name string) bool {
	for _, m := range nodeKeywords[n.Kind].modifiers {
		if m == name {
			return true
		}
	}
	return false
}

func (n *Node) acceptsFlag(name string) bool {
	for _, f := range nodeKeywords[n.Kind].flags {
		if f == name {
			return true
		}
	}
	return false
}

// walk calls fn for n and every node below it.
func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
	for _, c := range n.Primary {
		c.walk(fn)
	}
	for _, c := range n.Alternative {
		c.walk(fn)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Printing
// ─────────────────────────────────────────────────────────────────────────────

// String renders the subtree in definition syntax.  Compiling the result
// yields an equivalent tree.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb, true)
	return sb.String()
}

func writeSequence(sb *strings.Builder, nodes []*Node, extra []string) {
	first := true
	for _, c := range nodes {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		c.write(sb, false)
	}
	for _, e := range extra {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		sb.WriteString(e)
	}
}

// keywordTerms renders the modifiers, flags and tags held by a context node.
func (n *Node) keywordTerms() []string {
	var out []string
	names := make([]string, 0, len(n.Modifiers))
	for name := range n.Modifiers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m := n.Modifiers[name]
		out = append(out, fmt.Sprintf("%s%s%d", name, m.Op, m.Value))
	}
	flags := make([]string, 0, len(n.Flags))
	for name, set := range n.Flags {
		if set {
			flags = append(flags, name)
		}
	}
	sort.Strings(flags)
	out = append(out, flags...)
	switch len(n.Identifiers) {
	case 0:
	case 1:
		out = append(out, "#"+n.Identifiers[0])
	default:
		out = append(out, "#["+strings.Join(n.Identifiers, ",")+"]")
	}
	return out
}

func (n *Node) write(sb *strings.Builder, top bool) {
	if n.Reverse {
		sb.WriteByte('!')
	}
	switch n.Kind {
	case KindRoot:
		if top {
			writeSequence(sb, n.Children, n.keywordTerms())
			return
		}
		sb.WriteByte('(')
		writeSequence(sb, n.Children, n.keywordTerms())
		sb.WriteByte(')')
	case KindPresence:
		sb.WriteByte('?')
		sb.WriteString(n.Targets.String())
	case KindConnection:
		sb.WriteByte('-')
		sb.WriteString(n.Targets.String())
		if extra := n.keywordTerms(); len(n.Children) > 0 || len(extra) > 0 {
			sb.WriteByte('(')
			writeSequence(sb, n.Children, extra)
			sb.WriteByte(')')
		}
	case KindRing:
		var items []string
		for _, name := range []string{"size", "n"} {
			if m, ok := n.Modifiers[name]; ok {
				items = append(items, fmt.Sprintf("%s%s%d", name, m.Op, m.Value))
			}
		}
		for _, c := range n.Children {
			items = append(items, c.String())
		}
		if len(n.Identifiers) > 0 {
			items = append(items, (&Node{Identifiers: n.Identifiers}).keywordTerms()...)
		}
		sb.WriteString("ring(")
		sb.WriteString(strings.Join(items, ","))
		sb.WriteByte(')')
	case KindRingAtom:
		sb.WriteString(n.Targets.String())
		if extra := n.keywordTerms(); len(n.Children) > 0 || len(extra) > 0 {
			sb.WriteByte('(')
			writeSequence(sb, n.Children, extra)
			sb.WriteByte(')')
		}
	case KindBondCount:
		m := n.Modifiers["nbonds"]
		fmt.Fprintf(sb, "nbonds%s%d", m.Op, m.Value)
	case KindHydrogenCount:
		m := n.Modifiers["nh"]
		fmt.Fprintf(sb, "nh%s%d", m.Op, m.Value)
	case KindCharacter:
		o := n.Options["geometry"]
		fmt.Fprintf(sb, "geometry%s%s", o.Op, o.Value)
	case KindOr:
		writeSequence(sb, n.Primary, nil)
		sb.WriteByte('|')
		writeSequence(sb, n.Alternative, nil)
	default:
		panic(fmt.Sprintf("neta: cannot print node kind %s", n.Kind))
	}
}
