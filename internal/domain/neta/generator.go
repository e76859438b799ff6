package neta

import (
	"strconv"
	"strings"

	"github.com/disorderedmaterials/neta/internal/domain/molecule"
)

// GenerateOptions controls Generate.
type GenerateOptions struct {
	// MaxDepth is the number of bonds away from the atom for which
	// connectivity clauses are written.  Zero writes only the atom's own
	// counts.
	MaxDepth int

	// ExplicitHydrogens writes hydrogens as connections instead of folding
	// them into an nh count.
	ExplicitHydrogens bool

	// IncludeRootElement prefixes a presence term for the atom's element.
	IncludeRootElement bool
}

// generationContext is the state of one Generate call.  visited mirrors the
// matched group the matcher holds at the same point of evaluation.
type generationContext struct {
	opts    GenerateOptions
	visited map[*molecule.Atom]bool
}

// Generate returns definition text describing a's bonded neighbourhood.  The
// text compiles and matches a.
func Generate(a *molecule.Atom, opts GenerateOptions) string {
	if a == nil {
		return ""
	}
	g := &generationContext{opts: opts, visited: map[*molecule.Atom]bool{a: true}}

	var terms []string
	if opts.IncludeRootElement {
		terms = append(terms, "?"+a.Element.Symbol())
	}
	terms = append(terms, g.describe(a, 0)...)
	return strings.Join(terms, ",")
}

// describe returns the terms for a, which has already been marked visited.
func (g *generationContext) describe(a *molecule.Atom, depth int) []string {
	terms := []string{"nbonds=" + strconv.Itoa(a.NBonds())}
	if !g.opts.ExplicitHydrogens {
		nh := 0
		for _, nb := range a.Neighbours() {
			if nb.Element == molecule.H && !g.visited[nb] {
				nh++
			}
		}
		terms = append(terms, "nh="+strconv.Itoa(nh))
	}
	if depth >= g.opts.MaxDepth {
		return terms
	}

	// visited is checked as each neighbour is reached, since a deeper clause
	// may already have consumed a later neighbour.
	for _, nb := range a.Neighbours() {
		if g.visited[nb] {
			continue
		}
		if nb.Element == molecule.H && !g.opts.ExplicitHydrogens {
			continue
		}
		g.visited[nb] = true
		clause := "-" + nb.Element.Symbol()
		if depth+1 < g.opts.MaxDepth {
			clause += "(" + strings.Join(g.describe(nb, depth+1), ",") + ")"
		}
		terms = append(terms, clause)
	}
	return terms
}
