package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/disorderedmaterials/neta/internal/domain/neta"
	dto "github.com/disorderedmaterials/neta/pkg/types/molecule"
)

// View adapts a command result to every output format.
type View interface {
	// Payload is encoded as-is for json and yaml output.
	Payload() interface{}
	TableHeaders() []string
	TableRows() [][]string
	Lines() []string
}

type checkView struct{ res *dto.CheckResult }

func (v checkView) Payload() interface{} { return v.res }

func (v checkView) TableHeaders() []string {
	return []string{"Definition", "Valid", "Canonical", "Identifiers", "Error"}
}

func (v checkView) TableRows() [][]string {
	return [][]string{{
		v.res.Definition,
		strconv.FormatBool(v.res.Valid),
		v.res.Canonical,
		strings.Join(v.res.Identifiers, ","),
		v.res.Error,
	}}
}

func (v checkView) Lines() []string {
	if !v.res.Valid {
		return []string{
			color.RedString("invalid"),
			"  " + v.res.Definition,
			"  " + caret(v.res.Definition, v.res.Position),
			fmt.Sprintf("  [%s] %s", v.res.ErrorCode, v.res.Error),
		}
	}
	lines := []string{fmt.Sprintf("%s %s", color.GreenString("valid"), v.res.Canonical)}
	if len(v.res.Identifiers) > 0 {
		lines = append(lines, "  identifiers: "+strings.Join(v.res.Identifiers, ", "))
	}
	return lines
}

// caret returns a marker under byte pos of text.
func caret(text string, pos int) string {
	if pos < 0 || pos > len(text) {
		pos = len(text)
	}
	return strings.Repeat(" ", pos) + "^"
}

type matchView struct{ res []dto.MatchResult }

func (v matchView) Payload() interface{} { return v.res }

func (v matchView) TableHeaders() []string {
	return []string{"Species", "Atom", "Element", "Score", "Path", "Identifiers"}
}

func (v matchView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.res))
	for _, r := range v.res {
		rows = append(rows, []string{
			r.Species, strconv.Itoa(r.Atom), r.Element, score(r.Score), joinInts(r.Path), identifiers(r.Identifiers),
		})
	}
	return rows
}

func (v matchView) Lines() []string {
	lines := make([]string, 0, len(v.res))
	for _, r := range v.res {
		mark := color.RedString("-")
		if r.Matched {
			mark = color.GreenString("+")
		}
		line := fmt.Sprintf("%s %s %d %s score=%s", mark, r.Species, r.Atom, r.Element, score(r.Score))
		if r.Matched {
			line += " path=" + joinInts(r.Path)
		}
		if len(r.Identifiers) > 0 {
			line += " " + identifiers(r.Identifiers)
		}
		lines = append(lines, line)
	}
	return lines
}

type generateView struct{ res *dto.GenerateResult }

func (v generateView) Payload() interface{} { return v.res }

func (v generateView) TableHeaders() []string {
	return []string{"Species", "Atom", "Element", "Definition", "Matches"}
}

func (v generateView) TableRows() [][]string {
	return [][]string{{
		v.res.Species, strconv.Itoa(v.res.Atom), v.res.Element, v.res.Definition, joinInts(v.res.Matches),
	}}
}

func (v generateView) Lines() []string {
	return []string{
		v.res.Definition,
		fmt.Sprintf("  matches %s atoms %s", v.res.Species, joinInts(v.res.Matches)),
	}
}

type assignView struct{ res []dto.AssignmentResult }

func (v assignView) Payload() interface{} { return v.res }

func (v assignView) TableHeaders() []string {
	return []string{"Species", "Atom", "Element", "Type", "ID", "Score"}
}

func (v assignView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.res))
	for _, r := range v.res {
		id := ""
		if r.Type != "" {
			id = strconv.Itoa(r.TypeID)
		}
		rows = append(rows, []string{r.Species, strconv.Itoa(r.Atom), r.Element, r.Type, id, score(r.Score)})
	}
	return rows
}

func (v assignView) Lines() []string {
	lines := make([]string, 0, len(v.res))
	for _, r := range v.res {
		typ := r.Type
		if typ == "" {
			typ = color.YellowString("(none)")
		}
		lines = append(lines, fmt.Sprintf("%s %d %s %s", r.Species, r.Atom, r.Element, typ))
	}
	return lines
}

type fragmentsView struct{ res []dto.FragmentResult }

func (v fragmentsView) Payload() interface{} { return v.res }

func (v fragmentsView) TableHeaders() []string {
	return []string{"Species", "Root", "Atoms", "Centre", "Axes"}
}

func (v fragmentsView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.res))
	for _, r := range v.res {
		axes := "no"
		if r.Axes != nil {
			axes = "yes"
		}
		rows = append(rows, []string{r.Species, strconv.Itoa(r.Root), joinInts(r.Indices), vector(r.Centre), axes})
	}
	return rows
}

func (v fragmentsView) Lines() []string {
	var lines []string
	for _, r := range v.res {
		lines = append(lines, fmt.Sprintf("%s root=%d atoms=%s centre=%s", r.Species, r.Root, joinInts(r.Indices), vector(r.Centre)))
		if r.Axes != nil {
			for i, name := range []string{"x", "y", "z"} {
				lines = append(lines, fmt.Sprintf("  %s %s", name, vector(r.Axes[i])))
			}
		}
	}
	return lines
}

func score(s int) string {
	if s == neta.NoMatch {
		return "nomatch"
	}
	return strconv.Itoa(s)
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func identifiers(ids map[string][]int) string {
	names := make([]string, 0, len(ids))
	for name := range ids {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = "#" + name + "=" + joinInts(ids[name])
	}
	return strings.Join(parts, " ")
}

func vector(v [3]float64) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v[0], v[1], v[2])
}
