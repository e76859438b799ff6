package molecule

import "strings"

// Element is an atomic number.  The zero value is Unknown.
type Element int

// Elements referenced directly by the engine and its tests.
const (
	Unknown Element = 0
	H       Element = 1
	He      Element = 2
	Li      Element = 3
	B       Element = 5
	C       Element = 6
	N       Element = 7
	O       Element = 8
	F       Element = 9
	Na      Element = 11
	Si      Element = 14
	P       Element = 15
	S       Element = 16
	Cl      Element = 17
	K       Element = 19
	Fe      Element = 26
	Br      Element = 35
	I       Element = 53
)

var elementSymbols = [...]string{
	"XX",
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba", "La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy",
	"Ho", "Er", "Tm", "Yb", "Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt",
	"Au", "Hg", "Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra", "Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf",
	"Es", "Fm", "Md", "No", "Lr", "Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds",
	"Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

var symbolIndex = func() map[string]Element {
	m := make(map[string]Element, len(elementSymbols))
	for z, s := range elementSymbols {
		if z == 0 {
			continue
		}
		m[s] = Element(z)
	}
	return m
}()

// NElements is the number of known elements (excluding Unknown).
const NElements = len(elementSymbols) - 1

// ElementFromSymbol returns the element with the given symbol.  Matching is
// case-sensitive, so "Co" is cobalt and "CO" is not an element.
func ElementFromSymbol(symbol string) (Element, bool) {
	e, ok := symbolIndex[symbol]
	return e, ok
}

// MustElement is ElementFromSymbol for literals known to be valid.
func MustElement(symbol string) Element {
	e, ok := ElementFromSymbol(symbol)
	if !ok {
		panic("molecule: unknown element symbol " + symbol)
	}
	return e
}

// IsElementSymbol reports whether s is a known element symbol.
func IsElementSymbol(s string) bool {
	_, ok := symbolIndex[s]
	return ok
}

// Symbol returns the element symbol, "XX" for Unknown or out-of-range values.
func (e Element) Symbol() string {
	if e <= 0 || int(e) >= len(elementSymbols) {
		return elementSymbols[0]
	}
	return elementSymbols[e]
}

// String implements fmt.Stringer.
func (e Element) String() string { return e.Symbol() }

// IsValid reports whether e is a real element.
func (e Element) IsValid() bool {
	return e > 0 && int(e) < len(elementSymbols)
}

// ParseElement is a lenient variant of ElementFromSymbol used by file loaders:
// it accepts any letter case ("cl", "CL" → Cl).
func ParseElement(s string) (Element, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unknown, false
	}
	if e, ok := ElementFromSymbol(s); ok {
		return e, true
	}
	norm := strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	return ElementFromSymbol(norm)
}
