// Package molecule defines the file and result DTOs shared by the loaders and
// the command line.  No domain logic lives here, only plain data types with
// yaml and json tags and structural validation.
package molecule

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/disorderedmaterials/neta/pkg/errors"
)

// validate checks the struct tags of the file DTOs.
var validate = validator.New()

// checkTags reports the first tag violation of v with code.
func checkTags(v interface{}, code errors.ErrorCode, what string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(err, code, what+" is malformed")
	}
	fe := verrs[0]
	return errors.Newf(code, "%s: field %s failed the %q rule", what, fe.Namespace(), fe.Tag())
}

// ─────────────────────────────────────────────────────────────────────────────
// Input files
// ─────────────────────────────────────────────────────────────────────────────

// SpeciesFile is the top-level document of a species file.
type SpeciesFile struct {
	Species []SpeciesDTO `yaml:"species" json:"species"`
}

// SpeciesDTO describes one bonded species.
type SpeciesDTO struct {
	Name  string    `yaml:"name" json:"name" validate:"required"`
	Atoms []AtomDTO `yaml:"atoms" json:"atoms" validate:"required,min=1,dive"`

	// Bonds are pairs of zero-based atom indices.
	Bonds [][2]int `yaml:"bonds" json:"bonds"`
}

// AtomDTO is one atom.  R is optional and only affects geometry keywords.
type AtomDTO struct {
	Element string     `yaml:"element" json:"element" validate:"required,alpha,max=3"`
	R       [3]float64 `yaml:"r,flow" json:"r"`

	// Type optionally names a forcefield atom type assigned up front.
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
}

// Validate checks the structural constraints that do not need the element
// table: a name, at least one atom, alphabetic element symbols and in-range,
// non-self bonds.
func (s SpeciesDTO) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New(errors.CodeSpeciesInvalid, "species has no name")
	}
	if err := checkTags(s, errors.CodeSpeciesInvalid, fmt.Sprintf("species %q", s.Name)); err != nil {
		return err
	}
	for k, b := range s.Bonds {
		for _, idx := range b {
			if idx < 0 || idx >= len(s.Atoms) {
				return errors.Newf(errors.CodeBondInvalid, "bond %d of species %q references atom %d", k, s.Name, idx).
					WithDetail(fmt.Sprintf("natoms=%d", len(s.Atoms)))
			}
		}
		if b[0] == b[1] {
			return errors.Newf(errors.CodeBondInvalid, "bond %d of species %q joins atom %d to itself", k, s.Name, b[0])
		}
	}
	return nil
}

// ForcefieldFile is the top-level document of a forcefield file.
type ForcefieldFile struct {
	Name string `yaml:"name" json:"name" validate:"required"`

	// Rollback selects the Or-branch rollback strategy for every type
	// definition: "none" (default) or "snapshot".
	Rollback string `yaml:"rollback,omitempty" json:"rollback,omitempty"`

	Types []AtomTypeDTO `yaml:"types" json:"types" validate:"required,min=1,dive"`
}

// AtomTypeDTO is one forcefield atom type.
type AtomTypeDTO struct {
	ID          int    `yaml:"id" json:"id" validate:"gte=0"`
	Name        string `yaml:"name" json:"name" validate:"required"`
	Element     string `yaml:"element" json:"element" validate:"required"`
	NETA        string `yaml:"neta" json:"neta"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Validate checks that the forcefield is named and declares named types.
func (f ForcefieldFile) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.InvalidParam("forcefield has no name")
	}
	if len(f.Types) == 0 {
		return errors.InvalidParam(fmt.Sprintf("forcefield %q declares no types", f.Name))
	}
	return checkTags(f, errors.CodeInvalidParam, fmt.Sprintf("forcefield %q", f.Name))
}

// ─────────────────────────────────────────────────────────────────────────────
// Results
// ─────────────────────────────────────────────────────────────────────────────

// CheckResult reports the outcome of compiling a definition.
type CheckResult struct {
	Definition  string   `json:"definition" yaml:"definition"`
	Canonical   string   `json:"canonical,omitempty" yaml:"canonical,omitempty"`
	Valid       bool     `json:"valid" yaml:"valid"`
	Identifiers []string `json:"identifiers,omitempty" yaml:"identifiers,omitempty"`
	ErrorCode   string   `json:"error_code,omitempty" yaml:"error_code,omitempty"`
	Error       string   `json:"error,omitempty" yaml:"error,omitempty"`
	Position    int      `json:"position,omitempty" yaml:"position,omitempty"`
}

// MatchResult is the evaluation of a definition at one root atom.
type MatchResult struct {
	Species     string           `json:"species" yaml:"species"`
	Atom        int              `json:"atom" yaml:"atom"`
	Element     string           `json:"element" yaml:"element"`
	Matched     bool             `json:"matched" yaml:"matched"`
	Score       int              `json:"score" yaml:"score"`
	Path        []int            `json:"path,omitempty" yaml:"path,omitempty"`
	Identifiers map[string][]int `json:"identifiers,omitempty" yaml:"identifiers,omitempty"`
}

// GenerateResult is a definition generated from an atom's environment.
type GenerateResult struct {
	Species    string `json:"species" yaml:"species"`
	Atom       int    `json:"atom" yaml:"atom"`
	Element    string `json:"element" yaml:"element"`
	Definition string `json:"definition" yaml:"definition"`

	// Matches lists every atom of the species the generated definition
	// matches, which includes the source atom.
	Matches []int `json:"matches" yaml:"matches"`
}

// AssignmentResult is the type chosen for one atom.  Type is empty when no
// type matched.
type AssignmentResult struct {
	Species string `json:"species" yaml:"species"`
	Atom    int    `json:"atom" yaml:"atom"`
	Element string `json:"element" yaml:"element"`
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	TypeID  int    `json:"type_id,omitempty" yaml:"type_id,omitempty"`
	Score   int    `json:"score" yaml:"score"`
}

// FragmentResult is one discovered fragment instance.
type FragmentResult struct {
	ID      string         `json:"id" yaml:"id"`
	Species string         `json:"species" yaml:"species"`
	Root    int            `json:"root" yaml:"root"`
	Indices []int          `json:"indices" yaml:"indices"`
	Origin  []int          `json:"origin,omitempty" yaml:"origin,omitempty"`
	XAxis   []int          `json:"x_axis,omitempty" yaml:"x_axis,omitempty"`
	YAxis   []int          `json:"y_axis,omitempty" yaml:"y_axis,omitempty"`
	Centre  [3]float64     `json:"centre" yaml:"centre,flow"`
	Axes    *[3][3]float64 `json:"axes,omitempty" yaml:"axes,omitempty"`
}
