// Package patterns provides the application service behind the command line:
// it loads species and forcefields, compiles definitions with the configured
// engine options, and runs matching, generation, type assignment and
// fragment discovery with logging and metrics.
package patterns

import (
	"context"
	"time"

	"github.com/disorderedmaterials/neta/internal/domain/forcefield"
	"github.com/disorderedmaterials/neta/internal/domain/fragment"
	"github.com/disorderedmaterials/neta/internal/domain/molecule"
	"github.com/disorderedmaterials/neta/internal/domain/neta"
	"github.com/disorderedmaterials/neta/internal/infrastructure/monitoring/logging"
	prom "github.com/disorderedmaterials/neta/internal/infrastructure/monitoring/prometheus"
	"github.com/disorderedmaterials/neta/pkg/errors"
	dto "github.com/disorderedmaterials/neta/pkg/types/molecule"
)

// Source loads species and forcefields.  The species loader in
// internal/infrastructure/species satisfies it.
type Source interface {
	LoadSpecies(path string, ff *forcefield.Forcefield) ([]*molecule.Species, error)
	LoadForcefield(path string) (*forcefield.Forcefield, error)
}

// Service defines the pattern operations.
type Service interface {
	// Check compiles a definition.  Compile failures are reported in the
	// result; the error is reserved for failures to load the forcefield.
	Check(ctx context.Context, input *CheckInput) (*dto.CheckResult, error)
	Match(ctx context.Context, input *MatchInput) ([]dto.MatchResult, error)
	Generate(ctx context.Context, input *GenerateInput) (*dto.GenerateResult, error)
	Assign(ctx context.Context, input *AssignInput) ([]dto.AssignmentResult, error)
	Fragments(ctx context.Context, input *FragmentsInput) ([]dto.FragmentResult, error)
}

// CheckInput contains input for Check.
type CheckInput struct {
	Definition string

	// ForcefieldPath optionally resolves &type references.
	ForcefieldPath string
}

// MatchInput contains input for Match.
type MatchInput struct {
	Definition     string
	SpeciesPath    string
	ForcefieldPath string

	// Species selects one species by name; empty means every species.
	Species string

	// MatchedOnly drops atoms the definition does not match.
	MatchedOnly bool
}

// GenerateInput contains input for Generate.
type GenerateInput struct {
	SpeciesPath string
	Species     string
	Atom        int

	// Options overrides the configured generator options when non-nil.
	Options *neta.GenerateOptions
}

// AssignInput contains input for Assign.
type AssignInput struct {
	SpeciesPath    string
	ForcefieldPath string
	Species        string
}

// FragmentsInput contains input for Fragments.
type FragmentsInput struct {
	Definition  string
	SpeciesPath string
	Species     string

	// RequireOrigin is combined with the configured setting.
	RequireOrigin bool
}

// Config holds the engine settings the service applies.
type Config struct {
	DefinitionOptions []neta.Option
	Generate          neta.GenerateOptions
	RequireOrigin     bool
}

type serviceImpl struct {
	source  Source
	cfg     Config
	metrics *prom.NETAMetrics
	logger  logging.Logger
}

// NewService creates the pattern service.  metrics and logger may be nil.
func NewService(source Source, cfg Config, metrics *prom.NETAMetrics, logger logging.Logger) Service {
	if metrics == nil {
		metrics = prom.NewNopNETAMetrics()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &serviceImpl{source: source, cfg: cfg, metrics: metrics, logger: logger.Named("patterns")}
}

func (s *serviceImpl) Check(ctx context.Context, input *CheckInput) (*dto.CheckResult, error) {
	var lookup neta.TypeLookup
	if input.ForcefieldPath != "" {
		ff, err := s.source.LoadForcefield(input.ForcefieldPath)
		if err != nil {
			return nil, err
		}
		lookup = ff
	}

	d, err := s.compile(input.Definition, lookup)
	res := &dto.CheckResult{Definition: input.Definition, Valid: err == nil}
	if err != nil {
		res.Error = err.Error()
		res.ErrorCode = string(errors.GetCode(err))
		var ce *neta.CompileError
		if errors.As(err, &ce) {
			res.Error = ce.Error()
			res.Position = ce.Pos
		}
		return res, nil
	}
	res.Canonical = d.String()
	res.Identifiers = d.Identifiers()
	return res, nil
}

func (s *serviceImpl) Match(ctx context.Context, input *MatchInput) ([]dto.MatchResult, error) {
	var ff *forcefield.Forcefield
	var lookup neta.TypeLookup
	if input.ForcefieldPath != "" {
		var err error
		if ff, err = s.source.LoadForcefield(input.ForcefieldPath); err != nil {
			return nil, err
		}
		lookup = ff
	}
	d, err := s.compile(input.Definition, lookup)
	if err != nil {
		return nil, err
	}
	species, err := s.loadSpecies(input.SpeciesPath, input.Species, ff)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var out []dto.MatchResult
	matched, unmatched := 0, 0
	for _, sp := range species {
		for _, a := range sp.Atoms() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			res := dto.MatchResult{Species: sp.Name, Atom: a.Index, Element: a.Element.Symbol(), Score: d.Score(a)}
			res.Matched = res.Score != neta.NoMatch
			if !res.Matched {
				unmatched++
				if !input.MatchedOnly {
					out = append(out, res)
				}
				continue
			}
			matched++
			g := d.MatchedPath(a)
			res.Path = g.Indices()
			if names := g.Identifiers(); len(names) > 0 {
				res.Identifiers = make(map[string][]int, len(names))
				for _, name := range names {
					res.Identifiers[name] = indices(g.Identifier(name))
				}
			}
			out = append(out, res)
		}
	}
	prom.RecordMatches(s.metrics, matched, unmatched, time.Since(start))
	s.logger.Info("definition evaluated", logging.Definition(input.Definition),
		logging.Int("matched", matched), logging.Int("unmatched", unmatched))
	return out, nil
}

func (s *serviceImpl) Generate(ctx context.Context, input *GenerateInput) (*dto.GenerateResult, error) {
	species, err := s.loadSpecies(input.SpeciesPath, input.Species, nil)
	if err != nil {
		return nil, err
	}
	sp := species[0]
	if len(species) > 1 {
		return nil, errors.InvalidParam("file holds several species; name one").
			WithDetail("path=" + input.SpeciesPath)
	}
	a, err := sp.Atom(input.Atom)
	if err != nil {
		return nil, err
	}

	opts := s.cfg.Generate
	if input.Options != nil {
		opts = *input.Options
	}
	text := neta.Generate(a, opts)
	s.metrics.GenerateTotal.WithLabelValues().Inc()

	d, err := s.compile(text, nil)
	if err != nil {
		// Generated text always compiles; reaching here is a defect.
		return nil, errors.Wrap(err, errors.CodeInternal, "generated definition did not compile").
			WithDetail("definition=" + text)
	}
	res := &dto.GenerateResult{Species: sp.Name, Atom: a.Index, Element: a.Element.Symbol(), Definition: text}
	for _, other := range sp.Atoms() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if d.Matches(other) {
			res.Matches = append(res.Matches, other.Index)
		}
	}
	s.logger.Debug("definition generated", logging.Species(sp.Name), logging.Atom(a.Index), logging.Definition(text))
	return res, nil
}

func (s *serviceImpl) Assign(ctx context.Context, input *AssignInput) ([]dto.AssignmentResult, error) {
	start := time.Now()
	ff, err := s.source.LoadForcefield(input.ForcefieldPath)
	if err != nil {
		return nil, err
	}
	species, err := s.loadSpecies(input.SpeciesPath, input.Species, ff)
	if err != nil {
		return nil, err
	}

	var out []dto.AssignmentResult
	for _, sp := range species {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		assigned, unassigned := ff.AssignTypes(sp)

		results := make([]dto.AssignmentResult, sp.NAtoms())
		for _, a := range sp.Atoms() {
			results[a.Index] = dto.AssignmentResult{Species: sp.Name, Atom: a.Index, Element: a.Element.Symbol(), Score: neta.NoMatch}
		}
		names := make([]string, 0, len(assigned))
		for _, as := range assigned {
			r := &results[as.Atom.Index]
			r.Type, r.TypeID, r.Score = as.Type.Name, as.Type.ID, as.Score
			names = append(names, as.Type.Name)
		}
		out = append(out, results...)

		prom.RecordAssignment(s.metrics, names, len(unassigned))
		if len(unassigned) > 0 {
			s.logger.Warn("atoms left untyped", logging.Species(sp.Name),
				logging.Ints("atoms", indices(unassigned)), logging.String("forcefield", ff.Name))
		}
	}
	logging.LogOperationDuration(s.logger, "assign", start, logging.String("forcefield", ff.Name))
	return out, nil
}

func (s *serviceImpl) Fragments(ctx context.Context, input *FragmentsInput) ([]dto.FragmentResult, error) {
	d, err := s.compile(input.Definition, nil)
	if err != nil {
		return nil, err
	}
	finder, err := fragment.NewFinder(d, input.RequireOrigin || s.cfg.RequireOrigin)
	if err != nil {
		return nil, err
	}
	species, err := s.loadSpecies(input.SpeciesPath, input.Species, nil)
	if err != nil {
		return nil, err
	}

	var out []dto.FragmentResult
	for _, sp := range species {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		instances := finder.Find(sp)
		s.metrics.FragmentsFound.WithLabelValues().Add(float64(len(instances)))
		for _, in := range instances {
			out = append(out, fragmentResult(sp.Name, in))
		}
		s.logger.Debug("fragments found", logging.Species(sp.Name), logging.Int("count", len(instances)))
	}
	return out, nil
}

// compile compiles text with the configured options and records the outcome.
func (s *serviceImpl) compile(text string, lookup neta.TypeLookup) (*neta.Definition, error) {
	start := time.Now()
	d, err := neta.Compile(text, lookup, s.cfg.DefinitionOptions...)
	prom.RecordCompile(s.metrics, time.Since(start), err)
	if err != nil {
		s.logger.WithError(err).Debug("definition rejected", logging.Definition(text))
		return nil, err
	}
	return d, nil
}

// loadSpecies loads the file at path and selects the named species, or all
// of them when name is empty.
func (s *serviceImpl) loadSpecies(path, name string, ff *forcefield.Forcefield) ([]*molecule.Species, error) {
	if path == "" {
		return nil, errors.InvalidParam("a species file is required")
	}
	all, err := s.source.LoadSpecies(path, ff)
	if err != nil {
		return nil, err
	}
	for _, sp := range all {
		prom.RecordSpecies(s.metrics, sp.Name, sp.NAtoms())
	}
	if name == "" {
		return all, nil
	}
	for _, sp := range all {
		if sp.Name == name {
			return []*molecule.Species{sp}, nil
		}
	}
	return nil, errors.NotFound("species " + name + " not found").WithDetail("path=" + path)
}

func fragmentResult(species string, in fragment.Instance) dto.FragmentResult {
	o := in.OriginPosition()
	res := dto.FragmentResult{
		ID:      in.ID.String(),
		Species: species,
		Root:    in.Root.Index,
		Indices: in.Indices,
		Origin:  indices(in.Origin),
		XAxis:   indices(in.XAxis),
		YAxis:   indices(in.YAxis),
		Centre:  [3]float64{o.X, o.Y, o.Z},
	}
	if x, y, z, ok := in.Axes(); ok {
		res.Axes = &[3][3]float64{{x.X, x.Y, x.Z}, {y.X, y.Y, y.Z}, {z.X, z.Y, z.Z}}
	}
	return res
}

func indices(atoms []*molecule.Atom) []int {
	if len(atoms) == 0 {
		return nil
	}
	out := make([]int, len(atoms))
	for i, a := range atoms {
		out[i] = a.Index
	}
	return out
}
