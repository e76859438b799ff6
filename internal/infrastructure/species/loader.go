// Package species loads species and forcefield definitions from YAML files
// and builds the corresponding domain objects.
package species

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/disorderedmaterials/neta/internal/domain/forcefield"
	"github.com/disorderedmaterials/neta/internal/domain/molecule"
	"github.com/disorderedmaterials/neta/internal/domain/neta"
	"github.com/disorderedmaterials/neta/internal/infrastructure/monitoring/logging"
	"github.com/disorderedmaterials/neta/pkg/errors"
	dto "github.com/disorderedmaterials/neta/pkg/types/molecule"
)

// Loader reads species and forcefield files.
type Loader struct {
	logger  logging.Logger
	options []neta.Option
}

// NewLoader returns a loader whose forcefield definitions compile with opts.
func NewLoader(logger logging.Logger, opts ...neta.Option) *Loader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Loader{logger: logger.Named("species"), options: opts}
}

// LoadSpecies reads every species in the file at path.  Atom types named in
// the file are resolved against ff, which may be nil when no atom carries a
// type.
func (l *Loader) LoadSpecies(path string, ff *forcefield.Forcefield) ([]*molecule.Species, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	out, err := l.ParseSpecies(bytes.NewReader(data), ff)
	if err != nil {
		return nil, withPath(err, path)
	}
	l.logger.Debug("species file loaded", logging.String("path", path), logging.Int("count", len(out)))
	return out, nil
}

// ParseSpecies decodes a species document.
func (l *Loader) ParseSpecies(r io.Reader, ff *forcefield.Forcefield) ([]*molecule.Species, error) {
	var doc dto.SpeciesFile
	if err := decodeStrict(r, &doc); err != nil {
		return nil, err
	}
	if len(doc.Species) == 0 {
		return nil, errors.New(errors.CodeSpeciesInvalid, "document declares no species")
	}

	out := make([]*molecule.Species, 0, len(doc.Species))
	for _, sd := range doc.Species {
		s, err := BuildSpecies(sd, ff)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// BuildSpecies converts one species DTO into a bonded species.
func BuildSpecies(sd dto.SpeciesDTO, ff *forcefield.Forcefield) (*molecule.Species, error) {
	if err := sd.Validate(); err != nil {
		return nil, err
	}

	s := molecule.NewSpecies(sd.Name)
	for i, ad := range sd.Atoms {
		el, ok := molecule.ParseElement(ad.Element)
		if !ok {
			return nil, errors.Newf(errors.CodeElementUnknown, "atom %d of species %q has unknown element %q", i, sd.Name, ad.Element)
		}
		a := s.AddAtom(el, molecule.Vec3{X: ad.R[0], Y: ad.R[1], Z: ad.R[2]})
		if ad.Type == "" {
			continue
		}
		if ff == nil {
			return nil, errors.Newf(errors.CodeAtomTypeNotFound, "atom %d of species %q names type %q but no forcefield was given", i, sd.Name, ad.Type)
		}
		t, err := ff.TypeByName(ad.Type)
		if err != nil {
			return nil, err
		}
		a.Type = t
	}
	for _, b := range sd.Bonds {
		if _, err := s.AddBond(b[0], b[1]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// LoadForcefield reads the forcefield file at path.
func (l *Loader) LoadForcefield(path string) (*forcefield.Forcefield, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	ff, err := l.ParseForcefield(bytes.NewReader(data))
	if err != nil {
		return nil, withPath(err, path)
	}
	l.logger.Debug("forcefield loaded", logging.String("path", path),
		logging.String("forcefield", ff.Name), logging.Int("types", ff.NTypes()))
	return ff, nil
}

// ParseForcefield decodes a forcefield document.  Types are added in file
// order, so a type may only reference types declared before it.  A rollback
// given in the file overrides the loader's.
func (l *Loader) ParseForcefield(r io.Reader) (*forcefield.Forcefield, error) {
	var doc dto.ForcefieldFile
	if err := decodeStrict(r, &doc); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	opts := append([]neta.Option{}, l.options...)
	if doc.Rollback != "" {
		rb, ok := neta.ParseRollbackStrategy(doc.Rollback)
		if !ok {
			return nil, errors.Newf(errors.CodeInvalidParam, "forcefield %q has unknown rollback %q", doc.Name, doc.Rollback)
		}
		opts = append(opts, neta.WithRollback(rb))
	}

	ff := forcefield.New(doc.Name, opts...)
	for _, td := range doc.Types {
		el, ok := molecule.ParseElement(td.Element)
		if !ok {
			return nil, errors.Newf(errors.CodeElementUnknown, "type %q has unknown element %q", td.Name, td.Element)
		}
		if _, err := ff.AddType(td.ID, td.Name, el, td.NETA, td.Description); err != nil {
			return nil, err
		}
	}
	return ff, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeFileReadFailed, "cannot read file").WithDetail("path=" + path)
	}
	return data, nil
}

func decodeStrict(r io.Reader, out interface{}) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return errors.New(errors.CodeFileParseFailed, "document is empty")
		}
		return errors.Wrap(err, errors.CodeFileParseFailed, "invalid YAML document")
	}
	return nil
}

// withPath records the source file on an AppError without changing its code.
func withPath(err error, path string) error {
	var ae *errors.AppError
	if errors.As(err, &ae) {
		detail := "path=" + path
		if ae.Detail != "" {
			detail = fmt.Sprintf("%s %s", ae.Detail, detail)
		}
		return ae.WithDetail(detail)
	}
	return err
}
