package prometheus

import (
	"time"

	"github.com/disorderedmaterials/neta/pkg/errors"
)

// NETAMetrics is the metric set recorded by the pattern service.
type NETAMetrics struct {
	CompileTotal     CounterVec
	CompileDuration  HistogramVec
	MatchEvaluations CounterVec
	MatchDuration    HistogramVec
	GenerateTotal    CounterVec
	TypesAssigned    CounterVec
	UnassignedAtoms  CounterVec
	FragmentsFound   CounterVec
	SpeciesAtoms     GaugeVec
}

// Result label values.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultMatch   = "match"
	ResultNoMatch = "nomatch"
)

// DefaultEvaluationBuckets spans 1µs to roughly 0.26s.
var DefaultEvaluationBuckets = []float64{1e-6, 4e-6, 1.6e-5, 6.4e-5, 2.56e-4, 1.024e-3, 4.096e-3, 1.6384e-2, 6.5536e-2, 2.62144e-1}

// NewNETAMetrics registers the metric set on collector.  Calling it twice on
// the same collector returns vectors backed by the same series.
func NewNETAMetrics(collector MetricsCollector) *NETAMetrics {
	return &NETAMetrics{
		CompileTotal:     collector.RegisterCounter("compile_total", "NETA definitions compiled", "result", "code"),
		CompileDuration:  collector.RegisterHistogram("compile_duration_seconds", "NETA compile duration", DefaultEvaluationBuckets),
		MatchEvaluations: collector.RegisterCounter("match_evaluations_total", "Definition evaluations against a root atom", "result"),
		MatchDuration:    collector.RegisterHistogram("match_duration_seconds", "Duration of a species-wide match", DefaultEvaluationBuckets),
		GenerateTotal:    collector.RegisterCounter("generate_total", "Definitions generated from atom environments"),
		TypesAssigned:    collector.RegisterCounter("types_assigned_total", "Atom types assigned", "type"),
		UnassignedAtoms:  collector.RegisterCounter("unassigned_atoms_total", "Atoms no type matched"),
		FragmentsFound:   collector.RegisterCounter("fragments_found_total", "Fragment instances discovered"),
		SpeciesAtoms:     collector.RegisterGauge("species_atoms", "Atoms in the most recently loaded species", "species"),
	}
}

// NewNopNETAMetrics returns a metric set that records nothing.
func NewNopNETAMetrics() *NETAMetrics {
	return &NETAMetrics{
		CompileTotal:     noopCounterVec{},
		CompileDuration:  noopHistogramVec{},
		MatchEvaluations: noopCounterVec{},
		MatchDuration:    noopHistogramVec{},
		GenerateTotal:    noopCounterVec{},
		TypesAssigned:    noopCounterVec{},
		UnassignedAtoms:  noopCounterVec{},
		FragmentsFound:   noopCounterVec{},
		SpeciesAtoms:     noopGaugeVec{},
	}
}

// RecordCompile counts one compilation, labelled by the error code on
// failure.
func RecordCompile(m *NETAMetrics, duration time.Duration, err error) {
	result, code := ResultOK, ""
	if err != nil {
		result, code = ResultError, string(errors.GetCode(err))
	}
	m.CompileTotal.WithLabelValues(result, code).Inc()
	m.CompileDuration.WithLabelValues().Observe(duration.Seconds())
}

// RecordMatches counts matched and unmatched root evaluations.
func RecordMatches(m *NETAMetrics, matched, unmatched int, duration time.Duration) {
	m.MatchEvaluations.WithLabelValues(ResultMatch).Add(float64(matched))
	m.MatchEvaluations.WithLabelValues(ResultNoMatch).Add(float64(unmatched))
	m.MatchDuration.WithLabelValues().Observe(duration.Seconds())
}

// RecordAssignment counts assigned types by name and unassigned atoms.
func RecordAssignment(m *NETAMetrics, typeNames []string, unassigned int) {
	for _, name := range typeNames {
		m.TypesAssigned.WithLabelValues(name).Inc()
	}
	m.UnassignedAtoms.WithLabelValues().Add(float64(unassigned))
}

// RecordSpecies records the size of a loaded species.
func RecordSpecies(m *NETAMetrics, name string, natoms int) {
	m.SpeciesAtoms.WithLabelValues(name).Set(float64(natoms))
}
