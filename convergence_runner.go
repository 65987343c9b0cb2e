package cplscheme

import "fmt"

// Measure evaluates convergence between two iterations of the same
// CouplingData. Concrete measures (relative, absolute, residual-relative,
// ...) live outside this package (the measures package ships reference
// kernels) and the scheme consumes them only through this interface.
type Measure interface {
	// Measure records the previous and current iteration's values and
	// updates the measure's internal verdict.
	Measure(previousIteration, current []float64) error
	// IsConvergence reports the verdict computed by the last Measure call.
	IsConvergence() bool
	// NewMeasurementSeries resets any history kept across windows.
	NewMeasurementSeries()
	// Name identifies the measure for logging and error messages.
	Name() string
}

// MeasureEntry binds a measure to the data it watches and the two flags
// that shape how its verdict folds into the overall decision.
type MeasureEntry struct {
	Data    CouplingData
	Measure Measure
	Strict  bool
	Suffices bool
	Logging bool
}

// convergenceRunner evaluates an ordered list of measures each iteration
// and combines their verdicts per §4.4.
type convergenceRunner struct {
	entries []MeasureEntry
}

func newConvergenceRunner(entries []MeasureEntry) *convergenceRunner {
	return &convergenceRunner{entries: entries}
}

// run evaluates every measure against its data's previous/current
// iteration and returns the combined verdict. iterations and maxIterations
// gate the strict fast-fail path; minIterations gates the floor in the
// final verdict.
func (r *convergenceRunner) run(iterations, minIterations, maxIterations int) (bool, error) {
	allConverged := true
	oneStrict := false
	oneSuffices := false

	for _, entry := range r.entries {
		current := entry.Data.Values()
		previous := entry.Data.PreviousIteration()
		if len(previous) != len(current) {
			return false, fmt.Errorf("%w: %s previous iteration size %d does not match current size %d", ErrInternalInvariant, entry.Data.DataName(), len(previous), len(current))
		}
		if err := entry.Measure.Measure(previous, current); err != nil {
			return false, err
		}
		converged := entry.Measure.IsConvergence()
		allConverged = allConverged && converged

		if !converged && entry.Strict {
			if maxIterations != InfiniteMaxIterations && iterations == maxIterations {
				return false, fmt.Errorf("%w: strict convergence measure %q for %s did not converge within %d iterations", ErrStrictNonConverged, entry.Measure.Name(), entry.Data.DataName(), maxIterations)
			}
			oneStrict = true
		}
		if converged && entry.Suffices {
			oneSuffices = true
		}
	}

	reachedMinIterations := iterations >= minIterations
	verdict := reachedMinIterations && (allConverged || (oneSuffices && !oneStrict))
	return verdict, nil
}

func (r *convergenceRunner) resetAll() {
	for _, entry := range r.entries {
		entry.Measure.NewMeasurementSeries()
	}
}

// normReporter is an optional extension a Measure may implement to expose
// the scalar norm behind its verdict, for the convergence log's per-measure
// columns.
type normReporter interface {
	LastNorm() float64
}

// loggedValues returns one entry per Logging-enabled measure that also
// reports a norm, keyed by measure name.
func (r *convergenceRunner) loggedValues() map[string]float64 {
	out := make(map[string]float64)
	for _, entry := range r.entries {
		if !entry.Logging {
			continue
		}
		if reporter, ok := entry.Measure.(normReporter); ok {
			out[entry.Measure.Name()] = reporter.LastNorm()
		}
	}
	return out
}
