package measures

import (
	"fmt"
	"math"
)

// ResidualRelative measures convergence relative to the residual observed on
// the first iteration of the window: ||current - previous|| / ||initialResidual|| <= limit.
// Call NewMeasurementSeries at the start of every window so the reference
// residual is recaptured.
type ResidualRelative struct {
	Limit float64

	initialResidual float64
	lastNorm        float64
	verdict         bool
}

// NewResidualRelative constructs a residual-relative convergence measure.
func NewResidualRelative(limit float64) (*ResidualRelative, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("measures: residual-relative measure limit must be positive, got %v", limit)
	}
	return &ResidualRelative{Limit: limit}, nil
}

func (m *ResidualRelative) Measure(previousIteration, current []float64) error {
	if len(previousIteration) != len(current) {
		return fmt.Errorf("measures: residual-relative measure size mismatch: previous %d, current %d", len(previousIteration), len(current))
	}
	var normSq float64
	for i := range current {
		d := current[i] - previousIteration[i]
		normSq += d * d
	}
	norm := math.Sqrt(normSq)
	if m.initialResidual == 0 {
		m.initialResidual = norm
		if m.initialResidual == 0 {
			m.initialResidual = 1
		}
	}
	m.lastNorm = norm / m.initialResidual
	m.verdict = m.lastNorm <= m.Limit
	return nil
}

func (m *ResidualRelative) IsConvergence() bool { return m.verdict }

// NewMeasurementSeries recaptures the reference residual on the next Measure call.
func (m *ResidualRelative) NewMeasurementSeries() {
	m.initialResidual = 0
	m.lastNorm = 0
	m.verdict = false
}

func (m *ResidualRelative) Name() string { return "residual-relative-convergence" }

func (m *ResidualRelative) LastNorm() float64 { return m.lastNorm }
