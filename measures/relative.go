// Package measures provides reference convergence-measure kernels and a
// named registry for constructing them from configuration, so callers never
// hardcode a measure type into the scheme wiring.
package measures

import (
	"fmt"
	"math"
)

// Relative measures convergence as the relative norm of the iteration
// difference: ||current - previous|| / ||current|| <= limit.
type Relative struct {
	Limit float64

	lastNorm float64
	verdict  bool
}

// NewRelative constructs a relative convergence measure with the given
// tolerance. limit must be positive.
func NewRelative(limit float64) (*Relative, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("measures: relative measure limit must be positive, got %v", limit)
	}
	return &Relative{Limit: limit}, nil
}

func (m *Relative) Measure(previousIteration, current []float64) error {
	if len(previousIteration) != len(current) {
		return fmt.Errorf("measures: relative measure size mismatch: previous %d, current %d", len(previousIteration), len(current))
	}
	var diffNormSq, curNormSq float64
	for i := range current {
		d := current[i] - previousIteration[i]
		diffNormSq += d * d
		curNormSq += current[i] * current[i]
	}
	curNorm := math.Sqrt(curNormSq)
	if curNorm == 0 {
		curNorm = 1
	}
	m.lastNorm = math.Sqrt(diffNormSq) / curNorm
	m.verdict = m.lastNorm <= m.Limit
	return nil
}

func (m *Relative) IsConvergence() bool { return m.verdict }

func (m *Relative) NewMeasurementSeries() {
	m.lastNorm = 0
	m.verdict = false
}

func (m *Relative) Name() string { return "relative-convergence" }

// LastNorm exposes the most recently computed relative norm, for the
// convergence log's per-measure columns.
func (m *Relative) LastNorm() float64 { return m.lastNorm }
