package measures

import (
	"fmt"
	"math"
)

// Absolute measures convergence as the absolute norm of the iteration
// difference: ||current - previous|| <= limit.
type Absolute struct {
	Limit float64

	lastNorm float64
	verdict  bool
}

// NewAbsolute constructs an absolute convergence measure with the given tolerance.
func NewAbsolute(limit float64) (*Absolute, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("measures: absolute measure limit must be positive, got %v", limit)
	}
	return &Absolute{Limit: limit}, nil
}

func (m *Absolute) Measure(previousIteration, current []float64) error {
	if len(previousIteration) != len(current) {
		return fmt.Errorf("measures: absolute measure size mismatch: previous %d, current %d", len(previousIteration), len(current))
	}
	var normSq float64
	for i := range current {
		d := current[i] - previousIteration[i]
		normSq += d * d
	}
	m.lastNorm = math.Sqrt(normSq)
	m.verdict = m.lastNorm <= m.Limit
	return nil
}

func (m *Absolute) IsConvergence() bool { return m.verdict }

func (m *Absolute) NewMeasurementSeries() {
	m.lastNorm = 0
	m.verdict = false
}

func (m *Absolute) Name() string { return "absolute-convergence" }

func (m *Absolute) LastNorm() float64 { return m.lastNorm }
