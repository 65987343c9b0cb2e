package cplscheme

// VectorData is the reference CouplingData implementation: a dense
// float64 vector, an optional gradient matrix, and a per-window stample
// trajectory. Participant-facing code in a real deployment would instead
// adapt its own mesh-backed storage to the CouplingData interface; VectorData
// exists so the scheme, its tests, and the demo driver have something
// concrete to exchange.
type VectorData struct {
	name                string
	direction           Direction
	size                int
	meshDimensions      int
	hasGradient         bool
	requiresInit        bool
	exchangeSubsteps    bool
	current             Sample
	previousIteration   []float64
	trajectory          stampleStore
}

// NewVectorData constructs a VectorData of the given size, initialized to
// all zeros (and, if withGradient, an all-zero meshDimensions*size gradient).
func NewVectorData(name string, direction Direction, size, meshDimensions int, withGradient, requiresInit, exchangeSubsteps bool) *VectorData {
	d := &VectorData{
		name:             name,
		direction:        direction,
		size:             size,
		meshDimensions:   meshDimensions,
		hasGradient:      withGradient,
		requiresInit:     requiresInit,
		exchangeSubsteps: exchangeSubsteps,
	}
	d.current.Values = make([]float64, size)
	if withGradient {
		d.current.Gradients = make([]float64, size*meshDimensions)
	}
	d.trajectory.set(0, d.cloneCurrent())
	return d
}

func (d *VectorData) cloneCurrent() Sample {
	s := Sample{Values: append([]float64(nil), d.current.Values...)}
	if d.hasGradient {
		s.Gradients = append([]float64(nil), d.current.Gradients...)
	}
	return s
}

func (d *VectorData) DataName() string              { return d.name }
func (d *VectorData) Direction() Direction           { return d.direction }
func (d *VectorData) Size() int                      { return d.size }
func (d *VectorData) MeshDimensions() int            { return d.meshDimensions }
func (d *VectorData) HasGradient() bool              { return d.hasGradient }
func (d *VectorData) RequiresInitialization() bool   { return d.requiresInit }
func (d *VectorData) ExchangeSubsteps() bool         { return d.exchangeSubsteps }

func (d *VectorData) Values() []float64 { return d.current.Values }

func (d *VectorData) SetValues(values []float64) {
	d.current.Values = values
	d.trajectory.set(d.latestTime(), d.cloneCurrent())
}

func (d *VectorData) Gradients() []float64 {
	if !d.hasGradient {
		return nil
	}
	return d.current.Gradients
}

func (d *VectorData) SetGradients(gradients []float64) {
	d.current.Gradients = gradients
	d.trajectory.set(d.latestTime(), d.cloneCurrent())
}

func (d *VectorData) Stamples() []Stample {
	return d.trajectory.all()
}

func (d *VectorData) SetSampleAtTime(time float64, sample Sample) {
	d.trajectory.set(time, sample)
	if last, ok := d.trajectory.last(); ok && equals(last.Time, time) {
		d.current = sample
	}
}

func (d *VectorData) StoreIteration() {
	d.previousIteration = append([]float64(nil), d.current.Values...)
}

func (d *VectorData) PreviousIteration() []float64 {
	return d.previousIteration
}

func (d *VectorData) MoveToNextWindow() {
	last, ok := d.trajectory.last()
	if !ok {
		return
	}
	d.current = last.Sample
	d.trajectory.resetTo(d.cloneCurrent())
}

func (d *VectorData) latestTime() float64 {
	if last, ok := d.trajectory.last(); ok {
		return last.Time
	}
	return 0
}
