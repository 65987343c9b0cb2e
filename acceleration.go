package cplscheme

// Accelerator is the opaque quasi-Newton post-processor the scheme invokes
// between non-converged iterations. Its internal algorithm (IQN-ILS,
// Broyden, Aitken, ...) is entirely out of scope; the scheme only ever
// hands it the acceleration-data set and lets it mutate current values in
// place.
type Accelerator interface {
	// PerformAcceleration is called once per non-converged iteration with
	// the end-of-window data currently staged for acceleration. Implementations
	// mutate each CouplingData's values in place (via SetValues).
	PerformAcceleration(data []CouplingData) error

	// IterationsConverged is called once a window converges, letting the
	// accelerator reset its column history for the next window.
	IterationsConverged(data []CouplingData)
}

// NoopAccelerator is the zero-value accelerator: it leaves every data
// untouched. Schemes configured without an accelerator use it so the
// adapter logic below never needs a nil check.
type NoopAccelerator struct{}

func (NoopAccelerator) PerformAcceleration(data []CouplingData) error { return nil }
func (NoopAccelerator) IterationsConverged(data []CouplingData)       {}

// accelerationAdapter snapshots end-of-window values, invokes the
// accelerator, and writes the result back into storage, per §4.5. Only
// end-of-window data is accelerated; in-window stamples are left untouched
// (full waveform acceleration is an acknowledged future extension).
type accelerationAdapter struct {
	accelerator       Accelerator
	accelerationData  []CouplingData
}

func newAccelerationAdapter(accelerator Accelerator, data []CouplingData) *accelerationAdapter {
	if accelerator == nil {
		accelerator = NoopAccelerator{}
	}
	return &accelerationAdapter{accelerator: accelerator, accelerationData: data}
}

// onNonConvergence loads each acceleration-data's current sample from its
// last stample, runs the accelerator, and writes results back at the given
// time.
func (a *accelerationAdapter) onNonConvergence(time float64) error {
	for _, data := range a.accelerationData {
		last, ok := lastStample(data)
		if !ok {
			continue
		}
		data.SetValues(last.Sample.Values)
		if data.HasGradient() {
			data.SetGradients(last.Sample.Gradients)
		}
	}
	if err := a.accelerator.PerformAcceleration(a.accelerationData); err != nil {
		return err
	}
	for _, data := range a.accelerationData {
		sample := Sample{Values: data.Values()}
		if data.HasGradient() {
			sample.Gradients = data.Gradients()
		}
		data.SetSampleAtTime(time, sample)
	}
	return nil
}

// onConvergence resets the accelerator's column history and every
// measure's internal series tracker.
func (a *accelerationAdapter) onConvergence(runner *convergenceRunner) {
	a.accelerator.IterationsConverged(a.accelerationData)
	if runner != nil {
		runner.resetAll()
	}
}
