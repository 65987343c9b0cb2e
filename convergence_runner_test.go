package cplscheme

import "testing"

// fakeMeasure is a Measure test double whose verdict is set directly by the
// test, so convergenceRunner.run's combination logic can be exercised
// without a real numeric measure.
type fakeMeasure struct {
	name       string
	converged  bool
	resetCalls int
}

func (m *fakeMeasure) Measure(previous, current []float64) error { return nil }
func (m *fakeMeasure) IsConvergence() bool                       { return m.converged }
func (m *fakeMeasure) NewMeasurementSeries()                     { m.resetCalls++ }
func (m *fakeMeasure) Name() string                              { return m.name }

func entryFor(m *fakeMeasure, strict, suffices bool) MeasureEntry {
	data := NewVectorData(m.name, Send, 1, 1, false, false, false)
	data.StoreIteration()
	return MeasureEntry{Data: data, Measure: m, Strict: strict, Suffices: suffices}
}

func TestConvergenceRunnerAllMustConvergeByDefault(t *testing.T) {
	a := &fakeMeasure{name: "a", converged: true}
	b := &fakeMeasure{name: "b", converged: false}
	runner := newConvergenceRunner([]MeasureEntry{entryFor(a, false, false), entryFor(b, false, false)})

	verdict, err := runner.run(1, 1, 10)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if verdict {
		t.Fatalf("expected non-convergence when one measure disagrees")
	}
}

func TestConvergenceRunnerSufficesOverridesNonStrictHoldout(t *testing.T) {
	a := &fakeMeasure{name: "a", converged: true}
	b := &fakeMeasure{name: "b", converged: false}
	runner := newConvergenceRunner([]MeasureEntry{entryFor(a, false, true), entryFor(b, false, false)})

	verdict, err := runner.run(1, 1, 10)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !verdict {
		t.Fatalf("expected a suffices-converged measure to override a non-strict holdout")
	}
}

func TestConvergenceRunnerStrictBlocksSufficesVerdict(t *testing.T) {
	a := &fakeMeasure{name: "a", converged: true}
	b := &fakeMeasure{name: "b", converged: false}
	runner := newConvergenceRunner([]MeasureEntry{entryFor(a, false, true), entryFor(b, true, false)})

	verdict, err := runner.run(1, 1, 10)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if verdict {
		t.Fatalf("expected a strict non-converged measure to block the suffices verdict")
	}
}

func TestConvergenceRunnerMinIterationsFloor(t *testing.T) {
	a := &fakeMeasure{name: "a", converged: true}
	runner := newConvergenceRunner([]MeasureEntry{entryFor(a, false, false)})

	verdict, err := runner.run(1, 3, 10)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if verdict {
		t.Fatalf("expected minIterations floor to block convergence before iteration 3")
	}

	verdict, err = runner.run(3, 3, 10)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !verdict {
		t.Fatalf("expected convergence once minIterations is reached")
	}
}

func TestConvergenceRunnerStrictFastFailsAtMaxIterations(t *testing.T) {
	a := &fakeMeasure{name: "a", converged: false}
	runner := newConvergenceRunner([]MeasureEntry{entryFor(a, true, false)})

	_, err := runner.run(5, 1, 5)
	if err == nil {
		t.Fatalf("expected a strict measure stuck at maxIterations to fail")
	}
}

func TestConvergenceRunnerResetAllCallsNewMeasurementSeries(t *testing.T) {
	a := &fakeMeasure{name: "a", converged: true}
	b := &fakeMeasure{name: "b", converged: true}
	runner := newConvergenceRunner([]MeasureEntry{entryFor(a, false, false), entryFor(b, false, false)})

	runner.resetAll()
	if a.resetCalls != 1 || b.resetCalls != 1 {
		t.Fatalf("expected resetAll to call NewMeasurementSeries on every entry, got a=%d b=%d", a.resetCalls, b.resetCalls)
	}
}

func TestConvergenceRunnerLoggedValuesOnlyIncludesLoggingMeasures(t *testing.T) {
	logged := &recordingFakeMeasure{fakeMeasure: fakeMeasure{name: "logged", converged: true}, norm: 0.5}
	silent := &recordingFakeMeasure{fakeMeasure: fakeMeasure{name: "silent", converged: true}, norm: 0.9}

	entryLogged := entryFor(&logged.fakeMeasure, false, false)
	entryLogged.Measure = logged
	entryLogged.Logging = true

	entrySilent := entryFor(&silent.fakeMeasure, false, false)
	entrySilent.Measure = silent
	entrySilent.Logging = false

	runner := newConvergenceRunner([]MeasureEntry{entryLogged, entrySilent})
	values := runner.loggedValues()

	if len(values) != 1 {
		t.Fatalf("expected exactly one logged measure, got %v", values)
	}
	if values["logged"] != 0.5 {
		t.Fatalf("expected logged measure's norm 0.5, got %v", values["logged"])
	}
}

// recordingFakeMeasure additionally implements normReporter.
type recordingFakeMeasure struct {
	fakeMeasure
	norm float64
}

func (m *recordingFakeMeasure) LastNorm() float64 { return m.norm }
