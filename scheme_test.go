package cplscheme

import "testing"

func TestNewSchemeRejectsNilCollaborators(t *testing.T) {
	opt := Options{Mode: Explicit, MaxTime: 1.0, TimeWindowSize: 0.5}
	reg := NewRegistry()
	ch := &loopbackChannel{}

	if _, err := NewScheme(opt, nil, ch, true, parallelVariant{}, nil, nil, nil, nil); err == nil {
		t.Fatalf("expected error for nil registry")
	}
	if _, err := NewScheme(opt, reg, nil, true, parallelVariant{}, nil, nil, nil, nil); err == nil {
		t.Fatalf("expected error for nil channel")
	}
	if _, err := NewScheme(opt, reg, ch, true, nil, nil, nil, nil, nil); err == nil {
		t.Fatalf("expected error for nil variant")
	}
}

func TestSchemeVariantConstructorsRejectWrongMode(t *testing.T) {
	reg := NewRegistry()
	ch := &loopbackChannel{}

	implicitOpt := Options{Mode: Implicit, MaxTime: 1.0, TimeWindowSize: 0.5, MinIterations: 1, MaxIterations: 5}
	if _, err := NewExplicitParallel(implicitOpt, reg, ch, true); err == nil {
		t.Fatalf("expected NewExplicitParallel to reject implicit options")
	}

	explicitOpt := Options{Mode: Explicit, MaxTime: 1.0, TimeWindowSize: 0.5}
	if _, err := NewImplicitSerial(explicitOpt, reg, ch, true, nil, nil, nil, nil); err == nil {
		t.Fatalf("expected NewImplicitSerial to reject explicit options")
	}
}

func TestSchemeInitializeTwiceIsUsageError(t *testing.T) {
	opt := Options{Mode: Explicit, MaxTime: 1.0, TimeWindowSize: 0.5}
	s, err := NewExplicitParallel(opt, NewRegistry(), &loopbackChannel{}, true)
	if err != nil {
		t.Fatalf("NewExplicitParallel: %v", err)
	}
	if err := s.Initialize(0, 0); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := s.Initialize(0, 0); err == nil {
		t.Fatalf("expected error re-initializing an already-initialized scheme")
	}
}

func TestSchemeAdvanceBeforeInitializeIsUsageError(t *testing.T) {
	opt := Options{Mode: Explicit, MaxTime: 1.0, TimeWindowSize: 0.5}
	s, err := NewExplicitParallel(opt, NewRegistry(), &loopbackChannel{}, true)
	if err != nil {
		t.Fatalf("NewExplicitParallel: %v", err)
	}
	if err := s.Advance(); err == nil {
		t.Fatalf("expected error calling Advance before Initialize")
	}
}

func TestSchemeAddComputedTimeRejectsOvershoot(t *testing.T) {
	opt := Options{Mode: Explicit, MaxTime: 1.0, TimeWindowSize: 0.5}
	s, err := NewExplicitParallel(opt, NewRegistry(), &loopbackChannel{}, true)
	if err != nil {
		t.Fatalf("NewExplicitParallel: %v", err)
	}
	if err := s.Initialize(0, 0); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := s.AddComputedTime(1.0); err == nil {
		t.Fatalf("expected error overshooting the 0.5-sized window with a 1.0 step")
	}
}

func TestSchemeRequiresWritingCheckpointForImplicit(t *testing.T) {
	opt := Options{Mode: Implicit, MaxTime: 1.0, TimeWindowSize: 0.5, MinIterations: 1, MaxIterations: 5}
	measure := &fakeMeasure{name: "m", converged: true}
	data := NewVectorData("x", Send, 1, 1, false, false, false)
	entries := []MeasureEntry{{Data: data, Measure: measure, Suffices: true}}

	reg := NewRegistry()
	if err := reg.Add(0, data); err != nil {
		t.Fatalf("Add: %v", err)
	}

	s, err := NewImplicitSerial(opt, reg, &loopbackChannel{}, false, entries, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewImplicitSerial: %v", err)
	}
	if err := s.Initialize(0, 0); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !s.RequiresWritingCheckpoint() {
		t.Fatalf("expected implicit scheme to require an initial WriteCheckpoint")
	}
}

func TestSchemeMarkActionFulfilledRejectsUnrequired(t *testing.T) {
	opt := Options{Mode: Explicit, MaxTime: 1.0, TimeWindowSize: 0.5}
	s, err := NewExplicitParallel(opt, NewRegistry(), &loopbackChannel{}, true)
	if err != nil {
		t.Fatalf("NewExplicitParallel: %v", err)
	}
	if err := s.MarkActionFulfilled(WriteCheckpoint); err == nil {
		t.Fatalf("expected error fulfilling an action never required")
	}
}

func TestSchemeIsCouplingOngoingRespectsMaxTimeAndWindows(t *testing.T) {
	opt := Options{Mode: Explicit, MaxTime: 1.0, TimeWindowSize: 0.5, MaxTimeWindows: 1}
	s, err := NewExplicitParallel(opt, NewRegistry(), &loopbackChannel{}, true)
	if err != nil {
		t.Fatalf("NewExplicitParallel: %v", err)
	}
	if err := s.Initialize(0, 0); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !s.IsCouplingOngoing() {
		t.Fatalf("expected coupling ongoing before any window completes")
	}
	if err := s.AddComputedTime(0.5); err != nil {
		t.Fatalf("AddComputedTime: %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if s.IsCouplingOngoing() {
		t.Fatalf("expected coupling to end after maxTimeWindows=1 windows, time=%v", s.GetTime())
	}

	timeOpt := Options{Mode: Explicit, MaxTime: 0.5, TimeWindowSize: 0.5}
	s, err = NewExplicitParallel(timeOpt, NewRegistry(), &loopbackChannel{}, true)
	if err != nil {
		t.Fatalf("NewExplicitParallel: %v", err)
	}
	if err := s.Initialize(0, 0); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := s.AddComputedTime(0.5); err != nil {
		t.Fatalf("AddComputedTime: %v", err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if s.IsCouplingOngoing() {
		t.Fatalf("expected coupling to end once time reaches maxTime=0.5")
	}
}

func TestSchemeHooksAreReachable(t *testing.T) {
	opt := Options{Mode: Explicit, MaxTime: 1.0, TimeWindowSize: 0.5}
	s, err := NewExplicitParallel(opt, NewRegistry(), &loopbackChannel{}, true)
	if err != nil {
		t.Fatalf("NewExplicitParallel: %v", err)
	}
	if s.Hooks() == nil {
		t.Fatalf("expected a non-nil hook broker")
	}
}
