package cplscheme

import "testing"

func TestValidateOptionsExplicitRejectsIterationFields(t *testing.T) {
	opt := Options{Mode: Explicit, MaxTime: 1.0, TimeWindowSize: 0.1, MinIterations: 3}
	if err := ValidateOptions(&opt); err == nil {
		t.Fatalf("expected error when minIterations is set for explicit coupling")
	}
}

func TestValidateOptionsImplicitRequiresIterationBounds(t *testing.T) {
	opt := Options{Mode: Implicit, MaxTime: 1.0, TimeWindowSize: 0.1}
	if err := ValidateOptions(&opt); err == nil {
		t.Fatalf("expected error when minIterations is unset for implicit coupling")
	}

	opt = Options{Mode: Implicit, MaxTime: 1.0, TimeWindowSize: 0.1, MinIterations: 5, MaxIterations: 2}
	if err := ValidateOptions(&opt); err == nil {
		t.Fatalf("expected error when minIterations exceeds maxIterations")
	}

	opt = Options{Mode: Implicit, MaxTime: 1.0, TimeWindowSize: 0.1, MinIterations: 1, MaxIterations: InfiniteMaxIterations}
	if err := ValidateOptions(&opt); err != nil {
		t.Fatalf("expected InfiniteMaxIterations to be accepted, got %v", err)
	}
}

func TestValidateOptionsFillsSentinelDefaults(t *testing.T) {
	opt := Options{Mode: Explicit}
	if err := ValidateOptions(&opt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.MaxTime != UndefinedTime {
		t.Fatalf("expected zero MaxTime to default to UndefinedTime, got %v", opt.MaxTime)
	}
	if opt.TimeWindowSize != UndefinedTimeWindowSize {
		t.Fatalf("expected zero TimeWindowSize to default to UndefinedTimeWindowSize, got %v", opt.TimeWindowSize)
	}
	if opt.LocalParticipant != "participant" {
		t.Fatalf("expected default LocalParticipant, got %q", opt.LocalParticipant)
	}
}

func TestValidateOptionsRejectsNegativeMaxTime(t *testing.T) {
	opt := Options{Mode: Explicit, MaxTime: -2.0}
	if err := ValidateOptions(&opt); err == nil {
		t.Fatalf("expected error for negative maxTime")
	}
}

func TestValidateOptionsRejectsUnknownMode(t *testing.T) {
	opt := Options{Mode: Mode(99)}
	if err := ValidateOptions(&opt); err == nil {
		t.Fatalf("expected error for unknown coupling mode")
	}
}
