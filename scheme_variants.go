package cplscheme

import "fmt"

// NewExplicitParallel constructs a scheme where both participants exchange
// all data symmetrically at each window boundary and proceed without
// iterating.
func NewExplicitParallel(opt Options, registry *Registry, channel Channel, doesFirstStep bool) (*Scheme, error) {
	if opt.Mode != Explicit {
		return nil, fmt.Errorf("%w: NewExplicitParallel requires explicit coupling mode", ErrConfig)
	}
	return NewScheme(opt, registry, channel, doesFirstStep, parallelVariant{}, nil, nil, nil, nil)
}

// NewExplicitSerial constructs a scheme where the first-step participant
// sends its result before the second-step participant advances, and
// receives the second-step participant's result once ready.
func NewExplicitSerial(opt Options, registry *Registry, channel Channel, doesFirstStep bool) (*Scheme, error) {
	if opt.Mode != Explicit {
		return nil, fmt.Errorf("%w: NewExplicitSerial requires explicit coupling mode", ErrConfig)
	}
	return NewScheme(opt, registry, channel, doesFirstStep, serialVariant{}, nil, nil, nil, nil)
}

// NewImplicitParallel constructs a scheme where both participants exchange
// all data symmetrically and repeat the window, driven by entries and
// accelerator, until the convergence verdict (computed by the non-first-step
// participant and relayed to the other) is reached.
func NewImplicitParallel(opt Options, registry *Registry, channel Channel, doesFirstStep bool, entries []MeasureEntry, accelerator Accelerator, iterLog IterationLogSink, convLog ConvergenceLogSink) (*Scheme, error) {
	if opt.Mode != Implicit {
		return nil, fmt.Errorf("%w: NewImplicitParallel requires implicit coupling mode", ErrConfig)
	}
	return NewScheme(opt, registry, channel, doesFirstStep, parallelVariant{}, entries, accelerator, iterLog, convLog)
}

// NewImplicitSerial constructs a scheme with the serial send/receive
// ordering of NewExplicitSerial, repeating the window under the same
// convergence protocol as NewImplicitParallel.
func NewImplicitSerial(opt Options, registry *Registry, channel Channel, doesFirstStep bool, entries []MeasureEntry, accelerator Accelerator, iterLog IterationLogSink, convLog ConvergenceLogSink) (*Scheme, error) {
	if opt.Mode != Implicit {
		return nil, fmt.Errorf("%w: NewImplicitSerial requires implicit coupling mode", ErrConfig)
	}
	return NewScheme(opt, registry, channel, doesFirstStep, serialVariant{}, entries, accelerator, iterLog, convLog)
}
