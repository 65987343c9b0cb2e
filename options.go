package cplscheme

import "fmt"

// Options configures a Scheme at construction time. Zero values for the
// limit fields mean "use the matching Undefined* sentinel"; callers that
// want an explicit unlimited run should set the sentinel themselves so the
// intent is visible at the call site, mirroring the teacher's
// ValidateConfig, which fills in defaults only for genuinely optional knobs
// and rejects anything structurally wrong.
type Options struct {
	// MaxTime ends the simulation once time reaches it. UndefinedTime disables the limit.
	MaxTime float64
	// MaxTimeWindows ends the simulation once that many windows have been completed. UndefinedTimeWindows disables the limit.
	MaxTimeWindows int
	// TimeWindowSize is the fixed window size. UndefinedTimeWindowSize means the window size is dictated by the peer (one solver step per window).
	TimeWindowSize float64
	// MinIterations is a hard floor on iterations per window. Implicit-only.
	MinIterations int
	// MaxIterations is a hard ceiling on iterations per window. InfiniteMaxIterations means unlimited. Implicit-only.
	MaxIterations int
	// Mode selects Explicit or Implicit coupling.
	Mode Mode
	// LocalParticipant names this process for log filenames.
	LocalParticipant string
}

// ValidateOptions applies the structural checks from the design's
// configuration-error list and fills in the sentinel defaults a caller left
// at the Go zero value. It returns an error wrapping ErrConfig on failure.
func ValidateOptions(opt *Options) error {
	if opt == nil {
		return fmt.Errorf("%w: options is nil", ErrConfig)
	}

	if opt.MaxTime == 0 {
		opt.MaxTime = UndefinedTime
	}
	if opt.TimeWindowSize == 0 {
		opt.TimeWindowSize = UndefinedTimeWindowSize
	}
	if opt.MaxTimeWindows == 0 {
		opt.MaxTimeWindows = UndefinedTimeWindows
	}
	if opt.LocalParticipant == "" {
		opt.LocalParticipant = "participant"
	}

	if opt.MaxTime != UndefinedTime && opt.MaxTime < 0.0 {
		return fmt.Errorf("%w: maxTime must be larger than zero, got %v", ErrConfig, opt.MaxTime)
	}
	if opt.MaxTimeWindows != UndefinedTimeWindows && opt.MaxTimeWindows < 0 {
		return fmt.Errorf("%w: maxTimeWindows must be larger than zero, got %d", ErrConfig, opt.MaxTimeWindows)
	}
	hasWindowSize := opt.TimeWindowSize != UndefinedTimeWindowSize
	if hasWindowSize && opt.TimeWindowSize < 0.0 {
		return fmt.Errorf("%w: timeWindowSize must be larger than zero, got %v", ErrConfig, opt.TimeWindowSize)
	}

	switch opt.Mode {
	case Explicit:
		if opt.MinIterations != 0 && opt.MinIterations != UndefinedMinIterations {
			return fmt.Errorf("%w: minIterations must not be set for explicit coupling", ErrConfig)
		}
		if opt.MaxIterations != 0 && opt.MaxIterations != UndefinedMaxIterations {
			return fmt.Errorf("%w: maxIterations must not be set for explicit coupling", ErrConfig)
		}
		opt.MinIterations = UndefinedMinIterations
		opt.MaxIterations = UndefinedMaxIterations
	case Implicit:
		if opt.MinIterations <= 0 {
			return fmt.Errorf("%w: minIterations must be larger than zero for implicit coupling, got %d", ErrConfig, opt.MinIterations)
		}
		if opt.MaxIterations == 0 {
			return fmt.Errorf("%w: maxIterations must be set for implicit coupling", ErrConfig)
		}
		if opt.MaxIterations != InfiniteMaxIterations && opt.MaxIterations <= 0 {
			return fmt.Errorf("%w: maxIterations must be larger than zero or %d (unlimited), got %d", ErrConfig, InfiniteMaxIterations, opt.MaxIterations)
		}
		if opt.MaxIterations != InfiniteMaxIterations && opt.MinIterations > opt.MaxIterations {
			return fmt.Errorf("%w: minIterations (%d) must be smaller or equal to maxIterations (%d)", ErrConfig, opt.MinIterations, opt.MaxIterations)
		}
	default:
		return fmt.Errorf("%w: unknown coupling mode %v", ErrConfig, opt.Mode)
	}

	return nil
}

func (opt Options) hasTimeWindowSize() bool {
	return opt.TimeWindowSize != UndefinedTimeWindowSize
}
