package cplscheme

import "errors"

// Base errors distinguishing the three fatal categories in §7 of the design:
// configuration errors (raised at construction), usage errors (raised while
// running), and internal invariant violations (assertions the scheme itself
// must never trigger if callers obey the state machine's contract).
var (
	ErrConfig             = errors.New("cplscheme: configuration error")
	ErrUsage              = errors.New("cplscheme: usage error")
	ErrInternalInvariant  = errors.New("cplscheme: internal invariant violated")
	ErrStrictNonConverged = errors.New("cplscheme: strict convergence measure did not converge")
)
