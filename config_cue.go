package cplscheme

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// optionsSchema is a closed CUE schema mirroring the Options struct fields
// recognized at construction (§6's configuration options table), so a
// malformed config file fails with a CUE error before it ever reaches
// ValidateOptions.
const optionsSchema = `
close({
	maxTime?:          number
	maxTimeWindows?:   int
	timeWindowSize?:   number
	minIterations?:    int
	maxIterations?:    int
	couplingMode:      "explicit" | "implicit"
	localParticipant?: string
})`

// LoadOptionsFromCUE reads and schema-validates a CUE configuration file and
// decodes it into an Options value, running ValidateOptions before
// returning. This is a convenience layer on top of the mandatory Go-level
// validation, not a replacement for it.
func LoadOptionsFromCUE(path string) (Options, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("%w: reading config file: %v", ErrConfig, err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(optionsSchema)
	if err := schema.Err(); err != nil {
		return Options{}, fmt.Errorf("%w: compiling config schema: %v", ErrConfig, err)
	}

	value := ctx.CompileBytes(content, cue.Filename(path))
	if err := value.Err(); err != nil {
		return Options{}, fmt.Errorf("%w: parsing config file: %v", ErrConfig, err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Options{}, fmt.Errorf("%w: config file does not satisfy schema: %v", ErrConfig, err)
	}

	var raw struct {
		MaxTime          float64 `json:"maxTime"`
		MaxTimeWindows   int     `json:"maxTimeWindows"`
		TimeWindowSize   float64 `json:"timeWindowSize"`
		MinIterations    int     `json:"minIterations"`
		MaxIterations    int     `json:"maxIterations"`
		CouplingMode     string  `json:"couplingMode"`
		LocalParticipant string  `json:"localParticipant"`
	}
	if err := unified.Decode(&raw); err != nil {
		return Options{}, fmt.Errorf("%w: decoding config file: %v", ErrConfig, err)
	}

	opt := Options{
		MaxTime:          raw.MaxTime,
		MaxTimeWindows:   raw.MaxTimeWindows,
		TimeWindowSize:   raw.TimeWindowSize,
		MinIterations:    raw.MinIterations,
		MaxIterations:    raw.MaxIterations,
		LocalParticipant: raw.LocalParticipant,
	}
	switch raw.CouplingMode {
	case "implicit":
		opt.Mode = Implicit
	default:
		opt.Mode = Explicit
	}

	if err := ValidateOptions(&opt); err != nil {
		return Options{}, err
	}
	return opt, nil
}
