package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Readm/cplscheme"
	"github.com/Readm/cplscheme/internal/testsupport"
	"github.com/Readm/cplscheme/logs"
	"github.com/Readm/cplscheme/measures"
	"github.com/Readm/cplscheme/memtransport"
	"github.com/Readm/cplscheme/plotconv"
)

func main() {
	mode := flag.String("mode", "explicit-serial", "coupling mode: explicit-serial, explicit-parallel, implicit-serial, implicit-parallel")
	maxTime := flag.Float64("max-time", 1.0, "simulation end time")
	windowSize := flag.Float64("window-size", 0.25, "fixed time window size")
	maxIterations := flag.Int("max-iterations", 10, "implicit max iterations per window")
	dataSize := flag.Int("data-size", 3, "dense vector length of the exchanged data")
	iterLogPath := flag.String("iterations-log", "", "path to write the per-window iterations CSV log (implicit modes only)")
	convLogPath := flag.String("convergence-log", "", "path to write the per-iteration convergence CSV log (implicit modes only)")
	plotPath := flag.String("plot", "", "path to write a convergence-history PNG (implicit modes only)")
	flag.Parse()

	if err := run(demoConfig{
		mode:          *mode,
		maxTime:       *maxTime,
		windowSize:    *windowSize,
		maxIterations: *maxIterations,
		dataSize:      *dataSize,
		iterLogPath:   *iterLogPath,
		convLogPath:   *convLogPath,
		plotPath:      *plotPath,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "cplscheme-demo:", err)
		os.Exit(1)
	}
}

type demoConfig struct {
	mode          string
	maxTime       float64
	windowSize    float64
	maxIterations int
	dataSize      int
	iterLogPath   string
	convLogPath   string
	plotPath      string
}

// recordingMeasure wraps a cplscheme.Measure and remembers every norm it
// reports, so the demo can render a convergence-history plot after the run
// without the core scheme needing to know plotting exists.
type recordingMeasure struct {
	*measures.Relative
	history []float64
}

func (m *recordingMeasure) Measure(previous, current []float64) error {
	if err := m.Relative.Measure(previous, current); err != nil {
		return err
	}
	m.history = append(m.history, m.Relative.LastNorm())
	return nil
}

func run(cfg demoConfig) error {
	chA, chB := memtransport.NewPair(context.Background())

	dataOnA := cplscheme.NewVectorData("displacements", cplscheme.Send, cfg.dataSize, 3, false, false, false)
	dataOnB := cplscheme.NewVectorData("displacements", cplscheme.Receive, cfg.dataSize, 3, false, false, false)

	regA := cplscheme.NewRegistry()
	regB := cplscheme.NewRegistry()
	if err := regA.Add(0, dataOnA); err != nil {
		return err
	}
	if err := regB.Add(0, dataOnB); err != nil {
		return err
	}

	opt := cplscheme.Options{
		MaxTime:          cfg.maxTime,
		TimeWindowSize:   cfg.windowSize,
		LocalParticipant: "A",
	}
	optB := opt
	optB.LocalParticipant = "B"

	var iterLog cplscheme.IterationLogSink
	var convLog cplscheme.ConvergenceLogSink
	if cfg.iterLogPath != "" {
		f, err := os.Create(cfg.iterLogPath)
		if err != nil {
			return err
		}
		defer f.Close()
		iterLog = logs.NewIterationLog(f)
	}
	if cfg.convLogPath != "" {
		f, err := os.Create(cfg.convLogPath)
		if err != nil {
			return err
		}
		defer f.Close()
		convLog = logs.NewConvergenceLog(f, []string{"relative-convergence"})
	}

	var schemeA, schemeB *cplscheme.Scheme
	var recorder *recordingMeasure
	var err error

	switch cfg.mode {
	case "explicit-serial":
		opt.Mode, optB.Mode = cplscheme.Explicit, cplscheme.Explicit
		schemeA, err = cplscheme.NewExplicitSerial(opt, regA, chA, true)
		if err == nil {
			schemeB, err = cplscheme.NewExplicitSerial(optB, regB, chB, false)
		}
	case "explicit-parallel":
		opt.Mode, optB.Mode = cplscheme.Explicit, cplscheme.Explicit
		schemeA, err = cplscheme.NewExplicitParallel(opt, regA, chA, true)
		if err == nil {
			schemeB, err = cplscheme.NewExplicitParallel(optB, regB, chB, false)
		}
	case "implicit-serial", "implicit-parallel":
		opt.Mode, optB.Mode = cplscheme.Implicit, cplscheme.Implicit
		opt.MinIterations, optB.MinIterations = 1, 1
		opt.MaxIterations, optB.MaxIterations = cfg.maxIterations, cfg.maxIterations

		relative, merr := measures.NewRelative(1e-6)
		if merr != nil {
			return merr
		}
		recorder = &recordingMeasure{Relative: relative}
		entriesB := []cplscheme.MeasureEntry{{Data: dataOnB, Measure: recorder, Suffices: true, Logging: true}}

		newFn := cplscheme.NewImplicitSerial
		if cfg.mode == "implicit-parallel" {
			newFn = cplscheme.NewImplicitParallel
		}
		schemeA, err = newFn(opt, regA, chA, true, nil, nil, iterLog, nil)
		if err == nil {
			schemeB, err = newFn(optB, regB, chB, false, entriesB, nil, nil, convLog)
		}
	default:
		return fmt.Errorf("unknown mode %q", cfg.mode)
	}
	if err != nil {
		return err
	}

	loop := func(s *cplscheme.Scheme, step float64) testsupport.ParticipantLoop {
		return func(ctx context.Context) error {
			if err := s.Initialize(0, 0); err != nil {
				return err
			}
			if s.RequiresWritingCheckpoint() {
				if err := s.MarkActionFulfilled(cplscheme.WriteCheckpoint); err != nil {
					return err
				}
			}
			for s.IsCouplingOngoing() {
				dt := step
				if s.GetNextTimeStepMaxSize() < dt {
					dt = s.GetNextTimeStepMaxSize()
				}
				if err := s.AddComputedTime(dt); err != nil {
					return err
				}
				if err := s.Advance(); err != nil {
					return err
				}
				if s.RequiresWritingCheckpoint() {
					if err := s.MarkActionFulfilled(cplscheme.WriteCheckpoint); err != nil {
						return err
					}
				}
				if s.RequiresReadingCheckpoint() {
					if err := s.MarkActionFulfilled(cplscheme.ReadCheckpoint); err != nil {
						return err
					}
				}
			}
			return s.Finalize()
		}
	}

	if err := testsupport.RunParticipants(context.Background(), loop(schemeA, cfg.windowSize), loop(schemeB, cfg.windowSize)); err != nil {
		return err
	}

	fmt.Printf("completed %d windows, totalIterations(A)=%d final time=%.6f\n", schemeA.Windows(), schemeA.TotalIterations(), schemeA.GetTime())

	if cfg.plotPath != "" && recorder != nil {
		if err := plotconv.RenderHistory("convergence history", cfg.plotPath, []plotconv.Series{{Name: recorder.Name(), Values: recorder.history}}); err != nil {
			return err
		}
	}
	return nil
}
