package cplscheme

import (
	"fmt"
	"math"

	"github.com/Readm/cplscheme/hooks"
)

// variant supplies the three hooks that differ between explicit/implicit and
// parallel/serial coupling (§4.8, §9's "re-architect as explicit strategy
// interfaces" note). The base Scheme owns every other part of the state
// machine; a variant only decides the order of sends/receives and who
// decides convergence.
type variant interface {
	exchangeInitialData(s *Scheme) error
	exchangeFirstData(s *Scheme) error
	exchangeSecondData(s *Scheme) error
}

// Scheme is the coupling-scheme state machine (C7). One instance is owned by
// exactly one participant process and mutated only by that process's calling
// thread; see §5 for the concurrency model.
type Scheme struct {
	opt     Options
	variant variant

	registry *Registry
	channel  Channel
	ledger   *actionLedger
	runner   *convergenceRunner
	accel    *accelerationAdapter

	iterLog IterationLogSink
	convLog ConvergenceLogSink
	hooks   *hooks.Broker

	time            TimeAccumulator
	windowStartTime TimeAccumulator
	timeWindowSize  float64
	nextTimeWindowSize float64

	windows         int
	iterations      int
	totalIterations int

	doesFirstStep            bool
	isInitialized            bool
	isTimeWindowComplete     bool
	hasDataBeenReceived      bool
	hasConverged             bool
	sendsInitializedData     bool
	receivesInitializedData  bool
}

// NewScheme constructs a Scheme. variantStrategy selects the coupling
// variant (see NewExplicitParallel, NewExplicitSerial, NewImplicitParallel,
// NewImplicitSerial); entries and accelerator are ignored for explicit
// coupling.
func NewScheme(opt Options, registry *Registry, channel Channel, doesFirstStep bool, variantStrategy variant, entries []MeasureEntry, accelerator Accelerator, iterLog IterationLogSink, convLog ConvergenceLogSink) (*Scheme, error) {
	if err := ValidateOptions(&opt); err != nil {
		return nil, err
	}
	if registry == nil {
		return nil, fmt.Errorf("%w: registry is nil", ErrConfig)
	}
	if channel == nil {
		return nil, fmt.Errorf("%w: channel is nil", ErrConfig)
	}
	if variantStrategy == nil {
		return nil, fmt.Errorf("%w: variant is nil", ErrConfig)
	}

	s := &Scheme{
		opt:                opt,
		variant:            variantStrategy,
		registry:           registry,
		channel:            channel,
		ledger:             newActionLedger(),
		runner:             newConvergenceRunner(entries),
		doesFirstStep:      doesFirstStep,
		timeWindowSize:     opt.TimeWindowSize,
		nextTimeWindowSize: opt.TimeWindowSize,
		iterations:         1,
		totalIterations:    0,
		iterLog:            iterLog,
		convLog:            convLog,
		hooks:              hooks.NewBroker(),
	}

	accelData := make([]CouplingData, 0)
	for _, e := range entries {
		accelData = append(accelData, e.Data)
	}
	s.accel = newAccelerationAdapter(accelerator, accelData)

	s.sendsInitializedData = registry.RequiresInitialization() && doesFirstStep
	s.receivesInitializedData = registry.RequiresInitialization() && !doesFirstStep

	return s, nil
}

// Hooks returns the scheme's lifecycle hook broker, so callers can attach
// logging, metrics, or visualization observers without the scheme knowing
// about any of them.
func (s *Scheme) Hooks() *hooks.Broker { return s.hooks }

// Mode reports the coupling mode this scheme was constructed with.
func (s *Scheme) Mode() Mode { return s.opt.Mode }

// DoesFirstStep reports whether this participant sends first / decides the
// initial convergence flag receiver role.
func (s *Scheme) DoesFirstStep() bool { return s.doesFirstStep }

// IsInitialized reports whether Initialize has completed.
func (s *Scheme) IsInitialized() bool { return s.isInitialized }

// IsTimeWindowComplete reports whether the most recent Advance finished a window.
func (s *Scheme) IsTimeWindowComplete() bool { return s.isTimeWindowComplete }

// HasDataBeenReceived reports whether any exchange has received data so far.
func (s *Scheme) HasDataBeenReceived() bool { return s.hasDataBeenReceived }

// HasConverged reports the convergence verdict of the most recent implicit iteration.
func (s *Scheme) HasConverged() bool { return s.hasConverged }

// Windows returns the number of time windows completed so far, counted from
// the startWindow passed to Initialize. A non-converged implicit iteration
// does not count.
func (s *Scheme) Windows() int { return s.windows }

// Iterations returns the 1-based iteration count within the current window (implicit only).
func (s *Scheme) Iterations() int { return s.iterations }

// TotalIterations returns the monotonically non-decreasing total iteration count.
func (s *Scheme) TotalIterations() int { return s.totalIterations }

// GetTime returns the current accumulated time.
func (s *Scheme) GetTime() float64 { return s.time.Read() }

// GetWindowStartTime returns the start time of the current window.
func (s *Scheme) GetWindowStartTime() float64 { return s.windowStartTime.Read() }

// RequiresWritingCheckpoint reports whether the participant must write a checkpoint before the next synchronization.
func (s *Scheme) RequiresWritingCheckpoint() bool { return s.ledger.isRequired(WriteCheckpoint) }

// RequiresReadingCheckpoint reports whether the participant must rewind to the last checkpoint before the next synchronization.
func (s *Scheme) RequiresReadingCheckpoint() bool { return s.ledger.isRequired(ReadCheckpoint) }

// MarkActionFulfilled records that the participant performed the named action this cycle.
func (s *Scheme) MarkActionFulfilled(a Action) error { return s.ledger.markActionFulfilled(a) }

// IsCouplingOngoing reports whether any configured end condition (maxTime, maxTimeWindows) has not yet been reached.
func (s *Scheme) IsCouplingOngoing() bool {
	timeLeft := s.opt.MaxTime == UndefinedTime || smaller(s.time.Read(), s.opt.MaxTime)
	windowsLeft := s.opt.MaxTimeWindows == UndefinedTimeWindows || s.windows < s.opt.MaxTimeWindows
	return timeLeft && windowsLeft
}

func (s *Scheme) hasTimeWindowSize() bool {
	return s.timeWindowSize != UndefinedTimeWindowSize
}

// windowEnd returns the (possibly maxTime-truncated) end time of the current window.
func (s *Scheme) windowEnd() float64 {
	end := s.windowStartTime.Read() + s.timeWindowSize
	if s.opt.MaxTime != UndefinedTime && s.opt.MaxTime < end {
		end = s.opt.MaxTime
	}
	return end
}

// ReachedEndOfTimeWindow reports whether the accumulated time has reached
// the (possibly truncated) end of the current window.
func (s *Scheme) ReachedEndOfTimeWindow() bool {
	if !s.hasTimeWindowSize() {
		return true
	}
	return equals(s.time.Read(), s.windowEnd())
}

// GetNextTimeStepMaxSize returns the largest dt the participant may still
// advance by without overshooting the current window.
func (s *Scheme) GetNextTimeStepMaxSize() float64 {
	if !s.hasTimeWindowSize() {
		if s.opt.MaxTime == UndefinedTime {
			return math.MaxFloat64
		}
		return s.opt.MaxTime - s.time.Read()
	}
	return s.windowEnd() - s.time.Read()
}

// AddComputedTime accumulates dt into the current time and validates the
// solver did not overshoot the remaining window.
func (s *Scheme) AddComputedTime(dt float64) error {
	if !s.isInitialized {
		return fmt.Errorf("%w: addComputedTime called before initialize", ErrUsage)
	}
	s.time.Add(dt)
	if remaining := s.GetNextTimeStepMaxSize(); remaining < 0 && !equals(remaining, 0) {
		return fmt.Errorf("%w: computed time step overshoots the time window by %v", ErrUsage, -remaining)
	}
	return nil
}

// Initialize prepares the scheme for its first Advance call.
func (s *Scheme) Initialize(startTime float64, startWindow int) error {
	if s.isInitialized {
		return fmt.Errorf("%w: scheme already initialized", ErrUsage)
	}
	if startTime < 0 {
		return fmt.Errorf("%w: startTime must be >= 0, got %v", ErrUsage, startTime)
	}
	if startWindow < 0 {
		return fmt.Errorf("%w: startWindow must be >= 0, got %d", ErrUsage, startWindow)
	}

	s.windowStartTime.Reset()
	s.windowStartTime.Add(startTime)
	s.time.Reset()
	s.time.Add(startTime)
	s.windows = startWindow
	s.hasDataBeenReceived = false

	if s.opt.Mode == Implicit {
		for _, d := range s.registry.AllData() {
			d.StoreIteration()
		}
		s.ledger.requireAction(WriteCheckpoint)
	}

	if err := s.variant.exchangeInitialData(s); err != nil {
		return err
	}

	s.isInitialized = true
	return nil
}

// Advance drives one cooperative cycle: it checks action completeness, and
// if the accumulated time has reached the window boundary, exchanges data
// through both phases and, for implicit coupling, iterates the convergence
// decision.
func (s *Scheme) Advance() error {
	if !s.isInitialized {
		return fmt.Errorf("%w: advance called before initialize", ErrUsage)
	}
	if err := s.ledger.checkCompletenessRequiredActions(); err != nil {
		return err
	}
	if !s.ReachedEndOfTimeWindow() {
		return nil
	}

	s.windows++
	if err := s.variant.exchangeFirstData(s); err != nil {
		return err
	}
	if err := s.secondExchange(); err != nil {
		return err
	}
	if s.isTimeWindowComplete {
		s.moveToNextWindow()
	}
	return nil
}

func (s *Scheme) secondExchange() error {
	if err := s.variant.exchangeSecondData(s); err != nil {
		return err
	}

	if s.opt.Mode == Implicit {
		if err := s.doImplicitStep(); err != nil {
			return err
		}
		_ = s.hooks.EmitIterationComplete(&hooks.IterationContext{
			TimeWindow:      s.windows,
			Iteration:       s.iterations,
			TotalIterations: s.totalIterations,
			Converged:       s.hasConverged,
		})
		for _, d := range s.registry.AllData() {
			d.StoreIteration()
		}
		if !s.hasConverged {
			s.ledger.requireAction(ReadCheckpoint)
			s.windows--
			s.isTimeWindowComplete = false
			s.iterations++
			s.totalIterations++
		} else {
			s.isTimeWindowComplete = true
			if s.IsCouplingOngoing() {
				s.ledger.requireAction(WriteCheckpoint)
			}
			s.logIteration()
			s.iterations = 1
			s.totalIterations++
		}
	} else {
		s.isTimeWindowComplete = true
	}

	if s.IsCouplingOngoing() && !s.hasDataBeenReceived {
		return fmt.Errorf("%w: hasDataBeenReceived must be true while coupling is ongoing", ErrInternalInvariant)
	}

	if s.isTimeWindowComplete {
		performedSize := s.time.Read() - s.windowStartTime.Read()
		s.windowStartTime.Add(performedSize)
		_ = s.hooks.EmitWindowComplete(&hooks.WindowContext{
			TimeWindow:      s.windows,
			PerformedSize:   performedSize,
			WindowStartTime: s.windowStartTime.Read(),
		})
	}
	s.time.Reset()
	s.time.Add(s.windowStartTime.Read())
	s.timeWindowSize = s.nextTimeWindowSize
	return nil
}

// doImplicitStep runs the convergence decision for whichever role decides
// it (§4.8's convergence-flag protocol), applies the forced-convergence cap
// at maxIterations, and drives the acceleration adapter.
func (s *Scheme) doImplicitStep() error {
	if s.doesFirstStep {
		converged, err := s.receiveConvergence()
		if err != nil {
			return err
		}
		return s.applyConvergenceDecision(converged)
	}
	if _, err := s.decideConvergenceAndAccelerate(); err != nil {
		return err
	}
	return s.sendConvergence()
}

func (s *Scheme) decideConvergenceAndAccelerate() (bool, error) {
	verdict, err := s.runner.run(s.iterations, s.opt.MinIterations, s.opt.MaxIterations)
	if err != nil {
		return false, err
	}
	measureValues := s.runner.loggedValues()
	s.logConvergence(measureValues)
	_ = s.hooks.EmitConvergence(&hooks.ConvergenceContext{TimeWindow: s.windows, Iteration: s.iterations, Measures: measureValues})

	if s.opt.MaxIterations != InfiniteMaxIterations && s.iterations == s.opt.MaxIterations {
		verdict = true
	}
	if err := s.applyConvergenceDecision(verdict); err != nil {
		return false, err
	}
	return verdict, nil
}

func (s *Scheme) applyConvergenceDecision(converged bool) error {
	s.hasConverged = converged
	if converged {
		s.accel.onConvergence(s.runner)
	} else if err := s.accel.onNonConvergence(s.time.Read()); err != nil {
		return err
	}
	return nil
}

func (s *Scheme) sendConvergence() error {
	if s.doesFirstStep {
		return fmt.Errorf("%w: sendConvergence called in first-step role", ErrInternalInvariant)
	}
	return s.channel.SendBool(s.hasConverged)
}

func (s *Scheme) receiveConvergence() (bool, error) {
	if !s.doesFirstStep {
		return false, fmt.Errorf("%w: receiveConvergence called outside first-step role", ErrInternalInvariant)
	}
	return s.channel.ReceiveBool()
}

func (s *Scheme) sendOne(d CouplingData) error {
	_ = s.hooks.EmitBeforeExchange(&hooks.ExchangeContext{DataName: d.DataName(), Direction: "send", TimeWindow: s.windows})
	if err := sendData(s.channel, d); err != nil {
		return err
	}
	_ = s.hooks.EmitAfterExchange(&hooks.ExchangeContext{DataName: d.DataName(), Direction: "send", TimeWindow: s.windows})
	return nil
}

func (s *Scheme) receiveOne(d CouplingData, atTime float64) error {
	_ = s.hooks.EmitBeforeExchange(&hooks.ExchangeContext{DataName: d.DataName(), Direction: "receive", TimeWindow: s.windows})
	if err := receiveData(s.channel, d, atTime); err != nil {
		return err
	}
	_ = s.hooks.EmitAfterExchange(&hooks.ExchangeContext{DataName: d.DataName(), Direction: "receive", TimeWindow: s.windows})
	return nil
}

func (s *Scheme) receiveOneAtWindowEnd(d CouplingData, windowEndTime float64) error {
	_ = s.hooks.EmitBeforeExchange(&hooks.ExchangeContext{DataName: d.DataName(), Direction: "receive", TimeWindow: s.windows})
	if err := receiveDataForWindowEnd(s.channel, d, windowEndTime); err != nil {
		return err
	}
	_ = s.hooks.EmitAfterExchange(&hooks.ExchangeContext{DataName: d.DataName(), Direction: "receive", TimeWindow: s.windows})
	return nil
}

func (s *Scheme) moveToNextWindow() {
	for _, d := range s.registry.AllData() {
		d.MoveToNextWindow()
	}
}

func (s *Scheme) logIteration() {
	if s.iterLog == nil {
		return
	}
	qn, deletedQN, droppedQN := 0, 0, 0
	if stats, ok := s.accel.accelerator.(AcceleratorStats); ok && !s.doesFirstStep {
		qn, deletedQN, droppedQN = stats.QNColumns()
	}
	_ = s.iterLog.WriteIterationRow(s.windows, s.totalIterations, s.iterations, s.hasConverged, qn, deletedQN, droppedQN)
}

func (s *Scheme) logConvergence(measures map[string]float64) {
	if s.convLog == nil {
		return
	}
	_ = s.convLog.WriteConvergenceRow(s.windows, s.iterations, measures)
}

// Finalize tears down the scheme. It is a usage error to call it before Initialize.
func (s *Scheme) Finalize() error {
	if !s.isInitialized {
		return fmt.Errorf("%w: finalize called before initialize", ErrUsage)
	}
	return nil
}
