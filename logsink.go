package cplscheme

// IterationLogSink receives one row per completed synchronization point for
// the participant's "iterations" log (see §6). Concrete sinks (CSV writers,
// an in-memory buffer for tests, ...) are supplied by the caller.
type IterationLogSink interface {
	WriteIterationRow(timeWindow, totalIterations, iterations int, convergence bool, qnColumns, deletedQNColumns, droppedQNColumns int) error
}

// ConvergenceLogSink receives one row per iteration for the participant's
// "convergence" log, one column per logging-enabled measure.
type ConvergenceLogSink interface {
	WriteConvergenceRow(timeWindow, iteration int, measures map[string]float64) error
}

// AcceleratorStats is an optional extension an Accelerator may implement to
// report quasi-Newton column bookkeeping for the iterations log. Accelerators
// that don't implement it simply contribute zero columns.
type AcceleratorStats interface {
	QNColumns() (current, deleted, dropped int)
}
