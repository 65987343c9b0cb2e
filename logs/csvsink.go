package logs

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"
)

// IterationLog is an append-only CSV writer for the
// precice-<participant>-iterations.log table: TimeWindow, TotalIterations,
// Iterations, Convergence, QNColumns, DeletedQNColumns, DroppedQNColumns.
// The three QN columns are always present in the header and every row; they
// hold 0 unless an accelerated non-first-step participant reports counts.
type IterationLog struct {
	mu     sync.Mutex
	writer *csv.Writer
	header bool
}

// NewIterationLog wraps w as an IterationLog sink. The header row is written
// on the first call to WriteIterationRow.
func NewIterationLog(w io.Writer) *IterationLog {
	return &IterationLog{writer: csv.NewWriter(w)}
}

func (l *IterationLog) WriteIterationRow(timeWindow, totalIterations, iterations int, convergence bool, qnColumns, deletedQNColumns, droppedQNColumns int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.header {
		if err := l.writer.Write([]string{"TimeWindow", "TotalIterations", "Iterations", "Convergence", "QNColumns", "DeletedQNColumns", "DroppedQNColumns"}); err != nil {
			return err
		}
		l.header = true
	}
	row := []string{
		strconv.Itoa(timeWindow),
		strconv.Itoa(totalIterations),
		strconv.Itoa(iterations),
		strconv.FormatBool(convergence),
		strconv.Itoa(qnColumns),
		strconv.Itoa(deletedQNColumns),
		strconv.Itoa(droppedQNColumns),
	}
	if err := l.writer.Write(row); err != nil {
		return err
	}
	l.writer.Flush()
	return l.writer.Error()
}

// ConvergenceLog is an append-only CSV writer for the
// precice-<participant>-convergence.log table: TimeWindow, Iteration, plus
// one column per logging-enabled measure, keyed by measure name.
type ConvergenceLog struct {
	mu      sync.Mutex
	writer  *csv.Writer
	columns []string
	header  bool
}

// NewConvergenceLog wraps w as a ConvergenceLog sink. columns fixes the set
// of measure-name columns, written in alphabetical order, so every row has
// the same shape even if a measure is silent on a given iteration (its cell
// is left blank).
func NewConvergenceLog(w io.Writer, columns []string) *ConvergenceLog {
	sorted := append([]string(nil), columns...)
	sort.Strings(sorted)
	return &ConvergenceLog{writer: csv.NewWriter(w), columns: sorted}
}

func (l *ConvergenceLog) WriteConvergenceRow(timeWindow, iteration int, measures map[string]float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.header {
		header := append([]string{"TimeWindow", "Iteration"}, l.columns...)
		if err := l.writer.Write(header); err != nil {
			return err
		}
		l.header = true
	}
	row := make([]string, 0, len(l.columns)+2)
	row = append(row, strconv.Itoa(timeWindow), strconv.Itoa(iteration))
	for _, col := range l.columns {
		v, ok := measures[col]
		if !ok {
			row = append(row, "")
			continue
		}
		row = append(row, fmt.Sprintf("%g", v))
	}
	if err := l.writer.Write(row); err != nil {
		return err
	}
	l.writer.Flush()
	return l.writer.Error()
}
