package cplscheme

// TimeAccumulator is a Kahan/Neumaier-compensated running sum. The scheme
// state machine uses one per tracked time value (the computed time and the
// window start time) so that window boundaries compare equal across ranks
// and across repeated implicit iterations regardless of the order in which
// sub-step sizes were added.
//
// Must be reset by re-initialization (assigning a zero value), never by
// subtracting a running total.
type TimeAccumulator struct {
	sum         float64
	compensation float64
}

// Reset clears the accumulator back to zero.
func (t *TimeAccumulator) Reset() {
	t.sum = 0
	t.compensation = 0
}

// Add folds x into the running sum using Neumaier's variant of Kahan
// summation, tracking the low-order bits lost to each addition.
func (t *TimeAccumulator) Add(x float64) {
	next := t.sum + x
	if abs(t.sum) >= abs(x) {
		t.compensation += (t.sum - next) + x
	} else {
		t.compensation += (x - next) + t.sum
	}
	t.sum = next
}

// Read returns the compensated total.
func (t TimeAccumulator) Read() float64 {
	return t.sum + t.compensation
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
