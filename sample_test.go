package cplscheme

import "testing"

func TestStampleStoreOrdersOutOfSequenceInserts(t *testing.T) {
	var s stampleStore
	s.set(1.0, Sample{Values: []float64{1}})
	s.set(0.0, Sample{Values: []float64{0}})
	s.set(0.5, Sample{Values: []float64{0.5}})

	all := s.all()
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	for i := 0; i < len(all)-1; i++ {
		if all[i].Time > all[i+1].Time {
			t.Fatalf("expected ascending time order, got %v", all)
		}
	}
}

func TestStampleStoreSetOverwritesExistingTime(t *testing.T) {
	var s stampleStore
	s.set(1.0, Sample{Values: []float64{1}})
	s.set(1.0, Sample{Values: []float64{99}})

	all := s.all()
	if len(all) != 1 {
		t.Fatalf("expected overwrite in place, got %d entries", len(all))
	}
	if all[0].Sample.Values[0] != 99 {
		t.Fatalf("expected overwritten value 99, got %v", all[0].Sample.Values)
	}
}

func TestStampleStoreLast(t *testing.T) {
	var s stampleStore
	if _, ok := s.last(); ok {
		t.Fatalf("expected last to report false on empty store")
	}
	s.set(0.0, Sample{Values: []float64{1}})
	s.set(2.0, Sample{Values: []float64{2}})
	last, ok := s.last()
	if !ok || last.Time != 2.0 {
		t.Fatalf("expected last entry at time 2.0, got %+v", last)
	}
}

func TestStampleStoreTruncateToStart(t *testing.T) {
	var s stampleStore
	s.set(0.0, Sample{Values: []float64{0}})
	s.set(0.5, Sample{Values: []float64{1}})
	s.set(1.0, Sample{Values: []float64{2}})

	s.truncateToStart()
	if len(s.all()) != 1 {
		t.Fatalf("expected truncateToStart to leave only the first entry, got %d", len(s.all()))
	}
}

func TestStampleStoreResetTo(t *testing.T) {
	var s stampleStore
	s.set(0.0, Sample{Values: []float64{0}})
	s.set(1.0, Sample{Values: []float64{1}})

	s.resetTo(Sample{Values: []float64{42}})
	all := s.all()
	if len(all) != 1 || all[0].Time != 0 || all[0].Sample.Values[0] != 42 {
		t.Fatalf("expected resetTo to collapse to a single zero-time entry, got %v", all)
	}
}

func TestStampleStoreClear(t *testing.T) {
	var s stampleStore
	s.set(0.0, Sample{Values: []float64{0}})
	s.clear()
	if len(s.all()) != 0 {
		t.Fatalf("expected clear to empty the store")
	}
}
