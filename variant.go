package cplscheme

// exchangeSymmetric implements the parallel coupling pattern shared by
// explicit-parallel and implicit-parallel (§4.8): the first-step participant
// sends then receives; the second-step participant receives then sends. Both
// exchange at the same synchronization point, which is why implicit-parallel
// needs no extra data phase in exchangeSecondData — only the convergence
// flag, appended centrally by Scheme.doImplicitStep.
func exchangeSymmetric(s *Scheme, atTime float64) error {
	send := s.registry.SendData()
	recv := s.registry.ReceiveData()

	if s.doesFirstStep {
		for _, d := range send {
			if err := s.sendOne(d); err != nil {
				return err
			}
		}
		for _, d := range recv {
			if err := s.receiveOne(d, atTime); err != nil {
				return err
			}
		}
	} else {
		for _, d := range recv {
			if err := s.receiveOne(d, atTime); err != nil {
				return err
			}
		}
		for _, d := range send {
			if err := s.sendOne(d); err != nil {
				return err
			}
		}
	}
	s.hasDataBeenReceived = true
	return nil
}

// parallelVariant is the strategy shared by explicit-parallel and
// implicit-parallel coupling: every data item is exchanged symmetrically at
// a single synchronization point, once per window (iteration, for implicit).
type parallelVariant struct{}

func (parallelVariant) exchangeInitialData(s *Scheme) error {
	if !s.registry.RequiresInitialization() {
		return nil
	}
	return exchangeSymmetric(s, s.GetTime())
}

func (parallelVariant) exchangeFirstData(s *Scheme) error {
	return exchangeSymmetric(s, s.windowEnd())
}

func (parallelVariant) exchangeSecondData(s *Scheme) error {
	return nil
}

// serialVariant is the strategy shared by explicit-serial and
// implicit-serial coupling: the first-step participant sends its result
// before the second-step participant advances, then receives the
// second-step participant's result once it is ready (§4.8, "receiver goes
// first in time"). The trailing participant receives the leading
// participant's initial result during Initialize rather than at the first
// window boundary.
type serialVariant struct{}

func (serialVariant) exchangeInitialData(s *Scheme) error {
	if !s.registry.RequiresInitialization() {
		return nil
	}
	if s.sendsInitializedData {
		for _, d := range s.registry.SendData() {
			if err := s.sendOne(d); err != nil {
				return err
			}
		}
	}
	if s.receivesInitializedData {
		for _, d := range s.registry.ReceiveData() {
			if err := s.receiveOne(d, s.GetTime()); err != nil {
				return err
			}
		}
		s.hasDataBeenReceived = true
	}
	return nil
}

func (serialVariant) exchangeFirstData(s *Scheme) error {
	if s.doesFirstStep {
		for _, d := range s.registry.SendData() {
			if err := s.sendOne(d); err != nil {
				return err
			}
		}
		return nil
	}
	for _, d := range s.registry.ReceiveData() {
		if err := s.receiveOneAtWindowEnd(d, s.windowEnd()); err != nil {
			return err
		}
	}
	s.hasDataBeenReceived = true
	return nil
}

func (serialVariant) exchangeSecondData(s *Scheme) error {
	if s.doesFirstStep {
		for _, d := range s.registry.ReceiveData() {
			if err := s.receiveOneAtWindowEnd(d, s.windowEnd()); err != nil {
				return err
			}
		}
		s.hasDataBeenReceived = true
		return nil
	}
	for _, d := range s.registry.SendData() {
		if err := s.sendOne(d); err != nil {
			return err
		}
	}
	return nil
}
