package cplscheme

import "fmt"

// sendData writes one CouplingData to ch, choosing trajectory mode or
// end-of-window mode per its ExchangeSubsteps flag, per §4.3/§6's on-wire
// ordering.
func sendData(ch Channel, data CouplingData) error {
	if data.ExchangeSubsteps() {
		return sendTrajectory(ch, data)
	}
	return sendEndOfWindow(ch, data)
}

// receiveData reads one CouplingData from ch at the given scheme time,
// mirroring sendData's mode selection.
func receiveData(ch Channel, data CouplingData, time float64) error {
	if data.ExchangeSubsteps() {
		return receiveTrajectory(ch, data)
	}
	return receiveEndOfWindow(ch, data, time)
}

func sendTrajectory(ch Channel, data CouplingData) error {
	stamples := data.Stamples()
	n := len(stamples)
	if n == 0 {
		return fmt.Errorf("%w: %s has no stamples to send", ErrInternalInvariant, data.DataName())
	}
	if err := ch.SendInt(n); err != nil {
		return err
	}
	times := make([]float64, n)
	for i, st := range stamples {
		times[i] = st.Time
	}
	if err := ch.SendScalars(times); err != nil {
		return err
	}
	dim := data.Size()
	values := make([]float64, 0, dim*n)
	for _, st := range stamples {
		values = append(values, st.Sample.Values...)
	}
	if err := ch.SendScalars(values); err != nil {
		return err
	}
	if data.HasGradient() {
		meshDim := data.MeshDimensions()
		gradients := make([]float64, 0, dim*meshDim*n)
		for _, st := range stamples {
			gradients = append(gradients, st.Sample.Gradients...)
		}
		if err := ch.SendScalars(gradients); err != nil {
			return err
		}
	}
	return nil
}

func receiveTrajectory(ch Channel, data CouplingData) error {
	n, err := ch.ReceiveInt()
	if err != nil {
		return err
	}
	if n <= 0 {
		return fmt.Errorf("%w: %s received non-positive trajectory length %d", ErrInternalInvariant, data.DataName(), n)
	}
	times, err := ch.ReceiveScalars(n)
	if err != nil {
		return err
	}
	dim := data.Size()
	values, err := ch.ReceiveScalars(dim * n)
	if err != nil {
		return err
	}
	var gradients []float64
	meshDim := data.MeshDimensions()
	if data.HasGradient() {
		gradients, err = ch.ReceiveScalars(dim * meshDim * n)
		if err != nil {
			return err
		}
	}
	for i := 0; i < n; i++ {
		sample := Sample{Values: values[i*dim : (i+1)*dim]}
		if data.HasGradient() {
			sample.Gradients = gradients[i*dim*meshDim : (i+1)*dim*meshDim]
		}
		data.SetSampleAtTime(times[i], sample)
	}
	return nil
}

func sendEndOfWindow(ch Channel, data CouplingData) error {
	last, ok := lastStample(data)
	if !ok {
		return fmt.Errorf("%w: %s has no stamples to send", ErrInternalInvariant, data.DataName())
	}
	data.SetValues(last.Sample.Values)
	if data.HasGradient() {
		data.SetGradients(last.Sample.Gradients)
	}
	if err := ch.SendScalars(data.Values()); err != nil {
		return err
	}
	if data.HasGradient() {
		if err := ch.SendScalars(data.Gradients()); err != nil {
			return err
		}
	}
	return nil
}

func receiveEndOfWindow(ch Channel, data CouplingData, time float64) error {
	values, err := ch.ReceiveScalars(data.Size())
	if err != nil {
		return err
	}
	sample := Sample{Values: values}
	if data.HasGradient() {
		gradients, err := ch.ReceiveScalars(data.Size() * data.MeshDimensions())
		if err != nil {
			return err
		}
		sample.Gradients = gradients
	}
	data.SetValues(sample.Values)
	if data.HasGradient() {
		data.SetGradients(sample.Gradients)
	}
	data.SetSampleAtTime(time, sample)
	return nil
}

func lastStample(data CouplingData) (Stample, bool) {
	stamples := data.Stamples()
	if len(stamples) == 0 {
		return Stample{}, false
	}
	return stamples[len(stamples)-1], true
}

// receiveDataForWindowEnd reads data and stamps it at windowEndTime rather
// than at the scheme's current in-cycle time. The scheme's time is not
// modified, so there is nothing to restore afterward.
func receiveDataForWindowEnd(ch Channel, data CouplingData, windowEndTime float64) error {
	return receiveData(ch, data, windowEndTime)
}
