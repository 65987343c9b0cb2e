package cplscheme

// Channel is the point-to-point transport the scheme exchanges data
// through. Its implementation (sockets, shared memory, an in-process test
// double) is entirely outside this module's scope; the scheme only ever
// calls these primitives, one value at a time, in a fixed order agreed by
// both participants' variant.
type Channel interface {
	// IsConnected reports whether the peer is reachable.
	IsConnected() bool

	// SendScalars writes a dense float64 vector.
	SendScalars(values []float64) error
	// ReceiveScalars reads a dense float64 vector of the given length.
	ReceiveScalars(n int) ([]float64, error)

	// SendInt writes a single int32-range integer (used for trajectory counts).
	SendInt(v int) error
	// ReceiveInt reads a single int32-range integer.
	ReceiveInt() (int, error)

	// SendBool writes a single boolean (used for the convergence flag).
	SendBool(v bool) error
	// ReceiveBool reads a single boolean.
	ReceiveBool() (bool, error)
}
