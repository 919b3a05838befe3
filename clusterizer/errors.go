package clusterizer

import "fmt"

// ErrHistogramOverflow is returned when a cluster's size, ToT sum or
// charge sum falls outside the bounds of its target histogram. This is
// a programmer error: the caller's geometry constants and the actual
// data disagree.
type ErrHistogramOverflow struct {
	Histogram string
	Value     int
	Bound     int
}

func (e *ErrHistogramOverflow) Error() string {
	return fmt.Sprintf("clusterizer: %s histogram overflow: value %d, bound %d", e.Histogram, e.Value, e.Bound)
}

// ErrOutputFull is returned when a caller-provided output array has no
// room left for another entry.
type ErrOutputFull struct {
	Array string
	Size  int
}

func (e *ErrOutputFull) Error() string {
	return fmt.Sprintf("clusterizer: %s array is full (size %d)", e.Array, e.Size)
}

// ErrHitIndexOutOfRange is returned when a hit index computed from the
// grid falls outside the declared size of the per-hit output array.
type ErrHitIndexOutOfRange struct {
	Index int
	Size  int
}

func (e *ErrHitIndexOutOfRange) Error() string {
	return fmt.Sprintf("clusterizer: hit index %d is out of range (0..%d)", e.Index, e.Size)
}
