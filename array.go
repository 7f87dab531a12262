// Package inplace implements in-place initializable arrays: data
// structures storing N integer cells that support a constant-time
// init(v) alongside read(i)/write(i, v), using O(log N) bits of extra
// bookkeeping rather than an O(N)-bit "written" flag per cell.
//
// Two algorithms are provided — Sec3 (block size 2, two scalars of
// metadata) and Sec4 (block size 4, metadata stashed inside the array's
// own final block) — plus a Baseline array used as both a performance
// comparison target and a correctness oracle.
package inplace

import "fmt"

// Array is the capability set every variant implements: a trivial
// buffer (Baseline) and the two in-place algorithms (Sec3, Sec4) share
// this contract so a caller can swap implementations without caring
// which one it holds.
type Array interface {
	// Init sets the uniform fill value, effective for every index not
	// subsequently written.
	Init(v Cell)

	// Read returns the logical value at i. It fails with
	// ErrIndexOutOfRange when i is outside [0, N).
	Read(i int) (Cell, error)

	// Write sets the logical value at i. It fails with
	// ErrIndexOutOfRange when i is outside [0, N).
	Write(i int, v Cell) error

	// Name identifies the variant: "std_vector", "sec3", or "sec4".
	Name() string

	// ResetCounters zeroes the instance's operation counters.
	ResetCounters()

	// GetCounters returns a snapshot of the instance's operation
	// counters.
	GetCounters() Counters

	// EnableVerification turns on shadow-verifier mirroring for every
	// subsequent Init/Write. It is a no-op to call more than once.
	EnableVerification() error

	// VerifyCorrectness sweeps every index and compares the variant's
	// own Read against the shadow verifier's expectation, returning
	// false on the first mismatch. It also re-checks the variant's
	// structural invariants (§8 of the design). If verification was
	// never enabled the shadow comparison is skipped: Baseline then
	// returns true, while Sec3 and Sec4 still return the result of
	// their structural invariant check.
	VerifyCorrectness() bool

	// DumpState writes a short diagnostic description of the
	// instance's internal state around focusIndex, for use after
	// VerifyCorrectness returns false.
	DumpState(focusIndex int) string

	// Close releases the instance's backing storage. An instance must
	// not be used after Close.
	Close()
}

// MismatchReport describes the first disagreement VerifyCorrectness (via
// the shadow verifier) found between expected and actual values.
type MismatchReport struct {
	Index    int
	Expected Cell
	Actual   Cell
}

func (m MismatchReport) String() string {
	return fmt.Sprintf("mismatch at index %d: expected %d, got %d", m.Index, m.Expected, m.Actual)
}
