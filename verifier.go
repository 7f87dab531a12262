package inplace

import (
	"fmt"
	"log/slog"

	"github.com/arraykit/go-inplace/internal/arena"
)

// shadowVerifier is a composable capability embedded by every variant
// that wants correctness verification. It is a mix-in by composition, not
// a base type in an inheritance tree: Baseline, Sec3, and Sec4 each hold
// a *shadowVerifier field and forward EnableVerification/
// VerifyCorrectness to it, the same way the teacher composes a
// *readerPool into Buffer rather than subclassing.
//
// Disabled, a shadowVerifier does no work at all: onInit/onWrite are
// no-ops, and checkAgainst returns nil immediately. It never
// participates in a benchmark's hot path unless explicitly enabled.
type shadowVerifier struct {
	logger  *slog.Logger
	enabled bool
	n       int

	shadow      *arena.Cells
	stamp       *arena.Stamps
	shadowInitv Cell
	shadowEpoch uint32
}

func newShadowVerifier(logger *slog.Logger) *shadowVerifier {
	return &shadowVerifier{logger: logger}
}

// enable allocates the shadow's side tables. It is a no-op if already
// enabled.
func (s *shadowVerifier) enable(n int) error {
	if s.enabled {
		return nil
	}
	shadow, err := arena.NewCells(n)
	if err != nil {
		return fmt.Errorf("%w: shadow cells: %v", ErrOutOfMemory, err)
	}
	stamp, err := arena.NewStamps(n)
	if err != nil {
		shadow.Free()
		return fmt.Errorf("%w: shadow stamps: %v", ErrOutOfMemory, err)
	}
	s.n = n
	s.shadow = shadow
	s.stamp = stamp
	s.shadowInitv = 0
	s.shadowEpoch = 0
	s.enabled = true
	return nil
}

// onInit mirrors an init(v) call into the shadow. Wraparound of the
// epoch counter clears the stamp table and restarts at 1, so a stale
// stamp can never be misread as current after 2^32 inits.
func (s *shadowVerifier) onInit(v Cell) {
	if !s.enabled {
		return
	}
	s.shadowInitv = v
	s.shadowEpoch++
	if s.shadowEpoch == 0 {
		s.stamp.Reset()
		s.shadowEpoch = 1
	}
}

// onWrite mirrors a write(i, v) call into the shadow.
func (s *shadowVerifier) onWrite(i int, v Cell) {
	if !s.enabled {
		return
	}
	s.shadow.Slice()[i] = v
	s.stamp.Slice()[i] = s.shadowEpoch
}

// expectedAt returns the shadow's expected value at i: the last written
// value if its stamp matches the current epoch, else the current fill.
func (s *shadowVerifier) expectedAt(i int) Cell {
	if s.stamp.Slice()[i] == s.shadowEpoch {
		return s.shadow.Slice()[i]
	}
	return s.shadowInitv
}

// checkAgainst compares the shadow's expectation against read(i) for
// every i, returning the first mismatch found, or nil if every index
// agrees. A whole-sequence checksum comparison (§3 of the design) of
// the expectations against read is tried first, so agreement is
// detected without the per-index comparison loop; only when the two
// checksums differ are indices compared one by one.
func (s *shadowVerifier) checkAgainst(read func(i int) Cell) *MismatchReport {
	if !s.enabled {
		return nil
	}
	if checksumSequence(s.n, s.expectedAt) == checksumSequence(s.n, read) {
		return nil
	}
	for i := 0; i < s.n; i++ {
		expected, actual := s.expectedAt(i), read(i)
		if expected != actual {
			report := &MismatchReport{Index: i, Expected: expected, Actual: actual}
			if s.logger != nil {
				s.logger.Error("shadow verifier mismatch",
					"index", i, "expected", expected, "actual", actual)
			}
			return report
		}
	}
	return nil
}

// close releases the shadow's side tables.
func (s *shadowVerifier) close() {
	if s.shadow != nil {
		s.shadow.Free()
		s.shadow = nil
	}
	if s.stamp != nil {
		s.stamp.Free()
		s.stamp = nil
	}
	s.enabled = false
}
