package inplace

import (
	"fmt"
	"strings"

	"github.com/arraykit/go-inplace/internal/arena"
)

// Baseline is a trivial N-cell buffer: init is Θ(N), read and write are
// direct indexed access. It serves both as the correctness oracle Sec3
// and Sec4 are checked against and as the performance floor they are
// benchmarked relative to.
type Baseline struct {
	cells *arena.Cells
	n     int

	counters Counters
	verifier *shadowVerifier
}

var _ Array = (*Baseline)(nil)

// NewBaseline constructs a baseline array of n cells.
func NewBaseline(n int, configs ...Config) (*Baseline, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: N must be > 0, got %d", ErrInvalidSize, n)
	}
	cfg, err := resolveConfig(configs)
	if err != nil {
		return nil, err
	}
	cells, err := arena.NewCells(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutOfMemory, err)
	}
	b := &Baseline{
		cells:    cells,
		n:        n,
		verifier: newShadowVerifier(cfg.Logger),
	}
	if cfg.VerifyOnConstruct {
		if err := b.EnableVerification(); err != nil {
			cells.Free()
			return nil, err
		}
	}
	return b, nil
}

func (b *Baseline) Name() string { return "std_vector" }

// Init fills every cell with v in Θ(N); this cost is never hidden or
// amortized away, so a benchmark measuring it sees the true fill time.
func (b *Baseline) Init(v Cell) {
	b.counters.Inits++
	data := b.cells.Slice()
	for i := range data {
		data[i] = v
	}
	b.verifier.onInit(v)
}

func (b *Baseline) bounds(i int) error {
	if i < 0 || i >= b.n {
		return fmt.Errorf("%w: index %d, size %d", ErrIndexOutOfRange, i, b.n)
	}
	return nil
}

func (b *Baseline) Read(i int) (Cell, error) {
	b.counters.Reads++
	if err := b.bounds(i); err != nil {
		return 0, err
	}
	return b.cells.Slice()[i], nil
}

func (b *Baseline) Write(i int, v Cell) error {
	b.counters.Writes++
	if err := b.bounds(i); err != nil {
		return err
	}
	b.cells.Slice()[i] = v
	b.verifier.onWrite(i, v)
	return nil
}

func (b *Baseline) ResetCounters()        { b.counters.Reset() }
func (b *Baseline) GetCounters() Counters { return b.counters }

func (b *Baseline) EnableVerification() error {
	return b.verifier.enable(b.n)
}

func (b *Baseline) VerifyCorrectness() bool {
	report := b.verifier.checkAgainst(func(i int) Cell { return b.cells.Slice()[i] })
	return report == nil
}

// Checksum returns an order-sensitive digest of the cell sequence,
// suitable for cheaply comparing two instances.
func (b *Baseline) Checksum() uint64 {
	return checksumSequence(b.n, func(i int) Cell { return b.cells.Slice()[i] })
}

func (b *Baseline) DumpState(focusIndex int) string {
	data := b.cells.Slice()
	start, end := focusIndex-4, focusIndex+5
	if start < 0 {
		start = 0
	}
	if end > b.n {
		end = b.n
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "[Baseline dump] N=%d focus=%d\n", b.n, focusIndex)
	for i := start; i < end; i++ {
		fmt.Fprintf(&sb, "  A[%d] = %d\n", i, data[i])
	}
	return sb.String()
}

func (b *Baseline) Close() {
	if b.cells != nil {
		b.cells.Free()
		b.cells = nil
	}
	b.verifier.close()
}
