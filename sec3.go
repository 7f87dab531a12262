package inplace

import (
	"fmt"
	"strings"

	"github.com/arraykit/go-inplace/internal/arena"
)

const sec3BlockSize = 2

// Sec3 is the block=2 in-place initializable array: init(v) runs in
// constant time, and the only extra bookkeeping beyond the N cells
// themselves is the boundary scalar b plus initv — 2⌈log₂N⌉ bits,
// encoded here as two ordinary Go fields rather than packed into the
// array, since nothing in this module's design requires packing them
// into cells the way Sec4 does.
type Sec3 struct {
	cells   *arena.Cells
	n       int
	nBlocks int
	b       int
	initv   Cell

	counters Counters
	verifier *shadowVerifier
}

var _ Array = (*Sec3)(nil)

// NewSec3 constructs a block=2 in-place array of n cells. N must be
// even and greater than zero.
func NewSec3(n int, configs ...Config) (*Sec3, error) {
	if n <= 0 || n%sec3BlockSize != 0 {
		return nil, fmt.Errorf("%w: sec3 requires N > 0 and N %% 2 == 0, got %d", ErrInvalidSize, n)
	}
	cfg, err := resolveConfig(configs)
	if err != nil {
		return nil, err
	}
	cells, err := arena.NewCells(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutOfMemory, err)
	}
	s := &Sec3{
		cells:    cells,
		n:        n,
		nBlocks:  n / sec3BlockSize,
		verifier: newShadowVerifier(cfg.Logger),
	}
	if cfg.VerifyOnConstruct {
		if err := s.EnableVerification(); err != nil {
			cells.Free()
			return nil, err
		}
	}
	return s, nil
}

func (s *Sec3) Name() string { return "sec3" }

func (s *Sec3) first(bi int) int { return firstOf(bi, sec3BlockSize) }
func (s *Sec3) block(i int) int  { return blockOf(i, sec3BlockSize) }

func (s *Sec3) bounds(i int) error {
	if i < 0 || i >= s.n {
		return fmt.Errorf("%w: index %d, size %d", ErrIndexOutOfRange, i, s.n)
	}
	return nil
}

// chainedTo returns the partner block index if bi is currently chained,
// performing exactly the invariant-respecting probe of §3: a zeroth
// cell that looks like an aligned, in-range, cross-side, reciprocal
// block reference.
func (s *Sec3) chainedTo(bi int) (int, bool) {
	data := s.cells.Slice()
	ref := data[s.first(bi)]
	if ref < 0 || int(ref) >= s.n || ref%sec3BlockSize != 0 {
		return 0, false
	}
	bj := int(ref) / sec3BlockSize
	if (bi < s.b) == (bj < s.b) {
		return 0, false // not on opposite sides of b
	}
	if data[ref] != Cell(s.first(bi)) {
		return 0, false // not reciprocal
	}
	return bj, true
}

func (s *Sec3) makeChain(bi, bj int) {
	data := s.cells.Slice()
	data[s.first(bi)] = Cell(s.first(bj))
	data[s.first(bj)] = Cell(s.first(bi))
	s.counters.Conversions++
}

func (s *Sec3) breakChain(bi int) {
	if bj, ok := s.chainedTo(bi); ok {
		s.cells.Slice()[s.first(bj)] = Cell(s.first(bj))
		s.counters.Conversions++
	}
}

func (s *Sec3) initBlock(bi int) {
	data := s.cells.Slice()
	f := s.first(bi)
	data[f] = s.initv
	data[f+1] = s.initv
}

// extend promotes the boundary block into the WCA and returns the block
// index left free for the write that triggered it.
func (s *Sec3) extend() int {
	boundary := s.b
	bk, chained := s.chainedTo(boundary)
	if !chained {
		s.b++
		s.initBlock(boundary)
		s.breakChain(boundary)
		return boundary
	}

	data := s.cells.Slice()
	data[s.first(boundary)] = data[s.first(bk)+1]
	s.b++
	s.breakChain(boundary)
	s.initBlock(bk)
	s.breakChain(bk)
	s.counters.Relocations++
	return bk
}

func (s *Sec3) Init(v Cell) {
	s.counters.Inits++
	s.initv = v
	s.b = 0
	s.verifier.onInit(v)
}

func (s *Sec3) Read(i int) (Cell, error) {
	s.counters.Reads++
	if err := s.bounds(i); err != nil {
		return 0, err
	}
	return s.readImpl(i), nil
}

func (s *Sec3) readImpl(i int) Cell {
	bi := s.block(i)
	bk, chained := s.chainedTo(bi)
	data := s.cells.Slice()

	if bi < s.b {
		if chained {
			return s.initv
		}
		return data[i]
	}
	if !chained {
		return s.initv
	}
	if i%sec3BlockSize == 0 {
		return data[s.first(bk)+1]
	}
	return data[i]
}

func (s *Sec3) Write(i int, v Cell) error {
	s.counters.Writes++
	if err := s.bounds(i); err != nil {
		return err
	}
	s.writeImpl(i, v)
	s.verifier.onWrite(i, v)
	return nil
}

func (s *Sec3) writeImpl(i int, v Cell) {
	bi := s.block(i)
	bk, chained := s.chainedTo(bi)
	data := s.cells.Slice()

	if bi < s.b {
		if !chained {
			data[i] = v
			s.breakChain(bi)
			return
		}
		bj := s.extend()
		data = s.cells.Slice()
		if bj == bi {
			data[i] = v
			s.breakChain(bi)
			return
		}
		data[s.first(bj)], data[s.first(bi)] = data[s.first(bi)], data[s.first(bj)]
		data[s.first(bj)+1], data[s.first(bi)+1] = data[s.first(bi)+1], data[s.first(bj)+1]
		s.counters.Relocations++
		s.makeChain(bj, bk)
		s.initBlock(bi)
		data = s.cells.Slice()
		data[i] = v
		s.breakChain(bi)
		return
	}

	if chained {
		if i%sec3BlockSize == 0 {
			data[s.first(bk)+1] = v
		} else {
			data[i] = v
		}
		return
	}
	bk2 := s.extend()
	data = s.cells.Slice()
	if bk2 == bi {
		data[i] = v
		s.breakChain(bi)
		return
	}
	s.initBlock(bi)
	s.makeChain(bk2, bi)
	data = s.cells.Slice()
	if i%sec3BlockSize == 0 {
		data[s.first(bk2)+1] = v
	} else {
		data[i] = v
	}
}

func (s *Sec3) ResetCounters()        { s.counters.Reset() }
func (s *Sec3) GetCounters() Counters { return s.counters }

func (s *Sec3) EnableVerification() error {
	return s.verifier.enable(s.n)
}

func (s *Sec3) VerifyCorrectness() bool {
	if report := s.verifier.checkAgainst(s.readImpl); report != nil {
		return false
	}
	return s.checkChainInvariant()
}

// checkChainInvariant re-verifies that the chain relation is a partial
// matching: every chained pair is reciprocal and straddles b.
func (s *Sec3) checkChainInvariant() bool {
	data := s.cells.Slice()
	for bi := 0; bi < s.nBlocks; bi++ {
		bj, ok := s.chainedTo(bi)
		if !ok {
			continue
		}
		if data[s.first(bj)] != Cell(s.first(bi)) {
			return false
		}
		if (bi < s.b) == (bj < s.b) {
			return false
		}
	}
	return true
}

// Checksum returns an order-sensitive digest of the logical cell
// sequence, suitable for cheaply comparing two instances.
func (s *Sec3) Checksum() uint64 {
	return checksumSequence(s.n, s.readImpl)
}

func (s *Sec3) DumpState(focusIndex int) string {
	data := s.cells.Slice()
	var sb strings.Builder
	fmt.Fprintf(&sb, "[Sec3 dump] N=%d blocks=%d b=%d initv=%d focus=%d\n",
		s.n, s.nBlocks, s.b, s.initv, focusIndex)
	bi := s.block(focusIndex)
	start, end := bi-4, bi+5
	if start < 0 {
		start = 0
	}
	if end > s.nBlocks {
		end = s.nBlocks
	}
	for j := start; j < end; j++ {
		area := "WCA"
		if j >= s.b {
			area = "UCA"
		}
		f := s.first(j)
		fmt.Fprintf(&sb, "  B%d [%s] : (%d,%d)\n", j, area, data[f], data[f+1])
	}
	return sb.String()
}

func (s *Sec3) Close() {
	if s.cells != nil {
		s.cells.Free()
		s.cells = nil
	}
	s.verifier.close()
}
