package inplace

import (
	"fmt"
	"strings"

	"github.com/arraykit/go-inplace/internal/arena"
)

const sec4BlockSize = 4

// Sec4 is the block=4 in-place initializable array. It refines Sec3 by
// stashing its boundary b and fill initv inside the array's own final
// block instead of holding them as free-standing scalars, so the extra
// bookkeeping shrinks from two scalar fields to roughly one bit (the
// derived "flag" below) plus reuse of two cells that already exist.
type Sec4 struct {
	cells   *arena.Cells
	n       int
	nBlocks int
	b       int
	initv   Cell
	flag    bool // true once every block has been promoted to WCA.

	counters Counters
	verifier *shadowVerifier
}

var _ Array = (*Sec4)(nil)

// NewSec4 constructs a block=4 in-place array of n cells. N must be a
// positive multiple of four.
func NewSec4(n int, configs ...Config) (*Sec4, error) {
	if n <= 0 || n%sec4BlockSize != 0 {
		return nil, fmt.Errorf("%w: sec4 requires N > 0 and N %% 4 == 0, got %d", ErrInvalidSize, n)
	}
	cfg, err := resolveConfig(configs)
	if err != nil {
		return nil, err
	}
	cells, err := arena.NewCells(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutOfMemory, err)
	}
	s := &Sec4{
		cells:    cells,
		n:        n,
		nBlocks:  n / sec4BlockSize,
		verifier: newShadowVerifier(cfg.Logger),
	}
	s.syncMeta()
	if cfg.VerifyOnConstruct {
		if err := s.EnableVerification(); err != nil {
			cells.Free()
			return nil, err
		}
	}
	return s, nil
}

func (s *Sec4) Name() string { return "sec4" }

func (s *Sec4) first(bi int) int { return firstOf(bi, sec4BlockSize) }
func (s *Sec4) block(i int) int  { return blockOf(i, sec4BlockSize) }

func (s *Sec4) bounds(i int) error {
	if i < 0 || i >= s.n {
		return fmt.Errorf("%w: index %d, size %d", ErrIndexOutOfRange, i, s.n)
	}
	return nil
}

// syncMeta must be called after every change to b: it recomputes flag
// and, while flag is false, stashes initv and b inside the last block's
// offsets 1 and 2. This is the only mechanism that persists b and initv
// without an external scalar; an implementation may still cache them as
// plain fields (as this one does, for speed), but the cached values
// must always agree with the stashed ones.
func (s *Sec4) syncMeta() {
	s.flag = s.b >= s.nBlocks
	if s.flag {
		return
	}
	mb := s.nBlocks - 1
	data := s.cells.Slice()
	data[s.first(mb)+1] = s.initv
	data[s.first(mb)+2] = Cell(s.b)
}

func (s *Sec4) chainedTo(bi int) (int, bool) {
	data := s.cells.Slice()
	ref := data[s.first(bi)]
	if ref < 0 || int(ref) >= s.n || ref%sec4BlockSize != 0 {
		return 0, false
	}
	bj := int(ref) / sec4BlockSize
	if (bi < s.b) == (bj < s.b) {
		return 0, false
	}
	if data[ref] != Cell(s.first(bi)) {
		return 0, false
	}
	return bj, true
}

func (s *Sec4) makeChain(bi, bj int) {
	data := s.cells.Slice()
	data[s.first(bi)] = Cell(s.first(bj))
	data[s.first(bj)] = Cell(s.first(bi))
	s.counters.Conversions++
}

func (s *Sec4) breakChain(bi int) {
	if bj, ok := s.chainedTo(bi); ok {
		s.cells.Slice()[s.first(bj)] = Cell(s.first(bj))
		s.counters.Conversions++
	}
}

func (s *Sec4) initBlock(bi int) {
	data := s.cells.Slice()
	f := s.first(bi)
	data[f] = s.initv
	data[f+1] = s.initv
	data[f+2] = s.initv
	data[f+3] = s.initv
}

// extend promotes the boundary block into the WCA, recovering displaced
// cells from its chain partner when one exists, and returns the block
// index left free for the write that triggered it.
func (s *Sec4) extend() int {
	boundary := s.b
	bk, chained := s.chainedTo(boundary)
	if !chained {
		s.b++
		s.initBlock(boundary)
		s.breakChain(boundary)
		s.syncMeta()
		return boundary
	}

	data := s.cells.Slice()
	fs, fk := s.first(boundary), s.first(bk)
	data[fs] = data[fk+1]
	data[fs+1] = data[fk+2]
	data[fs+2] = data[fk+3]
	s.b++
	s.breakChain(boundary)
	s.initBlock(bk)
	s.breakChain(bk)
	s.counters.Relocations++
	s.syncMeta()
	return bk
}

func (s *Sec4) Init(v Cell) {
	s.counters.Inits++
	s.initv = v
	s.b = 0
	s.syncMeta()
	s.verifier.onInit(v)
}

func (s *Sec4) Read(i int) (Cell, error) {
	s.counters.Reads++
	if err := s.bounds(i); err != nil {
		return 0, err
	}
	return s.readImpl(i), nil
}

func (s *Sec4) readImpl(i int) Cell {
	data := s.cells.Slice()
	if s.flag {
		return data[i]
	}
	bi := s.block(i)
	bk, chained := s.chainedTo(bi)

	if bi < s.b {
		if chained {
			return s.initv
		}
		return data[i]
	}
	if !chained {
		return s.initv
	}
	switch i % sec4BlockSize {
	case 0:
		return data[s.first(bk)+1]
	case 1:
		return data[s.first(bk)+2]
	case 2:
		return data[s.first(bk)+3]
	default: // 3
		return data[i]
	}
}

func (s *Sec4) Write(i int, v Cell) error {
	s.counters.Writes++
	if err := s.bounds(i); err != nil {
		return err
	}
	s.writeImpl(i, v)
	s.verifier.onWrite(i, v)
	return nil
}

func (s *Sec4) writeImpl(i int, v Cell) {
	data := s.cells.Slice()
	if s.flag {
		data[i] = v
		return
	}
	bi := s.block(i)
	bk, chained := s.chainedTo(bi)

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
		for t := 0; t < sec4BlockSize; t++ {
			fi, fj := s.first(bi)+t, s.first(bj)+t
			data[fi], data[fj] = data[fj], data[fi]
		}
		s.counters.Relocations++
		s.makeChain(bj, bk)
		s.initBlock(bi)
		data = s.cells.Slice()
		data[i] = v
		s.breakChain(bi)
		return
	}

	if chained {
		switch i % sec4BlockSize {
		case 0:
			data[s.first(bk)+1] = v
		case 1:
			data[s.first(bk)+2] = v
		case 2:
			data[s.first(bk)+3] = v
		default:
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
	s.syncMeta() // initBlock(bi) overwrites the stash when bi is the last block
	data = s.cells.Slice()
	switch i % sec4BlockSize {
	case 0:
		data[s.first(bk2)+1] = v
	case 1:
		data[s.first(bk2)+2] = v
	case 2:
		data[s.first(bk2)+3] = v
	default:
		data[i] = v
	}
}

func (s *Sec4) ResetCounters()        { s.counters.Reset() }
func (s *Sec4) GetCounters() Counters { return s.counters }

func (s *Sec4) EnableVerification() error {
	return s.verifier.enable(s.n)
}

func (s *Sec4) VerifyCorrectness() bool {
	if report := s.verifier.checkAgainst(s.readImpl); report != nil {
		return false
	}
	return s.checkInvariants()
}

// checkInvariants re-verifies the chain relation is a partial matching
// and, while flag is false, that the stashed metadata in the last block
// agrees with the cached b/initv fields.
func (s *Sec4) checkInvariants() bool {
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
	if !s.flag {
		mb := s.nBlocks - 1
		if data[s.first(mb)+1] != s.initv || data[s.first(mb)+2] != Cell(s.b) {
			return false
		}
	}
	return true
}

// Checksum returns an order-sensitive digest of the logical cell
// sequence, suitable for cheaply comparing two instances.
func (s *Sec4) Checksum() uint64 {
	return checksumSequence(s.n, s.readImpl)
}

func (s *Sec4) DumpState(focusIndex int) string {
	data := s.cells.Slice()
	var sb strings.Builder
	fmt.Fprintf(&sb, "[Sec4 dump] N=%d blocks=%d b=%d initv=%d flag=%v focus=%d\n",
		s.n, s.nBlocks, s.b, s.initv, s.flag, focusIndex)
	bi := s.block(focusIndex)
	start, end := bi-3, bi+4
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
		fmt.Fprintf(&sb, "  B%d [%s] : (%d,%d,%d,%d)\n", j, area, data[f], data[f+1], data[f+2], data[f+3])
	}
	return sb.String()
}

func (s *Sec4) Close() {
	if s.cells != nil {
		s.cells.Free()
		s.cells = nil
	}
	s.verifier.close()
}
