// Package arena provides fixed-size, off-heap backing storage for the
// in-place array variants and the shadow verifier's side tables.
//
// Every array variant holds exactly one N-cell allocation for its entire
// lifetime — there is no growth, no compaction, and no sharing. Routing
// that single allocation through an anonymous mmap keeps it off the
// GC-scanned heap entirely, the same trade the teacher's ChunkPool makes
// for buffer chunks, generalized here to a single right-sized region
// per instance instead of a pool of fixed chunk sizes.
package arena

import (
	"fmt"
	"log/slog"
	"unsafe"

	"golang.org/x/sys/unix"
)

const int64Size = 8

// Cells is an mmap'd region of int64 cells, owned exclusively by its
// allocator for the region's lifetime. The zero value is not usable;
// construct with NewCells.
type Cells struct {
	data []int64
	raw  []byte
}

// NewCells allocates an anonymous, zero-initialized region of n int64
// cells via mmap. The region is not registered with the Go garbage
// collector and must be released with Free.
func NewCells(n int) (*Cells, error) {
	if n <= 0 {
		return nil, fmt.Errorf("arena: n must be > 0, got %d", n)
	}
	size := n * int64Size
	raw, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE,
	)
	if err != nil {
		return nil, fmt.Errorf("arena: mmap %d bytes for %d cells: %w", size, n, err)
	}
	return &Cells{
		data: unsafe.Slice((*int64)(unsafe.Pointer(&raw[0])), n),
		raw:  raw,
	}, nil
}

// Slice returns the backing cells. The returned slice is valid only
// until Free is called.
func (c *Cells) Slice() []int64 {
	return c.data
}

// Len returns the number of cells in the region.
func (c *Cells) Len() int {
	return len(c.data)
}

// Free releases the region back to the operating system. It is safe to
// call Free more than once; subsequent calls are no-ops.
func (c *Cells) Free() {
	if c.raw == nil {
		return
	}
	if err := unix.Munmap(c.raw); err != nil {
		slog.Error("arena: munmap failed", "error", err)
	}
	c.raw = nil
	c.data = nil
}

// Stamps is an mmap'd region of uint32 epoch stamps, used by the shadow
// verifier alongside a parallel Cells region of the same length.
type Stamps struct {
	data []uint32
	raw  []byte
}

// NewStamps allocates an anonymous, zero-initialized region of n uint32
// stamps via mmap.
func NewStamps(n int) (*Stamps, error) {
	if n <= 0 {
		return nil, fmt.Errorf("arena: n must be > 0, got %d", n)
	}
	const uint32Size = 4
	size := n * uint32Size
	raw, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE,
	)
	if err != nil {
		return nil, fmt.Errorf("arena: mmap %d bytes for %d stamps: %w", size, n, err)
	}
	return &Stamps{
		data: unsafe.Slice((*uint32)(unsafe.Pointer(&raw[0])), n),
		raw:  raw,
	}, nil
}

// Slice returns the backing stamps. The returned slice is valid only
// until Free is called.
func (s *Stamps) Slice() []uint32 {
	return s.data
}

// Reset zeroes every stamp without reallocating.
func (s *Stamps) Reset() {
	for i := range s.data {
		s.data[i] = 0
	}
}

// Free releases the region back to the operating system. It is safe to
// call Free more than once; subsequent calls are no-ops.
func (s *Stamps) Free() {
	if s.raw == nil {
		return
	}
	if err := unix.Munmap(s.raw); err != nil {
		slog.Error("arena: munmap failed", "error", err)
	}
	s.raw = nil
	s.data = nil
}
