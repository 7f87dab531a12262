package inplace

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// checksumSequence computes an order-sensitive digest over n logical
// cells, calling at(i) for each index in turn. It is used both by the
// shadow verifier (to cheaply decide whether a full per-index mismatch
// scan is needed at all) and exposed per variant as Checksum, so two
// array instances can be compared without a manual sweep.
func checksumSequence(n int, at func(i int) Cell) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint64(buf[:], uint64(at(i)))
		d.Write(buf[:])
	}
	return d.Sum64()
}
