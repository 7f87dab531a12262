package inplace

// Counters accumulates per-instance operation counts. Every variant
// exposes its own Counters via GetCounters; they are ordinary instance
// fields, not atomics — an instance is single-owner and single-threaded
// per the module's concurrency model, so there is no concurrent writer
// to guard against (contrast the teacher's bucket.stats.Compactions,
// which genuinely is updated from multiple goroutines and so uses
// sync/atomic).
type Counters struct {
	Reads       uint64
	Writes      uint64
	Inits       uint64
	Relocations uint64
	Conversions uint64
}

// Reset zeroes every counter in place.
func (c *Counters) Reset() {
	*c = Counters{}
}
