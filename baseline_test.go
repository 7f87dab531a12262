package inplace

import "testing"

func TestBaselineCountersNeverAccrueRelocationsOrConversions(t *testing.T) {
	a, err := NewBaseline(32)
	if err != nil {
		t.Fatalf("NewBaseline: %v", err)
	}
	defer a.Close()

	a.Init(0)
	for i := 0; i < 32; i++ {
		a.Write(i, Cell(i))
	}
	for i := 0; i < 32; i++ {
		a.Read(i)
	}
	c := a.GetCounters()
	if c.Relocations != 0 || c.Conversions != 0 {
		t.Fatalf("expected baseline relocations/conversions to stay 0, got %+v", c)
	}
	if c.Writes != 32 || c.Reads != 32 || c.Inits != 1 {
		t.Fatalf("unexpected counters: %+v", c)
	}
}

func TestBaselineChecksumMatchesEquivalentContent(t *testing.T) {
	a, err := NewBaseline(16)
	if err != nil {
		t.Fatalf("NewBaseline: %v", err)
	}
	defer a.Close()
	b, err := NewBaseline(16)
	if err != nil {
		t.Fatalf("NewBaseline: %v", err)
	}
	defer b.Close()

	a.Init(3)
	b.Init(3)
	if a.Checksum() != b.Checksum() {
		t.Fatal("expected identical checksums for identically-initialized arrays")
	}

	a.Write(4, 100)
	if a.Checksum() == b.Checksum() {
		t.Fatal("expected checksums to diverge after a write to one instance")
	}
	b.Write(4, 100)
	if a.Checksum() != b.Checksum() {
		t.Fatal("expected checksums to reconverge after an equivalent write")
	}
}
