package inplace

import "testing"

func TestChecksumSequenceOrderSensitive(t *testing.T) {
	a := []Cell{1, 2, 3, 4}
	b := []Cell{4, 3, 2, 1}
	ca := checksumSequence(len(a), func(i int) Cell { return a[i] })
	cb := checksumSequence(len(b), func(i int) Cell { return b[i] })
	if ca == cb {
		t.Fatal("expected different checksums for differently-ordered sequences")
	}
}

func TestChecksumSequenceDeterministic(t *testing.T) {
	a := []Cell{5, -5, 0, 1000, -1000}
	c1 := checksumSequence(len(a), func(i int) Cell { return a[i] })
	c2 := checksumSequence(len(a), func(i int) Cell { return a[i] })
	if c1 != c2 {
		t.Fatal("expected checksumSequence to be deterministic for identical input")
	}
}
