package inplace

import (
	"math/rand"
	"testing"
)

func TestSec4ChainInvariantHoldsUnderRandomOps(t *testing.T) {
	const n = 64
	s, err := NewSec4(n)
	if err != nil {
		t.Fatalf("NewSec4: %v", err)
	}
	defer s.Close()
	if err := s.EnableVerification(); err != nil {
		t.Fatalf("EnableVerification: %v", err)
	}

	rng := rand.New(rand.NewSource(99))
	s.Init(0)
	for op := 0; op < 800; op++ {
		if rng.Intn(20) == 0 {
			s.Init(Cell(rng.Intn(200) - 100))
			continue
		}
		i := rng.Intn(n)
		if rng.Intn(2) == 0 {
			s.Read(i)
		} else {
			s.Write(i, Cell(rng.Intn(2001)-1000))
		}
		if !s.checkInvariants() {
			t.Fatalf("invariant violated after op %d: %s", op, s.DumpState(i))
		}
	}
	if !s.VerifyCorrectness() {
		t.Fatalf("VerifyCorrectness failed: %s", s.DumpState(0))
	}
}

func TestSec4MetadataStashSurvivesReadsAndWrites(t *testing.T) {
	const n = 16
	s, err := NewSec4(n)
	if err != nil {
		t.Fatalf("NewSec4: %v", err)
	}
	defer s.Close()

	s.Init(5)
	mb := s.nBlocks - 1
	data := s.cells.Slice()
	if data[s.first(mb)+1] != 5 {
		t.Fatalf("expected stashed initv 5, got %d", data[s.first(mb)+1])
	}
	if data[s.first(mb)+2] != 0 {
		t.Fatalf("expected stashed b=0, got %d", data[s.first(mb)+2])
	}

	s.Write(0, 42)
	data = s.cells.Slice()
	if !s.flag {
		if data[s.first(mb)+2] != Cell(s.b) {
			t.Fatalf("stashed b %d disagrees with cached b %d", data[s.first(mb)+2], s.b)
		}
		if data[s.first(mb)+1] != s.initv {
			t.Fatalf("stashed initv %d disagrees with cached initv %d", data[s.first(mb)+1], s.initv)
		}
	}
}

func TestSec4FastPathOnceFullyPromoted(t *testing.T) {
	const n = 4 // single block; the first extend promotes everything.
	s, err := NewSec4(n)
	if err != nil {
		t.Fatalf("NewSec4: %v", err)
	}
	defer s.Close()
	s.Init(0)

	if err := s.Write(0, 7); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !s.flag {
		t.Fatal("expected flag to be set once the only block has been promoted")
	}
	for i := 0; i < n; i++ {
		want := Cell(0)
		if i == 0 {
			want = 7
		}
		if got, _ := s.Read(i); got != want {
			t.Fatalf("Read(%d) = %d; want %d", i, got, want)
		}
	}
}
