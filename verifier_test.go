package inplace

import "testing"

func TestShadowVerifierDisabledIsNoOp(t *testing.T) {
	v := newShadowVerifier(nil)
	v.onInit(5)
	v.onWrite(0, 1)
	if report := v.checkAgainst(func(i int) Cell { return 999 }); report != nil {
		t.Fatalf("expected nil report while disabled, got %+v", report)
	}
}

func TestShadowVerifierDetectsMismatch(t *testing.T) {
	v := newShadowVerifier(nil)
	if err := v.enable(8); err != nil {
		t.Fatalf("enable: %v", err)
	}
	v.onInit(0)
	v.onWrite(3, 42)

	actual := make([]Cell, 8)
	for i := range actual {
		actual[i] = 0
	}
	actual[3] = 42

	if report := v.checkAgainst(func(i int) Cell { return actual[i] }); report != nil {
		t.Fatalf("expected agreement, got mismatch %+v", report)
	}

	actual[5] = 7 // introduce a divergence the verifier didn't cause
	report := v.checkAgainst(func(i int) Cell { return actual[i] })
	if report == nil {
		t.Fatal("expected a mismatch report")
	}
	if report.Index != 5 || report.Expected != 0 || report.Actual != 7 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestShadowVerifierEpochWraparound(t *testing.T) {
	v := newShadowVerifier(nil)
	if err := v.enable(4); err != nil {
		t.Fatalf("enable: %v", err)
	}
	v.shadowEpoch = ^uint32(0) // force the next Init to wrap
	v.onInit(9)
	if v.shadowEpoch != 1 {
		t.Fatalf("expected epoch to restart at 1 after wraparound, got %d", v.shadowEpoch)
	}
	for i, s := range v.stamp.Slice() {
		if s != 0 {
			t.Fatalf("expected stamp %d cleared after wraparound, got %d", i, s)
		}
	}
}

func TestShadowVerifierEnableIsIdempotent(t *testing.T) {
	v := newShadowVerifier(nil)
	if err := v.enable(4); err != nil {
		t.Fatalf("enable: %v", err)
	}
	shadow := v.shadow
	if err := v.enable(4); err != nil {
		t.Fatalf("second enable: %v", err)
	}
	if v.shadow != shadow {
		t.Fatal("expected enable to be a no-op once already enabled")
	}
	v.close()
}
