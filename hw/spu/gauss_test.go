package spu

import "testing"

// sampleAtConst returns a sampleAt func returning the same value for
// every tap, which is enough to check the sign/shift plumbing without
// hand-copying gaussTable entries.
func sampleAtConst(v int16) func(int32) int16 {
	return func(int32) int16 { return v }
}

func TestInterpolateAllZero(t *testing.T) {
	got := interpolate(0, sampleAtConst(0))
	if got != 0 {
		t.Fatalf("interpolate(0, all-zero) = %d, want 0", got)
	}
	got = interpolate(0x80, sampleAtConst(0))
	if got != 0 {
		t.Fatalf("interpolate(0x80, all-zero) = %d, want 0", got)
	}
}

// TestInterpolateMatchesTable recomputes the same four-tap formula
// directly against gaussTable for a couple of indices, guarding
// against accidental changes to the tap/shift arithmetic in
// interpolate without hand-copying 512 hex constants into the test.
func TestInterpolateMatchesTable(t *testing.T) {
	samples := map[int32]int16{-3: 0x1234, -2: -0x0421, -1: 0x7FFF, 0: -0x8000}
	sampleAt := func(idx int32) int16 { return samples[idx] }

	for _, i := range []uint8{0, 1, 0x80, 0xFF} {
		ii := int32(i)
		want := int16((gaussTable[0x0FF-ii] * int32(sampleAt(-3))) >> 15)
		want += int16((gaussTable[0x1FF-ii] * int32(sampleAt(-2))) >> 15)
		want += int16((gaussTable[0x100+ii] * int32(sampleAt(-1))) >> 15)
		want += int16((gaussTable[0x000+ii] * int32(sampleAt(0))) >> 15)

		got := interpolate(i, sampleAt)
		if got != want {
			t.Errorf("interpolate(%#x, ...) = %d, want %d", i, got, want)
		}
	}
}

// TestInterpolateScenarioImpulse follows the suite's impulse-train
// scenario: at interpolation_index 0 the taps on samples -3 and -1
// multiply zero, so only gaussTable[0x1FF] (sample -2) and
// gaussTable[0x000] (sample 0), each against a 0x7FFF sample,
// contribute.
func TestInterpolateScenarioImpulse(t *testing.T) {
	samples := map[int32]int16{-3: 0, -2: 0x7FFF, -1: 0, 0: 0x7FFF}
	sampleAt := func(idx int32) int16 { return samples[idx] }

	want := int16((gaussTable[0x0FF] * int32(sampleAt(-3))) >> 15)
	want += int16((gaussTable[0x1FF] * int32(sampleAt(-2))) >> 15)
	want += int16((gaussTable[0x100] * int32(sampleAt(-1))) >> 15)
	want += int16((gaussTable[0x000] * int32(sampleAt(0))) >> 15)

	got := interpolate(0, sampleAt)
	if got != want {
		t.Fatalf("interpolate(0, impulse) = %d, want %d", got, want)
	}
}
