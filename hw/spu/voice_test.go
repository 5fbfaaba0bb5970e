package spu

import "testing"

func TestVoiceKeyOnKeyOff(t *testing.T) {
	v := newVoice(0)
	v.StartAddress.Value = 0x1234

	if v.IsOn() {
		t.Fatal("freshly constructed voice should be Off")
	}

	v.KeyOn()
	if !v.IsOn() {
		t.Fatal("voice should be on after KeyOn")
	}
	if v.Phase() != ADSRPhaseAttack {
		t.Fatalf("phase after KeyOn = %v, want Attack", v.Phase())
	}
	if v.currentAddress != 0x1234 {
		t.Fatalf("currentAddress after KeyOn = %#x, want %#x", v.currentAddress, 0x1234)
	}
	if v.hasSamples {
		t.Fatal("hasSamples should be cleared by KeyOn")
	}

	v.KeyOff()
	if v.Phase() != ADSRPhaseRelease {
		t.Fatalf("phase after KeyOff = %v, want Release", v.Phase())
	}
}

func TestVoiceKeyOffWhileOffIsNoop(t *testing.T) {
	v := newVoice(0)
	v.KeyOff()
	if v.Phase() != ADSRPhaseOff {
		t.Fatalf("phase = %v, want Off", v.Phase())
	}
}

// TestVoiceKeyOnIsIdempotentReTrigger asserts that a voice already on
// still restarts from its start address on a second KeyOn, matching
// the boundary case where a key-on write targets a bit that's already
// set in the register.
func TestVoiceKeyOnIsIdempotentReTrigger(t *testing.T) {
	v := newVoice(0)
	v.StartAddress.Value = 0x10
	v.KeyOn()

	v.currentAddress = 0x999
	v.hasSamples = true
	v.adsr.volume = 12345

	v.KeyOn()
	if v.currentAddress != 0x10 {
		t.Fatalf("currentAddress after re-KeyOn = %#x, want 0x10", v.currentAddress)
	}
	if v.hasSamples {
		t.Fatal("hasSamples should be cleared by re-KeyOn")
	}
	if v.adsr.volume != 0 {
		t.Fatalf("volume after re-KeyOn = %d, want 0", v.adsr.volume)
	}
}

func TestVoiceCounterIndices(t *testing.T) {
	v := newVoice(0)
	v.counter = (5 << 12) | (0xAB << 4)
	if got := v.sampleIndex(); got != 5 {
		t.Fatalf("sampleIndex() = %d, want 5", got)
	}
	if got := v.interpIndex(); got != 0xAB {
		t.Fatalf("interpIndex() = %#x, want 0xAB", got)
	}
}

func TestGetVolumeMasksSweepBit(t *testing.T) {
	if got := getVolume(0x8123); got != 0x0123 {
		t.Fatalf("getVolume(0x8123) = %#x, want 0x0123", got)
	}
	if got := getVolume(0x7FFF); got != 0x7FFF {
		t.Fatalf("getVolume(0x7FFF) = %#x, want 0x7FFF", got)
	}
}
