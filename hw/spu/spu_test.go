package spu

import (
	"testing"

	"github.com/rtiangha/duckstation/hw/hwdefs"
)

type stubSink struct {
	calls int
	last  [2]int16
}

func (s *stubSink) PushSample(left, right int16) {
	s.calls++
	s.last = [2]int16{left, right}
}

type stubIRQ struct {
	events []bool
}

func (s *stubIRQ) SetIRQ(source string, asserted bool) {
	s.events = append(s.events, asserted)
}

// writeBlock places a 16-byte ADPCM block at RAM byte offset off:
// shift/filter header, loop flags, and 28 nibbles (low nibble first).
func writeBlock(s *SPU, off uint32, shift, filter, flags uint8, nibbles [28]uint8) {
	s.ram.data[off] = (filter << 4) | (shift & 0xF)
	s.ram.data[off+1] = flags
	for i := 0; i < 28; i += 2 {
		s.ram.data[off+2+uint32(i)/2] = nibbles[i] | (nibbles[i+1] << 4)
	}
}

func TestScenarioSilenceProducesNoSamples(t *testing.T) {
	sink := &stubSink{}
	s := New(nil, nil, nil, sink, nil)
	// Control defaults to 0: master disabled, CD audio disabled.

	for i := 0; i < 1000; i++ {
		s.Execute(hwdefs.SysclkTicksPerSPUTick)
	}

	if sink.calls != 0 {
		t.Fatalf("PushSample called %d times while disabled, want 0", sink.calls)
	}
}

func TestScenarioLoopSetsRepeatAddress(t *testing.T) {
	s := New(nil, nil, nil, nil, nil)
	s.Control.Value = 1 // master enable

	writeBlock(s, 0, 0, 0, 0x07, [28]uint8{}) // loop_end|loop_repeat|loop_start, silent block

	v := s.voices[0]
	v.StartAddress.Value = 0
	v.SampleRate.Value = 0x1000
	v.KeyOn()

	// Run exactly one block's worth of samples (28, since step 0x1000
	// advances sampleIndex by one per call).
	for i := 0; i < hwdefs.ADPCMSamplesPerBlock; i++ {
		s.sampleVoice(0)
	}

	if v.RepeatAddress.Value != 0 {
		t.Fatalf("RepeatAddress = %#x, want 0 (latched from loop_start)", v.RepeatAddress.Value)
	}
	if v.currentAddress != 0 {
		t.Fatalf("currentAddress after loop = %#x, want 0 (loop_repeat)", v.currentAddress)
	}
	if s.endxRegister&1 != 0 {
		t.Fatal("ENDX bit0 set, want clear (loop_repeat should not end the voice)")
	}
}

func TestScenarioEndxOnLoopEndWithoutRepeat(t *testing.T) {
	s := New(nil, nil, nil, nil, nil)
	s.Control.Value = 1

	writeBlock(s, 0, 0, 0, 0x05, [28]uint8{}) // loop_end|loop_start, no loop_repeat

	v := s.voices[0]
	v.StartAddress.Value = 0
	v.SampleRate.Value = 0x1000
	v.KeyOn()

	for i := 0; i < hwdefs.ADPCMSamplesPerBlock; i++ {
		s.sampleVoice(0)
	}

	if s.endxRegister&1 == 0 {
		t.Fatal("ENDX bit0 not set after loop_end without loop_repeat")
	}
	if s.EndxLow.Value&1 == 0 {
		t.Fatal("EndxLow bit0 not set after loop_end without loop_repeat")
	}
	if v.Phase() != ADSRPhaseRelease {
		t.Fatalf("phase after block end = %v, want Release", v.Phase())
	}

	for i := 0; i < 8 && v.Phase() != ADSRPhaseOff; i++ {
		s.sampleVoice(0)
	}
	if v.Phase() != ADSRPhaseOff {
		t.Fatalf("phase never settled to Off, stuck at %v", v.Phase())
	}
}

// TestEndxCoversAllVoices guards against ENDX being truncated to 16
// bits: voices 16-23 must be able to set their bit too, and it must
// land in the high half exposed on the bus.
func TestEndxCoversAllVoices(t *testing.T) {
	s := New(nil, nil, nil, nil, nil)
	s.Control.Value = 1

	writeBlock(s, 0, 0, 0, 0x05, [28]uint8{}) // loop_end|loop_start, no loop_repeat

	const voiceIndex = 20
	v := s.voices[voiceIndex]
	v.StartAddress.Value = 0
	v.SampleRate.Value = 0x1000
	v.KeyOn()

	for i := 0; i < hwdefs.ADPCMSamplesPerBlock; i++ {
		s.sampleVoice(voiceIndex)
	}

	wantBit := uint32(1) << voiceIndex
	if s.endxRegister&wantBit == 0 {
		t.Fatalf("endxRegister = %#x, want bit %d set", s.endxRegister, voiceIndex)
	}
	if s.EndxHigh.Value&(1<<uint(voiceIndex-16)) == 0 {
		t.Fatalf("EndxHigh = %#x, want bit %d set", s.EndxHigh.Value, voiceIndex-16)
	}
	if s.EndxLow.Value != 0 {
		t.Fatalf("EndxLow = %#x, want 0 (voice %d's bit belongs in the high half)", s.EndxLow.Value, voiceIndex)
	}
}

func TestScenarioIRQOnFetchAddress(t *testing.T) {
	irq := &stubIRQ{}
	s := New(nil, irq, nil, nil, nil)
	s.Control.Value = 1 | (1 << 2) // master enable, irq9 enable
	s.IRQAddress.Value = 1

	writeBlock(s, 0, 0, 0, 0, [28]uint8{})

	v := s.voices[0]
	v.StartAddress.Value = 0
	v.SampleRate.Value = 0x1000
	v.KeyOn()

	s.sampleVoice(0) // triggers the first block fetch at address 0

	if s.Status.Value&1 == 0 {
		t.Fatal("SPUSTAT irq9_flag not set after fetch at irq_address-1")
	}
	if !s.IRQAsserted() {
		t.Fatal("SPU IRQ line not asserted")
	}

	assertedCount := 0
	for _, e := range irq.events {
		if e {
			assertedCount++
		}
	}
	if assertedCount != 1 {
		t.Fatalf("IRQ asserted %d times, want exactly 1 (edge-triggered)", assertedCount)
	}

	// Further samples from the same still-fetched block must not
	// re-assert: the line is already high, so setIRQ is a no-op.
	s.sampleVoice(0)
	assertedCount = 0
	for _, e := range irq.events {
		if e {
			assertedCount++
		}
	}
	if assertedCount != 1 {
		t.Fatalf("IRQ asserted %d times after a second sample, want still 1", assertedCount)
	}
}

func TestSampleRateClampsTo0x4000(t *testing.T) {
	s := New(nil, nil, nil, nil, nil)
	s.Control.Value = 1
	writeBlock(s, 0, 0, 0, 0, [28]uint8{})

	v := s.voices[0]
	v.StartAddress.Value = 0
	v.SampleRate.Value = 0x5FFF
	v.KeyOn()

	s.sampleVoice(0)

	if v.counter != 0x4000 {
		t.Fatalf("counter after one sample = %#x, want 0x4000 (clamped)", v.counter)
	}
}

func TestVoiceOffSamplesAreZero(t *testing.T) {
	s := New(nil, nil, nil, nil, nil)
	s.Control.Value = 1
	l, r := s.sampleVoice(0)
	if l != 0 || r != 0 {
		t.Fatalf("sampleVoice on an Off voice = (%d,%d), want (0,0)", l, r)
	}
}

func TestKeyOnRewriteOfSetBitReTriggers(t *testing.T) {
	s := New(nil, nil, nil, nil, nil)
	v := s.voices[0]
	v.StartAddress.Value = 0x40

	s.Bus.Write16(hwdefs.GlobalRegBase+0x08, 1) // KeyOnLow bit0
	if !v.IsOn() {
		t.Fatal("voice should be on after first KeyOnLow write")
	}

	v.currentAddress = 0xDEAD
	v.hasSamples = true

	// Writing the same already-set bit again must still re-trigger.
	s.Bus.Write16(hwdefs.GlobalRegBase+0x08, 1)
	if v.currentAddress != 0x40 {
		t.Fatalf("currentAddress after re-KeyOn via register = %#x, want 0x40", v.currentAddress)
	}
	if v.hasSamples {
		t.Fatal("hasSamples should be cleared by the re-trigger")
	}
}

func TestDMAWriteWrapsAcrossRAMBoundary(t *testing.T) {
	s := New(nil, nil, nil, nil, nil)
	s.transferAddress = hwdefs.RAMSize - 4

	words := []uint32{0x11223344, 0x55667788}
	s.DMAWrite(words)

	if got := s.ram.read16(hwdefs.RAMSize - 4); got != 0x3344 {
		t.Errorf("ram[-4:] low half = %#x, want 0x3344", got)
	}
	if got := s.ram.read16(hwdefs.RAMSize - 2); got != 0x1122 {
		t.Errorf("ram[-2:] = %#x, want 0x1122", got)
	}
	if got := s.ram.read16(0); got != 0x7788 {
		t.Errorf("ram[0:] = %#x, want 0x7788 (wrapped)", got)
	}
	if got := s.ram.read16(2); got != 0x5566 {
		t.Errorf("ram[2:] = %#x, want 0x5566 (wrapped)", got)
	}
	if s.transferAddress != 4 {
		t.Fatalf("transferAddress after wrap = %#x, want 4", s.transferAddress)
	}
}
