package spu

import "testing"

func blockWithNibbles(shift, filter uint8, flags uint8, nibbles [28]uint8) adpcmBlock {
	var b adpcmBlock
	b.shiftFilter = (filter << 4) | (shift & 0xF)
	b.flags = flags
	for i := 0; i < 28; i += 2 {
		b.data[i/2] = nibbles[i] | (nibbles[i+1] << 4)
	}
	return b
}

// TestDecodeBlockNoFilterNoShift exercises filter 0 (no IIR
// contribution at all, regardless of history) and shift 0, so every
// decoded sample is exactly the sign-extended nibble shifted into the
// top of a 16-bit word.
func TestDecodeBlockNoFilterNoShift(t *testing.T) {
	var nibbles [28]uint8
	nibbles[0] = 1  // 0x1000
	nibbles[1] = 8  // sign bit set -> -0x8000
	nibbles[2] = 0xF // -0x1000

	b := blockWithNibbles(0, 0, 0, nibbles)
	samples, last0, last1 := decodeBlock(b, 0x1111, 0x2222)

	want := []int16{0x1000, -0x8000, -0x1000}
	for i, w := range want {
		if samples[i] != w {
			t.Errorf("samples[%d] = %#x, want %#x", i, samples[i], w)
		}
	}
	for i := 3; i < 28; i++ {
		if samples[i] != 0 {
			t.Errorf("samples[%d] = %#x, want 0", i, samples[i])
		}
	}

	// filter 0 has zero coefficients, so carried history is just the
	// last two (unclamped) decoded samples, irrespective of the
	// last0/last1 passed in.
	if last0 != 0 || last1 != 0 {
		t.Errorf("last0,last1 = %d,%d, want 0,0", last0, last1)
	}
}

// TestDecodeBlockShiftClamp clamps the predicted sample once the
// filter's history term pushes an unshifted, large-magnitude nibble
// out of int16 range: -0x8000 + (-0x8000*60+32)/64 = -63487.
func TestDecodeBlockShiftClamp(t *testing.T) {
	var nibbles [28]uint8
	nibbles[0] = 8 // most negative nibble: int16(-0x8000) unshifted

	b := blockWithNibbles(0, 1, 0, nibbles)
	samples, _, _ := decodeBlock(b, -0x8000, 0)
	if samples[0] != -32768 {
		t.Fatalf("samples[0] = %d, want -32768", samples[0])
	}
}

func TestAdpcmBlockFlags(t *testing.T) {
	var nibbles [28]uint8
	b := blockWithNibbles(5, 2, 0x07, nibbles)
	if got := b.shift(); got != 5 {
		t.Errorf("shift() = %d, want 5", got)
	}
	if got := b.filter(); got != 2 {
		t.Errorf("filter() = %d, want 2", got)
	}
	if !b.loopEnd() || !b.loopRepeat() || !b.loopStart() {
		t.Errorf("loop flags = %v,%v,%v, want all true", b.loopEnd(), b.loopRepeat(), b.loopStart())
	}
}

func TestAdpcmBlockFilterClampsAt4(t *testing.T) {
	b := blockWithNibbles(0, 7, 0, [28]uint8{})
	if got := b.filter(); got != 4 {
		t.Fatalf("filter() = %d, want 4 (clamped)", got)
	}
}
