package spu

import "github.com/rtiangha/duckstation/hw/hwdefs"

// adpcmFilterPos/adpcmFilterNeg are the 2-tap IIR predictor
// coefficients selected by a block's filter index, reproduced from
// original_source/src/core/spu.cpp::DecodeBlock.
var adpcmFilterPos = [5]int32{0, 60, 115, 98, 122}
var adpcmFilterNeg = [5]int32{0, 0, -52, -55, -60}

// adpcmBlock is one 16-byte compressed block: a 1-byte shift/filter
// header, a 1-byte loop-flag header, and 14 bytes holding 28 4-bit
// signed nibbles.
type adpcmBlock struct {
	shiftFilter uint8
	flags       uint8
	data        [14]uint8
}

func (b adpcmBlock) shift() uint8 {
	return b.shiftFilter & 0xF
}

func (b adpcmBlock) filter() uint8 {
	f := (b.shiftFilter >> 4) & 0x7
	if f > 4 {
		f = 4
	}
	return f
}

func (b adpcmBlock) loopEnd() bool    { return b.flags&0x01 != 0 }
func (b adpcmBlock) loopRepeat() bool { return b.flags&0x02 != 0 }
func (b adpcmBlock) loopStart() bool  { return b.flags&0x04 != 0 }

// nibble returns the i'th (0..27) signed 4-bit sample, low nibble
// first within each byte.
func (b adpcmBlock) nibble(i int) uint8 {
	v := b.data[i/2]
	if i%2 == 0 {
		return v & 0xF
	}
	return v >> 4
}

// decodeBlock runs the ADPCM predictor over one compressed block,
// producing hwdefs.ADPCMSamplesPerBlock 16-bit PCM samples. last0/
// last1 are the two most recent *unclamped* interpolated samples
// carried over from the previous block (the filter runs on the
// pre-clamp value, only the output written to the block is clamped).
func decodeBlock(block adpcmBlock, last0, last1 int32) (samples [hwdefs.ADPCMSamplesPerBlock]int16, newLast0, newLast1 int32) {
	shift := block.shift()
	filterPos := adpcmFilterPos[block.filter()]
	filterNeg := adpcmFilterNeg[block.filter()]

	for i := 0; i < hwdefs.ADPCMSamplesPerBlock; i++ {
		nibble := uint16(block.nibble(i))
		sample := int32(int16(nibble<<12)) >> shift
		interp := sample + (last0*filterPos+last1*filterNeg+32)/64

		samples[i] = clamp16(interp)
		last1 = last0
		last0 = interp
	}

	return samples, last0, last1
}

func clamp16(v int32) int16 {
	if v < -32768 {
		return -32768
	}
	if v > 32767 {
		return 32767
	}
	return int16(v)
}
