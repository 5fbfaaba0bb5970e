package spu

import (
	"github.com/rtiangha/duckstation/hw/hwdefs"
	"github.com/rtiangha/duckstation/hw/hwio"
)

// Voice is one of the 24 independent ADPCM playback channels: its
// 16-byte register block (offsets 0x00..0x0E relative to the voice's
// base, per original_source's reg_index layout) plus the runtime
// ADPCM/ADSR/interpolation state that advances every sample period.
// The register fields live directly on Voice, not a nested struct, so
// their Read/Write callbacks can see the rest of the voice's state —
// the same shape the teacher's hw/apu channel types use.
type Voice struct {
	index int

	VolumeLeft    hwio.Reg16 `hwio:"offset=0x00,wcb"`
	VolumeRight   hwio.Reg16 `hwio:"offset=0x02,wcb"`
	SampleRate    hwio.Reg16 `hwio:"offset=0x04,wcb"`
	StartAddress  hwio.Reg16 `hwio:"offset=0x06,wcb"`
	ADSRLow       hwio.Reg16 `hwio:"offset=0x08,wcb"`
	ADSRHigh      hwio.Reg16 `hwio:"offset=0x0A,wcb"`
	ADSRVolume    hwio.Reg16 `hwio:"offset=0x0C,wcb"`
	RepeatAddress hwio.Reg16 `hwio:"offset=0x0E,wcb"`

	currentAddress uint16
	adsr           adsrState

	blockSamples    [hwdefs.ADPCMSamplesPerBlock]int16
	prevLastSample  [3]int16
	prevLastFilter  [2]int32
	blockLoopStart  bool
	blockLoopEnd    bool
	blockLoopRepeat bool

	counter    uint32
	hasSamples bool
}

func newVoice(index int) *Voice {
	v := &Voice{index: index}
	hwio.MustInitRegs(v)
	return v
}

func (v *Voice) mapInto(bus *hwio.Table, base uint16) {
	bus.MapBank(base, v, 0)
}

// hwio.Reg16 has already stored the raw value before a Write* callback
// runs, so every callback except WriteADSRVolume does nothing, and no
// access is logged. WriteADSRVolume also copies the written value into
// the live envelope volume.
func (v *Voice) WriteVolumeLeft(old, val uint16)    {}
func (v *Voice) WriteVolumeRight(old, val uint16)   {}
func (v *Voice) WriteSampleRate(old, val uint16)    {}
func (v *Voice) WriteStartAddress(old, val uint16)  {}
func (v *Voice) WriteADSRLow(old, val uint16)       {}
func (v *Voice) WriteADSRHigh(old, val uint16)      {}
func (v *Voice) WriteADSRVolume(old, val uint16)    { v.adsr.volume = int32(val) }
func (v *Voice) WriteRepeatAddress(old, val uint16) {}

func (v *Voice) adsrRegs() adsrRegs {
	return adsrRegs{low: v.ADSRLow.Value, high: v.ADSRHigh.Value}
}

// IsOn reports whether the voice is currently producing samples:
// anything other than the Off ADSR phase.
func (v *Voice) IsOn() bool {
	return v.adsr.phase != ADSRPhaseOff
}

func (v *Voice) Phase() ADSRPhase { return v.adsr.phase }

// KeyOn restarts the voice from its configured start address and
// begins the Attack phase, per original_source's Voice::KeyOn.
func (v *Voice) KeyOn() {
	v.currentAddress = v.StartAddress.Value
	v.ADSRVolume.Value = 0
	v.adsr.volume = 0
	v.hasSamples = false
	v.adsr.setPhase(ADSRPhaseAttack, v.adsrRegs())
}

// KeyOff begins the Release phase, unless the voice is already off.
func (v *Voice) KeyOff() {
	if v.adsr.phase == ADSRPhaseOff {
		return
	}
	v.adsr.setPhase(ADSRPhaseRelease, v.adsrRegs())
}

func (v *Voice) tickADSR() {
	v.adsr.tick(v.adsrRegs())
	v.ADSRVolume.Value = uint16(v.adsr.volume)
}

// decodeNewBlock runs the ADPCM predictor over a freshly fetched block
// and stores its loop flags/decoded samples, carrying the IIR history
// forward exactly as original_source's Voice::DecodeBlock does.
func (v *Voice) decodeNewBlock(block adpcmBlock) {
	v.prevLastSample[2] = v.blockSamples[hwdefs.ADPCMSamplesPerBlock-1]
	v.prevLastSample[1] = v.blockSamples[hwdefs.ADPCMSamplesPerBlock-2]
	v.prevLastSample[0] = v.blockSamples[hwdefs.ADPCMSamplesPerBlock-3]

	samples, l0, l1 := decodeBlock(block, v.prevLastFilter[0], v.prevLastFilter[1])
	v.prevLastFilter[0], v.prevLastFilter[1] = l0, l1
	v.blockSamples = samples
	v.blockLoopStart = block.loopStart()
	v.blockLoopEnd = block.loopEnd()
	v.blockLoopRepeat = block.loopRepeat()
}

// sampleBlock returns the decoded sample at index s of the current
// block, s in [-3, ADPCMSamplesPerBlock-1]; negative indices reach
// into the previous block's trailing samples, matching
// original_source's SampleBlock.
func (v *Voice) sampleBlock(s int32) int16 {
	if s < 0 {
		return v.prevLastSample[s+3]
	}
	return v.blockSamples[s]
}

func (v *Voice) interpolateSample() int16 {
	s := v.sampleIndex()
	return interpolate(v.interpIndex(), func(k int32) int16 {
		return v.sampleBlock(s + k)
	})
}

func (v *Voice) interpIndex() uint8 { return uint8((v.counter >> 4) & 0xFF) }
func (v *Voice) sampleIndex() int32 { return int32((v.counter >> 12) & 0x1F) }

func getVolume(reg uint16) int16 {
	// Fixed-volume mode only: bit 15 selects sweep mode, which is out
	// of scope here, so any register write with it set is treated as
	// a direct signed magnitude the same as fixed mode.
	return int16(reg &^ 0x8000)
}

func applyVolumeUnsaturated(sample int32, volume int16) int32 {
	return (sample * int32(volume)) >> 15
}
