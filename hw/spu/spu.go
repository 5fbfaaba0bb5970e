// Package spu implements the cycle-driven 24-voice ADPCM synthesizer
// core: register decode, RAM transfer, per-voice ADSR/ADPCM/Gaussian
// interpolation, and IRQ/DMA signaling. Reverb, noise and pitch
// modulation are not implemented; a host scheduler, interrupt
// controller, DMA controller, audio sink and CD audio source are
// injected as small capability interfaces (types.go) rather than
// owned directly.
package spu

import (
	"github.com/rtiangha/duckstation/emu/log"
	"github.com/rtiangha/duckstation/hw/hwdefs"
	"github.com/rtiangha/duckstation/hw/hwio"
)

// RAMTransferMode is the 2-bit mode field of the control register.
// The two DMA modes raise the DMA request line (updateDMARequest);
// the transfer-data register and DMARead/DMAWrite do not check it.
type RAMTransferMode uint8

const (
	TransferStop RAMTransferMode = iota
	TransferManualWrite
	TransferDMAWrite
	TransferDMARead
)

// SPU is the top-level synthesizer: 24 voices, the shared RAM, the
// memory-mapped register window, and the transfer engine.
type SPU struct {
	scheduler  Scheduler
	interrupts InterruptController
	dma        DMAController
	sink       AudioSink
	cdAudio    CDAudioSource

	Bus *hwio.Table

	voices [hwdefs.NumVoices]*Voice
	ram    ram

	MainVolumeLeft  hwio.Reg16 `hwio:"offset=0x00,wcb"`
	MainVolumeRight hwio.Reg16 `hwio:"offset=0x02,wcb"`
	KeyOnLow        hwio.Reg16 `hwio:"offset=0x08,wcb"`
	KeyOnHigh       hwio.Reg16 `hwio:"offset=0x0A,wcb"`
	KeyOffLow       hwio.Reg16 `hwio:"offset=0x0C,wcb"`
	KeyOffHigh      hwio.Reg16 `hwio:"offset=0x0E,wcb"`
	ReverbOnLow     hwio.Reg16 `hwio:"offset=0x18,wcb"`
	ReverbOnHigh    hwio.Reg16 `hwio:"offset=0x1A,wcb"`
	EndxLow         hwio.Reg16 `hwio:"offset=0x1C,readonly"`
	EndxHigh        hwio.Reg16 `hwio:"offset=0x1E,readonly"`
	IRQAddress      hwio.Reg16 `hwio:"offset=0x24,wcb"`
	TransferAddrReg hwio.Reg16 `hwio:"offset=0x26,wcb"`
	TransferData    hwio.Reg16 `hwio:"offset=0x28,rcb,wcb"`
	Control         hwio.Reg16 `hwio:"offset=0x2A,wcb"`
	Status          hwio.Reg16 `hwio:"offset=0x2E,readonly"`

	keyOnRegister  uint32
	keyOffRegister uint32
	reverbOn       uint32 // latched, unused beyond storage: reverb is a non-goal
	endxRegister   uint32

	transferAddress uint32
	irqAsserted     bool

	ticksCarry int32
}

// New constructs an SPU with its register window mapped and all 24
// voices wired, ready for Bus.Read16/Write16 at offsets relative to
// the start of the register window.
// scheduler/interrupts/dma/sink/cdAudio may be nil stand-ins in tests
// that don't exercise those seams.
func New(scheduler Scheduler, interrupts InterruptController, dma DMAController, sink AudioSink, cdAudio CDAudioSource) *SPU {
	s := &SPU{
		scheduler:  scheduler,
		interrupts: interrupts,
		dma:        dma,
		sink:       sink,
		cdAudio:    cdAudio,
	}
	hwio.MustInitRegs(s)

	s.Bus = hwio.NewTable("spu", hwdefs.RegisterWindowSize)
	for i := range s.voices {
		s.voices[i] = newVoice(i)
		s.voices[i].mapInto(s.Bus, uint16(i*hwdefs.VoiceRegStride))
	}
	s.Bus.MapBank(hwdefs.GlobalRegBase, s, 0)

	return s
}

func (s *SPU) Reset() {
	for i := range s.voices {
		s.voices[i] = newVoice(i)
		s.voices[i].mapInto(s.Bus, uint16(i*hwdefs.VoiceRegStride))
	}
	s.keyOnRegister = 0
	s.keyOffRegister = 0
	s.reverbOn = 0
	s.endxRegister = 0
	s.transferAddress = 0
	s.irqAsserted = false
	s.ticksCarry = 0
	s.Control.Value = 0
	s.Status.Value = 0
}

func (s *SPU) synchronize() {
	if s.scheduler != nil {
		s.scheduler.Synchronize()
	}
}

func (s *SPU) transferMode() RAMTransferMode {
	return RAMTransferMode((s.Control.Value >> 3) & 0x3)
}

func (s *SPU) WriteMainVolumeLeft(old, val uint16)  { s.synchronize() }
func (s *SPU) WriteMainVolumeRight(old, val uint16) { s.synchronize() }

func (s *SPU) WriteKeyOnLow(old, val uint16) {
	s.synchronize()
	s.keyOnRegister = (s.keyOnRegister &^ 0xFFFF) | uint32(val)
	for i := 0; i < 16; i++ {
		if val&(1<<uint(i)) != 0 {
			s.voices[i].KeyOn()
		}
	}
}

func (s *SPU) WriteKeyOnHigh(old, val uint16) {
	s.synchronize()
	s.keyOnRegister = (s.keyOnRegister &^ 0xFFFF0000) | (uint32(val) << 16)
	for i := 16; i < hwdefs.NumVoices; i++ {
		if val&(1<<uint(i-16)) != 0 {
			s.voices[i].KeyOn()
		}
	}
}

func (s *SPU) WriteKeyOffLow(old, val uint16) {
	s.synchronize()
	s.keyOffRegister = (s.keyOffRegister &^ 0xFFFF) | uint32(val)
	for i := 0; i < 16; i++ {
		if val&(1<<uint(i)) != 0 {
			s.voices[i].KeyOff()
		}
	}
}

func (s *SPU) WriteKeyOffHigh(old, val uint16) {
	s.synchronize()
	s.keyOffRegister = (s.keyOffRegister &^ 0xFFFF0000) | (uint32(val) << 16)
	for i := 16; i < hwdefs.NumVoices; i++ {
		if val&(1<<uint(i-16)) != 0 {
			s.voices[i].KeyOff()
		}
	}
}

func (s *SPU) WriteReverbOnLow(old, val uint16) {
	s.synchronize()
	s.reverbOn = (s.reverbOn &^ 0xFFFF) | uint32(val)
}

func (s *SPU) WriteReverbOnHigh(old, val uint16) {
	s.synchronize()
	s.reverbOn = (s.reverbOn &^ 0xFFFF0000) | (uint32(val) << 16)
}

// setEndxBit latches bit i of the 32-bit ENDX register (spec.md's
// "bit i set when voice i hits a loop-end without repeat"), keeping
// the two 16-bit halves exposed on the bus in sync with it. i ranges
// over all hwdefs.NumVoices (24) voices, so the high half is load-
// bearing for voices 16-23.
func (s *SPU) setEndxBit(i int) {
	s.endxRegister |= 1 << uint(i)
	s.EndxLow.Value = uint16(s.endxRegister)
	s.EndxHigh.Value = uint16(s.endxRegister >> 16)
}

func (s *SPU) WriteIRQAddress(old, val uint16) {}

func (s *SPU) WriteTransferAddrReg(old, val uint16) {
	s.transferAddress = (uint32(val) << 3) & hwdefs.RAMMask
}

func (s *SPU) ReadTransferData(val uint16) uint16 {
	log.ModDMA.ErrorZ("invalid read from SPU transfer data register").End()
	return 0xFFFF
}

func (s *SPU) WriteTransferData(old, val uint16) {
	s.ramTransferWrite(val)
}

func (s *SPU) WriteControl(old, val uint16) {
	s.updateDMARequest()
	if val&(1<<2) == 0 {
		// IRQ9 disabled acknowledges any pending flag.
		s.Status.Value &^= 1
		s.setIRQ(false)
	}
}

// IRQAsserted reports the current state of the SPU's single IRQ line.
func (s *SPU) IRQAsserted() bool { return s.irqAsserted }

func (s *SPU) setIRQ(asserted bool) {
	if asserted == s.irqAsserted {
		return
	}
	s.irqAsserted = asserted
	if s.interrupts != nil {
		s.interrupts.SetIRQ("spu", asserted)
	}
}

func (s *SPU) irq9Enabled() bool { return s.Control.Value&(1<<2) != 0 }
func (s *SPU) masterEnabled() bool {
	return s.Control.Value&1 != 0
}
func (s *SPU) cdAudioEnabled() bool { return s.Control.Value&(1<<1) != 0 }

// Execute advances the SPU by ticks host clock cycles, generating
// floor((ticks+carry)/SysclkTicksPerSPUTick) samples, exactly
// mirroring original_source's Execute/GenerateSample split.
func (s *SPU) Execute(ticks int32) {
	total := ticks + s.ticksCarry
	numSamples := total / hwdefs.SysclkTicksPerSPUTick
	s.ticksCarry = total % hwdefs.SysclkTicksPerSPUTick
	if numSamples == 0 {
		return
	}
	if !s.masterEnabled() && !s.cdAudioEnabled() {
		return
	}
	for i := int32(0); i < numSamples; i++ {
		s.generateSample()
	}
}

func (s *SPU) generateSample() {
	var leftSum, rightSum int32
	if s.masterEnabled() {
		for i := range s.voices {
			l, r := s.sampleVoice(i)
			leftSum += l
			rightSum += r
		}
	}

	if s.cdAudioEnabled() && s.cdAudio != nil {
		if l, r, ok := s.cdAudio.ReadFrame(); ok {
			leftSum += int32(l)
			rightSum += int32(r)
		}
	}

	if s.sink != nil {
		s.sink.PushSample(clamp16(leftSum), clamp16(rightSum))
	}
}

func (s *SPU) sampleVoice(index int) (left, right int32) {
	v := s.voices[index]
	if !v.IsOn() {
		return 0, 0
	}

	if !v.hasSamples {
		block := s.readADPCMBlock(v.currentAddress)
		v.decodeNewBlock(block)
		v.hasSamples = true

		if v.blockLoopStart {
			v.RepeatAddress.Value = v.currentAddress
		}
	}

	step := v.SampleRate.Value
	if step > 0x4000 {
		step = 0x4000
	}
	v.counter += uint32(step)

	if v.sampleIndex() >= hwdefs.ADPCMSamplesPerBlock {
		v.counter -= uint32(hwdefs.ADPCMSamplesPerBlock) << 12
		v.hasSamples = false

		if v.blockLoopEnd {
			if !v.blockLoopRepeat {
				s.setEndxBit(index)
				v.KeyOff()
			} else {
				v.currentAddress = v.RepeatAddress.Value
			}
		} else {
			v.currentAddress += 2
		}
	}

	sample := applyVolumeUnsaturated(int32(v.interpolateSample()), int16(v.adsr.volume))
	v.tickADSR()

	left = applyVolumeUnsaturated(sample, getVolume(v.VolumeLeft.Value))
	right = applyVolumeUnsaturated(sample, getVolume(v.VolumeRight.Value))
	return left, right
}
