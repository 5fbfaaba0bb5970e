package spu

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/rtiangha/duckstation/hw/hwdefs"
	"github.com/rtiangha/duckstation/hw/snapshot"
)

const stateVersion = 1

// Save writes the SPU's current state to w. gob is used rather than
// the jx encoder DumpJSON relies on: round-tripping a fixed-shape
// struct this size (a 512 KiB RAM array plus 24 voices) through jx's
// pull-parser would mean hand-authoring a symmetric decoder for every
// field with no way to exercise it short of running the toolchain,
// where gob already does exactly this safely for arbitrary Go structs.
func (s *SPU) Save(w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(s.State()); err != nil {
		return fmt.Errorf("spu: save state: %w", err)
	}
	return nil
}

// Restore reads a state previously written by Save and applies it.
func (s *SPU) Restore(r io.Reader) error {
	var st snapshot.SPU
	if err := gob.NewDecoder(r).Decode(&st); err != nil {
		return fmt.Errorf("spu: restore state: %w", err)
	}
	s.SetState(&st)
	return nil
}

// State captures the SPU's full architectural state into a plain
// snapshot.SPU value, the way the teacher's channel types populate
// snapshot.APUMixer/snapshot.CPU on demand rather than marshaling
// themselves directly.
//
// Reverb volumes, noise mode, pitch modulation, capture-buffer
// position and the CD audio/external volumes are non-goals of the
// signal path and always round-trip as zero (the reverb-on latch is
// saved); IgnoreLoopAddress/HasIRQed are
// likewise not modeled since this implementation latches the repeat
// address directly from the loop-start flag instead of deferring it.
func (s *SPU) State() *snapshot.SPU {
	st := &snapshot.SPU{Version: stateVersion}

	copy(st.RAM[:], s.ram.data[:])

	st.Control = s.Control.Value
	st.Status = s.Status.Value

	st.MainVolumeLeft = int16(s.MainVolumeLeft.Value)
	st.MainVolumeRight = int16(s.MainVolumeRight.Value)

	st.KeyOnRequest = s.keyOnRegister
	st.KeyOffRequest = s.keyOffRegister
	st.ReverbOnFlags = s.reverbOn
	st.Endx = s.endxRegister

	st.IRQAddress = s.IRQAddress.Value
	st.TransferAddressReg = s.TransferAddrReg.Value
	st.TransferAddress = s.transferAddress
	st.TransferControl = s.Control.Value

	st.TicksCarry = s.ticksCarry

	for i, v := range s.voices {
		st.Voices[i] = snapshot.Voice{
			VolumeLeft:  int16(v.VolumeLeft.Value),
			VolumeRight: int16(v.VolumeRight.Value),

			ADPCMSampleRate:     v.SampleRate.Value,
			ADPCMStartAddress:   v.StartAddress.Value,
			ADPCMRepeatAddress:  v.RepeatAddress.Value,
			ADPCMCurrentAddress: v.currentAddress,

			ADSRLowReg:  v.ADSRLow.Value,
			ADSRHighReg: v.ADSRHigh.Value,
			ADSRVolume:  v.adsr.volume,
			ADSRPhase:   uint8(v.adsr.phase),

			ADSRTargetLevel:       v.adsr.target.level,
			ADSRTargetStep:        v.adsr.step,
			ADSRTargetDecreasing:  v.adsr.target.decreasing,
			ADSRTargetExponential: v.adsr.target.exponential,
			ADSRTicksRemaining:    uint32(v.adsr.ticksRemaining),

			CurrentBlockSamples: v.blockSamples,
			PrevSample1:         int16(v.prevLastFilter[0]),
			PrevSample2:         int16(v.prevLastFilter[1]),

			Counter:    v.counter,
			HasSamples: v.hasSamples,
		}
	}

	return st
}

// SetState restores the SPU from a snapshot previously produced by
// State. The interpolation trailing-history (prevLastSample) isn't
// stored directly; it's re-derived from the tail of
// CurrentBlockSamples, exactly what decodeNewBlock itself computes it
// from on the next block fetch.
func (s *SPU) SetState(st *snapshot.SPU) {
	copy(s.ram.data[:], st.RAM[:])

	s.Control.Value = st.Control
	s.Status.Value = st.Status

	s.MainVolumeLeft.Value = uint16(st.MainVolumeLeft)
	s.MainVolumeRight.Value = uint16(st.MainVolumeRight)

	s.keyOnRegister = st.KeyOnRequest
	s.keyOffRegister = st.KeyOffRequest
	s.reverbOn = st.ReverbOnFlags
	s.endxRegister = st.Endx
	s.EndxLow.Value = uint16(st.Endx)
	s.EndxHigh.Value = uint16(st.Endx >> 16)

	s.IRQAddress.Value = st.IRQAddress
	s.TransferAddrReg.Value = st.TransferAddressReg
	s.transferAddress = st.TransferAddress & hwdefs.RAMMask

	s.ticksCarry = st.TicksCarry
	s.irqAsserted = st.Status&1 != 0

	for i := range s.voices {
		sv := st.Voices[i]
		v := s.voices[i]

		v.VolumeLeft.Value = uint16(sv.VolumeLeft)
		v.VolumeRight.Value = uint16(sv.VolumeRight)

		v.SampleRate.Value = sv.ADPCMSampleRate
		v.StartAddress.Value = sv.ADPCMStartAddress
		v.RepeatAddress.Value = sv.ADPCMRepeatAddress
		v.currentAddress = sv.ADPCMCurrentAddress

		v.ADSRLow.Value = sv.ADSRLowReg
		v.ADSRHigh.Value = sv.ADSRHighReg
		v.adsr.volume = sv.ADSRVolume
		v.adsr.phase = ADSRPhase(sv.ADSRPhase)

		v.adsr.target.level = sv.ADSRTargetLevel
		v.adsr.step = sv.ADSRTargetStep
		v.adsr.target.decreasing = sv.ADSRTargetDecreasing
		v.adsr.target.exponential = sv.ADSRTargetExponential
		v.adsr.ticksRemaining = int32(sv.ADSRTicksRemaining)

		v.blockSamples = sv.CurrentBlockSamples
		v.prevLastFilter[0] = int32(sv.PrevSample1)
		v.prevLastFilter[1] = int32(sv.PrevSample2)
		v.prevLastSample[0] = v.blockSamples[hwdefs.ADPCMSamplesPerBlock-3]
		v.prevLastSample[1] = v.blockSamples[hwdefs.ADPCMSamplesPerBlock-2]
		v.prevLastSample[2] = v.blockSamples[hwdefs.ADPCMSamplesPerBlock-1]

		v.counter = sv.Counter
		v.hasSamples = sv.HasSamples
	}
}
