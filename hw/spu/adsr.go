package spu

//go:generate go tool stringer -type=ADSRPhase -output=adsrphase_string.go

// ADSRPhase is a voice's current envelope phase.
type ADSRPhase uint8

const (
	ADSRPhaseOff ADSRPhase = iota
	ADSRPhaseAttack
	ADSRPhaseDecay
	ADSRPhaseSustain
	ADSRPhaseRelease
)

const (
	adsrMinVolume int32 = 0
	adsrMaxVolume int32 = 0x7FFF
)

// adsrRegs is the raw 32-bit ADSR register pair (low at voice+0x08,
// high at voice+0x0A), decoded into hardware's named bitfields.
//
// The bit layout below follows the public PS1 SPU register
// documentation (nocash psx-spx); original_source/src/core/spu.cpp
// names these fields (attack_step, attack_shift, ...) but its
// defining header was not available to confirm exact bit positions,
// so this is the best-grounded reconstruction available. See
// DESIGN.md.
type adsrRegs struct {
	low  uint16
	high uint16
}

func (r adsrRegs) sustainLevel() uint16 { return r.low & 0xF }
func (r adsrRegs) decayShift() uint16   { return (r.low >> 4) & 0xF }
func (r adsrRegs) attackStep() uint16   { return (r.low >> 8) & 0x3 }
func (r adsrRegs) attackShift() uint16  { return (r.low >> 10) & 0x1F }
func (r adsrRegs) attackExponential() bool {
	return r.low&0x8000 != 0
}

func (r adsrRegs) releaseShift() uint16 { return r.high & 0x1F }
func (r adsrRegs) releaseExponential() bool {
	return r.high&0x20 != 0
}
func (r adsrRegs) sustainShift() uint16 { return (r.high >> 6) & 0x1F }
func (r adsrRegs) sustainDirectionDecrease() bool {
	return r.high&0x1000 != 0
}
func (r adsrRegs) sustainExponential() bool {
	return r.high&0x8000 != 0
}

// adsrTarget is the per-phase parameter set SetADSRPhase computes,
// matching original_source's adsr_target.
type adsrTarget struct {
	level       int32
	step        int32
	shift       int32
	decreasing  bool
	exponential bool
}

// adsrState is the live envelope state machine for one voice.
type adsrState struct {
	phase          ADSRPhase
	target         adsrTarget
	ticks          int32
	ticksRemaining int32
	step           int32
	volume         int32
}

func nextADSRPhase(phase ADSRPhase) ADSRPhase {
	switch phase {
	case ADSRPhaseAttack:
		return ADSRPhaseDecay
	case ADSRPhaseDecay:
		return ADSRPhaseSustain
	case ADSRPhaseSustain:
		return ADSRPhaseSustain
	default:
		return ADSRPhaseOff
	}
}

func max0(v int32) int32 {
	if v < 0 {
		return 0
	}
	return v
}

// setPhase computes the target level/step/shift for the given phase
// and the derived per-tick step/ticks-remaining, exactly mirroring
// original_source's SetADSRPhase recurrence.
func (a *adsrState) setPhase(phase ADSRPhase, regs adsrRegs) {
	a.phase = phase
	switch phase {
	case ADSRPhaseOff:
		a.target = adsrTarget{}
	case ADSRPhaseAttack:
		a.target = adsrTarget{
			level:       32767,
			step:        int32(regs.attackStep()) + 4,
			shift:       int32(regs.attackShift()),
			decreasing:  false,
			exponential: regs.attackExponential(),
		}
	case ADSRPhaseDecay:
		a.target = adsrTarget{
			level:       (int32(regs.sustainLevel()) + 1) * 0x800,
			step:        0,
			shift:       int32(regs.decayShift()),
			decreasing:  true,
			exponential: true,
		}
	case ADSRPhaseSustain:
		dec := regs.sustainDirectionDecrease()
		level := int32(1)
		if dec {
			level = -1
		}
		a.target = adsrTarget{
			level:       level,
			step:        0,
			shift:       int32(regs.sustainShift()),
			decreasing:  dec,
			exponential: regs.sustainExponential(),
		}
	case ADSRPhaseRelease:
		a.target = adsrTarget{
			level:       0,
			step:        0,
			shift:       int32(regs.releaseShift()),
			decreasing:  true,
			exponential: regs.releaseExponential(),
		}
	}

	var step int32
	if a.target.decreasing {
		step = -8 + a.target.step
	} else {
		step = 7 - a.target.step
	}
	a.ticks = 1 << max0(a.target.shift-11)
	a.ticksRemaining = a.ticks
	a.step = step << max0(11-a.target.shift)
}

// tick advances the envelope by one sample period, moving to the next
// phase (via nextADSRPhase) once the target level is reached, exactly
// mirroring original_source's TickADSR. regs is the caller's (Voice's)
// current register snapshot, passed through to setPhase for the new
// phase.
func (a *adsrState) tick(regs adsrRegs) {
	a.ticksRemaining--
	if a.ticksRemaining > 0 {
		return
	}

	newVolume := a.volume + a.step
	if newVolume < adsrMinVolume {
		newVolume = adsrMinVolume
	} else if newVolume > adsrMaxVolume {
		newVolume = adsrMaxVolume
	}
	a.volume = newVolume

	var reachedTarget bool
	if a.target.decreasing {
		reachedTarget = newVolume <= a.target.level
	} else {
		reachedTarget = newVolume >= a.target.level
	}

	if a.phase != ADSRPhaseSustain && reachedTarget {
		a.setPhase(nextADSRPhase(a.phase), regs)
	} else {
		a.ticksRemaining = a.ticks
	}
}
