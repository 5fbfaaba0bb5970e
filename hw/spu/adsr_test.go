package spu

import "testing"

// TestADSRAttackDecaySustain follows the envelope-shape scenario:
// Attack ramps monotonically to full volume, Decay then falls
// monotonically to the sustain level, and the envelope holds there.
func TestADSRAttackDecaySustain(t *testing.T) {
	regs := adsrRegs{
		low:  0x288E, // sustain_level=14, decay_shift=8, attack_step=0, attack_shift=10
		high: 0x07C0, // sustain_shift=0x1F, sustain_dir_decrease=0, release fields 0
	}

	var a adsrState
	a.setPhase(ADSRPhaseAttack, regs)

	const totalTicks = 10000
	var sawDecay, sawSustain bool
	prev := a.volume
	attackPeakTick := -1
	for i := 0; i < totalTicks; i++ {
		phaseBefore := a.phase
		a.tick(regs)

		if a.volume < adsrMinVolume || a.volume > adsrMaxVolume {
			t.Fatalf("tick %d: volume %d out of range", i, a.volume)
		}

		switch phaseBefore {
		case ADSRPhaseAttack:
			if a.volume < prev {
				t.Fatalf("tick %d: attack volume decreased %d -> %d", i, prev, a.volume)
			}
			if a.phase == ADSRPhaseDecay && attackPeakTick == -1 {
				attackPeakTick = i
			}
		case ADSRPhaseDecay:
			sawDecay = true
			if a.volume > prev {
				t.Fatalf("tick %d: decay volume increased %d -> %d", i, prev, a.volume)
			}
		case ADSRPhaseSustain:
			sawSustain = true
		}
		prev = a.volume
	}

	if attackPeakTick == -1 {
		t.Fatal("envelope never left Attack")
	}
	if !sawDecay {
		t.Fatal("envelope never entered Decay")
	}
	if !sawSustain {
		t.Fatal("envelope never reached Sustain")
	}
	if a.phase != ADSRPhaseSustain {
		t.Fatalf("final phase = %v, want Sustain", a.phase)
	}

	const wantSustainVolume = 30719 // (14+1)*0x800 - 1, landed on by a -64/tick decay step
	const tolerance = 256
	if diff := a.volume - wantSustainVolume; diff < -tolerance || diff > tolerance {
		t.Fatalf("final volume = %d, want within %d of %d", a.volume, tolerance, wantSustainVolume)
	}
}

// TestADSRKeyOffReachesOff exercises Release with the all-zero
// register default: decreasing by a large step should reach 0 and
// transition to Off within a handful of ticks.
func TestADSRKeyOffReachesOff(t *testing.T) {
	var regs adsrRegs
	var a adsrState
	a.volume = 32767
	a.setPhase(ADSRPhaseRelease, regs)

	reachedOff := false
	for i := 0; i < 32; i++ {
		a.tick(regs)
		if a.volume < adsrMinVolume || a.volume > adsrMaxVolume {
			t.Fatalf("tick %d: volume %d out of range", i, a.volume)
		}
		if a.phase == ADSRPhaseOff {
			reachedOff = true
			break
		}
	}
	if !reachedOff {
		t.Fatal("release phase never reached Off")
	}
}
