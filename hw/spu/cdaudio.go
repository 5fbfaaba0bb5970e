package spu

import "github.com/rtiangha/duckstation/emu/log"

// CDAudioRing is a concrete CDAudioSource: a small interleaved L/R
// ring buffer a CD-ROM subsystem pushes decoded audio sectors into in
// bulk, and the SPU drains one frame at a time through ReadFrame.
// Pushing more samples than there is room for evicts the oldest ones
// first, exactly mirroring original_source's EnsureCDAudioSpace.
type CDAudioRing struct {
	buf   []int16
	start int
	count int
}

// NewCDAudioRing allocates a ring able to hold capacitySamples
// interleaved int16 samples (an L/R pair counts as two).
func NewCDAudioRing(capacitySamples int) *CDAudioRing {
	return &CDAudioRing{buf: make([]int16, capacitySamples)}
}

func (r *CDAudioRing) space() int { return len(r.buf) - r.count }

// Push appends samples (interleaved L,R,L,R,...), evicting the oldest
// queued samples first if there isn't enough room.
func (r *CDAudioRing) Push(samples []int16) {
	if len(samples) > r.space() {
		toRemove := len(samples) - r.space()
		log.ModDMA.WarnZ("SPU CD audio buffer overflow").
			Int("samples", len(samples)).
			Int("space", r.space()).
			End()
		r.remove(toRemove)
	}
	for _, s := range samples {
		r.buf[(r.start+r.count)%len(r.buf)] = s
		r.count++
	}
}

func (r *CDAudioRing) remove(n int) {
	if n > r.count {
		n = r.count
	}
	r.start = (r.start + n) % len(r.buf)
	r.count -= n
}

func (r *CDAudioRing) pop() (int16, bool) {
	if r.count == 0 {
		return 0, false
	}
	v := r.buf[r.start]
	r.start = (r.start + 1) % len(r.buf)
	r.count--
	return v, true
}

// ReadFrame implements CDAudioSource: pops one interleaved L/R pair.
func (r *CDAudioRing) ReadFrame() (left, right int16, ok bool) {
	l, lok := r.pop()
	if !lok {
		return 0, 0, false
	}
	rt, rok := r.pop()
	if !rok {
		return 0, 0, false
	}
	return l, rt, true
}
