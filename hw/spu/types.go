package spu

// Scheduler is the capability interface the SPU uses to catch up with
// the rest of the system clock before anything observes its state,
// mirroring how the teacher's APU holds a small "cpu" interface purely
// to call back into the scheduler (hw/apu/types.go).
type Scheduler interface {
	// Synchronize asks the caller to run the SPU forward to the
	// current master clock before a register read/write or DMA
	// transfer is allowed to observe its state.
	Synchronize()
}

// InterruptController receives the level of the SPU's single IRQ
// line. SPUIRQ is raised on en edge (false->true transition of the
// condition), not level-triggered from the caller's perspective.
type InterruptController interface {
	SetIRQ(source string, asserted bool)
}

// DMAController is the collaborator that pulls/pushes RAM words in
// bulk on behalf of a DMA channel bound to the SPU. The SPU itself
// only exposes the DMARead/DMAWrite bulk word transfers
// (hw/spu/ram.go) and reports its request line through
// RequestChanged; the controller decides when and how much to move.
type DMAController interface {
	RequestChanged(active bool)
}

// AudioSink receives generated stereo samples, one frame (L, R) pair
// at a time, and is the only point a concrete audio backend (SDL,
// blip, a WAV writer, a test recorder) touches the SPU.
type AudioSink interface {
	PushSample(left, right int16)
}

// CDAudioSource feeds the SPU's CD audio mixing input. Real CD-ROM
// sector decoding is out of scope; this interface only describes the
// shape the SPU pulls from (e.g. a prefetch queue fed elsewhere).
type CDAudioSource interface {
	// ReadFrame reports whether a CD audio frame is available and, if
	// so, its left/right samples.
	ReadFrame() (left, right int16, ok bool)
}

// StateVisitor declares only Reset, and nothing in this package uses
// it. State capture and restore go through SPU.State/SetState and the
// plain hw/snapshot.SPU struct (snapshot.go), which does not implement
// this interface.
type StateVisitor interface {
	Reset()
}
