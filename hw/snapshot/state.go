// Package snapshot holds the plain data structs saved and restored by
// the SPU's State()/SetState() pair. They carry no behavior: the live
// hw/spu types copy into and out of these on demand, the way the
// teacher's hw/apu types copy into and out of snapshot.CPU/PPU/DMA.
package snapshot

//go:generate go tool msgp -tests=false -marshal=false

type SPU struct {
	Version int

	RAM [0x80000]uint8

	Control uint16
	Status  uint16

	MainVolumeLeft  int16
	MainVolumeRight int16

	ReverbVolumeLeft  int16
	ReverbVolumeRight int16

	CDAudioVolumeLeft  int16
	CDAudioVolumeRight int16

	ExternalVolumeLeft  int16
	ExternalVolumeRight int16

	KeyOnRequest          uint32
	KeyOffRequest         uint32
	PitchModulationEnable uint32
	NoiseModeEnable       uint32
	ReverbOnFlags         uint32
	Endx                  uint32

	IRQAddress         uint16
	TransferAddressReg uint16
	TransferAddress    uint32 // byte offset into RAM, needs 19 bits for 512 KiB
	TransferControl    uint16
	TransferBusy       bool

	CaptureBufferPosition uint16

	Voices [24]Voice

	CDAudioBuffer []int16

	TicksCarry int32
}

type Voice struct {
	VolumeLeft  int16
	VolumeRight int16

	ADPCMSampleRate    uint16
	ADPCMStartAddress  uint16
	ADPCMRepeatAddress uint16
	ADPCMCurrentAddress uint16

	ADSRLowReg  uint16
	ADSRHighReg uint16
	ADSRVolume  int32
	ADSRPhase   uint8

	ADSRTargetLevel       int32
	ADSRTargetStep        int32
	ADSRTargetDecreasing  bool
	ADSRTargetExponential bool
	ADSRTicksRemaining    uint32

	CurrentBlockSamples [28]int16
	PrevSample1         int16
	PrevSample2         int16

	Counter uint32 // interp_index (bits 0-11) | sample_index (bits 12-16)

	HasSamples        bool
	IgnoreLoopAddress bool
	HasIRQed          bool
}
