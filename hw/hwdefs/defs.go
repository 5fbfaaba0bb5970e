// Package hwdefs holds the SPU's hardware-fixed constants: sizes and
// shifts that come from the chip itself, not from any one component's
// internal design.
package hwdefs

const (
	NumVoices = 24

	RAMSize = 512 * 1024
	RAMMask = RAMSize - 1

	// RegisterWindowSize is the span of the memory-mapped register
	// file: 24 voices * 16 bytes of per-voice registers, plus the
	// global register block.
	RegisterWindowSize = NumVoices*VoiceRegStride + GlobalRegBlockSize

	VoiceRegStride     = 0x10
	GlobalRegBase      = NumVoices * VoiceRegStride
	GlobalRegBlockSize = 0x100

	// SysclkTicksPerSPUTick is how many host clock ticks elapse per
	// generated sample (SPU runs at 1/768th of the CPU clock on
	// original hardware).
	SysclkTicksPerSPUTick = 768

	ADPCMBlockSize    = 16 // bytes per compressed block
	ADPCMSamplesPerBlock = 28

	MaxVolume = 0x7FFF
	MinVolume = 0
)

const (
	SoftReset = true
	HardReset = false
)
