package spu

import (
	"unsafe"

	"github.com/arl/blip"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/rtiangha/duckstation/emu/log"
)

const (
	AudioFormat   = sdl.AUDIO_S16LSB
	AudioChannels = 2

	// blipFrameSamples bounds how many samples accumulate between
	// EndFrame flushes; the SPU pushes one frame per generated sample,
	// however many an Execute call produces, so this is sized
	// generously rather than tuned to a video frame.
	blipFrameSamples = 4096
)

// BlipSink is a concrete AudioSink: it feeds every PushSample through a
// pair of arl/blip band-limited buffers and queues the flushed PCM to
// an SDL audio device. The SPU already emits at its native output
// rate, so the buffers are configured 1:1 (clockRate == sampleRate) —
// blip's delta/read-samples machinery is still exercised, just not its
// resampling.
type BlipSink struct {
	deviceID sdl.AudioDeviceID

	left  *blip.Buffer
	right *blip.Buffer

	prevLeft  int16
	prevRight int16

	time uint64

	out [blipFrameSamples * 2]int16
}

// NewBlipSink opens an SDL audio device streaming at sampleRate and
// returns a sink that pushes decoded SPU samples into it.
func NewBlipSink(sampleRate uint32) (*BlipSink, error) {
	want := &sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   AudioFormat,
		Channels: AudioChannels,
		Samples:  1024,
	}
	deviceID, err := sdl.OpenAudioDevice("", false, want, nil, 0)
	if err != nil {
		return nil, err
	}
	sdl.PauseAudioDevice(deviceID, false)

	s := &BlipSink{
		deviceID: deviceID,
		left:     blip.NewBuffer(blipFrameSamples),
		right:    blip.NewBuffer(blipFrameSamples),
	}
	s.left.SetRates(float64(sampleRate), float64(sampleRate))
	s.right.SetRates(float64(sampleRate), float64(sampleRate))
	return s, nil
}

// PushSample implements AudioSink: one stereo frame per call, at the
// SPU's native sample rate.
func (s *BlipSink) PushSample(left, right int16) {
	if d := int32(left) - int32(s.prevLeft); d != 0 {
		s.left.AddDelta(s.time, d)
		s.prevLeft = left
	}
	if d := int32(right) - int32(s.prevRight); d != 0 {
		s.right.AddDelta(s.time, d)
		s.prevRight = right
	}
	s.time++

	if int(s.time) >= blipFrameSamples/2 {
		s.flush()
	}
}

func (s *BlipSink) flush() {
	s.left.EndFrame(int(s.time))
	s.right.EndFrame(int(s.time))
	s.time = 0

	n := s.left.ReadSamples(s.out[:], blipFrameSamples, blip.Stereo)
	s.right.ReadSamples(s.out[1:], blipFrameSamples, blip.Stereo)

	buf := unsafe.Slice((*byte)(unsafe.Pointer(&s.out[0])), n*2*2)
	cpy := make([]byte, len(buf))
	copy(cpy, buf)

	if err := sdl.QueueAudio(s.deviceID, cpy); err != nil {
		log.ModSPU.DebugZ("failed to queue SPU audio buffer").Error("err", err).End()
	}
}

// Close stops and releases the underlying SDL audio device.
func (s *BlipSink) Close() {
	sdl.CloseAudioDevice(s.deviceID)
}
