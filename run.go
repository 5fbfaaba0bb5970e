package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/rtiangha/duckstation/hw/spu"
)

// traceRecord is one entry of a captured register write trace: Ticks
// host clock cycles elapse (advancing the SPU, and so its audio
// output) before Offset/Value is written to the register window.
type traceRecord struct {
	Ticks  uint32
	Offset uint16
	Value  uint16
}

func readTrace(path string) ([]traceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []traceRecord
	var rec traceRecord
	for {
		if err := binary.Read(f, binary.LittleEndian, &rec); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// playMain replays a register trace against a freshly constructed SPU
// seeded from a RAM dump, streaming every generated sample to the
// default SDL audio device (cfg.Device is not consulted).
func playMain(args PlayCmd, cfg Config) {
	ramDump, err := os.ReadFile(args.RAMPath)
	checkf(err, "failed to read RAM dump")

	trace, err := readTrace(args.TracePath)
	checkf(err, "failed to read register trace")

	var exitcode int
	sdl.Main(func() {
		if err := sdl.Init(sdl.INIT_AUDIO); err != nil {
			fmt.Fprintf(os.Stderr, "failed to init SDL audio: %v\n", err)
			exitcode = 1
			return
		}
		defer sdl.Quit()

		sink, err := spu.NewBlipSink(cfg.SampleRate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open audio device: %v\n", err)
			exitcode = 1
			return
		}
		defer sink.Close()

		s := spu.New(nil, nil, nil, sink, nil)
		s.LoadRAM(ramDump)

		for _, rec := range trace {
			if rec.Ticks > 0 {
				s.Execute(int32(rec.Ticks))
			}
			s.Bus.Write16(rec.Offset, rec.Value)
		}
	})
	os.Exit(exitcode)
}

// dumpStateMain replays the same RAM dump and register trace playMain
// does, but instead of streaming audio it prints the resulting SPU's
// debug dump once the trace is exhausted.
func dumpStateMain(args DumpStateCmd) {
	ramDump, err := os.ReadFile(args.RAMPath)
	checkf(err, "failed to read RAM dump")

	trace, err := readTrace(args.TracePath)
	checkf(err, "failed to read register trace")

	s := spu.New(nil, nil, nil, nil, nil)
	s.LoadRAM(ramDump)

	for _, rec := range trace {
		if rec.Ticks > 0 {
			s.Execute(int32(rec.Ticks))
		}
		s.Bus.Write16(rec.Offset, rec.Value)
	}

	fmt.Println(string(s.DumpJSON()))
}
