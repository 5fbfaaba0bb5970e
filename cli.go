package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/rtiangha/duckstation/emu/log"
)

type mode byte

const (
	playMode mode = iota
	dumpStateMode
	versionMode
)

type (
	CLI struct {
		Play      PlayCmd      `cmd:"" help:"Drive the SPU from a captured register trace and RAM dump, streaming audio to the output device." default:"true"`
		DumpState DumpStateCmd `cmd:"" help:"Replay a RAM dump and register trace without audio, then print the SPU's debug dump as JSON." name:"dump-state"`
		Version   VersionCmd   `cmd:"" help:"Show version."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	// PlayCmd replays a register write trace against a fresh SPU loaded
	// with a RAM dump, pushing generated samples to the audio sink
	// until the trace is exhausted.
	PlayCmd struct {
		RAMPath   string `arg:"" name:"ram-dump" help:"Path to a raw 512 KiB sound RAM dump." required:"true" type:"existingfile"`
		TracePath string `arg:"" name:"reg-trace" help:"Path to a captured register write trace." required:"true" type:"existingfile"`
		Device    string `name:"device" help:"SDL audio device name, stored in the player config; playback always opens the default device."`
	}

	// DumpStateCmd replays a RAM dump and register trace exactly like
	// PlayCmd, but instead of streaming audio it prints the resulting
	// SPU's Dump()/DumpJSON() debug view once the trace is exhausted.
	DumpStateCmd struct {
		RAMPath   string `arg:"" name:"ram-dump" help:"Path to a raw 512 KiB sound RAM dump." required:"true" type:"existingfile"`
		TracePath string `arg:"" name:"reg-trace" help:"Path to a captured register write trace." required:"true" type:"existingfile"`
	}

	VersionCmd struct{}
)

var vars = kong.Vars{
	"log_help": "Enable logging for specified modules.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("duckstation-spu"),
		kong.Description("PS1-style SPU demo player. github.com/rtiangha/duckstation"),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch ctx.Command() {
	case "dump-state <ram-dump> <reg-trace>":
		cfg.mode = dumpStateMode
	case "version":
		cfg.mode = versionMode
	default:
		cfg.mode = playMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if strings.HasPrefix(ctx.Command(), "play") {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
