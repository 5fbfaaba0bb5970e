package main

import "os"

func main() {
	cfg := parseArgs(os.Args[1:])

	player := loadConfigOrDefault()
	if cfg.Play.Device != "" {
		player.Device = cfg.Play.Device
	}

	switch cfg.mode {
	case playMode:
		playMain(cfg.Play, player)
	case dumpStateMode:
		dumpStateMain(cfg.DumpState)
	case versionMode:
		printVersion()
	}
}

func printVersion() {
	println("duckstation-spu dev")
}
