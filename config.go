package main

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/rtiangha/duckstation/emu/log"
)

// Config is the demo player's on-disk configuration. SampleRate sets
// the rate the audio device is opened at. LogModules and Device are
// loaded but not applied: logging is set only by the --log flag, and
// playback always opens the default audio device.
type Config struct {
	SampleRate uint32   `toml:"sample_rate"`
	LogModules []string `toml:"log_modules"`
	Device     string   `toml:"device"`
}

const DefaultFileMode = os.FileMode(0755)

var configDir = sync.OnceValue(func() string {
	cfgdir, err := os.UserConfigDir()
	if err != nil {
		log.ModSPU.FatalZ("failed to get user config directory").Error("err", err).End()
	}

	dir := filepath.Join(cfgdir, "duckstation-spu")
	if err := os.MkdirAll(dir, DefaultFileMode); err != nil {
		log.ModSPU.FatalZ("failed to create config directory").String("dir", dir).Error("err", err).End()
	}
	return dir
})

var defaultConfig = Config{
	SampleRate: 44100,
}

const cfgFilename = "config.toml"

// loadConfigOrDefault loads the TOML config from the player's config
// directory, falling back to defaultConfig if it's absent or invalid.
func loadConfigOrDefault() Config {
	var cfg Config
	_, err := toml.DecodeFile(filepath.Join(configDir(), cfgFilename), &cfg)
	if err != nil {
		return defaultConfig
	}
	return cfg
}

// saveConfig writes cfg into the player's config directory.
func saveConfig(cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(configDir(), cfgFilename), buf, 0644)
}
