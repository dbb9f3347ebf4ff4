package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
)

const envPrefix = "MAX11210_"

const (
	platformPeriph = "periph"
	platformNanoPi = "nanopi"
)

// Config describes how the chip is wired to the host.
type Config struct {
	Platform       string        `koanf:"platform" yaml:"platform"`
	Port           string        `koanf:"port" yaml:"port"`
	SpeedHz        int64         `koanf:"speed_hz" yaml:"speed_hz"`
	CSPin          string        `koanf:"cs_pin" yaml:"cs_pin"`
	ReadyPin       string        `koanf:"ready_pin" yaml:"ready_pin"`
	ReadyActiveLow bool          `koanf:"ready_active_low" yaml:"ready_active_low"`
	ReadyTimeout   time.Duration `koanf:"ready_timeout" yaml:"ready_timeout"`
}

func defaultConfig() Config {
	return Config{
		Platform:     platformPeriph,
		Port:         "/dev/spidev0.0",
		SpeedHz:      4_500_000,
		CSPin:        "GPIO8",
		ReadyPin:     "GPIO25",
		ReadyTimeout: 2 * time.Second,
	}
}

func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}

// loadConfig layers defaults, the optional YAML file and MAX11210_* env vars.
func loadConfig(path string) (Config, error) {
	k := koanf.New(".")
	err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil)
	if err != nil {
		return Config{}, fmt.Errorf("could not load defaults: %w", err)
	}
	if path != "" {
		err = k.Load(file.Provider(path), yaml.Parser())
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("could not load config file %s: %w", path, err)
		}
	}
	err = k.Load(env.Provider(envPrefix, ".", envKey), nil)
	if err != nil {
		return Config{}, fmt.Errorf("could not load environment: %w", err)
	}
	var cfg Config
	err = k.Unmarshal("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("could not decode config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Platform {
	case platformPeriph, platformNanoPi:
	default:
		return fmt.Errorf("unknown platform %q (expected %s or %s)", c.Platform, platformPeriph, platformNanoPi)
	}
	if c.CSPin == "" || c.ReadyPin == "" {
		return fmt.Errorf("chip select and ready pins must be set")
	}
	return nil
}
