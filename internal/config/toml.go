// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Unset values are nil
// and keep their defaults.
type FileConfig struct {
	Keyer    KeyerConfig    `toml:"keyer"`
	Practice PracticeConfig `toml:"practice"`
	Output   OutputConfig   `toml:"output"`
	History  HistoryConfig  `toml:"history"`
	Log      LogConfig      `toml:"log"`
}

// KeyerConfig maps speed settings.
type KeyerConfig struct {
	WPM         *int     `toml:"wpm"`
	Calibration *float64 `toml:"calibration"`
	SpeedPolicy *string  `toml:"speed-policy"`
	Slots       *int     `toml:"memory-slots"`
}

// PracticeConfig maps repeat and random-group settings.
type PracticeConfig struct {
	GroupSize   *int      `toml:"group-size"`
	Alphabet    *string   `toml:"alphabet"`
	RepeatCount *int      `toml:"repeat-count"`
	Pause       *Duration `toml:"pause"`
}

// OutputConfig maps the key line driver.
type OutputConfig struct {
	Driver    *string    `toml:"driver"`
	Pins      []string   `toml:"pins"`
	ActiveLow *bool      `toml:"active-low"`
	MQTT      MQTTConfig `toml:"mqtt"`
}

// MQTTConfig maps the networked relay settings.
type MQTTConfig struct {
	Broker   *string `toml:"broker"`
	Topic    *string `toml:"topic"`
	ClientID *string `toml:"client-id"`
	QoS      *int    `toml:"qos"`
}

// HistoryConfig maps transmission history settings.
type HistoryConfig struct {
	Enabled *bool `toml:"enabled"`
}

// LogConfig maps the diagnostics log settings.
type LogConfig struct {
	Dir *string `toml:"dir"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
