// Package config loads the engine's own settings (distinct from the
// macro profile it drives): where the profile file lives, whether to
// hot-reload it, logging options, and which global hotkeys are wired
// to the kill switch and the manual profile reload.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings holds the engine's own configuration, loaded once at
// startup and never hot-reloaded itself (only the macro profile is).
type Settings struct {
	ProfilePath string          `json:"profile_path" mapstructure:"profile_path"`
	HotReload   bool            `json:"hot_reload" mapstructure:"hot_reload"`
	Logging     LoggingSettings `json:"logging" mapstructure:"logging"`
	Hotkeys     HotkeySettings  `json:"hotkeys" mapstructure:"hotkeys"`
}

// LoggingSettings controls the internal/logging.Logger the engine builds.
type LoggingSettings struct {
	Level      string `json:"level" mapstructure:"level"`
	ToFile     bool   `json:"to_file" mapstructure:"to_file"`
	MaxEntries int    `json:"max_entries" mapstructure:"max_entries"`
}

// HotkeySettings names the global key combos for the two engine-level
// actions the hotkey manager exposes. Either may be left
// empty to leave that action unbound.
type HotkeySettings struct {
	KillSwitch    string `json:"kill_switch" mapstructure:"kill_switch"`
	ReloadProfile string `json:"reload_profile" mapstructure:"reload_profile"`
}

// Load reads engine settings from configPath, or from the default
// search locations when configPath is empty. A missing file is not an
// error: the engine falls back to NewDefaultSettings entirely.
func Load(configPath string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("macroengine")
		v.SetConfigType("json")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".macroforge"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("profile_path", DefaultProfilePath)
	v.SetDefault("hot_reload", DefaultHotReload)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.to_file", DefaultLogToFile)
	v.SetDefault("logging.max_entries", DefaultLogMaxEntries)

	v.SetDefault("hotkeys.kill_switch", DefaultKillSwitch)
	v.SetDefault("hotkeys.reload_profile", DefaultReloadProfile)
}

// Save writes s to configPath as indented JSON, creating the parent
// directory if necessary.
func (s *Settings) Save(configPath string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(configPath, data, 0644)
}
