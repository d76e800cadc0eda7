package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/miraines/macroforge/internal/profile"
)

// LoadProfile reads and validates a macro profile document from path.
// The file format is inferred from its extension (json, yaml, toml —
// anything viper supports).
func LoadProfile(path string) (profile.Profile, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return profile.Profile{}, fmt.Errorf("config: reading profile %s: %w", path, err)
	}

	var p profile.Profile
	if err := v.Unmarshal(&p); err != nil {
		return profile.Profile{}, fmt.Errorf("config: parsing profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return profile.Profile{}, fmt.Errorf("config: profile %s failed validation: %w", path, err)
	}
	return p, nil
}
