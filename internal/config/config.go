// internal/config/config.go
package config

import (
	"gopkg.in/yaml.v3"
	"os"
)

type Config struct {
	DefaultUnit      string `yaml:"default_unit"`
	CalibrationScope string `yaml:"calibration_scope"`
	OrthoSnapping    bool   `yaml:"ortho_snapping"`
	ClampNetAtZero   bool   `yaml:"clamp_net_at_zero"`
	RenderOutputDir  string `yaml:"render_output_dir"`
	TypicalScale     struct {
		Min float64 `yaml:"min"`
		Max float64 `yaml:"max"`
	} `yaml:"typical_scale"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.DefaultUnit == "" {
		cfg.DefaultUnit = "ft"
	}
	if cfg.CalibrationScope == "" {
		cfg.CalibrationScope = "document"
	}
	if cfg.RenderOutputDir == "" {
		cfg.RenderOutputDir = "takeoff-pages"
	}
	if cfg.TypicalScale.Min == 0 {
		cfg.TypicalScale.Min = 0.005
	}
	if cfg.TypicalScale.Max == 0 {
		cfg.TypicalScale.Max = 0.2
	}
}
