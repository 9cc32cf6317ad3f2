// Package config provides file-based configuration with hardcoded
// fallbacks for the trade journal.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Journal     JournalConfig             `mapstructure:"journal"`
	Instruments map[string]InstrumentSpec `mapstructure:"instruments"`
	Defaults    TradeDefaults             `mapstructure:"defaults"`
	Logging     LoggingConfig             `mapstructure:"logging"`
}

// JournalConfig holds journal-wide settings.
type JournalConfig struct {
	DBPath string `mapstructure:"db_path"`
	// ImportPointValue is the fixed dollars-per-point multiplier used
	// for historical-import P&L.
	ImportPointValue float64 `mapstructure:"import_point_value"`
}

// InstrumentSpec is the per-instrument tick geometry.
type InstrumentSpec struct {
	DollarsPerPoint float64 `mapstructure:"dollars_per_point"`
	DollarsPerTick  float64 `mapstructure:"dollars_per_tick"`
	TicksPerPoint   int     `mapstructure:"ticks_per_point"`
}

// TradeDefaults are the stop/take-profit point distances used when
// planning a new live trade.
type TradeDefaults struct {
	FullStopPoints    float64 `mapstructure:"full_stop_points"`
	FullTPPoints      float64 `mapstructure:"full_tp_points"`
	PartialStopPoints float64 `mapstructure:"partial_stop_points"`
	PartialTP1Points  float64 `mapstructure:"partial_tp1_points"`
	PartialTP2Points  float64 `mapstructure:"partial_tp2_points"`
	PartialTP3Points  float64 `mapstructure:"partial_tp3_points"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// InstrumentOverride is a partial instrument spec; nil fields fall back
// to the configured or hardcoded value.
type InstrumentOverride struct {
	DollarsPerPoint *float64
	DollarsPerTick  *float64
	TicksPerPoint   *int
}

// Merge applies the non-nil override fields over s.
func (s InstrumentSpec) Merge(o InstrumentOverride) InstrumentSpec {
	if o.DollarsPerPoint != nil {
		s.DollarsPerPoint = *o.DollarsPerPoint
	}
	if o.DollarsPerTick != nil {
		s.DollarsPerTick = *o.DollarsPerTick
	}
	if o.TicksPerPoint != nil {
		s.TicksPerPoint = *o.TicksPerPoint
	}
	return s
}

// TradeDefaultsOverride is a partial set of plan distances; nil fields
// fall back. Any subset may be present.
type TradeDefaultsOverride struct {
	FullStopPoints    *float64
	FullTPPoints      *float64
	PartialStopPoints *float64
	PartialTP1Points  *float64
	PartialTP2Points  *float64
	PartialTP3Points  *float64
}

// Merge applies the non-nil override fields over d.
func (d TradeDefaults) Merge(o TradeDefaultsOverride) TradeDefaults {
	if o.FullStopPoints != nil {
		d.FullStopPoints = *o.FullStopPoints
	}
	if o.FullTPPoints != nil {
		d.FullTPPoints = *o.FullTPPoints
	}
	if o.PartialStopPoints != nil {
		d.PartialStopPoints = *o.PartialStopPoints
	}
	if o.PartialTP1Points != nil {
		d.PartialTP1Points = *o.PartialTP1Points
	}
	if o.PartialTP2Points != nil {
		d.PartialTP2Points = *o.PartialTP2Points
	}
	if o.PartialTP3Points != nil {
		d.PartialTP3Points = *o.PartialTP3Points
	}
	return d
}

// DefaultInstruments returns the hardcoded instrument specs.
func DefaultInstruments() map[string]InstrumentSpec {
	return map[string]InstrumentSpec{
		"MES": {DollarsPerPoint: 5, DollarsPerTick: 1.25, TicksPerPoint: 4},
		"ES":  {DollarsPerPoint: 50, DollarsPerTick: 12.50, TicksPerPoint: 4},
	}
}

// DefaultTradeDefaults returns the hardcoded plan distances.
func DefaultTradeDefaults() TradeDefaults {
	return TradeDefaults{
		FullStopPoints:    20,
		FullTPPoints:      20,
		PartialStopPoints: 20,
		PartialTP1Points:  5,
		PartialTP2Points:  10,
		PartialTP3Points:  20,
	}
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradejournal"
	}
	return filepath.Join(home, ".config", "tradejournal")
}

// Load reads config.toml from the specified directory, falling back to
// the default config directory, and then to hardcoded defaults for any
// missing value. A missing file is not an error.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("journal.db_path", filepath.Join(configDir, "journal.db"))
	v.SetDefault("journal.import_point_value", 5.0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	// Viper lowercases section keys; symbols are stored uppercase.
	if cfg.Instruments != nil {
		norm := make(map[string]InstrumentSpec, len(cfg.Instruments))
		for sym, spec := range cfg.Instruments {
			norm[strings.ToUpper(sym)] = spec
		}
		cfg.Instruments = norm
	}

	// File values layer over the hardcoded instrument and distance
	// defaults field by field.
	defaults := DefaultInstruments()
	if cfg.Instruments == nil {
		cfg.Instruments = defaults
	} else {
		for sym, spec := range defaults {
			got, ok := cfg.Instruments[sym]
			if !ok {
				cfg.Instruments[sym] = spec
				continue
			}
			if got.DollarsPerPoint == 0 {
				got.DollarsPerPoint = spec.DollarsPerPoint
			}
			if got.DollarsPerTick == 0 {
				got.DollarsPerTick = spec.DollarsPerTick
			}
			if got.TicksPerPoint == 0 {
				got.TicksPerPoint = spec.TicksPerPoint
			}
			cfg.Instruments[sym] = got
		}
	}

	dd := DefaultTradeDefaults()
	if cfg.Defaults.FullStopPoints == 0 {
		cfg.Defaults.FullStopPoints = dd.FullStopPoints
	}
	if cfg.Defaults.FullTPPoints == 0 {
		cfg.Defaults.FullTPPoints = dd.FullTPPoints
	}
	if cfg.Defaults.PartialStopPoints == 0 {
		cfg.Defaults.PartialStopPoints = dd.PartialStopPoints
	}
	if cfg.Defaults.PartialTP1Points == 0 {
		cfg.Defaults.PartialTP1Points = dd.PartialTP1Points
	}
	if cfg.Defaults.PartialTP2Points == 0 {
		cfg.Defaults.PartialTP2Points = dd.PartialTP2Points
	}
	if cfg.Defaults.PartialTP3Points == 0 {
		cfg.Defaults.PartialTP3Points = dd.PartialTP3Points
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Instrument returns the spec for sym, falling back to MES when the
// symbol is unknown.
func (c *Config) Instrument(sym string) InstrumentSpec {
	if spec, ok := c.Instruments[sym]; ok {
		return spec
	}
	return c.Instruments["MES"]
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Journal.ImportPointValue <= 0 {
		return fmt.Errorf("journal.import_point_value must be positive")
	}
	for sym, spec := range c.Instruments {
		if spec.DollarsPerPoint <= 0 {
			return fmt.Errorf("instrument %s: dollars_per_point must be positive", sym)
		}
	}
	for name, v := range map[string]float64{
		"full_stop_points":    c.Defaults.FullStopPoints,
		"full_tp_points":      c.Defaults.FullTPPoints,
		"partial_stop_points": c.Defaults.PartialStopPoints,
		"partial_tp1_points":  c.Defaults.PartialTP1Points,
		"partial_tp2_points":  c.Defaults.PartialTP2Points,
		"partial_tp3_points":  c.Defaults.PartialTP3Points,
	} {
		if v <= 0 {
			return fmt.Errorf("defaults.%s must be positive", name)
		}
	}
	return nil
}
