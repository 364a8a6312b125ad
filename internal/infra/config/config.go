// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Storage  StorageConfig           `yaml:"storage"`
	Playlist PlaylistConfig          `yaml:"playlist"`
	Buttons  ButtonsConfig           `yaml:"buttons"`
	Playback PlaybackConfig          `yaml:"playback"`
	Display  DisplayConfig           `yaml:"display"`
	Filters  map[string]FilterConfig `yaml:"filters"`
	Hooks    HooksConfig             `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// StorageConfig represents where tracks are enumerated from.
type StorageConfig struct {
	Root     string         `yaml:"root" default:"/media/sd/playlist" validate:"required"`
	Sources  []SourceConfig `yaml:"sources" validate:"dive"`
	ReadTags bool           `yaml:"read_tags"`
}

// SourceConfig represents a single track source.
// Path defaults to the storage root.
type SourceConfig struct {
	Type string `yaml:"type" validate:"required,oneof=directory m3u"`
	Path string `yaml:"path"`
}

// PlaylistConfig represents playlist configuration.
type PlaylistConfig struct {
	Capacity int `yaml:"capacity" default:"20" validate:"gt=0,lte=1000"`
}

// ButtonsConfig represents the three-button panel configuration.
type ButtonsConfig struct {
	ActiveLevel string     `yaml:"active_level" default:"high" validate:"oneof=high low"`
	DebounceMs  int        `yaml:"debounce_ms" default:"200" validate:"gt=0,lte=5000"`
	Input       string     `yaml:"input" default:"keyboard" validate:"oneof=keyboard none"`
	HoldMs      int        `yaml:"hold_ms" default:"300" validate:"gt=0,lte=10000"`
	Pins        PinsConfig `yaml:"pins"`
}

// PinsConfig maps buttons to input pins.
type PinsConfig struct {
	Play int `yaml:"play" default:"14" validate:"gte=0"`
	Next int `yaml:"next" default:"15" validate:"gte=0"`
	Prev int `yaml:"prev" default:"16" validate:"gte=0"`
}

// PlaybackConfig represents playback control configuration.
type PlaybackConfig struct {
	AutoAdvance       bool   `yaml:"auto_advance" default:"true"`
	SkipOnDecodeError bool   `yaml:"skip_on_decode_error" default:"true"`
	Resume            bool   `yaml:"resume" default:"true"`
	BitrateKbps       int    `yaml:"bitrate_kbps" default:"128" validate:"gt=0,lte=1411"`
	BufferSamples     int    `yaml:"buffer_samples" default:"512" validate:"gt=0,lte=65536"`
	TickMs            int    `yaml:"tick_ms" default:"10" validate:"gt=0,lte=1000"`
	ProgressMs        int    `yaml:"progress_ms" default:"1000" validate:"gt=0"`
	Output            string `yaml:"output" default:"speaker" validate:"oneof=speaker discard"`
	SampleRate        int    `yaml:"sample_rate" default:"44100" validate:"gte=8000,lte=192000"`
	OutputBufferMs    int    `yaml:"output_buffer_ms" default:"200" validate:"gt=0,lte=5000"`
}

// DisplayConfig represents display configuration.
type DisplayConfig struct {
	Output string `yaml:"output" default:"terminal" validate:"oneof=terminal log none"`
}

// FilterConfig represents a filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// DefaultFilters is used when the file configures no filters.
func DefaultFilters() map[string]FilterConfig {
	return map[string]FilterConfig{
		"hidden_file_filter": {Enabled: true},
		"extension_filter":   {Enabled: true},
	}
}

// Default returns the configuration used without a config file.
func Default() (*Config, error) {
	return parse(nil)
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	var cfg Config

	// Defaults go first so explicit false and zero values in the file are kept.
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}
	if cfg.Filters == nil {
		cfg.Filters = DefaultFilters()
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SDBOX_ROOT"); v != "" {
		c.Storage.Root = v
	}
	if v := os.Getenv("SDBOX_ACTIVE_LEVEL"); v != "" {
		c.Buttons.ActiveLevel = v
	}
	if v := os.Getenv("SDBOX_OUTPUT"); v != "" {
		c.Playback.Output = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	// Validate pin assignment
	p := c.Buttons.Pins
	if p.Play == p.Next || p.Play == p.Prev || p.Next == p.Prev {
		return errors.Newf("button pins must be distinct (play=%d next=%d prev=%d)", p.Play, p.Next, p.Prev)
	}

	return nil
}

// SourceList returns the configured sources, or a single directory source
// reading the storage root. Empty paths resolve to the root.
func (c *StorageConfig) SourceList() []SourceConfig {
	if len(c.Sources) == 0 {
		return []SourceConfig{{Type: "directory", Path: c.Root}}
	}
	sources := make([]SourceConfig, len(c.Sources))
	for i, s := range c.Sources {
		if s.Path == "" {
			s.Path = c.Root
		}
		sources[i] = s
	}
	return sources
}

// DebounceWindow returns the debounce window.
func (c *ButtonsConfig) DebounceWindow() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// HoldTime returns how long a key press keeps a button active.
func (c *ButtonsConfig) HoldTime() time.Duration {
	return time.Duration(c.HoldMs) * time.Millisecond
}

// TickInterval returns the control loop period.
func (c *PlaybackConfig) TickInterval() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// ProgressInterval returns how often the elapsed time is repainted.
func (c *PlaybackConfig) ProgressInterval() time.Duration {
	return time.Duration(c.ProgressMs) * time.Millisecond
}

// OutputBuffer returns the length of audio queued ahead of the speaker.
func (c *PlaybackConfig) OutputBuffer() time.Duration {
	return time.Duration(c.OutputBufferMs) * time.Millisecond
}

// IsFilterEnabled checks if a filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}
