package filter

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/sdbox/internal/app/playback"
	"github.com/osa030/sdbox/internal/domain/track"
)

// DurationLimitConfig represents the configuration for DurationLimitFilter.
// Durations are estimated from the file size at a constant bitrate.
type DurationLimitConfig struct {
	MinSeconds  float64 `yaml:"min_seconds" mapstructure:"min_seconds" validate:"gte=0"`
	MaxMinutes  float64 `yaml:"max_minutes" mapstructure:"max_minutes" validate:"gte=0"`
	BitrateKbps int     `yaml:"bitrate_kbps" mapstructure:"bitrate_kbps" default:"128" validate:"gt=0"`
}

// DurationLimitFilter checks if the estimated track duration is within allowed limits.
type DurationLimitFilter struct {
	config *DurationLimitConfig
}

// NewDurationLimitFilter creates a new duration limit filter.
func NewDurationLimitFilter() *DurationLimitFilter {
	return &DurationLimitFilter{}
}

func (f *DurationLimitFilter) Name() string {
	return "duration_limit_filter"
}

func (f *DurationLimitFilter) Description() string {
	return "Checks if the size-estimated track duration is within allowed limits"
}

func (f *DurationLimitFilter) ReturnCodes() []string {
	return []string{"duration_limit_exceeded"}
}

func (f *DurationLimitFilter) ValidateConfig(settings map[string]any) error {
	var config DurationLimitConfig
	if err := decodeSettings(settings, &config); err != nil {
		return err
	}

	// max_minutes of 0 means no upper limit
	if config.MaxMinutes > 0 && config.MinSeconds > config.MaxMinutes*60 {
		return errors.New("min_seconds cannot be greater than max_minutes")
	}
	f.config = &config
	zlog.Debug().Msgf("duration limit filter config: %+v", config)
	return nil
}

func (f *DurationLimitFilter) Check(ctx context.Context, t track.Track) Result {
	// If config is not set or the size is unknown, accept all tracks
	if f.config == nil || t.Size <= 0 {
		return Accept()
	}

	timing := playback.Timing{BitrateKbps: f.config.BitrateKbps}
	duration := timing.EstimateDuration(t.Size)

	if duration < time.Duration(f.config.MinSeconds*float64(time.Second)) {
		return Reject("duration_limit_exceeded")
	}
	if f.config.MaxMinutes > 0 && duration > time.Duration(f.config.MaxMinutes*float64(time.Minute)) {
		return Reject("duration_limit_exceeded")
	}
	return Accept()
}

func init() {
	Register("duration_limit_filter", func() Filter {
		return &DurationLimitFilter{}
	})
}
