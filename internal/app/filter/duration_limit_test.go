package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/sdbox/internal/domain/track"
)

// 128 kbps is 16384 bytes per second.
const bytesPerSecond = 16384

func TestDurationLimitFilter_Check(t *testing.T) {
	tests := []struct {
		name         string
		minSeconds   float64
		maxMinutes   float64
		seconds      int64
		shouldReject bool
	}{
		{
			name:         "Within limits",
			minSeconds:   30,
			maxMinutes:   5,
			seconds:      180,
			shouldReject: false,
		},
		{
			name:         "Too short",
			minSeconds:   30,
			maxMinutes:   0,
			seconds:      5,
			shouldReject: true,
		},
		{
			name:         "Too long",
			minSeconds:   0,
			maxMinutes:   5,
			seconds:      360,
			shouldReject: true,
		},
		{
			name:         "Exact min",
			minSeconds:   30,
			maxMinutes:   0,
			seconds:      30,
			shouldReject: false,
		},
		{
			name:         "Exact max",
			minSeconds:   0,
			maxMinutes:   5,
			seconds:      300,
			shouldReject: false,
		},
		{
			name:         "No upper limit",
			minSeconds:   0,
			maxMinutes:   0,
			seconds:      3600,
			shouldReject: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewDurationLimitFilter()
			err := f.ValidateConfig(map[string]any{
				"min_seconds": tt.minSeconds,
				"max_minutes": tt.maxMinutes,
			})
			require.NoError(t, err)

			result := f.Check(context.Background(), track.New("/p/a.mp3", tt.seconds*bytesPerSecond))
			if tt.shouldReject {
				assert.False(t, result.Accepted)
				assert.Equal(t, "duration_limit_exceeded", result.Code)
			} else {
				assert.True(t, result.Accepted)
			}
		})
	}
}

func TestDurationLimitFilter_Unconfigured(t *testing.T) {
	f := NewDurationLimitFilter()
	assert.True(t, f.Check(context.Background(), track.New("/p/a.mp3", 1)).Accepted)
}

func TestDurationLimitFilter_UnknownSize(t *testing.T) {
	f := NewDurationLimitFilter()
	require.NoError(t, f.ValidateConfig(map[string]any{"min_seconds": 30}))
	assert.True(t, f.Check(context.Background(), track.New("/p/a.mp3", 0)).Accepted)
}

func TestDurationLimitFilter_Bitrate(t *testing.T) {
	f := NewDurationLimitFilter()
	require.NoError(t, f.ValidateConfig(map[string]any{"min_seconds": 60, "bitrate_kbps": 320}))

	// 60 s at 128 kbps is only 24 s at 320 kbps.
	assert.False(t, f.Check(context.Background(), track.New("/p/a.mp3", 60*bytesPerSecond)).Accepted)
}

func TestDurationLimitFilter_ValidateConfig(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		wantErr  bool
	}{
		{name: "empty settings", settings: nil},
		{name: "valid", settings: map[string]any{"min_seconds": 10, "max_minutes": 10}},
		{name: "string numbers", settings: map[string]any{"min_seconds": "10"}},
		{name: "negative min", settings: map[string]any{"min_seconds": -1}, wantErr: true},
		{name: "min above max", settings: map[string]any{"min_seconds": 601, "max_minutes": 10}, wantErr: true},
		{name: "zero bitrate", settings: map[string]any{"bitrate_kbps": -5}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDurationLimitFilter().ValidateConfig(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
