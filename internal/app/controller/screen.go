package controller

import (
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/sdbox/internal/app/display"
	"github.com/osa030/sdbox/internal/app/playback"
)

// screen builds the frame for the current state.
func (c *Controller) screen() []display.Line {
	if c.inert {
		return display.Message("No storage", "insert card")
	}

	pl := c.pc.Playlist
	current, ok := pl.Current()
	if !ok {
		return display.Message("No tracks", "")
	}

	m := c.pc.Machine
	elapsed := time.Duration(m.ElapsedMs()) * time.Millisecond
	active, hasActive := m.ActiveTrack()

	switch {
	case m.State() == playback.StatePlaying && hasActive:
		return display.NowPlaying(*active, elapsed)
	case m.State() == playback.StateStopped && hasActive && active.Path == current.Path:
		return display.Stopped(*active, elapsed)
	default:
		return display.Selection(current, pl.Index(), pl.Count())
	}
}

// paint rebuilds the frame when something changed, or once per progress
// interval while playing, and renders it only if it differs from the last one.
func (c *Controller) paint(now time.Time, force bool) {
	progress := c.pc.Machine.State() == playback.StatePlaying &&
		now.Sub(c.lastPaint) >= c.config.ProgressInterval
	if !force && !c.dirty && !progress {
		return
	}
	c.dirty = false
	c.lastPaint = now

	frame := c.screen()
	if !force && display.Equal(frame, c.frame) {
		return
	}
	if err := c.pc.Display.Render(frame); err != nil {
		zlog.Warn().Msgf("controller: display render failed: %v", err)
		return
	}
	c.frame = frame
}
