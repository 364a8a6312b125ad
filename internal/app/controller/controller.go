// Package controller runs the player's control loop: it turns button edges into
// playlist and playback transitions and keeps the display up to date.
package controller

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/sdbox/internal/app/display"
	"github.com/osa030/sdbox/internal/app/input"
	"github.com/osa030/sdbox/internal/app/notification"
	"github.com/osa030/sdbox/internal/app/playback"
	"github.com/osa030/sdbox/internal/domain/playlist"
	"github.com/osa030/sdbox/internal/domain/track"
)

// Errors
var (
	ErrInert = errors.New("controller inert: storage unavailable")
)

// TrackSource lists the tracks on storage in a stable order.
type TrackSource interface {
	ListTracks(ctx context.Context) ([]track.Track, error)
}

// PlayerContext bundles the collaborators the controller drives.
type PlayerContext struct {
	Playlist *playlist.Playlist
	Machine  *playback.Machine
	Panel    *input.Panel
	Display  display.Sink
	Notifier *notification.Manager
}

// Config holds controller configuration.
type Config struct {
	Capacity          int           // Maximum playlist size
	AutoAdvance       bool          // Play the next track when one ends
	SkipOnDecodeError bool          // Try the following track when one cannot be opened
	TickInterval      time.Duration // Control loop period
	ProgressInterval  time.Duration // Elapsed time repaint period
}

// Controller owns the playlist and the playback machine. All methods must be
// called from the control loop goroutine.
type Controller struct {
	pc     PlayerContext
	config Config

	inert         bool // Storage could not be listed
	emptyReported bool

	frame     []display.Line // Last painted screen
	dirty     bool           // Screen needs rebuilding
	lastPaint time.Time
}

// New creates a controller. Every PlayerContext field is required.
func New(pc PlayerContext, config Config) (*Controller, error) {
	switch {
	case pc.Playlist == nil:
		return nil, errors.New("player context: playlist is required")
	case pc.Machine == nil:
		return nil, errors.New("player context: machine is required")
	case pc.Panel == nil:
		return nil, errors.New("player context: panel is required")
	case pc.Display == nil:
		return nil, errors.New("player context: display is required")
	case pc.Notifier == nil:
		return nil, errors.New("player context: notifier is required")
	}
	if config.TickInterval <= 0 {
		config.TickInterval = 10 * time.Millisecond
	}
	if config.ProgressInterval <= 0 {
		config.ProgressInterval = time.Second
	}
	return &Controller{pc: pc, config: config, dirty: true}, nil
}

// Init loads the playlist from src and paints the first screen.
// When listing fails the controller goes inert: it shows a storage message and
// ignores buttons. The returned error is informational; Run may still be called.
func (c *Controller) Init(ctx context.Context, src TrackSource) error {
	tracks, err := src.ListTracks(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.inert = true
		zlog.Error().Msgf("controller: storage unavailable, buttons disabled: %v", err)
		c.emit(playback.EventStorageUnavailable, nil, err)
		c.paint(time.Now(), true)
		return errors.Mark(err, ErrInert)
	}

	if err := c.pc.Playlist.Load(tracks, c.config.Capacity); err != nil {
		zlog.Warn().Msgf("controller: playlist truncated: %v", err)
	}
	zlog.Info().Msgf("controller: playlist loaded count=%d", c.pc.Playlist.Count())

	if c.pc.Playlist.IsEmpty() {
		c.reportEmpty()
	}
	c.paint(time.Now(), true)
	return nil
}

// Run ticks the controller until ctx is done, then releases the decoder.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.config.TickInterval)
	defer ticker.Stop()
	defer c.pc.Machine.Close()

	zlog.Debug().Msgf("controller: loop started tick=%s", c.config.TickInterval)
	for {
		select {
		case <-ctx.Done():
			zlog.Debug().Msg("controller: loop stopped")
			return ctx.Err()
		case now := <-ticker.C:
			c.Tick(now)
		}
	}
}

// Tick runs one loop iteration at now: poll buttons, act on presses, run one
// decode step and repaint if needed. It never blocks.
func (c *Controller) Tick(now time.Time) {
	if c.inert {
		return
	}

	for _, ev := range c.pc.Panel.Poll(now) {
		if ev.Edge != input.Pressed {
			continue
		}
		zlog.Debug().Msgf("controller: button pressed button=%s", ev.Button)
		c.handlePress(ev.Button)
	}

	if c.pc.Machine.State() == playback.StatePlaying {
		c.step()
	}

	c.paint(now, false)
}

// Seek moves the playing track to ms.
func (c *Controller) Seek(ms uint32) error {
	t, _ := c.pc.Machine.ActiveTrack()
	if err := c.pc.Machine.Seek(ms); err != nil {
		return err
	}
	c.emit(playback.EventTrackSeeked, t, nil)
	c.dirty = true
	return nil
}

// Inert reports whether the controller gave up because storage was unavailable.
func (c *Controller) Inert() bool {
	return c.inert
}

// Frame returns the last painted screen.
func (c *Controller) Frame() []display.Line {
	return c.frame
}

func (c *Controller) handlePress(b input.Button) {
	if c.pc.Playlist.IsEmpty() {
		c.reportEmpty()
		return
	}
	c.dirty = true

	switch b {
	case input.ButtonPlay:
		c.togglePlay()
	case input.ButtonNext:
		c.navigate(playlist.Next)
	case input.ButtonPrev:
		c.navigate(playlist.Prev)
	}
}

// togglePlay stops a playing track, otherwise plays the selection.
func (c *Controller) togglePlay() {
	m := c.pc.Machine
	if m.State() == playback.StatePlaying {
		t, _ := m.ActiveTrack()
		if err := m.Stop(); err != nil {
			zlog.Warn().Msgf("controller: stop failed: %v", err)
			return
		}
		c.emit(playback.EventTrackStopped, t, nil)
		return
	}

	t, ok := c.pc.Playlist.Current()
	if !ok {
		return
	}
	c.play(t, playlist.Next)
}

// navigate moves the selection. A playing track is replaced by the new one,
// which starts from the beginning.
func (c *Controller) navigate(dir playlist.Direction) {
	wasPlaying := c.pc.Machine.State() == playback.StatePlaying
	if wasPlaying {
		c.pc.Machine.Close()
	}

	t, err := c.pc.Playlist.Advance(dir)
	if err != nil {
		c.reportEmpty()
		return
	}
	c.emit(playback.EventSelectionChanged, &t, nil)

	if wasPlaying {
		c.play(t, dir)
	}
}

// play starts t. When the decoder rejects it and skipping is enabled, the
// following tracks in dir are tried, each track at most once.
func (c *Controller) play(t track.Track, dir playlist.Direction) {
	count := c.pc.Playlist.Count()
	for attempt := 1; ; attempt++ {
		resumed, err := c.pc.Machine.Play(t)
		if err == nil {
			if resumed {
				c.emit(playback.EventTrackResumed, &t, nil)
			} else {
				c.emit(playback.EventTrackStarted, &t, nil)
			}
			return
		}

		zlog.Warn().Msgf("controller: cannot play track=%s attempt=%d error=%v", t.Name, attempt, err)
		c.emit(playback.EventDecodeFailed, &t, err)
		if !c.config.SkipOnDecodeError || attempt >= count {
			return
		}

		next, err := c.pc.Playlist.Advance(dir)
		if err != nil {
			return
		}
		t = next
		c.emit(playback.EventSelectionChanged, &t, nil)
	}
}

// step runs one decode step and handles the end of the track.
func (c *Controller) step() {
	t, _ := c.pc.Machine.ActiveTrack()
	var ended track.Track
	if t != nil {
		ended = *t
	}

	result, err := c.pc.Machine.Tick()
	if err != nil {
		zlog.Warn().Msgf("controller: playback aborted track=%s error=%v", ended.Name, err)
		c.emit(playback.EventDecodeFailed, &ended, err)
	}
	if result != playback.StepEnded {
		return
	}
	c.dirty = true
	if err == nil {
		c.emit(playback.EventTrackEnded, &ended, nil)
	}

	next, aerr := c.pc.Playlist.Advance(playlist.Next)
	if aerr != nil {
		return
	}
	c.emit(playback.EventSelectionChanged, &next, nil)
	if c.config.AutoAdvance {
		c.play(next, playlist.Next)
	}
}

// reportEmpty logs and broadcasts the empty playlist once.
func (c *Controller) reportEmpty() {
	if c.emptyReported {
		return
	}
	c.emptyReported = true
	zlog.Warn().Msg("controller: playlist is empty, buttons have no effect")
	c.emit(playback.EventPlaylistEmpty, nil, playlist.ErrEmptyPlaylist)
}

// emit broadcasts an event carrying the current state. The event holds its
// own copy of t so later changes by the caller do not reach subscribers.
func (c *Controller) emit(typ playback.EventType, t *track.Track, err error) {
	var trk *track.Track
	if t != nil {
		cp := *t
		trk = &cp
	}
	c.pc.Notifier.Broadcast(playback.Event{
		Type:      typ,
		Track:     trk,
		State:     c.pc.Machine.State(),
		Index:     c.pc.Playlist.Index(),
		Count:     c.pc.Playlist.Count(),
		ElapsedMs: c.pc.Machine.ElapsedMs(),
		Err:       err,
	})
}
