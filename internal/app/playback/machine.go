package playback

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/sdbox/internal/domain/track"
)

// Errors
var (
	ErrDecodeStart    = errors.New("decoder rejected track")
	ErrDecode         = errors.New("decoding failed")
	ErrNotPlaying     = errors.New("not playing")
	ErrAlreadyPlaying = errors.New("already playing")
)

// Config holds machine configuration.
type Config struct {
	Timing Timing // Position/time conversion
	Resume bool   // Restart a stopped track from its retained offset
}

// Machine is the Idle/Playing/Stopped state machine around one decoder session.
// It is not safe for concurrent use; the control loop owns it.
type Machine struct {
	decoder Decoder
	config  Config

	state  State
	active *track.Track // Playing or stopped track
	handle *handle      // Open session, only while playing

	elapsedOffsetMs uint32 // Retained position, valid while stopped
}

// NewMachine creates an idle machine.
func NewMachine(decoder Decoder, config Config) *Machine {
	return &Machine{
		decoder: decoder,
		config:  config,
		state:   StateIdle,
	}
}

// State returns the current playback state.
func (m *Machine) State() State {
	return m.state
}

// ActiveTrack returns the playing or stopped track.
func (m *Machine) ActiveTrack() (*track.Track, bool) {
	if m.active == nil {
		return nil, false
	}
	return m.active, true
}

// ElapsedMs returns the live position while playing, the retained offset while
// stopped, and 0 when idle.
func (m *Machine) ElapsedMs() uint32 {
	switch m.state {
	case StatePlaying:
		s := m.handle.session
		return m.config.Timing.SamplesToMs(s.PositionSamples(), s.SampleRate())
	case StateStopped:
		return m.elapsedOffsetMs
	default:
		return 0
	}
}

// Play opens t and starts playback. It reports whether playback resumed from
// the offset retained by a previous Stop of the same track.
// On failure the machine is idle and the returned error is marked ErrDecodeStart.
func (m *Machine) Play(t track.Track) (bool, error) {
	if m.state == StatePlaying {
		return false, ErrAlreadyPlaying
	}

	offset := m.elapsedOffsetMs
	resume := m.config.Resume &&
		m.state == StateStopped &&
		m.active != nil && m.active.Path == t.Path &&
		offset > 0

	h, err := acquire(m.decoder, t)
	if err != nil {
		m.reset()
		return false, errors.Mark(errors.Wrapf(err, "failed to open %s", t.Name), ErrDecodeStart)
	}

	if resume {
		target := m.config.Timing.MsToSamples(offset, h.session.SampleRate())
		if err := h.session.Seek(target); err != nil {
			zlog.Warn().Msgf("playback: resume failed, starting over: track=%s offset_ms=%d error=%v", t.Name, offset, err)
			resume = false
		}
	}
	if !resume {
		offset = 0
	}

	m.handle = h
	m.active = &t
	m.state = StatePlaying
	m.elapsedOffsetMs = offset

	zlog.Debug().Msgf("playback: playing: track=%s resumed=%t offset_ms=%d sample_rate=%d",
		t.Name, resume, offset, h.session.SampleRate())
	return resume, nil
}

// Stop captures the elapsed offset, releases the session and keeps the track for resume.
func (m *Machine) Stop() error {
	if m.state != StatePlaying {
		return ErrNotPlaying
	}

	m.elapsedOffsetMs = m.ElapsedMs()
	if err := m.handle.release(); err != nil {
		zlog.Warn().Msgf("playback: failed to close decoder: track=%s error=%v", m.active.Name, err)
	}
	m.handle = nil
	m.state = StateStopped

	zlog.Debug().Msgf("playback: stopped: track=%s offset_ms=%d", m.active.Name, m.elapsedOffsetMs)
	return nil
}

// Tick runs one decode step. When the track ends, naturally or through a decode
// error, the session is released and the machine becomes idle.
func (m *Machine) Tick() (Step, error) {
	if m.state != StatePlaying {
		return StepContinue, ErrNotPlaying
	}

	step, err := m.handle.session.Step()
	if err != nil {
		name := m.active.Name
		m.reset()
		return StepEnded, errors.Mark(errors.Wrapf(err, "failed to decode %s", name), ErrDecode)
	}
	if step == StepEnded {
		zlog.Debug().Msgf("playback: track ended: track=%s", m.active.Name)
		m.reset()
	}
	return step, nil
}

// Seek moves the playing track to ms.
func (m *Machine) Seek(ms uint32) error {
	if m.state != StatePlaying {
		return ErrNotPlaying
	}

	s := m.handle.session
	target := m.config.Timing.MsToSamples(ms, s.SampleRate())
	if err := s.Seek(target); err != nil {
		return errors.Wrapf(err, "failed to seek %s to %dms", m.active.Name, ms)
	}
	return nil
}

// Close releases any open session and returns to idle.
func (m *Machine) Close() {
	m.reset()
}

// reset releases the session and forgets the track.
func (m *Machine) reset() {
	if err := m.handle.release(); err != nil {
		zlog.Warn().Msgf("playback: failed to close decoder: error=%v", err)
	}
	m.handle = nil
	m.active = nil
	m.state = StateIdle
	m.elapsedOffsetMs = 0
}
