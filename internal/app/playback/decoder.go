package playback

import (
	"github.com/osa030/sdbox/internal/domain/track"
)

// Step is the outcome of one decode step.
type Step int

const (
	StepContinue Step = iota // More samples remain
	StepEnded                // Track reached its natural end
)

// String returns the string representation of the step.
func (s Step) String() string {
	switch s {
	case StepContinue:
		return "continue"
	case StepEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Decoder opens tracks for playback.
type Decoder interface {
	Open(t track.Track) (Session, error)
}

// Session is an open decoder producing samples for one track.
// Step must do a bounded amount of work and return promptly.
type Session interface {
	Step() (Step, error)
	PositionSamples() uint32
	SampleRate() int
	Seek(sample uint32) error
	Close() error
}

// handle owns an open session and releases it exactly once.
type handle struct {
	session Session
}

// acquire opens t and wraps the session. On error nothing is held.
func acquire(dec Decoder, t track.Track) (*handle, error) {
	s, err := dec.Open(t)
	if err != nil {
		if s != nil {
			_ = s.Close()
		}
		return nil, err
	}
	return &handle{session: s}, nil
}

// release closes the session. Safe to call on a nil or released handle.
func (h *handle) release() error {
	if h == nil || h.session == nil {
		return nil
	}
	err := h.session.Close()
	h.session = nil
	return err
}
