package notification

import (
	zlog "github.com/rs/zerolog/log"
)

// LogSubscriber writes every notification to the diagnostic log.
type LogSubscriber struct{}

// Receive logs n. Failures are logged at warn level.
func (LogSubscriber) Receive(n Notification) error {
	e := n.Event
	name := ""
	if e.Track != nil {
		name = e.Track.Name
	}

	ev := zlog.Info()
	if e.Err != nil {
		ev = zlog.Warn()
	}
	ev.Msgf("event: seq=%d type=%s state=%s track=%s index=%d count=%d elapsed_ms=%d error=%v",
		n.SequenceNo, e.Type, e.State, name, e.Index, e.Count, e.ElapsedMs, e.Err)
	return nil
}
