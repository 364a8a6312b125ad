// Package playback provides the playback state machine driving a decoder session.
package playback

// State represents the playback state.
type State int

const (
	StateIdle    State = iota // No track loaded
	StatePlaying              // Decoder is producing samples
	StateStopped              // Decoder released, elapsed offset retained
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
