package playback

import "github.com/osa030/sdbox/internal/domain/track"

// EventType represents a playback event type.
type EventType int

const (
	EventTrackStarted       EventType = iota // Track started from the beginning
	EventTrackResumed                        // Track resumed from the retained offset
	EventTrackStopped                        // Track stopped by the user
	EventTrackEnded                          // Track finished playing
	EventTrackSeeked                         // Playback position moved
	EventSelectionChanged                    // Playlist cursor moved
	EventDecodeFailed                        // Decoder rejected a track
	EventPlaylistEmpty                       // No tracks to navigate
	EventStorageUnavailable                  // Storage could not be listed
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventTrackStarted:
		return "track_started"
	case EventTrackResumed:
		return "track_resumed"
	case EventTrackStopped:
		return "track_stopped"
	case EventTrackEnded:
		return "track_ended"
	case EventTrackSeeked:
		return "track_seeked"
	case EventSelectionChanged:
		return "selection_changed"
	case EventDecodeFailed:
		return "decode_failed"
	case EventPlaylistEmpty:
		return "playlist_empty"
	case EventStorageUnavailable:
		return "storage_unavailable"
	default:
		return "unknown"
	}
}

// Event represents a playback event.
type Event struct {
	Type      EventType
	Track     *track.Track // Track concerned (nil for some events)
	State     State        // Playback state after the event
	Index     int          // Playlist cursor after the event
	Count     int          // Playlist size
	ElapsedMs uint32       // Elapsed estimate at the time of the event
	Err       error        // Cause for failure events
}
