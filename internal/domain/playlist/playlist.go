// Package playlist provides the Playlist domain entity.
package playlist

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/sdbox/internal/domain/track"
)

// NoSelection is the index reported while no track is selected.
const NoSelection = -1

// Errors
var (
	ErrEmptyPlaylist    = errors.New("playlist is empty")
	ErrCapacityExceeded = errors.New("playlist capacity exceeded")
)

// Direction is a navigation direction.
type Direction int

const (
	Next Direction = iota
	Prev
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case Next:
		return "next"
	case Prev:
		return "prev"
	default:
		return "unknown"
	}
}

// Playlist is an ordered, fixed-size list of tracks with a cursor.
// It is populated once at startup and only navigated afterwards.
type Playlist struct {
	tracks []track.Track
	index  int
}

// New creates an empty playlist with nothing selected.
func New() *Playlist {
	return &Playlist{index: NoSelection}
}

// Load replaces the contents with tracks in the given order.
// When more than maxCount tracks are given the list is truncated, still loaded,
// and an error marked ErrCapacityExceeded is returned.
// A non-empty playlist starts with the first track selected.
func (p *Playlist) Load(tracks []track.Track, maxCount int) error {
	var err error
	if maxCount >= 0 && len(tracks) > maxCount {
		err = errors.Mark(
			errors.Newf("%d tracks found, keeping the first %d", len(tracks), maxCount),
			ErrCapacityExceeded,
		)
		tracks = tracks[:maxCount]
	}

	p.tracks = make([]track.Track, len(tracks))
	copy(p.tracks, tracks)

	if len(p.tracks) > 0 {
		p.index = 0
	} else {
		p.index = NoSelection
	}
	return err
}

// Count returns the number of loaded tracks.
func (p *Playlist) Count() int {
	return len(p.tracks)
}

// IsEmpty returns true if no tracks are loaded.
func (p *Playlist) IsEmpty() bool {
	return len(p.tracks) == 0
}

// Index returns the cursor position, or NoSelection.
func (p *Playlist) Index() int {
	return p.index
}

// Current returns the selected track.
func (p *Playlist) Current() (track.Track, bool) {
	if p.index < 0 || p.index >= len(p.tracks) {
		return track.Track{}, false
	}
	return p.tracks[p.index], true
}

// Advance moves the cursor one step with wraparound and returns the new current track.
// With a single track both directions return that track.
func (p *Playlist) Advance(dir Direction) (track.Track, error) {
	count := len(p.tracks)
	if count == 0 {
		return track.Track{}, ErrEmptyPlaylist
	}

	switch {
	case p.index < 0 && dir == Prev:
		p.index = count - 1
	case p.index < 0:
		p.index = 0
	case dir == Prev:
		p.index = (p.index - 1 + count) % count
	default:
		p.index = (p.index + 1) % count
	}
	return p.tracks[p.index], nil
}

// Tracks returns a copy of the loaded tracks.
func (p *Playlist) Tracks() []track.Track {
	result := make([]track.Track, len(p.tracks))
	copy(result, p.tracks)
	return result
}

// TotalSize returns the combined size of all tracks in bytes.
func (p *Playlist) TotalSize() int64 {
	var total int64
	for _, t := range p.tracks {
		total += t.Size
	}
	return total
}
