// Package input turns raw button pin levels into debounced press edges.
package input

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// DefaultWindow is the time a level must stay unchanged before it is committed.
const DefaultWindow = 200 * time.Millisecond

// Level is a digital pin level.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// String returns the string representation of the level.
func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// ParseLevel parses "high" or "low".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "high":
		return High, nil
	case "low":
		return Low, nil
	default:
		return Low, errors.Newf("invalid level %q (expected high or low)", s)
	}
}

// Edge is a committed level transition.
type Edge int

const (
	Pressed Edge = iota
	Released
)

// String returns the string representation of the edge.
func (e Edge) String() string {
	switch e {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	default:
		return "unknown"
	}
}

// Channel holds the debounce state of one button.
type Channel struct {
	raw        Level
	stable     Level
	lastChange time.Time
}

// Debouncer commits a level only after it has been stable for longer than the window.
//
// ActiveLevel selects the wiring: High for a button pulling the pin up against an
// external pull-down, Low for a button shorting to ground with a pull-up.
type Debouncer struct {
	window time.Duration
	active Level
}

// NewDebouncer creates a debouncer. A non-positive window uses DefaultWindow.
func NewDebouncer(window time.Duration, active Level) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{window: window, active: active}
}

// Window returns the debounce window.
func (d *Debouncer) Window() time.Duration {
	return d.window
}

// ActiveLevel returns the level that means "pressed".
func (d *Debouncer) ActiveLevel() Level {
	return d.active
}

// NewChannel returns a channel resting at the released level.
func (d *Debouncer) NewChannel() *Channel {
	return &Channel{raw: !d.active, stable: !d.active}
}

// Observe feeds one sample taken at now and returns the edge committed by it, if any.
// now must not go backwards between calls for the same channel.
func (d *Debouncer) Observe(ch *Channel, raw Level, now time.Time) (Edge, bool) {
	if raw != ch.raw {
		ch.raw = raw
		ch.lastChange = now
	}

	if now.Sub(ch.lastChange) <= d.window || ch.raw == ch.stable {
		return 0, false
	}

	ch.stable = ch.raw
	if ch.stable == d.active {
		return Pressed, true
	}
	return Released, true
}
