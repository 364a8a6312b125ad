package input

import (
	"time"
)

// Button identifies one of the three transport buttons.
type Button int

const (
	ButtonPlay Button = iota
	ButtonNext
	ButtonPrev
)

// Buttons lists all buttons in polling order.
var Buttons = []Button{ButtonPlay, ButtonNext, ButtonPrev}

// String returns the string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonPlay:
		return "play"
	case ButtonNext:
		return "next"
	case ButtonPrev:
		return "prev"
	default:
		return "unknown"
	}
}

// Source reads the current level of a digital input pin.
type Source interface {
	ReadLevel(pin int) Level
}

// Pins maps buttons to input pins.
type Pins struct {
	Play int
	Next int
	Prev int
}

// Pin returns the pin wired to b.
func (p Pins) Pin(b Button) int {
	switch b {
	case ButtonNext:
		return p.Next
	case ButtonPrev:
		return p.Prev
	default:
		return p.Play
	}
}

// Event is a debounced edge on a button.
type Event struct {
	Button Button
	Edge   Edge
	At     time.Time
}

// Panel polls the three buttons through one debouncer.
type Panel struct {
	debouncer *Debouncer
	source    Source
	pins      Pins
	channels  [3]*Channel
}

// NewPanel creates a panel reading pins from source.
func NewPanel(debouncer *Debouncer, source Source, pins Pins) *Panel {
	p := &Panel{
		debouncer: debouncer,
		source:    source,
		pins:      pins,
	}
	for i := range p.channels {
		p.channels[i] = debouncer.NewChannel()
	}
	return p
}

// Poll samples every button once and returns the edges committed at now,
// in Play, Next, Prev order.
func (p *Panel) Poll(now time.Time) []Event {
	var events []Event
	for _, b := range Buttons {
		level := p.source.ReadLevel(p.pins.Pin(b))
		if edge, ok := p.debouncer.Observe(p.channels[b], level, now); ok {
			events = append(events, Event{Button: b, Edge: edge, At: now})
		}
	}
	return events
}
