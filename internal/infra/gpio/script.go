package gpio

import (
	"os"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/osa030/sdbox/internal/app/input"
)

// bouncePulse is the length of each contact bounce pulse before a press settles.
const bouncePulse = 15 * time.Millisecond

// Scenario is a scripted button timeline.
type Scenario struct {
	TickMs     int            `yaml:"tick_ms" default:"10" validate:"gt=0,lte=1000"`
	DurationMs int            `yaml:"duration_ms" default:"10000" validate:"gt=0"`
	Steps      []ScenarioStep `yaml:"steps" validate:"dive"`
}

// ScenarioStep is either a button press or a seek.
type ScenarioStep struct {
	AtMs   int     `yaml:"at_ms" validate:"gte=0"`
	Button string  `yaml:"button" validate:"omitempty,oneof=play next prev"`
	HoldMs int     `yaml:"hold_ms" default:"300" validate:"gt=0"`
	Bounce int     `yaml:"bounce" validate:"gte=0,lte=50"`
	SeekMs *uint32 `yaml:"seek_ms"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read scenario")
	}
	return ParseScenario(data)
}

// ParseScenario parses, defaults and validates a scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "failed to parse scenario")
	}
	if err := defaults.Set(&s); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(&s); err != nil {
		return nil, errors.Wrap(err, "scenario validation failed")
	}
	for i, st := range s.Steps {
		if (st.Button == "") == (st.SeekMs == nil) {
			return nil, errors.Newf("step %d: exactly one of button and seek_ms is required", i)
		}
	}
	sort.SliceStable(s.Steps, func(i, j int) bool { return s.Steps[i].AtMs < s.Steps[j].AtMs })
	return &s, nil
}

// Tick returns the control loop period.
func (s *Scenario) Tick() time.Duration {
	return time.Duration(s.TickMs) * time.Millisecond
}

// Duration returns how long the scenario runs.
func (s *Scenario) Duration() time.Duration {
	return time.Duration(s.DurationMs) * time.Millisecond
}

// SeeksBetween returns the seek targets scheduled in [from, to).
func (s *Scenario) SeeksBetween(from, to time.Duration) []uint32 {
	var seeks []uint32
	for _, st := range s.Steps {
		at := time.Duration(st.AtMs) * time.Millisecond
		if st.SeekMs != nil && at >= from && at < to {
			seeks = append(seeks, *st.SeekMs)
		}
	}
	return seeks
}

// press is a resolved button step.
type press struct {
	button input.Button
	at     time.Duration
	bounce time.Duration // Length of the bounce phase before the hold
	hold   time.Duration
}

// activeAt reports whether the contact is closed at offset t.
func (p press) activeAt(t time.Duration) bool {
	switch {
	case t < p.at:
		return false
	case t < p.at+p.bounce:
		return ((t-p.at)/bouncePulse)%2 == 0
	default:
		return t < p.at+p.bounce+p.hold
	}
}

// Script replays the presses of a scenario against a clock.
type Script struct {
	pins    input.Pins
	active  input.Level
	start   time.Time
	clock   func() time.Time
	presses []press
}

// NewScript creates a source replaying s from start.
func NewScript(s *Scenario, pins input.Pins, active input.Level, start time.Time, clock func() time.Time) *Script {
	sc := &Script{pins: pins, active: active, start: start, clock: clock}
	for _, st := range s.Steps {
		if st.Button == "" {
			continue
		}
		sc.presses = append(sc.presses, press{
			button: parseButton(st.Button),
			at:     time.Duration(st.AtMs) * time.Millisecond,
			bounce: time.Duration(st.Bounce) * 2 * bouncePulse,
			hold:   time.Duration(st.HoldMs) * time.Millisecond,
		})
	}
	return sc
}

// ReadLevel implements input.Source.
func (s *Script) ReadLevel(pin int) input.Level {
	t := s.clock().Sub(s.start)
	for _, p := range s.presses {
		if s.pins.Pin(p.button) == pin && p.activeAt(t) {
			return s.active
		}
	}
	return !s.active
}

func parseButton(name string) input.Button {
	switch name {
	case "next":
		return input.ButtonNext
	case "prev":
		return input.ButtonPrev
	default:
		return input.ButtonPlay
	}
}

// VirtualClock is a manually advanced clock.
type VirtualClock struct {
	now time.Time
}

// NewVirtualClock creates a clock reading start.
func NewVirtualClock(start time.Time) *VirtualClock {
	return &VirtualClock{now: start}
}

// Now returns the current virtual time.
func (c *VirtualClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by d.
func (c *VirtualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
