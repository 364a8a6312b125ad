// Package gpio provides button level sources for boards without real pins.
package gpio

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/sdbox/internal/app/input"
)

// KeyButtons maps keys to buttons.
var KeyButtons = map[byte]input.Button{
	' ':  input.ButtonPlay,
	'p':  input.ButtonPlay,
	'\n': input.ButtonPlay,
	'\r': input.ButtonPlay,
	'n':  input.ButtonNext,
	'l':  input.ButtonNext,
	'b':  input.ButtonPrev,
	'h':  input.ButtonPrev,
}

// Keyboard emulates the button panel with single key presses. Each key holds
// its pin at the active level for the hold time.
type Keyboard struct {
	mu           sync.Mutex
	pins         input.Pins
	active       input.Level
	hold         time.Duration
	clock        func() time.Time
	pressedUntil map[int]time.Time

	quit     chan struct{}
	quitOnce sync.Once
}

// NewKeyboard creates a keyboard source. hold should be longer than the
// debounce window or presses never commit.
func NewKeyboard(pins input.Pins, active input.Level, hold time.Duration, clock func() time.Time) *Keyboard {
	if clock == nil {
		clock = time.Now
	}
	return &Keyboard{
		pins:         pins,
		active:       active,
		hold:         hold,
		clock:        clock,
		pressedUntil: make(map[int]time.Time),
		quit:         make(chan struct{}),
	}
}

// Start reads keys from r until it fails or ctx is done. 'q' requests quit.
// A blocked read keeps the goroutine alive until the process exits.
func (k *Keyboard) Start(ctx context.Context, r io.Reader) {
	go func() {
		br := bufio.NewReader(r)
		for {
			c, err := br.ReadByte()
			if err != nil {
				if err != io.EOF {
					zlog.Warn().Msgf("keyboard: read failed: %v", err)
				}
				return
			}
			if ctx.Err() != nil {
				return
			}
			k.HandleKey(c)
		}
	}()
}

// HandleKey applies one key press.
func (k *Keyboard) HandleKey(c byte) {
	if c == 'q' || c == 'Q' {
		k.quitOnce.Do(func() { close(k.quit) })
		return
	}
	b, ok := KeyButtons[c]
	if !ok {
		return
	}
	zlog.Debug().Msgf("keyboard: key=%q button=%s", c, b)
	k.Press(b)
}

// Press holds b active from now for the hold time.
func (k *Keyboard) Press(b input.Button) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.pressedUntil[k.pins.Pin(b)] = k.clock().Add(k.hold)
}

// ReadLevel implements input.Source.
func (k *Keyboard) ReadLevel(pin int) input.Level {
	k.mu.Lock()
	defer k.mu.Unlock()
	if until, ok := k.pressedUntil[pin]; ok && k.clock().Before(until) {
		return k.active
	}
	return !k.active
}

// Quit is closed when the quit key was pressed.
func (k *Keyboard) Quit() <-chan struct{} {
	return k.quit
}

// EnableRawMode switches the terminal to unbuffered input without echo and
// returns a function restoring it. Failures are ignored; input then arrives
// line by line.
func EnableRawMode() func() {
	run := func(args ...string) {
		cmd := exec.Command("stty", args...)
		cmd.Stdin = os.Stdin
		if err := cmd.Run(); err != nil {
			zlog.Debug().Msgf("keyboard: stty %v failed: %v", args, err)
		}
	}
	run("-echo", "-icanon")
	return func() { run("echo", "icanon") }
}
