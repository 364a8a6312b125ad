package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/sdbox/internal/app/display"
	"github.com/osa030/sdbox/internal/app/notification"
	"github.com/osa030/sdbox/internal/infra/audio"
	"github.com/osa030/sdbox/internal/infra/config"
	displayinfra "github.com/osa030/sdbox/internal/infra/display"
	"github.com/osa030/sdbox/internal/infra/gpio"
	"github.com/osa030/sdbox/internal/infra/storage"
)

// transcript prints screens and notifications stamped with virtual time.
type transcript struct {
	w     io.Writer
	clock *gpio.VirtualClock
	start time.Time
}

func (t *transcript) stamp() string {
	d := t.clock.Now().Sub(t.start)
	return fmt.Sprintf("[%s.%03d]", display.FormatElapsed(d), d.Milliseconds()%1000)
}

// Render implements display.Sink.
func (t *transcript) Render(lines []display.Line) error {
	_, err := fmt.Fprintf(t.w, "%s screen  %s\n", t.stamp(), displayinfra.Text(lines))
	return err
}

// Receive implements notification.Subscriber.
func (t *transcript) Receive(n notification.Notification) error {
	e := n.Event
	line := fmt.Sprintf("%s event#%d %s state=%s index=%d/%d elapsed=%dms",
		t.stamp(), n.SequenceNo, e.Type, e.State, e.Index+1, e.Count, e.ElapsedMs)
	if e.Track != nil {
		line += " track=" + e.Track.Name
	}
	if e.Err != nil {
		line += fmt.Sprintf(" error=%q", e.Err.Error())
	}
	_, err := fmt.Fprintln(t.w, line)
	return err
}

// simulate replays a scenario against the configured storage with audio discarded.
func simulate(cfg *config.Config, path string, w io.Writer) error {
	scn, err := gpio.LoadScenario(path)
	if err != nil {
		return err
	}

	tracks, err := storage.NewChainFromConfig(cfg)
	if err != nil {
		return errors.Wrap(err, "invalid storage config")
	}

	debouncer, pins, err := newButtons(cfg)
	if err != nil {
		return err
	}

	// Init paints with the wall clock, so virtual time starts there too.
	start := time.Now()
	clock := gpio.NewVirtualClock(start)
	tr := &transcript{w: w, clock: clock, start: start}
	script := gpio.NewScript(scn, pins, debouncer.ActiveLevel(), start, clock.Now)

	// The output accepts one tick worth of samples per tick, so playback
	// advances in step with the virtual clock.
	tick := scn.Tick()
	rate := beep.SampleRate(cfg.Playback.SampleRate)
	out := audio.NewDiscardOutput(rate, max(rate.N(tick), 1))
	p, err := newPlayer(cfg, debouncer, pins, script, out, tr)
	if err != nil {
		return err
	}
	p.notifier.Subscribe(tr)
	defer p.notifier.Close()
	defer p.machine.Close()

	if err := p.ctrl.Init(context.Background(), tracks); err != nil {
		zlog.Warn().Msgf("Simulation runs without storage: %v", err)
	}

	for elapsed := time.Duration(0); elapsed < scn.Duration(); elapsed += tick {
		for _, ms := range scn.SeeksBetween(elapsed, elapsed+tick) {
			if err := p.ctrl.Seek(ms); err != nil {
				fmt.Fprintf(w, "%s seek %dms failed: %v\n", tr.stamp(), ms, err)
			}
		}
		p.ctrl.Tick(clock.Now())
		clock.Advance(tick)
	}

	fmt.Fprintf(w, "%s done, %d samples decoded\n", tr.stamp(), out.Written())
	return nil
}
