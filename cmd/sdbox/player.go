package main

import (
	"os"
	"os/exec"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/sdbox/internal/app/controller"
	"github.com/osa030/sdbox/internal/app/display"
	"github.com/osa030/sdbox/internal/app/input"
	"github.com/osa030/sdbox/internal/app/notification"
	"github.com/osa030/sdbox/internal/app/playback"
	"github.com/osa030/sdbox/internal/domain/playlist"
	"github.com/osa030/sdbox/internal/infra/audio"
	"github.com/osa030/sdbox/internal/infra/config"
	displayinfra "github.com/osa030/sdbox/internal/infra/display"
)

// player is a wired controller with the collaborators callers need to reach.
type player struct {
	ctrl     *controller.Controller
	machine  *playback.Machine
	notifier *notification.Manager
}

// newButtons builds the debouncer and pin map shared by every input source.
func newButtons(cfg *config.Config) (*input.Debouncer, input.Pins, error) {
	active, err := input.ParseLevel(cfg.Buttons.ActiveLevel)
	if err != nil {
		return nil, input.Pins{}, err
	}
	pins := input.Pins{
		Play: cfg.Buttons.Pins.Play,
		Next: cfg.Buttons.Pins.Next,
		Prev: cfg.Buttons.Pins.Prev,
	}
	return input.NewDebouncer(cfg.Buttons.DebounceWindow(), active), pins, nil
}

// newPlayer wires the control loop around the given buttons, audio output
// and display.
func newPlayer(cfg *config.Config, debouncer *input.Debouncer, pins input.Pins, source input.Source, out audio.Output, sink display.Sink) (*player, error) {
	decoder := audio.NewDecoder(out, cfg.Playback.BufferSamples)
	machine := playback.NewMachine(decoder, playback.Config{
		Timing: playback.Timing{BitrateKbps: cfg.Playback.BitrateKbps},
		Resume: cfg.Playback.Resume,
	})

	panel := input.NewPanel(debouncer, source, pins)

	notifier := notification.NewManager()
	notifier.Subscribe(notification.LogSubscriber{})

	ctrl, err := controller.New(controller.PlayerContext{
		Playlist: playlist.New(),
		Machine:  machine,
		Panel:    panel,
		Display:  sink,
		Notifier: notifier,
	}, controller.Config{
		Capacity:          cfg.Playlist.Capacity,
		AutoAdvance:       cfg.Playback.AutoAdvance,
		SkipOnDecodeError: cfg.Playback.SkipOnDecodeError,
		TickInterval:      cfg.Playback.TickInterval(),
		ProgressInterval:  cfg.Playback.ProgressInterval(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create controller")
	}

	return &player{ctrl: ctrl, machine: machine, notifier: notifier}, nil
}

// newOutput opens the configured audio output. A speaker that cannot be
// opened falls back to discarding samples so the panel keeps working.
func newOutput(cfg *config.Config) audio.Output {
	rate := beep.SampleRate(cfg.Playback.SampleRate)
	if cfg.Playback.Output == "speaker" {
		out, err := audio.NewSpeakerOutput(rate, cfg.Playback.OutputBuffer())
		if err == nil {
			return out
		}
		zlog.Error().Msgf("Audio output unavailable, discarding samples: %v", err)
	}
	return audio.NewDiscardOutput(rate, cfg.Playback.BufferSamples)
}

// newSink creates the configured display sink.
func newSink(cfg *config.Config) display.Sink {
	switch cfg.Display.Output {
	case "terminal":
		return displayinfra.NewTerminalSink(os.Stdout, true)
	case "log":
		return displayinfra.LogSink{}
	default:
		return displayinfra.NopSink{}
	}
}

// executeHooks runs a list of shell commands.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stderr
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
