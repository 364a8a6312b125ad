package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/sdbox/internal/infra/config"
	"github.com/osa030/sdbox/internal/infra/gpio"
	"github.com/osa030/sdbox/internal/infra/storage"
)

// run executes the player until a signal or the quit key.
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracks, err := storage.NewChainFromConfig(cfg)
	if err != nil {
		return errors.Wrap(err, "invalid storage config")
	}

	debouncer, pins, err := newButtons(cfg)
	if err != nil {
		return err
	}
	if cfg.Buttons.HoldTime() <= debouncer.Window() {
		zlog.Warn().Msgf("Key hold %s is not longer than the debounce window %s, key presses will be ignored",
			cfg.Buttons.HoldTime(), debouncer.Window())
	}
	keyboard := gpio.NewKeyboard(pins, debouncer.ActiveLevel(), cfg.Buttons.HoldTime(), nil)

	out := newOutput(cfg)
	defer out.Close()

	p, err := newPlayer(cfg, debouncer, pins, keyboard, out, newSink(cfg))
	if err != nil {
		return err
	}
	defer p.notifier.Close()

	if err := p.ctrl.Init(ctx, tracks); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		zlog.Warn().Msgf("Player started without storage: %v", err)
	}

	if cfg.Buttons.Input == "keyboard" {
		restore := gpio.EnableRawMode()
		defer restore()
		keyboard.Start(ctx, os.Stdin)
		zlog.Info().Msg("Keys: space=play/stop n=next b=prev q=quit")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-keyboard.Quit():
			zlog.Info().Msg("Quit requested")
			cancel()
		case <-ctx.Done():
		}
	}()

	executeHooks(cfg.Hooks.OnStarted, "on_started")
	defer executeHooks(cfg.Hooks.OnStopped, "on_stopped")

	zlog.Info().Msg("Player running")
	if err := p.ctrl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	zlog.Info().Msg("Player stopped")
	return nil
}
