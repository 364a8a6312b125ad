package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/sdbox/internal/app/display"
	"github.com/osa030/sdbox/internal/app/filter"
	"github.com/osa030/sdbox/internal/app/playback"
	"github.com/osa030/sdbox/internal/domain/playlist"
	"github.com/osa030/sdbox/internal/infra/config"
	"github.com/osa030/sdbox/internal/infra/storage"
)

// list prints the playlist the player would load.
func list(cfg *config.Config, w io.Writer) error {
	chain, err := storage.NewChainFromConfig(cfg)
	if err != nil {
		return errors.Wrap(err, "invalid storage config")
	}

	tracks, err := chain.ListTracks(context.Background())
	if err != nil {
		return err
	}

	pl := playlist.New()
	if err := pl.Load(tracks, cfg.Playlist.Capacity); err != nil {
		zlog.Warn().Msgf("Playlist truncated: %v", err)
	}
	if pl.IsEmpty() {
		fmt.Fprintln(w, "No tracks found.")
		return nil
	}

	timing := playback.Timing{BitrateKbps: cfg.Playback.BitrateKbps}
	var total time.Duration
	for i, t := range pl.Tracks() {
		d := timing.EstimateDuration(t.Size)
		total += d
		fmt.Fprintf(w, "%3d. %-30s %-20s %9s  ~%s\n",
			i+1, display.Fit(t.Title, 1, 0), t.Artist, humanize.Bytes(uint64(t.Size)), display.FormatElapsed(d))
	}
	fmt.Fprintf(w, "\n%d tracks, %s, ~%s at %d kbps\n",
		pl.Count(), humanize.Bytes(uint64(pl.TotalSize())), display.FormatElapsed(total), cfg.Playback.BitrateKbps)

	if current, ok := pl.Current(); ok {
		fmt.Fprintf(w, "Selected: %s\n", current.Label())
	}
	fmt.Fprintf(w, "Filters: %s\n", strings.Join(enabledFilters(cfg), ", "))
	return nil
}

// enabledFilters returns the registered filters the config turns on.
func enabledFilters(cfg *config.Config) []string {
	var names []string
	for _, name := range filter.RegisteredNames() {
		if cfg.IsFilterEnabled(name) {
			names = append(names, name)
		}
	}
	return names
}
