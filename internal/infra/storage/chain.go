package storage

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/sdbox/internal/app/filter"
	"github.com/osa030/sdbox/internal/domain/track"
)

// Chain tries multiple sources in order until one yields tracks.
type Chain struct {
	sources []Source
	filters *filter.Chain
	tags    *TagReader
}

// NewChain creates a new source chain. filters and tags may be nil.
func NewChain(sources []Source, filters *filter.Chain, tags *TagReader) *Chain {
	if filters == nil {
		filters = filter.NewChain()
	}
	return &Chain{
		sources: sources,
		filters: filters,
		tags:    tags,
	}
}

// ListTracks returns the filtered tracks of the first source with any left.
// When every source fails, the error is marked ErrStorageUnavailable. Sources
// that list fine but hold no playable tracks yield an empty result.
func (c *Chain) ListTracks(ctx context.Context) ([]track.Track, error) {
	var lastErr error
	listed := false

	for i, src := range c.sources {
		zlog.Debug().Msgf("storage: trying source index=%d total=%d type=%s", i+1, len(c.sources), src.Name())

		tracks, err := src.List(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			zlog.Warn().Msgf("storage: source failed, trying next: type=%s error=%v", src.Name(), err)
			lastErr = err
			continue
		}
		listed = true

		var enrich func(track.Track) track.Track
		if c.tags != nil {
			enrich = c.tags.Enrich
		}
		kept, rejected := c.filters.ApplyEnriched(ctx, tracks, enrich)
		for code, n := range rejected {
			zlog.Debug().Msgf("storage: filtered type=%s code=%s count=%d", src.Name(), code, n)
		}
		if len(kept) == 0 {
			zlog.Debug().Msgf("storage: source has no playable tracks: type=%s", src.Name())
			continue
		}

		zlog.Info().Msgf("storage: source listed type=%s tracks=%d skipped=%d", src.Name(), len(kept), len(tracks)-len(kept))
		return kept, nil
	}

	if !listed {
		if lastErr == nil {
			return nil, errors.Mark(errors.New("no storage sources configured"), ErrStorageUnavailable)
		}
		return nil, errors.Mark(errors.Wrap(lastErr, "all storage sources failed"), ErrStorageUnavailable)
	}
	return []track.Track{}, nil
}
