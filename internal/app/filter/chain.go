package filter

import (
	"context"

	"github.com/osa030/sdbox/internal/domain/track"
)

// Chain executes filters in sequence.
type Chain struct {
	filters []Filter
}

// NewChain creates a new filter chain.
func NewChain() *Chain {
	return &Chain{
		filters: make([]Filter, 0),
	}
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Execute runs all filters in sequence.
// Returns immediately if any filter rejects the track.
func (c *Chain) Execute(ctx context.Context, t track.Track) Result {
	for _, f := range c.filters {
		result := f.Check(ctx, t)
		if !result.Accepted {
			return result
		}
	}
	return Accept()
}

// Apply runs the chain over tracks in order and returns the accepted ones
// together with the number of rejections per code.
func (c *Chain) Apply(ctx context.Context, tracks []track.Track) ([]track.Track, map[string]int) {
	return c.ApplyEnriched(ctx, tracks, nil)
}

// ApplyEnriched is Apply with enrich run once on each track, right before the
// first LabelChecker sees it or once every filter accepted it. Tracks
// rejected by earlier filters are never enriched.
func (c *Chain) ApplyEnriched(ctx context.Context, tracks []track.Track, enrich func(track.Track) track.Track) ([]track.Track, map[string]int) {
	for _, f := range c.filters {
		if r, ok := f.(Resetter); ok {
			r.Reset()
		}
	}

	kept := make([]track.Track, 0, len(tracks))
	rejected := make(map[string]int)
	for _, t := range tracks {
		enriched := enrich == nil
		result := Accept()
		for _, f := range c.filters {
			if _, ok := f.(LabelChecker); ok && !enriched {
				t = enrich(t)
				enriched = true
			}
			if result = f.Check(ctx, t); !result.Accepted {
				break
			}
		}
		if !result.Accepted {
			rejected[result.Code]++
			continue
		}
		if !enriched {
			t = enrich(t)
		}
		kept = append(kept, t)
	}
	return kept, rejected
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}
