package filter

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/sdbox/internal/infra/config"
)

// chainOrder fixes the position of known filters; stateful filters come last.
var chainOrder = []string{
	"hidden_file_filter",
	"extension_filter",
	"duration_limit_filter",
	"duplicate_track_filter",
}

// NewChainFromConfig creates a chain with every enabled filter, configured from its settings.
func NewChainFromConfig(filters map[string]config.FilterConfig) (*Chain, error) {
	for name := range filters {
		if _, ok := registry[name]; !ok {
			return nil, errors.Newf("unknown filter: %s", name)
		}
	}

	chain := NewChain()
	for _, name := range orderedNames() {
		fcfg, ok := filters[name]
		if !ok || !fcfg.Enabled {
			continue
		}

		f := registry[name]()
		if err := f.ValidateConfig(fcfg.Settings); err != nil {
			return nil, errors.Wrapf(err, "filter %s", name)
		}
		chain.Add(f)
		zlog.Debug().Msgf("registered filter: name=%s settings=%+v", name, fcfg.Settings)
	}
	return chain, nil
}

// orderedNames returns registered names in chain order. Names missing from
// chainOrder go first, sorted.
func orderedNames() []string {
	known := make(map[string]bool, len(chainOrder))
	for _, name := range chainOrder {
		known[name] = true
	}

	names := make([]string, 0, len(registry))
	for _, name := range RegisteredNames() {
		if !known[name] {
			names = append(names, name)
		}
	}
	tail := chainOrder[len(chainOrder)-1]
	for _, name := range chainOrder {
		if name == tail {
			continue
		}
		if _, ok := registry[name]; ok {
			names = append(names, name)
		}
	}
	return append(names, tail)
}
