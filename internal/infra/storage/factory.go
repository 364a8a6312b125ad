package storage

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/sdbox/internal/app/filter"
	"github.com/osa030/sdbox/internal/infra/config"
)

// NewChainFromConfig creates a source chain with filters from configuration.
func NewChainFromConfig(cfg *config.Config) (*Chain, error) {
	var sources []Source
	for i, scfg := range cfg.Storage.SourceList() {
		switch scfg.Type {
		case "directory":
			sources = append(sources, NewDirectorySource(scfg.Path))
		case "m3u":
			sources = append(sources, NewM3USource(scfg.Path))
		default:
			return nil, errors.Newf("unsupported source type: %s (source index %d)", scfg.Type, i)
		}
		zlog.Debug().Msgf("storage: registered source index=%d type=%s path=%s", i+1, scfg.Type, scfg.Path)
	}

	filters, err := filter.NewChainFromConfig(cfg.Filters)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create filter chain")
	}

	var tags *TagReader
	if cfg.Storage.ReadTags {
		tags = &TagReader{}
	}
	return NewChain(sources, filters, tags), nil
}
