package storage

import (
	"os"

	"github.com/dhowden/tag"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/sdbox/internal/domain/track"
)

// TagReader replaces filename labels with embedded title and artist tags.
type TagReader struct{}

// Enrich returns t with its tag metadata applied. On any failure t is returned
// unchanged.
func (r TagReader) Enrich(t track.Track) track.Track {
	f, err := os.Open(t.Path)
	if err != nil {
		zlog.Debug().Msgf("storage: tag read skipped path=%s error=%v", t.Path, err)
		return t
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		zlog.Debug().Msgf("storage: no tags path=%s error=%v", t.Path, err)
		return t
	}
	return t.WithLabel(m.Title(), m.Artist())
}
