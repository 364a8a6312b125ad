package storage

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/sdbox/internal/domain/track"
)

// M3USource lists the entries of an M3U playlist in file order.
// Relative entries are resolved against the playlist's directory; entries that
// do not exist are skipped.
type M3USource struct {
	path string
}

// NewM3USource creates a source reading the playlist at path.
func NewM3USource(path string) *M3USource {
	return &M3USource{path: path}
}

// List parses the playlist.
func (s *M3USource) List(ctx context.Context) ([]track.Track, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open playlist %s", s.path)
	}
	defer f.Close()

	base := filepath.Dir(s.path)
	var tracks []track.Track

	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p := filepath.FromSlash(strings.ReplaceAll(line, `\`, "/"))
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}

		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			zlog.Warn().Msgf("storage: playlist entry skipped playlist=%s entry=%s", s.path, line)
			continue
		}
		tracks = append(tracks, track.New(p, info.Size()))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read playlist %s", s.path)
	}
	return tracks, nil
}

// Name returns the source name.
func (s *M3USource) Name() string {
	return "m3u"
}
