package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/sdbox/internal/domain/track"
)

// DirectorySource lists the regular files of a single directory, sorted by name.
// Subdirectories are not descended into.
type DirectorySource struct {
	root string
}

// NewDirectorySource creates a source reading root.
func NewDirectorySource(root string) *DirectorySource {
	return &DirectorySource{root: root}
}

// List returns the files in root in filename order.
func (s *DirectorySource) List(ctx context.Context) ([]track.Track, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read directory %s", s.root)
	}

	tracks := make([]track.Track, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() {
			continue
		}

		var size int64
		if info, err := entry.Info(); err == nil {
			size = info.Size()
		} else {
			zlog.Debug().Msgf("storage: stat failed path=%s error=%v", entry.Name(), err)
		}
		tracks = append(tracks, track.New(filepath.Join(s.root, entry.Name()), size))
	}
	return tracks, nil
}

// Name returns the source name.
func (s *DirectorySource) Name() string {
	return "directory"
}
