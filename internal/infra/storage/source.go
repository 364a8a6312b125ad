// Package storage enumerates the tracks on the removable card.
package storage

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/osa030/sdbox/internal/domain/track"
)

// ErrStorageUnavailable is returned when no source could be listed.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Source lists tracks from one location in a stable order.
type Source interface {
	// List returns every file the source knows about. Filtering is left to the chain.
	List(ctx context.Context) ([]track.Track, error)

	// Name returns the source type (used in config).
	Name() string
}
