// Package track provides the Track domain entity.
package track

import (
	"path"
	"strings"
)

// UnknownArtist is the artist reported when a filename carries no artist part.
const UnknownArtist = "Unknown"

// Extensions lists the audio extensions stripped from labels (lowercase, with dot).
var Extensions = []string{".mp3", ".wav", ".flac", ".ogg", ".m4a"}

// Track represents a playable file found on the storage card.
// It is immutable once enumerated.
type Track struct {
	Path   string // Location on storage, used to open the file
	Name   string // Base filename, e.g. "Song_Artist.mp3"
	Title  string // Title shown on the display
	Artist string // Artist shown on the display
	Size   int64  // File size in bytes (0 if unknown)
}

// New creates a track for the file at p, deriving the label from its filename.
func New(p string, size int64) Track {
	name := baseName(p)
	title, artist := SplitLabel(name)
	return Track{
		Path:   p,
		Name:   name,
		Title:  title,
		Artist: artist,
		Size:   size,
	}
}

// WithLabel returns a copy of t with a non-empty title or artist replaced.
func (t Track) WithLabel(title, artist string) Track {
	if title = strings.TrimSpace(title); title != "" {
		t.Title = title
	}
	if artist = strings.TrimSpace(artist); artist != "" {
		t.Artist = artist
	}
	return t
}

// Label returns "Title - Artist", or just the title when the artist is unknown.
func (t Track) Label() string {
	if t.Artist == "" || t.Artist == UnknownArtist {
		return t.Title
	}
	return t.Title + " - " + t.Artist
}

// Ext returns the lowercase file extension including the dot.
func (t Track) Ext() string {
	return strings.ToLower(path.Ext(t.Name))
}

// SplitLabel splits a filename of the form "<title>_<artist>.ext" into its parts.
// Any directory prefix and a known audio extension are removed first, and the
// split happens on the last underscore. Without a separator the whole name is the
// title and the artist is UnknownArtist.
func SplitLabel(filename string) (title, artist string) {
	stem := StripExtension(baseName(filename))

	idx := strings.LastIndex(stem, "_")
	if idx == -1 {
		return stem, UnknownArtist
	}

	title = stem[:idx]
	artist = stem[idx+1:]
	if title == "" {
		title = stem
	}
	if artist == "" {
		artist = UnknownArtist
	}
	return title, artist
}

// StripExtension removes a known audio extension (case-insensitive) from name.
// Unknown extensions are kept.
func StripExtension(name string) string {
	ext := path.Ext(name)
	if ext == "" {
		return name
	}
	lower := strings.ToLower(ext)
	for _, known := range Extensions {
		if lower == known {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// IsAudio reports whether name ends with one of the known audio extensions.
func IsAudio(name string) bool {
	return StripExtension(name) != name
}

// baseName strips a directory prefix written with either '/' or '\'
// separators, whatever the host OS.
func baseName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}
