package filter

import (
	"context"
	"regexp"
	"strings"

	"github.com/osa030/sdbox/internal/domain/track"
)

// DuplicateTrackFilter skips files that carry the same song as one already accepted.
// Detects:
// - Identical paths (an M3U listing a file twice)
// - Remasters and alternate versions (normalized title + same artist)
// Excludes:
// - Cover songs (same title but different artist)
//
// It remembers accepted tracks until Reset, so it should run last in a chain.
type DuplicateTrackFilter struct {
	seenPaths map[string]bool
	seenSongs map[string]bool
}

// NewDuplicateTrackFilter creates a new duplicate track filter.
func NewDuplicateTrackFilter() *DuplicateTrackFilter {
	f := &DuplicateTrackFilter{}
	f.Reset()
	return f
}

// Name returns the filter name.
func (f *DuplicateTrackFilter) Name() string {
	return "duplicate_track_filter"
}

// Description returns the filter description.
func (f *DuplicateTrackFilter) Description() string {
	return "Skips repeated files and remasters of songs already in the playlist; covers are kept"
}

// ReturnCodes returns possible return codes.
func (f *DuplicateTrackFilter) ReturnCodes() []string {
	return []string{"duplicate_track"}
}

// ValidateConfig validates the filter configuration.
func (f *DuplicateTrackFilter) ValidateConfig(config map[string]any) error {
	// No configuration needed
	return nil
}

// ChecksLabel marks the filter as comparing titles and artists.
func (f *DuplicateTrackFilter) ChecksLabel() {}

// Reset forgets all accepted tracks.
func (f *DuplicateTrackFilter) Reset() {
	f.seenPaths = make(map[string]bool)
	f.seenSongs = make(map[string]bool)
}

// Check checks if the track is a duplicate and remembers it otherwise.
func (f *DuplicateTrackFilter) Check(ctx context.Context, t track.Track) Result {
	if f.seenPaths == nil {
		f.Reset()
	}

	if f.seenPaths[t.Path] {
		return Reject("duplicate_track")
	}

	key := songKey(t)
	if key != "" && f.seenSongs[key] {
		return Reject("duplicate_track")
	}

	f.seenPaths[t.Path] = true
	if key != "" {
		f.seenSongs[key] = true
	}
	return Accept()
}

// songKey identifies a song by normalized title and artist.
// Tracks without a known artist only match by path.
func songKey(t track.Track) string {
	if t.Artist == "" || t.Artist == track.UnknownArtist {
		return ""
	}
	return normalizeTrackName(t.Title) + "\x00" + strings.ToLower(strings.TrimSpace(t.Artist))
}

var (
	remasterPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\s*-?\s*\d{4}\s+remaster(ed)?`),      // "- 2011 Remaster"
		regexp.MustCompile(`\s*\(remaster(ed)?\s*\d{0,4}\)`),     // "(Remastered 2023)"
		regexp.MustCompile(`\s*\[remaster(ed)?\s*\d{0,4}\]`),     // "[Remastered]"
		regexp.MustCompile(`\s*-?\s*remaster(ed)?(\s+version)?`), // "- Remastered"
		regexp.MustCompile(`\s*\(.*?remaster.*?\)`),              // "(Any Remaster text)"
		regexp.MustCompile(`\s*\[.*?remaster.*?\]`),              // "[Any Remaster text]"
	}
	versionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\s*\(.*?version\)`),        // "(Single Version)"
		regexp.MustCompile(`\s*\(.*?edit\)`),           // "(Radio Edit)"
		regexp.MustCompile(`\s*\(live\)`),              // "(Live)"
		regexp.MustCompile(`\s*-\s*live$`),             // "- Live"
		regexp.MustCompile(`\s*-?\s*radio\s+edit`),     // "- Radio Edit"
		regexp.MustCompile(`\s*-?\s*single\s+version`), // "- Single Version"
	}
	whitespace = regexp.MustCompile(`\s+`)
)

// normalizeTrackName removes remaster information and version details.
func normalizeTrackName(name string) string {
	normalized := strings.ToLower(name)

	for _, pattern := range remasterPatterns {
		normalized = pattern.ReplaceAllString(normalized, "")
	}
	for _, pattern := range versionPatterns {
		normalized = pattern.ReplaceAllString(normalized, "")
	}

	normalized = strings.TrimSpace(normalized)
	normalized = whitespace.ReplaceAllString(normalized, " ")

	// Remove trailing dashes
	normalized = strings.TrimRight(normalized, " -")

	return normalized
}

func init() {
	Register("duplicate_track_filter", func() Filter {
		return NewDuplicateTrackFilter()
	})
}
