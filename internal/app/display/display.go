// Package display builds the screens painted on the player's small panel.
package display

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/osa030/sdbox/internal/domain/track"
)

// Panel geometry of the 128x64 OLED with the built-in 6x8 font.
const (
	PanelWidth  = 128
	PanelHeight = 64
	CharWidth   = 6
	CharHeight  = 8
)

// Line is one text run at a pixel position with a font scale.
type Line struct {
	Text string
	Size int // Font scale, 1 or 2
	X    int
	Y    int
}

// Sink paints a full screen. Each call replaces the previous contents.
type Sink interface {
	Render(lines []Line) error
}

// Columns returns how many characters of the given size fit on one row.
func Columns(size int) int {
	if size < 1 {
		size = 1
	}
	return PanelWidth / (CharWidth * size)
}

// Fit truncates text to the columns available at size starting from x.
func Fit(text string, size, x int) string {
	if size < 1 {
		size = 1
	}
	cols := (PanelWidth - x) / (CharWidth * size)
	if cols <= 0 {
		return ""
	}
	return runewidth.Truncate(text, cols, "")
}

func line(text string, size, x, y int) Line {
	return Line{Text: Fit(text, size, x), Size: size, X: x, Y: y}
}

// Selection shows the track under the cursor while nothing is playing.
func Selection(t track.Track, index, count int) []Line {
	return []Line{
		line("Selected:", 1, 0, 0),
		line(t.Title, 2, 0, 10),
		line(t.Artist, 1, 0, 30),
		line(fmt.Sprintf("%d/%d", index+1, count), 1, 0, 54),
	}
}

// NowPlaying shows the playing track and its elapsed time.
func NowPlaying(t track.Track, elapsed time.Duration) []Line {
	return []Line{
		line("Now playing:", 1, 0, 0),
		line(t.Title, 2, 0, 10),
		line(t.Artist, 2, 0, 30),
		line(FormatElapsed(elapsed), 1, 0, 54),
	}
}

// Stopped shows the stopped track and the position it will resume from.
func Stopped(t track.Track, elapsed time.Duration) []Line {
	return []Line{
		line("Stopped", 1, 0, 0),
		line(t.Title, 2, 0, 10),
		line(t.Artist, 1, 0, 30),
		line("at "+FormatElapsed(elapsed), 1, 0, 54),
	}
}

// Message shows a status title with an optional detail line.
func Message(title, detail string) []Line {
	lines := []Line{line(title, 2, 0, 0)}
	if detail != "" {
		lines = append(lines, line(detail, 1, 0, 30))
	}
	return lines
}

// FormatElapsed formats d as mm:ss.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// Equal reports whether two screens have identical contents.
func Equal(a, b []Line) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
