// Package display paints panel screens on a terminal or into the log.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"

	"github.com/osa030/sdbox/internal/app/display"
)

const clearScreen = "\x1b[H\x1b[2J"

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Width(display.Columns(1))
	largeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))
	smallStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
)

// TerminalSink draws the panel as a bordered text box, one text row per 8 px.
type TerminalSink struct {
	w     io.Writer
	clear bool
}

// NewTerminalSink creates a sink writing to w. With clear set every frame
// replaces the previous one on screen.
func NewTerminalSink(w io.Writer, clear bool) *TerminalSink {
	return &TerminalSink{w: w, clear: clear}
}

// Render draws lines. Lines landing on the same row replace earlier ones.
func (s *TerminalSink) Render(lines []display.Line) error {
	_, err := io.WriteString(s.w, s.frame(lines))
	if err != nil {
		return errors.Wrap(err, "failed to draw panel")
	}
	return nil
}

func (s *TerminalSink) frame(lines []display.Line) string {
	rows := make([]string, display.PanelHeight/display.CharHeight)
	for _, l := range lines {
		r := l.Y / display.CharHeight
		if r < 0 || r >= len(rows) {
			continue
		}
		text := strings.Repeat(" ", max(l.X, 0)/display.CharWidth) + l.Text
		if l.Size > 1 {
			rows[r] = largeStyle.Render(text)
		} else {
			rows[r] = smallStyle.Render(text)
		}
	}

	var b strings.Builder
	if s.clear {
		b.WriteString(clearScreen)
	}
	fmt.Fprintln(&b, panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	return b.String()
}
