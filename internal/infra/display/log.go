package display

import (
	"strings"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/sdbox/internal/app/display"
)

// LogSink writes each frame as one log line.
type LogSink struct{}

// Render logs the text of lines in order.
func (LogSink) Render(lines []display.Line) error {
	zlog.Info().Msgf("display: %s", Text(lines))
	return nil
}

// Text joins the text of lines with " | ".
func Text(lines []display.Line) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.Text != "" {
			parts = append(parts, l.Text)
		}
	}
	return strings.Join(parts, " | ")
}

// NopSink discards frames.
type NopSink struct{}

func (NopSink) Render(lines []display.Line) error {
	return nil
}
