package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jamesainslie/burrow/pkg/burrow/logging"
)

// logPanelRows is the number of records the log panel shows.
const logPanelRows = 6

func logLevelStyle(level logging.Level) lipgloss.Style {
	switch level {
	case logging.LevelDebug:
		return logDebugStyle
	case logging.LevelWarn:
		return logWarnStyle
	case logging.LevelError:
		return logErrorStyle
	default:
		return logInfoStyle
	}
}

func logLevelChar(level logging.Level) string {
	switch level {
	case logging.LevelDebug:
		return "D"
	case logging.LevelWarn:
		return "W"
	case logging.LevelError:
		return "E"
	default:
		return "I"
	}
}

// formatLogEntry renders one record on a single line of at most width
// cells.
func formatLogEntry(e logging.Entry, width int) string {
	line := fmt.Sprintf("%s %s %-8s %s",
		e.Time.Format("15:04:05"), logLevelChar(e.Level), e.Component, e.Message)
	if width > 0 && len(line) > width {
		line = line[:width]
	}
	return logLevelStyle(e.Level).Render(line)
}

// renderLogPanel renders the newest records from buf, oldest first.
func renderLogPanel(buf *logging.RingBuffer, width, rows int) string {
	var lines []string
	if buf != nil {
		for _, e := range buf.Last(rows) {
			lines = append(lines, formatLogEntry(e, width))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, mutedTextStyle.Render("(no log records)"))
	}
	return logPanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}
