// Package logging builds the process logger.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Options select the level; Quiet wins over Verbose.
type Options struct {
	Verbose bool
	Quiet   bool
}

func New(w io.Writer, opts Options) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           Level(opts),
		Prefix:          "pyscaffold",
		ReportTimestamp: opts.Verbose,
	})
	styles := log.DefaultStyles()
	styles.Levels[log.DebugLevel] = styles.Levels[log.DebugLevel].Foreground(lipgloss.Color("#6272A4"))
	styles.Levels[log.ErrorLevel] = styles.Levels[log.ErrorLevel].Foreground(lipgloss.Color("#FF5555"))
	logger.SetStyles(styles)
	return logger
}

func Level(opts Options) log.Level {
	switch {
	case opts.Quiet:
		return log.ErrorLevel
	case opts.Verbose:
		return log.DebugLevel
	default:
		return log.InfoLevel
	}
}
