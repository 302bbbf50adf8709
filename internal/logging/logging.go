// Package logging is the opt-in debug logger shared by the internal
// packages. Each package owns one Logger with its own prefix; the CLI gives
// them a writer only with --log-level debug.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/epd-tools/epd2lcabyg/internal/ui"
)

// Logger writes lines of the form
//
//	<prefix> dataset=<uuid> <message>
//
// A nil Logger or one without a Writer discards everything.
type Logger struct {
	Writer io.Writer

	PrefixText  string
	PrefixColor string

	// OmitDataset drops the dataset field, for packages that work below
	// the dataset level (HTTP, cache, validation).
	OmitDataset bool
}

func (l *Logger) SetWriter(w io.Writer) { l.Writer = w }

func (l *Logger) Enabled() bool { return l != nil && l.Writer != nil }

func (l *Logger) prefix() string {
	p := l.PrefixText
	if p == "" {
		p = "Log:"
	}
	if l.PrefixColor != "" {
		p = ui.Color(p, l.PrefixColor)
	}
	return p
}

// Logf logs a message about one dataset. An empty id is shown as
// "(unknown)".
func (l *Logger) Logf(datasetID string, format string, args ...any) {
	if !l.Enabled() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.OmitDataset {
		fmt.Fprintf(l.Writer, "%s %s\n", l.prefix(), msg)
		return
	}
	id := strings.TrimSpace(datasetID)
	if id == "" {
		id = "(unknown)"
	}
	fmt.Fprintf(l.Writer, "%s dataset=%s %s\n", l.prefix(), id, msg)
}

// Printf logs a message without a dataset field.
func (l *Logger) Printf(format string, args ...any) {
	if !l.Enabled() {
		return
	}
	fmt.Fprintf(l.Writer, "%s %s\n", l.prefix(), fmt.Sprintf(format, args...))
}
