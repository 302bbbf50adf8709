package generator

import (
	"io"

	"github.com/epd-tools/epd2lcabyg/internal/logging"
	"github.com/epd-tools/epd2lcabyg/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Generator:", PrefixColor: ui.FgCyan}

// SetLogger sets an optional destination for pipeline logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(datasetID string, format string, args ...any) {
	logger.Logf(datasetID, format, args...)
}
