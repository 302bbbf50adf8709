package resolver

import (
	"io"

	"github.com/epd-tools/epd2lcabyg/internal/logging"
	"github.com/epd-tools/epd2lcabyg/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Resolve:", PrefixColor: ui.FgYellow}

// SetLogger sets an optional destination for resolver logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(datasetID string, format string, args ...any) {
	logger.Logf(datasetID, format, args...)
}
