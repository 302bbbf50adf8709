package cache

import (
	"io"

	"github.com/epd-tools/epd2lcabyg/internal/logging"
	"github.com/epd-tools/epd2lcabyg/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Cache:", PrefixColor: ui.FgGreen, OmitDataset: true}

// SetLogger sets an optional destination for cache logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(format string, args ...any) {
	logger.Printf(format, args...)
}
