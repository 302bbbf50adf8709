package fetcher

import (
	"io"

	"github.com/epd-tools/epd2lcabyg/internal/logging"
	"github.com/epd-tools/epd2lcabyg/internal/ui"
)

// Requests are logged by URL, which already names the dataset.
var logger = &logging.Logger{PrefixText: "Fetch:", PrefixColor: ui.FgMagenta, OmitDataset: true}

// SetLogger sets an optional destination for fetch logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(format string, args ...any) {
	logger.Printf(format, args...)
}
