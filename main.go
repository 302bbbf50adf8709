package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"

	cmd "github.com/epd-tools/epd2lcabyg/cmd/epd2lcabyg"
	"github.com/epd-tools/epd2lcabyg/internal/apperr"
	"github.com/epd-tools/epd2lcabyg/internal/ui"
)

// Version is set at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Ctrl-C stops a batch between datasets and aborts pending node requests.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd.SetVersion(Version)
	err := fang.Execute(ctx, cmd.GetRootCmd(), fang.WithColorSchemeFunc(ui.FangColorScheme))
	switch {
	case err == nil:
		return 0
	case errors.Is(err, apperr.ErrCancelled), errors.Is(err, context.Canceled):
		// a deliberate abort is not a failure
		return 0
	default:
		return 1
	}
}
