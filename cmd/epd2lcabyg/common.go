package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
	"github.com/epd-tools/epd2lcabyg/internal/cache"
	"github.com/epd-tools/epd2lcabyg/internal/config"
	"github.com/epd-tools/epd2lcabyg/internal/fetcher"
	"github.com/epd-tools/epd2lcabyg/internal/generator"
	"github.com/epd-tools/epd2lcabyg/internal/ui"
)

func loadConfig() (config.Config, error) {
	return config.Load(viper.GetViper())
}

// nodeFor resolves the node flag of a command, falling back to the
// configured default.
func nodeFor(key string) (fetcher.Node, error) {
	id := strings.TrimSpace(viper.GetString(key))
	if id == "" {
		id = viper.GetString(config.KeyNode)
	}
	return fetcher.LookupNode(id)
}

// openClient returns a node client backed by the response cache unless the
// cache is disabled. A cache that cannot be opened is skipped.
func openClient(cfg config.Config, w io.Writer) (*fetcher.Client, func()) {
	var c fetcher.Cache
	closeFn := func() {}
	if !cfg.NoCache {
		db, err := cache.Open(cfg.CachePath)
		if err != nil {
			if !quiet() {
				fmt.Fprintln(w, ui.FormatStatus("warning", "response cache unavailable: "+err.Error()))
			}
		} else {
			db.TTL = cfg.CacheTTL
			c = db
			closeFn = func() { _ = db.Close() }
		}
	}
	return fetcher.New(cfg.Timeout, cfg.APIKey, c), closeFn
}

// loadOne reads the dataset named by the node/uuid/file flags with a
// spinner.
func loadOne(ctx context.Context, w io.Writer, client *fetcher.Client, src generator.Source) (*generator.Loaded, error) {
	if src.File == "" && strings.TrimSpace(src.UUID) == "" {
		return nil, apperr.User("either --uuid or --file is required")
	}

	var spinner *ui.SimpleSpinner
	if !quiet() {
		spinner = ui.NewSimpleSpinner(w, "Loading "+src.Label())
		spinner.Start()
	}
	l, err := generator.Load(ctx, client, src)
	if spinner != nil {
		if err != nil {
			spinner.Stop(false, err.Error())
		} else {
			spinner.Stop(true, "Loaded "+src.Label())
		}
	}
	return l, err
}
