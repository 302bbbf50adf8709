// Package epd2lcabyg is the library entry point of the converter: it turns
// ILCD+EPD process JSON into LCAByg stages without the CLI around it.
package epd2lcabyg

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/epd-tools/epd2lcabyg/internal/converter"
	"github.com/epd-tools/epd2lcabyg/internal/fetcher"
	"github.com/epd-tools/epd2lcabyg/internal/ilcd"
	stageio "github.com/epd-tools/epd2lcabyg/internal/io"
	"github.com/epd-tools/epd2lcabyg/internal/lcabyg"
	"github.com/epd-tools/epd2lcabyg/internal/resolver"
	"github.com/epd-tools/epd2lcabyg/internal/validator"
)

type (
	Stage          = lcabyg.Stage
	Resolver       = converter.Resolver
	UnitPrompt     = converter.UnitPrompt
	CategoryPrompt = converter.CategoryPrompt
	DataTypePrompt = converter.DataTypePrompt
	Result         = converter.Result
)

// Options configures Convert.
type Options struct {
	// Resolver answers what the dataset leaves open. Nil fails every
	// question.
	Resolver Resolver
	// Template defaults to the embedded stage template.
	Template *Stage
	// Positional selects the OEKOBAU.DAT classification path.
	Positional       bool
	SuffixModuleName bool
	// APIKey and Timeout apply to companion datasets fetched from the node
	// named by the source URI.
	APIKey  string
	Timeout time.Duration
}

// Convert converts one process dataset. sourceURI is the node address the
// dataset was read from; it may be empty for datasets that carry their
// reference unit inline.
func Convert(ctx context.Context, data []byte, sourceURI string, opts Options) ([]Result, error) {
	p, err := ilcd.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("decode process: %w", err)
	}
	res := opts.Resolver
	if res == nil {
		res = resolver.Strict{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c, err := converter.New(converter.Options{
		Fetcher:                  fetcher.New(timeout, opts.APIKey, nil),
		Resolver:                 res,
		Template:                 opts.Template,
		PositionalClassification: opts.Positional,
		SuffixModuleName:         opts.SuffixModuleName,
	})
	if err != nil {
		return nil, err
	}
	return c.Convert(ctx, p, sourceURI)
}

// ConvertFile is Convert for a dataset on disk.
func ConvertFile(ctx context.Context, path string, opts Options) ([]Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Convert(ctx, data, "", opts)
}

// WriteFolder writes results as <dir>/<name>/<module>/Stage.json and
// returns the dataset folder. An existing folder gets a numeric suffix.
func WriteFolder(dir, name string, results []Result, format string) (string, error) {
	stages := make([]Stage, len(results))
	for i, r := range results {
		stages[i] = r.Stage
	}
	return stageio.WriteStageFolder(dir, name, stages, format)
}

// Validate checks one stage against the import vocabulary.
func Validate(s Stage, strict bool) (valid bool, errs, warnings []string) {
	r := validator.Validate(s, validator.ValidationOptions{StrictMode: strict})
	return r.Valid, r.Errors, r.Warnings
}
