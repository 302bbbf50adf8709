// Package generator runs the end-to-end pipeline: load a dataset from a node
// or a file, convert it and write the stage folders.
package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
	"github.com/epd-tools/epd2lcabyg/internal/converter"
	"github.com/epd-tools/epd2lcabyg/internal/fetcher"
	"github.com/epd-tools/epd2lcabyg/internal/ilcd"
	stageio "github.com/epd-tools/epd2lcabyg/internal/io"
	"github.com/epd-tools/epd2lcabyg/internal/lcabyg"
	"github.com/epd-tools/epd2lcabyg/internal/report"
)

// Source names one dataset: a UUID on a node, or a local JSON file. A file
// may still name the node it came from so companion datasets can be
// fetched.
type Source struct {
	Node fetcher.Node
	UUID string
	File string
}

// Label identifies the source in progress output.
func (s Source) Label() string {
	if s.File != "" {
		return s.File
	}
	return s.UUID
}

// Loaded is a decoded dataset with the address it was read from.
type Loaded struct {
	Source  Source
	URI     string
	Raw     []byte
	Process *ilcd.Process
}

// Load reads the dataset named by src. Remote sources need client.
func Load(ctx context.Context, client *fetcher.Client, src Source) (*Loaded, error) {
	if src.File != "" {
		raw, err := os.ReadFile(src.File)
		if err != nil {
			return nil, err
		}
		p, err := ilcd.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", src.File, err)
		}
		l := &Loaded{Source: src, Raw: raw, Process: p}
		if src.Node.BaseURL != "" {
			l.URI = src.Node.ProcessURL(p.ProcessInformation.DataSetInformation.UUID)
		}
		return l, nil
	}

	if client == nil {
		return nil, errors.New("no client configured for remote datasets")
	}
	resp, err := client.FetchProcess(ctx, src.Node, src.UUID)
	if err != nil {
		if hint := fetcher.Hint(err); hint != "" {
			return nil, fmt.Errorf("%w (%s)", err, hint)
		}
		return nil, err
	}
	return &Loaded{Source: src, URI: resp.URI, Raw: resp.Raw, Process: resp.Process}, nil
}

// Options configures Run.
type Options struct {
	Client   *fetcher.Client
	Resolver converter.Resolver
	Template *lcabyg.Stage

	SuffixModuleName bool
	// OutputDir receives one folder per dataset.
	OutputDir string
	// Format is json or yaml.
	Format string
	// Workbook adds an .xlsx review file next to the stage folders.
	Workbook bool

	OnProgress ProgressCallback
}

// Outcome is the result of one source.
type Outcome struct {
	Source     Source
	Name       string
	Conversion *converter.Conversion
	Folder     string
	Workbook   string
	Err        error
}

// Run converts every source in order. A failing dataset is recorded in its
// outcome and the run continues; cancellation stops the run.
func Run(ctx context.Context, sources []Source, opts Options) ([]Outcome, error) {
	progress := opts.OnProgress
	if progress == nil {
		progress = func(ProgressEvent) {}
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}

	outcomes := make([]Outcome, 0, len(sources))
	for i, src := range sources {
		select {
		case <-ctx.Done():
			return outcomes, ctx.Err()
		default:
		}

		label := src.Label()
		progress(ProgressEvent{Type: EventFetchStart, Source: label, Index: i, Total: len(sources)})

		out, err := runOne(ctx, src, opts, progress)
		if err != nil {
			if isCancel(err) {
				return outcomes, err
			}
			logf(label, "failed: %v", err)
			progress(ProgressEvent{Type: EventError, Source: label, Error: err, Message: err.Error()})
			out.Err = err
			outcomes = append(outcomes, out)
			continue
		}

		progress(ProgressEvent{Type: EventDatasetComplete, Source: label, Stages: len(out.Conversion.Results), Message: out.Folder})
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

func runOne(ctx context.Context, src Source, opts Options, progress ProgressCallback) (Outcome, error) {
	label := src.Label()
	out := Outcome{Source: src}

	loaded, err := Load(ctx, opts.Client, src)
	if err != nil {
		return out, err
	}
	progress(ProgressEvent{Type: EventFetchComplete, Source: label})

	progress(ProgressEvent{Type: EventConvertStart, Source: label})
	copts := converter.Options{
		Resolver:                 opts.Resolver,
		Template:                 opts.Template,
		PositionalClassification: src.Node.Positional,
		SuffixModuleName:         opts.SuffixModuleName,
	}
	if opts.Client != nil {
		copts.Fetcher = opts.Client
	}
	conv, err := converter.New(copts)
	if err != nil {
		return out, err
	}
	result, err := conv.ConvertDetailed(ctx, loaded.Process, loaded.URI)
	if err != nil {
		return out, err
	}
	out.Conversion = result
	out.Name = result.Metadata.Name
	progress(ProgressEvent{Type: EventConvertComplete, Source: label, Stages: len(result.Results)})

	progress(ProgressEvent{Type: EventWriteStart, Source: label})
	stages := make([]lcabyg.Stage, len(result.Results))
	for i, r := range result.Results {
		stages[i] = r.Stage
	}
	folder, err := stageio.WriteStageFolder(opts.OutputDir, out.Name, stages, opts.Format)
	if err != nil {
		return out, err
	}
	out.Folder = folder
	logf(label, "wrote %d stages to %s", len(stages), folder)

	if opts.Workbook {
		p := filepath.Join(folder, filepath.Base(folder)+".xlsx")
		if err := report.WriteWorkbook(result, p); err != nil {
			return out, err
		}
		out.Workbook = p
	}
	return out, nil
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, apperr.ErrCancelled)
}

// ParseSources turns UUID arguments into sources on node. Blank entries are
// skipped; comma-separated lists are split.
func ParseSources(node fetcher.Node, uuids []string) []Source {
	var out []Source
	for _, arg := range uuids {
		for _, id := range strings.Split(arg, ",") {
			if id = strings.TrimSpace(id); id != "" {
				out = append(out, Source{Node: node, UUID: id})
			}
		}
	}
	return out
}
