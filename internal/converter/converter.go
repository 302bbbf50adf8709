// Package converter turns an ILCD+EPD process dataset into LCAByg stages,
// one per life-cycle module.
//
// The engine reads indicators, aggregates modules and resolves the unit,
// hyper category and data type of the dataset. Whatever cannot be settled
// from the data is delegated to a Resolver; remote companion datasets are
// read through a Fetcher.
package converter

import (
	"context"
	"strings"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
	"github.com/epd-tools/epd2lcabyg/internal/ilcd"
	"github.com/epd-tools/epd2lcabyg/internal/lcabyg"
)

// Options configures a Converter.
type Options struct {
	Fetcher  Fetcher
	Resolver Resolver
	// Template is the stage every result is derived from. A zero value
	// selects the embedded template.
	Template *lcabyg.Stage
	// PositionalClassification selects the direct classId path for every
	// dataset, as for ÖKOBAUDAT.
	PositionalClassification bool
	SuffixModuleName         bool
	NewID                    func() string
}

// Converter converts process datasets. It holds no per-dataset state and
// may be reused.
type Converter struct {
	opts     Options
	template lcabyg.Stage
}

// New returns a Converter.
func New(opts Options) (*Converter, error) {
	c := &Converter{opts: opts}
	if opts.Template != nil {
		c.template = opts.Template.Clone()
		return c, nil
	}
	tpl, err := lcabyg.DefaultTemplate()
	if err != nil {
		return nil, err
	}
	c.template = tpl
	return c, nil
}

// Conversion is the full outcome of one conversion.
type Conversion struct {
	Results    []Result
	Indicators *IndicatorTable
	// Observed lists the source modules in discovery order.
	Observed    []string
	Modules     []string
	Metadata    Metadata
	Resolutions Resolutions
}

// Convert returns one result per target module, aggregate module first.
// On error no results are returned.
func (c *Converter) Convert(ctx context.Context, ds *ilcd.Process, sourceURI string) ([]Result, error) {
	conv, err := c.ConvertDetailed(ctx, ds, sourceURI)
	if err != nil {
		return nil, err
	}
	return conv.Results, nil
}

// ConvertDetailed is Convert plus the intermediate tables, for reporting.
func (c *Converter) ConvertDetailed(ctx context.Context, ds *ilcd.Process, sourceURI string) (*Conversion, error) {
	if ds == nil {
		return nil, apperr.Missing("process")
	}
	meta, err := ExtractMetadata(ds, sourceURI)
	if err != nil {
		return nil, err
	}
	id := meta.ExternalID
	logf(id, "converting %q", meta.Name)

	table, observed, err := ExtractIndicators(ds)
	if err != nil {
		return nil, err
	}
	modules := TargetModules(observed)
	logf(id, "%d indicators, modules %s", table.Len(), strings.Join(modules, ","))

	var res Resolutions
	classifier := &ClassificationResolver{Resolver: c.opts.Resolver, Positional: c.opts.PositionalClassification}
	if res.HyperCategory, err = classifier.Resolve(ctx, ds, sourceURI); err != nil {
		return nil, err
	}
	units := &UnitResolver{Fetcher: c.opts.Fetcher, Resolver: c.opts.Resolver}
	if res.Unit, err = units.Resolve(ctx, ds, sourceURI); err != nil {
		return nil, err
	}
	dataTypes := &DataTypeResolver{Resolver: c.opts.Resolver}
	if res.DataType, err = dataTypes.Resolve(ctx, ds); err != nil {
		return nil, err
	}

	b := &StageBuilder{Template: c.template, SuffixModuleName: c.opts.SuffixModuleName, NewID: c.opts.NewID}
	results, err := b.Build(ctx, meta, res, table, modules)
	if err != nil {
		return nil, err
	}
	logf(id, "built %d stages", len(results))

	return &Conversion{
		Results:     results,
		Indicators:  table,
		Observed:    observed,
		Modules:     modules,
		Metadata:    meta,
		Resolutions: res,
	}, nil
}

// ExtractMetadata reads the dataset-level fields copied onto every stage.
// The base name and UUID are required; the rest may be empty.
func ExtractMetadata(ds *ilcd.Process, sourceURI string) (Metadata, error) {
	info := ds.ProcessInformation.DataSetInformation
	name, ok := ilcd.First(info.Name.BaseName)
	if !ok {
		return Metadata{}, apperr.Missing("processInformation.dataSetInformation.name.baseName")
	}
	if strings.TrimSpace(info.UUID) == "" {
		return Metadata{}, apperr.Missing("processInformation.dataSetInformation.UUID")
	}

	meta := Metadata{
		Name:            name,
		ValidTo:         ds.ProcessInformation.Time.DataSetValidUntil.String(),
		ExternalID:      info.UUID,
		ExternalVersion: ds.AdministrativeInformation.PublicationAndOwnership.DataSetVersion,
		ExternalURL:     sourceURI,
	}
	meta.Comment, _ = ilcd.First(info.GeneralComment)
	if formats := ds.AdministrativeInformation.DataEntryBy.ReferenceToDataSetFormat; len(formats) > 0 {
		meta.ExternalSource, _ = ilcd.First(formats[0].ShortDescription)
	}
	return meta, nil
}
