package converter

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/epd-tools/epd2lcabyg/internal/lcabyg"
)

// Metadata is the dataset-level information copied onto every stage.
type Metadata struct {
	Name            string
	Comment         string
	ValidTo         string
	ExternalSource  string
	ExternalID      string
	ExternalVersion string
	ExternalURL     string
}

// Resolutions are the answers shared by every stage of a dataset.
type Resolutions struct {
	Unit          UnitResolution
	HyperCategory string
	DataType      string
}

// Result is one built stage.
type Result struct {
	Stage       lcabyg.Stage
	DisplayName string
	Module      string
}

// StageBuilder derives stages from a template.
type StageBuilder struct {
	Template lcabyg.Stage
	// SuffixModuleName appends the module to the English name.
	SuffixModuleName bool
	// NewID generates stage ids. Defaults to random UUIDs. Build calls it
	// sequentially, before building the stages concurrently.
	NewID func() string
}

func (b *StageBuilder) newID() string {
	if b.NewID == nil {
		return uuid.NewString()
	}
	return b.NewID()
}

// Build returns one result per module, in module order.
func (b *StageBuilder) Build(ctx context.Context, meta Metadata, res Resolutions, table *IndicatorTable, modules []string) ([]Result, error) {
	results := make([]Result, len(modules))
	ids := make([]string, len(modules))
	for i := range ids {
		ids[i] = b.newID()
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, m := range modules {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = Result{
				Stage:       b.buildStage(meta, res, table, m, ids[i]),
				DisplayName: meta.Name,
				Module:      m,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// BuildStage derives the stage for one module from a fresh copy of the
// template.
func (b *StageBuilder) BuildStage(meta Metadata, res Resolutions, table *IndicatorTable, module string) lcabyg.Stage {
	return b.buildStage(meta, res, table, module, b.newID())
}

func (b *StageBuilder) buildStage(meta Metadata, res Resolutions, table *IndicatorTable, module, id string) lcabyg.Stage {
	s := b.Template.Clone()
	s.ID = id
	s.Stage = module

	s.Name.English = meta.Name
	if b.SuffixModuleName {
		s.Name.English = meta.Name + " " + module
	}
	s.Name.Danish = s.Name.English + lcabyg.DanishSuffix
	s.Comment = meta.Comment
	s.ValidTo = NormalizeValidTo(meta.ValidTo)

	s.HyperCategory = res.HyperCategory
	s.DataType = res.DataType
	s.StageUnit = res.Unit.StageUnit
	s.StageFactor = res.Unit.StageFactor
	s.IndicatorUnit = res.Unit.IndicatorUnit
	s.IndicatorFactor = res.Unit.IndicatorFactor

	s.ExternalSource = meta.ExternalSource
	s.ExternalID = meta.ExternalID
	s.ExternalVersion = meta.ExternalVersion
	s.ExternalURL = meta.ExternalURL

	if len(s.Indicators) > 0 {
		// fixed schema: only the template's codes are written, and codes the
		// dataset lacks are zero
		for code := range s.Indicators {
			ind, ok := table.Get(code)
			if !ok {
				s.Indicators[code] = 0
				continue
			}
			s.Indicators[code] = ModuleValue(ind, module)
		}
		return s
	}
	for _, ind := range table.All() {
		s.Indicators[ind.Code] = ModuleValue(ind, module)
	}
	return s
}

// ModuleValue sums the emissions of ind attributed to module. The aggregate
// module collects A1, A2, A3 and A1-A3.
func ModuleValue(ind Indicator, module string) float64 {
	var total float64
	for _, e := range ind.Emissions {
		if module == lcabyg.AggregateModule {
			if IsAggregated(e.Module) {
				total += e.Value
			}
			continue
		}
		if e.Module == module {
			total += e.Value
		}
	}
	return total
}

var bareYear = regexp.MustCompile(`^[0-9]{4}$`)

// NormalizeValidTo expands a bare year to the first of January.
func NormalizeValidTo(s string) string {
	if bareYear.MatchString(s) {
		return s + "-01-01"
	}
	return s
}
