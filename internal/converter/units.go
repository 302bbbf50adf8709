package converter

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
	"github.com/epd-tools/epd2lcabyg/internal/ilcd"
	"github.com/epd-tools/epd2lcabyg/internal/lcabyg"
)

var unitAliases = map[string]string{
	"qm":    "M2",
	"QM":    "M2",
	"pcs":   "STK",
	"pcs.":  "STK",
	"PCS":   "STK",
	"PCS.":  "STK",
	"ton":   "TON",
	"TON":   "TON",
	"Ton":   "TON",
	"t":     "TON",
	"tonne": "TON",
	"Tonne": "TON",
	"TONNE": "TON",
	"Mg":    "TON",
}

// NormalizeUnit maps known aliases to their LCAByg unit and upper-cases
// everything else. Canonical units are returned unchanged.
func NormalizeUnit(raw string) string {
	raw = strings.TrimSpace(raw)
	if u, ok := unitAliases[raw]; ok {
		return u
	}
	return strings.ToUpper(raw)
}

// UnitResolution is the outcome of unit resolution, shared by every stage of
// a dataset.
type UnitResolution struct {
	MeanValue       float64
	StageUnit       string
	StageFactor     float64
	IndicatorUnit   string
	IndicatorFactor float64
}

// NewUnitResolution applies the tonne rule: stages keep TON and the mean
// value while indicators are expressed per KG.
func NewUnitResolution(unit string, mean float64) UnitResolution {
	r := UnitResolution{
		MeanValue:       mean,
		StageUnit:       unit,
		StageFactor:     mean,
		IndicatorUnit:   unit,
		IndicatorFactor: mean,
	}
	if unit == "TON" {
		r.IndicatorUnit = "KG"
		r.IndicatorFactor = mean * 1000
	}
	return r
}

// UnitResolver derives the declared unit of a dataset.
type UnitResolver struct {
	Fetcher  Fetcher
	Resolver Resolver
}

// Resolve reads the reference flow's mean value and unit. When the flow does
// not carry its unit inline the unit group is fetched from the node the
// dataset came from.
func (r *UnitResolver) Resolve(ctx context.Context, ds *ilcd.Process, sourceURI string) (UnitResolution, error) {
	id := ds.ProcessInformation.DataSetInformation.UUID

	ex, err := referenceExchange(ds)
	if err != nil {
		return UnitResolution{}, err
	}
	fp := ex.FlowProperties[0]
	if fp.MeanValue == nil {
		return UnitResolution{}, apperr.Missing("exchanges.exchange.flowProperties[0].meanValue")
	}

	raw, lookupErr := r.rawUnit(ctx, ex, sourceURI)
	unit := NormalizeUnit(raw)
	if lookupErr != nil || !lcabyg.IsUnit(unit) {
		logf(id, "unit %q not matched, asking resolver", raw)
		unit, err = r.ask(ctx, UnitPrompt{DatasetID: id, Found: raw, Choices: lcabyg.Units, Cause: lookupErr})
		if err != nil {
			return UnitResolution{}, err
		}
	}
	logf(id, "unit %s mean %g", unit, *fp.MeanValue)
	return NewUnitResolution(unit, *fp.MeanValue), nil
}

func (r *UnitResolver) ask(ctx context.Context, p UnitPrompt) (string, error) {
	if r.Resolver == nil {
		if p.Cause != nil {
			return "", p.Cause
		}
		return "", &apperr.ResolutionError{Step: "unit", Err: errors.New("no match for " + quoteOrNone(p.Found))}
	}
	answer, err := r.Resolver.ResolveUnit(ctx, p)
	if err != nil {
		return "", err
	}
	unit := NormalizeUnit(answer)
	if !lcabyg.IsUnit(unit) {
		return "", &apperr.ResolutionError{Step: "unit", Err: errors.New("answer " + quoteOrNone(answer) + " is not an accepted unit")}
	}
	return unit, nil
}

// rawUnit returns the unit name before normalization. A non-nil error is
// always a *apperr.ResolutionError.
func (r *UnitResolver) rawUnit(ctx context.Context, ex ilcd.Exchange, sourceURI string) (string, error) {
	for _, fp := range ex.FlowProperties {
		if fp.ReferenceUnit != nil {
			return *fp.ReferenceUnit, nil
		}
	}

	groupURL, err := UnitGroupURL(sourceURI, ex.FlowProperties[0].UUID)
	if err != nil {
		return "", &apperr.ResolutionError{Step: "unit group", Err: err}
	}
	if r.Fetcher == nil {
		return "", &apperr.ResolutionError{Step: "unit group", Err: errors.New("no fetcher configured")}
	}
	data, err := r.Fetcher.Fetch(ctx, groupURL, url.Values{"format": {"JSON"}})
	if err != nil {
		return "", &apperr.ResolutionError{Step: "unit group", Err: err}
	}
	group, err := ilcd.ParseUnitGroup(data)
	if err != nil {
		return "", &apperr.ResolutionError{Step: "unit group", Err: err}
	}
	name, ok := group.ReferenceUnit()
	if !ok {
		return "", &apperr.ResolutionError{Step: "unit group", Err: errors.New("reference unit not found in " + groupURL)}
	}
	return name, nil
}

// UnitGroupURL builds the unit group address on the node serving sourceURI.
func UnitGroupURL(sourceURI, groupUUID string) (string, error) {
	base, _, found := strings.Cut(sourceURI, "processes")
	if !found || base == "" {
		return "", errors.New("source URI " + quoteOrNone(sourceURI) + " is not a process resource")
	}
	if strings.TrimSpace(groupUUID) == "" {
		return "", errors.New("flow property has no uuid")
	}
	return base + "unitgroups/" + groupUUID, nil
}

// referenceExchange finds the exchange named by the quantitative reference.
func referenceExchange(ds *ilcd.Process) (ilcd.Exchange, error) {
	refs := ds.ProcessInformation.QuantitativeReference.ReferenceToReferenceFlow
	if len(refs) == 0 {
		return ilcd.Exchange{}, apperr.Missing("processInformation.quantitativeReference.referenceToReferenceFlow")
	}
	for _, ex := range ds.Exchanges.Exchange {
		if ex.DataSetInternalID != refs[0] {
			continue
		}
		if len(ex.FlowProperties) == 0 {
			return ilcd.Exchange{}, apperr.Missing("exchanges.exchange.flowProperties")
		}
		return ex, nil
	}
	return ilcd.Exchange{}, apperr.Missing("exchanges.exchange[dataSetInternalID=" + strconv.Itoa(refs[0]) + "]")
}

func quoteOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return `"` + s + `"`
}
