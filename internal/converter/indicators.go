package converter

import (
	"strconv"
	"strings"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
	"github.com/epd-tools/epd2lcabyg/internal/ilcd"
)

// Emission is the value of one indicator for one life-cycle module.
type Emission struct {
	Module   string
	Value    float64
	Scenario string
}

// Indicator is one LCIA result with its per-module breakdown.
type Indicator struct {
	Code      string
	Name      string
	Unit      string
	Emissions []Emission
	Total     float64
}

// IndicatorTable maps indicator codes to indicators, keeping the order in
// which codes were first seen. Adding a code twice replaces the earlier
// indicator in place.
type IndicatorTable struct {
	codes  []string
	byCode map[string]Indicator
}

// NewIndicatorTable returns an empty table.
func NewIndicatorTable() *IndicatorTable {
	return &IndicatorTable{byCode: map[string]Indicator{}}
}

func (t *IndicatorTable) put(ind Indicator) {
	if _, ok := t.byCode[ind.Code]; !ok {
		t.codes = append(t.codes, ind.Code)
	}
	t.byCode[ind.Code] = ind
}

// Len returns the number of distinct codes.
func (t *IndicatorTable) Len() int { return len(t.codes) }

// Codes returns the codes in first-seen order.
func (t *IndicatorTable) Codes() []string { return append([]string(nil), t.codes...) }

// Get returns the indicator stored under code.
func (t *IndicatorTable) Get(code string) (Indicator, bool) {
	ind, ok := t.byCode[code]
	return ind, ok
}

// All returns the indicators in first-seen code order.
func (t *IndicatorTable) All() []Indicator {
	out := make([]Indicator, 0, len(t.codes))
	for _, c := range t.codes {
		out = append(out, t.byCode[c])
	}
	return out
}

// IndicatorCode derives the short code from an indicator display name:
// "Global Warming Potential - total (GWP-total)" yields "GWP-total". A
// trailing "*" marker is ignored. Names without a parenthesised suffix are
// used as the code verbatim.
func IndicatorCode(name string) string {
	s := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(name), "*"))
	open := strings.LastIndex(s, "(")
	if open < 0 || !strings.HasSuffix(s, ")") {
		return s
	}
	return strings.TrimSpace(s[open+1 : len(s)-1])
}

// ExtractIndicators reads the LCIA results of ds. It returns the indicator
// table and the module codes in the order they were first seen.
func ExtractIndicators(ds *ilcd.Process) (*IndicatorTable, []string, error) {
	table := NewIndicatorTable()
	var modules orderedSet

	for i, res := range ds.LCIAResults.LCIAResult {
		name, ok := ilcd.First(res.ReferenceToLCIAMethodDataSet.ShortDescription)
		if !ok {
			return nil, nil, apperr.Missing(lciaField(i, "referenceToLCIAMethodDataSet.shortDescription"))
		}

		ind := Indicator{
			Code: IndicatorCode(name),
			Name: name,
			Unit: indicatorUnit(res.Other.Anies),
		}
		for _, a := range res.Other.Anies {
			if !a.HasModule() {
				continue
			}
			v, ok := a.NumberValue()
			if !ok {
				return nil, nil, &apperr.MalformedValueError{Field: ind.Code + "/" + *a.Module, Value: a.RawValue()}
			}
			e := Emission{Module: *a.Module, Value: v}
			if a.Scenario != nil {
				e.Scenario = *a.Scenario
			}
			ind.Emissions = append(ind.Emissions, e)
			ind.Total += v
			modules.add(e.Module)
		}

		if _, dup := table.Get(ind.Code); dup {
			logf(ds.ProcessInformation.DataSetInformation.UUID, "indicator code %q appears twice; keeping %q", ind.Code, name)
		}
		table.put(ind)
	}
	return table, modules.list(), nil
}

// indicatorUnit reads the unit from the first named extension entry.
func indicatorUnit(anies []ilcd.Any) string {
	for _, a := range anies {
		if !a.HasName() {
			continue
		}
		if ref, ok := a.ReferenceValue(); ok {
			u, _ := ilcd.First(ref.ShortDescription)
			return u
		}
		s, _ := a.StringValue()
		return s
	}
	return ""
}

func lciaField(i int, path string) string {
	return "LCIAResults.LCIAResult[" + strconv.Itoa(i) + "]." + path
}
