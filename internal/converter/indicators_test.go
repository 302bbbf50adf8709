package converter

import (
	"math"
	"testing"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
)

func TestIndicatorCode(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"X (abc)", "abc"},
		{"Global Warming Potential - total (GWP-total)", "GWP-total"},
		{"Abiotic depletion potential (ADP) - fossil (ADPF)*", "ADPF"},
		{"Use of net fresh water (FW)  ", "FW"},
		{"Ozone depletion", "Ozone depletion"},
		{"Broken (open", "Broken (open"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IndicatorCode(tt.name); got != tt.want {
				t.Fatalf("IndicatorCode(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestExtractIndicators_TotalsAndModules(t *testing.T) {
	ds := parseProcess(t, `{"LCIAResults":{"LCIAResult":[
		{"referenceToLCIAMethodDataSet":{"shortDescription":[{"value":"Global warming (GWP)"}]},
		 "other":{"anies":[
			{"name":"referenceToUnitGroupDataSet","value":{"shortDescription":[{"value":"kg CO2 eq."}]}},
			{"module":"A1-A3","value":"0.1"},{"module":"C4","value":0.2},{"module":"D","scenario":"S1","value":"-0.3"}]}},
		{"referenceToLCIAMethodDataSet":{"shortDescription":[{"value":"Acidification (AP)"}]},
		 "other":{"anies":[{"module":"C3","value":"1e-3"},{"module":"C4","value":2},{"module":"B6","value":0}]}}
	]}}`)

	table, modules, err := ExtractIndicators(ds)
	if err != nil {
		t.Fatalf("ExtractIndicators: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len = %d", table.Len())
	}
	if codes := table.Codes(); codes[0] != "GWP" || codes[1] != "AP" {
		t.Fatalf("codes = %v", codes)
	}

	for _, ind := range table.All() {
		var sum float64
		for _, e := range ind.Emissions {
			sum += e.Value
		}
		if math.Abs(ind.Total-sum) > 1e-9 {
			t.Fatalf("%s: total %v != sum %v", ind.Code, ind.Total, sum)
		}
	}

	gwp, _ := table.Get("GWP")
	if gwp.Unit != "kg CO2 eq." {
		t.Fatalf("unit = %q", gwp.Unit)
	}
	if gwp.Emissions[2].Scenario != "S1" || gwp.Emissions[2].Value != -0.3 {
		t.Fatalf("unexpected D emission: %+v", gwp.Emissions[2])
	}

	want := []string{"A1-A3", "C4", "D", "C3", "B6"}
	if len(modules) != len(want) {
		t.Fatalf("modules = %v", modules)
	}
	for i := range want {
		if modules[i] != want[i] {
			t.Fatalf("modules = %v, want %v", modules, want)
		}
	}
}

func TestExtractIndicators_DuplicateCodeOverwrites(t *testing.T) {
	ds := parseProcess(t, `{"LCIAResults":{"LCIAResult":[
		{"referenceToLCIAMethodDataSet":{"shortDescription":[{"value":"First (dup)"}]},"other":{"anies":[{"module":"A1","value":1}]}},
		{"referenceToLCIAMethodDataSet":{"shortDescription":[{"value":"Other (x)"}]},"other":{"anies":[{"module":"A1","value":5}]}},
		{"referenceToLCIAMethodDataSet":{"shortDescription":[{"value":"Second (dup)"}]},"other":{"anies":[{"module":"A1","value":2}]}}
	]}}`)
	table, _, err := ExtractIndicators(ds)
	if err != nil {
		t.Fatalf("ExtractIndicators: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len = %d", table.Len())
	}
	ind, _ := table.Get("dup")
	if ind.Name != "Second (dup)" || ind.Total != 2 {
		t.Fatalf("expected later indicator to win, got %+v", ind)
	}
	if table.Codes()[0] != "dup" {
		t.Fatalf("expected first insertion position to be kept: %v", table.Codes())
	}
}

func TestExtractIndicators_Errors(t *testing.T) {
	missing := parseProcess(t, `{"LCIAResults":{"LCIAResult":[{"other":{"anies":[{"module":"A1","value":1}]}}]}}`)
	if _, _, err := ExtractIndicators(missing); !apperr.IsMissingField(err) {
		t.Fatalf("expected missing field error, got %v", err)
	}

	for _, raw := range []string{"n/a", "NaN", "Inf"} {
		t.Run(raw, func(t *testing.T) {
			malformed := parseProcess(t, `{"LCIAResults":{"LCIAResult":[{"referenceToLCIAMethodDataSet":{"shortDescription":[{"value":"X (abc)"}]},"other":{"anies":[{"module":"A1","value":"`+raw+`"}]}}]}}`)
			_, _, err := ExtractIndicators(malformed)
			var me *apperr.MalformedValueError
			if !asMalformed(err, &me) || me.Field != "abc/A1" || me.Value != raw {
				t.Fatalf("expected malformed value error, got %v", err)
			}
		})
	}
}

func TestExtractIndicators_Empty(t *testing.T) {
	table, modules, err := ExtractIndicators(parseProcess(t, `{}`))
	if err != nil {
		t.Fatalf("ExtractIndicators: %v", err)
	}
	if table.Len() != 0 || len(modules) != 0 {
		t.Fatalf("expected empty result, got %d indicators, modules %v", table.Len(), modules)
	}
}
