package validator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	stageio "github.com/epd-tools/epd2lcabyg/internal/io"
	"github.com/epd-tools/epd2lcabyg/internal/lcabyg"
)

func validStage() lcabyg.Stage {
	return lcabyg.Stage{
		ID:              "0b5b9b4c-3c55-4b2f-8f0e-6f8f1a2b3c4d",
		Stage:           lcabyg.AggregateModule,
		Name:            lcabyg.LocalizedName{English: "Concrete", Danish: "Concrete_DK"},
		ValidTo:         "2026-01-01",
		HyperCategory:   "Mineralske_byggematerialer",
		StageUnit:       "TON",
		IndicatorUnit:   "KG",
		StageFactor:     1,
		IndicatorFactor: 1000,
		ExternalID:      "0b5b9b4c-3c55-4b2f-8f0e-6f8f1a2b3c4d",
		ExternalURL:     "https://node.example/resource/processes/0b5b9b4c",
		DataType:        lcabyg.DataTypeGeneric,
		Indicators:      map[string]float64{"GWP": 1.5},
	}
}

func hasMessage(msgs []string, sub string) bool {
	for _, m := range msgs {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

func TestValidate_ValidStage(t *testing.T) {
	r := Validate(validStage(), ValidationOptions{StrictMode: true})
	if !r.Valid || len(r.Warnings) != 0 {
		t.Fatalf("expected clean result, got errors=%v warnings=%v", r.Errors, r.Warnings)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*lcabyg.Stage)
		want   string
	}{
		{"id", func(s *lcabyg.Stage) { s.ID = "nope" }, "not a UUID"},
		{"stage", func(s *lcabyg.Stage) { s.Stage = "" }, "stage is required"},
		{"category", func(s *lcabyg.Stage) { s.HyperCategory = "Wood" }, "hyper_category"},
		{"data type", func(s *lcabyg.Stage) { s.DataType = "generic" }, "data_type"},
		{"stage unit", func(s *lcabyg.Stage) { s.StageUnit = "qm" }, "stage_unit"},
		{"indicator unit", func(s *lcabyg.Stage) { s.IndicatorUnit = "" }, "indicator_unit"},
		{"factor", func(s *lcabyg.Stage) { s.StageFactor = 0 }, "stage_factor"},
		{"valid to", func(s *lcabyg.Stage) { s.ValidTo = "2026" }, "YYYY-MM-DD"},
		{"name", func(s *lcabyg.Stage) { s.Name = lcabyg.LocalizedName{Danish: "_DK"} }, "name.English"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validStage()
			tt.mutate(&s)
			r := Validate(s, ValidationOptions{})
			if r.Valid {
				t.Fatalf("expected invalid stage")
			}
			if !hasMessage(r.Errors, tt.want) {
				t.Fatalf("errors %v missing %q", r.Errors, tt.want)
			}
		})
	}
}

func TestValidate_WarningsAndStrict(t *testing.T) {
	s := validStage()
	s.Stage = "B8"
	s.IndicatorFactor = 999
	s.ValidTo = ""
	s.ExternalURL = ""

	r := Validate(s, ValidationOptions{})
	if !r.Valid {
		t.Fatalf("expected warnings only, got %v", r.Errors)
	}
	for _, want := range []string{"life-cycle module", "x 1000", "valid_to is empty", "external_url"} {
		if !hasMessage(r.Warnings, want) {
			t.Fatalf("warnings %v missing %q", r.Warnings, want)
		}
	}

	strict := Validate(s, ValidationOptions{StrictMode: true})
	if strict.Valid || !hasMessage(strict.Errors, "valid_to is empty") {
		t.Fatalf("expected strict mode to fail on empty valid_to, got %v", strict.Errors)
	}
}

func TestValidate_TemplateCodes(t *testing.T) {
	tpl := lcabyg.Stage{Indicators: map[string]float64{"GWP": 0, "ODP": 0}}
	r := Validate(validStage(), ValidationOptions{StrictMode: true, Template: &tpl})
	if r.Valid || !hasMessage(r.Errors, "ODP") {
		t.Fatalf("expected missing ODP error, got %v", r.Errors)
	}
}

func TestValidateTree(t *testing.T) {
	root := t.TempDir()
	good := validStage()
	bad := validStage()
	bad.Stage = "C3"
	bad.DataType = "Other"

	if _, err := stageio.WriteStageFolder(root, "Concrete", []lcabyg.Stage{good, bad}, "json"); err != nil {
		t.Fatalf("WriteStageFolder: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.json"), []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}

	results, err := ValidateTree(root, ValidationOptions{})
	if err != nil {
		t.Fatalf("ValidateTree: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}
	m := Merge(results)
	if m.Valid || m.Stages != 2 || len(m.Errors) != 1 {
		t.Fatalf("unexpected merged result %+v", m)
	}
	if !strings.Contains(m.Errors[0], filepath.Join("C3", "Stage.json")) {
		t.Fatalf("error not attributed to file: %q", m.Errors[0])
	}

	single, err := ValidateTree(filepath.Join(root, "Concrete", "A1to3", "Stage.json"), ValidationOptions{})
	if err != nil || len(single) != 1 || !single[0].Valid {
		t.Fatalf("single file validation = %+v, %v", single, err)
	}
}

func TestValidateFile_Errors(t *testing.T) {
	if _, err := ValidateFile(filepath.Join(t.TempDir(), "missing.json"), ValidationOptions{}); err == nil {
		t.Fatalf("expected error for missing file")
	}
	p := filepath.Join(t.TempDir(), "Stage.json")
	if err := os.WriteFile(p, []byte(`[]`), 0o600); err != nil {
		t.Fatal(err)
	}
	r, err := ValidateFile(p, ValidationOptions{})
	if err != nil || r.Valid {
		t.Fatalf("expected invalid empty file, got %+v, %v", r, err)
	}
}
