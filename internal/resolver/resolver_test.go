package resolver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
	"github.com/epd-tools/epd2lcabyg/internal/converter"
	"github.com/epd-tools/epd2lcabyg/internal/ilcd"
	"github.com/epd-tools/epd2lcabyg/internal/lcabyg"
)

func TestNew(t *testing.T) {
	if r, err := New(Options{}); err != nil {
		t.Fatalf("New default: %v", err)
	} else if _, ok := r.(*Interactive); !ok {
		t.Fatalf("expected interactive default, got %T", r)
	}
	if r, err := New(Options{Strategy: "STRICT"}); err != nil {
		t.Fatalf("New strict: %v", err)
	} else if _, ok := r.(Strict); !ok {
		t.Fatalf("expected strict, got %T", r)
	}
	if _, err := New(Options{Strategy: "file"}); !apperr.IsUser(err) {
		t.Fatalf("expected user error without answers file, got %v", err)
	}
	if _, err := New(Options{Strategy: "guess"}); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}

	dir := t.TempDir()
	p := filepath.Join(dir, "answers.yaml")
	if err := os.WriteFile(p, []byte("defaults:\n  unit: kg\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	r, err := New(Options{Strategy: "file", AnswersFile: p})
	if err != nil {
		t.Fatalf("New file: %v", err)
	}
	if u, err := r.ResolveUnit(context.Background(), converter.UnitPrompt{DatasetID: "x"}); err != nil || u != "kg" {
		t.Fatalf("ResolveUnit = %q, %v", u, err)
	}
}

func TestStrict(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("unit group unavailable")
	if _, err := (Strict{}).ResolveUnit(ctx, converter.UnitPrompt{Cause: cause}); !errors.Is(err, cause) || !apperr.IsResolution(err) {
		t.Fatalf("unexpected unit error %v", err)
	}
	if _, err := (Strict{}).ResolveCategory(ctx, converter.CategoryPrompt{}); !apperr.IsResolution(err) {
		t.Fatalf("unexpected category error %v", err)
	}
	if _, err := (Strict{}).ResolveDataType(ctx, converter.DataTypePrompt{Subtype: "LCI result"}); !apperr.IsResolution(err) {
		t.Fatalf("unexpected data type error %v", err)
	}
}

const answersYAML = `
defaults:
  unit: M2
  hyper_category: Andet
datasets:
  ds-1:
    unit: stk
    hyper_category: "2"
    data_type: skabelon
  ds-2:
    data_type: "9"
`

func TestFile(t *testing.T) {
	a, err := ParseAnswers([]byte(answersYAML))
	if err != nil {
		t.Fatalf("ParseAnswers: %v", err)
	}
	f := &File{Answers: a}
	ctx := context.Background()

	if u, _ := f.ResolveUnit(ctx, converter.UnitPrompt{DatasetID: "ds-1"}); u != "stk" {
		t.Fatalf("dataset unit = %q", u)
	}
	if u, _ := f.ResolveUnit(ctx, converter.UnitPrompt{DatasetID: "other"}); u != "M2" {
		t.Fatalf("default unit = %q", u)
	}

	cp := converter.CategoryPrompt{DatasetID: "ds-1", Choices: lcabyg.HyperCategories}
	if i, err := f.ResolveCategory(ctx, cp); err != nil || i != 2 {
		t.Fatalf("category by index = %d, %v", i, err)
	}
	cp.DatasetID = "ds-2"
	if i, err := f.ResolveCategory(ctx, cp); err != nil || lcabyg.HyperCategories[i] != "Andet" {
		t.Fatalf("category by label = %d, %v", i, err)
	}

	dp := converter.DataTypePrompt{DatasetID: "ds-1", Choices: lcabyg.DataTypes}
	if i, err := f.ResolveDataType(ctx, dp); err != nil || lcabyg.DataTypes[i] != "Skabelon" {
		t.Fatalf("data type = %d, %v", i, err)
	}
	dp.DatasetID = "ds-2"
	var ie *apperr.IndexOutOfRangeError
	if _, err := f.ResolveDataType(ctx, dp); !errors.As(err, &ie) {
		t.Fatalf("expected index error, got %v", err)
	}
	dp.DatasetID = "other"
	if _, err := f.ResolveDataType(ctx, dp); !apperr.IsResolution(err) {
		t.Fatalf("expected resolution error for missing answer, got %v", err)
	}

	empty := &File{}
	if _, err := empty.ResolveUnit(ctx, converter.UnitPrompt{DatasetID: "x"}); !apperr.IsResolution(err) {
		t.Fatalf("expected resolution error for nil answers, got %v", err)
	}
	if _, err := ParseAnswers([]byte("defaults: [")); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := LoadAnswers(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestChoose_UnknownLabel(t *testing.T) {
	if _, err := choose("data type", "x", "Unknown", lcabyg.DataTypes); !apperr.IsResolution(err) {
		t.Fatalf("expected resolution error, got %v", err)
	}
}

func TestInteractive_UsesChooser(t *testing.T) {
	var gotTitle, gotDesc string
	var gotOptions []string
	r := &Interactive{Choose: func(_ context.Context, title, desc string, options []string) (int, error) {
		gotTitle, gotDesc, gotOptions = title, desc, options
		return 3, nil
	}}
	ctx := context.Background()

	u, err := r.ResolveUnit(ctx, converter.UnitPrompt{Found: "cm2", Choices: lcabyg.Units})
	if err != nil || u != "M3" {
		t.Fatalf("ResolveUnit = %q, %v", u, err)
	}
	if !strings.Contains(gotDesc, "CM2") || len(gotOptions) != len(lcabyg.Units) {
		t.Fatalf("unexpected unit prompt %q %v", gotDesc, gotOptions)
	}

	cls := &ilcd.Classification{Name: "Environdec", Class: []ilcd.Class{{Value: "Insulation"}}}
	i, err := r.ResolveCategory(ctx, converter.CategoryPrompt{
		SourceURI:      "https://n/processes/x",
		Classification: cls,
		Choices:        lcabyg.HyperCategories,
	})
	if err != nil || i != 3 {
		t.Fatalf("ResolveCategory = %d, %v", i, err)
	}
	if !strings.Contains(gotDesc, "Insulation") || !strings.Contains(gotDesc, "https://n/processes/x") {
		t.Fatalf("category prompt lacks context: %q", gotDesc)
	}
	if !strings.Contains(gotTitle, "hyper category") {
		t.Fatalf("title = %q", gotTitle)
	}

	if _, err := r.ResolveDataType(ctx, converter.DataTypePrompt{Subtype: "LCI result", Choices: lcabyg.DataTypes}); err != nil {
		t.Fatalf("ResolveDataType: %v", err)
	}
	if !strings.Contains(gotDesc, "LCI result") {
		t.Fatalf("data type prompt lacks subtype: %q", gotDesc)
	}
}

func TestInteractive_Cancel(t *testing.T) {
	r := &Interactive{Choose: func(context.Context, string, string, []string) (int, error) {
		return 0, apperr.ErrCancelled
	}}
	if _, err := r.ResolveUnit(context.Background(), converter.UnitPrompt{Choices: lcabyg.Units}); !errors.Is(err, apperr.ErrCancelled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if _, err := r.ResolveCategory(context.Background(), converter.CategoryPrompt{}); !errors.Is(err, apperr.ErrCancelled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestDescribeCategory_NoClassification(t *testing.T) {
	d := describeCategory(converter.CategoryPrompt{Cause: errors.New("index 12 out of range [0,11)")})
	if !strings.Contains(d, "Cannot find any classification information") || !strings.Contains(d, "index 12") {
		t.Fatalf("unexpected description %q", d)
	}
}
