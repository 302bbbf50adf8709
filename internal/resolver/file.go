package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
	"github.com/epd-tools/epd2lcabyg/internal/converter"
)

// Answer holds pre-made decisions. Category and data type may be given by
// label or by index into the choice list.
type Answer struct {
	Unit          string `yaml:"unit"`
	HyperCategory string `yaml:"hyper_category"`
	DataType      string `yaml:"data_type"`
}

// Answers is the layout of an answers file:
//
//	defaults:
//	  unit: M2
//	datasets:
//	  0b5b9b4c-6a1f-4a36-8d34-1c2a7fbd6e11:
//	    hyper_category: Træ
//	    data_type: "1"
type Answers struct {
	Defaults Answer            `yaml:"defaults"`
	Datasets map[string]Answer `yaml:"datasets"`
}

// LoadAnswers reads an answers file.
func LoadAnswers(path string) (*Answers, error) {
	if strings.TrimSpace(path) == "" {
		return nil, apperr.User("the file strategy needs an answers file (--answers)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	return ParseAnswers(data)
}

// ParseAnswers decodes answers from YAML.
func ParseAnswers(data []byte) (*Answers, error) {
	var a Answers
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return &a, nil
}

// lookup returns the dataset's answer for field, falling back to defaults.
func (a *Answers) lookup(datasetID string, field func(Answer) string) string {
	if a == nil {
		return ""
	}
	if ds, ok := a.Datasets[datasetID]; ok {
		if v := strings.TrimSpace(field(ds)); v != "" {
			return v
		}
	}
	return strings.TrimSpace(field(a.Defaults))
}

// File answers from an Answers document.
type File struct {
	Answers *Answers
}

func (f *File) ResolveUnit(_ context.Context, p converter.UnitPrompt) (string, error) {
	v := f.Answers.lookup(p.DatasetID, func(a Answer) string { return a.Unit })
	if v == "" {
		return "", &apperr.ResolutionError{Step: "unit", Err: errors.New("no unit answer for " + p.DatasetID)}
	}
	logf(p.DatasetID, "unit %q answered from file", v)
	return v, nil
}

func (f *File) ResolveCategory(_ context.Context, p converter.CategoryPrompt) (int, error) {
	v := f.Answers.lookup(p.DatasetID, func(a Answer) string { return a.HyperCategory })
	return choose("classification", p.DatasetID, v, p.Choices)
}

func (f *File) ResolveDataType(_ context.Context, p converter.DataTypePrompt) (int, error) {
	v := f.Answers.lookup(p.DatasetID, func(a Answer) string { return a.DataType })
	return choose("data type", p.DatasetID, v, p.Choices)
}

// choose maps a label or index answer onto choices.
func choose(step, datasetID, answer string, choices []string) (int, error) {
	if answer == "" {
		return 0, &apperr.ResolutionError{Step: step, Err: errors.New("no answer for " + datasetID)}
	}
	if i := indexOf(choices, answer); i >= 0 {
		logf(datasetID, "%s %q answered from file", step, choices[i])
		return i, nil
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return 0, &apperr.ResolutionError{Step: step, Err: fmt.Errorf("answer %q is not one of %s", answer, strings.Join(choices, ", "))}
	}
	if n < 0 || n >= len(choices) {
		return 0, &apperr.IndexOutOfRangeError{Index: n, Len: len(choices)}
	}
	logf(datasetID, "%s %q answered from file", step, choices[n])
	return n, nil
}
