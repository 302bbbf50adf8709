// Package validator checks written stage files against the LCAByg import
// vocabulary before they are handed to the database.
package validator

import (
	"fmt"
	"io/fs"
	"math"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	stageio "github.com/epd-tools/epd2lcabyg/internal/io"
	"github.com/epd-tools/epd2lcabyg/internal/lcabyg"
)

// ValidationOptions configures validation behavior
type ValidationOptions struct {
	// StrictMode turns completeness warnings into errors.
	StrictMode bool
	// Template, when set, lists indicator codes every stage must carry.
	Template *lcabyg.Stage
}

// ValidationResult holds the outcome for one file or a whole tree.
type ValidationResult struct {
	Path     string
	Valid    bool
	Stages   int
	Errors   []string
	Warnings []string
}

var moduleCode = regexp.MustCompile(`^(A1to3|A[1-5]|B[1-7]|C[1-4]|D)$`)

// Validate checks a single stage.
func Validate(s lcabyg.Stage, opts ValidationOptions) ValidationResult {
	r := ValidationResult{Stages: 1}
	errf := func(format string, args ...any) { r.Errors = append(r.Errors, fmt.Sprintf(format, args...)) }
	warnf := func(format string, args ...any) { r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...)) }
	// completeness findings are errors only in strict mode
	gapf := warnf
	if opts.StrictMode {
		gapf = errf
	}

	if _, err := uuid.Parse(s.ID); err != nil {
		errf("id %q is not a UUID", s.ID)
	}
	switch {
	case s.Stage == "":
		errf("stage is required")
	case !moduleCode.MatchString(s.Stage):
		warnf("stage %q is not a standard life-cycle module", s.Stage)
	}

	if strings.TrimSpace(s.Name.English) == "" {
		errf("name.English is required")
	}
	if s.Name.Danish != s.Name.English+lcabyg.DanishSuffix {
		warnf("name.Danish %q does not follow name.English", s.Name.Danish)
	}

	if !lcabyg.IsHyperCategory(s.HyperCategory) {
		errf("hyper_category %q is not one of %s", s.HyperCategory, strings.Join(lcabyg.HyperCategories, ", "))
	}
	if !lcabyg.IsDataType(s.DataType) {
		errf("data_type %q is not one of %s", s.DataType, strings.Join(lcabyg.DataTypes, ", "))
	}
	if !slices.Contains(lcabyg.Units, s.StageUnit) {
		errf("stage_unit %q is not one of %s", s.StageUnit, strings.Join(lcabyg.Units, ", "))
	}
	if !slices.Contains(lcabyg.Units, s.IndicatorUnit) {
		errf("indicator_unit %q is not one of %s", s.IndicatorUnit, strings.Join(lcabyg.Units, ", "))
	}
	if s.StageFactor <= 0 {
		errf("stage_factor must be positive, got %v", s.StageFactor)
	}
	if s.IndicatorFactor <= 0 {
		errf("indicator_factor must be positive, got %v", s.IndicatorFactor)
	}
	if s.StageUnit == "TON" {
		if s.IndicatorUnit != "KG" {
			warnf("stage_unit TON expects indicator_unit KG, got %q", s.IndicatorUnit)
		} else if math.Abs(s.IndicatorFactor-s.StageFactor*1000) > 1e-9*math.Max(1, s.IndicatorFactor) {
			warnf("indicator_factor %v is not stage_factor x 1000", s.IndicatorFactor)
		}
	}

	if s.ValidTo == "" {
		gapf("valid_to is empty")
	} else if _, err := time.Parse(time.DateOnly, s.ValidTo); err != nil {
		errf("valid_to %q is not a YYYY-MM-DD date", s.ValidTo)
	}
	if s.ExternalID == "" {
		gapf("external_id is empty")
	}
	if s.ExternalURL == "" {
		warnf("external_url is empty")
	}

	if len(s.Indicators) == 0 {
		gapf("no indicators")
	}
	for code, v := range s.Indicators {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errf("indicator %s is not a finite number", code)
		}
	}
	if opts.Template != nil {
		for code := range opts.Template.Indicators {
			if _, ok := s.Indicators[code]; !ok {
				gapf("indicator %s from the template is missing", code)
			}
		}
	}

	r.Valid = len(r.Errors) == 0
	return r
}

// ValidateFile reads a stage file and validates each node in it.
func ValidateFile(path string, opts ValidationOptions) (ValidationResult, error) {
	nodes, err := stageio.ReadStages(path, "auto")
	if err != nil {
		return ValidationResult{Path: path}, err
	}
	r := ValidationResult{Path: path}
	if len(nodes) == 0 {
		r.Errors = append(r.Errors, "file holds no stage nodes")
	}
	for i, n := range nodes {
		sr := Validate(n.Node.Stage, opts)
		prefix := ""
		if len(nodes) > 1 {
			prefix = fmt.Sprintf("node[%d]: ", i)
		}
		for _, e := range sr.Errors {
			r.Errors = append(r.Errors, prefix+e)
		}
		for _, w := range sr.Warnings {
			r.Warnings = append(r.Warnings, prefix+w)
		}
		r.Stages++
	}
	r.Valid = len(r.Errors) == 0
	return r, nil
}

// ValidateTree validates every stage file below root. A root that is a file
// is validated on its own.
func ValidateTree(root string, opts ValidationOptions) ([]ValidationResult, error) {
	var results []ValidationResult
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if path != root && !isStageFile(d.Name()) {
			return nil
		}
		r, err := ValidateFile(path, opts)
		if err != nil {
			return err
		}
		logf("%s: %d error(s), %d warning(s)", path, len(r.Errors), len(r.Warnings))
		results = append(results, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func isStageFile(name string) bool {
	switch strings.ToLower(name) {
	case "stage.json", "stage.yaml", "stage.yml":
		return true
	}
	return false
}

// Merge folds per-file results into one.
func Merge(results []ValidationResult) ValidationResult {
	var m ValidationResult
	for _, r := range results {
		m.Stages += r.Stages
		for _, e := range r.Errors {
			m.Errors = append(m.Errors, r.Path+": "+e)
		}
		for _, w := range r.Warnings {
			m.Warnings = append(m.Warnings, r.Path+": "+w)
		}
	}
	m.Valid = len(m.Errors) == 0
	return m
}
