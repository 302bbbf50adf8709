// Package report exports a conversion to an Excel workbook for review
// before the stages are imported.
package report

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/epd-tools/epd2lcabyg/internal/converter"
)

const (
	IndicatorsSheet = "Indicators"
	StagesSheet     = "Stages"
)

// WriteWorkbook saves conv to outputPath with one sheet of source
// indicators and one sheet of built stages.
func WriteWorkbook(conv *converter.Conversion, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), IndicatorsSheet); err != nil {
		return err
	}
	writeIndicators(f, conv)

	if _, err := f.NewSheet(StagesSheet); err != nil {
		return err
	}
	writeStages(f, conv)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func setRow(f *excelize.File, sheet string, row int, values []any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func writeIndicators(f *excelize.File, conv *converter.Conversion) {
	headers := []any{"code", "name", "unit", "total"}
	for _, m := range conv.Observed {
		headers = append(headers, m)
	}
	setRow(f, IndicatorsSheet, 1, headers)

	for i, ind := range conv.Indicators.All() {
		values := []any{ind.Code, ind.Name, ind.Unit, ind.Total}
		for _, m := range conv.Observed {
			values = append(values, converter.ModuleValue(ind, m))
		}
		setRow(f, IndicatorsSheet, i+2, values)
	}
}

func writeStages(f *excelize.File, conv *converter.Conversion) {
	var codes []string
	for _, r := range conv.Results {
		for code := range r.Stage.Indicators {
			if !slices.Contains(codes, code) {
				codes = append(codes, code)
			}
		}
	}
	slices.Sort(codes)

	headers := []any{"stage", "id", "name", "hyper_category", "data_type", "stage_unit", "stage_factor", "indicator_unit", "indicator_factor"}
	for _, c := range codes {
		headers = append(headers, c)
	}
	setRow(f, StagesSheet, 1, headers)

	for i, r := range conv.Results {
		s := r.Stage
		values := []any{s.Stage, s.ID, s.Name.English, s.HyperCategory, s.DataType, s.StageUnit, s.StageFactor, s.IndicatorUnit, s.IndicatorFactor}
		for _, c := range codes {
			if v, ok := s.Indicators[c]; ok {
				values = append(values, v)
			} else {
				values = append(values, "")
			}
		}
		setRow(f, StagesSheet, i+2, values)
	}
}
