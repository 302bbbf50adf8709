package ui

import (
	"fmt"
	"io"
	"strings"
)

// ModuleAmount is one declared module value of an indicator.
type ModuleAmount struct {
	Module   string
	Value    float64
	Scenario string
}

// IndicatorRow is one indicator as shown by the info command.
type IndicatorRow struct {
	Code    string
	Name    string
	Unit    string
	Total   float64
	Amounts []ModuleAmount
}

// DatasetHeader identifies the dataset above the indicator table.
type DatasetHeader struct {
	Name       string
	UUID       string
	Node       string
	URL        string
	ValidUntil string
}

// RenderDatasetHeader renders the key facts of a dataset.
func RenderDatasetHeader(h DatasetHeader) string {
	var sb strings.Builder
	sb.WriteString(Title.Render(h.Name))
	sb.WriteString("\n")
	sb.WriteString(FormatKeyValue("UUID", h.UUID))
	if h.Node != "" {
		sb.WriteString("\n")
		sb.WriteString(FormatKeyValue("Node", h.Node))
	}
	if h.ValidUntil != "" {
		sb.WriteString("\n")
		sb.WriteString(FormatKeyValue("Valid until", h.ValidUntil))
	}
	if h.URL != "" {
		sb.WriteString("\n")
		sb.WriteString(FormatKeyValue("Source", Muted.Render(h.URL)))
	}
	return HighlightBox.Render(sb.String())
}

// RenderIndicators renders the indicator table. With modules set, each
// module value (and its scenario, when declared) gets its own line.
func RenderIndicators(rows []IndicatorRow, modules bool) string {
	headers := []string{"Code", "Indicator", "Unit", "Total"}
	if modules {
		headers = append(headers, "Modules")
	}

	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := []string{r.Code, r.Name, r.Unit, FormatAmount(r.Total)}
		if modules {
			line = append(line, formatAmounts(r.Amounts))
		}
		cells = append(cells, line)
	}
	return RenderTable(headers, cells)
}

func formatAmounts(amounts []ModuleAmount) string {
	parts := make([]string, 0, len(amounts))
	for _, a := range amounts {
		s := fmt.Sprintf("%s: %s", a.Module, FormatAmount(a.Value))
		if a.Scenario != "" {
			s += " (" + a.Scenario + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n")
}

// PrintIndicators writes the header and the indicator table to w.
func PrintIndicators(w io.Writer, h DatasetHeader, rows []IndicatorRow, modules bool) {
	fmt.Fprintln(w, RenderDatasetHeader(h))
	if len(rows) == 0 {
		fmt.Fprintln(w, FormatStatus("warning", "dataset declares no LCIA results"))
		return
	}
	fmt.Fprintln(w, RenderIndicators(rows, modules))
}
