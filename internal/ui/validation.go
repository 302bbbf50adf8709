package ui

import (
	"fmt"
	"io"
	"strings"
)

// ValidationReport mirrors the structure from internal/validator
// to avoid circular imports
type ValidationReport struct {
	Path     string
	Valid    bool
	Stages   int
	Errors   []string
	Warnings []string
}

// ValidationUI provides a rich UI for the validation command
type ValidationUI struct {
	writer io.Writer
	quiet  bool
}

// NewValidationUI creates a new UI handler for the validation command
func NewValidationUI(w io.Writer, quiet bool) *ValidationUI {
	return &ValidationUI{
		writer: w,
		quiet:  quiet,
	}
}

// PrintReport renders the validation report in a box.
func (v *ValidationUI) PrintReport(report ValidationReport) {
	if v.quiet {
		return
	}

	var output strings.Builder

	if report.Valid {
		output.WriteString(Success.Bold(true).Render("✓ Validation Passed"))
	} else {
		output.WriteString(Error.Bold(true).Render("✗ Validation Failed"))
	}
	output.WriteString("\n\n")

	output.WriteString(SectionHeader.Render("Stage Files"))
	output.WriteString("\n")
	if report.Path != "" {
		output.WriteString(FormatKeyValue("Path", Highlight.Render(report.Path)))
		output.WriteString("\n")
	}
	output.WriteString(FormatKeyValue("Stages checked", fmt.Sprintf("%d", report.Stages)))

	if len(report.Errors) > 0 {
		output.WriteString("\n\n")
		output.WriteString(v.renderErrors(report.Errors))
	}

	if len(report.Warnings) > 0 {
		output.WriteString("\n\n")
		output.WriteString(v.renderWarnings(report.Warnings))
	}

	var boxed string
	if report.Valid {
		boxed = SuccessBox.Render(output.String())
	} else {
		boxed = ErrorBox.Render(output.String())
	}
	fmt.Fprintln(v.writer, boxed)
}

// renderErrors creates the errors section
func (v *ValidationUI) renderErrors(errors []string) string {
	var sb strings.Builder

	sb.WriteString(Error.Render(fmt.Sprintf("▼ Errors (%d)", len(errors))))
	sb.WriteString("\n")
	for _, err := range errors {
		sb.WriteString("  ")
		sb.WriteString(GetCrossMark())
		sb.WriteString(" ")
		sb.WriteString(err)
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// renderWarnings creates the warnings section
func (v *ValidationUI) renderWarnings(warnings []string) string {
	var sb strings.Builder

	sb.WriteString(Warning.Render(fmt.Sprintf("▼ Warnings (%d)", len(warnings))))
	sb.WriteString("\n")
	for _, warn := range warnings {
		sb.WriteString("  ")
		sb.WriteString(GetWarnMark())
		sb.WriteString(" ")
		sb.WriteString(Dim.Render(warn))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// PrintSimpleReport prints a minimal text report
func (v *ValidationUI) PrintSimpleReport(report ValidationReport) {
	if report.Valid {
		fmt.Fprintf(v.writer, "%s Validation passed\n", GetCheckMark())
	} else {
		fmt.Fprintf(v.writer, "%s Validation failed\n", GetCrossMark())
	}
	fmt.Fprintf(v.writer, "Stages: %d\n", report.Stages)
	fmt.Fprintf(v.writer, "Errors: %d, Warnings: %d\n", len(report.Errors), len(report.Warnings))
}
