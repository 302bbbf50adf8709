package ui

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ConvertUI renders progress for the convert command. When animate is off
// (interactive prompts share the terminal) each step is printed as a line
// instead of redrawing a spinner.
type ConvertUI struct {
	writer    io.Writer
	quiet     bool
	animate   bool
	workflow  *Workflow
	labels    []string
	startTime time.Time
}

// NewConvertUI creates a new UI handler for the convert command
func NewConvertUI(w io.Writer, quiet, animate bool) *ConvertUI {
	return &ConvertUI{
		writer:    w,
		quiet:     quiet,
		animate:   animate,
		startTime: time.Now(),
	}
}

// StartWorkflow adds one task per dataset.
func (c *ConvertUI) StartWorkflow(labels []string) {
	if c.quiet {
		return
	}
	c.startTime = time.Now()
	c.labels = labels
	if !c.animate {
		return
	}
	c.workflow = NewWorkflow(c.writer, "Converting EPDs")
	for _, l := range labels {
		c.workflow.AddTask(fmt.Sprintf("Converting %s", l))
	}
	c.workflow.Start()
}

func (c *ConvertUI) label(idx int) string {
	if idx >= 0 && idx < len(c.labels) {
		return c.labels[idx]
	}
	return fmt.Sprintf("#%d", idx+1)
}

// StartDataset marks a dataset as running
func (c *ConvertUI) StartDataset(idx int, status string) {
	if c.quiet {
		return
	}
	if c.workflow == nil {
		c.LogDatasetStep(c.label(idx), status, "")
		return
	}
	c.workflow.StartTask(idx, Dim.Render(status))
}

// UpdateDataset updates the status of a running dataset
func (c *ConvertUI) UpdateDataset(idx int, status string) {
	if c.quiet {
		return
	}
	if c.workflow == nil {
		c.LogDatasetStep(c.label(idx), status, "")
		return
	}
	c.workflow.UpdateMessage(idx, Dim.Render(status))
}

// CompleteDataset marks a dataset as converted
func (c *ConvertUI) CompleteDataset(idx int, details string) {
	if c.quiet {
		return
	}
	if c.workflow == nil {
		c.LogStep("success", Highlight.Render(c.label(idx))+" "+Dim.Render("→ "+details))
		return
	}
	c.workflow.CompleteTask(idx, details)
}

// FailDataset marks a dataset as failed
func (c *ConvertUI) FailDataset(idx int, err string) {
	if c.quiet {
		return
	}
	if c.workflow == nil {
		c.LogStep("error", Highlight.Render(c.label(idx))+" "+Error.Render("→ "+err))
		return
	}
	c.workflow.FailTask(idx, err)
}

// FinishWorkflow completes the workflow display
func (c *ConvertUI) FinishWorkflow() {
	if c.quiet || c.workflow == nil {
		return
	}
	c.workflow.Stop()
}

// ConvertSummary is the outcome shown after a run.
type ConvertSummary struct {
	Datasets  int
	Failed    int
	Stages    int
	OutputDir string
	Format    string
	Folders   []string
}

// PrintSummary prints a final summary
func (c *ConvertUI) PrintSummary(s ConvertSummary) {
	if c.quiet {
		return
	}

	elapsed := time.Since(c.startTime)

	fmt.Fprintln(c.writer)

	var summary strings.Builder
	title := Success.Bold(true).Render("Conversion Complete")
	if s.Failed > 0 {
		title = Warning.Bold(true).Render("Conversion Finished With Errors")
	}
	summary.WriteString(title)
	summary.WriteString("\n\n")
	summary.WriteString(FormatKeyValue("Datasets", fmt.Sprintf("%d converted, %d failed", s.Datasets-s.Failed, s.Failed)))
	summary.WriteString("\n")
	summary.WriteString(FormatKeyValue("Stages written", fmt.Sprintf("%d", s.Stages)))
	summary.WriteString("\n")
	summary.WriteString(FormatKeyValue("Output directory", s.OutputDir))
	summary.WriteString("\n")
	summary.WriteString(FormatKeyValue("Format", s.Format))
	summary.WriteString("\n")
	summary.WriteString(FormatKeyValue("Duration", elapsed.Round(time.Millisecond).String()))
	for _, f := range s.Folders {
		summary.WriteString("\n")
		summary.WriteString(GetBullet() + " " + Dim.Render(f))
	}

	box := SuccessBox
	if s.Failed > 0 {
		box = ErrorBox
	}
	fmt.Fprintln(c.writer, box.Render(summary.String()))
}

// LogStep prints a simple log message (non-workflow mode)
func (c *ConvertUI) LogStep(icon, message string) {
	if c.quiet {
		return
	}
	fmt.Fprintln(c.writer, FormatStatus(icon, message))
}

// LogDatasetStep logs a step for a specific dataset
func (c *ConvertUI) LogDatasetStep(label, action, detail string) {
	if c.quiet {
		return
	}

	labelStyled := Highlight.Render(label)
	actionStyled := action
	if detail != "" {
		actionStyled += " " + Dim.Render(detail)
	}

	fmt.Fprintf(c.writer, "%s %s %s\n", Secondary.Render("→"), labelStyled, actionStyled)
}
