package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
	"github.com/epd-tools/epd2lcabyg/internal/converter"
	"github.com/epd-tools/epd2lcabyg/internal/ui"
)

// ChooseFunc presents options and returns the index the user picked.
type ChooseFunc func(ctx context.Context, title, description string, options []string) (int, error)

// Interactive asks the user through terminal forms.
type Interactive struct {
	Choose ChooseFunc
}

// NewInteractive returns an Interactive resolver backed by huh forms.
func NewInteractive() *Interactive {
	return &Interactive{Choose: SelectForm}
}

func (r *Interactive) ResolveUnit(ctx context.Context, p converter.UnitPrompt) (string, error) {
	var desc strings.Builder
	if p.Found != "" {
		fmt.Fprintf(&desc, "Found unit: %s", strings.ToUpper(p.Found))
	} else {
		desc.WriteString("No reference unit found")
	}
	if p.Cause != nil {
		fmt.Fprintf(&desc, "\n%s", ui.Dim.Render(p.Cause.Error()))
	}
	idx, err := r.Choose(ctx, "Which of the accepted units does it match?", desc.String(), p.Choices)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(p.Choices) {
		return "", &apperr.IndexOutOfRangeError{Index: idx, Len: len(p.Choices)}
	}
	logf(p.DatasetID, "unit %s chosen", p.Choices[idx])
	return p.Choices[idx], nil
}

func (r *Interactive) ResolveCategory(ctx context.Context, p converter.CategoryPrompt) (int, error) {
	idx, err := r.Choose(ctx, "Which LCAByg hyper category does it match?", describeCategory(p), p.Choices)
	if err != nil {
		return 0, err
	}
	logf(p.DatasetID, "hyper category index %d chosen", idx)
	return idx, nil
}

func (r *Interactive) ResolveDataType(ctx context.Context, p converter.DataTypePrompt) (int, error) {
	desc := "Found dataset type: " + p.Subtype
	idx, err := r.Choose(ctx, "Which of the accepted dataset types does it match?", desc, p.Choices)
	if err != nil {
		return 0, err
	}
	logf(p.DatasetID, "data type index %d chosen", idx)
	return idx, nil
}

func describeCategory(p converter.CategoryPrompt) string {
	var sb strings.Builder
	if p.Classification == nil {
		sb.WriteString("Cannot find any classification information.")
	} else {
		sb.WriteString("Cannot match classification type. Found this classification information:\n")
		b, err := json.MarshalIndent(p.Classification, "", "  ")
		if err == nil {
			sb.Write(b)
		}
	}
	if p.Cause != nil {
		fmt.Fprintf(&sb, "\n%s", ui.Dim.Render(p.Cause.Error()))
	}
	if p.SourceURI != "" {
		fmt.Fprintf(&sb, "\nSee more about the EPD here: %s", p.SourceURI)
	}
	return sb.String()
}

// SelectForm runs a single huh select. Aborting the form cancels the
// conversion.
func SelectForm(ctx context.Context, title, description string, options []string) (int, error) {
	opts := make([]huh.Option[int], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(fmt.Sprintf("[%d] %s", i, o), i)
	}

	var choice int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(title).
				Description(description).
				Options(opts...).
				Value(&choice),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return 0, apperr.ErrCancelled
		}
		return 0, err
	}
	return choice, nil
}
