package resolver

import (
	"context"
	"errors"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
	"github.com/epd-tools/epd2lcabyg/internal/converter"
)

// Strict fails every question, so only datasets the engine can convert
// unaided succeed.
type Strict struct{}

func (Strict) ResolveUnit(_ context.Context, p converter.UnitPrompt) (string, error) {
	return "", &apperr.ResolutionError{Step: "unit", Err: causeOr(p.Cause, "unit "+quote(p.Found)+" needs a decision")}
}

func (Strict) ResolveCategory(_ context.Context, p converter.CategoryPrompt) (int, error) {
	return 0, &apperr.ResolutionError{Step: "classification", Err: causeOr(p.Cause, "hyper category needs a decision")}
}

func (Strict) ResolveDataType(_ context.Context, p converter.DataTypePrompt) (int, error) {
	return 0, &apperr.ResolutionError{Step: "data type", Err: errors.New("subtype " + quote(p.Subtype) + " needs a decision")}
}

func causeOr(cause error, msg string) error {
	if cause != nil {
		return cause
	}
	return errors.New(msg)
}

func quote(s string) string {
	if s == "" {
		return "(none)"
	}
	return `"` + s + `"`
}
