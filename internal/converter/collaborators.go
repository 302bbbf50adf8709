package converter

import (
	"context"
	"net/url"

	"github.com/epd-tools/epd2lcabyg/internal/ilcd"
)

// Fetcher retrieves JSON resources from a soda4LCA node.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, query url.Values) ([]byte, error)
}

// Resolver answers the questions the engine cannot settle from the data.
// Every answer must come from the choices offered in the prompt; returning
// apperr.ErrCancelled aborts the conversion.
type Resolver interface {
	// ResolveUnit returns one of prompt.Choices.
	ResolveUnit(ctx context.Context, prompt UnitPrompt) (string, error)
	// ResolveCategory returns an index into prompt.Choices.
	ResolveCategory(ctx context.Context, prompt CategoryPrompt) (int, error)
	// ResolveDataType returns an index into prompt.Choices.
	ResolveDataType(ctx context.Context, prompt DataTypePrompt) (int, error)
}

// UnitPrompt describes an unmatched quantity unit.
type UnitPrompt struct {
	DatasetID string
	Found     string // raw unit as read from the dataset, empty when none was found
	Choices   []string
	Cause     error // set when the unit group lookup failed
}

// CategoryPrompt describes an unmatched product classification.
type CategoryPrompt struct {
	DatasetID      string
	SourceURI      string
	Classification *ilcd.Classification // nil when the dataset carries none
	Choices        []string
	Cause          error
}

// DataTypePrompt describes an unmatched dataset subtype.
type DataTypePrompt struct {
	DatasetID string
	Subtype   string
	Choices   []string
}
