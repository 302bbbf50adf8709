package converter

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
	"github.com/epd-tools/epd2lcabyg/internal/ilcd"
)

type fetcherFunc func(ctx context.Context, rawURL string, query url.Values) ([]byte, error)

func (f fetcherFunc) Fetch(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	return f(ctx, rawURL, query)
}

// stubResolver returns fixed answers and records what it was asked.
type stubResolver struct {
	unit     string
	category int
	dataType int
	err      error

	unitPrompts     []UnitPrompt
	categoryPrompts []CategoryPrompt
	dataTypePrompts []DataTypePrompt
}

func (s *stubResolver) ResolveUnit(_ context.Context, p UnitPrompt) (string, error) {
	s.unitPrompts = append(s.unitPrompts, p)
	return s.unit, s.err
}

func (s *stubResolver) ResolveCategory(_ context.Context, p CategoryPrompt) (int, error) {
	s.categoryPrompts = append(s.categoryPrompts, p)
	return s.category, s.err
}

func (s *stubResolver) ResolveDataType(_ context.Context, p DataTypePrompt) (int, error) {
	s.dataTypePrompts = append(s.dataTypePrompts, p)
	return s.dataType, s.err
}

func loadProcess(t *testing.T, name string) *ilcd.Process {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	p, err := ilcd.Parse(data)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return p
}

func parseProcess(t *testing.T, js string) *ilcd.Process {
	t.Helper()
	p, err := ilcd.Parse([]byte(js))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return p
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func asMalformed(err error, target **apperr.MalformedValueError) bool {
	return errors.As(err, target)
}
