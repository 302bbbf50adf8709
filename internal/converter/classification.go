package converter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
	"github.com/epd-tools/epd2lcabyg/internal/ilcd"
	"github.com/epd-tools/epd2lcabyg/internal/lcabyg"
)

// PositionalScheme names the classification system whose top-level class
// ids line up with lcabyg.HyperCategories.
const PositionalScheme = "OEKOBAU.DAT"

// ClassificationResolver picks the hyper category of a dataset.
type ClassificationResolver struct {
	Resolver Resolver
	// Positional forces the direct-index path, for nodes that classify every
	// dataset with PositionalScheme.
	Positional bool
}

// Resolve returns one of lcabyg.HyperCategories.
func (r *ClassificationResolver) Resolve(ctx context.Context, ds *ilcd.Process, sourceURI string) (string, error) {
	id := ds.ProcessInformation.DataSetInformation.UUID
	classes := ds.ProcessInformation.DataSetInformation.ClassificationInformation.Classification

	var cause error
	if r.Positional || positionalClassification(classes) != nil {
		cat, err := DirectCategory(classes)
		if err == nil {
			logf(id, "hyper category %s from classId", cat)
			return cat, nil
		}
		logf(id, "direct classification failed: %v", err)
		cause = err
	}

	prompt := CategoryPrompt{
		DatasetID:      id,
		SourceURI:      sourceURI,
		Classification: describedClassification(classes),
		Choices:        lcabyg.HyperCategories,
		Cause:          cause,
	}
	if r.Resolver == nil {
		if cause != nil {
			return "", cause
		}
		return "", &apperr.ResolutionError{Step: "classification", Err: errors.New("no positional classification")}
	}
	idx, err := r.Resolver.ResolveCategory(ctx, prompt)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(lcabyg.HyperCategories) {
		return "", &apperr.IndexOutOfRangeError{Index: idx, Len: len(lcabyg.HyperCategories)}
	}
	logf(id, "hyper category %s chosen by resolver", lcabyg.HyperCategories[idx])
	return lcabyg.HyperCategories[idx], nil
}

// DirectCategory maps the level-0 class id n of the positional scheme to
// hyper category n-1. It falls back to the first classification when none is
// named after the scheme.
func DirectCategory(classes []ilcd.Classification) (string, error) {
	c := positionalClassification(classes)
	if c == nil {
		if len(classes) == 0 {
			return "", apperr.Missing("classificationInformation.classification")
		}
		c = &classes[0]
	}
	for _, cl := range c.Class {
		if cl.Level != 0 {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(cl.ClassID.String()))
		if err != nil {
			return "", &apperr.MalformedValueError{Field: "classification.class.classId", Value: cl.ClassID.String()}
		}
		if n < 1 || n > len(lcabyg.HyperCategories) {
			return "", &apperr.IndexOutOfRangeError{Index: n - 1, Len: len(lcabyg.HyperCategories)}
		}
		return lcabyg.HyperCategories[n-1], nil
	}
	return "", apperr.Missing(fmt.Sprintf("classification %q level 0 class", c.Name))
}

func positionalClassification(classes []ilcd.Classification) *ilcd.Classification {
	for i := range classes {
		if strings.EqualFold(strings.TrimSpace(classes[i].Name), PositionalScheme) {
			return &classes[i]
		}
	}
	return nil
}

// describedClassification returns the first classification whose first
// class carries a value.
func describedClassification(classes []ilcd.Classification) *ilcd.Classification {
	for i := range classes {
		if len(classes[i].Class) > 0 && strings.TrimSpace(classes[i].Class[0].Value) != "" {
			c := classes[i]
			return &c
		}
	}
	return nil
}
