package converter

import (
	"context"
	"errors"
	"strings"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
	"github.com/epd-tools/epd2lcabyg/internal/ilcd"
	"github.com/epd-tools/epd2lcabyg/internal/lcabyg"
)

// subtypeRules are checked in order; the first contained keyword wins.
var subtypeRules = []struct {
	keyword  string
	dataType string
}{
	{"specific", lcabyg.DataTypeSpecific},
	{"generic", lcabyg.DataTypeGeneric},
	{"average", lcabyg.DataTypeAverage},
	{"representative", lcabyg.DataTypeRepresentative},
	{"template", lcabyg.DataTypeTemplate},
}

// MatchDataType maps a free-text subtype to a data type label.
func MatchDataType(subtype string) (string, bool) {
	s := strings.ToLower(subtype)
	for _, r := range subtypeRules {
		if strings.Contains(s, r.keyword) {
			return r.dataType, true
		}
	}
	return "", false
}

// Subtype reads the "subType" extension of the LCI method block.
func Subtype(ds *ilcd.Process) (string, error) {
	for _, a := range ds.ModellingAndValidation.LCIMethodAndAllocation.Other.Anies {
		if a.Name == nil || *a.Name != "subType" {
			continue
		}
		if s, ok := a.StringValue(); ok {
			return s, nil
		}
		return "", &apperr.MalformedValueError{Field: "subType", Value: a.RawValue()}
	}
	return "", apperr.Missing("modellingAndValidation.LCIMethodAndAllocation.other.anies[subType]")
}

// DataTypeResolver picks the data type label of a dataset.
type DataTypeResolver struct {
	Resolver Resolver
}

// Resolve returns one of lcabyg.DataTypes.
func (r *DataTypeResolver) Resolve(ctx context.Context, ds *ilcd.Process) (string, error) {
	id := ds.ProcessInformation.DataSetInformation.UUID
	subtype, err := Subtype(ds)
	if err != nil {
		return "", err
	}
	if dt, ok := MatchDataType(subtype); ok {
		logf(id, "data type %s from subtype %q", dt, subtype)
		return dt, nil
	}

	if r.Resolver == nil {
		return "", &apperr.ResolutionError{Step: "data type", Err: errors.New("no match for subtype " + quoteOrNone(subtype))}
	}
	idx, err := r.Resolver.ResolveDataType(ctx, DataTypePrompt{DatasetID: id, Subtype: subtype, Choices: lcabyg.DataTypes})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(lcabyg.DataTypes) {
		return "", &apperr.IndexOutOfRangeError{Index: idx, Len: len(lcabyg.DataTypes)}
	}
	return lcabyg.DataTypes[idx], nil
}
