package lcabyg

import (
	"slices"
	"strings"
)

// HyperCategories is the ordered list of LCAByg material buckets. Positional
// classification schemes index into it 1-based.
var HyperCategories = []string{
	"Mineralske_byggematerialer",
	"Isoleringsmaterialer",
	"Træ",
	"Metaller",
	"Overfladebehandlinger",
	"Plast",
	"Komponenter_til_vinduer_og_glasfacader",
	"Bygningsinstallationer",
	"Andet",
	"Kompositter",
	"Endt_levetid",
}

// Units accepted for stage_unit and indicator_unit.
var Units = []string{"KG", "M", "M2", "M3", "STK", "L", "TON"}

// Data type labels, in the order interactive choices are indexed.
const (
	DataTypeGeneric        = "Generic"
	DataTypeSpecific       = "Specific"
	DataTypeTemplate       = "Skabelon"
	DataTypeRepresentative = "Repræsentativt"
	DataTypeAverage        = "Gennemsnitligt"
)

// DataTypes lists the accepted data_type labels.
var DataTypes = []string{
	DataTypeGeneric,
	DataTypeSpecific,
	DataTypeTemplate,
	DataTypeRepresentative,
	DataTypeAverage,
}

// IsUnit reports whether u (case-insensitive) is an accepted unit.
func IsUnit(u string) bool {
	return slices.Contains(Units, strings.ToUpper(strings.TrimSpace(u)))
}

// IsHyperCategory reports whether c is one of the hyper categories.
func IsHyperCategory(c string) bool { return slices.Contains(HyperCategories, c) }

// IsDataType reports whether d is one of the data type labels.
func IsDataType(d string) bool { return slices.Contains(DataTypes, d) }
