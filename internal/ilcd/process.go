// Package ilcd decodes the parts of an ILCD+EPD process dataset (as served in
// JSON by soda4LCA nodes) that the converter reads.
//
// Only the fields the conversion needs are modelled. The JSON served by the
// nodes is inconsistently populated, so every nested block is optional and
// the accessors report absence instead of panicking.
package ilcd

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Process is the root of a process dataset.
type Process struct {
	ProcessInformation        ProcessInformation        `json:"processInformation"`
	ModellingAndValidation    ModellingAndValidation    `json:"modellingAndValidation"`
	AdministrativeInformation AdministrativeInformation `json:"administrativeInformation"`
	Exchanges                 Exchanges                 `json:"exchanges"`
	LCIAResults               LCIAResults               `json:"LCIAResults"`
}

type ProcessInformation struct {
	DataSetInformation    DataSetInformation    `json:"dataSetInformation"`
	QuantitativeReference QuantitativeReference `json:"quantitativeReference"`
	Time                  Time                  `json:"time"`
}

type DataSetInformation struct {
	UUID                      string                    `json:"UUID"`
	Name                      Name                      `json:"name"`
	ClassificationInformation ClassificationInformation `json:"classificationInformation"`
	GeneralComment            []LangString              `json:"generalComment"`
}

type Name struct {
	BaseName []LangString `json:"baseName"`
}

// LangString is a localized string value.
type LangString struct {
	Lang  string `json:"lang"`
	Value string `json:"value"`
}

type ClassificationInformation struct {
	Classification []Classification `json:"classification"`
}

// Classification is one classification system applied to the dataset.
type Classification struct {
	Name    string  `json:"name"`
	Classes string  `json:"classes"`
	Class   []Class `json:"class"`
}

// Class is one level of a classification path.
type Class struct {
	Level   int      `json:"level"`
	ClassID FlexText `json:"classId"`
	Value   string   `json:"value"`
}

type QuantitativeReference struct {
	Type                     string `json:"type"`
	ReferenceToReferenceFlow []int  `json:"referenceToReferenceFlow"`
}

type Time struct {
	ReferenceYear     FlexText `json:"referenceYear"`
	DataSetValidUntil FlexText `json:"dataSetValidUntil"`
}

type ModellingAndValidation struct {
	LCIMethodAndAllocation LCIMethodAndAllocation `json:"LCIMethodAndAllocation"`
}

type LCIMethodAndAllocation struct {
	TypeOfDataSet string `json:"typeOfDataSet"`
	Other         Other  `json:"other"`
}

type AdministrativeInformation struct {
	DataEntryBy             DataEntryBy             `json:"dataEntryBy"`
	PublicationAndOwnership PublicationAndOwnership `json:"publicationAndOwnership"`
}

type DataEntryBy struct {
	ReferenceToDataSetFormat []Reference `json:"referenceToDataSetFormat"`
}

type PublicationAndOwnership struct {
	DataSetVersion string `json:"dataSetVersion"`
}

// Reference is a global reference to another dataset.
type Reference struct {
	RefObjectID      string       `json:"refObjectId"`
	Type             string       `json:"type"`
	URI              string       `json:"uri"`
	ShortDescription []LangString `json:"shortDescription"`
}

type Exchanges struct {
	Exchange []Exchange `json:"exchange"`
}

// Exchange is one input or output flow of the process.
type Exchange struct {
	DataSetInternalID int            `json:"dataSetInternalID"`
	ReferenceToFlow   Reference      `json:"referenceToFlowDataSet"`
	FlowProperties    []FlowProperty `json:"flowProperties"`
}

// FlowProperty is the extended-view flow property block attached to an
// exchange. ReferenceUnit is only present on some nodes.
type FlowProperty struct {
	UUID          string       `json:"uuid"`
	Name          []LangString `json:"name"`
	MeanValue     *float64     `json:"meanValue"`
	ReferenceUnit *string      `json:"referenceUnit"`
	UnitGroupUUID string       `json:"unitGroupUUID"`
}

type LCIAResults struct {
	LCIAResult []LCIAResult `json:"LCIAResult"`
}

// LCIAResult holds one impact indicator and its per-module values.
type LCIAResult struct {
	ReferenceToLCIAMethodDataSet Reference `json:"referenceToLCIAMethodDataSet"`
	MeanAmount                   *float64  `json:"meanAmount"`
	Other                        Other     `json:"other"`
}

// Other is the ILCD extension container.
type Other struct {
	Anies []Any `json:"anies"`
}

// Any is one entry of an "anies" extension list. Entries are heterogeneous:
// module amounts carry Module, unit references carry Name, and subtype
// declarations carry Name="subType" with a plain string value.
type Any struct {
	Name     *string         `json:"name"`
	Module   *string         `json:"module"`
	Scenario *string         `json:"scenario"`
	Value    json.RawMessage `json:"value"`
}

// HasModule reports whether the entry is a module amount.
func (a Any) HasModule() bool { return a.Module != nil }

// HasName reports whether the entry carries a name key.
func (a Any) HasName() bool { return a.Name != nil }

// StringValue returns the value when it is a JSON string.
func (a Any) StringValue() (string, bool) {
	v := bytes.TrimSpace(a.Value)
	if len(v) == 0 || v[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}

// NumberValue reads the value as a float. Nodes serve amounts either as JSON
// numbers or as numeric strings ("1.2E1"). NaN and infinities are not
// amounts and report false.
func (a Any) NumberValue() (float64, bool) {
	v := bytes.TrimSpace(a.Value)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return 0, false
	}
	if s, ok := a.StringValue(); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		return 0, false
	}
	return f, true
}

// RawValue returns the raw JSON text of the value, for error messages.
func (a Any) RawValue() string {
	if s, ok := a.StringValue(); ok {
		return s
	}
	return string(bytes.TrimSpace(a.Value))
}

// ReferenceValue decodes the value as a dataset reference (used by the unit
// entry of an LCIA result).
func (a Any) ReferenceValue() (Reference, bool) {
	v := bytes.TrimSpace(a.Value)
	if len(v) == 0 || v[0] != '{' {
		return Reference{}, false
	}
	var r Reference
	if err := json.Unmarshal(v, &r); err != nil {
		return Reference{}, false
	}
	return r, true
}

// FlexText accepts a JSON string or number and keeps its text form.
type FlexText string

func (t *FlexText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = FlexText(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = FlexText(n.String())
	return nil
}

func (t FlexText) String() string { return string(t) }

// Parse decodes a process dataset from JSON.
func Parse(data []byte) (*Process, error) {
	var p Process
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// First returns the first non-empty value of a localized string list.
func First(values []LangString) (string, bool) {
	for _, v := range values {
		if s := strings.TrimSpace(v.Value); s != "" {
			return s, true
		}
	}
	return "", false
}
