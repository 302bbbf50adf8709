package ilcd

import "encoding/json"

// UnitGroup is the companion dataset that names the reference unit of a
// flow property.
type UnitGroup struct {
	UnitGroupInformation struct {
		DataSetInformation struct {
			UUID string       `json:"UUID"`
			Name []LangString `json:"name"`
		} `json:"dataSetInformation"`
		QuantitativeReference struct {
			ReferenceToReferenceUnit *int `json:"referenceToReferenceUnit"`
		} `json:"quantitativeReference"`
	} `json:"unitGroupInformation"`
	Units struct {
		Unit []Unit `json:"unit"`
	} `json:"units"`
}

// Unit is one member of a unit group.
type Unit struct {
	DataSetInternalID *int     `json:"dataSetInternalID"`
	Name              string   `json:"name"`
	MeanValue         FlexText `json:"meanValue"`
}

// ParseUnitGroup decodes a unit group dataset from JSON.
func ParseUnitGroup(data []byte) (*UnitGroup, error) {
	var g UnitGroup
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// ReferenceUnit returns the name of the unit the group's quantitative
// reference points at. The reference is the unit's internal ID; groups whose
// units omit IDs are addressed by position.
func (g *UnitGroup) ReferenceUnit() (string, bool) {
	ref := g.UnitGroupInformation.QuantitativeReference.ReferenceToReferenceUnit
	if ref == nil {
		return "", false
	}
	units := g.Units.Unit
	for _, u := range units {
		if u.DataSetInternalID != nil && *u.DataSetInternalID == *ref {
			return u.Name, u.Name != ""
		}
	}
	if *ref < 0 || *ref >= len(units) {
		return "", false
	}
	name := units[*ref].Name
	return name, name != ""
}
