// Package lcabyg holds the fixed LCAByg import schema produced by the
// converter: the Stage record, its node wrapper and the controlled
// vocabularies the downstream database accepts.
package lcabyg

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"maps"
	"os"
)

// AggregateModule is the synthetic module that collects A1, A2, A3 and A1-A3.
const AggregateModule = "A1to3"

// DanishSuffix marks the secondary-locale name.
const DanishSuffix = "_DK"

// LocalizedName carries the two output locales.
type LocalizedName struct {
	English string `json:"English" yaml:"English"`
	Danish  string `json:"Danish" yaml:"Danish"`
}

// Stage is one LCAByg stage record: the footprint of a product for one
// life-cycle module.
type Stage struct {
	ID              string             `json:"id" yaml:"id"`
	Stage           string             `json:"stage" yaml:"stage"`
	Name            LocalizedName      `json:"name" yaml:"name"`
	Comment         string             `json:"comment" yaml:"comment"`
	ValidTo         string             `json:"valid_to" yaml:"valid_to"`
	HyperCategory   string             `json:"hyper_category" yaml:"hyper_category"`
	StageUnit       string             `json:"stage_unit" yaml:"stage_unit"`
	IndicatorUnit   string             `json:"indicator_unit" yaml:"indicator_unit"`
	StageFactor     float64            `json:"stage_factor" yaml:"stage_factor"`
	IndicatorFactor float64            `json:"indicator_factor" yaml:"indicator_factor"`
	ExternalSource  string             `json:"external_source" yaml:"external_source"`
	ExternalID      string             `json:"external_id" yaml:"external_id"`
	ExternalVersion string             `json:"external_version" yaml:"external_version"`
	ExternalURL     string             `json:"external_url" yaml:"external_url"`
	DataType        string             `json:"data_type" yaml:"data_type"`
	Indicators      map[string]float64 `json:"indicators" yaml:"indicators"`
}

// Clone returns a deep copy. The indicators map is the only nested
// reference and gets its own backing storage.
func (s Stage) Clone() Stage {
	c := s
	c.Indicators = maps.Clone(s.Indicators)
	if c.Indicators == nil {
		c.Indicators = map[string]float64{}
	}
	return c
}

// Node is the envelope LCAByg expects around every record.
type Node struct {
	Node struct {
		Stage Stage `json:"Stage" yaml:"Stage"`
	} `json:"Node" yaml:"Node"`
}

// Wrap puts a stage into the single-element node list written to Stage.json.
func Wrap(s Stage) []Node {
	var n Node
	n.Node.Stage = s
	return []Node{n}
}

//go:embed templates/stage.json
var defaultTemplate []byte

// DefaultTemplate returns the embedded stage template.
func DefaultTemplate() (Stage, error) {
	return ParseTemplate(defaultTemplate)
}

// LoadTemplate reads a stage template from disk. An empty path selects the
// embedded template.
func LoadTemplate(path string) (Stage, error) {
	if path == "" {
		return DefaultTemplate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Stage{}, err
	}
	return ParseTemplate(data)
}

// ParseTemplate decodes a template in the node-list layout.
func ParseTemplate(data []byte) (Stage, error) {
	var nodes []Node
	if err := json.Unmarshal(data, &nodes); err != nil {
		return Stage{}, fmt.Errorf("decode stage template: %w", err)
	}
	if len(nodes) == 0 {
		return Stage{}, fmt.Errorf("stage template has no nodes")
	}
	return nodes[0].Node.Stage.Clone(), nil
}
