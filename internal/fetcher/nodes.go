package fetcher

import (
	"fmt"
	"slices"
	"strings"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
)

// Node is a soda4LCA node serving EPD datasets.
type Node struct {
	ID      string
	BaseURL string
	// Public nodes are read without an API key.
	Public bool
	// Positional nodes classify datasets with the OEKOBAU.DAT scheme.
	Positional bool
}

// DefaultNode is searched when no node is given. It federates most others.
const DefaultNode = "ECOPLATFORM"

// OekobaudatNode is the public German node.
const OekobaudatNode = "OEKOBAU.DAT"

var nodes = []Node{
	{ID: "ECOPLATFORM", BaseURL: "https://data.eco-platform.org/resource/"},
	{ID: "ECOSMDP", BaseURL: "https://ecosmdp.eco-platform.org/resource/"},
	{ID: "IBU_DATA", BaseURL: "https://ibudata.lca-data.com/resource/"},
	{ID: "EPD-NORWAY_DIGI", BaseURL: "https://epdnorway.lca-data.com/resource/"},
	{ID: "ENVIRONDEC", BaseURL: "https://data.environdec.com/resource/"},
	{ID: "EPD_ITALY", BaseURL: "https://node.epditaly.it/Node/resource/"},
	{ID: "MRPI", BaseURL: "https://data.mrpi.nl/resource/"},
	{ID: "EPD_IRELAND", BaseURL: "https://epdireland.lca-data.com/resource/"},
	{ID: "ITBPOLAND", BaseURL: "https://itb.lca-data.com/resource/"},
	{ID: "BRE_EPD_Hub", BaseURL: "https://soda4lca.bregroup.com/resource/"},
	{
		ID:         OekobaudatNode,
		BaseURL:    "https://oekobaudat.de/OEKOBAU.DAT/resource/datastocks/cd2bda71-760b-4fcc-8a0b-3877c10000a8/",
		Public:     true,
		Positional: true,
	},
}

// Nodes returns the known nodes in display order.
func Nodes() []Node { return slices.Clone(nodes) }

// NodeIDs returns the ids of the known nodes.
func NodeIDs() []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// LookupNode finds a node by id, case-insensitively.
func LookupNode(id string) (Node, error) {
	id = strings.TrimSpace(id)
	for _, n := range nodes {
		if strings.EqualFold(n.ID, id) {
			return n, nil
		}
	}
	return Node{}, apperr.Userf("unknown node %q (known: %s)", id, strings.Join(NodeIDs(), ", "))
}

// ProcessesURL is the process collection of the node.
func (n Node) ProcessesURL() string { return n.BaseURL + "processes/" }

// ProcessURL is the address of one process dataset.
func (n Node) ProcessURL(uuid string) string {
	return n.ProcessesURL() + strings.TrimSpace(uuid)
}

func (n Node) String() string { return fmt.Sprintf("%s (%s)", n.ID, n.BaseURL) }

// IsPublicURL reports whether rawURL belongs to a node that must not
// receive an API key.
func IsPublicURL(rawURL string) bool {
	return strings.Contains(strings.ToLower(rawURL), "oekobaudat")
}
