package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
	"github.com/epd-tools/epd2lcabyg/internal/ilcd"
)

// ProcessResponse is a fetched process dataset.
type ProcessResponse struct {
	Node    Node
	URI     string
	Raw     []byte
	Process *ilcd.Process
}

// processQuery selects the extended JSON view, which carries flow
// properties and LCIA module values inline.
func processQuery() url.Values {
	return url.Values{"format": {"json"}, "view": {"extended"}}
}

// FetchProcess retrieves and decodes one process dataset from node.
func (c *Client) FetchProcess(ctx context.Context, node Node, uuid string) (*ProcessResponse, error) {
	uuid = strings.TrimSpace(uuid)
	if uuid == "" {
		return nil, apperr.User("a dataset UUID is required")
	}
	uri := node.ProcessURL(uuid)
	raw, err := c.Fetch(ctx, uri, processQuery())
	if err != nil {
		return nil, err
	}
	p, err := ilcd.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("decode process %s: %w", uuid, err)
	}
	return &ProcessResponse{Node: node, URI: uri, Raw: raw, Process: p}, nil
}
