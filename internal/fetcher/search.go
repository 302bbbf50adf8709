package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/epd-tools/epd2lcabyg/internal/ilcd"
)

// SearchResult is one dataset in a node search.
type SearchResult struct {
	UUID           string        `json:"uuid"`
	Name           string        `json:"name"`
	NodeID         string        `json:"nodeid"`
	Version        string        `json:"version"`
	Classification string        `json:"classific"`
	Owner          string        `json:"owner"`
	Geo            string        `json:"geo"`
	SubType        string        `json:"subType"`
	ReferenceYear  ilcd.FlexText `json:"referenceYear"`
	ValidUntil     ilcd.FlexText `json:"validUntil"`
}

// DisplayName returns the dataset name, or "None" as the nodes omit it for
// some datasets.
func (r SearchResult) DisplayName() string {
	if strings.TrimSpace(r.Name) == "" {
		return "None"
	}
	return r.Name
}

type searchResponse struct {
	TotalCount int            `json:"totalCount"`
	StartIndex int            `json:"startIndex"`
	PageSize   int            `json:"pageSize"`
	Data       []SearchResult `json:"data"`
}

// SearchPage is one page of search results.
type SearchPage struct {
	TotalCount int
	Results    []SearchResult
}

// SearchOptions narrows a search. Zero values use node defaults.
type SearchOptions struct {
	PageSize   int
	StartIndex int
	Location   string
}

// Search queries node for processes whose name matches keyword. Distributed
// search is requested, so results may come from other nodes; their NodeID
// says which.
func (c *Client) Search(ctx context.Context, node Node, keyword string, opts SearchOptions) (*SearchPage, error) {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	q := url.Values{
		"search":       {"true"},
		"metaDataOnly": {"false"},
		"distributed":  {"true"},
		"virtual":      {"true"},
		"format":       {"JSON"},
		"view":         {"extended"},
		"pageSize":     {strconv.Itoa(opts.PageSize)},
	}
	if kw := strings.TrimSpace(keyword); kw != "" {
		q.Set("name", kw)
	}
	if opts.StartIndex > 0 {
		q.Set("startIndex", strconv.Itoa(opts.StartIndex))
	}
	if loc := strings.TrimSpace(opts.Location); loc != "" {
		q.Set("location", loc)
	}

	// searches are not cached; results change as nodes publish
	body, err := c.get(ctx, CacheKey(node.ProcessesURL(), q))
	if err != nil {
		return nil, err
	}
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}
	for i := range resp.Data {
		if resp.Data[i].NodeID == "" {
			resp.Data[i].NodeID = node.ID
		}
	}
	return &SearchPage{TotalCount: resp.TotalCount, Results: resp.Data}, nil
}
