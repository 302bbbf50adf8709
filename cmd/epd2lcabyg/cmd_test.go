package cmd

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
	"github.com/epd-tools/epd2lcabyg/internal/config"
	"github.com/epd-tools/epd2lcabyg/internal/converter"
	"github.com/epd-tools/epd2lcabyg/internal/fetcher"
	"github.com/epd-tools/epd2lcabyg/internal/ilcd"
	"github.com/epd-tools/epd2lcabyg/internal/ui"
)

func TestSearchFunc_MapsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") != "wool" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, `{"totalCount":1,"data":[
			{"uuid":"u1","name":"Mineral wool","nodeid":"IBU_DATA","geo":"DE","validUntil":2027}]}`)
	}))
	defer srv.Close()

	client := &fetcher.Client{HTTP: srv.Client()}
	node := fetcher.Node{ID: "TEST", BaseURL: srv.URL + "/resource/"}
	items, err := searchFunc(client, node, fetcher.SearchOptions{})(context.Background(), "wool")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d", len(items))
	}
	it := items[0]
	if it.UUID != "u1" || it.Name != "Mineral wool" || it.Node != "IBU_DATA" || it.Geo != "DE" || it.ValidUntil != "2027" {
		t.Fatalf("unexpected item %+v", it)
	}
}

func TestSourceFor(t *testing.T) {
	fallback := fetcher.Node{ID: "TEST", BaseURL: "http://example.invalid/resource/"}

	tests := []struct {
		name string
		node string
		want string
	}{
		{"known node", "IBU_DATA", "IBU_DATA"},
		{"case-insensitive", "oekobau.dat", fetcher.OekobaudatNode},
		{"unknown node", "SOMEWHERE", "TEST"},
		{"no node", "", "TEST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := sourceFor(ui.SearchItem{UUID: "u", Node: tt.node}, fallback)
			if src.Node.ID != tt.want || src.UUID != "u" {
				t.Fatalf("source = %+v, want node %s", src, tt.want)
			}
		})
	}
}

func TestConvertSettingsFromViper(t *testing.T) {
	t.Cleanup(func() {
		viper.Set("convert.format", nil)
		viper.Set("convert.output", nil)
	})
	cfg := config.Config{ResultFolder: "results", Strategy: "strict"}

	viper.Set("convert.format", "YAML")
	s, err := convertSettingsFromViper(cfg)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if s.Format != "yaml" || s.OutputDir != "results" || s.Strategy != "strict" {
		t.Fatalf("unexpected settings %+v", s)
	}

	viper.Set("convert.output", "out")
	viper.Set("convert.format", "xml")
	if _, err := convertSettingsFromViper(cfg); !apperr.IsUser(err) {
		t.Fatalf("expected user error for xml, got %v", err)
	}
}

func TestIndicatorRows(t *testing.T) {
	ds := `{"LCIAResults":{"LCIAResult":[{
		"referenceToLCIAMethodDataSet":{"shortDescription":[{"lang":"en","value":"Global warming (GWP)"}]},
		"other":{"anies":[
			{"module":"A1-A3","value":"10"},
			{"module":"C3","scenario":"incineration","value":2}
		]}}]}}`
	p := mustParse(t, ds)
	table, _, err := converter.ExtractIndicators(p)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	rows := indicatorRows(table)
	if len(rows) != 1 || rows[0].Code != "GWP" || rows[0].Total != 12 {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if got := rows[0].Amounts; len(got) != 2 || got[1].Scenario != "incineration" {
		t.Fatalf("unexpected amounts %+v", got)
	}
}

func mustParse(t *testing.T, js string) *ilcd.Process {
	t.Helper()
	p, err := ilcd.Parse([]byte(js))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return p
}
