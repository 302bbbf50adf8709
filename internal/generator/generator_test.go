package generator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/epd-tools/epd2lcabyg/internal/fetcher"
)

const abcUUID = "5e8b7f0e-2f4b-4a39-9d2c-8a2f8b0d1c01"

func fixture(t *testing.T) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", "abc.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return b
}

func testNode(t *testing.T) (fetcher.Node, *fetcher.Client) {
	t.Helper()
	body := fixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/resource/processes/"+abcUUID {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("view") != "extended" {
			t.Errorf("missing extended view in %s", r.URL)
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return fetcher.Node{ID: "TEST", BaseURL: srv.URL + "/resource/"}, &fetcher.Client{HTTP: srv.Client()}
}

func TestRun_RemoteSources(t *testing.T) {
	node, client := testNode(t)
	out := t.TempDir()

	var events []ProgressEvent
	outcomes, err := Run(context.Background(), ParseSources(node, []string{abcUUID + ", missing"}), Options{
		Client:     client,
		OutputDir:  out,
		Format:     "json",
		Workbook:   true,
		OnProgress: func(e ProgressEvent) { events = append(events, e) },
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("outcomes = %d", len(outcomes))
	}

	ok := outcomes[0]
	if ok.Err != nil {
		t.Fatalf("first source failed: %v", ok.Err)
	}
	if ok.Folder != filepath.Join(out, "Mineral_wool_board") {
		t.Fatalf("folder = %q", ok.Folder)
	}
	for _, m := range []string{"A1to3", "C3"} {
		if _, err := os.Stat(filepath.Join(ok.Folder, m, "Stage.json")); err != nil {
			t.Fatalf("missing %s stage: %v", m, err)
		}
	}
	if _, err := os.Stat(ok.Workbook); err != nil {
		t.Fatalf("missing workbook: %v", err)
	}
	if !strings.Contains(ok.Conversion.Results[0].Stage.ExternalURL, "/resource/processes/"+abcUUID) {
		t.Fatalf("external url = %q", ok.Conversion.Results[0].Stage.ExternalURL)
	}

	bad := outcomes[1]
	if !fetcher.IsNotFound(bad.Err) {
		t.Fatalf("expected not-found error, got %v", bad.Err)
	}
	if !strings.Contains(bad.Err.Error(), "check --node") {
		t.Fatalf("expected hint in error, got %v", bad.Err)
	}

	var completed, failed int
	for _, e := range events {
		switch e.Type {
		case EventDatasetComplete:
			completed++
			if e.Stages != 2 {
				t.Fatalf("stages in event = %d", e.Stages)
			}
		case EventError:
			failed++
		}
	}
	if completed != 1 || failed != 1 {
		t.Fatalf("completed=%d failed=%d", completed, failed)
	}
}

func TestRun_LocalFileYAML(t *testing.T) {
	out := t.TempDir()
	outcomes, err := Run(context.Background(), []Source{{File: filepath.Join("testdata", "abc.json")}}, Options{
		OutputDir:        out,
		Format:           "yaml",
		SuffixModuleName: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].Err != nil {
		t.Fatalf("unexpected outcomes %+v", outcomes)
	}
	if _, err := os.Stat(filepath.Join(outcomes[0].Folder, "A1to3", "Stage.yaml")); err != nil {
		t.Fatalf("missing yaml stage: %v", err)
	}
	if got := outcomes[0].Conversion.Results[1].Stage.Name.English; got != "Mineral wool board C3" {
		t.Fatalf("name = %q", got)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := Run(ctx, []Source{{File: filepath.Join("testdata", "abc.json")}}, Options{OutputDir: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(outcomes) != 0 {
		t.Fatalf("expected no outcomes, got %d", len(outcomes))
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(context.Background(), nil, Source{UUID: abcUUID}); err == nil {
		t.Fatalf("expected error without client")
	}
	if _, err := Load(context.Background(), nil, Source{File: filepath.Join(t.TempDir(), "nope.json")}); err == nil {
		t.Fatalf("expected error for missing file")
	}

	p := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(p, []byte(`{`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(context.Background(), nil, Source{File: p}); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoad_FileWithNode(t *testing.T) {
	node := fetcher.Node{ID: "X", BaseURL: "https://node.example/resource/"}
	l, err := Load(context.Background(), nil, Source{Node: node, File: filepath.Join("testdata", "abc.json")})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l.URI != "https://node.example/resource/processes/"+abcUUID {
		t.Fatalf("uri = %q", l.URI)
	}
}

func TestParseSources(t *testing.T) {
	got := ParseSources(fetcher.Node{ID: "N"}, []string{"a, b", " ", "c"})
	if len(got) != 3 || got[0].UUID != "a" || got[1].UUID != "b" || got[2].UUID != "c" || got[2].Node.ID != "N" {
		t.Fatalf("unexpected sources %+v", got)
	}
}
