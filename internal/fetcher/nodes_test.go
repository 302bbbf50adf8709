package fetcher

import (
	"strings"
	"testing"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
)

func TestLookupNode(t *testing.T) {
	n, err := LookupNode(" oekobau.dat ")
	if err != nil {
		t.Fatalf("LookupNode: %v", err)
	}
	if !n.Public || !n.Positional || n.ID != OekobaudatNode {
		t.Fatalf("unexpected node %+v", n)
	}
	if got := n.ProcessURL(" abc "); got != n.BaseURL+"processes/abc" {
		t.Fatalf("ProcessURL = %q", got)
	}

	eco, err := LookupNode(DefaultNode)
	if err != nil || eco.Public || eco.Positional {
		t.Fatalf("unexpected default node %+v, %v", eco, err)
	}

	_, err = LookupNode("NOPE")
	if !apperr.IsUser(err) || !strings.Contains(err.Error(), "ECOPLATFORM") {
		t.Fatalf("expected user error listing nodes, got %v", err)
	}
}

func TestNodes(t *testing.T) {
	all := Nodes()
	if len(all) != 11 || len(NodeIDs()) != 11 {
		t.Fatalf("expected 11 nodes, got %d", len(all))
	}
	for _, n := range all {
		if !strings.HasSuffix(n.BaseURL, "/resource/") && !strings.HasSuffix(n.BaseURL, "/") {
			t.Errorf("base url of %s must end with a slash", n.ID)
		}
		if n.Public != IsPublicURL(n.BaseURL) {
			t.Errorf("public flag of %s disagrees with its URL", n.ID)
		}
	}
	all[0].ID = "changed"
	if Nodes()[0].ID == "changed" {
		t.Fatalf("Nodes must return a copy")
	}
}
