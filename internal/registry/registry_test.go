package registry

import (
	"testing"

	"rentscrape/internal/config"
	"rentscrape/internal/scrape/util"
)

func testConfig() config.Config {
	var cfg config.Config
	cfg.Buildings = []config.Building{
		{Name: "Alpha", Source: config.SourceAvalon, CommunityCode: "CA001"},
		{Name: "Beta", Source: config.SourceEquity, URLPath: "bay/beta-apartments"},
		{Name: "Gamma", Source: config.SourceAvalon, CommunityCode: "CA002"},
	}
	return cfg
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := New(testConfig(), util.NewClient(util.ClientOptions{}), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return reg
}

func TestNewBuildsAdaptersInOrder(t *testing.T) {
	reg := newTestRegistry(t)

	names := reg.Names()
	want := []string{"Alpha", "Beta", "Gamma"}
	if len(names) != len(want) {
		t.Fatalf("names: got %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names: got %v, want %v", names, want)
			break
		}
	}
	if kind := reg.All()[1].Source.Kind(); kind != "equity" {
		t.Errorf("Beta adapter kind: got %q", kind)
	}
}

func TestNewRejectsUnknownSource(t *testing.T) {
	cfg := testConfig()
	cfg.Buildings[0].Source = "craigslist"
	if _, err := New(cfg, util.NewClient(util.ClientOptions{}), nil); err == nil {
		t.Fatal("expected an error for an unknown source kind")
	}
}

func TestSelectAllWhenNoNames(t *testing.T) {
	reg := newTestRegistry(t)
	if got := len(reg.Select(nil)); got != 3 {
		t.Errorf("Select(nil): got %d buildings", got)
	}
}

func TestSelectSubsetPreservesOrder(t *testing.T) {
	reg := newTestRegistry(t)
	// Request order must not override registry order.
	got := reg.Select([]string{"Gamma", "Alpha"})
	if len(got) != 2 || got[0].Name != "Alpha" || got[1].Name != "Gamma" {
		t.Errorf("Select: got %v", got)
	}
}

func TestSelectUnknownNameSelectsNothing(t *testing.T) {
	reg := newTestRegistry(t)
	if got := reg.Select([]string{"Nowhere"}); len(got) != 0 {
		t.Errorf("Select(unknown): got %v", got)
	}
}

func TestSelectIsExactMatch(t *testing.T) {
	reg := newTestRegistry(t)
	if got := reg.Select([]string{"alpha"}); len(got) != 0 {
		t.Errorf("name matching is case-sensitive exact match, got %v", got)
	}
}
