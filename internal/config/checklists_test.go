package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultChecklists(t *testing.T) {
	cl := DefaultChecklists()

	for _, workType := range []string{"fra", "hsa", "water"} {
		if len(cl.HeadingsFor(workType)) == 0 {
			t.Errorf("no default headings for %q", workType)
		}
	}
	if len(cl.HeadingsFor("gas")) != 0 {
		t.Error("unknown work type should have no headings")
	}
	if cl.Water.ListingSection != "Areas Monitored" {
		t.Errorf("listing section = %q", cl.Water.ListingSection)
	}
	if len(cl.Water.ExpectedItems) != 3 {
		t.Errorf("expected items = %v", cl.Water.ExpectedItems)
	}
}

func TestLoadChecklists_EmptyPath(t *testing.T) {
	cl, err := LoadChecklists("")
	if err != nil {
		t.Fatalf("LoadChecklists: %v", err)
	}
	if !reflect.DeepEqual(cl, DefaultChecklists()) {
		t.Fatal("empty path should return the defaults")
	}
}

func TestLoadChecklists_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checklists.yaml")
	content := `headings:
  fra:
    - Executive Summary
    - Fire Safety Management
water:
  expected_items:
    - Sentinel Outlets
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cl, err := LoadChecklists(path)
	if err != nil {
		t.Fatalf("LoadChecklists: %v", err)
	}

	want := []string{"Executive Summary", "Fire Safety Management"}
	if !reflect.DeepEqual(cl.HeadingsFor("fra"), want) {
		t.Errorf("fra headings = %v, want %v", cl.HeadingsFor("fra"), want)
	}
	// Work types the file omits keep their defaults.
	if !reflect.DeepEqual(cl.HeadingsFor("hsa"), DefaultChecklists().HeadingsFor("hsa")) {
		t.Errorf("hsa headings = %v", cl.HeadingsFor("hsa"))
	}
	if !reflect.DeepEqual(cl.Water.ExpectedItems, []string{"Sentinel Outlets"}) {
		t.Errorf("expected items = %v", cl.Water.ExpectedItems)
	}
	// Water fields the file omits keep their defaults.
	if cl.Water.NarrativeSection != "Description of the Water Systems" {
		t.Errorf("narrative section = %q", cl.Water.NarrativeSection)
	}
}

func TestLoadChecklists_MissingFile(t *testing.T) {
	if _, err := LoadChecklists(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file should error")
	}
}
