package catalog

import "testing"

func TestStore_SearchDuplicates(t *testing.T) {
	store := setupTestStore(t)

	a := testUnit("Blade Runner", 1982, "/media/movies/Blade Runner (1982)")
	a.SetExternalID("imdb", "tt0083658")
	b := testUnit("Blade Runner Directors Cut", 1982, "/media/movies/Blade Runner DC")
	b.SetExternalID("imdb", "tt0083658")
	c := testUnit("Arrival", 2016, "/media/movies/Arrival (2016)")
	c.SetExternalID("imdb", "tt2543164")
	for _, u := range []*Unit{a, b, c} {
		if err := store.AddUnit(u); err != nil {
			t.Fatalf("AddUnit: %v", err)
		}
	}

	groups, err := store.SearchDuplicates()
	if err != nil {
		t.Fatalf("SearchDuplicates: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("SearchDuplicates returned %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.Provider != "imdb" || g.ExtID != "tt0083658" {
		t.Errorf("group = %s:%s, want imdb:tt0083658", g.Provider, g.ExtID)
	}
	// duplicate marking is symmetric: both units appear in the group
	if len(g.UnitIDs) != 2 {
		t.Fatalf("group has %d units, want 2", len(g.UnitIDs))
	}
	want := map[int64]bool{a.ID: true, b.ID: true}
	for _, id := range g.UnitIDs {
		if !want[id] {
			t.Errorf("unexpected unit %d in group", id)
		}
	}
}

func TestStore_SearchDuplicates_DifferentProviders(t *testing.T) {
	store := setupTestStore(t)

	// the same numeric id under different providers is not a duplicate
	a := testUnit("Movie A", 2000, "/media/movies/A")
	a.SetExternalID("tmdb", "550")
	b := testUnit("Movie B", 2001, "/media/movies/B")
	b.SetExternalID("tvdb", "550")
	for _, u := range []*Unit{a, b} {
		if err := store.AddUnit(u); err != nil {
			t.Fatalf("AddUnit: %v", err)
		}
	}

	groups, err := store.SearchDuplicates()
	if err != nil {
		t.Fatalf("SearchDuplicates: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("SearchDuplicates returned %d groups, want 0", len(groups))
	}
}
