package catalog

import (
	"errors"
	"testing"
)

func TestStore_GetOrCreateSet(t *testing.T) {
	store := setupTestStore(t)

	set, created, err := store.GetOrCreateSet("10", "Star Wars Collection")
	if err != nil {
		t.Fatalf("GetOrCreateSet: %v", err)
	}
	if !created {
		t.Error("first call should create the set")
	}
	if set.ID == 0 {
		t.Error("ID should be set")
	}

	again, created, err := store.GetOrCreateSet("10", "Star Wars Collection")
	if err != nil {
		t.Fatalf("GetOrCreateSet (second): %v", err)
	}
	if created {
		t.Error("second call should not create a new set")
	}
	if again.ID != set.ID {
		t.Errorf("second call returned set %d, want %d", again.ID, set.ID)
	}
}

func TestStore_SetByCollectionID_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.SetByCollectionID("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("SetByCollectionID error = %v, want ErrNotFound", err)
	}
}

func TestStore_SetMembers_OrderedByYear(t *testing.T) {
	store := setupTestStore(t)

	set, _, err := store.GetOrCreateSet("1241", "Harry Potter Collection")
	if err != nil {
		t.Fatalf("GetOrCreateSet: %v", err)
	}

	// insert members out of release order
	second := testUnit("Harry Potter and the Chamber of Secrets", 2002, "/media/movies/HP2")
	second.SetID = &set.ID
	first := testUnit("Harry Potter and the Philosopher's Stone", 2001, "/media/movies/HP1")
	first.SetID = &set.ID
	for _, u := range []*Unit{second, first} {
		if err := store.AddUnit(u); err != nil {
			t.Fatalf("AddUnit: %v", err)
		}
	}

	members, err := store.SetMembers(set.ID)
	if err != nil {
		t.Fatalf("SetMembers: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("SetMembers returned %d units, want 2", len(members))
	}
	if members[0].Year != 2001 || members[1].Year != 2002 {
		t.Errorf("members not ordered by year: %d, %d", members[0].Year, members[1].Year)
	}

	count, err := store.SetMemberCount(set.ID)
	if err != nil {
		t.Fatalf("SetMemberCount: %v", err)
	}
	if count != 2 {
		t.Errorf("SetMemberCount = %d, want 2", count)
	}
}

func TestStore_DeleteUnit_LeavesSet(t *testing.T) {
	store := setupTestStore(t)

	set, _, err := store.GetOrCreateSet("99", "Lonely Collection")
	if err != nil {
		t.Fatalf("GetOrCreateSet: %v", err)
	}
	u := testUnit("Only Member", 2005, "/media/movies/Only Member (2005)")
	u.SetID = &set.ID
	if err := store.AddUnit(u); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}

	// the store does not own set lifecycle; deleting the unit keeps the
	// set, and emptying it is the service's job
	if err := store.DeleteUnit(u.ID); err != nil {
		t.Fatalf("DeleteUnit: %v", err)
	}
	if _, err := store.GetSet(set.ID); err != nil {
		t.Errorf("GetSet after member delete: %v", err)
	}
}
