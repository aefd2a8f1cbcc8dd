package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mediarr/mediarr/internal/events"
)

// Catalog is the shared mutable view of the library. Reads may run
// concurrently; mutating operations (add, remove, persist, set
// maintenance) are serialized under a write lock because scan and scrape
// workers touch the catalog from multiple goroutines.
type Catalog struct {
	mu    sync.RWMutex
	store *Store
	bus   *events.Bus
	log   *slog.Logger
}

// New creates a catalog service. The bus may be nil to disable change
// notification.
func New(store *Store, bus *events.Bus, log *slog.Logger) *Catalog {
	if log == nil {
		log = slog.Default()
	}
	return &Catalog{store: store, bus: bus, log: log}
}

// Store exposes the underlying store for read-mostly callers (CLI
// listings, tests).
func (c *Catalog) Store() *Store { return c.store }

func (c *Catalog) publish(e events.Event) {
	if c.bus != nil {
		c.bus.Publish(e)
	}
}

// Add inserts a unit into the catalog. Adding a unit that is already
// present by identity is a no-op, not an error.
func (c *Catalog) Add(u *Unit) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if u.ID != 0 {
		return nil
	}
	if err := c.store.AddUnit(u); err != nil {
		return err
	}
	for _, f := range u.Files {
		f.UnitID = u.ID
		if err := c.store.AddFile(f); err != nil && !errors.Is(err, ErrDuplicate) {
			return err
		}
	}
	c.publish(events.UnitAdded{
		BaseEvent:  events.NewBaseEvent(events.TypeUnitAdded, "unit", u.ID),
		Title:      u.Title,
		Year:       u.Year,
		Path:       u.Path,
		Datasource: u.Datasource,
	})
	return nil
}

// Persist writes the unit's current state. New units are added, existing
// units updated.
func (c *Catalog) Persist(u *Unit) error {
	if u.ID == 0 {
		return c.Add(u)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.UpdateUnit(u); err != nil {
		return err
	}
	c.publish(events.UnitUpdated{
		BaseEvent: events.NewBaseEvent(events.TypeUnitUpdated, "unit", u.ID),
		Title:     u.Title,
	})
	return nil
}

// Remove deletes a unit. A unit belonging to a set is detached first; a
// set left empty is deleted.
func (c *Catalog) Remove(u *Unit) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.detachFromSetLocked(u); err != nil {
		return err
	}
	if err := c.store.DeleteUnit(u.ID); err != nil {
		return err
	}
	c.publish(events.UnitRemoved{
		BaseEvent: events.NewBaseEvent(events.TypeUnitRemoved, "unit", u.ID),
		Title:     u.Title,
		Path:      u.Path,
	})
	return nil
}

// LookupByID retrieves a unit by its catalog id.
func (c *Catalog) LookupByID(id int64) (*Unit, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.GetUnit(id)
}

// LookupByPath returns the units rooted at a directory. The result has
// more than one entry only for multi-unit directories.
func (c *Catalog) LookupByPath(path string) ([]*Unit, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.UnitsByPath(path)
}

// AddFileToUnit attaches a file record to a unit, ignoring paths the
// catalog already tracks.
func (c *Catalog) AddFileToUnit(u *Unit, f *File) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f.UnitID = u.ID
	if err := c.store.AddFile(f); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil
		}
		return err
	}
	u.Files = append(u.Files, f)
	return nil
}

// DetachFile removes a file record from its unit.
func (c *Catalog) DetachFile(u *Unit, f *File) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.DeleteFile(f.ID); err != nil {
		return err
	}
	for i, cur := range u.Files {
		if cur.ID == f.ID {
			u.Files = append(u.Files[:i], u.Files[i+1:]...)
			break
		}
	}
	return nil
}

// GetOrCreateSet resolves a set by external collection id, creating it
// when absent. Two calls with the same id always yield the same set.
func (c *Catalog) GetOrCreateSet(collectionID, title string) (*Set, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	set, created, err := c.store.GetOrCreateSet(collectionID, title)
	if err != nil {
		return nil, err
	}
	if created {
		c.publish(events.SetCreated{
			BaseEvent:    events.NewBaseEvent(events.TypeSetCreated, "set", set.ID),
			Title:        set.Title,
			CollectionID: set.CollectionID,
		})
	}
	return set, nil
}

// AttachToSet moves a unit into a set, detaching it from any prior set
// first. The unit is persisted.
func (c *Catalog) AttachToSet(u *Unit, set *Set) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if u.SetID != nil && *u.SetID == set.ID {
		return nil
	}
	if err := c.detachFromSetLocked(u); err != nil {
		return err
	}
	u.SetID = &set.ID
	return c.store.UpdateUnit(u)
}

// DetachFromSet removes a unit from its set and persists it. A set left
// without members is deleted.
func (c *Catalog) DetachFromSet(u *Unit) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.detachFromSetLocked(u); err != nil {
		return err
	}
	if u.ID != 0 {
		return c.store.UpdateUnit(u)
	}
	return nil
}

func (c *Catalog) detachFromSetLocked(u *Unit) error {
	if u.SetID == nil {
		return nil
	}
	setID := *u.SetID
	u.SetID = nil
	if u.ID != 0 {
		if err := c.store.UpdateUnit(u); err != nil {
			return err
		}
	}

	count, err := c.store.SetMemberCount(setID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	set, err := c.store.GetSet(setID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if err := c.store.DeleteSet(setID); err != nil {
		return err
	}
	c.publish(events.SetRemoved{
		BaseEvent: events.NewBaseEvent(events.TypeSetRemoved, "set", setID),
		Title:     set.Title,
	})
	return nil
}

// SearchDuplicates scans for units sharing external ids. See
// Store.SearchDuplicates.
func (c *Catalog) SearchDuplicates() ([]DuplicateGroup, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.SearchDuplicates()
}

// TitleMatch is one fuzzy title-search hit.
type TitleMatch struct {
	Unit *Unit
	Rank int
}

// SearchTitles returns units whose title fuzzily matches the query,
// best matches first.
func (c *Catalog) SearchTitles(query string) ([]TitleMatch, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	units, _, err := c.store.ListUnits(UnitFilter{})
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}

	var matches []TitleMatch
	for _, u := range units {
		rank := fuzzy.RankMatchNormalizedFold(query, u.Title)
		if rank < 0 {
			continue
		}
		matches = append(matches, TitleMatch{Unit: u, Rank: rank})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Rank < matches[j].Rank })
	return matches, nil
}
