package scanner

import (
	"os"
	"sync"

	"github.com/mediarr/mediarr/internal/catalog"
	"github.com/mediarr/mediarr/internal/events"
)

// observed tracks every directory and file seen during one pass. Workers
// record into it concurrently.
type observed struct {
	mu      sync.Mutex
	dirs    map[string]bool
	files   map[string]bool
	found   int
	created int
}

func newObserved() *observed {
	return &observed{dirs: make(map[string]bool), files: make(map[string]bool)}
}

func (o *observed) addDir(path string) {
	o.mu.Lock()
	o.dirs[path] = true
	o.mu.Unlock()
}

func (o *observed) addFile(path string) {
	o.mu.Lock()
	o.files[path] = true
	o.mu.Unlock()
}

func (o *observed) hasDir(path string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dirs[path]
}

func (o *observed) hasFile(path string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.files[path]
}

func (o *observed) addCounts(found, created int) {
	o.mu.Lock()
	o.found += found
	o.created += created
	o.mu.Unlock()
}

func (o *observed) counts() (found, created int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.found, o.created
}

// reconcile removes units of the datasource whose directory was neither
// observed this pass nor still exists on disk, and prunes stale file
// references from observed units. A directory that was missed but still
// exists is left alone; only filesystem-confirmed absence removes a unit.
func (s *Scanner) reconcile(dsRoot string, obs *observed) (int, error) {
	units, _, err := s.catalog.Store().ListUnits(catalog.UnitFilter{Datasource: &dsRoot})
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, u := range units {
		if !obs.hasDir(u.Path) {
			if _, err := os.Stat(u.Path); err == nil {
				s.log.Warn("unit directory missed by scan but still on disk", "path", u.Path)
				continue
			} else if !os.IsNotExist(err) {
				// Absence could not be confirmed; keep the unit.
				s.log.Warn("unit directory unverifiable", "path", u.Path, "error", err)
				continue
			}
			if err := s.catalog.Remove(u); err != nil {
				s.log.Error("remove orphan failed", "path", u.Path, "error", err)
				continue
			}
			removed++
			s.report(events.SeverityInfo, u.Path, "scan.unit_removed", u.Title)
			continue
		}

		// File lists of units created this pass were just built.
		if u.NewlyAdded {
			continue
		}
		pruned := false
		for _, f := range append([]*catalog.File(nil), u.Files...) {
			if obs.hasFile(f.Path) {
				continue
			}
			if _, err := os.Stat(f.Path); err == nil {
				continue
			}
			if err := s.catalog.DetachFile(u, f); err != nil {
				s.log.Error("detach stale file failed", "path", f.Path, "error", err)
				continue
			}
			pruned = true
		}
		if pruned {
			if err := s.catalog.Persist(u); err != nil {
				s.log.Error("persist after prune failed", "path", u.Path, "error", err)
			}
		}
	}
	return removed, nil
}
