package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mediarr/mediarr/internal/catalog"
	"github.com/mediarr/mediarr/internal/nfo"
	"github.com/mediarr/mediarr/pkg/mediafile"
	"github.com/mediarr/mediarr/pkg/naming"
)

// processUnitRoot classifies one unit root as a single- or multi-unit
// directory and folds its contents into the catalog.
func (s *Scanner) processUnitRoot(dsRoot, unitRoot string, obs *observed) (found, created int, err error) {
	obs.addDir(unitRoot)

	entries, err := os.ReadDir(unitRoot)
	if err != nil {
		return 0, 0, fmt.Errorf("list unit root: %w", err)
	}

	disc := false
	var videos []string
	titles := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() {
			switch strings.ToUpper(e.Name()) {
			case "BDMV", "VIDEO_TS", "HVDVD_TS":
				disc = true
			}
			continue
		}
		if mediafile.Classify(e.Name()) != mediafile.KindVideo {
			continue
		}
		videos = append(videos, e.Name())
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		titles[strings.ToLower(naming.ExtractTitle(stem))] = true
	}

	// A directory holds multiple units when its videos carry more than one
	// distinct title, or when the datasource root itself holds loose files.
	if !disc && (len(titles) > 1 || unitRoot == filepath.Clean(dsRoot)) {
		return s.parseMultiDir(dsRoot, unitRoot, entries, videos, obs)
	}
	return s.parseSingleDir(dsRoot, unitRoot, disc, obs)
}

// parseSingleDir handles a directory owned by exactly one unit. An NFO
// sidecar seeds a new unit's metadata; without one the directory name
// supplies title and year.
func (s *Scanner) parseSingleDir(dsRoot, unitRoot string, disc bool, obs *observed) (found, created int, err error) {
	existing, err := s.catalog.LookupByPath(unitRoot)
	if err != nil {
		return 0, 0, err
	}
	var unit *catalog.Unit
	for _, u := range existing {
		if !u.MultiDir {
			unit = u
			break
		}
	}
	isNew := unit == nil
	if isNew {
		unit = &catalog.Unit{
			Datasource: dsRoot,
			Path:       unitRoot,
			Disc:       disc,
			NewlyAdded: true,
		}
	}

	files, graphics, err := s.collectUnitFiles(unitRoot)
	if err != nil {
		return 0, 0, err
	}

	if isNew {
		s.seedFromNFO(unit, files)
		if unit.Title == "" {
			unit.Title, unit.Year = naming.ExtractTitleYear(filepath.Base(unitRoot))
		}
	}

	files = append(files, s.promoteGraphics(unit, files, graphics)...)

	for _, f := range files {
		obs.addFile(f.Path)
	}

	if isNew {
		unit.Files = files
		if err := s.catalog.Add(unit); err != nil {
			return 0, 0, err
		}
		return 1, 1, nil
	}
	for _, f := range files {
		if unit.HasFile(f.Path) {
			continue
		}
		if err := s.catalog.AddFileToUnit(unit, f); err != nil {
			return 0, 0, err
		}
	}
	return 1, 0, nil
}

// parseMultiDir handles a directory shared by several units. Videos are
// processed longest filename first so the most specific name claims its
// sibling files before a shorter prefix could take them; each file belongs
// to at most one unit.
func (s *Scanner) parseMultiDir(dsRoot, unitRoot string, entries []os.DirEntry, videos []string, obs *observed) (found, created int, err error) {
	pool := make(map[string]bool)
	for _, e := range entries {
		if !e.IsDir() {
			pool[e.Name()] = true
		}
	}

	sort.SliceStable(videos, func(i, j int) bool {
		if len(videos[i]) != len(videos[j]) {
			return len(videos[i]) > len(videos[j])
		}
		return videos[i] < videos[j]
	})

	existing, err := s.catalog.LookupByPath(unitRoot)
	if err != nil {
		return 0, 0, err
	}

	for _, name := range videos {
		if !pool[name] {
			// A longer sibling already claimed this part.
			continue
		}
		path := filepath.Join(unitRoot, name)
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		basename := naming.CleanStackingMarkers(stem)

		unit := findMultiUnit(existing, path, basename)
		isNew := unit == nil
		if isNew {
			unit = &catalog.Unit{
				Datasource: dsRoot,
				Path:       unitRoot,
				MultiDir:   true,
				NewlyAdded: true,
			}
			s.seedMultiUnit(unit, unitRoot, stem, basename)
		}

		files := s.claimFiles(unitRoot, basename, pool)
		for _, f := range files {
			obs.addFile(f.Path)
		}

		if isNew {
			unit.Files = files
			if err := s.catalog.Add(unit); err != nil {
				return found, created, err
			}
			existing = append(existing, unit)
			created++
		} else {
			for _, f := range files {
				if unit.HasFile(f.Path) {
					continue
				}
				if err := s.catalog.AddFileToUnit(unit, f); err != nil {
					return found, created, err
				}
			}
		}
		found++
	}
	return found, created, nil
}

// findMultiUnit matches a video file against units already cataloged for
// the directory, by exact path or by cleaned basename of an owned video.
func findMultiUnit(existing []*catalog.Unit, path, basename string) *catalog.Unit {
	for _, u := range existing {
		if u.HasFile(path) {
			return u
		}
		for _, f := range u.VideoFiles() {
			if strings.EqualFold(f.Basename, basename) {
				return u
			}
		}
	}
	return nil
}

// seedMultiUnit fills a fresh multi-dir unit from its NFO sidecar, falling
// back to the filename.
func (s *Scanner) seedMultiUnit(unit *catalog.Unit, dir, stem, basename string) {
	for _, candidate := range []string{stem + ".nfo", basename + ".nfo"} {
		movie, err := nfo.ReadFile(filepath.Join(dir, candidate))
		if err != nil {
			continue
		}
		movie.ApplyTo(unit)
		break
	}
	if unit.Title == "" {
		unit.Title, unit.Year = naming.ExtractTitleYear(stem)
	}
}

// claimFiles takes every unclaimed sibling whose name starts with the
// basename out of the pool and builds file records for the unit. Graphic
// files whose stem equals the basename become the poster; other graphics
// and unknowns are claimed but not attached.
func (s *Scanner) claimFiles(dir, basename string, pool map[string]bool) []*catalog.File {
	var names []string
	for name := range pool {
		if strings.HasPrefix(strings.ToLower(name), strings.ToLower(basename)) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var files []*catalog.File
	for _, name := range names {
		delete(pool, name)
		path := filepath.Join(dir, name)
		kind := mediafile.Classify(path)
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if kind == mediafile.KindGraphic &&
			strings.EqualFold(naming.CleanStackingMarkers(stem), basename) {
			kind = mediafile.KindPoster
		}
		if kind == mediafile.KindGraphic || kind == mediafile.KindUnknown {
			continue
		}
		files = append(files, newFile(path, kind))
	}
	return files
}

// collectUnitFiles walks a single-unit directory and builds file records
// for everything attachable. Graphic and unknown files come back in a
// separate list for the promotion pass.
func (s *Scanner) collectUnitFiles(unitRoot string) (files []*catalog.File, graphics []string, err error) {
	err = filepath.WalkDir(unitRoot, func(path string, d fs.DirEntry, werr error) error {
		if werr != nil {
			s.log.Warn("walk error", "path", path, "error", werr)
			return nil
		}
		if d.IsDir() {
			if path != unitRoot && s.skipInUnit(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		kind := mediafile.Classify(path)
		switch kind {
		case mediafile.KindGraphic, mediafile.KindUnknown:
			graphics = append(graphics, path)
			return nil
		}
		files = append(files, newFile(path, kind))
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return files, graphics, nil
}

// skipInUnit is the skip list applied inside a unit root. Extra-artwork
// folders are skipped during discovery but their contents belong to the
// unit.
func (s *Scanner) skipInUnit(name string) bool {
	switch strings.ToLower(name) {
	case "extrafanart", "extrathumbs":
		return false
	}
	return s.skipDir(name)
}

// seedFromNFO applies the first parseable NFO among the unit's files.
func (s *Scanner) seedFromNFO(unit *catalog.Unit, files []*catalog.File) {
	for _, f := range files {
		if f.Kind != mediafile.KindNFO {
			continue
		}
		movie, err := nfo.ReadFile(f.Path)
		if err != nil {
			s.log.Debug("nfo unusable", "path", f.Path, "error", err)
			continue
		}
		movie.ApplyTo(unit)
		return
	}
}

// promoteGraphics reclassifies otherwise-ignored graphic files as the
// poster when their basename matches the primary video's basename or the
// unit's title. This is the one path where a graphic enters the catalog.
func (s *Scanner) promoteGraphics(unit *catalog.Unit, files []*catalog.File, graphics []string) []*catalog.File {
	var videoStem, videoBase string
	for _, f := range files {
		if f.Kind == mediafile.KindVideo {
			name := filepath.Base(f.Path)
			videoStem = strings.TrimSuffix(name, filepath.Ext(name))
			videoBase = f.Basename
			break
		}
	}

	var promoted []*catalog.File
	for _, path := range graphics {
		if !mediafile.IsGraphic(path) {
			continue
		}
		name := filepath.Base(path)
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		match := (videoStem != "" && strings.EqualFold(stem, videoStem)) ||
			(videoBase != "" && strings.EqualFold(naming.CleanStackingMarkers(stem), videoBase)) ||
			(unit.Title != "" && strings.EqualFold(stem, unit.Title))
		if !match {
			continue
		}
		promoted = append(promoted, newFile(path, mediafile.KindPoster))
	}
	return promoted
}

func newFile(path string, kind mediafile.Kind) *catalog.File {
	name := filepath.Base(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	f := &catalog.File{
		Path:     path,
		Kind:     kind,
		Basename: naming.CleanStackingMarkers(stem),
		Disc:     mediafile.IsDiscFile(path),
	}
	if info, err := os.Stat(path); err == nil {
		f.SizeBytes = info.Size()
	}
	return f
}
