package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mediarr/mediarr/pkg/mediafile"
	"github.com/mediarr/mediarr/pkg/naming"
)

// discoverUnitRoots recursively finds every video file under the candidate
// directories and maps each back to the directory that represents its unit.
// Duplicates collapse, in discovery order.
func (s *Scanner) discoverUnitRoots(dsRoot string, candidates []string) []string {
	seen := make(map[string]bool)
	var roots []string
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			roots = append(roots, dir)
		}
	}

	for _, candidate := range candidates {
		err := filepath.WalkDir(candidate, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				s.log.Warn("walk error", "path", path, "error", err)
				return nil
			}
			if d.IsDir() {
				if path != candidate && s.skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if mediafile.Classify(path) != mediafile.KindVideo {
				return nil
			}
			add(s.unitRootFor(dsRoot, path))
			return nil
		})
		if err != nil {
			s.log.Warn("walk failed", "path", candidate, "error", err)
		}
	}
	return roots
}

// unitRootFor determines the unit root for one video file. Files inside a
// disc structure collapse to the directory holding BDMV/VIDEO_TS. A
// stacked-part folder ("Movie CD1/") at least two levels below the
// datasource root with no further subdirectories collapses to its parent,
// so per-part folders of one release form a single unit.
func (s *Scanner) unitRootFor(dsRoot, videoPath string) string {
	dir := filepath.Dir(videoPath)

	if mediafile.IsDiscFile(videoPath) {
		if root := mediafile.DiscRoot(dir); root != "" {
			return root
		}
	}

	if naming.HasStackingMarker(filepath.Base(dir)) &&
		depthBelow(dsRoot, dir) >= 2 && !hasSubdirs(dir) {
		return filepath.Dir(dir)
	}
	return dir
}

// depthBelow counts directory levels between a root and a descendant.
// 0 means the paths are equal or unrelated.
func depthBelow(root, dir string) int {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return 0
	}
	return len(strings.Split(filepath.ToSlash(rel), "/"))
}

func hasSubdirs(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() {
			return true
		}
	}
	return false
}
