package catalog

import (
	"fmt"
	"sort"
)

// DuplicateGroup holds the units sharing one external id.
type DuplicateGroup struct {
	Provider string
	ExtID    string
	UnitIDs  []int64
}

// SearchDuplicates scans the whole catalog for units sharing a non-empty
// external id. Each id namespace is checked independently, and every
// member of a group is flagged, so the relation is symmetric. Units with
// no external ids are never flagged.
func (s *Store) SearchDuplicates() ([]DuplicateGroup, error) {
	rows, err := s.db.Query(`
		SELECT e.provider, e.ext_id, e.unit_id
		FROM unit_external_ids e
		JOIN (
			SELECT provider, ext_id
			FROM unit_external_ids
			WHERE ext_id != ''
			GROUP BY provider, ext_id
			HAVING COUNT(*) > 1
		) d ON e.provider = d.provider AND e.ext_id = d.ext_id
		ORDER BY e.provider, e.ext_id, e.unit_id`)
	if err != nil {
		return nil, fmt.Errorf("search duplicates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	groupIdx := make(map[string]int)
	var groups []DuplicateGroup
	for rows.Next() {
		var provider, extID string
		var unitID int64
		if err := rows.Scan(&provider, &extID, &unitID); err != nil {
			return nil, fmt.Errorf("scan duplicate: %w", err)
		}
		key := provider + "\x00" + extID
		idx, ok := groupIdx[key]
		if !ok {
			idx = len(groups)
			groupIdx[key] = idx
			groups = append(groups, DuplicateGroup{Provider: provider, ExtID: extID})
		}
		groups[idx].UnitIDs = append(groups[idx].UnitIDs, unitID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Provider != groups[j].Provider {
			return groups[i].Provider < groups[j].Provider
		}
		return groups[i].ExtID < groups[j].ExtID
	})
	return groups, nil
}
