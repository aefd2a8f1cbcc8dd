package catalog

import (
	"errors"
	"fmt"
	"time"
)

const setColumns = `id, title, collection_id, plot, poster_url, fanart_url, added_at, updated_at`

func scanSet(row rowScanner) (*Set, error) {
	s := &Set{}
	err := row.Scan(&s.ID, &s.Title, &s.CollectionID, &s.Plot, &s.PosterURL,
		&s.FanartURL, &s.AddedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func addSet(q querier, set *Set) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO sets (title, collection_id, plot, poster_url, fanart_url, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		set.Title, set.CollectionID, set.Plot, set.PosterURL, set.FanartURL, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert set: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	set.ID = id
	set.AddedAt = now
	set.UpdatedAt = now
	return nil
}

// AddSet inserts a new set. Sets ID, AddedAt, and UpdatedAt on the
// struct. Returns ErrDuplicate when the collection id is already taken.
func (s *Store) AddSet(set *Set) error { return addSet(s.db, set) }

// AddSet inserts a new set within a transaction.
func (t *Tx) AddSet(set *Set) error { return addSet(t.tx, set) }

// GetSet retrieves a set by ID.
// Returns ErrNotFound if the set does not exist.
func (s *Store) GetSet(id int64) (*Set, error) {
	set, err := scanSet(s.db.QueryRow("SELECT "+setColumns+" FROM sets WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get set %d: %w", id, mapSQLiteError(err))
	}
	return set, nil
}

// SetByCollectionID retrieves a set by its external collection id.
// Returns ErrNotFound when no set carries the id.
func (s *Store) SetByCollectionID(collectionID string) (*Set, error) {
	set, err := scanSet(s.db.QueryRow(
		"SELECT "+setColumns+" FROM sets WHERE collection_id = ?", collectionID))
	if err != nil {
		return nil, fmt.Errorf("set by collection id %s: %w", collectionID, mapSQLiteError(err))
	}
	return set, nil
}

// GetOrCreateSet returns the set with the given external collection id,
// creating it when absent. A collection id never produces two sets: a
// concurrent insert losing the unique-index race falls back to the
// existing row.
func (s *Store) GetOrCreateSet(collectionID, title string) (*Set, bool, error) {
	set, err := s.SetByCollectionID(collectionID)
	if err == nil {
		return set, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	set = &Set{Title: title, CollectionID: collectionID}
	if err := s.AddSet(set); err != nil {
		if errors.Is(err, ErrDuplicate) {
			existing, lookupErr := s.SetByCollectionID(collectionID)
			if lookupErr != nil {
				return nil, false, lookupErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return set, true, nil
}

// UpdateSet updates an existing set. Sets UpdatedAt on the struct.
// Returns ErrNotFound if the set does not exist.
func (s *Store) UpdateSet(set *Set) error {
	now := time.Now()
	result, err := s.db.Exec(`
		UPDATE sets SET title = ?, collection_id = ?, plot = ?, poster_url = ?, fanart_url = ?, updated_at = ?
		WHERE id = ?`,
		set.Title, set.CollectionID, set.Plot, set.PosterURL, set.FanartURL, now, set.ID,
	)
	if err != nil {
		return fmt.Errorf("update set %d: %w", set.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update set %d: %w", set.ID, ErrNotFound)
	}
	set.UpdatedAt = now
	return nil
}

// DeleteSet removes a set by ID; member units keep their rows with the
// set reference cleared by the schema.
// This operation is idempotent - no error is returned if the set does
// not exist.
func (s *Store) DeleteSet(id int64) error {
	_, err := s.db.Exec("DELETE FROM sets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete set %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// ListSets returns all sets ordered by title.
func (s *Store) ListSets() ([]*Set, error) {
	rows, err := s.db.Query("SELECT " + setColumns + " FROM sets ORDER BY title")
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Set
	for rows.Next() {
		set, err := scanSet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		results = append(results, set)
	}
	return results, rows.Err()
}

// SetMemberCount returns the number of units referencing the set.
func (s *Store) SetMemberCount(setID int64) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM units WHERE set_id = ?", setID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("set member count: %w", err)
	}
	return count, nil
}

// SetMembers returns the set's units ordered by year, then title, which
// is the presentation order for collections.
func (s *Store) SetMembers(setID int64) ([]*Unit, error) {
	rows, err := s.db.Query(
		"SELECT "+unitColumns+" FROM units WHERE set_id = ? ORDER BY year, title", setID)
	if err != nil {
		return nil, fmt.Errorf("set members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		results = append(results, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, u := range results {
		if err := loadUnitRelations(s.db, u); err != nil {
			return nil, err
		}
	}
	return results, nil
}
