package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const unitColumns = `id, title, original_title, tagline, plot, year, release_date,
	rating, votes, top250, runtime, certification, genres, actors,
	directors, writers, producers, artwork, trailers, datasource, path,
	set_id, scraped, newly_added, multi_dir, disc, added_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUnit(row rowScanner) (*Unit, error) {
	u := &Unit{}
	var genres, actors, artwork, trailers string
	err := row.Scan(
		&u.ID, &u.Title, &u.OriginalTitle, &u.Tagline, &u.Plot, &u.Year, &u.ReleaseDate,
		&u.Rating, &u.Votes, &u.Top250, &u.Runtime, &u.Certification, &genres, &actors,
		&u.Directors, &u.Writers, &u.Producers, &artwork, &trailers, &u.Datasource, &u.Path,
		&u.SetID, &u.Scraped, &u.NewlyAdded, &u.MultiDir, &u.Disc, &u.AddedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	// Columns hold "[]"/"{}" defaults, so unmarshal failures mean real
	// corruption and are worth surfacing.
	if err := json.Unmarshal([]byte(genres), &u.Genres); err != nil {
		return nil, fmt.Errorf("decode genres: %w", err)
	}
	if err := json.Unmarshal([]byte(actors), &u.Actors); err != nil {
		return nil, fmt.Errorf("decode actors: %w", err)
	}
	if err := json.Unmarshal([]byte(artwork), &u.Artwork); err != nil {
		return nil, fmt.Errorf("decode artwork: %w", err)
	}
	if err := json.Unmarshal([]byte(trailers), &u.Trailers); err != nil {
		return nil, fmt.Errorf("decode trailers: %w", err)
	}
	return u, nil
}

func encodeUnitJSON(u *Unit) (genres, actors, artwork, trailers string, err error) {
	enc := func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	}
	if u.Genres == nil {
		u.Genres = []string{}
	}
	if u.Actors == nil {
		u.Actors = []Actor{}
	}
	if u.Artwork == nil {
		u.Artwork = map[string]string{}
	}
	if u.Trailers == nil {
		u.Trailers = []Trailer{}
	}
	if genres, err = enc(u.Genres); err != nil {
		return
	}
	if actors, err = enc(u.Actors); err != nil {
		return
	}
	if artwork, err = enc(u.Artwork); err != nil {
		return
	}
	trailers, err = enc(u.Trailers)
	return
}

func addUnit(q querier, u *Unit) error {
	now := time.Now()
	genres, actors, artwork, trailers, err := encodeUnitJSON(u)
	if err != nil {
		return fmt.Errorf("encode unit: %w", err)
	}
	result, err := q.Exec(`
		INSERT INTO units (title, original_title, tagline, plot, year, release_date,
			rating, votes, top250, runtime, certification, genres, actors,
			directors, writers, producers, artwork, trailers, datasource, path,
			set_id, scraped, newly_added, multi_dir, disc, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Title, u.OriginalTitle, u.Tagline, u.Plot, u.Year, u.ReleaseDate,
		u.Rating, u.Votes, u.Top250, u.Runtime, u.Certification, genres, actors,
		u.Directors, u.Writers, u.Producers, artwork, trailers, u.Datasource, u.Path,
		u.SetID, u.Scraped, u.NewlyAdded, u.MultiDir, u.Disc, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert unit: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	u.ID = id
	u.AddedAt = now
	u.UpdatedAt = now
	if err := saveExternalIDs(q, u.ID, u.ExternalIDs); err != nil {
		return err
	}
	return nil
}

// AddUnit inserts a new unit. Sets ID, AddedAt, and UpdatedAt on the
// struct. The unit's files are not inserted; use AddFile.
func (s *Store) AddUnit(u *Unit) error { return addUnit(s.db, u) }

// AddUnit inserts a new unit within a transaction.
func (t *Tx) AddUnit(u *Unit) error { return addUnit(t.tx, u) }

func getUnit(q querier, id int64) (*Unit, error) {
	u, err := scanUnit(q.QueryRow("SELECT "+unitColumns+" FROM units WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get unit %d: %w", id, mapSQLiteError(err))
	}
	if err := loadUnitRelations(q, u); err != nil {
		return nil, err
	}
	return u, nil
}

// GetUnit retrieves a unit by ID, including its external ids and files.
// Returns ErrNotFound if the unit does not exist.
func (s *Store) GetUnit(id int64) (*Unit, error) { return getUnit(s.db, id) }

// GetUnit retrieves a unit by ID within a transaction.
func (t *Tx) GetUnit(id int64) (*Unit, error) { return getUnit(t.tx, id) }

func listUnits(q querier, f UnitFilter) ([]*Unit, int, error) {
	var conditions []string
	var args []any

	if f.Datasource != nil {
		conditions = append(conditions, "datasource = ?")
		args = append(args, *f.Datasource)
	}
	if f.Path != nil {
		conditions = append(conditions, "path = ?")
		args = append(args, *f.Path)
	}
	if f.Title != nil {
		conditions = append(conditions, "title = ?")
		args = append(args, *f.Title)
	}
	if f.Year != nil {
		conditions = append(conditions, "year = ?")
		args = append(args, *f.Year)
	}
	if f.Scraped != nil {
		conditions = append(conditions, "scraped = ?")
		args = append(args, *f.Scraped)
	}
	if f.NewlyAdded != nil {
		conditions = append(conditions, "newly_added = ?")
		args = append(args, *f.NewlyAdded)
	}
	if f.SetID != nil {
		conditions = append(conditions, "set_id = ?")
		args = append(args, *f.SetID)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := q.QueryRow("SELECT COUNT(*) FROM units "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count units: %w", err)
	}

	query := "SELECT " + unitColumns + " FROM units " + whereClause + " ORDER BY id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list units: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan unit: %w", err)
		}
		results = append(results, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate units: %w", err)
	}

	for _, u := range results {
		if err := loadUnitRelations(q, u); err != nil {
			return nil, 0, err
		}
	}

	return results, total, nil
}

// ListUnits returns units matching the filter with pagination, including
// external ids and files. Returns (results, totalCount, error).
func (s *Store) ListUnits(f UnitFilter) ([]*Unit, int, error) { return listUnits(s.db, f) }

// ListUnits returns units matching the filter within a transaction.
func (t *Tx) ListUnits(f UnitFilter) ([]*Unit, int, error) { return listUnits(t.tx, f) }

// UnitsByPath returns every unit rooted at the given directory. More than
// one unit shares a path only for multi-unit directories.
func (s *Store) UnitsByPath(path string) ([]*Unit, error) {
	units, _, err := listUnits(s.db, UnitFilter{Path: &path})
	return units, err
}

func updateUnit(q querier, u *Unit) error {
	now := time.Now()
	genres, actors, artwork, trailers, err := encodeUnitJSON(u)
	if err != nil {
		return fmt.Errorf("encode unit: %w", err)
	}
	result, err := q.Exec(`
		UPDATE units SET title = ?, original_title = ?, tagline = ?, plot = ?, year = ?,
			release_date = ?, rating = ?, votes = ?, top250 = ?, runtime = ?,
			certification = ?, genres = ?, actors = ?, directors = ?, writers = ?,
			producers = ?, artwork = ?, trailers = ?, datasource = ?, path = ?,
			set_id = ?, scraped = ?, newly_added = ?, multi_dir = ?, disc = ?, updated_at = ?
		WHERE id = ?`,
		u.Title, u.OriginalTitle, u.Tagline, u.Plot, u.Year,
		u.ReleaseDate, u.Rating, u.Votes, u.Top250, u.Runtime,
		u.Certification, genres, actors, u.Directors, u.Writers,
		u.Producers, artwork, trailers, u.Datasource, u.Path,
		u.SetID, u.Scraped, u.NewlyAdded, u.MultiDir, u.Disc, now,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("update unit %d: %w", u.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update unit %d: %w", u.ID, ErrNotFound)
	}
	u.UpdatedAt = now
	return saveExternalIDs(q, u.ID, u.ExternalIDs)
}

// UpdateUnit updates an existing unit and replaces its external ids.
// Sets UpdatedAt on the struct. Returns ErrNotFound if the unit does not
// exist.
func (s *Store) UpdateUnit(u *Unit) error { return updateUnit(s.db, u) }

// UpdateUnit updates an existing unit within a transaction.
func (t *Tx) UpdateUnit(u *Unit) error { return updateUnit(t.tx, u) }

func deleteUnit(q querier, id int64) error {
	_, err := q.Exec("DELETE FROM units WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete unit %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteUnit removes a unit by ID; its files and external ids cascade.
// This operation is idempotent - no error is returned if the unit does
// not exist.
func (s *Store) DeleteUnit(id int64) error { return deleteUnit(s.db, id) }

// DeleteUnit removes a unit by ID within a transaction.
func (t *Tx) DeleteUnit(id int64) error { return deleteUnit(t.tx, id) }

// ClearNewlyAdded resets the newly-added flag for every unit of a
// datasource. Called at the start of a scan pass so the flag marks only
// the most recent pass.
func (s *Store) ClearNewlyAdded(datasource string) error {
	_, err := s.db.Exec("UPDATE units SET newly_added = 0 WHERE datasource = ?", datasource)
	if err != nil {
		return fmt.Errorf("clear newly added: %w", err)
	}
	return nil
}

func loadUnitRelations(q querier, u *Unit) error {
	ids, err := loadExternalIDs(q, u.ID)
	if err != nil {
		return err
	}
	u.ExternalIDs = ids

	files, err := listFilesForUnit(q, u.ID)
	if err != nil {
		return err
	}
	u.Files = files
	return nil
}

func loadExternalIDs(q querier, unitID int64) (map[string]string, error) {
	rows, err := q.Query("SELECT provider, ext_id FROM unit_external_ids WHERE unit_id = ?", unitID)
	if err != nil {
		return nil, fmt.Errorf("load external ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ids := make(map[string]string)
	for rows.Next() {
		var provider, extID string
		if err := rows.Scan(&provider, &extID); err != nil {
			return nil, fmt.Errorf("scan external id: %w", err)
		}
		ids[provider] = extID
	}
	return ids, rows.Err()
}

func saveExternalIDs(q querier, unitID int64, ids map[string]string) error {
	if _, err := q.Exec("DELETE FROM unit_external_ids WHERE unit_id = ?", unitID); err != nil {
		return fmt.Errorf("clear external ids: %w", err)
	}
	for provider, extID := range ids {
		if extID == "" {
			continue
		}
		if _, err := q.Exec(
			"INSERT INTO unit_external_ids (unit_id, provider, ext_id) VALUES (?, ?, ?)",
			unitID, provider, extID,
		); err != nil {
			return fmt.Errorf("save external id %s: %w", provider, mapSQLiteError(err))
		}
	}
	return nil
}
