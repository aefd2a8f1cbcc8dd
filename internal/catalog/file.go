package catalog

import (
	"fmt"
	"time"
)

const fileColumns = `id, unit_id, path, kind, basename, disc, size_bytes,
	container, video_codec, audio_codec, added_at`

func scanFile(row rowScanner) (*File, error) {
	f := &File{}
	err := row.Scan(&f.ID, &f.UnitID, &f.Path, &f.Kind, &f.Basename, &f.Disc,
		&f.SizeBytes, &f.Container, &f.VideoCodec, &f.AudioCodec, &f.AddedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func addFile(q querier, f *File) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO unit_files (unit_id, path, kind, basename, disc, size_bytes,
			container, video_codec, audio_codec, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.UnitID, f.Path, f.Kind, f.Basename, f.Disc, f.SizeBytes,
		f.Container, f.VideoCodec, f.AudioCodec, now,
	)
	if err != nil {
		return fmt.Errorf("insert file: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	f.ID = id
	f.AddedAt = now
	return nil
}

// AddFile inserts a new file record. Sets ID and AddedAt on the struct.
// Returns ErrDuplicate when the path is already tracked.
func (s *Store) AddFile(f *File) error { return addFile(s.db, f) }

// AddFile inserts a new file record within a transaction.
func (t *Tx) AddFile(f *File) error { return addFile(t.tx, f) }

func updateFile(q querier, f *File) error {
	result, err := q.Exec(`
		UPDATE unit_files SET unit_id = ?, path = ?, kind = ?, basename = ?, disc = ?,
			size_bytes = ?, container = ?, video_codec = ?, audio_codec = ?
		WHERE id = ?`,
		f.UnitID, f.Path, f.Kind, f.Basename, f.Disc,
		f.SizeBytes, f.Container, f.VideoCodec, f.AudioCodec, f.ID,
	)
	if err != nil {
		return fmt.Errorf("update file %d: %w", f.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update file %d: %w", f.ID, ErrNotFound)
	}
	return nil
}

// UpdateFile updates an existing file record.
// Returns ErrNotFound if the file does not exist.
func (s *Store) UpdateFile(f *File) error { return updateFile(s.db, f) }

// UpdateFile updates an existing file record within a transaction.
func (t *Tx) UpdateFile(f *File) error { return updateFile(t.tx, f) }

func deleteFile(q querier, id int64) error {
	_, err := q.Exec("DELETE FROM unit_files WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete file %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteFile removes a file record by ID.
// This operation is idempotent - no error is returned if the file does
// not exist.
func (s *Store) DeleteFile(id int64) error { return deleteFile(s.db, id) }

// DeleteFile removes a file record by ID within a transaction.
func (t *Tx) DeleteFile(id int64) error { return deleteFile(t.tx, id) }

// FileByPath retrieves a file record by its path.
// Returns ErrNotFound if no unit tracks the path.
func (s *Store) FileByPath(path string) (*File, error) {
	f, err := scanFile(s.db.QueryRow("SELECT "+fileColumns+" FROM unit_files WHERE path = ?", path))
	if err != nil {
		return nil, fmt.Errorf("file by path %s: %w", path, mapSQLiteError(err))
	}
	return f, nil
}

// FilesMissingContainer returns files of a datasource that have no probed
// container information yet.
func (s *Store) FilesMissingContainer(datasource string) ([]*File, error) {
	rows, err := s.db.Query(`
		SELECT f.id, f.unit_id, f.path, f.kind, f.basename, f.disc, f.size_bytes,
			f.container, f.video_codec, f.audio_codec, f.added_at
		FROM unit_files f
		JOIN units u ON f.unit_id = u.id
		WHERE u.datasource = ? AND f.kind = 'video' AND f.container = ''
		ORDER BY f.id`, datasource)
	if err != nil {
		return nil, fmt.Errorf("files missing container: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		results = append(results, f)
	}
	return results, rows.Err()
}

func listFilesForUnit(q querier, unitID int64) ([]*File, error) {
	rows, err := q.Query("SELECT "+fileColumns+" FROM unit_files WHERE unit_id = ? ORDER BY id", unitID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		results = append(results, f)
	}
	return results, rows.Err()
}

// ListFilesForUnit returns the unit's file records in insertion order.
func (s *Store) ListFilesForUnit(unitID int64) ([]*File, error) {
	return listFilesForUnit(s.db, unitID)
}
