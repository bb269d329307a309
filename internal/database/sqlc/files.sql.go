package sqldb

import (
	"context"
)

const upsertFile = `
INSERT INTO files (path, filename, size, modified, status)
VALUES (?, ?, ?, ?, 'indexed')
ON CONFLICT(path) DO UPDATE SET
    filename = excluded.filename,
    size = excluded.size,
    modified = excluded.modified,
    status = CASE
        WHEN files.status = 'deleted'
          OR files.size IS NOT excluded.size
          OR files.modified IS NOT excluded.modified
        THEN 'indexed'
        ELSE files.status
    END
RETURNING id
`

type UpsertFileParams struct {
	Path     string
	Filename string
	Size     int64
	Modified string
}

func (q *Queries) UpsertFile(ctx context.Context, arg UpsertFileParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, upsertFile,
		arg.Path,
		arg.Filename,
		arg.Size,
		arg.Modified,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const findFileByPath = `
SELECT id, path, filename, size, modified, status
FROM files
WHERE path = ?
`

func (q *Queries) FindFileByPath(ctx context.Context, path string) (File, error) {
	row := q.db.QueryRowContext(ctx, findFileByPath, path)
	var i File
	err := row.Scan(
		&i.ID,
		&i.Path,
		&i.Filename,
		&i.Size,
		&i.Modified,
		&i.Status,
	)
	return i, err
}

const findFileByID = `
SELECT id, path, filename, size, modified, status
FROM files
WHERE id = ?
`

func (q *Queries) FindFileByID(ctx context.Context, id int64) (File, error) {
	row := q.db.QueryRowContext(ctx, findFileByID, id)
	var i File
	err := row.Scan(
		&i.ID,
		&i.Path,
		&i.Filename,
		&i.Size,
		&i.Modified,
		&i.Status,
	)
	return i, err
}

const listArchiveFiles = `
SELECT id, path, filename, size, modified, status
FROM files
WHERE path LIKE '%.zip'
ORDER BY id
`

func (q *Queries) ListArchiveFiles(ctx context.Context) ([]File, error) {
	rows, err := q.db.QueryContext(ctx, listArchiveFiles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []File
	for rows.Next() {
		var i File
		if err := rows.Scan(
			&i.ID,
			&i.Path,
			&i.Filename,
			&i.Size,
			&i.Modified,
			&i.Status,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateFileStatus = `
UPDATE files SET status = ? WHERE id = ?
`

type UpdateFileStatusParams struct {
	Status string
	ID     int64
}

func (q *Queries) UpdateFileStatus(ctx context.Context, arg UpdateFileStatusParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateFileStatus, arg.Status, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateFileStatusByPath = `
UPDATE files SET status = ? WHERE path = ?
`

type UpdateFileStatusByPathParams struct {
	Status string
	Path   string
}

func (q *Queries) UpdateFileStatusByPath(ctx context.Context, arg UpdateFileStatusByPathParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateFileStatusByPath, arg.Status, arg.Path)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const transitionFileStatus = `
UPDATE files SET status = ? WHERE id = ? AND status = ?
`

type TransitionFileStatusParams struct {
	Status string
	ID     int64
	From   string
}

func (q *Queries) TransitionFileStatus(ctx context.Context, arg TransitionFileStatusParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, transitionFileStatus, arg.Status, arg.ID, arg.From)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countArchivesByStatus = `
SELECT status, COUNT(*) AS archive_count
FROM files
WHERE path LIKE '%.zip'
GROUP BY status
ORDER BY status
`

type CountArchivesByStatusRow struct {
	Status       string
	ArchiveCount int64
}

func (q *Queries) CountArchivesByStatus(ctx context.Context) ([]CountArchivesByStatusRow, error) {
	rows, err := q.db.QueryContext(ctx, countArchivesByStatus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CountArchivesByStatusRow
	for rows.Next() {
		var i CountArchivesByStatusRow
		if err := rows.Scan(&i.Status, &i.ArchiveCount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countFiles = `SELECT COUNT(*) FROM files`

func (q *Queries) CountFiles(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countFiles)
	var count int64
	err := row.Scan(&count)
	return count, err
}
