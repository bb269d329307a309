package sqldb

import (
	"context"
)

const upsertZipContent = `
INSERT INTO zip_contents (zip_id, path_in_zip, size, modified)
VALUES (?, ?, ?, ?)
ON CONFLICT(zip_id, path_in_zip) DO UPDATE SET
    size = excluded.size,
    modified = excluded.modified
`

type UpsertZipContentParams struct {
	ZipID     int64
	PathInZip string
	Size      int64
	Modified  string
}

func (q *Queries) UpsertZipContent(ctx context.Context, arg UpsertZipContentParams) error {
	_, err := q.db.ExecContext(ctx, upsertZipContent,
		arg.ZipID,
		arg.PathInZip,
		arg.Size,
		arg.Modified,
	)
	return err
}

const deleteZipContentsByZip = `
DELETE FROM zip_contents WHERE zip_id = ?
`

func (q *Queries) DeleteZipContentsByZip(ctx context.Context, zipID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteZipContentsByZip, zipID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listZipContents = `
SELECT id, zip_id, path_in_zip, size, modified
FROM zip_contents
WHERE zip_id = ?
ORDER BY id
`

func (q *Queries) ListZipContents(ctx context.Context, zipID int64) ([]ZipContent, error) {
	rows, err := q.db.QueryContext(ctx, listZipContents, zipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ZipContent
	for rows.Next() {
		var i ZipContent
		if err := rows.Scan(
			&i.ID,
			&i.ZipID,
			&i.PathInZip,
			&i.Size,
			&i.Modified,
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
