package sqldb

import (
	"context"
)

const upsertPotentialMatch = `
INSERT INTO potential_matches (zip_id, extracted_path, confidence)
VALUES (?, ?, ?)
ON CONFLICT(zip_id, extracted_path) DO UPDATE SET
    confidence = excluded.confidence
`

type UpsertPotentialMatchParams struct {
	ZipID         int64
	ExtractedPath string
	Confidence    float64
}

func (q *Queries) UpsertPotentialMatch(ctx context.Context, arg UpsertPotentialMatchParams) error {
	_, err := q.db.ExecContext(ctx, upsertPotentialMatch, arg.ZipID, arg.ExtractedPath, arg.Confidence)
	return err
}

const deletePotentialMatchesByZip = `
DELETE FROM potential_matches WHERE zip_id = ?
`

func (q *Queries) DeletePotentialMatchesByZip(ctx context.Context, zipID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePotentialMatchesByZip, zipID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listPotentialMatchesByZip = `
SELECT id, zip_id, extracted_path, confidence
FROM potential_matches
WHERE zip_id = ?
ORDER BY confidence DESC, id
`

func (q *Queries) ListPotentialMatchesByZip(ctx context.Context, zipID int64) ([]PotentialMatch, error) {
	rows, err := q.db.QueryContext(ctx, listPotentialMatchesByZip, zipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PotentialMatch
	for rows.Next() {
		var i PotentialMatch
		if err := rows.Scan(&i.ID, &i.ZipID, &i.ExtractedPath, &i.Confidence); err != nil {
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

const listRedundantMatches = `
SELECT pm.zip_id, f.path, pm.extracted_path, pm.confidence
FROM potential_matches pm
JOIN files f ON pm.zip_id = f.id
WHERE pm.confidence >= ?
  AND f.status <> 'deleted'
ORDER BY pm.confidence DESC, pm.id
`

type ListRedundantMatchesRow struct {
	ZipID         int64
	ZipPath       string
	ExtractedPath string
	Confidence    float64
}

func (q *Queries) ListRedundantMatches(ctx context.Context, minConfidence float64) ([]ListRedundantMatchesRow, error) {
	rows, err := q.db.QueryContext(ctx, listRedundantMatches, minConfidence)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListRedundantMatchesRow
	for rows.Next() {
		var i ListRedundantMatchesRow
		if err := rows.Scan(&i.ZipID, &i.ZipPath, &i.ExtractedPath, &i.Confidence); err != nil {
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
