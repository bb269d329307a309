package sqldb

import "context"

const deleteAllPotentialMatches = `DELETE FROM potential_matches`

func (q *Queries) DeleteAllPotentialMatches(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllPotentialMatches)
	return err
}

const deleteAllZipContents = `DELETE FROM zip_contents`

func (q *Queries) DeleteAllZipContents(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllZipContents)
	return err
}

const deleteAllFiles = `DELETE FROM files`

func (q *Queries) DeleteAllFiles(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllFiles)
	return err
}
