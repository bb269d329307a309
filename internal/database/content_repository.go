package database

import (
	"context"
	"fmt"

	sqldb "github.com/ziprune/ziprune/internal/database/sqlc"
)

// ContentRepository persists ArchiveContentEntry rows.
type ContentRepository struct {
	ctx *Context
}

func NewContentRepository(dbCtx *Context) *ContentRepository {
	return &ContentRepository{ctx: dbCtx}
}

// Append records one archive item. A second append for the same
// (archive, path) pair overwrites the first instead of adding a row.
func (r *ContentRepository) Append(ctx context.Context, record ContentRecord) error {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return fmt.Errorf("content repository: %w", errMissingContext)
	}
	return queries.UpsertZipContent(ctx, contentParams(record.ArchiveID, record))
}

// Replace swaps the stored entries of one archive for entries in a single transaction.
func (r *ContentRepository) Replace(ctx context.Context, archiveID int64, entries []ContentRecord) error {
	return WithTx(ctx, r.ctx, func(q *sqldb.Queries) error {
		if _, err := q.DeleteZipContentsByZip(ctx, archiveID); err != nil {
			return fmt.Errorf("failed to clear contents of archive %d: %w", archiveID, err)
		}
		for _, entry := range entries {
			if err := q.UpsertZipContent(ctx, contentParams(archiveID, entry)); err != nil {
				return fmt.Errorf("failed to store %q of archive %d: %w", entry.PathInZip, archiveID, err)
			}
		}
		return nil
	})
}

func (r *ContentRepository) ListByArchive(ctx context.Context, archiveID int64) ([]ContentRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("content repository: %w", errMissingContext)
	}

	rows, err := queries.ListZipContents(ctx, archiveID)
	if err != nil {
		return nil, err
	}

	result := make([]ContentRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, contentRecordFromRow(row))
	}
	return result, nil
}

func contentParams(archiveID int64, record ContentRecord) sqldb.UpsertZipContentParams {
	return sqldb.UpsertZipContentParams{
		ZipID:     archiveID,
		PathInZip: record.PathInZip,
		Size:      record.Size,
		Modified:  FormatArchiveTimestamp(record.Modified),
	}
}
