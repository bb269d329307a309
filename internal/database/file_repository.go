package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqldb "github.com/ziprune/ziprune/internal/database/sqlc"
)

// FileRepository persists IndexedFile rows.
type FileRepository struct {
	ctx *Context
}

func NewFileRepository(dbCtx *Context) *FileRepository {
	return &FileRepository{ctx: dbCtx}
}

// Upsert inserts the file or updates the row already stored for its path.
// The row id is stable across updates.
func (r *FileRepository) Upsert(ctx context.Context, record FileRecord) (int64, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return 0, fmt.Errorf("file repository: %w", errMissingContext)
	}
	return upsertFile(ctx, queries, record)
}

func (r *FileRepository) FindByPath(ctx context.Context, path string) (*FileRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("file repository: %w", errMissingContext)
	}

	row, err := queries.FindFileByPath(ctx, path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	record := fileRecordFromRow(row)
	return &record, nil
}

func (r *FileRepository) FindByID(ctx context.Context, id int64) (*FileRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("file repository: %w", errMissingContext)
	}

	row, err := queries.FindFileByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	record := fileRecordFromRow(row)
	return &record, nil
}

// ListArchives returns every indexed file whose path carries the archive extension.
func (r *FileRepository) ListArchives(ctx context.Context) ([]FileRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("file repository: %w", errMissingContext)
	}

	rows, err := queries.ListArchiveFiles(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]FileRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, fileRecordFromRow(row))
	}
	return result, nil
}

func (r *FileRepository) SetStatus(ctx context.Context, id int64, status Status) (bool, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return false, fmt.Errorf("file repository: %w", errMissingContext)
	}
	if !status.Valid() {
		return false, fmt.Errorf("file repository: invalid status %q", status)
	}

	affected, err := queries.UpdateFileStatus(ctx, sqldb.UpdateFileStatusParams{Status: string(status), ID: id})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *FileRepository) SetStatusByPath(ctx context.Context, path string, status Status) (bool, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return false, fmt.Errorf("file repository: %w", errMissingContext)
	}
	if !status.Valid() {
		return false, fmt.Errorf("file repository: invalid status %q", status)
	}

	affected, err := queries.UpdateFileStatusByPath(ctx, sqldb.UpdateFileStatusByPathParams{Status: string(status), Path: path})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Transition moves a file from one lifecycle state to another. It reports
// false when the row was not in the from state.
func (r *FileRepository) Transition(ctx context.Context, id int64, from, to Status) (bool, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return false, fmt.Errorf("file repository: %w", errMissingContext)
	}
	if !from.Valid() || !to.Valid() {
		return false, fmt.Errorf("file repository: invalid transition %q -> %q", from, to)
	}

	affected, err := queries.TransitionFileStatus(ctx, sqldb.TransitionFileStatusParams{
		Status: string(to),
		ID:     id,
		From:   string(from),
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// CountArchivesByStatus groups archive rows by lifecycle state.
func (r *FileRepository) CountArchivesByStatus(ctx context.Context) ([]StatusCount, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("file repository: %w", errMissingContext)
	}

	rows, err := queries.CountArchivesByStatus(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]StatusCount, 0, len(rows))
	for _, row := range rows {
		result = append(result, StatusCount{Status: Status(row.Status), Count: row.ArchiveCount})
	}
	return result, nil
}

func (r *FileRepository) Count(ctx context.Context) (int64, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return 0, fmt.Errorf("file repository: %w", errMissingContext)
	}
	return queries.CountFiles(ctx)
}

func upsertFile(ctx context.Context, queries *sqldb.Queries, record FileRecord) (int64, error) {
	return queries.UpsertFile(ctx, sqldb.UpsertFileParams{
		Path:     record.Path,
		Filename: record.Filename,
		Size:     record.Size,
		Modified: FormatFileTimestamp(record.Modified),
	})
}
