package database

import (
	"context"
	"fmt"

	sqldb "github.com/ziprune/ziprune/internal/database/sqlc"
)

// MatchRepository persists PotentialMatch rows and answers redundancy queries.
type MatchRepository struct {
	ctx *Context
}

func NewMatchRepository(dbCtx *Context) *MatchRepository {
	return &MatchRepository{ctx: dbCtx}
}

// Append records a scored candidate directory for an archive. Recording the
// same pair again replaces its confidence.
func (r *MatchRepository) Append(ctx context.Context, archiveID int64, extractedPath string, confidence float64) error {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return fmt.Errorf("match repository: %w", errMissingContext)
	}
	if err := validateConfidence(confidence); err != nil {
		return fmt.Errorf("match repository: %w", err)
	}

	return queries.UpsertPotentialMatch(ctx, sqldb.UpsertPotentialMatchParams{
		ZipID:         archiveID,
		ExtractedPath: extractedPath,
		Confidence:    confidence,
	})
}

// Clear removes every match recorded for an archive.
func (r *MatchRepository) Clear(ctx context.Context, archiveID int64) (int64, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return 0, fmt.Errorf("match repository: %w", errMissingContext)
	}
	return queries.DeletePotentialMatchesByZip(ctx, archiveID)
}

// Replace swaps the recorded matches of one archive in a single transaction.
func (r *MatchRepository) Replace(ctx context.Context, archiveID int64, matches []MatchRecord) error {
	for _, match := range matches {
		if err := validateConfidence(match.Confidence); err != nil {
			return fmt.Errorf("match repository: %w", err)
		}
	}

	return WithTx(ctx, r.ctx, func(q *sqldb.Queries) error {
		if _, err := q.DeletePotentialMatchesByZip(ctx, archiveID); err != nil {
			return fmt.Errorf("failed to clear matches of archive %d: %w", archiveID, err)
		}
		for _, match := range matches {
			if err := q.UpsertPotentialMatch(ctx, sqldb.UpsertPotentialMatchParams{
				ZipID:         archiveID,
				ExtractedPath: match.ExtractedPath,
				Confidence:    match.Confidence,
			}); err != nil {
				return fmt.Errorf("failed to store match %s of archive %d: %w", match.ExtractedPath, archiveID, err)
			}
		}
		return nil
	})
}

func (r *MatchRepository) ListByArchive(ctx context.Context, archiveID int64) ([]MatchRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("match repository: %w", errMissingContext)
	}

	rows, err := queries.ListPotentialMatchesByZip(ctx, archiveID)
	if err != nil {
		return nil, err
	}

	result := make([]MatchRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, matchRecordFromRow(row))
	}
	return result, nil
}

// QueryRedundant returns matches at or above minConfidence, most confident
// first. Archives already deleted are left out.
func (r *MatchRepository) QueryRedundant(ctx context.Context, minConfidence float64) ([]RedundantRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("match repository: %w", errMissingContext)
	}

	rows, err := queries.ListRedundantMatches(ctx, minConfidence)
	if err != nil {
		return nil, err
	}

	result := make([]RedundantRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, RedundantRecord{
			ArchiveID:     row.ZipID,
			ArchivePath:   row.ZipPath,
			ExtractedPath: row.ExtractedPath,
			Confidence:    row.Confidence,
		})
	}
	return result, nil
}
