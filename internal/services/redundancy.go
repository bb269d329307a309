package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziprune/ziprune/internal/database"
	"github.com/ziprune/ziprune/internal/logging"
)

// Redundant is an archive whose contents were found in Directory.
type Redundant struct {
	ArchivePath string
	Directory   string
	Confidence  float64
}

// RedundancyQuery reports archives that are safe to delete.
type RedundancyQuery struct {
	files   *database.FileRepository
	matches *database.MatchRepository
	logger  *zap.Logger
}

func NewRedundancyQuery(dbCtx *database.Context, logger *zap.Logger) *RedundancyQuery {
	return &RedundancyQuery{
		files:   database.NewFileRepository(dbCtx),
		matches: database.NewMatchRepository(dbCtx),
		logger:  logging.OrNop(logger).Named("query"),
	}
}

// GetRedundant returns matches with confidence at or above minConfidence, most
// confident first. Scored archives in the result become flagged.
func (s *RedundancyQuery) GetRedundant(ctx context.Context, minConfidence float64) ([]Redundant, error) {
	if !(minConfidence >= 0 && minConfidence <= 1) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidConfidence, minConfidence)
	}

	records, err := s.matches.QueryRedundant(ctx, minConfidence)
	if err != nil {
		return nil, err
	}

	result := make([]Redundant, 0, len(records))
	flagged := make(map[int64]bool, len(records))
	for _, record := range records {
		result = append(result, Redundant{
			ArchivePath: record.ArchivePath,
			Directory:   record.ExtractedPath,
			Confidence:  record.Confidence,
		})
		if flagged[record.ArchiveID] {
			continue
		}
		flagged[record.ArchiveID] = true
		if _, err := s.files.Transition(ctx, record.ArchiveID, database.StatusScored, database.StatusFlagged); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("queried redundant archives",
		zap.Float64("min_confidence", minConfidence),
		zap.Int("matches", len(result)))
	return result, nil
}
