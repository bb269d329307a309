package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ziprune/ziprune/internal/database"
	"github.com/ziprune/ziprune/internal/logging"
	"github.com/ziprune/ziprune/internal/matcher"
)

// ExtractionResult summarises one matching pass.
type ExtractionResult struct {
	Archives   int
	Candidates int
	Matches    int
	Failures   []Failure
	Cancelled  bool
}

// ExtractionFinder scores candidate directories for every analyzed archive and
// records those above matcher.RecordingThreshold.
type ExtractionFinder struct {
	files    *database.FileRepository
	contents *database.ContentRepository
	matches  *database.MatchRepository
	proposer matcher.Proposer
	logger   *zap.Logger
}

// NewExtractionFinder uses matcher.SiblingProposer when proposer is nil.
func NewExtractionFinder(dbCtx *database.Context, proposer matcher.Proposer, logger *zap.Logger) *ExtractionFinder {
	if proposer == nil {
		proposer = matcher.SiblingProposer{}
	}
	return &ExtractionFinder{
		files:    database.NewFileRepository(dbCtx),
		contents: database.NewContentRepository(dbCtx),
		matches:  database.NewMatchRepository(dbCtx),
		proposer: proposer,
		logger:   logging.OrNop(logger).Named("matcher"),
	}
}

// Find rescores every analyzed archive. Earlier matches of a rescored archive
// are replaced. Archives without content entries never produce matches and
// keep their status.
func (s *ExtractionFinder) Find(ctx context.Context, progress ProgressFunc) (*ExtractionResult, error) {
	archives, err := s.files.ListArchives(context.WithoutCancel(ctx))
	if err != nil {
		return nil, err
	}

	result := &ExtractionResult{Archives: len(archives)}
	for i, file := range archives {
		if ctx.Err() != nil {
			result.Cancelled = true
			s.logger.Info("matching cancelled", zap.Int("matches", result.Matches))
			break
		}

		if err := s.scoreArchive(ctx, file, result); err != nil {
			return nil, err
		}
		progress.emit(Progress{Stage: StageMatch, Done: i + 1, Total: len(archives), Path: file.Path})
	}

	s.logger.Info("matching complete",
		zap.Int("candidates", result.Candidates),
		zap.Int("matches", result.Matches),
		zap.Int("failures", len(result.Failures)))
	return result, nil
}

func (s *ExtractionFinder) scoreArchive(ctx context.Context, file database.FileRecord, result *ExtractionResult) error {
	switch file.Status {
	case database.StatusAnalyzed, database.StatusScored, database.StatusFlagged:
	default:
		return nil
	}

	ctx = context.WithoutCancel(ctx)
	contents, err := s.contents.ListByArchive(ctx, file.ID)
	if err != nil {
		return err
	}
	if len(contents) == 0 {
		return nil
	}
	entries := make([]string, 0, len(contents))
	for _, c := range contents {
		entries = append(entries, c.PathInZip)
	}

	candidates, err := s.proposer.Propose(file.Path, matcher.BaseName(file.Path))
	if err != nil {
		result.Failures = recordFailure(s.logger, result.Failures, FailureAccess, file.Path, err)
		return nil
	}
	result.Candidates += len(candidates)

	var recorded []database.MatchRecord
	for _, dir := range candidates {
		confidence := matcher.Score(entries, dir)
		s.logger.Debug("scored candidate",
			zap.String("archive", file.Path),
			zap.String("directory", dir),
			zap.Float64("confidence", confidence))
		if matcher.ShouldRecord(confidence) {
			recorded = append(recorded, database.MatchRecord{
				ArchiveID:     file.ID,
				ExtractedPath: dir,
				Confidence:    confidence,
			})
		}
	}

	if err := s.matches.Replace(ctx, file.ID, recorded); err != nil {
		return err
	}
	if _, err := s.files.SetStatus(ctx, file.ID, database.StatusScored); err != nil {
		return err
	}
	result.Matches += len(recorded)
	return nil
}
