package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ziprune/ziprune/internal/archive"
	"github.com/ziprune/ziprune/internal/database"
	"github.com/ziprune/ziprune/internal/logging"
)

// AnalyzeResult summarises one pass over the indexed archives.
type AnalyzeResult struct {
	Archives  int
	Analyzed  int
	Entries   int
	Failures  []Failure
	Cancelled bool
}

// ArchiveInspector enumerates the contents of every indexed archive.
type ArchiveInspector struct {
	files    *database.FileRepository
	contents *database.ContentRepository
	logger   *zap.Logger
}

func NewArchiveInspector(dbCtx *database.Context, logger *zap.Logger) *ArchiveInspector {
	return &ArchiveInspector{
		files:    database.NewFileRepository(dbCtx),
		contents: database.NewContentRepository(dbCtx),
		logger:   logging.OrNop(logger).Named("inspector"),
	}
}

// Analyze reads the central directory of each archive and stores its entries,
// replacing whatever an earlier pass stored. Archives that cannot be read are
// logged and skipped with nothing written for them. Deleted archives are
// ignored.
func (s *ArchiveInspector) Analyze(ctx context.Context, progress ProgressFunc) (*AnalyzeResult, error) {
	// Store access ignores cancellation; only the loop below honours it.
	archives, err := s.files.ListArchives(context.WithoutCancel(ctx))
	if err != nil {
		return nil, err
	}

	result := &AnalyzeResult{Archives: len(archives)}
	s.logger.Info("analyzing archives", zap.Int("archives", len(archives)))

	for i, file := range archives {
		if ctx.Err() != nil {
			result.Cancelled = true
			s.logger.Info("analysis cancelled", zap.Int("analyzed", result.Analyzed))
			break
		}

		if file.Status != database.StatusDeleted {
			entries, err := archive.List(file.Path)
			if err != nil {
				result.Failures = recordFailure(s.logger, result.Failures, FailureArchive, file.Path, err)
			} else {
				if err := s.store(ctx, file, entries); err != nil {
					return nil, err
				}
				result.Analyzed++
				result.Entries += len(entries)
			}
		}

		progress.emit(Progress{Stage: StageAnalyze, Done: i + 1, Total: len(archives), Path: file.Path})
	}

	s.logger.Info("analysis complete",
		zap.Int("analyzed", result.Analyzed),
		zap.Int("entries", result.Entries),
		zap.Int("failures", len(result.Failures)))
	return result, nil
}

func (s *ArchiveInspector) store(ctx context.Context, file database.FileRecord, entries []archive.Entry) error {
	// A started archive is finished even if the caller cancels meanwhile.
	ctx = context.WithoutCancel(ctx)

	records := make([]database.ContentRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, database.ContentRecord{
			ArchiveID: file.ID,
			PathInZip: entry.Name,
			Size:      entry.Size,
			Modified:  entry.Modified,
		})
	}
	if err := s.contents.Replace(ctx, file.ID, records); err != nil {
		return err
	}
	if _, err := s.files.SetStatus(ctx, file.ID, database.StatusAnalyzed); err != nil {
		return err
	}

	s.logger.Debug("analyzed archive", zap.String("path", file.Path), zap.Int("entries", len(entries)))
	return nil
}
