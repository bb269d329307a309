package services

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ziprune/ziprune/internal/database"
	"github.com/ziprune/ziprune/internal/filesystem"
	"github.com/ziprune/ziprune/internal/logging"
)

// DeleteResult summarises a deletion batch.
type DeleteResult struct {
	Deleted    int
	BytesFreed int64
	Failures   []Failure
	Cancelled  bool
}

// DeletionExecutor removes archives the caller has confirmed as redundant.
type DeletionExecutor struct {
	files  *database.FileRepository
	logger *zap.Logger
}

func NewDeletionExecutor(dbCtx *database.Context, logger *zap.Logger) *DeletionExecutor {
	return &DeletionExecutor{
		files:  database.NewFileRepository(dbCtx),
		logger: logging.OrNop(logger).Named("deletion"),
	}
}

// Delete removes each path. A path that cannot be removed is logged, recorded
// as a failure and the batch continues. Removed archives are marked deleted in
// the store; their rows are kept.
func (s *DeletionExecutor) Delete(ctx context.Context, paths []string) (*DeleteResult, error) {
	result := &DeleteResult{}
	for _, path := range paths {
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}

		size, err := filesystem.RemoveFile(path)
		if err != nil {
			result.Failures = recordFailure(s.logger, result.Failures, FailureDeletion, path, err)
			continue
		}
		result.Deleted++
		result.BytesFreed += size
		s.logger.Info("deleted archive", zap.String("path", path), zap.Int64("bytes", size))

		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if _, err := s.files.SetStatusByPath(context.WithoutCancel(ctx), path, database.StatusDeleted); err != nil {
			return result, err
		}
	}

	if len(paths) > 0 {
		s.logger.Info("deletion complete",
			zap.Int("deleted", result.Deleted),
			zap.Int64("bytes_freed", result.BytesFreed),
			zap.Int("failures", len(result.Failures)))
	}
	return result, nil
}
