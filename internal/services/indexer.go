package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziprune/ziprune/internal/database"
	"github.com/ziprune/ziprune/internal/filesystem"
	"github.com/ziprune/ziprune/internal/logging"
)

// DefaultBatchSize is the number of files committed per index transaction.
const DefaultBatchSize = 1000

// IndexOptions tunes a FileIndexer.
type IndexOptions struct {
	BatchSize int
	Exclude   []string
}

// IndexResult summarises one indexing walk.
type IndexResult struct {
	Indexed   int
	Failures  []Failure
	Cancelled bool
}

// FileIndexer records every regular file under a root in the store.
type FileIndexer struct {
	ctx       *database.Context
	logger    *zap.Logger
	batchSize int
	exclude   []string
}

func NewFileIndexer(dbCtx *database.Context, logger *zap.Logger, opts IndexOptions) *FileIndexer {
	size := opts.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	return &FileIndexer{
		ctx:       dbCtx,
		logger:    logging.OrNop(logger).Named("indexer"),
		batchSize: size,
		exclude:   opts.Exclude,
	}
}

// Index walks root and upserts each regular file. Unreadable entries are
// logged and skipped. A progress event is emitted after every committed batch.
// When ctx is cancelled the files seen so far are committed and a partial
// result is returned without error.
func (s *FileIndexer) Index(ctx context.Context, root string, progress ProgressFunc) (*IndexResult, error) {
	result := &IndexResult{}
	committed := 0
	reported := false

	batch, err := database.NewFileBatch(s.ctx, s.batchSize, func(n int) {
		committed += n
		reported = true
		s.logger.Debug("committed batch", zap.Int("files", committed))
		progress.emit(Progress{Stage: StageIndex, Done: committed})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("indexing", zap.String("root", root))

	opts := filesystem.WalkOptions{
		Exclude: s.exclude,
		OnError: func(path string, err error) {
			result.Failures = recordFailure(s.logger, result.Failures, FailureAccess, path, err)
		},
	}
	walkErr := filesystem.Walk(ctx, root, opts, func(info filesystem.FileInfo) error {
		if err := batch.Upsert(ctx, database.FileRecord{
			Path:     info.Path,
			Filename: info.Name,
			Size:     info.Size,
			Modified: info.Modified,
		}); err != nil {
			return err
		}
		result.Indexed++
		return nil
	})

	switch {
	case walkErr == nil:
	case cancelled(ctx, walkErr):
		result.Cancelled = true
		s.logger.Info("indexing cancelled", zap.Int("indexed", result.Indexed))
	default:
		batch.Rollback()
		return nil, fmt.Errorf("index %s: %w", root, walkErr)
	}

	if err := batch.Flush(); err != nil {
		return nil, err
	}
	if !reported {
		progress.emit(Progress{Stage: StageIndex, Done: committed})
	}

	s.logger.Info("indexing complete",
		zap.Int("indexed", result.Indexed),
		zap.Int("failures", len(result.Failures)))
	return result, nil
}
