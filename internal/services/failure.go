package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrInvalidConfidence is returned when a confidence threshold lies outside [0,1].
var ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")

// FailureKind classifies a recovered per-item failure.
type FailureKind string

const (
	// FailureAccess is a file or directory that could not be read during a walk
	// or a candidate lookup.
	FailureAccess FailureKind = "access"
	// FailureArchive is an archive that could not be opened or enumerated.
	FailureArchive FailureKind = "archive"
	// FailureDeletion is a path that could not be removed.
	FailureDeletion FailureKind = "deletion"
)

// Failure is an item a stage skipped. Stages keep going after a failure.
type Failure struct {
	Path string
	Kind FailureKind
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Kind, f.Path, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Stage names a pipeline step in progress events.
type Stage string

const (
	StageIndex   Stage = "index"
	StageAnalyze Stage = "analyze"
	StageMatch   Stage = "match"
)

// Progress is a coarse notification emitted while a stage runs. Total is zero
// when the amount of work is not known upfront.
type Progress struct {
	Stage Stage
	Done  int
	Total int
	Path  string
}

// ProgressFunc observes progress. It runs on the stage's goroutine.
type ProgressFunc func(Progress)

func (f ProgressFunc) emit(p Progress) {
	if f != nil {
		f(p)
	}
}

func recordFailure(logger *zap.Logger, failures []Failure, kind FailureKind, path string, err error) []Failure {
	logger.Warn("skipping "+string(kind)+" failure", zap.String("path", path), zap.Error(err))
	return append(failures, Failure{Path: path, Kind: kind, Err: err})
}

func cancelled(ctx context.Context, err error) bool {
	return ctx.Err() != nil && errors.Is(err, ctx.Err())
}
