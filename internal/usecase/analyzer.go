package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/ziprune/ziprune/internal/database"
	"github.com/ziprune/ziprune/internal/matcher"
	"github.com/ziprune/ziprune/internal/services"
	"github.com/ziprune/ziprune/internal/task"
)

// ErrInvalidConfidence is returned for a reporting threshold outside [0,1].
var ErrInvalidConfidence = services.ErrInvalidConfidence

type (
	Progress         = services.Progress
	ProgressFunc     = services.ProgressFunc
	Failure          = services.Failure
	IndexResult      = services.IndexResult
	AnalyzeResult    = services.AnalyzeResult
	ExtractionResult = services.ExtractionResult
	Redundant        = services.Redundant
	DeleteResult     = services.DeleteResult
)

type AnalyzerOptions struct {
	BatchSize int
	Exclude   []string
	// Proposer overrides the candidate directory strategy.
	Proposer matcher.Proposer
	Logger   *zap.Logger
}

// Analyzer is the surface front ends drive: index a tree, inspect its
// archives, score extraction candidates, report and delete.
type Analyzer struct {
	files     *database.FileRepository
	indexer   *services.FileIndexer
	inspector *services.ArchiveInspector
	finder    *services.ExtractionFinder
	query     *services.RedundancyQuery
	deleter   *services.DeletionExecutor
}

func NewAnalyzer(dbCtx *database.Context, opts AnalyzerOptions) *Analyzer {
	return &Analyzer{
		files: database.NewFileRepository(dbCtx),
		indexer: services.NewFileIndexer(dbCtx, opts.Logger, services.IndexOptions{
			BatchSize: opts.BatchSize,
			Exclude:   opts.Exclude,
		}),
		inspector: services.NewArchiveInspector(dbCtx, opts.Logger),
		finder:    services.NewExtractionFinder(dbCtx, opts.Proposer, opts.Logger),
		query:     services.NewRedundancyQuery(dbCtx, opts.Logger),
		deleter:   services.NewDeletionExecutor(dbCtx, opts.Logger),
	}
}

func (a *Analyzer) Index(ctx context.Context, root string, progress ProgressFunc) (*IndexResult, error) {
	return a.indexer.Index(ctx, root, progress)
}

func (a *Analyzer) AnalyzeArchives(ctx context.Context, progress ProgressFunc) (*AnalyzeResult, error) {
	return a.inspector.Analyze(ctx, progress)
}

func (a *Analyzer) FindPotentialExtractions(ctx context.Context, progress ProgressFunc) (*ExtractionResult, error) {
	return a.finder.Find(ctx, progress)
}

// GetRedundant lists archives whose best evidence reaches minConfidence.
func (a *Analyzer) GetRedundant(ctx context.Context, minConfidence float64) ([]Redundant, error) {
	return a.query.GetRedundant(ctx, minConfidence)
}

// Delete removes the given archives. Callers must have confirmed the list.
func (a *Analyzer) Delete(ctx context.Context, paths []string) (*DeleteResult, error) {
	return a.deleter.Delete(ctx, paths)
}

// ScanResult collects the outcome of each stage Scan ran. A stage that did not
// run because an earlier one was cancelled is nil.
type ScanResult struct {
	Index      *IndexResult
	Analyze    *AnalyzeResult
	Extraction *ExtractionResult
	Cancelled  bool
}

// Failures returns every per-item failure across the stages that ran.
func (r *ScanResult) Failures() []Failure {
	var all []Failure
	if r.Index != nil {
		all = append(all, r.Index.Failures...)
	}
	if r.Analyze != nil {
		all = append(all, r.Analyze.Failures...)
	}
	if r.Extraction != nil {
		all = append(all, r.Extraction.Failures...)
	}
	return all
}

// Scan indexes root, analyzes every archive and records extraction matches.
// It stops after the first stage that reports cancellation.
func (a *Analyzer) Scan(ctx context.Context, root string, progress ProgressFunc) (*ScanResult, error) {
	result := &ScanResult{}

	indexed, err := a.Index(ctx, root, progress)
	if err != nil {
		return nil, err
	}
	result.Index = indexed
	if indexed.Cancelled {
		result.Cancelled = true
		return result, nil
	}

	analyzed, err := a.AnalyzeArchives(ctx, progress)
	if err != nil {
		return nil, err
	}
	result.Analyze = analyzed
	if analyzed.Cancelled {
		result.Cancelled = true
		return result, nil
	}

	extraction, err := a.FindPotentialExtractions(ctx, progress)
	if err != nil {
		return nil, err
	}
	result.Extraction = extraction
	result.Cancelled = extraction.Cancelled
	return result, nil
}

// StartScan runs Scan as a background task.
func (a *Analyzer) StartScan(ctx context.Context, root string) *task.Task[Progress, *ScanResult] {
	return task.Start(ctx, func(ctx context.Context, emit func(Progress)) (*ScanResult, error) {
		return a.Scan(ctx, root, emit)
	})
}

// Stats summarises the store.
type Stats struct {
	Files    int64
	Archives int64
	ByStatus []database.StatusCount
}

func (a *Analyzer) Stats(ctx context.Context) (*Stats, error) {
	files, err := a.files.Count(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := a.files.CountArchivesByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Files: files, ByStatus: counts}
	for _, c := range counts {
		stats.Archives += c.Count
	}
	return stats, nil
}
