package services

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ziprune/ziprune/internal/database"
)

func TestFileIndexerRecordsEveryRegularFile(t *testing.T) {
	dbCtx := setupServiceDB(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "alpha")
	writeFile(t, filepath.Join(root, "sub", "b.txt"), "bravo!")
	writeZip(t, filepath.Join(root, "sub", "c.zip"), "x.txt")

	var events []Progress
	indexer := NewFileIndexer(dbCtx, nil, IndexOptions{BatchSize: 2})
	result, err := indexer.Index(t.Context(), root, func(p Progress) { events = append(events, p) })
	require.NoError(t, err)

	assert.Equal(t, 3, result.Indexed)
	assert.Empty(t, result.Failures)
	assert.False(t, result.Cancelled)

	// one event per committed batch of two, then the final partial batch
	require.Len(t, events, 2)
	assert.Equal(t, 2, events[0].Done)
	assert.Equal(t, 3, events[1].Done)
	assert.Equal(t, StageIndex, events[1].Stage)

	record := findFile(t, dbCtx, filepath.Join(root, "sub", "b.txt"))
	assert.Equal(t, "b.txt", record.Filename)
	assert.Equal(t, int64(6), record.Size)
	assert.Equal(t, database.StatusIndexed, record.Status)
	assert.False(t, record.Modified.IsZero())

	archives, err := database.NewFileRepository(dbCtx).ListArchives(t.Context())
	require.NoError(t, err)
	require.Len(t, archives, 1)
	assert.Equal(t, filepath.Join(root, "sub", "c.zip"), archives[0].Path)
}

func TestFileIndexerIsIdempotent(t *testing.T) {
	dbCtx := setupServiceDB(t)
	root := t.TempDir()
	path := filepath.Join(root, "a.txt")
	writeFile(t, path, "alpha")

	indexer := NewFileIndexer(dbCtx, nil, IndexOptions{})
	_, err := indexer.Index(t.Context(), root, nil)
	require.NoError(t, err)
	first := findFile(t, dbCtx, path)

	writeFile(t, path, "alpha and more")
	later := time.Now().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	_, err = indexer.Index(t.Context(), root, nil)
	require.NoError(t, err)
	second := findFile(t, dbCtx, path)

	count, err := database.NewFileRepository(dbCtx).Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(14), second.Size)
	assert.True(t, second.Modified.Equal(later), "expected %v, got %v", later, second.Modified)
}

func TestFileIndexerSkipsUnreadableDirectories(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	dbCtx := setupServiceDB(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok.txt"), "ok")
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "hidden.txt"), "hidden")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o750) })

	logger, logs := observedLogger()
	result, err := NewFileIndexer(dbCtx, logger, IndexOptions{}).Index(t.Context(), root, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Indexed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, FailureAccess, result.Failures[0].Kind)
	assert.Equal(t, locked, result.Failures[0].Path)
	assert.Equal(t, 1, logs.FilterField(zap.String("path", locked)).Len())
}

func TestFileIndexerExcludes(t *testing.T) {
	dbCtx := setupServiceDB(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.txt"), "k")
	writeFile(t, filepath.Join(root, ".git", "objects", "pack"), "p")

	result, err := NewFileIndexer(dbCtx, nil, IndexOptions{Exclude: []string{".git"}}).Index(t.Context(), root, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Indexed)
}

func TestFileIndexerCancelled(t *testing.T) {
	dbCtx := setupServiceDB(t)
	root := t.TempDir()
	for _, name := range []string{"a", "b", "c", "d"} {
		writeFile(t, filepath.Join(root, name), name)
	}

	ctx, cancel := context.WithCancel(t.Context())
	seen := 0
	indexer := NewFileIndexer(dbCtx, nil, IndexOptions{BatchSize: 1})
	result, err := indexer.Index(ctx, root, func(Progress) {
		seen++
		if seen == 2 {
			cancel()
		}
	})
	require.NoError(t, err)

	assert.True(t, result.Cancelled)
	assert.Equal(t, 2, result.Indexed)

	count, err := database.NewFileRepository(dbCtx).Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestFileIndexerMissingRoot(t *testing.T) {
	dbCtx := setupServiceDB(t)
	_, err := NewFileIndexer(dbCtx, nil, IndexOptions{}).Index(t.Context(), filepath.Join(t.TempDir(), "nope"), nil)
	require.Error(t, err)
}
