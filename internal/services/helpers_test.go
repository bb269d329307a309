package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ziprune/ziprune/internal/database"
)

func setupServiceDB(t *testing.T) *database.Context {
	t.Helper()
	ctx, err := database.CreateDatabase(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("CreateDatabase error: %v", err)
	}

	t.Cleanup(func() {
		if err := database.CloseDatabase(ctx); err != nil {
			t.Fatalf("CloseDatabase error: %v", err)
		}
	})

	return ctx
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// writeZip creates an archive holding names, each with content "x".
func writeZip(t *testing.T, path string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	out, err := os.Create(path)
	require.NoError(t, err)

	w := zip.NewWriter(out)
	modified := time.Date(2022, 5, 6, 7, 8, 9, 0, time.UTC)
	for _, name := range names {
		fw, err := w.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified})
		require.NoError(t, err)
		_, err = fw.Write([]byte("x"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, out.Close())
}

// writeZipDOSTime creates an archive with one entry carrying the raw MS-DOS
// date and time fields.
func writeZipDOSTime(t *testing.T, path, name string, dosDate, dosTime uint16) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	out, err := os.Create(path)
	require.NoError(t, err)

	w := zip.NewWriter(out)
	fw, err := w.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store, ModifiedDate: dosDate, ModifiedTime: dosTime})
	require.NoError(t, err)
	_, err = fw.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, out.Close())
}

// extract writes every name under dir, mimicking an unpacked archive.
func extract(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		writeFile(t, filepath.Join(dir, filepath.FromSlash(name)), "x")
	}
}

func findFile(t *testing.T, dbCtx *database.Context, path string) *database.FileRecord {
	t.Helper()
	record, err := database.NewFileRepository(dbCtx).FindByPath(t.Context(), path)
	require.NoError(t, err)
	return record
}

func contextWithCancel(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(t.Context())
	t.Cleanup(cancel)
	return ctx, cancel
}
