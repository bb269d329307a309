package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func collect(t *testing.T, root string, opts WalkOptions) []FileInfo {
	t.Helper()
	var files []FileInfo
	err := Walk(context.Background(), root, opts, func(info FileInfo) error {
		files = append(files, info)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

func TestWalkVisitsRegularFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "alpha")
	writeFile(t, filepath.Join(root, "nested", "deeper", "b.zip"), "zip")

	files := collect(t, root, WalkOptions{})
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files[0].Path != filepath.Join(root, "a.txt") || files[0].Name != "a.txt" || files[0].Size != 5 {
		t.Fatalf("unexpected first file %#v", files[0])
	}
	if files[1].Path != filepath.Join(root, "nested", "deeper", "b.zip") {
		t.Fatalf("unexpected second file %#v", files[1])
	}
	if files[0].Modified.IsZero() {
		t.Fatalf("expected modification time to be populated")
	}
}

func TestWalkDoesNotFollowSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "dir", "a.txt"), "alpha")
	if err := os.Symlink(root, filepath.Join(root, "dir", "loop")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	files := collect(t, root, WalkOptions{})
	if len(files) != 1 {
		t.Fatalf("expected symlink loop to be ignored, got %d files", len(files))
	}
}

func TestWalkExcludePrunesDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep", "a.txt"), "a")
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "b.txt"), "b")
	writeFile(t, filepath.Join(root, "keep", "c.tmp"), "c")

	files := collect(t, root, WalkOptions{Exclude: []string{"**/node_modules", "**/*.tmp"}})
	if len(files) != 1 || files[0].Name != "a.txt" {
		t.Fatalf("expected only a.txt, got %#v", files)
	}
}

func TestWalkReportsUnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "open", "a.txt"), "a")
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "b.txt"), "b")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o750) })

	var failed []string
	files := collect(t, root, WalkOptions{OnError: func(path string, err error) {
		failed = append(failed, path)
	}})
	if len(files) != 1 {
		t.Fatalf("expected walk to continue past locked dir, got %d files", len(files))
	}
	if len(failed) != 1 || failed[0] != locked {
		t.Fatalf("expected locked dir to be reported, got %v", failed)
	}
}

func TestWalkCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Walk(ctx, root, WalkOptions{}, func(FileInfo) error {
		t.Fatalf("callback should not run after cancellation")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWalkMissingRoot(t *testing.T) {
	err := Walk(context.Background(), filepath.Join(t.TempDir(), "missing"), WalkOptions{}, func(FileInfo) error { return nil })
	if err == nil {
		t.Fatalf("expected error for missing root")
	}
}

func TestWalkInvalidPattern(t *testing.T) {
	err := Walk(context.Background(), t.TempDir(), WalkOptions{Exclude: []string{"[unclosed"}}, func(FileInfo) error { return nil })
	if err == nil {
		t.Fatalf("expected invalid pattern error")
	}
}

func TestRemoveFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.zip")
	writeFile(t, path, "12345")

	size, err := RemoveFile(path)
	if err != nil {
		t.Fatalf("RemoveFile error: %v", err)
	}
	if size != 5 {
		t.Fatalf("expected 5 bytes freed, got %d", size)
	}
	if FileExists(path) {
		t.Fatalf("expected file to be removed")
	}

	if _, err := RemoveFile(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if _, err := RemoveFile(dir); !errors.Is(err, ErrIsDirectory) {
		t.Fatalf("expected ErrIsDirectory, got %v", err)
	}
	if !IsDir(dir) {
		t.Fatalf("directory must survive a rejected removal")
	}
}

func TestReadDirIsLexical(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b"), "")
	writeFile(t, filepath.Join(dir, "a"), "")

	names, err := ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("unexpected names %v", names)
	}
}
