// Package filesystem is the boundary between ziprune and the disk: recursive
// listing, per-file metadata, existence checks and deletion.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrIsDirectory is returned when a removal targets a directory.
var ErrIsDirectory = errors.New("path is a directory")

// FileInfo is the metadata captured for one regular file.
type FileInfo struct {
	Path     string
	Name     string
	Size     int64
	Modified time.Time
}

// WalkFunc receives each regular file found by Walk. Returning an error stops the walk.
type WalkFunc func(info FileInfo) error

// ErrorFunc receives per-entry failures. The walk always continues past them.
type ErrorFunc func(path string, err error)

// WalkOptions tunes Walk.
type WalkOptions struct {
	// Exclude holds doublestar patterns matched against the slash separated
	// path relative to the root. A matching directory is pruned.
	Exclude []string
	OnError ErrorFunc
}

// ValidatePatterns rejects malformed exclude patterns before a walk starts.
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

// Walk visits every regular file under root. Symbolic links are reported as
// links and never followed, so link cycles cannot trap the walk. Unreadable
// directories and vanished files go to opts.OnError and are skipped. The
// context is checked before every entry; on cancellation Walk returns ctx.Err().
func Walk(ctx context.Context, root string, opts WalkOptions, fn WalkFunc) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root %s: %w", root, err)
	}
	rootInfo, err := os.Stat(absRoot)
	if err != nil {
		return fmt.Errorf("stat root %s: %w", absRoot, err)
	}
	if !rootInfo.IsDir() {
		return fmt.Errorf("root %s: %w", absRoot, errNotDirectory)
	}
	if err := ValidatePatterns(opts.Exclude); err != nil {
		return err
	}

	report := opts.OnError
	if report == nil {
		report = func(string, error) {}
	}

	return filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			report(path, walkErr)
			if d != nil && d.IsDir() && path != absRoot {
				return filepath.SkipDir
			}
			return nil
		}

		if path != absRoot && excluded(absRoot, path, opts.Exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			report(path, err)
			return nil
		}
		return fn(FileInfo{
			Path:     path,
			Name:     d.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	})
}

var errNotDirectory = errors.New("not a directory")

func excluded(root, path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// FileExists reports whether the given path exists. Symbolic links are followed.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path resolves to a directory, following symbolic links.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ReadDir lists the names in dir in lexical order.
func ReadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

// RemoveFile deletes a single non-directory path and returns the size it held.
func RemoveFile(path string) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("remove %s: %w", path, ErrIsDirectory)
	}
	if err := os.Remove(path); err != nil {
		return 0, err
	}
	return info.Size(), nil
}
