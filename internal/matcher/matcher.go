// Package matcher decides where an archive may already have been extracted and
// how completely its contents are present there.
package matcher

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ziprune/ziprune/internal/archive"
	"github.com/ziprune/ziprune/internal/filesystem"
)

// Proposer returns candidate extraction directories for an archive.
type Proposer interface {
	Propose(archivePath, baseName string) ([]string, error)
}

// ProposerFunc adapts a function to the Proposer interface.
type ProposerFunc func(archivePath, baseName string) ([]string, error)

// Propose calls f.
func (f ProposerFunc) Propose(archivePath, baseName string) ([]string, error) {
	return f(archivePath, baseName)
}

// SiblingProposer looks only at the archive's own parent directory. A sibling
// is a candidate when it resolves to a directory and its name contains the
// archive base name. The match is case sensitive and never recursive.
type SiblingProposer struct{}

// Propose lists candidates in directory listing order. An empty base name
// matches nothing.
func (SiblingProposer) Propose(archivePath, baseName string) ([]string, error) {
	if baseName == "" {
		return nil, nil
	}
	parent := filepath.Dir(archivePath)
	names, err := filesystem.ReadDir(parent)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", parent, err)
	}

	var candidates []string
	for _, name := range names {
		if !strings.Contains(name, baseName) {
			continue
		}
		full := filepath.Join(parent, name)
		if filesystem.IsDir(full) {
			candidates = append(candidates, full)
		}
	}
	return candidates, nil
}

// BaseName is the archive file name without its final extension.
func BaseName(archivePath string) string {
	return archive.BaseName(archivePath)
}
