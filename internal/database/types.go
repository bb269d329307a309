package database

import (
	"time"
)

// Status is the lifecycle state of an indexed archive.
type Status string

const (
	StatusIndexed  Status = "indexed"
	StatusAnalyzed Status = "analyzed"
	StatusScored   Status = "scored"
	StatusFlagged  Status = "flagged"
	StatusDeleted  Status = "deleted"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusIndexed, StatusAnalyzed, StatusScored, StatusFlagged, StatusDeleted:
		return true
	}
	return false
}

// ArchiveExtension is the suffix that marks an indexed file as an archive.
const ArchiveExtension = ".zip"

// FileRecord represents a row in the files table. Every regular file seen
// during indexing has one, keyed by its absolute path.
type FileRecord struct {
	ID       int64
	Path     string
	Filename string
	Size     int64
	Modified time.Time
	Status   Status
}

// ContentRecord mirrors the zip_contents table: one item inside an archive.
// Modified keeps the archive's MS-DOS wall clock; its location carries no meaning.
type ContentRecord struct {
	ID        int64
	ArchiveID int64
	PathInZip string
	Size      int64
	Modified  time.Time
}

// MatchRecord corresponds to a row in the potential_matches table.
type MatchRecord struct {
	ID            int64
	ArchiveID     int64
	ExtractedPath string
	Confidence    float64
}

// RedundantRecord joins a potential match with its archive path.
type RedundantRecord struct {
	ArchiveID     int64
	ArchivePath   string
	ExtractedPath string
	Confidence    float64
}

// StatusCount holds the number of archives currently in a lifecycle state.
type StatusCount struct {
	Status Status
	Count  int64
}
