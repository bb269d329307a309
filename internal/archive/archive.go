// Package archive enumerates the items stored in zip containers.
package archive

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

// ErrInvalidTimestamp marks an entry whose MS-DOS date or time is out of range.
var ErrInvalidTimestamp = errors.New("invalid MS-DOS timestamp")

// Extension is the only container format ziprune understands.
const Extension = ".zip"

// Entry is one named item inside an archive.
type Entry struct {
	Name string
	Size int64
	// Modified is the MS-DOS wall clock stored in the central directory. It has
	// two-second granularity and no zone; the UTC location is only a carrier.
	Modified time.Time
}

// IsArchive reports whether path carries the archive extension.
func IsArchive(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Extension)
}

// BaseName returns the file name of path without its final extension. A name
// that is only a leading dot and an extension, such as ".zip", is returned whole.
func BaseName(path string) string {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	if ext == name {
		return name
	}
	return strings.TrimSuffix(name, ext)
}

// List reads the central directory of the archive at path. Either every entry
// is returned or an error is; a corrupt or truncated container never yields a
// partial list.
func List(path string) ([]Entry, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer reader.Close()

	entries := make([]Entry, 0, len(reader.File))
	for _, f := range reader.File {
		modified, err := DOSTime(f.ModifiedDate, f.ModifiedTime)
		if err != nil {
			return nil, fmt.Errorf("archive %s entry %q: %w", path, f.Name, err)
		}
		entries = append(entries, Entry{
			Name:     f.Name,
			Size:     int64(f.UncompressedSize64),
			Modified: modified,
		})
	}
	return entries, nil
}

// DOSTime decodes an MS-DOS date/time pair verbatim. Fields that do not name a
// real calendar time, such as a zero month or 30 February, are rejected rather
// than normalised.
func DOSTime(dosDate, dosTime uint16) (time.Time, error) {
	year := int(dosDate>>9) + 1980
	month := time.Month(dosDate >> 5 & 0xf)
	day := int(dosDate & 0x1f)
	hour := int(dosTime >> 11)
	minute := int(dosTime >> 5 & 0x3f)
	second := int(dosTime&0x1f) * 2

	t := time.Date(year, month, day, hour, minute, second, 0, time.UTC)
	if t.Month() != month || t.Day() != day || t.Hour() != hour || t.Minute() != minute || t.Second() != second {
		return time.Time{}, fmt.Errorf("%w: date %#04x time %#04x", ErrInvalidTimestamp, dosDate, dosTime)
	}
	return t, nil
}
