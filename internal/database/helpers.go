package database

import (
	"fmt"
	"strings"
	"time"

	sqldb "github.com/ziprune/ziprune/internal/database/sqlc"
)

const (
	timestampLayout      = "2006-01-02 15:04:05"
	timestampFracLayout  = "2006-01-02 15:04:05.000000"
	timestampParseLayout = "2006-01-02 15:04:05.999999999"
)

// FormatFileTimestamp renders a file modification time as naive local wall
// clock text. Microseconds are written only when non-zero.
func FormatFileTimestamp(t time.Time) string {
	local := t.Local()
	if local.Nanosecond()/int(time.Microsecond) == 0 {
		return local.Format(timestampLayout)
	}
	return local.Truncate(time.Microsecond).Format(timestampFracLayout)
}

// FormatArchiveTimestamp renders an archive entry time as naive wall clock text
// without converting between zones.
func FormatArchiveTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// timestampValue converts a scanned TIMESTAMP column into a time whose wall
// clock is interpreted in loc. The driver hands back either a parsed time or
// the raw text depending on the stored value.
func timestampValue(v any, loc *time.Location) time.Time {
	switch value := v.(type) {
	case nil:
		return time.Time{}
	case time.Time:
		if value.Location() != time.UTC {
			return value
		}
		return time.Date(value.Year(), value.Month(), value.Day(),
			value.Hour(), value.Minute(), value.Second(), value.Nanosecond(), loc)
	case string:
		return parseTimestamp(value, loc)
	case []byte:
		return parseTimestamp(string(value), loc)
	case int64:
		return time.Unix(value, 0).In(loc)
	case float64:
		return time.Unix(0, int64(value*float64(time.Second))).In(loc)
	default:
		return time.Time{}
	}
}

func parseTimestamp(value string, loc *time.Location) time.Time {
	value = strings.TrimSpace(value)
	value = strings.Replace(value, "T", " ", 1)
	t, err := time.ParseInLocation(timestampParseLayout, value, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

func fileRecordFromRow(row sqldb.File) FileRecord {
	return FileRecord{
		ID:       row.ID,
		Path:     row.Path,
		Filename: row.Filename,
		Size:     row.Size,
		Modified: timestampValue(row.Modified, time.Local),
		Status:   Status(row.Status),
	}
}

func contentRecordFromRow(row sqldb.ZipContent) ContentRecord {
	return ContentRecord{
		ID:        row.ID,
		ArchiveID: row.ZipID,
		PathInZip: row.PathInZip,
		Size:      row.Size,
		Modified:  timestampValue(row.Modified, time.UTC),
	}
}

func matchRecordFromRow(row sqldb.PotentialMatch) MatchRecord {
	return MatchRecord{
		ID:            row.ID,
		ArchiveID:     row.ZipID,
		ExtractedPath: row.ExtractedPath,
		Confidence:    row.Confidence,
	}
}

func queriesFromContext(ctx *Context) *sqldb.Queries {
	if ctx == nil {
		return nil
	}
	if ctx.Queries != nil {
		return ctx.Queries
	}
	if ctx.DB == nil {
		return nil
	}
	return sqldb.New(ctx.DB)
}

func validateConfidence(confidence float64) error {
	if !(confidence >= 0 && confidence <= 1) {
		return fmt.Errorf("confidence %v outside [0,1]", confidence)
	}
	return nil
}
