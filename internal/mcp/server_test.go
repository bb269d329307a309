package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/ziprune/ziprune/internal/database"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	dbCtx, err := database.CreateDatabase(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("CreateDatabase error: %v", err)
	}
	t.Cleanup(func() { _ = database.CloseDatabase(dbCtx) })
	return NewServer(dbCtx, Options{MinConfidence: 0.9})
}

func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	out, err := os.Create(filepath.Join(root, "backup.zip"))
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	w := zip.NewWriter(out)
	fw, err := w.Create("notes.txt")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := fw.Write([]byte("notes")); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}

	dir := filepath.Join(root, "backup")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("notes"), 0o600); err != nil {
		t.Fatalf("write extracted file: %v", err)
	}
	return root
}

func TestScanReportAndStats(t *testing.T) {
	s := setupServer(t)
	root := buildTree(t)
	ctx := context.Background()

	_, scan, err := s.handleScan(ctx, nil, ScanInput{Root: root})
	if err != nil {
		t.Fatalf("handleScan error: %v", err)
	}
	if scan.Indexed != 2 || scan.Analyzed != 1 || scan.Matches != 1 {
		t.Fatalf("unexpected scan output %#v", scan)
	}

	_, report, err := s.handleReport(ctx, nil, ReportInput{})
	if err != nil {
		t.Fatalf("handleReport error: %v", err)
	}
	if len(report.Archives) != 1 {
		t.Fatalf("expected one redundant archive, got %#v", report.Archives)
	}
	entry := report.Archives[0]
	if entry.Archive != filepath.Join(root, "backup.zip") || entry.Directory != filepath.Join(root, "backup") || entry.Confidence != 1 {
		t.Fatalf("unexpected report entry %#v", entry)
	}

	_, stats, err := s.handleStats(ctx, nil, StatsInput{})
	if err != nil {
		t.Fatalf("handleStats error: %v", err)
	}
	if stats.Files != 2 || stats.Archives != 1 || stats.ByStatus["flagged"] != 1 {
		t.Fatalf("unexpected stats %#v", stats)
	}
}

func TestReportRejectsBadThreshold(t *testing.T) {
	s := setupServer(t)
	bad := 1.5
	if _, _, err := s.handleReport(context.Background(), nil, ReportInput{MinConfidence: &bad}); err == nil {
		t.Fatalf("expected error for threshold above 1")
	}
}

func TestScanRequiresRoot(t *testing.T) {
	s := setupServer(t)
	if _, _, err := s.handleScan(context.Background(), nil, ScanInput{}); err == nil {
		t.Fatalf("expected error for empty root")
	}
}
