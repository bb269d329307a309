package matcher

import (
	"path/filepath"
	"testing"
)

func TestScore(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.txt"))
	touch(t, filepath.Join(dir, "sub", "b.txt"))

	cases := []struct {
		name    string
		entries []string
		want    float64
	}{
		{"all present", []string{"a.txt", "sub/b.txt"}, 1},
		{"half present", []string{"a.txt", "missing.txt"}, 0.5},
		{"none present", []string{"x", "y"}, 0},
		{"no entries", nil, 0},
		{"directory entry counts", []string{"sub/", "a.txt"}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.entries, dir)
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			if got < 0 || got > 1 {
				t.Fatalf("score %v out of range", got)
			}
		})
	}
}

func TestShouldRecordIsExclusive(t *testing.T) {
	if ShouldRecord(0.7) {
		t.Fatalf("0.7 must not be recorded")
	}
	if ShouldRecord(7.0 / 10.0) {
		t.Fatalf("7/10 must not be recorded")
	}
	if !ShouldRecord(0.70001) {
		t.Fatalf("0.70001 must be recorded")
	}
	if !ShouldRecord(1) {
		t.Fatalf("1 must be recorded")
	}
}
