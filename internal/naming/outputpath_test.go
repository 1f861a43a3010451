package naming

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRangeBaseName(t *testing.T) {
	tests := []struct {
		name     string
		padWidth int
		start    int
		end      int
		want     string
	}{
		{"padded", 3, 3, 7, "MOVI_003-007"},
		{"unpadded", 1, 3, 7, "MOVI_3-7"},
		{"wide index", 3, 9, 1200, "MOVI_009-1200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RangeBaseName(tt.padWidth, tt.start, tt.end); got != tt.want {
				t.Errorf("RangeBaseName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	candidate := filepath.Join(dir, "MOVI_003-007.mp4")

	t.Run("free path returned unchanged", func(t *testing.T) {
		if got := UniquePath(candidate); got != candidate {
			t.Errorf("UniquePath() = %q, want %q", got, candidate)
		}
	})

	t.Run("idempotent without creation", func(t *testing.T) {
		first := UniquePath(candidate)
		second := UniquePath(candidate)
		if first != second {
			t.Errorf("repeated calls differ: %q vs %q", first, second)
		}
	})

	t.Run("suffix after creation", func(t *testing.T) {
		touch(t, candidate)
		got := UniquePath(candidate)
		want := filepath.Join(dir, "MOVI_003-007_1.mp4")
		if got != want {
			t.Errorf("UniquePath() = %q, want %q", got, want)
		}

		touch(t, got)
		got2 := UniquePath(candidate)
		want2 := filepath.Join(dir, "MOVI_003-007_2.mp4")
		if got2 != want2 {
			t.Errorf("UniquePath() = %q, want %q", got2, want2)
		}
	})

	t.Run("existing files untouched", func(t *testing.T) {
		if _, err := os.Stat(candidate); err != nil {
			t.Errorf("original file disturbed: %v", err)
		}
	})
}
