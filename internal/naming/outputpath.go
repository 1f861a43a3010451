// Package naming derives output file names from the selected clip range and
// resolves on-disk collisions without touching existing files.
package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/clipstitch/internal/catalog"
)

// RangeBaseName builds the output base name for a selection, e.g.
// "MOVI_003-007" for clips 3..7 with the catalog's padding width of 3.
func RangeBaseName(padWidth, start, end int) string {
	return fmt.Sprintf("%s_%0*d-%0*d", catalog.Prefix, padWidth, start, padWidth, end)
}

// UniquePath returns candidate unchanged when nothing exists at that path.
// Otherwise it appends _1, _2, … after the base name (before the extension)
// and returns the first non-existing variant. Existing files are never
// moved or overwritten to make room.
func UniquePath(candidate string) string {
	if !exists(candidate) {
		return candidate
	}

	dir := filepath.Dir(candidate)
	base := filepath.Base(candidate)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for n := 1; ; n++ {
		variant := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
		if !exists(variant) {
			return variant
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
