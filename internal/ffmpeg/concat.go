// Package ffmpeg builds and executes the external transcoder commands: the
// concat manifest, the shared argument skeleton, and the blocking executor
// with stderr capture.
package ffmpeg

import (
	"fmt"
	"os"
	"strings"

	"github.com/backmassage/clipstitch/internal/catalog"
)

// WriteConcatList writes the concat demuxer manifest: one quoted absolute
// clip path per line, in selection order. The file is run-scoped and simply
// overwritten by the next run.
//
// Format:
//
//	file '/path/to/MOVI003.avi'
//	file '/path/to/MOVI004.avi'
func WriteConcatList(path string, clips []catalog.Clip) error {
	var b strings.Builder
	for _, c := range clips {
		fmt.Fprintf(&b, "file '%s'\n", escapeConcatPath(c.Path))
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return nil
}

// escapeConcatPath escapes single quotes for the concat demuxer's quoted
// string grammar ('…'\''…').
func escapeConcatPath(p string) string {
	return strings.ReplaceAll(p, "'", `'\''`)
}
