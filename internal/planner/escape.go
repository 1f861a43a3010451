package planner

import "strings"

// EscapeFilterPath makes a filesystem path safe for embedding in a filter
// parameter. ffmpeg's filter grammar treats backslashes, colons, and single
// quotes specially: backslashes become forward slashes (also fixes Windows
// paths), drive-letter colons and quotes get escaped.
func EscapeFilterPath(path string) string {
	s := strings.ReplaceAll(path, `\`, "/")
	s = strings.ReplaceAll(s, ":", `\:`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return s
}
