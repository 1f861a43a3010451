// Package probe queries the external transcoder: filter availability,
// encoder usability, and stream metadata for the first selected clip.
package probe

import (
	"os/exec"
	"strings"

	"github.com/backmassage/clipstitch/internal/ffmpeg"
)

// SupportsFilter reports whether ffmpeg lists the named filter. It runs the
// filter introspection command and scans for name as a distinct token.
// Tool-invocation failure is treated as "not supported", never an error.
func SupportsFilter(name string) bool {
	cmd := exec.Command("ffmpeg", "-hide_banner", "-filters")
	out, err := cmd.Output()
	if err != nil {
		return false
	}
	return filterListed(string(out), name)
}

// filterListed scans ffmpeg -filters output for name as a standalone token.
// A substring match is not enough: "deshake" must not match "deshake_opencl".
func filterListed(output, name string) bool {
	for _, line := range strings.Split(output, "\n") {
		for _, tok := range strings.Fields(line) {
			if tok == name {
				return true
			}
		}
	}
	return false
}

// SupportsEncoder reports whether the named encoder survives a minimal
// synthetic encode on this machine. The test clip is a sub-second black
// frame sent to the null muxer, so no output artifact is left behind.
func SupportsEncoder(name string) bool {
	return ffmpeg.RunSilent("ffmpeg",
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=128x128:d=0.1",
		"-c:v", name,
		"-f", "null", "-",
	)
}
