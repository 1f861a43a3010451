package ffmpeg

import (
	"math"
	"strconv"
	"strings"
)

// Request carries everything needed to assemble one transcoder invocation.
// Filter chains arrive pre-serialized; this package never inspects their
// contents.
type Request struct {
	ConcatList   string
	VideoFilters string // Serialized -vf chain; empty = omit.
	AudioFilters string // Serialized -af chain; empty = omit.
	FPS          float64
	VideoArgs    []string
	AudioArgs    []string
	OutputPath   string

	Verbose  bool
	Progress bool // Emit machine-readable progress on stdout.
}

// BuildArgs constructs the complete ffmpeg argument slice for a transcode.
// The skeleton is shared by the primary and archival outputs; only the
// codec args, filter chains, and output path differ.
func BuildArgs(req *Request) []string {
	args := make([]string, 0, 32)

	// --- Preamble: never prompt, overwrite prior outputs. ---
	args = append(args, "ffmpeg", "-hide_banner", "-nostdin", "-y")

	if req.Verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error")
	}
	if req.Progress {
		args = append(args, "-progress", "pipe:1", "-nostats")
	}

	// --- Input: the concat demuxer reading the manifest. ---
	args = append(args, "-f", "concat", "-safe", "0", "-i", req.ConcatList)

	// --- Filter chains. ---
	if req.VideoFilters != "" {
		args = append(args, "-vf", req.VideoFilters)
	}
	if req.AudioFilters != "" {
		args = append(args, "-af", req.AudioFilters)
	}

	// --- Frame rate and codecs. ---
	args = append(args, "-r", formatFPS(req.FPS))
	args = append(args, req.VideoArgs...)
	args = append(args, req.AudioArgs...)

	if strings.HasSuffix(strings.ToLower(req.OutputPath), ".mp4") {
		args = append(args, "-movflags", "+faststart")
	}

	return append(args, req.OutputPath)
}

// BuildAnalysisArgs constructs the stabilization analysis pass: a full
// decode of the concatenated input through the detect filter, producing
// only the trajectory artifact. Timestamps are regenerated and rebased to
// zero so the trajectory lines up with the apply pass.
func BuildAnalysisArgs(concatList, detectFilter string) []string {
	return []string{
		"ffmpeg", "-hide_banner", "-nostdin", "-y",
		"-loglevel", "error",
		"-fflags", "+genpts",
		"-f", "concat", "-safe", "0", "-i", concatList,
		"-vf", detectFilter,
		"-avoid_negative_ts", "make_zero",
		"-an",
		"-f", "null", "-",
	}
}

// PrimaryAudioArgs returns the fixed AAC settings for the MP4 output.
func PrimaryAudioArgs() []string {
	return []string{"-c:a", "aac", "-b:a", "192k", "-ar", "48000"}
}

// ArchivalVideoArgs returns the fixed intraframe MJPEG settings for the
// secondary archival AVI.
func ArchivalVideoArgs() []string {
	return []string{"-c:v", "mjpeg", "-q:v", "3", "-pix_fmt", "yuvj420p"}
}

// ArchivalAudioArgs returns uncompressed PCM for the archival AVI.
func ArchivalAudioArgs() []string {
	return []string{"-c:a", "pcm_s16le", "-ar", "48000"}
}

// formatFPS renders a frame rate compactly: integers without a decimal
// point ("30"), fractional rates with three places ("29.970").
func formatFPS(fps float64) string {
	if fps == math.Trunc(fps) {
		return strconv.Itoa(int(fps))
	}
	return strconv.FormatFloat(fps, 'f', 3, 64)
}
