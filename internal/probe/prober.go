package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultFrameRate is used when the first clip's frame rate cannot be read.
const DefaultFrameRate = 30.0

// FrameRate runs a single ffprobe JSON call against path and returns the
// average frame rate of the first video stream. Unreadable input falls back
// to DefaultFrameRate with a non-nil error so the caller can warn.
func FrameRate(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return DefaultFrameRate, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	return ParseFrameRate(out)
}

// ParseFrameRate extracts the first video stream's avg_frame_rate from raw
// ffprobe JSON. Exported for testing without a real ffprobe binary.
func ParseFrameRate(data []byte) (float64, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return DefaultFrameRate, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	for i := range raw.Streams {
		s := &raw.Streams[i]
		if s.CodecType != "video" {
			continue
		}
		if fps := parseRational(s.AvgFrameRate); fps > 0 {
			return fps, nil
		}
		if fps := parseRational(s.RFrameRate); fps > 0 {
			return fps, nil
		}
	}
	return DefaultFrameRate, fmt.Errorf("no readable video frame rate")
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	Index        int    `json:"index"`
	CodecType    string `json:"codec_type"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
}

// parseRational converts ffprobe's "num/den" rate strings (e.g. "30000/1001")
// or plain numbers to a float. Returns 0 when unparseable or degenerate.
func parseRational(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "0/0" {
		return 0
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0
		}
		return n / d
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
