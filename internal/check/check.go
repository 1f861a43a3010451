// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for ffmpeg, ffprobe, the hardware
// encoder families, and the stabilization filters.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/backmassage/clipstitch/internal/config"
	"github.com/backmassage/clipstitch/internal/ffmpeg"
	"github.com/backmassage/clipstitch/internal/probe"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the --check flow: prints availability of ffmpeg, ffprobe,
// each known video encoder, the stabilization and cleanup filters, and the
// AAC audio encoder. This is informational only — it does not stop on
// failure.
func RunCheck(log Logger) {
	log.Info("=== System Check ===")

	checkFfmpeg(log)
	checkFfprobe(log)
	checkEncoders(log)
	checkFilters(log)
	checkAAC(log)
}

// checkFfmpeg verifies ffmpeg is on PATH and logs its version string.
func checkFfmpeg(log Logger) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		log.Error("ffmpeg not found")
		return
	}
	cmd := exec.Command("ffmpeg", "-version")
	out, err := cmd.Output()
	if err != nil {
		log.Warn("ffmpeg found but -version failed: %v", err)
		return
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("ffmpeg: %s", firstLine)
}

func checkFfprobe(log Logger) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		log.Error("ffprobe not found")
		return
	}
	log.Success("ffprobe found")
}

// checkEncoders runs a tiny synthetic encode through every known encoder.
// Listing alone is not enough: hardware encoders show up in -encoders even
// on machines without the matching GPU or driver.
func checkEncoders(log Logger) {
	log.Info("Video encoders:")
	for _, enc := range config.Encoders {
		if probe.SupportsEncoder(string(enc)) {
			log.Success("  %s works", enc)
		} else {
			log.Warn("  %s unavailable", enc)
		}
	}
}

// checkFilters reports whether the optional filters this build of ffmpeg
// carries. vidstab requires a libvidstab-enabled build; deshake and
// deflicker are usually present but worth confirming.
func checkFilters(log Logger) {
	log.Info("Filters:")
	for _, name := range []string{"vidstabdetect", "vidstabtransform", "deshake", "deflicker"} {
		if probe.SupportsFilter(name) {
			log.Success("  %s available", name)
		} else {
			log.Warn("  %s missing", name)
		}
	}
}

// checkAAC runs a minimal AAC encode to verify the audio encoder works.
func checkAAC(log Logger) {
	log.Info("Testing AAC encoder...")
	if ffmpeg.RunSilent("ffmpeg",
		"-hide_banner", "-nostdin",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "aac", "-f", "null", "-",
	) {
		log.Success("AAC encoder works")
	} else {
		log.Error("AAC encoder test failed")
	}
}

// CheckDeps is the pre-pipeline validation: it verifies that ffmpeg and
// ffprobe are on PATH. Encoder availability is handled later with a
// fallback rather than a hard stop, so it is not probed here. Returns a
// sentinel error on failure.
func CheckDeps() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	return nil
}
