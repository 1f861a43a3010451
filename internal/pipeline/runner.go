// Package pipeline orchestrates one batch: clip discovery, option
// collection, capability probing, filter and encoder planning, and the
// ffmpeg invocations that produce the outputs.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/clipstitch/internal/catalog"
	"github.com/backmassage/clipstitch/internal/config"
	"github.com/backmassage/clipstitch/internal/display"
	"github.com/backmassage/clipstitch/internal/ffmpeg"
	"github.com/backmassage/clipstitch/internal/logging"
	"github.com/backmassage/clipstitch/internal/naming"
	"github.com/backmassage/clipstitch/internal/planner"
	"github.com/backmassage/clipstitch/internal/probe"
	"github.com/backmassage/clipstitch/internal/prompt"
)

// prober adapts the probe package's free functions to the planner's
// FilterProber interface.
type prober struct{}

func (prober) SupportsFilter(name string) bool { return probe.SupportsFilter(name) }

// execute runs one transcoder invocation; swapped out in tests to fake
// ffmpeg outcomes.
var execute = ffmpeg.Execute

// Run is the top-level batch entry point: discover clips, collect options,
// plan, and transcode. The returned error is fatal; recoverable problems
// (encoder fallback, skipped filters, failed archival) are logged as
// warnings and the run continues.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (RunStats, error) {
	var stats RunStats

	// --- Discover and select clips ---
	cat, err := catalog.Discover(cfg.InputDir)
	if err != nil {
		return stats, err
	}
	minIdx, maxIdx := cat.Bounds()
	log.Info("Found %d clips (%s%0*d..%s%0*d)", len(cat.Clips),
		catalog.Prefix, cat.PadWidth(), minIdx, catalog.Prefix, cat.PadWidth(), maxIdx)

	if err := prompt.Collect(cfg, minIdx, maxIdx, os.Stdin, os.Stdout); err != nil {
		return stats, err
	}

	clips, err := cat.Select(cfg.StartIndex, cfg.EndIndex)
	if err != nil {
		return stats, err
	}
	stats.Clips = len(clips)
	for _, c := range clips {
		stats.InputBytes += c.Size
	}
	log.Info("Selected %d clips (%s)", len(clips), display.FormatBytes(stats.InputBytes))

	// --- Resolve output paths ---
	base := naming.RangeBaseName(cat.PadWidth(), cfg.StartIndex, cfg.EndIndex)
	primaryPath := naming.UniquePath(filepath.Join(cfg.OutputDir, base+".mp4"))
	stats.PrimaryPath = primaryPath

	// Run-scoped scratch artifacts live next to the outputs and are simply
	// overwritten by the next run.
	concatList := filepath.Join(cfg.OutputDir, "concat.txt")
	if err := ffmpeg.WriteConcatList(concatList, clips); err != nil {
		return stats, err
	}

	// --- Probe the first clip's frame rate ---
	fps, err := probe.FrameRate(ctx, clips[0].Path)
	if err != nil {
		log.Warn("Cannot read frame rate of %s, assuming %g fps: %v", clips[0].Name, fps, err)
	}
	log.Debug("Frame rate: %g fps", fps)

	// --- Encoder availability with software fallback ---
	if cfg.Encoder != config.EncoderX264 && !probe.SupportsEncoder(string(cfg.Encoder)) {
		log.Warn("Encoder %s unavailable on this machine, falling back to %s",
			cfg.Encoder, config.EncoderX264)
		cfg.Encoder = config.EncoderX264
	}

	// --- Stabilization ---
	var analysisArgs []string
	var stabStage *planner.Stage
	if cfg.Stabilize {
		stab := &planner.Stabilizer{
			Prober:    prober{},
			TrfPath:   filepath.Join(cfg.OutputDir, "transforms.trf"),
			Smoothing: cfg.StabSmoothing,
			Tier:      cfg.StabTier,
		}
		stab.Analyze = func() error {
			analysisArgs = ffmpeg.BuildAnalysisArgs(concatList, stab.DetectStage().String())
			if cfg.DryRun {
				return nil
			}
			log.Info("Analyzing camera motion (pass 1/2)...")
			res := execute(ctx, analysisArgs, nil)
			if res.Err != nil {
				logStderr(log, res.Stderr)
				return res.Err
			}
			if _, err := os.Stat(stab.TrfPath); err != nil {
				return fmt.Errorf("analysis produced no trajectory file: %w", err)
			}
			return nil
		}

		stage, mode, stabErr := stab.Resolve()
		if stabErr != nil {
			log.Warn("%v", stabErr)
		}
		switch mode {
		case planner.StabTwoPass:
			log.Debug("Stabilizer: two-pass (smoothing=%d)", cfg.StabSmoothing)
		case planner.StabSinglePass:
			log.Warn("Using single-pass stabilizer fallback (%s)", cfg.StabTier)
		case planner.StabNone:
			log.Warn("Two-pass stabilization unavailable and fallback tier is off, skipping stabilization")
		}
		log.Debug("Stabilizer states: %v", stab.Visited())
		stabStage = stage
	}

	// --- Filter chains and encoder arguments ---
	deflickerOK := probe.SupportsFilter("deflicker")
	chains := planner.BuildChains(cfg, stabStage, deflickerOK)
	if chains.DeflickerSkipped {
		log.Warn("deflicker filter unavailable, skipping flicker removal")
	}

	encPlan, err := planner.BuildEncoderPlan(cfg.Encoder, cfg.Quality, cfg.Preset)
	if err != nil {
		return stats, err
	}

	primaryReq := &ffmpeg.Request{
		ConcatList:   concatList,
		VideoFilters: chains.Video.Serialize(),
		AudioFilters: chains.Audio.Serialize(),
		FPS:          fps,
		VideoArgs:    encPlan.Args,
		AudioArgs:    ffmpeg.PrimaryAudioArgs(),
		OutputPath:   primaryPath,
		Verbose:      cfg.Verbose,
		Progress:     cfg.ShowProgress && !cfg.Verbose,
	}
	primaryArgs := ffmpeg.BuildArgs(primaryReq)

	// --- Dry run: print the commands and stop ---
	if cfg.DryRun {
		if analysisArgs != nil {
			log.Info("[DRY] %s", strings.Join(analysisArgs, " "))
		}
		log.Info("[DRY] %s", strings.Join(primaryArgs, " "))
		if cfg.Archival {
			archivalReq := archivalRequest(cfg, concatList, fps, filepath.Join(cfg.OutputDir, base+".avi"))
			log.Info("[DRY] %s", strings.Join(ffmpeg.BuildArgs(archivalReq), " "))
		}
		log.Success("[DRY] Would write %s", filepath.Base(primaryPath))
		return stats, nil
	}

	// --- Primary transcode ---
	log.Info("Encoding %d clips -> %s (%s, q=%g, preset=%s)",
		len(clips), filepath.Base(primaryPath), cfg.Encoder, cfg.Quality, cfg.Preset)
	start := time.Now()

	// Failed runs leave partial outputs and scratch artifacts behind; no
	// cleanup is attempted.
	if res := execute(ctx, primaryArgs, primaryReq); res.Err != nil {
		logStderr(log, res.Stderr)
		return stats, fmt.Errorf("transcode failed: %w", res.Err)
	}
	if fi, err := os.Stat(primaryPath); err == nil {
		stats.PrimaryBytes = fi.Size()
	}

	// --- Archival copy (failure is a warning, the primary already exists) ---
	if cfg.Archival {
		archivalPath := naming.UniquePath(filepath.Join(cfg.OutputDir, base+".avi"))
		archivalReq := archivalRequest(cfg, concatList, fps, archivalPath)
		log.Info("Writing archival copy -> %s", filepath.Base(archivalPath))

		if res := execute(ctx, ffmpeg.BuildArgs(archivalReq), archivalReq); res.Err != nil {
			log.Warn("Archival copy failed: %v", res.Err)
			logStderr(log, res.Stderr)
		} else {
			stats.ArchivalPath = archivalPath
			if fi, err := os.Stat(archivalPath); err == nil {
				stats.ArchivalBytes = fi.Size()
			}
		}
	}

	// --- Summary ---
	stats.Elapsed = time.Since(start)
	log.Success("Encoded %d clips in %s: %s (%s, %d%% of input)",
		stats.Clips, display.FormatDuration(stats.Elapsed), filepath.Base(primaryPath),
		display.FormatBytes(stats.PrimaryBytes), stats.CompressionRatio())
	if stats.ArchivalPath != "" {
		log.Success("Archival copy: %s (%s)",
			filepath.Base(stats.ArchivalPath), display.FormatBytes(stats.ArchivalBytes))
	}
	return stats, nil
}

// archivalRequest assembles the secondary MJPEG/PCM AVI invocation. It
// shares the manifest and frame rate with the primary but carries only the
// sync-correction filters.
func archivalRequest(cfg *config.Config, concatList string, fps float64, outputPath string) *ffmpeg.Request {
	chains := planner.ArchivalChains(cfg)
	return &ffmpeg.Request{
		ConcatList:   concatList,
		VideoFilters: chains.Video.Serialize(),
		AudioFilters: chains.Audio.Serialize(),
		FPS:          fps,
		VideoArgs:    ffmpeg.ArchivalVideoArgs(),
		AudioArgs:    ffmpeg.ArchivalAudioArgs(),
		OutputPath:   outputPath,
		Verbose:      cfg.Verbose,
		Progress:     cfg.ShowProgress && !cfg.Verbose,
	}
}

// logStderr prints the tail of a failed ffmpeg run's stderr.
func logStderr(log *logging.Logger, stderr string) {
	if stderr == "" {
		return
	}
	log.Error("Last ffmpeg output:")
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	start := 0
	if len(lines) > 20 {
		start = len(lines) - 20
	}
	for _, l := range lines[start:] {
		log.Error("  %s", l)
	}
}
