// Command clipstitch merges a directory of numbered camera clips into one
// synced, cleaned-up movie. It parses flags, loads the optional settings
// file, and either runs system diagnostics (--check) or the transcode
// pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/clipstitch/internal/check"
	"github.com/backmassage/clipstitch/internal/config"
	"github.com/backmassage/clipstitch/internal/display"
	"github.com/backmassage/clipstitch/internal/logging"
	"github.com/backmassage/clipstitch/internal/pipeline"
)

// version and commit are set at build time via -ldflags (e.g. Makefile).
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 1. Config: defaults, then the settings file, then CLI flags. The file
	// path (or the input dir holding the default file) must be known before
	// parsing, hence the raw-argument peek.
	cfg := config.DefaultConfig()

	if path := config.PeekConfigPath(os.Args[1:]); path != "" {
		if err := config.LoadFile(path, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "clipstitch: %v\n", err)
			return 1
		}
	} else {
		dir := config.PeekInputDir(os.Args[1:])
		if dir == "" {
			dir = cfg.InputDir
		}
		if _, err := config.LoadDefaultFile(dir, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "clipstitch: %v\n", err)
			return 1
		}
	}

	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "clipstitch: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "clipstitch: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clipstitch: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner()

	// 2. System diagnostics mode.
	if cfg.CheckOnly {
		check.RunCheck(log)
		return 0
	}

	// 3. Paths: input must exist, output is created if needed.
	if fi, err := os.Stat(cfg.InputDir); err != nil || !fi.IsDir() {
		log.Error("Input directory not found: %s", cfg.InputDir)
		return 1
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Error("Cannot create output directory: %s", cfg.OutputDir)
		return 1
	}

	log.Info("=== ClipStitch v%s (%s) ===", version, commit)
	log.Info("In:  %s", cfg.InputDir)
	log.Info("Out: %s", cfg.OutputDir)
	if cfg.ConfigFile != "" {
		log.Debug("Settings file: %s", cfg.ConfigFile)
	}
	if cfg.DryRun {
		log.Warn("DRY RUN")
	}
	log.Info("")

	// 4. Fail fast when ffmpeg or ffprobe is missing.
	if err := check.CheckDeps(); err != nil {
		log.Error("%v", err)
		return 1
	}

	// 5. Run the pipeline; Ctrl-C cancels the in-flight ffmpeg process.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := pipeline.Run(ctx, &cfg, log); err != nil {
		log.Error("%v", err)
		return 1
	}
	return 0
}
