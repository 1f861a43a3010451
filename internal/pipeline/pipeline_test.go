package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/clipstitch/internal/config"
	"github.com/backmassage/clipstitch/internal/ffmpeg"
	"github.com/backmassage/clipstitch/internal/logging"
)

// runConfig builds a non-interactive config over a temp clip directory.
func runConfig(t *testing.T) config.Config {
	t.Helper()
	inDir := t.TempDir()
	for _, name := range []string{"MOVI001.avi", "MOVI002.avi", "MOVI003.avi"} {
		if err := os.WriteFile(filepath.Join(inDir, name), []byte("RIFF"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := config.DefaultConfig()
	cfg.InputDir = inDir
	cfg.OutputDir = t.TempDir()
	cfg.AcceptDefaults = true
	cfg.ShowProgress = false
	cfg.ColorMode = config.ColorNever
	return cfg
}

func newTestLogger(t *testing.T, cfg *config.Config) *logging.Logger {
	t.Helper()
	log, err := logging.NewLogger(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

// fakeExecute replaces the transcoder for the duration of the test.
func fakeExecute(t *testing.T, fn func(args []string, req *ffmpeg.Request) ffmpeg.ExecResult) {
	t.Helper()
	prev := execute
	execute = func(ctx context.Context, args []string, req *ffmpeg.Request) ffmpeg.ExecResult {
		return fn(args, req)
	}
	t.Cleanup(func() { execute = prev })
}

func TestRun_PrimaryFailureSkipsArchival(t *testing.T) {
	cfg := runConfig(t)
	cfg.Archival = true
	log := newTestLogger(t, &cfg)

	var calls int
	fakeExecute(t, func(args []string, req *ffmpeg.Request) ffmpeg.ExecResult {
		calls++
		// ffmpeg -y creates the output before dying partway through.
		if err := os.WriteFile(req.OutputPath, []byte("partial"), 0o644); err != nil {
			t.Fatal(err)
		}
		return ffmpeg.ExecResult{Stderr: "muxing failed", Err: errors.New("exit status 1")}
	})

	_, err := Run(context.Background(), &cfg, log)
	if err == nil {
		t.Fatal("Run() must fail when the primary transcode fails")
	}
	if calls != 1 {
		t.Errorf("got %d transcoder calls, want 1 (archival never attempted)", calls)
	}
	// Failed runs do no cleanup: the partial output stays on disk.
	partial := filepath.Join(cfg.OutputDir, "MOVI_001-003.mp4")
	if _, statErr := os.Stat(partial); statErr != nil {
		t.Errorf("partial output was removed: %v", statErr)
	}
	if _, statErr := os.Stat(filepath.Join(cfg.OutputDir, "concat.txt")); statErr != nil {
		t.Errorf("concat manifest was removed: %v", statErr)
	}
}

func TestRun_ArchivalFailureIsNotFatal(t *testing.T) {
	cfg := runConfig(t)
	cfg.Archival = true
	log := newTestLogger(t, &cfg)

	var outputs []string
	fakeExecute(t, func(args []string, req *ffmpeg.Request) ffmpeg.ExecResult {
		outputs = append(outputs, req.OutputPath)
		if strings.HasSuffix(req.OutputPath, ".mp4") {
			if err := os.WriteFile(req.OutputPath, []byte("movie"), 0o644); err != nil {
				t.Fatal(err)
			}
			return ffmpeg.ExecResult{}
		}
		return ffmpeg.ExecResult{Stderr: "mjpeg died", Err: errors.New("exit status 1")}
	})

	stats, err := Run(context.Background(), &cfg, log)
	if err != nil {
		t.Fatalf("Run() error = %v, archival failure must stay a warning", err)
	}
	if len(outputs) != 2 {
		t.Fatalf("got %d transcoder calls, want primary then archival", len(outputs))
	}
	if !strings.HasSuffix(outputs[0], ".mp4") || !strings.HasSuffix(outputs[1], ".avi") {
		t.Errorf("call order = %v, want mp4 before avi", outputs)
	}
	if stats.PrimaryBytes == 0 {
		t.Error("PrimaryBytes = 0, want size of written output")
	}
	if stats.ArchivalPath != "" || stats.ArchivalBytes != 0 {
		t.Errorf("failed archival must not be reported: %q/%d", stats.ArchivalPath, stats.ArchivalBytes)
	}
}

func TestArchivalRequest(t *testing.T) {
	cfg := config.DefaultConfig()
	req := archivalRequest(&cfg, "/tmp/concat.txt", 29.97, "/out/MOVI_003-007.avi")

	if req.VideoFilters != "" {
		t.Errorf("VideoFilters = %q, want none without an offset", req.VideoFilters)
	}
	if req.AudioFilters != "aresample=async=1000" {
		t.Errorf("AudioFilters = %q, want resample only", req.AudioFilters)
	}
	if req.VideoArgs[1] != "mjpeg" {
		t.Errorf("VideoArgs = %v, want mjpeg codec", req.VideoArgs)
	}
	if req.OutputPath != "/out/MOVI_003-007.avi" {
		t.Errorf("OutputPath = %q", req.OutputPath)
	}
}

func TestArchivalRequest_Offset(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OffsetMs = 250
	req := archivalRequest(&cfg, "/tmp/concat.txt", 30, "/out/a.avi")
	if !strings.HasPrefix(req.AudioFilters, "adelay=delays=250:all=1,") {
		t.Errorf("positive offset must delay archival audio: %q", req.AudioFilters)
	}
	if req.VideoFilters != "" {
		t.Errorf("positive offset must not touch archival video: %q", req.VideoFilters)
	}

	cfg.OffsetMs = -250
	req = archivalRequest(&cfg, "/tmp/concat.txt", 30, "/out/a.avi")
	if req.VideoFilters != "tpad=start_duration=0.25:color=black" {
		t.Errorf("negative offset must pad archival video: %q", req.VideoFilters)
	}
	if strings.Contains(req.AudioFilters, "adelay") {
		t.Errorf("negative offset must not delay archival audio: %q", req.AudioFilters)
	}
}

func TestCompressionRatio(t *testing.T) {
	tests := []struct {
		name string
		in   int64
		out  int64
		want int64
	}{
		{"half", 1000, 500, 50},
		{"unchanged", 1000, 1000, 100},
		{"grew", 1000, 1200, 120},
		{"empty input", 0, 500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := RunStats{InputBytes: tt.in, PrimaryBytes: tt.out}
			if got := s.CompressionRatio(); got != tt.want {
				t.Errorf("CompressionRatio() = %d, want %d", got, tt.want)
			}
		})
	}
}
