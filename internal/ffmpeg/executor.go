package ffmpeg

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
)

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Stderr string
	Err    error
}

// Execute runs the prepared ffmpeg command and blocks until it exits.
// Stderr is captured for error reporting; in verbose mode it is tee'd to
// os.Stderr in real time. When the request enabled progress output, stdout
// is parsed into a live progress display.
func Execute(ctx context.Context, args []string, req *Request) ExecResult {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if req != nil && req.Verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	if req != nil && req.Progress {
		stdout, err := cmd.StdoutPipe()
		if err == nil {
			if err := cmd.Start(); err != nil {
				return ExecResult{Err: err}
			}
			watchProgress(stdout)
			return ExecResult{Stderr: stderrBuf.String(), Err: cmd.Wait()}
		}
		// Pipe failed; fall through to a plain blocking run.
	}

	err := cmd.Run()
	return ExecResult{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}

// RunSilent runs a command and reports whether it exited with status 0.
// Both stdout and stderr are discarded. Used for capability probes.
func RunSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
