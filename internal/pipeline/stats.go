package pipeline

import "time"

// RunStats tracks the outcome of one batch: clip counts, byte totals, and
// wall time. Returned to main for the exit summary.
type RunStats struct {
	Clips         int
	InputBytes    int64
	PrimaryBytes  int64
	ArchivalBytes int64
	Elapsed       time.Duration

	PrimaryPath  string
	ArchivalPath string
}

// CompressionRatio returns the primary output's size as a percentage of the
// combined input size. 100 means unchanged; 0 when the inputs are empty.
func (s *RunStats) CompressionRatio() int64 {
	if s.InputBytes == 0 {
		return 0
	}
	return s.PrimaryBytes * 100 / s.InputBytes
}
