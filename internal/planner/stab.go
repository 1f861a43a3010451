package planner

import (
	"fmt"

	"github.com/backmassage/clipstitch/internal/config"
)

// Two-pass stabilizer filter names and fixed parameters.
const (
	detectFilter    = "vidstabdetect"
	transformFilter = "vidstabtransform"
	fallbackFilter  = "deshake"

	detectParams = "shakiness=6:accuracy=9"
)

// StabState enumerates the stabilization workflow states. The machine is
// entered only when the user opts in; ApplyStage is the sole terminal state
// and yields exactly one video filter stage.
type StabState int

const (
	StabUnattempted StabState = iota
	StabProbingSupport
	StabAnalyzing
	StabAnalysisSucceeded
	StabAnalysisFailed
	StabApplyStage
)

// String returns the state name for logs and test failure messages.
func (s StabState) String() string {
	switch s {
	case StabUnattempted:
		return "Unattempted"
	case StabProbingSupport:
		return "ProbingSupport"
	case StabAnalyzing:
		return "Analyzing"
	case StabAnalysisSucceeded:
		return "AnalysisSucceeded"
	case StabAnalysisFailed:
		return "AnalysisFailed"
	case StabApplyStage:
		return "ApplyStage"
	}
	return "Unknown"
}

// StabMode identifies which stabilizer the terminal state selected.
type StabMode int

const (
	StabNone       StabMode = iota // Tier "off" with the single-pass fallback.
	StabTwoPass                    // vidstabtransform consuming the trajectory file.
	StabSinglePass                 // deshake fallback.
)

// deshakeTier holds the single-pass stabilizer search radii per intensity
// tier. All tiers mirror edge pixels rather than leaving borders.
type deshakeTier struct {
	rx, ry int
}

var deshakeTiers = map[config.StabTier]deshakeTier{
	config.TierMild:   {rx: 8, ry: 8},
	config.TierMedium: {rx: 16, ry: 16},
	config.TierStrong: {rx: 32, ry: 32},
}

// FilterProber answers filter-availability questions; satisfied by a thin
// adapter over the probe package and by fakes in tests.
type FilterProber interface {
	SupportsFilter(name string) bool
}

// Stabilizer walks the stabilization state machine for one run.
//
// Analyze runs the dedicated analysis pass over the concatenated input and
// must leave the trajectory artifact at TrfPath on success. It is only
// invoked from the Analyzing state.
type Stabilizer struct {
	Prober    FilterProber
	Analyze   func() error
	TrfPath   string
	Smoothing int
	Tier      config.StabTier

	state   StabState
	visited []StabState
}

// Resolve drives the machine to ApplyStage and returns the selected video
// stage. A nil stage means no stabilization (tier "off" fallback). The
// returned error is never fatal; it reports the recoverable analysis
// failure so the caller can warn.
func (s *Stabilizer) Resolve() (*Stage, StabMode, error) {
	s.state = StabUnattempted
	s.visited = []StabState{StabUnattempted}

	s.transition(StabProbingSupport)
	if !s.Prober.SupportsFilter(detectFilter) || !s.Prober.SupportsFilter(transformFilter) {
		// Two-pass path unavailable: straight to the single-pass fallback.
		s.transition(StabApplyStage)
		stage, mode := s.fallbackStage()
		return stage, mode, nil
	}

	s.transition(StabAnalyzing)
	if err := s.Analyze(); err != nil {
		s.transition(StabAnalysisFailed)
		s.transition(StabApplyStage)
		stage, mode := s.fallbackStage()
		return stage, mode, fmt.Errorf("stabilization analysis failed: %w", err)
	}

	s.transition(StabAnalysisSucceeded)
	s.transition(StabApplyStage)
	stage := &Stage{
		Name: transformFilter,
		Params: fmt.Sprintf("input='%s':smoothing=%d:optzoom=1:interpol=bicubic:crop=black",
			EscapeFilterPath(s.TrfPath), s.Smoothing),
	}
	return stage, StabTwoPass, nil
}

// Visited returns the states entered, in order. Used by tests to assert the
// machine's path and by the pipeline for debug logging.
func (s *Stabilizer) Visited() []StabState {
	return s.visited
}

// DetectStage returns the analysis-pass filter stage writing the trajectory
// artifact to TrfPath.
func (s *Stabilizer) DetectStage() Stage {
	return Stage{
		Name:   detectFilter,
		Params: fmt.Sprintf("%s:result='%s'", detectParams, EscapeFilterPath(s.TrfPath)),
	}
}

// fallbackStage maps the intensity tier to a deshake stage. Tier "off"
// yields no stage; unrecognized tiers land on the medium values.
func (s *Stabilizer) fallbackStage() (*Stage, StabMode) {
	if s.Tier == config.TierOff {
		return nil, StabNone
	}
	t, ok := deshakeTiers[s.Tier]
	if !ok {
		t = deshakeTiers[config.TierMedium]
	}
	return &Stage{
		Name:   fallbackFilter,
		Params: fmt.Sprintf("rx=%d:ry=%d:edge=mirror", t.rx, t.ry),
	}, StabSinglePass
}

func (s *Stabilizer) transition(next StabState) {
	s.state = next
	s.visited = append(s.visited, next)
}
