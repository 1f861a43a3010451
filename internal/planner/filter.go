package planner

import (
	"fmt"

	"github.com/backmassage/clipstitch/internal/config"
)

// Fixed audio stage parameters from the legacy batch script. The dynamics
// stages are deliberately not user-configurable; only the highpass cutoff
// and denoise strength come from options.
const (
	resampleParams   = "async=1000"
	compressorParams = "threshold=-18dB:ratio=3:attack=20:release=250:knee=4:makeup=4dB"
	limiterParams    = "limit=0.97"
	deflickerParams  = "mode=pm:size=10"
	legalizeParams   = "in_range=full:out_range=limited"
)

// ChainPlan holds both serializable filter chains for one transcode.
type ChainPlan struct {
	Audio Chain
	Video Chain

	// DeflickerSkipped is set when the user-visible deflicker stage was
	// dropped because the filter is unavailable; the caller warns.
	DeflickerSkipped bool
}

// BuildChains assembles the ordered audio and video filter chains.
//
// Audio order is invariant: [adelay] → aresample → highpass → afftdn →
// acompressor → alimiter. A positive offset delays the audio; a negative
// offset instead prepends a black lead-in pad to the video chain — never
// both.
//
// Video order: [tpad] → [stabilizer] → [deflicker] → range legalization →
// pixel-format normalization. The working pixel format must match the
// encoder family's output format exactly.
func BuildChains(cfg *config.Config, stab *Stage, deflickerOK bool) ChainPlan {
	var plan ChainPlan

	// 1. Constant A/V offset compensation: exactly one side gets a stage.
	plan.Audio, plan.Video = offsetStages(cfg.OffsetMs)

	// 2–6. Drift correction, tone cleanup, dynamics.
	plan.Audio = append(plan.Audio,
		Stage{Name: "aresample", Params: resampleParams},
		Stage{Name: "highpass", Params: fmt.Sprintf("f=%d", cfg.HighpassHz)},
		Stage{Name: "afftdn", Params: fmt.Sprintf("nr=%d", cfg.DenoiseStrength)},
		Stage{Name: "acompressor", Params: compressorParams},
		Stage{Name: "alimiter", Params: limiterParams},
	)

	if stab != nil {
		plan.Video = append(plan.Video, *stab)
	}

	if deflickerOK {
		plan.Video = append(plan.Video, Stage{Name: "deflicker", Params: deflickerParams})
	} else {
		plan.DeflickerSkipped = true
	}

	plan.Video = append(plan.Video,
		Stage{Name: "scale", Params: legalizeParams},
		Stage{Name: "format", Params: PixelFormat(cfg.Encoder)},
	)

	return plan
}

// ArchivalChains builds the minimal chains for the secondary archival
// output: the same A/V offset compensation as the primary plus a resample,
// but none of the cleanup stages. The archival copy stays as close to the
// source as the sync correction allows.
func ArchivalChains(cfg *config.Config) ChainPlan {
	var plan ChainPlan
	plan.Audio, plan.Video = offsetStages(cfg.OffsetMs)
	plan.Audio = append(plan.Audio, Stage{Name: "aresample", Params: resampleParams})
	return plan
}

// offsetStages turns a millisecond A/V offset into at most one stage. A
// positive offset delays the audio; a negative offset pads the video with a
// black lead-in instead — never both.
func offsetStages(offsetMs int) (audio, video Chain) {
	switch {
	case offsetMs > 0:
		audio = Chain{{
			Name:   "adelay",
			Params: fmt.Sprintf("delays=%d:all=1", offsetMs),
		}}
	case offsetMs < 0:
		video = Chain{{
			Name:   "tpad",
			Params: fmt.Sprintf("start_duration=%g:color=black", float64(-offsetMs)/1000),
		}}
	}
	return audio, video
}
