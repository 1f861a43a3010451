package planner

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/backmassage/clipstitch/internal/config"
)

// ErrUnknownEncoder is returned for identifiers outside the fixed encoder
// set. This is a programmer/config error and fatal for the run.
var ErrUnknownEncoder = errors.New("unknown encoder")

// EncoderPlan is the concrete, encoder-specific argument set for the video
// stream, built once per run.
type EncoderPlan struct {
	Encoder config.Encoder
	Args    []string // Ordered ffmpeg arguments, including -c:v and -pix_fmt.
}

// familyKind tags the per-vendor argument construction variant.
type familyKind int

const (
	familySoftware familyKind = iota
	familyNVENC
	familyQSV
	familyAMF
)

// familySpec holds one encoder's clamp band and output pixel format.
// NVENC and QSV emit semi-planar 4:2:0 (nv12); the software path and AMF
// emit planar 4:2:0 (yuv420p). The legalization filters downstream depend
// on the format matching the encoder exactly.
type familySpec struct {
	kind   familyKind
	qMin   float64
	qMax   float64 // HEVC variants allow a slightly higher band.
	pixFmt string
}

var families = map[config.Encoder]familySpec{
	config.EncoderX264:      {kind: familySoftware, pixFmt: "yuv420p"},
	config.EncoderH264NVENC: {kind: familyNVENC, qMin: 15, qMax: 28, pixFmt: "nv12"},
	config.EncoderHEVCNVENC: {kind: familyNVENC, qMin: 15, qMax: 30, pixFmt: "nv12"},
	config.EncoderH264QSV:   {kind: familyQSV, qMin: 15, qMax: 28, pixFmt: "nv12"},
	config.EncoderHEVCQSV:   {kind: familyQSV, qMin: 15, qMax: 30, pixFmt: "nv12"},
	config.EncoderH264AMF:   {kind: familyAMF, qMin: 15, qMax: 28, pixFmt: "yuv420p"},
	config.EncoderHEVCAMF:   {kind: familyAMF, qMin: 15, qMax: 30, pixFmt: "yuv420p"},
}

// nvencPresets maps the generic libx264 preset names onto NVENC's seven
// p1–p7 levels. Unrecognized or custom names land on p5, the "slow"
// equivalent.
var nvencPresets = map[string]string{
	"ultrafast": "p1",
	"superfast": "p1",
	"veryfast":  "p2",
	"faster":    "p3",
	"fast":      "p4",
	"medium":    "p4",
	"slow":      "p5",
	"slower":    "p6",
	"veryslow":  "p7",
	"placebo":   "p7",
}

const nvencPresetDefault = "p5"

// BuildEncoderPlan maps the requested encoder, quality, and preset onto a
// concrete argument set. Quality values are clamped and preset names
// translated per family; nothing is passed through unchanged to an encoder
// that does not understand it.
func BuildEncoderPlan(enc config.Encoder, quality float64, preset string) (EncoderPlan, error) {
	spec, ok := families[enc]
	if !ok {
		return EncoderPlan{}, fmt.Errorf("%w: %q", ErrUnknownEncoder, enc)
	}

	var args []string
	switch spec.kind {
	case familySoftware:
		// Software path: CRF and preset pass through unmodified.
		args = []string{
			"-c:v", string(enc),
			"-crf", formatQuality(quality),
			"-preset", preset,
		}

	case familyNVENC:
		cq := clampf(quality, spec.qMin, spec.qMax)
		args = []string{
			"-c:v", string(enc),
			"-preset", nvencPreset(preset),
			"-rc", "vbr",
			"-cq", strconv.Itoa(int(math.Round(cq))),
			"-b:v", "0", // No bitrate ceiling; quality anchors the VBR.
		}

	case familyQSV:
		gq := clampf(quality, spec.qMin, spec.qMax)
		args = []string{
			"-c:v", string(enc),
			"-preset", preset,
			"-global_quality", strconv.Itoa(int(math.Round(gq))),
			"-look_ahead", "1",
		}

	case familyAMF:
		qp := strconv.Itoa(int(math.Round(clampf(quality-2, spec.qMin, spec.qMax))))
		args = []string{
			"-c:v", string(enc),
			"-rc", "cqp",
			"-qp_i", qp,
			"-qp_p", qp,
			"-qp_b", qp,
		}
	}

	args = append(args, "-pix_fmt", spec.pixFmt)
	return EncoderPlan{Encoder: enc, Args: args}, nil
}

// PixelFormat returns the output pixel format for an encoder, or "" for an
// unknown identifier.
func PixelFormat(enc config.Encoder) string {
	return families[enc].pixFmt
}

func nvencPreset(name string) string {
	if p, ok := nvencPresets[name]; ok {
		return p
	}
	return nvencPresetDefault
}

// formatQuality renders a CRF value without trailing zeros ("19", "19.5").
func formatQuality(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
