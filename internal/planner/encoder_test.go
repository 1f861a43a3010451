package planner

import (
	"errors"
	"strconv"
	"testing"

	"github.com/backmassage/clipstitch/internal/config"
)

// argValue returns the argument following key, or "" when absent.
func argValue(args []string, key string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == key {
			return args[i+1]
		}
	}
	return ""
}

func TestBuildEncoderPlan_Software(t *testing.T) {
	tests := []struct {
		name    string
		quality float64
		wantCRF string
	}{
		{"in band", 19, "19"},
		{"fractional", 19.5, "19.5"},
		{"never clamped low", 5, "5"},
		{"never clamped high", 45, "45"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := BuildEncoderPlan(config.EncoderX264, tt.quality, "veryslow")
			if err != nil {
				t.Fatalf("BuildEncoderPlan() error = %v", err)
			}
			if got := argValue(plan.Args, "-crf"); got != tt.wantCRF {
				t.Errorf("-crf = %q, want %q", got, tt.wantCRF)
			}
			if got := argValue(plan.Args, "-preset"); got != "veryslow" {
				t.Errorf("-preset = %q, want passthrough veryslow", got)
			}
			if got := argValue(plan.Args, "-pix_fmt"); got != "yuv420p" {
				t.Errorf("-pix_fmt = %q, want yuv420p", got)
			}
		})
	}
}

func TestBuildEncoderPlan_NVENC(t *testing.T) {
	tests := []struct {
		name    string
		enc     config.Encoder
		quality float64
		preset  string
		wantCQ  string
		wantP   string
	}{
		{"in band with slow", config.EncoderH264NVENC, 19, "slow", "19", "p5"},
		{"clamped low", config.EncoderH264NVENC, 5, "medium", "15", "p4"},
		{"clamped high h264", config.EncoderH264NVENC, 40, "ultrafast", "28", "p1"},
		{"hevc wider band", config.EncoderHEVCNVENC, 40, "placebo", "30", "p7"},
		{"unknown preset defaults", config.EncoderH264NVENC, 20, "custom-tune", "20", "p5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := BuildEncoderPlan(tt.enc, tt.quality, tt.preset)
			if err != nil {
				t.Fatalf("BuildEncoderPlan() error = %v", err)
			}
			if got := argValue(plan.Args, "-cq"); got != tt.wantCQ {
				t.Errorf("-cq = %q, want %q", got, tt.wantCQ)
			}
			if got := argValue(plan.Args, "-preset"); got != tt.wantP {
				t.Errorf("-preset = %q, want %q", got, tt.wantP)
			}
			if got := argValue(plan.Args, "-rc"); got != "vbr" {
				t.Errorf("-rc = %q, want vbr", got)
			}
			if got := argValue(plan.Args, "-b:v"); got != "0" {
				t.Errorf("-b:v = %q, want 0 (no bitrate ceiling)", got)
			}
			if got := argValue(plan.Args, "-pix_fmt"); got != "nv12" {
				t.Errorf("-pix_fmt = %q, want nv12", got)
			}
		})
	}
}

func TestBuildEncoderPlan_ClampMonotonic(t *testing.T) {
	// Any quality outside [15,28] maps to the nearest bound; inside passes
	// through. Checked across the whole sanity range for the 8-bit profile.
	prev := -1
	for q := 0; q <= 51; q++ {
		plan, err := BuildEncoderPlan(config.EncoderH264NVENC, float64(q), "slow")
		if err != nil {
			t.Fatal(err)
		}
		got := argValue(plan.Args, "-cq")
		cq, err := strconv.Atoi(got)
		if err != nil {
			t.Fatalf("bad -cq %q: %v", got, err)
		}
		if cq < 15 || cq > 28 {
			t.Fatalf("quality %d → cq %d outside [15,28]", q, cq)
		}
		if cq < prev {
			t.Fatalf("clamp not monotonic: quality %d → cq %d after %d", q, cq, prev)
		}
		prev = cq
	}
}

func TestBuildEncoderPlan_QSV(t *testing.T) {
	plan, err := BuildEncoderPlan(config.EncoderHEVCQSV, 35, "fast")
	if err != nil {
		t.Fatalf("BuildEncoderPlan() error = %v", err)
	}
	if got := argValue(plan.Args, "-global_quality"); got != "30" {
		t.Errorf("-global_quality = %q, want clamped 30", got)
	}
	if got := argValue(plan.Args, "-look_ahead"); got != "1" {
		t.Errorf("-look_ahead = %q, want 1", got)
	}
	if got := argValue(plan.Args, "-pix_fmt"); got != "nv12" {
		t.Errorf("-pix_fmt = %q, want nv12", got)
	}
}

func TestBuildEncoderPlan_AMF(t *testing.T) {
	tests := []struct {
		name    string
		enc     config.Encoder
		quality float64
		wantQP  string
	}{
		{"derived qp", config.EncoderH264AMF, 20, "18"},
		{"rounded", config.EncoderH264AMF, 20.4, "18"},
		{"clamped low", config.EncoderH264AMF, 10, "15"},
		{"clamped high h264", config.EncoderH264AMF, 45, "28"},
		{"clamped high hevc", config.EncoderHEVCAMF, 45, "30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := BuildEncoderPlan(tt.enc, tt.quality, "slow")
			if err != nil {
				t.Fatalf("BuildEncoderPlan() error = %v", err)
			}
			if got := argValue(plan.Args, "-rc"); got != "cqp" {
				t.Errorf("-rc = %q, want cqp", got)
			}
			for _, key := range []string{"-qp_i", "-qp_p", "-qp_b"} {
				if got := argValue(plan.Args, key); got != tt.wantQP {
					t.Errorf("%s = %q, want %q", key, got, tt.wantQP)
				}
			}
			if got := argValue(plan.Args, "-pix_fmt"); got != "yuv420p" {
				t.Errorf("-pix_fmt = %q, want yuv420p", got)
			}
		})
	}
}

func TestBuildEncoderPlan_Unknown(t *testing.T) {
	_, err := BuildEncoderPlan(config.Encoder("librav1e"), 19, "slow")
	if !errors.Is(err, ErrUnknownEncoder) {
		t.Fatalf("BuildEncoderPlan() error = %v, want ErrUnknownEncoder", err)
	}
}
