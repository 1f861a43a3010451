// Package config holds runtime configuration: defaults, the optional YAML
// settings file, CLI flag parsing, and validation. All defaults match the
// legacy batch script behavior for parity.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// --- Enum types for validated string fields ---

// Encoder identifies the video encoder handed to ffmpeg. The set is fixed:
// the software path plus h264/hevc pairs for the NVENC, QSV, and AMF
// hardware families.
type Encoder string

const (
	EncoderX264      Encoder = "libx264"   // Software encoding (default, always available).
	EncoderH264NVENC Encoder = "h264_nvenc"
	EncoderHEVCNVENC Encoder = "hevc_nvenc"
	EncoderH264QSV   Encoder = "h264_qsv"
	EncoderHEVCQSV   Encoder = "hevc_qsv"
	EncoderH264AMF   Encoder = "h264_amf"
	EncoderHEVCAMF   Encoder = "hevc_amf"
)

// Encoders lists the valid encoder identifiers in presentation order.
var Encoders = []Encoder{
	EncoderX264,
	EncoderH264NVENC, EncoderHEVCNVENC,
	EncoderH264QSV, EncoderHEVCQSV,
	EncoderH264AMF, EncoderHEVCAMF,
}

// StabTier selects the single-pass stabilizer intensity when the two-pass
// stabilizer is unavailable.
type StabTier string

const (
	TierOff    StabTier = "off"
	TierMild   StabTier = "mild"
	TierMedium StabTier = "medium" // Fallback for unrecognized tier names.
	TierStrong StabTier = "strong"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// IndexUnset marks a clip index that was neither supplied on the command
// line nor answered at the prompt; the catalog's bounds are used instead.
const IndexUnset = -1

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by a YAML settings file, then mutated by [ParseFlags]
// and the interactive prompt before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Paths.
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`

	// Clip range (set from positional args or the prompt).
	StartIndex int `yaml:"-"`
	EndIndex   int `yaml:"-"`

	// Encoder settings.
	Encoder Encoder `yaml:"encoder"` // Default: libx264.
	Quality float64 `yaml:"quality"` // CRF-like scale; default 19. Clamped per family.
	Preset  string  `yaml:"preset"`  // Default: "slow". Translated per family.

	// Audio/video correction options.
	OffsetMs        int `yaml:"offset_ms"`   // A/V offset; >0 delays audio, <0 pads video.
	HighpassHz      int `yaml:"highpass_hz"` // Default: 120.
	DenoiseStrength int `yaml:"denoise"`     // afftdn noise reduction; default 12.

	// Stabilization.
	Stabilize     bool     `yaml:"stabilize"` // Default: false (opt in).
	StabSmoothing int      `yaml:"smoothing"` // vidstabtransform smoothing; default 12.
	StabTier      StabTier `yaml:"tier"`      // deshake fallback intensity; default medium.

	// Secondary output.
	Archival bool `yaml:"archival"` // Also write an MJPEG/PCM AVI; default false.

	// Behavior flags.
	DryRun         bool `yaml:"-"`
	AcceptDefaults bool `yaml:"-"` // --yes: skip prompts, take every default.

	// Display and logging.
	Verbose      bool      `yaml:"-"`
	ShowProgress bool      `yaml:"show_progress"` // Default: true.
	ColorMode    ColorMode `yaml:"color"`
	LogFile      string    `yaml:"log_file"`
	CheckOnly    bool      `yaml:"-"`
	ConfigFile   string    `yaml:"-"` // Path of the loaded settings file, if any.
}

// DefaultConfig returns a Config with all defaults matching the legacy
// batch script. Used as the base before the settings file and CLI flags
// apply overrides.
func DefaultConfig() Config {
	return Config{
		InputDir:        ".",
		OutputDir:       ".",
		StartIndex:      IndexUnset,
		EndIndex:        IndexUnset,
		Encoder:         EncoderX264,
		Quality:         19,
		Preset:          "slow",
		OffsetMs:        0,
		HighpassHz:      120,
		DenoiseStrength: 12,
		Stabilize:       false,
		StabSmoothing:   12,
		StabTier:        TierMedium,
		Archival:        false,
		ShowProgress:    true,
		ColorMode:       ColorAuto,
	}
}

// Validate checks that enum fields hold valid values and that a supplied
// clip range is ordered. Range emptiness against the catalog is checked
// later, once the clips are discovered.
func (c *Config) Validate() error {
	if !ValidEncoder(c.Encoder) {
		return fmt.Errorf("invalid encoder %q (use one of: %s)", c.Encoder, encoderList())
	}

	switch c.StabTier {
	case TierOff, TierMild, TierMedium, TierStrong:
		// valid
	default:
		return errors.New("invalid stabilizer tier (use 'off', 'mild', 'medium' or 'strong')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.StartIndex != IndexUnset && c.EndIndex != IndexUnset && c.StartIndex > c.EndIndex {
		return fmt.Errorf("invalid clip range: start %d > end %d", c.StartIndex, c.EndIndex)
	}
	return nil
}

// ValidEncoder reports whether e is one of the fixed encoder identifiers.
func ValidEncoder(e Encoder) bool {
	for _, known := range Encoders {
		if e == known {
			return true
		}
	}
	return false
}

func encoderList() string {
	names := make([]string, len(Encoders))
	for i, e := range Encoders {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an
// empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}
