package config

// This file implements CLI flag parsing and help text.
// The two positional arguments are the optional start and end clip indices;
// when omitted they are collected interactively with catalog-derived defaults.

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag, malformed index).
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("clipstitch", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	var (
		showHelp    bool
		showVersion bool
		forceColor  bool
		noColor     bool
		noProgress  bool
	)

	fs.StringVar(&cfg.InputDir, "input", cfg.InputDir, "Directory containing the numbered clips")
	fs.StringVar(&cfg.InputDir, "i", cfg.InputDir, "Same as --input")
	fs.StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "Directory for the merged output")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "Same as --output")

	fs.Var(&encoderValue{&cfg.Encoder}, "encoder", "Video encoder: libx264 | h264_nvenc | hevc_nvenc | h264_qsv | hevc_qsv | h264_amf | hevc_amf")
	fs.Var(&encoderValue{&cfg.Encoder}, "e", "Same as --encoder")
	fs.Float64Var(&cfg.Quality, "quality", cfg.Quality, "CRF-like quality value (lower = better)")
	fs.Float64Var(&cfg.Quality, "q", cfg.Quality, "Same as --quality")
	fs.StringVar(&cfg.Preset, "preset", cfg.Preset, "Encoder preset (e.g. slow, medium)")
	fs.StringVar(&cfg.Preset, "p", cfg.Preset, "Same as --preset")

	fs.IntVar(&cfg.OffsetMs, "offset", cfg.OffsetMs, "A/V offset in ms (>0 delays audio, <0 pads video)")
	fs.IntVar(&cfg.HighpassHz, "highpass", cfg.HighpassHz, "Audio high-pass cutoff in Hz")
	fs.IntVar(&cfg.DenoiseStrength, "denoise", cfg.DenoiseStrength, "Audio noise reduction strength")

	fs.BoolVar(&cfg.Stabilize, "stabilize", cfg.Stabilize, "Enable video stabilization")
	fs.IntVar(&cfg.StabSmoothing, "smoothing", cfg.StabSmoothing, "Two-pass stabilizer smoothing factor")
	fs.Var(&stabTierValue{&cfg.StabTier}, "tier", "Single-pass stabilizer intensity: off | mild | medium | strong")

	fs.BoolVar(&cfg.Archival, "archival", cfg.Archival, "Also write an archival MJPEG AVI")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Print the planned commands without running them")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.BoolVar(&cfg.AcceptDefaults, "yes", false, "Accept every option default without prompting")
	fs.BoolVar(&cfg.AcceptDefaults, "y", false, "Same as --yes")

	fs.BoolVar(&forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&noProgress, "no-progress", false, "Disable the live transcode progress bar")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output (full ffmpeg logs)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Settings file (default: clipstitch.yaml in the input dir)")

	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&showVersion, "V", false, "Same as --version")
	fs.BoolVar(&showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&showHelp, "h", false, "Same as --help")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if showVersion {
		fmt.Fprintln(os.Stdout, "clipstitch v"+version)
		os.Exit(0)
	}

	if noColor {
		cfg.ColorMode = ColorNever
	} else if forceColor {
		cfg.ColorMode = ColorAlways
	}
	if noProgress {
		cfg.ShowProgress = false
	}

	cfg.InputDir = NormalizeDirArg(cfg.InputDir)
	cfg.OutputDir = NormalizeDirArg(cfg.OutputDir)

	return parsePositionalArgs(fs, cfg)
}

// PeekConfigPath scans raw arguments for --config before full flag parsing,
// so the settings file can be loaded first and flags keep precedence over it.
func PeekConfigPath(args []string) string {
	return peekFlag(args, "config")
}

// PeekInputDir scans raw arguments for -i/--input, needed to locate the
// default settings file before full flag parsing.
func PeekInputDir(args []string) string {
	return peekFlag(args, "input", "i")
}

func peekFlag(args []string, names ...string) string {
	for i, a := range args {
		for _, name := range names {
			switch {
			case a == "--"+name || a == "-"+name:
				if i+1 < len(args) {
					return args[i+1]
				}
			case strings.HasPrefix(a, "--"+name+"="):
				return strings.TrimPrefix(a, "--"+name+"=")
			case strings.HasPrefix(a, "-"+name+"="):
				return strings.TrimPrefix(a, "-"+name+"=")
			}
		}
	}
	return ""
}

// parsePositionalArgs reads the optional start and end clip indices.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if len(args) > 2 {
		return fmt.Errorf("at most two positional arguments (start end), got %d", len(args))
	}
	if len(args) >= 1 {
		n, err := parseIndex(args[0], "start index")
		if err != nil {
			return err
		}
		cfg.StartIndex = n
	}
	if len(args) == 2 {
		n, err := parseIndex(args[1], "end index")
		if err != nil {
			return err
		}
		cfg.EndIndex = n
	}
	return nil
}

// parseIndex parses a positional clip index; returns a clear error on failure.
func parseIndex(s, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative whole number (got %q)", name, s)
	}
	return n, nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "ClipStitch v" + version + " — merge numbered camera clips into one cleaned-up movie"},
		{"", ""},
		{"  clipstitch [OPTIONS] [start] [end]", ""},
		{"", ""},
		{"Input & output", ""},
		{"  -i, --input <dir>", "Clip directory (default: .)"},
		{"  -o, --output <dir>", "Output directory (default: .)"},
		{"  [start] [end]", "Clip index range; prompted when omitted"},
		{"", ""},
		{"Encoding", ""},
		{"  -e, --encoder <name>", "libx264 (default) or a hardware h264/hevc variant"},
		{"  -q, --quality <value>", "CRF-like quality (default: 19)"},
		{"  -p, --preset <name>", "Encoder preset (default: slow)"},
		{"", ""},
		{"Cleanup", ""},
		{"  --offset <ms>", "Constant A/V offset compensation (default: 0)"},
		{"  --highpass <hz>", "Audio high-pass cutoff (default: 120)"},
		{"  --denoise <n>", "Audio noise reduction strength (default: 12)"},
		{"  --stabilize", "Enable video stabilization (two-pass when available)"},
		{"  --smoothing <n>", "Two-pass stabilizer smoothing (default: 12)"},
		{"  --tier <name>", "Single-pass fallback intensity (default: medium)"},
		{"", ""},
		{"Output & behavior", ""},
		{"  --archival", "Also write an archival MJPEG AVI"},
		{"  -d, --dry-run", "Preview only; do not transcode"},
		{"  -y, --yes", "Accept all option defaults without prompting"},
		{"  --config <path>", "YAML settings file"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  --no-progress", "Disable the live progress bar"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (ffmpeg, encoders, filters)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters so the enum types (Encoder, StabTier) work with flag.Var.

type encoderValue struct{ p *Encoder }

func (e *encoderValue) String() string {
	if e.p == nil {
		return ""
	}
	return string(*e.p)
}

func (e *encoderValue) Set(s string) error {
	enc := Encoder(strings.ToLower(strings.TrimSpace(s)))
	if !ValidEncoder(enc) {
		return fmt.Errorf("invalid encoder %q", s)
	}
	*e.p = enc
	return nil
}

type stabTierValue struct{ p *StabTier }

func (t *stabTierValue) String() string {
	if t.p == nil {
		return ""
	}
	return string(*t.p)
}

func (t *stabTierValue) Set(s string) error {
	switch StabTier(strings.ToLower(strings.TrimSpace(s))) {
	case TierOff:
		*t.p = TierOff
	case TierMild:
		*t.p = TierMild
	case TierMedium:
		*t.p = TierMedium
	case TierStrong:
		*t.p = TierStrong
	default:
		return fmt.Errorf("invalid stabilizer tier %q", s)
	}
	return nil
}
