// Package prompt collects the run options interactively. It is a pure
// adapter: every answer lands in the Config struct, and the pipeline never
// touches prompt state. Each option has a statically known default; empty
// or whitespace-only input keeps the default. Values are parsed leniently
// here — clamping and capability checks belong to the consumers.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/backmassage/clipstitch/internal/config"
)

// option is one (key, prompt, default) triple plus the parser storing the
// answer into the config.
type option struct {
	key    string
	prompt string
	def    string
	apply  func(cfg *config.Config, value string)
}

// Collect asks for every run option not already fixed on the command line.
// minIdx/maxIdx are the catalog bounds, used as the range defaults. With
// cfg.AcceptDefaults set, nothing is read and every default is applied
// as-is.
func Collect(cfg *config.Config, minIdx, maxIdx int, in io.Reader, out io.Writer) error {
	opts := options(cfg, minIdx, maxIdx)
	reader := bufio.NewReader(in)

	for _, o := range opts {
		value := o.def
		if !cfg.AcceptDefaults {
			fmt.Fprintf(out, "%s [%s]: ", o.prompt, o.def)
			line, err := reader.ReadString('\n')
			if err != nil && err != io.EOF {
				return fmt.Errorf("read option %s: %w", o.key, err)
			}
			if answer := strings.TrimSpace(line); answer != "" {
				value = answer
			}
			if err == io.EOF {
				cfg.AcceptDefaults = true // Input exhausted; defaults from here on.
			}
		}
		o.apply(cfg, value)
	}
	return nil
}

// options returns the fixed option list. Range prompts are included only
// when the index was not already supplied as a positional argument.
func options(cfg *config.Config, minIdx, maxIdx int) []option {
	var opts []option

	if cfg.StartIndex == config.IndexUnset {
		opts = append(opts, option{
			key: "start", prompt: "First clip index", def: strconv.Itoa(minIdx),
			apply: func(c *config.Config, v string) { applyInt(&c.StartIndex, v) },
		})
	}
	if cfg.EndIndex == config.IndexUnset {
		opts = append(opts, option{
			key: "end", prompt: "Last clip index", def: strconv.Itoa(maxIdx),
			apply: func(c *config.Config, v string) { applyInt(&c.EndIndex, v) },
		})
	}

	return append(opts,
		option{
			key: "encoder", prompt: "Video encoder", def: string(cfg.Encoder),
			apply: func(c *config.Config, v string) {
				if enc := config.Encoder(strings.ToLower(v)); config.ValidEncoder(enc) {
					c.Encoder = enc
				}
			},
		},
		option{
			key: "quality", prompt: "Quality (CRF, lower is better)", def: trimFloat(cfg.Quality),
			apply: func(c *config.Config, v string) { applyFloat(&c.Quality, v) },
		},
		option{
			key: "preset", prompt: "Encoder preset", def: cfg.Preset,
			apply: func(c *config.Config, v string) { c.Preset = v },
		},
		option{
			key: "offset", prompt: "A/V offset in ms (+ delays audio, - pads video)", def: strconv.Itoa(cfg.OffsetMs),
			apply: func(c *config.Config, v string) { applyInt(&c.OffsetMs, v) },
		},
		option{
			key: "highpass", prompt: "High-pass cutoff in Hz", def: strconv.Itoa(cfg.HighpassHz),
			apply: func(c *config.Config, v string) { applyInt(&c.HighpassHz, v) },
		},
		option{
			key: "denoise", prompt: "Noise reduction strength", def: strconv.Itoa(cfg.DenoiseStrength),
			apply: func(c *config.Config, v string) { applyInt(&c.DenoiseStrength, v) },
		},
		option{
			key: "stabilize", prompt: "Stabilize video (y/n)", def: boolAnswer(cfg.Stabilize),
			apply: func(c *config.Config, v string) { applyBool(&c.Stabilize, v) },
		},
		option{
			key: "smoothing", prompt: "Stabilizer smoothing", def: strconv.Itoa(cfg.StabSmoothing),
			apply: func(c *config.Config, v string) { applyInt(&c.StabSmoothing, v) },
		},
		option{
			key: "tier", prompt: "Fallback stabilizer intensity (off/mild/medium/strong)", def: string(cfg.StabTier),
			apply: func(c *config.Config, v string) { c.StabTier = config.StabTier(strings.ToLower(v)) },
		},
		option{
			key: "archival", prompt: "Also write archival AVI (y/n)", def: boolAnswer(cfg.Archival),
			apply: func(c *config.Config, v string) { applyBool(&c.Archival, v) },
		},
	)
}

// applyInt stores the parsed value, keeping the destination untouched when
// the input does not parse.
func applyInt(dst *int, v string) {
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		*dst = n
	}
}

func applyFloat(dst *float64, v string) {
	if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
		*dst = f
	}
}

func applyBool(dst *bool, v string) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "true", "1":
		*dst = true
	case "n", "no", "false", "0":
		*dst = false
	}
}

func boolAnswer(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
