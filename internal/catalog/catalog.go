// Package catalog discovers the numbered input clips, parses their indices,
// and resolves the user-selected sub-range.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// Clip naming convention: PREFIX + digits + ".avi". The digit run carries
// both the numeric index and the zero-padding width used for output names.
const (
	Prefix    = "MOVI"
	Extension = ".avi"
)

var clipPattern = regexp.MustCompile(`^(?i)` + Prefix + `(\d+)\` + Extension + `$`)

// Sentinel errors for catalog and selection failures. All are fatal for
// the run.
var (
	ErrNoClips      = errors.New("no clips found")
	ErrEmptyRange   = errors.New("no clips in the requested range")
	ErrInvalidRange = errors.New("invalid range: start > end")
)

// Clip is one discovered input file. Immutable once discovered; identity is
// the numeric index.
type Clip struct {
	Name     string
	Path     string // Absolute path.
	Index    int
	PadWidth int // Digit-run width as written in the filename.
	ModTime  time.Time
	Size     int64
}

// Catalog holds the discovered clips sorted ascending by index.
type Catalog struct {
	Clips []Clip
}

// Discover lists dir for files matching the clip pattern and returns a
// catalog sorted by index. Non-matching filenames are ignored. When two
// files parse to the same index (e.g. "MOVI7.avi" and "MOVI007.avi") the
// first in directory order wins. Returns ErrNoClips when nothing matches.
func Discover(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read clip directory %s: %w", dir, err)
	}

	seen := make(map[int]bool)
	var clips []Clip
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := clipPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue // Digit run too long for an int; not a real clip.
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true

		abs, err := filepath.Abs(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		fi, err := e.Info()
		if err != nil {
			return nil, err
		}
		clips = append(clips, Clip{
			Name:     e.Name(),
			Path:     abs,
			Index:    idx,
			PadWidth: len(m[1]),
			ModTime:  fi.ModTime(),
			Size:     fi.Size(),
		})
	}

	if len(clips) == 0 {
		return nil, fmt.Errorf("%w in %s (expected %s<digits>%s)", ErrNoClips, dir, Prefix, Extension)
	}

	sort.Slice(clips, func(i, j int) bool { return clips[i].Index < clips[j].Index })
	return &Catalog{Clips: clips}, nil
}

// Bounds returns the minimum and maximum clip indices. These are the
// defaults for an unspecified selection range.
func (c *Catalog) Bounds() (min, max int) {
	return c.Clips[0].Index, c.Clips[len(c.Clips)-1].Index
}

// PadWidth returns the zero-padding width taken from the first clip's
// digit run. Used for display and derived output names; deliberately not
// recomputed per clip.
func (c *Catalog) PadWidth() int {
	return c.Clips[0].PadWidth
}

// Select returns the clips with index in [start, end], sorted ascending.
// Returns ErrInvalidRange when start > end and ErrEmptyRange when no clip
// falls inside the range.
func (c *Catalog) Select(start, end int) ([]Clip, error) {
	if start > end {
		return nil, fmt.Errorf("%w (%d > %d)", ErrInvalidRange, start, end)
	}
	var selected []Clip
	for _, clip := range c.Clips {
		if clip.Index >= start && clip.Index <= end {
			selected = append(selected, clip)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w [%d, %d]", ErrEmptyRange, start, end)
	}
	return selected, nil
}
