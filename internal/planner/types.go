// Package planner builds the encoder argument plan and the ordered audio and
// video filter chains that the ffmpeg package serializes into a command.
package planner

import "strings"

// Stage is one filter-chain entry: a filter name plus its parameter string.
// Chains are ordered lists of stages; order is semantically significant and
// serialized exactly as built.
type Stage struct {
	Name   string
	Params string
}

// String renders the stage in ffmpeg's filter grammar ("name=params" or
// bare "name").
func (s Stage) String() string {
	if s.Params == "" {
		return s.Name
	}
	return s.Name + "=" + s.Params
}

// Chain is an ordered sequence of filter stages.
type Chain []Stage

// Serialize joins the chain into ffmpeg's comma-separated filter grammar.
// Returns "" for an empty chain. This is the only point where stages become
// text; everything upstream works on the typed descriptors.
func (c Chain) Serialize() string {
	if len(c) == 0 {
		return ""
	}
	parts := make([]string, len(c))
	for i, s := range c {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}

// Names returns the stage names in order. Test helper for order assertions
// and used by the pipeline for debug logging.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, s := range c {
		names[i] = s.Name
	}
	return names
}
