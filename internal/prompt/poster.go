// Package prompt assembles the text sent to the generative services: the
// concept instruction for the text model and the bounded poster prompt for the
// image model. Everything here is pure; randomness comes from the caller.
package prompt

import (
	"strings"

	"posterforge/internal/catalog"
)

// CompositionControls closes every poster prompt.
const CompositionControls = "single cohesive scene, strong focal subject, negative space at top and bottom for title placement, no text, no letters, no watermarks, no logos, no borders"

// DefaultDecade is assumed when a concept carries no decade.
const DefaultDecade = catalog.Decade1980s

const fragmentSep = ". "

// Limits bounds the poster prompt, counted in characters (runes).
type Limits struct {
	MaxBeats  int // visual beats fragment
	MaxPrompt int // whole assembled prompt
}

// DefaultLimits returns the limits used when configuration leaves them unset.
func DefaultLimits() Limits {
	return Limits{MaxBeats: 180, MaxPrompt: 400}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxBeats <= 0 {
		l.MaxBeats = d.MaxBeats
	}
	if l.MaxPrompt <= 0 {
		l.MaxPrompt = d.MaxPrompt
	}
	return l
}

// PosterInput is the subset of a concept that shapes the poster.
type PosterInput struct {
	Genre          string
	Decade         string
	ArtStyle       string
	VisualElements string
}

// Poster builds "medium. mood. beats. era cue. controls." within lim.
//
// The visual beats are the only free-text fragment, so they absorb the length
// budget: they are cut to whatever room the fixed fragments leave, and the
// closing controls clause is never truncated.
func Poster(in PosterInput, lim Limits) string {
	lim = lim.withDefaults()

	decade := strings.TrimSpace(in.Decade)
	if decade == "" {
		decade = string(DefaultDecade)
	}
	d, ok := catalog.ParseDecade(decade)
	if !ok {
		d = catalog.Decade(decade)
	}

	medium := catalog.ParseArtStyle(in.ArtStyle).Medium(d)
	mood := catalog.Mood(in.Genre)
	era := d.EraCue()

	fixed := []string{medium, mood, era, CompositionControls}
	overhead := 1 // trailing "."
	for _, f := range fixed {
		overhead += runeLen(f) + len(fragmentSep)
	}
	overhead -= len(fragmentSep)

	budget := min(lim.MaxBeats, lim.MaxPrompt-overhead-len(fragmentSep))
	beats := truncate(CollapseSpace(in.VisualElements), budget)
	beats = strings.TrimSpace(beats)

	parts := []string{medium, mood}
	if beats != "" {
		parts = append(parts, beats)
	}
	parts = append(parts, era, CompositionControls)

	return truncate(strings.Join(parts, fragmentSep)+".", lim.MaxPrompt)
}

// CollapseSpace replaces every run of whitespace with one space and trims the ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func runeLen(s string) int { return len([]rune(s)) }

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
