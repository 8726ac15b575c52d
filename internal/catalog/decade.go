// Package catalog holds the static lookup tables that drive prompt assembly and
// recommendations: decades, art styles, genre moods, song candidates and hashtags.
//
// Every table is keyed by a closed enumeration and resolved through a switch with
// an explicit default, so adding a new member without a phrase is caught in review
// and never produces an empty fragment at runtime.
package catalog

import "strings"

// Decade is one of the eight supported era labels.
type Decade string

const (
	Decade1950s Decade = "1950s"
	Decade1960s Decade = "1960s"
	Decade1970s Decade = "1970s"
	Decade1980s Decade = "1980s"
	Decade1990s Decade = "1990s"
	Decade2000s Decade = "2000s"
	Decade2010s Decade = "2010s"
	Decade2020s Decade = "2020s"
)

// Decades lists every supported decade in chronological order.
var Decades = []Decade{
	Decade1950s,
	Decade1960s,
	Decade1970s,
	Decade1980s,
	Decade1990s,
	Decade2000s,
	Decade2010s,
	Decade2020s,
}

const (
	// GenericMedium is used when a decade has no authentic medium.
	GenericMedium = "professional movie poster art"
	// GenericEraCue is used when a decade has no era cue.
	GenericEraCue = "modern cinematic style"
)

// ParseDecade matches s against the supported labels, ignoring surrounding
// whitespace and case.
func ParseDecade(s string) (Decade, bool) {
	d := Decade(strings.ToLower(strings.TrimSpace(s)))
	return d, d.Valid()
}

// Valid reports whether d is one of the eight supported decades.
func (d Decade) Valid() bool {
	switch d {
	case Decade1950s, Decade1960s, Decade1970s, Decade1980s,
		Decade1990s, Decade2000s, Decade2010s, Decade2020s:
		return true
	default:
		return false
	}
}

func (d Decade) String() string { return string(d) }

// AuthenticMedium returns the poster medium that was typical for the decade.
func (d Decade) AuthenticMedium() string {
	switch d {
	case Decade1950s:
		return "hand-painted gouache poster art, classic Hollywood illustration"
	case Decade1960s:
		return "painted poster art, psychedelic illustration style"
	case Decade1970s:
		return "airbrush poster art, painted illustration"
	case Decade1980s:
		return "painted poster art with photographic elements"
	case Decade1990s:
		return "professional movie poster photography"
	case Decade2000s:
		return "digital photography, high-end commercial photography"
	case Decade2010s:
		return "IMAX quality photography, modern cinematography"
	case Decade2020s:
		return "ultra-high definition photography, premium commercial"
	default:
		return GenericMedium
	}
}

// EraCue returns the color and grain cues associated with the decade.
func (d Decade) EraCue() string {
	switch d {
	case Decade1950s:
		return "vintage film grain, classic Hollywood glamour"
	case Decade1960s:
		return "retro palettes, psychedelic color schemes"
	case Decade1970s:
		return "earth tones, gritty realism"
	case Decade1980s:
		return "high contrast rim lighting, neon accents"
	case Decade1990s:
		return "MTV aesthetics, bold composition"
	case Decade2000s:
		return "digital clarity, modern color grading"
	case Decade2010s:
		return "IMAX quality, contemporary cinematography"
	case Decade2020s:
		return "ultra-high definition, premium production value"
	default:
		return GenericEraCue
	}
}
