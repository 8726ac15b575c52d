package catalog

import "strings"

// ArtStyle selects the rendering medium of a poster.
type ArtStyle string

const (
	ArtStylePainted   ArtStyle = "painted"
	ArtStyleBMovie    ArtStyle = "b-movie"
	ArtStylePhoto     ArtStyle = "photo"
	ArtStyleAuthentic ArtStyle = "authentic"
)

// GenericStyleMedium is used for art styles outside the enumeration.
const GenericStyleMedium = "era-authentic movie poster art"

// ParseArtStyle normalizes s. An empty value resolves to ArtStyleAuthentic.
func ParseArtStyle(s string) ArtStyle {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ArtStyleAuthentic
	}
	return ArtStyle(s)
}

// Valid reports whether s is one of the four supported styles.
func (s ArtStyle) Valid() bool {
	switch s {
	case ArtStylePainted, ArtStyleBMovie, ArtStylePhoto, ArtStyleAuthentic:
		return true
	default:
		return false
	}
}

// Medium returns the medium phrase for the style. The authentic style defers
// to the decade's own medium.
func (s ArtStyle) Medium(d Decade) string {
	switch s {
	case ArtStylePainted:
		return "hand-painted movie poster, visible brushwork, artistic illustration"
	case ArtStyleBMovie:
		return "exaggerated B-movie poster art, pulp magazine style, over-the-top dramatic, sensationalized imagery"
	case ArtStylePhoto:
		return "cinematic portrait photograph, professional movie lighting"
	case ArtStyleAuthentic:
		return d.AuthenticMedium()
	default:
		return GenericStyleMedium
	}
}
