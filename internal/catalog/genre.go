package catalog

import "strings"

// GenericMood is used when no known genre substring matches.
const GenericMood = "dramatic cinematic lighting"

// moods is checked in order; the first substring found in the genre wins.
var moods = []struct {
	key    string
	phrase string
}{
	{"horror", "chiaroscuro lighting, practical effects makeup, gothic atmosphere"},
	{"sci-fi", "volumetric lighting, metallic surfaces, lens flares, clean futuristic design"},
	{"thriller", "noir lighting, urban decay, dramatic shadows"},
	{"action", "dynamic composition, motion blur, explosive lighting"},
	{"drama", "natural portrait lighting, emotional depth"},
	{"comedy", "bright lighting, warm tones, approachable composition"},
}

// MoodKeys returns the mood substrings in priority order.
func MoodKeys() []string {
	keys := make([]string, len(moods))
	for i, m := range moods {
		keys[i] = m.key
	}
	return keys
}

// Mood returns the cinematic terms for the first genre substring found in genre.
func Mood(genre string) string {
	g := strings.ToLower(genre)
	for _, m := range moods {
		if strings.Contains(g, m.key) {
			return m.phrase
		}
	}
	return GenericMood
}

// GenreCategory is the coarse genre bucket used by the song tables.
type GenreCategory string

const (
	GenreHorror  GenreCategory = "horror"
	GenreSciFi   GenreCategory = "sci-fi"
	GenreDefault GenreCategory = "default"
)

// CategoryOf buckets a free-text genre. Horror wins over sci-fi.
func CategoryOf(genre string) GenreCategory {
	g := strings.ToLower(genre)
	switch {
	case strings.Contains(g, string(GenreHorror)):
		return GenreHorror
	case strings.Contains(g, string(GenreSciFi)):
		return GenreSciFi
	default:
		return GenreDefault
	}
}
