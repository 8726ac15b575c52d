package catalog

import "strings"

// MaxHashtags bounds the hashtag line of a caption.
const MaxHashtags = 25

var (
	baseHashtags = []string{
		"#AIart", "#MoviePoster", "#GenerativeAI", "#FilmDesign",
		"#CinematicArt", "#ArtificialIntelligence", "#DigitalArt", "#MovieMagic",
	}
	creativeHashtags = []string{
		"#PosterDesign", "#ConceptArt", "#VisualEffects", "#CreativeAI",
		"#Cinema", "#Entertainment", "#ArtLovers", "#DesignInspiration",
	}
)

// Hashtags returns the unshuffled hashtag pool for a concept's genre and decade.
func Hashtags(genre, decade string) []string {
	tags := make([]string, 0, 40)
	tags = append(tags, baseHashtags...)

	if genre != "" {
		g := strings.ToLower(genre)
		if strings.Contains(g, "horror") {
			tags = append(tags, "#Horror", "#ScaryMovies", "#HorrorArt")
		}
		if strings.Contains(g, "sci-fi") || strings.Contains(g, "science fiction") {
			tags = append(tags, "#SciFi", "#ScienceFiction", "#Futuristic")
		}
		if strings.Contains(g, "thriller") {
			tags = append(tags, "#Thriller", "#Suspense")
		}
		if strings.Contains(g, "action") {
			tags = append(tags, "#Action", "#ActionMovies")
		}
	}

	if decade != "" {
		tags = append(tags, "#"+decade)
		switch Decade(decade) {
		case Decade1980s:
			tags = append(tags, "#Retro", "#80sAesthetic", "#Neon")
		case Decade1950s:
			tags = append(tags, "#Vintage", "#Classic", "#FilmNoir")
		}
	}

	return append(tags, creativeHashtags...)
}
