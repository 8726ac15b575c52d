package orchestrator

import "posterforge/internal/catalog"

// Concept is a generated movie concept. JSON names match the text model's
// output schema; ArtStyle is supplied by callers, never by the model.
// Optional fields the model left out stay out of the encoded envelope.
type Concept struct {
	Decade         string   `json:"decade"`
	Genre          string   `json:"genre"`
	Title          string   `json:"title"`
	Tagline        string   `json:"tagline,omitempty"`
	Synopsis       string   `json:"synopsis,omitempty"`
	VisualElements string   `json:"visual_elements"`
	Cast           []string `json:"cast,omitempty"`
	Director       string   `json:"director,omitempty"`
	ArtStyle       string   `json:"artStyle,omitempty"`
}

type ConceptResult struct {
	Success bool    `json:"success"`
	Concept Concept `json:"concept"`
}

// ImageResult carries the poster as a data URL. A Degraded result points
// ImageURL at the provider's remote reference instead and is never cached.
type ImageResult struct {
	Success       bool   `json:"success"`
	ImageURL      string `json:"imageUrl"`
	OriginalURL   string `json:"originalUrl,omitempty"`
	RevisedPrompt string `json:"revisedPrompt,omitempty"`
	Degraded      bool   `json:"degraded,omitempty"`
}

type RecommendationResult struct {
	Success bool         `json:"success"`
	Song    catalog.Song `json:"song"`
}

type CaptionResult struct {
	Success bool   `json:"success"`
	Caption string `json:"caption"`
}
